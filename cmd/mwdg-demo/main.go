package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"github.com/vpetrigo/mwdg"
	"github.com/vpetrigo/mwdg/mhost"
	"github.com/vpetrigo/mwdg/msup"
)

func main() {
	if err := mainE(); err != nil {
		os.Exit(1)
	}
}

func mainE() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	root := NewRootCmd(logger)
	if err := root.ExecuteContext(ctx); err != nil {
		logger.Info("Failure", "err", err)
		os.Stderr.Sync()
		return err
	}

	return nil
}

func NewRootCmd(log *slog.Logger) *cobra.Command {
	rootCmd := &cobra.Command{
		Use: "mwdg-demo SUBCOMMAND",

		CompletionOptions: cobra.CompletionOptions{HiddenDefaultCmd: true},

		Long: `mwdg-demo simulates an RTOS-style multi-watchdog setup on OS threads.

Worker goroutines register caller-owned watchdog nodes and feed them on
their own cadence; a supervisor polls the engine and reports any watchdog
that was not fed within its timeout.
`,
	}

	rootCmd.AddCommand(
		newRunCmd(log),
	)

	return rootCmd
}

func newRunCmd(log *slog.Logger) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use: "run",

		Short: "Run a watchdog scenario and report expirations",

		Long: `run executes a feeding scenario against a live engine.

Without flags it runs the reference scenario: worker 1 (timeout 100ms)
feeds every 40ms and goes silent at 300ms, worker 2 (timeout 200ms) feeds
every 80ms for the whole 1500ms run. From roughly the 400ms mark every
check pass reports worker 1 as expired; worker 2 never appears.
`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			sc := DefaultScenario()
			if configPath != "" {
				var err error
				sc, err = LoadScenario(configPath)
				if err != nil {
					return err
				}
			}

			return runScenario(cmd.Context(), log, sc)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a YAML scenario file")

	return cmd
}

func runScenario(ctx context.Context, log *slog.Logger, sc Scenario) error {
	eng, err := mwdg.New(mwdg.Config{
		Clock:    mhost.NewMonotonicClock(),
		Critical: new(mhost.Mutex),
	})
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithTimeout(ctx, ms(sc.DurationMs))
	defer cancel()

	sup, sCtx, err := msup.New(runCtx, log.With("sys", "supervisor"), eng, msup.Config{
		Interval: ms(sc.CheckIntervalMs),
		Jitter:   ms(sc.CheckJitterMs),

		// The demo observes the full run, so stalls are reported,
		// not escalated.
		TerminateOnStall: false,
	})
	if err != nil {
		return err
	}
	defer sup.Wait()

	go func() {
		for {
			select {
			case <-sCtx.Done():
				return
			case st := <-sup.Stalls():
				log.Info("Expired watchdogs reported", "ids", st.IDs)
			}
		}
	}()

	// Node storage lives here, in the frame that outlives every worker,
	// matching the caller-owned lifetime the engine requires.
	nodes := make([]mwdg.Node, len(sc.Workers))

	var wg sync.WaitGroup
	for i, wc := range sc.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			feedLoop(sCtx, log.With("worker", wc.ID), eng, &nodes[i], wc)
		}()
	}

	if h, ok := sup.CheckNow(sCtx); ok {
		log.Info("Initial health", "status", h.String())
	}

	<-sCtx.Done()
	wg.Wait()

	// One last direct pass so the summary reflects the end of the run.
	h, err := eng.Check()
	if err != nil {
		return err
	}

	var ids []uint32
	var cur mwdg.Cursor
	for {
		id, ok := eng.NextExpired(&cur)
		if !ok {
			break
		}
		ids = append(ids, id)
	}

	log.Info("Run complete", "final_status", h.String(), "expired_ids", ids)

	for i := range nodes {
		// Workers leave their nodes registered when they stop feeding,
		// exactly so expiry stays observable; release them now.
		if err := eng.Unregister(&nodes[i]); err != nil {
			log.Info("Skipping node cleanup", "worker", sc.Workers[i].ID, "err", err)
		}
	}

	return nil
}

// feedLoop registers a worker's watchdog and feeds it on the configured
// cadence until the context ends or the worker's silent point is reached.
func feedLoop(ctx context.Context, log *slog.Logger, eng *mwdg.Engine, n *mwdg.Node, wc WorkerConfig) {
	if err := eng.Register(n, ms(wc.TimeoutMs)); err != nil {
		log.Error("Failed to register watchdog", "err", err)
		return
	}
	if err := eng.AssignID(n, wc.ID); err != nil {
		log.Error("Failed to assign watchdog id", "err", err)
		return
	}

	log.Info("Registered watchdog", "timeout_ms", wc.TimeoutMs, "feed_every_ms", wc.FeedEveryMs)

	ticker := time.NewTicker(ms(wc.FeedEveryMs))
	defer ticker.Stop()

	var silent <-chan time.Time
	if wc.StopFeedingAfterMs > 0 {
		timer := time.NewTimer(ms(wc.StopFeedingAfterMs))
		defer timer.Stop()
		silent = timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-silent:
			log.Info("Going silent; watchdog will lapse")
			return
		case <-ticker.C:
			if err := eng.Feed(n); err != nil {
				log.Error("Failed to feed watchdog", "err", err)
				return
			}
		}
	}
}
