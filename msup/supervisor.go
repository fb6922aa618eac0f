package msup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/vpetrigo/mwdg"
	"github.com/vpetrigo/mwdg/internal/mchan"
)

// Config controls how a [Supervisor] polls its engine.
type Config struct {
	// The supervisor runs a check pass every Interval + [-Jitter, +Jitter)
	// duration. The jitter range is uniformly distributed.
	// Jitter may be zero for a fixed cadence.
	Interval, Jitter time.Duration

	// TerminateOnStall cancels the supervisor context with a [StallError]
	// cause the first time a pass finds expired watchdogs.
	// When false the supervisor keeps polling and only reports,
	// matching a host that gates its own recovery action.
	TerminateOnStall bool
}

func (c Config) validate() error {
	var err error
	if c.Interval <= 0 {
		err = errors.Join(err, errors.New("Config.Interval must be positive"))
	}

	if c.Jitter < 0 {
		err = errors.Join(err, errors.New("Config.Jitter must not be negative"))
	}

	if c.Jitter > c.Interval {
		err = errors.Join(err, errors.New("Config.Jitter must not exceed Config.Interval"))
	}

	return err
}

// Stall is one unhealthy check pass, as published on [*Supervisor.Stalls].
type Stall struct {
	// Identifiers of the watchdogs found expired during the pass.
	IDs []uint32
}

// Supervisor owns the goroutine that polls an [mwdg.Engine].
type Supervisor struct {
	log *slog.Logger

	eng *mwdg.Engine
	cfg Config

	cancel context.CancelCauseFunc

	checkRequests chan checkRequest
	stalls        chan Stall

	wg sync.WaitGroup
}

// checkRequest is sent from a goroutine calling [*Supervisor.CheckNow]
// to the supervisor's kernel goroutine.
type checkRequest struct {
	// Response to the caller; buffered so the kernel never blocks on it.
	Resp chan mwdg.Health
}

// New returns a Supervisor polling eng per cfg, and a context derived from
// ctx that is canceled when the supervisor terminates the system.
//
// The kernel goroutine stops when ctx is canceled; use [*Supervisor.Wait]
// to block until it has fully wound down.
func New(ctx context.Context, log *slog.Logger, eng *mwdg.Engine, cfg Config) (*Supervisor, context.Context, error) {
	if eng == nil {
		return nil, nil, errors.New("nil engine")
	}
	if err := cfg.validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid supervisor config: %w", err)
	}

	sCtx, cancel := context.WithCancelCause(ctx)
	s := &Supervisor{
		log: log,

		eng: eng,
		cfg: cfg,

		cancel: cancel,

		checkRequests: make(chan checkRequest), // Unbuffered since requests are synchronous.
		stalls:        make(chan Stall, 4),
	}
	s.wg.Add(1)
	go s.kernel(ctx, cancel)
	return s, sCtx, nil
}

// Wait blocks until the supervisor's kernel goroutine completes.
// The goroutine is tied to the lifecycle of the context passed to [New],
// so a stall termination alone is not sufficient to unblock Wait.
func (s *Supervisor) Wait() {
	s.wg.Wait()
}

// Terminate forces the supervisor context to be cancelled
// with a cause of [ForcedTerminationError].
func (s *Supervisor) Terminate(reason string) {
	s.cancel(ForcedTerminationError{Reason: reason})
}

// Stalls returns the channel on which unhealthy passes are published.
// The channel is buffered and the kernel never blocks on it:
// if the consumer falls behind, reports are dropped and only logged.
func (s *Supervisor) Stalls() <-chan Stall {
	return s.stalls
}

// CheckNow asks the kernel goroutine to run an immediate check pass and
// reports its result. It reports ok=false if ctx is canceled before the
// pass completes. The pass carries the same stall handling as a scheduled
// one, including termination if the supervisor is configured for it.
func (s *Supervisor) CheckNow(ctx context.Context) (h mwdg.Health, ok bool) {
	req := checkRequest{
		Resp: make(chan mwdg.Health, 1),
	}

	return mchan.ReqResp(
		ctx, s.log,
		s.checkRequests, req,
		req.Resp,
		"on-demand check",
	)
}

func (s *Supervisor) kernel(rootCtx context.Context, cancel context.CancelCauseFunc) {
	defer s.wg.Done()

	// Every kernel gets its own RNG for jitter, seeded by the global RNG,
	// the same trade as any other per-goroutine PCG: two uint64s of state
	// instead of contending on the global source.
	rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))

	for {
		d := s.cfg.Interval
		if s.cfg.Jitter > 0 {
			d += time.Duration(rng.Int64N(int64(2*s.cfg.Jitter)) - int64(s.cfg.Jitter))
		}

		timer := time.NewTimer(d)

		select {
		case <-rootCtx.Done():
			timer.Stop()
			s.log.Info("Stopping due to root context cancellation", "cause", context.Cause(rootCtx))
			return
		case req := <-s.checkRequests:
			timer.Stop()
			h := s.runCheck(cancel)
			req.Resp <- h
			if h == mwdg.Unhealthy && s.cfg.TerminateOnStall {
				return
			}
		case <-timer.C:
			if h := s.runCheck(cancel); h == mwdg.Unhealthy && s.cfg.TerminateOnStall {
				return
			}
		}
	}
}

// runCheck performs one pass: check, and on an unhealthy result drain the
// expired identifiers, publish them, and escalate if configured.
func (s *Supervisor) runCheck(cancel context.CancelCauseFunc) mwdg.Health {
	h, err := s.eng.Check()
	if err != nil {
		// Only reachable with an engine that was not built by mwdg.New,
		// which New here refuses; log loudly rather than spin silently.
		s.log.Error("Check pass failed", "err", err)
		return h
	}

	if h == mwdg.Healthy {
		return h
	}

	var ids []uint32
	var cur mwdg.Cursor
	for {
		id, ok := s.eng.NextExpired(&cur)
		if !ok {
			break
		}
		ids = append(ids, id)
	}

	s.log.Warn("Watchdogs expired", "ids", ids)

	select {
	case s.stalls <- Stall{IDs: ids}:
	default:
		s.log.Warn("Dropping stall report; consumer is not keeping up")
	}

	if s.cfg.TerminateOnStall {
		cancel(StallError{IDs: ids})
	}

	return h
}
