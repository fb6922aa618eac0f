package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Scenario describes one demo run: a set of workers feeding their own
// watchdogs, and the supervisor's check cadence.
type Scenario struct {
	DurationMs      int `yaml:"duration_ms"`
	CheckIntervalMs int `yaml:"check_interval_ms"`
	CheckJitterMs   int `yaml:"check_jitter_ms"`

	Workers []WorkerConfig `yaml:"workers"`
}

type WorkerConfig struct {
	ID uint32 `yaml:"id"`

	TimeoutMs   int `yaml:"timeout_ms"`
	FeedEveryMs int `yaml:"feed_every_ms"`

	// After this long the worker silently stops feeding,
	// so its watchdog lapses. Zero means feed for the whole run.
	StopFeedingAfterMs int `yaml:"stop_feeding_after_ms"`
}

// DefaultScenario is the two-worker reference run:
// worker 1 feeds a 100ms watchdog every 40ms and goes silent at 300ms,
// worker 2 feeds a 200ms watchdog every 80ms throughout.
func DefaultScenario() Scenario {
	return Scenario{
		DurationMs:      1500,
		CheckIntervalMs: 50,
		CheckJitterMs:   5,

		Workers: []WorkerConfig{
			{ID: 1, TimeoutMs: 100, FeedEveryMs: 40, StopFeedingAfterMs: 300},
			{ID: 2, TimeoutMs: 200, FeedEveryMs: 80},
		},
	}
}

// LoadScenario reads and validates a YAML scenario file.
func LoadScenario(path string) (Scenario, error) {
	var sc Scenario

	b, err := os.ReadFile(path)
	if err != nil {
		return sc, fmt.Errorf("failed to read scenario file: %w", err)
	}

	if err := yaml.Unmarshal(b, &sc); err != nil {
		return sc, fmt.Errorf("failed to parse scenario file %q: %w", path, err)
	}

	if err := sc.validate(); err != nil {
		return sc, fmt.Errorf("invalid scenario %q: %w", path, err)
	}

	return sc, nil
}

func (s Scenario) validate() error {
	var err error
	if s.DurationMs <= 0 {
		err = errors.Join(err, errors.New("duration_ms must be positive"))
	}

	if s.CheckIntervalMs <= 0 {
		err = errors.Join(err, errors.New("check_interval_ms must be positive"))
	}

	if s.CheckJitterMs < 0 {
		err = errors.Join(err, errors.New("check_jitter_ms must not be negative"))
	}

	if len(s.Workers) == 0 {
		err = errors.Join(err, errors.New("at least one worker is required"))
	}

	seen := make(map[uint32]bool, len(s.Workers))
	for i, w := range s.Workers {
		if w.TimeoutMs <= 0 {
			err = errors.Join(err, fmt.Errorf("workers[%d].timeout_ms must be positive", i))
		}

		if w.FeedEveryMs <= 0 {
			err = errors.Join(err, fmt.Errorf("workers[%d].feed_every_ms must be positive", i))
		}

		if w.StopFeedingAfterMs < 0 {
			err = errors.Join(err, fmt.Errorf("workers[%d].stop_feeding_after_ms must not be negative", i))
		}

		if seen[w.ID] {
			err = errors.Join(err, fmt.Errorf("workers[%d].id %d is duplicated", i, w.ID))
		}
		seen[w.ID] = true
	}

	return err
}

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}
