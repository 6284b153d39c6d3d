package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Sweeper runs one decay pass.
type Sweeper interface {
	DecayAll(ctx context.Context) (SweepReport, error)
}

// DecayTimer runs the decay sweep on a fixed interval, detached from request
// handling. Sweep errors and panics are logged and never stop the loop.
type DecayTimer struct {
	sweeper  Sweeper
	interval time.Duration
	logger   zerolog.Logger
	stop     chan struct{}
	stopOnce sync.Once
	running  atomic.Bool
	runs     atomic.Int64
}

// NewDecayTimer creates a timer; a non-positive interval means one hour.
func NewDecayTimer(sweeper Sweeper, interval time.Duration, logger zerolog.Logger) *DecayTimer {
	if interval <= 0 {
		interval = time.Hour
	}
	return &DecayTimer{
		sweeper:  sweeper,
		interval: interval,
		logger:   logger,
		stop:     make(chan struct{}),
	}
}

// Running reports whether the loop is active.
func (t *DecayTimer) Running() bool { return t.running.Load() }

// Runs returns how many sweeps have completed.
func (t *DecayTimer) Runs() int64 { return t.runs.Load() }

// Start blocks, sweeping every interval until ctx is done or Stop is called.
// Call in a goroutine.
func (t *DecayTimer) Start(ctx context.Context) {
	t.running.Store(true)
	defer t.running.Store(false)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	t.logger.Info().Dur("interval", t.interval).Msg("decay timer started")
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.stop:
			return
		case <-ticker.C:
			t.RunOnce(ctx)
		}
	}
}

// Stop signals the loop to exit; it never blocks and is safe to call more
// than once.
func (t *DecayTimer) Stop() {
	t.stopOnce.Do(func() { close(t.stop) })
}

// RunOnce performs a single sweep, swallowing errors and panics.
func (t *DecayTimer) RunOnce(ctx context.Context) {
	defer t.runs.Add(1)
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error().Str("panic", fmt.Sprint(r)).Msg("panic in decay timer")
		}
	}()

	rep, err := t.sweeper.DecayAll(ctx)
	if err != nil {
		t.logger.Warn().Err(err).Msg("decay sweep aborted")
		return
	}
	if rep.Failed > 0 {
		t.logger.Warn().Int("failed", rep.Failed).Int("subjects", rep.Subjects).Msg("decay sweep had failures")
	}
}
