package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type stubSweeper struct {
	calls atomic.Int64
	err   error
	boom  bool
}

func (s *stubSweeper) DecayAll(ctx context.Context) (SweepReport, error) {
	s.calls.Add(1)
	if s.boom {
		panic("boom")
	}
	return SweepReport{Subjects: 1, Eroded: 1}, s.err
}

func TestDecayTimer_RunOnceSurvivesErrorsAndPanics(t *testing.T) {
	sw := &stubSweeper{err: errors.New("db down")}
	tm := NewDecayTimer(sw, time.Hour, zerolog.Nop())

	tm.RunOnce(context.Background())
	sw.err, sw.boom = nil, true
	tm.RunOnce(context.Background())

	if tm.Runs() != 2 || sw.calls.Load() != 2 {
		t.Fatalf("runs = %d, calls = %d; want 2/2", tm.Runs(), sw.calls.Load())
	}
}

func TestDecayTimer_StartTicksAndStops(t *testing.T) {
	sw := &stubSweeper{}
	tm := NewDecayTimer(sw, 5*time.Millisecond, zerolog.Nop())

	done := make(chan struct{})
	go func() {
		tm.Start(context.Background())
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for tm.Runs() < 2 {
		select {
		case <-deadline:
			t.Fatalf("timer did not tick, runs = %d", tm.Runs())
		case <-time.After(time.Millisecond):
		}
	}
	if !tm.Running() {
		t.Fatalf("expected Running() while started")
	}

	tm.Stop()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Start did not return after Stop")
	}
	if tm.Running() {
		t.Fatalf("expected Running() false after stop")
	}
}

func TestDecayTimer_ContextCancelAndIdleStop(t *testing.T) {
	tm := NewDecayTimer(&stubSweeper{}, 0, zerolog.Nop())
	if tm.interval != time.Hour {
		t.Fatalf("default interval = %v", tm.interval)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		tm.Start(ctx)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Start did not return after cancel")
	}

	// Stop after the loop exited must not block or panic.
	tm.Stop()
	tm.Stop()
}
