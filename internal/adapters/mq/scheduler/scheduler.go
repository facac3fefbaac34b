// Package scheduler runs a cancellable periodic task with at most one active
// schedule at a time.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/healthui/pkg/logger"
	"github.com/okian/healthui/pkg/metrics"
)

// Tick is invoked on every interval. Ticks run on their own goroutine, so a
// slow tick never delays the next one and ticks may overlap.
type Tick func(ctx context.Context)

// Scheduler owns the poll timer. The zero interval means stopped.
type Scheduler struct {
	tick      Tick
	name      string
	immediate bool
	logger    logger.Logger

	mu       sync.Mutex
	interval time.Duration
	shutdown chan struct{}
	done     chan struct{}

	inflight sync.WaitGroup
}

// New creates a Scheduler that calls tick on every interval once started.
func New(tick Tick, opts ...Option) *Scheduler {
	s := &Scheduler{
		tick: tick,
		name: "scheduler",
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.logger = s.logger.Named(s.name)

	return s
}

// Start replaces the current schedule with one firing every interval. A
// non-positive interval leaves the scheduler stopped. The previous schedule
// goroutine has exited before the new one is started.
func (s *Scheduler) Start(ctx context.Context, interval time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
	if interval <= 0 {
		metrics.UpdatePollInterval(0)
		s.logger.Debug(ctx, "polling stopped")
		return
	}

	shutdown := make(chan struct{})
	done := make(chan struct{})
	s.shutdown, s.done, s.interval = shutdown, done, interval

	go s.run(ctx, interval, shutdown, done)

	metrics.UpdatePollInterval(interval)
	s.logger.Debug(ctx, "polling started", logger.Duration("interval", interval))
}

// Restart is Start under the name used by callers that always replace the
// timer, even when the interval is unchanged.
func (s *Scheduler) Restart(ctx context.Context, interval time.Duration) {
	s.Start(ctx, interval)
}

// Stop cancels the active schedule, if any. Ticks already in flight are not
// interrupted.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
	metrics.UpdatePollInterval(0)
}

// Running reports whether a schedule is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done == nil {
		return false
	}
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

// Interval returns the active cadence, or 0 when stopped.
func (s *Scheduler) Interval() time.Duration {
	if !s.Running() {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

// Shutdown stops the schedule and waits for in-flight ticks to finish or ctx
// to expire.
func (s *Scheduler) Shutdown(ctx context.Context) error {
	s.Stop()

	waited := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(waited)
	}()

	select {
	case <-waited:
		return nil
	case <-ctx.Done():
		s.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("%w: %w", ErrShutdownTimeout, ctx.Err())
	}
}

func (s *Scheduler) stopLocked() {
	if s.shutdown == nil {
		return
	}
	close(s.shutdown)
	<-s.done
	s.shutdown, s.done, s.interval = nil, nil, 0
}

func (s *Scheduler) run(ctx context.Context, interval time.Duration, shutdown <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if s.immediate {
		s.fire(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-shutdown:
			return
		case <-ticker.C:
			s.fire(ctx)
		}
	}
}

func (s *Scheduler) fire(ctx context.Context) {
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		s.tick(ctx)
	}()
}
