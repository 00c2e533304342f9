package web

import (
	"context"
	"fmt"
	"time"

	"github.com/kbukum/signup/component"
	"github.com/kbukum/signup/logger"
)

// SweeperComponent evicts expired sessions on an interval. Extra sweep
// functions (rate limiter buckets) run on the same tick.
type SweeperComponent struct {
	store    *Store
	interval time.Duration
	extra    []func() int
	log      *logger.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

var (
	_ component.Component   = (*SweeperComponent)(nil)
	_ component.Describable = (*SweeperComponent)(nil)
)

// NewSweeperComponent creates the session sweeper.
func NewSweeperComponent(store *Store, interval time.Duration, extra ...func() int) *SweeperComponent {
	return &SweeperComponent{
		store:    store,
		interval: interval,
		extra:    extra,
		log:      logger.WithComponent("sessions"),
	}
}

func (s *SweeperComponent) Name() string { return "sessions" }

// Start launches the sweep loop.
func (s *SweeperComponent) Start(ctx context.Context) error {
	loopCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.loop(loopCtx)
	return nil
}

func (s *SweeperComponent) loop(ctx context.Context) {
	defer close(s.done)
	t := time.NewTicker(s.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.SweepOnce()
		}
	}
}

// SweepOnce runs one sweep and returns the number of evicted sessions.
func (s *SweeperComponent) SweepOnce() int {
	evicted := s.store.Sweep()
	for _, fn := range s.extra {
		fn()
	}
	return evicted
}

// Stop ends the loop and closes the store, cancelling running submissions.
func (s *SweeperComponent) Stop(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
		select {
		case <-s.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err := s.store.Close(ctx); err != nil {
		return fmt.Errorf("sessions: close: %w", err)
	}
	return nil
}

func (s *SweeperComponent) Health(ctx context.Context) component.Health {
	return component.Health{
		Name:    s.Name(),
		Status:  component.StatusHealthy,
		Message: fmt.Sprintf("%d active sessions", s.store.Len()),
	}
}

func (s *SweeperComponent) Describe() component.Description {
	return component.Description{
		Name:    "Session store",
		Type:    "sessions",
		Details: fmt.Sprintf("in-memory, ttl %s, sweep every %s", s.store.ttl, s.interval),
	}
}
