package registration

import (
	"context"
	"errors"
	"sync"

	"github.com/kbukum/signup/auth"
)

// ErrSubmissionInFlight is returned by Begin and Submit while another
// submission of the same controller has not reached a terminal phase.
var ErrSubmissionInFlight = errors.New("registration: submission already in flight")

// ErrSubmissionDone is returned by Step after a terminal phase.
var ErrSubmissionDone = errors.New("registration: submission already finished")

// Controller owns the State of one registration view.
type Controller struct {
	provider auth.Provider
	opts     options

	mu       sync.Mutex
	state    State
	inFlight bool
	subs     []subscriber
	nextSub  uint64
}

// New creates an idle Controller that creates accounts through provider.
func New(provider auth.Provider, opts ...Option) *Controller {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	o.finalize()
	return &Controller{provider: provider, opts: o}
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// InFlight reports whether a submission is running.
func (c *Controller) InFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

// Subscribe registers fn for every future event and returns a function
// that removes it. Events are delivered synchronously, in order, on the
// goroutine driving the submission; fn must not call Submit or Step.
func (c *Controller) Subscribe(fn func(Event)) (unsubscribe func()) {
	c.mu.Lock()
	c.nextSub++
	id := c.nextSub
	c.subs = append(c.subs, subscriber{id: id, fn: fn})
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			for i, s := range c.subs {
				if s.id == id {
					c.subs = append(c.subs[:i:i], c.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Begin reserves the controller for a submission of form. The returned
// Submission has not done anything yet; drive it with Step.
func (c *Controller) Begin(form Form) (*Submission, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight {
		return nil, ErrSubmissionInFlight
	}
	c.inFlight = true
	return &Submission{c: c, form: form, phase: PhasePending}, nil
}

// Submit runs a submission of form to a terminal phase and returns it.
// The error is non-nil only when the controller was busy or ctx ended
// before the submission finished; a refused form is reported through
// State and PhaseFailed.
func (c *Controller) Submit(ctx context.Context, form Form) (Phase, error) {
	s, err := c.Begin(form)
	if err != nil {
		return PhasePending, err
	}
	return s.Run(ctx)
}

// update applies fn to the state under the lock and returns the
// resulting snapshot with the subscribers to notify.
func (c *Controller) update(fn func(*State)) (State, []subscriber) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.state)
	subs := make([]subscriber, len(c.subs))
	copy(subs, c.subs)
	return c.state, subs
}

func (c *Controller) setState(fn func(*State)) {
	snapshot, subs := c.update(fn)
	deliver(subs, stateChanged(snapshot))
}

func (c *Controller) emit(events ...Event) {
	c.mu.Lock()
	subs := make([]subscriber, len(c.subs))
	copy(subs, c.subs)
	c.mu.Unlock()
	deliver(subs, events...)
}

func deliver(subs []subscriber, events ...Event) {
	for _, e := range events {
		for _, s := range subs {
			s.fn(e)
		}
	}
}

func (c *Controller) release() {
	c.mu.Lock()
	c.inFlight = false
	c.mu.Unlock()
}
