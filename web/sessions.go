package web

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/signup/i18n"
	"github.com/kbukum/signup/logger"
	"github.com/kbukum/signup/registration"
	"github.com/kbukum/signup/sse"
)

// ControllerFactory creates the controller of a new session.
type ControllerFactory func(loc *i18n.Localizer) *registration.Controller

// Session is one browser's registration view.
type Session struct {
	ID         string
	Controller *registration.Controller
	Localizer  *i18n.Localizer

	ctx         context.Context
	cancel      context.CancelFunc
	unsubscribe func()
	lastSeen    atomic.Int64
}

// Context is cancelled when the session is evicted or the store closes.
func (s *Session) Context() context.Context { return s.ctx }

// ClientPattern matches the SSE clients of the session.
func (s *Session) ClientPattern() string { return clientPrefix(s.ID) + "*" }

// NewClientID returns an SSE client id for one tab of the session.
func (s *Session) NewClientID() string { return clientPrefix(s.ID) + uuid.NewString() }

func clientPrefix(sessionID string) string { return "registration:" + sessionID + ":" }

func (s *Session) touch(now time.Time) { s.lastSeen.Store(now.UnixNano()) }

func (s *Session) idleSince(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, s.lastSeen.Load()))
}

// Store keeps sessions in memory, keyed by the session cookie.
type Store struct {
	ttl       time.Duration
	factory   ControllerFactory
	publisher sse.Publisher
	log       *logger.Logger
	now       func() time.Time

	base       context.Context
	cancelBase context.CancelFunc
	wg         sync.WaitGroup

	mu       sync.Mutex
	sessions map[string]*Session
	closed   bool
}

// NewStore creates a store whose sessions publish their events to
// publisher. publisher may be nil.
func NewStore(ttl time.Duration, factory ControllerFactory, publisher sse.Publisher, log *logger.Logger) *Store {
	if log == nil {
		log = logger.WithComponent("sessions")
	}
	base, cancel := context.WithCancel(context.Background())
	return &Store{
		ttl:        ttl,
		factory:    factory,
		publisher:  publisher,
		log:        log,
		now:        time.Now,
		base:       base,
		cancelBase: cancel,
		sessions:   make(map[string]*Session),
	}
}

// Create starts a new session using loc for its messages.
func (st *Store) Create(loc *i18n.Localizer) *Session {
	id := uuid.NewString()
	ctx, cancel := context.WithCancel(logger.ContextWithSessionID(st.base, id))
	sess := &Session{
		ID:         id,
		Controller: st.factory(loc),
		Localizer:  loc,
		ctx:        ctx,
		cancel:     cancel,
	}
	sess.touch(st.now())
	if st.publisher != nil {
		sess.unsubscribe = sess.Controller.Subscribe(st.forward(sess))
	}

	st.mu.Lock()
	st.sessions[id] = sess
	st.mu.Unlock()
	st.log.Debug("session created", logger.Fields(logger.FieldSessionID, id))
	return sess
}

// forward publishes controller events to the session's SSE clients.
func (st *Store) forward(sess *Session) func(registration.Event) {
	pattern := sess.ClientPattern()
	return func(e registration.Event) {
		ev, err := sse.JSONEvent(string(e.Kind), e)
		if err != nil {
			st.log.Error("event not encoded", logger.ErrorFields("forward", err))
			return
		}
		st.publisher.Publish(pattern, ev)
	}
}

// Get returns a live session and refreshes its idle timer.
func (st *Store) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}
	st.mu.Lock()
	sess, ok := st.sessions[id]
	st.mu.Unlock()
	if !ok {
		return nil, false
	}
	sess.touch(st.now())
	return sess, true
}

// Go runs fn on its own goroutine for sess. fn should use a context
// derived from sess.Context(); Close waits for it.
func (st *Store) Go(sess *Session, fn func()) {
	st.wg.Add(1)
	go func() {
		defer st.wg.Done()
		defer sess.touch(st.now())
		fn()
	}()
}

// Sweep evicts sessions idle for longer than the TTL and returns how many
// were removed. Eviction cancels a submission still running.
func (st *Store) Sweep() int {
	now := st.now()
	var expired []*Session
	st.mu.Lock()
	for id, sess := range st.sessions {
		if sess.idleSince(now) > st.ttl {
			expired = append(expired, sess)
			delete(st.sessions, id)
		}
	}
	st.mu.Unlock()

	for _, sess := range expired {
		st.release(sess)
	}
	if len(expired) > 0 {
		st.log.Debug("sessions evicted", logger.Fields("count", len(expired)))
	}
	return len(expired)
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Close cancels every session and waits for background submissions until
// ctx ends.
func (st *Store) Close(ctx context.Context) error {
	st.mu.Lock()
	if st.closed {
		st.mu.Unlock()
		return nil
	}
	st.closed = true
	sessions := st.sessions
	st.sessions = make(map[string]*Session)
	st.mu.Unlock()

	st.cancelBase()
	for _, sess := range sessions {
		st.release(sess)
	}

	done := make(chan struct{})
	go func() {
		st.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (st *Store) release(sess *Session) {
	sess.cancel()
	if sess.unsubscribe != nil {
		sess.unsubscribe()
	}
}
