package engine

import (
	"log/slog"

	"github.com/roach88/normstate/internal/state"
)

// Dispatch is one step of the dispatch pipeline.
type Dispatch func(a state.Action) error

// API is what middleware sees of the store.
type API interface {
	// Dispatch runs a through the full middleware chain.
	Dispatch(a state.Action) error

	// Depth returns the current dispatch nesting: 1 for a caller's
	// dispatch, 2 for a dispatch made by middleware while handling it.
	Depth() int
}

// Middleware wraps the next step of the pipeline.
type Middleware func(api API, next Dispatch) Dispatch

// Listener is notified after every reducer commit.
type Listener func()

type config struct {
	middleware []Middleware
	logger     *slog.Logger
	maxDepth   int
}

// Option configures a Store.
type Option func(*config)

// WithMiddleware appends middleware. The first middleware given sees an
// action first.
func WithMiddleware(mw ...Middleware) Option {
	return func(c *config) {
		c.middleware = append(c.middleware, mw...)
	}
}

// WithLogger sets the store logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithMaxDepth sets the nested dispatch limit.
//
// Default: 64 (DefaultMaxDepth)
func WithMaxDepth(depth int) Option {
	return func(c *config) {
		c.maxDepth = depth
	}
}

// Store holds the root state and runs dispatches.
//
// INVARIANTS:
//   - state is replaced only by reduce, with the reducer's return value
//   - at most one reducer call is in progress at a time
type Store[R any] struct {
	reducer   state.Reducer[R]
	state     R
	chain     Dispatch
	logger    *slog.Logger
	guard     depthGuard
	reducing  bool
	listeners []subscription
	nextID    int
}

type subscription struct {
	id       int
	listener Listener
}

// New creates a Store with the given root reducer and initial state.
func New[R any](reducer state.Reducer[R], initial R, opts ...Option) *Store[R] {
	cfg := config{
		logger:   slog.Default(),
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &Store[R]{
		reducer: reducer,
		state:   initial,
		logger:  cfg.logger,
		guard:   depthGuard{limit: cfg.maxDepth},
	}

	chain := Dispatch(s.reduce)
	for i := len(cfg.middleware) - 1; i >= 0; i-- {
		chain = cfg.middleware[i](s, chain)
	}
	s.chain = chain

	return s
}

// Dispatch runs a through the middleware chain and the reducer.
// Nested dispatches made by middleware complete before this call returns.
func (s *Store[R]) Dispatch(a state.Action) error {
	if a.Type == "" {
		return &RuntimeError{Code: ErrCodeInvalidAction, Message: "action has no type"}
	}
	if s.reducing {
		return &RuntimeError{Code: ErrCodeDispatchInReducer, Message: "reducers may not dispatch actions", Type: a.Type}
	}

	leave, err := s.guard.enter(a.Type)
	defer leave()
	if err != nil {
		return err
	}

	return s.chain(a)
}

// reduce is the innermost pipeline step.
func (s *Store[R]) reduce(a state.Action) error {
	s.state = s.apply(a)

	s.logger.Debug("action reduced",
		"type", string(a.Type),
		"entity_id", a.EntityID,
		"depth", s.guard.current,
	)

	for _, sub := range s.snapshotListeners() {
		sub.listener()
	}
	return nil
}

func (s *Store[R]) apply(a state.Action) R {
	s.reducing = true
	defer func() { s.reducing = false }()
	return s.reducer(s.state, a)
}

// State returns the current root state.
func (s *Store[R]) State() R {
	return s.state
}

// Depth returns the current dispatch nesting, 0 outside Dispatch.
func (s *Store[R]) Depth() int {
	return s.guard.current
}

// Subscribe registers a listener called after every reducer commit,
// including commits of nested dispatches. The returned function removes it.
func (s *Store[R]) Subscribe(l Listener) func() {
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, subscription{id: id, listener: l})

	return func() {
		for i, sub := range s.listeners {
			if sub.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// snapshotListeners copies the listener list so that listeners may
// unsubscribe while being notified.
func (s *Store[R]) snapshotListeners() []subscription {
	out := make([]subscription, len(s.listeners))
	copy(out, s.listeners)
	return out
}

// Select applies sel to the current state of s.
func Select[R, T any](s *Store[R], sel func(R) T) T {
	return sel(s.State())
}
