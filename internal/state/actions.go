package state

import (
	"log/slog"
	"slices"

	"github.com/roach88/normstate/internal/draft"
)

// Reducer applies an action to a state value and returns the next value.
// It never modifies its input.
type Reducer[S any] func(state S, a Action) S

// Handler mutates a draft of the substate in response to an action.
// Assigning through the pointer replaces the whole draft.
type Handler[S any] func(draft *S, a Action)

// Actions owns one substate and the handlers registered for it.
type Actions[S any] struct {
	name          string
	initial       S
	clone         func(S) S
	logger        *slog.Logger
	actions       map[ActionType]Handler[S]
	subscriptions map[ActionType]Handler[S]
}

// Option configures an Actions owner.
type Option[S any] func(*Actions[S])

// WithClone sets the function used to draft the substate before handlers
// run. The default is a reflective deep copy.
func WithClone[S any](clone func(S) S) Option[S] {
	return func(a *Actions[S]) {
		a.clone = clone
	}
}

// WithLogger sets the logger used for dropped actions.
func WithLogger[S any](logger *slog.Logger) Option[S] {
	return func(a *Actions[S]) {
		a.logger = logger
	}
}

// New registers an owner named name with the given initial substate.
func New[S any](name string, initial S, opts ...Option[S]) *Actions[S] {
	a := &Actions[S]{
		name:          name,
		initial:       initial,
		clone:         draft.Clone[S],
		logger:        slog.Default(),
		actions:       make(map[ActionType]Handler[S]),
		subscriptions: make(map[ActionType]Handler[S]),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name returns the owner name.
func (a *Actions[S]) Name() string {
	return a.name
}

// Initial returns a fresh copy of the initial substate.
func (a *Actions[S]) Initial() S {
	return a.clone(a.initial)
}

// Logger returns the owner's logger.
func (a *Actions[S]) Logger() *slog.Logger {
	return a.logger
}

// Type returns the namespaced type for suffix.
func (a *Actions[S]) Type(suffix string) ActionType {
	return ActionType(a.name + "/" + suffix)
}

// Handle registers the primary handler for "<name>/<suffix>" and returns the
// namespaced type. It panics with *RegistrationError if the type already has
// a primary handler.
func (a *Actions[S]) Handle(suffix string, h Handler[S]) ActionType {
	t := a.Type(suffix)
	if _, exists := a.actions[t]; exists {
		panic(&RegistrationError{Owner: a.name, Type: t})
	}
	a.actions[t] = h
	return t
}

// HandleSubscription registers a subscription handler for t, which may be
// owned by any Actions. It panics with *RegistrationError if this owner
// already subscribes to t.
func (a *Actions[S]) HandleSubscription(t ActionType, h Handler[S]) {
	if _, exists := a.subscriptions[t]; exists {
		panic(&RegistrationError{Owner: a.name, Type: t, Subscription: true})
	}
	a.subscriptions[t] = h
}

// Handles reports whether the reducer reacts to t.
func (a *Actions[S]) Handles(t ActionType) bool {
	_, primary := a.actions[t]
	_, subscribed := a.subscriptions[t]
	return primary || subscribed
}

// Types returns the primary action types in sorted order.
func (a *Actions[S]) Types() []ActionType {
	types := make([]ActionType, 0, len(a.actions))
	for t := range a.actions {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}

// Reducer returns the owner's reducer.
//
// For an action type with no handler the input is returned unchanged.
// Otherwise the substate is drafted, the subscription handler (if any) runs,
// then the primary handler (if any), and the draft is returned.
func (a *Actions[S]) Reducer() Reducer[S] {
	return func(state S, act Action) S {
		subscription, hasSubscription := a.subscriptions[act.Type]
		primary, hasPrimary := a.actions[act.Type]
		if !hasSubscription && !hasPrimary {
			return state
		}

		next := a.clone(state)
		if hasSubscription {
			subscription(&next, act)
		}
		if hasPrimary {
			primary(&next, act)
		}
		return next
	}
}

// typed adapts a payload-typed mutation to a Handler. An action whose
// payload cannot be read as P is logged and leaves the draft untouched.
func typed[S, P any](a *Actions[S], mutate func(*S, P)) Handler[S] {
	return func(d *S, act Action) {
		p, err := PayloadOf[P](act)
		if err != nil {
			a.logger.Error("dropping action with unexpected payload",
				"actions", a.name,
				"type", string(act.Type),
				"error", err,
			)
			return
		}
		mutate(d, p)
	}
}
