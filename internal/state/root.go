package state

import (
	"fmt"

	"github.com/roach88/normstate/internal/draft"
)

// Owner is implemented by Actions and anything embedding it.
type Owner[S any] interface {
	Name() string
	Initial() S
	Reducer() Reducer[S]
}

// Root combines substate owners into one reducer over the root struct R.
type Root[R any] struct {
	initial  R
	names    map[string]bool
	reducers []func(*R, Action)
}

// NewRoot creates an empty Root.
func NewRoot[R any]() *Root[R] {
	return &Root[R]{names: make(map[string]bool)}
}

// Mount attaches owner to the substate selected by lens. It panics if an
// owner with the same name is already mounted.
func Mount[R, S any](root *Root[R], owner Owner[S], lens func(*R) *S) {
	if root.names[owner.Name()] {
		panic(fmt.Sprintf("state: owner %q is already mounted", owner.Name()))
	}
	root.names[owner.Name()] = true

	*lens(&root.initial) = owner.Initial()

	reduce := owner.Reducer()
	root.reducers = append(root.reducers, func(r *R, a Action) {
		s := lens(r)
		*s = reduce(*s, a)
	})
}

// Initial returns a copy of the combined initial state.
func (r *Root[R]) Initial() R {
	return draft.Clone(r.initial)
}

// Reducer returns the combined reducer. Each mounted owner sees every
// action, in mount order.
func (r *Root[R]) Reducer() Reducer[R] {
	return func(state R, a Action) R {
		next := state
		for _, reduce := range r.reducers {
			reduce(&next, a)
		}
		return next
	}
}
