package selector

// Selectors binds a root-state projection to a substate.
type Selectors[R, S any] struct {
	selectState func(R) S
}

// New creates Selectors for the substate returned by selectState.
func New[R, S any](selectState func(R) S) *Selectors[R, S] {
	return &Selectors[R, S]{selectState: selectState}
}

// State returns the substate selector.
func (s *Selectors[R, S]) State() func(R) S {
	return s.selectState
}

// Select projects r onto the substate.
func (s *Selectors[R, S]) Select(r R) S {
	return s.selectState(r)
}

// Derive returns a selector computing f over the substate.
func Derive[R, S, T any](s *Selectors[R, S], f func(S) T) func(R) T {
	return func(r R) T {
		return f(s.selectState(r))
	}
}

// DeriveWith returns a parameterized selector computing f over the
// substate and an argument.
func DeriveWith[R, S, P, T any](s *Selectors[R, S], f func(S, P) T) func(R, P) T {
	return func(r R, p P) T {
		return f(s.selectState(r), p)
	}
}

// Property returns a selector reading one field of the substate.
func Property[R, S, T any](s *Selectors[R, S], get func(S) T) func(R) T {
	return Derive(s, get)
}

// Combine derives a selector from two input selectors over the same root.
func Combine[R, A, B, T any](a func(R) A, b func(R) B, f func(A, B) T) func(R) T {
	return func(r R) T {
		return f(a(r), b(r))
	}
}
