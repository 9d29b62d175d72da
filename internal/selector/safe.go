package selector

import "fmt"

// Safe is a keyed lookup with a throwing and an optional form.
type Safe[R, K, T any] struct {
	lookup func(R, K) (T, bool)
	fail   func(R, K) error
}

// NewSafe creates a Safe selector. fail builds the error returned by Select
// when lookup reports absence.
func NewSafe[R, K, T any](lookup func(R, K) (T, bool), fail func(R, K) error) Safe[R, K, T] {
	return Safe[R, K, T]{lookup: lookup, fail: fail}
}

// Select returns the value for k, or the descriptive error when absent.
func (s Safe[R, K, T]) Select(r R, k K) (T, error) {
	v, ok := s.lookup(r, k)
	if !ok {
		var zero T
		return zero, s.fail(r, k)
	}
	return v, nil
}

// Unsafe returns the value for k and whether it was present.
func (s Safe[R, K, T]) Unsafe(r R, k K) (T, bool) {
	return s.lookup(r, k)
}

// Must is like Select but panics when the value is absent.
func (s Safe[R, K, T]) Must(r R, k K) T {
	v, err := s.Select(r, k)
	if err != nil {
		panic(fmt.Sprintf("selector: %v", err))
	}
	return v
}

// Func returns Select as a plain function value.
func (s Safe[R, K, T]) Func() func(R, K) (T, error) {
	return s.Select
}
