package engine

import (
	"fmt"

	"github.com/roach88/normstate/internal/state"
)

// DefaultMaxDepth bounds nested dispatch. A middleware that re-dispatches
// the action it was given would otherwise recurse forever.
const DefaultMaxDepth = 64

// DepthExceededError is returned when nested dispatch goes deeper than the
// configured limit.
type DepthExceededError struct {
	Type  state.ActionType
	Depth int
	Limit int
}

// Error implements the error interface.
func (e *DepthExceededError) Error() string {
	return fmt.Sprintf("dispatch depth %d exceeds limit %d (type=%s)", e.Depth, e.Limit, e.Type)
}

// depthGuard tracks the current nesting of Dispatch calls.
type depthGuard struct {
	limit   int
	current int
}

// enter increments the depth and validates it against the limit. The
// returned function restores the previous depth and must always be called.
func (g *depthGuard) enter(t state.ActionType) (func(), error) {
	g.current++
	leave := func() { g.current-- }
	if g.current > g.limit {
		return leave, &DepthExceededError{Type: t, Depth: g.current, Limit: g.limit}
	}
	return leave, nil
}
