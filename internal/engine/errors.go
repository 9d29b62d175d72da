package engine

import (
	"errors"
	"fmt"

	"github.com/roach88/normstate/internal/state"
)

// RuntimeError represents an error detected while dispatching.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// Type is the action type being dispatched, if any.
	Type state.ActionType
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeDispatchInReducer indicates a reducer tried to dispatch.
	ErrCodeDispatchInReducer RuntimeErrorCode = "DISPATCH_IN_REDUCER"

	// ErrCodeInvalidAction indicates an action without a type.
	ErrCodeInvalidAction RuntimeErrorCode = "INVALID_ACTION"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("%s: %s (type=%s)", e.Code, e.Message, e.Type)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ErrDispatchInReducer is matched by errors.Is for dispatches attempted
// while a reducer is running.
var ErrDispatchInReducer = &RuntimeError{Code: ErrCodeDispatchInReducer, Message: "reducers may not dispatch actions"}

// Is matches runtime errors by code.
func (e *RuntimeError) Is(target error) bool {
	var re *RuntimeError
	if errors.As(target, &re) {
		return re.Code == e.Code
	}
	return false
}

// IsDepthError reports whether err wraps a *DepthExceededError.
func IsDepthError(err error) bool {
	var de *DepthExceededError
	return errors.As(err, &de)
}
