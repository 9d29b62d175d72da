package entity

import (
	"errors"
	"fmt"
)

// ErrNotFound is matched by every LookupError.
var ErrNotFound = errors.New("entity not found")

// LookupError reports a failed entity or entity property selection.
type LookupError struct {
	// Name is the collection name used in messages, e.g. "user".
	Name string

	// ID is the requested entity id.
	ID string

	// Property is set when a property was selected.
	Property string

	// MissingProperty is true when the entity exists but has no value for
	// Property.
	MissingProperty bool
}

// Error implements the error interface.
func (e *LookupError) Error() string {
	switch {
	case e.MissingProperty:
		return fmt.Sprintf("%s with id %q has no value for property %q", e.Name, e.ID, e.Property)
	case e.Property != "":
		return fmt.Sprintf("%s with id %q does not exist (selecting property %q)", e.Name, e.ID, e.Property)
	default:
		return fmt.Sprintf("%s with id %q does not exist", e.Name, e.ID)
	}
}

// Is makes errors.Is(err, ErrNotFound) hold.
func (e *LookupError) Is(target error) bool {
	return target == ErrNotFound
}
