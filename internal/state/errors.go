package state

import (
	"errors"
	"fmt"
)

// RegistrationError reports a second registration under a type that
// already has a handler in the same slot. It is raised with panic at setup
// time.
type RegistrationError struct {
	Owner        string
	Type         ActionType
	Subscription bool
}

func (e *RegistrationError) Error() string {
	if e.Subscription {
		return fmt.Sprintf("subscription to %q already exists in actions %q", e.Type, e.Owner)
	}
	return fmt.Sprintf("action %q already exists", e.Type)
}

// IsRegistrationError reports whether err is a *RegistrationError.
func IsRegistrationError(err error) bool {
	var regErr *RegistrationError
	return errors.As(err, &regErr)
}
