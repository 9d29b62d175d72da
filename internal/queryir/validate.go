package queryir

import (
	"fmt"
	"slices"

	"github.com/roach88/normstate/internal/ir"
)

// ValidationError reports the first invalid node of a query.
type ValidationError struct {
	Path    string // e.g. "filter.and[1]"
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid query at %s: %s", e.Path, e.Message)
}

// Validate checks that every predicate names a known field and compares it
// against a value of the field's kind.
func Validate(q Query) error {
	if q.Limit < 0 {
		return &ValidationError{Path: "limit", Message: "must not be negative"}
	}
	if q.Filter == nil {
		return nil
	}
	return validatePredicate(q.Filter, "filter")
}

func validatePredicate(p Predicate, path string) error {
	switch pred := p.(type) {
	case Equals:
		if err := validateField(pred.Field, path); err != nil {
			return err
		}
		return validateValue(pred.Field, pred.Value, path)
	case *Equals:
		return validatePredicate(*pred, path)
	case Prefix:
		if err := validateField(pred.Field, path); err != nil {
			return err
		}
		if !pred.Field.Text() {
			return &ValidationError{Path: path, Message: fmt.Sprintf("prefix needs a text field, got %s", pred.Field)}
		}
		return nil
	case *Prefix:
		return validatePredicate(*pred, path)
	case And:
		for i, child := range pred.Predicates {
			if child == nil {
				return &ValidationError{Path: fmt.Sprintf("%s.and[%d]", path, i), Message: "nil predicate"}
			}
			if err := validatePredicate(child, fmt.Sprintf("%s.and[%d]", path, i)); err != nil {
				return err
			}
		}
		return nil
	case *And:
		return validatePredicate(*pred, path)
	default:
		return &ValidationError{Path: path, Message: fmt.Sprintf("unsupported predicate %T", p)}
	}
}

func validateField(f Field, path string) error {
	if !slices.Contains(Fields, f) {
		return &ValidationError{Path: path, Message: fmt.Sprintf("unknown field %q", f)}
	}
	return nil
}

func validateValue(f Field, v ir.Value, path string) error {
	switch v.(type) {
	case ir.String:
		if f.Text() {
			return nil
		}
	case ir.Int:
		if !f.Text() {
			return nil
		}
	case nil:
		return &ValidationError{Path: path, Message: "missing value"}
	}
	return &ValidationError{Path: path, Message: fmt.Sprintf("%s cannot be compared with %T", f, v)}
}
