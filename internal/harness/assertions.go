package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/normstate/internal/survey"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Subject  string // Step, answer or rating the assertion is about
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "assertion failed: %s", e.Type)
	if e.Subject != "" {
		fmt.Fprintf(&buf, "(%s)", e.Subject)
	}
	fmt.Fprintf(&buf, ": expected %s, actual %s", e.Expected, e.Actual)

	return buf.String()
}

// EvaluateAssertions checks each assertion against s and returns the
// failures in assertion order.
func EvaluateAssertions(app *survey.App, s survey.State, surveyID string, assertions []Assertion) []error {
	var failures []error
	for _, a := range assertions {
		if err := evaluate(app, s, surveyID, a); err != nil {
			failures = append(failures, err)
		}
	}
	return failures
}

func evaluate(app *survey.App, s survey.State, surveyID string, a Assertion) error {
	sel := app.Select
	switch a.Type {
	case AssertCanGoNext:
		got, err := sel.CanGoNext(s, surveyID, a.Step)
		return compare(a, a.Step, got, err)
	case AssertCanGoPrevious:
		got, err := sel.CanGoPrevious(s, surveyID, a.Step)
		return compare(a, a.Step, got, err)
	case AssertSelected:
		got, err := sel.IsSelected.Select(s, a.Answer)
		return compare(a, a.Answer, got, err)
	case AssertRatingValue:
		return assertRatingValue(sel, s, a)
	case AssertTotalSteps:
		got, err := sel.TotalSteps(s, surveyID)
		return compare(a, surveyID, got, err)
	case AssertStepIndex:
		got, err := sel.StepIndex(s, surveyID, a.Step)
		return compare(a, a.Step, got, err)
	case AssertUserName:
		return compare(a, "", sel.UserName(s), nil)
	default:
		return &AssertionError{Type: a.Type, Expected: "a known assertion type", Actual: "unknown"}
	}
}

// assertRatingValue treats a null expectation as "no value".
func assertRatingValue(sel *survey.Selectors, s survey.State, a Assertion) error {
	has, err := sel.HasValue(s, a.Rating)
	if err != nil {
		return selectFailed(a, a.Rating, err)
	}
	if a.Expect == nil {
		if has {
			value, _ := sel.Value(s, a.Rating)
			return &AssertionError{Type: a.Type, Subject: a.Rating, Expected: "no value", Actual: fmt.Sprint(value)}
		}
		return nil
	}
	if !has {
		return &AssertionError{Type: a.Type, Subject: a.Rating, Expected: fmt.Sprint(a.Expect), Actual: "no value"}
	}
	value, err := sel.Value(s, a.Rating)
	return compare(a, a.Rating, value, err)
}

func compare[T comparable](a Assertion, subject string, got T, err error) error {
	if err != nil {
		return selectFailed(a, subject, err)
	}
	want, ok := a.Expect.(T)
	if !ok {
		return &AssertionError{
			Type:     a.Type,
			Subject:  subject,
			Expected: fmt.Sprintf("%v (%T)", a.Expect, a.Expect),
			Actual:   fmt.Sprintf("%v (%T)", got, got),
		}
	}
	if got != want {
		return &AssertionError{
			Type:     a.Type,
			Subject:  subject,
			Expected: fmt.Sprint(want),
			Actual:   fmt.Sprint(got),
		}
	}
	return nil
}

func selectFailed(a Assertion, subject string, err error) error {
	return &AssertionError{
		Type:     a.Type,
		Subject:  subject,
		Expected: fmt.Sprint(a.Expect),
		Actual:   fmt.Sprintf("error: %v", err),
	}
}
