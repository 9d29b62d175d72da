package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/normstate/internal/survey"
)

// Scenario is one survey walkthrough with expectations on the final state.
type Scenario struct {
	// Name uniquely identifies this scenario. Golden files are named after it.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Survey is loaded into the store before the steps run. Missing ids are
	// generated as id-1, id-2, ...
	Survey survey.Definition `yaml:"survey"`

	// Steps are applied in order.
	Steps []Step `yaml:"steps"`

	// Assertions are evaluated against the final state.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one user interaction.
type Step struct {
	// Action is one of the Action* constants.
	Action string `yaml:"action"`

	// Answer is the answer toggled by toggle_answer.
	Answer string `yaml:"answer,omitempty"`

	// Rating and Value are used by set_rating.
	Rating string `yaml:"rating,omitempty"`
	Value  int    `yaml:"value,omitempty"`

	// ID and Text are used by set_text.
	ID   string `yaml:"id,omitempty"`
	Text string `yaml:"text,omitempty"`

	// Name is used by set_user.
	Name string `yaml:"name,omitempty"`
}

// Step action constants.
const (
	ActionToggleAnswer = "toggle_answer"
	ActionSetRating    = "set_rating"
	ActionSetText      = "set_text"
	ActionSetUser      = "set_user"
)

// Assertion checks one selector against an expected value.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Step is used by can_go_next, can_go_previous and step_index.
	Step string `yaml:"step,omitempty"`

	// Answer is used by selected.
	Answer string `yaml:"answer,omitempty"`

	// Rating is used by rating_value.
	Rating string `yaml:"rating,omitempty"`

	// Expect is the expected selector result.
	Expect any `yaml:"expect"`
}

// Assertion type constants.
const (
	AssertCanGoNext     = "can_go_next"
	AssertCanGoPrevious = "can_go_previous"
	AssertSelected      = "selected"
	AssertRatingValue   = "rating_value"
	AssertTotalSteps    = "total_steps"
	AssertStepIndex     = "step_index"
	AssertUserName      = "user_name"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadScenarios loads every *.yaml and *.yml file of dir, sorted by file
// name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	var paths []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("failed to list scenarios: %w", err)
		}
		paths = append(paths, matches...)
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if err := s.Survey.Validate(); err != nil {
		return fmt.Errorf("survey: %w", err)
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, step); err != nil {
			return err
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, assertion); err != nil {
			return err
		}
	}

	return nil
}

func validateStep(index int, s Step) error {
	switch s.Action {
	case ActionToggleAnswer:
		if s.Answer == "" {
			return fmt.Errorf("steps[%d]: answer is required for toggle_answer", index)
		}
	case ActionSetRating:
		if s.Rating == "" {
			return fmt.Errorf("steps[%d]: rating is required for set_rating", index)
		}
	case ActionSetText:
		if s.ID == "" {
			return fmt.Errorf("steps[%d]: id is required for set_text", index)
		}
	case ActionSetUser:
		if s.Name == "" {
			return fmt.Errorf("steps[%d]: name is required for set_user", index)
		}
	case "":
		return fmt.Errorf("steps[%d]: action is required", index)
	default:
		return fmt.Errorf("steps[%d]: unknown action %q", index, s.Action)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertCanGoNext, AssertCanGoPrevious:
		if a.Step == "" {
			return fmt.Errorf("assertions[%d]: step is required for %s", index, a.Type)
		}
		return expectKind[bool](index, a)
	case AssertSelected:
		if a.Answer == "" {
			return fmt.Errorf("assertions[%d]: answer is required for selected", index)
		}
		return expectKind[bool](index, a)
	case AssertRatingValue:
		if a.Rating == "" {
			return fmt.Errorf("assertions[%d]: rating is required for rating_value", index)
		}
		if a.Expect == nil {
			return nil
		}
		return expectKind[int](index, a)
	case AssertTotalSteps:
		return expectKind[int](index, a)
	case AssertStepIndex:
		if a.Step == "" {
			return fmt.Errorf("assertions[%d]: step is required for step_index", index)
		}
		return expectKind[int](index, a)
	case AssertUserName:
		return expectKind[string](index, a)
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
}

func expectKind[T any](index int, a Assertion) error {
	if _, ok := a.Expect.(T); !ok {
		var zero T
		return fmt.Errorf("assertions[%d]: expect must be a %T for %s, got %T", index, zero, a.Type, a.Expect)
	}
	return nil
}
