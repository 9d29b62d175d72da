package survey

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/normstate/internal/engine"
)

// Definition is the authoring form of a survey. Ids may be left out; Build
// fills them in.
type Definition struct {
	ID    string           `yaml:"id,omitempty"`
	Steps []StepDefinition `yaml:"steps"`
}

// StepDefinition describes one step. Max applies to ratings, Answers to
// questions.
type StepDefinition struct {
	Type    StepType           `yaml:"type"`
	ID      string             `yaml:"id,omitempty"`
	Text    string             `yaml:"text"`
	Max     int                `yaml:"max,omitempty"`
	Answers []AnswerDefinition `yaml:"answers,omitempty"`
}

// AnswerDefinition describes one answer of a question.
type AnswerDefinition struct {
	ID       string `yaml:"id,omitempty"`
	Text     string `yaml:"text"`
	Selected bool   `yaml:"selected,omitempty"`
}

// ParseDefinition decodes a YAML survey definition. Unknown fields are
// rejected.
func ParseDefinition(r io.Reader) (Definition, error) {
	var def Definition
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&def); err != nil {
		return Definition{}, fmt.Errorf("failed to parse survey definition: %w", err)
	}
	if err := def.Validate(); err != nil {
		return Definition{}, fmt.Errorf("invalid survey definition: %w", err)
	}
	return def, nil
}

// LoadDefinition reads a YAML survey definition file.
func LoadDefinition(path string) (Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, fmt.Errorf("failed to read survey definition: %w", err)
	}
	return ParseDefinition(bytes.NewReader(data))
}

// Validate checks step types and the fields each type requires.
func (d Definition) Validate() error {
	if len(d.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	seen := make(map[string]string)
	claim := func(id, where string) error {
		if id == "" {
			return nil
		}
		if prev, dup := seen[id]; dup {
			return fmt.Errorf("%s: id %q already used by %s", where, id, prev)
		}
		seen[id] = where
		return nil
	}

	for i, step := range d.Steps {
		where := fmt.Sprintf("steps[%d]", i)
		if err := claim(step.ID, where); err != nil {
			return err
		}

		switch step.Type {
		case StepContent:
		case StepQuestion:
			if len(step.Answers) == 0 {
				return fmt.Errorf("%s: answers are required for a question", where)
			}
		case StepRating:
			if step.Max <= 0 {
				return fmt.Errorf("%s: max must be positive for a rating", where)
			}
		case "":
			return fmt.Errorf("%s: type is required", where)
		default:
			return fmt.Errorf("%s: unknown step type %q", where, step.Type)
		}

		if step.Type != StepQuestion && len(step.Answers) > 0 {
			return fmt.Errorf("%s: answers are only allowed on questions", where)
		}
		if step.Type != StepRating && step.Max != 0 {
			return fmt.Errorf("%s: max is only allowed on ratings", where)
		}

		for j, answer := range step.Answers {
			if err := claim(answer.ID, fmt.Sprintf("%s.answers[%d]", where, j)); err != nil {
				return err
			}
		}
	}
	return nil
}

// Build turns the definition into a survey. Missing ids are taken from ids
// in document order: the survey first, then each step followed by its
// answers.
func (d Definition) Build(ids engine.IDGenerator) (Survey, error) {
	if err := d.Validate(); err != nil {
		return Survey{}, err
	}

	id := func(given string) string {
		if given != "" {
			return given
		}
		return ids.Generate()
	}

	s := NewSurvey(id(d.ID))
	for _, def := range d.Steps {
		stepID := id(def.ID)
		switch def.Type {
		case StepContent:
			s.Steps = append(s.Steps, NewContent(stepID, def.Text))
		case StepQuestion:
			answers := make([]Answer, len(def.Answers))
			for i, a := range def.Answers {
				answers[i] = Answer{ID: id(a.ID), Text: a.Text, Selected: a.Selected}
			}
			s.Steps = append(s.Steps, NewQuestion(stepID, def.Text, answers...))
		case StepRating:
			s.Steps = append(s.Steps, NewRating(stepID, def.Text, def.Max))
		}
	}
	return s, nil
}
