package survey

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/normstate/internal/ir"
)

// StepType discriminates the steps of a survey.
type StepType string

const (
	StepContent  StepType = "content"
	StepQuestion StepType = "question"
	StepRating   StepType = "rating"
)

// Answer is one possible answer of a question.
type Answer struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Selected bool   `json:"selected"`
}

// Content is a step showing text only.
type Content struct {
	ID        string   `json:"id"`
	Type      StepType `json:"type"`
	Text      string   `json:"text"`
	Validated bool     `json:"validated"`
}

// Question is a step asking to pick one answer.
type Question struct {
	ID        string   `json:"id"`
	Type      StepType `json:"type"`
	Text      string   `json:"text"`
	Validated bool     `json:"validated"`
	Answers   []Answer `json:"answers"`
}

// NormalizedQuestion is a question with answers replaced by their ids.
type NormalizedQuestion struct {
	ID        string   `json:"id"`
	Type      StepType `json:"type"`
	Text      string   `json:"text"`
	Validated bool     `json:"validated"`
	Answers   []string `json:"answers"`
}

// Rating is a step asking for a value between 1 and Max.
type Rating struct {
	ID        string   `json:"id"`
	Type      StepType `json:"type"`
	Text      string   `json:"text"`
	Max       int      `json:"max"`
	Value     *int     `json:"value,omitempty"`
	Validated bool     `json:"validated"`
}

// Step is one of Content, Question or Rating. Exactly one field is set.
type Step struct {
	Content  *Content
	Question *Question
	Rating   *Rating
}

// NewContent returns a content step.
func NewContent(id, text string) Step {
	return Step{Content: &Content{ID: id, Type: StepContent, Text: text}}
}

// NewQuestion returns a question step.
func NewQuestion(id, text string, answers ...Answer) Step {
	return Step{Question: &Question{ID: id, Type: StepQuestion, Text: text, Answers: append([]Answer{}, answers...)}}
}

// NewRating returns a rating step without value.
func NewRating(id, text string, max int) Step {
	return Step{Rating: &Rating{ID: id, Type: StepRating, Text: text, Max: max}}
}

// NewAnswer returns an unselected answer.
func NewAnswer(id, text string) Answer {
	return Answer{ID: id, Text: text}
}

// Type returns the discriminator of the set member, or "" for an empty step.
func (s Step) Type() StepType {
	switch {
	case s.Content != nil:
		return StepContent
	case s.Question != nil:
		return StepQuestion
	case s.Rating != nil:
		return StepRating
	default:
		return ""
	}
}

// ID returns the id of the set member.
func (s Step) ID() string {
	switch {
	case s.Content != nil:
		return s.Content.ID
	case s.Question != nil:
		return s.Question.ID
	case s.Rating != nil:
		return s.Rating.ID
	default:
		return ""
	}
}

// MarshalJSON encodes the set member with its type attribute filled in.
func (s Step) MarshalJSON() ([]byte, error) {
	switch {
	case s.Content != nil:
		c := *s.Content
		c.Type = StepContent
		return json.Marshal(c)
	case s.Question != nil:
		q := *s.Question
		q.Type = StepQuestion
		return json.Marshal(q)
	case s.Rating != nil:
		r := *s.Rating
		r.Type = StepRating
		return json.Marshal(r)
	default:
		return nil, fmt.Errorf("survey: empty step")
	}
}

// DecodeIR implements ir.Decoder, picking the member from the type
// attribute.
func (s *Step) DecodeIR(v ir.Value) error {
	obj, ok := v.(ir.Object)
	if !ok {
		return fmt.Errorf("step: expected object, got %T", v)
	}

	*s = Step{}
	typ, _ := obj["type"].(ir.String)
	switch StepType(typ) {
	case StepContent:
		c, err := ir.Decode[Content](obj)
		if err != nil {
			return fmt.Errorf("content step: %w", err)
		}
		s.Content = &c
	case StepQuestion:
		q, err := ir.Decode[Question](obj)
		if err != nil {
			return fmt.Errorf("question step: %w", err)
		}
		if q.Answers == nil {
			q.Answers = []Answer{}
		}
		s.Question = &q
	case StepRating:
		r, err := ir.Decode[Rating](obj)
		if err != nil {
			return fmt.Errorf("rating step: %w", err)
		}
		s.Rating = &r
	default:
		return fmt.Errorf("step: unknown type %q", typ)
	}
	return nil
}

// Survey is an ordered list of steps.
type Survey struct {
	ID    string `json:"id"`
	Steps []Step `json:"steps"`
}

// NewSurvey returns a survey with the given steps.
func NewSurvey(id string, steps ...Step) Survey {
	return Survey{ID: id, Steps: append([]Step{}, steps...)}
}

// DecodeIR implements ir.Decoder.
func (s *Survey) DecodeIR(v ir.Value) error {
	obj, ok := v.(ir.Object)
	if !ok {
		return fmt.Errorf("survey: expected object, got %T", v)
	}

	id, ok := ir.ScalarKey(obj["id"])
	if !ok {
		return fmt.Errorf("survey: missing id")
	}
	steps, _ := obj["steps"].(ir.Array)

	*s = Survey{ID: id, Steps: make([]Step, 0, len(steps))}
	for i, elem := range steps {
		var step Step
		if err := step.DecodeIR(elem); err != nil {
			return fmt.Errorf("survey %q: steps[%d]: %w", id, i, err)
		}
		s.Steps = append(s.Steps, step)
	}
	return nil
}

// StepRef is a normalized survey step: the id of the member and its type.
type StepRef struct {
	ID     string   `json:"id"`
	Schema StepType `json:"schema"`
}

// NormalizedSurvey is a survey with steps replaced by references.
type NormalizedSurvey struct {
	ID    string    `json:"id"`
	Steps []StepRef `json:"steps"`
}

// NormalizedStep is the part of a normalized step the survey keeps.
type NormalizedStep struct {
	ID   string   `json:"id"`
	Type StepType `json:"type"`
}

// User is the person taking the survey.
type User struct {
	Name string `json:"name"`
}
