package survey

import (
	"slices"

	"github.com/roach88/normstate/internal/entity"
	"github.com/roach88/normstate/internal/normalize"
	"github.com/roach88/normstate/internal/schema"
	"github.com/roach88/normstate/internal/selector"
)

// Selectors read the demo state. Nested values are rebuilt from the
// collections on every call.
type Selectors struct {
	answers   *entity.Selectors[State, Answer]
	contents  *entity.Selectors[State, Content]
	questions *normalize.EntitySelectors[State, NormalizedQuestion, Question]
	ratings   *normalize.EntitySelectors[State, Rating, Rating]
	surveys   *normalize.EntitySelectors[State, NormalizedSurvey, Survey]

	AnswerText   selector.Safe[State, string, string]
	IsSelected   selector.Safe[State, string, bool]
	ContentText  selector.Safe[State, string, string]
	QuestionText selector.Safe[State, string, string]
	RatingText   selector.Safe[State, string, string]
	RatingMax    selector.Safe[State, string, int]
	RatingValue  selector.Safe[State, string, int]
	UserName     func(State) string
}

func newSelectors(reg *schema.Registry) *Selectors {
	src := normalize.NewSource[State]()
	normalize.Table(src, "answer", func(s State) map[string]Answer { return s.Answers.Entities })
	normalize.Table(src, "content", func(s State) map[string]Content { return s.Contents.Entities })
	normalize.Table(src, "question", func(s State) map[string]NormalizedQuestion { return s.Questions.Entities })
	normalize.Table(src, "rating", func(s State) map[string]Rating { return s.Ratings.Entities })
	normalize.Table(src, "survey", func(s State) map[string]NormalizedSurvey { return s.Surveys.Entities })
	normalize.Table(src, "user", func(s State) map[string]User { return map[string]User{s.User.Name: s.User} })

	sel := &Selectors{
		answers:   entity.NewSelectors("answer", func(s State) entity.Collection[Answer] { return s.Answers.Collection }),
		contents:  entity.NewSelectors("content", func(s State) entity.Collection[Content] { return s.Contents.Collection }),
		questions: normalize.NewEntitySelectors[State, NormalizedQuestion, Question](src, reg, "question", func(s State) entity.Collection[NormalizedQuestion] { return s.Questions.Collection }),
		ratings:   normalize.NewEntitySelectors[State, Rating, Rating](src, reg, "rating", func(s State) entity.Collection[Rating] { return s.Ratings.Collection }),
		surveys:   normalize.NewEntitySelectors[State, NormalizedSurvey, Survey](src, reg, "survey", func(s State) entity.Collection[NormalizedSurvey] { return s.Surveys.Collection }),
	}

	sel.AnswerText = entity.Field(sel.answers, "text", func(a Answer) string { return a.Text })
	sel.IsSelected = entity.Field(sel.answers, "selected", func(a Answer) bool { return a.Selected })
	sel.ContentText = entity.Field(sel.contents, "text", func(c Content) string { return c.Text })
	sel.QuestionText = entity.Field(sel.questions.Selectors, "text", func(q NormalizedQuestion) string { return q.Text })
	sel.RatingText = entity.Field(sel.ratings.Selectors, "text", func(r Rating) string { return r.Text })
	sel.RatingMax = entity.Field(sel.ratings.Selectors, "max", func(r Rating) int { return r.Max })
	sel.RatingValue = entity.Property(sel.ratings.Selectors, "value", func(r Rating) (int, bool) {
		if r.Value == nil {
			return 0, false
		}
		return *r.Value, true
	})

	user := selector.New(func(s State) User { return s.User })
	sel.UserName = selector.Property(user, func(u User) string { return u.Name })
	return sel
}

// Survey selects a survey with its steps and answers nested.
func (s *Selectors) Survey(st State, surveyID string) (Survey, error) {
	return s.surveys.Denormalized()(st, surveyID)
}

// SurveyIDs selects the ids of the surveys added to the store.
func (s *Selectors) SurveyIDs(st State) []string {
	return s.surveys.IDs()(st)
}

// TotalSteps selects the number of steps of a survey.
func (s *Selectors) TotalSteps(st State, surveyID string) (int, error) {
	sv, err := s.Survey(st, surveyID)
	if err != nil {
		return 0, err
	}
	return len(sv.Steps), nil
}

// Step selects one step of a survey. ok is false when the survey has no
// such step.
func (s *Selectors) Step(st State, surveyID, stepID string) (Step, bool, error) {
	sv, err := s.Survey(st, surveyID)
	if err != nil {
		return Step{}, false, err
	}
	for _, step := range sv.Steps {
		if step.ID() == stepID {
			return step, true, nil
		}
	}
	return Step{}, false, nil
}

// StepIndex selects the position of a step in its survey, or -1.
func (s *Selectors) StepIndex(st State, surveyID, stepID string) (int, error) {
	sv, err := s.Survey(st, surveyID)
	if err != nil {
		return -1, err
	}
	return stepIndex(sv, stepID), nil
}

func stepIndex(sv Survey, stepID string) int {
	return slices.IndexFunc(sv.Steps, func(step Step) bool { return step.ID() == stepID })
}

// CanGoPrevious reports whether a step has a step before it.
func (s *Selectors) CanGoPrevious(st State, surveyID, stepID string) (bool, error) {
	index, err := s.StepIndex(st, surveyID, stepID)
	if err != nil {
		return false, err
	}
	return index > 0, nil
}

// CanGoNext reports whether a step has a step after it and is complete: a
// question needs a selected answer, a rating needs a value.
func (s *Selectors) CanGoNext(st State, surveyID, stepID string) (bool, error) {
	sv, err := s.Survey(st, surveyID)
	if err != nil {
		return false, err
	}

	index := stepIndex(sv, stepID)
	if index < 0 || index >= len(sv.Steps)-1 {
		return false, nil
	}

	step := sv.Steps[index]
	switch {
	case step.Question != nil:
		return hasSelected(step.Question.Answers), nil
	case step.Rating != nil:
		return step.Rating.Value != nil, nil
	default:
		return true, nil
	}
}

// Question selects a question with its answers nested.
func (s *Selectors) Question(st State, questionID string) (Question, error) {
	return s.questions.Denormalized()(st, questionID)
}

// Answers selects the answers of a question in order.
func (s *Selectors) Answers(st State, questionID string) ([]Answer, error) {
	q, err := s.Question(st, questionID)
	if err != nil {
		return nil, err
	}
	return q.Answers, nil
}

// SelectedAnswers selects the selected answers of a question.
func (s *Selectors) SelectedAnswers(st State, questionID string) ([]Answer, error) {
	answers, err := s.Answers(st, questionID)
	if err != nil {
		return nil, err
	}
	selected := make([]Answer, 0, len(answers))
	for _, a := range answers {
		if a.Selected {
			selected = append(selected, a)
		}
	}
	return selected, nil
}

// QuestionIDFromAnswerID selects the question holding an answer. Questions
// are searched in id order.
func (s *Selectors) QuestionIDFromAnswerID(st State, answerID string) (string, bool) {
	questions := s.questions.Entities()(st)
	ids := make([]string, 0, len(questions))
	for id := range questions {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for _, id := range ids {
		if slices.Contains(questions[id].Answers, answerID) {
			return id, true
		}
	}
	return "", false
}

// HasSelectedAnswer reports whether any answer of a question is selected.
func (s *Selectors) HasSelectedAnswer(st State, questionID string) (bool, error) {
	answers, err := s.Answers(st, questionID)
	if err != nil {
		return false, err
	}
	return hasSelected(answers), nil
}

func hasSelected(answers []Answer) bool {
	return slices.ContainsFunc(answers, func(a Answer) bool { return a.Selected })
}

// Rating selects one rating.
func (s *Selectors) Rating(st State, ratingID string) (Rating, error) {
	return s.ratings.Entity().Select(st, ratingID)
}

// HasValue reports whether a rating has been given a value.
func (s *Selectors) HasValue(st State, ratingID string) (bool, error) {
	r, err := s.Rating(st, ratingID)
	if err != nil {
		return false, err
	}
	return r.Value != nil, nil
}

// Value selects the value of a rating. A rating without value fails with
// an *entity.LookupError.
func (s *Selectors) Value(st State, ratingID string) (int, error) {
	return s.RatingValue.Select(st, ratingID)
}
