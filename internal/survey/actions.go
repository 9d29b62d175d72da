package survey

import (
	"log/slog"

	"github.com/roach88/normstate/internal/entity"
	"github.com/roach88/normstate/internal/normalize"
	"github.com/roach88/normstate/internal/schema"
	"github.com/roach88/normstate/internal/state"
)

// AnswerActions own the answer collection.
type AnswerActions struct {
	*entity.Actions[Answer, struct{}]

	SetAnswers  *state.Creator[[]Answer]
	SetText     *entity.Creator[string]
	SetSelected *entity.Creator[bool]
}

func newAnswerActions(logger *slog.Logger) *AnswerActions {
	a := entity.NewActions("answer",
		entity.NewAdapter(func(a Answer) string { return a.ID }),
		struct{}{},
		state.WithLogger[entity.State[Answer, struct{}]](logger),
	)
	return &AnswerActions{
		Actions:     a,
		SetAnswers:  entity.SetMany(a, "set-answers"),
		SetText:     entity.SetProperty(a, "text", func(a *Answer) *string { return &a.Text }),
		SetSelected: entity.SetProperty(a, "selected", func(a *Answer) *bool { return &a.Selected }),
	}
}

// ContentActions own the content collection.
type ContentActions struct {
	*entity.Actions[Content, struct{}]

	SetContents *state.Creator[[]Content]
	AddContent  *state.TransformCreator[Content, Content]
	AddContents *state.TransformCreator[[]Content, []Content]
	SetText     *entity.Creator[string]
}

func newContentActions(reg *schema.Registry, logger *slog.Logger) *ContentActions {
	a := entity.NewActions("content",
		entity.NewAdapter(func(c Content) string { return c.ID }),
		struct{}{},
		state.WithLogger[entity.State[Content, struct{}]](logger),
	)
	return &ContentActions{
		Actions:     a,
		SetContents: entity.SetMany(a, "set-contents"),
		AddContent:  entity.AddTransformed(a, "add-content", normalize.New[Content, Content](reg, "content").Transform),
		AddContents: entity.AddManyTransformed(a, "add-contents", normalize.Many[Content, Content](reg, "content").Transform),
		SetText:     entity.SetProperty(a, "text", func(c *Content) *string { return &c.Text }),
	}
}

// QuestionActions own the question collection.
type QuestionActions struct {
	*entity.Actions[NormalizedQuestion, struct{}]

	SetQuestions *state.Creator[[]NormalizedQuestion]
	AddQuestion  *state.TransformCreator[Question, NormalizedQuestion]
	AddQuestions *state.TransformCreator[[]Question, []NormalizedQuestion]
	SetText      *entity.Creator[string]
	AddAnswer    *entity.TransformCreator[Answer, Answer]
	ClearAnswers *entity.EmptyCreator
}

func newQuestionActions(reg *schema.Registry, logger *slog.Logger) *QuestionActions {
	a := entity.NewActions("question",
		entity.NewAdapter(func(q NormalizedQuestion) string { return q.ID }),
		struct{}{},
		state.WithLogger[entity.State[NormalizedQuestion, struct{}]](logger),
	)
	return &QuestionActions{
		Actions:      a,
		SetQuestions: entity.SetMany(a, "set-questions"),
		AddQuestion:  entity.AddTransformed(a, "add-question", normalize.New[Question, NormalizedQuestion](reg, "question").Transform),
		AddQuestions: entity.AddManyTransformed(a, "add-questions", normalize.Many[Question, NormalizedQuestion](reg, "question").Transform),
		SetText:      entity.SetProperty(a, "text", func(q *NormalizedQuestion) *string { return &q.Text }),
		AddAnswer: entity.DefineTransform(a, "add-answer", normalize.New[Answer, Answer](reg, "answer").Transform,
			func(q *NormalizedQuestion, answer Answer) {
				q.Answers = append(q.Answers, answer.ID)
			}),
		ClearAnswers: entity.DefineEmpty(a, "clear-answers", func(q *NormalizedQuestion) {
			q.Answers = []string{}
		}),
	}
}

// RatingActions own the rating collection.
type RatingActions struct {
	*entity.Actions[Rating, struct{}]

	SetRatings *state.Creator[[]Rating]
	AddRating  *state.TransformCreator[Rating, Rating]
	AddRatings *state.TransformCreator[[]Rating, []Rating]
	SetText    *entity.Creator[string]
	SetValue   *entity.Creator[int]
	ClearValue *entity.EmptyCreator
}

func newRatingActions(reg *schema.Registry, logger *slog.Logger) *RatingActions {
	a := entity.NewActions("rating",
		entity.NewAdapter(func(r Rating) string { return r.ID }),
		struct{}{},
		state.WithLogger[entity.State[Rating, struct{}]](logger),
	)
	return &RatingActions{
		Actions:    a,
		SetRatings: entity.SetMany(a, "set-ratings"),
		AddRating:  entity.AddTransformed(a, "add-rating", normalize.New[Rating, Rating](reg, "rating").Transform),
		AddRatings: entity.AddManyTransformed(a, "add-ratings", normalize.Many[Rating, Rating](reg, "rating").Transform),
		SetText:    entity.SetProperty(a, "text", func(r *Rating) *string { return &r.Text }),
		SetValue: entity.Define(a, "set-value", func(r *Rating, value int) {
			r.Value = &value
		}),
		ClearValue: entity.DefineEmpty(a, "clear-value", func(r *Rating) {
			r.Value = nil
		}),
	}
}

// SurveyActions own the survey collection.
type SurveyActions struct {
	*entity.Actions[NormalizedSurvey, struct{}]

	SetSurveys *state.Creator[[]NormalizedSurvey]
	AddSurvey  *state.TransformCreator[Survey, NormalizedSurvey]
	AddStep    *entity.TransformCreator[Step, NormalizedStep]
	AddSteps   *entity.TransformCreator[[]Step, []NormalizedStep]
}

func newSurveyActions(reg *schema.Registry, logger *slog.Logger) *SurveyActions {
	a := entity.NewActions("survey",
		entity.NewAdapter(func(s NormalizedSurvey) string { return s.ID }),
		struct{}{},
		state.WithLogger[entity.State[NormalizedSurvey, struct{}]](logger),
	)
	return &SurveyActions{
		Actions:    a,
		SetSurveys: entity.SetMany(a, "set-surveys"),
		AddSurvey:  entity.AddTransformed(a, "add-survey", normalize.New[Survey, NormalizedSurvey](reg, "survey").Transform),
		AddStep: entity.DefineTransform(a, "add-step", normalize.New[Step, NormalizedStep](reg, "step").Transform,
			func(s *NormalizedSurvey, step NormalizedStep) {
				s.Steps = append(s.Steps, StepRef{ID: step.ID, Schema: step.Type})
			}),
		AddSteps: entity.DefineTransform(a, "add-steps", normalize.Many[Step, NormalizedStep](reg, "step").Transform,
			func(s *NormalizedSurvey, steps []NormalizedStep) {
				for _, step := range steps {
					s.Steps = append(s.Steps, StepRef{ID: step.ID, Schema: step.Type})
				}
			}),
	}
}

// UserActions own the current user.
type UserActions struct {
	*state.Actions[User]

	Set     *state.Creator[User]
	SetName *state.Creator[string]
}

func newUserActions(logger *slog.Logger) *UserActions {
	a := state.New("user", User{}, state.WithLogger[User](logger))
	return &UserActions{
		Actions: a,
		Set:     state.Replace(a),
		SetName: state.Setter(a, "name", func(u *User) *string { return &u.Name }),
	}
}
