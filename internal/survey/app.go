package survey

import (
	"fmt"
	"log/slog"

	"github.com/roach88/normstate/internal/engine"
	"github.com/roach88/normstate/internal/entity"
	"github.com/roach88/normstate/internal/normalize"
	"github.com/roach88/normstate/internal/schema"
	"github.com/roach88/normstate/internal/state"
)

// State is the root state of the demo.
type State struct {
	Answers   entity.State[Answer, struct{}]             `json:"answers"`
	Contents  entity.State[Content, struct{}]            `json:"contents"`
	Questions entity.State[NormalizedQuestion, struct{}] `json:"questions"`
	Ratings   entity.State[Rating, struct{}]             `json:"ratings"`
	Surveys   entity.State[NormalizedSurvey, struct{}]   `json:"surveys"`
	User      User                                       `json:"user"`
}

// Store is a dispatch engine over State.
type Store = engine.Store[State]

// App holds the registered owners, creators and selectors of the demo.
type App struct {
	Registry *schema.Registry

	Answer   *AnswerActions
	Content  *ContentActions
	Question *QuestionActions
	Rating   *RatingActions
	Survey   *SurveyActions
	User     *UserActions

	Select *Selectors

	root    *state.Root[State]
	setters map[string]normalize.BulkSetter
	logger  *slog.Logger
}

type config struct {
	logger *slog.Logger
}

// Option configures an App.
type Option func(*config)

// WithLogger sets the logger of every owner.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// New compiles the survey schemas and registers the owners.
func New(opts ...Option) (*App, error) {
	cfg := config{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}

	reg, err := Registry()
	if err != nil {
		return nil, fmt.Errorf("survey: %w", err)
	}

	app := &App{
		Registry: reg,
		Answer:   newAnswerActions(cfg.logger),
		Content:  newContentActions(reg, cfg.logger),
		Question: newQuestionActions(reg, cfg.logger),
		Rating:   newRatingActions(reg, cfg.logger),
		Survey:   newSurveyActions(reg, cfg.logger),
		User:     newUserActions(cfg.logger),
		Select:   newSelectors(reg),
		logger:   cfg.logger,
	}

	root := state.NewRoot[State]()
	state.Mount(root, app.Answer, func(s *State) *entity.State[Answer, struct{}] { return &s.Answers })
	state.Mount(root, app.Content, func(s *State) *entity.State[Content, struct{}] { return &s.Contents })
	state.Mount(root, app.Question, func(s *State) *entity.State[NormalizedQuestion, struct{}] { return &s.Questions })
	state.Mount(root, app.Rating, func(s *State) *entity.State[Rating, struct{}] { return &s.Ratings })
	state.Mount(root, app.Survey, func(s *State) *entity.State[NormalizedSurvey, struct{}] { return &s.Surveys })
	state.Mount(root, app.User, func(s *State) *User { return &s.User })
	app.root = root

	app.setters = map[string]normalize.BulkSetter{
		"answer":   normalize.SetEntities(app.Answer.SetAnswers),
		"content":  normalize.SetEntities(app.Content.SetContents),
		"question": normalize.SetEntities(app.Question.SetQuestions),
		"rating":   normalize.SetEntities(app.Rating.SetRatings),
		"survey":   normalize.SetEntities(app.Survey.SetSurveys),
	}
	return app, nil
}

// ActionTypes lists the primary action types of every owner, grouped by
// owner and sorted within each.
func (a *App) ActionTypes() []state.ActionType {
	var types []state.ActionType
	types = append(types, a.Answer.Types()...)
	types = append(types, a.Content.Types()...)
	types = append(types, a.Question.Types()...)
	types = append(types, a.Rating.Types()...)
	types = append(types, a.Survey.Types()...)
	types = append(types, a.User.Types()...)
	return types
}

// Initial returns the empty root state.
func (a *App) Initial() State {
	return a.root.Initial()
}

// Reducer returns the root reducer.
func (a *App) Reducer() state.Reducer[State] {
	return a.root.Reducer()
}

// Normalization returns the middleware storing the entities attached to add
// actions.
func (a *App) Normalization() engine.Middleware {
	return normalize.Middleware(a.setters)
}

// NewStore creates a store with the normalization middleware installed
// first. opts may add more middleware after it.
func (a *App) NewStore(opts ...engine.Option) *Store {
	all := append([]engine.Option{
		engine.WithLogger(a.logger),
		engine.WithMiddleware(a.Normalization()),
	}, opts...)
	return engine.New(a.Reducer(), a.Initial(), all...)
}

// Load dispatches the add action of s.
func (a *App) Load(d Dispatcher, s Survey) error {
	act, err := a.Survey.AddSurvey.Build(s)
	if err != nil {
		return err
	}
	return d.Dispatch(act)
}

// Dispatcher is the part of a store that multi-action operations need.
type Dispatcher interface {
	Dispatch(a state.Action) error
	State() State
}
