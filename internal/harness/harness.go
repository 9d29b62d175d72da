package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/normstate/internal/engine"
	"github.com/roach88/normstate/internal/store"
	"github.com/roach88/normstate/internal/survey"
)

// Harness runs the steps of one scenario against a demo store.
type Harness struct {
	app    *survey.App
	live   *survey.Store
	logger *slog.Logger
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
//  1. Build the survey, generating missing ids
//  2. Load it into a store recording into the database
//  3. Apply the steps, stopping at the first failing one
//  4. Evaluate the assertions against the final state
//  5. Read back the trace and snapshot the state
func Run(scenario *Scenario) (*Result, error) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	history, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer history.Close()

	app, err := survey.New(survey.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	recorder, err := store.Recorder(ctx, history, scenario.Name,
		store.WithRecorderLogger(logger),
		store.WithClock(engine.NewClock()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create recorder: %w", err)
	}

	h := &Harness{
		app:    app,
		live:   app.NewStore(engine.WithMiddleware(recorder)),
		logger: logger,
	}

	sv, err := scenario.Survey.Build(engine.NewSequenceGenerator("id"))
	if err != nil {
		return nil, fmt.Errorf("failed to build survey: %w", err)
	}
	if err := app.Load(h.live, sv); err != nil {
		return nil, fmt.Errorf("failed to load survey: %w", err)
	}

	result := NewResult()
	result.SurveyID = sv.ID

	for i, step := range scenario.Steps {
		if err := h.apply(step); err != nil {
			result.AddError(fmt.Sprintf("steps[%d] %s: %v", i, step.Action, err))
			break
		}
		h.logger.Info("step applied", "step", i, "action", step.Action)
	}

	for _, err := range EvaluateAssertions(app, h.live.State(), sv.ID, scenario.Assertions) {
		result.AddError(err.Error())
	}

	records, err := history.ReadSession(ctx, scenario.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to read trace: %w", err)
	}
	for _, r := range records {
		result.AddTrace(TraceEvent{
			Seq:      r.Seq,
			Type:     string(r.Type),
			EntityID: r.EntityID,
			Depth:    r.Depth,
		})
	}

	snapshot, err := survey.Snapshot(h.live.State())
	if err != nil {
		return nil, err
	}
	result.State = snapshot

	return result, nil
}

func (h *Harness) apply(step Step) error {
	switch step.Action {
	case ActionToggleAnswer:
		return h.app.ToggleAnswer(h.live, step.Answer)
	case ActionSetRating:
		return h.live.Dispatch(h.app.Rating.SetValue.Build(step.Rating, step.Value))
	case ActionSetText:
		return h.setText(step.ID, step.Text)
	case ActionSetUser:
		return h.live.Dispatch(h.app.User.SetName.Build(step.Name))
	default:
		return fmt.Errorf("unknown action %q", step.Action)
	}
}

// setText dispatches the set-text action of whichever collection holds id.
func (h *Harness) setText(id, text string) error {
	s := h.live.State()
	switch {
	case has(s.Answers.Entities, id):
		return h.live.Dispatch(h.app.Answer.SetText.Build(id, text))
	case has(s.Contents.Entities, id):
		return h.live.Dispatch(h.app.Content.SetText.Build(id, text))
	case has(s.Questions.Entities, id):
		return h.live.Dispatch(h.app.Question.SetText.Build(id, text))
	case has(s.Ratings.Entities, id):
		return h.live.Dispatch(h.app.Rating.SetText.Build(id, text))
	default:
		return fmt.Errorf("no step or answer with id %q", id)
	}
}

func has[E any](entities map[string]E, id string) bool {
	_, ok := entities[id]
	return ok
}
