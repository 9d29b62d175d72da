package survey

import (
	"fmt"

	"github.com/roach88/normstate/internal/entity"
)

// ToggleAnswer flips the selection of an answer and deselects the other
// answers of its question.
func (a *App) ToggleAnswer(d Dispatcher, answerID string) error {
	questionID, ok := a.Select.QuestionIDFromAnswerID(d.State(), answerID)
	if !ok {
		return fmt.Errorf("toggle answer %q: no question holds it: %w", answerID, entity.ErrNotFound)
	}
	answers, err := a.Select.Answers(d.State(), questionID)
	if err != nil {
		return fmt.Errorf("toggle answer %q: %w", answerID, err)
	}

	for _, answer := range answers {
		switch {
		case answer.ID == answerID:
			err = d.Dispatch(a.Answer.SetSelected.Build(answer.ID, !answer.Selected))
		case answer.Selected:
			err = d.Dispatch(a.Answer.SetSelected.Build(answer.ID, false))
		default:
			continue
		}
		if err != nil {
			return fmt.Errorf("toggle answer %q: %w", answerID, err)
		}
	}
	return nil
}
