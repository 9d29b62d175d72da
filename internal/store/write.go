package store

import (
	"context"
	"fmt"

	"github.com/roach88/normstate/internal/ir"
	"github.com/roach88/normstate/internal/state"
)

// Record is one recorded action.
type Record struct {
	// ID is the content-addressed id, see ir.ActionID.
	ID string

	// Seq is the logical commit position, unique across sessions.
	Seq int64

	Session  string
	Type     state.ActionType
	EntityID string

	// Depth is the dispatch nesting the action was reduced at.
	Depth int

	// Body is the action wire shape.
	Body ir.Object
}

// NewRecord encodes a and computes its id.
func NewRecord(session string, seq int64, depth int, a state.Action) (Record, error) {
	body, err := a.Encode()
	if err != nil {
		return Record{}, fmt.Errorf("new record: %w", err)
	}
	id, err := ir.ActionID(session, seq, body)
	if err != nil {
		return Record{}, fmt.Errorf("new record: %w", err)
	}
	return Record{
		ID:       id,
		Seq:      seq,
		Session:  session,
		Type:     a.Type,
		EntityID: a.EntityID,
		Depth:    depth,
		Body:     body,
	}, nil
}

// Action decodes the recorded wire shape. Payloads stay ir.Value.
func (r Record) Action() (state.Action, error) {
	return state.DecodeAction(r.Body)
}

// WriteAction inserts a record.
// Uses ON CONFLICT DO NOTHING for idempotency - duplicate IDs are silently ignored.
func (s *Store) WriteAction(ctx context.Context, r Record) error {
	body, err := marshalBody(r.Body)
	if err != nil {
		return fmt.Errorf("write action: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO actions
		(seq, id, session, type, entity_id, depth, body)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		r.Seq,
		r.ID,
		r.Session,
		string(r.Type),
		r.EntityID,
		r.Depth,
		body,
	)
	if err != nil {
		return fmt.Errorf("write action: %w", err)
	}
	return nil
}
