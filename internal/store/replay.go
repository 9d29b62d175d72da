package store

import (
	"context"
	"fmt"

	"github.com/roach88/normstate/internal/engine"
)

// ReplayResult reports what Replay dispatched.
type ReplayResult struct {
	Session    string
	Dispatched int
	LastSeq    int64
}

// Replay dispatches the recorded actions of session in seq order.
//
// Recorded actions carry no entity tables, so the bulk-set actions recorded
// alongside them are what restores normalized entities. Replay stops at the
// first failed dispatch.
func Replay(ctx context.Context, st *Store, session string, dispatch engine.Dispatch) (ReplayResult, error) {
	result := ReplayResult{Session: session}

	records, err := st.ReadSession(ctx, session)
	if err != nil {
		return result, fmt.Errorf("replay %s: %w", session, err)
	}

	for _, r := range records {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		a, err := r.Action()
		if err != nil {
			return result, fmt.Errorf("replay %s: seq %d: %w", session, r.Seq, err)
		}
		if err := dispatch(a); err != nil {
			return result, fmt.Errorf("replay %s: seq %d (%s): %w", session, r.Seq, r.Type, err)
		}
		result.Dispatched++
		result.LastSeq = r.Seq
	}
	return result, nil
}
