package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/normstate/internal/engine"
	"github.com/roach88/normstate/internal/state"
)

func TestRecorderAndReplay(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	actions, add, see := counterActions()

	// Every add is preceded by a nested see, the way normalization
	// middleware inserts bulk-sets.
	announce := func(api engine.API, next engine.Dispatch) engine.Dispatch {
		return func(a state.Action) error {
			if a.Type == add.Type() {
				if err := api.Dispatch(see.Build("add")); err != nil {
					return err
				}
			}
			return next(a)
		}
	}

	recorder, err := Recorder(ctx, s, "s1")
	require.NoError(t, err)
	live := engine.New(actions.Reducer(), actions.Initial(), engine.WithMiddleware(recorder, announce))

	require.NoError(t, live.Dispatch(add.Build(2)))
	require.NoError(t, live.Dispatch(see.Build("tom")))
	require.NoError(t, live.Dispatch(add.Build(3)))

	records, err := s.ReadSession(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, records, 5)

	var types []state.ActionType
	var depths []int
	for _, r := range records {
		types = append(types, r.Type)
		depths = append(depths, r.Depth)
	}
	assert.Equal(t, []state.ActionType{"counter/see", "counter/add", "counter/see", "counter/see", "counter/add"}, types)
	assert.Equal(t, []int{2, 1, 1, 2, 1}, depths)

	replayed := engine.New(actions.Reducer(), actions.Initial())
	result, err := Replay(ctx, s, "s1", replayed.Dispatch)
	require.NoError(t, err)

	assert.Equal(t, 5, result.Dispatched)
	assert.Equal(t, int64(5), result.LastSeq)
	assert.Equal(t, live.State(), replayed.State())
	assert.Equal(t, counter{Total: 5, Seen: []string{"add", "tom", "add"}}, replayed.State())
}

func TestRecorderResumesSeq(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.WriteAction(ctx, createTestRecord(t, "old", 41, 1)))

	actions, add, _ := counterActions()
	recorder, err := Recorder(ctx, s, "new")
	require.NoError(t, err)
	st := engine.New(actions.Reducer(), actions.Initial(), engine.WithMiddleware(recorder))
	require.NoError(t, st.Dispatch(add.Build(1)))

	latest, err := s.LatestSeq(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(42), latest)
}

func TestRecorderSkipsFailedDispatch(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	actions, add, _ := counterActions()

	failing := func(api engine.API, next engine.Dispatch) engine.Dispatch {
		return func(a state.Action) error {
			return errors.New("rejected")
		}
	}
	recorder, err := Recorder(ctx, s, "s1", WithClock(engine.NewClock()))
	require.NoError(t, err)
	st := engine.New(actions.Reducer(), actions.Initial(), engine.WithMiddleware(recorder, failing))

	require.Error(t, st.Dispatch(add.Build(1)))

	records, err := s.ReadSession(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestReplayStopsAtFailure(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	for seq := int64(1); seq <= 3; seq++ {
		require.NoError(t, s.WriteAction(ctx, createTestRecord(t, "s1", seq, int(seq))))
	}

	calls := 0
	result, err := Replay(ctx, s, "s1", func(a state.Action) error {
		calls++
		if calls == 2 {
			return errors.New("boom")
		}
		return nil
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "seq 2")
	assert.Equal(t, 1, result.Dispatched)
	assert.Equal(t, int64(1), result.LastSeq)
}
