package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/normstate/internal/engine"
	"github.com/roach88/normstate/internal/state"
)

func TestMiddlewareCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	actions := state.New("counter", 0)
	add := state.Define(actions, "add", func(n *int, by int) { *n += by })
	reset := state.DefineEmpty(actions, "reset", func(n *int) { *n = 0 })

	// Every reset first adds one, nested.
	nested := func(api engine.API, next engine.Dispatch) engine.Dispatch {
		return func(a state.Action) error {
			if a.Type == reset.Type() {
				if err := api.Dispatch(add.Build(1)); err != nil {
					return err
				}
			}
			if a.Payload == 13 {
				return errors.New("unlucky")
			}
			return next(a)
		}
	}

	s := engine.New(actions.Reducer(), actions.Initial(), engine.WithMiddleware(m.Middleware(), nested))
	require.NoError(t, s.Dispatch(add.Build(2)))
	require.NoError(t, s.Dispatch(reset.Build()))
	require.Error(t, s.Dispatch(add.Build(13)))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.dispatches.WithLabelValues("counter/add", "1")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dispatches.WithLabelValues("counter/add", "2")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dispatches.WithLabelValues("counter/reset", "1")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errors.WithLabelValues("counter/add")))
	assert.Equal(t, 3, testutil.CollectAndCount(m.dispatches))
	assert.Equal(t, 1, testutil.CollectAndCount(m.duration))
}

func TestNewRegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)

	assert.Panics(t, func() { New(reg) })
}
