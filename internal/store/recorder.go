package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/normstate/internal/engine"
	"github.com/roach88/normstate/internal/state"
)

type recorderConfig struct {
	logger *slog.Logger
	clock  *engine.Clock
}

// RecorderOption configures Recorder.
type RecorderOption func(*recorderConfig)

// WithRecorderLogger sets the logger for recorded actions.
func WithRecorderLogger(logger *slog.Logger) RecorderOption {
	return func(c *recorderConfig) {
		c.logger = logger
	}
}

// WithClock sets the clock handing out seq numbers.
//
// Default: a clock resumed at the latest recorded seq
func WithClock(clock *engine.Clock) RecorderOption {
	return func(c *recorderConfig) {
		c.clock = clock
	}
}

// Recorder returns middleware appending every action to the history of
// session once the rest of the chain handled it. A failed write fails the
// dispatch.
//
// ctx bounds every write made by the middleware.
func Recorder(ctx context.Context, st *Store, session string, opts ...RecorderOption) (engine.Middleware, error) {
	cfg := recorderConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.clock == nil {
		latest, err := st.LatestSeq(ctx)
		if err != nil {
			return nil, fmt.Errorf("recorder: %w", err)
		}
		cfg.clock = engine.NewClockAt(latest)
	}

	return func(api engine.API, next engine.Dispatch) engine.Dispatch {
		return func(a state.Action) error {
			depth := api.Depth()
			if err := next(a); err != nil {
				return err
			}

			r, err := NewRecord(session, cfg.clock.Next(), depth, a)
			if err != nil {
				return fmt.Errorf("record %s: %w", a.Type, err)
			}
			if err := st.WriteAction(ctx, r); err != nil {
				return fmt.Errorf("record %s: %w", a.Type, err)
			}
			cfg.logger.Debug("action recorded",
				"session", session,
				"seq", r.Seq,
				"type", string(r.Type),
				"depth", depth,
			)
			return nil
		}
	}, nil
}
