package engine

import (
	"context"
	"log/slog"

	"github.com/roach88/normstate/internal/state"
)

// LogActions returns middleware logging every action at level before
// passing it on. Failures of later steps are logged at error level.
func LogActions(logger *slog.Logger, level slog.Level) Middleware {
	return func(api API, next Dispatch) Dispatch {
		return func(a state.Action) error {
			logger.Log(context.Background(), level, "dispatch",
				"type", string(a.Type),
				"entity_id", a.EntityID,
				"depth", api.Depth(),
			)
			if err := next(a); err != nil {
				logger.Error("dispatch failed",
					"type", string(a.Type),
					"error", err,
				)
				return err
			}
			return nil
		}
	}
}
