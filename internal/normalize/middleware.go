package normalize

import (
	"fmt"

	"github.com/roach88/normstate/internal/engine"
	"github.com/roach88/normstate/internal/ir"
	"github.com/roach88/normstate/internal/state"
)

// BulkSetter builds the action storing one table of normalized entities.
type BulkSetter func(entities []ir.Object) (state.Action, error)

// SetEntities adapts a creator taking a slice of entities to a BulkSetter.
func SetEntities[E any](c *state.Creator[[]E]) BulkSetter {
	return func(rows []ir.Object) (state.Action, error) {
		entities := make([]E, len(rows))
		for i, row := range rows {
			e, err := ir.Decode[E](row)
			if err != nil {
				return state.Action{}, fmt.Errorf("%s: decode entity: %w", c.Type(), err)
			}
			entities[i] = e
		}
		return c.Build(entities), nil
	}
}

// Middleware dispatches the entity tables attached to an action before
// passing the action on. Tables are visited by sorted type name, rows by
// sorted id. Types without a setter are ignored.
func Middleware(setters map[string]BulkSetter) engine.Middleware {
	return func(api engine.API, next engine.Dispatch) engine.Dispatch {
		return func(a state.Action) error {
			for _, name := range a.Entities.Names() {
				setter, ok := setters[name]
				if !ok {
					continue
				}
				rows := a.Entities.Values(name)
				if len(rows) == 0 {
					continue
				}
				bulk, err := setter(rows)
				if err != nil {
					return fmt.Errorf("normalize %s: %w", a.Type, err)
				}
				if err := api.Dispatch(bulk); err != nil {
					return err
				}
			}
			return next(a)
		}
	}
}
