package normalize

import (
	"fmt"

	"github.com/roach88/normstate/internal/ir"
	"github.com/roach88/normstate/internal/schema"
	"github.com/roach88/normstate/internal/state"
)

// Normalizer turns T values into their normalized view N plus the entity
// tables they produce.
type Normalizer[T, N any] struct {
	name   string
	schema schema.Schema
}

// New creates a normalizer for the schema registered under name. It panics
// if name is not registered.
func New[T, N any](reg *schema.Registry, name string) *Normalizer[T, N] {
	return &Normalizer[T, N]{name: name, schema: reg.MustLookup(name)}
}

// Many creates a normalizer for slices of the schema registered under name.
// It panics if name is not registered.
func Many[T, N any](reg *schema.Registry, name string) *Normalizer[[]T, []N] {
	return &Normalizer[[]T, []N]{name: name, schema: schema.NewArray(reg.MustLookup(name))}
}

// Name returns the registry name of the schema.
func (n *Normalizer[T, N]) Name() string {
	return n.name
}

// Normalize normalizes v. The returned N is the root's own entry in the
// tables: for an entity its table row, for a union member the row of the
// member's entity, and for arrays the rows of each element.
func (n *Normalizer[T, N]) Normalize(v T) (N, ir.Tables, error) {
	var zero N

	value, err := ir.FromGo(v)
	if err != nil {
		return zero, nil, fmt.Errorf("normalize %s: %w", n.name, err)
	}
	result, tables, err := schema.Normalize(value, n.schema)
	if err != nil {
		return zero, nil, fmt.Errorf("normalize %s: %w", n.name, err)
	}
	view, err := rootView(result, n.schema, tables)
	if err != nil {
		return zero, nil, fmt.Errorf("normalize %s: %w", n.name, err)
	}
	out, err := ir.Decode[N](view)
	if err != nil {
		return zero, nil, fmt.Errorf("normalize %s: %w", n.name, err)
	}
	return out, tables, nil
}

// Transform is Normalize in the shape of a state.Transform. The tables go
// to the action's entity side channel.
func (n *Normalizer[T, N]) Transform(v T) (N, state.Extra, error) {
	out, tables, err := n.Normalize(v)
	if err != nil {
		return out, state.Extra{}, err
	}
	return out, state.Extra{Entities: tables}, nil
}

func rootView(result ir.Value, s schema.Schema, tables ir.Tables) (ir.Value, error) {
	switch sch := s.(type) {
	case *schema.Entity:
		id, ok := ir.ScalarKey(result)
		if !ok {
			return nil, fmt.Errorf("entity %s: unexpected result %T", sch.Key(), result)
		}
		return tableRow(tables, sch.Key(), id)
	case *schema.Union:
		ref, ok := result.(ir.Object)
		if !ok {
			return nil, fmt.Errorf("union: unexpected result %T", result)
		}
		disc, _ := ref["schema"].(ir.String)
		e, ok := sch.Schema(string(disc))
		if !ok {
			return nil, fmt.Errorf("union: unknown schema %q", disc)
		}
		id, _ := ir.ScalarKey(ref["id"])
		return tableRow(tables, e.Key(), id)
	case *schema.Array:
		results, ok := result.(ir.Array)
		if !ok {
			return nil, fmt.Errorf("array: unexpected result %T", result)
		}
		views := make(ir.Array, len(results))
		for i, r := range results {
			view, err := rootView(r, sch.Of(), tables)
			if err != nil {
				return nil, err
			}
			views[i] = view
		}
		return views, nil
	default:
		return result, nil
	}
}

func tableRow(tables ir.Tables, key, id string) (ir.Value, error) {
	row, ok := tables.Entity(key, id)
	if !ok {
		return nil, fmt.Errorf("%s %q is a reference, not a value", key, id)
	}
	return row, nil
}
