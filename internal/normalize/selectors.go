package normalize

import (
	"fmt"

	"github.com/roach88/normstate/internal/entity"
	"github.com/roach88/normstate/internal/ir"
	"github.com/roach88/normstate/internal/schema"
)

// Source exposes the entity tables of a root state R to denormalization.
// Rows are converted to ir.Object only when a lookup reaches them.
type Source[R any] struct {
	tables map[string]func(R, string) (any, bool)
}

// NewSource creates an empty source.
func NewSource[R any]() *Source[R] {
	return &Source[R]{tables: make(map[string]func(R, string) (any, bool))}
}

// Table registers the table of entity type name. It panics if name is
// already registered.
func Table[R, E any](src *Source[R], name string, get func(R) map[string]E) {
	if _, exists := src.tables[name]; exists {
		panic(fmt.Sprintf("normalize: table %q already registered", name))
	}
	src.tables[name] = func(r R, id string) (any, bool) {
		e, ok := get(r)[id]
		return e, ok
	}
}

// Lookup returns a schema.Lookup over the tables of r. Conversion failures
// are kept and reported by Err.
func (s *Source[R]) Lookup(r R) *RootLookup[R] {
	return &RootLookup[R]{source: s, root: r}
}

// RootLookup is a schema.Lookup bound to one root state value.
type RootLookup[R any] struct {
	source *Source[R]
	root   R
	err    error
}

// Entity implements schema.Lookup.
func (l *RootLookup[R]) Entity(key, id string) (ir.Object, bool) {
	get, ok := l.source.tables[key]
	if !ok {
		return nil, false
	}
	row, ok := get(l.root, id)
	if !ok {
		return nil, false
	}
	v, err := ir.FromGo(row)
	if err != nil {
		l.err = fmt.Errorf("%s %q: %w", key, id, err)
		return nil, false
	}
	obj, ok := v.(ir.Object)
	if !ok {
		l.err = fmt.Errorf("%s %q: expected object, got %T", key, id, v)
		return nil, false
	}
	return obj, true
}

// Err returns the first conversion failure.
func (l *RootLookup[R]) Err() error {
	return l.err
}

// EntitySelectors are entity selectors over the normalized collection E that
// can also rebuild the nested value T.
type EntitySelectors[R, E, T any] struct {
	*entity.Selectors[R, E]
	source *Source[R]
	schema schema.Schema
}

// NewEntitySelectors creates selectors for the schema registered under name.
// It panics if name is not registered.
func NewEntitySelectors[R, E, T any](src *Source[R], reg *schema.Registry, name string, selectCollection func(R) entity.Collection[E]) *EntitySelectors[R, E, T] {
	return &EntitySelectors[R, E, T]{
		Selectors: entity.NewSelectors(name, selectCollection),
		source:    src,
		schema:    reg.MustLookup(name),
	}
}

// Denormalized selects the nested value of one entity. A missing entity
// fails with *entity.LookupError.
func (s *EntitySelectors[R, E, T]) Denormalized() func(R, string) (T, error) {
	return func(r R, id string) (T, error) {
		var zero T
		lookup := s.source.Lookup(r)
		v, found, err := schema.Denormalize(ir.String(id), s.schema, lookup)
		if err == nil {
			err = lookup.Err()
		}
		if err != nil {
			return zero, fmt.Errorf("denormalize %s %q: %w", s.Name(), id, err)
		}
		if !found {
			return zero, &entity.LookupError{Name: s.Name(), ID: id}
		}
		out, err := ir.Decode[T](v)
		if err != nil {
			return zero, fmt.Errorf("denormalize %s %q: %w", s.Name(), id, err)
		}
		return out, nil
	}
}

// DenormalizedMany selects the nested values of several entities, skipping
// missing ones.
func (s *EntitySelectors[R, E, T]) DenormalizedMany() func(R, []string) ([]T, error) {
	return func(r R, ids []string) ([]T, error) {
		refs := make(ir.Array, len(ids))
		for i, id := range ids {
			refs[i] = ir.String(id)
		}

		lookup := s.source.Lookup(r)
		v, _, err := schema.Denormalize(refs, schema.NewArray(s.schema), lookup)
		if err == nil {
			err = lookup.Err()
		}
		if err != nil {
			return nil, fmt.Errorf("denormalize %s: %w", s.Name(), err)
		}

		values, _ := v.(ir.Array)
		out := make([]T, 0, len(values))
		for _, elem := range values {
			t, err := ir.Decode[T](elem)
			if err != nil {
				return nil, fmt.Errorf("denormalize %s: %w", s.Name(), err)
			}
			out = append(out, t)
		}
		return out, nil
	}
}
