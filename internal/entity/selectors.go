package entity

import "github.com/roach88/normstate/internal/selector"

// Selectors reads one entity collection out of a root state R.
type Selectors[R, E any] struct {
	*selector.Selectors[R, Collection[E]]
	name string
}

// NewSelectors creates selectors for the collection returned by
// selectCollection. name appears in lookup errors.
func NewSelectors[R, E any](name string, selectCollection func(R) Collection[E]) *Selectors[R, E] {
	return &Selectors[R, E]{
		Selectors: selector.New(selectCollection),
		name:      name,
	}
}

// Name returns the collection name.
func (s *Selectors[R, E]) Name() string {
	return s.name
}

// Entities selects the id-to-entity map.
func (s *Selectors[R, E]) Entities() func(R) map[string]E {
	return selector.Derive(s.Selectors, func(c Collection[E]) map[string]E {
		return c.Entities
	})
}

// IDs selects the ordered id list.
func (s *Selectors[R, E]) IDs() func(R) []string {
	return selector.Derive(s.Selectors, func(c Collection[E]) []string {
		return c.IDs
	})
}

// Entity selects one entity by id.
func (s *Selectors[R, E]) Entity() selector.Safe[R, string, E] {
	return selector.NewSafe(
		func(r R, id string) (E, bool) {
			entity, ok := s.Select(r).Entities[id]
			return entity, ok
		},
		func(_ R, id string) error {
			return &LookupError{Name: s.name, ID: id}
		},
	)
}

// Many selects the entities for ids in order, skipping missing ones.
func (s *Selectors[R, E]) Many() func(R, []string) []E {
	return selector.DeriveWith(s.Selectors, func(c Collection[E], ids []string) []E {
		out := make([]E, 0, len(ids))
		for _, id := range ids {
			if entity, ok := c.Entities[id]; ok {
				out = append(out, entity)
			}
		}
		return out
	})
}

// Property selects an optional property of one entity. get reports whether
// the entity has a value for the property.
func Property[R, E, V any](s *Selectors[R, E], property string, get func(E) (V, bool)) selector.Safe[R, string, V] {
	return selector.NewSafe(
		func(r R, id string) (V, bool) {
			entity, ok := s.Select(r).Entities[id]
			if !ok {
				var zero V
				return zero, false
			}
			return get(entity)
		},
		func(r R, id string) error {
			_, exists := s.Select(r).Entities[id]
			return &LookupError{Name: s.name, ID: id, Property: property, MissingProperty: exists}
		},
	)
}

// Field selects a property every entity has.
func Field[R, E, V any](s *Selectors[R, E], property string, get func(E) V) selector.Safe[R, string, V] {
	return Property(s, property, func(e E) (V, bool) {
		return get(e), true
	})
}
