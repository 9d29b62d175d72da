package entity

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Collection is the normalized storage for one entity type.
type Collection[E any] struct {
	IDs      []string     `json:"ids"`
	Entities map[string]E `json:"entities"`
}

// State is a collection plus owner-specific extra properties.
//
// Wire shape: {ids, entities, ...extra}.
type State[E, X any] struct {
	Collection[E]
	Extra X
}

// InitialState returns an empty collection carrying extra.
func InitialState[E, X any](extra X) State[E, X] {
	return State[E, X]{
		Collection: Collection[E]{
			IDs:      []string{},
			Entities: map[string]E{},
		},
		Extra: extra,
	}
}

// MarshalJSON flattens Extra into the collection object. Extra must encode
// as a JSON object (or null) without ids or entities fields.
func (s State[E, X]) MarshalJSON() ([]byte, error) {
	extra, err := json.Marshal(s.Extra)
	if err != nil {
		return nil, fmt.Errorf("marshal extra: %w", err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(extra, &fields); err != nil {
		return nil, fmt.Errorf("extra must encode as a JSON object, got %s", extra)
	}
	if fields == nil {
		fields = make(map[string]json.RawMessage)
	}
	for _, reserved := range []string{"ids", "entities"} {
		if _, ok := fields[reserved]; ok {
			return nil, fmt.Errorf("extra field %q collides with the collection", reserved)
		}
	}

	ids := s.IDs
	if ids == nil {
		ids = []string{}
	}
	if fields["ids"], err = json.Marshal(ids); err != nil {
		return nil, err
	}
	entities := s.Entities
	if entities == nil {
		entities = map[string]E{}
	}
	if fields["entities"], err = json.Marshal(entities); err != nil {
		return nil, err
	}
	return json.Marshal(fields)
}

// Adapter implements the collection rules for entities of type E.
type Adapter[E any] struct {
	selectID func(E) string
}

// NewAdapter creates an adapter identifying entities with selectID.
func NewAdapter[E any](selectID func(E) string) Adapter[E] {
	return Adapter[E]{selectID: selectID}
}

// ID returns the id of entity.
func (a Adapter[E]) ID(entity E) string {
	return a.selectID(entity)
}

// SetOne stores entity, replacing any entity with the same id. The id list
// is not touched.
func (a Adapter[E]) SetOne(c *Collection[E], entity E) {
	if c.Entities == nil {
		c.Entities = make(map[string]E)
	}
	c.Entities[a.selectID(entity)] = entity
}

// SetMany calls SetOne for each entity.
func (a Adapter[E]) SetMany(c *Collection[E], entities []E) {
	for _, entity := range entities {
		a.SetOne(c, entity)
	}
}

// AddOne stores entity and appends its id if new.
func (a Adapter[E]) AddOne(c *Collection[E], entity E) {
	a.SetOne(c, entity)
	a.appendID(c, a.selectID(entity))
}

// AddMany calls AddOne for each entity.
func (a Adapter[E]) AddMany(c *Collection[E], entities []E) {
	for _, entity := range entities {
		a.AddOne(c, entity)
	}
}

// AddID appends id if an entity with that id is stored. It reports false,
// leaving the id list unchanged, when there is no such entity.
func (a Adapter[E]) AddID(c *Collection[E], id string) bool {
	if _, ok := c.Entities[id]; !ok {
		return false
	}
	a.appendID(c, id)
	return true
}

// AddIDs calls AddID for each id and reports whether all were present.
func (a Adapter[E]) AddIDs(c *Collection[E], ids []string) bool {
	all := true
	for _, id := range ids {
		if !a.AddID(c, id) {
			all = false
		}
	}
	return all
}

// SelectOne returns the entity stored under id.
func (a Adapter[E]) SelectOne(c Collection[E], id string) (E, bool) {
	entity, ok := c.Entities[id]
	return entity, ok
}

// SelectMany returns the entities stored under ids, in order. Ids without an
// entity are skipped.
func (a Adapter[E]) SelectMany(c Collection[E], ids []string) []E {
	out := make([]E, 0, len(ids))
	for _, id := range ids {
		if entity, ok := c.Entities[id]; ok {
			out = append(out, entity)
		}
	}
	return out
}

func (a Adapter[E]) appendID(c *Collection[E], id string) {
	if slices.Contains(c.IDs, id) {
		return
	}
	c.IDs = append(c.IDs, id)
}
