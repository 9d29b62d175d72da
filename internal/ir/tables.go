package ir

import "slices"

// Tables holds flat normalized entities: entity type name -> id -> entity.
type Tables map[string]map[string]Object

// Entity returns the entity stored under key and id.
func (t Tables) Entity(key, id string) (Object, bool) {
	entities, ok := t[key]
	if !ok {
		return nil, false
	}
	entity, ok := entities[id]
	return entity, ok
}

// Merge stores entity under key and id. An entity already present is
// shallow-merged: fields of the new entity win.
func (t Tables) Merge(key, id string, entity Object) {
	entities, ok := t[key]
	if !ok {
		entities = make(map[string]Object)
		t[key] = entities
	}
	existing, ok := entities[id]
	if !ok {
		entities[id] = entity
		return
	}
	merged := existing.Copy()
	for k, v := range entity {
		merged[k] = v
	}
	entities[id] = merged
}

// Names returns the entity type names in sorted order.
func (t Tables) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Values returns the entities of one type ordered by id.
func (t Tables) Values(key string) []Object {
	entities := t[key]
	ids := make([]string, 0, len(entities))
	for id := range entities {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	out := make([]Object, len(ids))
	for i, id := range ids {
		out[i] = entities[id]
	}
	return out
}

// Len returns the total number of entities across all types.
func (t Tables) Len() int {
	n := 0
	for _, entities := range t {
		n += len(entities)
	}
	return n
}
