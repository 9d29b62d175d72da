package schema

import (
	"fmt"

	"github.com/roach88/normstate/internal/ir"
)

// Lookup fetches one normalized entity. ir.Tables implements it.
type Lookup interface {
	Entity(key, id string) (ir.Object, bool)
}

// LookupFunc adapts a function to Lookup.
type LookupFunc func(key, id string) (ir.Object, bool)

// Entity implements Lookup.
func (f LookupFunc) Entity(key, id string) (ir.Object, bool) {
	return f(key, id)
}

// Denormalize rebuilds the nested value for a normalized result.
//
// It reports false when result refers to an entity lookup cannot find.
// Missing entities inside arrays are dropped and missing entities held by
// a member remove that member. An entity reached again while it is being
// expanded is a back-reference and is dropped by the same rule.
func Denormalize(result ir.Value, s Schema, lookup Lookup) (ir.Value, bool, error) {
	d := denormalizer{lookup: lookup, expanding: make(map[entityRef]bool)}
	return d.value(result, s, "$")
}

type entityRef struct {
	key string
	id  string
}

type denormalizer struct {
	lookup    Lookup
	expanding map[entityRef]bool
}

func (d *denormalizer) value(v ir.Value, s Schema, path string) (ir.Value, bool, error) {
	if _, isNull := v.(ir.Null); isNull || v == nil {
		return v, true, nil
	}

	switch sch := s.(type) {
	case nil:
		return v, true, nil
	case *Entity:
		return d.entity(v, sch, path)
	case *Array:
		arr, ok := v.(ir.Array)
		if !ok {
			return nil, false, fmt.Errorf("%s: expected array, got %T", path, v)
		}
		out := make(ir.Array, 0, len(arr))
		for i, elem := range arr {
			r, found, err := d.value(elem, sch.of, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, false, err
			}
			if found {
				out = append(out, r)
			}
		}
		return out, true, nil
	case *Union:
		return d.union(v, sch, path)
	case *Object:
		obj, ok := v.(ir.Object)
		if !ok {
			return nil, false, fmt.Errorf("%s: expected object, got %T", path, v)
		}
		out, err := d.members(obj, sch.definition, path)
		if err != nil {
			return nil, false, err
		}
		return out, true, nil
	default:
		return nil, false, fmt.Errorf("%s: unknown schema %T", path, s)
	}
}

func (d *denormalizer) entity(v ir.Value, e *Entity, path string) (ir.Value, bool, error) {
	var obj ir.Object
	id, isRef := ir.ScalarKey(v)
	if isRef {
		found, ok := d.lookup.Entity(e.key, id)
		if !ok {
			return nil, false, nil
		}
		obj = found
	} else {
		inline, ok := v.(ir.Object)
		if !ok {
			return nil, false, fmt.Errorf("%s: entity %s: expected id or object, got %T", path, e.key, v)
		}
		obj = inline
		var err error
		if id, err = e.ID(obj); err != nil {
			return nil, false, fmt.Errorf("%s: %w", path, err)
		}
	}

	ref := entityRef{key: e.key, id: id}
	if d.expanding[ref] {
		return nil, false, nil
	}
	d.expanding[ref] = true
	defer delete(d.expanding, ref)

	out, err := d.members(obj, e.definition, path)
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}

func (d *denormalizer) union(v ir.Value, u *Union, path string) (ir.Value, bool, error) {
	obj, ok := v.(ir.Object)
	if !ok {
		return nil, false, fmt.Errorf("%s: union: expected {id, schema}, got %T", path, v)
	}
	name, ok := obj["schema"].(ir.String)
	if !ok {
		return nil, false, fmt.Errorf("%s: union: missing schema", path)
	}
	e, ok := u.schemas[string(name)]
	if !ok {
		return nil, false, fmt.Errorf("%s: union: unknown schema %q", path, name)
	}
	id, ok := obj["id"]
	if !ok {
		return nil, false, fmt.Errorf("%s: union: missing id", path)
	}
	return d.entity(id, e, path)
}

func (d *denormalizer) members(obj ir.Object, definition Definition, path string) (ir.Object, error) {
	out := obj.Copy()
	for name, member := range definition {
		v, ok := obj[name]
		if !ok {
			continue
		}
		r, found, err := d.value(v, member, path+"."+name)
		if err != nil {
			return nil, err
		}
		if !found {
			delete(out, name)
			continue
		}
		out[name] = r
	}
	return out, nil
}
