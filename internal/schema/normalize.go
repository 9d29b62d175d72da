package schema

import (
	"fmt"

	"github.com/roach88/normstate/internal/ir"
)

// Normalize splits value along s into a result and entity tables.
//
// An entity becomes its id, an array a list of results, and a union member
// the object {id, schema}. An entity input that already is a string or an
// integer is taken as a reference and kept. An entity seen twice is
// shallow-merged into its earlier copy.
func Normalize(value ir.Value, s Schema) (ir.Value, ir.Tables, error) {
	tables := ir.Tables{}
	result, err := normalizeValue(value, s, tables, "$")
	if err != nil {
		return nil, nil, err
	}
	return result, tables, nil
}

func normalizeValue(value ir.Value, s Schema, tables ir.Tables, path string) (ir.Value, error) {
	if _, isNull := value.(ir.Null); isNull || value == nil {
		return value, nil
	}

	switch sch := s.(type) {
	case nil:
		return value, nil
	case *Entity:
		return normalizeEntity(value, sch, tables, path)
	case *Array:
		arr, ok := value.(ir.Array)
		if !ok {
			return nil, fmt.Errorf("%s: expected array, got %T", path, value)
		}
		out := make(ir.Array, 0, len(arr))
		for i, elem := range arr {
			r, err := normalizeValue(elem, sch.of, tables, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			if _, isNull := r.(ir.Null); isNull {
				continue
			}
			out = append(out, r)
		}
		return out, nil
	case *Union:
		return normalizeUnion(value, sch, tables, path)
	case *Object:
		obj, ok := value.(ir.Object)
		if !ok {
			return nil, fmt.Errorf("%s: expected object, got %T", path, value)
		}
		return normalizeMembers(obj, sch.definition, tables, path)
	default:
		return nil, fmt.Errorf("%s: unknown schema %T", path, s)
	}
}

func normalizeEntity(value ir.Value, e *Entity, tables ir.Tables, path string) (ir.Value, error) {
	if id, ok := ir.ScalarKey(value); ok {
		return ir.String(id), nil
	}
	obj, ok := value.(ir.Object)
	if !ok {
		return nil, fmt.Errorf("%s: entity %s: expected object or id, got %T", path, e.key, value)
	}
	id, err := e.ID(obj)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	normalized, err := normalizeMembers(obj, e.definition, tables, path)
	if err != nil {
		return nil, err
	}
	tables.Merge(e.key, id, normalized)
	return ir.String(id), nil
}

func normalizeUnion(value ir.Value, u *Union, tables ir.Tables, path string) (ir.Value, error) {
	obj, ok := value.(ir.Object)
	if !ok {
		return nil, fmt.Errorf("%s: union: expected object, got %T", path, value)
	}
	disc, ok := obj[u.attribute].(ir.String)
	if !ok {
		return nil, fmt.Errorf("%s: union: missing discriminator %q", path, u.attribute)
	}
	e, ok := u.schemas[string(disc)]
	if !ok {
		return nil, fmt.Errorf("%s: union: unknown %s %q", path, u.attribute, disc)
	}
	id, err := normalizeEntity(obj, e, tables, path)
	if err != nil {
		return nil, err
	}
	return ir.Object{"id": id, "schema": disc}, nil
}

func normalizeMembers(obj ir.Object, definition Definition, tables ir.Tables, path string) (ir.Object, error) {
	out := obj.Copy()
	for name, member := range definition {
		v, ok := obj[name]
		if !ok {
			continue
		}
		r, err := normalizeValue(v, member, tables, path+"."+name)
		if err != nil {
			return nil, err
		}
		out[name] = r
	}
	return out, nil
}
