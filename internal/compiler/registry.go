package compiler

import (
	"fmt"

	"cuelang.org/go/cue"

	"github.com/roach88/normstate/internal/schema"
)

// CompileRegistry compiles a CUE document into a schema registry.
//
// Entities are created first, then unions, then entity definitions are
// resolved, so references may point forward or to the entity itself.
func CompileRegistry(v cue.Value) (*schema.Registry, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	if err := checkFields(v, "", "entities", "unions"); err != nil {
		return nil, err
	}

	c := &registryCompiler{
		entities: make(map[string]*schema.Entity),
		named:    make(map[string]schema.Schema),
	}

	entitiesVal := v.LookupPath(cue.ParsePath("entities"))
	if !entitiesVal.Exists() {
		return nil, &CompileError{
			Field:   "entities",
			Message: "at least one entity is required",
			Pos:     v.Pos(),
		}
	}
	if err := c.declareEntities(entitiesVal); err != nil {
		return nil, err
	}

	if unionsVal := v.LookupPath(cue.ParsePath("unions")); unionsVal.Exists() {
		if err := c.declareUnions(unionsVal); err != nil {
			return nil, err
		}
	}

	if err := c.defineEntities(entitiesVal); err != nil {
		return nil, err
	}

	reg := schema.NewRegistry()
	for _, name := range c.order {
		if err := reg.Register(name, c.named[name]); err != nil {
			return nil, &CompileError{Field: name, Message: err.Error()}
		}
	}
	return reg, nil
}

type registryCompiler struct {
	entities map[string]*schema.Entity
	named    map[string]schema.Schema
	order    []string
}

func (c *registryCompiler) declare(name string, s schema.Schema, pos cue.Value, field string) error {
	if _, exists := c.named[name]; exists {
		return &CompileError{
			Field:   field,
			Message: fmt.Sprintf("schema %q is declared twice", name),
			Pos:     pos.Pos(),
		}
	}
	c.named[name] = s
	c.order = append(c.order, name)
	return nil
}

func (c *registryCompiler) declareEntities(v cue.Value) error {
	iter, err := v.Fields()
	if err != nil {
		return formatCUEError(err)
	}

	for iter.Next() {
		key := iter.Label()
		field := "entities." + key
		val := iter.Value()

		if err := checkFields(val, field, "idAttribute", "definition"); err != nil {
			return err
		}

		var opts []schema.EntityOption
		if idVal := val.LookupPath(cue.ParsePath("idAttribute")); idVal.Exists() {
			attr, err := idVal.String()
			if err != nil {
				return &CompileError{Field: field + ".idAttribute", Message: "must be a string", Pos: idVal.Pos()}
			}
			if attr == "" {
				return &CompileError{Field: field + ".idAttribute", Message: "must not be empty", Pos: idVal.Pos()}
			}
			opts = append(opts, schema.WithIDAttribute(attr))
		}

		e := schema.NewEntity(key, nil, opts...)
		if err := c.declare(key, e, val, field); err != nil {
			return err
		}
		c.entities[key] = e
	}
	return nil
}

func (c *registryCompiler) declareUnions(v cue.Value) error {
	iter, err := v.Fields()
	if err != nil {
		return formatCUEError(err)
	}

	for iter.Next() {
		name := iter.Label()
		field := "unions." + name
		val := iter.Value()

		if err := checkFields(val, field, "attribute", "schemas"); err != nil {
			return err
		}

		attrVal := val.LookupPath(cue.ParsePath("attribute"))
		if !attrVal.Exists() {
			return &CompileError{Field: field + ".attribute", Message: "attribute is required", Pos: val.Pos()}
		}
		attr, err := attrVal.String()
		if err != nil {
			return &CompileError{Field: field + ".attribute", Message: "must be a string", Pos: attrVal.Pos()}
		}

		schemasVal := val.LookupPath(cue.ParsePath("schemas"))
		if !schemasVal.Exists() {
			return &CompileError{Field: field + ".schemas", Message: "schemas are required", Pos: val.Pos()}
		}
		members := make(map[string]*schema.Entity)
		memberIter, err := schemasVal.Fields()
		if err != nil {
			return formatCUEError(err)
		}
		for memberIter.Next() {
			disc := memberIter.Label()
			memberField := field + ".schemas." + disc
			ref, err := memberIter.Value().String()
			if err != nil {
				return &CompileError{Field: memberField, Message: "must be an entity name", Pos: memberIter.Value().Pos()}
			}
			e, ok := c.entities[ref]
			if !ok {
				return &CompileError{Field: memberField, Message: fmt.Sprintf("unknown entity %q", ref), Pos: memberIter.Value().Pos()}
			}
			members[disc] = e
		}
		if len(members) == 0 {
			return &CompileError{Field: field + ".schemas", Message: "at least one schema is required", Pos: schemasVal.Pos()}
		}

		if err := c.declare(name, schema.NewUnion(attr, members), val, field); err != nil {
			return err
		}
	}
	return nil
}

func (c *registryCompiler) defineEntities(v cue.Value) error {
	iter, err := v.Fields()
	if err != nil {
		return formatCUEError(err)
	}

	for iter.Next() {
		key := iter.Label()
		defVal := iter.Value().LookupPath(cue.ParsePath("definition"))
		if !defVal.Exists() {
			continue
		}

		definition := schema.Definition{}
		memberIter, err := defVal.Fields()
		if err != nil {
			return formatCUEError(err)
		}
		for memberIter.Next() {
			member := memberIter.Label()
			s, err := c.resolve(memberIter.Value(), fmt.Sprintf("entities.%s.definition.%s", key, member))
			if err != nil {
				return err
			}
			definition[member] = s
		}
		c.entities[key].Define(definition)
	}
	return nil
}

// resolve turns "<name>" into the named schema and ["<name>"] into an array
// of it.
func (c *registryCompiler) resolve(v cue.Value, field string) (schema.Schema, error) {
	switch v.IncompleteKind() {
	case cue.StringKind:
		name, err := v.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		s, ok := c.named[name]
		if !ok {
			return nil, &CompileError{Field: field, Message: fmt.Sprintf("unknown schema %q", name), Pos: v.Pos()}
		}
		return s, nil
	case cue.ListKind:
		iter, err := v.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		var elems []cue.Value
		for iter.Next() {
			elems = append(elems, iter.Value())
		}
		if len(elems) != 1 {
			return nil, &CompileError{Field: field, Message: "array schema must list exactly one schema", Pos: v.Pos()}
		}
		of, err := c.resolve(elems[0], field+"[0]")
		if err != nil {
			return nil, err
		}
		if _, nested := of.(*schema.Array); nested {
			return nil, &CompileError{Field: field, Message: "nested arrays are not supported", Pos: v.Pos()}
		}
		return schema.NewArray(of), nil
	default:
		return nil, &CompileError{
			Field:   field,
			Message: fmt.Sprintf("must be a schema name or a list of one, got %v", v.IncompleteKind()),
			Pos:     v.Pos(),
		}
	}
}

// checkFields rejects struct fields outside allowed.
func checkFields(v cue.Value, field string, allowed ...string) error {
	if v.IncompleteKind() != cue.StructKind {
		return &CompileError{Field: displayField(field), Message: "must be a struct", Pos: v.Pos()}
	}
	iter, err := v.Fields()
	if err != nil {
		return formatCUEError(err)
	}
	for iter.Next() {
		label := iter.Label()
		known := false
		for _, a := range allowed {
			if label == a {
				known = true
				break
			}
		}
		if !known {
			return &CompileError{
				Field:   joinField(field, label),
				Message: "unknown field",
				Pos:     iter.Value().Pos(),
			}
		}
	}
	return nil
}

func joinField(parent, label string) string {
	if parent == "" {
		return label
	}
	return parent + "." + label
}

func displayField(field string) string {
	if field == "" {
		return "document"
	}
	return field
}
