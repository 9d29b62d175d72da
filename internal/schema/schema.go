package schema

import (
	"fmt"
	"maps"
	"slices"

	"github.com/roach88/normstate/internal/ir"
)

// DefaultIDAttribute is the attribute holding an entity's id unless
// WithIDAttribute says otherwise.
const DefaultIDAttribute = "id"

// Schema is one of *Entity, *Array, *Union or *Object.
type Schema interface {
	schema()
}

// Definition maps member names to their schemas.
type Definition map[string]Schema

// Entity is a value stored in the table named Key and referenced by id.
type Entity struct {
	key         string
	idAttribute string
	definition  Definition
}

func (*Entity) schema() {}

// EntityOption configures an Entity.
type EntityOption func(*Entity)

// WithIDAttribute sets the attribute holding the entity id.
//
// Default: "id"
func WithIDAttribute(attribute string) EntityOption {
	return func(e *Entity) {
		e.idAttribute = attribute
	}
}

// NewEntity creates an entity schema stored under key.
func NewEntity(key string, definition Definition, opts ...EntityOption) *Entity {
	e := &Entity{
		key:         key,
		idAttribute: DefaultIDAttribute,
		definition:  Definition{},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.Define(definition)
	return e
}

// Key returns the table name of the entity.
func (e *Entity) Key() string { return e.key }

// IDAttribute returns the attribute holding the entity id.
func (e *Entity) IDAttribute() string { return e.idAttribute }

// Definition returns a copy of the member schemas.
func (e *Entity) Definition() Definition { return maps.Clone(e.definition) }

// Define adds member schemas, replacing existing ones with the same name.
// It is how recursive definitions are built.
func (e *Entity) Define(definition Definition) {
	for name, s := range definition {
		e.definition[name] = s
	}
}

// ID returns the id of an entity value. Int ids are rendered in decimal.
func (e *Entity) ID(obj ir.Object) (string, error) {
	raw, ok := obj[e.idAttribute]
	if !ok {
		return "", fmt.Errorf("entity %s: missing id attribute %q", e.key, e.idAttribute)
	}
	id, ok := ir.ScalarKey(raw)
	if !ok {
		return "", fmt.Errorf("entity %s: id attribute %q must be a string or an integer, got %T", e.key, e.idAttribute, raw)
	}
	return id, nil
}

// Array is a list whose elements share one schema.
type Array struct {
	of Schema
}

func (*Array) schema() {}

// NewArray creates an array schema.
func NewArray(of Schema) *Array {
	return &Array{of: of}
}

// Of returns the element schema.
func (a *Array) Of() Schema { return a.of }

// Union is one of several entities, selected by the value of Attribute.
// Its normalized form is {id, schema}, schema being the discriminator.
type Union struct {
	attribute string
	schemas   map[string]*Entity
}

func (*Union) schema() {}

// NewUnion creates a union discriminated by attribute.
func NewUnion(attribute string, schemas map[string]*Entity) *Union {
	return &Union{attribute: attribute, schemas: maps.Clone(schemas)}
}

// Attribute returns the discriminator attribute.
func (u *Union) Attribute() string { return u.attribute }

// Schema returns the entity for one discriminator value.
func (u *Union) Schema(discriminator string) (*Entity, bool) {
	e, ok := u.schemas[discriminator]
	return e, ok
}

// Discriminators returns the known discriminator values in sorted order.
func (u *Union) Discriminators() []string {
	return slices.Sorted(maps.Keys(u.schemas))
}

// Object is a plain value with schemas for some of its members.
type Object struct {
	definition Definition
}

func (*Object) schema() {}

// NewObject creates an object schema.
func NewObject(definition Definition) *Object {
	return &Object{definition: maps.Clone(definition)}
}

// Definition returns a copy of the member schemas.
func (o *Object) Definition() Definition { return maps.Clone(o.definition) }
