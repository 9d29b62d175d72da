package schema

import (
	"fmt"
	"maps"
	"slices"
)

// Registry names the schemas of an application. It is filled at startup
// and read-only afterwards.
type Registry struct {
	schemas map[string]Schema
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{schemas: make(map[string]Schema)}
}

// Register adds s under name. Registering a name twice is an error.
func (r *Registry) Register(name string, s Schema) error {
	if name == "" {
		return fmt.Errorf("register schema: empty name")
	}
	if s == nil {
		return fmt.Errorf("register schema %q: nil schema", name)
	}
	if _, exists := r.schemas[name]; exists {
		return fmt.Errorf("register schema %q: already registered", name)
	}
	r.schemas[name] = s
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(name string, s Schema) {
	if err := r.Register(name, s); err != nil {
		panic(err)
	}
}

// Lookup returns the schema registered under name.
func (r *Registry) Lookup(name string) (Schema, bool) {
	s, ok := r.schemas[name]
	return s, ok
}

// MustLookup is like Lookup but panics when name is unknown.
func (r *Registry) MustLookup(name string) Schema {
	s, ok := r.schemas[name]
	if !ok {
		panic(fmt.Sprintf("schema %q is not registered", name))
	}
	return s
}

// Entity returns the entity schema registered under name.
func (r *Registry) Entity(name string) (*Entity, bool) {
	e, ok := r.schemas[name].(*Entity)
	return e, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.schemas))
}
