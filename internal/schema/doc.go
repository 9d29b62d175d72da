// Package schema describes how nested values split into flat entity tables.
//
// A schema is a tree of four kinds: Entity (a value identified by an id
// attribute and stored in a table named by its key), Array, Union (one of
// several entities chosen by a discriminator attribute) and Object (a plain
// value whose members have schemas). Normalize walks a value along a schema
// and replaces every entity with its id; Denormalize walks a normalized
// result back, fetching entities lazily through a Lookup.
//
// Entity definitions may refer to the entity itself (Define), so schemas
// can be recursive. Values themselves are trees; Denormalize stops at an
// entity it is already expanding and leaves its id in place.
package schema
