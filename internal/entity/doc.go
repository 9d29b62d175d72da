// Package entity manages collections of entities keyed by id.
//
// An entity collection is an ordered id list plus an id-to-entity map.
// Adapter holds the mutation and selection rules for one entity type,
// Actions builds reducers over a collection, including actions that target
// exactly one entity, and Selectors reads collections out of a root state.
//
// INVARIANTS:
//   - every id in IDs has an entity in Entities
//   - IDs holds no duplicates and keeps first-insertion order
package entity
