// Package engine implements the synchronous dispatch engine that hosts the
// reducers built with package state.
//
// ARCHITECTURE:
//
// Single Writer:
// A Store holds exactly one root state value and replaces it only inside
// Dispatch. Every dispatch runs its middleware chain and the root reducer to
// completion before returning; there is no queue and no background goroutine.
//
// Middleware:
// Middleware wraps the next dispatch step and may dispatch further actions
// through the API it is given. Such nested dispatches run through the full
// chain and complete before the outer dispatch continues. The normalization
// middleware relies on this ordering to populate entity tables before the
// triggering action reaches the reducer.
//
// Termination:
// Nested dispatch depth is bounded (WithMaxDepth). Dispatching from inside a
// reducer is rejected.
//
// Thread-safety: a Store is not safe for concurrent use. All dispatches must
// come from one goroutine.
package engine
