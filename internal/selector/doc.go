// Package selector provides typed read paths over a root state value.
//
// Selectors binds a projection from the root state R to one substate S and
// derives further selectors scoped to it. Safe wraps a keyed lookup so that
// the default form fails with a descriptive error while Unsafe reports
// absence as a plain boolean.
//
// Selectors are plain functions. They hold no cache and are safe to call
// from any goroutine that may read the state value.
package selector
