// Package normalize connects schema normalization to the action pipeline.
//
// A Normalizer is a transform for state.DefineTransform: it normalizes the
// creator input, hands the root entity's flat view to the reducer and
// attaches every normalized entity table to the action. Middleware reads
// those tables and dispatches one bulk-set action per entity type before the
// original action continues, so the reducer of the original action already
// sees the entities it references.
//
// Source and EntitySelectors go the other way: they denormalize entities
// out of the root state on demand.
package normalize
