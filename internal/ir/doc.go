// Package ir provides the dynamic value model used by normalization.
//
// Normalization works on untyped trees: payloads are converted into ir.Value,
// decomposed into flat per-type entity tables, and later decoded back into the
// caller's typed structs. Every internal package that handles such trees
// imports ir; ir imports nothing internal.
//
// Key constraints:
//   - NO float types anywhere - numbers are int64
//   - Object keys iterate in RFC 8785 order (UTF-16 code units) via SortedKeys
//   - Canonical JSON is the only serialization used for hashing and snapshots
package ir
