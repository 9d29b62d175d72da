// Package store provides SQLite-backed durable storage for action history.
//
// Every action a store commits can be appended to the history together with
// its session, its logical seq and the dispatch depth it was reduced at.
// Replaying a session dispatches the recorded actions again in seq order and
// rebuilds the same state.
//
// # Ordering
//
//   - seq is a logical clock shared by all sessions, never a timestamp
//   - queries order by seq ASC, id ASC COLLATE BINARY
//   - rows are written after their reducer ran, so a bulk-set dispatched by
//     middleware is recorded before the action that triggered it
//
// # Identity
//
// Record ids are content-addressed: ir.ActionID over session, seq and the
// canonical JSON body. Writing the same record twice is a no-op.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
package store
