// Package store provides a SQLite-backed log of rendered reports.
//
// Each row is an evaluation snapshot: the canonical JSON body of a
// plan.Report plus its content-addressed id. Writing the same report twice
// is a no-op. The log never stores graph state, so a network cannot be
// rebuilt from it.
//
// # Ordering
//
// Rows carry a logical seq assigned at append time. List queries order by
// seq ASC, id ASC COLLATE BINARY so results are identical across runs.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
