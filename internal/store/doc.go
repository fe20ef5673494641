// Package store provides the SQLite-backed journal of scripted sequence runs.
//
// The journal holds the latest execution of each run ID:
//   - Runs: one record per scenario execution, with the initial sequence
//     and, once finished, the final digest and length
//   - Ops: one record per operation, with its outcome and the sequence
//     length after it ran
//
// # Ordering
//
//   - All ordering uses seq INTEGER (logical clock), NEVER timestamps
//   - Op queries use ORDER BY seq ASC, id ASC COLLATE BINARY
//
// # Idempotency
//
// Op IDs are content-addressed (ir.OpID). Writing the same op twice is a
// no-op. WriteRun is not: it replaces any earlier run with the same ID and
// drops that run's ops, so a pinned run ID never mixes two executions.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
