// Package export copies the area log into a SQLite database for external
// analysis.
//
// The copy is one-way: nothing in the log subsystem reads the database.
// Every Export call is a batch identified by a UUIDv7, so batch ids sort in
// creation order. A batch stores each record's known fields as columns
// (area is NULL when the logged value is not numeric) plus the full record
// JSON, from which Records rebuilds the original records.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package export
