// Package store provides SQLite-backed storage for conversation history.
//
// The conversation shell opens the store on ":memory:", so history lives
// exactly as long as the process: nothing survives a restart.
//
// # Ordering
//
// Turns are ordered by seq, a per-session logical clock supplied by the
// caller, never by wall time. All queries use ORDER BY seq ASC.
//
// # Database Configuration
//
//   - Single connection: an in-memory database is private to its
//     connection, so the pool is pinned to one
//   - busy_timeout=5000
//   - foreign_keys=ON
package store
