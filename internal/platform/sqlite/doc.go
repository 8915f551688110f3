// Package sqlite provides SQLite implementations of the store interfaces
// using the pure-Go modernc.org/sqlite driver. It suits single-node
// deployments and gives tests a real SQL database without external services.
//
// Timestamps are stored as fixed-width UTC text with microsecond precision
// so that lexical order matches chronological order.
package sqlite
