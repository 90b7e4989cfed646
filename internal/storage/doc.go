// Package storage provides the audit journal for reminder attempts.
//
// Every attempt (success or failure) is appended as one record. The journal is
// write-mostly: the scheduler never reads it back, so restarting the process
// always begins with an empty dedup ledger.
//
// Drivers:
//   - "file":   JSON Lines file
//   - "sqlite": SQLite database file
//   - "bolt":   bbolt key/value file
package storage
