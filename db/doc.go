// Package db provides the database layer for the Rudder control plane.
// It encapsulates all interactions with the underlying SQL database, managing
// persistence for configuration snapshots (routes and clusters) and for the
// audit trail of configuration changes.
//
// This package is responsible for:
// - Establishing and managing database connections (`db.go`).
// - Defining database-specific data structures that map to SQL table schemas.
// - Implementing the storage interfaces from the `domain` package
//   (`ConfigStorage`, `AuditRepository`).
// - Handling data conversion between domain structs and database-friendly
//   structs, including JSON document columns for full records.
// - Managing database migrations (`migrations/`).
// - Providing common database utility types (`types.go`).
package db
