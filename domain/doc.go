// Package domain defines the core data structures of the Rudder control plane.
// It contains the primary configuration models, Route and Cluster, the
// Configuration document that groups them, and the repository interfaces that
// define the contracts for persistence.
//
// This package serves as the central point for application-wide types,
// ensuring a clean separation between the control plane's core logic and its
// implementation details, such as the database, the admin API, or the proxy
// engine itself. By defining interfaces for storage, the domain package
// remains independent of the persistence technology.
package domain
