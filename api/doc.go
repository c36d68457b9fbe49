// Package api exposes the Rudder control plane over HTTP. It is thin CRUD
// glue: request validation, conflict policy, and status code mapping live
// here, while all configuration semantics stay in the rudder package. The
// package also serves the data-plane contract, a snapshot endpoint with
// long-poll support on the published revision.
package api
