package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditRepository defines the interface for persisting the configuration
// change history.
type AuditRepository interface {
	// InsertAuditEntry saves a new audit entry to the repository.
	InsertAuditEntry(entry *AuditEntry) error
	// GetAuditEntries retrieves the most recent audit entries, newest first.
	// A limit of zero or less returns all entries.
	GetAuditEntries(limit int) ([]*AuditEntry, error)
	// CountAuditEntries returns the number of stored audit entries.
	CountAuditEntries() (int, error)
}

// AuditEntry records a single configuration change: what happened, to which
// entity, and which published revision resulted from it.
type AuditEntry struct {
	ID        uuid.UUID      // Unique identifier for the audit entry.
	Timestamp time.Time      // The time at which the change was recorded.
	Change    string         // The kind of change (added, updated, deleted, reloaded).
	Entity    string         // The entity collection affected (route or cluster), empty for reloads.
	EntityID  string         // The identifier of the affected entity, empty for reloads.
	Revision  string         // The snapshot revision published as a result of the change, if any.
	Context   map[string]any // A map of additional key-value data attached to the entry.
}
