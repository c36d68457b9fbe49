package db

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tfkr-ae/rudder/domain"
)

var _ domain.AuditRepository = (*Repository)(nil)

// dbAuditEntry represents an audit entry as stored in the database.
type dbAuditEntry struct {
	ID        uuid.UUID `db:"id"`        // Unique identifier for the audit entry.
	Timestamp time.Time `db:"timestamp"` // The time at which the change was recorded.
	Change    string    `db:"change"`    // The kind of change (added, updated, deleted, reloaded).
	Entity    string    `db:"entity"`    // The entity collection affected, empty for reloads.
	EntityID  string    `db:"entity_id"` // The identifier of the affected entity, empty for reloads.
	Revision  string    `db:"revision"`  // The snapshot revision published as a result of the change.
	Context   Metadata  `db:"context"`   // A map of additional key-value data attached to the entry.
}

// toDomainAuditEntry converts a dbAuditEntry to a domain.AuditEntry.
func toDomainAuditEntry(dbEntry *dbAuditEntry) *domain.AuditEntry {
	return &domain.AuditEntry{
		ID:        dbEntry.ID,
		Timestamp: dbEntry.Timestamp,
		Change:    dbEntry.Change,
		Entity:    dbEntry.Entity,
		EntityID:  dbEntry.EntityID,
		Revision:  dbEntry.Revision,
		Context:   map[string]any(dbEntry.Context),
	}
}

// fromDomainAuditEntry converts a domain.AuditEntry to a dbAuditEntry.
func fromDomainAuditEntry(entry *domain.AuditEntry) *dbAuditEntry {
	return &dbAuditEntry{
		ID:        entry.ID,
		Timestamp: entry.Timestamp,
		Change:    entry.Change,
		Entity:    entry.Entity,
		EntityID:  entry.EntityID,
		Revision:  entry.Revision,
		Context:   Metadata(entry.Context),
	}
}

// InsertAuditEntry saves a new audit entry to the database.
func (repo *Repository) InsertAuditEntry(entry *domain.AuditEntry) error {
	dbEntry := fromDomainAuditEntry(entry)
	query := `INSERT INTO audit_entry (id, timestamp, change, entity, entity_id, revision, context)
	          VALUES (:id, :timestamp, :change, :entity, :entity_id, :revision, :context)`

	_, err := repo.dbConn.NamedExec(query, dbEntry)
	if err != nil {
		return fmt.Errorf("inserting audit entry %s: %w", entry.ID, err)
	}

	return err
}

// GetAuditEntries retrieves the most recent audit entries, newest first.
// Entry ids are time-ordered, so they break ties between entries recorded in
// the same timestamp.
func (repo *Repository) GetAuditEntries(limit int) ([]*domain.AuditEntry, error) {
	var dbEntries []*dbAuditEntry
	query := `SELECT * FROM audit_entry ORDER BY timestamp DESC, id DESC`

	var err error
	if limit > 0 {
		err = repo.dbConn.Select(&dbEntries, query+` LIMIT ?`, limit)
	} else {
		err = repo.dbConn.Select(&dbEntries, query)
	}
	if err != nil {
		return nil, fmt.Errorf("fetching audit entries: %w", err)
	}

	entries := make([]*domain.AuditEntry, len(dbEntries))
	for i, dbEntry := range dbEntries {
		entries[i] = toDomainAuditEntry(dbEntry)
	}

	return entries, nil
}

// CountAuditEntries returns the total number of audit entries stored in the repository.
func (repo *Repository) CountAuditEntries() (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM audit_entry`

	err := repo.dbConn.Get(&count, query)
	if err != nil {
		return 0, fmt.Errorf("getting audit entry count: %w", err)
	}

	return count, nil
}
