package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

func init() {
	goose.AddMigrationContext(upAddAuditRevision, downAddAuditRevision)
}

func upAddAuditRevision(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.Exec(`ALTER TABLE audit_entry ADD COLUMN revision TEXT NOT NULL DEFAULT ''`)
	if err != nil {
		return fmt.Errorf("adding revision column : %w", err)
	}
	// Rows written before the context column had a default may carry an empty
	// string, which does not parse as JSON.
	_, err = tx.Exec(`UPDATE audit_entry SET context = '{}' WHERE context IS NULL OR context = ''`)
	if err != nil {
		return fmt.Errorf("normalizing context column : %w", err)
	}
	return nil
}

func downAddAuditRevision(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.Exec(`ALTER TABLE audit_entry DROP COLUMN revision`)
	if err != nil {
		return fmt.Errorf("dropping revision column : %w", err)
	}
	return nil
}
