package db

import (
	"embed"
	"fmt"

	_ "github.com/tfkr-ae/rudder/db/migrations"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql migrations/*.go
var embedMigrations embed.FS

// Repository is the SQLite persistence layer of the control plane. One
// instance serves both storage contracts from the domain package: it is the
// ConfigStorage behind Save and Load and the AuditRepository behind the
// change history, so a single database file carries the configuration and
// its audit trail.
type Repository struct {
	dbConn *sqlx.DB
}

// NewControlPlaneRepo wraps an open connection in a Repository. The caller
// keeps ownership of the connection's lifecycle through Close.
func NewControlPlaneRepo(db *sqlx.DB) *Repository {
	return &Repository{
		dbConn: db,
	}
}

// Close releases the underlying connection. The control plane never closes
// the repository itself; whoever opened the database closes it, after the
// control plane is done.
func (repo *Repository) Close() error {
	err := repo.dbConn.Close()
	if err != nil {
		return fmt.Errorf("closing repo : %w", err)
	}
	return nil
}

// New opens the SQLite database at the given path, creating it when absent,
// and brings the schema up to date through the embedded migrations. WAL mode
// and foreign keys are enabled, and the pool is capped at one connection so
// writes from the store's autosave and the audit writer never contend inside
// the driver.
func New(name string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite", fmt.Sprintf("%s?_journal=WAL&_timeout=5000&_fk=true", name))
	if err != nil {
		return nil, fmt.Errorf("connecting to db : %w", err)
	}

	db.SetMaxOpenConns(1)

	_, err = db.Exec("PRAGMA foreign_keys = ON;")
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(string(goose.DialectSQLite3)); err != nil {
		return nil, fmt.Errorf("setting dialect for migrations : %w", err)
	}

	if err := goose.Up(db.DB, "migrations"); err != nil {
		return nil, fmt.Errorf("applying migration : %w", err)
	}
	return db, nil
}
