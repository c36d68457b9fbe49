package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/tfkr-ae/rudder/domain"
)

var _ domain.ConfigStorage = (*Repository)(nil)

// dbDocument represents a route or cluster record as stored in the database.
// The id column mirrors the record's own id so rows stay addressable, while
// the document column carries the full record as JSON; the schema never needs
// to chase the record shape.
type dbDocument struct {
	ID        string    `db:"id"`
	Document  string    `db:"document"`
	UpdatedAt time.Time `db:"updated_at"`
}

// SaveConfiguration implements the domain.ConfigStorage interface.
// It replaces the route and cluster tables with the given configuration
// inside a single transaction, so a failed save never leaves a half-written
// mix of old and new records, and stamps the save in the config_meta table.
func (repo *Repository) SaveConfiguration(config *domain.Configuration) error {
	tx, err := repo.dbConn.Beginx()
	if err != nil {
		return fmt.Errorf("beginning save transaction : %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	if _, err := tx.Exec(`DELETE FROM route`); err != nil {
		return fmt.Errorf("clearing route table : %w", err)
	}
	for _, route := range config.Routes {
		document, err := json.Marshal(route)
		if err != nil {
			return fmt.Errorf("encoding route %s : %w", route.RouteID, err)
		}
		_, err = tx.Exec(`INSERT INTO route (id, document, updated_at) VALUES (?, ?, ?)`,
			route.RouteID, string(document), now)
		if err != nil {
			return fmt.Errorf("inserting route %s : %w", route.RouteID, err)
		}
	}

	if _, err := tx.Exec(`DELETE FROM cluster`); err != nil {
		return fmt.Errorf("clearing cluster table : %w", err)
	}
	for _, cluster := range config.Clusters {
		document, err := json.Marshal(cluster)
		if err != nil {
			return fmt.Errorf("encoding cluster %s : %w", cluster.ClusterID, err)
		}
		_, err = tx.Exec(`INSERT INTO cluster (id, document, updated_at) VALUES (?, ?, ?)`,
			cluster.ClusterID, string(document), now)
		if err != nil {
			return fmt.Errorf("inserting cluster %s : %w", cluster.ClusterID, err)
		}
	}

	query := `INSERT INTO config_meta (id, saved_at) VALUES (1, ?)
	          ON CONFLICT(id) DO UPDATE SET saved_at = excluded.saved_at`
	if _, err := tx.Exec(query, now); err != nil {
		return fmt.Errorf("stamping save : %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing save transaction : %w", err)
	}
	return nil
}

// LoadConfiguration implements the domain.ConfigStorage interface.
// It returns (nil, nil) when no configuration has ever been saved, detected
// through the config_meta stamp; a database that was saved with an empty
// configuration loads as empty rather than as absent.
func (repo *Repository) LoadConfiguration() (*domain.Configuration, error) {
	var savedAt time.Time
	err := repo.dbConn.Get(&savedAt, `SELECT saved_at FROM config_meta WHERE id = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("checking save stamp : %w", err)
	}

	var routeDocuments []*dbDocument
	if err := repo.dbConn.Select(&routeDocuments, `SELECT * FROM route ORDER BY id`); err != nil {
		return nil, fmt.Errorf("fetching routes : %w", err)
	}
	var clusterDocuments []*dbDocument
	if err := repo.dbConn.Select(&clusterDocuments, `SELECT * FROM cluster ORDER BY id`); err != nil {
		return nil, fmt.Errorf("fetching clusters : %w", err)
	}

	config := &domain.Configuration{
		Routes:   make([]domain.Route, 0, len(routeDocuments)),
		Clusters: make([]domain.Cluster, 0, len(clusterDocuments)),
	}
	for _, doc := range routeDocuments {
		var route domain.Route
		if err := json.Unmarshal([]byte(doc.Document), &route); err != nil {
			return nil, fmt.Errorf("parsing route document %s : %w", doc.ID, err)
		}
		config.Routes = append(config.Routes, route)
	}
	for _, doc := range clusterDocuments {
		var cluster domain.Cluster
		if err := json.Unmarshal([]byte(doc.Document), &cluster); err != nil {
			return nil, fmt.Errorf("parsing cluster document %s : %w", doc.ID, err)
		}
		config.Clusters = append(config.Clusters, cluster)
	}
	return config, nil
}
