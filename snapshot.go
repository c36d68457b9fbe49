package rudder

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/tfkr-ae/rudder/engine"
)

// Snapshot is an immutable published configuration: the set of enabled routes
// and all clusters, translated into the engine's shape, plus a unique
// revision. Once built, a snapshot never changes; a new apply produces a new
// snapshot and marks the old one as superseded through its Changed channel.
type Snapshot struct {
	revision string
	routes   []engine.Route
	clusters []engine.Cluster
	changed  chan struct{}
	once     sync.Once
}

func newSnapshot(routes []engine.Route, clusters []engine.Cluster) (*Snapshot, error) {
	revision, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generating snapshot revision : %w", err)
	}
	return &Snapshot{
		revision: revision.String(),
		routes:   routes,
		clusters: clusters,
		changed:  make(chan struct{}),
	}, nil
}

// Revision returns the unique identifier of this snapshot. Revisions are
// time-ordered, so a lexically larger revision is a newer one.
func (snapshot *Snapshot) Revision() string {
	return snapshot.revision
}

// Routes returns the published routes. The returned slice is shared with the
// snapshot and must not be modified.
func (snapshot *Snapshot) Routes() []engine.Route {
	return snapshot.routes
}

// Clusters returns the published clusters. The returned slice is shared with
// the snapshot and must not be modified.
func (snapshot *Snapshot) Clusters() []engine.Cluster {
	return snapshot.clusters
}

// Changed returns a channel that is closed when this snapshot has been
// replaced by a newer one. It fires at most once per snapshot; consumers
// re-fetch the current snapshot and wait on its channel to follow updates.
func (snapshot *Snapshot) Changed() <-chan struct{} {
	return snapshot.changed
}

func (snapshot *Snapshot) supersede() {
	snapshot.once.Do(func() {
		close(snapshot.changed)
	})
}
