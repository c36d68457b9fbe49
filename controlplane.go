// Package rudder provides the control-plane admin layer for a reverse proxy
// engine: a thread-safe configuration store, a translator producing the
// engine's native configuration shape, and an atomic publisher of immutable
// snapshots. It is designed to be decoupled from any particular admin surface
// and provides the building blocks for REST APIs, CLIs, and operator tooling.
//
// The core functionality includes:
//   - Keyed route and cluster collections with synchronous change events
//   - Translation from admin records to the engine configuration shape,
//     including duration parsing and match mode resolution
//   - Atomic snapshot publishing with one-shot change signals for data-plane
//     consumers
//   - Pluggable persistence: SQLite repository or JSON document on disk
//   - Optional audit trail of configuration changes
package rudder

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/tfkr-ae/rudder/core"
	"github.com/tfkr-ae/rudder/domain"
	"github.com/tfkr-ae/rudder/engine"
)

// ControlPlane is the main struct that coordinates the configuration store,
// the translator, and the published snapshot lifecycle. It subscribes to its
// store at construction, so every mutation made through it (or directly on
// the store) is automatically translated and republished.
type ControlPlane struct {
	Store             *Store                   // The authoritative configuration store
	ConfigDir         string                   // The configuration directory (set by WithConfigDir)
	Config            *Config                  // The server configuration (separate from the routing configuration)
	Logger            *slog.Logger             // Structured logger, shared with the store
	AuditRepo         domain.AuditRepository   // Audit repository, nil disables the audit trail
	AuditWriteChannel chan *domain.AuditEntry  // Audit write channel, drained by WriteAudits
	OnApply           func(snapshot *Snapshot) // Function to be ran after each successful publish - used by servers to observe new revisions

	current     atomic.Pointer[Snapshot]
	applyMu     sync.Mutex
	unsubscribe func()
	closeOnce   sync.Once
	auditDone   chan struct{}
}

// New creates a new ControlPlane with an empty store and applies any provided
// options. It publishes an initial snapshot before returning, so GetSnapshot
// is immediately usable; if a persistence backend was attached and its
// contents do not translate, New fails rather than handing out a half-built
// control plane.
func New(options ...func(*ControlPlane) error) (*ControlPlane, error) {
	controlPlane := &ControlPlane{
		Store:             NewStore(),
		Logger:            slog.Default(),
		AuditWriteChannel: make(chan *domain.AuditEntry, 10),
		auditDone:         make(chan struct{}),
	}
	err := controlPlane.WithOptions(options...)
	if err != nil {
		return nil, err
	}
	if controlPlane.AuditRepo != nil {
		go controlPlane.WriteAudits()
	}
	controlPlane.unsubscribe = controlPlane.Store.Subscribe(controlPlane.handleChange)
	if err := controlPlane.ApplyConfiguration(); err != nil {
		controlPlane.Close()
		return nil, err
	}
	return controlPlane, nil
}

// handleChange reapplies the configuration after every store change and
// records the change in the audit trail when one is configured.
func (controlPlane *ControlPlane) handleChange(event ChangeEvent) {
	if err := controlPlane.ApplyConfiguration(); err != nil {
		controlPlane.Logger.Error("applying configuration after change",
			"error", err, "change", event.Type, "kind", event.Kind, "id", event.ID)
	}
	if controlPlane.AuditRepo != nil {
		err := controlPlane.WriteAudit(string(event.Type), string(event.Kind), event.ID,
			core.AuditWithRevision(controlPlane.GetSnapshot().Revision()))
		if err != nil {
			controlPlane.Logger.Error("recording audit entry", "error", err)
		}
	}
}

// ApplyConfiguration translates the store's current contents and atomically
// publishes the result as a new immutable snapshot. Disabled routes are
// filtered out before translation; all clusters are included. On a
// translation failure the previous snapshot stays current and the error names
// the offending cluster. Concurrent applies are serialized, so a snapshot
// built from newer store contents is never overwritten by an older one.
func (controlPlane *ControlPlane) ApplyConfiguration() error {
	controlPlane.applyMu.Lock()
	defer controlPlane.applyMu.Unlock()

	config := controlPlane.Store.GetConfiguration()
	routes := make([]engine.Route, 0, len(config.Routes))
	for _, route := range config.Routes {
		if !route.IsEnabled() {
			continue
		}
		routes = append(routes, TranslateRoute(route))
	}
	clusters := make([]engine.Cluster, 0, len(config.Clusters))
	for _, cluster := range config.Clusters {
		translated, err := TranslateCluster(cluster)
		if err != nil {
			return fmt.Errorf("translating cluster %s : %w", cluster.ClusterID, err)
		}
		clusters = append(clusters, translated)
	}
	snapshot, err := newSnapshot(routes, clusters)
	if err != nil {
		return err
	}
	previous := controlPlane.current.Swap(snapshot)
	if previous != nil {
		previous.supersede()
	}
	if controlPlane.OnApply != nil {
		controlPlane.OnApply(snapshot)
	}
	return nil
}

// GetSnapshot returns the currently published configuration. For a control
// plane built by New it is never nil and never blocks; New publishes an
// initial snapshot before returning.
func (controlPlane *ControlPlane) GetSnapshot() *Snapshot {
	return controlPlane.current.Load()
}

// GetRoutes returns every route record, sorted by route id.
func (controlPlane *ControlPlane) GetRoutes() []domain.Route {
	return controlPlane.Store.GetRoutes()
}

// GetRoute returns the route stored under the given id.
func (controlPlane *ControlPlane) GetRoute(id string) (domain.Route, bool) {
	return controlPlane.Store.GetRoute(id)
}

// UpsertRoute inserts or fully replaces a route and returns the stored
// record. The change is translated and published before UpsertRoute returns.
func (controlPlane *ControlPlane) UpsertRoute(route domain.Route) domain.Route {
	return controlPlane.Store.UpsertRoute(route)
}

// DeleteRoute removes a route, reporting whether a record was removed.
func (controlPlane *ControlPlane) DeleteRoute(id string) bool {
	return controlPlane.Store.DeleteRoute(id)
}

// GetClusters returns every cluster record, sorted by cluster id.
func (controlPlane *ControlPlane) GetClusters() []domain.Cluster {
	return controlPlane.Store.GetClusters()
}

// GetCluster returns the cluster stored under the given id.
func (controlPlane *ControlPlane) GetCluster(id string) (domain.Cluster, bool) {
	return controlPlane.Store.GetCluster(id)
}

// UpsertCluster inserts or fully replaces a cluster and returns the stored
// record. The change is translated and published before UpsertCluster
// returns.
func (controlPlane *ControlPlane) UpsertCluster(cluster domain.Cluster) domain.Cluster {
	return controlPlane.Store.UpsertCluster(cluster)
}

// DeleteCluster removes a cluster, reporting whether a record was removed.
func (controlPlane *ControlPlane) DeleteCluster(id string) bool {
	return controlPlane.Store.DeleteCluster(id)
}

// GetConfiguration returns all routes and clusters as one document.
func (controlPlane *ControlPlane) GetConfiguration() domain.Configuration {
	return controlPlane.Store.GetConfiguration()
}

// Save persists the complete current configuration through the store's
// backend.
func (controlPlane *ControlPlane) Save() error {
	return controlPlane.Store.Save()
}

// Load replaces the store contents from the persistence backend. The reload
// event republishes the snapshot before Load returns.
func (controlPlane *ControlPlane) Load() error {
	return controlPlane.Store.Load()
}

// Subscribe registers a handler for store change events, with the same
// semantics as Store.Subscribe.
func (controlPlane *ControlPlane) Subscribe(handler func(event ChangeEvent)) func() {
	return controlPlane.Store.Subscribe(handler)
}

// WriteAudits drains the audit write channel into the audit repository. It is
// started by New when an audit repository is configured; after Close it
// flushes whatever is still queued and exits. The channel itself is never
// closed, so a mutation racing Close can at worst have its entry dropped,
// never panic.
func (controlPlane *ControlPlane) WriteAudits() {
	repo := controlPlane.AuditRepo
	if repo == nil {
		return
	}
	insert := func(entry *domain.AuditEntry) {
		if err := repo.InsertAuditEntry(entry); err != nil {
			controlPlane.Logger.Error("inserting audit entry", "error", err)
		}
	}
	for {
		select {
		case entry := <-controlPlane.AuditWriteChannel:
			insert(entry)
		case <-controlPlane.auditDone:
			for {
				select {
				case entry := <-controlPlane.AuditWriteChannel:
					insert(entry)
				default:
					return
				}
			}
		}
	}
}

// WriteAudit queues an audit entry describing a configuration change. The
// write happens in the background; WriteAudit itself only validates and
// queues.
func (controlPlane *ControlPlane) WriteAudit(change string, entity string, entityID string, options ...func(entry *domain.AuditEntry) error) error {
	if controlPlane.AuditRepo == nil {
		return errors.New("control plane has no audit repository configured")
	}
	switch change {
	case "added", "updated", "deleted", "reloaded":
	default:
		return fmt.Errorf("change should be either: added, updated, deleted, reloaded")
	}
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("generating new uuid : %w", err)
	}
	entry := &domain.AuditEntry{
		ID:        id,
		Timestamp: time.Now(),
		Change:    change,
		Entity:    entity,
		EntityID:  entityID,
	}
	for _, option := range options {
		if err := option(entry); err != nil {
			return fmt.Errorf("applying audit option : %w", err)
		}
	}
	// Checked before the send: a buffered send and a closed done channel can
	// both be ready, and closed must win deterministically.
	select {
	case <-controlPlane.auditDone:
		return errors.New("control plane is closed")
	default:
	}
	select {
	case controlPlane.AuditWriteChannel <- entry:
		return nil
	case <-controlPlane.auditDone:
		return errors.New("control plane is closed")
	}
}

// Close detaches the control plane from its store and stops the audit
// writer, flushing entries already queued. It is idempotent and safe to call
// while mutations are still in flight; writes arriving after Close are
// refused by WriteAudit instead of panicking. Close does not close the
// store's storage backend or the audit repository; those belong to the
// caller.
func (controlPlane *ControlPlane) Close() {
	controlPlane.closeOnce.Do(func() {
		if controlPlane.unsubscribe != nil {
			controlPlane.unsubscribe()
		}
		close(controlPlane.auditDone)
	})
}
