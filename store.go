package rudder

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/tfkr-ae/rudder/domain"
)

// Store holds the authoritative admin-side configuration: every route and
// cluster record, keyed by id, enabled or not. All methods are safe for
// concurrent use. Mutations notify subscribers synchronously, so for a single
// id the order of delivered events matches the order the mutations took
// effect.
type Store struct {
	mu       sync.RWMutex
	routes   map[string]domain.Route
	clusters map[string]domain.Cluster

	// writeMu serializes mutations together with their event dispatch, which
	// keeps the delivered event order aligned with the mutation order. Reads
	// only take mu, so readers are never blocked by a running handler.
	writeMu sync.Mutex

	// ioMu serializes storage round-trips so one save never interleaves with
	// another save or load.
	ioMu    sync.Mutex
	storage domain.ConfigStorage

	subMu       sync.RWMutex
	subscribers []subscription
	nextSubID   int

	logger *slog.Logger
}

type subscription struct {
	id      int
	handler func(ChangeEvent)
}

// NewStore returns an empty store with no persistence backend and no
// subscribers.
func NewStore() *Store {
	return &Store{
		routes:   make(map[string]domain.Route),
		clusters: make(map[string]domain.Cluster),
		logger:   slog.Default(),
	}
}

// SetStorage attaches a persistence backend. Mutations made afterwards are
// autosaved through it, and Save and Load use it for explicit round-trips.
func (store *Store) SetStorage(storage domain.ConfigStorage) {
	store.ioMu.Lock()
	defer store.ioMu.Unlock()
	store.storage = storage
}

// Subscribe registers a handler invoked synchronously for every store change.
// Handlers run inside the mutating call, in registration order; they may read
// the store but must not mutate it. The returned function removes the
// subscription.
func (store *Store) Subscribe(handler func(event ChangeEvent)) func() {
	store.subMu.Lock()
	defer store.subMu.Unlock()
	store.nextSubID++
	id := store.nextSubID
	store.subscribers = append(store.subscribers, subscription{id: id, handler: handler})
	return func() {
		store.subMu.Lock()
		defer store.subMu.Unlock()
		for i, sub := range store.subscribers {
			if sub.id == id {
				store.subscribers = append(store.subscribers[:i], store.subscribers[i+1:]...)
				return
			}
		}
	}
}

func (store *Store) dispatch(event ChangeEvent) {
	store.subMu.RLock()
	handlers := make([]func(event ChangeEvent), len(store.subscribers))
	for i, sub := range store.subscribers {
		handlers[i] = sub.handler
	}
	store.subMu.RUnlock()
	for _, handler := range handlers {
		handler(event)
	}
}

// GetRoute returns the route stored under the given id.
func (store *Store) GetRoute(id string) (domain.Route, bool) {
	store.mu.RLock()
	defer store.mu.RUnlock()
	route, ok := store.routes[id]
	return route, ok
}

// GetRoutes returns every route record, sorted by route id.
func (store *Store) GetRoutes() []domain.Route {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.routesLocked()
}

// GetCluster returns the cluster stored under the given id.
func (store *Store) GetCluster(id string) (domain.Cluster, bool) {
	store.mu.RLock()
	defer store.mu.RUnlock()
	cluster, ok := store.clusters[id]
	return cluster, ok
}

// GetClusters returns every cluster record, sorted by cluster id.
func (store *Store) GetClusters() []domain.Cluster {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.clustersLocked()
}

// GetConfiguration returns all routes and clusters as one document, both
// sorted by id. The two collections are read under a single lock, so the
// result is a consistent point-in-time view.
func (store *Store) GetConfiguration() domain.Configuration {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return domain.Configuration{
		Routes:   store.routesLocked(),
		Clusters: store.clustersLocked(),
	}
}

func (store *Store) routesLocked() []domain.Route {
	routes := make([]domain.Route, 0, len(store.routes))
	for _, route := range store.routes {
		routes = append(routes, route)
	}
	sort.Slice(routes, func(i, j int) bool {
		return routes[i].RouteID < routes[j].RouteID
	})
	return routes
}

func (store *Store) clustersLocked() []domain.Cluster {
	clusters := make([]domain.Cluster, 0, len(store.clusters))
	for _, cluster := range store.clusters {
		clusters = append(clusters, cluster)
	}
	sort.Slice(clusters, func(i, j int) bool {
		return clusters[i].ClusterID < clusters[j].ClusterID
	})
	return clusters
}

// UpsertRoute inserts or fully replaces the route keyed by its RouteID and
// returns the stored record. Subscribers observe ChangeAdded on a first
// insert and ChangeUpdated on a replace, after the change is visible to
// readers and before UpsertRoute returns. The route's cluster reference is
// not checked against the cluster collection.
func (store *Store) UpsertRoute(route domain.Route) domain.Route {
	store.writeMu.Lock()
	store.mu.Lock()
	_, exists := store.routes[route.RouteID]
	store.routes[route.RouteID] = route
	store.mu.Unlock()
	change := ChangeAdded
	if exists {
		change = ChangeUpdated
	}
	store.dispatch(ChangeEvent{Type: change, Kind: KindRoute, ID: route.RouteID})
	store.writeMu.Unlock()
	store.persist()
	return route
}

// DeleteRoute removes the route stored under the given id. It reports whether
// a record was removed; deleting an unknown id is not an error and emits no
// event.
func (store *Store) DeleteRoute(id string) bool {
	store.writeMu.Lock()
	store.mu.Lock()
	_, exists := store.routes[id]
	delete(store.routes, id)
	store.mu.Unlock()
	if !exists {
		store.writeMu.Unlock()
		return false
	}
	store.dispatch(ChangeEvent{Type: ChangeDeleted, Kind: KindRoute, ID: id})
	store.writeMu.Unlock()
	store.persist()
	return true
}

// UpsertCluster inserts or fully replaces the cluster keyed by its ClusterID
// and returns the stored record, with the same event semantics as
// UpsertRoute.
func (store *Store) UpsertCluster(cluster domain.Cluster) domain.Cluster {
	store.writeMu.Lock()
	store.mu.Lock()
	_, exists := store.clusters[cluster.ClusterID]
	store.clusters[cluster.ClusterID] = cluster
	store.mu.Unlock()
	change := ChangeAdded
	if exists {
		change = ChangeUpdated
	}
	store.dispatch(ChangeEvent{Type: change, Kind: KindCluster, ID: cluster.ClusterID})
	store.writeMu.Unlock()
	store.persist()
	return cluster
}

// DeleteCluster removes the cluster stored under the given id, with the same
// semantics as DeleteRoute. Routes referencing the cluster are left in place.
func (store *Store) DeleteCluster(id string) bool {
	store.writeMu.Lock()
	store.mu.Lock()
	_, exists := store.clusters[id]
	delete(store.clusters, id)
	store.mu.Unlock()
	if !exists {
		store.writeMu.Unlock()
		return false
	}
	store.dispatch(ChangeEvent{Type: ChangeDeleted, Kind: KindCluster, ID: id})
	store.writeMu.Unlock()
	store.persist()
	return true
}

// Save writes the complete current configuration through the storage backend.
// It is a no-op when no backend is configured.
func (store *Store) Save() error {
	store.ioMu.Lock()
	defer store.ioMu.Unlock()
	if store.storage == nil {
		return nil
	}
	config := store.GetConfiguration()
	if err := store.storage.SaveConfiguration(&config); err != nil {
		return fmt.Errorf("saving configuration : %w", err)
	}
	return nil
}

// Load replaces the store contents with the persisted configuration and
// notifies subscribers with a single ChangeReloaded event. When the backend
// has nothing persisted yet, the store keeps its contents and no event fires.
// A storage failure leaves the store untouched.
func (store *Store) Load() error {
	store.ioMu.Lock()
	defer store.ioMu.Unlock()
	if store.storage == nil {
		return nil
	}
	config, err := store.storage.LoadConfiguration()
	if err != nil {
		return fmt.Errorf("loading configuration : %w", err)
	}
	if config == nil {
		return nil
	}
	store.writeMu.Lock()
	store.mu.Lock()
	store.routes = make(map[string]domain.Route, len(config.Routes))
	for _, route := range config.Routes {
		store.routes[route.RouteID] = route
	}
	store.clusters = make(map[string]domain.Cluster, len(config.Clusters))
	for _, cluster := range config.Clusters {
		store.clusters[cluster.ClusterID] = cluster
	}
	store.mu.Unlock()
	store.dispatch(ChangeEvent{Type: ChangeReloaded})
	store.writeMu.Unlock()
	return nil
}

// persist autosaves after a mutation. Failures cannot propagate through the
// mutating call, so they are logged instead; an explicit Save surfaces them.
func (store *Store) persist() {
	if err := store.Save(); err != nil {
		store.logger.Warn("autosaving configuration", "error", err)
	}
}
