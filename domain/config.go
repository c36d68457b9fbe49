package domain

// Configuration is the complete set of admin-side records held by the store:
// every route and every cluster, enabled or not. It is also the shape of the
// persisted document, so its JSON form is part of the storage contract.
type Configuration struct {
	Routes   []Route   `json:"routes"`
	Clusters []Cluster `json:"clusters"`
}

// ConfigStorage defines the interface for persisting complete configuration
// snapshots. Implementations exist for a single JSON document on disk and for
// the SQLite repository; the store treats them interchangeably.
type ConfigStorage interface {
	// LoadConfiguration reads the persisted configuration. It returns
	// (nil, nil) when nothing has been persisted yet, so a fresh install is
	// not an error.
	LoadConfiguration() (*Configuration, error)

	// SaveConfiguration writes the complete configuration, replacing whatever
	// was persisted before. Partial writes are not part of the contract; a
	// save either fully succeeds or reports an error.
	SaveConfiguration(config *Configuration) error
}
