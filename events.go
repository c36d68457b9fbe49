package rudder

// ChangeType identifies what happened to the store's contents.
type ChangeType string

const (
	// ChangeAdded fires when an upsert inserts a previously unknown id.
	ChangeAdded ChangeType = "added"
	// ChangeUpdated fires when an upsert replaces an existing record.
	ChangeUpdated ChangeType = "updated"
	// ChangeDeleted fires when a delete removes an existing record.
	ChangeDeleted ChangeType = "deleted"
	// ChangeReloaded fires once after a load replaces the whole store.
	ChangeReloaded ChangeType = "reloaded"
)

// EntityKind identifies which collection a change event refers to.
type EntityKind string

const (
	KindRoute   EntityKind = "route"
	KindCluster EntityKind = "cluster"
)

// ChangeEvent describes a single store mutation. Kind and ID are empty for
// ChangeReloaded events, which refer to the store as a whole.
type ChangeEvent struct {
	Type ChangeType
	Kind EntityKind
	ID   string
}
