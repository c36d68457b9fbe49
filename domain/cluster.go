package domain

// Cluster describes a group of upstream destinations and the policies used to
// reach them. Like Route, it is an admin-side record: duration fields are kept
// as HH:MM:SS strings and only parsed during translation, so a cluster can be
// stored and edited even while a duration is half-typed.
type Cluster struct {
	ClusterID           string                 `json:"clusterId"`                     // Unique identifier and store key.
	LoadBalancingPolicy string                 `json:"loadBalancingPolicy,omitempty"` // Name of a load balancing policy known to the engine.
	SessionAffinity     *SessionAffinity       `json:"sessionAffinity,omitempty"`     // Session affinity settings, nil when unconfigured.
	HealthCheck         *HealthCheck           `json:"healthCheck,omitempty"`         // Health check settings, nil when unconfigured.
	HTTPClient          map[string]any         `json:"httpClient,omitempty"`          // Opaque outbound connection settings, passed through to the engine.
	HTTPRequest         map[string]any         `json:"httpRequest,omitempty"`         // Opaque per-request settings, passed through to the engine.
	Destinations        map[string]Destination `json:"destinations,omitempty"`        // Upstream endpoints keyed by destination name.
	Metadata            map[string]string      `json:"metadata,omitempty"`            // Free-form key-value pairs for engine extensions.
}

// SessionAffinity pins clients to the destination that served their first
// request.
type SessionAffinity struct {
	Enabled         *bool  `json:"enabled,omitempty"`         // Nil counts as disabled.
	Policy          string `json:"policy,omitempty"`          // Affinity mechanism, e.g. cookie based.
	FailurePolicy   string `json:"failurePolicy,omitempty"`   // What to do when the pinned destination is unavailable.
	AffinityKeyName string `json:"affinityKeyName,omitempty"` // Cookie or header name carrying the affinity key. Defaulted during translation when empty.
}

// HealthCheck groups the passive and active health check settings of a
// cluster.
type HealthCheck struct {
	Passive                     *PassiveHealthCheck `json:"passive,omitempty"`
	Active                      *ActiveHealthCheck  `json:"active,omitempty"`
	AvailableDestinationsPolicy string              `json:"availableDestinationsPolicy,omitempty"` // Name of the policy selecting which destinations receive traffic.
}

// PassiveHealthCheck evaluates destination health from live traffic.
type PassiveHealthCheck struct {
	Enabled            *bool  `json:"enabled,omitempty"`
	Policy             string `json:"policy,omitempty"`
	ReactivationPeriod string `json:"reactivationPeriod,omitempty"` // HH:MM:SS duration before an unhealthy destination is retried.
}

// ActiveHealthCheck probes destinations on a schedule.
type ActiveHealthCheck struct {
	Enabled  *bool  `json:"enabled,omitempty"`
	Interval string `json:"interval,omitempty"` // HH:MM:SS duration between probes.
	Timeout  string `json:"timeout,omitempty"`  // HH:MM:SS probe timeout.
	Policy   string `json:"policy,omitempty"`
	Path     string `json:"path,omitempty"` // Probe request path.
}

// Destination is a single upstream endpoint within a cluster.
type Destination struct {
	Address  string            `json:"address"`            // Base address of the endpoint, required.
	Health   string            `json:"health,omitempty"`   // Optional dedicated health probe address.
	Metadata map[string]string `json:"metadata,omitempty"` // Free-form key-value pairs for engine extensions.
}
