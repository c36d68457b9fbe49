package engine

import "time"

// Cluster is a group of upstream destinations in the form consumed by the
// proxy engine. Durations are concrete time.Duration values and the affinity
// key is always filled in, so the engine never has to apply defaults of its
// own.
type Cluster struct {
	ClusterID           string                 `json:"clusterId"`
	LoadBalancingPolicy string                 `json:"loadBalancingPolicy,omitempty"`
	SessionAffinity     *SessionAffinity       `json:"sessionAffinity,omitempty"`
	HealthCheck         *HealthCheck           `json:"healthCheck,omitempty"`
	HTTPClient          map[string]any         `json:"httpClient,omitempty"`
	HTTPRequest         map[string]any         `json:"httpRequest,omitempty"`
	Destinations        map[string]Destination `json:"destinations,omitempty"`
	Metadata            map[string]string      `json:"metadata,omitempty"`
}

// SessionAffinity is the resolved affinity configuration of a cluster.
type SessionAffinity struct {
	Enabled         bool   `json:"enabled"`
	Policy          string `json:"policy,omitempty"`
	FailurePolicy   string `json:"failurePolicy,omitempty"`
	AffinityKeyName string `json:"affinityKeyName"`
}

// HealthCheck groups the resolved health check settings of a cluster.
type HealthCheck struct {
	Passive                     *PassiveHealthCheck `json:"passive,omitempty"`
	Active                      *ActiveHealthCheck  `json:"active,omitempty"`
	AvailableDestinationsPolicy string              `json:"availableDestinationsPolicy,omitempty"`
}

// PassiveHealthCheck evaluates destination health from live traffic.
type PassiveHealthCheck struct {
	Enabled            bool          `json:"enabled"`
	Policy             string        `json:"policy,omitempty"`
	ReactivationPeriod time.Duration `json:"reactivationPeriod,omitempty"`
}

// ActiveHealthCheck probes destinations on a schedule.
type ActiveHealthCheck struct {
	Enabled  bool          `json:"enabled"`
	Interval time.Duration `json:"interval,omitempty"`
	Timeout  time.Duration `json:"timeout,omitempty"`
	Policy   string        `json:"policy,omitempty"`
	Path     string        `json:"path,omitempty"`
}

// Destination is a single resolved upstream endpoint.
type Destination struct {
	Address  string            `json:"address"`
	Health   string            `json:"health,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}
