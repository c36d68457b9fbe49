package domain

// Route describes how the proxy engine matches incoming requests and which
// cluster serves them. Routes are admin-side records: optional fields are left
// as written by the operator and are only resolved to engine defaults during
// translation.
type Route struct {
	RouteID             string            `json:"routeId"`                       // Unique identifier and store key.
	ClusterID           string            `json:"clusterId"`                     // Name of the cluster that serves matched requests. Not validated against the cluster collection.
	Match               RouteMatch        `json:"match"`                         // Request matching criteria.
	Order               *int              `json:"order,omitempty"`               // Relative evaluation order, lower wins. Nil leaves ordering to the engine.
	Enabled             *bool             `json:"enabled,omitempty"`             // Whether the route participates in published configurations. Nil counts as enabled.
	AuthorizationPolicy string            `json:"authorizationPolicy,omitempty"` // Name of an authorization policy known to the engine.
	CorsPolicy          string            `json:"corsPolicy,omitempty"`          // Name of a CORS policy known to the engine.
	RateLimiterPolicy   string            `json:"rateLimiterPolicy,omitempty"`   // Name of a rate limiter policy known to the engine.
	TimeoutPolicy       string            `json:"timeoutPolicy,omitempty"`       // Name of a timeout policy known to the engine.
	Transforms          []Transform       `json:"transforms,omitempty"`          // Ordered request/response transform entries, passed through opaquely.
	Metadata            map[string]string `json:"metadata,omitempty"`            // Free-form key-value pairs for engine extensions.
}

// Transform is a single transform entry. Keys and values are interpreted by
// the proxy engine, not by the control plane; the slice order of a route's
// transforms is significant and preserved end to end.
type Transform map[string]string

// RouteMatch holds the criteria a request must satisfy for its route to apply.
// Empty fields match everything.
type RouteMatch struct {
	Path            string                `json:"path,omitempty"`            // Path pattern, engine syntax.
	Hosts           []string              `json:"hosts,omitempty"`           // Host names to match against the request authority.
	Methods         []string              `json:"methods,omitempty"`         // HTTP methods to match.
	Headers         []HeaderMatch         `json:"headers,omitempty"`         // Header constraints, all must match.
	QueryParameters []QueryParameterMatch `json:"queryParameters,omitempty"` // Query parameter constraints, all must match.
}

// HeaderMatch constrains a single request header. Mode is a free-form string
// in the admin model; unknown modes fall back to exact matching during
// translation rather than failing.
type HeaderMatch struct {
	Name            string   `json:"name"`
	Values          []string `json:"values,omitempty"`
	Mode            string   `json:"mode,omitempty"`
	IsCaseSensitive bool     `json:"isCaseSensitive,omitempty"`
}

// QueryParameterMatch constrains a single query parameter, mirroring
// HeaderMatch semantics.
type QueryParameterMatch struct {
	Name            string   `json:"name"`
	Values          []string `json:"values,omitempty"`
	Mode            string   `json:"mode,omitempty"`
	IsCaseSensitive bool     `json:"isCaseSensitive,omitempty"`
}

// IsEnabled reports whether the route should be included in published
// configurations. A nil Enabled field counts as enabled.
func (route Route) IsEnabled() bool {
	return route.Enabled == nil || *route.Enabled
}
