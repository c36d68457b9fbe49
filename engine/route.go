package engine

import (
	"encoding/json"
	"strings"
)

// HeaderMatchMode controls how a header constraint compares its values
// against the request.
type HeaderMatchMode int

const (
	// HeaderMatchExact requires a header value equal to one of the configured
	// values. It is the default for unknown or absent modes.
	HeaderMatchExact HeaderMatchMode = iota
	// HeaderMatchPrefix requires a header value starting with one of the
	// configured values.
	HeaderMatchPrefix
	// HeaderMatchContains requires a header value containing one of the
	// configured values.
	HeaderMatchContains
	// HeaderMatchNotContains requires that no header value contains any of
	// the configured values.
	HeaderMatchNotContains
	// HeaderMatchExists requires the header to be present, values ignored.
	HeaderMatchExists
	// HeaderMatchNotExists requires the header to be absent.
	HeaderMatchNotExists
)

// QueryParameterMatchMode controls how a query parameter constraint compares
// its values against the request.
type QueryParameterMatchMode int

const (
	// QueryParameterMatchExact requires a parameter value equal to one of the
	// configured values. It is the default for unknown or absent modes.
	QueryParameterMatchExact QueryParameterMatchMode = iota
	// QueryParameterMatchContains requires a parameter value containing one
	// of the configured values.
	QueryParameterMatchContains
	// QueryParameterMatchNotContains requires that no parameter value
	// contains any of the configured values.
	QueryParameterMatchNotContains
	// QueryParameterMatchPrefix requires a parameter value starting with one
	// of the configured values.
	QueryParameterMatchPrefix
	// QueryParameterMatchExists requires the parameter to be present, values
	// ignored.
	QueryParameterMatchExists
)

var headerMatchModeNames = map[HeaderMatchMode]string{
	HeaderMatchExact:       "ExactHeader",
	HeaderMatchPrefix:      "HeaderPrefix",
	HeaderMatchContains:    "Contains",
	HeaderMatchNotContains: "NotContains",
	HeaderMatchExists:      "Exists",
	HeaderMatchNotExists:   "NotExists",
}

var queryParameterMatchModeNames = map[QueryParameterMatchMode]string{
	QueryParameterMatchExact:       "Exact",
	QueryParameterMatchContains:    "Contains",
	QueryParameterMatchNotContains: "NotContains",
	QueryParameterMatchPrefix:      "Prefix",
	QueryParameterMatchExists:      "Exists",
}

// ParseHeaderMatchMode maps an admin-side mode string to its engine value.
// Matching is case-insensitive; unknown or empty modes fall back to
// HeaderMatchExact rather than failing, so a typo in one constraint cannot
// block an entire configuration from publishing.
func ParseHeaderMatchMode(mode string) HeaderMatchMode {
	switch strings.ToLower(mode) {
	case "headerprefix":
		return HeaderMatchPrefix
	case "contains":
		return HeaderMatchContains
	case "notcontains":
		return HeaderMatchNotContains
	case "exists":
		return HeaderMatchExists
	case "notexists":
		return HeaderMatchNotExists
	default:
		return HeaderMatchExact
	}
}

// ParseQueryParameterMatchMode maps an admin-side mode string to its engine
// value, with the same case-insensitive fallback behavior as
// ParseHeaderMatchMode.
func ParseQueryParameterMatchMode(mode string) QueryParameterMatchMode {
	switch strings.ToLower(mode) {
	case "contains":
		return QueryParameterMatchContains
	case "notcontains":
		return QueryParameterMatchNotContains
	case "prefix":
		return QueryParameterMatchPrefix
	case "exists":
		return QueryParameterMatchExists
	default:
		return QueryParameterMatchExact
	}
}

func (mode HeaderMatchMode) String() string {
	if name, ok := headerMatchModeNames[mode]; ok {
		return name
	}
	return "ExactHeader"
}

func (mode QueryParameterMatchMode) String() string {
	if name, ok := queryParameterMatchModeNames[mode]; ok {
		return name
	}
	return "Exact"
}

// MarshalJSON renders the mode under its canonical name so published
// snapshots stay readable.
func (mode HeaderMatchMode) MarshalJSON() ([]byte, error) {
	return json.Marshal(mode.String())
}

// MarshalJSON renders the mode under its canonical name so published
// snapshots stay readable.
func (mode QueryParameterMatchMode) MarshalJSON() ([]byte, error) {
	return json.Marshal(mode.String())
}

// Route is a single routing rule in the form consumed by the proxy engine.
type Route struct {
	RouteID             string              `json:"routeId"`
	ClusterID           string              `json:"clusterId"`
	Match               RouteMatch          `json:"match"`
	Order               *int                `json:"order,omitempty"`
	AuthorizationPolicy string              `json:"authorizationPolicy,omitempty"`
	CorsPolicy          string              `json:"corsPolicy,omitempty"`
	RateLimiterPolicy   string              `json:"rateLimiterPolicy,omitempty"`
	TimeoutPolicy       string              `json:"timeoutPolicy,omitempty"`
	Transforms          []map[string]string `json:"transforms,omitempty"`
	Metadata            map[string]string   `json:"metadata,omitempty"`
}

// RouteMatch is the engine-side form of a route's matching criteria.
type RouteMatch struct {
	Path            string                `json:"path,omitempty"`
	Hosts           []string              `json:"hosts,omitempty"`
	Methods         []string              `json:"methods,omitempty"`
	Headers         []HeaderMatch         `json:"headers,omitempty"`
	QueryParameters []QueryParameterMatch `json:"queryParameters,omitempty"`
}

// HeaderMatch is a resolved header constraint.
type HeaderMatch struct {
	Name            string          `json:"name"`
	Values          []string        `json:"values,omitempty"`
	Mode            HeaderMatchMode `json:"mode"`
	IsCaseSensitive bool            `json:"isCaseSensitive,omitempty"`
}

// QueryParameterMatch is a resolved query parameter constraint.
type QueryParameterMatch struct {
	Name            string                  `json:"name"`
	Values          []string                `json:"values,omitempty"`
	Mode            QueryParameterMatchMode `json:"mode"`
	IsCaseSensitive bool                    `json:"isCaseSensitive,omitempty"`
}
