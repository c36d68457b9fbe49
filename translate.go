package rudder

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tfkr-ae/rudder/domain"
	"github.com/tfkr-ae/rudder/engine"
)

// DefaultAffinityKeyName is assigned during translation to session affinity
// configurations that do not name their own key.
const DefaultAffinityKeyName = ".Rudder.Affinity"

// ErrMalformedDuration is returned when a duration string is not in the
// HH:MM:SS form cluster records use.
var ErrMalformedDuration = errors.New("malformed duration, expected HH:MM:SS")

// TranslateRoute converts an admin route record into the engine's route
// shape. Identifiers, ordering, policy names, transforms and metadata are
// copied verbatim; match modes are resolved to engine enum values, with
// unknown modes falling back to the per-kind default. Route translation has
// no failure mode: any record the store accepts can be translated.
func TranslateRoute(route domain.Route) engine.Route {
	translated := engine.Route{
		RouteID:             route.RouteID,
		ClusterID:           route.ClusterID,
		Match:               translateRouteMatch(route.Match),
		Order:               route.Order,
		AuthorizationPolicy: route.AuthorizationPolicy,
		CorsPolicy:          route.CorsPolicy,
		RateLimiterPolicy:   route.RateLimiterPolicy,
		TimeoutPolicy:       route.TimeoutPolicy,
		Metadata:            copyStringMap(route.Metadata),
	}
	if len(route.Transforms) > 0 {
		transforms := make([]map[string]string, 0, len(route.Transforms))
		for _, transform := range route.Transforms {
			transforms = append(transforms, copyStringMap(transform))
		}
		translated.Transforms = transforms
	}
	return translated
}

func translateRouteMatch(match domain.RouteMatch) engine.RouteMatch {
	translated := engine.RouteMatch{
		Path:    match.Path,
		Hosts:   copyStrings(match.Hosts),
		Methods: copyStrings(match.Methods),
	}
	for _, header := range match.Headers {
		translated.Headers = append(translated.Headers, engine.HeaderMatch{
			Name:            header.Name,
			Values:          copyStrings(header.Values),
			Mode:            engine.ParseHeaderMatchMode(header.Mode),
			IsCaseSensitive: header.IsCaseSensitive,
		})
	}
	for _, query := range match.QueryParameters {
		translated.QueryParameters = append(translated.QueryParameters, engine.QueryParameterMatch{
			Name:            query.Name,
			Values:          copyStrings(query.Values),
			Mode:            engine.ParseQueryParameterMatchMode(query.Mode),
			IsCaseSensitive: query.IsCaseSensitive,
		})
	}
	return translated
}

// TranslateCluster converts an admin cluster record into the engine's cluster
// shape. Policy names, destinations and metadata are copied verbatim, the
// affinity key is defaulted when empty, and HH:MM:SS duration strings are
// parsed into concrete durations. A malformed duration fails the translation;
// absent durations translate to zero.
func TranslateCluster(cluster domain.Cluster) (engine.Cluster, error) {
	translated := engine.Cluster{
		ClusterID:           cluster.ClusterID,
		LoadBalancingPolicy: cluster.LoadBalancingPolicy,
		HTTPClient:          cluster.HTTPClient,
		HTTPRequest:         cluster.HTTPRequest,
		Metadata:            copyStringMap(cluster.Metadata),
	}
	if affinity := cluster.SessionAffinity; affinity != nil {
		keyName := affinity.AffinityKeyName
		if keyName == "" {
			keyName = DefaultAffinityKeyName
		}
		translated.SessionAffinity = &engine.SessionAffinity{
			Enabled:         affinity.Enabled != nil && *affinity.Enabled,
			Policy:          affinity.Policy,
			FailurePolicy:   affinity.FailurePolicy,
			AffinityKeyName: keyName,
		}
	}
	if health := cluster.HealthCheck; health != nil {
		translatedHealth := &engine.HealthCheck{
			AvailableDestinationsPolicy: health.AvailableDestinationsPolicy,
		}
		if passive := health.Passive; passive != nil {
			period, err := translateDuration(passive.ReactivationPeriod)
			if err != nil {
				return engine.Cluster{}, fmt.Errorf("parsing passive health check reactivation period : %w", err)
			}
			translatedHealth.Passive = &engine.PassiveHealthCheck{
				Enabled:            passive.Enabled != nil && *passive.Enabled,
				Policy:             passive.Policy,
				ReactivationPeriod: period,
			}
		}
		if active := health.Active; active != nil {
			interval, err := translateDuration(active.Interval)
			if err != nil {
				return engine.Cluster{}, fmt.Errorf("parsing active health check interval : %w", err)
			}
			timeout, err := translateDuration(active.Timeout)
			if err != nil {
				return engine.Cluster{}, fmt.Errorf("parsing active health check timeout : %w", err)
			}
			translatedHealth.Active = &engine.ActiveHealthCheck{
				Enabled:  active.Enabled != nil && *active.Enabled,
				Interval: interval,
				Timeout:  timeout,
				Policy:   active.Policy,
				Path:     active.Path,
			}
		}
		translated.HealthCheck = translatedHealth
	}
	if len(cluster.Destinations) > 0 {
		destinations := make(map[string]engine.Destination, len(cluster.Destinations))
		for name, destination := range cluster.Destinations {
			destinations[name] = engine.Destination{
				Address:  destination.Address,
				Health:   destination.Health,
				Metadata: copyStringMap(destination.Metadata),
			}
		}
		translated.Destinations = destinations
	}
	return translated, nil
}

// translateDuration maps an optional admin-side duration to a concrete one.
// Empty means unset and translates to zero.
func translateDuration(value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	return parseDuration(value)
}

// parseDuration parses the HH:MM:SS duration strings used in cluster records,
// e.g. "00:00:05" or "00:01:30.250". Hours may exceed two digits; minutes and
// seconds must stay below 60; an optional fraction of a second is kept to
// nanosecond precision.
func parseDuration(value string) (time.Duration, error) {
	parts := strings.Split(value, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("%w, got %q", ErrMalformedDuration, value)
	}
	hours, err := parseDigits(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%w, got %q", ErrMalformedDuration, value)
	}
	minutes, err := parseDigits(parts[1])
	if err != nil || minutes > 59 {
		return 0, fmt.Errorf("%w, got %q", ErrMalformedDuration, value)
	}
	secondsPart := parts[2]
	var fraction time.Duration
	if dot := strings.IndexByte(secondsPart, '.'); dot >= 0 {
		fractionDigits := secondsPart[dot+1:]
		secondsPart = secondsPart[:dot]
		if fractionDigits == "" {
			return 0, fmt.Errorf("%w, got %q", ErrMalformedDuration, value)
		}
		if _, err := parseDigits(fractionDigits); err != nil {
			return 0, fmt.Errorf("%w, got %q", ErrMalformedDuration, value)
		}
		if len(fractionDigits) > 9 {
			fractionDigits = fractionDigits[:9]
		}
		nanos, _ := strconv.Atoi(fractionDigits)
		for i := len(fractionDigits); i < 9; i++ {
			nanos *= 10
		}
		fraction = time.Duration(nanos) * time.Nanosecond
	}
	seconds, err := parseDigits(secondsPart)
	if err != nil || seconds > 59 {
		return 0, fmt.Errorf("%w, got %q", ErrMalformedDuration, value)
	}
	return time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		fraction, nil
}

// parseDigits is a strict Atoi: digits only, no signs, no spaces.
func parseDigits(value string) (int, error) {
	if value == "" {
		return 0, ErrMalformedDuration
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return 0, ErrMalformedDuration
		}
	}
	return strconv.Atoi(value)
}

func copyStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	return append([]string(nil), values...)
}

func copyStringMap(values map[string]string) map[string]string {
	if len(values) == 0 {
		return nil
	}
	copied := make(map[string]string, len(values))
	for key, value := range values {
		copied[key] = value
	}
	return copied
}
