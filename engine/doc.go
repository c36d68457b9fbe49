// Package engine defines the configuration shape consumed by the proxy
// engine's data plane. It is the target of translation: admin-side records
// from the domain package are converted into these types before being
// published, with match modes resolved to concrete enum values, durations
// parsed into time.Duration, and defaults filled in.
//
// The types here are deliberately free of admin concerns. There is no enabled
// flag on a route, because disabled routes are filtered out before
// translation, and there are no free-form mode strings, because the engine
// only ever sees resolved values.
package engine
