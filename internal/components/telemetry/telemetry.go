// Package telemetry is the reporting surface shared by every component. Components
// report through API instead of logging directly so tests can assert on what was reported.
package telemetry

// API receives reports from components.
//
// Ids name the component that is affected, not the line of code that noticed:
// a failed page fetch is `client.fetch` whatever the cause, the cause goes in params.
// Ids are lowercase, underscores separate words of a component name and dots
// separate a component from its operation.
type API interface {
	// ReportBroken is for failures that need someone to act on them.
	ReportBroken(id string, params ...any)
	// ReportWarning is for failures that are expected to happen now and then
	// (ex. a fetch outside of working hours) but are worth looking at if they repeat.
	ReportWarning(id string, params ...any)
	// ReportDebug is for tracing what happened, it is dropped outside of debug logging.
	ReportDebug(msg string, params ...any)
	// ReportCount records a point in time value (ex. the number of entries in the
	// latest list), values are never summed.
	ReportCount(id string, count int64)
}

// ScopedAPI prefixes every id and message with a namespace, usually the package
// the component lives in.
type ScopedAPI struct {
	prefix string
	inner  API
}

func NewScopedAPI(namespace string, inner API) ScopedAPI {
	return ScopedAPI{prefix: namespace + ": ", inner: inner}
}

func (s ScopedAPI) ReportBroken(id string, params ...any) {
	s.inner.ReportBroken(s.prefix+id, params...)
}

func (s ScopedAPI) ReportWarning(id string, params ...any) {
	s.inner.ReportWarning(s.prefix+id, params...)
}

func (s ScopedAPI) ReportDebug(msg string, params ...any) {
	s.inner.ReportDebug(s.prefix+msg, params...)
}

func (s ScopedAPI) ReportCount(id string, count int64) {
	s.inner.ReportCount(s.prefix+id, count)
}
