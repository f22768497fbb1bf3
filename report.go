package strata

// Action identifies what the engine did for a field during resolution.
type Action string

const (
	// ActionResolved: the field took its value from a single winning source.
	ActionResolved Action = "resolved"

	// ActionAppended: an append-strategy collection took values from this
	// source; one event is emitted per contributing source.
	ActionAppended Action = "appended"

	// ActionDefaulted: no source set the field and it resolved to absent.
	ActionDefaulted Action = "defaulted"

	// ActionMissing: no source set a required field; resolution failed.
	ActionMissing Action = "missing"
)

// Event is one field-level diagnostic emitted during resolution.
type Event struct {
	Path   string // dotted field path, e.g. "server.port"
	Source string // contributing source name; empty for defaulted/missing
	Action Action
}

// Reporter receives resolution diagnostics. Reporters observe only; the
// engine's result never depends on whether one is attached.
type Reporter interface {
	Report(Event)
}

// ReporterFunc is a function adapter for Reporter.
type ReporterFunc func(Event)

func (f ReporterFunc) Report(e Event) {
	f(e)
}

type nopReporter struct{}

func (nopReporter) Report(Event) {}

// FieldProvenance describes where a resolved field's value came from.
type FieldProvenance struct {
	FieldPath  string
	SourceName string
	Action     Action
}

// Trace is a Reporter that collects per-field provenance for a resolution
// session. Attach with WithReporter, then inspect Fields or Lookup.
// A Trace is not safe for use across concurrent resolutions.
type Trace struct {
	Fields []FieldProvenance
}

func (t *Trace) Report(e Event) {
	t.Fields = append(t.Fields, FieldProvenance{
		FieldPath:  e.Path,
		SourceName: e.Source,
		Action:     e.Action,
	})
}

// Lookup returns the first provenance entry recorded for the given dotted
// path. Append-strategy collections record one entry per contributing
// source; Lookup returns the lowest-precedence one.
func (t *Trace) Lookup(path string) (FieldProvenance, bool) {
	for _, f := range t.Fields {
		if f.FieldPath == path {
			return f, true
		}
	}
	return FieldProvenance{}, false
}
