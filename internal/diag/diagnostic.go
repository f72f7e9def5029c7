package diag

import (
	"srcmark/internal/source"
)

// Note is a secondary message attached to a diagnostic, with an optional
// location of its own.
type Note struct {
	Msg  string
	Span *source.Span // nil when the note carries no location
}

// Diagnostic is an inert value describing one finding. Primary is nil for
// diagnostics without a location; a point location is an empty span.
// Context optionally names a second location in the same entry (e.g. where
// a delimiter was opened) that renderers show inside the primary snippet.
type Diagnostic struct {
	Severity Severity
	Message  string
	Primary  *source.Span
	Context  *source.Span
	Notes    []Note
}

// HasLocation reports whether the diagnostic carries a primary location.
func (d Diagnostic) HasLocation() bool {
	return d.Primary != nil
}
