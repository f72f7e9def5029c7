package diag

import "srcmark/internal/source"

func New(sev Severity, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Message:  msg,
		Primary:  nil,
		Notes:    nil,
	}
}

func NewError(msg string) Diagnostic {
	return New(SevError, msg)
}

func NewWarning(msg string) Diagnostic {
	return New(SevWarning, msg)
}

func NewNote(msg string) Diagnostic {
	return New(SevNote, msg)
}

// WithSpan attaches the primary location.
func (d Diagnostic) WithSpan(sp source.Span) Diagnostic {
	d.Primary = &sp
	return d
}

// AtOffset attaches a point location as an empty span.
func (d Diagnostic) AtOffset(off source.Offset) Diagnostic {
	sp := source.PointSpan(off)
	d.Primary = &sp
	return d
}

// WithContext attaches a secondary context location shown inside the primary
// snippet.
func (d Diagnostic) WithContext(sp source.Span) Diagnostic {
	d.Context = &sp
	return d
}

// WithNote appends a note without a location.
func (d Diagnostic) WithNote(msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Msg: msg})
	return d
}

// WithNoteAt appends a note anchored at a location.
func (d Diagnostic) WithNoteAt(msg string, sp source.Span) Diagnostic {
	d.Notes = append(d.Notes, Note{Msg: msg, Span: &sp})
	return d
}
