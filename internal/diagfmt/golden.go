package diagfmt

import (
	"fmt"
	"sort"
	"strings"

	"srcmark/internal/diag"
	"srcmark/internal/source"
)

type shortLine struct {
	Severity string
	Origin   string
	Line     uint32
	Column   uint32
	Message  string
}

// FormatShort renders diagnostics into a stable one-line-per-entry
// representation suitable for CLI short output and golden files:
//
//	error demo.src:2:4 unbalanced closing bracket
//
// Diagnostics without a location use "-" in place of origin:line:col.
// Entries are sorted deterministically and returned as a single string
// (empty when nothing remains). Locations that no longer resolve against
// the given map are dropped rather than guessed at.
func FormatShort(diags []diag.Diagnostic, m *source.SourceMap, includeNotes bool) string {
	if len(diags) == 0 {
		return ""
	}

	rendered := make([]shortLine, 0, len(diags))
	for _, d := range diags {
		rendered = appendShort(rendered, d, m, includeNotes)
	}

	sort.SliceStable(rendered, func(i, j int) bool {
		di, dj := rendered[i], rendered[j]
		if di.Origin != dj.Origin {
			return di.Origin < dj.Origin
		}
		if di.Line != dj.Line {
			return di.Line < dj.Line
		}
		if di.Column != dj.Column {
			return di.Column < dj.Column
		}
		if di.Severity != dj.Severity {
			return di.Severity < dj.Severity
		}
		return di.Message < dj.Message
	})

	var b strings.Builder
	for i, d := range rendered {
		if d.Origin == "" {
			fmt.Fprintf(&b, "%s - %s", d.Severity, d.Message)
		} else {
			fmt.Fprintf(&b, "%s %s:%d:%d %s", d.Severity, d.Origin, d.Line, d.Column, d.Message)
		}
		if i < len(rendered)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func appendShort(out []shortLine, d diag.Diagnostic, m *source.SourceMap, includeNotes bool) []shortLine {
	if d.Primary == nil {
		out = append(out, shortLine{
			Severity: d.Severity.String(),
			Message:  sanitizeMessage(d.Message),
		})
	} else if pos, err := m.ResolvePosition(d.Primary.Start()); err == nil {
		out = append(out, shortLine{
			Severity: d.Severity.String(),
			Origin:   pos.Origin,
			Line:     pos.Line,
			Column:   pos.Col,
			Message:  sanitizeMessage(d.Message),
		})
	}

	if includeNotes {
		for _, note := range d.Notes {
			if note.Span == nil {
				out = append(out, shortLine{Severity: "note", Message: sanitizeMessage(note.Msg)})
				continue
			}
			pos, err := m.ResolvePosition(note.Span.Start())
			if err != nil {
				continue
			}
			out = append(out, shortLine{
				Severity: "note",
				Origin:   pos.Origin,
				Line:     pos.Line,
				Column:   pos.Col,
				Message:  sanitizeMessage(note.Msg),
			})
		}
	}

	return out
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
