package diagfmt

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"srcmark/internal/diag"
	"srcmark/internal/source"
)

// Render formats one diagnostic into a human-readable block:
//
//	error: message
//	 --> origin:line:col
//	 2 | source line text
//	   |   ^~~~
//	  note: secondary message (indented, with its own snippet when located)
//
// Every location is resolved against the given SourceMap at render time;
// resolution failures (identity mismatch, out of range) propagate to the
// caller untouched; the renderer never substitutes a plausible-looking
// location. When a span covers multiple lines only the first line is shown,
// with the underline running through the end of that line.
func Render(w io.Writer, d diag.Diagnostic, m *source.SourceMap, opts PrettyOpts) error {
	st := newStyles(opts.Color)
	var b strings.Builder

	err := renderBlock(&b, m, st.severity(d.Severity), d.Message, d.Primary, d.Context, "", opts, st)
	if err != nil {
		return err
	}
	if opts.ShowNotes {
		for _, note := range d.Notes {
			err := renderBlock(&b, m, st.note("note"), note.Msg, note.Span, nil, "  ", opts, st)
			if err != nil {
				return err
			}
		}
	}

	_, err = io.WriteString(w, b.String())
	return err
}

// RenderAll renders every diagnostic in the bag, separated by blank lines.
// The bag is expected to be sorted already.
func RenderAll(w io.Writer, bag *diag.Bag, m *source.SourceMap, opts PrettyOpts) error {
	for i, d := range bag.Items() {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := Render(w, d, m, opts); err != nil {
			return err
		}
	}
	return nil
}

func renderBlock(b *strings.Builder, m *source.SourceMap, label, msg string, span, ctx *source.Span, indent string, opts PrettyOpts, st styles) error {
	fmt.Fprintf(b, "%s%s: %s\n", indent, label, msg)
	if span == nil {
		return nil
	}

	start, end, err := m.ResolveSpan(*span)
	if err != nil {
		return err
	}

	var ctxPos *source.Position
	if ctx != nil {
		pos, err := m.ResolvePosition(ctx.Start())
		if err != nil {
			return err
		}
		if pos.Line != start.Line {
			ctxPos = &pos
		}
	}

	width := digits(start.Line)
	if ctxPos != nil && digits(ctxPos.Line) > width {
		width = digits(ctxPos.Line)
	}

	fmt.Fprintf(b, "%s --> %s:%d:%d\n", indent, formatOrigin(start.Origin, opts), start.Line, start.Col)

	if ctxPos != nil {
		fmt.Fprintf(b, "%s%s %s\n", indent, st.gutter(" %*d |", width, ctxPos.Line), displayLine(ctxPos.LineText, opts))
		if ctxPos.Line+1 != start.Line && start.Line+1 != ctxPos.Line {
			fmt.Fprintf(b, "%s%s ...\n", indent, st.gutter(" %*s |", width, ""))
		}
	}

	fmt.Fprintf(b, "%s%s %s\n", indent, st.gutter(" %*d |", width, start.Line), displayLine(start.LineText, opts))
	marks := underlineLen(start, end)
	fmt.Fprintf(b, "%s%s %s%s\n", indent, st.gutter(" %*s |", width, ""),
		caretPad(start.LineText, start.Col, opts.TabWidth),
		"^"+strings.Repeat("~", int(marks-1)))
	return nil
}

// underlineLen computes how many columns the caret row covers on the first
// displayed line. An empty span still gets a single caret.
func underlineLen(start, end source.Position) uint32 {
	if end.Line == start.Line {
		if end.Col > start.Col {
			return end.Col - start.Col
		}
		return 1
	}
	lineLen := uint32(len(start.LineText))
	if lineLen+2 > start.Col {
		return lineLen + 2 - start.Col
	}
	return 1
}

// caretPad aligns the caret row with the snippet line above it. Tabs in the
// prefix are mirrored (or expanded, when tabWidth > 0) so the caret lands
// under the right spot regardless of the terminal's tab stops.
func caretPad(lineText string, col uint32, tabWidth uint8) string {
	prefix := lineText
	if int(col-1) <= len(lineText) {
		prefix = lineText[:col-1]
	}
	var b strings.Builder
	for i := 0; i < len(prefix); i++ {
		if prefix[i] == '\t' {
			if tabWidth == 0 {
				b.WriteByte('\t')
			} else {
				b.WriteString(strings.Repeat(" ", int(tabWidth)))
			}
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

func displayLine(text string, opts PrettyOpts) string {
	if opts.TabWidth > 0 {
		text = strings.ReplaceAll(text, "\t", strings.Repeat(" ", int(opts.TabWidth)))
	}
	if opts.Width > 0 {
		text = runewidth.Truncate(text, int(opts.Width), "...")
	}
	return text
}

func formatOrigin(origin string, opts PrettyOpts) string {
	switch opts.PathMode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(origin); err == nil {
			return abs
		}
		return origin

	case PathModeRelative:
		base := opts.BaseDir
		if base == "" {
			if wd, err := os.Getwd(); err == nil {
				base = wd
			}
		}
		if rel, err := filepath.Rel(base, origin); err == nil {
			return filepath.ToSlash(rel)
		}
		return origin

	case PathModeBasename:
		return filepath.Base(origin)

	default:
		// Auto: short or relative origins as-is, long absolute paths shortened.
		if len(origin) < 40 || !filepath.IsAbs(origin) {
			return origin
		}
		return filepath.Base(origin)
	}
}

func digits(n uint32) int {
	d := 1
	for n >= 10 {
		d++
		n /= 10
	}
	return d
}

type styles struct {
	err    func(format string, a ...any) string
	warn   func(format string, a ...any) string
	note   func(format string, a ...any) string
	gutter func(format string, a ...any) string
}

func newStyles(enabled bool) styles {
	if !enabled {
		return styles{
			err:    fmt.Sprintf,
			warn:   fmt.Sprintf,
			note:   fmt.Sprintf,
			gutter: fmt.Sprintf,
		}
	}
	return styles{
		err:    color.New(color.FgRed, color.Bold).SprintfFunc(),
		warn:   color.New(color.FgYellow, color.Bold).SprintfFunc(),
		note:   color.New(color.FgCyan, color.Bold).SprintfFunc(),
		gutter: color.New(color.FgBlue).SprintfFunc(),
	}
}

func (s styles) severity(sev diag.Severity) string {
	switch sev {
	case diag.SevError:
		return s.err("%s", sev)
	case diag.SevWarning:
		return s.warn("%s", sev)
	default:
		return s.note("%s", sev)
	}
}
