package diagfmt

import (
	"errors"
	"strings"
	"testing"

	"srcmark/internal/diag"
	"srcmark/internal/source"
)

// normalize turns a margin-prefixed fixture into real content: every line
// loses its leading whitespace and the first '|' after it. Keeps multi-line
// source fixtures readable inside indented test code.
func normalize(s string) string {
	lines := strings.Split(s, "\n")
	if len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		trimmed = strings.TrimPrefix(trimmed, "|")
		out = append(out, trimmed)
	}
	return strings.Join(out, "\n")
}

func plainOpts() PrettyOpts {
	return PrettyOpts{Color: false, ShowNotes: true}
}

func mustSpan(t *testing.T, m *source.SourceMap, id source.EntryID, start, end uint32) source.Span {
	t.Helper()
	s, err := m.OffsetAt(id, start)
	if err != nil {
		t.Fatalf("OffsetAt(%d): %v", start, err)
	}
	e, err := m.OffsetAt(id, end)
	if err != nil {
		t.Fatalf("OffsetAt(%d): %v", end, err)
	}
	sp, err := source.NewSpan(s, e)
	if err != nil {
		t.Fatalf("NewSpan: %v", err)
	}
	return sp
}

func render(t *testing.T, d diag.Diagnostic, m *source.SourceMap, opts PrettyOpts) string {
	t.Helper()
	var b strings.Builder
	if err := Render(&b, d, m, opts); err != nil {
		t.Fatalf("Render: %v", err)
	}
	return b.String()
}

func TestRenderBasic(t *testing.T) {
	m := source.NewSourceMap()
	id := m.Register("demo.txt", []byte("hello world\n"))
	d := diag.NewError("bad word").WithSpan(mustSpan(t, m, id, 6, 11))

	got := render(t, d, m, plainOpts())
	want := strings.Join([]string{
		"error: bad word",
		" --> demo.txt:1:7",
		" 1 | hello world",
		"   |       ^~~~~",
		"",
	}, "\n")
	if got != want {
		t.Errorf("Render mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderNoLocation(t *testing.T) {
	m := source.NewSourceMap()
	d := diag.NewWarning("global problem")

	got := render(t, d, m, plainOpts())
	if got != "warning: global problem\n" {
		t.Errorf("Render = %q", got)
	}
}

func TestRenderMultiLineSpan(t *testing.T) {
	m := source.NewSourceMap()
	id := m.Register("a.txt", []byte(normalize(`
		|ab
		|cd`)))
	d := diag.NewError("crosses lines").WithSpan(mustSpan(t, m, id, 0, 4))

	// Only the first line is shown; the underline runs through its end.
	got := render(t, d, m, plainOpts())
	want := strings.Join([]string{
		"error: crosses lines",
		" --> a.txt:1:1",
		" 1 | ab",
		"   | ^~~",
		"",
	}, "\n")
	if got != want {
		t.Errorf("Render mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderEmptySpan(t *testing.T) {
	m := source.NewSourceMap()
	id := m.Register("a.txt", []byte("abc\ndef\n"))
	off, _ := m.OffsetAt(id, 5)
	d := diag.NewNote("right here").AtOffset(off)

	got := render(t, d, m, plainOpts())
	want := strings.Join([]string{
		"note: right here",
		" --> a.txt:2:2",
		" 2 | def",
		"   |  ^",
		"",
	}, "\n")
	if got != want {
		t.Errorf("Render mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderContextWithEllipsis(t *testing.T) {
	m := source.NewSourceMap()
	id := m.Register("b.txt", []byte(normalize(`
		|a(b
		|ccc
		|ddd
		|e]f`)))
	d := diag.NewError(`mismatched closing ']'`).
		WithSpan(mustSpan(t, m, id, 13, 14)).
		WithContext(mustSpan(t, m, id, 1, 2))

	got := render(t, d, m, PrettyOpts{})
	want := strings.Join([]string{
		"error: mismatched closing ']'",
		" --> b.txt:4:2",
		" 1 | a(b",
		"   | ...",
		" 4 | e]f",
		"   |  ^",
		"",
	}, "\n")
	if got != want {
		t.Errorf("Render mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderContextAdjacentLine(t *testing.T) {
	m := source.NewSourceMap()
	id := m.Register("b.txt", []byte(normalize(`
		|a(b
		|e]f`)))
	d := diag.NewError(`mismatched closing ']'`).
		WithSpan(mustSpan(t, m, id, 5, 6)).
		WithContext(mustSpan(t, m, id, 1, 2))

	// Adjacent lines need no ellipsis row.
	got := render(t, d, m, PrettyOpts{})
	want := strings.Join([]string{
		"error: mismatched closing ']'",
		" --> b.txt:2:2",
		" 1 | a(b",
		" 2 | e]f",
		"   |  ^",
		"",
	}, "\n")
	if got != want {
		t.Errorf("Render mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderContextSameLineOmitted(t *testing.T) {
	m := source.NewSourceMap()
	id := m.Register("b.txt", []byte("(x]\n"))
	d := diag.NewError(`mismatched closing ']'`).
		WithSpan(mustSpan(t, m, id, 2, 3)).
		WithContext(mustSpan(t, m, id, 0, 1))

	got := render(t, d, m, PrettyOpts{})
	want := strings.Join([]string{
		"error: mismatched closing ']'",
		" --> b.txt:1:3",
		" 1 | (x]",
		"   |   ^",
		"",
	}, "\n")
	if got != want {
		t.Errorf("Render mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderNotes(t *testing.T) {
	m := source.NewSourceMap()
	id := m.Register("a.txt", []byte("foo bar\n"))
	d := diag.NewError("broken").
		WithSpan(mustSpan(t, m, id, 0, 3)).
		WithNote("plain remark").
		WithNoteAt("related here", mustSpan(t, m, id, 4, 7))

	got := render(t, d, m, plainOpts())
	want := strings.Join([]string{
		"error: broken",
		" --> a.txt:1:1",
		" 1 | foo bar",
		"   | ^~~",
		"  note: plain remark",
		"  note: related here",
		"   --> a.txt:1:5",
		"   1 | foo bar",
		"     |     ^~~",
		"",
	}, "\n")
	if got != want {
		t.Errorf("Render mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}

	opts := plainOpts()
	opts.ShowNotes = false
	got = render(t, d, m, opts)
	if strings.Contains(got, "note:") {
		t.Errorf("notes rendered with ShowNotes=false:\n%s", got)
	}
}

func TestRenderTabExpansion(t *testing.T) {
	m := source.NewSourceMap()
	id := m.Register("a.txt", []byte("\tx\n"))
	d := diag.NewError("tabbed").WithSpan(mustSpan(t, m, id, 1, 2))

	opts := PrettyOpts{TabWidth: 4}
	got := render(t, d, m, opts)
	want := strings.Join([]string{
		"error: tabbed",
		" --> a.txt:1:2",
		" 1 |     x",
		"   |     ^",
		"",
	}, "\n")
	if got != want {
		t.Errorf("Render mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}

	// TabWidth 0 keeps literal tabs in both snippet and caret padding.
	got = render(t, d, m, PrettyOpts{})
	want = strings.Join([]string{
		"error: tabbed",
		" --> a.txt:1:2",
		" 1 | \tx",
		"   | \t^",
		"",
	}, "\n")
	if got != want {
		t.Errorf("Render mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderWidthTruncation(t *testing.T) {
	m := source.NewSourceMap()
	id := m.Register("a.txt", []byte("abcdefghijklmnop\n"))
	d := diag.NewError("long line").WithSpan(mustSpan(t, m, id, 0, 3))

	got := render(t, d, m, PrettyOpts{Width: 10})
	want := strings.Join([]string{
		"error: long line",
		" --> a.txt:1:1",
		" 1 | abcdefg...",
		"   | ^~~",
		"",
	}, "\n")
	if got != want {
		t.Errorf("Render mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}

	// Width 0 leaves the line untouched.
	got = render(t, d, m, PrettyOpts{})
	if !strings.Contains(got, "abcdefghijklmnop") {
		t.Errorf("Width 0 truncated the line:\n%s", got)
	}
}

func TestRenderForeignMapFails(t *testing.T) {
	m1 := source.NewSourceMap()
	m2 := source.NewSourceMap()
	id := m1.Register("a.txt", []byte("hello"))
	m2.Register("a.txt", []byte("hello"))

	d := diag.NewError("x").WithSpan(mustSpan(t, m1, id, 0, 2))
	var b strings.Builder
	if err := Render(&b, d, m2, plainOpts()); !errors.Is(err, source.ErrIdentityMismatch) {
		t.Errorf("Render against foreign map = %v, want ErrIdentityMismatch", err)
	}
}

func TestRenderAll(t *testing.T) {
	m := source.NewSourceMap()
	id := m.Register("a.txt", []byte("xy\n"))

	bag := diag.NewBag(10)
	bag.Add(diag.NewError("first").WithSpan(mustSpan(t, m, id, 0, 1)))
	bag.Add(diag.NewWarning("second").WithSpan(mustSpan(t, m, id, 1, 2)))

	var b strings.Builder
	if err := RenderAll(&b, bag, m, plainOpts()); err != nil {
		t.Fatalf("RenderAll: %v", err)
	}
	got := b.String()
	if !strings.Contains(got, "error: first") || !strings.Contains(got, "warning: second") {
		t.Fatalf("RenderAll missing diagnostics:\n%s", got)
	}
	if !strings.Contains(got, "^\n\nwarning") {
		t.Errorf("blocks not separated by a blank line:\n%s", got)
	}
}

func TestFormatOrigin(t *testing.T) {
	tests := []struct {
		name   string
		origin string
		opts   PrettyOpts
		want   string
	}{
		{"auto short", "demo.txt", PrettyOpts{}, "demo.txt"},
		{
			"auto long absolute",
			"/very/long/absolute/path/that/keeps/going/on/demo.txt",
			PrettyOpts{},
			"demo.txt",
		},
		{"basename", "/a/b/demo.txt", PrettyOpts{PathMode: PathModeBasename}, "demo.txt"},
		{
			"relative",
			"/base/sub/demo.txt",
			PrettyOpts{PathMode: PathModeRelative, BaseDir: "/base"},
			"sub/demo.txt",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatOrigin(tt.origin, tt.opts); got != tt.want {
				t.Errorf("formatOrigin(%q) = %q, want %q", tt.origin, got, tt.want)
			}
		})
	}
}

func TestParsePathMode(t *testing.T) {
	tests := []struct {
		in   string
		want PathMode
	}{
		{"auto", PathModeAuto},
		{"absolute", PathModeAbsolute},
		{"relative", PathModeRelative},
		{"basename", PathModeBasename},
		{"bogus", PathModeAuto},
	}
	for _, tt := range tests {
		if got := ParsePathMode(tt.in); got != tt.want {
			t.Errorf("ParsePathMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
