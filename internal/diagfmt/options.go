package diagfmt

// PathMode specifies how origin labels that are file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto keeps the origin as-is unless it is a long absolute path.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// ParsePathMode maps a CLI/config string onto a PathMode; unknown values
// fall back to auto.
func ParsePathMode(s string) PathMode {
	switch s {
	case "absolute":
		return PathModeAbsolute
	case "relative":
		return PathModeRelative
	case "basename":
		return PathModeBasename
	}
	return PathModeAuto
}

// PrettyOpts configures pretty-printing of diagnostics.
//
// TabWidth controls how tabs in a displayed snippet (and the alignment of
// its caret row) are expanded; 0 keeps literal tabs so the terminal picks
// the stops. Expansion is purely presentational: resolved columns always
// count a tab as one character.
type PrettyOpts struct {
	Color     bool
	PathMode  PathMode
	BaseDir   string // base for PathModeRelative
	TabWidth  uint8
	Width     uint16 // maximum display width of a snippet line, 0 = unlimited
	ShowNotes bool
}
