// Package diag defines the diagnostic model shared by producers and
// formatters.
//
// Diagnostic is the central record: a severity, a human-oriented message, an
// optional primary location (a source.Span; point locations attach as empty
// spans), an optional secondary context location rendered inside the primary
// snippet, and ordered Notes for additional context. Diagnostics are plain
// values composed builder-style; the package keeps no hidden global list,
// producers own their collection, typically a Bag.
//
// Package diag performs no formatting and no IO. Rendering lives in
// internal/diagfmt, which resolves locations against the originating
// source.SourceMap at display time.
package diag
