package source

import "errors"

// Resolution failures are deterministic and permanent for the given inputs:
// they are reported, never retried, clamped, or silently recovered.
var (
	// ErrIdentityMismatch is returned when a handle is presented to a
	// SourceMap (or paired with another handle) it did not originate from.
	ErrIdentityMismatch = errors.New("source: identity mismatch")
	// ErrUnknownEntry is returned when an entry identity has no entry in the
	// given SourceMap.
	ErrUnknownEntry = errors.New("source: unknown entry")
	// ErrOutOfRange is returned when an offset index exceeds the entry's
	// content length.
	ErrOutOfRange = errors.New("source: offset out of range")
	// ErrReversedSpan is returned when a span would end before it starts.
	ErrReversedSpan = errors.New("source: span end before start")
)
