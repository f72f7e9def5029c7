package source

import (
	"fmt"
	"unicode/utf8"

	"fortio.org/safecast"
)

// Cursor is a forward-only traversal over one entry's content. It tracks the
// current byte offset so calling code never computes raw indices, and mints
// Offset/Span handles tagged with the entry identity. A cursor is not safe
// for concurrent use and must not outlive the SourceMap it was created from.
//
// There is no backward movement: callers needing lookahead capture an Offset
// and re-slice via SourceMap.Content, or keep a small local buffer.
type Cursor struct {
	entry   EntryID
	content string
	off     uint32
}

// Cursor creates a cursor positioned at the start of the entry.
func (m *SourceMap) Cursor(id EntryID) (*Cursor, error) {
	e, err := m.entryFor(id)
	if err != nil {
		return nil, err
	}
	if _, err := safecast.Conv[uint32](len(e.content)); err != nil {
		return nil, fmt.Errorf("content length overflow: %w", err)
	}
	return &Cursor{entry: id, content: e.content}, nil
}

// Entry returns the identity of the entry being traversed.
func (c *Cursor) Entry() EntryID {
	return c.entry
}

// EOF reports whether the cursor is past the last character.
func (c *Cursor) EOF() bool {
	return int(c.off) >= len(c.content)
}

// Peek returns the character at the current position without advancing.
// The second result is false at end of content.
func (c *Cursor) Peek() (rune, bool) {
	if c.EOF() {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(c.content[c.off:])
	return r, true
}

// Next returns and consumes the current character, advancing the position by
// its encoded length. At end of content it returns (0, false) and does not
// move.
func (c *Cursor) Next() (rune, bool) {
	if c.EOF() {
		return 0, false
	}
	r, size := utf8.DecodeRuneInString(c.content[c.off:])
	c.off += uint32(size)
	return r, true
}

// Skip consumes the next character if it equals r.
func (c *Cursor) Skip(r rune) bool {
	if next, ok := c.Peek(); ok && next == r {
		c.off += uint32(utf8.RuneLen(r))
		return true
	}
	return false
}

// Offset snapshots the current position as a handle. The handle stays valid
// independent of further cursor advancement.
func (c *Cursor) Offset() Offset {
	return Offset{entry: c.entry, index: c.off}
}

// SpanFrom builds a span from a previously captured start offset to the
// current position. It fails with ErrIdentityMismatch if start belongs to a
// different entry or map, and with ErrReversedSpan if start lies past the
// current position.
func (c *Cursor) SpanFrom(start Offset) (Span, error) {
	if start.entry != c.entry {
		return Span{}, fmt.Errorf("span start %v in cursor over %v: %w", start.entry, c.entry, ErrIdentityMismatch)
	}
	return NewSpan(start, c.Offset())
}
