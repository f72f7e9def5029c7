package source

import (
	"crypto/sha256"
	"fmt"
	"sync/atomic"

	"fortio.org/safecast"
)

// nextMapID hands out process-unique SourceMap identities. Two maps never
// share an identity, so a handle from one cannot resolve against the other
// even when both registered identical content.
var nextMapID atomic.Uint32

// SourceMap owns a set of registered source buffers and is the sole
// authority for resolving handles into content. It is append-only: entries
// are never removed or mutated once registered. Registration is not
// synchronized; callers that share a map across goroutines must register
// everything up front and then treat the map as read-only.
type SourceMap struct {
	id       MapID
	entries  []entry
	byOrigin map[string]uint32 // origin -> latest entry index
}

// NewSourceMap creates an empty SourceMap with a fresh process-unique identity.
func NewSourceMap() *SourceMap {
	return &SourceMap{
		id:       MapID(nextMapID.Add(1)),
		entries:  make([]entry, 0),
		byOrigin: make(map[string]uint32),
	}
}

// ID returns the map identity.
func (m *SourceMap) ID() MapID {
	return m.id
}

// Len returns the number of registered entries.
func (m *SourceMap) Len() int {
	return len(m.entries)
}

// Register stores content verbatim under the given origin label and returns
// a fresh entry identity. It never fails; empty content is a legal empty
// source. Registering the same origin again creates a new entry and points
// the origin lookup at it.
func (m *SourceMap) Register(origin string, content []byte) EntryID {
	return m.register(origin, content, EntryVirtual)
}

func (m *SourceMap) register(origin string, content []byte, flags EntryFlags) EntryID {
	index, err := safecast.Conv[uint32](len(m.entries))
	if err != nil {
		panic(fmt.Errorf("entry count overflow: %w", err))
	}
	m.entries = append(m.entries, entry{
		origin:  origin,
		content: string(content),
		hash:    sha256.Sum256(content),
		flags:   flags,
	})
	m.byOrigin[origin] = index
	return EntryID{mapID: m.id, index: index}
}

// Lookup returns the latest entry registered under the given origin label.
func (m *SourceMap) Lookup(origin string) (EntryID, bool) {
	index, ok := m.byOrigin[origin]
	if !ok {
		return EntryID{}, false
	}
	return EntryID{mapID: m.id, index: index}, true
}

// Contains reports whether an entry was registered under the origin label.
func (m *SourceMap) Contains(origin string) bool {
	_, ok := m.byOrigin[origin]
	return ok
}

// Origins returns the origin labels of all entries in registration order.
func (m *SourceMap) Origins() []string {
	out := make([]string, 0, len(m.entries))
	for i := range m.entries {
		out = append(out, m.entries[i].origin)
	}
	return out
}

// entryFor validates the identity of id and returns its entry.
func (m *SourceMap) entryFor(id EntryID) (*entry, error) {
	if id.mapID != m.id {
		return nil, fmt.Errorf("entry %v in map %d: %w", id, m.id, ErrIdentityMismatch)
	}
	if int(id.index) >= len(m.entries) {
		return nil, fmt.Errorf("entry %v: %w", id, ErrUnknownEntry)
	}
	return &m.entries[id.index], nil
}

// Content returns the full text of the entry.
func (m *SourceMap) Content(id EntryID) (string, error) {
	e, err := m.entryFor(id)
	if err != nil {
		return "", err
	}
	return e.content, nil
}

// Origin returns the origin label of the entry.
func (m *SourceMap) Origin(id EntryID) (string, error) {
	e, err := m.entryFor(id)
	if err != nil {
		return "", err
	}
	return e.origin, nil
}

// Hash returns the sha256 of the entry content as registered.
func (m *SourceMap) Hash(id EntryID) ([32]byte, error) {
	e, err := m.entryFor(id)
	if err != nil {
		return [32]byte{}, err
	}
	return e.hash, nil
}

// Flags returns the registration flags of the entry.
func (m *SourceMap) Flags(id EntryID) (EntryFlags, error) {
	e, err := m.entryFor(id)
	if err != nil {
		return 0, err
	}
	return e.flags, nil
}

// OffsetAt builds an offset handle at the given byte index of the entry.
// Index == content length is the legal one-past-last-byte end position;
// anything greater fails with ErrOutOfRange.
func (m *SourceMap) OffsetAt(id EntryID, index uint32) (Offset, error) {
	e, err := m.entryFor(id)
	if err != nil {
		return Offset{}, err
	}
	length, err := safecast.Conv[uint32](len(e.content))
	if err != nil {
		return Offset{}, fmt.Errorf("content length overflow: %w", err)
	}
	if index > length {
		return Offset{}, fmt.Errorf("index %d > length %d: %w", index, length, ErrOutOfRange)
	}
	return Offset{entry: id, index: index}, nil
}

// SpanText returns the content slice a span covers.
func (m *SourceMap) SpanText(s Span) (string, error) {
	e, err := m.entryFor(s.Entry())
	if err != nil {
		return "", err
	}
	end := s.start.index + s.length
	if int(end) > len(e.content) {
		return "", fmt.Errorf("span end %d > length %d: %w", end, len(e.content), ErrOutOfRange)
	}
	return e.content[s.start.index:end], nil
}

// ResolvePosition turns an offset into 1-based line/column plus the full
// text of the line, walking the entry content from its start. The scan is a
// deliberate O(index) per call with no cached line index; this substrate
// trades resolution speed for simplicity. An offset landing exactly on a
// newline byte reports column = line length + 1 on the line that newline
// terminates, consistent with a half-open "just after the last consumed
// byte" reading.
func (m *SourceMap) ResolvePosition(o Offset) (Position, error) {
	e, err := m.entryFor(o.entry)
	if err != nil {
		return Position{}, err
	}
	if int(o.index) > len(e.content) {
		return Position{}, fmt.Errorf("offset %d > length %d: %w", o.index, len(e.content), ErrOutOfRange)
	}

	var line, lineStart, tabs uint32
	line = 1
	for i := uint32(0); i < o.index; i++ {
		switch e.content[i] {
		case '\n':
			line++
			lineStart = i + 1
			tabs = 0
		case '\t':
			tabs++
		}
	}

	lineEnd := len(e.content)
	for i := int(lineStart); i < len(e.content); i++ {
		if e.content[i] == '\n' {
			lineEnd = i
			break
		}
	}

	return Position{
		Entry:    o.entry,
		Origin:   e.origin,
		Line:     line,
		Col:      o.index - lineStart + 1,
		Tabs:     tabs,
		LineText: e.content[lineStart:lineEnd],
	}, nil
}

// ResolveSpan resolves both ends of a span, failing the way ResolvePosition
// does on whichever end fails first.
func (m *SourceMap) ResolveSpan(s Span) (start, end Position, err error) {
	start, err = m.ResolvePosition(s.Start())
	if err != nil {
		return Position{}, Position{}, err
	}
	end, err = m.ResolvePosition(s.End())
	if err != nil {
		return Position{}, Position{}, err
	}
	return start, end, nil
}
