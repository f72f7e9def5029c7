package source

import "fmt"

// Offset is a single identity-tagged position inside one registered entry.
// It is a pure value: comparisons and span construction verify that both
// operands share the same map and entry identity and fail otherwise.
type Offset struct {
	entry EntryID
	index uint32
}

// Entry returns the identity of the entry the offset points into.
func (o Offset) Entry() EntryID {
	return o.entry
}

// Index returns the byte index within the entry content.
func (o Offset) Index() uint32 {
	return o.index
}

// AtStart reports whether the offset points at the beginning of its entry.
func (o Offset) AtStart() bool {
	return o.index == 0
}

// AdvanceBy returns a new offset n bytes further into the same entry.
// The identity tag is preserved unchanged; the result is range-checked only
// when resolved.
func (o Offset) AdvanceBy(n uint32) Offset {
	return Offset{entry: o.entry, index: o.index + n}
}

// Compare orders two offsets within the same entry. Comparing offsets from
// different entries or maps has no meaning and fails with ErrIdentityMismatch.
func (o Offset) Compare(other Offset) (int, error) {
	if o.entry != other.entry {
		return 0, fmt.Errorf("compare %v with %v: %w", o.entry, other.entry, ErrIdentityMismatch)
	}
	switch {
	case o.index < other.index:
		return -1, nil
	case o.index > other.index:
		return 1, nil
	}
	return 0, nil
}

func (o Offset) String() string {
	return fmt.Sprintf("%s@%d", o.entry, o.index)
}

// Span is a half-open byte range [Start, End) within one entry.
// Start == End denotes an empty range at that point.
type Span struct {
	start  Offset
	length uint32
}

// NewSpan builds a span from two offsets. Both must share the same map and
// entry identity (ErrIdentityMismatch otherwise), and end must not precede
// start (ErrReversedSpan).
func NewSpan(start, end Offset) (Span, error) {
	if start.entry != end.entry {
		return Span{}, fmt.Errorf("span %v..%v: %w", start.entry, end.entry, ErrIdentityMismatch)
	}
	if end.index < start.index {
		return Span{}, fmt.Errorf("span %d..%d: %w", start.index, end.index, ErrReversedSpan)
	}
	return Span{start: start, length: end.index - start.index}, nil
}

// PointSpan returns the empty span at the given offset, used for point-like
// diagnostics that still want range shape.
func PointSpan(at Offset) Span {
	return Span{start: at}
}

// Entry returns the identity of the entry the span lies in.
func (s Span) Entry() EntryID {
	return s.start.entry
}

// Start returns the inclusive start offset.
func (s Span) Start() Offset {
	return s.start
}

// End returns the exclusive end offset.
func (s Span) End() Offset {
	return Offset{entry: s.start.entry, index: s.start.index + s.length}
}

// Len returns the byte length of the span.
func (s Span) Len() uint32 {
	return s.length
}

// Empty reports whether the span covers no content.
func (s Span) Empty() bool {
	return s.length == 0
}

// ToPoint shrinks the span to an empty range at its start, keeping the
// identity tag unchanged.
func (s Span) ToPoint() Span {
	return Span{start: s.start}
}

func (s Span) String() string {
	return fmt.Sprintf("%s@%d-%d", s.start.entry, s.start.index, s.start.index+s.length)
}
