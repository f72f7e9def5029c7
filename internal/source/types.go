package source

import "fmt"

type (
	// MapID uniquely identifies a SourceMap within the process.
	MapID uint32
	// EntryFlags encodes metadata about a registered entry.
	EntryFlags uint8
)

const (
	// EntryVirtual indicates the entry was registered from memory (test, stdin, etc.).
	EntryVirtual EntryFlags = 1 << iota
	EntryHadBOM
	EntryNormalizedCRLF
)

// EntryID identifies one registered entry. It carries the identity of the
// owning SourceMap, so a handle minted by one map never resolves against
// another.
type EntryID struct {
	mapID MapID
	index uint32
}

// Map returns the identity of the owning SourceMap.
func (id EntryID) Map() MapID {
	return id.mapID
}

func (id EntryID) String() string {
	return fmt.Sprintf("%d/%d", id.mapID, id.index)
}

// Compare gives a stable process-wide ordering over entry identities,
// used for deterministic diagnostic output. It carries no positional
// meaning across maps.
func (id EntryID) Compare(other EntryID) int {
	switch {
	case id.mapID != other.mapID:
		if id.mapID < other.mapID {
			return -1
		}
		return 1
	case id.index != other.index:
		if id.index < other.index {
			return -1
		}
		return 1
	}
	return 0
}

// entry holds one registered buffer. Origin and content are immutable after
// registration.
type entry struct {
	origin  string
	content string
	hash    [32]byte
	flags   EntryFlags
}

// Position is a resolved human-readable location inside an entry.
// Line and Col are 1-based. Col counts the bytes before the offset on its
// line plus one; every byte advances the column by exactly one, tabs
// included. Tabs counts the tab characters strictly before the offset on
// that line, so a renderer may apply its own fixed-width tab expansion.
type Position struct {
	Entry    EntryID
	Origin   string
	Line     uint32
	Col      uint32
	Tabs     uint32
	LineText string
}
