package source

import (
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// LoadFile reads a file from disk, normalizes BOM/CRLF, and registers the
// result under the normalized path. If the path was already loaded into this
// map, the existing entry is returned instead of registering a duplicate.
// Register itself stays verbatim: normalization happens here, before the
// content enters the map, and is recorded in the entry flags.
func (m *SourceMap) LoadFile(path string) (EntryID, error) {
	origin := normalizePath(path)
	if id, ok := m.Lookup(origin); ok {
		return id, nil
	}

	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return EntryID{}, err
	}
	content, flags := normalizeContent(content)
	return m.register(origin, content, flags), nil
}

func normalizeContent(content []byte) ([]byte, EntryFlags) {
	content, hadBOM := removeBOM(content)
	content, hadCRLF := normalizeCRLF(content)

	flags := EntryFlags(0)
	if hadBOM {
		flags |= EntryHadBOM
	}
	if hadCRLF {
		flags |= EntryNormalizedCRLF
	}
	return content, flags
}

// LoadDirectory walks root and loads every file whose name ends with ext.
// Files are read concurrently; registration stays on the calling goroutine
// in deterministic path order, honoring the single-writer registration
// contract. Already-loaded paths resolve to their existing entries.
func (m *SourceMap) LoadDirectory(root, ext string) ([]EntryID, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ext) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	type loaded struct {
		content []byte
		flags   EntryFlags
	}
	results := make([]*loaded, len(paths))

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, path := range paths {
		if m.Contains(normalizePath(path)) {
			continue
		}
		i, path := i, path
		g.Go(func() error {
			// #nosec G304 -- path comes from the walked root
			content, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			content, flags := normalizeContent(content)
			results[i] = &loaded{content: content, flags: flags}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ids := make([]EntryID, 0, len(paths))
	for i, path := range paths {
		origin := normalizePath(path)
		if results[i] == nil {
			id, ok := m.Lookup(origin)
			if !ok {
				continue
			}
			ids = append(ids, id)
			continue
		}
		ids = append(ids, m.register(origin, results[i].content, results[i].flags))
	}
	return ids, nil
}
