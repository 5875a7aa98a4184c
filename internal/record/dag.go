package record

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/javanhut/sit/internal/encodingx"
	"github.com/javanhut/sit/internal/pathresolve"
)

// candidate is a directory entry under an item that decoded to a valid
// hash and resolved to an existing directory: a record eligible to be
// yielded by the DagIterator.
type candidate struct {
	name         string // raw entry name (== encoded hash)
	hash         []byte
	resolvedPath string
}

// DagIterator yields an item's records in generation order: parents
// strictly before children, tolerating missing parents and link-file
// indirection. It materializes the directory listing once, up-front, and
// partitions it in place on each Next call. It never re-reads the
// directory, so records created after construction are invisible to this
// iterator.
type DagIterator struct {
	itemDir   string
	itemID    string
	enc       encodingx.Encoding
	remaining []candidate
	emitted   map[string]bool
}

// NewDagIterator lists itemDir once and prepares a DagIterator over the
// entries that resolve to directories and decode under enc.
func NewDagIterator(itemDir, itemID string, enc encodingx.Encoding) (*DagIterator, error) {
	entries, err := os.ReadDir(itemDir)
	if err != nil {
		return nil, fmt.Errorf("record: read item dir %s: %w", itemDir, err)
	}

	remaining := make([]candidate, 0, len(entries))
	for _, e := range entries {
		p := filepath.Join(itemDir, e.Name())
		resolved := pathresolve.Resolve(p)
		info, err := os.Stat(resolved)
		if err != nil || !info.IsDir() {
			continue
		}
		hash, err := enc.Decode(e.Name())
		if err != nil {
			continue
		}
		remaining = append(remaining, candidate{name: e.Name(), hash: hash, resolvedPath: resolved})
	}

	return &DagIterator{
		itemDir:   itemDir,
		itemID:    itemID,
		enc:       enc,
		remaining: remaining,
		emitted:   make(map[string]bool),
	}, nil
}

// Next returns the next generation: every remaining record whose parents
// (those present as item-siblings) have all already been emitted. It
// returns (nil, false) once no further generation can be formed, either
// because every candidate has been emitted, or because the DAG is stuck
// waiting on parents that will never resolve in this replica's current
// entries.
func (it *DagIterator) Next() ([]*Record, bool) {
	if len(it.remaining) == 0 {
		return nil, false
	}

	var ready, waiting []candidate
	for _, c := range it.remaining {
		if it.isReady(c) {
			ready = append(ready, c)
		} else {
			waiting = append(waiting, c)
		}
	}

	if len(ready) == 0 {
		return nil, false
	}

	it.remaining = waiting
	generation := make([]*Record, 0, len(ready))
	for _, c := range ready {
		it.emitted[c.name] = true
		generation = append(generation, &Record{
			hash:        c.hash,
			encodedHash: c.name,
			itemID:      it.itemID,
			path:        c.resolvedPath,
		})
	}
	return generation, true
}

// All drains the iterator, returning every generation.
func (it *DagIterator) All() [][]*Record {
	var generations [][]*Record
	for {
		gen, ok := it.Next()
		if !ok {
			break
		}
		generations = append(generations, gen)
	}
	return generations
}

// isReady reports whether c has no .prev/ subdirectory, or every
// .prev/ entry that resolves to a directory among the item's current
// entries has already been emitted. Link entries in .prev/ that point to
// a sibling record absent from this replica are ignored; that is what
// makes partial DAGs traversable.
func (it *DagIterator) isReady(c candidate) bool {
	prevDir := filepath.Join(c.resolvedPath, ".prev")
	info, err := os.Stat(prevDir)
	if err != nil || !info.IsDir() {
		return true
	}

	entries, err := os.ReadDir(prevDir)
	if err != nil {
		// A failure to read .prev/ itself marks the entry as not-yet-ready
		// rather than aborting the whole traversal.
		return false
	}

	for _, pe := range entries {
		siblingPath := filepath.Join(it.itemDir, pe.Name())
		resolved := pathresolve.Resolve(siblingPath)
		info, err := os.Stat(resolved)
		if err != nil || !info.IsDir() {
			// Parent not present in this replica: ignored, never blocks.
			continue
		}
		if !it.emitted[pe.Name()] {
			return false
		}
	}
	return true
}
