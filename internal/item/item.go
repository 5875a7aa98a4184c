// Package item implements the named, append-only collection of records
// that is a repository's unit of organization.
package item

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/javanhut/sit/internal/encodingx"
	"github.com/javanhut/sit/internal/orderedfiles"
	"github.com/javanhut/sit/internal/record"
)

// Item is an item residing in a repository: a directory under
// itemsPath named by id, holding zero or more records.
type Item struct {
	id       string
	path     string
	builder  record.Builder
	encoding encodingx.Encoding
	staging  string
}

// New wraps an existing item directory. The caller is responsible for
// having resolved path (e.g. via internal/pathresolve) and for path
// existing as a directory.
func New(id, path, stagingRoot string, builder record.Builder) *Item {
	return &Item{id: id, path: path, builder: builder, encoding: builder.Encoding, staging: stagingRoot}
}

// Id returns the item's id.
func (it *Item) Id() string { return it.id }

// Path returns the item's directory path.
func (it *Item) Path() string { return it.path }

// NewRecord creates a record in this item's own directory, optionally
// linking it to the item's current tips as parents.
func (it *Item) NewRecord(files orderedfiles.OrderedFiles, linkParents bool) (*record.Record, error) {
	return it.NewRecordIn(it.path, files, linkParents)
}

// NewRecordIn creates a record under targetDir, which need not be
// it.path, with parents still discovered from this item's own directory.
// A record published elsewhere stays invisible to RecordIter until it is
// moved or linked into the item.
func (it *Item) NewRecordIn(targetDir string, files orderedfiles.OrderedFiles, linkParents bool) (*record.Record, error) {
	return it.builder.New(it.path, it.id, targetDir, it.staging, files, linkParents)
}

// RecordIter returns a DagIterator over this item's records.
func (it *Item) RecordIter() (*record.DagIterator, error) {
	return record.NewDagIterator(it.path, it.id, it.encoding)
}

// Adopt moves rec's on-disk directory into this item, renaming it to
// its own encoded hash so it becomes a first-class record visible to
// RecordIter. This is the counterpart to NewRecordIn with a foreign
// target: a record built outside the item directory can later be
// brought in-scheme.
func (it *Item) Adopt(rec *record.Record) (*record.Record, error) {
	dest := filepath.Join(it.path, rec.EncodedHash())
	if _, err := os.Stat(dest); err == nil {
		return nil, fmt.Errorf("item: adopt %s: already present in item %s", rec.EncodedHash(), it.id)
	}
	if err := os.Rename(rec.Path(), dest); err != nil {
		return nil, fmt.Errorf("item: adopt %s into item %s: %w", rec.EncodedHash(), it.id, err)
	}
	return record.FromDisk(it.id, dest, it.encoding)
}
