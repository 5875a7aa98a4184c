// Package record implements the content-addressed, immutable directory
// that is the repository's unit of storage, its creation pipeline, and the
// generation-ordered traversal of an item's record DAG.
package record

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/javanhut/sit/internal/encodingx"
	"github.com/javanhut/sit/internal/orderedfiles"
)

// Record is an immutable, content-addressed directory belonging to one
// item.
type Record struct {
	hash        []byte
	encodedHash string
	itemID      string
	path        string
}

// Hash returns the record's raw digest.
func (r *Record) Hash() []byte { return append([]byte(nil), r.hash...) }

// EncodedHash returns the record's directory name: encoding(hash(contents)).
func (r *Record) EncodedHash() string { return r.encodedHash }

// ItemID returns the id of the item this record belongs to.
func (r *Record) ItemID() string { return r.itemID }

// Path returns the record's resolved directory path.
func (r *Record) Path() string { return r.path }

// Equal compares records by hash alone. Two records with the same hash
// are the same record, wherever their directories happen to live.
func (r *Record) Equal(other *Record) bool {
	if other == nil {
		return false
	}
	return bytes.Equal(r.hash, other.hash)
}

// FromDisk reconstructs a Record for a directory already named by its
// encoded hash, decoding the hash from the directory's own name via
// enc. Used when a record's identity must be recovered from its
// on-disk location rather than from a build or a DagIterator pass,
// e.g. after moving a record into an item.
func FromDisk(itemID, path string, enc encodingx.Encoding) (*Record, error) {
	encodedHash := filepath.Base(path)
	hash, err := enc.Decode(encodedHash)
	if err != nil {
		return nil, fmt.Errorf("record: decode %s: %w", encodedHash, err)
	}
	return &Record{
		hash:        hash,
		encodedHash: encodedHash,
		itemID:      itemID,
		path:        path,
	}, nil
}

// FileIter walks the record's directory and returns every payload/link
// file it contains, keyed by its slash-canonicalized path relative to the
// record root.
func (r *Record) FileIter() ([]orderedfiles.File, error) {
	var files []orderedfiles.File
	err := filepath.WalkDir(r.path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(r.path, p)
		if err != nil {
			return err
		}
		rel = strings.ReplaceAll(rel, string(filepath.Separator), "/")
		path := p
		files = append(files, orderedfiles.File{
			Name: rel,
			Open: func() (io.ReadCloser, error) {
				return os.Open(path)
			},
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("record: walk %s: %w", r.path, err)
	}
	return files, nil
}
