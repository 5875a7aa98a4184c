// Package orderedfiles provides a lazy, concatenable sequence of
// (name, content) pairs, a canonical byte-lexicographic ordering used for
// hashing, and a streaming hash-and-materialize pass that feeds a hasher
// and a filesystem sink from the same byte stream.
package orderedfiles

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	securejoin "github.com/cyphar/filepath-securejoin"

	"github.com/javanhut/sit/internal/hashalgo"
	"github.com/javanhut/sit/internal/pathguard"
)

// File is a single named entry: a relative name (as supplied by the caller,
// platform separators untouched) and a reader for its content.
type File struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// FromBytes builds a File whose content is an in-memory byte slice. This is
// the common case for constructing records (payload files and zero-byte
// .prev/ pseudo-files alike).
func FromBytes(name string, content []byte) File {
	return File{
		Name: name,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(string(content))), nil
		},
	}
}

// OrderedFiles is a lazy sequence of File entries. The zero value is an
// empty sequence.
type OrderedFiles struct {
	files []File
}

// New builds an OrderedFiles from a slice of File.
func New(files []File) OrderedFiles {
	return OrderedFiles{files: files}
}

// Concat appends another sequence's entries after this one's, preserving
// the caller-supplied (non-canonical) order. Canonical ordering is computed
// only at hashing/materialization time, by HashAndMaterialize.
func (o OrderedFiles) Concat(other OrderedFiles) OrderedFiles {
	combined := make([]File, 0, len(o.files)+len(other.files))
	combined = append(combined, o.files...)
	combined = append(combined, other.files...)
	return OrderedFiles{files: combined}
}

// canonicalName replaces backslashes with forward slashes, the only
// equivalence the hashing layer draws between the two separators.
func canonicalName(name string) string {
	return strings.ReplaceAll(name, "\\", "/")
}

// sorted returns the entries paired with their canonical names, ordered by
// ascending byte-lexicographic order of the canonical name.
func (o OrderedFiles) sorted() []struct {
	canonical string
	file      File
} {
	paired := make([]struct {
		canonical string
		file      File
	}, len(o.files))
	for i, f := range o.files {
		paired[i] = struct {
			canonical string
			file      File
		}{canonical: canonicalName(f.Name), file: f}
	}
	sort.Slice(paired, func(i, j int) bool {
		return paired[i].canonical < paired[j].canonical
	})
	return paired
}

// Sink is a filesystem destination for a single file's content, returned by
// a Materializer for each entry in canonical order.
type Sink interface {
	io.Writer
	io.Closer
}

// Materializer creates the filesystem sink a file's content will be
// streamed into, given the file's raw (pre-canonicalization) name. It
// returns pathguard.ErrPathPrefix (or wraps it) for names that escape the
// record root.
type Materializer func(name string) (Sink, error)

// HashAndMaterialize feeds each entry in canonical order into the
// hasher, framed as:
//
//  1. canonical name bytes, NUL-terminated
//  2. content length as a big-endian uint64
//  3. content bytes
//
// and then writes the same content into the Sink the Materializer returns
// for that entry. Each entry's content is read fully into memory before it
// is hashed and written; it is not streamed in chunks. The first error
// from either path aborts the whole operation.
func (o OrderedFiles) HashAndMaterialize(h hashalgo.Hasher, materialize Materializer) error {
	for _, pair := range o.sorted() {
		name := pair.canonical
		file := pair.file

		if _, err := h.Write(append([]byte(name), 0)); err != nil {
			return fmt.Errorf("orderedfiles: hash name %q: %w", name, err)
		}

		r, err := file.Open()
		if err != nil {
			return fmt.Errorf("orderedfiles: open %q: %w", file.Name, err)
		}

		content, err := io.ReadAll(r)
		closeErr := r.Close()
		if err != nil {
			return fmt.Errorf("orderedfiles: read %q: %w", file.Name, err)
		}
		if closeErr != nil {
			return fmt.Errorf("orderedfiles: close reader for %q: %w", file.Name, closeErr)
		}

		var lenBuf [8]byte
		binary.BigEndian.PutUint64(lenBuf[:], uint64(len(content)))
		if _, err := h.Write(lenBuf[:]); err != nil {
			return fmt.Errorf("orderedfiles: hash length of %q: %w", name, err)
		}
		if _, err := h.Write(content); err != nil {
			return fmt.Errorf("orderedfiles: hash content of %q: %w", name, err)
		}

		sink, err := materialize(file.Name)
		if err != nil {
			return err
		}
		_, writeErr := sink.Write(content)
		closeErr = sink.Close()
		if writeErr != nil {
			return fmt.Errorf("orderedfiles: materialize %q: %w", file.Name, writeErr)
		}
		if closeErr != nil {
			return fmt.Errorf("orderedfiles: close sink for %q: %w", file.Name, closeErr)
		}
	}
	return nil
}

// FileMaterializer returns a Materializer that creates regular files under
// root, guarding every name through pathguard.Clean and a
// securejoin.SecureJoin containment check before touching the filesystem.
func FileMaterializer(root string) Materializer {
	return func(name string) (Sink, error) {
		cleaned, err := pathguard.Clean(name)
		if err != nil {
			return nil, err
		}
		if cleaned == "" {
			// A path normalizing to the empty string (e.g. ".") names no
			// file. This is an I/O-level refusal, not a prefix escape.
			return nil, fmt.Errorf("orderedfiles: path %q names no file", name)
		}

		joined, err := securejoin.SecureJoin(root, cleaned)
		if err != nil {
			return nil, fmt.Errorf("orderedfiles: secure join %q: %w", name, err)
		}

		dir := filepath.Dir(joined)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("orderedfiles: create directory for %q: %w", name, err)
		}

		f, err := os.Create(joined)
		if err != nil {
			return nil, fmt.Errorf("orderedfiles: create %q: %w", name, err)
		}
		return f, nil
	}
}
