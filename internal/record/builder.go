package record

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/javanhut/sit/internal/encodingx"
	"github.com/javanhut/sit/internal/hashalgo"
	"github.com/javanhut/sit/internal/orderedfiles"
)

// Builder orchestrates parent discovery, canonical hashing, staged
// materialization and atomic publish for new records.
type Builder struct {
	Algorithm hashalgo.Algorithm
	Encoding  encodingx.Encoding
}

// New creates a record in itemDir (parents, if linked, are discovered by
// running a DagIterator over itemDir itself) and publishes it under
// targetDir. Staging happens under stagingRoot, which must be on the same
// filesystem as targetDir for the final rename to be atomic. Passing
// targetDir == itemDir is the common, in-scheme case; any other targetDir
// publishes out of scheme, invisible to DagIterator until moved or linked
// into itemDir.
func (b Builder) New(itemDir, itemID, targetDir, stagingRoot string, files orderedfiles.OrderedFiles, linkParents bool) (*Record, error) {
	if linkParents {
		parents, err := b.currentTips(itemDir, itemID)
		if err != nil {
			return nil, err
		}
		var parentFiles []orderedfiles.File
		for _, p := range parents {
			name := p.EncodedHash()
			parentFiles = append(parentFiles, orderedfiles.FromBytes(".prev/"+name, nil))
		}
		files = files.Concat(orderedfiles.New(parentFiles))
	}

	tmp, err := os.MkdirTemp(stagingRoot, "sit-staging-")
	if err != nil {
		return nil, fmt.Errorf("record: create staging dir: %w", err)
	}
	// Best-effort cleanup: a successful build renames tmp away, so this
	// only fires on the failure paths below.
	defer os.RemoveAll(tmp)

	hasher := b.Algorithm.New()
	materialize := orderedfiles.FileMaterializer(tmp)
	if err := files.HashAndMaterialize(hasher, materialize); err != nil {
		return nil, err
	}

	digest := hasher.Sum(nil)
	encoded := b.Encoding.Encode(digest)
	finalPath := filepath.Join(targetDir, encoded)

	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return nil, fmt.Errorf("record: create target dir %s: %w", targetDir, err)
	}
	if err := os.Rename(tmp, finalPath); err != nil {
		return nil, fmt.Errorf("record: publish %s: %w", finalPath, err)
	}

	return &Record{
		hash:        digest,
		encodedHash: encoded,
		itemID:      itemID,
		path:        finalPath,
	}, nil
}

// currentTips returns the last generation DagIterator produces for itemDir,
// or an empty slice for an item with no records yet.
func (b Builder) currentTips(itemDir, itemID string) ([]*Record, error) {
	it, err := NewDagIterator(itemDir, itemID, b.Encoding)
	if err != nil {
		return nil, err
	}
	generations := it.All()
	if len(generations) == 0 {
		return nil, nil
	}
	return generations[len(generations)-1], nil
}
