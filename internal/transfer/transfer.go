// Package transfer exports a record to a single zstd-compressed blob
// and imports such a blob back into a record directory, re-deriving
// its content-address on the way in. How the blob travels between
// replicas is the caller's business.
package transfer

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/javanhut/sit/internal/encodingx"
	"github.com/javanhut/sit/internal/hashalgo"
	"github.com/javanhut/sit/internal/pathguard"
	"github.com/javanhut/sit/internal/record"
)

// magic tags the framing version so a future incompatible change can
// be detected instead of silently misparsed.
var magic = []byte("sit-xfer1\x00")

// Export serializes rec's full file set, canonically ordered, each
// entry framed as name + NUL + big-endian uint64 length + content,
// and zstd-compresses the result. The framing matches the hashing
// framing in internal/orderedfiles, so the import side re-derives the
// same hash it started from.
func Export(rec *record.Record) ([]byte, error) {
	files, err := rec.FileIter()
	if err != nil {
		return nil, fmt.Errorf("transfer: export %s: %w", rec.EncodedHash(), err)
	}

	sort.Slice(files, func(i, j int) bool {
		return canonical(files[i].Name) < canonical(files[j].Name)
	})

	var raw bytes.Buffer
	raw.Write(magic)
	for _, f := range files {
		r, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("transfer: open %s: %w", f.Name, err)
		}
		content, err := io.ReadAll(r)
		r.Close()
		if err != nil {
			return nil, fmt.Errorf("transfer: read %s: %w", f.Name, err)
		}

		name := canonical(f.Name)
		raw.WriteString(name)
		raw.WriteByte(0)
		var length [8]byte
		binary.BigEndian.PutUint64(length[:], uint64(len(content)))
		raw.Write(length[:])
		raw.Write(content)
	}

	var compressed bytes.Buffer
	enc, err := zstd.NewWriter(&compressed, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("transfer: zstd writer: %w", err)
	}
	if _, err := enc.Write(raw.Bytes()); err != nil {
		return nil, fmt.Errorf("transfer: zstd write: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("transfer: zstd close: %w", err)
	}
	return compressed.Bytes(), nil
}

// Import decompresses blob, materializes its files under a staging
// directory inside targetDir, recomputes the content hash with
// algorithm and publishes the result as targetDir/<encoded-hash> via
// atomic rename, the same staged-publish idiom internal/record.Builder
// uses for freshly built records.
func Import(blob []byte, itemID, targetDir string, algorithm hashalgo.Algorithm, enc encodingx.Encoding) (*record.Record, error) {
	dec, err := zstd.NewReader(bytes.NewReader(blob))
	if err != nil {
		return nil, fmt.Errorf("transfer: zstd reader: %w", err)
	}
	defer dec.Close()

	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("transfer: zstd read: %w", err)
	}
	if !bytes.HasPrefix(raw, magic) {
		return nil, fmt.Errorf("transfer: unrecognized framing")
	}
	raw = raw[len(magic):]

	tmp, err := os.MkdirTemp(targetDir, "sit-import-")
	if err != nil {
		return nil, fmt.Errorf("transfer: create staging dir: %w", err)
	}
	defer os.RemoveAll(tmp)

	hasher := algorithm.New()
	for len(raw) > 0 {
		sep := bytes.IndexByte(raw, 0)
		if sep < 0 {
			return nil, fmt.Errorf("transfer: malformed entry: missing NUL after name")
		}
		name := string(raw[:sep])
		raw = raw[sep+1:]
		if len(raw) < 8 {
			return nil, fmt.Errorf("transfer: malformed entry: truncated length prefix")
		}
		length := binary.BigEndian.Uint64(raw[:8])
		raw = raw[8:]
		if uint64(len(raw)) < length {
			return nil, fmt.Errorf("transfer: malformed entry: truncated content")
		}
		content := raw[:length]
		raw = raw[length:]

		hasher.Write([]byte(name))
		hasher.Write([]byte{0})
		var lenBuf [8]byte
		binary.BigEndian.PutUint64(lenBuf[:], length)
		hasher.Write(lenBuf[:])
		hasher.Write(content)

		cleaned, err := pathguard.Clean(name)
		if err != nil {
			return nil, err
		}
		if cleaned == "" {
			return nil, fmt.Errorf("transfer: empty file name after cleaning")
		}
		dest := filepath.Join(tmp, filepath.FromSlash(cleaned))
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return nil, fmt.Errorf("transfer: mkdir for %s: %w", cleaned, err)
		}
		if err := os.WriteFile(dest, content, 0o644); err != nil {
			return nil, fmt.Errorf("transfer: write %s: %w", cleaned, err)
		}
	}

	digest := hasher.Sum(nil)
	encoded := enc.Encode(digest)
	finalPath := filepath.Join(targetDir, encoded)
	if err := os.Rename(tmp, finalPath); err != nil {
		return nil, fmt.Errorf("transfer: publish %s: %w", finalPath, err)
	}

	return record.FromDisk(itemID, finalPath, enc)
}

// canonical matches internal/orderedfiles' backslash-to-slash
// normalization so exported framing hashes identically regardless of
// which OS produced it.
func canonical(name string) string {
	return strings.ReplaceAll(name, "\\", "/")
}
