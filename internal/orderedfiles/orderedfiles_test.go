package orderedfiles

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/javanhut/sit/internal/hashalgo"
)

func TestHashAndMaterializeCanonicalOrder(t *testing.T) {
	var order []string
	of := New([]File{
		FromBytes("z/a", []byte{2}),
		FromBytes("test", []byte{1}),
		FromBytes(`b\c`, []byte{3}),
	})

	h := hashalgo.Default.New()
	root := t.TempDir()
	err := of.HashAndMaterialize(h, func(name string) (Sink, error) {
		order = append(order, name)
		return FileMaterializer(root)(name)
	})
	if err != nil {
		t.Fatalf("hash and materialize: %v", err)
	}

	// Canonical (slash-normalized) order: "b\c" -> "b/c" sorts before
	// "test", which sorts before "z/a".
	want := []string{`b\c`, "test", "z/a"}
	if len(order) != len(want) {
		t.Fatalf("expected %d entries, got %d: %v", len(want), len(order), order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("materialize order[%d] = %q, want %q", i, order[i], want[i])
		}
	}

	if _, err := os.Stat(filepath.Join(root, "test")); err != nil {
		t.Fatalf("expected test to be materialized: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "z", "a")); err != nil {
		t.Fatalf("expected z/a to be materialized: %v", err)
	}
}

func TestHashIsOrderIndependent(t *testing.T) {
	sum := func(files []File) []byte {
		h := hashalgo.Default.New()
		root := t.TempDir()
		if err := New(files).HashAndMaterialize(h, FileMaterializer(root)); err != nil {
			t.Fatalf("hash and materialize: %v", err)
		}
		return h.Sum(nil)
	}

	a := sum([]File{FromBytes("z/a", []byte{2}), FromBytes("test", []byte{1})})
	b := sum([]File{FromBytes("test", []byte{1}), FromBytes("z/a", []byte{2})})
	c := sum([]File{FromBytes("test", []byte{1}), FromBytes(`z\a`, []byte{2})})

	if string(a) != string(b) || string(b) != string(c) {
		t.Fatalf("expected identical hashes regardless of input order or separator style")
	}
}

func TestConcatPreservesBothSequences(t *testing.T) {
	a := New([]File{FromBytes("a", nil)})
	b := New([]File{FromBytes("b", nil)})
	combined := a.Concat(b)
	if len(combined.files) != 2 {
		t.Fatalf("expected 2 files after concat, got %d", len(combined.files))
	}
}

func TestFileMaterializerRejectsPathEscape(t *testing.T) {
	root := t.TempDir()
	m := FileMaterializer(root)
	if _, err := m("../escape"); err == nil {
		t.Fatalf("expected an error materializing an escaping path")
	}
}
