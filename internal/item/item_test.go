package item

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/javanhut/sit/internal/encodingx"
	"github.com/javanhut/sit/internal/hashalgo"
	"github.com/javanhut/sit/internal/orderedfiles"
	"github.com/javanhut/sit/internal/record"
)

func newTestItem(t *testing.T) *Item {
	t.Helper()
	root := t.TempDir()
	itemDir := filepath.Join(root, "items", "one")
	if err := os.MkdirAll(itemDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	builder := record.Builder{Algorithm: hashalgo.Default, Encoding: encodingx.Default}
	return New("one", itemDir, root, builder)
}

func TestItemNewRecordAndIter(t *testing.T) {
	it := newTestItem(t)

	rec1, err := it.NewRecord(orderedfiles.New([]orderedfiles.File{
		orderedfiles.FromBytes("a", []byte{1}),
	}), false)
	if err != nil {
		t.Fatalf("new record: %v", err)
	}
	rec2, err := it.NewRecord(orderedfiles.New([]orderedfiles.File{
		orderedfiles.FromBytes("b", []byte{2}),
	}), true)
	if err != nil {
		t.Fatalf("new record: %v", err)
	}

	dagIt, err := it.RecordIter()
	if err != nil {
		t.Fatalf("record iter: %v", err)
	}
	generations := dagIt.All()
	if len(generations) != 2 {
		t.Fatalf("expected 2 generations, got %d", len(generations))
	}
	if !generations[0][0].Equal(rec1) {
		t.Fatalf("expected gen1 to be rec1")
	}
	if !generations[1][0].Equal(rec2) {
		t.Fatalf("expected gen2 to be rec2")
	}
}

func TestItemAdopt(t *testing.T) {
	it := newTestItem(t)
	outside := t.TempDir()

	rec, err := it.NewRecordIn(outside, orderedfiles.New([]orderedfiles.File{
		orderedfiles.FromBytes("a", []byte{9}),
	}), false)
	if err != nil {
		t.Fatalf("new record in: %v", err)
	}

	dagIt, err := it.RecordIter()
	if err != nil {
		t.Fatalf("record iter: %v", err)
	}
	if len(dagIt.All()) != 0 {
		t.Fatalf("expected record built outside the item to be invisible")
	}

	adopted, err := it.Adopt(rec)
	if err != nil {
		t.Fatalf("adopt: %v", err)
	}
	if !adopted.Equal(rec) {
		t.Fatalf("expected adopted record to retain identity")
	}

	dagIt2, err := it.RecordIter()
	if err != nil {
		t.Fatalf("record iter: %v", err)
	}
	generations := dagIt2.All()
	if len(generations) != 1 || !generations[0][0].Equal(rec) {
		t.Fatalf("expected adopted record to be visible, got %+v", generations)
	}

	if _, err := it.Adopt(rec); err == nil {
		t.Fatalf("expected second adopt of the same record to fail")
	}
}
