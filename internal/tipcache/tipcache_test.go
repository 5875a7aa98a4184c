package tipcache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/javanhut/sit/internal/encodingx"
	"github.com/javanhut/sit/internal/hashalgo"
	"github.com/javanhut/sit/internal/item"
	"github.com/javanhut/sit/internal/orderedfiles"
	"github.com/javanhut/sit/internal/record"
)

func newTestItem(t *testing.T) *item.Item {
	t.Helper()
	root := t.TempDir()
	itemDir := filepath.Join(root, "items", "one")
	if err := os.MkdirAll(itemDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	builder := record.Builder{Algorithm: hashalgo.Default, Encoding: encodingx.Default}
	return item.New("one", itemDir, root, builder)
}

func TestTipsAndChanged(t *testing.T) {
	it := newTestItem(t)
	dbPath := filepath.Join(t.TempDir(), "tips.db")
	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	changed, err := Changed(db, it)
	if err != nil {
		t.Fatalf("changed: %v", err)
	}
	if !changed {
		t.Fatalf("expected changed==true for an item never cached")
	}

	rec1, err := it.NewRecord(orderedfiles.New([]orderedfiles.File{
		orderedfiles.FromBytes("a", []byte{1}),
	}), false)
	if err != nil {
		t.Fatalf("new record: %v", err)
	}

	tips, err := Tips(db, it)
	if err != nil {
		t.Fatalf("tips: %v", err)
	}
	if len(tips) != 1 || !tips[0].Equal(rec1) {
		t.Fatalf("expected tips == {rec1}, got %+v", tips)
	}

	changed, err = Changed(db, it)
	if err != nil {
		t.Fatalf("changed: %v", err)
	}
	if changed {
		t.Fatalf("expected changed==false right after Tips cached it")
	}

	if _, err := it.NewRecord(orderedfiles.New([]orderedfiles.File{
		orderedfiles.FromBytes("b", []byte{2}),
	}), true); err != nil {
		t.Fatalf("new record: %v", err)
	}

	changed, err = Changed(db, it)
	if err != nil {
		t.Fatalf("changed: %v", err)
	}
	if !changed {
		t.Fatalf("expected changed==true after a new tip record was created")
	}
}

func TestInvalidate(t *testing.T) {
	it := newTestItem(t)
	dbPath := filepath.Join(t.TempDir(), "tips.db")
	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	if _, err := it.NewRecord(orderedfiles.New([]orderedfiles.File{
		orderedfiles.FromBytes("a", []byte{1}),
	}), false); err != nil {
		t.Fatalf("new record: %v", err)
	}
	if _, err := Tips(db, it); err != nil {
		t.Fatalf("tips: %v", err)
	}
	if err := db.Invalidate(it.Id()); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	changed, err := Changed(db, it)
	if err != nil {
		t.Fatalf("changed: %v", err)
	}
	if !changed {
		t.Fatalf("expected changed==true after invalidating the cache entry")
	}
}
