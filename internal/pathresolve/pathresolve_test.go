package pathresolve

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveDirectoryPassesThrough(t *testing.T) {
	dir := t.TempDir()
	if got := Resolve(dir); got != dir {
		t.Fatalf("expected directory to pass through unchanged, got %q", got)
	}
}

func TestResolveLinkFileRelative(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "real")
	if err := os.Mkdir(target, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	link := filepath.Join(root, "link")
	if err := os.WriteFile(link, []byte("real\n"), 0o644); err != nil {
		t.Fatalf("write link file: %v", err)
	}

	if got := Resolve(link); got != target {
		t.Fatalf("expected resolve to join relative link content onto its parent dir, got %q, want %q", got, target)
	}
}

func TestResolveLinkFileAbsolute(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "somewhere-else")
	if err := os.Mkdir(target, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	link := filepath.Join(root, "link")
	if err := os.WriteFile(link, []byte(target), 0o644); err != nil {
		t.Fatalf("write link file: %v", err)
	}

	if got := Resolve(link); got != target {
		t.Fatalf("expected absolute link content to pass through unchanged, got %q", got)
	}
}

func TestResolveMissingPathFallsBack(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")
	if got := Resolve(missing); got != missing {
		t.Fatalf("expected a missing path to resolve to itself, got %q", got)
	}
}
