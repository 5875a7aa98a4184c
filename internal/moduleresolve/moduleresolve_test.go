package moduleresolve

import (
	"os"
	"path/filepath"
	"testing"
)

func TestModuleIterMissingDirYieldsEmpty(t *testing.T) {
	paths, err := ModuleIter(filepath.Join(t.TempDir(), "modules"))
	if err != nil {
		t.Fatalf("expected no error for a missing modules dir, got %v", err)
	}
	if len(paths) != 0 {
		t.Fatalf("expected no modules, got %v", paths)
	}
}

func TestModuleIterDirectoryAndLinkEntries(t *testing.T) {
	modules := t.TempDir()

	plainDir := filepath.Join(modules, "plain")
	if err := os.Mkdir(plainDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	target := filepath.Join(modules, "target")
	if err := os.Mkdir(target, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	linkFile := filepath.Join(modules, "link")
	if err := os.WriteFile(linkFile, []byte("target\n"), 0o644); err != nil {
		t.Fatalf("write link: %v", err)
	}

	paths, err := ModuleIter(modules)
	if err != nil {
		t.Fatalf("module iter: %v", err)
	}
	if len(paths) != 3 {
		t.Fatalf("expected 3 resolved entries, got %d: %v", len(paths), paths)
	}

	var sawPlain, sawTarget int
	for _, p := range paths {
		switch p {
		case plainDir:
			sawPlain++
		case target:
			sawTarget++
		}
	}
	if sawPlain != 1 {
		t.Fatalf("expected the plain directory entry to resolve to itself once, got %d", sawPlain)
	}
	if sawTarget != 2 {
		t.Fatalf("expected both the real target dir and the link file to resolve to it, got %d", sawTarget)
	}
}
