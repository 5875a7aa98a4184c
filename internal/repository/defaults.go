package repository

import (
	"fmt"
	"os"
	"path/filepath"
)

// defaultFiles are written into a fresh repository by PopulateDefaults.
var defaultFiles = map[string]string{
	".gitignore": "modules/\n",
	"README.md": "This directory is a repository. Items live under items/, " +
		"each holding an append-only DAG of content-addressed records.\n",
}

// PopulateDefaults writes the repository's default file set, creating
// parent directories as needed. It does not overwrite files that
// already exist.
func (r *Repository) PopulateDefaults() error {
	for name, contents := range defaultFiles {
		path := filepath.Join(r.path, name)
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("repository: populate defaults: mkdir for %s: %w", name, err)
		}
		if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
			return fmt.Errorf("repository: populate defaults: write %s: %w", name, err)
		}
	}
	return nil
}
