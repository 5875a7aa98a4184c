// Package moduleresolve enumerates entries under a repository's modules/
// directory, resolving link files to their targets via
// internal/pathresolve.
package moduleresolve

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/javanhut/sit/internal/pathresolve"
)

// ModuleIter enumerates modulesPath's entries, one resolved directory path
// per entry. A missing modules/ directory yields an empty, non-error
// result.
func ModuleIter(modulesPath string) ([]string, error) {
	entries, err := os.ReadDir(modulesPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("moduleresolve: read %s: %w", modulesPath, err)
	}

	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		p := filepath.Join(modulesPath, e.Name())
		paths = append(paths, pathresolve.Resolve(p))
	}
	return paths, nil
}
