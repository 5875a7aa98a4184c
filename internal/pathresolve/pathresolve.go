// Package pathresolve treats a plain UTF-8 file as a portable stand-in
// for a symlink to a directory, for platforms or workflows that can't
// rely on native symlinks.
package pathresolve

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Resolve returns the directory path that p denotes: p itself if it is
// already a directory, or the directory named by p's trimmed text content
// if p is a regular file. It performs no existence check on the resolved
// target; the caller decides what to do if it's missing.
//
// If p does not exist at all, or stat fails for another reason, Resolve
// falls back to returning p unchanged.
func Resolve(p string) string {
	info, err := os.Lstat(p)
	if err != nil {
		return p
	}
	if info.IsDir() {
		return p
	}
	if !info.Mode().IsRegular() {
		return p
	}

	data, err := os.ReadFile(p)
	if err != nil {
		return p
	}
	target := strings.TrimSpace(string(data))
	if target == "" {
		return p
	}
	if runtime.GOOS == "windows" {
		target = strings.ReplaceAll(target, "/", string(filepath.Separator))
	}

	if filepath.IsAbs(target) {
		return target
	}
	return filepath.Join(filepath.Dir(p), target)
}
