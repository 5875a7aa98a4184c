// Package pathguard normalizes and validates record-relative file paths.
//
// Normalization is purely lexical: it never touches the filesystem. A path
// is interpreted as POSIX-style (forward slashes); on input, backslashes are
// left alone (they are only folded into forward slashes at the hashing
// canonicalization layer, see internal/orderedfiles).
package pathguard

import (
	"errors"
	"path"
	"strings"
)

// ErrPathPrefix is returned when a path, after normalization, still escapes
// its root via a leading ".." component.
var ErrPathPrefix = errors.New("pathguard: path escapes record root")

// Clean normalizes p (collapsing "." and ".." components) and returns the
// cleaned, slash-separated relative path. It fails with ErrPathPrefix if any
// component surviving normalization is a ".." escape, i.e. the path still
// reaches above its own root after cleaning.
//
// A path that normalizes to the current directory (e.g. ".", "", "a/..")
// returns ("", nil): it is syntactically valid but names no file. Callers
// that require an actual filename must reject the empty result themselves.
func Clean(p string) (string, error) {
	// path.Clean treats the input as slash-separated; leading "/" is
	// significant to it only for producing an absolute result, which we
	// strip since all record paths are root-relative regardless of a
	// leading slash in the caller-supplied name ("/test2" resolves to
	// "test2").
	trimmed := strings.TrimPrefix(p, "/")
	cleaned := path.Clean(trimmed)

	switch cleaned {
	case ".":
		return "", nil
	case "..":
		return "", ErrPathPrefix
	}

	for _, comp := range strings.Split(cleaned, "/") {
		if comp == ".." {
			return "", ErrPathPrefix
		}
	}

	return cleaned, nil
}
