// Package hashalgo defines the hashing-algorithm plugin contract and
// bundles a BLAKE3-based default implementation.
package hashalgo

import (
	"lukechampine.com/blake3"
)

// Hasher is a streaming hash accumulator: update repeatedly, then finalize
// once.
type Hasher interface {
	Write(p []byte) (int, error)
	Sum(b []byte) []byte
}

// Algorithm is the HashingAlgorithm plugin contract: a factory for fresh
// Hasher instances.
type Algorithm interface {
	// Name identifies the algorithm, e.g. for inclusion in Config.
	Name() string
	// New returns a fresh, zeroed Hasher.
	New() Hasher
}

// BLAKE3 is the bundled default HashingAlgorithm, using a 256-bit digest.
type BLAKE3 struct{}

// Name implements Algorithm.
func (BLAKE3) Name() string { return "blake3" }

// New implements Algorithm.
func (BLAKE3) New() Hasher {
	return blake3.New(32, nil)
}

// Default is the bundled BLAKE3 algorithm, used when a Repository is
// created without an explicit Config.
var Default Algorithm = BLAKE3{}

// ByName resolves an Algorithm by its Config name. Only the bundled
// BLAKE3 implementation is known to the core.
func ByName(name string) (Algorithm, bool) {
	switch name {
	case "", "blake3":
		return BLAKE3{}, true
	default:
		return nil, false
	}
}
