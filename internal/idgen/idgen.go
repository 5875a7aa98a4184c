// Package idgen defines the id-generator plugin contract and bundles a
// UUIDv4 default.
package idgen

import "github.com/google/uuid"

// Generator is the IdGenerator plugin contract: produces fresh,
// filesystem-safe item names.
type Generator interface {
	// Name identifies the generator, e.g. for inclusion in Config.
	Name() string
	// Generate returns a fresh name. Names must never contain a path
	// separator and must never be "." or "..".
	Generate() string
}

// UUID4 implements Generator using random UUIDs.
type UUID4 struct{}

// Name implements Generator.
func (UUID4) Name() string { return "uuid4" }

// Generate implements Generator.
func (UUID4) Generate() string {
	return uuid.NewString()
}

// Default is the bundled UUIDv4 generator, used when a Repository is
// created without an explicit Config.
var Default Generator = UUID4{}

// ByName resolves an IdGenerator by its Config name.
func ByName(name string) (Generator, bool) {
	switch name {
	case "", "uuid4":
		return UUID4{}, true
	default:
		return nil, false
	}
}
