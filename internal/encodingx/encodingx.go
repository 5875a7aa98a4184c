// Package encodingx defines the hash-encoding plugin contract and bundles
// a base62 default.
package encodingx

import (
	"fmt"

	"github.com/eknkc/basex"
)

// base62Alphabet avoids path separators and any character that would need
// escaping on a filesystem. Encoded hashes become directory names.
const base62Alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Encoding is the Encoding plugin contract.
type Encoding interface {
	// Name identifies the encoding, e.g. for inclusion in Config.
	Name() string
	// Encode renders bytes (typically a hash digest) as a filesystem-safe
	// string.
	Encode(data []byte) string
	// Decode reverses Encode. It must fail on any string containing a path
	// separator or otherwise not produced by Encode.
	Decode(s string) ([]byte, error)
}

// Base62 implements Encoding using a fixed base62 alphabet.
type Base62 struct {
	enc *basex.Encoding
}

// NewBase62 constructs the bundled Base62 Encoding. It panics only if the
// compiled-in alphabet is malformed, which would be a programming error.
func NewBase62() Base62 {
	enc, err := basex.NewEncoding(base62Alphabet)
	if err != nil {
		panic(fmt.Sprintf("encodingx: invalid base62 alphabet: %v", err))
	}
	return Base62{enc: enc}
}

// Name implements Encoding.
func (Base62) Name() string { return "base62" }

// Encode implements Encoding.
func (b Base62) Encode(data []byte) string {
	return b.enc.Encode(data)
}

// Decode implements Encoding.
func (b Base62) Decode(s string) ([]byte, error) {
	return b.enc.Decode(s)
}

// Default is the bundled Base62 encoding, used when a Repository is created
// without an explicit Config.
var Default Encoding = NewBase62()

// ByName resolves an Encoding by its Config name.
func ByName(name string) (Encoding, bool) {
	switch name {
	case "", "base62":
		return NewBase62(), true
	default:
		return nil, false
	}
}
