package encodingx

import (
	"bytes"
	"strings"
	"testing"
)

func TestBase62RoundTrip(t *testing.T) {
	enc := NewBase62()
	input := []byte{0, 1, 2, 253, 254, 255, 17, 42}

	encoded := enc.Encode(input)
	if strings.ContainsAny(encoded, "/\\") {
		t.Fatalf("expected encoded form to be filesystem-safe, got %q", encoded)
	}

	decoded, err := enc.Decode(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(decoded, input) {
		t.Fatalf("round trip mismatch: got %v, want %v", decoded, input)
	}
}

func TestBase62DecodeRejectsForeignInput(t *testing.T) {
	enc := NewBase62()
	if _, err := enc.Decode("not/a/valid/encoding"); err == nil {
		t.Fatalf("expected decode to reject a string containing path separators")
	}
}

func TestByName(t *testing.T) {
	if _, ok := ByName("base62"); !ok {
		t.Fatalf("expected base62 to resolve")
	}
	if _, ok := ByName(""); !ok {
		t.Fatalf("expected empty name to resolve to the default")
	}
	if _, ok := ByName("base64"); ok {
		t.Fatalf("expected unknown encoding to fail to resolve")
	}
}
