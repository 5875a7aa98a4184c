package repository

import (
	"encoding/json"
	"fmt"

	"github.com/javanhut/sit/internal/encodingx"
	"github.com/javanhut/sit/internal/hashalgo"
	"github.com/javanhut/sit/internal/idgen"
)

// version is the repository format this code understands.
const version = "1"

// Config is a repository's persisted configuration: which plugin
// implementations it was created with, plus whatever forward-compatible
// extra fields a newer writer stored that this code doesn't recognize.
type Config struct {
	HashingAlgorithm string
	Encoding         string
	IdGenerator      string
	Version          string
	Extra            map[string]json.RawMessage
}

// DefaultConfig returns a config using this build's default plugins.
func DefaultConfig() Config {
	return Config{
		HashingAlgorithm: hashalgo.Default.Name(),
		Encoding:         encodingx.Default.Name(),
		IdGenerator:      idgen.Default.Name(),
		Version:          version,
		Extra:            map[string]json.RawMessage{},
	}
}

func (c Config) hashingAlgorithm() (hashalgo.Algorithm, error) {
	a, ok := hashalgo.ByName(c.HashingAlgorithm)
	if !ok {
		return nil, fmt.Errorf("repository: unknown hashing algorithm %q", c.HashingAlgorithm)
	}
	return a, nil
}

func (c Config) encoding() (encodingx.Encoding, error) {
	e, ok := encodingx.ByName(c.Encoding)
	if !ok {
		return nil, fmt.Errorf("repository: unknown encoding %q", c.Encoding)
	}
	return e, nil
}

func (c Config) idGenerator() (idgen.Generator, error) {
	g, ok := idgen.ByName(c.IdGenerator)
	if !ok {
		return nil, fmt.Errorf("repository: unknown id generator %q", c.IdGenerator)
	}
	return g, nil
}

// knownConfigFields mirrors Config's known JSON keys, used to separate
// recognized fields from the forward-compatible Extra bag on decode.
var knownConfigFields = map[string]bool{
	"hashing_algorithm": true,
	"encoding":          true,
	"id_generator":      true,
	"version":           true,
}

// MarshalJSON flattens Extra alongside the known fields, so unknown
// top-level keys written by a newer build survive a rewrite by this one.
func (c Config) MarshalJSON() ([]byte, error) {
	out := map[string]json.RawMessage{}
	for k, v := range c.Extra {
		out[k] = v
	}

	encode := func(key string, v interface{}) error {
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		out[key] = b
		return nil
	}
	if err := encode("hashing_algorithm", c.HashingAlgorithm); err != nil {
		return nil, err
	}
	if err := encode("encoding", c.Encoding); err != nil {
		return nil, err
	}
	if err := encode("id_generator", c.IdGenerator); err != nil {
		return nil, err
	}
	if err := encode("version", c.Version); err != nil {
		return nil, err
	}
	return json.Marshal(out)
}

// UnmarshalJSON splits incoming JSON into the known fields plus
// whatever remains in Extra.
func (c *Config) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	extra := map[string]json.RawMessage{}
	for k, v := range raw {
		if !knownConfigFields[k] {
			extra[k] = v
		}
	}

	unquote := func(key string, dst *string) error {
		v, ok := raw[key]
		if !ok {
			return nil
		}
		return json.Unmarshal(v, dst)
	}
	if err := unquote("hashing_algorithm", &c.HashingAlgorithm); err != nil {
		return err
	}
	if err := unquote("encoding", &c.Encoding); err != nil {
		return err
	}
	if err := unquote("id_generator", &c.IdGenerator); err != nil {
		return err
	}
	if err := unquote("version", &c.Version); err != nil {
		return err
	}
	c.Extra = extra
	return nil
}
