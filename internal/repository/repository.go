// Package repository implements the on-disk container for a set of
// items, its configuration, and the version upgrades a repository
// created by an older build may need.
package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/javanhut/sit/internal/idgen"
	"github.com/javanhut/sit/internal/item"
	"github.com/javanhut/sit/internal/moduleresolve"
	"github.com/javanhut/sit/internal/pathresolve"
	"github.com/javanhut/sit/internal/record"
)

const (
	configFile       = "config.json"
	deprecatedIssues = "issues"
	itemsSubdir      = "items"
	modulesSubdir    = "modules"
)

// Repository is the container for all artifacts: items, their records,
// configuration and (deprecated) modules.
type Repository struct {
	path        string
	configPath  string
	itemsPath   string
	modulesPath string
	config      Config
	idgen       idgen.Generator
	builder     record.Builder
}

// New creates a new repository at path using this build's default
// plugin configuration. Fails with ErrAlreadyExists if path is already
// a non-empty directory.
func New(path string) (*Repository, error) {
	return NewWithConfig(path, DefaultConfig())
}

// NewWithConfig creates a new repository at path with an explicit
// configuration. Fails with ErrAlreadyExists if path is already a
// non-empty directory.
func NewWithConfig(path string, config Config) (*Repository, error) {
	if entries, err := os.ReadDir(path); err == nil && len(entries) > 0 {
		return nil, ErrAlreadyExists{}
	}

	repo, err := fromConfig(path, config)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(repo.itemsPath, 0o755); err != nil {
		return nil, fmt.Errorf("repository: create items dir: %w", err)
	}
	if err := repo.save(); err != nil {
		return nil, err
	}
	return repo, nil
}

// Open opens an existing repository at path, failing if an upgrade is
// needed (equivalent to OpenAndUpgrade with no upgrades allowed).
func Open(path string) (*Repository, error) {
	return OpenAndUpgrade(path, nil)
}

// OpenAndUpgrade opens a repository at path, performing any upgrade in
// upgrades that the on-disk layout requires. Upgrades the layout needs
// but the caller did not allow cause ErrUpgradeRequired instead.
//
// Upgrades take no lock: two concurrent calls may race on the underlying
// renames, and the loser surfaces the resulting I/O error. A failed or
// interrupted upgrade is not rolled back; re-invoking OpenAndUpgrade
// completes the partial migration.
func OpenAndUpgrade(path string, upgrades []Upgrade) (*Repository, error) {
	allowed := make(map[Upgrade]bool, len(upgrades))
	for _, u := range upgrades {
		allowed[u] = true
	}

	issuesPath := filepath.Join(path, deprecatedIssues)
	itemsPath := filepath.Join(path, itemsSubdir)

	issuesIsDir := isDir(issuesPath)
	itemsIsDir := isDir(itemsPath)

	if issuesIsDir && !itemsIsDir {
		if !allowed[IssuesToItems] {
			return nil, ErrUpgradeRequired{Upgrade: IssuesToItems}
		}
		if err := os.Rename(issuesPath, itemsPath); err != nil {
			return nil, fmt.Errorf("repository: upgrade issues->items: %w", err)
		}
		issuesIsDir = false
		itemsIsDir = true
	}

	if issuesIsDir && itemsIsDir {
		if !allowed[IssuesToItems] {
			return nil, ErrUpgradeRequired{Upgrade: IssuesToItems}
		}
		entries, err := os.ReadDir(issuesPath)
		if err != nil {
			return nil, fmt.Errorf("repository: read %s: %w", issuesPath, err)
		}
		for _, e := range entries {
			if err := os.Rename(filepath.Join(issuesPath, e.Name()), filepath.Join(itemsPath, e.Name())); err != nil {
				return nil, fmt.Errorf("repository: upgrade issues->items: move %s: %w", e.Name(), err)
			}
		}
		if err := os.RemoveAll(issuesPath); err != nil {
			return nil, fmt.Errorf("repository: remove %s: %w", issuesPath, err)
		}
	}

	if err := os.MkdirAll(itemsPath, 0o755); err != nil {
		return nil, fmt.Errorf("repository: create items dir: %w", err)
	}

	configPath := filepath.Join(path, configFile)
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("repository: read config: %w", err)
	}
	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("repository: parse config: %w", err)
	}
	if config.Version != version {
		return nil, ErrInvalidVersion{Expected: version, Got: config.Version}
	}

	return fromConfig(path, config)
}

// FindInOrAbove looks for a directory named dir starting at start and
// walking up through parent directories until found or the filesystem
// root is reached.
func FindInOrAbove(dir, start string) (string, bool) {
	current, err := filepath.Abs(start)
	if err != nil {
		return "", false
	}

	for {
		candidate := filepath.Join(current, dir)
		if isDir(candidate) {
			return candidate, true
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", false
		}
		current = parent
	}
}

func fromConfig(path string, config Config) (*Repository, error) {
	hashAlgo, err := config.hashingAlgorithm()
	if err != nil {
		return nil, err
	}
	enc, err := config.encoding()
	if err != nil {
		return nil, err
	}
	idGen, err := config.idGenerator()
	if err != nil {
		return nil, err
	}

	return &Repository{
		path:        path,
		configPath:  filepath.Join(path, configFile),
		itemsPath:   filepath.Join(path, itemsSubdir),
		modulesPath: filepath.Join(path, modulesSubdir),
		config:      config,
		idgen:       idGen,
		builder:     record.Builder{Algorithm: hashAlgo, Encoding: enc},
	}, nil
}

func (r *Repository) save() error {
	if err := os.MkdirAll(r.path, 0o755); err != nil {
		return fmt.Errorf("repository: create %s: %w", r.path, err)
	}
	data, err := json.MarshalIndent(r.config, "", "  ")
	if err != nil {
		return fmt.Errorf("repository: encode config: %w", err)
	}
	if err := os.WriteFile(r.configPath, data, 0o644); err != nil {
		return fmt.Errorf("repository: write config: %w", err)
	}
	return nil
}

// Path returns the repository's root directory.
func (r *Repository) Path() string { return r.path }

// ItemsPath returns the directory holding items.
func (r *Repository) ItemsPath() string { return r.itemsPath }

// ModulesPath returns the directory holding modules. The directory may
// not exist.
func (r *Repository) ModulesPath() string { return r.modulesPath }

// Config returns the repository's configuration.
func (r *Repository) Config() Config { return r.config }

// SetExtra stores value under key in the configuration's
// forward-compatible extra bag and persists the change. It cannot
// touch the structural fields (hashing algorithm, encoding, id
// generator, version), which are fixed at creation time.
func (r *Repository) SetExtra(key, value string) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("repository: encode %q: %w", key, err)
	}
	if r.config.Extra == nil {
		r.config.Extra = map[string]json.RawMessage{}
	}
	r.config.Extra[key] = encoded
	return r.save()
}

// ModuleIter enumerates the repository's modules.
func (r *Repository) ModuleIter() ([]string, error) {
	return moduleresolve.ModuleIter(r.modulesPath)
}

// ItemIter returns every item currently in the repository, in
// unspecified order.
func (r *Repository) ItemIter() ([]*item.Item, error) {
	entries, err := os.ReadDir(r.itemsPath)
	if err != nil {
		return nil, fmt.Errorf("repository: read items dir: %w", err)
	}

	items := make([]*item.Item, 0, len(entries))
	for _, e := range entries {
		p := filepath.Join(r.itemsPath, e.Name())
		resolved := pathresolve.Resolve(p)
		items = append(items, item.New(e.Name(), resolved, r.path, r.builder))
	}
	return items, nil
}

// NewItem creates an item with an id from the repository's configured
// IdGenerator.
func (r *Repository) NewItem() (*item.Item, error) {
	return r.NewNamedItem(r.idgen.Generate())
}

// NewNamedItem creates an item named name. Fails if one already exists.
func (r *Repository) NewNamedItem(name string) (*item.Item, error) {
	path := filepath.Join(r.itemsPath, name)
	if err := os.Mkdir(path, 0o755); err != nil {
		if os.IsExist(err) {
			return nil, ErrAlreadyExists{}
		}
		return nil, fmt.Errorf("repository: create item %s: %w", name, err)
	}
	return item.New(name, path, r.path, r.builder), nil
}

// Item finds an item by name. It returns ErrNotFound if name does not
// resolve to a direct child of the items directory, which also rejects
// nested paths ("one/it") and traversal ("one/..").
func (r *Repository) Item(name string) (*item.Item, error) {
	path := filepath.Join(r.itemsPath, name)
	if filepath.Dir(path) != r.itemsPath {
		return nil, ErrNotFound{}
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return nil, ErrNotFound{}
	}
	resolved := pathresolve.Resolve(path)
	return item.New(name, resolved, r.path, r.builder), nil
}

func isDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}
