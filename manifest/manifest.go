// Package manifest handles stencil.toml harness configuration.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the manifest file looked up in the working directory.
const FileName = "stencil.toml"

// Manifest represents a stencil.toml harness configuration.
type Manifest struct {
	Program ProgramConfig `toml:"program"`
	Store   StoreConfig   `toml:"store"`

	// Dir is the directory containing the stencil.toml file (set at load time).
	Dir string `toml:"-"`
}

// ProgramConfig selects the fixture program and its parameters.
type ProgramConfig struct {
	// Name of the program, also the store key when saving/loading.
	Name string `toml:"name"`

	// Goal is the iteration count for the countdown-sum fixture. It is
	// a benchmark parameter, not a property of the interpreter.
	Goal uint64 `toml:"goal"`

	// Trace enables per-instruction debug logging.
	Trace bool `toml:"trace"`
}

// StoreConfig configures the optional program store.
type StoreConfig struct {
	// Path to the SQLite database. Empty disables the store.
	Path string `toml:"path"`
}

// Default returns the configuration used when no stencil.toml exists:
// the countdown-sum fixture at the reference goal, no store.
func Default() *Manifest {
	return &Manifest{
		Program: ProgramConfig{
			Name: "countdown-sum",
			Goal: 100_000_000,
		},
	}
}

// Load parses a stencil.toml file from the given directory. A missing
// file is not an error; the defaults are returned instead.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		m := Default()
		m.Dir = dir
		return m, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	m := Default()
	if err := toml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	m.Dir = dir

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}
	return m, nil
}

// Validate checks the manifest for values the harness cannot use.
func (m *Manifest) Validate() error {
	if m.Program.Name == "" {
		return errors.New("program.name must not be empty")
	}
	if m.Program.Goal == 0 {
		return errors.New("program.goal must be at least 1")
	}
	return nil
}

// StorePath resolves the store path relative to the manifest directory.
// Returns "" when the store is disabled.
func (m *Manifest) StorePath() string {
	if m.Store.Path == "" {
		return ""
	}
	if filepath.IsAbs(m.Store.Path) {
		return m.Store.Path
	}
	return filepath.Join(m.Dir, m.Store.Path)
}
