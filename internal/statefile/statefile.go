// Package statefile persists a small diagnostic side file describing what
// the engine is currently doing: the active journal path and the last
// derived snapshot. It is write-only from the engine's point of view and
// is never read back for correctness.
package statefile

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	ejerrors "github.com/edrh-tools/edjournal/pkg/errors"
)

// Data is the serialized side-file content.
type Data struct {
	ActiveJournal string      `yaml:"active_journal"`
	Commander     string      `yaml:"commander"`
	System        string      `yaml:"system"`
	Coords        *[3]float64 `yaml:"coords,omitempty"`
	Version       uint64      `yaml:"version"`
	UpdatedAt     time.Time   `yaml:"updated_at"`
}

// File writes Data snapshots to a fixed path.
type File struct {
	mu   sync.Mutex
	path string
}

// New creates a writer for path.
func New(path string) *File {
	return &File{path: path}
}

// Path returns the side file location.
func (f *File) Path() string {
	return f.path
}

// Write replaces the side file content. The write goes through a temp file
// and rename so readers never observe a partial document.
func (f *File) Write(d Data) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := yaml.Marshal(&d)
	if err != nil {
		return err
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ejerrors.ErrStateFileWrite
	}

	tmp, err := os.CreateTemp(dir, ".state-*.yaml")
	if err != nil {
		return ejerrors.ErrStateFileWrite
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return ejerrors.ErrStateFileWrite
	}
	if err := tmp.Close(); err != nil {
		return ejerrors.ErrStateFileWrite
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return ejerrors.ErrStateFileWrite
	}
	return nil
}

// Read loads the side file, for diagnostics and tests.
func (f *File) Read() (Data, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var d Data
	raw, err := os.ReadFile(f.path)
	if err != nil {
		return d, err
	}
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return d, err
	}
	return d, nil
}
