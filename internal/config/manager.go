package config

import (
	"errors"
	"sync"

	ejerrors "github.com/edrh-tools/edjournal/pkg/errors"
)

// Manager holds the loaded configuration behind a lock and hands out
// copies, so command handlers never share a mutable config value.
type Manager struct {
	path string

	mu  sync.RWMutex
	cfg Config
}

// NewManager creates a manager for the given config path. An empty path
// means the per-user default location.
func NewManager(path string) *Manager {
	if path == "" {
		path = DefaultPath()
	}
	return &Manager{path: path, cfg: Default()}
}

// Path returns the config file location the manager reads from.
func (m *Manager) Path() string {
	return m.path
}

// Load reads the config file. A missing file leaves the defaults in place
// and is not an error.
func (m *Manager) Load() error {
	cfg, err := Load(m.path)
	if err != nil {
		if errors.Is(err, ejerrors.ErrConfigNotFound) {
			return nil
		}
		return err
	}

	m.mu.Lock()
	m.cfg = *cfg
	m.mu.Unlock()
	return nil
}

// Get returns a copy of the current configuration.
func (m *Manager) Get() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cfg := m.cfg
	cfg.Filters = append([]FilterConfig(nil), m.cfg.Filters...)
	return cfg
}
