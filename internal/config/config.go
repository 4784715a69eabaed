package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/edrh-tools/edjournal/internal/utils/logger"
	ejerrors "github.com/edrh-tools/edjournal/pkg/errors"
)

// Duration is a time.Duration that unmarshals from YAML either as a
// duration string ("1s", "500ms") or as a bare integer of seconds.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return ejerrors.NewConfigError("duration", value.Value)
	}
	if seconds, err := strconv.ParseInt(s, 10, 64); err == nil {
		*d = Duration(time.Duration(seconds) * time.Second)
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return ejerrors.NewConfigError("duration", s)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the plain time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// FilterConfig is one named filter expression over raw journal events.
type FilterConfig struct {
	Name string `yaml:"name"`
	When string `yaml:"when"`
}

// MetricsConfig controls the optional Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

// Config is the tool configuration.
type Config struct {
	JournalDir       string               `yaml:"journal_dir"`
	PollInterval     Duration             `yaml:"poll_interval"`
	Backoff          Duration             `yaml:"backoff"`
	FailureWarnAfter int                  `yaml:"failure_warn_after"`
	StateFile        string               `yaml:"state_file"`
	Logging          logger.LoggingConfig `yaml:"logging"`
	Metrics          MetricsConfig        `yaml:"metrics"`
	Filters          []FilterConfig       `yaml:"filters"`
}

// Default returns the baseline configuration. The journal directory is
// auto-detected when possible and may be empty.
func Default() Config {
	return Config{
		JournalDir:       DetectJournalDir(),
		PollInterval:     Duration(1 * time.Second),
		Backoff:          Duration(5 * time.Second),
		FailureWarnAfter: 5,
		Logging: logger.LoggingConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Listen: "127.0.0.1:9642",
		},
	}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "edjournal", "config.yaml")
}

// Load reads and validates a config file. Zero-valued fields fall back to
// their defaults.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ejerrors.ErrConfigNotFound
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, ejerrors.NewConfigError("yaml", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	def := Default()
	if c.PollInterval <= 0 {
		c.PollInterval = def.PollInterval
	}
	if c.Backoff <= 0 {
		c.Backoff = def.Backoff
	}
	if c.FailureWarnAfter <= 0 {
		c.FailureWarnAfter = def.FailureWarnAfter
	}
	if c.Metrics.Listen == "" {
		c.Metrics.Listen = def.Metrics.Listen
	}
}

// Validate checks the configuration for contradictions.
func (c *Config) Validate() error {
	if c.PollInterval.Std() < 10*time.Millisecond {
		return ejerrors.NewConfigError("poll_interval", c.PollInterval.Std())
	}
	if c.Backoff.Std() < c.PollInterval.Std() {
		return ejerrors.NewConfigError("backoff", c.Backoff.Std())
	}
	for _, f := range c.Filters {
		if f.Name == "" || f.When == "" {
			return ejerrors.NewConfigError("filters", f)
		}
	}
	return nil
}

// journalDirCandidates are the stock install locations of the game's
// journal directory, probed in order.
func journalDirCandidates() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return []string{
		filepath.Join(home, "Saved Games", "Frontier Developments", "Elite Dangerous"),
		filepath.Join(home, ".local", "share", "Steam", "steamapps", "compatdata", "359320",
			"pfx", "drive_c", "users", "steamuser", "Saved Games", "Frontier Developments", "Elite Dangerous"),
		filepath.Join(home, ".steam", "steam", "steamapps", "compatdata", "359320",
			"pfx", "drive_c", "users", "steamuser", "Saved Games", "Frontier Developments", "Elite Dangerous"),
	}
}

// DetectJournalDir probes the stock journal locations and returns the
// first that exists, or empty.
func DetectJournalDir() string {
	for _, dir := range journalDirCandidates() {
		if fi, err := os.Stat(dir); err == nil && fi.IsDir() {
			return dir
		}
	}
	return ""
}
