// Package config loads and saves the tzcal YAML configuration. The
// default time zone lives here and is threaded explicitly into
// calendar and event construction; there is no process-global zone.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// CalendarSeed describes one calendar created at startup.
type CalendarSeed struct {
	// Name is the calendar's unique display name.
	Name string `yaml:"name"`
	// Timezone is an IANA zone identifier, e.g. "America/New_York".
	Timezone string `yaml:"timezone"`
}

// Config is the top-level application configuration.
type Config struct {
	// DefaultTimezone is the IANA zone used when a seed or caller
	// does not name one.
	DefaultTimezone string `yaml:"default_timezone"`

	// AgendaCron is the cron expression for the periodic agenda log
	// (e.g. "0 7 * * *").
	AgendaCron string `yaml:"agenda_cron"`

	// LogLevel is one of debug, info, error.
	LogLevel string `yaml:"log_level"`

	// Calendars are created in order at startup; the last one becomes
	// the current calendar.
	Calendars []CalendarSeed `yaml:"calendars"`
}

// DefaultConfig returns the in-memory defaults.
func DefaultConfig() *Config {
	return &Config{
		DefaultTimezone: "America/New_York",
		AgendaCron:      "0 7 * * *",
		LogLevel:        "info",
		Calendars:       []CalendarSeed{},
	}
}

// Normalize fills missing values so partially-written configs still
// behave. Seeds without a zone inherit the default.
func (c *Config) Normalize() {
	if c.DefaultTimezone == "" {
		c.DefaultTimezone = "America/New_York"
	}
	if c.AgendaCron == "" {
		c.AgendaCron = "0 7 * * *"
	}
	switch c.LogLevel {
	case "debug", "info", "error":
	default:
		c.LogLevel = "info"
	}
	if c.Calendars == nil {
		c.Calendars = []CalendarSeed{}
	}
	for i := range c.Calendars {
		if c.Calendars[i].Timezone == "" {
			c.Calendars[i].Timezone = c.DefaultTimezone
		}
	}
}

// DefaultLocation resolves DefaultTimezone against the zone database.
func (c *Config) DefaultLocation() (*time.Location, error) {
	return time.LoadLocation(c.DefaultTimezone)
}

// Load reads the YAML config at path. A missing file is a first run:
// the defaults are written there (0600) and returned.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()
	return &cfg, nil
}

// Save writes cfg to path atomically: marshal, temp file in the same
// directory, fsync, chmod 0600, rename.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}
	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".tzcal-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Save delegates to the package-level Save for call-site convenience.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
