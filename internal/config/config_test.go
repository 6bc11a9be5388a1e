package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.DefaultTimezone != "America/New_York" {
		t.Errorf("DefaultTimezone = %q", cfg.DefaultTimezone)
	}
	if cfg.AgendaCron != "0 7 * * *" {
		t.Errorf("AgendaCron = %q", cfg.AgendaCron)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if _, err := cfg.DefaultLocation(); err != nil {
		t.Errorf("DefaultLocation() error = %v", err)
	}
}

func TestNormalizeFillsGaps(t *testing.T) {
	cfg := &Config{
		LogLevel: "verbose",
		Calendars: []CalendarSeed{
			{Name: "Work", Timezone: "Asia/Tokyo"},
			{Name: "Home"},
		},
	}
	cfg.Normalize()

	if cfg.DefaultTimezone != "America/New_York" {
		t.Errorf("DefaultTimezone = %q after Normalize", cfg.DefaultTimezone)
	}
	if cfg.AgendaCron == "" {
		t.Error("AgendaCron left empty")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("unknown LogLevel normalized to %q, want info", cfg.LogLevel)
	}
	if cfg.Calendars[0].Timezone != "Asia/Tokyo" {
		t.Error("Normalize overwrote an explicit seed zone")
	}
	if cfg.Calendars[1].Timezone != "America/New_York" {
		t.Errorf("seed without zone = %q, want the default", cfg.Calendars[1].Timezone)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := &Config{
		DefaultTimezone: "Europe/Paris",
		AgendaCron:      "30 6 * * 1-5",
		LogLevel:        "debug",
		Calendars: []CalendarSeed{
			{Name: "Work", Timezone: "Europe/Paris"},
			{Name: "Travel", Timezone: "Asia/Tokyo"},
		},
	}

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("file mode = %o, want 600", perm)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.DefaultTimezone != cfg.DefaultTimezone || got.AgendaCron != cfg.AgendaCron || got.LogLevel != cfg.LogLevel {
		t.Errorf("Load() = %+v, want %+v", got, cfg)
	}
	if len(got.Calendars) != 2 || got.Calendars[1].Name != "Travel" || got.Calendars[1].Timezone != "Asia/Tokyo" {
		t.Errorf("Calendars = %+v", got.Calendars)
	}
}

func TestLoadFirstRunWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DefaultTimezone != "America/New_York" {
		t.Errorf("first-run config = %+v, want defaults", cfg)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("first run did not create the file: %v", err)
	}

	// A second load reads the written file, not the fallback path.
	again, err := Load(path)
	if err != nil {
		t.Fatalf("second Load() error = %v", err)
	}
	if again.DefaultTimezone != cfg.DefaultTimezone {
		t.Error("reloaded config differs from the one written on first run")
	}
}

func TestLoadRejectsEmptyPathAndBadYAML(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Error("Load(\"\") succeeded, want error")
	}

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("default_timezone: [unterminated"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() of malformed YAML succeeded, want error")
	}
}

func TestLoadNormalizesPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "calendars:\n  - name: Work\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DefaultTimezone == "" || cfg.LogLevel != "info" {
		t.Errorf("partial file not normalized: %+v", cfg)
	}
	if cfg.Calendars[0].Timezone != cfg.DefaultTimezone {
		t.Error("seed without zone did not inherit the default")
	}
}
