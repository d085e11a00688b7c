package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Team != "Barcelona" {
		t.Errorf("team: want Barcelona, got %q", cfg.Team)
	}
	if cfg.CoordinatePolicy != PolicyUnknown {
		t.Errorf("policy: want %q, got %q", PolicyUnknown, cfg.CoordinatePolicy)
	}
	if cfg.Possession.FastBelow != 5 || cfg.Possession.LongFrom != 20 {
		t.Errorf("possession thresholds: got %+v", cfg.Possession)
	}
	if len(cfg.ExcludedActivities) != 16 {
		t.Errorf("excluded activities: want 16, got %d", len(cfg.ExcludedActivities))
	}
	if !cfg.Excluded()["Starting XI"] {
		t.Error("Starting XI should be excluded by default")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := writeFile(t, "eventlog.yaml", `
team: Real Madrid
coordinate_policy: drop
excluded_activities: ["Half Start", "Half End"]
zones:
  boundaries: [20, 40, 60, 80, 100]
  pitch_width: 80
possession:
  fast_below: 3
  long_from: 15
workers: 2
`)
	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Team != "Real Madrid" {
		t.Errorf("team: got %q", cfg.Team)
	}
	if cfg.CoordinatePolicy != PolicyDrop {
		t.Errorf("policy: got %q", cfg.CoordinatePolicy)
	}
	if len(cfg.ExcludedActivities) != 2 {
		t.Errorf("excluded: got %v", cfg.ExcludedActivities)
	}
	if cfg.Zones.Boundaries[0] != 20 || cfg.Zones.Boundaries[4] != 100 {
		t.Errorf("boundaries: got %v", cfg.Zones.Boundaries)
	}
	if cfg.Possession.FastBelow != 3 || cfg.Possession.LongFrom != 15 {
		t.Errorf("possession: got %+v", cfg.Possession)
	}
	if cfg.Workers != 2 {
		t.Errorf("workers: got %d", cfg.Workers)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "eventlog.yaml", "team: Real Madrid\n")
	t.Setenv("EVENTLOG_TEAM", "Sevilla")
	t.Setenv("EVENTLOG_POSSESSION_LONG_FROM", "30")

	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Team != "Sevilla" {
		t.Errorf("team: want env value Sevilla, got %q", cfg.Team)
	}
	if cfg.Possession.LongFrom != 30 {
		t.Errorf("long_from: want 30, got %d", cfg.Possession.LongFrom)
	}
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	t.Setenv("EVENTLOG_TEAM", "Sevilla")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("team", "", "")
	flags.String("coordinate-policy", "", "")
	if err := flags.Parse([]string{"--team", "Valencia", "--coordinate-policy", "drop"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := Load(writeFile(t, "empty.yaml", "{}\n"), flags)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Team != "Valencia" {
		t.Errorf("team: want flag value Valencia, got %q", cfg.Team)
	}
	if cfg.CoordinatePolicy != PolicyDrop {
		t.Errorf("policy: want drop, got %q", cfg.CoordinatePolicy)
	}
}

func TestLoadUnsetFlagKeepsDefault(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("fast-below", 99, "")
	if err := flags.Parse(nil); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	cfg, err := Load(writeFile(t, "empty.yaml", "{}\n"), flags)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Possession.FastBelow != 5 {
		t.Errorf("fast_below: want default 5, got %d", cfg.Possession.FastBelow)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty team", func(c *Config) { c.Team = " " }, "team"},
		{"bad policy", func(c *Config) { c.CoordinatePolicy = "ignore" }, "coordinate_policy"},
		{"short boundaries", func(c *Config) { c.Zones.Boundaries = []float64{18, 40} }, "boundaries"},
		{"unsorted boundaries", func(c *Config) { c.Zones.Boundaries = []float64{18, 60, 40, 80, 102} }, "increasing"},
		{"zero width", func(c *Config) { c.Zones.PitchWidth = 0 }, "pitch_width"},
		{"inverted thresholds", func(c *Config) { c.Possession.FastBelow, c.Possession.LongFrom = 20, 5 }, "possession"},
		{"no workers", func(c *Config) { c.Workers = 0 }, "workers"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil); err == nil {
		t.Error("expected error for missing config file")
	}
}
