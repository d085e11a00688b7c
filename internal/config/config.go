// Package config loads the pipeline configuration from defaults, an optional
// YAML file, a .env file, EVENTLOG_* environment variables and CLI flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// CoordinatePolicy decides what happens to rows whose event has no usable location.
type CoordinatePolicy string

const (
	// PolicyUnknown keeps the row with zone and vertical set to Unknown.
	PolicyUnknown CoordinatePolicy = "unknown"
	// PolicyDrop discards the row.
	PolicyDrop CoordinatePolicy = "drop"
)

// EnvPrefix is prepended to every environment override, e.g. EVENTLOG_TEAM.
const EnvPrefix = "EVENTLOG"

// DefaultConfigFile is read when --config is not given and the file exists.
const DefaultConfigFile = "eventlog.yaml"

// DefaultExcludedActivities are administrative event types that never count as actions.
var DefaultExcludedActivities = []string{
	"Half Start", "Half End", "Substitution", "Tactical Shift",
	"Player On", "Player Off", "Injury Stoppage", "Offside",
	"Shield", "Error", "Foul Committed", "Foul Won",
	"Camera On", "Camera Off", "Starting XI", "Bad Behaviour",
}

// Config is the explicit configuration handed to the pipeline entry point.
type Config struct {
	Team               string           `mapstructure:"team"`
	ExcludedActivities []string         `mapstructure:"excluded_activities"`
	CoordinatePolicy   CoordinatePolicy `mapstructure:"coordinate_policy"`
	Zones              ZoneConfig       `mapstructure:"zones"`
	Possession         PossessionConfig `mapstructure:"possession"`
	EventsDir          string           `mapstructure:"events_dir"`
	MatchesDir         string           `mapstructure:"matches_dir"`
	OutputDir          string           `mapstructure:"output_dir"`
	Workers            int              `mapstructure:"workers"`
	DB                 string           `mapstructure:"db"`
	LogLevel           string           `mapstructure:"log_level"`
}

// ZoneConfig holds the x-axis zone boundaries and the pitch width used for vertical bands.
type ZoneConfig struct {
	Boundaries []float64 `mapstructure:"boundaries"`
	PitchWidth float64   `mapstructure:"pitch_width"`
}

// PossessionConfig holds the action-count thresholds of the possession classifier.
type PossessionConfig struct {
	FastBelow int `mapstructure:"fast_below"`
	LongFrom  int `mapstructure:"long_from"`
}

// Excluded returns the excluded activities as a set.
func (c *Config) Excluded() map[string]bool {
	out := make(map[string]bool, len(c.ExcludedActivities))
	for _, a := range c.ExcludedActivities {
		out[a] = true
	}
	return out
}

// Validate checks the invariants the pipeline relies on.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Team) == "" {
		errs = append(errs, errors.New("team must not be empty"))
	}
	switch c.CoordinatePolicy {
	case PolicyUnknown, PolicyDrop:
	default:
		errs = append(errs, fmt.Errorf("coordinate_policy %q: want %q or %q", c.CoordinatePolicy, PolicyUnknown, PolicyDrop))
	}
	if len(c.Zones.Boundaries) != 5 {
		errs = append(errs, fmt.Errorf("zones.boundaries: want 5 values, got %d", len(c.Zones.Boundaries)))
	}
	for i := 1; i < len(c.Zones.Boundaries); i++ {
		if c.Zones.Boundaries[i] <= c.Zones.Boundaries[i-1] {
			errs = append(errs, fmt.Errorf("zones.boundaries must be strictly increasing"))
			break
		}
	}
	if c.Zones.PitchWidth <= 0 {
		errs = append(errs, fmt.Errorf("zones.pitch_width must be positive"))
	}
	if c.Possession.FastBelow <= 0 || c.Possession.LongFrom <= c.Possession.FastBelow {
		errs = append(errs, fmt.Errorf("possession thresholds: need 0 < fast_below (%d) < long_from (%d)",
			c.Possession.FastBelow, c.Possession.LongFrom))
	}
	if c.Workers <= 0 {
		errs = append(errs, fmt.Errorf("workers must be positive"))
	}
	return errors.Join(errs...)
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("team", "Barcelona")
	v.SetDefault("excluded_activities", DefaultExcludedActivities)
	v.SetDefault("coordinate_policy", string(PolicyUnknown))
	v.SetDefault("zones.boundaries", []float64{18, 40, 60, 80, 102})
	v.SetDefault("zones.pitch_width", 80.0)
	v.SetDefault("possession.fast_below", 5)
	v.SetDefault("possession.long_from", 20)
	v.SetDefault("events_dir", "data/events")
	v.SetDefault("matches_dir", "data/matches")
	v.SetDefault("output_dir", "data/csv")
	v.SetDefault("workers", runtime.NumCPU())
	v.SetDefault("db", DefaultDBPath())
	v.SetDefault("log_level", "info")
}

// DefaultDBPath is ~/.eventlog/eventlog.db, or ./eventlog.db without a home directory.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "eventlog.db"
	}
	return filepath.Join(home, ".eventlog", "eventlog.db")
}

// Default returns the configuration with no file, env or flag overrides.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	var cfg Config
	// Defaults are well-formed; decoding them cannot fail.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// Load builds the configuration. path may be empty, in which case DefaultConfigFile
// is read if present. flags, when non-nil, are bound by their key names (e.g. the
// "events-dir" flag overrides events_dir).
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	// .env is optional.
	_ = godotenv.Load()

	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			path = DefaultConfigFile
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.ExcludedActivities = splitList(cfg.ExcludedActivities)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// flagKeys maps CLI flag names to configuration keys.
var flagKeys = map[string]string{
	"team":              "team",
	"exclude":           "excluded_activities",
	"coordinate-policy": "coordinate_policy",
	"fast-below":        "possession.fast_below",
	"long-from":         "possession.long_from",
	"events-dir":        "events_dir",
	"matches-dir":       "matches_dir",
	"output-dir":        "output_dir",
	"workers":           "workers",
	"db":                "db",
	"log-level":         "log_level",
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// splitList accepts both list values and a single comma-separated string
// (the form environment variables take).
func splitList(in []string) []string {
	var out []string
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
