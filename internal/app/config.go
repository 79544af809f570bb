package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"go429/internal/arinc429"
)

// Default configuration constants
const (
	DefaultStorePath = "./vars.toml"
	DefaultLogDir    = "./logs"
	DefaultInterval  = time.Second
	DefaultKeepDays  = 30
)

// Watch is a store variable sampled by the monitor
type Watch struct {
	Name   string
	Family arinc429.Family
}

// Config holds application configuration
type Config struct {
	StorePath    string
	LogDir       string
	LogRotateUTC bool
	Interval     time.Duration
	KeepDays     int
	Watches      []Watch
	Verbose      bool
	ShowVersion  bool
}

// DefaultConfig returns the configuration used when nothing is overridden
func DefaultConfig() Config {
	return Config{
		StorePath:    DefaultStorePath,
		LogDir:       DefaultLogDir,
		LogRotateUTC: true,
		Interval:     DefaultInterval,
		KeepDays:     DefaultKeepDays,
	}
}

type fileConfig struct {
	Store    string        `toml:"store"`
	LogDir   string        `toml:"log_dir"`
	UTC      bool          `toml:"utc"`
	Interval string        `toml:"interval"`
	KeepDays int           `toml:"keep_days"`
	Verbose  bool          `toml:"verbose"`
	Watch    []watchConfig `toml:"watch"`
}

type watchConfig struct {
	Name   string `toml:"name"`
	Family string `toml:"family"`
}

// LoadConfig applies the keys defined in the TOML file at path on top of cfg.
func LoadConfig(path string, cfg *Config) error {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if meta.IsDefined("store") {
		cfg.StorePath = strings.TrimSpace(raw.Store)
	}
	if meta.IsDefined("log_dir") {
		cfg.LogDir = strings.TrimSpace(raw.LogDir)
	}
	if meta.IsDefined("utc") {
		cfg.LogRotateUTC = raw.UTC
	}
	if meta.IsDefined("interval") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Interval))
		if err != nil {
			return fmt.Errorf("parse interval: %w", err)
		}
		cfg.Interval = d
	}
	if meta.IsDefined("keep_days") {
		cfg.KeepDays = raw.KeepDays
	}
	if meta.IsDefined("verbose") {
		cfg.Verbose = raw.Verbose
	}
	if meta.IsDefined("watch") {
		watches, err := parseWatches(raw.Watch)
		if err != nil {
			return err
		}
		cfg.Watches = watches
	}

	return nil
}

func parseWatches(in []watchConfig) ([]Watch, error) {
	out := make([]Watch, 0, len(in))
	for i, w := range in {
		name := strings.TrimSpace(w.Name)
		if name == "" {
			return nil, fmt.Errorf("watch %d: missing name", i)
		}
		family := arinc429.FamilyDiscrete
		if strings.TrimSpace(w.Family) != "" {
			f, err := arinc429.ParseFamily(w.Family)
			if err != nil {
				return nil, fmt.Errorf("watch %s: %w", name, err)
			}
			family = f
		}
		out = append(out, Watch{Name: name, Family: family})
	}
	return out, nil
}

// ParseWatch parses "NAME" or "NAME=family" as given on the command line.
func ParseWatch(s string) (Watch, error) {
	name, family, _ := strings.Cut(s, "=")
	watches, err := parseWatches([]watchConfig{{Name: name, Family: family}})
	if err != nil {
		return Watch{}, err
	}
	return watches[0], nil
}

// Validate checks the settings the monitor depends on
func (c Config) Validate() error {
	if c.StorePath == "" {
		return fmt.Errorf("store path is required")
	}
	if c.LogDir == "" {
		return fmt.Errorf("log directory is required")
	}
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %s", c.Interval)
	}
	if len(c.Watches) == 0 {
		return fmt.Errorf("no variables to watch")
	}
	return nil
}
