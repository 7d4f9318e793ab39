package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Bounds for the idle threshold and shutdown delay, in seconds.
const (
	MinSeconds = 5
	MaxSeconds = 300
)

// Config holds all persisted settings for volidle
type Config struct {
	// Idle detector
	IdleThreshold int `json:"idle_threshold" yaml:"idle_threshold" env:"VOLIDLE_IDLE_THRESHOLD"`
	ShutdownDelay int `json:"shutdown_delay" yaml:"shutdown_delay" env:"VOLIDLE_SHUTDOWN_DELAY"`

	// Volume control
	SavedVolume int `json:"saved_volume" yaml:"saved_volume"`

	// Window and feature flags
	HideOnStartup        bool `json:"hide_on_startup" yaml:"hide_on_startup" env:"VOLIDLE_HIDE"`
	IdleDetectorEnabled  bool `json:"idle_detector_enabled" yaml:"idle_detector_enabled"`
	VolumeControlEnabled bool `json:"volume_control_enabled" yaml:"volume_control_enabled"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		IdleThreshold:        30,
		ShutdownDelay:        30,
		SavedVolume:          50,
		HideOnStartup:        false,
		IdleDetectorEnabled:  true,
		VolumeControlEnabled: true,
	}
}

// Load reads the configuration at path merged over the defaults, then
// applies environment overrides. The returned config is always usable; a
// non-nil error explains which part of it fell back to defaults.
func Load(path string) (*Config, error) {
	cfg, _, err := load(path)
	return cfg, err
}

// Adjustment records a value Normalize moved into range.
type Adjustment struct {
	Field    string
	From, To int
}

func load(path string) (*Config, []Adjustment, error) {
	cfg := DefaultConfig()

	var loadErr error
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil && !os.IsNotExist(errors.Cause(err)) {
			// A half-decoded file is worse than none
			cfg = DefaultConfig()
			loadErr = errors.Wrap(err, "failed to load config file")
		}
	}

	if err := loadFromEnv(cfg); err != nil && loadErr == nil {
		loadErr = errors.Wrap(err, "failed to load from environment")
	}

	adjusted := Normalize(cfg)
	return cfg, adjusted, loadErr
}

// Save writes the full configuration to path, creating parent directories.
func Save(path string, cfg *Config) error {
	data, err := encode(path, cfg)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "create config directory")
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}

// Normalize clamps every value into its valid range and reports the values
// it changed.
func Normalize(cfg *Config) []Adjustment {
	var adjusted []Adjustment
	fix := func(field string, v *int, lo, hi int) {
		if c := clamp(*v, lo, hi); c != *v {
			adjusted = append(adjusted, Adjustment{Field: field, From: *v, To: c})
			*v = c
		}
	}
	fix("idle_threshold", &cfg.IdleThreshold, MinSeconds, MaxSeconds)
	fix("shutdown_delay", &cfg.ShutdownDelay, MinSeconds, MaxSeconds)
	fix("saved_volume", &cfg.SavedVolume, 0, 100)
	return adjusted
}

// DefaultPath returns the config file path
func DefaultPath() string {
	// Check for explicit config path
	if path := os.Getenv("VOLIDLE_CONFIG"); path != "" {
		return path
	}

	// %AppData% on Windows, XDG config dir elsewhere
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "volidle", "config.json")
	}

	return "config.json"
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// loadFromFile decodes the file at path over cfg
func loadFromFile(cfg *Config, path string) error {
	// #nosec G304 - The config file path comes from trusted sources (flag, env var or standard locations)
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if isYAML(path) {
		return errors.Wrap(yaml.Unmarshal(data, cfg), "parse yaml")
	}
	return errors.Wrap(json.Unmarshal(jsonc.ToJSON(data), cfg), "parse json")
}

func encode(path string, cfg *Config) ([]byte, error) {
	if isYAML(path) {
		data, err := yaml.Marshal(cfg)
		return data, errors.Wrap(err, "encode yaml")
	}
	data, err := json.MarshalIndent(cfg, "", "    ")
	if err != nil {
		return nil, errors.Wrap(err, "encode json")
	}
	return append(data, '\n'), nil
}

// loadFromEnv loads configuration from environment variables
func loadFromEnv(cfg *Config) error {
	if v := os.Getenv("VOLIDLE_IDLE_THRESHOLD"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(err, "invalid VOLIDLE_IDLE_THRESHOLD")
		}
		cfg.IdleThreshold = n
	}

	if v := os.Getenv("VOLIDLE_SHUTDOWN_DELAY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(err, "invalid VOLIDLE_SHUTDOWN_DELAY")
		}
		cfg.ShutdownDelay = n
	}

	if hide := os.Getenv("VOLIDLE_HIDE"); hide != "" {
		switch hide {
		case "true", "1", "yes":
			cfg.HideOnStartup = true
		case "false", "0", "no":
			cfg.HideOnStartup = false
		default:
			return errors.Errorf("invalid VOLIDLE_HIDE value: %q (use true/false)", hide)
		}
	}

	return nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
