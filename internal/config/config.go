// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/interview-practice/internal/types"
)

// Environment variables read by ApplyEnv.
const (
	EnvBackendURL  = "INTERVIEW_BACKEND_URL"
	EnvStorageDir  = "INTERVIEW_STORAGE_DIR"
	EnvDatabaseURL = "DATABASE_URL"
	EnvDuration    = "INTERVIEW_DURATION"
	EnvPacing      = "INTERVIEW_PACING"
)

// Config represents the CLI configuration that can be loaded from a JSON or YAML file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Backend
	BackendURL string `json:"backend_url,omitempty" yaml:"backend_url,omitempty" validate:"omitempty,url"` // Interview backend base URL

	// Storage
	StorageDir  string `json:"storage_dir,omitempty" yaml:"storage_dir,omitempty"`   // Directory for file-backed results
	DatabaseURL string `json:"database_url,omitempty" yaml:"database_url,omitempty"` // PostgreSQL connection URL; overrides StorageDir

	// Selection
	Role       string `json:"role,omitempty" yaml:"role,omitempty"`
	Experience string `json:"experience,omitempty" yaml:"experience,omitempty"`
	Difficulty string `json:"difficulty,omitempty" yaml:"difficulty,omitempty" validate:"omitempty,difficulty"`

	// Session timing
	Duration   Duration `json:"duration,omitempty" yaml:"duration,omitempty" validate:"gte=0"`       // Total interview time
	Pacing     Duration `json:"pacing,omitempty" yaml:"pacing,omitempty" validate:"gte=0"`           // Delay before requesting the next question
	EndTimeout Duration `json:"end_timeout,omitempty" yaml:"end_timeout,omitempty" validate:"gte=0"` // Bound on the end-of-session call

	// Server
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty" validate:"omitempty,hostname_port"` // Listen address for serve

	// Behavior
	Verbose bool `json:"verbose,omitempty" yaml:"verbose,omitempty"` // Print detailed debug information
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		BackendURL: "http://localhost:8000",
		Duration:   Duration(10 * time.Minute),
		Pacing:     Duration(3 * time.Second),
		EndTimeout: Duration(15 * time.Second),
		Addr:       "localhost:8080",
	}
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by extension.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// ApplyEnv overrides fields with any environment variables that are set.
// getenv is usually os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv(EnvBackendURL); v != "" {
		c.BackendURL = v
	}
	if v := getenv(EnvStorageDir); v != "" {
		c.StorageDir = v
	}
	if v := getenv(EnvDatabaseURL); v != "" {
		c.DatabaseURL = v
	}
	if v := getenv(EnvDuration); v != "" {
		d, err := ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config error: %s: %w", EnvDuration, err)
		}
		c.Duration = d
	}
	if v := getenv(EnvPacing); v != "" {
		d, err := ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config error: %s: %w", EnvPacing, err)
		}
		c.Pacing = d
	}
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("difficulty", func(fl validator.FieldLevel) bool {
		_, err := types.ParseDifficulty(fl.Field().String())
		return err == nil
	})
	return v
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if c.StorageDir != "" && c.DatabaseURL != "" {
		return fmt.Errorf("config error: 'storage_dir' and 'database_url' are mutually exclusive")
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.BackendURL == "" {
		result.BackendURL = defaults.BackendURL
	}
	if result.StorageDir == "" && result.DatabaseURL == "" {
		result.StorageDir = defaults.StorageDir
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.Role == "" {
		result.Role = defaults.Role
	}
	if result.Experience == "" {
		result.Experience = defaults.Experience
	}
	if result.Difficulty == "" {
		result.Difficulty = defaults.Difficulty
	}
	if result.Addr == "" {
		result.Addr = defaults.Addr
	}

	// Duration fields: use default if zero
	if result.Duration == 0 {
		result.Duration = defaults.Duration
	}
	if result.Pacing == 0 {
		result.Pacing = defaults.Pacing
	}
	if result.EndTimeout == 0 {
		result.EndTimeout = defaults.EndTimeout
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// Duration is a time.Duration that reads "90s"/"10m" strings or plain seconds
// from JSON and YAML.
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// ParseDuration accepts Go duration syntax or a bare number of seconds.
func ParseDuration(s string) (Duration, error) {
	s = strings.TrimSpace(s)
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		return Duration(secs * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return Duration(d), nil
}

// MarshalJSON writes the duration in Go syntax.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts a duration string or a number of seconds.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var secs float64
		if err := json.Unmarshal(data, &secs); err != nil {
			return fmt.Errorf("duration must be a string or number of seconds: %s", data)
		}
		*d = Duration(secs * float64(time.Second))
		return nil
	}
	parsed, err := ParseDuration(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalYAML writes the duration in Go syntax.
func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}

// UnmarshalYAML accepts a duration string or a number of seconds.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := ParseDuration(node.Value)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
