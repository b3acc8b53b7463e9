// Package config loads the dpe3cl configuration: a YAML file in the user
// configuration directory, an optional project overlay, and environment
// variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Missing reference value policies.
const (
	MissingPolicyWarn = "warn"
	MissingPolicyFail = "fail"
)

// Output formats.
const (
	FormatJSON   = "json"
	FormatNDJSON = "ndjson"
	FormatTable  = "table"
)

const (
	configFileName   = "config.yaml"
	defaultPrecision = 2
	maxPrecision     = 10
)

// Environment variables that override configuration values.
const (
	EnvHome          = "DPE3CL_HOME"
	EnvProjectDir    = "DPE3CL_PROJECT_DIR"
	EnvCompatMode    = "DPE3CL_COMPAT_MODE"
	EnvMissingPolicy = "DPE3CL_MISSING_POLICY"
	EnvTablesDir     = "DPE3CL_TABLES_DIR"
	EnvLogLevel      = "DPE3CL_LOG_LEVEL"
	EnvLogFormat     = "DPE3CL_LOG_FORMAT"
	EnvConcurrency   = "DPE3CL_CONCURRENCY"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the complete dpe3cl configuration.
type Config struct {
	Engine  EngineConfig  `yaml:"engine"`
	Batch   BatchConfig   `yaml:"batch"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`

	configPath string
}

// EngineConfig controls calculation runs.
type EngineConfig struct {
	// CompatMode reproduces the documented defects of the reference engine.
	CompatMode bool `yaml:"compat_mode"`

	// MissingPolicy is "warn" (continue with an undefined value) or "fail".
	MissingPolicy string `yaml:"missing_policy"`

	// TablesDir replaces the embedded reference tables when set.
	TablesDir string `yaml:"tables_dir,omitempty"`

	// MinTablesVersion is a semver constraint the table set must satisfy.
	MinTablesVersion string `yaml:"min_tables_version,omitempty"`
}

// BatchConfig controls the batch driver.
type BatchConfig struct {
	// Concurrency caps parallel runs; 0 means one per CPU.
	Concurrency int `yaml:"concurrency"`

	// BatchSize is the number of records evaluated per chunk; 0 means all.
	BatchSize int `yaml:"batch_size"`
}

// OutputConfig controls result rendering.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
	Precision     int    `yaml:"precision"`
}

// LoggingConfig controls logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			MissingPolicy: MissingPolicyWarn,
		},
		Output: OutputConfig{
			DefaultFormat: FormatJSON,
			Precision:     defaultPrecision,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// New returns the configuration read from the user configuration file, if
// any, with environment overrides applied. A malformed file is reported on
// the global logger and ignored.
func New() *Config {
	cfg := Default()

	dir, err := GetConfigDir()
	if err == nil {
		cfg.configPath = filepath.Join(dir, configFileName)
		if loadErr := cfg.loadFile(cfg.configPath); loadErr != nil && !errors.Is(loadErr, os.ErrNotExist) {
			logger := GetLogger()
			logger.Warn().
				Str("component", "config").
				Err(loadErr).
				Str("path", cfg.configPath).
				Msg("ignoring unreadable configuration file")
		}
	}

	cfg.ApplyEnvOverrides()
	return cfg
}

// Load reads the configuration file at path on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	cfg.configPath = path
	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err = yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// Path returns the file the configuration was read from or will be saved to.
func (c *Config) Path() string {
	return c.configPath
}

// Save writes the configuration to its file, creating the directory.
func (c *Config) Save() error {
	if c.configPath == "" {
		dir, err := GetConfigDir()
		if err != nil {
			return err
		}
		c.configPath = filepath.Join(dir, configFileName)
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to path.
func (c *Config) SaveTo(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding configuration: %w", err)
	}
	if err = os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating configuration directory: %w", err)
	}
	if err = os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	c.configPath = path
	return nil
}

// ApplyEnvOverrides applies the DPE3CL_* environment variables. Values
// that do not parse are ignored.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv(EnvCompatMode); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Engine.CompatMode = b
		}
	}
	if v := os.Getenv(EnvMissingPolicy); v != "" {
		c.Engine.MissingPolicy = strings.ToLower(v)
	}
	if v := os.Getenv(EnvTablesDir); v != "" {
		c.Engine.TablesDir = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv(EnvConcurrency); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.Batch.Concurrency = n
		}
	}
}

// Validate reports every invalid value, joined.
func (c *Config) Validate() error {
	var errs []error

	switch c.Engine.MissingPolicy {
	case MissingPolicyWarn, MissingPolicyFail:
	default:
		errs = append(errs, fmt.Errorf("%w: engine.missing_policy %q (want warn or fail)",
			ErrInvalidConfig, c.Engine.MissingPolicy))
	}

	if c.Engine.MinTablesVersion != "" {
		if _, err := semver.NewConstraint(c.Engine.MinTablesVersion); err != nil {
			errs = append(errs, fmt.Errorf("%w: engine.min_tables_version: %w", ErrInvalidConfig, err))
		}
	}

	if c.Batch.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("%w: batch.concurrency must be >= 0", ErrInvalidConfig))
	}
	if c.Batch.BatchSize < 0 {
		errs = append(errs, fmt.Errorf("%w: batch.batch_size must be >= 0", ErrInvalidConfig))
	}

	switch c.Output.DefaultFormat {
	case FormatJSON, FormatNDJSON, FormatTable:
	default:
		errs = append(errs, fmt.Errorf("%w: output.default_format %q", ErrInvalidConfig, c.Output.DefaultFormat))
	}
	if c.Output.Precision < 0 || c.Output.Precision > maxPrecision {
		errs = append(errs, fmt.Errorf("%w: output.precision must be between 0 and %d", ErrInvalidConfig, maxPrecision))
	}

	if _, err := zerolog.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("%w: logging.level %q", ErrInvalidConfig, c.Logging.Level))
	}

	return errors.Join(errs...)
}
