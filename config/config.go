// Package config loads CLI configuration from defaults, an optional config
// file and SHREXPORT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	shr "github.com/gofhir/shrexport"
	"github.com/gofhir/shrexport/pkg/constraint"
	"github.com/gofhir/shrexport/pkg/issue"
	"github.com/gofhir/shrexport/pkg/logger"
	"github.com/gofhir/shrexport/pkg/modelfile"
	"github.com/gofhir/shrexport/pkg/structdef"
)

// EnvPrefix is the prefix of environment overrides, e.g. SHREXPORT_BASE_URL.
const EnvPrefix = "SHREXPORT"

// Output formats.
const (
	FormatSHR = "shr"
	FormatR4  = "r4"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the exporter and CLI settings.
type Config struct {
	BaseURL   string `mapstructure:"base_url"`
	Publisher string `mapstructure:"publisher"`
	Status    string `mapstructure:"status"`

	Format string `mapstructure:"format"`
	Out    string `mapstructure:"out"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	Workers      int   `mapstructure:"workers"`
	MaxDocuments int   `mapstructure:"max_documents"`
	MaxDepth     int   `mapstructure:"max_depth"`
	MaxFileSize  int64 `mapstructure:"max_file_size"`

	StrictPrimitives bool `mapstructure:"strict_primitives"`
	StrictMode       bool `mapstructure:"strict_mode"`
	Constraints      bool `mapstructure:"constraints"`

	Invariants []constraint.Invariant `mapstructure:"invariants"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		BaseURL:     structdef.DefaultBaseURL,
		Publisher:   structdef.DefaultPublisher,
		Status:      structdef.DefaultStatus,
		Format:      FormatSHR,
		LogLevel:    "info",
		LogFormat:   "text",
		MaxFileSize: modelfile.DefaultMaxFileSize,
		Constraints: true,
	}
}

// NewViper returns a viper instance carrying the defaults and environment
// bindings. Callers may bind command flags to it before calling LoadViper.
func NewViper() *viper.Viper {
	v := viper.New()

	d := Default()
	v.SetDefault("base_url", d.BaseURL)
	v.SetDefault("publisher", d.Publisher)
	v.SetDefault("status", d.Status)
	v.SetDefault("format", d.Format)
	v.SetDefault("out", d.Out)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("max_documents", d.MaxDocuments)
	v.SetDefault("max_depth", d.MaxDepth)
	v.SetDefault("max_file_size", d.MaxFileSize)
	v.SetDefault("strict_primitives", d.StrictPrimitives)
	v.SetDefault("strict_mode", d.StrictMode)
	v.SetDefault("constraints", d.Constraints)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file at path (yaml, json or toml; empty for none)
// over the defaults and environment.
func Load(path string) (*Config, error) {
	return LoadViper(NewViper(), path)
}

// LoadViper reads path into v and decodes the result.
func LoadViper(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values viper cannot type-check.
func (c *Config) Validate() error {
	var errs []error

	switch c.Format {
	case FormatSHR, FormatR4:
	default:
		errs = append(errs, fmt.Errorf("format must be %q or %q, got %q", FormatSHR, FormatR4, c.Format))
	}

	switch c.Status {
	case "draft", "active", "retired", "unknown":
	default:
		errs = append(errs, fmt.Errorf("status must be draft, active, retired or unknown, got %q", c.Status))
	}

	if c.BaseURL == "" {
		errs = append(errs, errors.New("base_url is required"))
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json", "logfmt":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}

	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", c.Workers))
	}
	if c.MaxDocuments < 0 {
		errs = append(errs, fmt.Errorf("max_documents must not be negative, got %d", c.MaxDocuments))
	}
	if c.MaxDepth < 0 {
		errs = append(errs, fmt.Errorf("max_depth must not be negative, got %d", c.MaxDepth))
	}
	if c.MaxFileSize <= 0 {
		errs = append(errs, fmt.Errorf("max_file_size must be positive, got %d", c.MaxFileSize))
	}

	for i, inv := range c.Invariants {
		if inv.Key == "" || inv.Expression == "" {
			errs = append(errs, fmt.Errorf("invariants[%d]: key and expression are required", i))
		}
		switch inv.Severity {
		case "", issue.SeverityError, issue.SeverityWarning:
		default:
			errs = append(errs, fmt.Errorf("invariants[%d]: severity must be error or warning, got %q", i, inv.Severity))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// Options converts the configuration to exporter options.
func (c *Config) Options() []shr.Option {
	opts := []shr.Option{
		shr.WithBaseURL(c.BaseURL),
		shr.WithPublisher(c.Publisher),
		shr.WithStatus(c.Status),
		shr.WithWorkerCount(c.Workers),
		shr.WithMaxDocuments(c.MaxDocuments),
		shr.WithMaxDepth(c.MaxDepth),
		shr.WithStrictPrimitives(c.StrictPrimitives),
		shr.WithStrictMode(c.StrictMode),
		shr.WithConstraints(c.Constraints),
	}
	if c.Constraints && len(c.Invariants) > 0 {
		invariants := make([]constraint.Invariant, len(c.Invariants))
		for i, inv := range c.Invariants {
			if inv.Severity == "" {
				inv.Severity = issue.SeverityError
			}
			invariants[i] = inv
		}
		opts = append(opts, shr.WithInvariants(invariants...))
	}
	return opts
}

// Logger builds a stderr logger from the log settings.
func (c *Config) Logger() (*logger.Logger, error) {
	level, err := logger.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	l := logger.New(os.Stderr, level)
	if err := l.SetFormat(c.LogFormat); err != nil {
		return nil, err
	}
	return l, nil
}
