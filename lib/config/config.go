// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Environment represents the deployment environment.
type Environment string

const (
	// Development is for local development and tests. Registry
	// verification is enabled unless the file says otherwise.
	Development Environment = "development"
	// Production is for shipped fields.
	Production Environment = "production"
)

// EnvironmentVariable names the variable [Load] reads the config path from.
const EnvironmentVariable = "PASSFIELD_CONFIG"

// Config is the configuration of one password field.
type Config struct {
	// Environment identifies the deployment type (development, production).
	Environment Environment `yaml:"environment"`

	// Field configures the text model.
	Field FieldConfig `yaml:"field"`

	// Log configures structured logging.
	Log LogConfig `yaml:"log"`

	// Per-environment overrides, applied after the base config is loaded.
	Development *ConfigOverrides `yaml:"development,omitempty"`
	Production  *ConfigOverrides `yaml:"production,omitempty"`
}

// ConfigOverrides contains fields that can be overridden per environment.
type ConfigOverrides struct {
	Field *FieldOverrides `yaml:"field,omitempty"`
	Log   *LogConfig      `yaml:"log,omitempty"`
}

// FieldConfig configures the text model of a field.
type FieldConfig struct {
	// MaskChar is the single character shown in place of each
	// password character.
	MaskChar string `yaml:"mask_char"`

	// MaxLength caps user insertions. Zero means unlimited.
	MaxLength int `yaml:"max_length"`

	// InitialCapacity preallocates protected memory for this many
	// characters.
	InitialCapacity int `yaml:"initial_capacity"`

	// VerifyRegistry checks pointer ordering after every edit and
	// panics on a violation.
	VerifyRegistry bool `yaml:"verify_registry"`
}

// FieldOverrides mirrors FieldConfig with optional fields so that an
// override can set a value back to its zero value.
type FieldOverrides struct {
	MaskChar        *string `yaml:"mask_char,omitempty"`
	MaxLength       *int    `yaml:"max_length,omitempty"`
	InitialCapacity *int    `yaml:"initial_capacity,omitempty"`
	VerifyRegistry  *bool   `yaml:"verify_registry,omitempty"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
}

// Default returns the default configuration. These defaults are used as
// a base before loading the config file.
func Default() *Config {
	return &Config{
		Environment: Development,
		Field: FieldConfig{
			MaskChar:        "●",
			InitialCapacity: 32,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from the PASSFIELD_CONFIG environment
// variable. There is no fallback: if the variable is not set, Load fails.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your field config file, or use --config flag", EnvironmentVariable)
	}

	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path, then applies
// the section for the selected environment.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	cfg.applyEnvironmentOverrides()

	return cfg, nil
}

// loadFile loads a single configuration file, merging into the current config.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// applyEnvironmentOverrides applies the environment-specific overrides.
func (c *Config) applyEnvironmentOverrides() {
	var overrides *ConfigOverrides

	switch c.Environment {
	case Development:
		overrides = c.Development
		// Development defaults: check the registry after every edit.
		if overrides == nil {
			verify := true
			overrides = &ConfigOverrides{
				Field: &FieldOverrides{VerifyRegistry: &verify},
			}
		}
	case Production:
		overrides = c.Production
	}

	if overrides == nil {
		return
	}

	if field := overrides.Field; field != nil {
		if field.MaskChar != nil {
			c.Field.MaskChar = *field.MaskChar
		}
		if field.MaxLength != nil {
			c.Field.MaxLength = *field.MaxLength
		}
		if field.InitialCapacity != nil {
			c.Field.InitialCapacity = *field.InitialCapacity
		}
		if field.VerifyRegistry != nil {
			c.Field.VerifyRegistry = *field.VerifyRegistry
		}
	}

	if overrides.Log != nil && overrides.Log.Level != "" {
		c.Log.Level = overrides.Log.Level
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}

	if _, err := c.Field.MaskRune(); err != nil {
		errs = append(errs, err)
	}

	if c.Field.MaxLength < 0 {
		errs = append(errs, fmt.Errorf("field.max_length must not be negative"))
	}

	if c.Field.InitialCapacity < 0 {
		errs = append(errs, fmt.Errorf("field.initial_capacity must not be negative"))
	}

	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// MaskRune returns the mask character. It must be exactly one printable
// character.
func (f FieldConfig) MaskRune() (rune, error) {
	if utf8.RuneCountInString(f.MaskChar) != 1 {
		return 0, fmt.Errorf("field.mask_char must be exactly one character, got %q", f.MaskChar)
	}
	mask, _ := utf8.DecodeRuneInString(f.MaskChar)
	if mask == utf8.RuneError || !unicode.IsPrint(mask) {
		return 0, fmt.Errorf("field.mask_char must be printable, got %q", f.MaskChar)
	}
	return mask, nil
}

// SlogLevel converts Level to a slog.Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("log.level must be one of debug, info, warn, error; got %q", l.Level)
	}
}
