/*
 * config.go, part of goFF.
 *
 * Copyright 2026 Raul Mera A.
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

// Package config loads the goFF settings from a YAML file and GOFF_* environment
// variables, and builds the logger they describe.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// envPrefix is the prefix of the environment variables: forcefield.name is
// read from GOFF_FORCEFIELD_NAME.
const envPrefix = "GOFF"

// Default values.
const (
	DefaultForceField  = "goff-sage-2.1.0-subset.offxml"
	DefaultTolerance   = 10.0 // kJ/mol/nm
	DefaultMaxSteps    = 0
	DefaultTimestepFs  = 1.0
	DefaultPlatform    = "Reference"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "console"
	DefaultMetricsDump = false
)

// ForceFieldConfig selects the force field and where to look for it.
type ForceFieldConfig struct {
	Name                    string   `mapstructure:"name"`
	SearchPath              []string `mapstructure:"search_path"`
	AllowCosmeticAttributes bool     `mapstructure:"allow_cosmetic_attributes"`
}

// MinimizeConfig holds the convergence criteria of minimizations.
type MinimizeConfig struct {
	Tolerance float64 `mapstructure:"tolerance"` // largest force component, kJ/mol/nm
	MaxSteps  int     `mapstructure:"max_steps"` // 0 means no limit
}

// IntegratorConfig describes the integrator bound to simulation contexts.
type IntegratorConfig struct {
	TimestepFs float64 `mapstructure:"timestep_fs"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "console" or "json"
}

// Config is the complete goFF configuration.
type Config struct {
	ForceField ForceFieldConfig `mapstructure:"forcefield"`
	Minimize   MinimizeConfig   `mapstructure:"minimize"`
	Integrator IntegratorConfig `mapstructure:"integrator"`
	Platform   string           `mapstructure:"platform"`
	Log        LogConfig        `mapstructure:"log"`
	Metrics    bool             `mapstructure:"metrics"`
}

// newViper returns a viper instance with the defaults, the GOFF_ environment binding and
// a key replacer, so minimize.max_steps is read from GOFF_MINIMIZE_MAX_STEPS.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("forcefield.name", DefaultForceField)
	v.SetDefault("forcefield.search_path", []string{})
	v.SetDefault("forcefield.allow_cosmetic_attributes", false)
	v.SetDefault("minimize.tolerance", DefaultTolerance)
	v.SetDefault("minimize.max_steps", DefaultMaxSteps)
	v.SetDefault("integrator.timestep_fs", DefaultTimestepFs)
	v.SetDefault("platform", DefaultPlatform)
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)
	v.SetDefault("metrics", DefaultMetricsDump)
	return v
}

// Load reads the configuration. If path is empty only the defaults and the environment
// are used. Environment variables override the file.
func Load(path string) (*Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: failed to read config file %q: %w", path, err)
		}
	}
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks that the values make sense.
func (c *Config) Validate() error {
	if c.ForceField.Name == "" {
		return fmt.Errorf("forcefield.name is empty")
	}
	if c.Minimize.Tolerance < 0 {
		return fmt.Errorf("minimize.tolerance must not be negative, got %g", c.Minimize.Tolerance)
	}
	if c.Minimize.MaxSteps < 0 {
		return fmt.Errorf("minimize.max_steps must not be negative, got %d", c.Minimize.MaxSteps)
	}
	if !(c.Integrator.TimestepFs > 0) {
		return fmt.Errorf("integrator.timestep_fs must be positive, got %g", c.Integrator.TimestepFs)
	}
	if c.Platform == "" {
		return fmt.Errorf("platform is empty")
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json, got %q", c.Log.Format)
	}
	return nil
}

// NewLogger builds the logger described by cfg. It writes to stderr, so standard
// output is left for results.
func NewLogger(cfg LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	encCfg := zap.NewProductionEncoderConfig()
	encoding := "json"
	if cfg.Format == "console" {
		encCfg = zap.NewDevelopmentEncoderConfig()
		encoding = "console"
	}
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	zapCfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      cfg.Format == "console",
		Encoding:         encoding,
		EncoderConfig:    encCfg,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	z, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("config: failed to build zap logger: %w", err)
	}
	return z, nil
}
