// Package config loads decaychain settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/hqding/Thermal-FIST/internal/decay"
	"github.com/hqding/Thermal-FIST/internal/particle"
)

// Config holds the engine and CLI settings. Command-line flags override
// the values read here.
type Config struct {
	DistributionCap int     `env:"DECAYCHAIN_DISTRIBUTION_CAP" envDefault:"1000"`
	MassNodes       int     `env:"DECAYCHAIN_MASS_NODES"       envDefault:"16"`
	WidthCut        float64 `env:"DECAYCHAIN_WIDTH_CUT"        envDefault:"2"`
	DBPath          string  `env:"DECAYCHAIN_DB"`
	LogLevel        string  `env:"DECAYCHAIN_LOG_LEVEL"        envDefault:"warn"`
	Feeddown        string  `env:"DECAYCHAIN_FEEDDOWN"         envDefault:"stability"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the engine cannot use.
func (c Config) Validate() error {
	if c.MassNodes < 0 {
		return fmt.Errorf("DECAYCHAIN_MASS_NODES must be >= 0, got %d", c.MassNodes)
	}
	if c.WidthCut < 0 {
		return fmt.Errorf("DECAYCHAIN_WIDTH_CUT must be >= 0, got %g", c.WidthCut)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if _, err := c.DistributionFeeddown(); err != nil {
		return err
	}
	return nil
}

// Level returns the slog level named by LogLevel.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("DECAYCHAIN_LOG_LEVEL: %w", err)
	}
	return level, nil
}

// DistributionFeeddown returns the classification named by Feeddown.
func (c Config) DistributionFeeddown() (particle.Feeddown, error) {
	fd, ok := particle.ParseFeeddown(c.Feeddown)
	if !ok {
		return 0, fmt.Errorf("DECAYCHAIN_FEEDDOWN: unknown feeddown %q (want stability, strong, em, weak)", c.Feeddown)
	}
	return fd, nil
}

// Properties returns the mass-grid options.
func (c Config) Properties() decay.PropertiesOptions {
	return decay.PropertiesOptions{MassNodes: c.MassNodes, WidthCut: c.WidthCut}
}

// ResolverOptions returns the resolver options implied by the config.
// Call Validate first; an unknown feeddown falls back to the default.
func (c Config) ResolverOptions() []decay.Option {
	opts := []decay.Option{
		decay.WithDistributionCap(c.DistributionCap),
		decay.WithPropertiesOptions(c.Properties()),
	}
	if fd, err := c.DistributionFeeddown(); err == nil {
		opts = append(opts, decay.WithDistributionFeeddown(fd))
	}
	return opts
}
