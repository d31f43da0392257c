package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if SCPREDICT_CONFIG is set
//  3. env (prefix SCPREDICT_)
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("SCPREDICT_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: SCPREDICT_ADDR, SCPREDICT_PREDICTOR_ENDPOINT, ...
	// Keys are lowercased with the prefix stripped; underscores are preserved
	// to match the koanf tags on the struct.
	envProvider := env.Provider("SCPREDICT_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "scpredict_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.PredictorEndpoint == "":
		return fmt.Errorf("%w: predictor_endpoint must not be empty", ErrInvalidConfig)
	case c.SweepStepYears <= 0:
		return fmt.Errorf("%w: sweep_step_years must be positive", ErrInvalidConfig)
	case c.SweepEndYears <= c.SweepStartYears:
		return fmt.Errorf("%w: sweep_end_years must exceed sweep_start_years", ErrInvalidConfig)
	case c.MaxSweepSamples <= 0:
		return fmt.Errorf("%w: max_sweep_samples must be positive", ErrInvalidConfig)
	case c.StrictEnvironmentBounds && c.ChlorideMax <= c.ChlorideMin:
		return fmt.Errorf("%w: chloride bounds inverted", ErrInvalidConfig)
	case c.StrictEnvironmentBounds && c.TemperatureMax <= c.TemperatureMin:
		return fmt.Errorf("%w: temperature bounds inverted", ErrInvalidConfig)
	}
	return nil
}
