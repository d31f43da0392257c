// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Defaults live in New; Load layers an optional YAML file and env on top.
// - External errors must be wrapped via this package's error helpers.
package config

import "context"

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// PredictorEndpoint is the base URL of the model-inference service.
	PredictorEndpoint string `koanf:"predictor_endpoint"`

	// PredictorTimeoutMS bounds one inference call.
	PredictorTimeoutMS int `koanf:"predictor_timeout_ms"`

	// Sweep shape: uniform times from start (inclusive) to end (exclusive)
	// in fixed steps, all in years.
	SweepStartYears float64 `koanf:"sweep_start_years"`
	SweepEndYears   float64 `koanf:"sweep_end_years"`
	SweepStepYears  float64 `koanf:"sweep_step_years"`

	// MaxSweepSamples caps request-supplied explicit time lists.
	MaxSweepSamples int `koanf:"max_sweep_samples"`

	// MilestoneYears selects the rows of the report table.
	MilestoneYears []float64 `koanf:"milestone_years"`

	// StrictEnvironmentBounds switches the deployment variant: false keeps
	// the open bounds (chloride >= 0, temperature >= -10), true enforces the
	// closed ranges below.
	StrictEnvironmentBounds bool    `koanf:"strict_environment_bounds"`
	ChlorideMin             float64 `koanf:"chloride_min"`
	ChlorideMax             float64 `koanf:"chloride_max"`
	TemperatureMin          float64 `koanf:"temperature_min"`
	TemperatureMax          float64 `koanf:"temperature_max"`

	// HistoryDSN enables the Postgres pass recorder when non-empty;
	// otherwise an in-memory ring buffer of HistoryLimit entries is used.
	HistoryDSN   string `koanf:"history_dsn"`
	HistoryLimit int    `koanf:"history_limit"`
}

// New creates a Config populated with defaults. The context parameter keeps
// the project-wide convention and is reserved for future use.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:           "info",
		Addr:               ":8080",
		PredictorEndpoint:  "http://localhost:9000",
		PredictorTimeoutMS: 10_000,
		SweepStartYears:    0.5,
		SweepEndYears:      30,
		SweepStepYears:     2.5,
		MaxSweepSamples:    200,
		MilestoneYears:     []float64{1, 5, 10, 20, 28},

		StrictEnvironmentBounds: false,
		ChlorideMin:             13,
		ChlorideMax:             27,
		TemperatureMin:          7,
		TemperatureMax:          35,

		HistoryDSN:   "",
		HistoryLimit: 50,
	}
}
