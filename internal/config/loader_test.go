package config_test

import (
	"context"
	"os"
	"testing"

	"github.com/matslab/scpredict/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.PredictorEndpoint, convey.ShouldEqual, "http://localhost:9000")
				convey.So(cfg.PredictorTimeoutMS, convey.ShouldEqual, 10_000)
				convey.So(cfg.SweepStartYears, convey.ShouldEqual, 0.5)
				convey.So(cfg.SweepEndYears, convey.ShouldEqual, 30.0)
				convey.So(cfg.SweepStepYears, convey.ShouldEqual, 2.5)
				convey.So(cfg.MaxSweepSamples, convey.ShouldEqual, 200)
				convey.So(cfg.MilestoneYears, convey.ShouldResemble, []float64{1, 5, 10, 20, 28})
				convey.So(cfg.StrictEnvironmentBounds, convey.ShouldBeFalse)
				convey.So(cfg.HistoryDSN, convey.ShouldBeEmpty)
				convey.So(cfg.HistoryLimit, convey.ShouldEqual, 50)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("SCPREDICT_ADDR", ":8090")
			_ = os.Setenv("SCPREDICT_PREDICTOR_ENDPOINT", "http://model:9100")
			_ = os.Setenv("SCPREDICT_SWEEP_END_YEARS", "50")
			_ = os.Setenv("SCPREDICT_STRICT_ENVIRONMENT_BOUNDS", "true")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8090")
				convey.So(cfg.PredictorEndpoint, convey.ShouldEqual, "http://model:9100")
				convey.So(cfg.SweepEndYears, convey.ShouldEqual, 50.0)
				convey.So(cfg.StrictEnvironmentBounds, convey.ShouldBeTrue)
				convey.So(cfg.SweepStartYears, convey.ShouldEqual, 0.5) // untouched default
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
predictor_endpoint: "http://inference:9000"
sweep_step_years: 1.0
milestone_years: [1, 10, 28]
history_dsn: "postgres://localhost/scpredict?sslmode=disable"
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("SCPREDICT_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.PredictorEndpoint, convey.ShouldEqual, "http://inference:9000")
				convey.So(cfg.SweepStepYears, convey.ShouldEqual, 1.0)
				convey.So(cfg.MilestoneYears, convey.ShouldResemble, []float64{1, 10, 28})
				convey.So(cfg.HistoryDSN, convey.ShouldContainSubstring, "postgres://")
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
sweep_step_years: 1.0
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("SCPREDICT_CONFIG", tmpFile)
			_ = os.Setenv("SCPREDICT_ADDR", ":8090")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8090")       // Overridden by env
				convey.So(cfg.SweepStepYears, convey.ShouldEqual, 1.0) // From file
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			invalidYaml := `invalid: yaml: content: [`
			tmpFile := createTempConfigFile(invalidYaml)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("SCPREDICT_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("SCPREDICT_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("SCPREDICT_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the sweep step is not positive", func() {
			_ = os.Setenv("SCPREDICT_SWEEP_STEP_YEARS", "0")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "sweep_step_years")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the sweep range is inverted", func() {
			_ = os.Setenv("SCPREDICT_SWEEP_END_YEARS", "0.25")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "sweep_end_years")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When strict bounds are enabled with inverted chloride range", func() {
			_ = os.Setenv("SCPREDICT_STRICT_ENVIRONMENT_BOUNDS", "true")
			_ = os.Setenv("SCPREDICT_CHLORIDE_MIN", "30")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "chloride bounds inverted")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the chloride range is inverted without strict bounds", func() {
			_ = os.Setenv("SCPREDICT_CHLORIDE_MIN", "30")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then the range is not enforced and loading succeeds", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.ChlorideMin, convey.ShouldEqual, 30.0)
			})
		})

		convey.Convey("When loading config with partial YAML file", func() {
			yamlContent := `
addr: ":9090"
history_limit: 10
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("SCPREDICT_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should merge with defaults for missing fields", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")                  // From file
				convey.So(cfg.HistoryLimit, convey.ShouldEqual, 10)               // From file
				convey.So(cfg.PredictorTimeoutMS, convey.ShouldEqual, 10_000)     // From defaults
				convey.So(cfg.MaxSweepSamples, convey.ShouldEqual, 200)           // From defaults
				convey.So(cfg.TemperatureMax, convey.ShouldEqual, 35.0)           // From defaults
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("SCPREDICT_MAX_SWEEP_SAMPLES", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"SCPREDICT_CONFIG",
		"SCPREDICT_ADDR",
		"SCPREDICT_PREDICTOR_ENDPOINT",
		"SCPREDICT_PREDICTOR_TIMEOUT_MS",
		"SCPREDICT_SWEEP_START_YEARS",
		"SCPREDICT_SWEEP_END_YEARS",
		"SCPREDICT_SWEEP_STEP_YEARS",
		"SCPREDICT_MAX_SWEEP_SAMPLES",
		"SCPREDICT_STRICT_ENVIRONMENT_BOUNDS",
		"SCPREDICT_CHLORIDE_MIN",
		"SCPREDICT_CHLORIDE_MAX",
		"SCPREDICT_TEMPERATURE_MIN",
		"SCPREDICT_TEMPERATURE_MAX",
		"SCPREDICT_HISTORY_DSN",
		"SCPREDICT_HISTORY_LIMIT",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "scpredict-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
