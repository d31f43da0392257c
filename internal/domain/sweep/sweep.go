// Package sweep drives the external predictor across a sequence of exposure
// times and collects the resulting curve.
package sweep

import (
	"context"
	"fmt"

	"github.com/matslab/scpredict/internal/domain/feature"
	"github.com/matslab/scpredict/internal/domain/mix"
)

// Predictor is the contract with the external regression model: one row in,
// one surface chloride concentration (% mass) out. Implementations must be
// safe for repeated synchronous calls; the runner never calls concurrently
// within a pass.
type Predictor interface {
	Predict(ctx context.Context, v feature.Vector) (float64, error)
}

// Sample is one point of the predicted curve.
type Sample struct {
	ExposureTime float64 `json:"exposure_time"` // years
	PredictedSC  float64 `json:"predicted_sc"`  // % mass
}

// PredictionError reports a predictor failure at one time point. It aborts
// the remainder of the sweep; the samples collected before it remain valid.
type PredictionError struct {
	Index        int
	ExposureTime float64
	Err          error
}

func (e *PredictionError) Error() string {
	return fmt.Sprintf("prediction failed at sample %d (t=%.1f years): %v", e.Index, e.ExposureTime, e.Err)
}

func (e *PredictionError) Unwrap() error { return e.Err }

// Runner executes sweeps against a fixed predictor instance.
type Runner struct {
	predictor Predictor
}

// NewRunner wraps a predictor. The predictor is expected to be constructed
// once at process start and shared across passes.
func NewRunner(p Predictor) *Runner {
	return &Runner{predictor: p}
}

// Run assembles one feature vector per exposure time and invokes the
// predictor sequentially, preserving input order. On the first failure it
// stops and returns the accumulated prefix together with a PredictionError;
// no value is fabricated for the failed or later samples. There is no retry.
func (r *Runner) Run(ctx context.Context, d mix.Design, waterBinderRatio float64, env feature.Environment, times []float64) ([]Sample, error) {
	samples := make([]Sample, 0, len(times))
	for i, t := range times {
		v := feature.Assemble(d, waterBinderRatio, env, t)
		sc, err := r.predictor.Predict(ctx, v)
		if err != nil {
			return samples, &PredictionError{Index: i, ExposureTime: t, Err: err}
		}
		samples = append(samples, Sample{ExposureTime: t, PredictedSC: sc})
	}
	return samples, nil
}

// UniformTimes generates the default plotting sweep: start, start+step, ...
// strictly below end (half-open, matching the reference sweep 0.5..30 by 2.5).
func UniformTimes(start, end, step float64) []float64 {
	if step <= 0 || end <= start {
		return nil
	}
	var ts []float64
	for t := start; t < end; t += step {
		ts = append(ts, t)
	}
	return ts
}
