// Package app provides the core service that executes computation passes and
// implements the dependencies required by the HTTP API.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matslab/scpredict/internal/adapters/history"
	"github.com/matslab/scpredict/internal/domain/feature"
	"github.com/matslab/scpredict/internal/domain/mix"
	"github.com/matslab/scpredict/internal/domain/sweep"
	"github.com/matslab/scpredict/pkg/logger"
	"github.com/matslab/scpredict/pkg/metrics"
)

// Default sweep shape, matching the reference tool's plotting sweep.
const (
	defaultSweepStart = 0.5
	defaultSweepEnd   = 30.0
	defaultSweepStep  = 2.5
	defaultMaxSamples = 200
)

// EnvironmentBounds is the deployment variant for environment input ranges.
// With Strict false, chloride must be >= 0 and temperature >= -10; with
// Strict true, both must lie inside the closed ranges.
type EnvironmentBounds struct {
	Strict         bool
	ChlorideMin    float64
	ChlorideMax    float64
	TemperatureMin float64
	TemperatureMax float64
}

// Open lower bounds for the non-strict variant.
const (
	openChlorideMin    = 0.0
	openTemperatureMin = -10.0
)

// PassRequest carries the inputs of one computation pass.
type PassRequest struct {
	Design      mix.Design
	Environment feature.Environment
	// Times optionally overrides the configured uniform sweep with an
	// explicit ordered list of exposure years.
	Times []float64
}

// Failure describes the prediction error that truncated a sweep.
type Failure struct {
	Index        int     `json:"index"`
	ExposureTime float64 `json:"exposure_time"`
	Message      string  `json:"message"`
}

// Report is the output of one pass: the validated derived quantities, the
// predicted curve, and the milestone table rows. Samples may be a strict
// prefix of the requested times when the sweep was truncated.
type Report struct {
	PassID           string         `json:"pass_id"`
	BinderMass       float64        `json:"binder_mass"`
	WaterBinderRatio float64        `json:"water_binder_ratio"`
	BatchVolume      float64        `json:"batch_volume"`
	Samples          []sweep.Sample `json:"samples"`
	Milestones       []sweep.Sample `json:"milestones"`
	Truncated        bool           `json:"truncated"`
	Failure          *Failure       `json:"failure,omitempty"`

	// Inputs retained for export rendering; not part of the wire response.
	Environment feature.Environment `json:"-"`
	Design      mix.Design          `json:"-"`
}

// Service executes passes against a fixed predictor instance.
type Service struct {
	mu sync.RWMutex

	predictor sweep.Predictor
	runner    *sweep.Runner
	recorder  history.Recorder

	sweepStart float64
	sweepEnd   float64
	sweepStep  float64
	maxSamples int
	milestones []float64
	bounds     EnvironmentBounds

	started   bool
	startedAt time.Time
	// Counters for /stats; metrics carry the same numbers for scraping.
	passesRun    int
	gateFailures int
	sweepsCut    int

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithPredictor injects the external predictor. Required before Start.
func WithPredictor(p sweep.Predictor) Option {
	return func(s *Service) {
		s.predictor = p
	}
}

// WithRecorder sets the pass history recorder.
func WithRecorder(r history.Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithSweepRange sets the uniform sweep shape.
func WithSweepRange(start, end, step float64) Option {
	return func(s *Service) {
		if step > 0 && end > start {
			s.sweepStart = start
			s.sweepEnd = end
			s.sweepStep = step
		}
	}
}

// WithMilestones sets the report-table years.
func WithMilestones(years []float64) Option {
	return func(s *Service) {
		s.milestones = append([]float64(nil), years...)
	}
}

// WithMaxSamples caps explicit request time lists.
func WithMaxSamples(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxSamples = n
		}
	}
}

// WithEnvironmentBounds sets the environment-range deployment variant.
func WithEnvironmentBounds(b EnvironmentBounds) Option {
	return func(s *Service) {
		s.bounds = b
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		sweepStart: defaultSweepStart,
		sweepEnd:   defaultSweepEnd,
		sweepStep:  defaultSweepStep,
		maxSamples: defaultMaxSamples,
		milestones: []float64{1, 5, 10, 20, 28},
		bounds:     EnvironmentBounds{Strict: false},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start wires the runner and recorder. The predictor must already be probed
// by the caller; a nil predictor is a configuration error.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.predictor == nil {
		return ErrNoPredictor
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.recorder == nil {
		s.recorder = history.NewMemoryRecorder()
	}
	s.runner = sweep.NewRunner(&instrumentedPredictor{next: s.predictor})
	s.started = true
	s.startedAt = time.Now()

	s.logger.Info(ctx, "prediction service started",
		logger.Float64("sweepStart", s.sweepStart),
		logger.Float64("sweepEnd", s.sweepEnd),
		logger.Float64("sweepStep", s.sweepStep),
	)
	return nil
}

// Stop releases the recorder.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	if s.recorder != nil {
		_ = s.recorder.Close()
	}
	s.started = false
}

// CheckEnvironment validates the environment inputs against the configured
// deployment variant.
func (s *Service) CheckEnvironment(env feature.Environment) error {
	if s.bounds.Strict {
		if env.Chloride < s.bounds.ChlorideMin || env.Chloride > s.bounds.ChlorideMax {
			return fmt.Errorf("%w: chloride %.2f g/L outside [%.0f, %.0f]",
				ErrEnvironment, env.Chloride, s.bounds.ChlorideMin, s.bounds.ChlorideMax)
		}
		if env.Temperature < s.bounds.TemperatureMin || env.Temperature > s.bounds.TemperatureMax {
			return fmt.Errorf("%w: temperature %.2f C outside [%.0f, %.0f]",
				ErrEnvironment, env.Temperature, s.bounds.TemperatureMin, s.bounds.TemperatureMax)
		}
		return nil
	}
	if env.Chloride < openChlorideMin {
		return fmt.Errorf("%w: chloride must be >= %.0f g/L", ErrEnvironment, openChlorideMin)
	}
	if env.Temperature < openTemperatureMin {
		return fmt.Errorf("%w: temperature must be >= %.0f C", ErrEnvironment, openTemperatureMin)
	}
	return nil
}

// Times returns the exposure times a pass will use: the explicit request
// list when present, otherwise the configured uniform sweep.
func (s *Service) Times(explicit []float64) ([]float64, error) {
	if len(explicit) == 0 {
		return sweep.UniformTimes(s.sweepStart, s.sweepEnd, s.sweepStep), nil
	}
	if len(explicit) > s.maxSamples {
		return nil, fmt.Errorf("%w: %d time samples exceed limit %d", ErrTooManySamples, len(explicit), s.maxSamples)
	}
	for _, t := range explicit {
		if t < 0 {
			return nil, fmt.Errorf("%w: exposure time %.2f is negative", ErrEnvironment, t)
		}
	}
	return explicit, nil
}

// RunPass executes one full pass: environment check, mix gates, prediction
// sweep, milestone sweep, history record. Gate and environment violations are
// returned as errors; a sweep truncation is reported inside the Report so the
// caller still receives the accumulated prefix.
func (s *Service) RunPass(ctx context.Context, req PassRequest) (*Report, error) {
	if err := s.CheckEnvironment(req.Environment); err != nil {
		return nil, err
	}

	summary, err := req.Design.Validate()
	if err != nil {
		var gateErr *mix.GateError
		if errors.As(err, &gateErr) {
			metrics.RecordValidationFailure(string(gateErr.Gate))
			s.mu.Lock()
			s.gateFailures++
			s.mu.Unlock()
		}
		return nil, err
	}

	times, err := s.Times(req.Times)
	if err != nil {
		return nil, err
	}

	metrics.RecordPass()

	report := &Report{
		PassID:           uuid.NewString(),
		BinderMass:       summary.BinderMass,
		WaterBinderRatio: summary.WaterBinderRatio,
		BatchVolume:      summary.BatchVolume,
		Environment:      req.Environment,
		Design:           req.Design,
	}

	samples, sweepErr := s.runner.Run(ctx, req.Design, summary.WaterBinderRatio, req.Environment, times)
	report.Samples = samples
	if sweepErr != nil {
		s.noteTruncation(ctx, report, sweepErr)
	} else if len(s.milestones) > 0 {
		milestones, msErr := s.runner.Run(ctx, req.Design, summary.WaterBinderRatio, req.Environment, s.milestones)
		report.Milestones = milestones
		if msErr != nil {
			s.noteTruncation(ctx, report, msErr)
		}
	}

	s.mu.Lock()
	s.passesRun++
	s.mu.Unlock()

	s.record(ctx, report)
	return report, nil
}

// noteTruncation marks the report as truncated and logs the failure.
func (s *Service) noteTruncation(ctx context.Context, report *Report, err error) {
	report.Truncated = true
	var predErr *sweep.PredictionError
	if errors.As(err, &predErr) {
		report.Failure = &Failure{
			Index:        predErr.Index,
			ExposureTime: predErr.ExposureTime,
			Message:      predErr.Error(),
		}
	} else {
		report.Failure = &Failure{Message: err.Error()}
	}
	metrics.RecordSweepTruncation()
	s.mu.Lock()
	s.sweepsCut++
	s.mu.Unlock()
	s.logger.Warn(ctx, "sweep aborted",
		logger.String("passID", report.PassID),
		logger.Error(err),
	)
}

// record writes the pass to history. Best effort: a failed write never fails
// the pass.
func (s *Service) record(ctx context.Context, report *Report) {
	rec := history.Record{
		PassID:           report.PassID,
		CreatedAt:        time.Now().UTC(),
		Zone:             string(report.Environment.Zone),
		Chloride:         report.Environment.Chloride,
		Temperature:      report.Environment.Temperature,
		WaterBinderRatio: report.WaterBinderRatio,
		BatchVolume:      report.BatchVolume,
		SampleCount:      len(report.Samples),
		Truncated:        report.Truncated,
		Samples:          history.SampleList(report.Samples),
	}
	if err := s.recorder.Record(ctx, rec); err != nil {
		metrics.RecordHistoryError()
		s.logger.Warn(ctx, "history record failed", logger.Error(err))
		return
	}
	metrics.RecordHistoryWrite()
}

// RecentPasses lists recent pass summaries from history.
func (s *Service) RecentPasses(ctx context.Context, limit int) ([]history.Record, error) {
	return s.recorder.Recent(ctx, limit)
}

// Milestones returns the configured report-table years.
func (s *Service) Milestones() []float64 {
	return append([]float64(nil), s.milestones...)
}

// Bounds returns the configured environment variant.
func (s *Service) Bounds() EnvironmentBounds {
	return s.bounds
}

// GetStats returns service statistics for the stats endpoint.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]interface{}{
		"passesRun":       s.passesRun,
		"gateFailures":    s.gateFailures,
		"sweepsTruncated": s.sweepsCut,
		"sweepStart":      s.sweepStart,
		"sweepEnd":        s.sweepEnd,
		"sweepStep":       s.sweepStep,
		"strictBounds":    s.bounds.Strict,
		"uptimeSeconds":   int(time.Since(s.startedAt).Seconds()),
	}
}

// instrumentedPredictor wraps the injected predictor with latency and
// outcome metrics.
type instrumentedPredictor struct {
	next sweep.Predictor
}

func (p *instrumentedPredictor) Predict(ctx context.Context, v feature.Vector) (float64, error) {
	start := time.Now()
	sc, err := p.next.Predict(ctx, v)
	metrics.RecordPredictorLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordPredictionError()
		return 0, err
	}
	metrics.RecordPrediction()
	return sc, nil
}
