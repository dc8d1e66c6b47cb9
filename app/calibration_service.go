package app

import (
	"context"
	"time"

	"agedepth/domain/posterior"
	"agedepth/domain/run"
	"agedepth/domain/strat"
	"agedepth/domain/subsidence"
	"agedepth/internal"
	"agedepth/internal/errors"
	"agedepth/ports"
)

// progressInterval controls how often the iteration loop logs progress.
const progressInterval = 1000

// CalibrationService runs the resample-filter-fit bootstrap loop that turns
// a measured section into a composite posterior over the curve parameters.
type CalibrationService struct {
	resampler ports.Resampler
	filter    ports.SuperpositionFilter
	fitter    ports.Fitter
	derived   subsidence.Derived
	logger    *internal.Logger
}

// CalibrationRequest defines the inputs for one deterministic run.
type CalibrationRequest struct {
	Section    strat.Section
	Seed       int64
	Iterations int
	Prior      posterior.PriorState
	// MaxRetries bounds how many fresh realizations one iteration may
	// consume before the run aborts.
	MaxRetries int
}

// CalibrationResult contains the complete output of a run.
type CalibrationResult struct {
	Manifest  *run.Manifest       `json:"manifest"`
	Posterior posterior.Composite `json:"posterior"`
	// Retries counts realizations rejected by the filter or the fitter
	// across the whole run.
	Retries   int   `json:"retries"`
	RuntimeMs int64 `json:"runtime_ms"`
}

// NewCalibrationService creates a calibration service.
func NewCalibrationService(
	resampler ports.Resampler,
	filter ports.SuperpositionFilter,
	fitter ports.Fitter,
	derived subsidence.Derived,
	logger *internal.Logger,
) *CalibrationService {
	return &CalibrationService{
		resampler: resampler,
		filter:    filter,
		fitter:    fitter,
		derived:   derived,
		logger:    logger.Named("calibration"),
	}
}

// Calibrate executes the bootstrap loop. Each iteration resamples every
// observation, prunes the realization to a superposition-consistent
// subsequence, fits it, and appends one parameter draw to the composite.
// Rejected realizations are retried with fresh draws from the same stream, so
// the run stays deterministic; an iteration that exhausts its retry budget
// aborts the whole run.
func (s *CalibrationService) Calibrate(ctx context.Context, req CalibrationRequest) (*CalibrationResult, error) {
	startTime := time.Now()

	if err := req.Section.Validate(); err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, err)
	}
	if req.Iterations <= 0 {
		return nil, errors.InvalidInput("iterations must be positive")
	}
	if req.MaxRetries <= 0 {
		return nil, errors.InvalidInput("retry budget must be positive")
	}

	manifest := run.NewManifest(req.Section, req.Seed, req.Iterations, s.derived)
	s.logger.Info("run %s: section %q, %d observations, %d iterations, seed %d",
		manifest.RunID, req.Section.Name, manifest.Observations, req.Iterations, req.Seed)

	prior := req.Prior
	composite := make(posterior.Composite, 0, req.Iterations)
	totalRetries := 0

	for i := 1; i <= req.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrapf(err, "run cancelled at iteration %d", i)
		}

		draw, retries, err := s.fitIteration(req, prior, i)
		totalRetries += retries
		if err != nil {
			return nil, errors.Wrapf(err, "iteration %d exhausted %d attempts", i, req.MaxRetries)
		}

		composite = append(composite, draw)
		prior.Advance(draw)

		if i%progressInterval == 0 {
			s.logger.Debug("iteration %d/%d: a=%.2f b=%.3f sigma=%.2f (%d retries so far)",
				i, req.Iterations, draw.A, draw.B, draw.Sigma, totalRetries)
		}
	}

	s.logger.Info("run %s: accepted %d draws, %d rejected realizations",
		manifest.RunID, composite.Len(), totalRetries)

	return &CalibrationResult{
		Manifest:  manifest,
		Posterior: composite,
		Retries:   totalRetries,
		RuntimeMs: time.Since(startTime).Milliseconds(),
	}, nil
}

// fitIteration produces one accepted draw, consuming fresh realizations from
// the stream until one survives the filter and the fitter or the retry
// budget runs out. The returned retry count excludes the accepted attempt.
func (s *CalibrationService) fitIteration(req CalibrationRequest, prior posterior.PriorState, iteration int) (posterior.Draw, int, error) {
	var lastErr error
	for attempt := 0; attempt < req.MaxRetries; attempt++ {
		draws := make([]strat.Resample, len(req.Section.Observations))
		for j, obs := range req.Section.Observations {
			draws[j] = s.resampler.Resample(obs)
		}

		kept, err := s.filter.Apply(draws, iteration)
		if err != nil {
			lastErr = err
			continue
		}

		draw, err := s.fitter.FitOnce(kept, prior)
		if err != nil {
			lastErr = err
			continue
		}
		return draw, attempt, nil
	}
	return posterior.Draw{}, req.MaxRetries, lastErr
}
