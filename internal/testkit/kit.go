// Package testkit wires real adapters into ready-to-use services for tests
// and for the CLI. There are no fakes here: the engine is deterministic
// enough that tests run the real stack against fixed seeds.
package testkit

import (
	"agedepth/adapters/rng"
	"agedepth/adapters/stats/laplace"
	"agedepth/adapters/stats/resampler"
	"agedepth/adapters/stats/superposition"
	"agedepth/app"
	"agedepth/domain/posterior"
	"agedepth/domain/strat"
	"agedepth/domain/subsidence"
	"agedepth/internal"
	"agedepth/internal/config"
)

// calibrationStream names the RNG stream that drives one bootstrap run.
const calibrationStream = "calibration"

// Kit provides wired services and reference fixtures.
type Kit struct {
	cfg    *config.Config
	curve  *subsidence.Curve
	source *rng.Source
	logger *internal.Logger
}

// NewKit creates a kit from the given configuration.
func NewKit(cfg *config.Config, logger *internal.Logger) (*Kit, error) {
	curve, err := subsidence.NewCurve(cfg.Physical)
	if err != nil {
		return nil, err
	}
	return &Kit{
		cfg:    cfg,
		curve:  curve,
		source: rng.NewSource(),
		logger: logger,
	}, nil
}

// NewDefaultKit creates a kit on the default configuration with quiet logs.
func NewDefaultKit() (*Kit, error) {
	return NewKit(config.Default(), internal.NewLogger(internal.LogLevelError))
}

// Config returns the kit's configuration.
func (k *Kit) Config() *config.Config {
	return k.cfg
}

// Curve returns the kit's subsidence curve.
func (k *Kit) Curve() *subsidence.Curve {
	return k.curve
}

// Calibrator wires a calibration service for one run. The resampler and the
// fitter share a single seeded stream, so every stochastic decision in the
// run happens in program order on one deterministic sequence.
func (k *Kit) Calibrator(seed int64) *app.CalibrationService {
	stream := k.source.SeededStream(calibrationStream, seed)
	fitter := laplace.New(k.curve, laplace.Config{
		SigmaMax: k.cfg.Fit.SigmaMax,
		Start: posterior.Draw{
			A:     k.cfg.Fit.StartA,
			B:     k.cfg.Fit.StartB,
			Sigma: k.cfg.Fit.StartSigma,
		},
	}, stream)

	return app.NewCalibrationService(
		resampler.New(stream),
		superposition.New(),
		fitter,
		k.curve.Derived(),
		k.logger,
	)
}

// Summarizer wires a summary service whose independent-difference stream is
// derived from the given seed.
func (k *Kit) Summarizer(seed int64) *app.SummaryService {
	return app.NewSummaryService(k.curve, k.source, seed, k.logger)
}

// CalibrationRequest builds a run request for a section from the kit's
// configured priors and budgets.
func (k *Kit) CalibrationRequest(section strat.Section, seed int64) app.CalibrationRequest {
	return app.CalibrationRequest{
		Section:    section,
		Seed:       seed,
		Iterations: k.cfg.Run.Iterations,
		Prior:      k.cfg.PriorState(),
		MaxRetries: k.cfg.Run.MaxRetries,
	}
}

// ReferenceSection returns the dated reference column used across tests and
// examples: five horizons over two kilometers of section with 95% dating
// uncertainty of 5 Ma.
func ReferenceSection() strat.Section {
	heights := []float64{0, 500, 1000, 1500, 2000}
	ages := []float64{820, 750, 700, 650, 600}

	obs := make([]strat.Observation, len(heights))
	for i := range heights {
		obs[i] = strat.Observation{
			Label:             "horizon-" + string(rune('a'+i)),
			Height:            heights[i],
			HeightUncertainty: 20,
			HeightShape:       strat.ShapeNormal,
			Age:               ages[i],
			AgeUncertainty:    5,
		}
	}
	return strat.Section{Name: "reference", Observations: obs}
}
