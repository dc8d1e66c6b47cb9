package ports

import (
	"agedepth/domain/posterior"
	"agedepth/domain/strat"
)

// Resampler perturbs a single observation by its reported measurement
// uncertainty, producing one bootstrap realization of the datum.
type Resampler interface {
	Resample(obs strat.Observation) strat.Resample
}

// SuperpositionFilter enforces stratigraphic ordering on one bootstrap
// realization of a section: higher rocks must be younger. The iteration
// index selects the scan direction so neither end of the section is
// systematically privileged across a run.
type SuperpositionFilter interface {
	Apply(draws []strat.Resample, iteration int) ([]strat.Resample, error)
}

// Fitter performs one posterior fit against a filtered realization and
// returns a single parameter draw from the fitted approximation.
type Fitter interface {
	FitOnce(draws []strat.Resample, prior posterior.PriorState) (posterior.Draw, error)
}
