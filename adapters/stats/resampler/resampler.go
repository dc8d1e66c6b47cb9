// Package resampler draws stochastic realizations of dated horizons from
// their reported measurement uncertainties.
package resampler

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"agedepth/domain/strat"
)

// Resampler perturbs observations with their reported uncertainties. Reported
// uncertainties are 95%-interval half-widths, so Gaussian draws use half the
// reported value as the standard deviation while uniform draws span the half
// width on each side.
type Resampler struct {
	rnd *rand.Rand
}

// New creates a resampler bound to a deterministic stream.
func New(rnd *rand.Rand) *Resampler {
	return &Resampler{rnd: rnd}
}

// Resample draws one realization of an observation. The age is drawn before
// the height so a run consumes the stream in a fixed order regardless of the
// uncertainty shapes involved.
func (r *Resampler) Resample(obs strat.Observation) strat.Resample {
	age := distuv.Normal{
		Mu:    obs.Age,
		Sigma: obs.AgeUncertainty / 2,
		Src:   r.rnd,
	}.Rand()

	var height float64
	if obs.HeightShape == strat.ShapeUniform {
		height = distuv.Uniform{
			Min: obs.Height - obs.HeightUncertainty/2,
			Max: obs.Height + obs.HeightUncertainty/2,
			Src: r.rnd,
		}.Rand()
	} else {
		height = distuv.Normal{
			Mu:    obs.Height,
			Sigma: obs.HeightUncertainty / 2,
			Src:   r.rnd,
		}.Rand()
	}

	return strat.Resample{Height: height, Age: age}
}
