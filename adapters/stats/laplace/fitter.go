// Package laplace fits the subsidence curve to one bootstrap realization and
// draws from a Gaussian approximation of the posterior around the mode.
package laplace

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/distuv"

	"agedepth/domain/posterior"
	"agedepth/domain/strat"
	"agedepth/domain/subsidence"
	"agedepth/internal/errors"
)

// interiorMargin keeps the expansion point clear of the sigma prior
// boundaries so central finite differences never evaluate outside the
// support.
const interiorMargin = 1e-3

// Mode-search budget. Nelder-Mead can stall on a flat stretch of the
// objective instead of converging; the limits turn a stalled search into a
// per-iteration fit failure the caller retries with a fresh realization.
const (
	maxMajorIterations = 2000
	maxFuncEvaluations = 20000
)

// Config holds the per-iteration fit settings.
type Config struct {
	// SigmaMax bounds the flat prior on the residual scale.
	SigmaMax float64
	// Start is the fixed optimizer starting point. Starting every iteration
	// from the same point keeps runs deterministic given the stream.
	Start posterior.Draw
}

// Fitter maximizes the log posterior of (a, b, sigma) with Nelder-Mead and
// approximates the posterior with a Gaussian at the mode (a Laplace
// approximation), from which it returns a single draw.
type Fitter struct {
	curve *subsidence.Curve
	cfg   Config
	rnd   *rand.Rand
}

// New creates a fitter bound to a deterministic stream.
func New(curve *subsidence.Curve, cfg Config, rnd *rand.Rand) *Fitter {
	return &Fitter{curve: curve, cfg: cfg, rnd: rnd}
}

// FitOnce fits one filtered realization and samples one parameter draw.
// Any numerical failure (optimizer divergence, non-finite curvature, a
// Hessian that is not positive definite) is reported as a fit error so the
// caller can resample and retry.
func (f *Fitter) FitOnce(draws []strat.Resample, prior posterior.PriorState) (posterior.Draw, error) {
	negLogPost := f.negLogPosterior(draws, prior)

	problem := optimize.Problem{Func: negLogPost}
	start := []float64{f.cfg.Start.A, f.cfg.Start.B, f.cfg.Start.Sigma}
	if !isFinite(negLogPost(start)) {
		// A realization can land outside the curve domain at the starting
		// point, e.g. a height resampled past the total subsidence scale.
		return posterior.Draw{}, errors.FitDiverged("objective is not finite at the starting point")
	}

	settings := &optimize.Settings{
		MajorIterations: maxMajorIterations,
		FuncEvaluations: maxFuncEvaluations,
	}
	result, err := optimize.Minimize(problem, start, settings, &optimize.NelderMead{})
	if err != nil {
		return posterior.Draw{}, errors.WithCode(errors.CodeFitDiverged,
			errors.Wrap(err, "posterior mode search failed"))
	}
	switch result.Status {
	case optimize.IterationLimit, optimize.FunctionEvaluationLimit, optimize.RuntimeLimit,
		optimize.Failure, optimize.NotTerminated:
		return posterior.Draw{}, errors.FitDiverged(
			fmt.Sprintf("posterior mode search stopped without converging: %v", result.Status))
	}
	if !isFinite(result.F) {
		return posterior.Draw{}, errors.FitDiverged("posterior mode is not finite")
	}

	// Nelder-Mead can park the mode on a prior boundary (sigma pegged at
	// its bound when residuals dwarf it). Pull the expansion point just
	// inside the support so the finite-difference Hessian stays finite.
	mode := []float64{
		result.X[0],
		math.Max(result.X[1], interiorMargin),
		clamp(result.X[2], interiorMargin, f.cfg.SigmaMax-interiorMargin),
	}

	hessian := mat.NewSymDense(3, nil)
	fd.Hessian(hessian, negLogPost, mode, nil)
	for i := 0; i < 3; i++ {
		for j := i; j < 3; j++ {
			if !isFinite(hessian.At(i, j)) {
				return posterior.Draw{}, errors.FitDiverged("posterior curvature is not finite at the mode")
			}
		}
	}

	// Covariance of the Gaussian approximation is the inverse Hessian of
	// the negative log posterior.
	var chol mat.Cholesky
	if ok := chol.Factorize(hessian); !ok {
		// A realization the curve interpolates exactly (always possible
		// with two survivors) drives the sigma mode onto its lower
		// boundary, where the sigma curvature turns negative. The a and b
		// directions are still sharply determined there, so hold sigma at
		// the mode and draw the curve parameters from their conditional
		// Gaussian.
		return f.drawConditional(hessian, mode)
	}
	var cov mat.SymDense
	if err := chol.InverseTo(&cov); err != nil {
		return posterior.Draw{}, errors.WithCode(errors.CodeFitDiverged,
			errors.Wrap(err, "posterior curvature could not be inverted"))
	}

	normal, ok := distmv.NewNormal(mode, &cov, f.rnd)
	if !ok {
		return posterior.Draw{}, errors.FitDiverged("posterior covariance is not positive definite")
	}

	sample := normal.Rand(nil)
	return posterior.Draw{A: sample[0], B: sample[1], Sigma: sample[2]}, nil
}

// drawConditional samples (a, b) from the Gaussian defined by their 2x2
// curvature block, keeping sigma fixed at the mode.
func (f *Fitter) drawConditional(hessian *mat.SymDense, mode []float64) (posterior.Draw, error) {
	block := mat.NewSymDense(2, []float64{
		hessian.At(0, 0), hessian.At(0, 1),
		hessian.At(0, 1), hessian.At(1, 1),
	})

	var chol mat.Cholesky
	if ok := chol.Factorize(block); !ok {
		return posterior.Draw{}, errors.FitDiverged("posterior curvature is not positive definite at the mode")
	}
	var cov mat.SymDense
	if err := chol.InverseTo(&cov); err != nil {
		return posterior.Draw{}, errors.WithCode(errors.CodeFitDiverged,
			errors.Wrap(err, "posterior curvature could not be inverted"))
	}
	normal, ok := distmv.NewNormal(mode[:2], &cov, f.rnd)
	if !ok {
		return posterior.Draw{}, errors.FitDiverged("posterior covariance is not positive definite")
	}

	sample := normal.Rand(nil)
	return posterior.Draw{A: sample[0], B: sample[1], Sigma: mode[2]}, nil
}

// negLogPosterior builds the objective: Gaussian likelihood of the resampled
// ages around the curve, Gaussian priors on a and b, and a flat prior on
// sigma over (0, SigmaMax). Outside the support, or wherever the curve
// leaves its domain, the objective is +Inf.
func (f *Fitter) negLogPosterior(draws []strat.Resample, prior posterior.PriorState) func(x []float64) float64 {
	aPrior := distuv.Normal{Mu: prior.AMean, Sigma: prior.ASigma}
	bPrior := distuv.Normal{Mu: prior.BMean, Sigma: prior.BSigma}

	return func(x []float64) float64 {
		a, b, sigma := x[0], x[1], x[2]
		// NaN comparisons are false, so a NaN sigma would slip through a
		// plain bounds check and poison every density below.
		if !(sigma > 0 && sigma < f.cfg.SigmaMax) {
			return math.Inf(1)
		}

		nll := 0.0
		for _, d := range draws {
			mu := f.curve.MeanAge(d.Height, a, b)
			if !isFinite(mu) {
				return math.Inf(1)
			}
			nll -= distuv.Normal{Mu: mu, Sigma: sigma}.LogProb(d.Age)
		}
		nll -= aPrior.LogProb(a)
		nll -= bPrior.LogProb(b)
		// The flat sigma prior only contributes a constant inside its
		// support. The objective must never report NaN: an undecidable
		// point reads as a +Inf wall, which the simplex backs away from.
		if math.IsNaN(nll) {
			return math.Inf(1)
		}
		return nll
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
