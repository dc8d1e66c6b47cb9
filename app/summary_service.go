package app

import (
	"context"
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"agedepth/domain/posterior"
	"agedepth/domain/subsidence"
	"agedepth/internal"
	"agedepth/internal/errors"
	"agedepth/ports"
)

// hpdiMass is the probability mass of the reported highest-density interval.
const hpdiMass = 0.95

// independentStream names the RNG stream that decouples the two heights of
// an independent difference.
const independentStream = "independent-difference"

// SummaryService reduces a composite posterior to age summaries at query
// heights and to duration estimates between pairs of heights.
type SummaryService struct {
	curve   *subsidence.Curve
	rngPort ports.RNGPort
	seed    int64
	logger  *internal.Logger
}

// NewSummaryService creates a summary service. The seed only feeds the
// independent-difference stream; plain summaries are deterministic functions
// of the composite.
func NewSummaryService(curve *subsidence.Curve, rngPort ports.RNGPort, seed int64, logger *internal.Logger) *SummaryService {
	return &SummaryService{
		curve:   curve,
		rngPort: rngPort,
		seed:    seed,
		logger:  logger.Named("summary"),
	}
}

// Summarize evaluates every posterior draw at one height and reduces the
// resulting age distribution to a median and a 95% HPDI. Draws whose curve
// leaves its domain at this height are dropped and counted; a height where
// every draw drops is an error.
func (s *SummaryService) Summarize(height float64, comp posterior.Composite) (posterior.Summary, error) {
	ages := make([]float64, 0, comp.Len())
	dropped := 0
	for _, d := range comp {
		age := s.curve.MeanAge(height, d.A, d.B)
		if math.IsNaN(age) || math.IsInf(age, 0) {
			dropped++
			continue
		}
		ages = append(ages, age)
	}
	if len(ages) == 0 {
		return posterior.Summary{}, errors.NumericDomain("no posterior draw is defined at this height")
	}
	if dropped > 0 {
		s.logger.Debug("height %.1f: dropped %d/%d draws outside the curve domain", height, dropped, comp.Len())
	}

	median, err := stats.Median(ages)
	if err != nil {
		return posterior.Summary{}, errors.Wrap(err, "median of posterior ages")
	}
	lo, hi := hpdi(ages, hpdiMass)

	return posterior.Summary{
		Height:    height,
		MedianAge: median,
		AgeMin:    lo,
		AgeMax:    hi,
		Dropped:   dropped,
	}, nil
}

// SummarizeGrid summarizes a strictly ascending grid of heights, fanning the
// per-height work out across goroutines. Results come back in grid order.
func (s *SummaryService) SummarizeGrid(ctx context.Context, heights []float64, comp posterior.Composite) ([]posterior.Summary, error) {
	if len(heights) == 0 {
		return nil, errors.InvalidInput("height grid is empty")
	}
	for i := 1; i < len(heights); i++ {
		if heights[i] <= heights[i-1] {
			return nil, errors.InvalidInput("height grid must be strictly ascending")
		}
	}

	summaries := make([]posterior.Summary, len(heights))
	g, ctx := errgroup.WithContext(ctx)
	for i, h := range heights {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			summary, err := s.Summarize(h, comp)
			if err != nil {
				return errors.Wrapf(err, "height %v", h)
			}
			summaries[i] = summary
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summaries, nil
}

// CorrelatedDifference estimates the duration between two heights using the
// same draw at both, so parameter uncertainty shared by the two ages cancels.
func (s *SummaryService) CorrelatedDifference(lower, upper float64, comp posterior.Composite) (posterior.DifferenceSummary, error) {
	if upper <= lower {
		return posterior.DifferenceSummary{}, errors.InvalidInput("upper height must exceed lower height")
	}
	diffs := make([]float64, 0, comp.Len())
	for _, d := range comp {
		diff := s.curve.MeanAge(lower, d.A, d.B) - s.curve.MeanAge(upper, d.A, d.B)
		if math.IsNaN(diff) || math.IsInf(diff, 0) {
			continue
		}
		diffs = append(diffs, diff)
	}
	return s.differenceSummary(diffs)
}

// IndependentDifference estimates the duration between two heights with the
// draw pairing broken by a seeded permutation, as if the two ages came from
// unrelated posteriors. It brackets the correlated estimate from above.
func (s *SummaryService) IndependentDifference(lower, upper float64, comp posterior.Composite) (posterior.DifferenceSummary, error) {
	if upper <= lower {
		return posterior.DifferenceSummary{}, errors.InvalidInput("upper height must exceed lower height")
	}
	rnd := s.rngPort.SeededStream(independentStream, s.seed)
	perm := rnd.Perm(comp.Len())

	diffs := make([]float64, 0, comp.Len())
	for i, d := range comp {
		other := comp[perm[i]]
		diff := s.curve.MeanAge(lower, d.A, d.B) - s.curve.MeanAge(upper, other.A, other.B)
		if math.IsNaN(diff) || math.IsInf(diff, 0) {
			continue
		}
		diffs = append(diffs, diff)
	}
	return s.differenceSummary(diffs)
}

func (s *SummaryService) differenceSummary(diffs []float64) (posterior.DifferenceSummary, error) {
	if len(diffs) == 0 {
		return posterior.DifferenceSummary{}, errors.NumericDomain("no posterior draw is defined at both heights")
	}
	median, err := stats.Median(diffs)
	if err != nil {
		return posterior.DifferenceSummary{}, errors.Wrap(err, "median of posterior differences")
	}
	lo, hi := hpdi(diffs, hpdiMass)
	return posterior.DifferenceSummary{Median: median, Lower95: lo, Upper95: hi}, nil
}

// hpdi returns the narrowest interval containing the requested mass: sort,
// then slide a fixed-size window and keep the tightest one.
func hpdi(values []float64, mass float64) (lo, hi float64) {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)
	m := int(math.Ceil(mass * float64(n)))
	if m < 1 {
		m = 1
	}
	if m > n {
		m = n
	}

	bestLo, bestHi := sorted[0], sorted[n-1]
	for i := 0; i+m-1 < n; i++ {
		if width := sorted[i+m-1] - sorted[i]; width < bestHi-bestLo {
			bestLo, bestHi = sorted[i], sorted[i+m-1]
		}
	}
	return bestLo, bestHi
}
