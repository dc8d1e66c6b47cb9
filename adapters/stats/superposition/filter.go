// Package superposition enforces stratigraphic ordering on bootstrap
// realizations: rocks higher in a section cannot be older than rocks below
// them.
package superposition

import (
	"sort"

	"agedepth/domain/strat"
	"agedepth/internal/errors"
)

// Filter prunes each realization down to a height-ascending, strictly
// age-descending subsequence. The iteration parity flips the scan direction,
// so over a full run neither the bottom nor the top of the section anchors
// the kept subsequence every time.
type Filter struct{}

// New creates a superposition filter.
func New() *Filter {
	return &Filter{}
}

// Apply sorts the draws by height and keeps an ordering-consistent
// subsequence. Odd iterations scan upward from the base, even iterations
// scan downward from the top. Fewer than two survivors cannot constrain a
// two-parameter curve, so that case is an error and the caller resamples.
func (f *Filter) Apply(draws []strat.Resample, iteration int) ([]strat.Resample, error) {
	if len(draws) < 2 {
		return nil, errors.DegenerateResample("superposition filter needs at least 2 draws")
	}

	sorted := make([]strat.Resample, len(draws))
	copy(sorted, draws)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Height < sorted[j].Height })

	var kept []strat.Resample
	if iteration%2 != 0 {
		kept = scanUp(sorted)
	} else {
		kept = scanDown(sorted)
	}

	if len(kept) < 2 {
		return nil, errors.DegenerateResample("superposition filter left fewer than 2 draws")
	}
	return kept, nil
}

// scanUp walks from the base of the section, keeping each draw strictly
// younger than the last kept one. The basal draw is always kept.
func scanUp(sorted []strat.Resample) []strat.Resample {
	kept := make([]strat.Resample, 0, len(sorted))
	kept = append(kept, sorted[0])
	for _, d := range sorted[1:] {
		if d.Age < kept[len(kept)-1].Age {
			kept = append(kept, d)
		}
	}
	return kept
}

// scanDown walks from the top of the section, keeping each draw strictly
// older than the last kept one. The top draw is always kept, and the result
// is restored to height-ascending order.
func scanDown(sorted []strat.Resample) []strat.Resample {
	kept := make([]strat.Resample, 0, len(sorted))
	kept = append(kept, sorted[len(sorted)-1])
	for i := len(sorted) - 2; i >= 0; i-- {
		if sorted[i].Age > kept[len(kept)-1].Age {
			kept = append(kept, sorted[i])
		}
	}
	// Reverse back to height-ascending order.
	for i, j := 0, len(kept)-1; i < j; i, j = i+1, j-1 {
		kept[i], kept[j] = kept[j], kept[i]
	}
	return kept
}
