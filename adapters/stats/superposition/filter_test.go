package superposition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agedepth/domain/strat"
	"agedepth/internal/errors"
)

func ordered(t *testing.T, kept []strat.Resample) {
	t.Helper()
	for i := 1; i < len(kept); i++ {
		if kept[i].Height < kept[i-1].Height {
			t.Fatalf("heights not ascending at %d: %v < %v", i, kept[i].Height, kept[i-1].Height)
		}
		if kept[i].Age >= kept[i-1].Age {
			t.Fatalf("ages not strictly descending at %d: %v >= %v", i, kept[i].Age, kept[i-1].Age)
		}
	}
}

func TestApplyConsistentInputPassesThrough(t *testing.T) {
	f := New()
	draws := []strat.Resample{
		{Height: 0, Age: 820},
		{Height: 500, Age: 750},
		{Height: 1000, Age: 700},
	}
	for _, iteration := range []int{1, 2} {
		kept, err := f.Apply(draws, iteration)
		require.NoError(t, err)
		assert.Equal(t, draws, kept, "iteration %d altered an already consistent realization", iteration)
	}
}

func TestApplyScanDirections(t *testing.T) {
	f := New()
	// The middle draw is older than both neighbors, so the two scan
	// directions disagree on which pair survives.
	draws := []strat.Resample{
		{Height: 0, Age: 7},
		{Height: 1, Age: 8},
		{Height: 2, Age: 5},
	}

	up, err := f.Apply(draws, 1)
	require.NoError(t, err)
	assert.Equal(t, []strat.Resample{{Height: 0, Age: 7}, {Height: 2, Age: 5}}, up)

	down, err := f.Apply(draws, 2)
	require.NoError(t, err)
	assert.Equal(t, []strat.Resample{{Height: 1, Age: 8}, {Height: 2, Age: 5}}, down)

	ordered(t, up)
	ordered(t, down)
}

func TestApplyUnsortedInput(t *testing.T) {
	f := New()
	draws := []strat.Resample{
		{Height: 1500, Age: 650},
		{Height: 0, Age: 820},
		{Height: 1000, Age: 702},
		{Height: 500, Age: 748},
	}
	for iteration := 1; iteration <= 4; iteration++ {
		kept, err := f.Apply(draws, iteration)
		require.NoError(t, err)
		assert.Len(t, kept, 4)
		ordered(t, kept)
	}
}

func TestApplyInvertedPair(t *testing.T) {
	f := New()
	// Lower rock resampled younger than the rock above it. Each scan keeps
	// only its anchor, so both parities degenerate.
	draws := []strat.Resample{
		{Height: 0, Age: 600},
		{Height: 100, Age: 800},
	}
	for _, iteration := range []int{1, 2} {
		_, err := f.Apply(draws, iteration)
		require.Error(t, err)
		assert.Equal(t, errors.CodeDegenerateResample, errors.GetCode(err))
	}
}

func TestApplyTiedAges(t *testing.T) {
	f := New()
	// Equal ages violate strict ordering; one of the tied pair must go.
	draws := []strat.Resample{
		{Height: 0, Age: 820},
		{Height: 500, Age: 750},
		{Height: 1000, Age: 750},
	}
	kept, err := f.Apply(draws, 1)
	require.NoError(t, err)
	assert.Len(t, kept, 2)
	ordered(t, kept)
}

func TestApplyTooFewDraws(t *testing.T) {
	f := New()
	_, err := f.Apply([]strat.Resample{{Height: 0, Age: 800}}, 1)
	require.Error(t, err)
	assert.Equal(t, errors.CodeDegenerateResample, errors.GetCode(err))
}
