package resampler

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/montanaflynn/stats"

	"agedepth/domain/strat"
)

func draws(t *testing.T, obs strat.Observation, n int) (heights, ages []float64) {
	t.Helper()
	r := New(rand.New(rand.NewPCG(7, 11)))
	heights = make([]float64, n)
	ages = make([]float64, n)
	for i := 0; i < n; i++ {
		d := r.Resample(obs)
		heights[i] = d.Height
		ages[i] = d.Age
	}
	return heights, ages
}

func TestNormalMoments(t *testing.T) {
	obs := strat.Observation{
		Height:            500,
		HeightUncertainty: 20,
		HeightShape:       strat.ShapeNormal,
		Age:               750,
		AgeUncertainty:    5,
	}
	heights, ages := draws(t, obs, 20000)

	hm, _ := stats.Mean(heights)
	hs, _ := stats.StandardDeviation(heights)
	am, _ := stats.Mean(ages)
	as, _ := stats.StandardDeviation(ages)

	// Half-width convention: sd is half the reported uncertainty.
	if math.Abs(hm-500) > 0.5 {
		t.Errorf("height mean = %v, want ~500", hm)
	}
	if math.Abs(hs-10) > 0.5 {
		t.Errorf("height sd = %v, want ~10", hs)
	}
	if math.Abs(am-750) > 0.15 {
		t.Errorf("age mean = %v, want ~750", am)
	}
	if math.Abs(as-2.5) > 0.15 {
		t.Errorf("age sd = %v, want ~2.5", as)
	}
}

func TestUniformHeightBounds(t *testing.T) {
	obs := strat.Observation{
		Height:            1000,
		HeightUncertainty: 40,
		HeightShape:       strat.ShapeUniform,
		Age:               700,
		AgeUncertainty:    5,
	}
	heights, _ := draws(t, obs, 20000)

	lo, _ := stats.Min(heights)
	hi, _ := stats.Max(heights)
	if lo < 980 || hi > 1020 {
		t.Errorf("uniform heights escaped [980, 1020]: min=%v max=%v", lo, hi)
	}
	// A 20000-draw sample should brush both edges of a 40 m interval.
	if lo > 981 || hi < 1019 {
		t.Errorf("uniform heights did not cover the interval: min=%v max=%v", lo, hi)
	}
	mean, _ := stats.Mean(heights)
	if math.Abs(mean-1000) > 0.5 {
		t.Errorf("uniform height mean = %v, want ~1000", mean)
	}
}

func TestZeroUncertaintyIsExact(t *testing.T) {
	obs := strat.Observation{
		Height:      250,
		HeightShape: strat.ShapeNormal,
		Age:         810,
	}
	heights, ages := draws(t, obs, 50)
	for i := range heights {
		if heights[i] != 250 || ages[i] != 810 {
			t.Fatalf("draw %d moved an exact observation: (%v, %v)", i, heights[i], ages[i])
		}
	}
}

func TestSameStreamReplays(t *testing.T) {
	obs := strat.Observation{
		Height:            500,
		HeightUncertainty: 20,
		HeightShape:       strat.ShapeNormal,
		Age:               750,
		AgeUncertainty:    5,
	}
	a := New(rand.New(rand.NewPCG(42, 0)))
	b := New(rand.New(rand.NewPCG(42, 0)))
	for i := 0; i < 20; i++ {
		if da, db := a.Resample(obs), b.Resample(obs); da != db {
			t.Fatalf("draw %d diverged: %+v != %+v", i, da, db)
		}
	}
}
