package strat

import (
	"math"
	"strings"
	"testing"
)

func validObservation() Observation {
	return Observation{
		Label:             "ash-1",
		Height:            120,
		HeightUncertainty: 10,
		HeightShape:       ShapeNormal,
		Age:               805.2,
		AgeUncertainty:    1.4,
	}
}

func TestParseShape(t *testing.T) {
	cases := map[string]UncertaintyShape{
		"normal":   ShapeNormal,
		" Normal ": ShapeNormal,
		"uniform":  ShapeUniform,
		"detrital": ShapeUniform,
		"":         ShapeUniform,
	}
	for in, want := range cases {
		if got := ParseShape(in); got != want {
			t.Errorf("ParseShape(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestObservationValidate(t *testing.T) {
	if err := validObservation().Validate(); err != nil {
		t.Fatalf("valid observation rejected: %v", err)
	}

	bad := validObservation()
	bad.AgeUncertainty = -1
	if err := bad.Validate(); err == nil {
		t.Error("negative age uncertainty accepted")
	}

	bad = validObservation()
	bad.Height = math.NaN()
	if err := bad.Validate(); err == nil {
		t.Error("NaN height accepted")
	}

	bad = validObservation()
	bad.HeightShape = "triangular"
	if err := bad.Validate(); err == nil {
		t.Error("unknown uncertainty shape accepted")
	}
}

func TestSectionValidate(t *testing.T) {
	sec := Section{Name: "test", Observations: []Observation{validObservation()}}
	err := sec.Validate()
	if err == nil {
		t.Fatal("single-observation section accepted")
	}
	if !strings.Contains(err.Error(), "at least 2") {
		t.Errorf("unexpected error message: %v", err)
	}

	sec.Observations = append(sec.Observations, Observation{
		Height: 300, HeightUncertainty: 20, HeightShape: ShapeUniform,
		Age: 790, AgeUncertainty: 2,
	})
	if err := sec.Validate(); err != nil {
		t.Fatalf("two-observation section rejected: %v", err)
	}
	if got := sec.Top(); got != 300 {
		t.Errorf("Top() = %v, want 300", got)
	}
}
