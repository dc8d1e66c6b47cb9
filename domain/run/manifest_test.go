package run

import (
	"testing"

	"agedepth/domain/strat"
	"agedepth/domain/subsidence"
)

func TestNewManifest(t *testing.T) {
	section := strat.Section{
		Name: "enorama",
		Observations: []strat.Observation{
			{Height: 0, HeightShape: strat.ShapeNormal, Age: 820, AgeUncertainty: 5},
			{Height: 900, HeightShape: strat.ShapeNormal, Age: 780, AgeUncertainty: 4},
		},
	}
	m := NewManifest(section, 42, 7500, subsidence.DefaultConstants().Derive())

	if err := m.Validate(); err != nil {
		t.Fatalf("fresh manifest invalid: %v", err)
	}
	if m.SectionName != "enorama" || m.Observations != 2 {
		t.Errorf("section fields not captured: %+v", m)
	}
	if m.Seed != 42 || m.Iterations != 7500 {
		t.Errorf("run fields not captured: %+v", m)
	}
	if m.RunID.String() == "" {
		t.Error("run ID not assigned")
	}
	if m.CreatedAt.IsZero() {
		t.Error("created_at not assigned")
	}
}

func TestManifestValidate(t *testing.T) {
	m := &Manifest{}
	if err := m.Validate(); err == nil {
		t.Error("empty manifest accepted")
	}
}
