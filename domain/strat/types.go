package strat

import (
	"fmt"
	"math"
	"strings"
)

// UncertaintyShape selects the distribution a stratigraphic height is
// resampled from. Ages are always treated as Gaussian.
type UncertaintyShape string

const (
	ShapeNormal  UncertaintyShape = "normal"
	ShapeUniform UncertaintyShape = "uniform"
)

// ParseShape maps an input uncertainty tag onto a shape. "normal" selects the
// Gaussian shape; any other non-empty tag is read as uniform, matching the
// loose tagging found in field data tables.
func ParseShape(s string) UncertaintyShape {
	if strings.EqualFold(strings.TrimSpace(s), string(ShapeNormal)) {
		return ShapeNormal
	}
	return ShapeUniform
}

// Observation is one dated horizon in a measured section. Uncertainties are
// stored as 95%-interval half-widths in the same units as the value they
// qualify. Observations are read-only input to the calibration engine.
type Observation struct {
	Label             string           `json:"label,omitempty"`
	Height            float64          `json:"height"`
	HeightUncertainty float64          `json:"height_uncertainty"`
	HeightShape       UncertaintyShape `json:"height_shape"`
	Age               float64          `json:"age"`
	AgeUncertainty    float64          `json:"age_uncertainty"`
}

// Validate checks a single observation for use in a fit.
func (o Observation) Validate() error {
	for name, v := range map[string]float64{
		"height":             o.Height,
		"height_uncertainty": o.HeightUncertainty,
		"age":                o.Age,
		"age_uncertainty":    o.AgeUncertainty,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("observation %q: %s is not finite", o.Label, name)
		}
	}
	if o.HeightUncertainty < 0 {
		return fmt.Errorf("observation %q: height uncertainty must be non-negative", o.Label)
	}
	if o.AgeUncertainty < 0 {
		return fmt.Errorf("observation %q: age uncertainty must be non-negative", o.Label)
	}
	if o.HeightShape != ShapeNormal && o.HeightShape != ShapeUniform {
		return fmt.Errorf("observation %q: unknown height uncertainty shape %q", o.Label, o.HeightShape)
	}
	return nil
}

// Section is an ordered set of dated horizons for one stratigraphic column.
type Section struct {
	Name         string        `json:"name"`
	Observations []Observation `json:"observations"`
}

// Validate runs the eager pre-loop checks. A section that fails here is a
// configuration error; validation problems are never surfaced mid-run.
func (s Section) Validate() error {
	if len(s.Observations) < 2 {
		return fmt.Errorf("section %q: need at least 2 observations, got %d", s.Name, len(s.Observations))
	}
	for _, o := range s.Observations {
		if err := o.Validate(); err != nil {
			return fmt.Errorf("section %q: %w", s.Name, err)
		}
	}
	return nil
}

// Top returns the greatest observation height in the section.
func (s Section) Top() float64 {
	top := math.Inf(-1)
	for _, o := range s.Observations {
		if o.Height > top {
			top = o.Height
		}
	}
	return top
}

// Resample is one stochastic realization of an observation within a single
// bootstrap iteration. It carries no identity beyond that iteration.
type Resample struct {
	Height float64 `json:"height"`
	Age    float64 `json:"age"`
}
