package subsidence

import (
	"math"
)

// Curve is the closed-form thermal-subsidence mean age model. It is the
// regression mean function inside the fitter and the query function for
// posterior summaries.
type Curve struct {
	derived Derived
}

// NewCurve validates the constants and precomputes the derived scalars.
func NewCurve(p PhysicalConstants) (*Curve, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Curve{derived: p.Derive()}, nil
}

// Derived exposes the precomputed correction and decay scalars.
func (c *Curve) Derived() Derived {
	return c.derived
}

// MeanAge returns the model age in Ma at the given stratigraphic height for
// intercept a (Ma) and stretch parameter b.
//
//	age(h) = a + tau * ln(1 - (h/E0) * (pi/b) / sin(pi/b))
//
// The function is only defined for b > 0 with a positive log argument.
// Outside that domain it returns NaN; callers are expected to tolerate and
// propagate non-finite values rather than fail the run.
func (c *Curve) MeanAge(height, a, b float64) float64 {
	if b <= 0 {
		return math.NaN()
	}
	stretch := math.Pi / b
	arg := 1 - (height/c.derived.Correction)*stretch/math.Sin(stretch)
	if arg <= 0 || math.IsNaN(arg) {
		return math.NaN()
	}
	return a + c.derived.DecayMyr*math.Log(arg)
}
