package posterior

// Draw is one sample of the calibrated model parameters: intercept a (Ma),
// stretch parameter b, and residual scale sigma (Ma).
type Draw struct {
	A     float64 `json:"a"`
	B     float64 `json:"b"`
	Sigma float64 `json:"sigma"`
}

// Composite is the aggregate posterior: one draw per accepted bootstrap
// iteration, in acceptance order. Append-only during the run; immutable
// input to every downstream summary afterwards.
type Composite []Draw

// Len returns the number of accepted draws.
func (c Composite) Len() int { return len(c) }

// PriorState carries the Gaussian priors on a and b between iterations.
// The means drift empirically (each accepted draw replaces them); the
// spreads are fixed for the whole run and are never shrunk.
type PriorState struct {
	AMean  float64 `json:"a_mean"`
	ASigma float64 `json:"a_sigma"`
	BMean  float64 `json:"b_mean"`
	BSigma float64 `json:"b_sigma"`
}

// Advance replaces the prior means with an accepted draw's parameters.
// The sigma prior is never updated from data.
func (p *PriorState) Advance(d Draw) {
	p.AMean = d.A
	p.BMean = d.B
}

// Summary is the posterior age distribution at one query height, reduced to
// a median and a 95% highest-density interval. Dropped counts posterior
// draws whose model age was non-finite at this height and therefore
// excluded from the interval.
type Summary struct {
	Height    float64 `json:"height"`
	MedianAge float64 `json:"median_age"`
	AgeMin    float64 `json:"age_min"`
	AgeMax    float64 `json:"age_max"`
	Dropped   int     `json:"dropped,omitempty"`
}

// DifferenceSummary is the distribution of the age difference between two
// query heights, reduced to a median and a 95% highest-density interval.
type DifferenceSummary struct {
	Median  float64 `json:"median"`
	Lower95 float64 `json:"lower_95"`
	Upper95 float64 `json:"upper_95"`
}

// Width returns the HPDI width of the difference distribution.
func (d DifferenceSummary) Width() float64 {
	return d.Upper95 - d.Lower95
}
