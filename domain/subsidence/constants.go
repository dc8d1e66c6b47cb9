package subsidence

import (
	"fmt"
	"math"
)

// PhysicalConstants parameterizes the McKenzie plate-cooling model used as
// the mean age-depth function. Thickness in meters, densities in kg/m^3,
// diffusivity in m^2/s, temperature in degrees C, expansion in 1/K.
type PhysicalConstants struct {
	LithosphereThicknessM float64 `json:"lithosphere_thickness_m"`
	MantleDensity         float64 `json:"mantle_density"`
	SedimentDensity       float64 `json:"sediment_density"`
	WaterDensity          float64 `json:"water_density"`
	ThermalDiffusivity    float64 `json:"thermal_diffusivity"`
	MantleTemperatureC    float64 `json:"mantle_temperature_c"`
	ThermalExpansion      float64 `json:"thermal_expansion"`
	SecondsPerMyr         float64 `json:"seconds_per_myr"`
}

// DefaultConstants returns the reference plate-model parameterization.
func DefaultConstants() PhysicalConstants {
	return PhysicalConstants{
		LithosphereThicknessM: 125e3,
		MantleDensity:         3330,
		SedimentDensity:       2500,
		WaterDensity:          1030,
		ThermalDiffusivity:    8e-7,
		MantleTemperatureC:    1333,
		ThermalExpansion:      3.28e-5,
		SecondsPerMyr:         3.1536e13,
	}
}

// Validate checks the constants for physical plausibility.
func (p PhysicalConstants) Validate() error {
	for name, v := range map[string]float64{
		"lithosphere thickness": p.LithosphereThicknessM,
		"mantle density":        p.MantleDensity,
		"sediment density":      p.SedimentDensity,
		"water density":         p.WaterDensity,
		"thermal diffusivity":   p.ThermalDiffusivity,
		"mantle temperature":    p.MantleTemperatureC,
		"thermal expansion":     p.ThermalExpansion,
		"seconds per Myr":       p.SecondsPerMyr,
	} {
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("subsidence constants: %s must be positive and finite", name)
		}
	}
	if p.MantleDensity <= p.SedimentDensity || p.SedimentDensity <= p.WaterDensity {
		return fmt.Errorf("subsidence constants: densities must satisfy mantle > sediment > water")
	}
	return nil
}

// Derived holds the two scalars the curve actually consumes, computed once
// at startup and immutable for the rest of the run.
type Derived struct {
	// Correction is the sediment-loaded total subsidence scale E0 in meters:
	// 4*yL*rho_m*alpha*Tm / (pi^2 * (rho_m - rho_s)). The water-loaded
	// McKenzie scale times the sediment loading factor
	// (rho_m - rho_w)/(rho_m - rho_s).
	Correction float64 `json:"correction"`
	// DecayMyr is the lithospheric thermal decay constant tau = yL^2/(pi^2*kappa)
	// converted from seconds to Myr so ages stay in Ma.
	DecayMyr float64 `json:"decay_myr"`
}

// Derive combines the constants into the correction and decay scalars.
func (p PhysicalConstants) Derive() Derived {
	pi2 := math.Pi * math.Pi
	waterLoaded := 4 * p.LithosphereThicknessM * p.MantleDensity * p.ThermalExpansion *
		p.MantleTemperatureC / (pi2 * (p.MantleDensity - p.WaterDensity))
	loading := (p.MantleDensity - p.WaterDensity) / (p.MantleDensity - p.SedimentDensity)
	tauSeconds := p.LithosphereThicknessM * p.LithosphereThicknessM / (pi2 * p.ThermalDiffusivity)
	return Derived{
		Correction: waterLoaded * loading,
		DecayMyr:   tauSeconds / p.SecondsPerMyr,
	}
}
