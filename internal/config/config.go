package config

import (
	"os"
	"strconv"

	"agedepth/domain/posterior"
	"agedepth/domain/subsidence"
	"agedepth/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Run      RunConfig
	Prior    PriorConfig
	Fit      FitConfig
	Physical subsidence.PhysicalConstants
}

// RunConfig holds the bootstrap run settings
type RunConfig struct {
	Seed       int64
	Iterations int
	MaxRetries int
}

// PriorConfig holds the initial Gaussian priors on the curve parameters
type PriorConfig struct {
	AMean  float64
	ASigma float64
	BMean  float64
	BSigma float64
}

// FitConfig holds the per-iteration fit settings
type FitConfig struct {
	SigmaMax   float64
	StartA     float64
	StartB     float64
	StartSigma float64
}

// Default returns the reference configuration used when no environment
// overrides are present.
func Default() *Config {
	return &Config{
		Run: RunConfig{
			Seed:       42,
			Iterations: 7500,
			MaxRetries: 25,
		},
		Prior: PriorConfig{
			AMean:  817,
			ASigma: 5,
			BMean:  1.3,
			BSigma: 0.2,
		},
		Fit: FitConfig{
			SigmaMax:   10,
			StartA:     817,
			StartB:     1.3,
			StartSigma: 1,
		},
		Physical: subsidence.DefaultConstants(),
	}
}

// Load reads configuration from environment variables over the defaults and
// validates the result.
func Load() (*Config, error) {
	cfg := Default()

	cfg.Run = RunConfig{
		Seed:       getEnvInt64OrDefault("AGE_SEED", cfg.Run.Seed),
		Iterations: getEnvIntOrDefault("AGE_ITERATIONS", cfg.Run.Iterations),
		MaxRetries: getEnvIntOrDefault("AGE_MAX_RETRIES", cfg.Run.MaxRetries),
	}
	cfg.Prior = PriorConfig{
		AMean:  getEnvFloatOrDefault("PRIOR_A_MEAN", cfg.Prior.AMean),
		ASigma: getEnvFloatOrDefault("PRIOR_A_SIGMA", cfg.Prior.ASigma),
		BMean:  getEnvFloatOrDefault("PRIOR_B_MEAN", cfg.Prior.BMean),
		BSigma: getEnvFloatOrDefault("PRIOR_B_SIGMA", cfg.Prior.BSigma),
	}
	cfg.Fit = FitConfig{
		SigmaMax:   getEnvFloatOrDefault("FIT_SIGMA_MAX", cfg.Fit.SigmaMax),
		StartA:     getEnvFloatOrDefault("FIT_START_A", cfg.Fit.StartA),
		StartB:     getEnvFloatOrDefault("FIT_START_B", cfg.Fit.StartB),
		StartSigma: getEnvFloatOrDefault("FIT_START_SIGMA", cfg.Fit.StartSigma),
	}
	cfg.Physical = loadPhysicalConstants(cfg.Physical)

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

func loadPhysicalConstants(p subsidence.PhysicalConstants) subsidence.PhysicalConstants {
	p.LithosphereThicknessM = getEnvFloatOrDefault("LITHOSPHERE_THICKNESS_M", p.LithosphereThicknessM)
	p.MantleDensity = getEnvFloatOrDefault("MANTLE_DENSITY", p.MantleDensity)
	p.SedimentDensity = getEnvFloatOrDefault("SEDIMENT_DENSITY", p.SedimentDensity)
	p.WaterDensity = getEnvFloatOrDefault("WATER_DENSITY", p.WaterDensity)
	p.ThermalDiffusivity = getEnvFloatOrDefault("THERMAL_DIFFUSIVITY", p.ThermalDiffusivity)
	p.MantleTemperatureC = getEnvFloatOrDefault("MANTLE_TEMPERATURE_C", p.MantleTemperatureC)
	p.ThermalExpansion = getEnvFloatOrDefault("THERMAL_EXPANSION", p.ThermalExpansion)
	return p
}

// Validate checks the full configuration eagerly so a bad environment fails
// before any iterations run.
func (c *Config) Validate() error {
	if c.Run.Iterations <= 0 {
		return errors.ConfigInvalid("iterations must be positive")
	}
	if c.Run.MaxRetries <= 0 {
		return errors.ConfigInvalid("max retries must be positive")
	}
	if c.Prior.ASigma <= 0 || c.Prior.BSigma <= 0 {
		return errors.ConfigInvalid("prior sigmas must be positive")
	}
	if c.Fit.SigmaMax <= 0 {
		return errors.ConfigInvalid("sigma upper bound must be positive")
	}
	if c.Fit.StartSigma <= 0 || c.Fit.StartSigma >= c.Fit.SigmaMax {
		return errors.ConfigInvalid("starting sigma must lie inside (0, sigma max)")
	}
	if err := c.Physical.Validate(); err != nil {
		return errors.Wrap(err, "physical constants invalid")
	}
	return nil
}

// PriorState converts the configured priors into the mutable prior carried
// across iterations.
func (c *Config) PriorState() posterior.PriorState {
	return posterior.PriorState{
		AMean:  c.Prior.AMean,
		ASigma: c.Prior.ASigma,
		BMean:  c.Prior.BMean,
		BSigma: c.Prior.BSigma,
	}
}

// Helper functions for environment variable parsing
func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
