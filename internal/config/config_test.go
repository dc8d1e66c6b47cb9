package config

import (
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default configuration invalid: %v", err)
	}
}

func TestLoadAppliesOverrides(t *testing.T) {
	t.Setenv("AGE_SEED", "7")
	t.Setenv("AGE_ITERATIONS", "100")
	t.Setenv("PRIOR_B_MEAN", "1.5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Run.Seed != 7 || cfg.Run.Iterations != 100 {
		t.Errorf("run overrides not applied: %+v", cfg.Run)
	}
	if cfg.Prior.BMean != 1.5 {
		t.Errorf("prior override not applied: %+v", cfg.Prior)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("AGE_ITERATIONS", "-5")
	if _, err := Load(); err == nil {
		t.Error("negative iteration count accepted")
	}

	t.Setenv("AGE_ITERATIONS", "100")
	t.Setenv("FIT_START_SIGMA", "50")
	if _, err := Load(); err == nil {
		t.Error("starting sigma beyond the sigma bound accepted")
	}
}
