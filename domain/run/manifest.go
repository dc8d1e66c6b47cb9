package run

import (
	"fmt"

	"agedepth/domain/core"
	"agedepth/domain/strat"
	"agedepth/domain/subsidence"
)

// Manifest records everything needed to replay a calibration run: the seed,
// the iteration budget, the section shape, and the derived physical scalars.
// It is created before the first iteration so that even aborted runs leave
// an audit trail.
type Manifest struct {
	RunID        core.RunID         `json:"run_id"`
	SectionName  string             `json:"section_name"`
	Observations int                `json:"observations"`
	Seed         int64              `json:"seed"`
	Iterations   int                `json:"iterations"`
	Derived      subsidence.Derived `json:"derived"`
	CreatedAt    core.Timestamp     `json:"created_at"`
}

// NewManifest creates a manifest for one calibration run.
func NewManifest(section strat.Section, seed int64, iterations int, derived subsidence.Derived) *Manifest {
	return &Manifest{
		RunID:        core.RunID(core.NewID()),
		SectionName:  section.Name,
		Observations: len(section.Observations),
		Seed:         seed,
		Iterations:   iterations,
		Derived:      derived,
		CreatedAt:    core.Now(),
	}
}

// Validate checks if the manifest is complete.
func (m *Manifest) Validate() error {
	if core.ID(m.RunID).IsEmpty() {
		return fmt.Errorf("run manifest: run_id cannot be empty")
	}
	if m.Observations < 2 {
		return fmt.Errorf("run manifest: need at least 2 observations, got %d", m.Observations)
	}
	if m.Iterations <= 0 {
		return fmt.Errorf("run manifest: iterations must be positive, got %d", m.Iterations)
	}
	return nil
}
