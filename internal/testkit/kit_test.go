package testkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferenceSectionIsValid(t *testing.T) {
	section := ReferenceSection()
	require.NoError(t, section.Validate())
	assert.Len(t, section.Observations, 5)
	assert.Equal(t, 2000.0, section.Top())
}

func TestKitWiresFromConfig(t *testing.T) {
	kit, err := NewDefaultKit()
	require.NoError(t, err)

	req := kit.CalibrationRequest(ReferenceSection(), 42)
	assert.Equal(t, kit.Config().Run.Iterations, req.Iterations)
	assert.Equal(t, kit.Config().Run.MaxRetries, req.MaxRetries)
	assert.Equal(t, kit.Config().Prior.AMean, req.Prior.AMean)

	require.NotNil(t, kit.Calibrator(42))
	require.NotNil(t, kit.Summarizer(42))
	assert.InDelta(t, 8887, kit.Curve().Derived().Correction, 100)
}
