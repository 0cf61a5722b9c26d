package vmc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunBenchmarksDefaultSuitePasses(t *testing.T) {
	suite, err := RunBenchmarks(context.Background(), DefaultBenchmarkConfig())
	require.NoError(t, err)

	assert.Equal(t, SuiteName, suite.SuiteName)
	assert.Equal(t, 3, suite.TotalCases)
	assert.True(t, suite.AllPassed, suite.PrettyText())
	assert.Equal(t, 0, suite.FailedCases)
	assert.Equal(t, "ho_exact_alpha_1.0", suite.Cases[0].CaseID)
	assert.Equal(t, 0.0, suite.Cases[0].AbsError)
}

func TestRunBenchmarksPropagatesInvalidConfig(t *testing.T) {
	bc := DefaultBenchmarkConfig()
	bc.BurnIn = bc.NSteps
	_, err := RunBenchmarks(context.Background(), bc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ho_exact_alpha_1.0")
}

func TestPrettyText(t *testing.T) {
	suite := SuiteResult{
		SuiteName:   SuiteName,
		Method:      MethodName,
		System:      "harmonic_oscillator_1d",
		TotalCases:  1,
		PassedCases: 0,
		FailedCases: 1,
		Cases: []CaseResult{
			{CaseID: "c1", MeasuredEnergy: 0.6, ReferenceEnergy: 0.5, AbsError: 0.1, Tolerance: 0.02},
		},
	}

	text := suite.PrettyText()
	assert.Contains(t, text, "Overall: FAIL (0/1 cases passed)")
	assert.Contains(t, text, " - [FAIL] c1: measured=0.60000000, reference=0.50000000")
}

func TestCatalog(t *testing.T) {
	methods := Methods()
	require.Len(t, methods, 1)
	assert.Equal(t, "vmc_metropolis", methods[0].ID)
	assert.Equal(t, []string{"harmonic_oscillator_1d"}, methods[0].Systems)

	systems := Systems()
	require.Len(t, systems, 1)
	assert.Equal(t, "1D", systems[0].Dimension)
}
