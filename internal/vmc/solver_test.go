package vmc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallConfig(alpha float64, seed int64) Config {
	return Config{
		NSteps:   4000,
		BurnIn:   400,
		StepSize: 1.0,
		Alpha:    alpha,
		Seed:     &seed,
	}
}

func TestLocalEnergyAtOptimalAlphaIsConstant(t *testing.T) {
	h := HarmonicOscillator{}
	for _, x := range []float64{-3, -0.5, 0, 0.25, 2} {
		assert.Equal(t, 0.5, h.LocalEnergy(x, 1.0))
	}
	assert.Equal(t, 2*h.LogTrialWavefunction(1.5, 0.7), h.LogProbabilityDensity(1.5, 0.7))
}

func TestSampleChainCounts(t *testing.T) {
	cfg := smallConfig(0.8, 7)
	trace, err := SampleChain(context.Background(), HarmonicOscillator{}, cfg)
	require.NoError(t, err)

	assert.Len(t, trace.LocalEnergies, cfg.NSteps-cfg.BurnIn)
	assert.Len(t, trace.Positions, cfg.NSteps-cfg.BurnIn)
	assert.Equal(t, cfg.NSteps, trace.AttemptedSteps)
	assert.Greater(t, trace.AcceptanceRatio(), 0.0)
	assert.LessOrEqual(t, trace.AcceptanceRatio(), 1.0)
}

func TestSampleChainIsReproducible(t *testing.T) {
	a, err := SampleChain(context.Background(), HarmonicOscillator{}, smallConfig(0.9, 99))
	require.NoError(t, err)
	b, err := SampleChain(context.Background(), HarmonicOscillator{}, smallConfig(0.9, 99))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSampleChainHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := SampleChain(ctx, HarmonicOscillator{}, smallConfig(1.0, 1))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEmptyTraceAcceptance(t *testing.T) {
	assert.Equal(t, 0.0, Trace{}.AcceptanceRatio())
}

func TestRunHarmonicOscillatorExactAlpha(t *testing.T) {
	res, err := RunHarmonicOscillator(context.Background(), smallConfig(1.0, 12345))
	require.NoError(t, err)

	assert.Equal(t, MethodName, res.Method)
	assert.Equal(t, "harmonic_oscillator_1d", res.System)
	assert.Equal(t, 3600, res.NSamples)
	assert.Equal(t, 0.5, res.MeanEnergy)
	assert.Equal(t, 0.0, res.StandardError)

	alpha, ok := res.Alpha()
	require.True(t, ok)
	assert.Equal(t, 1.0, alpha)
	exact, ok := res.ExactGroundStateEnergy()
	require.True(t, ok)
	assert.Equal(t, 0.5, exact)
	assert.Equal(t, int64(12345), res.Parameters["seed"])
}

func TestRunHarmonicOscillatorRejectsInvalidConfig(t *testing.T) {
	cfg := smallConfig(1.0, 1)
	cfg.StepSize = 0
	_, err := RunHarmonicOscillator(context.Background(), cfg)
	assert.True(t, IsValidationError(err))
}

func TestVariationalEnergy(t *testing.T) {
	e, err := VariationalEnergy(1.0)
	require.NoError(t, err)
	assert.Equal(t, ExactGroundStateEnergy(), e)

	e, err = VariationalEnergy(0.8)
	require.NoError(t, err)
	assert.InDelta(t, 0.5125, e, 1e-12)

	_, err = VariationalEnergy(0)
	assert.Error(t, err)
}
