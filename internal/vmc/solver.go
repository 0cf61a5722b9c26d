package vmc

import (
	"context"
	"errors"

	"github.com/kartoza/qmc-desk/internal/models"
)

// MethodName is the label reported in every result
const MethodName = "VMC (Metropolis)"

// ErrNoSamples is returned when burn-in leaves nothing to average
var ErrNoSamples = errors.New("no samples collected; check n_steps and burn_in")

// RunHarmonicOscillator runs VMC on the 1D harmonic oscillator.
//
// The exact ground-state energy is 0.5 in these units, so every result carries
// it in its metadata as an immediate correctness check.
func RunHarmonicOscillator(ctx context.Context, cfg Config) (models.SimulationResult, error) {
	if err := cfg.Validate(); err != nil {
		return models.SimulationResult{}, err
	}

	sys := HarmonicOscillator{}
	trace, err := SampleChain(ctx, sys, cfg)
	if err != nil {
		return models.SimulationResult{}, err
	}
	if len(trace.LocalEnergies) == 0 {
		return models.SimulationResult{}, ErrNoSamples
	}

	mean, err := Mean(trace.LocalEnergies)
	if err != nil {
		return models.SimulationResult{}, err
	}
	stderr, err := StandardError(trace.LocalEnergies)
	if err != nil {
		return models.SimulationResult{}, err
	}

	var seed interface{}
	if cfg.Seed != nil {
		seed = *cfg.Seed
	}

	return models.SimulationResult{
		Method:          MethodName,
		System:          sys.Name(),
		NSamples:        len(trace.LocalEnergies),
		MeanEnergy:      mean,
		StandardError:   stderr,
		AcceptanceRatio: trace.AcceptanceRatio(),
		Parameters: map[string]interface{}{
			"alpha":            cfg.Alpha,
			"n_steps":          cfg.NSteps,
			"burn_in":          cfg.BurnIn,
			"step_size":        cfg.StepSize,
			"initial_position": cfg.InitialPosition,
			"seed":             seed,
		},
		Metadata: map[string]interface{}{
			"exact_ground_state_energy": ExactGroundStateEnergy(),
			"notes":                     "Use alpha near 1.0 for best agreement in this simple trial family.",
		},
	}, nil
}
