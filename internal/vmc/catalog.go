package vmc

import "github.com/kartoza/qmc-desk/internal/models"

// Methods lists the QMC methods available in this build
func Methods() []models.MethodInfo {
	return []models.MethodInfo{
		{
			ID:          "vmc_metropolis",
			Name:        "Variational Monte Carlo (Metropolis)",
			Description: "Random-walk Metropolis sampling of |psi_T|^2.",
			Systems:     []string{HarmonicOscillator{}.Name()},
		},
	}
}

// Systems lists the physical systems available in this build
func Systems() []models.SystemInfo {
	return []models.SystemInfo{
		{
			ID:        HarmonicOscillator{}.Name(),
			Name:      "1D Harmonic Oscillator",
			Dimension: "1D",
			Notes:     "Educational baseline with exact ground-state energy E0 = 0.5.",
		},
	}
}
