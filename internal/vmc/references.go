package vmc

import "errors"

// ExactGroundStateEnergy returns E0 of the 1D oscillator in reduced units
func ExactGroundStateEnergy() float64 {
	return 0.5
}

// VariationalEnergy returns the analytic energy of the Gaussian trial state,
// E(alpha) = (alpha + 1/alpha) / 4.
func VariationalEnergy(alpha float64) (float64, error) {
	if alpha <= 0 {
		return 0, errors.New("alpha must be positive")
	}
	return 0.25 * (alpha + 1.0/alpha), nil
}
