package vmc

// System is a model that can be sampled by the Metropolis walker
type System interface {
	Name() string
	LogProbabilityDensity(x, alpha float64) float64
	LocalEnergy(x, alpha float64) float64
}

// HarmonicOscillator is the 1D oscillator in units hbar = m = omega = 1
// with trial wavefunction psi_T(x) = exp(-alpha x^2 / 2).
type HarmonicOscillator struct{}

// Name returns the system identifier
func (HarmonicOscillator) Name() string {
	return "harmonic_oscillator_1d"
}

// LogTrialWavefunction returns log(psi_T(x; alpha))
func (HarmonicOscillator) LogTrialWavefunction(x, alpha float64) float64 {
	return -0.5 * alpha * x * x
}

// LogProbabilityDensity returns log(|psi_T|^2)
func (h HarmonicOscillator) LogProbabilityDensity(x, alpha float64) float64 {
	return 2.0 * h.LogTrialWavefunction(x, alpha)
}

// LocalEnergy returns E_L(x) = alpha/2 + (1 - alpha^2) x^2 / 2
func (HarmonicOscillator) LocalEnergy(x, alpha float64) float64 {
	return 0.5*alpha + 0.5*(1.0-alpha*alpha)*x*x
}
