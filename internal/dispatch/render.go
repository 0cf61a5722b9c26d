package dispatch

import (
	"fmt"
	"math"

	"github.com/kartoza/qmc-desk/internal/models"
)

// degenerateTolerance bounds the checks for the alpha = 1 zero-variance case
const degenerateTolerance = 1e-12

// DegenerateNote explains a zero-variance result at the exact trial wavefunction
const DegenerateNote = "Note: alpha = 1.0 is the exact ground state of this trial family, " +
	"so the local energy is constant and the standard error is zero. " +
	"Try smaller alpha values (for example 0.8 or 0.6) to observe sampling fluctuations."

// Render turns a result into display lines
func Render(r models.SimulationResult) []string {
	lines := []string{
		"Method: " + r.Method,
		"System: " + r.System,
		fmt.Sprintf("Samples: %d", r.NSamples),
		"Mean energy: " + fixed(r.MeanEnergy, 8),
		"Standard error: " + fixed(r.StandardError, 8),
		"Acceptance ratio: " + fixed(r.AcceptanceRatio, 4),
	}

	exact, ok := r.ExactGroundStateEnergy()
	if !ok {
		return lines
	}

	delta := r.MeanEnergy - exact
	lines = append(lines,
		"Exact energy: "+fixed(exact, 8),
		"Difference (estimate - exact): "+fixed(delta, 8),
	)

	if alpha, ok := r.Alpha(); ok &&
		math.Abs(alpha-1.0) <= degenerateTolerance &&
		math.Abs(r.StandardError) <= degenerateTolerance &&
		math.Abs(delta) <= degenerateTolerance {
		lines = append(lines, DegenerateNote)
	}

	return lines
}

// fixed formats x in plain decimal notation at any magnitude
func fixed(x float64, digits int) string {
	return fmt.Sprintf("%.*f", digits, x)
}
