package vmc

import (
	"context"
	"fmt"
	"math"
	"strings"
)

// SuiteName identifies the built-in reference suite
const SuiteName = "vmc_harmonic_oscillator_reference_suite"

// BenchmarkCase defines one reference target
type BenchmarkCase struct {
	ID              string
	Description     string
	Alpha           float64
	ReferenceEnergy float64
	Tolerance       float64
	ReferenceSource string
}

// CaseResult is the outcome of one benchmark case
type CaseResult struct {
	CaseID          string  `json:"case_id"`
	Description     string  `json:"description"`
	Alpha           float64 `json:"alpha"`
	ReferenceEnergy float64 `json:"reference_energy"`
	MeasuredEnergy  float64 `json:"measured_energy"`
	StandardError   float64 `json:"standard_error"`
	AbsError        float64 `json:"abs_error"`
	Tolerance       float64 `json:"tolerance"`
	Passed          bool    `json:"passed"`
	AcceptanceRatio float64 `json:"acceptance_ratio"`
	NSamples        int     `json:"n_samples"`
	ReferenceSource string  `json:"reference_source"`
}

// SuiteResult summarises a benchmark run
type SuiteResult struct {
	SuiteName   string       `json:"suite_name"`
	Method      string       `json:"method"`
	System      string       `json:"system"`
	TotalCases  int          `json:"total_cases"`
	PassedCases int          `json:"passed_cases"`
	FailedCases int          `json:"failed_cases"`
	AllPassed   bool         `json:"all_passed"`
	Cases       []CaseResult `json:"cases"`
}

// BenchmarkConfig holds the controls shared by every case
type BenchmarkConfig struct {
	NSteps          int
	BurnIn          int
	StepSize        float64
	InitialPosition float64
	Seed            *int64
}

// DefaultBenchmarkConfig returns the suite defaults
func DefaultBenchmarkConfig() BenchmarkConfig {
	seed := int64(DefaultSeed)
	return BenchmarkConfig{
		NSteps:   30_000,
		BurnIn:   3_000,
		StepSize: 1.0,
		Seed:     &seed,
	}
}

// DefaultCases returns the analytic reference cases
func DefaultCases() []BenchmarkCase {
	exactSource := "Exact harmonic oscillator ground-state energy E0 = 1/2 in reduced units " +
		"(standard quantum mechanics result)."
	variationalSource := "Gaussian trial variational energy E(alpha) = 1/4(alpha + 1/alpha) " +
		"for psi_T(x;alpha)=exp(-alpha x^2/2)."

	e08, _ := VariationalEnergy(0.8)
	e12, _ := VariationalEnergy(1.2)

	return []BenchmarkCase{
		{
			ID:              "ho_exact_alpha_1.0",
			Description:     "Exact-energy check with optimal alpha=1.0",
			Alpha:           1.0,
			ReferenceEnergy: ExactGroundStateEnergy(),
			Tolerance:       1e-12,
			ReferenceSource: exactSource,
		},
		{
			ID:              "ho_variational_alpha_0.8",
			Description:     "Variational reference check with alpha=0.8",
			Alpha:           0.8,
			ReferenceEnergy: e08,
			Tolerance:       0.02,
			ReferenceSource: variationalSource,
		},
		{
			ID:              "ho_variational_alpha_1.2",
			Description:     "Variational reference check with alpha=1.2",
			Alpha:           1.2,
			ReferenceEnergy: e12,
			Tolerance:       0.02,
			ReferenceSource: variationalSource,
		},
	}
}

// RunBenchmarks runs the reference suite; each case uses seed+index when seeded
func RunBenchmarks(ctx context.Context, bc BenchmarkConfig) (SuiteResult, error) {
	suite := SuiteResult{
		SuiteName: SuiteName,
		Method:    MethodName,
		System:    HarmonicOscillator{}.Name(),
	}

	for i, c := range DefaultCases() {
		cfg := Config{
			NSteps:          bc.NSteps,
			BurnIn:          bc.BurnIn,
			StepSize:        bc.StepSize,
			Alpha:           c.Alpha,
			InitialPosition: bc.InitialPosition,
		}
		if bc.Seed != nil {
			seed := *bc.Seed + int64(i)
			cfg.Seed = &seed
		}

		res, err := RunHarmonicOscillator(ctx, cfg)
		if err != nil {
			return SuiteResult{}, fmt.Errorf("benchmark case %s: %w", c.ID, err)
		}

		absErr := math.Abs(res.MeanEnergy - c.ReferenceEnergy)
		suite.Cases = append(suite.Cases, CaseResult{
			CaseID:          c.ID,
			Description:     c.Description,
			Alpha:           c.Alpha,
			ReferenceEnergy: c.ReferenceEnergy,
			MeasuredEnergy:  res.MeanEnergy,
			StandardError:   res.StandardError,
			AbsError:        absErr,
			Tolerance:       c.Tolerance,
			Passed:          absErr <= c.Tolerance,
			AcceptanceRatio: res.AcceptanceRatio,
			NSamples:        res.NSamples,
			ReferenceSource: c.ReferenceSource,
		})
	}

	suite.TotalCases = len(suite.Cases)
	for _, c := range suite.Cases {
		if c.Passed {
			suite.PassedCases++
		}
	}
	suite.FailedCases = suite.TotalCases - suite.PassedCases
	suite.AllPassed = suite.FailedCases == 0

	return suite, nil
}

// PrettyText renders the suite summary for terminals
func (s SuiteResult) PrettyText() string {
	status := "PASS"
	if !s.AllPassed {
		status = "FAIL"
	}

	lines := []string{
		"Benchmark suite: " + s.SuiteName,
		"Method: " + s.Method,
		"System: " + s.System,
		fmt.Sprintf("Overall: %s (%d/%d cases passed)", status, s.PassedCases, s.TotalCases),
	}
	for _, c := range s.Cases {
		caseStatus := "PASS"
		if !c.Passed {
			caseStatus = "FAIL"
		}
		lines = append(lines, fmt.Sprintf(
			" - [%s] %s: measured=%.8f, reference=%.8f, |error|=%.8f, tol=%.8f, stderr=%.8f",
			caseStatus, c.CaseID, c.MeasuredEnergy, c.ReferenceEnergy, c.AbsError, c.Tolerance, c.StandardError,
		))
	}
	return strings.Join(lines, "\n")
}
