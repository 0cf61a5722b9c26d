package vmc

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// ctxCheckInterval is how many steps run between context checks
const ctxCheckInterval = 4096

// maxPrealloc bounds the up-front sample buffer; longer chains grow by append
const maxPrealloc = 1 << 16

// Trace holds the raw samples of one Metropolis chain
type Trace struct {
	Positions      []float64
	LocalEnergies  []float64
	AcceptedSteps  int
	AttemptedSteps int
}

// AcceptanceRatio returns accepted / attempted, or 0 for an empty chain
func (t Trace) AcceptanceRatio() float64 {
	if t.AttemptedSteps == 0 {
		return 0
	}
	return float64(t.AcceptedSteps) / float64(t.AttemptedSteps)
}

// SampleChain runs a single random-walk Metropolis chain over |psi_T|^2
func SampleChain(ctx context.Context, sys System, cfg Config) (Trace, error) {
	if err := ctx.Err(); err != nil {
		return Trace{}, err
	}
	rng := newRand(cfg.Seed)

	x := cfg.InitialPosition
	logProbX := sys.LogProbabilityDensity(x, cfg.Alpha)

	kept := cfg.NSteps - cfg.BurnIn
	if kept < 0 {
		kept = 0
	}
	if kept > maxPrealloc {
		kept = maxPrealloc
	}
	trace := Trace{
		Positions:     make([]float64, 0, kept),
		LocalEnergies: make([]float64, 0, kept),
	}

	for step := 0; step < cfg.NSteps; step++ {
		if step%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return Trace{}, err
			}
		}

		proposal := x + (2*rng.Float64()-1)*cfg.StepSize
		logProbProposal := sys.LogProbabilityDensity(proposal, cfg.Alpha)

		// log(u) < delta log p keeps the test stable for tiny densities
		if math.Log(rng.Float64()) < logProbProposal-logProbX {
			x = proposal
			logProbX = logProbProposal
			trace.AcceptedSteps++
		}
		trace.AttemptedSteps++

		if step >= cfg.BurnIn {
			trace.Positions = append(trace.Positions, x)
			trace.LocalEnergies = append(trace.LocalEnergies, sys.LocalEnergy(x, cfg.Alpha))
		}
	}

	return trace, nil
}

func newRand(seed *int64) *rand.Rand {
	if seed == nil {
		return rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return rand.New(rand.NewSource(*seed))
}
