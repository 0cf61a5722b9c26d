package vmc

import (
	"errors"
	"fmt"
	"math"

	"github.com/kartoza/qmc-desk/internal/models"
)

// Defaults shared by the API, the GUI bridge and the CLI
const (
	DefaultNSteps          = 20_000
	DefaultBurnIn          = 2_000
	DefaultStepSize        = 1.0
	DefaultAlpha           = 1.0
	DefaultInitialPosition = 0.0
	DefaultSeed            = 12345

	// MaxNSteps bounds a single chain so one request cannot exhaust memory
	MaxNSteps = 100_000_000
)

// Config holds the controls of one Monte Carlo run
type Config struct {
	NSteps          int
	BurnIn          int
	StepSize        float64
	Alpha           float64
	InitialPosition float64
	Seed            *int64
}

// DefaultConfig returns the toolkit defaults
func DefaultConfig() Config {
	seed := int64(DefaultSeed)
	return Config{
		NSteps:          DefaultNSteps,
		BurnIn:          DefaultBurnIn,
		StepSize:        DefaultStepSize,
		Alpha:           DefaultAlpha,
		InitialPosition: DefaultInitialPosition,
		Seed:            &seed,
	}
}

// DefaultRequest returns a request payload carrying the toolkit defaults
func DefaultRequest() models.SimulationRequest {
	seed := float64(DefaultSeed)
	return models.SimulationRequest{
		NSteps:          DefaultNSteps,
		BurnIn:          DefaultBurnIn,
		StepSize:        DefaultStepSize,
		Alpha:           DefaultAlpha,
		InitialPosition: DefaultInitialPosition,
		Seed:            &seed,
	}
}

// ValidationError reports an invalid configuration field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// IsValidationError reports whether err was caused by invalid input
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Validate checks the configuration ranges
func (c Config) Validate() error {
	if c.NSteps <= 0 {
		return &ValidationError{Field: "n_steps", Message: "must be positive"}
	}
	if c.NSteps > MaxNSteps {
		return &ValidationError{Field: "n_steps", Message: fmt.Sprintf("must be at most %d", MaxNSteps)}
	}
	if c.BurnIn < 0 {
		return &ValidationError{Field: "burn_in", Message: "cannot be negative"}
	}
	if c.BurnIn >= c.NSteps {
		return &ValidationError{Field: "burn_in", Message: "must be smaller than n_steps"}
	}
	if !(c.StepSize > 0) || math.IsInf(c.StepSize, 0) {
		return &ValidationError{Field: "step_size", Message: "must be positive"}
	}
	if !(c.Alpha > 0) || math.IsInf(c.Alpha, 0) {
		return &ValidationError{Field: "alpha", Message: "must be positive"}
	}
	if math.IsNaN(c.InitialPosition) || math.IsInf(c.InitialPosition, 0) {
		return &ValidationError{Field: "initial_position", Message: "must be a finite number"}
	}
	return nil
}

// ConfigFromRequest maps a transport payload onto a validated Config
func ConfigFromRequest(req models.SimulationRequest) (Config, error) {
	nSteps, err := integer(req.NSteps, "n_steps")
	if err != nil {
		return Config{}, err
	}
	burnIn, err := integer(req.BurnIn, "burn_in")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		NSteps:          int(nSteps),
		BurnIn:          int(burnIn),
		StepSize:        req.StepSize,
		Alpha:           req.Alpha,
		InitialPosition: req.InitialPosition,
	}
	if req.Seed != nil {
		seed, err := integer(*req.Seed, "seed")
		if err != nil {
			return Config{}, err
		}
		cfg.Seed = &seed
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func integer(v float64, field string) (int64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0, &ValidationError{Field: field, Message: "must be an integer"}
	}
	if math.Abs(v) > 1<<53 {
		return 0, &ValidationError{Field: field, Message: "is out of range"}
	}
	return int64(v), nil
}
