package dispatch

import (
	"math"
	"strconv"
	"strings"

	"github.com/kartoza/qmc-desk/internal/models"
)

// Form field names shared by the page and the terminal front end
const (
	FieldNSteps          = "n_steps"
	FieldBurnIn          = "burn_in"
	FieldStepSize        = "step_size"
	FieldAlpha           = "alpha"
	FieldInitialPosition = "initial_position"
	FieldSeed            = "seed"
)

// BuildRequest reads form values into a request payload. Only number parsing
// happens here; ranges are left to the backend. A blank seed becomes null.
func BuildRequest(form map[string]string) (models.SimulationRequest, error) {
	var req models.SimulationRequest

	fields := []struct {
		name string
		dst  *float64
	}{
		{FieldNSteps, &req.NSteps},
		{FieldBurnIn, &req.BurnIn},
		{FieldStepSize, &req.StepSize},
		{FieldAlpha, &req.Alpha},
		{FieldInitialPosition, &req.InitialPosition},
	}
	for _, f := range fields {
		v, err := parseNumber(f.name, form[f.name])
		if err != nil {
			return models.SimulationRequest{}, err
		}
		*f.dst = v
	}

	if raw := strings.TrimSpace(form[FieldSeed]); raw != "" {
		seed, err := parseNumber(FieldSeed, raw)
		if err != nil {
			return models.SimulationRequest{}, err
		}
		req.Seed = &seed
	}

	return req, nil
}

func parseNumber(field, raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &FieldError{Field: field, Value: raw}
	}
	return v, nil
}
