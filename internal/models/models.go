package models

// SimulationRequest is the payload sent to either compute transport.
// Seed is nil when the backend should choose a seed.
type SimulationRequest struct {
	NSteps          float64  `json:"n_steps"`
	BurnIn          float64  `json:"burn_in"`
	StepSize        float64  `json:"step_size"`
	Alpha           float64  `json:"alpha"`
	InitialPosition float64  `json:"initial_position"`
	Seed            *float64 `json:"seed"`
}

// SimulationResult is the summary returned by a VMC run
type SimulationResult struct {
	Method          string                 `json:"method"`
	System          string                 `json:"system"`
	NSamples        int                    `json:"n_samples"`
	MeanEnergy      float64                `json:"mean_energy"`
	StandardError   float64                `json:"standard_error"`
	AcceptanceRatio float64                `json:"acceptance_ratio"`
	Parameters      map[string]interface{} `json:"parameters,omitempty"`
	Metadata        map[string]interface{} `json:"metadata,omitempty"`
}

// Alpha returns parameters.alpha when present and numeric
func (r SimulationResult) Alpha() (float64, bool) {
	return numberField(r.Parameters, "alpha")
}

// ExactGroundStateEnergy returns metadata.exact_ground_state_energy when present and numeric
func (r SimulationResult) ExactGroundStateEnergy() (float64, bool) {
	return numberField(r.Metadata, "exact_ground_state_energy")
}

func numberField(m map[string]interface{}, key string) (float64, bool) {
	v, ok := m[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// MethodInfo describes a QMC method for discovery endpoints
type MethodInfo struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Systems     []string `json:"systems"`
}

// SystemInfo describes a physical system for discovery endpoints
type SystemInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Dimension string `json:"dimension"`
	Notes     string `json:"notes"`
}

// BenchmarkRequest holds the controls shared by every benchmark case
type BenchmarkRequest struct {
	NSteps          float64  `json:"n_steps"`
	BurnIn          float64  `json:"burn_in"`
	StepSize        float64  `json:"step_size"`
	InitialPosition float64  `json:"initial_position"`
	Seed            *float64 `json:"seed"`
}
