package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/kartoza/qmc-desk/internal/config"
	"github.com/kartoza/qmc-desk/internal/models"
	"github.com/kartoza/qmc-desk/internal/vmc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter() *mux.Router {
	cfg := config.Default()
	cfg.Version = "test"
	r := mux.NewRouter()
	NewHandler(cfg, nil).RegisterRoutes(r)
	return r
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "ok", response["status"])
}

func TestInfoEndpoint(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest("GET", "/info", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "test", response["version"])
}

func TestCatalogEndpoints(t *testing.T) {
	r := newTestRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/methods", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var methods []models.MethodInfo
	require.NoError(t, json.NewDecoder(w.Body).Decode(&methods))
	assert.Equal(t, "vmc_metropolis", methods[0].ID)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/systems", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var systems []models.SystemInfo
	require.NoError(t, json.NewDecoder(w.Body).Decode(&systems))
	assert.Equal(t, "harmonic_oscillator_1d", systems[0].ID)
}

func TestSimulateEndpoint(t *testing.T) {
	r := newTestRouter()

	body := `{"n_steps": 2000, "burn_in": 200, "step_size": 1.0, "alpha": 1.0, "initial_position": 0.0, "seed": 7}`
	req := httptest.NewRequest("POST", PathSimulate, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var result models.SimulationResult
	require.NoError(t, json.NewDecoder(w.Body).Decode(&result))
	assert.Equal(t, vmc.MethodName, result.Method)
	assert.Equal(t, 1800, result.NSamples)
	assert.Equal(t, 0.5, result.MeanEnergy)

	exact, ok := result.ExactGroundStateEnergy()
	require.True(t, ok)
	assert.Equal(t, 0.5, exact)
	assert.Equal(t, 7.0, result.Parameters["seed"])
}

func TestSimulateEndpointDefaultsAndNullSeed(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest("POST", PathSimulate, strings.NewReader(`{"n_steps": 1000, "burn_in": 100, "seed": null}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var result models.SimulationResult
	require.NoError(t, json.NewDecoder(w.Body).Decode(&result))
	assert.Nil(t, result.Parameters["seed"])
	assert.Equal(t, 1.0, result.Parameters["alpha"])
}

func TestSimulateEndpointValidation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		status  int
		message string
	}{
		{"burn-in too large", `{"n_steps": 100, "burn_in": 100}`, http.StatusUnprocessableEntity, "burn_in must be smaller than n_steps"},
		{"zero alpha", `{"alpha": 0}`, http.StatusUnprocessableEntity, "alpha must be positive"},
		{"too many steps", `{"n_steps": 1e15, "burn_in": 0}`, http.StatusUnprocessableEntity, "n_steps must be at most"},
		{"fractional steps", `{"n_steps": 10.5}`, http.StatusUnprocessableEntity, "n_steps must be an integer"},
		{"malformed", `{"n_steps": `, http.StatusBadRequest, "invalid request body"},
	}

	r := newTestRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", PathSimulate, strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			var response map[string]string
			require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
			assert.Contains(t, response["error"], tt.message)
		})
	}
}

func TestSimulateRejectsGet(t *testing.T) {
	r := newTestRouter()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", PathSimulate, nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestBenchmarkEndpoint(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest("POST", PathBenchmark, strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var suite vmc.SuiteResult
	require.NoError(t, json.NewDecoder(w.Body).Decode(&suite))
	assert.Equal(t, vmc.SuiteName, suite.SuiteName)
	assert.Equal(t, 3, suite.TotalCases)
	assert.True(t, suite.AllPassed)
}

func TestBenchmarkEndpointValidation(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest("POST", PathBenchmark, strings.NewReader(`{"n_steps": 10, "burn_in": 20}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestComputeRoutesUseLimiter(t *testing.T) {
	blocked := func(http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		})
	}
	r := mux.NewRouter()
	NewHandler(config.Default(), blocked).RegisterRoutes(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", PathSimulate, strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
