package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/kartoza/qmc-desk/internal/config"
	"github.com/kartoza/qmc-desk/internal/httputil"
	"github.com/kartoza/qmc-desk/internal/models"
	"github.com/kartoza/qmc-desk/internal/vmc"
)

// Route paths served by the compute API
const (
	PathSimulate  = "/simulate/vmc/harmonic-oscillator"
	PathBenchmark = "/benchmark/vmc/harmonic-oscillator"
)

// Handler provides HTTP API endpoints
type Handler struct {
	cfg     config.Config
	limiter func(http.Handler) http.Handler
}

// NewHandler creates a new API handler. limiter wraps the compute routes and may be nil.
func NewHandler(cfg config.Config, limiter func(http.Handler) http.Handler) *Handler {
	return &Handler{
		cfg:     cfg,
		limiter: limiter,
	}
}

// RegisterRoutes sets up all API routes
func (h *Handler) RegisterRoutes(r *mux.Router) {
	// Health and info
	r.HandleFunc("/health", h.handleHealth).Methods("GET")
	r.HandleFunc("/info", h.handleInfo).Methods("GET")

	// Catalog
	r.HandleFunc("/methods", h.handleMethods).Methods("GET")
	r.HandleFunc("/systems", h.handleSystems).Methods("GET")

	// Compute
	r.Handle(PathSimulate, h.limit(http.HandlerFunc(h.handleSimulate))).Methods("POST")
	r.Handle(PathBenchmark, h.limit(http.HandlerFunc(h.handleBenchmark))).Methods("POST")
}

func (h *Handler) limit(next http.Handler) http.Handler {
	if h.limiter == nil {
		return next
	}
	return h.limiter(next)
}

// handleHealth returns server health status
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleInfo returns server information
func (h *Handler) handleInfo(w http.ResponseWriter, r *http.Request) {
	info := map[string]interface{}{
		"name":    "qmc-desk API",
		"version": h.cfg.Version,
		"methods": len(vmc.Methods()),
		"systems": len(vmc.Systems()),
	}
	httputil.RespondJSON(w, http.StatusOK, info)
}

func (h *Handler) handleMethods(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, vmc.Methods())
}

func (h *Handler) handleSystems(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, vmc.Systems())
}

// handleSimulate runs one VMC simulation. Fields missing from the body keep
// the toolkit defaults; an explicit null seed asks for a random one.
func (h *Handler) handleSimulate(w http.ResponseWriter, r *http.Request) {
	req := vmc.DefaultRequest()
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	cfg, err := vmc.ConfigFromRequest(req)
	if err != nil {
		httputil.RespondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	result, err := vmc.RunHarmonicOscillator(r.Context(), cfg)
	if err != nil {
		respondComputeError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// handleBenchmark runs the reference suite
func (h *Handler) handleBenchmark(w http.ResponseWriter, r *http.Request) {
	defaults := vmc.DefaultBenchmarkConfig()
	seed := float64(*defaults.Seed)
	req := models.BenchmarkRequest{
		NSteps:          float64(defaults.NSteps),
		BurnIn:          float64(defaults.BurnIn),
		StepSize:        defaults.StepSize,
		InitialPosition: defaults.InitialPosition,
		Seed:            &seed,
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	// reuse the single-run mapping so both routes validate identically
	cfg, err := vmc.ConfigFromRequest(models.SimulationRequest{
		NSteps:          req.NSteps,
		BurnIn:          req.BurnIn,
		StepSize:        req.StepSize,
		Alpha:           vmc.DefaultAlpha,
		InitialPosition: req.InitialPosition,
		Seed:            req.Seed,
	})
	if err != nil {
		httputil.RespondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	suite, err := vmc.RunBenchmarks(r.Context(), vmc.BenchmarkConfig{
		NSteps:          cfg.NSteps,
		BurnIn:          cfg.BurnIn,
		StepSize:        cfg.StepSize,
		InitialPosition: cfg.InitialPosition,
		Seed:            cfg.Seed,
	})
	if err != nil {
		respondComputeError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, suite)
}

func respondComputeError(w http.ResponseWriter, err error) {
	switch {
	case vmc.IsValidationError(err):
		httputil.RespondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, vmc.ErrNoSamples):
		httputil.RespondError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		log.Printf("Error running simulation: %v", err)
		httputil.RespondError(w, http.StatusInternalServerError, err.Error())
	}
}
