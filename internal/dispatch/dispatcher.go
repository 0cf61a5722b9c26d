package dispatch

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/kartoza/qmc-desk/internal/bridge"
	"github.com/kartoza/qmc-desk/internal/models"
)

// Transport labels published while a submission runs
const (
	LabelRunning  = "running..."
	LabelDirect   = "direct-local"
	LabelAPI      = "http-api"
	LabelFallback = "http-api (fallback)"
	LabelError    = "error"
)

// StatusSubmitting is shown while a submission is in flight
const StatusSubmitting = "Submitting simulation request..."

// Options configures a Dispatcher
type Options struct {
	// ReadyTimeout bounds the wait for the local bridge (0 = bridge.DefaultReadyTimeout)
	ReadyTimeout time.Duration
	HTTPClient   *http.Client
	Display      Display
	Logger       *log.Logger
}

// Dispatcher routes simulation requests to the local bridge or the remote API
// according to the session's launch parameters.
type Dispatcher struct {
	params       LaunchParams
	bridges      bridge.Source
	remote       *RemoteClient
	display      Display
	readyTimeout time.Duration
	logger       *log.Logger

	busy atomic.Bool

	mu        sync.Mutex
	transport string
}

// New creates a dispatcher for one session
func New(params LaunchParams, bridges bridge.Source, opts Options) *Dispatcher {
	d := &Dispatcher{
		params:       params,
		bridges:      bridges,
		display:      opts.Display,
		readyTimeout: opts.ReadyTimeout,
		logger:       opts.Logger,
	}
	if d.display == nil {
		d.display = discardDisplay{}
	}
	if d.readyTimeout <= 0 {
		d.readyTimeout = bridge.DefaultReadyTimeout
	}
	if d.logger == nil {
		d.logger = log.Default()
	}
	if params.HasAPI() {
		d.remote = NewRemoteClient(params.APIBaseURL, RemoteOptions{
			HTTPClient: opts.HTTPClient,
			Logger:     d.logger,
		})
	}
	return d
}

// Params returns the launch parameters the session was resolved with
func (d *Dispatcher) Params() LaunchParams {
	return d.params
}

// Transport returns the last published transport label
func (d *Dispatcher) Transport() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.transport
}

func (d *Dispatcher) setTransport(label string) {
	d.mu.Lock()
	d.transport = label
	d.mu.Unlock()
	d.display.SetTransport(label)
}

// Invoke runs req on the transport the compute mode allows:
// direct uses only the bridge, api only the remote API, and auto tries the
// bridge first and falls back to the API when the bridge never became ready.
func (d *Dispatcher) Invoke(ctx context.Context, req models.SimulationRequest) (models.SimulationResult, error) {
	switch d.params.Mode {
	case ModeDirect:
		return d.invokeLocal(ctx, req)
	case ModeAPI:
		return d.invokeRemote(ctx, req, LabelAPI)
	}

	res, err := d.invokeLocal(ctx, req)
	if err == nil || !errors.Is(err, ErrBridgeUnavailable) || !d.params.HasAPI() {
		return res, err
	}
	d.logger.Printf("Warning: [%s] local bridge unavailable, falling back to %s", RequestID(ctx), d.params.APIBaseURL)
	return d.invokeRemote(ctx, req, LabelFallback)
}

func (d *Dispatcher) invokeLocal(ctx context.Context, req models.SimulationRequest) (models.SimulationResult, error) {
	b, err := bridge.Wait(d.bridges, d.readyTimeout)
	if err != nil {
		return models.SimulationResult{}, err
	}
	d.setTransport(LabelDirect)
	return b.RunVMCHarmonicOscillator(ctx, req)
}

func (d *Dispatcher) invokeRemote(ctx context.Context, req models.SimulationRequest, label string) (models.SimulationResult, error) {
	if d.remote == nil {
		return models.SimulationResult{}, ErrAPINotConfigured
	}
	d.setTransport(label)
	return d.remote.Simulate(ctx, req)
}

// Submit runs one full submission: it refuses to overlap with another,
// invokes the transport, and writes either the rendered lines or the error
// to the display. The rendered lines are returned as well.
func (d *Dispatcher) Submit(ctx context.Context, req models.SimulationRequest) ([]string, error) {
	if !d.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer d.busy.Store(false)

	id := uuid.New().String()
	ctx = WithRequestID(ctx, id)

	d.setTransport(LabelRunning)
	d.display.ShowStatus(StatusSubmitting)

	start := time.Now()
	res, err := d.Invoke(ctx, req)
	if err != nil {
		d.logger.Printf("[%s] simulation failed via %s after %s: %v", id, d.Transport(), time.Since(start).Round(time.Millisecond), err)
		d.setTransport(LabelError)
		d.display.ShowError(err)
		return nil, err
	}

	d.logger.Printf("[%s] simulation completed via %s in %s", id, d.Transport(), time.Since(start).Round(time.Millisecond))
	lines := Render(res)
	d.display.ShowLines(lines)
	return lines, nil
}

// Busy reports whether a submission is in flight
func (d *Dispatcher) Busy() bool {
	return d.busy.Load()
}
