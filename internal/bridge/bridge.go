package bridge

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/kartoza/qmc-desk/internal/models"
	"github.com/kartoza/qmc-desk/internal/vmc"
)

// DefaultReadyTimeout is how long Wait gives a late host to publish its bridge
const DefaultReadyTimeout = 2000 * time.Millisecond

// ErrUnavailable is returned when no bridge became ready before the timeout
var ErrUnavailable = errors.New("local compute bridge unavailable")

// Bridge is the in-process compute capability exposed by the desktop host
type Bridge interface {
	RunVMCHarmonicOscillator(ctx context.Context, req models.SimulationRequest) (models.SimulationResult, error)
}

// Source is anything that can be probed for a bridge and that announces readiness
type Source interface {
	Lookup() (Bridge, bool)
	Subscribe() (<-chan struct{}, func())
}

// Host tracks the bridge published by the desktop runtime and fans out
// readiness notifications to subscribers.
type Host struct {
	mu     sync.Mutex
	bridge Bridge
	subs   map[uint64]chan struct{}
	nextID uint64
}

// NewHost creates a host with no bridge published
func NewHost() *Host {
	return &Host{subs: make(map[uint64]chan struct{})}
}

// Lookup returns the currently published bridge
func (h *Host) Lookup() (Bridge, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.bridge, h.bridge != nil
}

// Subscribe registers for readiness notifications. The returned function
// unsubscribes and is safe to call more than once.
func (h *Host) Subscribe() (<-chan struct{}, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	ch := make(chan struct{}, 1)
	h.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
		})
	}
}

// Publish makes b the current bridge and notifies every subscriber
func (h *Host) Publish(b Bridge) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.bridge = b
	for _, ch := range h.subs {
		// a pending notification already means "re-check"
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Withdraw removes the published bridge, e.g. when the window goes away
func (h *Host) Withdraw() {
	h.mu.Lock()
	h.bridge = nil
	h.mu.Unlock()
}

// Wait returns the bridge as soon as src has one, or ErrUnavailable once
// timeout elapses. Each call arms its own timer and trusts no earlier result.
func Wait(src Source, timeout time.Duration) (Bridge, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	if b, ok := src.Lookup(); ok {
		return b, nil
	}

	ready, unsubscribe := src.Subscribe()
	defer unsubscribe()

	// the bridge may have been published between Lookup and Subscribe
	if b, ok := src.Lookup(); ok {
		return b, nil
	}

	for {
		select {
		case <-ready:
			if b, ok := src.Lookup(); ok {
				return b, nil
			}
		case <-timer.C:
			return nil, ErrUnavailable
		}
	}
}

// LocalCompute runs simulations in-process with the VMC solver
type LocalCompute struct{}

// NewLocalCompute creates the in-process bridge
func NewLocalCompute() *LocalCompute {
	return &LocalCompute{}
}

// RunVMCHarmonicOscillator validates the payload and runs the solver
func (l *LocalCompute) RunVMCHarmonicOscillator(ctx context.Context, req models.SimulationRequest) (models.SimulationResult, error) {
	cfg, err := vmc.ConfigFromRequest(req)
	if err != nil {
		return models.SimulationResult{}, err
	}
	return vmc.RunHarmonicOscillator(ctx, cfg)
}
