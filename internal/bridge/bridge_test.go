package bridge

import (
	"context"
	"testing"
	"time"

	"github.com/kartoza/qmc-desk/internal/models"
	"github.com/kartoza/qmc-desk/internal/vmc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBridge struct{ name string }

func (s *stubBridge) RunVMCHarmonicOscillator(_ context.Context, _ models.SimulationRequest) (models.SimulationResult, error) {
	return models.SimulationResult{Method: s.name}, nil
}

func TestWaitImmediate(t *testing.T) {
	h := NewHost()
	b := &stubBridge{name: "ready"}
	h.Publish(b)

	got, err := Wait(h, 10*time.Millisecond)
	require.NoError(t, err)
	assert.Same(t, b, got)
}

func TestWaitLateReady(t *testing.T) {
	h := NewHost()
	b := &stubBridge{name: "late"}

	go func() {
		time.Sleep(20 * time.Millisecond)
		h.Publish(b)
	}()

	got, err := Wait(h, 2*time.Second)
	require.NoError(t, err)
	assert.Same(t, b, got)
}

func TestWaitTimesOutAndUnsubscribes(t *testing.T) {
	h := NewHost()

	start := time.Now()
	_, err := Wait(h, 30*time.Millisecond)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)

	h.mu.Lock()
	defer h.mu.Unlock()
	assert.Empty(t, h.subs)
}

func TestWaitIgnoresNotificationWithoutBridge(t *testing.T) {
	h := NewHost()

	go func() {
		time.Sleep(5 * time.Millisecond)
		h.Publish(nil)
	}()

	_, err := Wait(h, 40*time.Millisecond)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestWaitDoesNotTrustEarlierReady(t *testing.T) {
	h := NewHost()
	h.Publish(&stubBridge{})

	_, err := Wait(h, 10*time.Millisecond)
	require.NoError(t, err)

	h.Withdraw()
	_, err = Wait(h, 10*time.Millisecond)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	h := NewHost()
	_, unsubscribe := h.Subscribe()
	unsubscribe()
	unsubscribe()

	h.mu.Lock()
	defer h.mu.Unlock()
	assert.Empty(t, h.subs)
}

func TestLocalComputeRunsSolver(t *testing.T) {
	req := vmc.DefaultRequest()
	req.NSteps = 2000
	req.BurnIn = 200

	res, err := NewLocalCompute().RunVMCHarmonicOscillator(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, vmc.MethodName, res.Method)
	assert.Equal(t, 1800, res.NSamples)
	assert.Equal(t, 0.5, res.MeanEnergy)
}

func TestLocalComputeRejectsInvalidPayload(t *testing.T) {
	req := vmc.DefaultRequest()
	req.Alpha = 0

	_, err := NewLocalCompute().RunVMCHarmonicOscillator(context.Background(), req)
	require.Error(t, err)
	assert.True(t, vmc.IsValidationError(err))
}

func TestLocalComputeRejectsHugeStepCount(t *testing.T) {
	req := vmc.DefaultRequest()
	req.NSteps = 1e15
	req.BurnIn = 0

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NotPanics(t, func() {
		_, err := NewLocalCompute().RunVMCHarmonicOscillator(ctx, req)
		require.Error(t, err)
		assert.True(t, vmc.IsValidationError(err))
	})
}

// slowSource takes a while to register subscribers
type slowSource struct {
	*Host
	delay time.Duration
}

func (s slowSource) Subscribe() (<-chan struct{}, func()) {
	time.Sleep(s.delay)
	return s.Host.Subscribe()
}

func TestWaitTimerStartsAtCall(t *testing.T) {
	src := slowSource{Host: NewHost(), delay: 100 * time.Millisecond}

	start := time.Now()
	_, err := Wait(src, 50*time.Millisecond)
	elapsed := time.Since(start)

	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Less(t, elapsed, 140*time.Millisecond)
}
