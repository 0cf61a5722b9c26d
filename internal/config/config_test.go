package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, "auto", cfg.ComputeMode)
	assert.Equal(t, 2*time.Second, cfg.BridgeWait)
	assert.Equal(t, 1180, cfg.Width)
	assert.Equal(t, 820, cfg.Height)
	assert.False(t, cfg.NoCompression)
}
