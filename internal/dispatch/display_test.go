package dispatch

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextDisplay(t *testing.T) {
	var buf bytes.Buffer
	d := NewTextDisplay(&buf)

	d.SetTransport(LabelRunning)
	d.ShowStatus(StatusSubmitting)
	d.ShowLines([]string{"a", "b"})
	d.ShowError(errors.New("boom"))

	assert.Equal(t, "[transport] running...\nSubmitting simulation request...\na\nb\nError:\nboom\n", buf.String())
}
