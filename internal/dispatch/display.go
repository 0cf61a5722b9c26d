package dispatch

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Display is the surface a submission writes to
type Display interface {
	SetTransport(label string)
	ShowStatus(text string)
	ShowLines(lines []string)
	ShowError(err error)
}

// ErrorText is what the display shows for an unrecovered failure
func ErrorText(err error) string {
	return "Error:\n" + err.Error()
}

// TextDisplay writes submission progress to a terminal
type TextDisplay struct {
	mu sync.Mutex
	w  io.Writer
}

// NewTextDisplay creates a display writing to w
func NewTextDisplay(w io.Writer) *TextDisplay {
	return &TextDisplay{w: w}
}

func (d *TextDisplay) SetTransport(label string) {
	d.printf("[transport] %s\n", label)
}

func (d *TextDisplay) ShowStatus(text string) {
	d.printf("%s\n", text)
}

func (d *TextDisplay) ShowLines(lines []string) {
	d.printf("%s\n", strings.Join(lines, "\n"))
}

func (d *TextDisplay) ShowError(err error) {
	d.printf("%s\n", ErrorText(err))
}

func (d *TextDisplay) printf(format string, args ...interface{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintf(d.w, format, args...)
}

type discardDisplay struct{}

func (discardDisplay) SetTransport(string) {}
func (discardDisplay) ShowStatus(string)   {}
func (discardDisplay) ShowLines([]string)  {}
func (discardDisplay) ShowError(error)     {}
