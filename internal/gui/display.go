package gui

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/kartoza/qmc-desk/internal/dispatch"
)

// Evaluator runs JavaScript in the page. webview.WebView satisfies it.
type Evaluator interface {
	Dispatch(f func())
	Eval(js string)
}

// pageDisplay forwards display updates to the window.qmc hooks of the page.
// Every call is marshalled onto the UI thread.
type pageDisplay struct {
	ev Evaluator
}

func newPageDisplay(ev Evaluator) *pageDisplay {
	return &pageDisplay{ev: ev}
}

func (p *pageDisplay) SetTransport(label string) {
	p.call("setTransport", label)
}

func (p *pageDisplay) ShowStatus(text string) {
	p.call("showStatus", text)
}

func (p *pageDisplay) ShowLines(lines []string) {
	p.call("showLines", lines)
}

func (p *pageDisplay) ShowError(err error) {
	p.call("showError", dispatch.ErrorText(err))
}

func (p *pageDisplay) SetBusy(busy bool) {
	p.call("setBusy", busy)
}

func (p *pageDisplay) call(hook string, arg interface{}) {
	js, err := hookScript(hook, arg)
	if err != nil {
		log.Printf("Warning: could not encode %s update: %v", hook, err)
		return
	}
	p.ev.Dispatch(func() {
		p.ev.Eval(js)
	})
}

// hookScript builds a guarded call to window.qmc.<hook>(arg)
func hookScript(hook string, arg interface{}) (string, error) {
	data, err := json.Marshal(arg)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("window.qmc && window.qmc.%s(%s);", hook, data), nil
}
