package gui

import (
	"log"

	"github.com/kartoza/qmc-desk/internal/bridge"
	"github.com/kartoza/qmc-desk/internal/dispatch"
	webview "github.com/webview/webview_go"
)

// readyScript tells the host the page can take bridge calls
const readyScript = `window.addEventListener("DOMContentLoaded", function () {
  if (typeof window.qmcBridgeReady === "function") { window.qmcBridgeReady(); }
});`

// WindowConfig describes the desktop window
type WindowConfig struct {
	Title  string
	URL    string
	Width  int
	Height int
	Debug  bool
}

// Window is an open desktop window bound to a session
type Window struct {
	w       webview.WebView
	session *Session
}

// OpenWindow creates the webview and binds the page hooks
func OpenWindow(cfg WindowConfig, host *bridge.Host, opts dispatch.Options) (*Window, error) {
	w := webview.New(cfg.Debug)
	w.SetTitle(cfg.Title)
	w.SetSize(cfg.Width, cfg.Height, webview.HintNone)

	session := NewSession(w, host, opts)
	bindings := map[string]interface{}{
		"qmcInit": func(query string) dispatch.LaunchParams {
			return session.Init(query)
		},
		"qmcRun":         session.Run,
		"qmcBridgeReady": session.BridgeReady,
	}
	for name, fn := range bindings {
		if err := w.Bind(name, fn); err != nil {
			w.Destroy()
			return nil, err
		}
	}
	w.Init(readyScript)
	w.Navigate(cfg.URL)

	return &Window{w: w, session: session}, nil
}

// Run blocks until the window is closed
func (win *Window) Run() {
	win.w.Run()
	log.Printf("Window closed")
	win.session.Close()
	win.w.Destroy()
}

// Terminate closes the window from any goroutine
func (win *Window) Terminate() {
	win.w.Dispatch(win.w.Terminate)
}
