package gui

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/kartoza/qmc-desk/internal/bridge"
	"github.com/kartoza/qmc-desk/internal/dispatch"
)

// Session connects one window to the dispatcher. The page reports its
// launch query through Init and submits forms through Run.
type Session struct {
	ev      Evaluator
	host    *bridge.Host
	display *pageDisplay
	opts    dispatch.Options

	mu         sync.Mutex
	dispatcher *dispatch.Dispatcher
	wg         sync.WaitGroup

	running atomic.Bool
}

// NewSession creates a session for ev. opts.Display is replaced by the page.
func NewSession(ev Evaluator, host *bridge.Host, opts dispatch.Options) *Session {
	display := newPageDisplay(ev)
	opts.Display = display
	return &Session{
		ev:      ev,
		host:    host,
		display: display,
		opts:    opts,
	}
}

// Init resolves the launch parameters of a freshly loaded page. The bridge
// is withdrawn until the page signals readiness again.
func (s *Session) Init(query string) dispatch.LaunchParams {
	params := dispatch.ParseLaunchQuery(query)

	s.host.Withdraw()

	s.mu.Lock()
	s.dispatcher = dispatch.New(params, s.host, s.opts)
	s.mu.Unlock()

	log.Printf("Page loaded: compute_mode=%s api_base_url=%q", params.Mode, params.APIBaseURL)
	return params
}

// BridgeReady publishes the in-process compute bridge
func (s *Session) BridgeReady() {
	s.host.Publish(bridge.NewLocalCompute())
}

// Run validates the form and starts a submission in the background.
// Bound calls run on the UI thread, so the page is updated asynchronously.
func (s *Session) Run(form map[string]string) error {
	d := s.current()
	if d == nil {
		return errors.New("page not initialised")
	}

	// the slot is held until the background submission finishes
	if !s.running.CompareAndSwap(false, true) {
		return dispatch.ErrBusy
	}

	req, err := dispatch.BuildRequest(form)
	if err != nil {
		s.running.Store(false)
		s.display.SetTransport(dispatch.LabelError)
		s.display.ShowError(err)
		return err
	}

	s.display.SetBusy(true)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.Printf("Error: submission panicked: %v", r)
				s.display.SetTransport(dispatch.LabelError)
				s.display.ShowError(fmt.Errorf("internal error: %v", r))
			}
			s.running.Store(false)
			s.display.SetBusy(false)
		}()
		d.Submit(context.Background(), req)
	}()
	return nil
}

// Busy reports whether a submission started by Run is still in flight
func (s *Session) Busy() bool {
	return s.running.Load()
}

// Wait blocks until background submissions finish
func (s *Session) Wait() {
	s.wg.Wait()
}

// Close withdraws the bridge once the window is gone
func (s *Session) Close() {
	s.host.Withdraw()
	s.Wait()
}

func (s *Session) current() *dispatch.Dispatcher {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dispatcher
}
