package server

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/kartoza/qmc-desk/internal/api"
	"github.com/kartoza/qmc-desk/internal/config"
	"github.com/kartoza/qmc-desk/internal/httputil"
)

//go:embed static/*
var staticFS embed.FS

// Server holds all the components for the web application
type Server struct {
	cfg        config.Config
	httpServer *http.Server
	router     *mux.Router
	handler    http.Handler
}

// New creates a new Server with all components initialized
func New(cfg config.Config) (*Server, error) {
	s := &Server{
		cfg:    cfg,
		router: mux.NewRouter(),
	}

	var limit func(http.Handler) http.Handler
	if cfg.RateLimit > 0 {
		rl, err := httputil.NewRateLimiter(httputil.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit,
			Burst:             cfg.RateBurst,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create rate limiter: %w", err)
		}
		limit = rl.Middleware
	}

	// Set up routes
	if err := s.setupRoutes(limit); err != nil {
		return nil, err
	}

	var h http.Handler = s.router
	if !cfg.NoCompression {
		h = httputil.WithCompression(h)
	}
	s.handler = httputil.WithRequestLog(httputil.WithCORS(h))

	s.httpServer = &http.Server{
		Addr:         s.Addr(),
		Handler:      s.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(limit func(http.Handler) http.Handler) error {
	apiHandler := api.NewHandler(s.cfg, limit)
	apiHandler.RegisterRoutes(s.router)

	// Static frontend files (embedded)
	staticContent, err := fs.Sub(staticFS, "static")
	if err != nil {
		return fmt.Errorf("could not load embedded static files: %w", err)
	}

	fileServer := http.FileServer(http.FS(staticContent))
	s.router.PathPrefix("/").Handler(pageHandler{staticContent: staticContent, fileServer: fileServer})
	return nil
}

// Handler returns the fully wrapped HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Addr is the configured listen address
func (s *Server) Addr() string {
	return net.JoinHostPort(s.cfg.Host, fmt.Sprint(s.cfg.Port))
}

// URL is the base URL clients on this machine use to reach the server
func (s *Server) URL() string {
	host := s.cfg.Host
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, fmt.Sprint(s.cfg.Port))
}

// Start begins listening for HTTP connections
func (s *Server) Start() error {
	log.Printf("Server listening on %s", s.URL())
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Stop gracefully shuts down the server
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.httpServer.Shutdown(ctx)
}

// pageHandler serves the embedded page; unknown paths get index.html
type pageHandler struct {
	staticContent fs.FS
	fileServer    http.Handler
}

func (h pageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	if path == "/" {
		path = "index.html"
	}

	// fs.FS paths must not have a leading slash
	cleanPath := strings.TrimPrefix(path, "/")

	if _, err := fs.Stat(h.staticContent, cleanPath); err != nil {
		r.URL.Path = "/"
	}

	h.fileServer.ServeHTTP(w, r)
}
