package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kartoza/qmc-desk/internal/bridge"
	"github.com/kartoza/qmc-desk/internal/config"
	"github.com/kartoza/qmc-desk/internal/dispatch"
	"github.com/kartoza/qmc-desk/internal/gui"
	"github.com/kartoza/qmc-desk/internal/server"
)

var version = "dev"

const usage = `Usage: qmc-desk [command] [flags]

Commands:
  gui         open the desktop window (default)
  serve-api   run the HTTP API without a window
  vmc-ho      run one VMC simulation of the harmonic oscillator
  benchmark   run the VMC reference suite
  run         submit one simulation through the dispatcher
  version     print the version
`

func main() {
	os.Exit(runCommand(os.Args[1:], os.Stdout, os.Stderr))
}

// runCommand picks the subcommand and returns the process exit code
func runCommand(args []string, stdout, stderr io.Writer) int {
	cmd := "gui"
	if len(args) > 0 && len(args[0]) > 0 && args[0][0] != '-' {
		cmd, args = args[0], args[1:]
	}

	var err error
	code := 0
	switch cmd {
	case "gui":
		err = runGUI(args, stderr)
	case "serve-api":
		err = runServeAPI(args, stderr)
	case "vmc-ho":
		err = runVMC(args, stdout, stderr)
	case "benchmark":
		code, err = runBenchmark(args, stdout, stderr)
	case "run":
		code, err = runDispatch(args, stdout, stderr)
	case "version":
		fmt.Fprintf(stdout, "qmc-desk v%s\n", version)
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", cmd, usage)
		return 2
	}

	if err == flag.ErrHelp {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return code
}

// runGUI starts the in-process server and opens the window on it
func runGUI(args []string, stderr io.Writer) error {
	cfg := config.Default()
	cfg.Version = version

	fs := flag.NewFlagSet("gui", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.Host, "host", cfg.Host, "Host the embedded server binds to")
	fs.IntVar(&cfg.Port, "port", 8080, "First port to try for the embedded server")
	fs.StringVar(&cfg.APIURL, "api-url", "", "Use an existing compute API instead of the embedded one")
	fs.StringVar(&cfg.ComputeMode, "compute-mode", cfg.ComputeMode, "Compute mode: auto, direct or api")
	fs.DurationVar(&cfg.BridgeWait, "bridge-timeout", cfg.BridgeWait, "How long a submission waits for the local bridge")
	fs.IntVar(&cfg.Width, "width", cfg.Width, "Window width")
	fs.IntVar(&cfg.Height, "height", cfg.Height, "Window height")
	fs.BoolVar(&cfg.Debug, "debug", false, "Enable the webview inspector")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// Find an available port (try up to 10 ports starting from the requested one)
	availablePort, err := findAvailablePort(cfg.Host, cfg.Port, 10)
	if err != nil {
		return fmt.Errorf("failed to find available port: %w", err)
	}
	if availablePort != cfg.Port {
		log.Printf("Port %d in use, using port %d instead", cfg.Port, availablePort)
	}
	cfg.Port = availablePort

	srv, err := server.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()
	defer func() {
		if err := srv.Stop(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	}()
	waitForServer(srv.Addr(), 10*time.Second)

	params, err := resolveGUIParams(context.Background(), cfg, srv.URL())
	if err != nil {
		return err
	}
	log.Printf("qmc-desk v%s: compute_mode=%s api_base_url=%q", version, params.Mode, params.APIBaseURL)

	log.Printf("Opening application window...")
	win, err := gui.OpenWindow(gui.WindowConfig{
		Title:  "QMC Desk",
		URL:    gui.FrontendURL(srv.URL(), params),
		Width:  cfg.Width,
		Height: cfg.Height,
		Debug:  cfg.Debug,
	}, bridge.NewHost(), dispatch.Options{ReadyTimeout: cfg.BridgeWait})
	if err != nil {
		return fmt.Errorf("failed to open window: %w", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	// When the server dies or a signal arrives, close the window
	go func() {
		select {
		case err := <-errCh:
			if err != nil {
				log.Printf("Server error: %v", err)
			}
		case sig := <-stop:
			log.Printf("Received %v signal, shutting down...", sig)
		}
		win.Terminate()
	}()

	// Run blocks until the window is closed
	win.Run()
	return nil
}

// resolveGUIParams decides which API, if any, the page is told about
func resolveGUIParams(ctx context.Context, cfg config.Config, embeddedURL string) (dispatch.LaunchParams, error) {
	params := dispatch.LaunchParams{Mode: dispatch.ParseComputeMode(cfg.ComputeMode)}
	if params.Mode == dispatch.ModeDirect {
		return params, nil
	}

	if cfg.APIURL == "" {
		params.APIBaseURL = dispatch.NormalizeBaseURL(embeddedURL)
		return params, nil
	}

	if err := gui.WaitForHealth(ctx, cfg.APIURL, 15*time.Second); err != nil {
		return dispatch.LaunchParams{}, err
	}
	params.APIBaseURL = dispatch.NormalizeBaseURL(cfg.APIURL)
	return params, nil
}

// runServeAPI runs the HTTP API until SIGINT/SIGTERM
func runServeAPI(args []string, stderr io.Writer) error {
	cfg := config.Default()
	cfg.Version = version

	fs := flag.NewFlagSet("serve-api", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.Host, "host", cfg.Host, "Host to bind")
	fs.IntVar(&cfg.Port, "port", cfg.Port, "HTTP server port")
	fs.IntVar(&cfg.RateLimit, "rate-limit", cfg.RateLimit, "Compute requests per second per client (0 disables)")
	fs.IntVar(&cfg.RateBurst, "rate-burst", cfg.RateBurst, "Burst allowance for compute requests")
	fs.BoolVar(&cfg.NoCompression, "no-compression", false, "Disable brotli responses")
	if err := fs.Parse(args); err != nil {
		return err
	}

	srv, err := server.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-stop:
		log.Printf("Received %v signal, shutting down...", sig)
		if err := srv.Stop(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	}
	return nil
}

// waitForServer polls until the server is accepting connections
func waitForServer(addr string, timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		conn, err := net.DialTimeout("tcp", addr, 500*time.Millisecond)
		if err == nil {
			conn.Close()
			return
		}
		time.Sleep(100 * time.Millisecond)
	}
	log.Printf("Warning: server may not be ready at %s", addr)
}

// findAvailablePort finds an available port, starting from the given port.
// If the port is in use, it tries subsequent ports up to maxAttempts times.
func findAvailablePort(host string, startPort int, maxAttempts int) (int, error) {
	for i := 0; i < maxAttempts; i++ {
		port := startPort + i
		listener, err := net.Listen("tcp", net.JoinHostPort(host, fmt.Sprint(port)))
		if err == nil {
			listener.Close()
			return port, nil
		}
	}
	return 0, fmt.Errorf("no available port found after %d attempts starting from %d", maxAttempts, startPort)
}
