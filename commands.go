package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/kartoza/qmc-desk/internal/bridge"
	"github.com/kartoza/qmc-desk/internal/dispatch"
	"github.com/kartoza/qmc-desk/internal/vmc"
)

// parseSeed reads a seed flag; "" and "none" select a random seed
func parseSeed(raw string) (*int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "none") {
		return nil, nil
	}
	seed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid seed %q", raw)
	}
	return &seed, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// runVMC runs one simulation in-process
func runVMC(args []string, stdout, stderr io.Writer) error {
	cfg := vmc.DefaultConfig()
	var seed string
	var asJSON bool

	fs := flag.NewFlagSet("vmc-ho", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.IntVar(&cfg.NSteps, "n-steps", cfg.NSteps, "Total Metropolis steps")
	fs.IntVar(&cfg.BurnIn, "burn-in", cfg.BurnIn, "Steps discarded before averaging")
	fs.Float64Var(&cfg.StepSize, "step-size", cfg.StepSize, "Proposal width")
	fs.Float64Var(&cfg.Alpha, "alpha", cfg.Alpha, "Trial wavefunction parameter")
	fs.Float64Var(&cfg.InitialPosition, "initial-position", cfg.InitialPosition, "Walker start position")
	fs.StringVar(&seed, "seed", strconv.Itoa(vmc.DefaultSeed), "Random seed (\"none\" for a random one)")
	fs.BoolVar(&asJSON, "json", false, "Print the raw result as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	s, err := parseSeed(seed)
	if err != nil {
		return err
	}
	cfg.Seed = s

	result, err := vmc.RunHarmonicOscillator(context.Background(), cfg)
	if err != nil {
		return err
	}

	if asJSON {
		return writeJSON(stdout, result)
	}
	fmt.Fprintln(stdout, strings.Join(dispatch.Render(result), "\n"))
	return nil
}

// runBenchmark runs the reference suite; the exit code is 1 when a case fails
func runBenchmark(args []string, stdout, stderr io.Writer) (int, error) {
	bc := vmc.DefaultBenchmarkConfig()
	var seed string
	var asJSON bool

	fs := flag.NewFlagSet("benchmark", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.IntVar(&bc.NSteps, "n-steps", bc.NSteps, "Total Metropolis steps per case")
	fs.IntVar(&bc.BurnIn, "burn-in", bc.BurnIn, "Steps discarded before averaging")
	fs.Float64Var(&bc.StepSize, "step-size", bc.StepSize, "Proposal width")
	fs.Float64Var(&bc.InitialPosition, "initial-position", bc.InitialPosition, "Walker start position")
	fs.StringVar(&seed, "seed", strconv.Itoa(vmc.DefaultSeed), "Base seed, case i uses seed+i (\"none\" for random)")
	fs.BoolVar(&asJSON, "json", false, "Print the suite result as JSON")
	if err := fs.Parse(args); err != nil {
		return 0, err
	}

	s, err := parseSeed(seed)
	if err != nil {
		return 0, err
	}
	bc.Seed = s

	suite, err := vmc.RunBenchmarks(context.Background(), bc)
	if err != nil {
		return 0, err
	}

	if asJSON {
		if err := writeJSON(stdout, suite); err != nil {
			return 0, err
		}
	} else {
		fmt.Fprintln(stdout, suite.PrettyText())
	}

	if !suite.AllPassed {
		return 1, nil
	}
	return 0, nil
}

// runDispatch drives one submission through the dispatcher with a terminal display
func runDispatch(args []string, stdout, stderr io.Writer) (int, error) {
	defaults := vmc.DefaultRequest()
	form := map[string]string{
		dispatch.FieldNSteps:          formatNumber(defaults.NSteps),
		dispatch.FieldBurnIn:          formatNumber(defaults.BurnIn),
		dispatch.FieldStepSize:        formatNumber(defaults.StepSize),
		dispatch.FieldAlpha:           formatNumber(defaults.Alpha),
		dispatch.FieldInitialPosition: formatNumber(defaults.InitialPosition),
		dispatch.FieldSeed:            formatNumber(*defaults.Seed),
	}

	var launch string
	var noBridge bool
	var timeout time.Duration

	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(stderr)
	formFlags := []struct{ flag, field, usage string }{
		{"n-steps", dispatch.FieldNSteps, "Total Metropolis steps"},
		{"burn-in", dispatch.FieldBurnIn, "Steps discarded before averaging"},
		{"step-size", dispatch.FieldStepSize, "Proposal width"},
		{"alpha", dispatch.FieldAlpha, "Trial wavefunction parameter"},
		{"initial-position", dispatch.FieldInitialPosition, "Walker start position"},
		{"seed", dispatch.FieldSeed, "Random seed (empty for a random one)"},
	}
	values := make(map[string]*string, len(formFlags))
	for _, f := range formFlags {
		values[f.field] = fs.String(f.flag, form[f.field], f.usage)
	}
	fs.StringVar(&launch, "launch", "", "Launch query, e.g. compute_mode=api&api_base_url=http://127.0.0.1:8000")
	fs.BoolVar(&noBridge, "no-bridge", false, "Never publish the local compute bridge")
	fs.DurationVar(&timeout, "bridge-timeout", bridge.DefaultReadyTimeout, "How long to wait for the local bridge")
	if err := fs.Parse(args); err != nil {
		return 0, err
	}
	for field, v := range values {
		form[field] = *v
	}

	params := dispatch.ParseLaunchQuery(launch)
	host := bridge.NewHost()
	if !noBridge {
		host.Publish(bridge.NewLocalCompute())
	}

	display := dispatch.NewTextDisplay(stdout)
	req, err := dispatch.BuildRequest(form)
	if err != nil {
		display.SetTransport(dispatch.LabelError)
		display.ShowError(err)
		return 1, nil
	}

	d := dispatch.New(params, host, dispatch.Options{
		ReadyTimeout: timeout,
		Display:      display,
		Logger:       log.New(stderr, "", log.LstdFlags),
	})
	if _, err := d.Submit(context.Background(), req); err != nil {
		return 1, nil
	}
	return 0, nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
