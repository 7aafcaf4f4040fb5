// Command headless runs a smoke simulation without a window and reports the
// average cost per cell of each phase of a tick.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"stable-fluids/internal/bench"
	"stable-fluids/internal/cli"
	"stable-fluids/internal/opencl"
	"stable-fluids/internal/sims/smoke"
	"stable-fluids/pkg/fluid"
)

type runConfig struct {
	sim        smoke.Config
	policy     smoke.Policy
	steps      int
	window     time.Duration
	useOpenCL  bool
	cpuProfile string
}

func main() {
	simCfg := smoke.DefaultConfig()
	simCfg.Bind(flag.CommandLine)
	var opts cli.Options
	opts.Bind(flag.CommandLine)
	policy := flag.String("policy", smoke.PolicyPulse.String(), "forcing policy: pulse, jet or swirl")
	steps := flag.Int("steps", 0, "ticks to run, 0 runs until interrupted")
	window := flag.Duration("window", time.Second, "aggregation window for the averages")
	useOpenCL := flag.Bool("opencl", false, "inject sources on an OpenCL device when available")
	cpuProfile := flag.String("cpuprofile", "", "write a CPU profile to this file")
	flag.Parse()

	logger, err := opts.Logger(os.Stderr)
	if err != nil {
		log.Fatal(err)
	}
	fluid.SetLogger(logger)

	rc := runConfig{steps: *steps, window: *window, useOpenCL: *useOpenCL, cpuProfile: *cpuProfile}
	if rc.sim, err = opts.Resolve(flag.CommandLine, simCfg); err != nil {
		log.Fatal(err)
	}
	if rc.policy, err = smoke.ParsePolicy(*policy); err != nil {
		log.Fatal(err)
	}
	if rc.steps < 0 {
		log.Fatalf("steps must not be negative, got %d", rc.steps)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, rc, os.Stdout, logger); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, rc runConfig, out io.Writer, logger *slog.Logger) error {
	if rc.cpuProfile != "" {
		stopProfile, err := startCPUProfile(rc.cpuProfile)
		if err != nil {
			return fmt.Errorf("cpu profile: %w", err)
		}
		defer stopProfile()
	}

	var extra []fluid.Option
	if rc.useOpenCL {
		inj, err := opencl.New(fluid.Cells(rc.sim.N))
		if err != nil {
			logger.Warn("opencl unavailable, using cpu", "err", err)
		} else {
			defer inj.Close()
			logger.Info("source injection", "backend", inj.Name())
			extra = append(extra, fluid.WithSourceInjector(inj))
		}
	}

	sim, err := smoke.New(rc.policy, rc.sim, extra...)
	if err != nil {
		return err
	}
	logger.Info("starting", "policy", rc.policy, "n", rc.sim.N, "iterations", rc.sim.Iterations,
		"ordering", rc.sim.Ordering, "workers", rc.sim.Workers, "steps", rc.steps)

	rec := bench.NewRecorder(rc.sim.N, rc.window)
	for tick := 0; rc.steps == 0 || tick < rc.steps; tick++ {
		if ctx.Err() != nil {
			break
		}
		if err := sim.Advance(); err != nil {
			return fmt.Errorf("tick %d: %w", tick, err)
		}
		if w, ok := rec.Add(sim.Timings()); ok {
			if err := bench.WriteWindow(out, w); err != nil {
				return err
			}
		}
	}
	if w, ok := rec.Flush(); ok {
		if err := bench.WriteWindow(out, w); err != nil {
			return err
		}
	}
	if len(rec.Windows()) == 0 {
		return nil
	}
	return bench.WriteSummary(out, rec.Summary())
}
