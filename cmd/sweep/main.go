// Command sweep measures how the relaxation iteration count and ordering
// trade accuracy for speed on a fixed smoke scenario.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"time"

	"stable-fluids/internal/cli"
	"stable-fluids/internal/sims/smoke"
	"stable-fluids/pkg/fluid"
)

func main() {
	var opts cli.Options
	opts.Bind(flag.CommandLine)
	steps := flag.Int("steps", 120, "ticks to simulate per scenario")
	jobs := flag.Int("jobs", runtime.NumCPU(), "number of scenarios run concurrently")
	levels := flag.String("iterations", "5,10,20,40", "comma separated relaxation sweep counts")
	orderings := flag.String("orderings", "gauss-seidel,red-black", "comma separated orderings")
	reference := flag.Int("reference", 200, "sweep count of the reference run")
	policy := flag.String("policy", smoke.PolicyPulse.String(), "forcing policy: pulse, jet or swirl")
	size := flag.Int("n", 64, "interior grid size")
	flag.Parse()

	logger, err := opts.Logger(os.Stderr)
	if err != nil {
		log.Fatal(err)
	}
	fluid.SetLogger(logger)

	base := smoke.DefaultConfig()
	base.N = *size
	base, err = opts.Resolve(flag.CommandLine, base)
	if err != nil {
		log.Fatal(err)
	}
	pol, err := smoke.ParsePolicy(*policy)
	if err != nil {
		log.Fatal(err)
	}
	ks, err := parseLevels(*levels)
	if err != nil {
		log.Fatal(err)
	}
	ords, err := parseOrderings(*orderings)
	if err != nil {
		log.Fatal(err)
	}
	if *reference < 1 {
		log.Fatalf("reference must be at least 1, got %d", *reference)
	}

	sets := scenarios(ks, ords)
	fmt.Printf("Sweeping %d scenarios on n=%d (%d jobs, %d steps, reference %d sweeps)\n",
		len(sets), base.N, *jobs, *steps, *reference)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	results, err := sweep(ctx, base, pol, sets, *steps, *reference, *jobs)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("\nResults by drift from reference (elapsed %s):\n", time.Since(start).Round(time.Millisecond))
	for i, res := range results {
		fmt.Printf("%2d) drift=%.4g maxDiv=%.3g mass=%.4g tick=%s %s\n",
			i+1, res.drift, res.maxDiv, res.mass, res.perTick.Round(time.Microsecond), res.scenario)
	}
}
