package main

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"stable-fluids/internal/sims/smoke"
	"stable-fluids/pkg/fluid"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

type scenario struct {
	iterations int
	ordering   fluid.Ordering
}

func (s scenario) String() string {
	return fmt.Sprintf("iterations=%d ordering=%s", s.iterations, s.ordering)
}

type result struct {
	scenario
	maxDiv  float32
	mass    float64
	drift   float64
	perTick time.Duration
}

type field struct {
	density []float64
	maxDiv  float32
	mass    float64
	perTick time.Duration
}

// simulate runs steps ticks of policy on base with the scenario's solver
// settings and captures the final density.
func simulate(ctx context.Context, base smoke.Config, policy smoke.Policy, sc scenario, steps int) (field, error) {
	cfg := base
	cfg.Iterations = sc.iterations
	cfg.Ordering = sc.ordering.String()
	sim, err := smoke.New(policy, cfg)
	if err != nil {
		return field{}, err
	}
	start := time.Now()
	for tick := 0; tick < steps; tick++ {
		if err := ctx.Err(); err != nil {
			return field{}, err
		}
		if err := sim.Advance(); err != nil {
			return field{}, fmt.Errorf("%s tick %d: %w", sc, tick, err)
		}
	}
	elapsed := time.Since(start)

	st := sim.State()
	n := cfg.N
	d := st.Density.Curr()
	out := field{
		density: make([]float64, len(d)),
		maxDiv:  fluid.MaxDivergence(n, st.VX.Curr(), st.VY.Curr()),
		mass:    fluid.InteriorSum(n, d),
	}
	for i, v := range d {
		out.density[i] = float64(v)
	}
	if steps > 0 {
		out.perTick = elapsed / time.Duration(steps)
	}
	return out, nil
}

// sweep runs every scenario on up to jobs goroutines and measures each
// against a reference run with refIterations Gauss-Seidel sweeps. Results
// are sorted by drift from the reference, then by cost.
func sweep(ctx context.Context, base smoke.Config, policy smoke.Policy, scenarios []scenario, steps, refIterations, jobs int) ([]result, error) {
	ref, err := simulate(ctx, base, policy, scenario{iterations: refIterations, ordering: fluid.OrderingGaussSeidel}, steps)
	if err != nil {
		return nil, fmt.Errorf("reference: %w", err)
	}

	results := make([]result, len(scenarios))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(jobs, 1))
	for i, sc := range scenarios {
		g.Go(func() error {
			f, err := simulate(ctx, base, policy, sc, steps)
			if err != nil {
				return err
			}
			results[i] = result{
				scenario: sc,
				maxDiv:   f.maxDiv,
				mass:     f.mass,
				drift:    floats.Distance(f.density, ref.density, 2),
				perTick:  f.perTick,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].drift != results[j].drift {
			return results[i].drift < results[j].drift
		}
		return results[i].perTick < results[j].perTick
	})
	return results, nil
}

// scenarios crosses every iteration count with every ordering.
func scenarios(levels []int, orderings []fluid.Ordering) []scenario {
	out := make([]scenario, 0, len(levels)*len(orderings))
	for _, k := range levels {
		for _, o := range orderings {
			out = append(out, scenario{iterations: k, ordering: o})
		}
	}
	return out
}

func parseLevels(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		k, err := strconv.Atoi(part)
		if err != nil || k < 1 {
			return nil, fmt.Errorf("invalid iteration count %q", part)
		}
		out = append(out, k)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no iteration counts in %q", s)
	}
	return out, nil
}

func parseOrderings(s string) ([]fluid.Ordering, error) {
	var out []fluid.Ordering
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		o, err := fluid.ParseOrdering(part)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no orderings in %q", s)
	}
	return out, nil
}
