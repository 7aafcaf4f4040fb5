package main

import (
	"context"
	"testing"

	"stable-fluids/internal/sims/smoke"
	"stable-fluids/pkg/fluid"
)

func TestParseLevels(t *testing.T) {
	got, err := parseLevels(" 5, 10,,20 ")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[0] != 5 || got[1] != 10 || got[2] != 20 {
		t.Fatalf("parseLevels = %v", got)
	}
	for _, bad := range []string{"", "0", "5,x", " , "} {
		if _, err := parseLevels(bad); err == nil {
			t.Fatalf("parseLevels(%q) must fail", bad)
		}
	}
}

func TestParseOrderings(t *testing.T) {
	got, err := parseOrderings("gs,rb")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != fluid.OrderingGaussSeidel || got[1] != fluid.OrderingRedBlack {
		t.Fatalf("parseOrderings = %v", got)
	}
	if _, err := parseOrderings("jacobi"); err == nil {
		t.Fatal("unknown ordering must fail")
	}
}

func TestSweepFindsReference(t *testing.T) {
	base := smoke.DefaultConfig()
	base.N = 12
	sets := scenarios([]int{2, 30}, []fluid.Ordering{fluid.OrderingGaussSeidel})
	if len(sets) != 2 {
		t.Fatalf("scenarios = %v", sets)
	}

	results, err := sweep(context.Background(), base, smoke.PolicyPulse, sets, 6, 30, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results", len(results))
	}
	best := results[0]
	if best.iterations != 30 || best.drift != 0 {
		t.Fatalf("the run matching the reference must sort first with zero drift, got %+v", best)
	}
	if results[1].drift <= 0 {
		t.Fatalf("a cheaper solve must drift from the reference, got %+v", results[1])
	}
	if best.mass <= 0 {
		t.Fatalf("pulse must have injected density, got mass %v", best.mass)
	}
}

func TestSweepCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	base := smoke.DefaultConfig()
	base.N = 8
	if _, err := sweep(ctx, base, smoke.PolicyPulse, scenarios([]int{4}, []fluid.Ordering{fluid.OrderingRedBlack}), 3, 8, 1); err == nil {
		t.Fatal("cancelled sweep must fail")
	}
}
