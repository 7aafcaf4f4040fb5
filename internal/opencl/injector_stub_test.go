//go:build !opencl

package opencl

import (
	"errors"
	"testing"

	"stable-fluids/pkg/fluid"
)

func TestStubUnavailable(t *testing.T) {
	in, err := New(fluid.Cells(8))
	if !errors.Is(err, ErrUnavailable) || in != nil {
		t.Fatalf("New() = %v, %v; want ErrUnavailable", in, err)
	}
	var stub *Injector
	if err := stub.AddSource(nil, nil, 0); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("AddSource() = %v", err)
	}
}

func TestSolverFallsBackFromStub(t *testing.T) {
	const n = 4
	s, err := fluid.NewSolver(n, fluid.WithSourceInjector(&Injector{}))
	if err != nil {
		t.Fatal(err)
	}
	d, dPrev := fluid.NewField(n), fluid.NewField(n)
	dPrev[fluid.Index(2, 2, n)] = 30
	if err := s.DensityStep(d, dPrev, fluid.NewField(n), fluid.NewField(n), 0, 0.5); err != nil {
		t.Fatal(err)
	}
	if got := d[fluid.Index(2, 2, n)]; got != 15 {
		t.Fatalf("density = %v, want 15 from the cpu path", got)
	}
}
