package fluid

import (
	"errors"
	"math"
	"slices"
	"testing"
)

// Expected grids for one VelocityStep on a 4×4 interior, dt=0.1, visc=0,
// starting from a single vxPrev=50 impulse at (2,2). Rows are j=0..5, each
// listing i=0..5.
var (
	impulseVX = [6][6]float32{
		{0, -0.19283538, -0.22539416, -0.052297026, 0.039539136, 0},
		{0.19283538, -0.19283538, -0.22539416, -0.052297026, 0.039539136, -0.039539136},
		{-0.51098442, 0.51098442, 0.27170712, -0.050828815, 0.18425173, -0.18425173},
		{0.12518394, -0.12518394, -0.19272307, -0.075039744, 0.031716958, -0.031716958},
		{0.088711843, -0.088711843, -0.14489722, -0.060004875, 0.0046616495, -0.0046616495},
		{0, -0.088711843, -0.14489722, -0.060004875, 0.0046616495, 0},
	}
	impulseVY = [6][6]float32{
		{0, -0.24565558, 0.065720692, 0.18788129, 0.052223526, 0},
		{0.24565558, 0.24565558, -0.065720692, -0.18788129, -0.052223526, -0.052223526},
		{-0.018458366, -0.018458366, -0.047959045, 0.024981212, 0.009354528, 0.009354528},
		{-0.31088328, -0.31088328, 0.081320696, 0.22421056, 0.066701695, 0.066701695},
		{-0.038970679, -0.038970679, -0.0017164806, 0.032276724, 0.0099141449, 0.0099141449},
		{0, 0.038970679, 0.0017164806, -0.032276724, -0.0099141449, 0},
	}
)

func TestVelocityStepImpulse(t *testing.T) {
	const n = 4
	vx, vy := NewField(n), NewField(n)
	vxPrev, vyPrev := NewField(n), NewField(n)
	vxPrev[Index(2, 2, n)] = 50

	VelocityStep(n, vx, vy, vxPrev, vyPrev, 0, 0.1)

	for j := 0; j < n+2; j++ {
		for i := 0; i < n+2; i++ {
			if got, want := vx[Index(i, j, n)], impulseVX[j][i]; math.Abs(float64(got-want)) > 1e-5 {
				t.Fatalf("vx(%d,%d)=%v, want %v", i, j, got, want)
			}
			if got, want := vy[Index(i, j, n)], impulseVY[j][i]; math.Abs(float64(got-want)) > 1e-5 {
				t.Fatalf("vy(%d,%d)=%v, want %v", i, j, got, want)
			}
		}
	}
}

func TestVelocityStepInjectsSourceUndiffused(t *testing.T) {
	const n = 4
	s, err := NewSolver(n)
	if err != nil {
		t.Fatal(err)
	}
	u := PairOf(NewField(n), NewField(n))
	v := PairOf(NewField(n), NewField(n))
	u.Prev()[Index(2, 2, n)] = 50

	s.addSource(u.Curr(), u.Prev(), 0.1)
	s.addSource(v.Curr(), v.Prev(), 0.1)
	if got := u.Curr()[Index(2, 2, n)]; got != 5 {
		t.Fatalf("injected vx = %v, want 5", got)
	}
	u.Swap()
	s.diffuse(BoundaryMirrorX, u.Curr(), u.Prev(), 0, 0.1)
	if got := u.Curr()[Index(2, 2, n)]; got != 5 {
		t.Fatalf("zero viscosity must not diffuse, got %v", got)
	}
	if got := u.Curr()[Index(1, 2, n)]; got != 0 {
		t.Fatalf("neighbour picked up %v without viscosity", got)
	}
}

func TestDensityStepStillFluid(t *testing.T) {
	const n = 4
	d, dPrev := NewField(n), NewField(n)
	vx, vy := NewField(n), NewField(n)
	dPrev[Index(2, 3, n)] = 100

	DensityStep(n, d, dPrev, vx, vy, 0, 0.1)

	Interior(n, func(i, j, idx int) {
		want := float32(0)
		if i == 2 && j == 3 {
			want = 10
		}
		if math.Abs(float64(d[idx]-want)) > 1e-5 {
			t.Fatalf("density(%d,%d)=%v, want %v", i, j, d[idx], want)
		}
	})
	if got, want := d[Index(2, n+1, n)], d[Index(2, n, n)]; got != want {
		t.Fatalf("ghost (2,%d)=%v must copy its interior neighbour %v", n+1, got, want)
	}
}

func TestDensityStepDoesNotTouchVelocity(t *testing.T) {
	const n = 8
	vx := randomField(n, 31)
	vy := randomField(n, 32)
	wantX := append([]float32(nil), vx...)
	wantY := append([]float32(nil), vy...)
	d, dPrev := NewField(n), randomField(n, 33)

	DensityStep(n, d, dPrev, vx, vy, 0.001, 0.1)

	if !slices.Equal(vx, wantX) || !slices.Equal(vy, wantY) {
		t.Fatal("DensityStep mutated the velocity field")
	}
}

func TestStepRestoresBufferRoles(t *testing.T) {
	const n = 8
	s, err := NewSolver(n)
	if err != nil {
		t.Fatal(err)
	}
	st := NewState(n)
	vx := st.VX.Curr()
	d := st.Density.Curr()
	st.VX.Prev()[Index(4, 4, n)] = 10
	st.Density.Prev()[Index(4, 4, n)] = 10

	if err := s.Step(st, Params{DT: 0.1, Diff: 0.0001, Visc: 0.0001}); err != nil {
		t.Fatal(err)
	}
	if st.VX.Flipped() || st.VY.Flipped() || st.Density.Flipped() {
		t.Fatal("a full tick must leave every pair in its starting roles")
	}
	if &st.VX.Curr()[0] != &vx[0] || &st.Density.Curr()[0] != &d[0] {
		t.Fatal("current buffers changed identity")
	}
	if InteriorSum(n, st.Density.Curr()) <= 0 {
		t.Fatal("density source was not injected")
	}
}

func TestStepMatchesSliceEntryPoints(t *testing.T) {
	const n = 10
	p := Params{DT: 0.1, Diff: 0.0002, Visc: 0.0001}

	st := NewState(n)
	copy(st.VX.Prev(), randomField(n, 41))
	copy(st.VY.Prev(), randomField(n, 42))
	copy(st.Density.Prev(), randomField(n, 43))

	vx, vy := NewField(n), NewField(n)
	vxPrev := append([]float32(nil), st.VX.Prev()...)
	vyPrev := append([]float32(nil), st.VY.Prev()...)
	d := NewField(n)
	dPrev := append([]float32(nil), st.Density.Prev()...)

	s, err := NewSolver(n)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Step(st, p); err != nil {
		t.Fatal(err)
	}
	VelocityStep(n, vx, vy, vxPrev, vyPrev, p.Visc, p.DT)
	DensityStep(n, d, dPrev, vx, vy, p.Diff, p.DT)

	if !slices.Equal(st.VX.Curr(), vx) || !slices.Equal(st.VY.Curr(), vy) || !slices.Equal(st.Density.Curr(), d) {
		t.Fatal("Solver.Step and the package-level steps disagree")
	}
}

func TestSplitHalvesMatchStep(t *testing.T) {
	const n = 10
	p := Params{DT: 0.1, Diff: 0.001, Visc: 0.001}
	whole, split := NewState(n), NewState(n)
	for _, st := range []*State{whole, split} {
		copy(st.VX.Prev(), randomField(n, 51))
		copy(st.VY.Prev(), randomField(n, 52))
		copy(st.Density.Prev(), randomField(n, 53))
	}
	s, err := NewSolver(n)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Step(whole, p); err != nil {
		t.Fatal(err)
	}
	if err := s.StepVelocity(split, p); err != nil {
		t.Fatal(err)
	}
	if err := s.StepDensity(split, p); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(whole.Density.Curr(), split.Density.Curr()) || !slices.Equal(whole.VX.Curr(), split.VX.Curr()) {
		t.Fatal("StepVelocity followed by StepDensity must equal Step")
	}
}

func TestWorkersDoNotChangeResults(t *testing.T) {
	const n = 48
	run := func(ordering Ordering, workers int) *State {
		s, err := NewSolver(n, WithOrdering(ordering), WithWorkers(workers))
		if err != nil {
			t.Fatal(err)
		}
		st := NewState(n)
		for tick := 0; tick < 3; tick++ {
			copy(st.VX.Prev(), randomField(n, uint64(100+tick)))
			copy(st.VY.Prev(), randomField(n, uint64(200+tick)))
			copy(st.Density.Prev(), randomField(n, uint64(300+tick)))
			if err := s.Step(st, Params{DT: 0.05, Diff: 0.0001, Visc: 0.0001}); err != nil {
				t.Fatal(err)
			}
		}
		return st
	}
	for _, ordering := range []Ordering{OrderingGaussSeidel, OrderingRedBlack} {
		seq := run(ordering, 1)
		for _, workers := range []int{4, 7} {
			par := run(ordering, workers)
			if !slices.Equal(seq.VX.Curr(), par.VX.Curr()) ||
				!slices.Equal(seq.VY.Curr(), par.VY.Curr()) ||
				!slices.Equal(seq.Density.Curr(), par.Density.Curr()) {
				t.Fatalf("%v with %d workers changed the result", ordering, workers)
			}
		}
	}
}

func TestSolverRejectsBadInput(t *testing.T) {
	const n = 4
	s, err := NewSolver(n)
	if err != nil {
		t.Fatal(err)
	}
	a, b, c, d := NewField(n), NewField(n), NewField(n), NewField(n)

	cases := []struct {
		name string
		err  error
		run  func() error
	}{
		{"negative dt", ErrNegativeParameter, func() error { return s.VelocityStep(a, b, c, d, 0, -0.1) }},
		{"negative visc", ErrNegativeParameter, func() error { return s.VelocityStep(a, b, c, d, -1, 0.1) }},
		{"negative diff", ErrNegativeParameter, func() error { return s.DensityStep(a, b, c, d, -1, 0.1) }},
		{"nan dt", ErrNegativeParameter, func() error { return s.DensityStep(a, b, c, d, 0, float32(math.NaN())) }},
		{"inf dt", ErrNegativeParameter, func() error { return s.VelocityStep(a, b, c, d, 0, float32(math.Inf(1))) }},
		{"inf diff", ErrNegativeParameter, func() error { return s.DensityStep(a, b, c, d, float32(math.Inf(1)), 0.1) }},
		{"overflowing visc", ErrParameterRange, func() error { return s.VelocityStep(a, b, c, d, 1e38, 0.1) }},
		{"overflowing diff", ErrParameterRange, func() error {
			return s.Step(NewState(n), Params{DT: 0.1, Diff: math.MaxFloat32})
		}},
		{"short buffer", ErrBufferSize, func() error { return s.VelocityStep(a[:10], b, c, d, 0, 0.1) }},
		{"same buffer", ErrAliased, func() error { return s.VelocityStep(a, b, a, d, 0, 0.1) }},
		{"overlapping views", ErrAliased, func() error {
			big := make([]float32, Cells(n)+1)
			return s.DensityStep(big[:Cells(n)], big[1:], c, d, 0, 0.1)
		}},
		{"state size", ErrBufferSize, func() error { return s.Step(NewState(n+1), Params{DT: 0.1}) }},
	}
	for _, tc := range cases {
		if err := tc.run(); !errors.Is(err, tc.err) {
			t.Fatalf("%s: got %v, want %v", tc.name, err, tc.err)
		}
	}
}

func TestNewSolverOptions(t *testing.T) {
	if _, err := NewSolver(0); !errors.Is(err, ErrGridSize) {
		t.Fatalf("n=0: got %v, want ErrGridSize", err)
	}
	if _, err := NewSolver(4, WithIterations(0)); !errors.Is(err, ErrIterations) {
		t.Fatalf("zero iterations: got %v, want ErrIterations", err)
	}
	if _, err := NewSolver(4, WithOrdering(Ordering(7))); err == nil {
		t.Fatal("expected an error for an unknown ordering")
	}
	s, err := NewSolver(4, WithIterations(5), WithOrdering(OrderingRedBlack), WithWorkers(-3))
	if err != nil {
		t.Fatal(err)
	}
	if s.Iterations() != 5 || s.Ordering() != OrderingRedBlack || s.workers != 1 {
		t.Fatalf("options not applied: iterations=%d ordering=%v workers=%d", s.Iterations(), s.Ordering(), s.workers)
	}
}

func TestPackageStepsPanicOnViolation(t *testing.T) {
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrBufferSize) {
			t.Fatalf("expected ErrBufferSize panic, got %v", r)
		}
	}()
	VelocityStep(4, make([]float32, 3), NewField(4), NewField(4), NewField(4), 0, 0.1)
}

func TestPairSwap(t *testing.T) {
	a, b := NewField(2), NewField(2)
	p := PairOf(a, b)
	if &p.Curr()[0] != &a[0] || &p.Prev()[0] != &b[0] {
		t.Fatal("PairOf must put the first buffer in the current role")
	}
	p.Swap()
	if &p.Curr()[0] != &b[0] || !p.Flipped() {
		t.Fatal("Swap must exchange roles")
	}
	p.Curr()[3] = 7
	if b[3] != 7 {
		t.Fatal("Swap must not copy data")
	}
	p.Swap()
	if p.Flipped() {
		t.Fatal("second Swap must restore roles")
	}
}

func TestParamsValidateFor(t *testing.T) {
	p := Params{DT: 3e38}
	if err := p.Validate(); err != nil {
		t.Fatalf("finite dt must pass Validate, got %v", err)
	}
	if err := p.ValidateFor(4); !errors.Is(err, ErrParameterRange) {
		t.Fatalf("dt*n overflow: got %v, want ErrParameterRange", err)
	}
	if err := (Params{DT: 0.1, Diff: 1, Visc: 1}).ValidateFor(512); err != nil {
		t.Fatalf("ordinary parameters rejected: %v", err)
	}
	if err := (Params{DT: 0.1, Visc: 1e36}).ValidateFor(512); !errors.Is(err, ErrParameterRange) {
		t.Fatalf("coefficient overflow at n=512: got %v, want ErrParameterRange", err)
	}
}
