// Package fluid implements the stable fluids scheme on a square grid: source
// injection, implicit diffusion, semi-Lagrangian advection and pressure
// projection for a velocity field and a passively transported density.
//
// Buffers are owned by the caller and sized with Cells(n). The solver
// borrows them for the duration of a call and never allocates during a step.
package fluid

import "fmt"

// Solver runs velocity and density updates for one grid size. A Solver is
// not safe for concurrent use.
type Solver struct {
	n          int
	iterations int
	ordering   Ordering
	workers    int
	sources    SourceInjector
}

// NewSolver returns a solver for an n×n interior.
func NewSolver(n int, opts ...Option) (*Solver, error) {
	s, err := newSolver(n, opts...)
	if err != nil {
		return nil, err
	}
	backend := "cpu"
	if s.sources != nil {
		backend = s.sources.Name()
	}
	Logger().Debug("solver created", "n", n, "iterations", s.iterations,
		"ordering", s.ordering.String(), "workers", s.workers, "sources", backend)
	return s, nil
}

func newSolver(n int, opts ...Option) (*Solver, error) {
	if err := checkGrid(n); err != nil {
		return nil, err
	}
	s := &Solver{n: n, iterations: DefaultIterations, workers: 1}
	for _, opt := range opts {
		opt(s)
	}
	if s.iterations < 1 {
		return nil, fmt.Errorf("%w: %d", ErrIterations, s.iterations)
	}
	if s.ordering != OrderingGaussSeidel && s.ordering != OrderingRedBlack {
		return nil, fmt.Errorf("fluid: unknown ordering %v", s.ordering)
	}
	if s.workers < 1 {
		s.workers = 1
	}
	return s, nil
}

// N returns the interior resolution.
func (s *Solver) N() int { return s.n }

// Iterations returns the number of relaxation sweeps per solve.
func (s *Solver) Iterations() int { return s.iterations }

// Ordering returns the relaxation sweep order.
func (s *Solver) Ordering() Ordering { return s.ordering }

// VelocityStep advances the velocity field by dt. vxPrev and vyPrev hold the
// force sources on entry; afterwards their contents are scratch. The new
// velocity is written to vx and vy.
func (s *Solver) VelocityStep(vx, vy, vxPrev, vyPrev []float32, visc, dt float32) error {
	if err := s.checkStep(Params{DT: dt, Visc: visc}, []string{"vx", "vy", "vxPrev", "vyPrev"},
		vx, vy, vxPrev, vyPrev); err != nil {
		return err
	}
	u, v := PairOf(vx, vxPrev), PairOf(vy, vyPrev)
	s.velocityStep(&u, &v, visc, dt)
	return nil
}

// DensityStep advances the density by dt, transported by (vx, vy). dPrev
// holds the density source on entry and scratch afterwards; vx and vy are
// only read.
func (s *Solver) DensityStep(d, dPrev, vx, vy []float32, diff, dt float32) error {
	if err := s.checkStep(Params{DT: dt, Diff: diff}, []string{"d", "dPrev", "vx", "vy"},
		d, dPrev, vx, vy); err != nil {
		return err
	}
	dens := PairOf(d, dPrev)
	s.densityStep(&dens, vx, vy, diff, dt)
	return nil
}

// Step runs one full tick on st: the velocity update followed by the
// density update.
func (s *Solver) Step(st *State, p Params) error {
	if err := s.checkState(st, p); err != nil {
		return err
	}
	s.velocityStep(&st.VX, &st.VY, p.Visc, p.DT)
	s.densityStep(&st.Density, st.VX.Curr(), st.VY.Curr(), p.Diff, p.DT)
	return nil
}

// StepVelocity runs only the velocity half of a tick on st.
func (s *Solver) StepVelocity(st *State, p Params) error {
	if err := s.checkState(st, p); err != nil {
		return err
	}
	s.velocityStep(&st.VX, &st.VY, p.Visc, p.DT)
	return nil
}

// StepDensity runs only the density half of a tick on st, transported by
// its current velocity.
func (s *Solver) StepDensity(st *State, p Params) error {
	if err := s.checkState(st, p); err != nil {
		return err
	}
	s.densityStep(&st.Density, st.VX.Curr(), st.VY.Curr(), p.Diff, p.DT)
	return nil
}

func (s *Solver) checkState(st *State, p Params) error {
	if st.N != s.n {
		return fmt.Errorf("%w: state n=%d, solver n=%d", ErrBufferSize, st.N, s.n)
	}
	if err := p.ValidateFor(s.n); err != nil {
		return err
	}
	return st.Validate()
}

func (s *Solver) checkStep(p Params, names []string, bufs ...[]float32) error {
	if err := p.ValidateFor(s.n); err != nil {
		return err
	}
	return checkBuffers(s.n, names, bufs...)
}

// velocityStep swaps each pair twice, so the current roles end where they
// started.
func (s *Solver) velocityStep(u, v *Pair, visc, dt float32) {
	s.addSource(u.Curr(), u.Prev(), dt)
	s.addSource(v.Curr(), v.Prev(), dt)

	u.Swap()
	s.diffuse(BoundaryMirrorX, u.Curr(), u.Prev(), visc, dt)
	v.Swap()
	s.diffuse(BoundaryMirrorY, v.Curr(), v.Prev(), visc, dt)
	s.project(u.Curr(), v.Curr(), u.Prev(), v.Prev())

	u.Swap()
	v.Swap()
	s.advect(BoundaryMirrorX, u.Curr(), u.Prev(), u.Prev(), v.Prev(), dt)
	s.advect(BoundaryMirrorY, v.Curr(), v.Prev(), u.Prev(), v.Prev(), dt)
	s.project(u.Curr(), v.Curr(), u.Prev(), v.Prev())
}

func (s *Solver) densityStep(d *Pair, vx, vy []float32, diff, dt float32) {
	s.addSource(d.Curr(), d.Prev(), dt)
	d.Swap()
	s.diffuse(BoundaryNone, d.Curr(), d.Prev(), diff, dt)
	d.Swap()
	s.advect(BoundaryNone, d.Curr(), d.Prev(), vx, vy, dt)
}

// VelocityStep runs Solver.VelocityStep with default options on a
// throwaway solver, without logging. It panics if a precondition is
// violated. Loops that step many times should hold a Solver instead.
func VelocityStep(n int, vx, vy, vxPrev, vyPrev []float32, visc, dt float32) {
	s, err := newSolver(n)
	if err != nil {
		panic(err)
	}
	if err := s.VelocityStep(vx, vy, vxPrev, vyPrev, visc, dt); err != nil {
		panic(err)
	}
}

// DensityStep is the density counterpart of VelocityStep.
func DensityStep(n int, d, dPrev, vx, vy []float32, diff, dt float32) {
	s, err := newSolver(n)
	if err != nil {
		panic(err)
	}
	if err := s.DensityStep(d, dPrev, vx, vy, diff, dt); err != nil {
		panic(err)
	}
}
