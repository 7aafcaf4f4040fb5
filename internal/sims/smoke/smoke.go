// Package smoke drives a fluid.State as a front-end simulation: a forcing
// policy feeds the source buffers, the solver advances the field, and the
// density is quantized into a byte image.
package smoke

import (
	"fmt"
	"time"

	"stable-fluids/internal/core"
	"stable-fluids/pkg/fluid"
)

// Timings records how long each phase of the last tick took.
type Timings struct {
	React    time.Duration
	Velocity time.Duration
	Density  time.Duration
}

// Total is the wall time of the whole tick.
func (t Timings) Total() time.Duration { return t.React + t.Velocity + t.Density }

// Sim is a smoke simulation on an N×N interior grid.
type Sim struct {
	policy Policy
	cfg    Config
	extra  []fluid.Option

	solver  *fluid.Solver
	state   *fluid.State
	display *core.ByteGrid
	dirty   bool
	rng     *core.RNG

	last Timings
	tick uint64
}

// New validates cfg and builds a sim. extra options are applied after the
// ones derived from cfg, so they can for example install a different
// source injector.
func New(policy Policy, cfg Config, extra ...fluid.Option) (*Sim, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Sim{policy: policy, cfg: cfg, extra: extra}
	if err := s.rebuild(); err != nil {
		return nil, err
	}
	s.Reset(0)
	return s, nil
}

func (s *Sim) rebuild() error {
	opts, err := s.cfg.SolverOptions()
	if err != nil {
		return err
	}
	solver, err := fluid.NewSolver(s.cfg.N, append(opts, s.extra...)...)
	if err != nil {
		return err
	}
	s.solver = solver
	if s.state == nil || s.state.N != s.cfg.N {
		s.state = fluid.NewState(s.cfg.N)
		s.display = core.NewByteGrid(s.cfg.N, s.cfg.N)
	}
	return nil
}

// Name returns the simulation identifier.
func (s *Sim) Name() string { return s.policy.String() }

// Size reports the interior dimensions.
func (s *Sim) Size() core.Size { return core.Size{W: s.cfg.N, H: s.cfg.N} }

// Config returns the active configuration.
func (s *Sim) Config() Config { return s.cfg }

// State exposes the solver buffers.
func (s *Sim) State() *fluid.State { return s.state }

// Timings returns the phase durations of the last tick.
func (s *Sim) Timings() Timings { return s.last }

// Ticks counts the steps since the last reset.
func (s *Sim) Ticks() uint64 { return s.tick }

// Status summarises the last tick for the HUD.
func (s *Sim) Status() []string {
	t := s.last
	return []string{
		fmt.Sprintf("tick %d", s.tick),
		fmt.Sprintf("react %v", t.React.Round(time.Microsecond)),
		fmt.Sprintf("velocity %v", t.Velocity.Round(time.Microsecond)),
		fmt.Sprintf("density %v", t.Density.Round(time.Microsecond)),
	}
}

// Reset zeroes the field and reseeds the RNG. A zero seed selects the
// configured one.
func (s *Sim) Reset(seed int64) {
	if seed == 0 {
		seed = s.cfg.Seed
	}
	s.rng = core.NewRNG(seed)
	s.state.Reset()
	s.display.Clear()
	s.dirty = false
	s.tick = 0
	s.last = Timings{}
}

// Step advances one tick and logs solver errors. Use Advance to receive
// them instead.
func (s *Sim) Step() {
	if err := s.Advance(); err != nil {
		fluid.Logger().Error("smoke step failed", "sim", s.Name(), "tick", s.tick, "err", err)
	}
}

// Advance runs react, the velocity update and the density update, timing
// each phase.
func (s *Sim) Advance() error {
	p := s.cfg.Params()

	start := time.Now()
	s.react()
	reacted := time.Now()
	if err := s.solver.StepVelocity(s.state, p); err != nil {
		return err
	}
	moved := time.Now()
	if err := s.solver.StepDensity(s.state, p); err != nil {
		return err
	}
	done := time.Now()

	s.last = Timings{
		React:    reacted.Sub(start),
		Velocity: moved.Sub(reacted),
		Density:  done.Sub(moved),
	}
	s.tick++
	s.dirty = true
	return nil
}

// Cells returns the density quantized to one byte per interior cell. Row 0
// is the top of the domain (j = N), so +y points up on screen.
func (s *Sim) Cells() []uint8 {
	if s.dirty {
		n := s.cfg.N
		d := s.state.Density.Curr()
		for j := 1; j <= n; j++ {
			for i := 1; i <= n; i++ {
				s.display.Set(i-1, n-j, d[fluid.Index(i, j, n)], s.cfg.DisplayScale)
			}
		}
		s.dirty = false
	}
	return s.display.Cells()
}

// Velocity reports the velocity of the visible cell (x, y) in the same
// coordinates as Cells. The vector itself is in domain orientation.
func (s *Sim) Velocity(x, y int) (float32, float32) {
	n := s.cfg.N
	if !s.display.In(x, y) {
		return 0, 0
	}
	idx := fluid.Index(x+1, n-y, n)
	return s.state.VX.Curr()[idx], s.state.VY.Curr()[idx]
}

// MustNew is New for callers whose config is known to be valid.
func MustNew(policy Policy, cfg Config, extra ...fluid.Option) *Sim {
	s, err := New(policy, cfg, extra...)
	if err != nil {
		panic(err)
	}
	return s
}

func init() {
	for _, p := range Policies() {
		core.Register(p.String(), func(cfg map[string]string) core.Sim {
			return MustNew(p, FromMap(cfg))
		})
	}
}
