package smoke

import (
	"math"

	"stable-fluids/internal/core"
)

// Parameters reports the tunables grouped for the HUD.
func (s *Sim) Parameters() core.ParameterSnapshot {
	c := s.cfg
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "Grid",
			Params: []core.Parameter{
				core.StringParam("policy", "Policy", s.policy.String()),
				core.IntParam("n", "Interior size", c.N),
				core.Int64Param("seed", "Seed", c.Seed),
			},
		},
		{
			Name: "Physics",
			Params: []core.Parameter{
				core.FloatParam("dt", "Time step", float64(c.DT)),
				core.FloatParam("diff", "Diffusion", float64(c.Diff)),
				core.FloatParam("visc", "Viscosity", float64(c.Visc)),
			},
		},
		{
			Name: "Forcing",
			Params: []core.Parameter{
				core.FloatParam("force", "Force", float64(c.Force)),
				core.FloatParam("source", "Source", float64(c.Source)),
			},
		},
		{
			Name: "Solver",
			Params: []core.Parameter{
				core.IntParam("iterations", "Iterations", c.Iterations),
				core.StringParam("ordering", "Ordering", c.Ordering),
				core.IntParam("workers", "Workers", c.Workers),
			},
		},
		{
			Name: "Display",
			Params: []core.Parameter{
				core.FloatParam("display_scale", "Full-scale density", float64(c.DisplayScale)),
			},
		},
	}}
}

var controls = []core.ParameterControl{
	{Key: "dt", Label: "Time step", Type: core.ParamTypeFloat, Step: 0.01, Min: 0, HasMin: true, Max: 1, HasMax: true},
	{Key: "diff", Label: "Diffusion", Type: core.ParamTypeFloat, Step: 0.0001, Min: 0, HasMin: true, Max: 1, HasMax: true},
	{Key: "visc", Label: "Viscosity", Type: core.ParamTypeFloat, Step: 0.0001, Min: 0, HasMin: true, Max: 1, HasMax: true},
	{Key: "force", Label: "Force", Type: core.ParamTypeFloat, Step: 1, Min: 0, HasMin: true, Max: 100, HasMax: true},
	{Key: "source", Label: "Source", Type: core.ParamTypeFloat, Step: 10, Min: 0, HasMin: true, Max: 1000, HasMax: true},
	{Key: "iterations", Label: "Iterations", Type: core.ParamTypeInt, Step: 1, Min: 1, HasMin: true, Max: 200, HasMax: true},
	{Key: "workers", Label: "Workers", Type: core.ParamTypeInt, Step: 1, Min: 1, HasMin: true, Max: 64, HasMax: true},
	{Key: "display_scale", Label: "Full-scale density", Type: core.ParamTypeFloat, Step: 0.1, Min: 0.1, HasMin: true, Max: 10, HasMax: true},
}

// ParameterControls lists the HUD-adjustable parameters.
func (s *Sim) ParameterControls() []core.ParameterControl {
	out := make([]core.ParameterControl, len(controls))
	copy(out, controls)
	return out
}

func control(key string) (core.ParameterControl, bool) {
	for _, c := range controls {
		if c.Key == key {
			return c, true
		}
	}
	return core.ParameterControl{}, false
}

// SetFloatParameter updates a floating point tunable, clamped to its
// control bounds. It reports false for unknown keys, NaN and infinities.
func (s *Sim) SetFloatParameter(key string, value float64) bool {
	ctrl, ok := control(key)
	if !ok || ctrl.Type != core.ParamTypeFloat || math.IsNaN(value) || math.IsInf(value, 0) {
		return false
	}
	v := float32(ctrl.Clamp(value))
	switch key {
	case "dt":
		s.cfg.DT = v
	case "diff":
		s.cfg.Diff = v
	case "visc":
		s.cfg.Visc = v
	case "force":
		s.cfg.Force = v
	case "source":
		s.cfg.Source = v
	case "display_scale":
		s.cfg.DisplayScale = v
		s.dirty = true
	}
	return true
}

// SetIntParameter updates an integer tunable. Solver settings take effect
// on the next tick; changing n reallocates the field and resets the sim.
func (s *Sim) SetIntParameter(key string, value int) bool {
	if key == "n" {
		if value < 1 || s.cfg.Params().ValidateFor(value) != nil {
			return false
		}
		if value == s.cfg.N {
			return true
		}
		s.cfg.N = value
		if err := s.rebuild(); err != nil {
			return false
		}
		s.Reset(0)
		return true
	}
	ctrl, ok := control(key)
	if !ok || ctrl.Type != core.ParamTypeInt {
		return false
	}
	v := int(ctrl.Clamp(float64(value)))
	prev := s.cfg
	switch key {
	case "iterations":
		s.cfg.Iterations = v
	case "workers":
		s.cfg.Workers = v
	}
	if err := s.rebuild(); err != nil {
		s.cfg = prev
		return false
	}
	return true
}
