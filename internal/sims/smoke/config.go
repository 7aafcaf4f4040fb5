package smoke

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"

	"stable-fluids/pkg/fluid"
)

// Config controls the grid, the physical parameters and the forcing
// strengths of a smoke simulation.
type Config struct {
	N    int     `json:"n"`
	DT   float32 `json:"dt"`
	Diff float32 `json:"diff"`
	Visc float32 `json:"visc"`

	// Force and Source scale the impulses injected when the field runs dry.
	Force  float32 `json:"force"`
	Source float32 `json:"source"`

	Iterations int    `json:"iterations"`
	Ordering   string `json:"ordering"`
	Workers    int    `json:"workers"`

	Seed int64 `json:"seed"`

	// DisplayScale is the density rendered at full intensity.
	DisplayScale float32 `json:"display_scale"`
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		N:            128,
		DT:           0.1,
		Diff:         0,
		Visc:         0,
		Force:        5,
		Source:       100,
		Iterations:   fluid.DefaultIterations,
		Ordering:     fluid.OrderingGaussSeidel.String(),
		Workers:      1,
		Seed:         1337,
		DisplayScale: 1,
	}
}

// FromMap populates the config from a string map (flag-style key/value
// pairs). Unknown keys and unparsable or out-of-range values are ignored.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	c.Apply(cfg)
	return c
}

// Apply overrides fields from a string map; see FromMap.
func (c *Config) Apply(cfg map[string]string) {
	if cfg == nil {
		return
	}
	if v, ok := cfg["n"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.N = parsed
		}
	}
	setFloat := func(key string, dst *float32) {
		v, ok := cfg[key]
		if !ok {
			return
		}
		if parsed, err := strconv.ParseFloat(v, 32); err == nil && parsed >= 0 && !math.IsInf(parsed, 0) {
			*dst = float32(parsed)
		}
	}
	setFloat("dt", &c.DT)
	setFloat("diff", &c.Diff)
	setFloat("visc", &c.Visc)
	setFloat("force", &c.Force)
	setFloat("source", &c.Source)
	if v, ok := cfg["display_scale"]; ok {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil && parsed > 0 && !math.IsInf(parsed, 0) {
			c.DisplayScale = float32(parsed)
		}
	}
	if v, ok := cfg["iterations"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Iterations = parsed
		}
	}
	if v, ok := cfg["ordering"]; ok {
		if o, err := fluid.ParseOrdering(v); err == nil {
			c.Ordering = o.String()
		}
	}
	if v, ok := cfg["workers"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Workers = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
}

// Map renders the config as the key/value pairs Apply understands.
func (c Config) Map() map[string]string {
	f := func(v float32) string { return strconv.FormatFloat(float64(v), 'g', -1, 32) }
	return map[string]string{
		"n":             strconv.Itoa(c.N),
		"dt":            f(c.DT),
		"diff":          f(c.Diff),
		"visc":          f(c.Visc),
		"force":         f(c.Force),
		"source":        f(c.Source),
		"iterations":    strconv.Itoa(c.Iterations),
		"ordering":      c.Ordering,
		"workers":       strconv.Itoa(c.Workers),
		"seed":          strconv.FormatInt(c.Seed, 10),
		"display_scale": f(c.DisplayScale),
	}
}

// LoadConfigFile reads a JSON settings file on top of the defaults. Keys
// missing from the file keep their default values.
func LoadConfigFile(path string) (Config, error) {
	c := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		return c, err
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		return c, fmt.Errorf("parse %s: %w", path, err)
	}
	return c, c.Validate()
}

// Validate reports the first field that the solver would reject.
func (c Config) Validate() error {
	if c.N < 1 {
		return fmt.Errorf("%w: n=%d", fluid.ErrGridSize, c.N)
	}
	if err := c.Params().ValidateFor(c.N); err != nil {
		return err
	}
	if c.Iterations < 1 {
		return fmt.Errorf("%w: iterations=%d", fluid.ErrIterations, c.Iterations)
	}
	if _, err := fluid.ParseOrdering(c.Ordering); err != nil {
		return err
	}
	if !finite(c.Force) || !finite(c.Source) || c.Force < 0 || c.Source < 0 {
		return fmt.Errorf("%w: force=%g source=%g", fluid.ErrNegativeParameter, c.Force, c.Source)
	}
	if !(c.DisplayScale > 0) || !finite(c.DisplayScale) {
		return errors.New("smoke: display_scale must be positive")
	}
	return nil
}

// Params returns the per-tick solver parameters.
func (c Config) Params() fluid.Params {
	return fluid.Params{DT: c.DT, Diff: c.Diff, Visc: c.Visc}
}

// SolverOptions translates the solver-related fields into fluid options.
func (c Config) SolverOptions() ([]fluid.Option, error) {
	ord, err := fluid.ParseOrdering(c.Ordering)
	if err != nil {
		return nil, err
	}
	return []fluid.Option{
		fluid.WithIterations(c.Iterations),
		fluid.WithOrdering(ord),
		fluid.WithWorkers(c.Workers),
	}, nil
}

// Bind registers one flag per field on fs, writing into c.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.IntVar(&c.N, "n", c.N, "interior grid size")
	fs.Var((*float32Value)(&c.DT), "dt", "time step")
	fs.Var((*float32Value)(&c.Diff), "diff", "density diffusion rate")
	fs.Var((*float32Value)(&c.Visc), "visc", "kinematic viscosity")
	fs.Var((*float32Value)(&c.Force), "force", "velocity impulse strength")
	fs.Var((*float32Value)(&c.Source), "source", "density impulse strength")
	fs.IntVar(&c.Iterations, "iterations", c.Iterations, "relaxation sweeps per linear solve")
	fs.StringVar(&c.Ordering, "ordering", c.Ordering, "relaxation ordering: gauss-seidel or red-black")
	fs.IntVar(&c.Workers, "workers", c.Workers, "goroutines per parallel pass")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "random seed")
}

type float32Value float32

func (f *float32Value) String() string {
	return strconv.FormatFloat(float64(*f), 'g', -1, 32)
}

func (f *float32Value) Set(s string) error {
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return err
	}
	*f = float32Value(v)
	return nil
}

func finite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
