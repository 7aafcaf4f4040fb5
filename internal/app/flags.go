package app

import (
	"flag"
	"fmt"
)

// Config represents the command-line parameters for the viewer.
type Config struct {
	Sim      string
	Scale    int
	TPS      int
	Seed     int64
	HUDWidth int
	Palette  string
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{Sim: "pulse", Scale: 4, TPS: 30, Seed: 1337, HUDWidth: 240, Palette: "heat"}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Sim, "sim", c.Sim, "forcing policy to run (pulse, jet, swirl)")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "simulation ticks per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for simulation reset")
	fs.IntVar(&c.HUDWidth, "hud", c.HUDWidth, "width of the parameter panel in pixels, 0 hides it")
	fs.StringVar(&c.Palette, "palette", c.Palette, "density palette: heat or gray")
}

// Validate rejects settings the viewer cannot display.
func (c *Config) Validate() error {
	switch {
	case c.Scale < 1:
		return fmt.Errorf("scale must be at least 1, got %d", c.Scale)
	case c.TPS < 1:
		return fmt.Errorf("tps must be at least 1, got %d", c.TPS)
	case c.HUDWidth < 0:
		return fmt.Errorf("hud width must not be negative, got %d", c.HUDWidth)
	case c.Palette != "heat" && c.Palette != "gray":
		return fmt.Errorf("unknown palette %q", c.Palette)
	}
	return nil
}
