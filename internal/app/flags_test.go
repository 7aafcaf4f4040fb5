package app

import (
	"flag"
	"testing"
)

func TestConfigBind(t *testing.T) {
	cfg := NewConfig()
	fs := flag.NewFlagSet("viewer", flag.ContinueOnError)
	cfg.Bind(fs)
	if err := fs.Parse([]string{"-sim", "swirl", "-scale", "2", "-hud", "0", "-palette", "gray"}); err != nil {
		t.Fatal(err)
	}
	if cfg.Sim != "swirl" || cfg.Scale != 2 || cfg.HUDWidth != 0 || cfg.Palette != "gray" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.TPS != 30 || cfg.Seed != 1337 {
		t.Fatalf("defaults lost: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestConfigValidate(t *testing.T) {
	bad := []func(*Config){
		func(c *Config) { c.Scale = 0 },
		func(c *Config) { c.TPS = 0 },
		func(c *Config) { c.HUDWidth = -1 },
		func(c *Config) { c.Palette = "rainbow" },
	}
	for i, mutate := range bad {
		cfg := NewConfig()
		mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("case %d: expected an error for %+v", i, cfg)
		}
	}
}
