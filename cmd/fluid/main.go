//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"
	"os"
	"strings"

	"stable-fluids/internal/app"
	"stable-fluids/internal/cli"
	"stable-fluids/internal/core"
	"stable-fluids/internal/sims/smoke"
	"stable-fluids/pkg/fluid"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	var opts cli.Options
	opts.Bind(flag.CommandLine)
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	logger, err := opts.Logger(os.Stderr)
	if err != nil {
		log.Fatal(err)
	}
	fluid.SetLogger(logger)

	factory, ok := core.Lookup(cfg.Sim)
	if !ok {
		log.Fatalf("unknown sim %q (have %s)", cfg.Sim, strings.Join(core.Names(), ", "))
	}
	simCfg, err := opts.Resolve(flag.CommandLine, smoke.DefaultConfig())
	if err != nil {
		log.Fatal(err)
	}

	sim := factory(simCfg.Map())
	sim.Reset(cfg.Seed)

	game := app.New(sim, cfg)
	size := sim.Size()

	ebiten.SetWindowTitle("stable fluids: " + sim.Name())
	ebiten.SetWindowSize(size.W*cfg.Scale+cfg.HUDWidth, size.H*cfg.Scale)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
