// Command serve runs a smoke simulation and streams its density frames to
// websocket clients.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"stable-fluids/internal/cli"
	"stable-fluids/internal/sims/smoke"
	"stable-fluids/internal/stream"
	"stable-fluids/pkg/fluid"
)

func main() {
	simCfg := smoke.DefaultConfig()
	simCfg.N = 96
	simCfg.Bind(flag.CommandLine)
	var opts cli.Options
	opts.Bind(flag.CommandLine)
	addr := flag.String("addr", ":8080", "listen address")
	tps := flag.Int("tps", 30, "simulation ticks per second")
	policy := flag.String("policy", smoke.PolicyPulse.String(), "forcing policy: pulse, jet or swirl")
	flag.Parse()

	logger, err := opts.Logger(os.Stderr)
	if err != nil {
		log.Fatal(err)
	}
	fluid.SetLogger(logger)

	cfg, err := opts.Resolve(flag.CommandLine, simCfg)
	if err != nil {
		log.Fatal(err)
	}
	pol, err := smoke.ParsePolicy(*policy)
	if err != nil {
		log.Fatal(err)
	}
	if *tps < 1 {
		log.Fatalf("tps must be at least 1, got %d", *tps)
	}
	sim, err := smoke.New(pol, cfg)
	if err != nil {
		log.Fatal(err)
	}

	hub := stream.NewHub(logger)
	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	httpServer := &http.Server{Addr: *addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		logger.Info("listening", "addr", *addr, "policy", pol, "n", cfg.N)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "err", err)
			stop()
		}
	}()

	srv := &server{sim: sim, hub: hub, log: logger}
	runErr := srv.run(ctx, time.Second/time.Duration(*tps))

	hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", "err", err)
	}
	if runErr != nil {
		log.Fatal(runErr)
	}
}
