package main

import (
	"context"
	"log/slog"
	"math"
	"time"

	"stable-fluids/internal/sims/smoke"
	"stable-fluids/internal/stream"
)

// maxRemoteN bounds grid resizes requested by clients.
const maxRemoteN = 512

type server struct {
	sim   *smoke.Sim
	hub   *stream.Hub
	log   *slog.Logger
	frame []byte
}

// run ticks the sim every interval and broadcasts each frame until ctx is
// done. Client commands are applied between ticks on the same goroutine.
func (s *server) run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case cmd := <-s.hub.Commands():
			s.apply(cmd)
		case <-ticker.C:
			if err := s.tick(); err != nil {
				return err
			}
		}
	}
}

// tick advances the sim once and broadcasts the new density frame.
func (s *server) tick() error {
	if err := s.sim.Advance(); err != nil {
		return err
	}
	frame, err := stream.EncodeFrame(s.frame[:0], s.sim.Size().W, s.sim.Cells())
	if err != nil {
		return err
	}
	s.frame = frame
	s.hub.Broadcast(frame)
	return nil
}

// apply executes one client command and reports whether it changed the sim.
func (s *server) apply(cmd stream.Command) bool {
	if cmd.Reset {
		s.sim.Reset(0)
		s.log.Info("reset requested")
		return true
	}
	if cmd.Key == "" || cmd.Value == nil {
		s.log.Warn("ignoring malformed command", "key", cmd.Key)
		return false
	}
	v := *cmd.Value
	if s.sim.SetFloatParameter(cmd.Key, v) {
		s.log.Info("parameter changed", "key", cmd.Key, "value", v)
		return true
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	k := int(math.Round(v))
	if cmd.Key == "n" && k > maxRemoteN {
		s.log.Warn("grid size too large", "n", k, "max", maxRemoteN)
		return false
	}
	if s.sim.SetIntParameter(cmd.Key, k) {
		s.log.Info("parameter changed", "key", cmd.Key, "value", k)
		return true
	}
	s.log.Warn("unknown parameter", "key", cmd.Key)
	return false
}
