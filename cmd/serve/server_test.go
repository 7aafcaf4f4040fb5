package main

import (
	"context"
	"io"
	"log/slog"
	"math"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"stable-fluids/internal/sims/smoke"
	"stable-fluids/internal/stream"

	"github.com/gorilla/websocket"
)

func newTestServer(t *testing.T, n int) *server {
	t.Helper()
	cfg := smoke.DefaultConfig()
	cfg.N = n
	cfg.Iterations = 4
	sim, err := smoke.New(smoke.PolicyPulse, cfg)
	if err != nil {
		t.Fatal(err)
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &server{sim: sim, hub: stream.NewHub(log), log: log}
}

func value(v float64) *float64 { return &v }

func TestApply(t *testing.T) {
	s := newTestServer(t, 8)
	tests := []struct {
		name string
		cmd  stream.Command
		want bool
	}{
		{"float", stream.Command{Key: "dt", Value: value(0.05)}, true},
		{"int", stream.Command{Key: "iterations", Value: value(7)}, true},
		{"resize", stream.Command{Key: "n", Value: value(10)}, true},
		{"too large", stream.Command{Key: "n", Value: value(4096)}, false},
		{"unknown", stream.Command{Key: "gravity", Value: value(1)}, false},
		{"missing value", stream.Command{Key: "dt"}, false},
		{"nan", stream.Command{Key: "iterations", Value: value(math.NaN())}, false},
		{"reset", stream.Command{Reset: true}, true},
	}
	for _, tt := range tests {
		if got := s.apply(tt.cmd); got != tt.want {
			t.Fatalf("%s: apply = %v, want %v", tt.name, got, tt.want)
		}
	}
	cfg := s.sim.Config()
	if cfg.DT != 0.05 || cfg.Iterations != 7 || cfg.N != 10 {
		t.Fatalf("config after commands: %+v", cfg)
	}
}

func TestTickBroadcastsFrame(t *testing.T) {
	s := newTestServer(t, 6)
	ts := httptest.NewServer(s.hub)
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http"), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for s.hub.Clients() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if err := s.tick(); err != nil {
		t.Fatal(err)
	}
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}
	n, cells, err := stream.DecodeFrame(msg)
	if err != nil {
		t.Fatal(err)
	}
	if n != 6 || len(cells) != 36 {
		t.Fatalf("frame n=%d cells=%d", n, len(cells))
	}
	var lit int
	for _, c := range cells {
		if c > 0 {
			lit++
		}
	}
	if lit == 0 {
		t.Fatal("first pulse frame must show density")
	}
}

func TestRunStopsWithContext(t *testing.T) {
	s := newTestServer(t, 4)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := s.run(ctx, time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if s.sim.Ticks() == 0 {
		t.Fatal("run never ticked")
	}
}
