package stream

import (
	"errors"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestFrameRoundTrip(t *testing.T) {
	cells := []uint8{1, 2, 3, 4, 5, 6, 7, 8, 9}
	frame, err := EncodeFrame(nil, 3, cells)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(frame[:4], []byte{3, 0, 0, 0}) {
		t.Fatalf("header = %v, want little-endian 3", frame[:4])
	}
	n, got, err := DecodeFrame(frame)
	if err != nil || n != 3 || !slices.Equal(got, cells) {
		t.Fatalf("DecodeFrame = %d, %v, %v", n, got, err)
	}
}

func TestFrameErrors(t *testing.T) {
	if _, err := EncodeFrame(nil, 2, []uint8{1, 2, 3}); err == nil {
		t.Fatal("cell count mismatch must fail")
	}
	for _, b := range [][]byte{nil, {1, 0}, {2, 0, 0, 0, 1, 2, 3}, {0, 0, 0, 0}} {
		if _, _, err := DecodeFrame(b); !errors.Is(err, ErrShortFrame) {
			t.Fatalf("DecodeFrame(%v) = %v", b, err)
		}
	}
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func readFrame(t *testing.T, conn *websocket.Conn) []byte {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	kind, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}
	if kind != websocket.BinaryMessage {
		t.Fatalf("message type %d, want binary", kind)
	}
	return msg
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub(nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	first, _ := EncodeFrame(nil, 1, []uint8{9})
	if sent := hub.Broadcast(first); sent != 0 {
		t.Fatalf("sent %d frames with no clients", sent)
	}

	conn := dial(t, srv)
	if got := readFrame(t, conn); !slices.Equal(got, first) {
		t.Fatalf("greeting frame = %v, want the latest broadcast", got)
	}
	waitFor(t, "registration", func() bool { return hub.Clients() == 1 })

	second, _ := EncodeFrame(nil, 2, []uint8{1, 2, 3, 4})
	if sent := hub.Broadcast(second); sent != 1 {
		t.Fatalf("sent to %d clients, want 1", sent)
	}
	if got := readFrame(t, conn); !slices.Equal(got, second) {
		t.Fatalf("frame = %v", got)
	}

	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	conn.Close()
	waitFor(t, "disconnect", func() bool { return hub.Clients() == 0 })
}

func TestHubRegistersDuringSlowBroadcast(t *testing.T) {
	hub := NewHub(nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	slow := dial(t, srv)
	waitFor(t, "registration", func() bool { return hub.Clients() == 1 })

	// Holding the client's write lock stalls Broadcast inside its write.
	hub.mu.RLock()
	var stalled *sync.Mutex
	for _, lock := range hub.clients {
		stalled = lock
	}
	hub.mu.RUnlock()
	stalled.Lock()

	frame, _ := EncodeFrame(nil, 1, []uint8{7})
	done := make(chan int, 1)
	go func() { done <- hub.Broadcast(frame) }()
	waitFor(t, "broadcast start", func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		return hub.last != nil
	})

	late := dial(t, srv)
	registered := make(chan struct{})
	go func() {
		for hub.Clients() < 2 {
			time.Sleep(5 * time.Millisecond)
		}
		close(registered)
	}()
	select {
	case <-registered:
	case <-time.After(2 * time.Second):
		stalled.Unlock()
		t.Fatal("a blocked write delayed client registration")
	}
	stalled.Unlock()

	if sent := <-done; sent != 1 {
		t.Fatalf("sent to %d clients, want the 1 connected when Broadcast began", sent)
	}
	if got := readFrame(t, slow); !slices.Equal(got, frame) {
		t.Fatalf("stalled client frame = %v", got)
	}
	if got := readFrame(t, late); !slices.Equal(got, frame) {
		t.Fatalf("late client greeting = %v", got)
	}
}

func TestHubCommands(t *testing.T) {
	hub := NewHub(nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn := dial(t, srv)
	if err := conn.WriteJSON(map[string]any{"key": "dt", "value": 0.05}); err != nil {
		t.Fatal(err)
	}
	if err := conn.WriteJSON(map[string]any{"reset": true}); err != nil {
		t.Fatal(err)
	}

	recv := func() Command {
		select {
		case cmd := <-hub.Commands():
			return cmd
		case <-time.After(2 * time.Second):
			t.Fatal("no command received")
		}
		return Command{}
	}
	cmd := recv()
	if cmd.Key != "dt" || cmd.Value == nil || *cmd.Value != 0.05 || cmd.Reset {
		t.Fatalf("first command = %+v", cmd)
	}
	if cmd := recv(); !cmd.Reset || cmd.Key != "" {
		t.Fatalf("second command = %+v", cmd)
	}
}

func TestHubClose(t *testing.T) {
	hub := NewHub(nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn := dial(t, srv)
	waitFor(t, "registration", func() bool { return hub.Clients() == 1 })
	hub.Close()
	if hub.Clients() != 0 {
		t.Fatal("Close must forget every client")
	}
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); !websocket.IsCloseError(err, websocket.CloseGoingAway) {
		t.Fatalf("client read = %v, want going-away close", err)
	}
}
