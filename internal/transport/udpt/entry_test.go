package udpt

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"sensorpipe/internal/global"
	"sensorpipe/internal/logctx"
	"sensorpipe/internal/ring"
	"sensorpipe/internal/stats"
)

func testCtx(t *testing.T) context.Context {
	t.Helper()
	done := make(chan struct{})
	t.Cleanup(func() { close(done) })
	return logctx.New(context.Background(), global.NSTest, global.VerbosityStandard, done)
}

func TestRunDeliversDatagramToRing(t *testing.T) {
	r, err := ring.New(16)
	if err != nil {
		t.Fatalf("ring.New: %v", err)
	}
	var counters stats.Counters

	s := New(0, 1, r, &counters)

	ln, err := net.ListenUDP("udp", &net.UDPAddr{})
	if err != nil {
		t.Fatalf("ListenUDP: %v", err)
	}
	port := ln.LocalAddr().(*net.UDPAddr).Port
	ln.Close()
	s.Port = port

	ctx, cancel := context.WithCancel(testCtx(t))
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	// Give the worker a moment to bind before sending.
	time.Sleep(50 * time.Millisecond)

	conn, err := net.Dial("udp", "127.0.0.1:"+strconv.Itoa(port))
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()
	if _, err := conn.Write([]byte("hello")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	deadline := time.After(2 * time.Second)
	out := make([]byte, ring.SlotBody)
	for {
		n, err := r.TryPop(out)
		if err == nil {
			if string(out[:n]) != "hello" {
				t.Fatalf("got %q, want %q", out[:n], "hello")
			}
			break
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for datagram to reach ring")
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}

	cancel()
	<-done
}

