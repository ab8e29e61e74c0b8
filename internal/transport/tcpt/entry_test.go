package tcpt

import (
	"context"
	"encoding/binary"
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

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()
	return port
}

// E4: two frames written back-to-back on one stream connection must be
// split at the length prefix and delivered to the ring as two distinct
// packets, not concatenated or truncated.
func TestRunSplitsBackToBackFrames(t *testing.T) {
	r, err := ring.New(16)
	if err != nil {
		t.Fatalf("ring.New: %v", err)
	}
	var counters stats.Counters

	port := freePort(t)
	s := New(":"+strconv.Itoa(port), 4, r, &counters)

	ctx, cancel := context.WithCancel(testCtx(t))
	runDone := make(chan error, 1)
	go func() { runDone <- s.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)

	conn, err := net.Dial("tcp", "127.0.0.1:"+strconv.Itoa(port))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	write := func(body []byte) {
		lenBuf := make([]byte, 4)
		binary.LittleEndian.PutUint32(lenBuf, uint32(len(body)))
		if _, err := conn.Write(lenBuf); err != nil {
			t.Fatalf("write length: %v", err)
		}
		if _, err := conn.Write(body); err != nil {
			t.Fatalf("write body: %v", err)
		}
	}

	first := make([]byte, minFrameLen)
	for i := range first {
		first[i] = 0xAA
	}
	second := make([]byte, minFrameLen)
	for i := range second {
		second[i] = 0xBB
	}
	write(first)
	write(second)

	got := make([][]byte, 0, 2)
	out := make([]byte, ring.SlotBody)
	deadline := time.After(2 * time.Second)
	for len(got) < 2 {
		n, err := r.TryPop(out)
		if err == nil {
			buf := make([]byte, n)
			copy(buf, out[:n])
			got = append(got, buf)
			continue
		}
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for frames, got %d of 2", len(got))
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}

	if len(got[0]) != minFrameLen || got[0][0] != 0xAA {
		t.Errorf("first frame = %x, want %d bytes of 0xAA", got[0], minFrameLen)
	}
	if len(got[1]) != minFrameLen || got[1][0] != 0xBB {
		t.Errorf("second frame = %x, want %d bytes of 0xBB", got[1], minFrameLen)
	}

	cancel()
	<-runDone
}

// A frame length outside [minFrameLen, maxFrameLen] closes the
// connection rather than reading an attacker-controlled amount.
func TestRunRejectsOutOfRangeFrameLength(t *testing.T) {
	r, err := ring.New(16)
	if err != nil {
		t.Fatalf("ring.New: %v", err)
	}
	var counters stats.Counters

	port := freePort(t)
	s := New(":"+strconv.Itoa(port), 4, r, &counters)

	ctx, cancel := context.WithCancel(testCtx(t))
	defer cancel()
	runDone := make(chan error, 1)
	go func() { runDone <- s.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)

	conn, err := net.Dial("tcp", "127.0.0.1:"+strconv.Itoa(port))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	lenBuf := make([]byte, 4)
	binary.LittleEndian.PutUint32(lenBuf, uint32(minFrameLen-1))
	if _, err := conn.Write(lenBuf); err != nil {
		t.Fatalf("write: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 1)
	if _, err := conn.Read(buf); err == nil {
		t.Fatalf("expected connection to be closed after invalid frame length")
	}

	cancel()
	<-runDone
}
