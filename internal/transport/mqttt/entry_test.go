package mqttt

import (
	"context"
	"testing"

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

// fakeMessage implements mqtt.Message without a real broker connection,
// so onMessage's ring-wiring can be tested standalone. Run itself
// (connect, subscribe, auto-reconnect) is owned entirely by paho's
// client and is exercised only against a live broker, which is out of
// scope for this package's unit tests.
type fakeMessage struct {
	topic   string
	payload []byte
}

func (m fakeMessage) Duplicate() bool   { return false }
func (m fakeMessage) Qos() byte         { return 0 }
func (m fakeMessage) Retained() bool    { return false }
func (m fakeMessage) Topic() string     { return m.topic }
func (m fakeMessage) MessageID() uint16 { return 0 }
func (m fakeMessage) Payload() []byte   { return m.payload }
func (m fakeMessage) Ack()              {}

// A message delivered on the subscribed topic is pushed into the ring
// verbatim, with no added framing, per spec.md §6.
func TestOnMessagePushesPayloadToRing(t *testing.T) {
	r, err := ring.New(4)
	if err != nil {
		t.Fatalf("ring.New: %v", err)
	}
	counters := &stats.Counters{}
	s := New("test-client", "localhost", 1883, "sensors/+", r, counters)

	handler := s.onMessage(testCtx(t))
	payload := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	handler(nil, fakeMessage{topic: "sensors/7", payload: payload})

	out := make([]byte, ring.SlotBody)
	n, err := r.TryPop(out)
	if err != nil {
		t.Fatalf("TryPop: %v", err)
	}
	if string(out[:n]) != string(payload) {
		t.Errorf("ring contents = %x, want %x", out[:n], payload)
	}
}

// When the ring is full, onMessage records a drop instead of blocking.
func TestOnMessageDropsWhenRingFull(t *testing.T) {
	r, err := ring.New(1)
	if err != nil {
		t.Fatalf("ring.New: %v", err)
	}
	if err := r.TryPush([]byte{0x01}); err != nil {
		t.Fatalf("TryPush: %v", err)
	}
	counters := &stats.Counters{}
	s := New("test-client", "localhost", 1883, "sensors/+", r, counters)

	handler := s.onMessage(testCtx(t))
	handler(nil, fakeMessage{topic: "sensors/7", payload: []byte{0x02}})

	if r.Occupancy() != 1 {
		t.Errorf("occupancy = %d, want 1 (new message should have been dropped)", r.Occupancy())
	}
}

