package mqttt

import (
	"context"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"sensorpipe/internal/global"
	"sensorpipe/internal/logctx"
	"sensorpipe/internal/ring"
	"sensorpipe/internal/stats"
)

const (
	connectTimeout  = 5 * time.Second
	connectRetry    = 2 * time.Second
	maxReconnectGap = 30 * time.Second
)

// New builds a Server bound to the shared ring and counters. The
// client itself is created and connected inside Run so that a
// connection failure can be surfaced to the caller as a fatal startup
// error per spec.md §7, rather than discovered later on a background
// goroutine.
func New(clientID, host string, port int, topic string, r *ring.Ring, counters *stats.Counters) *Server {
	return &Server{ClientID: clientID, Host: host, Port: port, Topic: topic, Ring: r, Counters: counters}
}

// Run connects to the broker, subscribes, and blocks until ctx is
// cancelled. Reconnection after the initial connect is owned entirely
// by the paho client's AutoReconnect machinery, per spec.md §4.G.
func (s *Server) Run(ctx context.Context) error {
	subCtx := logctx.AppendCtxTag(ctx, global.NSMQTT)

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", s.Host, s.Port))
	opts.SetClientID(s.ClientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(connectRetry)
	opts.SetMaxReconnectInterval(maxReconnectGap)

	opts.OnConnect = func(c mqtt.Client) {
		token := c.Subscribe(s.Topic, 0, s.onMessage(subCtx))
		token.Wait()
		if err := token.Error(); err != nil {
			logctx.LogEvent(subCtx, global.VerbosityStandard, global.ErrorLog,
				"mqtt subscribe to %q failed: %v\n", s.Topic, err)
			return
		}
		logctx.LogEvent(subCtx, global.VerbosityStandard, global.InfoLog,
			"mqtt subscribed to %q at qos 0\n", s.Topic)
	}
	opts.OnConnectionLost = func(c mqtt.Client, err error) {
		logctx.LogEvent(subCtx, global.VerbosityStandard, global.WarnLog,
			"mqtt connection lost, auto-reconnect will retry: %v\n", err)
	}

	s.client = mqtt.NewClient(opts)

	token := s.client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return fmt.Errorf("mqtt: connect to %s:%d timed out", s.Host, s.Port)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt: connect to %s:%d failed: %w", s.Host, s.Port, err)
	}

	<-ctx.Done()
	s.client.Disconnect(250)
	return nil
}

// onMessage copies each received payload into the ring, recording a
// drop on back-pressure. The payload is the full 32-byte header plus
// body with no outer framing, per spec.md §6.
func (s *Server) onMessage(ctx context.Context) mqtt.MessageHandler {
	return func(c mqtt.Client, msg mqtt.Message) {
		payload := msg.Payload()
		s.Counters.RecordRecv(len(payload))
		if err := s.Ring.TryPush(payload); err != nil {
			s.Counters.RecordDrop()
		}
	}
}
