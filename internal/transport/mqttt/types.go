// Package mqttt is the broker subscriber: a single paho.mqtt.golang
// client subscribing to a configurable topic filter at QoS 0, pushing
// every received payload into the shared ring.
package mqttt

import (
	mqtt "github.com/eclipse/paho.mqtt.golang"

	"sensorpipe/internal/ring"
	"sensorpipe/internal/stats"
)

// Server owns the MQTT client subscription for one broker connection.
type Server struct {
	ClientID string
	Host     string
	Port     int
	Topic    string
	Ring     *ring.Ring
	Counters *stats.Counters

	client mqtt.Client
}
