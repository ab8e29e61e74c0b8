// Package config resolves the pipeline's running configuration from CLI
// flags with an optional JSON file overlay, the way the teacher's
// receiver daemon loads its JSON config and fills in CPU-scaled defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"sensorpipe/internal/global"
)

// Transport selects which single ingest path is active for this run.
type Transport string

const (
	TransportUDP  Transport = "udp"
	TransportTCP  Transport = "tcp"
	TransportMQTT Transport = "mqtt"
)

// Config is the fully resolved runtime configuration: flag defaults,
// overridden by an optional JSON file, overridden again by any flag the
// user actually passed on the command line.
type Config struct {
	Transport Transport `json:"transport"`
	Port      int       `json:"port"`

	MQTTHost  string `json:"mqttHost"`
	MQTTPort  int    `json:"mqttPort"`
	MQTTTopic string `json:"mqttTopic"`

	RecvThreads int `json:"recvThreads"`
	ProcThreads int `json:"procThreads"`

	RingCapacity int `json:"ringCapacity"`

	// StatsInterval is the resolved report period; 0 disables periodic
	// reporting (spec.md §4.C/§6). Stored as a time.Duration internally
	// but always expressed externally (flag and JSON) as a plain count
	// of seconds.
	StatsInterval time.Duration `json:"-"`

	Verbosity int `json:"verbosity"`

	MetricsHTTPPort    int    `json:"metricsHttpPort"`
	StatsBeatsEndpoint string `json:"statsBeatsEndpoint,omitempty"`
}

// Defaults returns a Config seeded with the flag defaults from spec.md §6,
// before any JSON overlay or explicit flag override is applied.
func Defaults() Config {
	return Config{
		Transport:     Transport(global.DefaultTransport),
		Port:          global.DefaultPort,
		MQTTHost:      global.DefaultMQTTHost,
		MQTTPort:      global.DefaultMQTTPort,
		MQTTTopic:     global.DefaultMQTTTopic,
		RecvThreads:   global.DefaultRecvThreads,
		ProcThreads:   global.DefaultProcThreads,
		RingCapacity:  global.DefaultRingCapacity,
		StatsInterval: global.DefaultStatsInterval,
		Verbosity:     global.VerbosityStandard,
	}
}

// jsonConfig mirrors Config's JSON-visible fields for unmarshaling the
// optional config file. statsInterval is a *int (seconds) rather than
// an int so an explicit 0 (disable reporting) is distinguishable from
// the field being absent from the file.
type jsonConfig struct {
	Transport          string `json:"transport"`
	Port               int    `json:"port"`
	MQTTHost           string `json:"mqttHost"`
	MQTTPort           int    `json:"mqttPort"`
	MQTTTopic          string `json:"mqttTopic"`
	RecvThreads        int    `json:"recvThreads"`
	ProcThreads        int    `json:"procThreads"`
	RingCapacity       int    `json:"ringCapacity"`
	StatsIntervalSecs  *int   `json:"statsInterval"`
	Verbosity          int    `json:"verbosity"`
	MetricsHTTPPort    int    `json:"metricsHttpPort"`
	StatsBeatsEndpoint string `json:"statsBeatsEndpoint"`
}

// LoadFile overlays values present in the JSON file at path onto cfg.
// Fields absent from the file are left untouched. An empty path is a
// no-op, matching the teacher's "config is optional" posture.
func LoadFile(path string, cfg *Config) error {
	if path == "" {
		return nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed reading config file: %w", err)
	}

	var parsed jsonConfig
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("failed parsing config file: %w", err)
	}

	if parsed.Transport != "" {
		cfg.Transport = Transport(parsed.Transport)
	}
	if parsed.Port != 0 {
		cfg.Port = parsed.Port
	}
	if parsed.MQTTHost != "" {
		cfg.MQTTHost = parsed.MQTTHost
	}
	if parsed.MQTTPort != 0 {
		cfg.MQTTPort = parsed.MQTTPort
	}
	if parsed.MQTTTopic != "" {
		cfg.MQTTTopic = parsed.MQTTTopic
	}
	if parsed.RecvThreads != 0 {
		cfg.RecvThreads = parsed.RecvThreads
	}
	if parsed.ProcThreads != 0 {
		cfg.ProcThreads = parsed.ProcThreads
	}
	if parsed.RingCapacity != 0 {
		cfg.RingCapacity = parsed.RingCapacity
	}
	if parsed.StatsIntervalSecs != nil {
		if *parsed.StatsIntervalSecs < 0 {
			return fmt.Errorf("invalid statsInterval %d: must be >= 0", *parsed.StatsIntervalSecs)
		}
		cfg.StatsInterval = time.Duration(*parsed.StatsIntervalSecs) * time.Second
	}
	if parsed.Verbosity != 0 {
		cfg.Verbosity = parsed.Verbosity
	}
	if parsed.MetricsHTTPPort != 0 {
		cfg.MetricsHTTPPort = parsed.MetricsHTTPPort
	}
	if parsed.StatsBeatsEndpoint != "" {
		cfg.StatsBeatsEndpoint = parsed.StatsBeatsEndpoint
	}

	return nil
}

// ResolveThreadCounts fills in 0-valued thread counts with the logical
// CPU count, the way the teacher's receiver config resolves "0 means
// auto" fields via runtime.NumCPU().
func (cfg *Config) ResolveThreadCounts() {
	if cfg.RecvThreads <= 0 {
		cfg.RecvThreads = global.LogicalCPUCount
	}
	if cfg.ProcThreads <= 0 {
		cfg.ProcThreads = global.LogicalCPUCount
	}
}

// Validate checks the resolved configuration for values the pipeline
// cannot run with.
func (cfg Config) Validate() error {
	switch cfg.Transport {
	case TransportUDP, TransportTCP, TransportMQTT:
	default:
		return fmt.Errorf("unknown transport %q (want udp, tcp, or mqtt)", cfg.Transport)
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("invalid port %d", cfg.Port)
	}
	if cfg.RecvThreads <= 0 {
		return fmt.Errorf("recv-threads must be positive, got %d", cfg.RecvThreads)
	}
	if cfg.ProcThreads <= 0 {
		return fmt.Errorf("proc-threads must be positive, got %d", cfg.ProcThreads)
	}
	if cfg.RingCapacity <= 0 {
		return fmt.Errorf("ring-cap must be positive, got %d", cfg.RingCapacity)
	}
	if cfg.StatsInterval < 0 {
		return fmt.Errorf("stats-interval must be >= 0, got %s", cfg.StatsInterval)
	}
	return nil
}
