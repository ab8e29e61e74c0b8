// Package cli defines and parses the pipeline's command-line flags.
package cli

import (
	"flag"
	"os"
	"time"

	"sensorpipe/internal/config"
)

// ProgName is the binary name shown in usage text.
const ProgName = "sensorpipe"

// Parse defines the flag set described in spec.md §6, applies it over
// the given base config, and returns the result. Flags always win over
// whatever was loaded from a config file, matching the teacher's
// flags-override-file precedence.
func Parse(args []string, base config.Config) (cfg config.Config, configPath string) {
	cfg = base

	var transport, mqttHost, mqttTopic string
	statsIntervalSecs := int(cfg.StatsInterval / time.Second)

	fs := flag.NewFlagSet(ProgName, flag.ExitOnError)
	fs.StringVar(&configPath, "config", "", "Path to an optional JSON config file")
	fs.StringVar(&transport, "transport", string(cfg.Transport), "Ingest transport: udp, tcp, or mqtt")
	fs.IntVar(&cfg.Port, "port", cfg.Port, "UDP or TCP listen port")
	fs.StringVar(&mqttHost, "mqtt-host", cfg.MQTTHost, "MQTT broker host (transport=mqtt)")
	fs.IntVar(&cfg.MQTTPort, "mqtt-port", cfg.MQTTPort, "MQTT broker port (transport=mqtt)")
	fs.StringVar(&mqttTopic, "mqtt-topic", cfg.MQTTTopic, "MQTT subscribe topic filter (transport=mqtt)")
	fs.IntVar(&cfg.RecvThreads, "recv-threads", cfg.RecvThreads, "Receiver worker count (0 = logical CPU count)")
	fs.IntVar(&cfg.ProcThreads, "proc-threads", cfg.ProcThreads, "Processor worker count (0 = logical CPU count)")
	fs.IntVar(&cfg.RingCapacity, "ring-cap", cfg.RingCapacity, "Ring buffer capacity (rounded up to a power of two)")
	fs.IntVar(&statsIntervalSecs, "stats-interval", statsIntervalSecs, "Seconds between stats report lines (0 disables)")
	fs.IntVar(&cfg.Verbosity, "v", cfg.Verbosity, "Log verbosity <0...5>")
	fs.IntVar(&cfg.MetricsHTTPPort, "metrics-http-port", cfg.MetricsHTTPPort, "Local stats HTTP endpoint port (0 disables)")
	fs.StringVar(&cfg.StatsBeatsEndpoint, "stats-beats-endpoint", cfg.StatsBeatsEndpoint, "Optional lumberjack/beats endpoint for stats snapshots")

	fs.Usage = func() { PrintUsage(fs) }
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	cfg.Transport = config.Transport(transport)
	cfg.MQTTHost = mqttHost
	cfg.MQTTTopic = mqttTopic
	cfg.StatsInterval = time.Duration(statsIntervalSecs) * time.Second

	return
}
