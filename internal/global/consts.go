package global

import "time"

const (
	// Descriptive Names for available verbosity levels
	VerbosityNone int = iota
	VerbosityStandard
	VerbosityProgress
	VerbosityData
	VerbosityFullData
	VerbosityDebug

	// Descriptive names for available severity levels
	ErrorLog string = "Error"
	WarnLog  string = "Warn"
	InfoLog  string = "Info"
)

const (
	ProgVersion string = "v0.1.0"

	// Context keys
	LoggerKey  CtxKey = "logger"  // Event queue (mostly for variable log verbosity handling)
	LogTagsKey CtxKey = "logtags" // List of tags in order of broad->specific appended/popped at various parts of the program

	DefaultConfigPath string = "/etc/sensorpipe.json"

	// Transport/ring/thread defaults
	DefaultTransport      string        = "udp"
	DefaultPort           int           = 9000
	DefaultMQTTHost       string        = "127.0.0.1"
	DefaultMQTTPort       int           = 1883
	DefaultMQTTTopic      string        = "vad/sensors/+"
	DefaultRecvThreads    int           = 4
	DefaultProcThreads    int           = 2
	DefaultRingCapacity   int           = 262144
	DefaultStatsInterval  time.Duration = 5 * time.Second
	DefaultRecvBufferSize int           = 4 << 20 // 4 MiB
	DefaultAcceptBacklog  int           = 128

	// Timeout values
	ShutdownTimeout time.Duration = 10 * time.Second

	// Metric HTTP server
	HTTPListenAddr   string        = "localhost" // Stats queries only exposed to local machine
	HTTPReadTimeout  time.Duration = 10 * time.Second
	HTTPWriteTimeout time.Duration = 5 * time.Second
	HTTPIdleTimeout  time.Duration = 60 * time.Second
	StatsPath        string        = "/stats"
	LogsPath         string        = "/logs"

	// Namespacing Name Components
	NSMain      string = "Main"
	NSConfig    string = "Config"
	NSMetric    string = "Metrics"
	NSMetricSrv string = "MetricsServer"
	NSBeats     string = "Beats"
	NSUDP       string = "UDP"
	NSTCP       string = "TCP"
	NSMQTT      string = "MQTT"
	NSRing      string = "Ring"
	NSProc      string = "Processor"
	NSStats     string = "Stats"
	NSEBPF      string = "EBPF"
	NSWatcher   string = "Watcher"
	NSTest      string = "Test"

	// eBPF reuseport-draining pinned objects
	DrainSocket           int    = 1
	DrainMapName          string = "draining_sockets"
	DrainFuncName         string = "reuseport_select"
	KernelDrainMapPath    string = "/sys/fs/bpf/" + DrainMapName
	KernelSocketRouteFunc string = "/sys/fs/bpf/" + DrainFuncName
)
