// Package config resolves server configuration from flags, an optional
// YAML file, and built-in defaults, in that precedence order (flags win).
// A .env file is loaded into the process environment via godotenv, but no
// Config field is read from the environment.
package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the fully resolved process-level configuration surface.
type Config struct {
	BridgePort       int           `yaml:"bridge_port"`
	Transport        string        `yaml:"transport"`
	HTTPAddr         string        `yaml:"http_addr"`
	AdminAddr        string        `yaml:"admin_addr"`
	StateDir         string        `yaml:"state_dir"`
	LogLevel         string        `yaml:"log_level"`
	LogFormat        string        `yaml:"log_format"`
	RequestTimeout   time.Duration `yaml:"request_timeout"`
	WindowManagement bool          `yaml:"window_management"`
	OTELEndpoint     string        `yaml:"otel_endpoint"`
}

// Defaults returns the configuration used when nothing else overrides it.
func Defaults() Config {
	return Config{
		BridgePort:       17373,
		Transport:        "stdio",
		HTTPAddr:         ":8787",
		AdminAddr:        "127.0.0.1:7890",
		StateDir:         defaultStateDir(),
		LogLevel:         "info",
		LogFormat:        "console",
		RequestTimeout:   10 * time.Minute,
		WindowManagement: true,
	}
}

func defaultStateDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return base + string(os.PathSeparator) + "mediar" + string(os.PathSeparator) + "workflows"
}

// Load resolves configuration from, in increasing precedence: defaults,
// an optional YAML file, then command-line flags parsed out of args. It
// loads .env into the process environment first; Config fields are not
// read from the environment. args should not include the program name.
func Load(args []string) (Config, error) {
	cfg := Defaults()

	_ = godotenv.Load() // optional; missing .env is not an error

	fs := flag.NewFlagSet("deskflow-server", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to YAML config file")
	bridgePort := fs.Int("bridge-port", cfg.BridgePort, "extension bridge WebSocket port")
	transport := fs.String("transport", cfg.Transport, "stdio or http")
	httpAddr := fs.String("http-addr", cfg.HTTPAddr, "address for --transport=http")
	adminAddr := fs.String("admin-addr", cfg.AdminAddr, "loopback addr for /healthz and /metrics")
	stateDir := fs.String("state-dir", cfg.StateDir, "override for the local data dir")
	logLevel := fs.String("log-level", cfg.LogLevel, "debug|info|warn|error")
	logFormat := fs.String("log-format", cfg.LogFormat, "console|json")
	requestTimeout := fs.Duration("request-timeout", cfg.RequestTimeout, "hard per-request cancellation timeout")
	windowManagement := fs.Bool("window-management", cfg.WindowManagement, "enable window capture/restore around tool dispatch")
	otelEndpoint := fs.String("otel-endpoint", "", "OTLP endpoint; stored in Config, no exporter is configured from it")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if *configPath != "" {
		if err := loadYAMLFile(*configPath, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: %w", err)
		}
	}

	applyIfSet(fs, "bridge-port", func() { cfg.BridgePort = *bridgePort })
	applyIfSet(fs, "transport", func() { cfg.Transport = *transport })
	applyIfSet(fs, "http-addr", func() { cfg.HTTPAddr = *httpAddr })
	applyIfSet(fs, "admin-addr", func() { cfg.AdminAddr = *adminAddr })
	applyIfSet(fs, "state-dir", func() { cfg.StateDir = *stateDir })
	applyIfSet(fs, "log-level", func() { cfg.LogLevel = *logLevel })
	applyIfSet(fs, "log-format", func() { cfg.LogFormat = *logFormat })
	applyIfSet(fs, "request-timeout", func() { cfg.RequestTimeout = *requestTimeout })
	applyIfSet(fs, "window-management", func() { cfg.WindowManagement = *windowManagement })
	applyIfSet(fs, "otel-endpoint", func() { cfg.OTELEndpoint = *otelEndpoint })

	return cfg, nil
}

func loadYAMLFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// applyIfSet only overrides cfg with the flag value when the flag was
// explicitly passed, so a YAML file's value isn't clobbered by a flag's
// zero-value default.
func applyIfSet(fs *flag.FlagSet, name string, apply func()) {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	if set {
		apply()
	}
}
