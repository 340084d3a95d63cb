// Package config holds the daemon's startup configuration. The value is
// built once in main and passed down explicitly; nothing in the process
// reads configuration ambiently.
package config

import (
	"os"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

// Config is the daemon's startup configuration.
type Config struct {
	// LogLevel is a logrus level name.
	LogLevel string `toml:"loglevel"`
	// LogFile is an optional log target path. Empty means console output.
	LogFile string `toml:"logfile"`
	// LogFormat selects the log output format, text or json.
	LogFormat string `toml:"log-format"`
	// Trace enables span export through the logrus exporter.
	Trace bool `toml:"trace"`

	// InboundPath is the fifo carrying inbound link bytes.
	InboundPath string `toml:"inbound"`
	// ReopenPerRead reopens the inbound fifo around every read, for peers
	// that recreate the pipe between messages.
	ReopenPerRead bool `toml:"reopen-per-read"`
	// UseInOutErr uses stdin/stdout for the link and stderr for logging
	// instead of the fifo.
	UseInOutErr bool `toml:"use-inouterr"`
	// VsockPort, when non-zero, reads inbound bytes from a vsock socket
	// instead of the fifo.
	VsockPort uint32 `toml:"vsock-port"`

	// EnableExecModule registers the optional exec module.
	EnableExecModule bool `toml:"enable-exec-module"`
}

// Default returns the configuration used when no flags or file override it.
func Default() Config {
	return Config{
		LogLevel:    "debug",
		LogFormat:   "text",
		InboundPath: "/tmp/fifo.in",
	}
}

// Load reads a TOML file over base and returns the merged configuration.
func Load(path string, base Config) (Config, error) {
	cfg := base
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "failed to read config file %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "failed to parse config file %s", path)
	}
	return cfg, nil
}

// Validate rejects option combinations the link cannot serve.
func (c *Config) Validate() error {
	switch c.LogFormat {
	case "text", "json":
	default:
		return errors.Errorf("unknown log-format %q", c.LogFormat)
	}
	if c.UseInOutErr && c.VsockPort != 0 {
		return errors.New("use-inouterr and vsock-port are mutually exclusive")
	}
	if !c.UseInOutErr && c.VsockPort == 0 && c.InboundPath == "" {
		return errors.New("an inbound fifo path is required")
	}
	return nil
}
