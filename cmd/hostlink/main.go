//go:build linux

package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"go.opencensus.io/trace"

	"github.com/microrpc/hostlink/internal/bridge"
	"github.com/microrpc/hostlink/internal/config"
	"github.com/microrpc/hostlink/internal/engine"
	"github.com/microrpc/hostlink/internal/log"
	"github.com/microrpc/hostlink/internal/modules"
	"github.com/microrpc/hostlink/internal/oc"
	"github.com/microrpc/hostlink/internal/transport"
)

const version = "0.1.0"

// Exit codes: 0 is reserved for the engine's shutdown signal, 2 for any
// fatal inbound-read or engine error once the pump is running. Startup
// failures never enter the pump and exit through logrus.Fatal (exit 1).
const fatalExitCode = 2

func main() {
	logLevel := flag.String("loglevel", "", "Logging Level: debug, info, warning, error, fatal, panic.")
	logFile := flag.String("logfile", "", "Logging Target: An optional file name/path. Omit for console output.")
	logFormat := flag.String("log-format", "", "Logging Format: text or json")
	traceSpans := flag.Bool("trace", false, "If true export trace spans through the logging output")
	useInOutErr := flag.Bool("use-inouterr", false, "If true use stdin/stdout for link communication and stderr for logging")
	inboundPath := flag.String("inbound", "", "Path of the inbound fifo")
	reopenPerRead := flag.Bool("reopen-per-read", false, "Reopen the inbound fifo around every read, for peers that recreate the pipe")
	vsockPort := flag.Uint("vsock-port", 0, "Read inbound link bytes from this vsock port instead of the fifo")
	execModule := flag.Bool("enable-exec-module", false, "Register the optional exec module")
	configPath := flag.String("config", "", "Optional TOML configuration file; flags take precedence")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "\nUsage of %s:\n", os.Args[0])
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "Examples:\n")
		fmt.Fprintf(os.Stderr, "    %s -loglevel=debug -logfile=/run/hostlink/hostlink.log\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "    %s -inbound=/tmp/fifo.in -loglevel=info\n", os.Args[0])
	}

	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath, cfg)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"path":          *configPath,
				logrus.ErrorKey: err,
			}).Fatal("hostlink::main - failed to load config file")
		}
	}
	// Flags that were set explicitly win over the file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "loglevel":
			cfg.LogLevel = *logLevel
		case "logfile":
			cfg.LogFile = *logFile
		case "log-format":
			cfg.LogFormat = *logFormat
		case "trace":
			cfg.Trace = *traceSpans
		case "use-inouterr":
			cfg.UseInOutErr = *useInOutErr
		case "inbound":
			cfg.InboundPath = *inboundPath
		case "reopen-per-read":
			cfg.ReopenPerRead = *reopenPerRead
		case "vsock-port":
			cfg.VsockPort = uint32(*vsockPort)
		case "enable-exec-module":
			cfg.EnableExecModule = *execModule
		}
	})
	if err := cfg.Validate(); err != nil {
		logrus.WithError(err).Fatal("hostlink::main - invalid configuration")
	}

	// The tracing side channel is injectable and off by default; when on it
	// shares the logging sink rather than a fixed file.
	if cfg.Trace {
		trace.ApplyConfig(trace.Config{DefaultSampler: oc.DefaultSampler})
		trace.RegisterExporter(&oc.LogrusExporter{})
	}

	// Use a file instead of stderr
	if cfg.LogFile != "" {
		logFileHandle, err := os.OpenFile(cfg.LogFile, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"path":          cfg.LogFile,
				logrus.ErrorKey: err,
			}).Fatal("hostlink::main - failed to create log file")
		}
		logrus.SetOutput(logFileHandle)
	}

	switch cfg.LogFormat {
	case "text":
		// retain logrus's default.
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano, // include ns for accurate comparisons on the peer
		})
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.Fatal(err)
	}

	logrus.SetLevel(level)
	logrus.AddHook(log.NewHook())

	baseLog := logrus.NewEntry(logrus.StandardLogger())

	mux := engine.NewMux()
	mods := []engine.Module{
		&modules.Core{Version: version, Start: time.Now()},
	}
	if cfg.EnableExecModule {
		mods = append(mods, &modules.Exec{})
	}
	if err := engine.RegisterModules(mux, mods...); err != nil {
		logrus.WithError(err).Fatal("hostlink::main - failed to register modules")
	}

	// The outbound channel is stdout, flushed on every engine write so the
	// peer observes output promptly.
	out := os.Stdout
	sess := engine.NewSession(mux, out.Write, baseLog)

	var src transport.ByteSource
	switch {
	case cfg.UseInOutErr:
		src = &transport.FileSource{F: os.Stdin}
	case cfg.VsockPort != 0:
		src = &transport.VsockSource{Port: cfg.VsockPort}
	default:
		src = &transport.FifoSource{
			Path:          cfg.InboundPath,
			ReopenPerRead: cfg.ReopenPerRead,
		}
	}
	defer src.Close()

	logrus.Info("hostlink started")

	if err := bridge.New(sess, baseLog).Serve(src); err != nil {
		logrus.WithFields(logrus.Fields{
			logrus.ErrorKey: err,
		}).Error("hostlink terminated")
		src.Close()
		os.Exit(fatalExitCode)
	}
	logrus.Info("hostlink shutdown")
}
