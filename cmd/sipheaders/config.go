package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"braces.dev/errtrace"
	"gopkg.in/yaml.v3"

	"github.com/ghettovoice/sipstack/header"
	"github.com/ghettovoice/sipstack/internal/errorutil"
	"github.com/ghettovoice/sipstack/log"
)

const (
	logFormatConsole = "console"
	logFormatDev     = "dev"
	logFormatJSON    = "json"

	outputText = "text"
	outputJSON = "json"
)

// Config is the sipheaders configuration.
// It is loaded from a YAML file and overridden by command line flags.
type Config struct {
	Log LogConfig `yaml:"log"`
	// Headers are the header names to print. All headers are printed when empty.
	Headers []string `yaml:"headers"`
	// Output is the output format: text or json.
	Output string `yaml:"output"`
	// Eager parses every header of a message right after splitting.
	Eager bool `yaml:"eager"`
	// Workers limits the number of files processed concurrently.
	Workers int           `yaml:"workers"`
	Metrics MetricsConfig `yaml:"metrics"`
}

type LogConfig struct {
	Format string `yaml:"format"` // console, dev or json
	Level  string `yaml:"level"`
}

type MetricsConfig struct {
	// Addr is the listen address of the metrics HTTP server.
	// The server is not started when empty.
	Addr string `yaml:"addr"`
	Path string `yaml:"path"`
}

func defaultConfig() Config {
	return Config{
		Log: LogConfig{
			Format: logFormatConsole,
			Level:  "info",
		},
		Output:  outputText,
		Workers: runtime.GOMAXPROCS(0),
		Metrics: MetricsConfig{
			Path: "/metrics",
		},
	}
}

// loadConfig reads YAML configuration from path on top of cfg.
func loadConfig(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return errtrace.Wrap(err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return errtrace.Wrap(fmt.Errorf("parse config %q: %w", path, err))
	}
	return nil
}

// Validate checks the configuration values.
func (cfg *Config) Validate() error {
	var errs []error
	switch cfg.Log.Format {
	case logFormatConsole, logFormatDev, logFormatJSON:
	default:
		errs = append(errs, errorutil.NewInvalidArgumentError("unknown log format %q", cfg.Log.Format))
	}
	if cfg.Output != outputText && cfg.Output != outputJSON {
		errs = append(errs, errorutil.NewInvalidArgumentError("unknown output format %q", cfg.Output))
	}
	if _, err := cfg.logLevel(); err != nil {
		errs = append(errs, err)
	}
	if cfg.Workers < 1 {
		errs = append(errs, errorutil.NewInvalidArgumentError("workers must be positive, got %d", cfg.Workers))
	}
	for _, name := range cfg.Headers {
		if !header.Name(name).IsValid() {
			errs = append(errs, errorutil.NewInvalidArgumentError("invalid header name %q", name))
		}
	}
	if cfg.Metrics.Addr != "" && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, errorutil.NewInvalidArgumentError("metrics path must start with /, got %q", cfg.Metrics.Path))
	}
	return errtrace.Wrap(errorutil.JoinPrefix("invalid config:", errs...))
}

func (cfg *Config) logLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		return 0, errtrace.Wrap(errorutil.NewInvalidArgumentError(err))
	}
	return lvl, nil
}

// newLogger builds a logger writing to w. The config must be valid.
func (cfg *Config) newLogger(w io.Writer) *slog.Logger {
	lvl, _ := cfg.logLevel()
	switch cfg.Log.Format {
	case logFormatDev:
		return log.Dev(w, lvl)
	case logFormatJSON:
		return log.JSON(w, lvl)
	default:
		return log.Console(w, lvl)
	}
}

type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ",") }

func (l *listFlag) Set(v string) error {
	*l = nil
	for s := range strings.SplitSeq(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			*l = append(*l, s)
		}
	}
	return nil
}

// parseConfig builds the configuration from command line args.
// Values of the config file given with -config are overridden by explicitly set flags.
// It returns the remaining positional args.
func parseConfig(args []string, output io.Writer) (Config, []string, error) {
	cfg := defaultConfig()

	fs := flag.NewFlagSet("sipheaders", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: sipheaders [flags] [file ...]\n\n"+
			"Reads SIP messages from files (or stdin) and prints their headers.\n\nFlags:\n")
		fs.PrintDefaults()
	}

	var (
		cfgPath string
		flags   Config
		headers listFlag
	)
	fs.StringVar(&cfgPath, "config", "", "YAML config `file`")
	fs.StringVar(&flags.Log.Format, "log-format", cfg.Log.Format, "log format: console, dev or json")
	fs.StringVar(&flags.Log.Level, "log-level", cfg.Log.Level, "log level: debug, info, warn or error")
	fs.Var(&headers, "headers", "comma separated header `names` to print")
	fs.StringVar(&flags.Output, "output", cfg.Output, "output format: text or json")
	fs.BoolVar(&flags.Eager, "eager", cfg.Eager, "parse all headers right after reading")
	fs.IntVar(&flags.Workers, "workers", cfg.Workers, "number of files processed concurrently")
	fs.StringVar(&flags.Metrics.Addr, "metrics-addr", cfg.Metrics.Addr, "metrics HTTP server `address`")
	fs.StringVar(&flags.Metrics.Path, "metrics-path", cfg.Metrics.Path, "metrics HTTP endpoint `path`")
	if err := fs.Parse(args); err != nil {
		return cfg, nil, errtrace.Wrap(err)
	}

	if cfgPath != "" {
		if err := loadConfig(cfgPath, &cfg); err != nil {
			return cfg, nil, errtrace.Wrap(err)
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "log-format":
			cfg.Log.Format = flags.Log.Format
		case "log-level":
			cfg.Log.Level = flags.Log.Level
		case "headers":
			cfg.Headers = headers
		case "output":
			cfg.Output = flags.Output
		case "eager":
			cfg.Eager = flags.Eager
		case "workers":
			cfg.Workers = flags.Workers
		case "metrics-addr":
			cfg.Metrics.Addr = flags.Metrics.Addr
		case "metrics-path":
			cfg.Metrics.Path = flags.Metrics.Path
		}
	})

	if err := cfg.Validate(); err != nil {
		return cfg, nil, errtrace.Wrap(err)
	}
	return cfg, fs.Args(), nil
}
