package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sankshitpandoh/CapLedger/pkg/constants"
)

// Config describes where CapLedger logs go and how they look.
type Config struct {
	Level      string // trace, debug, info, warn, error or off
	Format     string // json, console or auto
	Output     string // stderr, stdout, discard or a file path
	TimeFormat string // kitchen, rfc3339, unix or a Go layout
	NoColor    bool
	Caller     bool

	// Fields are attached to every line, e.g. the deployment name.
	Fields map[string]string
}

// DefaultConfig logs info and above to stderr, as console output on a
// terminal and JSON elsewhere.
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Format:     "auto",
		Output:     "stderr",
		TimeFormat: "kitchen",
		NoColor:    os.Getenv("NO_COLOR") != "",
	}
}

// ConfigFromEnv overlays LOG_LEVEL, LOG_FORMAT, LOG_OUTPUT, LOG_TIME_FORMAT,
// LOG_CALLER and LOG_FIELDS (key=value,key=value) on DefaultConfig.
// DEBUG=1 stands in for LOG_LEVEL=debug.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if os.Getenv("DEBUG") != "" {
		cfg.Level = "debug"
	}
	for key, dst := range map[string]*string{
		"LOG_LEVEL":       &cfg.Level,
		"LOG_FORMAT":      &cfg.Format,
		"LOG_OUTPUT":      &cfg.Output,
		"LOG_TIME_FORMAT": &cfg.TimeFormat,
	} {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	cfg.Caller = os.Getenv("LOG_CALLER") == "true"
	cfg.Fields = parseFields(os.Getenv("LOG_FIELDS"))
	return cfg
}

// Build creates a logger from cfg. It also sets zerolog's global level, so
// the level applies to loggers derived later from the context.
func (cfg Config) Build() zerolog.Logger {
	level := ParseLevel(cfg.Level)
	zerolog.SetGlobalLevel(level)

	zctx := zerolog.New(cfg.writer()).Level(level).With().Timestamp()
	if cfg.Caller || level <= zerolog.DebugLevel {
		zctx = zctx.Caller()
	}
	for k, v := range cfg.Fields {
		zctx = zctx.Str(k, v)
	}
	return zctx.Logger()
}

func (cfg Config) writer() io.Writer {
	var (
		out  io.Writer
		file *os.File
	)
	switch strings.ToLower(cfg.Output) {
	case "", "stderr":
		file = os.Stderr
	case "stdout":
		file = os.Stdout
	case "discard", "none":
		out = io.Discard
	default:
		f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, constants.FilePermissions)
		if err != nil {
			f = os.Stderr
		}
		file = f
	}
	if file != nil {
		out = file
	}

	switch strings.ToLower(cfg.Format) {
	case "console", "pretty":
		return consoleWriter(out, timeLayout(cfg.TimeFormat), cfg.NoColor)
	case "auto":
		if file != nil && isTerminal(file) {
			return consoleWriter(out, timeLayout(cfg.TimeFormat), cfg.NoColor)
		}
	}
	return out
}

// ParseLevel maps a level name to a zerolog level. Unknown names mean info.
func ParseLevel(name string) zerolog.Level {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "warning":
		return zerolog.WarnLevel
	case "off", "none", "disabled":
		return zerolog.Disabled
	case "":
		return zerolog.InfoLevel
	}
	level, err := zerolog.ParseLevel(name)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

func timeLayout(name string) string {
	switch strings.ToLower(name) {
	case "", "kitchen":
		return time.Kitchen
	case "rfc3339":
		return time.RFC3339
	case "unix", "epoch":
		return ""
	}
	if strings.Contains(name, "2006") || strings.Contains(name, "15:04") {
		return name
	}
	return time.Kitchen
}

func parseFields(raw string) map[string]string {
	fields := map[string]string{}
	for _, pair := range strings.Split(raw, ",") {
		if k, v, ok := strings.Cut(pair, "="); ok {
			fields[strings.TrimSpace(k)] = strings.TrimSpace(v)
		}
	}
	return fields
}
