package app

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/sankshitpandoh/CapLedger/pkg/logging"
)

// NewLogger builds the CLI logger: LOG_* env settings overlaid with the
// --log-level, --log-format, --log-output and --no-color configuration.
func NewLogger(config *Config) zerolog.Logger {
	cfg := logging.ConfigFromEnv()
	cfg.Level = logLevel(config, os.Stderr)
	cfg.Format = config.LogFormat
	cfg.Output = config.LogOutput
	cfg.NoColor = cfg.NoColor || config.NoColor
	return cfg.Build()
}

// logLevel picks the level name. An explicit --log-level wins, then --quiet
// (warn), then --verbose (debug). Unknown names fall back to info with a
// warning on w.
func logLevel(config *Config, w io.Writer) string {
	switch {
	case config.LogLevel != "":
		level := logging.ParseLevel(config.LogLevel)
		if level == zerolog.InfoLevel && !strings.EqualFold(strings.TrimSpace(config.LogLevel), "info") {
			_, _ = fmt.Fprintf(w, "Warning: unknown log level %q, using info\n", config.LogLevel)
		}
		return level.String()
	case config.Quiet:
		return zerolog.WarnLevel.String()
	case config.Verbose:
		return zerolog.DebugLevel.String()
	}
	return zerolog.InfoLevel.String()
}
