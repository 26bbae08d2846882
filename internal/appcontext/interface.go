// Package appcontext provides the shared application context interface
// used by all commands.
package appcontext

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/sankshitpandoh/CapLedger/internal/api"
	"github.com/sankshitpandoh/CapLedger/internal/console"
)

// Interface defines the application context that commands need. The App in
// cmd/capledger/app implements it; tests use Mock.
type Interface interface {
	// API returns the backend client for the configured session.
	API() (*api.Client, error)

	// Console returns a bootstrapped console controller. It fails when the
	// session is missing or expired.
	Console(ctx context.Context) (*console.Controller, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the resolved output format (table, wide, json, yaml).
	OutputFormat() string

	// UseColor reports whether status lines may use ANSI colors.
	UseColor() bool

	// Today returns the local date as YYYY-MM-DD.
	Today() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
