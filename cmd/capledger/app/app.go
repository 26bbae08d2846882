// Package app wires configuration, logging and the backend client into the
// capledger CLI.
package app

import (
	"context"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/sankshitpandoh/CapLedger/internal/api"
	"github.com/sankshitpandoh/CapLedger/internal/appcontext"
	"github.com/sankshitpandoh/CapLedger/internal/cmd/output"
	"github.com/sankshitpandoh/CapLedger/internal/console"
	"github.com/sankshitpandoh/CapLedger/internal/format"
	"github.com/sankshitpandoh/CapLedger/internal/transport"
)

// App represents the capledger application with all its dependencies.
type App struct {
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	mu     sync.Mutex
	client *api.Client
}

var _ appcontext.Interface = (*App)(nil)

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig(os.Getenv(EnvPrefix + "_CONFIG"))
	if err != nil {
		return nil, err
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}
	return app, nil
}

// Version returns the version information.
func (a *App) Version() string { return a.version }

// Commit returns the git commit hash.
func (a *App) Commit() string { return a.commit }

// Date returns the build date.
func (a *App) Date() string { return a.date }

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string { return a.builtBy }

// Config returns the application configuration.
func (a *App) Config() *Config { return a.config }

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger { return a.logger }

// SessionCookie returns the name of the backend session cookie.
func (a *App) SessionCookie() string { return a.config.SessionCookie }

// Today returns the local date.
func (a *App) Today() string { return format.Today() }

// OutputFormat returns the configured format, or one detected from stdout.
func (a *App) OutputFormat() string {
	return string(output.DetectFormat(a.config.Output))
}

// UseColor reports whether stderr is a terminal and color was not disabled.
func (a *App) UseColor() bool {
	if a.config.NoColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stderr.Fd())
}

// API returns the backend client, creating it on first use.
func (a *App) API() (*api.Client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.client != nil {
		return a.client, nil
	}

	tc, err := transport.New(a.config.APIURL,
		transport.WithTimeout(a.config.HTTPTimeout),
		transport.WithAuth(
			transport.AuthenticatorFor(a.config.AuthScheme, a.config.SessionCookie),
			a.config.SessionToken,
		),
		transport.WithLogger(a.logger),
		transport.WithHeader("User-Agent", "capledger/"+a.version),
	)
	if err != nil {
		return nil, err
	}
	a.client = api.New(tc, a.config.PageSize)
	return a.client, nil
}

// Console returns a controller that has loaded the session and the first
// refresh. An anonymous session is reported as expired.
func (a *App) Console(ctx context.Context) (*console.Controller, error) {
	client, err := a.API()
	if err != nil {
		return nil, err
	}
	return console.Open(ctx, client,
		console.WithLogger(a.logger),
		console.WithAsOf(a.config.AsOf),
	)
}

// Shutdown releases idle backend connections.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.client != nil {
		a.client.Transport().CloseIdleConnections()
	}
	return nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithAPI sets a prebuilt backend client (useful for testing).
func WithAPI(client *api.Client) Option {
	return func(a *App) error {
		a.client = client
		return nil
	}
}
