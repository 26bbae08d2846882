// Package server is the browser front end of CapLedger. It renders the
// console views as HTML, keeps one console controller per browser and
// proxies the backend's Google sign-in so the session cookie lands on the
// console origin.
package server

import (
	"context"
	"crypto/rand"
	"html/template"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/sankshitpandoh/CapLedger/internal/api"
	"github.com/sankshitpandoh/CapLedger/internal/format"
	"github.com/sankshitpandoh/CapLedger/internal/server/cache"
	"github.com/sankshitpandoh/CapLedger/internal/server/response"
	"github.com/sankshitpandoh/CapLedger/pkg/constants"
	"github.com/sankshitpandoh/CapLedger/pkg/errors"
	"github.com/sankshitpandoh/CapLedger/pkg/logging"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	api       *api.Client
	consoles  *cache.Cache[*browserConsole]
	proxy     *httputil.ReverseProxy
	pages     *template.Template
	logger    *zerolog.Logger
	config    Config
	today     func() string
	startTime time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides how consoles learn today's date.
func WithClock(today func() string) Option {
	return func(s *Server) {
		if today != nil {
			s.today = today
		}
	}
}

// New creates a server over client, the backend client without a session.
// Each browser gets a copy of it carrying the browser's session cookie.
func New(client *api.Client, cfg Config, opts ...Option) (*Server, error) {
	if cfg.SessionCookie == "" {
		cfg.SessionCookie = DefaultConfig().SessionCookie
	}
	if cfg.ConsoleTTL <= 0 {
		cfg.ConsoleTTL = DefaultConfig().ConsoleTTL
	}
	switch len(cfg.CSRFKey) {
	case 0:
		cfg.CSRFKey = make([]byte, 32)
		if _, err := rand.Read(cfg.CSRFKey); err != nil {
			return nil, errors.NewConfigError("csrf_key", "cannot generate key", err)
		}
	case 32:
	default:
		return nil, errors.NewConfigError("csrf_key", "must be 32 bytes", nil)
	}

	pages, err := parsePages()
	if err != nil {
		return nil, err
	}

	s := &Server{
		api:       client,
		consoles:  cache.New[*browserConsole](cfg.ConsoleTTL, constants.ConsoleCleanupInterval),
		pages:     pages,
		logger:    logging.Default(),
		config:    cfg,
		today:     format.Today,
		startTime: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.consoles.OnEvicted(func(id string, _ *browserConsole) {
		s.logger.Debug().Str("console", id).Msg("Console dropped")
	})
	s.proxy = s.signInProxy(client.Transport().BaseURL())

	s.logger.Debug().
		Str("backend", client.Transport().BaseURL().String()).
		Dur("console_ttl", cfg.ConsoleTTL).
		Msg("Console server created")
	return s, nil
}

// signInProxy forwards the backend's login and callback endpoints. The
// callback's Set-Cookie and redirects pass through untouched.
func (s *Server) signInProxy(target *url.URL) *httputil.ReverseProxy {
	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.SetXForwarded()
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logging.FromContext(r.Context()).Error().Err(err).Msg("Sign-in proxy failed")
			response.BadGateway(w, "The sign-in service is unreachable.")
		},
	}
}

// Handler returns the configured http.Handler with middleware chain applied.
func (s *Server) Handler() http.Handler {
	return s.setupRouter()
}

// Shutdown drops every browser console and releases backend connections.
func (s *Server) Shutdown(_ context.Context) error {
	s.logger.Info().
		Int("consoles", s.consoles.ItemCount()).
		Msg("Shutting down console server")
	s.consoles.Clear()
	s.api.Transport().CloseIdleConnections()
	return nil
}

// ConsoleCount returns the number of live browser consoles.
func (s *Server) ConsoleCount() int {
	return s.consoles.ItemCount()
}

// StartTime returns the server start time for uptime calculations.
func (s *Server) StartTime() time.Time {
	return s.startTime
}
