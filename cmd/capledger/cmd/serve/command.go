// Package serve provides the web console command for the CapLedger CLI.
package serve

import (
	"context"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sankshitpandoh/CapLedger/internal/api"
	"github.com/sankshitpandoh/CapLedger/internal/cmd/emoji"
	"github.com/sankshitpandoh/CapLedger/internal/server"
	"github.com/sankshitpandoh/CapLedger/pkg/constants"
	"github.com/sankshitpandoh/CapLedger/pkg/errors"
)

// EnvCSRFKey holds the hex CSRF key when --csrf-key is not given.
const EnvCSRFKey = "CAPLEDGER_CSRF_KEY"

// AppContext is what serve needs from the app.
type AppContext interface {
	API() (*api.Client, error)
	Logger() *zerolog.Logger
	Today() string
	SessionCookie() string
}

// NewCommand creates the serve command using app context.
func NewCommand(app AppContext) *cobra.Command {
	defaults := server.DefaultConfig()
	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"server"},
		GroupID: "session",
		Short:   "Start the web console",
		Long: `Start the browser console for the ESOP backend.

Each browser gets its own console: sign in with Google through the
backend, then browse the dashboard, employees, grants and exercises
screens. Admins can add employees, create grants and record exercises.

Features:
  - Google sign-in proxied to the backend (/api/auth/login)
  - Role gated screens at /app/{screen}
  - CSRF protected forms
  - Rate limiting (requests per minute per IP)
  - Request logging and panic recovery
  - Graceful shutdown with connection draining`,
		Example: `  # Start on default port 8080
  capledger serve

  # Behind a TLS proxy
  capledger serve --host 0.0.0.0 --secure-cookies --trusted-origins console.acme.io

  # Keep idle consoles for two hours
  capledger serve --console-ttl 2h`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServer(cmd, app)
		},
	}

	// Server configuration flags
	cmd.Flags().Int("port", defaults.Port, "Server port")
	cmd.Flags().String("host", defaults.Host, "Bind address")

	// Security flags
	cmd.Flags().Bool("secure-cookies", false, "Mark cookies Secure (serve behind HTTPS)")
	cmd.Flags().String("csrf-key", "", "Hex encoded 32-byte CSRF key (default $"+EnvCSRFKey+", else random)")
	cmd.Flags().StringSlice("trusted-origins", []string{}, "Extra origins allowed to submit forms (comma-separated)")

	// Performance flags
	cmd.Flags().Int("rate-limit", defaults.RateLimit, "Requests per minute per IP (0 to disable)")
	cmd.Flags().Duration("console-ttl", defaults.ConsoleTTL, "How long an idle browser console is kept")

	// Timeout flags
	cmd.Flags().Duration("read-timeout", defaults.ReadTimeout, "HTTP read timeout")
	cmd.Flags().Duration("write-timeout", defaults.WriteTimeout, "HTTP write timeout")
	cmd.Flags().Duration("idle-timeout", defaults.IdleTimeout, "HTTP idle timeout")

	return cmd
}

// runServer starts the console server.
func runServer(cmd *cobra.Command, app AppContext) error {
	cfg, err := parseConfig(cmd)
	if err != nil {
		return err
	}
	cfg.SessionCookie = app.SessionCookie()
	logger := app.Logger()

	client, err := app.API()
	if err != nil {
		return err
	}

	logger.Info().
		Int("port", cfg.Port).
		Str("host", cfg.Host).
		Str("backend", client.Transport().BaseURL().String()).
		Bool("secure_cookies", cfg.SecureCookies).
		Int("rate_limit", cfg.RateLimit).
		Dur("console_ttl", cfg.ConsoleTTL).
		Msg("Starting console server")

	srv, err := server.New(client, cfg, server.WithLogger(logger), server.WithClock(app.Today))
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: constants.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	// cmd.Context() carries the signal handling from main.go.
	return startWithGracefulShutdown(cmd, httpServer, srv, logger)
}

// parseConfig parses command flags into server configuration.
func parseConfig(cmd *cobra.Command) (server.Config, error) {
	cfg := server.DefaultConfig()
	cfg.Port = mustGetInt(cmd, "port")
	cfg.Host = mustGetString(cmd, "host")
	cfg.SecureCookies = mustGetBool(cmd, "secure-cookies")
	cfg.TrustedOrigins = mustGetStringSlice(cmd, "trusted-origins")
	cfg.RateLimit = mustGetInt(cmd, "rate-limit")
	cfg.ConsoleTTL = mustGetDuration(cmd, "console-ttl")
	cfg.ReadTimeout = mustGetDuration(cmd, "read-timeout")
	cfg.WriteTimeout = mustGetDuration(cmd, "write-timeout")
	cfg.IdleTimeout = mustGetDuration(cmd, "idle-timeout")

	// Override with environment variables
	if envPort := os.Getenv("HTTP_PORT"); envPort != "" {
		if p, err := parsePort(envPort); err == nil {
			cfg.Port = p
		}
	}
	if envHost := os.Getenv("HTTP_HOST"); envHost != "" {
		cfg.Host = envHost
	}

	rawKey := mustGetString(cmd, "csrf-key")
	if rawKey == "" {
		rawKey = os.Getenv(EnvCSRFKey)
	}
	if rawKey != "" {
		key, err := hex.DecodeString(rawKey)
		if err != nil {
			return cfg, errors.NewConfigError("csrf_key", "must be hex encoded", err)
		}
		cfg.CSRFKey = key
	}
	return cfg, nil
}

// parsePort safely parses a port string to integer.
func parsePort(portStr string) (int, error) {
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 0, fmt.Errorf("invalid port number: %s", portStr)
	}
	if port < 1 || port > 65535 {
		return 0, fmt.Errorf("port out of range: %d", port)
	}
	return port, nil
}

// startWithGracefulShutdown serves until the command context is cancelled,
// then drains connections and drops every browser console.
func startWithGracefulShutdown(cmd *cobra.Command, httpServer *http.Server, srv *server.Server, logger *zerolog.Logger) error {
	out := cmd.ErrOrStderr()
	serverErr := make(chan error, 1)

	go func() {
		logger.Info().
			Str("addr", httpServer.Addr).
			Msg("HTTP server listening")

		fmt.Fprintf(out, "%s Console listening on http://%s\n", emoji.Rocket, httpServer.Addr)
		fmt.Fprintln(out, "   Press Ctrl+C to stop")

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- fmt.Errorf("server failed: %w", err)
		}
	}()

	select {
	case err := <-serverErr:
		return err
	case <-cmd.Context().Done():
		logger.Info().Msg("Shutdown signal received via context")
		fmt.Fprintf(out, "\n%s Shutting down console...\n", emoji.Stop)

		// The parent context is already cancelled.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("Console shutdown had issues")
		}

		logger.Info().Msg("Server stopped gracefully")
		fmt.Fprintf(out, "%s Console stopped gracefully\n", emoji.Success)
		return nil
	}
}

// mustGetInt retrieves an integer flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetInt(cmd *cobra.Command, name string) int {
	val, err := cmd.Flags().GetInt(name)
	if err != nil {
		panic(fmt.Sprintf("programming error: failed to get flag %q: %v", name, err))
	}
	return val
}

func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic(fmt.Sprintf("programming error: failed to get flag %q: %v", name, err))
	}
	return val
}

func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic(fmt.Sprintf("programming error: failed to get flag %q: %v", name, err))
	}
	return val
}

func mustGetStringSlice(cmd *cobra.Command, name string) []string {
	val, err := cmd.Flags().GetStringSlice(name)
	if err != nil {
		panic(fmt.Sprintf("programming error: failed to get flag %q: %v", name, err))
	}
	return val
}

func mustGetDuration(cmd *cobra.Command, name string) time.Duration {
	val, err := cmd.Flags().GetDuration(name)
	if err != nil {
		panic(fmt.Sprintf("programming error: failed to get flag %q: %v", name, err))
	}
	return val
}
