// Package constants provides shared constants used throughout CapLedger.
// Timeouts, paging limits and cookie names here are shared by the CLI and
// the web console.
package constants

import "time"

// Timeout constants
const (
	// DefaultHTTPTimeout is the standard timeout for requests to the ESOP backend
	DefaultHTTPTimeout = 30 * time.Second

	// ShutdownTimeout bounds graceful shutdown of the web console
	ShutdownTimeout = 10 * time.Second

	// ReadHeaderTimeout guards the web console against slow clients
	ReadHeaderTimeout = 5 * time.Second
)

// FilePermissions is used for log files (rw-r--r--)
const FilePermissions = 0644

// Paging constants
const (
	// DefaultPageSize is the page size used for list endpoints.
	// The backend rejects limits above MaxPageSize.
	DefaultPageSize = 200

	// MaxPageSize is the largest limit the backend accepts
	MaxPageSize = 200
)

// Console constants
const (
	// DefaultSessionCookie is the cookie name the backend issues on sign-in
	DefaultSessionCookie = "session"

	// ConsoleCookie identifies a browser's console state in the web console
	ConsoleCookie = "capledger_console"

	// ConsoleTTL is how long an idle browser's console state is retained
	ConsoleTTL = 30 * time.Minute

	// SignedOutConsoleTTL is how long a console kept only to show the
	// "Logged out" toast is retained
	SignedOutConsoleTTL = 5 * time.Minute

	// ConsoleCleanupInterval is how often expired console state is swept
	ConsoleCleanupInterval = 5 * time.Minute

	// DefaultRateLimit is requests per minute per client on the web console
	DefaultRateLimit = 120
)
