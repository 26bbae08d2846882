package server

import (
	"time"

	"github.com/sankshitpandoh/CapLedger/pkg/constants"
)

// Config holds server configuration.
type Config struct {
	// Server settings
	Host string
	Port int

	// SessionCookie is the backend session cookie. The sign-in proxy lands
	// it on the console origin and every browser console forwards it.
	SessionCookie string

	// ConsoleTTL is how long an idle browser console is kept.
	ConsoleTTL time.Duration

	// Security settings
	CSRFKey        []byte // 32 bytes; generated when empty
	SecureCookies  bool
	TrustedOrigins []string

	// Performance settings
	RateLimit int // Requests per minute per IP (0 to disable)

	// HTTP timeouts
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Host:          "localhost",
		Port:          8080,
		SessionCookie: constants.DefaultSessionCookie,
		ConsoleTTL:    constants.ConsoleTTL,
		RateLimit:     constants.DefaultRateLimit,
		ReadTimeout:   10 * time.Second,
		WriteTimeout:  60 * time.Second,
		IdleTimeout:   120 * time.Second,
	}
}
