package middleware

import (
	"net/http"

	"github.com/gorilla/csrf"
	"github.com/rs/zerolog"

	"github.com/sankshitpandoh/CapLedger/internal/server/response"
)

// CSRFConfig configures form CSRF protection.
type CSRFConfig struct {
	// Key is the 32-byte secret authenticating tokens.
	Key []byte
	// Secure marks the token cookie Secure and enforces same-origin
	// Referer checks; disable only for plain-HTTP development.
	Secure bool
	// TrustedOrigins are extra hosts allowed to submit forms.
	TrustedOrigins []string
}

// CSRF rejects unsafe requests without a valid token. Handlers embed the
// token with csrf.TemplateField.
func CSRF(cfg CSRFConfig, logger *zerolog.Logger) func(http.Handler) http.Handler {
	protect := csrf.Protect(cfg.Key,
		csrf.Secure(cfg.Secure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.TrustedOrigins(cfg.TrustedOrigins),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.Warn().
				Err(csrf.FailureReason(r)).
				Str("path", r.URL.Path).
				Msg("CSRF check failed")
			response.Forbidden(w, "Form expired or forged", "Reload the page and try again.")
		})),
	)

	return func(next http.Handler) http.Handler {
		protected := protect(next)
		if cfg.Secure {
			return protected
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			protected.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
		})
	}
}
