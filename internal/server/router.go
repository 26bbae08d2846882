package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sankshitpandoh/CapLedger/internal/api"
	"github.com/sankshitpandoh/CapLedger/internal/server/middleware"
	"github.com/sankshitpandoh/CapLedger/internal/server/response"
)

// setupRouter creates the HTTP handler with routes and middleware.
func (s *Server) setupRouter() http.Handler {
	r := mux.NewRouter()
	s.registerRoutes(r)
	return s.applyMiddleware(r)
}

// registerRoutes registers all HTTP routes.
func (s *Server) registerRoutes(r *mux.Router) {
	// Favicon handler (return 204 No Content to avoid 404 logs)
	r.HandleFunc("/favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	// Sign-in goes straight to the backend.
	r.Handle(api.PathLogin, s.proxy).Methods(http.MethodGet)
	r.Handle(api.PathCallback, s.proxy).Methods(http.MethodGet)

	app := r.NewRoute().Subrouter()
	app.Use(middleware.CSRF(middleware.CSRFConfig{
		Key:            s.config.CSRFKey,
		Secure:         s.config.SecureCookies,
		TrustedOrigins: s.config.TrustedOrigins,
	}, s.logger))

	app.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, screenPath("dashboard"), http.StatusFound)
	}).Methods(http.MethodGet)
	app.HandleFunc("/app/{screen}", s.handleScreen).Methods(http.MethodGet)

	app.HandleFunc("/app/refresh", s.requireSession(s.handleRefresh)).Methods(http.MethodPost)
	app.HandleFunc("/app/as-of", s.requireSession(s.handleAsOf)).Methods(http.MethodPost)
	app.HandleFunc("/app/employees", s.requireSession(s.handleCreateEmployee)).Methods(http.MethodPost)
	app.HandleFunc("/app/grants", s.requireSession(s.handleCreateGrant)).Methods(http.MethodPost)
	app.HandleFunc("/app/exercises", s.requireSession(s.handleRecordExercise)).Methods(http.MethodPost)
	app.HandleFunc("/logout", s.requireSession(s.handleLogout)).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "Page not found", "")
	})
}

// applyMiddleware wraps handler with middleware chain.
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	chain := []func(http.Handler) http.Handler{
		middleware.Recovery(s.logger),
		middleware.RequestID,
		middleware.Logger(s.logger),
		middleware.SecureHeaders,
	}
	if s.config.RateLimit > 0 {
		limiter := middleware.NewRateLimiter(s.config.RateLimit, s.logger)
		chain = append(chain, middleware.RateLimit(limiter))
	}
	return middleware.Chain(chain...)(handler)
}
