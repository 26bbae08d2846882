package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"github.com/rs/zerolog"

	"github.com/sankshitpandoh/CapLedger/pkg/logging"
)

// TestChain_ExecutionOrder verifies first added is outermost middleware.
func TestChain_ExecutionOrder(t *testing.T) {
	var executionLog []string

	mark := func(n string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				executionLog = append(executionLog, "start-"+n)
				next.ServeHTTP(w, r)
				executionLog = append(executionLog, "end-"+n)
			})
		}
	}
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		executionLog = append(executionLog, "handler")
		w.WriteHeader(http.StatusOK)
	})

	Chain(mark("1"), mark("2"))(handler).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	expected := []string{"start-1", "start-2", "handler", "end-2", "end-1"}
	if len(executionLog) != len(expected) {
		t.Fatalf("expected %d log entries, got %d", len(expected), len(executionLog))
	}
	for i, exp := range expected {
		if executionLog[i] != exp {
			t.Errorf("log[%d]: expected %s, got %s", i, exp, executionLog[i])
		}
	}
}

// TestRequestID tests id assignment and reuse.
func TestRequestID(t *testing.T) {
	valid := uuid.NewString()
	tests := []struct {
		name     string
		incoming string
		reuse    bool
	}{
		{name: "missing", incoming: ""},
		{name: "valid is reused", incoming: valid, reuse: true},
		{name: "garbage is replaced", incoming: "<script>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			handler := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				seen = logging.RequestID(r.Context())
			}))

			req := httptest.NewRequest("GET", "/app/dashboard", nil)
			if tt.incoming != "" {
				req.Header.Set(RequestIDHeader, tt.incoming)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			got := w.Header().Get(RequestIDHeader)
			if got != seen {
				t.Errorf("response id %q differs from context id %q", got, seen)
			}
			if _, err := uuid.Parse(got); err != nil {
				t.Errorf("expected a uuid, got %q", got)
			}
			if tt.reuse && got != tt.incoming {
				t.Errorf("expected incoming id to be reused, got %q", got)
			}
		})
	}
}

// TestLogger tests request logging middleware.
func TestLogger(t *testing.T) {
	tests := []struct {
		name          string
		method        string
		path          string
		handlerStatus int
		level         string
	}{
		{"page", "GET", "/app/grants", http.StatusOK, "info"},
		{"form post", "POST", "/app/employees", http.StatusSeeOther, "info"},
		{"server error", "GET", "/app/dashboard", http.StatusInternalServerError, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := zerolog.New(&buf)

			var ctxLogger *zerolog.Logger
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				ctxLogger = logging.FromContext(r.Context())
				w.WriteHeader(tt.handlerStatus)
			})

			req := httptest.NewRequest(tt.method, tt.path, nil)
			req.RemoteAddr = "192.168.1.1:12345"
			Chain(RequestID, Logger(&logger))(handler).ServeHTTP(httptest.NewRecorder(), req)

			var entry map[string]any
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("failed to parse log entry: %v", err)
			}
			if entry["method"] != tt.method {
				t.Errorf("expected method %s, got %v", tt.method, entry["method"])
			}
			if entry["path"] != tt.path {
				t.Errorf("expected path %s, got %v", tt.path, entry["path"])
			}
			if entry["status"] != float64(tt.handlerStatus) {
				t.Errorf("expected status %d, got %v", tt.handlerStatus, entry["status"])
			}
			if entry["level"] != tt.level {
				t.Errorf("expected level %s, got %v", tt.level, entry["level"])
			}
			if id, _ := entry["request_id"].(string); id == "" {
				t.Error("expected request_id in log entry")
			}
			if ctxLogger == nil || ctxLogger == logging.Default() {
				t.Error("expected a request scoped logger in the context")
			}
		})
	}
}

// TestRecovery tests panic recovery.
func TestRecovery(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	handler := Recovery(&logger)(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		panic("template exploded")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/app/dashboard", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "INTERNAL_ERROR") {
		t.Errorf("expected INTERNAL_ERROR body, got %s", w.Body.String())
	}
	if strings.Contains(w.Body.String(), "template exploded") {
		t.Error("panic value leaked to the client")
	}
	if !strings.Contains(buf.String(), "Panic recovered") {
		t.Error("expected panic to be logged")
	}
}

// TestSecureHeaders tests the hardening headers.
func TestSecureHeaders(t *testing.T) {
	w := httptest.NewRecorder()
	SecureHeaders(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).
		ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	for header, want := range map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"Referrer-Policy":        "same-origin",
	} {
		if got := w.Header().Get(header); got != want {
			t.Errorf("%s: expected %q, got %q", header, want, got)
		}
	}
	if !strings.Contains(w.Header().Get("Content-Security-Policy"), "frame-ancestors 'none'") {
		t.Error("expected frame-ancestors in CSP")
	}
}

// TestCSRF tests that unsafe requests need the token issued on a safe one.
func TestCSRF(t *testing.T) {
	logger := zerolog.Nop()
	key := bytes.Repeat([]byte("k"), 32)
	handler := CSRF(CSRFConfig{Key: key}, &logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(csrf.Token(r)))
	}))

	get := httptest.NewRecorder()
	handler.ServeHTTP(get, httptest.NewRequest("GET", "http://console.test/app/employees", nil))
	if get.Code != http.StatusOK {
		t.Fatalf("expected GET to pass, got %d", get.Code)
	}
	token := get.Body.String()
	cookies := get.Result().Cookies()
	if token == "" || len(cookies) == 0 {
		t.Fatal("expected a token and a token cookie")
	}

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest("POST", "http://console.test/app/employees", nil)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code != http.StatusForbidden {
			t.Errorf("expected 403, got %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), "FORBIDDEN") {
			t.Errorf("expected FORBIDDEN body, got %s", w.Body.String())
		}
	})

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest("POST", "http://console.test/app/employees", nil)
		req.Header.Set("X-CSRF-Token", token)
		req.Header.Set("Referer", "http://console.test/app/employees")
		for _, c := range cookies {
			req.AddCookie(c)
		}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
	})
}
