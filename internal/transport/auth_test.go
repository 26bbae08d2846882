package transport

import (
	"net/http"
	"testing"
)

func TestNoAuth(t *testing.T) {
	req := &http.Request{Header: make(http.Header)}
	(&NoAuth{}).Apply(req, "secret")

	if len(req.Header) != 0 {
		t.Errorf("Expected no headers, got %d", len(req.Header))
	}
}

func TestCookieAuth(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "http://backend/api/auth/me", nil)
	(&CookieAuth{Name: "session"}).Apply(req, "signed-value")

	c, err := req.Cookie("session")
	if err != nil {
		t.Fatalf("Expected session cookie: %v", err)
	}
	if c.Value != "signed-value" {
		t.Errorf("Expected cookie value 'signed-value', got '%s'", c.Value)
	}
}

func TestCookieAuthEmptyCredential(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "http://backend/api/auth/me", nil)
	(&CookieAuth{Name: "session"}).Apply(req, "")

	if len(req.Cookies()) != 0 {
		t.Errorf("Expected no cookies, got %d", len(req.Cookies()))
	}
}

func TestBearerAuth(t *testing.T) {
	req := &http.Request{Header: make(http.Header)}
	(&BearerAuth{}).Apply(req, "tok")

	if got := req.Header.Get("Authorization"); got != "Bearer tok" {
		t.Errorf("Expected Authorization header 'Bearer tok', got '%s'", got)
	}
}

func TestHeaderAuth(t *testing.T) {
	req := &http.Request{Header: make(http.Header)}
	(&HeaderAuth{Header: "X-Session"}).Apply(req, "tok")

	if got := req.Header.Get("X-Session"); got != "tok" {
		t.Errorf("Expected X-Session header 'tok', got '%s'", got)
	}
	if req.Header.Get("Authorization") != "" {
		t.Error("Should not have Authorization header")
	}
}

func TestAuthenticatorFor(t *testing.T) {
	tests := []struct {
		scheme string
		want   string
	}{
		{"none", "*transport.NoAuth"},
		{"bearer", "*transport.BearerAuth"},
		{"header", "*transport.HeaderAuth"},
		{"cookie", "*transport.CookieAuth"},
		{"", "*transport.CookieAuth"},
	}
	for _, tt := range tests {
		t.Run(tt.scheme, func(t *testing.T) {
			got := AuthenticatorFor(tt.scheme, "session")
			if name := typeName(got); name != tt.want {
				t.Errorf("AuthenticatorFor(%q) = %s, want %s", tt.scheme, name, tt.want)
			}
		})
	}
}

func typeName(a Authenticator) string {
	switch a.(type) {
	case *NoAuth:
		return "*transport.NoAuth"
	case *BearerAuth:
		return "*transport.BearerAuth"
	case *HeaderAuth:
		return "*transport.HeaderAuth"
	case *CookieAuth:
		return "*transport.CookieAuth"
	}
	return "unknown"
}
