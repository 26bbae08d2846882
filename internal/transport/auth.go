package transport

import "net/http"

// Authenticator applies a credential to outgoing requests.
type Authenticator interface {
	Apply(req *http.Request, credential string)
}

// NoAuth implements no authentication.
type NoAuth struct{}

// Apply implements the Authenticator interface for NoAuth.
func (a *NoAuth) Apply(_ *http.Request, _ string) {}

// CookieAuth forwards the backend session cookie. The ESOP backend issues a
// signed session cookie at sign-in; the console presents it on every call.
type CookieAuth struct {
	Name string
}

// Apply implements the Authenticator interface for CookieAuth.
func (a *CookieAuth) Apply(req *http.Request, credential string) {
	if credential == "" {
		return
	}
	req.AddCookie(&http.Cookie{Name: a.Name, Value: credential})
}

// BearerAuth implements Bearer token authentication.
type BearerAuth struct{}

// Apply implements the Authenticator interface for BearerAuth.
func (a *BearerAuth) Apply(req *http.Request, credential string) {
	if credential == "" {
		return
	}
	req.Header.Set("Authorization", "Bearer "+credential)
}

// HeaderAuth implements custom header authentication.
type HeaderAuth struct {
	Header string
}

// Apply implements the Authenticator interface for HeaderAuth.
func (a *HeaderAuth) Apply(req *http.Request, credential string) {
	if credential == "" {
		return
	}
	req.Header.Set(a.Header, credential)
}

// AuthenticatorFor maps a configured scheme name to an Authenticator.
// Unknown schemes fall back to the session cookie.
func AuthenticatorFor(scheme, name string) Authenticator {
	switch scheme {
	case "none":
		return &NoAuth{}
	case "bearer":
		return &BearerAuth{}
	case "header":
		return &HeaderAuth{Header: name}
	default:
		return &CookieAuth{Name: name}
	}
}
