package hints

import (
	"strings"

	"github.com/sankshitpandoh/CapLedger/pkg/errors"
)

// Standard returns a registry with the session, network, access and input
// providers.
func Standard() *Registry {
	r := NewRegistry()
	r.Register(sessionHints)
	r.Register(networkHints)
	r.Register(accessHints)
	r.Register(inputHints)
	return r
}

// sessionHints explains how to get a fresh backend session.
func sessionHints(ctx Context) []Hint {
	if !errors.IsSessionExpired(ctx.Err) {
		return nil
	}
	return []Hint{
		{
			Message: "Sign in with Google through the web console, then copy the session cookie",
			Command: "capledger serve",
			Tags:    []string{"auth", "recovery"},
		},
		{
			Message: "Use the new session for CLI commands",
			Command: "export CAPLEDGER_SESSION_TOKEN=<session cookie>",
			Tags:    []string{"auth", "setup"},
		},
	}
}

// networkHints points at the backend URL when nothing answered.
func networkHints(ctx Context) []Hint {
	if !errors.IsNetwork(ctx.Err) {
		return nil
	}
	msg := "Check that the ESOP backend is running"
	if ctx.APIURL != "" {
		msg += " at " + ctx.APIURL
	}
	return []Hint{{Message: msg, Command: "capledger whoami --api-url <backend url>", Tags: []string{"network"}}}
}

// accessHints covers admin-only screens and actions.
func accessHints(ctx Context) []Hint {
	if !errors.IsForbidden(ctx.Err) {
		return nil
	}
	return []Hint{{
		Message: "Only admins can open this screen or change records. Check your role",
		Command: "capledger whoami",
		Tags:    []string{"auth"},
	}}
}

// inputHints sends form and flag mistakes back to the command help.
func inputHints(ctx Context) []Hint {
	if !errors.IsValidationError(ctx.Err) || errors.IsRequestFailed(ctx.Err) || ctx.Command == "" {
		return nil
	}
	return []Hint{{
		Message: "Review the accepted flags and formats",
		Command: strings.TrimSpace(ctx.Command) + " --help",
		Tags:    []string{"usage"},
	}}
}
