// Package cmdtest runs capledger commands against the in-memory backend.
package cmdtest

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"

	"github.com/sankshitpandoh/CapLedger/internal/api"
	"github.com/sankshitpandoh/CapLedger/internal/api/apitest"
	"github.com/sankshitpandoh/CapLedger/internal/appcontext"
	"github.com/sankshitpandoh/CapLedger/internal/cmd/globals"
	"github.com/sankshitpandoh/CapLedger/internal/console"
	"github.com/sankshitpandoh/CapLedger/internal/transport"
)

// Today is the date every test console is opened on.
const Today = "2024-06-01"

// Env is a seeded backend plus an app context signed in with one token.
type Env struct {
	Backend *apitest.Backend
	App     *appcontext.Mock

	// Format is returned by App.OutputFormat.
	Format string
}

// New starts a seeded backend and an app context using token.
func New(t *testing.T, token string) *Env {
	t.Helper()
	b := apitest.NewBackend(t)
	b.Seed()

	env := &Env{Backend: b, Format: "table"}
	env.App = &appcontext.Mock{
		APIFunc: func() (*api.Client, error) {
			tc, err := transport.New(b.URL(), transport.WithAuth(&transport.CookieAuth{Name: apitest.SessionCookie}, token))
			if err != nil {
				return nil, err
			}
			return api.New(tc, 0), nil
		},
		OutputFormatFunc: func() string { return env.Format },
		TodayFunc:        func() string { return Today },
	}
	env.App.ConsoleFunc = func(ctx context.Context) (*console.Controller, error) {
		client, err := env.App.API()
		if err != nil {
			return nil, err
		}
		return console.Open(ctx, client, console.WithClock(func() string { return Today }))
	}
	return env
}

// Run executes cmd under a root carrying the global flags and returns what
// it wrote to stdout and stderr.
func Run(t *testing.T, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	root := &cobra.Command{Use: "capledger", SilenceUsage: true, SilenceErrors: true}
	root.AddGroup(&cobra.Group{ID: "core", Title: "Equity Commands:"}, &cobra.Group{ID: "session", Title: "Session Commands:"})
	globals.AddFlags(root)
	root.AddCommand(cmd)

	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{cmd.Name()}, args...))

	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}
