package cmdutil

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sankshitpandoh/CapLedger/internal/api"
	"github.com/sankshitpandoh/CapLedger/internal/api/apitest"
	"github.com/sankshitpandoh/CapLedger/internal/appcontext"
	"github.com/sankshitpandoh/CapLedger/internal/cmd/globals"
	"github.com/sankshitpandoh/CapLedger/internal/cmd/table"
	"github.com/sankshitpandoh/CapLedger/internal/console"
	"github.com/sankshitpandoh/CapLedger/internal/transport"
	"github.com/sankshitpandoh/CapLedger/pkg/errors"
)

func testPrinter(t *testing.T, format string, args ...string) (*Printer, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	root := &cobra.Command{Use: "capledger"}
	globals.AddFlags(root)
	var p *Printer
	child := &cobra.Command{Use: "x", Run: func(cmd *cobra.Command, _ []string) {
		p = NewPrinter(cmd, &appcontext.Mock{OutputFormatFunc: func() string { return format }})
	}}
	root.AddCommand(child)
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"x"}, args...))
	require.NoError(t, root.Execute())
	return p, &out, &errOut
}

func TestPrinterHeadingOnlyForTables(t *testing.T) {
	p, out, _ := testPrinter(t, "table")
	p.Heading("as of %s", "06/01/2024")
	assert.Equal(t, "as of 06/01/2024\n", out.String())

	p, out, _ = testPrinter(t, "json")
	p.Heading("as of %s", "06/01/2024")
	assert.Empty(t, out.String())
}

func TestPrinterResult(t *testing.T) {
	p, _, errOut := testPrinter(t, "table")
	require.NoError(t, p.Result(console.Result{Toast: &console.Toast{Message: "Grant created", Kind: console.ToastSuccess}}))
	assert.Equal(t, "✓ Grant created\n", errOut.String())

	failed := errors.NewRequestFailedError("/api/grants", 400, "Grant exceeds remaining pool")
	err := p.Result(console.Result{Toast: &console.Toast{Message: failed.Error(), Kind: console.ToastError}, Err: failed})
	assert.Same(t, failed, err)
}

func TestPrinterQuiet(t *testing.T) {
	p, _, errOut := testPrinter(t, "table", "-q")
	require.NoError(t, p.Result(console.Result{Toast: &console.Toast{Message: "Logged out", Kind: console.ToastSuccess}}))
	require.NoError(t, p.Success("done"))
	assert.Empty(t, errOut.String())
}

func TestPrinterRender(t *testing.T) {
	p, out, _ := testPrinter(t, "yaml")
	require.NoError(t, p.Render(table.Data{}, map[string]int{"total_grants": 2}))
	assert.Equal(t, "total_grants: 2\n", out.String())
	assert.False(t, p.Wide())
}

func openConsole(t *testing.T, token string) *console.Controller {
	t.Helper()
	b := apitest.NewBackend(t)
	b.Seed()
	tc, err := transport.New(b.URL(), transport.WithAuth(&transport.CookieAuth{Name: apitest.SessionCookie}, token))
	require.NoError(t, err)
	ctrl, err := console.Open(context.Background(), api.New(tc, 0), console.WithClock(func() string { return "2024-06-01" }))
	require.NoError(t, err)
	return ctrl
}

func TestRequireScreenNavigates(t *testing.T) {
	ctrl := openConsole(t, apitest.AdminToken)
	for _, screen := range []console.Screen{console.ScreenEmployees, console.ScreenGrants, console.ScreenExercises, console.ScreenDashboard} {
		require.NoError(t, RequireScreen(context.Background(), ctrl, screen))
		assert.Equal(t, screen, ctrl.State().Screen)
		assert.Equal(t, screen.Meta().Title, ctrl.View().Title)
	}
}

func TestRequireScreenRejectsRole(t *testing.T) {
	ctrl := openConsole(t, apitest.EmployeeToken)
	require.NoError(t, RequireScreen(context.Background(), ctrl, console.ScreenExercises))

	err := RequireScreen(context.Background(), ctrl, console.ScreenGrants)
	require.Error(t, err)
	assert.True(t, errors.IsForbidden(err))
	assert.Equal(t, "Grants screen is not available for role employee", err.Error())
	assert.Equal(t, console.ScreenExercises, ctrl.State().Screen)
}
