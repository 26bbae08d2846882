// Package cmdutil holds the output plumbing shared by every capledger command.
package cmdutil

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sankshitpandoh/CapLedger/internal/api"
	"github.com/sankshitpandoh/CapLedger/internal/cmd/alerts"
	"github.com/sankshitpandoh/CapLedger/internal/cmd/globals"
	"github.com/sankshitpandoh/CapLedger/internal/cmd/output"
	"github.com/sankshitpandoh/CapLedger/internal/cmd/table"
	"github.com/sankshitpandoh/CapLedger/internal/console"
	"github.com/sankshitpandoh/CapLedger/pkg/errors"
)

// OutputContext is what a Printer needs from the app.
type OutputContext interface {
	OutputFormat() string
	UseColor() bool
}

// Printer writes command results to stdout and status lines to stderr.
type Printer struct {
	Out    io.Writer
	Err    io.Writer
	Format output.Format
	Quiet  bool
	alerts *alerts.Writer
}

// NewPrinter builds a Printer for cmd.
func NewPrinter(cmd *cobra.Command, app OutputContext) *Printer {
	return &Printer{
		Out:    cmd.OutOrStdout(),
		Err:    cmd.ErrOrStderr(),
		Format: output.Format(app.OutputFormat()),
		Quiet:  globals.Parse(cmd).Quiet,
		alerts: alerts.NewWriter(cmd.ErrOrStderr(), app.UseColor()),
	}
}

// Wide reports whether wide tables were requested.
func (p *Printer) Wide() bool {
	return p.Format == output.FormatWide
}

// Render writes rows for table formats and records otherwise.
func (p *Printer) Render(rows table.Data, records any) error {
	return output.Render(p.Out, p.Format, rows, records)
}

// Heading prints a line above a table. It is skipped for json and yaml so
// their output stays parseable.
func (p *Printer) Heading(format string, args ...any) {
	if !p.Format.IsTable() {
		return
	}
	_, _ = fmt.Fprintf(p.Out, format+"\n", args...)
}

// Result prints a success toast of res, unless --quiet is set, and returns
// the error behind a failure toast for main to report.
func (p *Printer) Result(res console.Result) error {
	if res.Err != nil {
		return res.Err
	}
	if res.Toast == nil || p.Quiet {
		return nil
	}
	return p.alerts.Write(alerts.FromToast(res.Toast, nil))
}

// Success prints a success line unless --quiet is set.
func (p *Printer) Success(msg string) error {
	if p.Quiet {
		return nil
	}
	return p.alerts.Write(&alerts.Alert{Level: alerts.LevelSuccess, Message: msg})
}

// RequireScreen navigates ctrl to screen, the way the web console follows
// its route. It fails with an access error when the signed-in role may not
// open screen.
func RequireScreen(ctx context.Context, ctrl *console.Controller, screen console.Screen) error {
	if ctrl.Allowed(screen) {
		ctrl.Update(ctx, console.Navigate{Screen: string(screen)})
	}
	s := ctrl.State()
	if s.Screen == screen && s.Auth.Authenticated {
		return nil
	}
	return errors.NewAccessError(string(s.Auth.Role), screen.Meta().Title+" screen")
}

// RequireAdmin checks the session role before a write the console has no
// form for.
func RequireAdmin(ctx context.Context, client *api.Client, action string) error {
	s, err := client.Me(ctx)
	if err != nil {
		return err
	}
	if !s.Authenticated {
		return errors.NewSessionExpiredError(api.PathSessionMe)
	}
	if !s.Role().IsAdmin() {
		return errors.NewAccessError(string(s.Role()), action)
	}
	return nil
}
