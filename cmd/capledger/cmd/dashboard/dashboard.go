// Package dashboard provides the dashboard command.
package dashboard

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/sankshitpandoh/CapLedger/internal/cmd/cmdutil"
	"github.com/sankshitpandoh/CapLedger/internal/cmd/table"
	"github.com/sankshitpandoh/CapLedger/internal/console"
	"github.com/sankshitpandoh/CapLedger/internal/format"
)

// AppContext is what the dashboard command needs from the app.
type AppContext interface {
	Console(ctx context.Context) (*console.Controller, error)
	OutputFormat() string
	UseColor() bool
}

// NewCommand creates the dashboard command.
func NewCommand(app AppContext) *cobra.Command {
	return &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"dash", "summary"},
		GroupID: "core",
		Short:   "Show pool and vesting totals",
		Long: `Dashboard shows the equity pool and vesting totals for the as-of date.

Admins see company-wide metrics and pool allocation. Employees see the
totals of their own grants.`,
		Example: `  capledger dashboard
  capledger dashboard --as-of 2025-01-01
  capledger dashboard -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctrl, err := app.Console(cmd.Context())
			if err != nil {
				return err
			}
			if err := cmdutil.RequireScreen(cmd.Context(), ctrl, console.ScreenDashboard); err != nil {
				return err
			}
			return render(cmdutil.NewPrinter(cmd, app), ctrl)
		},
	}
}

func render(p *cmdutil.Printer, ctrl *console.Controller) error {
	if !p.Format.IsTable() {
		return p.Render(table.Data{}, ctrl.State().Dashboard)
	}

	v := ctrl.View()
	p.Heading("%s as of %s", v.Title, format.Date(v.AsOf))
	if err := p.Render(table.Metrics(v.Metrics, v.MetricsEmpty), nil); err != nil {
		return err
	}
	if v.Pool != nil {
		p.Heading("Pool: %s", v.Pool.Text)
	}
	p.Heading("")
	return p.Render(table.FromConsole(v.DashboardGrants, p.Wide()), nil)
}
