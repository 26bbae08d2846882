package app

import (
	"github.com/spf13/cobra"

	"github.com/sankshitpandoh/CapLedger/cmd/capledger/cmd/dashboard"
	"github.com/sankshitpandoh/CapLedger/cmd/capledger/cmd/employees"
	"github.com/sankshitpandoh/CapLedger/cmd/capledger/cmd/exercises"
	"github.com/sankshitpandoh/CapLedger/cmd/capledger/cmd/grants"
	"github.com/sankshitpandoh/CapLedger/cmd/capledger/cmd/serve"
	"github.com/sankshitpandoh/CapLedger/cmd/capledger/cmd/session"
)

// NewDashboardCommand creates the dashboard command.
func (a *App) NewDashboardCommand() *cobra.Command {
	return dashboard.NewCommand(a)
}

// NewEmployeesCommand creates the employees command.
func (a *App) NewEmployeesCommand() *cobra.Command {
	return employees.NewCommand(a)
}

// NewGrantsCommand creates the grants command.
func (a *App) NewGrantsCommand() *cobra.Command {
	return grants.NewCommand(a)
}

// NewExercisesCommand creates the exercises command.
func (a *App) NewExercisesCommand() *cobra.Command {
	return exercises.NewCommand(a)
}

// NewWhoamiCommand creates the whoami command.
func (a *App) NewWhoamiCommand() *cobra.Command {
	return session.NewWhoamiCommand(a)
}

// NewLogoutCommand creates the logout command.
func (a *App) NewLogoutCommand() *cobra.Command {
	return session.NewLogoutCommand(a)
}

// NewServeCommand creates the serve command.
func (a *App) NewServeCommand() *cobra.Command {
	return serve.NewCommand(a)
}

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("capledger %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit:   %s\n", a.commit)
				cmd.Printf("  built:    %s\n", a.date)
				cmd.Printf("  built by: %s\n", a.builtBy)
			}
		},
	}
}
