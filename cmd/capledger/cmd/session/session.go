// Package session provides the whoami and logout commands.
package session

import (
	"context"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sankshitpandoh/CapLedger/internal/api"
	"github.com/sankshitpandoh/CapLedger/internal/cmd/cmdutil"
	"github.com/sankshitpandoh/CapLedger/internal/cmd/table"
	"github.com/sankshitpandoh/CapLedger/internal/console"
	"github.com/sankshitpandoh/CapLedger/pkg/errors"
)

// AppContext is what the session commands need from the app.
type AppContext interface {
	API() (*api.Client, error)
	Logger() *zerolog.Logger
	OutputFormat() string
	UseColor() bool
	Today() string
}

// NewWhoamiCommand creates the whoami command.
func NewWhoamiCommand(app AppContext) *cobra.Command {
	return &cobra.Command{
		Use:     "whoami",
		GroupID: "session",
		Short:   "Show the signed-in user",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.API()
			if err != nil {
				return err
			}
			s, err := client.Me(cmd.Context())
			if err != nil {
				return err
			}
			if !s.Authenticated || s.User == nil {
				return errors.NewSessionExpiredError(api.PathSessionMe)
			}

			employee := "-"
			if s.User.EmployeeID != nil {
				employee = strconv.FormatInt(*s.User.EmployeeID, 10)
			}
			rows := table.KeyValues(
				[2]string{"Name", s.User.FullName},
				[2]string{"Email", s.User.Email},
				[2]string{"Role", string(s.User.Role)},
				[2]string{"Employee ID", employee},
			)
			return cmdutil.NewPrinter(cmd, app).Render(rows, s)
		},
	}
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand(app AppContext) *cobra.Command {
	return &cobra.Command{
		Use:     "logout",
		GroupID: "session",
		Short:   "End the backend session",
		Long: `Logout ends the backend session behind the configured token.
Further commands fail until CAPLEDGER_SESSION_TOKEN holds a fresh session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return logout(cmd.Context(), cmd, app)
		},
	}
}

func logout(ctx context.Context, cmd *cobra.Command, app AppContext) error {
	client, err := app.API()
	if err != nil {
		return err
	}
	ctrl := console.New(client, console.WithClock(app.Today), console.WithLogger(app.Logger()))
	return cmdutil.NewPrinter(cmd, app).Result(ctrl.Update(ctx, console.Logout{}))
}
