// Package exercises provides the exercises command and its subcommands.
package exercises

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/sankshitpandoh/CapLedger/internal/cmd/cmdutil"
	"github.com/sankshitpandoh/CapLedger/internal/cmd/table"
	"github.com/sankshitpandoh/CapLedger/internal/console"
)

// AppContext is what the exercises commands need from the app.
type AppContext interface {
	Console(ctx context.Context) (*console.Controller, error)
	OutputFormat() string
	UseColor() bool
	Today() string
}

// NewCommand creates the exercises command.
func NewCommand(app AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "exercises",
		Aliases: []string{"exercise", "ex"},
		GroupID: "core",
		Short:   "Review and record option exercises",
		Long: `Exercises shows the exercise history of a grant and records new exercises.

Available subcommands:
  list    - exercise history of a grant (first grant by default)
  record  - record an exercise against a grant (admin)`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newListCommand(app))
	cmd.AddCommand(newRecordCommand(app))
	return cmd
}

func newListCommand(app AppContext) *cobra.Command {
	var grantID int64
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls", "history"},
		Short:   "Show the exercise history of a grant",
		Example: `  capledger exercises list
  capledger exercises list --grant 10 -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctrl, err := app.Console(cmd.Context())
			if err != nil {
				return err
			}
			if err := cmdutil.RequireScreen(cmd.Context(), ctrl, console.ScreenExercises); err != nil {
				return err
			}
			if err := selectGrant(cmd.Context(), ctrl, grantID); err != nil {
				return err
			}

			p := cmdutil.NewPrinter(cmd, app)
			v := ctrl.View()
			state := ctrl.State()
			p.Heading("%s: %s", v.Title, v.ExerciseSummary)
			return p.Render(table.FromConsole(v.Exercises, p.Wide()), state.ExerciseHistory)
		},
	}
	cmd.Flags().Int64Var(&grantID, "grant", 0, "Grant id (default first grant)")
	return cmd
}

func newRecordCommand(app AppContext) *cobra.Command {
	var form console.ExerciseForm
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record an option exercise",
		Long: `Record converts vested options of a grant into shares. The price
defaults to the grant's strike price when --price is omitted.`,
		Example: `  capledger exercises record --grant 10 --options 100
  capledger exercises record --grant 10 --options 50 --price 2.00 --date 2024-05-15`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if form.ExerciseDate == "" {
				form.ExerciseDate = app.Today()
			}
			ctrl, err := app.Console(cmd.Context())
			if err != nil {
				return err
			}
			res := ctrl.Update(cmd.Context(), console.SubmitExercise{Form: form})
			return cmdutil.NewPrinter(cmd, app).Result(res)
		},
	}
	cmd.Flags().StringVar(&form.GrantID, "grant", "", "Grant id (default first grant)")
	cmd.Flags().StringVar(&form.ExerciseDate, "date", "", "Exercise date, YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&form.OptionsExercised, "options", "", "Options exercised")
	cmd.Flags().StringVar(&form.PricePerOptionDollars, "price", "", "Price per option in dollars (default strike price)")
	_ = cmd.MarkFlagRequired("options")
	return cmd
}

// selectGrant switches the history to grantID. Zero keeps the default
// selection.
func selectGrant(ctx context.Context, ctrl *console.Controller, grantID int64) error {
	if grantID == 0 {
		return nil
	}
	return ctrl.Update(ctx, console.SelectExerciseGrant{GrantID: grantID}).Err
}
