// Package grants provides the grants command and its subcommands.
package grants

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sankshitpandoh/CapLedger/internal/api"
	"github.com/sankshitpandoh/CapLedger/internal/cmd/cmdutil"
	"github.com/sankshitpandoh/CapLedger/internal/cmd/globals"
	"github.com/sankshitpandoh/CapLedger/internal/cmd/table"
	"github.com/sankshitpandoh/CapLedger/internal/console"
	"github.com/sankshitpandoh/CapLedger/internal/format"
	"github.com/sankshitpandoh/CapLedger/internal/utils/ptr"
	"github.com/sankshitpandoh/CapLedger/pkg/equity"
	"github.com/sankshitpandoh/CapLedger/pkg/errors"
)

// AppContext is what the grants commands need from the app.
type AppContext interface {
	API() (*api.Client, error)
	Console(ctx context.Context) (*console.Controller, error)
	OutputFormat() string
	UseColor() bool
	Today() string
}

// NewCommand creates the grants command.
func NewCommand(app AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "grants",
		Aliases: []string{"grant"},
		GroupID: "core",
		Short:   "List, create and update option grants",
		Long: `Grants lists option grants with their vesting position, creates new ones
and amends existing ones.

Available subcommands:
  list     - grants joined with employee and vesting figures (admin)
  create   - grant options to an active employee (admin)
  update   - change the terms of an existing grant (admin)
  summary  - vesting position of one grant on the as-of date`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newListCommand(app))
	cmd.AddCommand(newCreateCommand(app))
	cmd.AddCommand(newUpdateCommand(app))
	cmd.AddCommand(newSummaryCommand(app))
	return cmd
}

func newListCommand(app AppContext) *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List grants",
		Example: `  capledger grants list
  capledger grants list --search founders -o wide`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctrl, err := app.Console(cmd.Context())
			if err != nil {
				return err
			}
			if err := cmdutil.RequireScreen(cmd.Context(), ctrl, console.ScreenGrants); err != nil {
				return err
			}
			ctrl.Update(cmd.Context(), console.SetGrantSearch{Query: search})

			p := cmdutil.NewPrinter(cmd, app)
			v := ctrl.View()
			p.Heading("%s (%s)", v.Title, v.GrantCount)
			return p.Render(table.FromConsole(v.Grants, p.Wide()), v.GrantRows)
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "Match grant name, employee name or employee code")
	return cmd
}

func newCreateCommand(app AppContext) *cobra.Command {
	form := console.DefaultGrantForm("")
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a grant",
		Long: `Create grants options to an employee. Dates default to today and the
schedule defaults to a 12 month cliff over 48 months, vesting monthly.
A blank --strike lets the backend reject the grant.`,
		Example: `  capledger grants create --employee 1 --options 1000 --strike 1.50
  capledger grants create --employee 1 --options 500 --strike 0.10 --cliff 0 --vesting 24 --notes "Refresh"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			today := app.Today()
			if form.GrantDate == "" {
				form.GrantDate = today
			}
			if form.VestingStartDate == "" {
				form.VestingStartDate = form.GrantDate
			}
			ctrl, err := app.Console(cmd.Context())
			if err != nil {
				return err
			}
			res := ctrl.Update(cmd.Context(), console.SubmitGrant{Form: form})
			return cmdutil.NewPrinter(cmd, app).Result(res)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&form.EmployeeID, "employee", "", "Employee id")
	flags.StringVar(&form.GrantName, "name", form.GrantName, "Grant name")
	flags.StringVar(&form.GrantDate, "date", "", "Grant date, YYYY-MM-DD (default today)")
	flags.StringVar(&form.VestingStartDate, "vesting-start", "", "Vesting start date (default grant date)")
	flags.StringVar(&form.TotalOptions, "options", "", "Total options granted")
	flags.StringVar(&form.StrikePriceDollars, "strike", "", "Strike price in dollars, e.g. 1.50")
	flags.StringVar(&form.CliffMonths, "cliff", form.CliffMonths, "Cliff in months")
	flags.StringVar(&form.VestingMonths, "vesting", form.VestingMonths, "Vesting period in months")
	flags.StringVar(&form.VestingFrequencyMonths, "frequency", form.VestingFrequencyMonths, "Months between vesting events")
	flags.StringVar(&form.Notes, "notes", "", "Free-form notes")
	_ = cmd.MarkFlagRequired("employee")
	_ = cmd.MarkFlagRequired("options")
	return cmd
}

func newUpdateCommand(app AppContext) *cobra.Command {
	var name, date, start, options, strike, cliff, vesting, frequency, notes string
	cmd := &cobra.Command{
		Use:   "update <grant-id>",
		Short: "Change the terms of a grant",
		Long: `Update sends only the flags that were given; other fields keep their
current values. The backend checks the merged schedule, refuses to drop
total options below what has been exercised and keeps the grant inside
the pool.`,
		Example: `  capledger grants update 10 --options 1200
  capledger grants update 10 --cliff 6 --vesting 36 --notes "Amended"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseGrantID(args[0])
			if err != nil {
				return err
			}
			u, err := grantUpdate(cmd)
			if err != nil {
				return err
			}
			if err := u.Validate(); err != nil {
				return err
			}

			client, err := app.API()
			if err != nil {
				return err
			}
			if err := cmdutil.RequireAdmin(cmd.Context(), client, "grant update"); err != nil {
				return err
			}
			g, err := client.UpdateGrant(cmd.Context(), id, u)
			if err != nil {
				return err
			}

			p := cmdutil.NewPrinter(cmd, app)
			if !p.Format.IsTable() {
				return p.Render(table.Data{}, g)
			}
			return p.Success(fmt.Sprintf("Grant updated: %s (#%d), %s options", g.GrantName, g.ID, format.Int(g.TotalOptions)))
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&name, "name", "", "New grant name")
	flags.StringVar(&date, "date", "", "New grant date, YYYY-MM-DD")
	flags.StringVar(&start, "vesting-start", "", "New vesting start date")
	flags.StringVar(&options, "options", "", "New total options")
	flags.StringVar(&strike, "strike", "", "New strike price in dollars")
	flags.StringVar(&cliff, "cliff", "", "New cliff in months")
	flags.StringVar(&vesting, "vesting", "", "New vesting period in months")
	flags.StringVar(&frequency, "frequency", "", "New months between vesting events")
	flags.StringVar(&notes, "notes", "", "New notes")
	return cmd
}

// grantUpdate builds the patch from the flags that were given.
func grantUpdate(cmd *cobra.Command) (equity.GrantUpdate, error) {
	var u equity.GrantUpdate
	flags := cmd.Flags()
	get := func(name string) (string, bool) {
		if !flags.Changed(name) {
			return "", false
		}
		v, _ := flags.GetString(name)
		return strings.TrimSpace(v), true
	}

	for flag, dst := range map[string]**string{
		"name":          &u.GrantName,
		"date":          &u.GrantDate,
		"vesting-start": &u.VestingStartDate,
		"notes":         &u.Notes,
	} {
		if v, ok := get(flag); ok {
			*dst = ptr.To(v)
		}
	}
	for flag, dst := range map[string]**int{
		"cliff":     &u.CliffMonths,
		"vesting":   &u.VestingMonths,
		"frequency": &u.VestingFrequencyMonths,
	} {
		if v, ok := get(flag); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return u, errors.NewValidationError(strings.ReplaceAll(flag, "-", "_"), v, "must be a whole number")
			}
			*dst = ptr.To(n)
		}
	}
	if v, ok := get("options"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return u, errors.NewValidationError("total_options", v, "must be a whole number")
		}
		u.TotalOptions = ptr.To(n)
	}
	if v, ok := get("strike"); ok {
		cents, ok := format.DollarsToCents(v)
		if !ok {
			return u, errors.NewValidationError("strike_price", v, "must be a non-negative amount")
		}
		u.StrikePriceCents = ptr.To(cents)
	}
	return u, nil
}

func parseGrantID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewValidationError("grant_id", raw, "must be a positive whole number")
	}
	return id, nil
}

func newSummaryCommand(app AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "summary <grant-id>",
		Short: "Show the vesting position of a grant",
		Example: `  capledger grants summary 10
  capledger grants summary 10 --as-of 2026-01-01 -o yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseGrantID(args[0])
			if err != nil {
				return err
			}
			asOf := app.Today()
			if flags := globals.Parse(cmd); flags.AsOf != "" {
				asOf = flags.AsOf
			}

			client, err := app.API()
			if err != nil {
				return err
			}
			s, err := client.GrantSummary(cmd.Context(), id, asOf)
			if err != nil {
				return err
			}

			rows := table.KeyValues(
				[2]string{"Grant", s.GrantName + " (#" + strconv.FormatInt(s.GrantID, 10) + ")"},
				[2]string{"Employee", s.EmployeeName},
				[2]string{"As Of", format.Date(s.AsOf)},
				[2]string{"Total Options", format.Int(s.TotalOptions)},
				[2]string{"Vested", format.Int(s.VestedOptions)},
				[2]string{"Unvested", format.Int(s.UnvestedOptions)},
				[2]string{"Exercised", format.Int(s.ExercisedOptions)},
				[2]string{"Available to Exercise", format.Int(s.AvailableToExercise)},
				[2]string{"Outstanding", format.Int(s.OutstandingOptions)},
			)
			return cmdutil.NewPrinter(cmd, app).Render(rows, s)
		},
	}
}
