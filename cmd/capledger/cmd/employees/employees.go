// Package employees provides the employees command and its subcommands.
package employees

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sankshitpandoh/CapLedger/internal/api"
	"github.com/sankshitpandoh/CapLedger/internal/cmd/cmdutil"
	"github.com/sankshitpandoh/CapLedger/internal/cmd/output"
	"github.com/sankshitpandoh/CapLedger/internal/cmd/table"
	"github.com/sankshitpandoh/CapLedger/internal/console"
	"github.com/sankshitpandoh/CapLedger/internal/utils/ptr"
	"github.com/sankshitpandoh/CapLedger/pkg/equity"
	"github.com/sankshitpandoh/CapLedger/pkg/errors"
)

// AppContext is what the employees commands need from the app.
type AppContext interface {
	API() (*api.Client, error)
	Console(ctx context.Context) (*console.Controller, error)
	OutputFormat() string
	UseColor() bool
	Today() string
}

// NewCommand creates the employees command.
func NewCommand(app AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "employees",
		Aliases: []string{"employee", "emp"},
		GroupID: "core",
		Short:   "List and manage employees (admin)",
		Long: `Employees lists cap-table participants and onboards new ones.

Available subcommands:
  list        - employees matching a search and status filter
  create      - add an active employee
  update      - change an employee's code, name, email, joining date or status
  deactivate  - mark an employee inactive
  export      - dump employee records as JSON or YAML`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newListCommand(app))
	cmd.AddCommand(newCreateCommand(app))
	cmd.AddCommand(newUpdateCommand(app))
	cmd.AddCommand(newDeactivateCommand(app))
	cmd.AddCommand(newExportCommand(app))
	return cmd
}

func newListCommand(app AppContext) *cobra.Command {
	var search, status string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List employees",
		Example: `  capledger employees list
  capledger employees list --search ada
  capledger employees list --status inactive -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateStatus(status); err != nil {
				return err
			}
			ctrl, err := app.Console(cmd.Context())
			if err != nil {
				return err
			}
			if err := cmdutil.RequireScreen(cmd.Context(), ctrl, console.ScreenEmployees); err != nil {
				return err
			}

			ctx := cmd.Context()
			ctrl.Update(ctx, console.SetEmployeeSearch{Query: search})
			ctrl.Update(ctx, console.SetEmployeeStatus{Status: status})

			p := cmdutil.NewPrinter(cmd, app)
			v := ctrl.View()
			state := ctrl.State()
			p.Heading("%s (%s)", v.Title, v.EmployeeCount)
			return p.Render(table.FromConsole(v.Employees, p.Wide()), state.FilteredEmployees())
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "Match name, employee code or email")
	cmd.Flags().StringVar(&status, "status", console.StatusAll, "Status filter: all, active, inactive")
	return cmd
}

func newCreateCommand(app AppContext) *cobra.Command {
	var form console.EmployeeForm
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add an employee",
		Example: `  capledger employees create --code E-003 --name "Grace Hopper" --email grace@acme.io
  capledger employees create --code E-004 --name "Alan Turing" --email alan@acme.io --joined 2024-01-15`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if form.JoiningDate == "" {
				form.JoiningDate = app.Today()
			}
			ctrl, err := app.Console(cmd.Context())
			if err != nil {
				return err
			}
			res := ctrl.Update(cmd.Context(), console.SubmitEmployee{Form: form})
			return cmdutil.NewPrinter(cmd, app).Result(res)
		},
	}
	cmd.Flags().StringVar(&form.EmployeeCode, "code", "", "Employee code")
	cmd.Flags().StringVar(&form.FullName, "name", "", "Full name")
	cmd.Flags().StringVar(&form.Email, "email", "", "Work email")
	cmd.Flags().StringVar(&form.JoiningDate, "joined", "", "Joining date, YYYY-MM-DD (default today)")
	_ = cmd.MarkFlagRequired("code")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newUpdateCommand(app AppContext) *cobra.Command {
	var code, name, email, joined, status string
	cmd := &cobra.Command{
		Use:   "update <employee-id>",
		Short: "Change employee details",
		Long: `Update sends only the flags that were given; other fields keep their
current values. Use --status active to reactivate an employee.`,
		Example: `  capledger employees update 2 --email bob.stone@acme.io
  capledger employees update 2 --status active`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseEmployeeID(args[0])
			if err != nil {
				return err
			}

			var u equity.EmployeeUpdate
			flags := cmd.Flags()
			for flag, dst := range map[string]**string{
				"code":   &u.EmployeeCode,
				"name":   &u.FullName,
				"email":  &u.Email,
				"joined": &u.JoiningDate,
			} {
				if flags.Changed(flag) {
					v, _ := flags.GetString(flag)
					*dst = ptr.To(strings.TrimSpace(v))
				}
			}
			if flags.Changed("status") {
				u.Status = ptr.To(equity.EmployeeStatus(strings.TrimSpace(status)))
			}
			if err := u.Validate(); err != nil {
				return err
			}

			client, err := app.API()
			if err != nil {
				return err
			}
			if err := cmdutil.RequireAdmin(cmd.Context(), client, "employee update"); err != nil {
				return err
			}
			e, err := client.UpdateEmployee(cmd.Context(), id, u)
			if err != nil {
				return err
			}

			p := cmdutil.NewPrinter(cmd, app)
			if !p.Format.IsTable() {
				return p.Render(table.Data{}, e)
			}
			return p.Success(fmt.Sprintf("Employee updated: %s (%s)", e.FullName, e.EmployeeCode))
		},
	}
	cmd.Flags().StringVar(&code, "code", "", "New employee code")
	cmd.Flags().StringVar(&name, "name", "", "New full name")
	cmd.Flags().StringVar(&email, "email", "", "New work email")
	cmd.Flags().StringVar(&joined, "joined", "", "New joining date, YYYY-MM-DD")
	cmd.Flags().StringVar(&status, "status", "", "active or inactive")
	return cmd
}

func newDeactivateCommand(app AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate <employee-id>",
		Short: "Mark an employee inactive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseEmployeeID(args[0])
			if err != nil {
				return err
			}
			client, err := app.API()
			if err != nil {
				return err
			}
			if err := cmdutil.RequireAdmin(cmd.Context(), client, "employee deactivate"); err != nil {
				return err
			}
			e, err := client.DeactivateEmployee(cmd.Context(), id)
			if err != nil {
				return err
			}

			p := cmdutil.NewPrinter(cmd, app)
			if !p.Format.IsTable() {
				return p.Render(table.Data{}, e)
			}
			return p.Success(fmt.Sprintf("Employee deactivated: %s (%s)", e.FullName, e.EmployeeCode))
		},
	}
}

func newExportCommand(app AppContext) *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export employee records",
		Long: `Export fetches every employee page from the backend and writes the
records as JSON (default) or YAML. --status is applied by the backend.`,
		Example: `  capledger employees export > employees.json
  capledger employees export --status active -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateStatus(status); err != nil {
				return err
			}
			client, err := app.API()
			if err != nil {
				return err
			}
			if err := cmdutil.RequireAdmin(cmd.Context(), client, "employee export"); err != nil {
				return err
			}
			filter := api.EmployeeFilter{}
			if status != console.StatusAll {
				filter.Status = equity.EmployeeStatus(strings.TrimSpace(status))
			}
			records, err := client.ListEmployees(cmd.Context(), filter)
			if err != nil {
				return err
			}

			p := cmdutil.NewPrinter(cmd, app)
			if p.Format.IsTable() {
				p.Format = output.FormatJSON
			}
			return p.Render(table.Data{}, records)
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "Only export active or inactive employees")
	return cmd
}

func parseEmployeeID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewValidationError("employee_id", raw, "must be a positive whole number")
	}
	return id, nil
}

func validateStatus(status string) error {
	s := strings.TrimSpace(status)
	if s == "" || s == console.StatusAll || equity.EmployeeStatus(s).Valid() {
		return nil
	}
	return errors.NewValidationError("status", status, "must be one of all, active, inactive")
}
