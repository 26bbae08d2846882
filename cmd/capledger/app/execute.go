package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/sankshitpandoh/CapLedger/internal/cmd/globals"
	"github.com/sankshitpandoh/CapLedger/internal/cmd/hints"
	"github.com/sankshitpandoh/CapLedger/internal/cmd/output"
)

// Execute runs the capledger CLI application with the given arguments.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	cmd, err := rootCmd.ExecuteContextC(ctx)
	if err != nil {
		a.showHints(cmd, err)
	}
	return err
}

// showHints prints recovery hints for err on stderr unless --quiet is set.
func (a *App) showHints(cmd *cobra.Command, err error) {
	if a.config.Quiet {
		return
	}
	found := hints.Standard().For(hints.Context{
		Command: cmd.CommandPath(),
		Err:     err,
		APIURL:  a.config.APIURL,
	})
	if err := hints.Write(cmd.ErrOrStderr(), output.Format(a.OutputFormat()), found); err != nil {
		a.logger.Debug().Err(err).Msg("Cannot print hints")
	}
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "capledger",
		Short:   "ESOP administration console",
		Version: a.version,
		Long: `CapLedger is the console for an employee stock option plan backend.

Admins manage employees, create grants and record option exercises.
Employees review their own grants, vesting position and exercise history.
Every command talks to the backend configured by --api-url (or
CAPLEDGER_API_URL) using the session in CAPLEDGER_SESSION_TOKEN.
Run "capledger serve" for the browser console with Google sign-in.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "Equity Commands:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "session",
		Title: "Session Commands:",
	})

	globals.AddFlags(rootCmd)
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default is $HOME/.capledger.yaml)")
	flags.String("api-url", "", "backend base URL (default "+DefaultAPIURL+")")
	flags.String("log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")

	rootCmd.SetVersionTemplate("capledger {{.Version}}\n")

	a.registerCommands(rootCmd)
	return rootCmd
}

// setupCommand is called before any command runs. It reloads the config
// file named by --config and layers the flags that were set on top.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()

	if flags.Changed("config") {
		config, err := LoadConfig(mustGetString(cmd, "config"))
		if err != nil {
			return err
		}
		a.config = config
		a.mu.Lock()
		a.client = nil
		a.mu.Unlock()
	}

	var values FlagValues
	if flags.Changed(globals.FlagVerbose) {
		v := mustGetBool(cmd, globals.FlagVerbose)
		values.Verbose = &v
	}
	if flags.Changed(globals.FlagQuiet) {
		v := mustGetBool(cmd, globals.FlagQuiet)
		values.Quiet = &v
	}
	if flags.Changed(globals.FlagNoColor) {
		v := mustGetBool(cmd, globals.FlagNoColor)
		values.NoColor = &v
	}
	if flags.Changed(globals.FlagOutput) {
		v := mustGetString(cmd, globals.FlagOutput)
		if _, err := output.ParseFormat(v); err != nil {
			return err
		}
		values.Output = &v
	}
	if flags.Changed("log-level") {
		v := mustGetString(cmd, "log-level")
		values.LogLevel = &v
	}
	if flags.Changed(globals.FlagAsOf) {
		v := mustGetString(cmd, globals.FlagAsOf)
		values.AsOf = &v
	}
	if flags.Changed("api-url") {
		v := mustGetString(cmd, "api-url")
		values.APIURL = &v
		a.mu.Lock()
		a.client = nil
		a.mu.Unlock()
	}
	if err := a.config.UpdateFromFlags(values); err != nil {
		return err
	}

	logger := NewLogger(a.config)
	a.logger = &logger
	return nil
}

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Equity commands
	rootCmd.AddCommand(a.NewDashboardCommand())
	rootCmd.AddCommand(a.NewEmployeesCommand())
	rootCmd.AddCommand(a.NewGrantsCommand())
	rootCmd.AddCommand(a.NewExercisesCommand())

	// Session commands
	rootCmd.AddCommand(a.NewWhoamiCommand())
	rootCmd.AddCommand(a.NewLogoutCommand())
	rootCmd.AddCommand(a.NewServeCommand())

	// Utility commands
	rootCmd.AddCommand(a.NewVersionCommand())
}

// ExitOnError is a helper that prints an error and exits with status 1.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

// mustGetBool retrieves a boolean flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// mustGetString retrieves a string flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
