// Package globals declares the persistent flags every capledger command
// shares and reads them back from any subcommand.
package globals

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/sankshitpandoh/CapLedger/internal/cmd/constants"
)

// Names of the shared flags.
const (
	FlagOutput  = "output"
	FlagQuiet   = "quiet"
	FlagVerbose = "verbose"
	FlagNoColor = "no-color"
	FlagAsOf    = "as-of"
)

// Flags are the shared flag values as seen by one command.
type Flags struct {
	Output  string
	Quiet   bool
	Verbose bool
	NoColor bool
	AsOf    string
}

// AddFlags registers the shared flags on root.
func AddFlags(root *cobra.Command) {
	pf := root.PersistentFlags()
	pf.StringP(FlagOutput, "o", "", "output format: "+strings.Join(constants.Formats(), ", "))
	pf.BoolP(FlagQuiet, "q", false, "only print results and errors")
	pf.BoolP(FlagVerbose, "v", false, "debug logging")
	pf.Bool(FlagNoColor, false, "disable colored output")
	pf.String(FlagAsOf, "", "valuation date for vesting figures (YYYY-MM-DD, default today)")
}

// Parse reads the shared flags from the root of cmd's tree. Commands built
// without AddFlags get zero values.
func Parse(cmd *cobra.Command) Flags {
	pf := cmd.Root().PersistentFlags()
	var f Flags
	f.Output, _ = pf.GetString(FlagOutput)
	f.Quiet, _ = pf.GetBool(FlagQuiet)
	f.Verbose, _ = pf.GetBool(FlagVerbose)
	f.NoColor, _ = pf.GetBool(FlagNoColor)
	f.AsOf, _ = pf.GetString(FlagAsOf)
	return f
}
