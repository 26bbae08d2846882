// Package output writes command results as tables, JSON or YAML.
package output

import (
	"os"
	"slices"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/sankshitpandoh/CapLedger/internal/cmd/constants"
	"github.com/sankshitpandoh/CapLedger/pkg/errors"
)

// Format is a value of --output.
type Format string

// Supported formats.
const (
	FormatTable Format = constants.FormatTable
	FormatWide  Format = constants.FormatWide
	FormatJSON  Format = constants.FormatJSON
	FormatYAML  Format = constants.FormatYAML
)

// ParseFormat checks s against the --output formats. Empty means detect.
func ParseFormat(s string) (Format, error) {
	format := strings.ToLower(s)
	if format == "" || slices.Contains(constants.Formats(), format) {
		return Format(format), nil
	}
	return "", errors.NewValidationError("output", s, "must be one of "+strings.Join(constants.Formats(), ", "))
}

// DetectFormat returns the explicit format, or table on a terminal and JSON
// when stdout is piped.
func DetectFormat(explicit string) Format {
	if explicit != "" {
		return Format(strings.ToLower(explicit))
	}
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return FormatTable
	}
	return FormatJSON
}

// IsTable reports whether f renders rows rather than records.
func (f Format) IsTable() bool {
	return f == FormatTable || f == FormatWide || f == ""
}
