// Package constants holds the names the CLI accepts on the command line.
package constants

// Output formats for --output.
const (
	FormatTable = "table"
	FormatWide  = "wide" // adds secondary columns such as employee codes
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Formats lists the accepted output formats, default first.
func Formats() []string {
	return []string{FormatTable, FormatWide, FormatJSON, FormatYAML}
}
