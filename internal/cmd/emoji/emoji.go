// Package emoji provides symbol constants for CLI output.
package emoji

// Status symbols shared by alerts and command output.
const (
	// Success marks a completed operation.
	Success = "✓"

	// Error marks a failed operation or a rejected request.
	Error = "✗"

	// Stop marks a shutdown.
	Stop = "✗"

	// Warning marks a notice that needs attention, such as an expired session.
	Warning = "!"

	// Info marks neutral status lines.
	Info = "i"

	// Rocket marks a server coming up.
	Rocket = "🚀"
)
