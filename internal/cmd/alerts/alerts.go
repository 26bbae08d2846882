// Package alerts prints the toasts produced by the console as one-line
// status notices.
package alerts

import (
	"fmt"
	"io"

	"github.com/sankshitpandoh/CapLedger/internal/cmd/emoji"
	"github.com/sankshitpandoh/CapLedger/internal/console"
	"github.com/sankshitpandoh/CapLedger/pkg/errors"
)

// Level represents the severity of an alert.
type Level int

const (
	// LevelError indicates a failed operation.
	LevelError Level = iota
	// LevelWarning indicates a condition the user must act on.
	LevelWarning
	// LevelInfo indicates general information.
	LevelInfo
	// LevelSuccess indicates a completed operation.
	LevelSuccess
)

// String returns the name of the level.
func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarning:
		return "warning"
	case LevelInfo:
		return "info"
	case LevelSuccess:
		return "success"
	default:
		return fmt.Sprintf("unknown(%d)", l)
	}
}

// Icon returns the symbol printed before the message.
func (l Level) Icon() string {
	switch l {
	case LevelError:
		return emoji.Error
	case LevelWarning:
		return emoji.Warning
	case LevelSuccess:
		return emoji.Success
	default:
		return emoji.Info
	}
}

// Color returns the ANSI color of the level.
func (l Level) Color() string {
	switch l {
	case LevelError:
		return "\033[31m"
	case LevelWarning:
		return "\033[33m"
	case LevelSuccess:
		return "\033[32m"
	default:
		return "\033[36m"
	}
}

const resetColor = "\033[0m"

// Alert is a single status notice.
type Alert struct {
	Level   Level
	Message string
	Err     error
}

// FromToast converts a console toast. Session expiry is raised to a warning
// so it stands out from ordinary failures.
func FromToast(t *console.Toast, err error) *Alert {
	if t == nil {
		return nil
	}
	a := &Alert{Level: LevelSuccess, Message: t.Message, Err: err}
	if t.Kind == console.ToastError {
		a.Level = LevelError
		if errors.IsSessionExpired(err) {
			a.Level = LevelWarning
		}
	}
	return a
}

// String renders the alert without color.
func (a *Alert) String() string {
	return a.Level.Icon() + " " + a.Message
}

// Writer prints alerts to an io.Writer.
type Writer struct {
	w     io.Writer
	color bool
}

// NewWriter returns a Writer. Color is only used when color is true.
func NewWriter(w io.Writer, color bool) *Writer {
	return &Writer{w: w, color: color}
}

// Write prints a. A nil alert prints nothing.
func (w *Writer) Write(a *Alert) error {
	if a == nil {
		return nil
	}
	line := a.String()
	if w.color {
		line = a.Level.Color() + line + resetColor
	}
	_, err := fmt.Fprintln(w.w, line)
	return err
}
