package appcontext

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/sankshitpandoh/CapLedger/internal/api"
	"github.com/sankshitpandoh/CapLedger/internal/console"
)

// Mock provides a mock implementation of Interface for testing.
// If a function field is nil, the method returns a default/zero value.
type Mock struct {
	APIFunc          func() (*api.Client, error)
	ConsoleFunc      func(ctx context.Context) (*console.Controller, error)
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	TodayFunc        func() string
	VersionFunc      func() string
}

// API returns a client using the mock function or nil.
func (m *Mock) API() (*api.Client, error) {
	if m.APIFunc != nil {
		return m.APIFunc()
	}
	return nil, nil
}

// Console returns a controller using the mock function or nil.
func (m *Mock) Console(ctx context.Context) (*console.Controller, error) {
	if m.ConsoleFunc != nil {
		return m.ConsoleFunc(ctx)
	}
	return nil, nil
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns the format using the mock function or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// UseColor always returns false so output is stable in tests.
func (m *Mock) UseColor() bool {
	return false
}

// Today returns the date using the mock function or a fixed day.
func (m *Mock) Today() string {
	if m.TodayFunc != nil {
		return m.TodayFunc()
	}
	return "2024-06-01"
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns "unknown".
func (m *Mock) Commit() string {
	return "unknown"
}

// Date returns "unknown".
func (m *Mock) Date() string {
	return "unknown"
}

// BuiltBy returns "test".
func (m *Mock) BuiltBy() string {
	return "test"
}

var _ Interface = (*Mock)(nil)
