package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// TestLogger is a trace-level JSON logger writing into a buffer.
type TestLogger struct {
	Logger *zerolog.Logger
	Buffer *bytes.Buffer
}

// NewTestLogger returns a TestLogger and lowers the global level to trace
// until the test ends.
func NewTestLogger(t testing.TB) *TestLogger {
	t.Helper()
	prev := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	buf := &bytes.Buffer{}
	l := zerolog.New(buf).Level(zerolog.TraceLevel).With().Timestamp().Logger()
	return &TestLogger{Logger: &l, Buffer: buf}
}

// CaptureDefault points the default logger at a TestLogger for the
// duration of the test.
func CaptureDefault(t testing.TB) *TestLogger {
	t.Helper()
	prev := *Default()
	tl := NewTestLogger(t)
	SetDefault(*tl.Logger)
	t.Cleanup(func() { SetDefault(prev) })
	return tl
}

// Lines returns one entry per logged line.
func (tl *TestLogger) Lines() []string {
	out := strings.TrimSpace(tl.Buffer.String())
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

// AssertContains fails the test unless substr was logged.
func (tl *TestLogger) AssertContains(t testing.TB, substr string) {
	t.Helper()
	if !strings.Contains(tl.Buffer.String(), substr) {
		t.Errorf("log output does not contain %q\n%s", substr, tl.Buffer.String())
	}
}

// AssertNotContains fails the test if substr was logged.
func (tl *TestLogger) AssertNotContains(t testing.TB, substr string) {
	t.Helper()
	if strings.Contains(tl.Buffer.String(), substr) {
		t.Errorf("log output should not contain %q\n%s", substr, tl.Buffer.String())
	}
}
