package alerts

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sankshitpandoh/CapLedger/internal/console"
	"github.com/sankshitpandoh/CapLedger/pkg/errors"
)

func TestFromToast(t *testing.T) {
	assert.Nil(t, FromToast(nil, nil))

	ok := FromToast(&console.Toast{Message: "Grant created", Kind: console.ToastSuccess}, nil)
	assert.Equal(t, LevelSuccess, ok.Level)
	assert.Equal(t, "✓ Grant created", ok.String())

	failed := errors.NewRequestFailedError("/api/grants", 400, "Grant exceeds remaining pool")
	bad := FromToast(&console.Toast{Message: failed.Error(), Kind: console.ToastError}, failed)
	assert.Equal(t, LevelError, bad.Level)

	expired := errors.NewSessionExpiredError("/api/auth/me")
	warn := FromToast(&console.Toast{Message: expired.Error(), Kind: console.ToastError}, expired)
	assert.Equal(t, LevelWarning, warn.Level)
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, false)

	require.NoError(t, w.Write(&Alert{Level: LevelError, Message: "Request failed (500)"}))
	require.NoError(t, w.Write(nil))
	assert.Equal(t, "✗ Request failed (500)\n", buf.String())

	buf.Reset()
	require.NoError(t, NewWriter(&buf, true).Write(&Alert{Level: LevelSuccess, Message: "Logged out"}))
	assert.Equal(t, "\033[32m✓ Logged out\033[0m\n", buf.String())
}

func TestLevelString(t *testing.T) {
	if got := LevelWarning.String(); got != "warning" {
		t.Errorf("LevelWarning.String() = %q, want warning", got)
	}
	if got := Level(9).String(); got != "unknown(9)" {
		t.Errorf("Level(9).String() = %q", got)
	}
}
