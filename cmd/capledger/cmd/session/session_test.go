package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sankshitpandoh/CapLedger/cmd/capledger/cmd/session"
	"github.com/sankshitpandoh/CapLedger/internal/api/apitest"
	"github.com/sankshitpandoh/CapLedger/internal/cmd/cmdtest"
	"github.com/sankshitpandoh/CapLedger/pkg/errors"
)

func TestWhoami(t *testing.T) {
	env := cmdtest.New(t, apitest.EmployeeToken)

	out, _, err := cmdtest.Run(t, session.NewWhoamiCommand(env.App))
	require.NoError(t, err)
	assert.Contains(t, out, "Ada Lovelace")
	assert.Contains(t, out, "employee")
	assert.Contains(t, out, "ada@acme.io")
}

func TestWhoamiJSON(t *testing.T) {
	env := cmdtest.New(t, apitest.AdminToken)
	env.Format = "json"

	out, _, err := cmdtest.Run(t, session.NewWhoamiCommand(env.App))
	require.NoError(t, err)
	assert.Contains(t, out, `"authenticated": true`)
	assert.Contains(t, out, `"role": "admin"`)
}

func TestWhoamiSignedOut(t *testing.T) {
	env := cmdtest.New(t, "nobody")

	_, _, err := cmdtest.Run(t, session.NewWhoamiCommand(env.App))
	require.Error(t, err)
	assert.True(t, errors.IsSessionExpired(err))
}

func TestLogout(t *testing.T) {
	env := cmdtest.New(t, apitest.AdminToken)

	_, stderr, err := cmdtest.Run(t, session.NewLogoutCommand(env.App))
	require.NoError(t, err)
	assert.Contains(t, stderr, "Logged out")
	assert.Contains(t, env.Backend.Requests(), "POST /api/auth/logout")

	_, _, err = cmdtest.Run(t, session.NewWhoamiCommand(env.App))
	assert.True(t, errors.IsSessionExpired(err))
}

func TestLogoutQuiet(t *testing.T) {
	env := cmdtest.New(t, apitest.AdminToken)

	_, stderr, err := cmdtest.Run(t, session.NewLogoutCommand(env.App), "--quiet")
	require.NoError(t, err)
	assert.Empty(t, stderr)
}
