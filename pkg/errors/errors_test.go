package errors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	pkgerrors "github.com/sankshitpandoh/CapLedger/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionExpiredError(t *testing.T) {
	err := pkgerrors.NewSessionExpiredError("/api/employees")
	assert.Equal(t, "Session expired. Please sign in again.", err.Error())
	assert.True(t, pkgerrors.IsSessionExpired(err))
	assert.False(t, pkgerrors.IsRequestFailed(err))
	assert.Equal(t, http.StatusUnauthorized, pkgerrors.StatusCode(err))

	wrapped := fmt.Errorf("refresh: %w", err)
	assert.True(t, pkgerrors.IsSessionExpired(wrapped))
}

func TestRequestFailedError(t *testing.T) {
	t.Run("detail wins", func(t *testing.T) {
		err := pkgerrors.NewRequestFailedError("/api/grants", 400, "Grant exceeds pool")
		assert.Equal(t, "Grant exceeds pool", err.Error())
		assert.True(t, pkgerrors.IsRequestFailed(err))
		assert.True(t, pkgerrors.IsValidationError(err))
	})

	t.Run("generic message without detail", func(t *testing.T) {
		err := pkgerrors.NewRequestFailedError("/api/grants", 500, "  ")
		assert.Equal(t, "Request failed (500)", err.Error())
		assert.False(t, pkgerrors.IsNotFound(err))
		assert.Equal(t, 500, pkgerrors.StatusCode(err))
	})

	t.Run("status mapping", func(t *testing.T) {
		assert.True(t, pkgerrors.IsNotFound(pkgerrors.NewRequestFailedError("", 404, "")))
		assert.True(t, pkgerrors.IsForbidden(pkgerrors.NewRequestFailedError("", 403, "")))
		assert.True(t, pkgerrors.IsValidationError(pkgerrors.NewRequestFailedError("", 422, "")))
	})
}

func TestNetworkError(t *testing.T) {
	base := errors.New("dial tcp 127.0.0.1:1: connect: connection refused")
	err := pkgerrors.NewNetworkError("GET", "http://127.0.0.1:1/api/auth/me", base)

	assert.Equal(t, base.Error(), err.Error())
	assert.True(t, pkgerrors.IsNetwork(err))
	assert.True(t, errors.Is(err, base))
	assert.Equal(t, 0, pkgerrors.StatusCode(err))

	var ne *pkgerrors.NetworkError
	require.True(t, errors.As(fmt.Errorf("wrap: %w", err), &ne))
	assert.Equal(t, "GET", ne.Method)
}

func TestNotFoundError(t *testing.T) {
	err := pkgerrors.NewNotFoundError("grant", "42")
	assert.Equal(t, "grant with ID 42 not found", err.Error())
	assert.True(t, pkgerrors.IsNotFound(errors.Join(errors.New("failed"), err)))
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := pkgerrors.NewValidationError("total_options", "abc", "must be a whole number")
		assert.Equal(t, "validation failed for field total_options: must be a whole number", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{Message: "empty form"}
		assert.Equal(t, "validation failed: empty form", err.Error())
	})
}

func TestAccessError(t *testing.T) {
	err := pkgerrors.NewAccessError("employee", "grants screen")
	assert.Equal(t, "grants screen is not available for role employee", err.Error())
	assert.True(t, pkgerrors.IsForbidden(err))

	anon := pkgerrors.NewAccessError("", "employee create")
	assert.Contains(t, anon.Error(), "anonymous")
}

func TestConfigAndParseErrors(t *testing.T) {
	base := errors.New("boom")

	cfg := pkgerrors.NewConfigError("api_url", "must be set", base)
	assert.Equal(t, "configuration error in api_url: must be set", cfg.Error())
	assert.True(t, errors.Is(cfg, base))

	p := pkgerrors.NewParseError("json", "employee", "missing id", nil)
	assert.Equal(t, "json parse error in employee: missing id", p.Error())
	assert.Nil(t, p.Unwrap())
}

func TestWrapHelpers(t *testing.T) {
	assert.Nil(t, pkgerrors.WrapValidation("x", nil))
	assert.Nil(t, pkgerrors.WrapParse("json", "x", nil))
	assert.Nil(t, pkgerrors.WrapNetwork("GET", "u", nil))

	base := errors.New("bad")
	assert.True(t, pkgerrors.IsValidationError(pkgerrors.WrapValidation("field", base)))
	assert.True(t, errors.Is(pkgerrors.WrapParse("json", "grant", base), base))
	assert.True(t, pkgerrors.IsNetwork(pkgerrors.WrapNetwork("GET", "u", base)))
}
