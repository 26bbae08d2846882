package grants_test

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sankshitpandoh/CapLedger/cmd/capledger/cmd/grants"
	"github.com/sankshitpandoh/CapLedger/internal/api/apitest"
	"github.com/sankshitpandoh/CapLedger/internal/cmd/cmdtest"
	"github.com/sankshitpandoh/CapLedger/pkg/equity"
	"github.com/sankshitpandoh/CapLedger/pkg/errors"
)

func TestList(t *testing.T) {
	env := cmdtest.New(t, apitest.AdminToken)

	out, _, err := cmdtest.Run(t, grants.NewCommand(env.App), "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Grants (1 grants)")
	assert.Contains(t, out, "Founders (#10)")
	assert.Contains(t, out, "$1.50")
	assert.Contains(t, out, "12m cliff / 48m total")
	assert.NotContains(t, out, "E-001")
}

func TestListWide(t *testing.T) {
	env := cmdtest.New(t, apitest.AdminToken)
	env.Format = "wide"

	out, _, err := cmdtest.Run(t, grants.NewCommand(env.App), "list")
	require.NoError(t, err)
	assert.Contains(t, out, "E-001")
}

func TestListSearch(t *testing.T) {
	env := cmdtest.New(t, apitest.AdminToken)

	out, _, err := cmdtest.Run(t, grants.NewCommand(env.App), "list", "--search", "nothing")
	require.NoError(t, err)
	assert.Contains(t, out, "Grants (0 grants)")
	assert.Contains(t, out, "No grants to display.")
}

func TestListJSON(t *testing.T) {
	env := cmdtest.New(t, apitest.AdminToken)
	env.Format = "json"

	out, _, err := cmdtest.Run(t, grants.NewCommand(env.App), "list")
	require.NoError(t, err)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "Founders", rows[0]["grant_name"])
	assert.Equal(t, "Ada Lovelace", rows[0]["employee_name"])
	assert.EqualValues(t, 400, rows[0]["available_to_exercise"])
}

func TestListRequiresAdmin(t *testing.T) {
	env := cmdtest.New(t, apitest.EmployeeToken)

	_, _, err := cmdtest.Run(t, grants.NewCommand(env.App), "list")
	assert.True(t, errors.IsForbidden(err))
}

func TestCreate(t *testing.T) {
	env := cmdtest.New(t, apitest.AdminToken)

	_, stderr, err := cmdtest.Run(t, grants.NewCommand(env.App),
		"create", "--employee", "1", "--options", "250", "--strike", "0.125", "--notes", "  ")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Grant created")

	out, _, err := cmdtest.Run(t, grants.NewCommand(env.App), "list", "--search", "esop")
	require.NoError(t, err)
	assert.Contains(t, out, "ESOP Grant")
	assert.Contains(t, out, "$0.13")
}

func TestCreateErrors(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, err error)
	}{
		{
			name: "non numeric options",
			args: []string{"create", "--employee", "1", "--options", "lots", "--strike", "1"},
			check: func(t *testing.T, err error) {
				assert.True(t, errors.IsValidationError(err))
				assert.Contains(t, err.Error(), "total_options")
			},
		},
		{
			name: "pool exhausted",
			args: []string{"create", "--employee", "1", "--options", "100000", "--strike", "1"},
			check: func(t *testing.T, err error) {
				assert.Equal(t, "Grant exceeds remaining pool", err.Error())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := cmdtest.New(t, apitest.AdminToken)
			_, _, err := cmdtest.Run(t, grants.NewCommand(env.App), tt.args...)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestUpdate(t *testing.T) {
	env := cmdtest.New(t, apitest.AdminToken)

	_, stderr, err := cmdtest.Run(t, grants.NewCommand(env.App),
		"update", "10", "--options", "1200", "--strike", "2", "--notes", " Amended ")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Grant updated: Founders (#10), 1,200 options")
	assert.Contains(t, env.Backend.Requests(), "PATCH /api/grants/10")

	got := env.Backend.Grants()
	require.Len(t, got, 1)
	assert.EqualValues(t, 1200, got[0].TotalOptions)
	assert.EqualValues(t, 200, got[0].StrikePriceCents)
	assert.Equal(t, 12, got[0].CliffMonths)
	assert.Equal(t, "Amended", *got[0].Notes)
}

func TestUpdateErrors(t *testing.T) {
	tests := []struct {
		name  string
		token string
		args  []string
		check func(t *testing.T, err error)
	}{
		{
			name:  "nothing to change",
			token: apitest.AdminToken,
			args:  []string{"update", "10"},
			check: func(t *testing.T, err error) {
				assert.True(t, errors.IsValidationError(err))
			},
		},
		{
			name:  "bad id",
			token: apitest.AdminToken,
			args:  []string{"update", "ten", "--options", "5"},
			check: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "grant_id")
			},
		},
		{
			name:  "non numeric cliff",
			token: apitest.AdminToken,
			args:  []string{"update", "10", "--cliff", "soon"},
			check: func(t *testing.T, err error) {
				assert.True(t, errors.IsValidationError(err))
				assert.Contains(t, err.Error(), "cliff_months")
			},
		},
		{
			name:  "cliff past vesting",
			token: apitest.AdminToken,
			args:  []string{"update", "10", "--cliff", "60", "--vesting", "48"},
			check: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "cliff_months cannot exceed vesting_months")
			},
		},
		{
			name:  "below exercised",
			token: apitest.AdminToken,
			args:  []string{"update", "10", "--options", "50"},
			check: func(t *testing.T, err error) {
				assert.Equal(t, "total_options cannot be lower than exercised options", err.Error())
			},
		},
		{
			name:  "pool exhausted",
			token: apitest.AdminToken,
			args:  []string{"update", "10", "--options", "200000"},
			check: func(t *testing.T, err error) {
				assert.Equal(t, "Updated grant exceeds available ESOP pool", err.Error())
			},
		},
		{
			name:  "unknown grant",
			token: apitest.AdminToken,
			args:  []string{"update", "77", "--options", "5"},
			check: func(t *testing.T, err error) {
				assert.True(t, errors.IsNotFound(err))
			},
		},
		{
			name:  "employee session",
			token: apitest.EmployeeToken,
			args:  []string{"update", "10", "--options", "5"},
			check: func(t *testing.T, err error) {
				assert.True(t, errors.IsForbidden(err))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := cmdtest.New(t, tt.token)
			_, _, err := cmdtest.Run(t, grants.NewCommand(env.App), tt.args...)
			require.Error(t, err)
			tt.check(t, err)
			assert.EqualValues(t, 1000, env.Backend.Grants()[0].TotalOptions)
		})
	}
}

func TestSummary(t *testing.T) {
	env := cmdtest.New(t, apitest.EmployeeToken)

	out, _, err := cmdtest.Run(t, grants.NewCommand(env.App), "summary", "10", "--as-of", "2025-01-01")
	require.NoError(t, err)
	assert.Contains(t, out, "Founders (#10)")
	assert.Contains(t, out, "01/01/2025")
	assert.Contains(t, out, "Available to Exercise")
	assert.Contains(t, env.Backend.Requests(), "GET /api/grants/10/summary?as_of=2025-01-01")
}

func TestSummaryJSONDefaultsToToday(t *testing.T) {
	env := cmdtest.New(t, apitest.AdminToken)
	env.Format = "json"

	out, _, err := cmdtest.Run(t, grants.NewCommand(env.App), "summary", "10")
	require.NoError(t, err)

	var got equity.GrantSummary
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, cmdtest.Today, got.AsOf)
	assert.EqualValues(t, 900, got.OutstandingOptions)
}

func TestSummaryNotFound(t *testing.T) {
	env := cmdtest.New(t, apitest.AdminToken)

	_, _, err := cmdtest.Run(t, grants.NewCommand(env.App), "summary", "77")
	assert.True(t, errors.IsNotFound(err))
}
