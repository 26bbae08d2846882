package console

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sankshitpandoh/CapLedger/pkg/equity"
)

func TestViewAdminDashboard(t *testing.T) {
	c, _ := bootstrapped(t, adminSession())
	v := c.View()

	assert.True(t, v.IsAdmin)
	assert.Equal(t, "Dashboard", v.Title)
	assert.Equal(t, "Ops Admin", v.UserName)
	assert.Equal(t, "admin | ops@acme.io", v.UserMeta)
	assert.Equal(t, "Equity operations workspace", v.WorkspaceSubtitle)
	assert.Len(t, v.Nav, 4)
	assert.True(t, v.Nav[0].Active)

	require.Len(t, v.Metrics, 8)
	assert.Equal(t, Metric{Label: "Pool Allocated", Value: "1,050"}, v.Metrics[3])
	assert.Empty(t, v.MetricsEmpty)

	require.NotNil(t, v.Pool)
	assert.Equal(t, "26.25%", v.Pool.Width)
	assert.Equal(t, "1,050 allocated out of 4,000 (26.3%)", v.Pool.Text)

	require.Len(t, v.DashboardGrants.Rows, 1)
	assert.Equal(t, "Founders (#10)", v.DashboardGrants.Rows[0][0].Text)
	assert.Equal(t, "1,000", v.DashboardGrants.Rows[0][2].Text)
}

func TestViewEmployeeDashboard(t *testing.T) {
	c, _ := bootstrapped(t, employeeSession())
	v := c.View()

	assert.False(t, v.IsAdmin)
	assert.Equal(t, "Your ESOP workspace", v.WorkspaceSubtitle)
	assert.Equal(t, "employee | ada@acme.io", v.UserMeta)
	require.Len(t, v.Metrics, 4)
	assert.Equal(t, "My Grants", v.Metrics[0].Label)
	assert.Nil(t, v.Pool)
	assert.Len(t, v.Nav, 2)
}

func TestViewEmptyStates(t *testing.T) {
	s := NewState(testToday)
	v := Project(&s)

	assert.Nil(t, v.Metrics)
	assert.Equal(t, EmptyMetrics, v.MetricsEmpty)
	assert.Empty(t, v.DashboardGrants.Rows)
	assert.Equal(t, EmptyDashboardGrants, v.DashboardGrants.Empty)
	assert.Equal(t, "0 records", v.EmployeeCount)
	assert.Equal(t, "0 grants", v.GrantCount)
	assert.Equal(t, EmptyExerciseGrant, v.ExerciseSummary)
	assert.Equal(t, EmptyExerciseData, v.Exercises.Empty)
	assert.Equal(t, "employee | -", v.UserMeta)
}

func TestViewTables(t *testing.T) {
	c, _ := bootstrapped(t, adminSession())
	ctx := context.Background()
	c.Update(ctx, Navigate{Screen: "grants"})
	v := c.View()

	assert.Equal(t, ScreenGrants, v.Screen)
	assert.Equal(t, "2 records", v.EmployeeCount)
	assert.Equal(t, "2 grants", v.GrantCount)
	require.Len(t, v.Grants.Rows, 2)

	row := v.Grants.Rows[0]
	assert.Equal(t, "Founders (#10)", row[0].Text)
	assert.Equal(t, Cell{Text: "Ada Lovelace", Hint: "E-001"}, row[1])
	assert.Equal(t, "$1.50", row[3].Text)
	assert.Equal(t, "12m cliff / 48m total", row[4].Text)
	assert.Equal(t, "400", row[6].Text)
	assert.Equal(t, "Unknown (-)", v.Grants.Rows[1][1].String())

	require.Len(t, v.Employees.Rows, 2)
	assert.Equal(t, "02/01/2023", v.Employees.Rows[0][5].Text)

	require.Len(t, v.EmployeeOptions, 1, "only active employees can receive grants")
	assert.True(t, v.EmployeeOptions[0].Selected)
	assert.Equal(t, "Ada Lovelace (E-001)", v.EmployeeOptions[0].Label)
}

func TestViewExerciseHistory(t *testing.T) {
	c, _ := bootstrapped(t, adminSession())
	v := c.View()

	assert.Equal(t, "Founders for Ada Lovelace | Vested 500 | Available 400", v.ExerciseSummary)
	require.Len(t, v.Exercises.Rows, 1)
	assert.Equal(t, []Cell{{Text: "05/01/2024"}, {Text: "100"}, {Text: "$1.50"}, {Text: "$150.00"}}, v.Exercises.Rows[0])

	require.Len(t, v.GrantOptions, 2)
	assert.Equal(t, SelectOption{Value: "10", Label: "Founders - Ada Lovelace", Selected: true}, v.GrantOptions[0])
	assert.Equal(t, "Orphan - Unknown", v.GrantOptions[1].Label)

	c.Update(context.Background(), SelectExerciseGrant{GrantID: 11})
	v = c.View()
	assert.Equal(t, "Orphan for Unknown | Vested 0 | Available 0", v.ExerciseSummary)
	assert.Equal(t, EmptyExercises, v.Exercises.Empty)
}

func TestProjectDoesNotMutate(t *testing.T) {
	s := NewState(testToday)
	s.applyAuth(equity.Session{})
	before := s.clone()
	_ = Project(&s)
	assert.Equal(t, before, s)
}
