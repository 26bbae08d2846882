package console

import (
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/sankshitpandoh/CapLedger/internal/format"
	"github.com/sankshitpandoh/CapLedger/pkg/equity"
)

// Empty-state texts.
const (
	EmptyMetrics         = "No metrics available yet."
	EmptyDashboardGrants = "No grants created yet."
	EmptyEmployees       = "No matching employees."
	EmptyGrants          = "No grants to display."
	EmptyExerciseGrant   = "No grants available."
	EmptyExerciseData    = "No data available."
	EmptyExercises       = "No exercises recorded for this grant."
)

// Cell is one table cell. Hint is secondary text shown under Text.
type Cell struct {
	Text string
	Hint string
}

// String joins Text and Hint for plain-text renderers.
func (c Cell) String() string {
	if c.Hint == "" {
		return c.Text
	}
	return c.Text + " (" + c.Hint + ")"
}

// Table is a rendered table. Empty is shown instead of rows when there are none.
type Table struct {
	Headers []string
	Rows    [][]Cell
	Empty   string
}

// Metric is one KPI tile.
type Metric struct {
	Label string
	Value string
}

// PoolGauge is the allocation bar shown to admins.
type PoolGauge struct {
	Percent float64
	Width   string
	Text    string
}

// SelectOption is one entry of a select input.
type SelectOption struct {
	Value    string
	Label    string
	Selected bool
}

// NavItem is one navigation entry.
type NavItem struct {
	Screen Screen
	Title  string
	Active bool
}

// View is an immutable projection of State for renderers.
type View struct {
	Authenticated     bool
	IsAdmin           bool
	Screen            Screen
	Title             string
	Subtitle          string
	Nav               []NavItem
	UserName          string
	UserMeta          string
	WorkspaceSubtitle string
	AsOf              string

	Metrics      []Metric
	MetricsEmpty string
	Pool         *PoolGauge

	DashboardGrants Table

	EmployeeSearch  string
	EmployeeStatus  string
	EmployeeCount   string
	Employees       Table
	EmployeeOptions []SelectOption

	GrantSearch string
	GrantCount  string
	Grants      Table
	GrantRows   []GrantRow

	SelectedGrantID int64
	GrantOptions    []SelectOption
	ExerciseSummary string
	Exercises       Table

	EmployeeForm    EmployeeForm
	GrantForm       GrantForm
	ExerciseForm    ExerciseForm
	EmployeeMessage FormMessage
	GrantMessage    FormMessage
	ExerciseMessage FormMessage
}

// View projects the current state.
func (c *Controller) View() View {
	c.mu.Lock()
	s := c.state.clone()
	c.mu.Unlock()
	return Project(&s)
}

// Project builds the View of s. It does not modify s.
func Project(s *State) View {
	meta := s.Screen.Meta()
	v := View{
		Authenticated:   s.Auth.Authenticated,
		IsAdmin:         s.Auth.IsAdmin(),
		Screen:          s.Screen,
		Title:           meta.Title,
		Subtitle:        meta.Subtitle,
		AsOf:            s.AsOf,
		EmployeeSearch:  s.EmployeeSearch,
		EmployeeStatus:  orDefault(s.EmployeeStatus, StatusAll),
		GrantSearch:     s.GrantSearch,
		SelectedGrantID: s.SelectedGrantID,
		EmployeeForm:    s.EmployeeForm,
		GrantForm:       s.GrantForm,
		ExerciseForm:    s.ExerciseForm,
		EmployeeMessage: s.EmployeeMessage,
		GrantMessage:    s.GrantMessage,
		ExerciseMessage: s.ExerciseMessage,
	}

	for _, screen := range s.AllowedScreens {
		v.Nav = append(v.Nav, NavItem{Screen: screen, Title: screen.Meta().Title, Active: screen == s.Screen})
	}
	v.UserName, v.UserMeta, v.WorkspaceSubtitle = shellText(s.Auth)
	v.Metrics, v.Pool = metrics(s)
	if v.Metrics == nil {
		v.MetricsEmpty = EmptyMetrics
	}
	v.DashboardGrants = dashboardGrants(s)
	v.Employees, v.EmployeeCount = employeesTable(s)
	v.EmployeeOptions = employeeOptions(s)
	v.GrantRows = s.CombinedGrantRows()
	v.Grants, v.GrantCount = grantsTable(v.GrantRows)
	v.GrantOptions = grantOptions(s)
	v.ExerciseSummary, v.Exercises = exerciseHistory(s)
	return v
}

func shellText(a Auth) (name, meta, subtitle string) {
	name = a.FullName
	if name == "" {
		name = a.Email
	}
	role := string(a.Role)
	if role == "" {
		role = string(equity.RoleEmployee)
	}
	meta = role + " | " + format.OrDash(a.Email)
	subtitle = "Your ESOP workspace"
	if a.IsAdmin() {
		subtitle = "Equity operations workspace"
	}
	return name, meta, subtitle
}

func metrics(s *State) ([]Metric, *PoolGauge) {
	d := s.Dashboard
	if d == nil {
		return nil, nil
	}

	type kv struct {
		label string
		value int64
	}
	var rows []kv
	if s.Auth.IsAdmin() {
		rows = []kv{
			{"Total Employees", d.TotalEmployees},
			{"Active Employees", d.ActiveEmployees},
			{"Total Grants", d.TotalGrants},
			{"Pool Allocated", d.PoolAllocated},
			{"Pool Remaining", d.PoolRemaining},
			{"Vested Options", d.VestedOptions},
			{"Unvested Options", d.UnvestedOptions},
			{"Exercised Options", d.ExercisedOptions},
		}
	} else {
		rows = []kv{
			{"My Grants", d.TotalGrants},
			{"Vested Options", d.VestedOptions},
			{"Unvested Options", d.UnvestedOptions},
			{"Exercised Options", d.ExercisedOptions},
		}
	}

	out := make([]Metric, 0, len(rows))
	for _, r := range rows {
		out = append(out, Metric{Label: r.label, Value: format.Int(r.value)})
	}

	if !s.Auth.IsAdmin() {
		return out, nil
	}
	return out, poolGauge(d)
}

func poolGauge(d *equity.DashboardSummary) *PoolGauge {
	var pct float64
	if d.PoolSize > 0 {
		pct = math.Min(float64(d.PoolAllocated)/float64(d.PoolSize)*100, 100)
	}
	return &PoolGauge{
		Percent: pct,
		Width:   strconv.FormatFloat(pct, 'f', 2, 64) + "%",
		Text: fmt.Sprintf("%s allocated out of %s (%s)",
			format.Int(d.PoolAllocated), format.Int(d.PoolSize), format.Percent(pct)),
	}
}

func dashboardGrants(s *State) Table {
	t := Table{
		Headers: []string{"Grant", "Employee", "Total", "Vested", "Exercised", "Available"},
		Empty:   EmptyDashboardGrants,
	}
	if s.Dashboard == nil {
		return t
	}
	for _, r := range s.Dashboard.GrantSummaries {
		t.Rows = append(t.Rows, []Cell{
			{Text: fmt.Sprintf("%s (#%d)", r.GrantName, r.GrantID)},
			{Text: r.EmployeeName},
			{Text: format.Int(r.TotalOptions)},
			{Text: format.Int(r.VestedOptions)},
			{Text: format.Int(r.ExercisedOptions)},
			{Text: format.Int(r.AvailableToExercise)},
		})
	}
	return t
}

func employeesTable(s *State) (Table, string) {
	rows := s.FilteredEmployees()
	t := Table{
		Headers: []string{"ID", "Code", "Name", "Email", "Status", "Joined"},
		Empty:   EmptyEmployees,
	}
	for _, e := range rows {
		t.Rows = append(t.Rows, []Cell{
			{Text: strconv.FormatInt(e.ID, 10)},
			{Text: e.EmployeeCode},
			{Text: e.FullName},
			{Text: e.Email},
			{Text: string(e.Status)},
			{Text: format.Date(e.JoiningDate)},
		})
	}
	return t, fmt.Sprintf("%d records", len(rows))
}

// employeeOptions lists active employees for the grant form. The first one
// is preselected when the form has no choice yet.
func employeeOptions(s *State) []SelectOption {
	active := s.ActiveEmployees()
	chosen := s.GrantForm.EmployeeID
	found := slices.ContainsFunc(active, func(e equity.Employee) bool {
		return strconv.FormatInt(e.ID, 10) == chosen
	})

	out := make([]SelectOption, 0, len(active))
	for i, e := range active {
		value := strconv.FormatInt(e.ID, 10)
		out = append(out, SelectOption{
			Value:    value,
			Label:    fmt.Sprintf("%s (%s)", e.FullName, e.EmployeeCode),
			Selected: value == chosen || (!found && i == 0),
		})
	}
	return out
}

func grantsTable(rows []GrantRow) (Table, string) {
	t := Table{
		Headers: []string{"Grant", "Employee", "Options", "Strike", "Schedule", "Vested", "Available"},
		Empty:   EmptyGrants,
	}
	for _, g := range rows {
		t.Rows = append(t.Rows, []Cell{
			{Text: fmt.Sprintf("%s (#%d)", g.GrantName, g.ID)},
			{Text: g.EmployeeName, Hint: g.EmployeeCode},
			{Text: format.Int(g.TotalOptions)},
			{Text: format.MoneyFromCents(g.StrikePriceCents)},
			{Text: fmt.Sprintf("%dm cliff / %dm total", g.CliffMonths, g.VestingMonths)},
			{Text: format.Int(g.VestedOptions)},
			{Text: format.Int(g.AvailableToExercise)},
		})
	}
	return t, fmt.Sprintf("%d grants", len(rows))
}

// grantOptions lists every cached grant for the two exercise selectors.
func grantOptions(s *State) []SelectOption {
	out := make([]SelectOption, 0, len(s.Grants))
	for _, g := range s.Grants {
		name := "Unknown"
		if e, ok := s.EmployeeByID(g.EmployeeID); ok && e.FullName != "" {
			name = e.FullName
		}
		out = append(out, SelectOption{
			Value:    strconv.FormatInt(g.ID, 10),
			Label:    g.GrantName + " - " + name,
			Selected: g.ID == s.SelectedGrantID,
		})
	}
	return out
}

func exerciseHistory(s *State) (string, Table) {
	t := Table{Headers: []string{"Date", "Options", "Price", "Total Cost"}}

	grant, ok := s.GrantByID(s.SelectedGrantID)
	if !ok {
		t.Empty = EmptyExerciseData
		return EmptyExerciseGrant, t
	}

	name := "Unknown"
	if e, ok := s.EmployeeByID(grant.EmployeeID); ok && e.FullName != "" {
		name = e.FullName
	}
	sum, _ := s.Dashboard.SummaryFor(grant.ID)
	summary := fmt.Sprintf("%s for %s | Vested %s | Available %s",
		grant.GrantName, name, format.Int(sum.VestedOptions), format.Int(sum.AvailableToExercise))

	t.Empty = EmptyExercises
	for _, e := range s.ExerciseHistory {
		t.Rows = append(t.Rows, []Cell{
			{Text: format.Date(e.ExerciseDate)},
			{Text: format.Int(e.OptionsExercised)},
			{Text: format.MoneyFromCents(e.PricePerOptionCents)},
			{Text: format.MoneyFromCents(e.TotalCostCents())},
		})
	}
	return summary, t
}
