package console

import (
	"slices"
	"strings"

	"github.com/sankshitpandoh/CapLedger/pkg/equity"
)

// StatusAll disables the employee status filter.
const StatusAll = "all"

// Auth is the controller's copy of the signed-in identity.
type Auth struct {
	Authenticated bool
	Role          equity.Role
	FullName      string
	Email         string
	EmployeeID    *int64
}

// IsAdmin reports whether the session has full access.
func (a Auth) IsAdmin() bool {
	return a.Authenticated && a.Role.IsAdmin()
}

// FormMessage is the inline result of the last submission of a form.
type FormMessage struct {
	Text string
	OK   bool
}

// State is everything the console knows. It is only mutated by Controller.
type State struct {
	AsOf           string
	Screen         Screen
	Employees      []equity.Employee
	Grants         []equity.Grant
	Dashboard      *equity.DashboardSummary
	EmployeeSearch string
	EmployeeStatus string
	GrantSearch    string

	// SelectedGrantID is 0 or the id of a grant in Grants.
	SelectedGrantID int64
	ExerciseHistory []equity.Exercise

	Auth           Auth
	AllowedScreens []Screen

	EmployeeForm    EmployeeForm
	GrantForm       GrantForm
	ExerciseForm    ExerciseForm
	EmployeeMessage FormMessage
	GrantMessage    FormMessage
	ExerciseMessage FormMessage
}

// NewState returns the initial state for a console opened on today.
func NewState(today string) State {
	return State{
		AsOf:           today,
		Screen:         ScreenDashboard,
		EmployeeStatus: StatusAll,
		AllowedScreens: []Screen{ScreenDashboard},
		EmployeeForm:   DefaultEmployeeForm(today),
		GrantForm:      DefaultGrantForm(today),
		ExerciseForm:   DefaultExerciseForm(today),
	}
}

// clone returns a copy that shares no slices with s.
func (s State) clone() State {
	c := s
	c.Employees = slices.Clone(s.Employees)
	c.Grants = slices.Clone(s.Grants)
	c.ExerciseHistory = slices.Clone(s.ExerciseHistory)
	c.AllowedScreens = slices.Clone(s.AllowedScreens)
	if s.Dashboard != nil {
		d := *s.Dashboard
		d.GrantSummaries = slices.Clone(s.Dashboard.GrantSummaries)
		c.Dashboard = &d
	}
	return c
}

// EmployeeByID returns the cached employee with id.
func (s *State) EmployeeByID(id int64) (equity.Employee, bool) {
	for _, e := range s.Employees {
		if e.ID == id {
			return e, true
		}
	}
	return equity.Employee{}, false
}

// GrantByID returns the cached grant with id.
func (s *State) GrantByID(id int64) (equity.Grant, bool) {
	for _, g := range s.Grants {
		if g.ID == id {
			return g, true
		}
	}
	return equity.Grant{}, false
}

// ActiveEmployees returns employees eligible for new grants.
func (s *State) ActiveEmployees() []equity.Employee {
	var out []equity.Employee
	for _, e := range s.Employees {
		if e.Status == equity.StatusActive {
			out = append(out, e)
		}
	}
	return out
}

// FilteredEmployees applies the status filter and the free-text search over
// name, code and email, keeping cache order.
func (s *State) FilteredEmployees() []equity.Employee {
	search := strings.ToLower(strings.TrimSpace(s.EmployeeSearch))
	out := make([]equity.Employee, 0, len(s.Employees))
	for _, e := range s.Employees {
		if s.EmployeeStatus != "" && s.EmployeeStatus != StatusAll && string(e.Status) != s.EmployeeStatus {
			continue
		}
		if search != "" {
			haystack := strings.ToLower(e.FullName + " " + e.EmployeeCode + " " + e.Email)
			if !strings.Contains(haystack, search) {
				continue
			}
		}
		out = append(out, e)
	}
	return out
}

// GrantRow is a grant joined with its employee and vesting summary.
type GrantRow struct {
	equity.Grant        `yaml:",inline"`
	EmployeeName        string `json:"employee_name" yaml:"employee_name"`
	EmployeeCode        string `json:"employee_code" yaml:"employee_code"`
	VestedOptions       int64  `json:"vested_options" yaml:"vested_options"`
	AvailableToExercise int64  `json:"available_to_exercise" yaml:"available_to_exercise"`
}

// CombinedGrantRows joins every cached grant with its employee and summary,
// then applies the grant search over grant name, employee name and code.
// With a blank search the result has one row per grant.
func (s *State) CombinedGrantRows() []GrantRow {
	search := strings.ToLower(strings.TrimSpace(s.GrantSearch))
	rows := make([]GrantRow, 0, len(s.Grants))
	for _, g := range s.Grants {
		row := GrantRow{Grant: g, EmployeeName: "Unknown", EmployeeCode: "-"}
		if e, ok := s.EmployeeByID(g.EmployeeID); ok {
			row.EmployeeName = orDefault(e.FullName, "Unknown")
			row.EmployeeCode = orDefault(e.EmployeeCode, "-")
		}
		if sum, ok := s.Dashboard.SummaryFor(g.ID); ok {
			row.VestedOptions = sum.VestedOptions
			row.AvailableToExercise = sum.AvailableToExercise
		}
		if search != "" {
			haystack := strings.ToLower(row.GrantName + " " + row.EmployeeName + " " + row.EmployeeCode)
			if !strings.Contains(haystack, search) {
				continue
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// reconcileSelection keeps SelectedGrantID pointing at a cached grant,
// falling back to the first grant or 0.
func (s *State) reconcileSelection() {
	if _, ok := s.GrantByID(s.SelectedGrantID); ok {
		return
	}
	s.SelectedGrantID = 0
	if len(s.Grants) > 0 {
		s.SelectedGrantID = s.Grants[0].ID
	}
}

func (s *State) applyAuth(session equity.Session) {
	if !session.Authenticated || session.User == nil {
		s.Auth = Auth{}
		s.AllowedScreens = []Screen{ScreenDashboard}
		return
	}
	u := session.User
	s.Auth = Auth{
		Authenticated: true,
		Role:          u.Role,
		FullName:      u.FullName,
		Email:         u.Email,
		EmployeeID:    u.EmployeeID,
	}
	s.applyRole()
}

// applyRole recomputes the allowed screens and leaves a screen the role may
// no longer open.
func (s *State) applyRole() {
	s.AllowedScreens = AllowedScreens(s.Auth.Role)
	if !slices.Contains(s.AllowedScreens, s.Screen) {
		s.Screen = ScreenDashboard
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
