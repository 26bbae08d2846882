// Package equity defines the records exchanged with the ESOP backend:
// employees, option grants, exercises, vesting summaries and the signed-in
// session. Dates travel as ISO strings ("2024-03-01") and are formatted only
// at render time.
package equity

import (
	"strings"

	"github.com/sankshitpandoh/CapLedger/pkg/errors"
)

// Role is the signed-in user's role.
type Role string

// Known roles.
const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

// IsAdmin reports whether r grants full console access.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// EmployeeStatus is an employee's lifecycle state.
type EmployeeStatus string

// Known employee statuses.
const (
	StatusActive   EmployeeStatus = "active"
	StatusInactive EmployeeStatus = "inactive"
)

// Valid reports whether s is a status the backend accepts.
func (s EmployeeStatus) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// AuthUser is the identity behind a session.
type AuthUser struct {
	ID         int64  `json:"id" yaml:"id"`
	Email      string `json:"email" yaml:"email"`
	FullName   string `json:"full_name" yaml:"full_name"`
	Role       Role   `json:"role" yaml:"role"`
	EmployeeID *int64 `json:"employee_id" yaml:"employee_id,omitempty"`
}

// Session is the response of the session endpoint.
type Session struct {
	Authenticated bool      `json:"authenticated" yaml:"authenticated"`
	User          *AuthUser `json:"user,omitempty" yaml:"user,omitempty"`
}

// Role returns the session's role, or "" when signed out.
func (s Session) Role() Role {
	if !s.Authenticated || s.User == nil {
		return ""
	}
	return s.User.Role
}

// Validate checks an authenticated session carries a user.
func (s Session) Validate() error {
	if s.Authenticated && s.User == nil {
		return errors.NewParseError("json", "session", "authenticated session without user", nil)
	}
	return nil
}

// Employee is a cap-table participant.
type Employee struct {
	ID           int64          `json:"id" yaml:"id"`
	EmployeeCode string         `json:"employee_code" yaml:"employee_code"`
	FullName     string         `json:"full_name" yaml:"full_name"`
	Email        string         `json:"email" yaml:"email"`
	Status       EmployeeStatus `json:"status" yaml:"status"`
	JoiningDate  string         `json:"joining_date" yaml:"joining_date"`
	CreatedAt    string         `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt    string         `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// Validate checks the fields every view relies on.
func (e Employee) Validate() error {
	switch {
	case e.ID <= 0:
		return errors.NewParseError("json", "employee", "missing id", nil)
	case strings.TrimSpace(e.FullName) == "":
		return errors.NewParseError("json", "employee", "missing full_name", nil)
	}
	return nil
}

// Grant is a stock option grant.
type Grant struct {
	ID                     int64   `json:"id" yaml:"id"`
	EmployeeID             int64   `json:"employee_id" yaml:"employee_id"`
	GrantName              string  `json:"grant_name" yaml:"grant_name"`
	GrantDate              string  `json:"grant_date" yaml:"grant_date"`
	VestingStartDate       string  `json:"vesting_start_date" yaml:"vesting_start_date"`
	TotalOptions           int64   `json:"total_options" yaml:"total_options"`
	StrikePriceCents       int64   `json:"strike_price_cents" yaml:"strike_price_cents"`
	CliffMonths            int     `json:"cliff_months" yaml:"cliff_months"`
	VestingMonths          int     `json:"vesting_months" yaml:"vesting_months"`
	VestingFrequencyMonths int     `json:"vesting_frequency_months" yaml:"vesting_frequency_months"`
	Notes                  *string `json:"notes,omitempty" yaml:"notes,omitempty"`
	CreatedAt              string  `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt              string  `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// Validate checks the fields every view relies on.
func (g Grant) Validate() error {
	switch {
	case g.ID <= 0:
		return errors.NewParseError("json", "grant", "missing id", nil)
	case g.EmployeeID <= 0:
		return errors.NewParseError("json", "grant", "missing employee_id", nil)
	case g.TotalOptions < 0:
		return errors.NewParseError("json", "grant", "negative total_options", nil)
	}
	return nil
}

// GrantSummary is the backend's vesting position for one grant.
type GrantSummary struct {
	GrantID             int64  `json:"grant_id" yaml:"grant_id"`
	EmployeeID          int64  `json:"employee_id" yaml:"employee_id"`
	EmployeeName        string `json:"employee_name" yaml:"employee_name"`
	GrantName           string `json:"grant_name" yaml:"grant_name"`
	AsOf                string `json:"as_of" yaml:"as_of"`
	TotalOptions        int64  `json:"total_options" yaml:"total_options"`
	VestedOptions       int64  `json:"vested_options" yaml:"vested_options"`
	UnvestedOptions     int64  `json:"unvested_options" yaml:"unvested_options"`
	ExercisedOptions    int64  `json:"exercised_options" yaml:"exercised_options"`
	AvailableToExercise int64  `json:"available_to_exercise" yaml:"available_to_exercise"`
	OutstandingOptions  int64  `json:"outstanding_options" yaml:"outstanding_options"`
}

// Validate checks the summary references a grant.
func (s GrantSummary) Validate() error {
	if s.GrantID <= 0 {
		return errors.NewParseError("json", "grant summary", "missing grant_id", nil)
	}
	return nil
}

// DashboardSummary aggregates the equity pool for an as-of date.
type DashboardSummary struct {
	AsOf             string         `json:"as_of" yaml:"as_of"`
	TotalEmployees   int64          `json:"total_employees" yaml:"total_employees"`
	ActiveEmployees  int64          `json:"active_employees" yaml:"active_employees"`
	TotalGrants      int64          `json:"total_grants" yaml:"total_grants"`
	PoolSize         int64          `json:"pool_size" yaml:"pool_size"`
	PoolAllocated    int64          `json:"pool_allocated" yaml:"pool_allocated"`
	PoolRemaining    int64          `json:"pool_remaining" yaml:"pool_remaining"`
	VestedOptions    int64          `json:"vested_options" yaml:"vested_options"`
	UnvestedOptions  int64          `json:"unvested_options" yaml:"unvested_options"`
	ExercisedOptions int64          `json:"exercised_options" yaml:"exercised_options"`
	GrantSummaries   []GrantSummary `json:"grant_summaries" yaml:"grant_summaries"`
}

// Validate checks each nested grant summary.
func (d DashboardSummary) Validate() error {
	for _, s := range d.GrantSummaries {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// SummaryFor returns the grant summary with the given id.
func (d *DashboardSummary) SummaryFor(grantID int64) (GrantSummary, bool) {
	if d == nil {
		return GrantSummary{}, false
	}
	for _, s := range d.GrantSummaries {
		if s.GrantID == grantID {
			return s, true
		}
	}
	return GrantSummary{}, false
}

// Exercise records options converted to shares.
type Exercise struct {
	ID                  int64  `json:"id" yaml:"id"`
	GrantID             int64  `json:"grant_id" yaml:"grant_id"`
	ExerciseDate        string `json:"exercise_date" yaml:"exercise_date"`
	OptionsExercised    int64  `json:"options_exercised" yaml:"options_exercised"`
	PricePerOptionCents int64  `json:"price_per_option_cents" yaml:"price_per_option_cents"`
	CreatedAt           string `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// TotalCostCents is price × options.
func (e Exercise) TotalCostCents() int64 {
	return e.PricePerOptionCents * e.OptionsExercised
}

// Validate checks the exercise is tied to a grant.
func (e Exercise) Validate() error {
	switch {
	case e.ID <= 0:
		return errors.NewParseError("json", "exercise", "missing id", nil)
	case e.OptionsExercised < 0:
		return errors.NewParseError("json", "exercise", "negative options_exercised", nil)
	}
	return nil
}
