package equity

import (
	"strings"

	"github.com/sankshitpandoh/CapLedger/internal/utils/ptr"
	"github.com/sankshitpandoh/CapLedger/pkg/errors"
)

// ValidEmail is the backend's email check: an "@" that is neither the first
// nor the last character, in at least five characters.
func ValidEmail(s string) bool {
	at := strings.Index(s, "@")
	return len(s) >= 5 && at > 0 && !strings.HasSuffix(s, "@")
}

// EmployeeCreate is the body of POST /api/employees.
type EmployeeCreate struct {
	EmployeeCode string         `json:"employee_code"`
	FullName     string         `json:"full_name"`
	Email        string         `json:"email"`
	JoiningDate  string         `json:"joining_date"`
	Status       EmployeeStatus `json:"status"`
}

// Validate rejects payloads the backend would refuse.
func (p EmployeeCreate) Validate() error {
	if len(strings.TrimSpace(p.EmployeeCode)) < 2 {
		return errors.NewValidationError("employee_code", p.EmployeeCode, "must be at least 2 characters")
	}
	if len(strings.TrimSpace(p.FullName)) < 2 {
		return errors.NewValidationError("full_name", p.FullName, "must be at least 2 characters")
	}
	if !ValidEmail(p.Email) {
		return errors.NewValidationError("email", p.Email, "invalid email format")
	}
	if p.JoiningDate == "" {
		return errors.NewValidationError("joining_date", p.JoiningDate, "is required")
	}
	if !p.Status.Valid() {
		return errors.NewValidationError("status", p.Status, "must be active or inactive")
	}
	return nil
}

// EmployeeUpdate is the body of PATCH /api/employees/{id}. Nil fields are
// left unchanged.
type EmployeeUpdate struct {
	EmployeeCode *string         `json:"employee_code,omitempty"`
	FullName     *string         `json:"full_name,omitempty"`
	Email        *string         `json:"email,omitempty"`
	JoiningDate  *string         `json:"joining_date,omitempty"`
	Status       *EmployeeStatus `json:"status,omitempty"`
}

// Empty reports whether u changes nothing.
func (u EmployeeUpdate) Empty() bool {
	return u.EmployeeCode == nil && u.FullName == nil && u.Email == nil && u.JoiningDate == nil && u.Status == nil
}

// Validate applies the create rules to the fields that are set.
func (u EmployeeUpdate) Validate() error {
	if u.Empty() {
		return errors.NewValidationError("", nil, "nothing to update")
	}
	if u.EmployeeCode != nil && len(strings.TrimSpace(*u.EmployeeCode)) < 2 {
		return errors.NewValidationError("employee_code", *u.EmployeeCode, "must be at least 2 characters")
	}
	if u.FullName != nil && len(strings.TrimSpace(*u.FullName)) < 2 {
		return errors.NewValidationError("full_name", *u.FullName, "must be at least 2 characters")
	}
	if u.Email != nil && !ValidEmail(*u.Email) {
		return errors.NewValidationError("email", *u.Email, "invalid email format")
	}
	if u.JoiningDate != nil && *u.JoiningDate == "" {
		return errors.NewValidationError("joining_date", "", "must not be blank")
	}
	if u.Status != nil && !u.Status.Valid() {
		return errors.NewValidationError("status", *u.Status, "must be active or inactive")
	}
	return nil
}

// GrantCreate is the body of POST /api/grants.
type GrantCreate struct {
	EmployeeID             int64   `json:"employee_id"`
	GrantName              string  `json:"grant_name"`
	GrantDate              string  `json:"grant_date"`
	VestingStartDate       string  `json:"vesting_start_date"`
	TotalOptions           int64   `json:"total_options"`
	StrikePriceCents       *int64  `json:"strike_price_cents"`
	CliffMonths            int     `json:"cliff_months"`
	VestingMonths          int     `json:"vesting_months"`
	VestingFrequencyMonths int     `json:"vesting_frequency_months"`
	Notes                  *string `json:"notes"`
}

// Validate rejects payloads the backend would refuse.
func (p GrantCreate) Validate() error {
	if p.EmployeeID <= 0 {
		return errors.NewValidationError("employee_id", p.EmployeeID, "select an employee")
	}
	if len(strings.TrimSpace(p.GrantName)) < 2 {
		return errors.NewValidationError("grant_name", p.GrantName, "must be at least 2 characters")
	}
	if p.TotalOptions <= 0 {
		return errors.NewValidationError("total_options", p.TotalOptions, "must be greater than 0")
	}
	if p.StrikePriceCents == nil || *p.StrikePriceCents < 0 {
		return errors.NewValidationError("strike_price", p.StrikePriceCents, "must be a non-negative amount")
	}
	if p.VestingFrequencyMonths < 1 {
		return errors.NewValidationError("vesting_frequency_months", p.VestingFrequencyMonths, "must be at least 1")
	}
	if p.VestingMonths <= 0 {
		return errors.NewValidationError("vesting_months", p.VestingMonths, "must be greater than 0")
	}
	if p.CliffMonths < 0 || p.CliffMonths > p.VestingMonths {
		return errors.NewValidationError("cliff_months", p.CliffMonths, "cliff_months cannot exceed vesting_months")
	}
	return nil
}

// GrantUpdate is the body of PATCH /api/grants/{id}. Nil fields are left
// unchanged.
type GrantUpdate struct {
	GrantName              *string `json:"grant_name,omitempty"`
	GrantDate              *string `json:"grant_date,omitempty"`
	VestingStartDate       *string `json:"vesting_start_date,omitempty"`
	TotalOptions           *int64  `json:"total_options,omitempty"`
	StrikePriceCents       *int64  `json:"strike_price_cents,omitempty"`
	CliffMonths            *int    `json:"cliff_months,omitempty"`
	VestingMonths          *int    `json:"vesting_months,omitempty"`
	VestingFrequencyMonths *int    `json:"vesting_frequency_months,omitempty"`
	Notes                  *string `json:"notes,omitempty"`
}

// Empty reports whether u changes nothing.
func (u GrantUpdate) Empty() bool {
	return u.GrantName == nil && u.GrantDate == nil && u.VestingStartDate == nil &&
		u.TotalOptions == nil && u.StrikePriceCents == nil && u.CliffMonths == nil &&
		u.VestingMonths == nil && u.VestingFrequencyMonths == nil && u.Notes == nil
}

// Validate applies the create rules to the fields that are set. The cliff
// is only checked against the vesting period when both are set; Apply
// covers the merged schedule.
func (u GrantUpdate) Validate() error {
	if u.Empty() {
		return errors.NewValidationError("", nil, "nothing to update")
	}
	if u.GrantName != nil {
		if n := len(strings.TrimSpace(*u.GrantName)); n < 2 || n > 120 {
			return errors.NewValidationError("grant_name", *u.GrantName, "must be 2 to 120 characters")
		}
	}
	if u.GrantDate != nil && *u.GrantDate == "" {
		return errors.NewValidationError("grant_date", "", "must not be blank")
	}
	if u.VestingStartDate != nil && *u.VestingStartDate == "" {
		return errors.NewValidationError("vesting_start_date", "", "must not be blank")
	}
	if u.TotalOptions != nil && *u.TotalOptions <= 0 {
		return errors.NewValidationError("total_options", *u.TotalOptions, "must be greater than 0")
	}
	if u.StrikePriceCents != nil && *u.StrikePriceCents < 0 {
		return errors.NewValidationError("strike_price", *u.StrikePriceCents, "must be a non-negative amount")
	}
	if u.VestingFrequencyMonths != nil && (*u.VestingFrequencyMonths < 1 || *u.VestingFrequencyMonths > 12) {
		return errors.NewValidationError("vesting_frequency_months", *u.VestingFrequencyMonths, "must be 1 to 12")
	}
	if u.VestingMonths != nil && (*u.VestingMonths < 1 || *u.VestingMonths > 240) {
		return errors.NewValidationError("vesting_months", *u.VestingMonths, "must be 1 to 240")
	}
	if u.CliffMonths != nil && (*u.CliffMonths < 0 || *u.CliffMonths > 120) {
		return errors.NewValidationError("cliff_months", *u.CliffMonths, "must be 0 to 120")
	}
	if u.CliffMonths != nil && u.VestingMonths != nil && *u.CliffMonths > *u.VestingMonths {
		return errors.NewValidationError("cliff_months", *u.CliffMonths, "cliff_months cannot exceed vesting_months")
	}
	if u.Notes != nil && len(*u.Notes) > 2000 {
		return errors.NewValidationError("notes", len(*u.Notes), "must be at most 2000 characters")
	}
	return nil
}

// Apply returns g with the set fields of u merged in, and checks the merged
// vesting schedule: the cliff fits inside the vesting period and both are
// whole multiples of the frequency.
func (u GrantUpdate) Apply(g Grant) (Grant, error) {
	g.GrantName = ptr.Or(u.GrantName, g.GrantName)
	g.GrantDate = ptr.Or(u.GrantDate, g.GrantDate)
	g.VestingStartDate = ptr.Or(u.VestingStartDate, g.VestingStartDate)
	g.TotalOptions = ptr.Or(u.TotalOptions, g.TotalOptions)
	g.StrikePriceCents = ptr.Or(u.StrikePriceCents, g.StrikePriceCents)
	g.CliffMonths = ptr.Or(u.CliffMonths, g.CliffMonths)
	g.VestingMonths = ptr.Or(u.VestingMonths, g.VestingMonths)
	g.VestingFrequencyMonths = ptr.Or(u.VestingFrequencyMonths, g.VestingFrequencyMonths)
	if u.Notes != nil {
		g.Notes = u.Notes
	}

	freq := max(g.VestingFrequencyMonths, 1)
	switch {
	case g.CliffMonths > g.VestingMonths:
		return g, errors.NewValidationError("cliff_months", g.CliffMonths, "cliff_months cannot exceed vesting_months")
	case g.VestingMonths%freq != 0:
		return g, errors.NewValidationError("vesting_months", g.VestingMonths, "vesting_months must be divisible by vesting_frequency_months")
	case g.CliffMonths%freq != 0:
		return g, errors.NewValidationError("cliff_months", g.CliffMonths, "cliff_months must be divisible by vesting_frequency_months")
	}
	return g, nil
}

// ExerciseCreate is the body of POST /api/grants/{id}/exercises. A nil price
// lets the backend default to the grant's strike price.
type ExerciseCreate struct {
	ExerciseDate        string `json:"exercise_date"`
	OptionsExercised    int64  `json:"options_exercised"`
	PricePerOptionCents *int64 `json:"price_per_option_cents"`
}

// Validate rejects payloads the backend would refuse.
func (p ExerciseCreate) Validate() error {
	if p.ExerciseDate == "" {
		return errors.NewValidationError("exercise_date", p.ExerciseDate, "is required")
	}
	if p.OptionsExercised <= 0 {
		return errors.NewValidationError("options_exercised", p.OptionsExercised, "must be greater than 0")
	}
	if p.PricePerOptionCents != nil && *p.PricePerOptionCents < 0 {
		return errors.NewValidationError("price_per_option", *p.PricePerOptionCents, "must be a non-negative amount")
	}
	return nil
}
