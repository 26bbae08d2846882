package console

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/sankshitpandoh/CapLedger/internal/format"
	"github.com/sankshitpandoh/CapLedger/internal/utils/ptr"
	"github.com/sankshitpandoh/CapLedger/pkg/equity"
	"github.com/sankshitpandoh/CapLedger/pkg/errors"
)

// Grant form defaults.
const (
	DefaultGrantName              = "ESOP Grant"
	DefaultCliffMonths            = "12"
	DefaultVestingMonths          = "48"
	DefaultVestingFrequencyMonths = "1"
)

// EmployeeForm holds the raw field values of the employee form.
type EmployeeForm struct {
	EmployeeCode string
	FullName     string
	Email        string
	JoiningDate  string
}

// DefaultEmployeeForm returns a blank employee form dated today.
func DefaultEmployeeForm(today string) EmployeeForm {
	return EmployeeForm{JoiningDate: today}
}

// EmployeeFormFromValues reads a submitted employee form.
func EmployeeFormFromValues(v url.Values) EmployeeForm {
	return EmployeeForm{
		EmployeeCode: v.Get("employee_code"),
		FullName:     v.Get("full_name"),
		Email:        v.Get("email"),
		JoiningDate:  v.Get("joining_date"),
	}
}

// Payload converts the form into a create request. New employees are
// always active.
func (f EmployeeForm) Payload() equity.EmployeeCreate {
	return equity.EmployeeCreate{
		EmployeeCode: strings.TrimSpace(f.EmployeeCode),
		FullName:     strings.TrimSpace(f.FullName),
		Email:        strings.TrimSpace(f.Email),
		JoiningDate:  f.JoiningDate,
		Status:       equity.StatusActive,
	}
}

// GrantForm holds the raw field values of the grant form.
type GrantForm struct {
	EmployeeID             string
	GrantName              string
	GrantDate              string
	VestingStartDate       string
	TotalOptions           string
	StrikePriceDollars     string
	CliffMonths            string
	VestingMonths          string
	VestingFrequencyMonths string
	Notes                  string
}

// DefaultGrantForm returns the grant form as it looks after a reset.
func DefaultGrantForm(today string) GrantForm {
	return GrantForm{
		GrantName:              DefaultGrantName,
		GrantDate:              today,
		VestingStartDate:       today,
		CliffMonths:            DefaultCliffMonths,
		VestingMonths:          DefaultVestingMonths,
		VestingFrequencyMonths: DefaultVestingFrequencyMonths,
	}
}

// GrantFormFromValues reads a submitted grant form.
func GrantFormFromValues(v url.Values) GrantForm {
	return GrantForm{
		EmployeeID:             v.Get("employee_id"),
		GrantName:              v.Get("grant_name"),
		GrantDate:              v.Get("grant_date"),
		VestingStartDate:       v.Get("vesting_start_date"),
		TotalOptions:           v.Get("total_options"),
		StrikePriceDollars:     v.Get("strike_price_dollars"),
		CliffMonths:            v.Get("cliff_months"),
		VestingMonths:          v.Get("vesting_months"),
		VestingFrequencyMonths: v.Get("vesting_frequency_months"),
		Notes:                  v.Get("notes"),
	}
}

// Payload coerces the form into a create request. A blank or non-numeric
// strike price becomes null; blank notes become null.
func (f GrantForm) Payload() (equity.GrantCreate, error) {
	var (
		p   equity.GrantCreate
		err error
	)
	if p.EmployeeID, err = parseWhole("employee_id", f.EmployeeID); err != nil {
		return p, err
	}
	if p.TotalOptions, err = parseWhole("total_options", f.TotalOptions); err != nil {
		return p, err
	}
	cliff, err := parseWhole("cliff_months", f.CliffMonths)
	if err != nil {
		return p, err
	}
	vesting, err := parseWhole("vesting_months", f.VestingMonths)
	if err != nil {
		return p, err
	}
	freq, err := parseWhole("vesting_frequency_months", f.VestingFrequencyMonths)
	if err != nil {
		return p, err
	}

	p.GrantName = strings.TrimSpace(f.GrantName)
	p.GrantDate = f.GrantDate
	p.VestingStartDate = f.VestingStartDate
	p.CliffMonths = int(cliff)
	p.VestingMonths = int(vesting)
	p.VestingFrequencyMonths = int(freq)
	if cents, ok := format.DollarsToCents(f.StrikePriceDollars); ok {
		p.StrikePriceCents = ptr.To(cents)
	}
	p.Notes = ptr.NonZero(strings.TrimSpace(f.Notes))
	return p, nil
}

// ExerciseForm holds the raw field values of the exercise form.
type ExerciseForm struct {
	GrantID               string
	ExerciseDate          string
	OptionsExercised      string
	PricePerOptionDollars string
}

// DefaultExerciseForm returns a blank exercise form dated today.
func DefaultExerciseForm(today string) ExerciseForm {
	return ExerciseForm{ExerciseDate: today}
}

// ExerciseFormFromValues reads a submitted exercise form.
func ExerciseFormFromValues(v url.Values) ExerciseForm {
	return ExerciseForm{
		GrantID:               v.Get("grant_id"),
		ExerciseDate:          v.Get("exercise_date"),
		OptionsExercised:      v.Get("options_exercised"),
		PricePerOptionDollars: v.Get("price_per_option_dollars"),
	}
}

// Payload coerces the form into the target grant id and a record request.
// A blank price becomes null so the backend applies the strike price.
func (f ExerciseForm) Payload() (int64, equity.ExerciseCreate, error) {
	var p equity.ExerciseCreate
	grantID, err := parseWhole("grant_id", f.GrantID)
	if err != nil {
		return 0, p, err
	}
	if p.OptionsExercised, err = parseWhole("options_exercised", f.OptionsExercised); err != nil {
		return 0, p, err
	}
	p.ExerciseDate = f.ExerciseDate
	if cents, ok := format.DollarsToCents(f.PricePerOptionDollars); ok {
		p.PricePerOptionCents = ptr.To(cents)
	}
	return grantID, p, nil
}

// parseWhole reads an integer field. Blank reads as 0 and integral decimals
// such as "12.0" are accepted.
func parseWhole(field, raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, errors.NewValidationError(field, raw, "must be a whole number")
	}
	return int64(f), nil
}
