package console

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sankshitpandoh/CapLedger/pkg/equity"
	"github.com/sankshitpandoh/CapLedger/pkg/errors"
)

func TestDefaultGrantForm(t *testing.T) {
	f := DefaultGrantForm("2024-06-01")
	assert.Equal(t, "ESOP Grant", f.GrantName)
	assert.Equal(t, "12", f.CliffMonths)
	assert.Equal(t, "48", f.VestingMonths)
	assert.Equal(t, "1", f.VestingFrequencyMonths)
	assert.Equal(t, "2024-06-01", f.GrantDate)
	assert.Equal(t, "2024-06-01", f.VestingStartDate)
	assert.Empty(t, f.TotalOptions)
}

func TestEmployeeFormPayload(t *testing.T) {
	f := EmployeeFormFromValues(url.Values{
		"employee_code": {"  E-7 "},
		"full_name":     {" Grace Hopper "},
		"email":         {" grace@acme.io"},
		"joining_date":  {"2024-01-02"},
	})
	p := f.Payload()
	assert.Equal(t, equity.EmployeeCreate{
		EmployeeCode: "E-7", FullName: "Grace Hopper", Email: "grace@acme.io",
		JoiningDate: "2024-01-02", Status: equity.StatusActive,
	}, p)
}

func TestGrantFormPayload(t *testing.T) {
	f := GrantFormFromValues(url.Values{
		"employee_id":              {"3"},
		"grant_name":               {" Series A "},
		"grant_date":               {"2024-01-01"},
		"vesting_start_date":       {"2024-02-01"},
		"total_options":            {"1200"},
		"strike_price_dollars":     {"12.345"},
		"cliff_months":             {"12"},
		"vesting_months":           {"48.0"},
		"vesting_frequency_months": {"1"},
		"notes":                    {"   "},
	})

	p, err := f.Payload()
	require.NoError(t, err)
	assert.EqualValues(t, 3, p.EmployeeID)
	assert.Equal(t, "Series A", p.GrantName)
	assert.EqualValues(t, 1200, p.TotalOptions)
	require.NotNil(t, p.StrikePriceCents)
	assert.EqualValues(t, 1235, *p.StrikePriceCents)
	assert.Equal(t, 48, p.VestingMonths)
	assert.Nil(t, p.Notes)
}

func TestGrantFormPayloadNulls(t *testing.T) {
	f := DefaultGrantForm("2024-01-01")
	f.EmployeeID = "1"
	f.TotalOptions = "10"
	f.Notes = " vest monthly "

	p, err := f.Payload()
	require.NoError(t, err)
	assert.Nil(t, p.StrikePriceCents)
	require.NotNil(t, p.Notes)
	assert.Equal(t, "vest monthly", *p.Notes)
}

func TestGrantFormPayloadRejectsNonNumbers(t *testing.T) {
	f := DefaultGrantForm("2024-01-01")
	f.EmployeeID = "1"
	f.TotalOptions = "ten"

	_, err := f.Payload()
	var ve *errors.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "total_options", ve.Field)

	f.TotalOptions = "10.5"
	_, err = f.Payload()
	assert.True(t, errors.IsValidationError(err))
}

func TestExerciseFormPayload(t *testing.T) {
	grantID, p, err := ExerciseFormFromValues(url.Values{
		"grant_id":                 {"10"},
		"exercise_date":            {"2024-06-01"},
		"options_exercised":        {"25"},
		"price_per_option_dollars": {""},
	}).Payload()
	require.NoError(t, err)
	assert.EqualValues(t, 10, grantID)
	assert.EqualValues(t, 25, p.OptionsExercised)
	assert.Nil(t, p.PricePerOptionCents)

	_, p, err = ExerciseForm{GrantID: "10", OptionsExercised: "1", PricePerOptionDollars: "1.5"}.Payload()
	require.NoError(t, err)
	require.NotNil(t, p.PricePerOptionCents)
	assert.EqualValues(t, 150, *p.PricePerOptionCents)
}
