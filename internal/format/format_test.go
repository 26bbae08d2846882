package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInt(t *testing.T) {
	assert.Equal(t, "0", Int(0))
	assert.Equal(t, "999", Int(999))
	assert.Equal(t, "1,234,567", Int(1234567))
	assert.Equal(t, "-12,000", Int(-12000))
}

func TestDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "-"},
		{"2024-03-01", "03/01/2024"},
		{"2024-03-01T00:00:00Z", "03/01/2024"},
		{"2024-12-31T23:59:59-08:00", "12/31/2024"},
		{"not a date", "-"},
		{"2024-3-1", "-"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Date(tt.in))
		})
	}
}

func TestDateFallbackLayouts(t *testing.T) {
	assert.Equal(t, "3/1/2024", Date("March 1, 2024"))
	assert.Equal(t, "3/1/2024", Date("03/01/2024"))
}

func TestMoneyFromCents(t *testing.T) {
	assert.Equal(t, "$0.00", MoneyFromCents(0))
	assert.Equal(t, "$0.05", MoneyFromCents(5))
	assert.Equal(t, "$1.50", MoneyFromCents(150))
	assert.Equal(t, "$1,234,567.89", MoneyFromCents(123456789))
	assert.Equal(t, "$-1.50", MoneyFromCents(-150))
}

func TestDollarsToCents(t *testing.T) {
	tests := []struct {
		in     string
		want   int64
		wantOK bool
	}{
		{"", 0, false},
		{"abc", 0, false},
		{"Infinity", 0, false},
		{"12.345", 1235, true},
		{"1.5", 150, true},
		{"0", 0, true},
		{"  2.50", 250, true},
		{"3.99usd", 399, true},
		{".5", 50, true},
		{"7.", 700, true},
		{"1e2", 10000, true},
		{"-1.25", -125, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := DollarsToCents(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestEscapeHTML(t *testing.T) {
	assert.Equal(t, "&lt;b&gt;Tom &amp; &quot;Jerry&quot; &#039;s&lt;/b&gt;", EscapeHTML(`<b>Tom & "Jerry" 's</b>`))
	assert.Equal(t, "plain", EscapeHTML("plain"))
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "42.5%", Percent(42.5))
	assert.Equal(t, "100.0%", Percent(100))
	assert.Equal(t, "26.3%", Percent(26.25))
	assert.Equal(t, "-", OrDash("   "))
	assert.Equal(t, "x", OrDash("x"))
	assert.Len(t, Today(), 10)
}
