// Package format renders backend values for display: grouped integers,
// calendar dates, dollar amounts and HTML-escaped text. It also parses the
// dollar inputs typed into forms back into integer cents.
package format

import (
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Placeholder is shown for missing or unparseable values.
const Placeholder = "-"

var printer = message.NewPrinter(language.English)

// Int renders n with thousands separators ("1,234,567").
func Int(n int64) string {
	return printer.Sprintf("%d", n)
}

// Percent renders p with one decimal place ("42.5%"). Halves round up.
func Percent(p float64) string {
	return strconv.FormatFloat(math.Round(p*10)/10, 'f', 1, 64) + "%"
}

// fallbackLayouts are tried when a date does not start with YYYY-MM-DD.
var fallbackLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC850,
	time.ANSIC,
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"01/02/2006",
	"1/2/2006",
	"2006/01/02",
}

// Date renders an ISO date as MM/DD/YYYY using the literal components, so no
// time zone can shift the day. Other recognizable timestamps render as M/D/YYYY
// in local time. Empty or unrecognizable input renders as "-".
func Date(value string) string {
	if value == "" {
		return Placeholder
	}
	if hasISODatePrefix(value) {
		return value[5:7] + "/" + value[8:10] + "/" + value[0:4]
	}
	trimmed := strings.TrimSpace(value)
	for _, layout := range fallbackLayouts {
		if t, err := time.ParseInLocation(layout, trimmed, time.Local); err == nil {
			return t.In(time.Local).Format("1/2/2006")
		}
	}
	return Placeholder
}

func hasISODatePrefix(s string) bool {
	if len(s) < 10 {
		return false
	}
	for i := 0; i < 10; i++ {
		c := s[i]
		switch i {
		case 4, 7:
			if c != '-' {
				return false
			}
		default:
			if c < '0' || c > '9' {
				return false
			}
		}
	}
	return true
}

// MoneyFromCents renders cents as dollars with two decimals and grouping.
// Negative amounts keep the sign after the currency symbol ("$-1.50").
func MoneyFromCents(cents int64) string {
	sign := ""
	abs := cents
	if cents < 0 {
		sign = "-"
		abs = -cents
	}
	frac := abs % 100
	b := strings.Builder{}
	b.WriteString("$")
	b.WriteString(sign)
	b.WriteString(Int(abs / 100))
	b.WriteByte('.')
	if frac < 10 {
		b.WriteByte('0')
	}
	b.WriteString(strconv.FormatInt(frac, 10))
	return b.String()
}

// DollarsToCents converts a typed dollar amount into cents. It returns false
// for empty input and for input with no leading number, which callers send
// to the backend as null. Parsing accepts a numeric prefix ("12.5abc" is
// 12.5) and rounds half up: "12.345" is 1235.
func DollarsToCents(raw string) (int64, bool) {
	if raw == "" {
		return 0, false
	}
	v, ok := parseFloatPrefix(raw)
	if !ok {
		return 0, false
	}
	cents := math.Floor(v*100 + 0.5)
	if math.IsInf(cents, 0) || math.IsNaN(cents) || math.Abs(cents) > 1<<53 {
		return 0, false
	}
	return int64(cents), true
}

// parseFloatPrefix reads the longest leading decimal literal of s after
// leading whitespace.
func parseFloatPrefix(s string) (float64, bool) {
	s = strings.TrimLeft(s, " \t\n\r\f\v")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	if strings.HasPrefix(s[end:], "Infinity") {
		return 0, false
	}
	digits := 0
	for end < len(s) && isDigit(s[end]) {
		end++
		digits++
	}
	if end < len(s) && s[end] == '.' {
		end++
		for end < len(s) && isDigit(s[end]) {
			end++
			digits++
		}
	}
	if digits == 0 {
		return 0, false
	}
	if end < len(s) && (s[end] == 'e' || s[end] == 'E') {
		exp := end + 1
		if exp < len(s) && (s[exp] == '+' || s[exp] == '-') {
			exp++
		}
		if exp < len(s) && isDigit(s[exp]) {
			for exp < len(s) && isDigit(s[exp]) {
				exp++
			}
			end = exp
		}
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s[:end], "."), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

var htmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EscapeHTML escapes the five HTML-significant characters.
func EscapeHTML(s string) string {
	return htmlReplacer.Replace(s)
}

// Today returns the local calendar date as YYYY-MM-DD.
func Today() string {
	return time.Now().Format(time.DateOnly)
}

// OrDash returns s, or "-" when s is blank.
func OrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return Placeholder
	}
	return s
}
