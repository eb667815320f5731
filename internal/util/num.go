package util

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	reNumber   = regexp.MustCompile(`-?\d+(?:\.\d+)?`)
	oneHundred = decimal.NewFromInt(100)
)

// ParseDecimal extracts the first signed decimal number found in text,
// tolerating currency symbols, thousands separators and surrounding noise.
// A text with no number is a valid zero, never an error.
func ParseDecimal(text string) decimal.Decimal {
	s := strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	m := reNumber.FindString(s)
	if m == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(m)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParsePercentNear finds a percentage following the given label inside a
// free-text tax block, e.g. "IVA 16.000000 %" with label "IVA" yields 0.16.
// The second return reports whether the label was found at all; an absent
// rate is distinct from an explicit zero.
func ParsePercentNear(text, label string) (decimal.Decimal, bool) {
	if strings.TrimSpace(text) == "" || strings.TrimSpace(label) == "" {
		return decimal.Zero, false
	}
	t := strings.ReplaceAll(strings.ToUpper(text), ",", ".")
	re := regexp.MustCompile(regexp.QuoteMeta(NormalizeType(label)) + `[^\d]*(\d+(?:\.\d+)?)\s*%`)
	m := re.FindStringSubmatch(t)
	if m == nil {
		return decimal.Zero, false
	}
	v, err := decimal.NewFromString(m[1])
	if err != nil {
		return decimal.Zero, false
	}
	return v.Div(oneHundred), true
}

// LabelPercent renders a tax rate for the output rows. Absent and zero rates
// both read "No Aplicable"; integral rates print without decimals,
// fractional ones with one decimal digit.
func LabelPercent(rate decimal.Decimal, found bool) string {
	if !found || rate.IsZero() {
		return "No Aplicable"
	}
	pct := rate.Mul(oneHundred)
	if pct.IsInteger() {
		return "Aplicable " + pct.Truncate(0).String() + "%"
	}
	return "Aplicable " + pct.StringFixed(1) + "%"
}
