package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

const rupeeGlyph = "₹"

// FormatRupee renders v with two decimals and Indian digit grouping,
// e.g. 1234567.5 -> "₹12,34,567.50".
func FormatRupee(v decimal.Decimal) string {
	s := v.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	if v.IsNegative() && !v.Round(2).IsZero() {
		b.WriteByte('-')
	}
	b.WriteString(rupeeGlyph)
	b.WriteString(groupIndian(intPart))
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

// groupIndian groups the last three digits, then pairs: 1234567 -> 12,34,567.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	return strings.Join(append(parts, tail), ",")
}
