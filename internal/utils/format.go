package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// SanitizeVNNumber converts a Vietnamese or international formatted number
// into a decimal.
//
// Vietnamese pages use '.' for thousands and ',' for decimals
// (80.000.000 / 1.234,56); international ones the other way around
// (2,029.81). The heuristic mirrors what the dashboard's scrape targets
// actually emit.
func SanitizeVNNumber(text string) (decimal.Decimal, bool) {
	var b strings.Builder
	for _, r := range strings.TrimSpace(text) {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return decimal.Decimal{}, false
	}

	dots := strings.Count(cleaned, ".")
	commas := strings.Count(cleaned, ",")

	switch {
	case commas == 0 && dots >= 2:
		// Vietnamese thousands: 80.000.000
		cleaned = strings.ReplaceAll(cleaned, ".", "")
	case commas >= 1 && dots == 1:
		if strings.LastIndex(cleaned, ",") < strings.LastIndex(cleaned, ".") {
			// International: 2,029.81
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		} else {
			// Mixed separators in Vietnamese order is ambiguous enough
			// that guessing is worse than reporting unparseable.
			return decimal.Decimal{}, false
		}
	case commas == 1 && dots == 0:
		// Decimal comma: 1234,56
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	case commas >= 2:
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	case commas == 1 && dots >= 2:
		// Full Vietnamese format: 25.500.000,50
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}
