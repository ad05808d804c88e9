package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatCents renders a cents amount as a decimal string, e.g. 300 -> "3.00".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// ParseAmount converts a user-supplied decimal string ("3", "3.5", "3.50")
// into cents. Returns false for malformed input or more than two decimals.
func ParseAmount(s string) (int64, bool) {
	intPart, fracPart, hasFrac := strings.Cut(s, ".")
	whole, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, false
	}
	if !hasFrac {
		return whole * 100, true
	}
	if len(fracPart) == 0 || len(fracPart) > 2 {
		return 0, false
	}
	frac, err := strconv.ParseInt(fracPart, 10, 64)
	if err != nil || frac < 0 {
		return 0, false
	}
	if len(fracPart) == 1 {
		frac *= 10
	}
	if whole < 0 || strings.HasPrefix(intPart, "-") {
		return whole*100 - frac, true
	}
	return whole*100 + frac, true
}
