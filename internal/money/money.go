// Package money converts between the decimal-string amounts stored on
// records ("42.50") and integer cents used for arithmetic. Aggregation is
// always done in cents so repeated summing cannot drift the way float math
// would.
package money

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalid reports a malformed amount string.
var ErrInvalid = errors.New("invalid amount")

// Parse converts a decimal string into cents. Accepted forms are "12",
// "12.5" and "12.50"; at most two fraction digits, no sign, no grouping.
func Parse(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalid
	}
	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if whole == "" || len(frac) > 2 {
		return 0, ErrInvalid
	}
	var cents int64
	for _, r := range whole {
		if r < '0' || r > '9' {
			return 0, ErrInvalid
		}
		cents = cents*10 + int64(r-'0')
		if cents > 1<<52 { // well past decimal(10,2) range
			return 0, ErrInvalid
		}
	}
	cents *= 100
	mult := int64(10)
	for _, r := range frac {
		if r < '0' || r > '9' {
			return 0, ErrInvalid
		}
		cents += int64(r-'0') * mult
		mult /= 10
	}
	return cents, nil
}

// Format renders cents as a decimal string with exactly two fraction
// digits. Negative values keep their sign, e.g. -150 -> "-1.50".
func Format(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// Normalize validates s and rewrites it with exactly two fraction digits,
// the canonical stored representation.
func Normalize(s string) (string, error) {
	cents, err := Parse(s)
	if err != nil {
		return "", err
	}
	return Format(cents), nil
}
