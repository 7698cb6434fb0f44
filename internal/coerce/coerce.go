// Package coerce converts the messy free text found in lottery tables into
// typed values. Every function is total: malformed or empty input is a
// "no value" result, never an error.
package coerce

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	moneyPattern = regexp.MustCompile(`\$?\s*([\d,]+(?:\.\d{1,2})?)`)
	oddsPattern  = regexp.MustCompile(`(?i)1\s*in\s*([\d.]+)`)
	intPattern   = regexp.MustCompile(`\d+`)
	spacePattern = regexp.MustCompile(`\s+`)
)

// Money parses a currency string like "$1,234.50" into a float.
// Descriptions containing "ticket" or "free" denote a free-replacement-ticket
// prize and parse as 0; the EV calculation substitutes the ticket price later.
func Money(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	lower := strings.ToLower(s)
	if strings.Contains(lower, "ticket") || strings.Contains(lower, "free") {
		return 0, true
	}
	m := moneyPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Odds extracts N from a "1 in N" odds string.
func Odds(s string) (float64, bool) {
	m := oddsPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Int extracts the first run of digits in s.
func Int(s string) (int, bool) {
	m := intPattern.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Whitespace collapses whitespace runs to single spaces and trims the ends.
func Whitespace(s string) string {
	return strings.TrimSpace(spacePattern.ReplaceAllString(s, " "))
}
