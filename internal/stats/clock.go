// Package stats turns match results, box-score rows and substitution logs
// into standings and per-player season aggregates. Every function here is
// pure: inputs are never mutated and no I/O is performed.
package stats

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"basket-stats-mcp/internal/model"
)

// Period lengths in seconds. The game clock counts down from these.
const (
	FullPeriodSeconds = 600
	MiniPeriodSeconds = 360
)

// PeriodSeconds returns the period length for a category.
func PeriodSeconds(mini bool) float64 {
	if mini {
		return MiniPeriodSeconds
	}
	return FullPeriodSeconds
}

var (
	leadingInt   = regexp.MustCompile(`^[+-]?\d+`)
	leadingFloat = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
)

// ClockSeconds converts a clock reading to seconds. Numbers and numeric
// strings are minutes; "M:SS" is minutes and seconds. Anything unreadable
// is 0.
func ClockSeconds(c model.Clock) float64 {
	if c.Number != nil {
		return finite(*c.Number * 60)
	}
	s := strings.TrimSpace(c.Text)
	if s == "" {
		return 0
	}
	if strings.Contains(s, ":") {
		parts := strings.Split(s, ":")
		return float64(parseLeadingInt(parts[0])*60 + parseLeadingInt(parts[1]))
	}
	return finite(parseLeadingFloat(s) * 60)
}

func parseLeadingInt(s string) int {
	m := leadingInt.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}

func parseLeadingFloat(s string) float64 {
	m := leadingFloat.FindString(s)
	if m == "" {
		return 0
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return f
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
