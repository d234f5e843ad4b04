package auth

import (
	"math"
	"regexp"
	"strconv"
	"time"
)

// DefaultLifetimeMillis is returned by ParseDuration for any literal it
// does not understand.
const DefaultLifetimeMillis int64 = 3_600_000

var durationLiteral = regexp.MustCompile(`^(\d+)([smhd])$`)

var unitMillis = map[string]int64{
	"s": 1_000,
	"m": 60_000,
	"h": 3_600_000,
	"d": 86_400_000,
}

// ParseDuration converts a compact lifetime literal such as "30m", "1h"
// or "2d" into milliseconds. Literals that do not match `<digits><s|m|h|d>`
// resolve to DefaultLifetimeMillis, they are never rejected.
func ParseDuration(literal string) int64 {
	match := durationLiteral.FindStringSubmatch(literal)
	if match == nil {
		return DefaultLifetimeMillis
	}

	unit := unitMillis[match[2]]

	n, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil || n > math.MaxInt64/unit {
		// does not fit in int64 milliseconds
		return DefaultLifetimeMillis
	}

	return n * unit
}

// LifetimeDuration is ParseDuration expressed as a time.Duration.
func LifetimeDuration(literal string) time.Duration {
	return time.Duration(ParseDuration(literal)) * time.Millisecond
}

// IsWithinLifetime reports whether t is newer than now minus the lifetime
// encoded by literal.
func IsWithinLifetime(t time.Time, literal string, now time.Time) bool {
	threshold := now.Add(-LifetimeDuration(literal))
	return t.After(threshold)
}
