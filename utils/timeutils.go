package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SecondsPerDay is the length of a regular service day.
const SecondsPerDay = 24 * 60 * 60

// ErrBadClock is returned for time-of-day strings that are not H:MM[:SS].
var ErrBadClock = errors.New("malformed time of day")

// Iso8601Now returns the current time in ISO8601 format
func Iso8601Now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// Iso8601FromUnixSeconds converts Unix timestamp to ISO8601 format
func Iso8601FromUnixSeconds(sec int64) string {
	return time.Unix(sec, 0).UTC().Format(time.RFC3339)
}

// FloorDiv divides a by b rounding toward negative infinity.
// Go's integer division truncates toward zero, which would report a bus that
// left 30 seconds ago as arriving in 0 minutes.
func FloorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// SecondsOfDay returns the seconds elapsed since midnight of t in t's location.
func SecondsOfDay(t time.Time) int {
	h, m, s := t.Clock()
	return h*3600 + m*60 + s
}

// ParseClock converts a GTFS time field (H:MM:SS, hours may exceed 23) to
// seconds past midnight. The value is not wrapped.
func ParseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrBadClock, s)
	}
	return clockSeconds(s, parts)
}

// ParseHHMM accepts H:MM or H:MM:SS, as typed by a person on the command line
// or in a query string.
func ParseHHMM(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) == 2 {
		parts = append(parts, "0")
	}
	if len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrBadClock, s)
	}
	return clockSeconds(s, parts)
}

func clockSeconds(raw string, parts []string) (int, error) {
	var v [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("%w: %q", ErrBadClock, raw)
		}
		v[i] = n
	}
	if v[1] > 59 || v[2] > 59 {
		return 0, fmt.Errorf("%w: %q", ErrBadClock, raw)
	}
	return v[0]*3600 + v[1]*60 + v[2], nil
}

// FormatClock renders seconds past midnight as HH:MM:SS without wrapping,
// so 25:10:00 stays 25:10:00.
func FormatClock(sec int) string {
	return fmt.Sprintf("%02d:%02d:%02d", sec/3600, (sec%3600)/60, sec%60)
}
