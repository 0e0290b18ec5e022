// Package dates normalizes date inputs to canonical calendar-day keys.
//
// A day key is a YYYY-MM-DD string in the configured reference timezone. It
// is the join key for all completion lookups: both the write path (creating
// a completion row) and the read path (matching existing rows) derive keys
// here, so day-boundary comparisons never drift between local and UTC
// interpretations.
package dates

import (
	"fmt"
	"time"
)

// Layout is the canonical day-key format.
const Layout = "2006-01-02"

// DayKey converts a date-like string into a canonical day key. Accepted
// inputs: empty (today in loc), a bare YYYY-MM-DD, or a full RFC 3339
// datetime, which is truncated to its date portion so that two instants on
// the same calendar day normalize identically.
func DayKey(v string, loc *time.Location) (string, error) {
	if v == "" {
		return Today(loc), nil
	}
	if _, err := time.Parse(Layout, v); err == nil {
		return v, nil
	}
	if _, err := time.Parse(time.RFC3339, v); err == nil {
		return v[:len(Layout)], nil
	}
	return "", fmt.Errorf("dates: invalid date %q", v)
}

// Today returns the current day key in loc.
func Today(loc *time.Location) string {
	return time.Now().In(loc).Format(Layout)
}

// FromTime returns the day key of an instant interpreted in loc.
func FromTime(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(Layout)
}

// DayStartUTC returns the UTC start-of-day instant for a day key. This is
// the persisted form of a completion date.
func DayStartUTC(key string) (time.Time, error) {
	t, err := time.Parse(Layout, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("dates: invalid day key %q", key)
	}
	return t.UTC(), nil
}

// DayRange returns the half-open UTC interval [start, start+24h) covering a
// day key, for range queries over persisted timestamps.
func DayRange(key string) (start, end time.Time, err error) {
	start, err = DayStartUTC(key)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, start.Add(24 * time.Hour), nil
}

// Weekday returns the weekday index of a day key, Monday=0 through Sunday=6.
func Weekday(key string) (int, error) {
	t, err := time.Parse(Layout, key)
	if err != nil {
		return 0, fmt.Errorf("dates: invalid day key %q", key)
	}
	// time.Weekday is Sunday=0; shift to Monday=0.
	return (int(t.Weekday()) + 6) % 7, nil
}
