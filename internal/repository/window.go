package repository

import "time"

// Window selects samples by timestamp. A zero bound is open.
type Window struct {
	From time.Time // inclusive
	To   time.Time // exclusive
}

// Day covers the calendar day containing date in loc.
func Day(date time.Time, loc *time.Location) Window {
	d := date.In(loc)
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	return Window{From: start, To: start.AddDate(0, 0, 1)}
}

// Month covers the calendar month in loc.
func Month(year int, month time.Month, loc *time.Location) Window {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return Window{From: start, To: start.AddDate(0, 1, 0)}
}

// Trailing covers the last days*24h up to and including now.
func Trailing(days int, now time.Time) Window {
	return Window{From: now.Add(-time.Duration(days) * 24 * time.Hour), To: now.Add(time.Nanosecond)}
}

// AllTime is unrestricted.
func AllTime() Window { return Window{} }
