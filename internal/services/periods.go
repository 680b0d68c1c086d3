package services

import (
	"time"

	"stashly/internal/models"
)

// monthWindow returns the inclusive time window covered by a YYYY-MM month
// key in the local timezone. A malformed key yields a zero window, which
// matches nothing.
func monthWindow(month string) (time.Time, time.Time) {
	start, err := time.ParseInLocation(models.MonthKey, month, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}
	}
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}

// startOfDay truncates t to local midnight.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// endOfDay returns the last instant of t's calendar day.
func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999999999, t.Location())
}

// daysBetween returns the whole calendar days from a to b, ignoring the
// time of day on either side.
func daysBetween(a, b time.Time) int {
	return int(startOfDay(b).Sub(startOfDay(a)).Hours() / 24)
}

// monthKeyAgo returns the YYYY-MM key of the month n months before now.
func monthKeyAgo(now time.Time, n int) string {
	// Anchor to the first of the month so month arithmetic never skips
	// short months (e.g. Mar 31 minus one month).
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return first.AddDate(0, -n, 0).Format(models.MonthKey)
}
