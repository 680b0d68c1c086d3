package services

import (
	"testing"
	"time"
)

func TestMonthWindow(t *testing.T) {
	start, end := monthWindow("2025-06")

	if start.Year() != 2025 || start.Month() != time.June || start.Day() != 1 {
		t.Errorf("expected window to start at June 1, got %v", start)
	}
	if end.Month() != time.June || end.Day() != 30 {
		t.Errorf("expected window to end on June 30, got %v", end)
	}

	inWindow := time.Date(2025, 6, 30, 23, 0, 0, 0, time.Local)
	if inWindow.Before(start) || inWindow.After(end) {
		t.Error("expected late June 30 to fall inside the window")
	}
	outside := time.Date(2025, 7, 1, 0, 0, 0, 0, time.Local)
	if !outside.After(end) {
		t.Error("expected July 1 to fall outside the window")
	}

	start, end = monthWindow("not-a-month")
	if !start.IsZero() || !end.IsZero() {
		t.Error("expected a zero window for a malformed key")
	}
}

func TestDaysBetween(t *testing.T) {
	cases := []struct {
		name string
		a, b time.Time
		want int
	}{
		{
			name: "same_day_different_times",
			a:    time.Date(2025, 6, 15, 1, 0, 0, 0, time.UTC),
			b:    time.Date(2025, 6, 15, 23, 0, 0, 0, time.UTC),
			want: 0,
		},
		{
			name: "adjacent_days",
			a:    time.Date(2025, 6, 15, 23, 0, 0, 0, time.UTC),
			b:    time.Date(2025, 6, 16, 1, 0, 0, 0, time.UTC),
			want: 1,
		},
		{
			name: "across_month_boundary",
			a:    time.Date(2025, 6, 28, 0, 0, 0, 0, time.UTC),
			b:    time.Date(2025, 7, 3, 0, 0, 0, 0, time.UTC),
			want: 5,
		},
		{
			name: "reversed_is_negative",
			a:    time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC),
			b:    time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
			want: -1,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := daysBetween(tc.a, tc.b); got != tc.want {
				t.Errorf("daysBetween(%v, %v) = %d, want %d", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestMonthKeyAgo(t *testing.T) {
	now := time.Date(2025, 3, 31, 12, 0, 0, 0, time.UTC)

	if got := monthKeyAgo(now, 0); got != "2025-03" {
		t.Errorf("expected 2025-03, got %s", got)
	}
	// Anchoring to the first keeps Mar 31 minus one month in February.
	if got := monthKeyAgo(now, 1); got != "2025-02" {
		t.Errorf("expected 2025-02, got %s", got)
	}
	if got := monthKeyAgo(now, 3); got != "2024-12" {
		t.Errorf("expected year rollover to 2024-12, got %s", got)
	}
}
