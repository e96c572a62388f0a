// Package timeutil provides time helpers for the Guessnica scoring engine:
// leaderboard window arithmetic, UTC day boundaries, and parsing of the
// admin "riddle time" setting ("HH:MM:SS").
// No external dependencies - uses only standard library.
package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Window identifies a leaderboard time range anchored at "now".
type Window string

const (
	// WindowDaily covers the last 24 hours.
	WindowDaily Window = "daily"
	// WindowWeekly covers the last 7 days.
	WindowWeekly Window = "weekly"
	// WindowMonthly covers the last 30 days.
	WindowMonthly Window = "monthly"
	// WindowAllTime is unfiltered.
	WindowAllTime Window = "allTime"
)

// ParseWindow parses a window string as received from the front-end
// (timeRange query parameter). Unknown values are rejected.
func ParseWindow(s string) (Window, error) {
	switch strings.TrimSpace(s) {
	case "daily":
		return WindowDaily, nil
	case "weekly":
		return WindowWeekly, nil
	case "monthly":
		return WindowMonthly, nil
	case "allTime", "all-time", "alltime", "":
		return WindowAllTime, nil
	default:
		return "", fmt.Errorf("unknown time range %q", s)
	}
}

// IsValid reports whether the window is one of the known values.
func (w Window) IsValid() bool {
	switch w {
	case WindowDaily, WindowWeekly, WindowMonthly, WindowAllTime:
		return true
	}
	return false
}

// String returns the wire representation of the window.
func (w Window) String() string {
	return string(w)
}

// Duration returns the length of the window, or 0 for WindowAllTime.
func (w Window) Duration() time.Duration {
	switch w {
	case WindowDaily:
		return 24 * time.Hour
	case WindowWeekly:
		return 7 * 24 * time.Hour
	case WindowMonthly:
		return 30 * 24 * time.Hour
	default:
		return 0
	}
}

// CutoffAt returns the inclusive lower bound of the window anchored at now.
// For WindowAllTime the zero time is returned, which predates every submission.
func (w Window) CutoffAt(now time.Time) time.Time {
	d := w.Duration()
	if d == 0 {
		return time.Time{}
	}
	return now.Add(-d)
}

// Contains reports whether t falls inside the window anchored at now.
func (w Window) Contains(now, t time.Time) bool {
	if w == WindowAllTime {
		return !t.After(now)
	}
	cutoff := w.CutoffAt(now)
	return !t.Before(cutoff) && !t.After(now)
}

// AllWindows lists every window, in cache-rebuild order.
func AllWindows() []Window {
	return []Window{WindowDaily, WindowWeekly, WindowMonthly, WindowAllTime}
}

// StartOfDayUTC returns midnight UTC of the day containing t.
// Used for the per-day riddle cap and daily riddle activation.
func StartOfDayUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// EndOfDayUTC returns the last nanosecond of the day containing t.
func EndOfDayUTC(t time.Time) time.Time {
	return StartOfDayUTC(t).Add(24*time.Hour - time.Nanosecond)
}

// IsSameDayUTC reports whether two instants fall on the same UTC day.
func IsSameDayUTC(t1, t2 time.Time) bool {
	t1, t2 = t1.UTC(), t2.UTC()
	return t1.Year() == t2.Year() && t1.YearDay() == t2.YearDay()
}

// ClockTime is a time-of-day without a date, as stored in the admin
// settings riddleTime field ("09:00:00").
type ClockTime struct {
	Hour   int
	Minute int
	Second int
}

// ParseClockTime parses "HH:MM:SS" (or "HH:MM") into a ClockTime.
func ParseClockTime(s string) (ClockTime, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return ClockTime{}, fmt.Errorf("invalid clock time %q", s)
	}

	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return ClockTime{}, fmt.Errorf("invalid clock time %q: %w", s, err)
		}
		nums[i] = n
	}

	ct := ClockTime{Hour: nums[0], Minute: nums[1], Second: nums[2]}
	if ct.Hour < 0 || ct.Hour > 23 || ct.Minute < 0 || ct.Minute > 59 || ct.Second < 0 || ct.Second > 59 {
		return ClockTime{}, fmt.Errorf("clock time %q out of range", s)
	}
	return ct, nil
}

// String formats the clock time back to "HH:MM:SS".
func (ct ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", ct.Hour, ct.Minute, ct.Second)
}

// NextOccurrence returns the next instant (strictly after now, UTC) at which
// the clock time occurs. Used by the worker to schedule riddle activation.
func (ct ClockTime) NextOccurrence(now time.Time) time.Time {
	now = now.UTC()
	next := time.Date(now.Year(), now.Month(), now.Day(), ct.Hour, ct.Minute, ct.Second, 0, time.UTC)
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next
}

// FormatSeconds renders elapsed seconds as "M:SS" the way the front-end
// leaderboard does.
func FormatSeconds(seconds float64) string {
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
