package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWindow(t *testing.T) {
	tests := []struct {
		input string
		want  Window
		ok    bool
	}{
		{"daily", WindowDaily, true},
		{"weekly", WindowWeekly, true},
		{"monthly", WindowMonthly, true},
		{"allTime", WindowAllTime, true},
		{"all-time", WindowAllTime, true},
		{"", WindowAllTime, true},
		{" weekly ", WindowWeekly, true},
		{"yearly", "", false},
	}

	for _, tt := range tests {
		w, err := ParseWindow(tt.input)
		if tt.ok {
			require.NoError(t, err, tt.input)
			assert.Equal(t, tt.want, w)
		} else {
			assert.Error(t, err, tt.input)
		}
	}
}

func TestWindowCutoffAt(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, now.Add(-24*time.Hour), WindowDaily.CutoffAt(now))
	assert.Equal(t, now.Add(-7*24*time.Hour), WindowWeekly.CutoffAt(now))
	assert.Equal(t, now.Add(-30*24*time.Hour), WindowMonthly.CutoffAt(now))
	assert.True(t, WindowAllTime.CutoffAt(now).IsZero())
}

func TestWindowContains(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	assert.True(t, WindowDaily.Contains(now, now.Add(-time.Hour)))
	assert.False(t, WindowDaily.Contains(now, now.Add(-25*time.Hour)))
	// Граница окна включается.
	assert.True(t, WindowDaily.Contains(now, now.Add(-24*time.Hour)))
	// Будущие ответы не попадают никуда.
	assert.False(t, WindowAllTime.Contains(now, now.Add(time.Minute)))
	assert.True(t, WindowAllTime.Contains(now, now.Add(-1000*24*time.Hour)))
}

func TestStartEndOfDayUTC(t *testing.T) {
	moscow := time.FixedZone("MSK", 3*60*60)
	// 01:30 по Москве - ещё предыдущий день по UTC.
	local := time.Date(2026, 3, 10, 1, 30, 0, 0, moscow)

	start := StartOfDayUTC(local)
	assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), start)

	end := EndOfDayUTC(local)
	assert.Equal(t, time.Date(2026, 3, 9, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC), end)
}

func TestIsSameDayUTC(t *testing.T) {
	a := time.Date(2026, 3, 10, 0, 0, 1, 0, time.UTC)
	b := time.Date(2026, 3, 10, 23, 59, 59, 0, time.UTC)
	c := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)

	assert.True(t, IsSameDayUTC(a, b))
	assert.False(t, IsSameDayUTC(b, c))
}

func TestParseClockTime(t *testing.T) {
	ct, err := ParseClockTime("09:00:00")
	require.NoError(t, err)
	assert.Equal(t, ClockTime{Hour: 9}, ct)
	assert.Equal(t, "09:00:00", ct.String())

	ct, err = ParseClockTime("23:59")
	require.NoError(t, err)
	assert.Equal(t, ClockTime{Hour: 23, Minute: 59}, ct)

	_, err = ParseClockTime("24:00:00")
	assert.Error(t, err)
	_, err = ParseClockTime("12")
	assert.Error(t, err)
	_, err = ParseClockTime("ab:cd:ef")
	assert.Error(t, err)
}

func TestClockTimeNextOccurrence(t *testing.T) {
	ct := ClockTime{Hour: 9}

	before := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC), ct.NextOccurrence(before))

	after := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC), ct.NextOccurrence(after))

	// Ровно в момент активации следующая - завтра.
	exact := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC), ct.NextOccurrence(exact))
}

func TestFormatSeconds(t *testing.T) {
	assert.Equal(t, "0:05", FormatSeconds(5))
	assert.Equal(t, "1:30", FormatSeconds(90))
	assert.Equal(t, "2:05", FormatSeconds(125.9))
}
