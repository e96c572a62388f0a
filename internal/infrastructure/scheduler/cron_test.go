package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCronSchedule_Invalid(t *testing.T) {
	for _, expr := range []string{
		"",
		"* * * *",
		"60 * * * *",
		"* 24 * * *",
		"*/0 * * * *",
		"5-2 * * * *",
		"abc * * * *",
	} {
		_, err := ParseCronSchedule(expr)
		assert.Error(t, err, expr)
	}
}

func TestCronSchedule_NextEveryFiveMinutes(t *testing.T) {
	cs, err := ParseCronSchedule("*/5 * * * *")
	require.NoError(t, err)

	at := time.Date(2026, 3, 10, 12, 3, 30, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 10, 12, 5, 0, 0, time.UTC), cs.Next(at))

	// Ровно на совпадении: следующий запуск строго позже.
	at = time.Date(2026, 3, 10, 12, 5, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 10, 12, 10, 0, 0, time.UTC), cs.Next(at))
}

func TestCronSchedule_NextDailyAtThree(t *testing.T) {
	cs, err := ParseCronSchedule("0 3 * * *")
	require.NoError(t, err)

	at := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 11, 3, 0, 0, 0, time.UTC), cs.Next(at))

	at = time.Date(2026, 3, 10, 2, 59, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 10, 3, 0, 0, 0, time.UTC), cs.Next(at))
}

func TestCronSchedule_NextWeekday(t *testing.T) {
	// Каждое воскресенье в полночь; 2026-03-10 - вторник.
	cs, err := ParseCronSchedule("0 0 * * 0")
	require.NoError(t, err)

	at := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	next := cs.Next(at)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), next)
	assert.Equal(t, time.Sunday, next.Weekday())
}

func TestCronSchedule_ListsAndRanges(t *testing.T) {
	cs, err := ParseCronSchedule("15,45 9-17 * * 1-5")
	require.NoError(t, err)

	// Пятница 16:50 -> 17:15 того же дня.
	at := time.Date(2026, 3, 13, 16, 50, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 13, 17, 15, 0, 0, time.UTC), cs.Next(at))

	// Пятница 17:50 -> рабочие часы кончились, понедельник 9:15.
	at = time.Date(2026, 3, 13, 17, 50, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 16, 9, 15, 0, 0, time.UTC), cs.Next(at))
}

func TestCronSchedule_String(t *testing.T) {
	cs, err := ParseCronSchedule("0 3 * * *")
	require.NoError(t, err)
	assert.Equal(t, "@cron 0 3 * * *", cs.String())
}
