package leaderboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guessnica/guessnica-server/internal/domain/shared"
	"github.com/guessnica/guessnica-server/internal/domain/submission"
	"github.com/guessnica/guessnica-server/pkg/timeutil"
)

func sub(playerID string, score int, correct bool, elapsed float64, createdAt time.Time) *submission.Submission {
	return &submission.Submission{
		ID:             shared.NewID(),
		PlayerID:       shared.PlayerID(playerID),
		RiddleID:       shared.RiddleID("r1"),
		ElapsedSeconds: elapsed,
		Score:          score,
		Correct:        correct,
		CreatedAt:      createdAt,
	}
}

func TestRank_TieBrokenByEarliestSubmission(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	// Две трёхсотки в одном окне: кто набрал раньше, тот выше.
	// Tie-break определяет порядок, но ничьёй не считается - ранги разные.
	subs := []*submission.Submission{
		sub("alice", 300, true, 30, now.Add(-3*time.Hour)),
		sub("bob", 300, true, 40, now.Add(-2*time.Hour)),
		sub("carol", 150, true, 20, now.Add(-1*time.Hour)),
	}

	entries := Rank(subs, CategoryScore, timeutil.WindowWeekly, now, nil)
	require.Len(t, entries, 3)

	assert.Equal(t, shared.PlayerID("alice"), entries[0].PlayerID)
	assert.Equal(t, shared.Rank(1), entries[0].Rank)
	assert.Equal(t, shared.PlayerID("bob"), entries[1].PlayerID)
	assert.Equal(t, shared.Rank(2), entries[1].Rank)
	assert.Equal(t, shared.PlayerID("carol"), entries[2].PlayerID)
	assert.Equal(t, shared.Rank(3), entries[2].Rank)
}

func TestRank_TrueTieSharesRank(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	at := now.Add(-1 * time.Hour)

	// Полная ничья: одинаковые очки и одинаковое время первого ответа.
	subs := []*submission.Submission{
		sub("alice", 200, true, 30, at),
		sub("bob", 200, true, 50, at),
		sub("carol", 100, true, 20, at),
	}

	entries := Rank(subs, CategoryScore, timeutil.WindowAllTime, now, nil)
	require.Len(t, entries, 3)

	assert.Equal(t, shared.Rank(1), entries[0].Rank)
	assert.Equal(t, shared.Rank(1), entries[1].Rank)
	// Плотный ранг: после ничьи следующий ранг 2, без пропуска.
	assert.Equal(t, shared.Rank(2), entries[2].Rank)

	// Внутри ничьи порядок детерминирован по PlayerID.
	assert.Equal(t, shared.PlayerID("alice"), entries[0].PlayerID)
	assert.Equal(t, shared.PlayerID("bob"), entries[1].PlayerID)
}

func TestRank_AccuracyCountsOnlyScoringAnswers(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	// Ответы alice затухли до нуля на границе радиуса: очков нет,
	// правильными они не считаются, точность 0. bob попал один раз из двух.
	subs := []*submission.Submission{
		sub("alice", 0, false, 10, now.Add(-3*time.Hour)),
		sub("alice", 0, false, 12, now.Add(-2*time.Hour)),
		sub("bob", 80, true, 30, now.Add(-2*time.Hour)),
		sub("bob", 0, false, 35, now.Add(-1*time.Hour)),
	}

	entries := Rank(subs, CategoryAccuracy, timeutil.WindowDaily, now, nil)
	require.Len(t, entries, 2)

	assert.Equal(t, shared.PlayerID("bob"), entries[0].PlayerID)
	assert.Equal(t, 50.0, entries[0].Accuracy)
	assert.Equal(t, shared.PlayerID("alice"), entries[1].PlayerID)
	assert.Equal(t, 0.0, entries[1].Accuracy)
}

func TestRank_AverageTimeAscending(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	subs := []*submission.Submission{
		sub("slow", 100, true, 120, now.Add(-2*time.Hour)),
		sub("fast", 50, true, 15, now.Add(-1*time.Hour)),
	}

	entries := Rank(subs, CategoryAverageTime, timeutil.WindowDaily, now, nil)
	require.Len(t, entries, 2)

	assert.Equal(t, shared.PlayerID("fast"), entries[0].PlayerID)
	assert.Equal(t, 15.0, entries[0].AverageTime)
	assert.Equal(t, shared.PlayerID("slow"), entries[1].PlayerID)
}

func TestRank_WindowFiltersOldSubmissions(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	subs := []*submission.Submission{
		sub("recent", 50, true, 10, now.Add(-time.Hour)),
		sub("ancient", 900, true, 10, now.Add(-48*time.Hour)),
	}

	daily := Rank(subs, CategoryScore, timeutil.WindowDaily, now, nil)
	require.Len(t, daily, 1)
	assert.Equal(t, shared.PlayerID("recent"), daily[0].PlayerID)

	allTime := Rank(subs, CategoryScore, timeutil.WindowAllTime, now, nil)
	assert.Len(t, allTime, 2)
}

func TestRank_AggregatesPerPlayer(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	subs := []*submission.Submission{
		sub("alice", 100, true, 30, now.Add(-3*time.Hour)),
		sub("alice", 0, false, 60, now.Add(-2*time.Hour)),
	}

	entries := Rank(subs, CategoryScore, timeutil.WindowAllTime, now, map[shared.PlayerID]string{
		"alice": "Alice",
	})
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, "Alice", e.DisplayName)
	assert.Equal(t, 100, e.Score)
	assert.Equal(t, 2, e.GamesPlayed)
	assert.Equal(t, 50.0, e.Accuracy)
	assert.Equal(t, 45.0, e.AverageTime)
}

func TestRank_Deterministic(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	subs := []*submission.Submission{
		sub("p1", 100, true, 10, now.Add(-5*time.Hour)),
		sub("p2", 200, true, 20, now.Add(-4*time.Hour)),
		sub("p3", 100, false, 30, now.Add(-3*time.Hour)),
		sub("p1", 50, true, 40, now.Add(-2*time.Hour)),
	}

	first := Rank(subs, CategoryScore, timeutil.WindowAllTime, now, nil)
	second := Rank(subs, CategoryScore, timeutil.WindowAllTime, now, nil)
	assert.Equal(t, first, second)
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory("")
	require.NoError(t, err)
	assert.Equal(t, CategoryScore, c)

	c, err = ParseCategory("games_played")
	require.NoError(t, err)
	assert.Equal(t, CategoryGamesPlayed, c)

	c, err = ParseCategory("averageTime")
	require.NoError(t, err)
	assert.Equal(t, CategoryAverageTime, c)
	assert.True(t, c.Ascending())

	_, err = ParseCategory("xp")
	assert.ErrorIs(t, err, shared.ErrUnknownCategory)
}

func TestPositionOfAndTop(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	subs := []*submission.Submission{
		sub("alice", 300, true, 10, now.Add(-3*time.Hour)),
		sub("bob", 200, true, 10, now.Add(-2*time.Hour)),
		sub("carol", 100, true, 10, now.Add(-1*time.Hour)),
	}
	entries := Rank(subs, CategoryScore, timeutil.WindowAllTime, now, nil)

	e, ok := PositionOf(entries, "bob")
	require.True(t, ok)
	assert.Equal(t, shared.Rank(2), e.Rank)

	_, ok = PositionOf(entries, "nobody")
	assert.False(t, ok)

	top := Top(entries, 2)
	require.Len(t, top, 2)
	assert.Equal(t, shared.PlayerID("alice"), top[0].PlayerID)

	assert.Len(t, Top(entries, 10), 3)
	assert.Len(t, Top(entries, 0), 3)
}
