package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guessnica/guessnica-server/internal/domain/leaderboard"
	"github.com/guessnica/guessnica-server/internal/domain/player"
	"github.com/guessnica/guessnica-server/internal/domain/shared"
	"github.com/guessnica/guessnica-server/internal/domain/submission"
	"github.com/guessnica/guessnica-server/internal/infrastructure/persistence/memory"
)

func seedPlayer(t *testing.T, repo *memory.PlayerRepository, name string) shared.PlayerID {
	t.Helper()
	p, err := player.New(shared.PlayerID(shared.NewID()), name)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), p))
	return p.ID
}

func seedSubmission(t *testing.T, ledger *memory.Ledger, playerID shared.PlayerID, score int, elapsed float64) {
	t.Helper()
	s, err := submission.New(playerID, shared.RiddleID(shared.NewID()), 55.75, 37.61, elapsed, 10, score, score > 0)
	require.NoError(t, err)
	require.NoError(t, ledger.Append(context.Background(), s))
}

func TestGetLeaderboard_FromLedger(t *testing.T) {
	ctx := context.Background()
	ledger := memory.NewLedger()
	players := memory.NewPlayerRepository()
	cache := memory.NewLeaderboardCache()

	alice := seedPlayer(t, players, "Alice")
	bob := seedPlayer(t, players, "Bob")
	seedSubmission(t, ledger, alice, 120, 20)
	seedSubmission(t, ledger, bob, 80, 35)

	h := NewGetLeaderboardHandler(ledger, players, cache, nil)

	res, err := h.Handle(ctx, GetLeaderboardQuery{})
	require.NoError(t, err)

	assert.False(t, res.FromCache)
	assert.Equal(t, "score", res.Category)
	assert.Equal(t, "allTime", res.TimeRange)
	assert.Equal(t, 2, res.TotalPlayers)
	require.Len(t, res.Entries, 2)

	first := res.Entries[0]
	assert.Equal(t, 1, first.Rank)
	assert.Equal(t, string(alice), first.PlayerID)
	assert.Equal(t, "Alice", first.DisplayName)
	assert.Equal(t, 120, first.Score)
	assert.Equal(t, "0:20", first.AverageTimeDisplay)
}

func TestGetLeaderboard_FromCache(t *testing.T) {
	ctx := context.Background()
	ledger := memory.NewLedger()
	players := memory.NewPlayerRepository()
	cache := memory.NewLeaderboardCache()

	// Снапшот в кеше намеренно расходится с журналом: если запрос
	// вернул его, значит журнал не трогали.
	snap := leaderboard.Snapshot{
		Category: leaderboard.CategoryScore,
		Window:   "weekly",
		Entries: []leaderboard.Entry{
			{Rank: 1, PlayerID: "cached", DisplayName: "Cached", Score: 999, GamesPlayed: 3},
		},
		RebuiltAt: time.Now().UTC(),
	}
	require.NoError(t, cache.Store(ctx, snap))

	h := NewGetLeaderboardHandler(ledger, players, cache, nil)

	res, err := h.Handle(ctx, GetLeaderboardQuery{TimeRange: "weekly"})
	require.NoError(t, err)

	assert.True(t, res.FromCache)
	require.Len(t, res.Entries, 1)
	assert.Equal(t, "cached", res.Entries[0].PlayerID)
	assert.Equal(t, 999, res.Entries[0].Score)
}

func TestGetLeaderboard_CacheMissFallsBack(t *testing.T) {
	ctx := context.Background()
	ledger := memory.NewLedger()
	players := memory.NewPlayerRepository()
	cache := memory.NewLeaderboardCache()

	alice := seedPlayer(t, players, "Alice")
	seedSubmission(t, ledger, alice, 50, 10)

	h := NewGetLeaderboardHandler(ledger, players, cache, nil)

	// Кеш пуст для этой пары (категория, окно) - считаем из журнала.
	res, err := h.Handle(ctx, GetLeaderboardQuery{Category: "accuracy", TimeRange: "daily"})
	require.NoError(t, err)

	assert.False(t, res.FromCache)
	require.Len(t, res.Entries, 1)
	assert.Equal(t, 100.0, res.Entries[0].Accuracy)
}

func TestGetLeaderboard_NilCache(t *testing.T) {
	ctx := context.Background()
	ledger := memory.NewLedger()
	players := memory.NewPlayerRepository()

	h := NewGetLeaderboardHandler(ledger, players, nil, nil)

	res, err := h.Handle(ctx, GetLeaderboardQuery{})
	require.NoError(t, err)
	assert.Empty(t, res.Entries)
	assert.False(t, res.FromCache)
}

func TestGetLeaderboard_LimitApplied(t *testing.T) {
	ctx := context.Background()
	ledger := memory.NewLedger()
	players := memory.NewPlayerRepository()

	for i := 0; i < 5; i++ {
		id := seedPlayer(t, players, "Player")
		seedSubmission(t, ledger, id, 10*(i+1), 10)
	}

	h := NewGetLeaderboardHandler(ledger, players, nil, nil)

	res, err := h.Handle(ctx, GetLeaderboardQuery{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, res.Entries, 2)
	assert.Equal(t, 5, res.TotalPlayers)
	assert.Equal(t, 50, res.Entries[0].Score)
}

func TestGetLeaderboard_InvalidParams(t *testing.T) {
	h := NewGetLeaderboardHandler(memory.NewLedger(), memory.NewPlayerRepository(), nil, nil)

	_, err := h.Handle(context.Background(), GetLeaderboardQuery{Category: "xp"})
	assert.ErrorIs(t, err, shared.ErrUnknownCategory)

	_, err = h.Handle(context.Background(), GetLeaderboardQuery{TimeRange: "yearly"})
	assert.Error(t, err)

	_, err = h.Handle(context.Background(), GetLeaderboardQuery{Limit: -1})
	assert.Error(t, err)
}
