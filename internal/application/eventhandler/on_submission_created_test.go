package eventhandler

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
	"github.com/guessnica/guessnica-server/internal/infrastructure/messaging"
	"github.com/guessnica/guessnica-server/internal/infrastructure/persistence/memory"
	"github.com/guessnica/guessnica-server/pkg/timeutil"
)

func projectionFixture(t *testing.T) (*LeaderboardProjection, *memory.Ledger, *memory.LeaderboardCache, shared.PlayerID) {
	t.Helper()
	ctx := context.Background()

	ledger := memory.NewLedger()
	players := memory.NewPlayerRepository()
	cache := memory.NewLeaderboardCache()

	p, err := player.New(shared.PlayerID(shared.NewID()), "Alice")
	require.NoError(t, err)
	require.NoError(t, players.Create(ctx, p))

	s, err := submission.New(p.ID, shared.RiddleID(shared.NewID()), 55.75, 37.61, 25, 10, 110, true)
	require.NoError(t, err)
	require.NoError(t, ledger.Append(ctx, s))

	return NewLeaderboardProjection(ledger, players, cache, nil), ledger, cache, p.ID
}

func TestLeaderboardProjection_RebuildsAllSnapshots(t *testing.T) {
	projection, _, cache, playerID := projectionFixture(t)

	event := shared.NewSubmissionCreatedEvent(shared.NewID(), string(playerID), shared.NewID(), 110, true, 10, 25, time.Now().UTC())
	require.NoError(t, projection.Handle(event))

	// Перестроены все пары (категория, окно).
	for _, w := range timeutil.AllWindows() {
		for _, c := range leaderboard.AllCategories() {
			snap, ok, err := cache.Load(context.Background(), c, string(w))
			require.NoError(t, err)
			require.True(t, ok, "missing snapshot %s/%s", c, w)
			require.Len(t, snap.Entries, 1)
			assert.Equal(t, playerID, snap.Entries[0].PlayerID)
			assert.Equal(t, "Alice", snap.Entries[0].DisplayName)
		}
	}
}

func TestLeaderboardProjection_PurgeShrinksSnapshot(t *testing.T) {
	projection, ledger, cache, playerID := projectionFixture(t)
	ctx := context.Background()

	event := shared.NewSubmissionCreatedEvent(shared.NewID(), string(playerID), shared.NewID(), 110, true, 10, 25, time.Now().UTC())
	require.NoError(t, projection.Handle(event))

	subs, err := ledger.GetByPlayer(ctx, playerID)
	require.NoError(t, err)
	require.Len(t, subs, 1)

	_, err = ledger.Purge(ctx, subs[0].ID)
	require.NoError(t, err)

	// После удаления пересчёт убирает игрока из снапшота.
	require.NoError(t, projection.Handle(event))

	snap, ok, err := cache.Load(ctx, leaderboard.CategoryScore, string(timeutil.WindowAllTime))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Empty(t, snap.Entries)
}

func TestLeaderboardProjection_ThroughEventBus(t *testing.T) {
	projection, _, cache, playerID := projectionFixture(t)

	cfg := messaging.DefaultInMemoryEventBusConfig()
	cfg.AsyncMode = false
	bus := messaging.NewInMemoryEventBus(cfg)
	defer bus.Close()

	require.NoError(t, projection.Register(bus))

	event := shared.NewSubmissionCreatedEvent(shared.NewID(), string(playerID), shared.NewID(), 110, true, 10, 25, time.Now().UTC())
	require.NoError(t, bus.Publish(event))

	snap, ok, err := cache.Load(context.Background(), leaderboard.CategoryScore, string(timeutil.WindowWeekly))
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, snap.Entries, 1)
	assert.Equal(t, 110, snap.Entries[0].Score)
}
