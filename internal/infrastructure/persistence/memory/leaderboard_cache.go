package memory

import (
	"context"
	"sync"

	"github.com/guessnica/guessnica-server/internal/domain/leaderboard"
)

// snapshotKey identifies one cached (category, window) pair.
type snapshotKey struct {
	category leaderboard.Category
	window   string
}

// LeaderboardCache implements leaderboard.Cache in memory.
// Used when Redis is disabled in local development.
type LeaderboardCache struct {
	mu    sync.RWMutex
	snaps map[snapshotKey]leaderboard.Snapshot
}

// NewLeaderboardCache creates an empty in-memory snapshot cache.
func NewLeaderboardCache() *LeaderboardCache {
	return &LeaderboardCache{snaps: make(map[snapshotKey]leaderboard.Snapshot)}
}

func (c *LeaderboardCache) Store(ctx context.Context, snap leaderboard.Snapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snaps[snapshotKey{category: snap.Category, window: snap.Window}] = snap
	return nil
}

func (c *LeaderboardCache) Load(ctx context.Context, category leaderboard.Category, window string) (leaderboard.Snapshot, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	snap, ok := c.snaps[snapshotKey{category: category, window: window}]
	return snap, ok, nil
}

func (c *LeaderboardCache) InvalidateAll(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snaps = make(map[snapshotKey]leaderboard.Snapshot)
	return nil
}
