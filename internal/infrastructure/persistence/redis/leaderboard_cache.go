package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/guessnica/guessnica-server/internal/domain/leaderboard"
)

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD CACHE
// ══════════════════════════════════════════════════════════════════════════════

// LeaderboardCache implements leaderboard.Cache on Redis.
// Each (category, window) pair maps to one key holding the snapshot JSON;
// rank lookups read the snapshot, which already carries dense ranks.
type LeaderboardCache struct {
	cache *Cache
}

// NewLeaderboardCache creates a new LeaderboardCache.
func NewLeaderboardCache(cache *Cache) *LeaderboardCache {
	return &LeaderboardCache{cache: cache}
}

func snapKey(category leaderboard.Category, window string) string {
	return fmt.Sprintf("%ssnap:%s:%s", PrefixLeaderboard, category, window)
}

// Store saves a snapshot, replacing the previous one for the same pair.
func (c *LeaderboardCache) Store(ctx context.Context, snap leaderboard.Snapshot) error {
	return c.cache.Set(ctx, snapKey(snap.Category, snap.Window), snap, TTLSnapshotCache)
}

// Load returns the snapshot for a (category, window) pair.
// The second result is false on a cache miss.
func (c *LeaderboardCache) Load(ctx context.Context, category leaderboard.Category, window string) (leaderboard.Snapshot, bool, error) {
	var snap leaderboard.Snapshot
	err := c.cache.Get(ctx, snapKey(category, window), &snap)
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return leaderboard.Snapshot{}, false, nil
		}
		return leaderboard.Snapshot{}, false, err
	}
	return snap, true, nil
}

// InvalidateAll drops every cached snapshot.
func (c *LeaderboardCache) InvalidateAll(ctx context.Context) error {
	return c.cache.DeleteByPattern(ctx, PrefixLeaderboard+"*")
}
