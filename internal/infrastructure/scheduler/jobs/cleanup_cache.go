package jobs

import (
	"context"
	"log/slog"

	"github.com/guessnica/guessnica-server/internal/domain/leaderboard"
)

// ══════════════════════════════════════════════════════════════════════════════
// CLEANUP CACHE JOB
// ══════════════════════════════════════════════════════════════════════════════

// CleanupCacheJob drops all cached leaderboard snapshots. Runs rarely; the
// next read or rebuild repopulates the cache from the ledger. This clears
// snapshots that survived a settings change or an admin purge without
// the corresponding invalidation.
type CleanupCacheJob struct {
	cache  leaderboard.Cache
	logger *slog.Logger
}

// NewCleanupCacheJob creates a new cleanup job.
func NewCleanupCacheJob(cache leaderboard.Cache, logger *slog.Logger) *CleanupCacheJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &CleanupCacheJob{cache: cache, logger: logger}
}

// Name returns the job name.
func (j *CleanupCacheJob) Name() string {
	return "cleanup_cache"
}

// Description returns a human-readable description.
func (j *CleanupCacheJob) Description() string {
	return "Drops stale leaderboard snapshots so they are rebuilt from the ledger"
}

// Run executes the cleanup.
func (j *CleanupCacheJob) Run(ctx context.Context) error {
	if err := j.cache.InvalidateAll(ctx); err != nil {
		return err
	}
	j.logger.Info("leaderboard cache cleared")
	return nil
}
