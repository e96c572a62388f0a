// Package jobs contains implementations of scheduled jobs for Guessnica.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/guessnica/guessnica-server/internal/domain/leaderboard"
	"github.com/guessnica/guessnica-server/internal/domain/player"
	"github.com/guessnica/guessnica-server/internal/domain/shared"
	"github.com/guessnica/guessnica-server/internal/domain/submission"
	"github.com/guessnica/guessnica-server/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// REBUILD LEADERBOARD JOB
// ══════════════════════════════════════════════════════════════════════════════

// RebuildLeaderboardJob recomputes every (category, window) snapshot from the
// submission ledger and stores the result in the cache. The rebuild is a pure
// fold over the ledger, so running it twice in a row produces identical
// snapshots; the job exists to bound cache staleness, not to accumulate state.
type RebuildLeaderboardJob struct {
	ledger     submission.Ledger
	playerRepo player.Repository
	cache      leaderboard.Cache
	publisher  shared.EventPublisher
	logger     *slog.Logger

	config RebuildLeaderboardConfig

	lastRebuildStats atomic.Value // *RebuildStats
}

// RebuildLeaderboardConfig contains configuration for the rebuild job.
type RebuildLeaderboardConfig struct {
	// Windows to rebuild (empty = all).
	Windows []timeutil.Window

	// Categories to rebuild (empty = all).
	Categories []leaderboard.Category

	// Timeout is the maximum duration for one rebuild run.
	Timeout time.Duration
}

// DefaultRebuildLeaderboardConfig returns sensible defaults.
func DefaultRebuildLeaderboardConfig() RebuildLeaderboardConfig {
	return RebuildLeaderboardConfig{
		Windows:    nil,
		Categories: nil,
		Timeout:    2 * time.Minute,
	}
}

// RebuildStats contains statistics from a rebuild run.
type RebuildStats struct {
	StartedAt        time.Time
	CompletedAt      time.Time
	Duration         time.Duration
	SubmissionsRead  int
	SnapshotsStored  int
	Errors           []error
}

// NewRebuildLeaderboardJob creates a new rebuild leaderboard job.
func NewRebuildLeaderboardJob(
	ledger submission.Ledger,
	playerRepo player.Repository,
	cache leaderboard.Cache,
	publisher shared.EventPublisher,
	logger *slog.Logger,
	config RebuildLeaderboardConfig,
) *RebuildLeaderboardJob {
	if logger == nil {
		logger = slog.Default()
	}

	return &RebuildLeaderboardJob{
		ledger:     ledger,
		playerRepo: playerRepo,
		cache:      cache,
		publisher:  publisher,
		logger:     logger,
		config:     config,
	}
}

// Name returns the job name.
func (j *RebuildLeaderboardJob) Name() string {
	return "rebuild_leaderboard"
}

// Description returns a human-readable description.
func (j *RebuildLeaderboardJob) Description() string {
	return "Recomputes leaderboard snapshots from the submission ledger"
}

// Run executes the rebuild.
func (j *RebuildLeaderboardJob) Run(ctx context.Context) error {
	if j.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.config.Timeout)
		defer cancel()
	}

	stats := &RebuildStats{StartedAt: time.Now().UTC()}
	defer func() {
		stats.CompletedAt = time.Now().UTC()
		stats.Duration = stats.CompletedAt.Sub(stats.StartedAt)
		j.lastRebuildStats.Store(stats)
	}()

	windows := j.config.Windows
	if len(windows) == 0 {
		windows = timeutil.AllWindows()
	}
	categories := j.config.Categories
	if len(categories) == 0 {
		categories = leaderboard.AllCategories()
	}

	now := time.Now().UTC()

	// Читаем журнал один раз за самое широкое окно и фильтруем в памяти.
	subs, err := j.ledger.GetSince(ctx, time.Time{})
	if err != nil {
		return fmt.Errorf("rebuild_leaderboard: read ledger: %w", err)
	}
	stats.SubmissionsRead = len(subs)

	names, err := j.playerNames(ctx, subs)
	if err != nil {
		return fmt.Errorf("rebuild_leaderboard: load players: %w", err)
	}

	for _, w := range windows {
		for _, c := range categories {
			entries := leaderboard.Rank(subs, c, w, now, names)
			snap := leaderboard.Snapshot{
				Category:  c,
				Window:    string(w),
				Entries:   entries,
				RebuiltAt: now,
			}
			if err := j.cache.Store(ctx, snap); err != nil {
				stats.Errors = append(stats.Errors, err)
				j.logger.Warn("snapshot store failed",
					slog.String("category", string(c)),
					slog.String("window", string(w)),
					slog.String("error", err.Error()),
				)
				continue
			}
			stats.SnapshotsStored++
		}
	}

	if j.publisher != nil {
		event := shared.NewBaseEvent(shared.EventLeaderboardRebuilt, "leaderboard")
		if err := j.publisher.Publish(rebuiltEvent{BaseEvent: event, snapshots: stats.SnapshotsStored}); err != nil {
			j.logger.Warn("publish rebuilt event failed", slog.String("error", err.Error()))
		}
	}

	j.logger.Info("leaderboard rebuilt",
		slog.Int("submissions", stats.SubmissionsRead),
		slog.Int("snapshots", stats.SnapshotsStored),
		slog.Int("errors", len(stats.Errors)),
	)

	if len(stats.Errors) > 0 {
		return fmt.Errorf("rebuild_leaderboard: %d snapshot(s) failed", len(stats.Errors))
	}
	return nil
}

// LastRebuildStats returns statistics from the most recent run.
func (j *RebuildLeaderboardJob) LastRebuildStats() *RebuildStats {
	if v := j.lastRebuildStats.Load(); v != nil {
		return v.(*RebuildStats)
	}
	return nil
}

func (j *RebuildLeaderboardJob) playerNames(ctx context.Context, subs []*submission.Submission) (map[shared.PlayerID]string, error) {
	seen := make(map[shared.PlayerID]struct{})
	ids := make([]shared.PlayerID, 0)
	for _, s := range subs {
		if _, ok := seen[s.PlayerID]; ok {
			continue
		}
		seen[s.PlayerID] = struct{}{}
		ids = append(ids, s.PlayerID)
	}

	players, err := j.playerRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	names := make(map[shared.PlayerID]string, len(players))
	for id, p := range players {
		names[id] = p.DisplayName
	}
	return names, nil
}

// rebuiltEvent carries the snapshot count of a completed rebuild.
type rebuiltEvent struct {
	shared.BaseEvent
	snapshots int
}

func (e rebuiltEvent) Payload() map[string]interface{} {
	return map[string]interface{}{"snapshots": e.snapshots}
}
