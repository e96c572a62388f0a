// Package eventhandler contains projection handlers subscribed to domain events.
package eventhandler

import (
	"context"
	"log/slog"
	"time"

	"github.com/guessnica/guessnica-server/internal/application/query"
	"github.com/guessnica/guessnica-server/internal/domain/leaderboard"
	"github.com/guessnica/guessnica-server/internal/domain/player"
	"github.com/guessnica/guessnica-server/internal/domain/shared"
	"github.com/guessnica/guessnica-server/internal/domain/submission"
	"github.com/guessnica/guessnica-server/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD PROJECTION
// Держит снапшоты лидерборда свежими: любой ответ, удаление ответа
// или смена настроек запускает полный пересчёт затронутых пар
// (категория, окно). Пересчёт идемпотентен - промежуточные потери
// событий лечатся периодическим джобом rebuild_leaderboard.
// ══════════════════════════════════════════════════════════════════════════════

// LeaderboardProjection rebuilds cached snapshots on submission events.
type LeaderboardProjection struct {
	ledger     submission.Ledger
	playerRepo player.Repository
	cache      leaderboard.Cache
	logger     *slog.Logger

	// timeout bounds a single rebuild triggered by one event.
	timeout time.Duration
}

// NewLeaderboardProjection creates a new LeaderboardProjection.
func NewLeaderboardProjection(
	ledger submission.Ledger,
	playerRepo player.Repository,
	cache leaderboard.Cache,
	logger *slog.Logger,
) *LeaderboardProjection {
	if logger == nil {
		logger = slog.Default()
	}
	return &LeaderboardProjection{
		ledger:     ledger,
		playerRepo: playerRepo,
		cache:      cache,
		logger:     logger,
		timeout:    30 * time.Second,
	}
}

// Register subscribes the projection to the events that invalidate snapshots.
func (p *LeaderboardProjection) Register(bus shared.EventSubscriber) error {
	for _, t := range []shared.EventType{
		shared.EventSubmissionCreated,
		shared.EventSubmissionPurged,
		shared.EventSettingsUpdated,
	} {
		if err := bus.Subscribe(t, p.Handle); err != nil {
			return err
		}
	}
	return nil
}

// Handle rebuilds every snapshot from the ledger.
func (p *LeaderboardProjection) Handle(event shared.Event) error {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	now := time.Now().UTC()

	for _, w := range timeutil.AllWindows() {
		for _, c := range leaderboard.AllCategories() {
			entries, err := query.ComputeLeaderboard(ctx, p.ledger, p.playerRepo, c, w, now)
			if err != nil {
				return err
			}

			snap := leaderboard.Snapshot{
				Category:  c,
				Window:    string(w),
				Entries:   entries,
				RebuiltAt: now,
			}
			if err := p.cache.Store(ctx, snap); err != nil {
				p.logger.Warn("projection snapshot store failed",
					slog.String("event", string(event.EventType())),
					slog.String("category", string(c)),
					slog.String("window", string(w)),
					slog.String("error", err.Error()),
				)
				return err
			}
		}
	}

	return nil
}
