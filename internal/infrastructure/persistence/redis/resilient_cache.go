package redis

import (
	"context"
	"errors"
	"log/slog"

	"github.com/guessnica/guessnica-server/internal/domain/leaderboard"

	"github.com/guessnica/guessnica-server/pkg/circuitbreaker"
	"github.com/guessnica/guessnica-server/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// RESILIENT LEADERBOARD CACHE
// ══════════════════════════════════════════════════════════════════════════════

// ResilientLeaderboardCache wraps a leaderboard.Cache with a circuit breaker
// and retries.
//
// Reads degrade to a cache miss when Redis is unhealthy, so request handlers
// fall back to recomputing the leaderboard from the ledger instead of waiting
// on timeouts. Writes are retried with backoff; a persistently failing write
// opens the breaker and is reported to the caller.
type ResilientLeaderboardCache struct {
	inner   leaderboard.Cache
	breaker *circuitbreaker.CircuitBreaker
	retrier *retry.Retrier
	logger  *slog.Logger
}

// NewResilientLeaderboardCache wraps the given cache.
func NewResilientLeaderboardCache(inner leaderboard.Cache, logger *slog.Logger) *ResilientLeaderboardCache {
	if logger == nil {
		logger = slog.Default()
	}

	breaker := circuitbreaker.CacheBreaker(func(name string, from, to circuitbreaker.State) {
		logger.Warn("leaderboard cache breaker state changed",
			"breaker", name,
			"from", from.String(),
			"to", to.String(),
		)
	})

	return &ResilientLeaderboardCache{
		inner:   inner,
		breaker: breaker,
		retrier: retry.CacheRetrier(),
		logger:  logger,
	}
}

// Store saves a snapshot, retrying transient failures.
func (c *ResilientLeaderboardCache) Store(ctx context.Context, snap leaderboard.Snapshot) error {
	return c.breaker.Execute(ctx, func(ctx context.Context) error {
		return c.retrier.Do(ctx, func(ctx context.Context) error {
			if err := c.inner.Store(ctx, snap); err != nil {
				return retry.Retryable(err)
			}
			return nil
		})
	})
}

// Load returns the snapshot for a (category, window) pair.
// An open breaker or a Redis error is reported as a cache miss.
func (c *ResilientLeaderboardCache) Load(ctx context.Context, category leaderboard.Category, window string) (leaderboard.Snapshot, bool, error) {
	var (
		snap  leaderboard.Snapshot
		found bool
	)

	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		var loadErr error
		snap, found, loadErr = c.inner.Load(ctx, category, window)
		return loadErr
	})
	if err != nil {
		if !errors.Is(err, circuitbreaker.ErrCircuitOpen) && !errors.Is(err, circuitbreaker.ErrTooManyRequests) {
			c.logger.Warn("leaderboard cache read failed",
				"category", string(category),
				"window", window,
				"error", err,
			)
		}
		return leaderboard.Snapshot{}, false, nil
	}
	return snap, found, nil
}

// InvalidateAll drops every cached snapshot.
func (c *ResilientLeaderboardCache) InvalidateAll(ctx context.Context) error {
	return c.breaker.Execute(ctx, func(ctx context.Context) error {
		return c.inner.InvalidateAll(ctx)
	})
}

// State exposes the breaker state for health reporting.
func (c *ResilientLeaderboardCache) State() circuitbreaker.State {
	return c.breaker.State()
}
