package submission

import (
	"context"
	"time"

	"github.com/guessnica/guessnica-server/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// LEDGER CONTRACT
// The ledger is append-only: Append and administrative Purge are the only
// writes. Every read is a consistent snapshot - a slice materialized from a
// single query, so an aggregate computed at time T reflects exactly the
// submissions created at or before T, never a partial in-flight write.
// ══════════════════════════════════════════════════════════════════════════════

// Ledger is the authoritative append-only store of submissions.
type Ledger interface {
	// Append stores a new submission.
	// Returns shared.ErrDuplicateSubmission when the (player, riddle) pair
	// already has a submission; exactly one of two concurrent appends for
	// the same pair succeeds.
	// Returns shared.ErrStorageUnavailable when persistence is down.
	Append(ctx context.Context, s *Submission) error

	// GetByID returns a single submission.
	// Returns shared.ErrSubmissionNotFound when unknown.
	GetByID(ctx context.Context, id string) (*Submission, error)

	// GetByPlayer returns the player's submissions in insertion order.
	// The returned slice is a restartable snapshot owned by the caller.
	GetByPlayer(ctx context.Context, playerID shared.PlayerID) ([]*Submission, error)

	// GetByRiddle returns the riddle's submissions in insertion order.
	GetByRiddle(ctx context.Context, riddleID shared.RiddleID) ([]*Submission, error)

	// GetSince returns all submissions with CreatedAt >= cutoff in insertion
	// order. A zero cutoff returns the full ledger (the all-time window).
	GetSince(ctx context.Context, cutoff time.Time) ([]*Submission, error)

	// CountByPlayerSince counts the player's submissions with
	// CreatedAt >= cutoff. Used for the per-day riddle cap.
	CountByPlayerSince(ctx context.Context, playerID shared.PlayerID, cutoff time.Time) (int, error)

	// Count returns the total ledger size.
	Count(ctx context.Context) (int, error)

	// Purge removes a submission. This is the administrative delete;
	// normal gameplay never removes records. Aggregates recompute from the
	// then-current ledger, so the purged submission vanishes retroactively.
	// Returns shared.ErrSubmissionNotFound when unknown.
	Purge(ctx context.Context, id string) (*Submission, error)
}
