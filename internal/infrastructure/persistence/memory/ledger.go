// Package memory implements in-memory persistence for Guessnica.
// Used in tests and in local development without PostgreSQL.
// All repositories are safe for concurrent use and preserve the same
// uniqueness guarantees as the PostgreSQL layer.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/guessnica/guessnica-server/internal/domain/shared"
	"github.com/guessnica/guessnica-server/internal/domain/submission"
)

// ══════════════════════════════════════════════════════════════════════════════
// SUBMISSION LEDGER
// ══════════════════════════════════════════════════════════════════════════════

// pairKey identifies the (player, riddle) pair that may answer at most once.
type pairKey struct {
	player shared.PlayerID
	riddle shared.RiddleID
}

// Ledger implements submission.Ledger in memory.
// Append order is preserved; under concurrent appends for the same
// (player, riddle) pair exactly one wins.
type Ledger struct {
	mu    sync.RWMutex
	byID  map[string]*submission.Submission
	pairs map[pairKey]string
	order []string
}

// NewLedger creates an empty in-memory ledger.
func NewLedger() *Ledger {
	return &Ledger{
		byID:  make(map[string]*submission.Submission),
		pairs: make(map[pairKey]string),
	}
}

// Append records a submission. Returns ErrDuplicateSubmission if the
// (player, riddle) pair already answered.
func (l *Ledger) Append(ctx context.Context, s *submission.Submission) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	key := pairKey{player: s.PlayerID, riddle: s.RiddleID}
	if _, taken := l.pairs[key]; taken {
		return shared.ErrDuplicateSubmission
	}
	if _, exists := l.byID[s.ID]; exists {
		return shared.ErrDuplicateSubmission
	}

	clone := s.Clone()
	l.byID[clone.ID] = clone
	l.pairs[key] = clone.ID
	l.order = append(l.order, clone.ID)
	return nil
}

// GetByID returns a submission by its identifier.
func (l *Ledger) GetByID(ctx context.Context, id string) (*submission.Submission, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	s, ok := l.byID[id]
	if !ok {
		return nil, shared.ErrSubmissionNotFound
	}
	return s.Clone(), nil
}

// GetByPlayer returns the player's submissions in append order.
func (l *Ledger) GetByPlayer(ctx context.Context, playerID shared.PlayerID) ([]*submission.Submission, error) {
	return l.filter(func(s *submission.Submission) bool {
		return s.PlayerID == playerID
	}), nil
}

// GetByRiddle returns all submissions for a riddle in append order.
func (l *Ledger) GetByRiddle(ctx context.Context, riddleID shared.RiddleID) ([]*submission.Submission, error) {
	return l.filter(func(s *submission.Submission) bool {
		return s.RiddleID == riddleID
	}), nil
}

// GetSince returns submissions created at or after cutoff.
// A zero cutoff returns the whole ledger.
func (l *Ledger) GetSince(ctx context.Context, cutoff time.Time) ([]*submission.Submission, error) {
	return l.filter(func(s *submission.Submission) bool {
		return cutoff.IsZero() || !s.CreatedAt.Before(cutoff)
	}), nil
}

// CountByPlayerSince counts the player's submissions created at or after cutoff.
func (l *Ledger) CountByPlayerSince(ctx context.Context, playerID shared.PlayerID, cutoff time.Time) (int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	n := 0
	for _, id := range l.order {
		s := l.byID[id]
		if s.PlayerID == playerID && !s.CreatedAt.Before(cutoff) {
			n++
		}
	}
	return n, nil
}

// Count returns the total number of submissions.
func (l *Ledger) Count(ctx context.Context) (int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.order), nil
}

// Purge removes a submission and frees its (player, riddle) pair.
func (l *Ledger) Purge(ctx context.Context, id string) (*submission.Submission, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.byID[id]
	if !ok {
		return nil, shared.ErrSubmissionNotFound
	}

	delete(l.byID, id)
	delete(l.pairs, pairKey{player: s.PlayerID, riddle: s.RiddleID})
	for i, oid := range l.order {
		if oid == id {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
	return s, nil
}

// filter returns clones of submissions matching pred, in append order.
func (l *Ledger) filter(pred func(*submission.Submission) bool) []*submission.Submission {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]*submission.Submission, 0)
	for _, id := range l.order {
		if s := l.byID[id]; pred(s) {
			out = append(out, s.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
