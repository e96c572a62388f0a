package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guessnica/guessnica-server/internal/domain/shared"
	"github.com/guessnica/guessnica-server/internal/domain/submission"
)

func newSubmission(t *testing.T, playerID shared.PlayerID, riddleID shared.RiddleID, score int) *submission.Submission {
	t.Helper()
	s, err := submission.New(playerID, riddleID, 55.75, 37.61, 30, 12.5, score, true)
	require.NoError(t, err)
	return s
}

func TestLedger_AppendAndGet(t *testing.T) {
	ctx := context.Background()
	ledger := NewLedger()

	playerID := shared.PlayerID(shared.NewID())
	riddleID := shared.RiddleID(shared.NewID())
	s := newSubmission(t, playerID, riddleID, 90)

	require.NoError(t, ledger.Append(ctx, s))

	got, err := ledger.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
	assert.Equal(t, 90, got.Score)

	byPlayer, err := ledger.GetByPlayer(ctx, playerID)
	require.NoError(t, err)
	require.Len(t, byPlayer, 1)

	byRiddle, err := ledger.GetByRiddle(ctx, riddleID)
	require.NoError(t, err)
	require.Len(t, byRiddle, 1)
}

func TestLedger_DuplicatePairRejected(t *testing.T) {
	ctx := context.Background()
	ledger := NewLedger()

	playerID := shared.PlayerID(shared.NewID())
	riddleID := shared.RiddleID(shared.NewID())

	require.NoError(t, ledger.Append(ctx, newSubmission(t, playerID, riddleID, 90)))

	err := ledger.Append(ctx, newSubmission(t, playerID, riddleID, 50))
	assert.ErrorIs(t, err, shared.ErrDuplicateSubmission)

	// В журнале ровно одна запись, и это первая.
	subs, err := ledger.GetByPlayer(ctx, playerID)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, 90, subs[0].Score)

	// Другая загадка того же игрока проходит.
	assert.NoError(t, ledger.Append(ctx, newSubmission(t, playerID, shared.RiddleID(shared.NewID()), 40)))
}

func TestLedger_ConcurrentDuplicates(t *testing.T) {
	ctx := context.Background()
	ledger := NewLedger()

	playerID := shared.PlayerID(shared.NewID())
	riddleID := shared.RiddleID(shared.NewID())

	const attempts = 50
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = ledger.Append(ctx, newSubmission(t, playerID, riddleID, i))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, shared.ErrDuplicateSubmission)
		}
	}
	assert.Equal(t, 1, succeeded)

	total, err := ledger.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestLedger_ReadersGetClones(t *testing.T) {
	ctx := context.Background()
	ledger := NewLedger()

	s := newSubmission(t, shared.PlayerID(shared.NewID()), shared.RiddleID(shared.NewID()), 90)
	require.NoError(t, ledger.Append(ctx, s))

	got, err := ledger.GetByID(ctx, s.ID)
	require.NoError(t, err)
	got.Score = 0

	again, err := ledger.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 90, again.Score)
}

func TestLedger_GetSinceAndCountByPlayer(t *testing.T) {
	ctx := context.Background()
	ledger := NewLedger()

	playerID := shared.PlayerID(shared.NewID())
	old := newSubmission(t, playerID, shared.RiddleID(shared.NewID()), 10)
	old.CreatedAt = time.Now().UTC().Add(-48 * time.Hour)
	recent := newSubmission(t, playerID, shared.RiddleID(shared.NewID()), 20)

	require.NoError(t, ledger.Append(ctx, old))
	require.NoError(t, ledger.Append(ctx, recent))

	cutoff := time.Now().UTC().Add(-24 * time.Hour)

	since, err := ledger.GetSince(ctx, cutoff)
	require.NoError(t, err)
	require.Len(t, since, 1)
	assert.Equal(t, 20, since[0].Score)

	all, err := ledger.GetSince(ctx, time.Time{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	n, err := ledger.CountByPlayerSince(ctx, playerID, cutoff)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestLedger_PurgeFreesPair(t *testing.T) {
	ctx := context.Background()
	ledger := NewLedger()

	playerID := shared.PlayerID(shared.NewID())
	riddleID := shared.RiddleID(shared.NewID())
	s := newSubmission(t, playerID, riddleID, 90)
	require.NoError(t, ledger.Append(ctx, s))

	purged, err := ledger.Purge(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, purged.ID)

	_, err = ledger.GetByID(ctx, s.ID)
	assert.ErrorIs(t, err, shared.ErrSubmissionNotFound)

	// После удаления пара (игрок, загадка) освобождается.
	assert.NoError(t, ledger.Append(ctx, newSubmission(t, playerID, riddleID, 30)))
}

func TestLedger_PurgeUnknownID(t *testing.T) {
	ledger := NewLedger()
	_, err := ledger.Purge(context.Background(), shared.NewID())
	assert.ErrorIs(t, err, shared.ErrSubmissionNotFound)
}
