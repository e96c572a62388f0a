package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guessnica/guessnica-server/internal/domain/shared"
	"github.com/guessnica/guessnica-server/internal/domain/submission"
	"github.com/guessnica/guessnica-server/internal/infrastructure/persistence/memory"
)

func seedSubmissionAt(t *testing.T, ledger *memory.Ledger, playerID shared.PlayerID, score int, createdAt time.Time) {
	t.Helper()
	s := &submission.Submission{
		ID:             shared.NewID(),
		PlayerID:       playerID,
		RiddleID:       shared.RiddleID(shared.NewID()),
		ElapsedSeconds: 30,
		DistanceMeters: 10,
		Score:          score,
		Correct:        score > 0,
		CreatedAt:      createdAt,
	}
	require.NoError(t, ledger.Append(context.Background(), s))
}

func adminStatsFixture(t *testing.T) (*GetAdminStatsHandler, *memory.Ledger, *memory.PlayerRepository) {
	t.Helper()
	ledger := memory.NewLedger()
	players := memory.NewPlayerRepository()
	h := NewGetAdminStatsHandler(
		ledger,
		players,
		memory.NewRiddleRepository(),
		memory.NewLocationRepository(),
		memory.NewSettingsRepository(),
	)
	return h, ledger, players
}

func TestGetAdminStats_DefaultRangeFromSettings(t *testing.T) {
	ctx := context.Background()
	h, ledger, players := adminStatsFixture(t)

	now := time.Now().UTC()
	alice := seedPlayer(t, players, "Alice")
	bob := seedPlayer(t, players, "Bob")

	// Двое сегодня, один три дня назад, один за пределами окна подиума.
	seedSubmissionAt(t, ledger, alice, 100, now)
	seedSubmissionAt(t, ledger, alice, 50, now)
	seedSubmissionAt(t, ledger, bob, 30, now.AddDate(0, 0, -3))
	seedSubmissionAt(t, ledger, bob, 200, now.AddDate(0, 0, -30))

	res, err := h.Handle(ctx, GetAdminStatsQuery{})
	require.NoError(t, err)

	// Окно по умолчанию - podiumPeriod из настроек (7 дней).
	assert.Equal(t, 7, res.RangeDays)
	assert.Equal(t, 2, res.TotalPlayers)
	assert.Equal(t, 4, res.TotalSubmissions)
	assert.Equal(t, 3, res.SubmissionsInRange)
	assert.Equal(t, 2, res.ActivePlayersInRange)
	assert.Equal(t, 2, res.SubmissionsToday)
	assert.Equal(t, 1, res.ActivePlayersToday)
	assert.Equal(t, 60.0, res.AverageScoreInRange)
}

func TestGetAdminStats_ExplicitRange(t *testing.T) {
	ctx := context.Background()
	h, ledger, players := adminStatsFixture(t)

	now := time.Now().UTC()
	alice := seedPlayer(t, players, "Alice")
	seedSubmissionAt(t, ledger, alice, 100, now)
	seedSubmissionAt(t, ledger, alice, 200, now.AddDate(0, 0, -30))

	res, err := h.Handle(ctx, GetAdminStatsQuery{RangeDays: 60})
	require.NoError(t, err)

	assert.Equal(t, 60, res.RangeDays)
	assert.Equal(t, 2, res.SubmissionsInRange)
	assert.Equal(t, 150.0, res.AverageScoreInRange)
}

func TestGetAdminStats_NegativeRange(t *testing.T) {
	h, _, _ := adminStatsFixture(t)

	_, err := h.Handle(context.Background(), GetAdminStatsQuery{RangeDays: -1})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}
