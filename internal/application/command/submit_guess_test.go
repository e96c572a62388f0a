package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guessnica/guessnica-server/internal/domain/player"
	"github.com/guessnica/guessnica-server/internal/domain/riddle"
	"github.com/guessnica/guessnica-server/internal/domain/scoring"
	"github.com/guessnica/guessnica-server/internal/domain/settings"
	"github.com/guessnica/guessnica-server/internal/domain/shared"
	"github.com/guessnica/guessnica-server/internal/infrastructure/persistence/memory"
)

// submitFixture собирает обработчик на in-memory хранилищах с одним
// игроком, одной локацией и активной на сегодня загадкой.
type submitFixture struct {
	handler  *SubmitGuessHandler
	ledger   *memory.Ledger
	players  *memory.PlayerRepository
	riddles  *memory.RiddleRepository
	settings *memory.SettingsRepository
	player   *player.Player
	location *riddle.Location
	riddle   *riddle.Riddle
}

func newSubmitFixture(t *testing.T) *submitFixture {
	t.Helper()
	ctx := context.Background()

	ledger := memory.NewLedger()
	players := memory.NewPlayerRepository()
	riddles := memory.NewRiddleRepository()
	locations := memory.NewLocationRepository()
	settingsRepo := memory.NewSettingsRepository()

	p, err := player.New(shared.PlayerID(shared.NewID()), "Tester")
	require.NoError(t, err)
	require.NoError(t, players.Create(ctx, p))

	loc, err := riddle.NewLocation(55.7558, 37.6173, "Красная площадь", "", "admin")
	require.NoError(t, err)
	require.NoError(t, locations.Create(ctx, loc))

	rd, err := riddle.NewRiddle(loc.ID, scoring.DifficultyEasy, 300, 1000, time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, riddles.Create(ctx, rd))

	return &submitFixture{
		handler:  NewSubmitGuessHandler(ledger, players, riddles, locations, settingsRepo, nil),
		ledger:   ledger,
		players:  players,
		riddles:  riddles,
		settings: settingsRepo,
		player:   p,
		location: loc,
		riddle:   rd,
	}
}

func (f *submitFixture) command() SubmitGuessCommand {
	return SubmitGuessCommand{
		PlayerID:       string(f.player.ID),
		RiddleID:       string(f.riddle.ID),
		GuessLat:       f.location.Point.Lat,
		GuessLng:       f.location.Point.Lng,
		ElapsedSeconds: 0,
	}
}

func TestSubmitGuess_PerfectAnswer(t *testing.T) {
	f := newSubmitFixture(t)

	res, err := f.handler.Handle(context.Background(), f.command())
	require.NoError(t, err)

	// Точное попадание мгновенно: 100 базовых плюс 20% бонуса.
	assert.True(t, res.Correct)
	assert.Equal(t, 120, res.Score)
	assert.Equal(t, 100, res.Base)
	assert.Equal(t, 20, res.Bonus)
	assert.Equal(t, 0.0, res.DistanceMeters)
	assert.NotEmpty(t, res.SubmissionID)

	sub, err := f.ledger.GetByID(context.Background(), res.SubmissionID)
	require.NoError(t, err)
	assert.Equal(t, f.player.ID, sub.PlayerID)
	assert.Equal(t, f.riddle.ID, sub.RiddleID)
}

func TestSubmitGuess_ResolvesRiddleOfTheDay(t *testing.T) {
	f := newSubmitFixture(t)

	cmd := f.command()
	cmd.RiddleID = ""

	res, err := f.handler.Handle(context.Background(), cmd)
	require.NoError(t, err)

	sub, err := f.ledger.GetByID(context.Background(), res.SubmissionID)
	require.NoError(t, err)
	assert.Equal(t, f.riddle.ID, sub.RiddleID)
}

func TestSubmitGuess_Duplicate(t *testing.T) {
	f := newSubmitFixture(t)
	ctx := context.Background()

	_, err := f.handler.Handle(ctx, f.command())
	require.NoError(t, err)

	_, err = f.handler.Handle(ctx, f.command())
	assert.ErrorIs(t, err, shared.ErrDuplicateSubmission)

	// В журнале осталась ровно одна запись.
	subs, err := f.ledger.GetByPlayer(ctx, f.player.ID)
	require.NoError(t, err)
	assert.Len(t, subs, 1)
}

func TestSubmitGuess_BlockedPlayer(t *testing.T) {
	f := newSubmitFixture(t)
	ctx := context.Background()

	f.player.Block()
	require.NoError(t, f.players.Update(ctx, f.player))

	_, err := f.handler.Handle(ctx, f.command())
	assert.ErrorIs(t, err, shared.ErrPlayerBlocked)
}

func TestSubmitGuess_UnknownPlayer(t *testing.T) {
	f := newSubmitFixture(t)

	cmd := f.command()
	cmd.PlayerID = shared.NewID()

	_, err := f.handler.Handle(context.Background(), cmd)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestSubmitGuess_GameInactive(t *testing.T) {
	f := newSubmitFixture(t)
	ctx := context.Background()

	cfg := settings.Default()
	cfg.GameActive = false
	require.NoError(t, f.settings.Save(ctx, cfg))

	_, err := f.handler.Handle(ctx, f.command())
	assert.ErrorIs(t, err, shared.ErrGameInactive)
}

func TestSubmitGuess_DailyLimit(t *testing.T) {
	f := newSubmitFixture(t)
	ctx := context.Background()

	cfg := settings.Default()
	cfg.MaxRiddlesPerDay = 1
	require.NoError(t, f.settings.Save(ctx, cfg))

	_, err := f.handler.Handle(ctx, f.command())
	require.NoError(t, err)

	// Вторая активная сегодня загадка: лимит на игрока уже выбран.
	second, err := riddle.NewRiddle(f.location.ID, scoring.DifficultyEasy, 300, 1000, time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, f.riddles.Create(ctx, second))

	cmd := f.command()
	cmd.RiddleID = string(second.ID)

	_, err = f.handler.Handle(ctx, cmd)
	assert.ErrorIs(t, err, shared.ErrDailyLimitReached)
}

func TestSubmitGuess_InactiveRiddle(t *testing.T) {
	f := newSubmitFixture(t)
	ctx := context.Background()

	yesterday, err := riddle.NewRiddle(f.location.ID, scoring.DifficultyEasy, 300, 1000, time.Now().UTC().Add(-24*time.Hour))
	require.NoError(t, err)
	riddles := memory.NewRiddleRepository()
	require.NoError(t, riddles.Create(ctx, yesterday))

	handler := NewSubmitGuessHandler(f.ledger, f.players, riddles, nil, f.settings, nil)

	cmd := f.command()
	cmd.RiddleID = string(yesterday.ID)

	_, err = handler.Handle(ctx, cmd)
	assert.ErrorIs(t, err, shared.ErrRiddleNotActive)
}

func TestSubmitGuess_InvalidCoordinates(t *testing.T) {
	f := newSubmitFixture(t)

	cmd := f.command()
	cmd.GuessLat = 91

	_, err := f.handler.Handle(context.Background(), cmd)
	assert.ErrorIs(t, err, shared.ErrInvalidCoordinate)
}

func TestSubmitGuess_Validation(t *testing.T) {
	f := newSubmitFixture(t)

	cmd := f.command()
	cmd.PlayerID = ""
	_, err := f.handler.Handle(context.Background(), cmd)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	cmd = f.command()
	cmd.ElapsedSeconds = -1
	_, err = f.handler.Handle(context.Background(), cmd)
	assert.ErrorIs(t, err, shared.ErrNegativeElapsed)
}

func TestSubmitGuess_MissedGuessScoresZero(t *testing.T) {
	f := newSubmitFixture(t)

	cmd := f.command()
	// Санкт-Петербург против московской цели: далеко за радиусом.
	cmd.GuessLat = 59.9343
	cmd.GuessLng = 30.3351

	res, err := f.handler.Handle(context.Background(), cmd)
	require.NoError(t, err)

	assert.False(t, res.Correct)
	assert.Equal(t, 0, res.Score)
	assert.Greater(t, res.DistanceMeters, 1000.0)
}
