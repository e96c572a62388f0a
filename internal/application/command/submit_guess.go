// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/guessnica/guessnica-server/internal/domain/geo"
	"github.com/guessnica/guessnica-server/internal/domain/player"
	"github.com/guessnica/guessnica-server/internal/domain/riddle"
	"github.com/guessnica/guessnica-server/internal/domain/scoring"
	"github.com/guessnica/guessnica-server/internal/domain/settings"
	"github.com/guessnica/guessnica-server/internal/domain/shared"
	"github.com/guessnica/guessnica-server/internal/domain/submission"
	"github.com/guessnica/guessnica-server/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// SUBMIT GUESS COMMAND
// Центральная операция игры: игрок присылает координаты, сервер считает
// дистанцию и очки и записывает ответ в журнал. Очки фиксируются в момент
// записи и никогда не пересчитываются задним числом.
// ══════════════════════════════════════════════════════════════════════════════

// SubmitGuessCommand contains the data for a guess submission.
type SubmitGuessCommand struct {
	// PlayerID is the guessing player.
	PlayerID string

	// RiddleID is the riddle being answered. Empty means "riddle of the day".
	RiddleID string

	// GuessLat / GuessLng are the guessed coordinates in degrees.
	GuessLat float64
	GuessLng float64

	// ElapsedSeconds is the client-reported answer time.
	ElapsedSeconds float64

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command.
func (c SubmitGuessCommand) Validate() error {
	if c.PlayerID == "" {
		return shared.NewDomainError("submission", "SubmitGuess", shared.ErrInvalidInput, "player_id is required")
	}
	if c.ElapsedSeconds < 0 || c.ElapsedSeconds != c.ElapsedSeconds {
		return shared.NewDomainError("submission", "SubmitGuess", shared.ErrNegativeElapsed, "elapsed_seconds must be non-negative")
	}
	return nil
}

// SubmitGuessResult contains the outcome of a scored guess.
type SubmitGuessResult struct {
	// SubmissionID is the ID of the recorded submission.
	SubmissionID string `json:"submissionId"`

	// Score is the awarded score.
	Score int `json:"score"`

	// Correct reports whether the guess earned points (score > 0).
	Correct bool `json:"correct"`

	// DistanceMeters is the great-circle distance to the answer.
	DistanceMeters float64 `json:"distanceMeters"`

	// Base and Bonus break the score down for the client.
	Base  int `json:"base"`
	Bonus int `json:"bonus"`

	// SubmittedAt is the ledger append time.
	SubmittedAt time.Time `json:"submittedAt"`
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// SubmitGuessHandler handles the SubmitGuessCommand.
type SubmitGuessHandler struct {
	ledger       submission.Ledger
	playerRepo   player.Repository
	riddleRepo   riddle.Repository
	locationRepo riddle.LocationRepository
	settingsRepo settings.Repository
	publisher    shared.EventPublisher
}

// NewSubmitGuessHandler creates a new SubmitGuessHandler.
func NewSubmitGuessHandler(
	ledger submission.Ledger,
	playerRepo player.Repository,
	riddleRepo riddle.Repository,
	locationRepo riddle.LocationRepository,
	settingsRepo settings.Repository,
	publisher shared.EventPublisher,
) *SubmitGuessHandler {
	return &SubmitGuessHandler{
		ledger:       ledger,
		playerRepo:   playerRepo,
		riddleRepo:   riddleRepo,
		locationRepo: locationRepo,
		settingsRepo: settingsRepo,
		publisher:    publisher,
	}
}

// Handle executes the submit guess command.
func (h *SubmitGuessHandler) Handle(ctx context.Context, cmd SubmitGuessCommand) (*SubmitGuessResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	// Координаты проверяем до любых обращений к хранилищу.
	guess, err := geo.NewPoint(cmd.GuessLat, cmd.GuessLng)
	if err != nil {
		return nil, err
	}

	cfg, err := h.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !cfg.GameActive {
		return nil, shared.ErrGameInactive
	}

	p, err := h.playerRepo.GetByID(ctx, shared.PlayerID(cmd.PlayerID))
	if err != nil {
		return nil, err
	}
	if !p.CanPlay() {
		return nil, shared.ErrPlayerBlocked
	}

	now := time.Now().UTC()

	rd, err := h.resolveRiddle(ctx, cmd.RiddleID, now)
	if err != nil {
		return nil, err
	}
	if !rd.IsActiveAt(now) {
		return nil, shared.ErrRiddleNotActive
	}

	// Суточный лимит считается по UTC-дню.
	answered, err := h.ledger.CountByPlayerSince(ctx, p.ID, timeutil.StartOfDayUTC(now))
	if err != nil {
		return nil, err
	}
	if answered >= cfg.MaxRiddlesPerDay {
		return nil, shared.ErrDailyLimitReached
	}

	loc, err := h.locationRepo.GetByID(ctx, rd.LocationID)
	if err != nil {
		return nil, err
	}

	distance, err := geo.Distance(guess, loc.Point)
	if err != nil {
		return nil, err
	}

	result, err := scoring.Score(distance, cmd.ElapsedSeconds, rd.Rules(), cfg.ScoringConfig())
	if err != nil {
		return nil, err
	}

	sub, err := submission.New(
		p.ID,
		rd.ID,
		guess.Lat,
		guess.Lng,
		cmd.ElapsedSeconds,
		distance,
		result.Score,
		result.Correct,
	)
	if err != nil {
		return nil, err
	}

	if err := h.ledger.Append(ctx, sub); err != nil {
		if errors.Is(err, shared.ErrDuplicateSubmission) {
			return nil, shared.ErrDuplicateSubmission
		}
		return nil, fmt.Errorf("submit_guess: append failed: %w", err)
	}

	if h.publisher != nil {
		event := shared.NewSubmissionCreatedEvent(
			sub.ID,
			string(sub.PlayerID),
			string(sub.RiddleID),
			sub.Score,
			sub.Correct,
			sub.DistanceMeters,
			sub.ElapsedSeconds,
			sub.CreatedAt,
		)
		// Журнал уже пополнен; ошибка публикации не отменяет ответ.
		_ = h.publisher.Publish(event)
	}

	return &SubmitGuessResult{
		SubmissionID:   sub.ID,
		Score:          sub.Score,
		Correct:        sub.Correct,
		DistanceMeters: sub.DistanceMeters,
		Base:           result.Base,
		Bonus:          result.Bonus,
		SubmittedAt:    sub.CreatedAt,
	}, nil
}

func (h *SubmitGuessHandler) resolveRiddle(ctx context.Context, riddleID string, now time.Time) (*riddle.Riddle, error) {
	if riddleID == "" {
		return h.riddleRepo.GetActiveAt(ctx, now)
	}
	id, err := shared.NewRiddleID(riddleID)
	if err != nil {
		return nil, err
	}
	return h.riddleRepo.GetByID(ctx, id)
}
