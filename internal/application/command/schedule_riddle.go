package command

import (
	"context"
	"time"

	"github.com/guessnica/guessnica-server/internal/domain/riddle"
	"github.com/guessnica/guessnica-server/internal/domain/scoring"
	"github.com/guessnica/guessnica-server/internal/domain/settings"
	"github.com/guessnica/guessnica-server/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// SCHEDULE RIDDLE COMMAND (admin)
// Назначает загадку на день. На один UTC-день может приходиться
// максимум одна загадка - это гарантирует уникальный индекс в БД.
// ══════════════════════════════════════════════════════════════════════════════

// ScheduleRiddleCommand contains the data to schedule a riddle.
type ScheduleRiddleCommand struct {
	// LocationID is the answer location.
	LocationID string

	// Difficulty is "easy", "medium" or "hard".
	Difficulty string

	// TimeLimitSeconds is the answer time limit.
	TimeLimitSeconds float64

	// MaxDistanceMeters is the hit radius. Zero means "use settings default".
	MaxDistanceMeters float64

	// ActiveDate is the day the riddle goes live (UTC day).
	ActiveDate time.Time
}

// Validate validates the command.
func (c ScheduleRiddleCommand) Validate() error {
	if c.LocationID == "" {
		return shared.NewDomainError("riddle", "ScheduleRiddle", shared.ErrInvalidID, "location_id is required")
	}
	if c.ActiveDate.IsZero() {
		return shared.NewDomainError("riddle", "ScheduleRiddle", shared.ErrInvalidInput, "active_date is required")
	}
	if _, err := scoring.ParseDifficulty(c.Difficulty); err != nil {
		return err
	}
	return nil
}

// RiddleResult describes a riddle for API responses.
type RiddleResult struct {
	RiddleID          string    `json:"riddleId"`
	LocationID        string    `json:"locationId"`
	Difficulty        string    `json:"difficulty"`
	TimeLimitSeconds  float64   `json:"timeLimitSeconds"`
	MaxDistanceMeters float64   `json:"maxDistanceMeters"`
	ActiveDate        time.Time `json:"activeDate"`
	CreatedAt         time.Time `json:"createdAt"`
}

func riddleResult(rd *riddle.Riddle) *RiddleResult {
	return &RiddleResult{
		RiddleID:          string(rd.ID),
		LocationID:        string(rd.LocationID),
		Difficulty:        string(rd.Difficulty),
		TimeLimitSeconds:  rd.TimeLimitSeconds,
		MaxDistanceMeters: rd.MaxDistanceMeters,
		ActiveDate:        rd.ActiveDate,
		CreatedAt:         rd.CreatedAt,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// ScheduleRiddleHandler handles riddle scheduling and administration.
type ScheduleRiddleHandler struct {
	riddleRepo   riddle.Repository
	locationRepo riddle.LocationRepository
	settingsRepo settings.Repository
	publisher    shared.EventPublisher
}

// NewScheduleRiddleHandler creates a new ScheduleRiddleHandler.
func NewScheduleRiddleHandler(
	riddleRepo riddle.Repository,
	locationRepo riddle.LocationRepository,
	settingsRepo settings.Repository,
	publisher shared.EventPublisher,
) *ScheduleRiddleHandler {
	return &ScheduleRiddleHandler{
		riddleRepo:   riddleRepo,
		locationRepo: locationRepo,
		settingsRepo: settingsRepo,
		publisher:    publisher,
	}
}

// Handle executes the schedule riddle command.
func (h *ScheduleRiddleHandler) Handle(ctx context.Context, cmd ScheduleRiddleCommand) (*RiddleResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	// Локация должна существовать до назначения загадки.
	if _, err := h.locationRepo.GetByID(ctx, shared.LocationID(cmd.LocationID)); err != nil {
		return nil, err
	}

	difficulty, err := scoring.ParseDifficulty(cmd.Difficulty)
	if err != nil {
		return nil, err
	}

	maxDistance := cmd.MaxDistanceMeters
	if maxDistance == 0 {
		cfg, err := h.settingsRepo.Get(ctx)
		if err != nil {
			return nil, err
		}
		maxDistance = cfg.MaxDistance
	}

	rd, err := riddle.NewRiddle(
		shared.LocationID(cmd.LocationID),
		difficulty,
		cmd.TimeLimitSeconds,
		maxDistance,
		cmd.ActiveDate,
	)
	if err != nil {
		return nil, err
	}

	if err := h.riddleRepo.Create(ctx, rd); err != nil {
		return nil, err
	}

	if h.publisher != nil {
		_ = h.publisher.Publish(shared.NewBaseEvent(shared.EventRiddleScheduled, string(rd.ID)))
	}

	return riddleResult(rd), nil
}

// RescheduleRiddleCommand contains the data to update a scheduled riddle.
type RescheduleRiddleCommand struct {
	RiddleID string

	// Остальные поля имеют ту же семантику, что и при создании.
	LocationID        string
	Difficulty        string
	TimeLimitSeconds  float64
	MaxDistanceMeters float64
	ActiveDate        time.Time
}

// Update rewrites a scheduled riddle in place.
func (h *ScheduleRiddleHandler) Update(ctx context.Context, cmd RescheduleRiddleCommand) (*RiddleResult, error) {
	if cmd.RiddleID == "" {
		return nil, shared.NewDomainError("riddle", "RescheduleRiddle", shared.ErrInvalidID, "riddle_id is required")
	}
	id, err := shared.NewRiddleID(cmd.RiddleID)
	if err != nil {
		return nil, err
	}

	rd, err := h.riddleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if cmd.LocationID != "" {
		if _, err := h.locationRepo.GetByID(ctx, shared.LocationID(cmd.LocationID)); err != nil {
			return nil, err
		}
		rd.LocationID = shared.LocationID(cmd.LocationID)
	}
	if cmd.Difficulty != "" {
		difficulty, err := scoring.ParseDifficulty(cmd.Difficulty)
		if err != nil {
			return nil, err
		}
		rd.Difficulty = difficulty
	}
	if cmd.TimeLimitSeconds > 0 {
		rd.TimeLimitSeconds = cmd.TimeLimitSeconds
	}
	if cmd.MaxDistanceMeters > 0 {
		rd.MaxDistanceMeters = cmd.MaxDistanceMeters
	}
	if !cmd.ActiveDate.IsZero() {
		rd.ActiveDate = cmd.ActiveDate.UTC().Truncate(24 * time.Hour)
	}

	if err := rd.Rules().Validate(); err != nil {
		return nil, err
	}
	if err := h.riddleRepo.Update(ctx, rd); err != nil {
		return nil, err
	}

	if h.publisher != nil {
		_ = h.publisher.Publish(shared.NewBaseEvent(shared.EventRiddleScheduled, string(rd.ID)))
	}

	return riddleResult(rd), nil
}

// Delete removes a scheduled riddle.
func (h *ScheduleRiddleHandler) Delete(ctx context.Context, riddleID string) error {
	if riddleID == "" {
		return shared.NewDomainError("riddle", "DeleteRiddle", shared.ErrInvalidID, "riddle_id is required")
	}
	id, err := shared.NewRiddleID(riddleID)
	if err != nil {
		return err
	}
	return h.riddleRepo.Delete(ctx, id)
}

// List returns all scheduled riddles, newest first.
func (h *ScheduleRiddleHandler) List(ctx context.Context) ([]*RiddleResult, error) {
	riddles, err := h.riddleRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*RiddleResult, len(riddles))
	for i, rd := range riddles {
		out[i] = riddleResult(rd)
	}
	return out, nil
}
