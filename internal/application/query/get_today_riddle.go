package query

import (
	"context"
	"time"

	"github.com/guessnica/guessnica-server/internal/domain/riddle"
	"github.com/guessnica/guessnica-server/internal/domain/settings"
	"github.com/guessnica/guessnica-server/internal/domain/shared"
	"github.com/guessnica/guessnica-server/internal/domain/submission"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET TODAY RIDDLE QUERY
// Отдаёт загадку дня без координат ответа. Координаты локации
// наружу не выходят до того, как игрок ответил.
// ══════════════════════════════════════════════════════════════════════════════

// GetTodayRiddleQuery содержит параметры запроса загадки дня.
type GetTodayRiddleQuery struct {
	// PlayerID - если задан, в ответ попадает флаг "уже отвечал".
	PlayerID string
}

// TodayRiddleDTO - загадка дня для клиента.
type TodayRiddleDTO struct {
	RiddleID         string  `json:"riddleId"`
	Difficulty       string  `json:"difficulty"`
	TimeLimitSeconds float64 `json:"timeLimitSeconds"`

	// ImageURL - картинка загаданного места.
	ImageURL string `json:"imageUrl"`

	// Description - подсказка (без координат).
	Description string `json:"description"`

	// ActiveDate - день загадки (UTC).
	ActiveDate time.Time `json:"activeDate"`

	// AlreadyAnswered - отвечал ли уже запрашивающий игрок.
	AlreadyAnswered bool `json:"alreadyAnswered"`

	// GameActive - принимаются ли сейчас ответы.
	GameActive bool `json:"gameActive"`
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// GetTodayRiddleHandler обрабатывает запросы загадки дня.
type GetTodayRiddleHandler struct {
	riddleRepo   riddle.Repository
	locationRepo riddle.LocationRepository
	ledger       submission.Ledger
	settingsRepo settings.Repository
}

// NewGetTodayRiddleHandler creates a new GetTodayRiddleHandler.
func NewGetTodayRiddleHandler(
	riddleRepo riddle.Repository,
	locationRepo riddle.LocationRepository,
	ledger submission.Ledger,
	settingsRepo settings.Repository,
) *GetTodayRiddleHandler {
	return &GetTodayRiddleHandler{
		riddleRepo:   riddleRepo,
		locationRepo: locationRepo,
		ledger:       ledger,
		settingsRepo: settingsRepo,
	}
}

// Handle выполняет запрос загадки дня.
func (h *GetTodayRiddleHandler) Handle(ctx context.Context, q GetTodayRiddleQuery) (*TodayRiddleDTO, error) {
	now := time.Now().UTC()

	rd, err := h.riddleRepo.GetActiveAt(ctx, now)
	if err != nil {
		return nil, err
	}

	loc, err := h.locationRepo.GetByID(ctx, rd.LocationID)
	if err != nil {
		return nil, err
	}

	cfg, err := h.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	dto := &TodayRiddleDTO{
		RiddleID:         string(rd.ID),
		Difficulty:       string(rd.Difficulty),
		TimeLimitSeconds: rd.TimeLimitSeconds,
		ImageURL:         loc.ImageURL,
		Description:      loc.Description,
		ActiveDate:       rd.ActiveDate,
		GameActive:       cfg.GameActive,
	}

	if q.PlayerID != "" {
		subs, err := h.ledger.GetByPlayer(ctx, shared.PlayerID(q.PlayerID))
		if err != nil {
			return nil, err
		}
		for _, s := range subs {
			if s.RiddleID == rd.ID {
				dto.AlreadyAnswered = true
				break
			}
		}
	}

	return dto, nil
}
