package query

import (
	"context"
	"time"

	"github.com/guessnica/guessnica-server/internal/domain/riddle"
	"github.com/guessnica/guessnica-server/internal/domain/shared"
	"github.com/guessnica/guessnica-server/internal/domain/submission"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET RIDDLE STATS QUERY
// Агрегат по одной загадке: сколько ответили, средние балл,
// дистанция и время. Загадка без ответов даёт нулевой агрегат.
// ══════════════════════════════════════════════════════════════════════════════

// GetRiddleStatsQuery содержит параметры запроса.
type GetRiddleStatsQuery struct {
	// RiddleID - ID загадки.
	RiddleID string
}

// RiddleStatsDTO - агрегированная статистика загадки.
type RiddleStatsDTO struct {
	RiddleID string `json:"riddleId"`

	// TimesAnswered - количество ответов.
	TimesAnswered int `json:"timesAnswered"`

	// CorrectAnswers - количество ответов, принёсших очки.
	CorrectAnswers int `json:"correctAnswers"`

	// AvgScore - средний балл (2 знака).
	AvgScore float64 `json:"avgScore"`

	// AvgDistanceMeters - средняя дистанция промаха (2 знака).
	AvgDistanceMeters float64 `json:"avgDistanceMeters"`

	// AvgTimeSeconds - среднее время ответа (2 знака).
	AvgTimeSeconds float64 `json:"avgTimeSeconds"`

	GeneratedAt time.Time `json:"generatedAt"`
}

// GetRiddleStatsHandler обрабатывает запросы статистики загадки.
type GetRiddleStatsHandler struct {
	riddleRepo riddle.Repository
	ledger     submission.Ledger
}

// NewGetRiddleStatsHandler creates a new GetRiddleStatsHandler.
func NewGetRiddleStatsHandler(riddleRepo riddle.Repository, ledger submission.Ledger) *GetRiddleStatsHandler {
	return &GetRiddleStatsHandler{riddleRepo: riddleRepo, ledger: ledger}
}

// Handle выполняет запрос статистики загадки.
func (h *GetRiddleStatsHandler) Handle(ctx context.Context, q GetRiddleStatsQuery) (*RiddleStatsDTO, error) {
	if q.RiddleID == "" {
		return nil, shared.NewDomainError("riddle", "GetRiddleStats", shared.ErrInvalidID, "riddle_id is required")
	}

	id, err := shared.NewRiddleID(q.RiddleID)
	if err != nil {
		return nil, err
	}

	// Загадка должна существовать; отсутствие ответов - не ошибка.
	if _, err := h.riddleRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	subs, err := h.ledger.GetByRiddle(ctx, id)
	if err != nil {
		return nil, err
	}

	agg := submission.AggregateRiddle(subs)

	var correct int
	for _, s := range subs {
		if s.Correct {
			correct++
		}
	}

	return &RiddleStatsDTO{
		RiddleID:          string(id),
		TimesAnswered:     agg.TimesAnswered,
		CorrectAnswers:    correct,
		AvgScore:          agg.AvgScore,
		AvgDistanceMeters: agg.AvgDistanceMeters,
		AvgTimeSeconds:    agg.AvgTimeSeconds,
		GeneratedAt:       time.Now().UTC(),
	}, nil
}
