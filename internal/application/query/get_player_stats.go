package query

import (
	"context"
	"time"

	"github.com/guessnica/guessnica-server/internal/domain/leaderboard"
	"github.com/guessnica/guessnica-server/internal/domain/player"
	"github.com/guessnica/guessnica-server/internal/domain/shared"
	"github.com/guessnica/guessnica-server/internal/domain/submission"
	"github.com/guessnica/guessnica-server/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET PLAYER STATS QUERY
// Статистика игрока - это чистая свёртка его ответов из журнала:
// пустая история даёт нулевой агрегат, а не ошибку.
// ══════════════════════════════════════════════════════════════════════════════

// GetPlayerStatsQuery содержит параметры запроса статистики.
type GetPlayerStatsQuery struct {
	// PlayerID - ID игрока.
	PlayerID string

	// HistoryLimit - сколько последних ответов вернуть (0 = все).
	HistoryLimit int
}

// PlayerStatsDTO - агрегированная статистика игрока.
type PlayerStatsDTO struct {
	// RiddlesAnswered - количество отвеченных загадок.
	RiddlesAnswered int `json:"riddlesAnswered"`

	// TotalScore - суммарные очки за всю историю.
	TotalScore int `json:"totalScore"`

	// AverageScore - средний балл, округлённый до 2 знаков.
	AverageScore float64 `json:"averageScore"`

	// CorrectAnswers - количество правильных ответов.
	CorrectAnswers int `json:"correctAnswers"`

	// Accuracy - процент правильных ответов (0-100).
	Accuracy float64 `json:"accuracy"`

	// AverageTime - среднее время ответа в секундах.
	AverageTime float64 `json:"averageTime"`
}

// SubmissionHistoryDTO - одна строка истории ответов.
type SubmissionHistoryDTO struct {
	SubmissionID   string    `json:"submissionId"`
	RiddleID       string    `json:"riddleId"`
	Score          int       `json:"score"`
	Correct        bool      `json:"correct"`
	DistanceMeters float64   `json:"distanceMeters"`
	ElapsedSeconds float64   `json:"elapsedSeconds"`
	SubmittedAt    time.Time `json:"submittedAt"`
}

// GetPlayerStatsResult содержит статистику, ранги и историю игрока.
type GetPlayerStatsResult struct {
	PlayerID    string         `json:"playerId"`
	DisplayName string         `json:"displayName"`
	Stats       PlayerStatsDTO `json:"stats"`

	// Ranks - позиция игрока по очкам в каждом окне (0 = вне рейтинга).
	Ranks map[string]int `json:"ranks"`

	// History - последние ответы, новые первыми.
	History []SubmissionHistoryDTO `json:"history"`

	GeneratedAt time.Time `json:"generatedAt"`
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// GetPlayerStatsHandler обрабатывает запросы статистики игрока.
type GetPlayerStatsHandler struct {
	ledger     submission.Ledger
	playerRepo player.Repository
}

// NewGetPlayerStatsHandler creates a new GetPlayerStatsHandler.
func NewGetPlayerStatsHandler(ledger submission.Ledger, playerRepo player.Repository) *GetPlayerStatsHandler {
	return &GetPlayerStatsHandler{ledger: ledger, playerRepo: playerRepo}
}

// Handle выполняет запрос статистики.
func (h *GetPlayerStatsHandler) Handle(ctx context.Context, q GetPlayerStatsQuery) (*GetPlayerStatsResult, error) {
	if q.PlayerID == "" {
		return nil, shared.NewDomainError("player", "GetPlayerStats", shared.ErrInvalidID, "player_id is required")
	}

	p, err := h.playerRepo.GetByID(ctx, shared.PlayerID(q.PlayerID))
	if err != nil {
		return nil, err
	}

	subs, err := h.ledger.GetByPlayer(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	agg := submission.AggregatePlayer(subs)

	var correct int
	var seconds float64
	for _, s := range subs {
		if s.Correct {
			correct++
		}
		seconds += s.ElapsedSeconds
	}

	stats := PlayerStatsDTO{
		RiddlesAnswered: agg.RiddlesAnswered,
		TotalScore:      agg.TotalScore,
		AverageScore:    agg.AverageScore,
		CorrectAnswers:  correct,
	}
	if len(subs) > 0 {
		stats.Accuracy = float64(correct) / float64(len(subs)) * 100
		stats.AverageTime = seconds / float64(len(subs))
	}

	ranks, err := h.ranks(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	return &GetPlayerStatsResult{
		PlayerID:    string(p.ID),
		DisplayName: p.DisplayName,
		Stats:       stats,
		Ranks:       ranks,
		History:     historyDTO(subs, q.HistoryLimit),
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// ranks считает позицию игрока по очкам в каждом окне.
func (h *GetPlayerStatsHandler) ranks(ctx context.Context, id shared.PlayerID) (map[string]int, error) {
	now := time.Now().UTC()
	out := make(map[string]int, len(timeutil.AllWindows()))

	for _, w := range timeutil.AllWindows() {
		entries, err := ComputeLeaderboard(ctx, h.ledger, h.playerRepo, leaderboard.CategoryScore, w, now)
		if err != nil {
			return nil, err
		}
		if e, ok := leaderboard.PositionOf(entries, id); ok {
			out[string(w)] = int(e.Rank)
		} else {
			out[string(w)] = int(shared.RankUnranked)
		}
	}
	return out, nil
}

func historyDTO(subs []*submission.Submission, limit int) []SubmissionHistoryDTO {
	// Журнал отдаёт старые первыми; история - новые первыми.
	out := make([]SubmissionHistoryDTO, 0, len(subs))
	for i := len(subs) - 1; i >= 0; i-- {
		s := subs[i]
		out = append(out, SubmissionHistoryDTO{
			SubmissionID:   s.ID,
			RiddleID:       string(s.RiddleID),
			Score:          s.Score,
			Correct:        s.Correct,
			DistanceMeters: s.DistanceMeters,
			ElapsedSeconds: s.ElapsedSeconds,
			SubmittedAt:    s.CreatedAt,
		})
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}
