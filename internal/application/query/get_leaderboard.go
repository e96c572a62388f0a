// Package query contains read operations following CQRS pattern.
// Queries never modify state - they only read and return data.
// Each query is a self-contained use case with its own request/response types.
package query

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/guessnica/guessnica-server/internal/domain/leaderboard"
	"github.com/guessnica/guessnica-server/internal/domain/player"
	"github.com/guessnica/guessnica-server/internal/domain/shared"
	"github.com/guessnica/guessnica-server/internal/domain/submission"
	"github.com/guessnica/guessnica-server/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET LEADERBOARD QUERY
// Отдаёт рейтинг по паре (категория, окно). Сначала пробуем снапшот
// из кеша; при промахе или недоступности кеша считаем рейтинг напрямую
// из журнала ответов - кеш это оптимизация, а не источник истины.
// ══════════════════════════════════════════════════════════════════════════════

// GetLeaderboardQuery содержит параметры запроса лидерборда.
type GetLeaderboardQuery struct {
	// Category - метрика рейтинга ("score", "accuracy", "gamesPlayed", "averageTime").
	Category string

	// TimeRange - окно ("daily", "weekly", "monthly", "allTime").
	TimeRange string

	// Limit - количество записей (по умолчанию 20, максимум 100).
	Limit int
}

// Validate проверяет корректность параметров запроса.
func (q *GetLeaderboardQuery) Validate() error {
	if q.Limit < 0 {
		return errors.New("limit cannot be negative")
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
	if q.Limit == 0 {
		q.Limit = 20
	}
	return nil
}

// LeaderboardEntryDTO - DTO для записи лидерборда.
type LeaderboardEntryDTO struct {
	// Rank - позиция в рейтинге (начиная с 1, плотные ранги).
	Rank int `json:"rank"`

	// PlayerID - ID игрока.
	PlayerID string `json:"playerId"`

	// DisplayName - отображаемое имя.
	DisplayName string `json:"displayName"`

	// Score - суммарные очки за окно.
	Score int `json:"score"`

	// GamesPlayed - количество ответов за окно.
	GamesPlayed int `json:"gamesPlayed"`

	// Accuracy - процент правильных ответов (0-100).
	Accuracy float64 `json:"accuracy"`

	// AverageTime - среднее время ответа в секундах.
	AverageTime float64 `json:"averageTime"`

	// AverageTimeDisplay - то же время в формате "M:SS" для фронтенда.
	AverageTimeDisplay string `json:"averageTimeDisplay"`
}

// GetLeaderboardResult содержит результат запроса лидерборда.
type GetLeaderboardResult struct {
	// Entries - записи лидерборда.
	Entries []LeaderboardEntryDTO `json:"entries"`

	// Category и TimeRange - эхо параметров запроса.
	Category  string `json:"category"`
	TimeRange string `json:"timeRange"`

	// TotalPlayers - количество игроков в рейтинге до обрезки по Limit.
	TotalPlayers int `json:"totalPlayers"`

	// FromCache - отдан ли результат из снапшота.
	FromCache bool `json:"fromCache"`

	// GeneratedAt - время генерации результата.
	GeneratedAt time.Time `json:"generatedAt"`
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// GetLeaderboardHandler обрабатывает запросы лидерборда.
type GetLeaderboardHandler struct {
	ledger     submission.Ledger
	playerRepo player.Repository
	cache      leaderboard.Cache
	logger     *slog.Logger
}

// NewGetLeaderboardHandler creates a new GetLeaderboardHandler.
func NewGetLeaderboardHandler(
	ledger submission.Ledger,
	playerRepo player.Repository,
	cache leaderboard.Cache,
	logger *slog.Logger,
) *GetLeaderboardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GetLeaderboardHandler{
		ledger:     ledger,
		playerRepo: playerRepo,
		cache:      cache,
		logger:     logger,
	}
}

// Handle выполняет запрос лидерборда.
func (h *GetLeaderboardHandler) Handle(ctx context.Context, q GetLeaderboardQuery) (*GetLeaderboardResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	category, err := leaderboard.ParseCategory(q.Category)
	if err != nil {
		return nil, err
	}
	window, err := timeutil.ParseWindow(q.TimeRange)
	if err != nil {
		return nil, err
	}

	entries, fromCache, err := h.entries(ctx, category, window)
	if err != nil {
		return nil, err
	}

	total := len(entries)
	top := leaderboard.Top(entries, q.Limit)

	dtos := make([]LeaderboardEntryDTO, len(top))
	for i, e := range top {
		dtos[i] = entryDTO(e)
	}

	return &GetLeaderboardResult{
		Entries:      dtos,
		Category:     string(category),
		TimeRange:    string(window),
		TotalPlayers: total,
		FromCache:    fromCache,
		GeneratedAt:  time.Now().UTC(),
	}, nil
}

// entries отдаёт снапшот из кеша, а при промахе считает рейтинг из журнала.
func (h *GetLeaderboardHandler) entries(ctx context.Context, category leaderboard.Category, window timeutil.Window) ([]leaderboard.Entry, bool, error) {
	if h.cache != nil {
		snap, ok, err := h.cache.Load(ctx, category, string(window))
		if err != nil {
			h.logger.Warn("leaderboard cache unavailable, falling back to ledger",
				slog.String("error", err.Error()),
			)
		} else if ok {
			return snap.Entries, true, nil
		}
	}

	entries, err := ComputeLeaderboard(ctx, h.ledger, h.playerRepo, category, window, time.Now().UTC())
	if err != nil {
		return nil, false, err
	}
	return entries, false, nil
}

// ComputeLeaderboard считает рейтинг напрямую из журнала ответов.
// Используется и обработчиком запроса, и проекцией, обновляющей кеш.
func ComputeLeaderboard(
	ctx context.Context,
	ledger submission.Ledger,
	playerRepo player.Repository,
	category leaderboard.Category,
	window timeutil.Window,
	now time.Time,
) ([]leaderboard.Entry, error) {
	subs, err := ledger.GetSince(ctx, window.CutoffAt(now))
	if err != nil {
		return nil, err
	}

	names, err := displayNames(ctx, playerRepo, subs)
	if err != nil {
		return nil, err
	}

	return leaderboard.Rank(subs, category, window, now, names), nil
}

func displayNames(ctx context.Context, playerRepo player.Repository, subs []*submission.Submission) (map[shared.PlayerID]string, error) {
	seen := make(map[shared.PlayerID]struct{})
	ids := make([]shared.PlayerID, 0)
	for _, s := range subs {
		if _, ok := seen[s.PlayerID]; ok {
			continue
		}
		seen[s.PlayerID] = struct{}{}
		ids = append(ids, s.PlayerID)
	}

	players, err := playerRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	names := make(map[shared.PlayerID]string, len(players))
	for id, p := range players {
		names[id] = p.DisplayName
	}
	return names, nil
}

func entryDTO(e leaderboard.Entry) LeaderboardEntryDTO {
	return LeaderboardEntryDTO{
		Rank:               int(e.Rank),
		PlayerID:           string(e.PlayerID),
		DisplayName:        e.DisplayName,
		Score:              e.Score,
		GamesPlayed:        e.GamesPlayed,
		Accuracy:           e.Accuracy,
		AverageTime:        e.AverageTime,
		AverageTimeDisplay: timeutil.FormatSeconds(e.AverageTime),
	}
}
