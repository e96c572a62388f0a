package query

import (
	"context"
	"math"
	"time"

	"github.com/guessnica/guessnica-server/internal/domain/player"
	"github.com/guessnica/guessnica-server/internal/domain/riddle"
	"github.com/guessnica/guessnica-server/internal/domain/settings"
	"github.com/guessnica/guessnica-server/internal/domain/shared"
	"github.com/guessnica/guessnica-server/internal/domain/submission"
	"github.com/guessnica/guessnica-server/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET ADMIN STATS QUERY
// Сводка для админ-дашборда: размеры справочников, активность за сутки
// и за окно подиума (настраиваемое числом дней).
// ══════════════════════════════════════════════════════════════════════════════

// GetAdminStatsQuery - параметры сводки.
type GetAdminStatsQuery struct {
	// RangeDays - окно активности в днях. 0 означает окно по умолчанию
	// из настроек (podiumPeriod).
	RangeDays int
}

// AdminStatsDTO - сводка для дашборда администратора.
type AdminStatsDTO struct {
	// TotalPlayers - всего зарегистрировано игроков.
	TotalPlayers int `json:"totalPlayers"`

	// TotalLocations - всего локаций.
	TotalLocations int `json:"totalLocations"`

	// TotalRiddles - всего загадок.
	TotalRiddles int `json:"totalRiddles"`

	// TotalSubmissions - размер журнала ответов.
	TotalSubmissions int `json:"totalSubmissions"`

	// SubmissionsToday - ответов за текущий UTC-день.
	SubmissionsToday int `json:"submissionsToday"`

	// ActivePlayersToday - уникальных игроков за текущий UTC-день.
	ActivePlayersToday int `json:"activePlayersToday"`

	// RangeDays - фактическое окно активности в днях.
	RangeDays int `json:"rangeDays"`

	// SubmissionsInRange - ответов за окно.
	SubmissionsInRange int `json:"submissionsInRange"`

	// ActivePlayersInRange - уникальных игроков за окно.
	ActivePlayersInRange int `json:"activePlayersInRange"`

	// AverageScoreInRange - средний счёт ответа за окно (2 знака).
	AverageScoreInRange float64 `json:"averageScoreInRange"`

	GeneratedAt time.Time `json:"generatedAt"`
}

// GetAdminStatsHandler обрабатывает запрос сводки.
type GetAdminStatsHandler struct {
	ledger       submission.Ledger
	playerRepo   player.Repository
	riddleRepo   riddle.Repository
	locationRepo riddle.LocationRepository
	settingsRepo settings.Repository
}

// NewGetAdminStatsHandler creates a new GetAdminStatsHandler.
func NewGetAdminStatsHandler(
	ledger submission.Ledger,
	playerRepo player.Repository,
	riddleRepo riddle.Repository,
	locationRepo riddle.LocationRepository,
	settingsRepo settings.Repository,
) *GetAdminStatsHandler {
	return &GetAdminStatsHandler{
		ledger:       ledger,
		playerRepo:   playerRepo,
		riddleRepo:   riddleRepo,
		locationRepo: locationRepo,
		settingsRepo: settingsRepo,
	}
}

// Handle выполняет запрос сводки.
func (h *GetAdminStatsHandler) Handle(ctx context.Context, q GetAdminStatsQuery) (*AdminStatsDTO, error) {
	if q.RangeDays < 0 {
		return nil, shared.WrapError("query", "GetAdminStats", shared.ErrInvalidInput, "range must be non-negative", nil)
	}

	rangeDays := q.RangeDays
	if rangeDays == 0 {
		cfg, err := h.settingsRepo.Get(ctx)
		if err != nil {
			return nil, err
		}
		rangeDays = cfg.PodiumPeriod
	}

	now := time.Now().UTC()

	players, err := h.playerRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	locations, err := h.locationRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	riddles, err := h.riddleRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	total, err := h.ledger.Count(ctx)
	if err != nil {
		return nil, err
	}

	inRange, err := h.ledger.GetSince(ctx, now.AddDate(0, 0, -rangeDays))
	if err != nil {
		return nil, err
	}

	startOfDay := timeutil.StartOfDayUTC(now)
	var (
		today       int
		scoreSum    int
		activeRange = make(map[string]struct{})
		activeToday = make(map[string]struct{})
	)
	for _, s := range inRange {
		activeRange[string(s.PlayerID)] = struct{}{}
		scoreSum += s.Score
		if !s.CreatedAt.Before(startOfDay) {
			today++
			activeToday[string(s.PlayerID)] = struct{}{}
		}
	}

	avgScore := 0.0
	if len(inRange) > 0 {
		avgScore = math.Round(float64(scoreSum)/float64(len(inRange))*100) / 100
	}

	return &AdminStatsDTO{
		TotalPlayers:         players,
		TotalLocations:       len(locations),
		TotalRiddles:         len(riddles),
		TotalSubmissions:     total,
		SubmissionsToday:     today,
		ActivePlayersToday:   len(activeToday),
		RangeDays:            rangeDays,
		SubmissionsInRange:   len(inRange),
		ActivePlayersInRange: len(activeRange),
		AverageScoreInRange:  avgScore,
		GeneratedAt:          now,
	}, nil
}
