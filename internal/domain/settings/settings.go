// Package settings содержит админские настройки игры Guessnica.
// Настройки хранятся одной записью и правятся только из админки;
// скоринг читает актуальную конфигурацию на момент ответа, уже
// выставленные очки никогда не пересчитываются.
package settings

import (
	"context"

	"github.com/guessnica/guessnica-server/internal/domain/scoring"
	"github.com/guessnica/guessnica-server/internal/domain/shared"
	"github.com/guessnica/guessnica-server/pkg/timeutil"
)

// Settings - настройки игры, доступные администратору.
type Settings struct {
	// RiddleTime - время публикации загадки дня ("HH:MM:SS").
	RiddleTime string `json:"riddleTime"`

	// MaxDistance - радиус попадания по умолчанию для новых загадок (метры).
	MaxDistance float64 `json:"maxDistance"`

	// PodiumPeriod - период подиума на дашборде (дни).
	PodiumPeriod int `json:"podiumPeriod"`

	// GameActive - глобальный выключатель приёма ответов.
	GameActive bool `json:"gameActive"`

	// AllowRegistration - разрешена ли регистрация новых игроков.
	AllowRegistration bool `json:"allowRegistration"`

	// MaxRiddlesPerDay - лимит загадок на игрока в сутки (UTC).
	MaxRiddlesPerDay int `json:"maxRiddlesPerDay"`

	// PointsPerCorrectAnswer - базовые очки за правильный ответ.
	PointsPerCorrectAnswer int `json:"pointsPerCorrectAnswer"`

	// TimeBonusEnabled - включён ли временной бонус.
	TimeBonusEnabled bool `json:"timeBonusEnabled"`
}

// Default возвращает настройки по умолчанию (как в админке фронтенда).
func Default() Settings {
	return Settings{
		RiddleTime:             "09:00:00",
		MaxDistance:            100,
		PodiumPeriod:           7,
		GameActive:             true,
		AllowRegistration:      true,
		MaxRiddlesPerDay:       5,
		PointsPerCorrectAnswer: 100,
		TimeBonusEnabled:       true,
	}
}

// Validate проверяет корректность настроек перед сохранением.
func (s Settings) Validate() error {
	if _, err := timeutil.ParseClockTime(s.RiddleTime); err != nil {
		return shared.WrapError("settings", "Validate", shared.ErrInvalidFormat, "riddleTime must be HH:MM:SS", err)
	}
	if s.MaxDistance <= 0 {
		return shared.WrapError("settings", "Validate", shared.ErrValueOutOfRange, "maxDistance must be positive", nil)
	}
	if s.PodiumPeriod < 1 {
		return shared.WrapError("settings", "Validate", shared.ErrValueOutOfRange, "podiumPeriod must be at least 1 day", nil)
	}
	if s.MaxRiddlesPerDay < 1 {
		return shared.WrapError("settings", "Validate", shared.ErrValueOutOfRange, "maxRiddlesPerDay must be at least 1", nil)
	}
	if s.PointsPerCorrectAnswer < 1 {
		return shared.WrapError("settings", "Validate", shared.ErrValueOutOfRange, "pointsPerCorrectAnswer must be positive", nil)
	}
	return nil
}

// ScoringConfig возвращает часть настроек, нужную функции подсчёта очков.
func (s Settings) ScoringConfig() scoring.Config {
	return scoring.Config{
		PointsPerCorrectAnswer: s.PointsPerCorrectAnswer,
		TimeBonusEnabled:       s.TimeBonusEnabled,
	}
}

// Repository определяет контракт хранилища настроек.
type Repository interface {
	// Get возвращает текущие настройки (или Default, если их ещё не сохраняли).
	Get(ctx context.Context) (Settings, error)

	// Save сохраняет настройки целиком.
	Save(ctx context.Context, s Settings) error
}
