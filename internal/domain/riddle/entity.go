// Package riddle содержит доменную модель локаций и загадок Guessnica.
// Загадка - это локация, предложенная игрокам на конкретный день,
// с правилами сложности, лимита времени и допустимого радиуса.
package riddle

import (
	"strings"
	"time"

	"github.com/guessnica/guessnica-server/internal/domain/geo"
	"github.com/guessnica/guessnica-server/internal/domain/scoring"
	"github.com/guessnica/guessnica-server/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// LOCATION
// ══════════════════════════════════════════════════════════════════════════════

// Location - целевая точка на карте.
// После первой ссылки из Submission локация считается неизменяемой:
// правки админа не пересчитывают уже выставленные очки.
type Location struct {
	// ID - уникальный идентификатор локации.
	ID shared.LocationID

	// Point - координаты цели.
	Point geo.Point

	// Description - короткое описание места.
	Description string

	// ImageURL - ссылка на фотографию места.
	ImageURL string

	// CreatedBy - идентификатор админа, создавшего локацию.
	CreatedBy string

	// CreatedAt - время создания.
	CreatedAt time.Time
}

// NewLocation создаёт локацию с валидацией.
func NewLocation(lat, lng float64, description, imageURL, createdBy string) (*Location, error) {
	point, err := geo.NewPoint(lat, lng)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(description) == "" {
		return nil, shared.WrapError("riddle", "CreateLocation", shared.ErrEmptyValue, "description is required", nil)
	}

	return &Location{
		ID:          shared.LocationID(shared.NewID()),
		Point:       point,
		Description: strings.TrimSpace(description),
		ImageURL:    strings.TrimSpace(imageURL),
		CreatedBy:   createdBy,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// RIDDLE
// ══════════════════════════════════════════════════════════════════════════════

// Riddle - экземпляр локации, предложенный для игры.
type Riddle struct {
	// ID - уникальный идентификатор загадки.
	ID shared.RiddleID

	// LocationID - ссылка на целевую локацию.
	LocationID shared.LocationID

	// Difficulty - сложность (определяет множитель базовых очков).
	Difficulty scoring.Difficulty

	// TimeLimitSeconds - лимит времени на ответ.
	TimeLimitSeconds float64

	// MaxDistanceMeters - допустимый радиус попадания.
	MaxDistanceMeters float64

	// ActiveDate - день (UTC), в который загадка активна.
	ActiveDate time.Time

	// CreatedAt - время создания.
	CreatedAt time.Time
}

// NewRiddle создаёт загадку с валидацией.
func NewRiddle(locationID shared.LocationID, difficulty scoring.Difficulty, timeLimitSeconds, maxDistanceMeters float64, activeDate time.Time) (*Riddle, error) {
	r := &Riddle{
		ID:                shared.RiddleID(shared.NewID()),
		LocationID:        locationID,
		Difficulty:        difficulty,
		TimeLimitSeconds:  timeLimitSeconds,
		MaxDistanceMeters: maxDistanceMeters,
		ActiveDate:        activeDate.UTC().Truncate(24 * time.Hour),
		CreatedAt:         time.Now().UTC(),
	}
	if err := r.Rules().Validate(); err != nil {
		return nil, err
	}
	if !r.LocationID.IsValid() {
		return nil, shared.WrapError("riddle", "Create", shared.ErrInvalidID, "location id must be a UUID", nil)
	}
	return r, nil
}

// Rules возвращает параметры скоринга для загадки.
func (r *Riddle) Rules() scoring.Rules {
	return scoring.Rules{
		Difficulty:        r.Difficulty,
		MaxDistanceMeters: r.MaxDistanceMeters,
		TimeLimitSeconds:  r.TimeLimitSeconds,
	}
}

// IsActiveAt проверяет, активна ли загадка в указанный момент.
// Окно активности - весь день ActiveDate (UTC).
func (r *Riddle) IsActiveAt(t time.Time) bool {
	t = t.UTC()
	start := r.ActiveDate
	end := start.Add(24 * time.Hour)
	return !t.Before(start) && t.Before(end)
}

// IsExpiredAt проверяет, закончилось ли окно активности.
func (r *Riddle) IsExpiredAt(t time.Time) bool {
	return t.UTC().After(r.ActiveDate.Add(24 * time.Hour))
}
