package riddle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guessnica/guessnica-server/internal/domain/scoring"
	"github.com/guessnica/guessnica-server/internal/domain/shared"
)

func TestNewLocation(t *testing.T) {
	loc, err := NewLocation(55.7558, 37.6173, "  Красная площадь  ", "https://example.com/red.jpg", "admin")
	require.NoError(t, err)

	assert.True(t, loc.ID.IsValid())
	assert.Equal(t, "Красная площадь", loc.Description)
	assert.Equal(t, 55.7558, loc.Point.Lat)

	_, err = NewLocation(95, 0, "место", "", "admin")
	assert.ErrorIs(t, err, shared.ErrInvalidCoordinate)

	_, err = NewLocation(0, 0, "   ", "", "admin")
	assert.ErrorIs(t, err, shared.ErrEmptyValue)
}

func TestNewRiddle(t *testing.T) {
	loc, err := NewLocation(55.7558, 37.6173, "место", "", "admin")
	require.NoError(t, err)

	activeDate := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	rd, err := NewRiddle(loc.ID, scoring.DifficultyHard, 300, 100, activeDate)
	require.NoError(t, err)

	// Активная дата нормализуется к полуночи UTC.
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), rd.ActiveDate)
	assert.Equal(t, scoring.DifficultyHard, rd.Rules().Difficulty)

	_, err = NewRiddle(loc.ID, "impossible", 300, 100, activeDate)
	assert.ErrorIs(t, err, shared.ErrInvalidDifficulty)

	_, err = NewRiddle(loc.ID, scoring.DifficultyEasy, 0, 100, activeDate)
	assert.Error(t, err)

	_, err = NewRiddle("not-a-uuid", scoring.DifficultyEasy, 300, 100, activeDate)
	assert.ErrorIs(t, err, shared.ErrInvalidID)
}

func TestRiddleActivityWindow(t *testing.T) {
	loc, err := NewLocation(55.7558, 37.6173, "место", "", "admin")
	require.NoError(t, err)

	activeDate := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	rd, err := NewRiddle(loc.ID, scoring.DifficultyEasy, 300, 100, activeDate)
	require.NoError(t, err)

	assert.True(t, rd.IsActiveAt(activeDate))
	assert.True(t, rd.IsActiveAt(activeDate.Add(23*time.Hour+59*time.Minute)))
	assert.False(t, rd.IsActiveAt(activeDate.Add(-time.Nanosecond)))
	assert.False(t, rd.IsActiveAt(activeDate.Add(24*time.Hour)))

	assert.False(t, rd.IsExpiredAt(activeDate.Add(23*time.Hour)))
	assert.True(t, rd.IsExpiredAt(activeDate.Add(25*time.Hour)))

	// Местное время приводится к UTC перед проверкой.
	msk := time.FixedZone("MSK", 3*60*60)
	assert.True(t, rd.IsActiveAt(time.Date(2026, 3, 11, 1, 0, 0, 0, msk)))
}
