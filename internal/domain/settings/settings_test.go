package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guessnica/guessnica-server/internal/domain/shared"
)

func TestDefault(t *testing.T) {
	s := Default()
	require.NoError(t, s.Validate())
	assert.Equal(t, "09:00:00", s.RiddleTime)
	assert.Equal(t, 100.0, s.MaxDistance)
	assert.True(t, s.GameActive)
	assert.Equal(t, 5, s.MaxRiddlesPerDay)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
		kind   error
	}{
		{"bad riddle time", func(s *Settings) { s.RiddleTime = "25:00:00" }, shared.ErrInvalidFormat},
		{"zero distance", func(s *Settings) { s.MaxDistance = 0 }, shared.ErrValueOutOfRange},
		{"negative distance", func(s *Settings) { s.MaxDistance = -5 }, shared.ErrValueOutOfRange},
		{"zero podium period", func(s *Settings) { s.PodiumPeriod = 0 }, shared.ErrValueOutOfRange},
		{"zero daily limit", func(s *Settings) { s.MaxRiddlesPerDay = 0 }, shared.ErrValueOutOfRange},
		{"zero points", func(s *Settings) { s.PointsPerCorrectAnswer = 0 }, shared.ErrValueOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.mutate(&s)
			err := s.Validate()
			assert.ErrorIs(t, err, tt.kind)
		})
	}
}

func TestScoringConfig(t *testing.T) {
	s := Default()
	s.PointsPerCorrectAnswer = 250
	s.TimeBonusEnabled = false

	cfg := s.ScoringConfig()
	assert.Equal(t, 250, cfg.PointsPerCorrectAnswer)
	assert.False(t, cfg.TimeBonusEnabled)
}
