package submission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guessnica/guessnica-server/internal/domain/shared"
)

func TestAggregatePlayer(t *testing.T) {
	subs := []*Submission{
		{Score: 100},
		{Score: 55},
		{Score: 0},
	}

	agg := AggregatePlayer(subs)
	assert.Equal(t, 3, agg.RiddlesAnswered)
	assert.Equal(t, 155, agg.TotalScore)
	assert.Equal(t, 51.67, agg.AverageScore)
}

func TestAggregatePlayer_Empty(t *testing.T) {
	agg := AggregatePlayer(nil)
	assert.Equal(t, 0, agg.RiddlesAnswered)
	assert.Equal(t, 0, agg.TotalScore)
	assert.Equal(t, 0.0, agg.AverageScore)
}

func TestAggregatePlayer_Idempotent(t *testing.T) {
	subs := []*Submission{
		{Score: 120, DistanceMeters: 12.5, ElapsedSeconds: 31},
		{Score: 80, DistanceMeters: 44.0, ElapsedSeconds: 95},
	}

	first := AggregatePlayer(subs)
	second := AggregatePlayer(subs)
	assert.Equal(t, first, second)
}

func TestAggregateRiddle(t *testing.T) {
	subs := []*Submission{
		{Score: 100, DistanceMeters: 10, ElapsedSeconds: 30},
		{Score: 50, DistanceMeters: 55.333, ElapsedSeconds: 61},
	}

	agg := AggregateRiddle(subs)
	assert.Equal(t, 2, agg.TimesAnswered)
	assert.Equal(t, 75.0, agg.AvgScore)
	assert.Equal(t, 32.67, agg.AvgDistanceMeters)
	assert.Equal(t, 45.5, agg.AvgTimeSeconds)
}

func TestAggregateRiddle_Empty(t *testing.T) {
	agg := AggregateRiddle([]*Submission{})
	assert.Equal(t, 0, agg.TimesAnswered)
	assert.Equal(t, 0.0, agg.AvgScore)
	assert.Equal(t, 0.0, agg.AvgDistanceMeters)
	assert.Equal(t, 0.0, agg.AvgTimeSeconds)
}

func TestNew_Validation(t *testing.T) {
	playerID := shared.PlayerID(shared.NewID())
	riddleID := shared.RiddleID(shared.NewID())

	s, err := New(playerID, riddleID, 55.75, 37.61, 42, 12.5, 90, true)
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, playerID, s.PlayerID)
	assert.False(t, s.CreatedAt.IsZero())
	assert.Equal(t, "UTC", s.CreatedAt.Location().String())

	_, err = New("", riddleID, 0, 0, 0, 0, 0, false)
	assert.ErrorIs(t, err, shared.ErrInvalidID)

	_, err = New(playerID, "", 0, 0, 0, 0, 0, false)
	assert.ErrorIs(t, err, shared.ErrInvalidID)

	_, err = New(playerID, riddleID, 0, 0, -1, 0, 0, false)
	assert.ErrorIs(t, err, shared.ErrNegativeElapsed)

	_, err = New(playerID, riddleID, 0, 0, 0, -1, 0, false)
	assert.ErrorIs(t, err, shared.ErrNegativeDistance)

	_, err = New(playerID, riddleID, 0, 0, 0, 0, -5, true)
	assert.ErrorIs(t, err, shared.ErrNegativeValue)
}

func TestClone(t *testing.T) {
	s, err := New(shared.PlayerID(shared.NewID()), shared.RiddleID(shared.NewID()), 1, 2, 3, 4, 5, true)
	require.NoError(t, err)

	c := s.Clone()
	require.NotSame(t, s, c)
	assert.Equal(t, *s, *c)

	c.Score = 999
	assert.Equal(t, 5, s.Score)

	var nilSub *Submission
	assert.Nil(t, nilSub.Clone())
}
