package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guessnica/guessnica-server/internal/domain/shared"
)

func defaultRules() Rules {
	return Rules{
		Difficulty:        DifficultyEasy,
		MaxDistanceMeters: 1000,
		TimeLimitSeconds:  300,
	}
}

func TestScore_ReferenceExample(t *testing.T) {
	// Easy, 100 очков, radius 1000 м, лимит 300 с, промах 500 м за 150 с:
	// base=100, затухание 0.5 -> 50, бонус floor(50*0.2*0.5)=5, итог 55.
	res, err := Score(500, 150, defaultRules(), DefaultConfig())
	require.NoError(t, err)

	assert.True(t, res.Correct)
	assert.Equal(t, 100, res.Base)
	assert.Equal(t, 5, res.Bonus)
	assert.Equal(t, 55, res.Score)
}

func TestScore_PerfectInstantAnswer(t *testing.T) {
	// d=0, t=0 при включённом бонусе: полные очки плюс 20%.
	res, err := Score(0, 0, defaultRules(), DefaultConfig())
	require.NoError(t, err)

	assert.True(t, res.Correct)
	assert.Equal(t, 120, res.Score)
	assert.Equal(t, 20, res.Bonus)
}

func TestScore_DifficultyMultipliers(t *testing.T) {
	tests := []struct {
		difficulty Difficulty
		wantBase   int
		wantScore  int
	}{
		{DifficultyEasy, 100, 120},
		{DifficultyMedium, 150, 180},
		{DifficultyHard, 200, 240},
	}

	for _, tt := range tests {
		t.Run(string(tt.difficulty), func(t *testing.T) {
			rules := defaultRules()
			rules.Difficulty = tt.difficulty

			res, err := Score(0, 0, rules, DefaultConfig())
			require.NoError(t, err)
			assert.Equal(t, tt.wantBase, res.Base)
			assert.Equal(t, tt.wantScore, res.Score)
		})
	}
}

func TestScore_BeyondMaxDistance(t *testing.T) {
	res, err := Score(1001, 0, defaultRules(), DefaultConfig())
	require.NoError(t, err)

	assert.False(t, res.Correct)
	assert.Equal(t, 0, res.Score)
	assert.Equal(t, 0, res.Bonus)
}

func TestScore_ExactlyMaxDistance(t *testing.T) {
	// Ровно на границе радиуса затухание обнуляет очки,
	// а ответ без очков правильным не считается.
	res, err := Score(1000, 0, defaultRules(), DefaultConfig())
	require.NoError(t, err)

	assert.False(t, res.Correct)
	assert.Equal(t, 0, res.Score)
}

func TestScore_NearMaxDistanceFloorsToZero(t *testing.T) {
	// 995 м из 1000: затухание даёт 0.5 очка, floor -> 0, бонус от 0.5
	// тоже floor -> 0. Итог ноль, значит Correct=false.
	res, err := Score(995, 299, defaultRules(), DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, 0, res.Score)
	assert.False(t, res.Correct)
}

func TestScore_TimeLimitExceeded(t *testing.T) {
	// Время вышло: бонуса нет, затухание остаётся.
	res, err := Score(500, 400, defaultRules(), DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, 0, res.Bonus)
	assert.Equal(t, 50, res.Score)
}

func TestScore_BonusDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TimeBonusEnabled = false

	res, err := Score(0, 0, defaultRules(), cfg)
	require.NoError(t, err)

	assert.Equal(t, 0, res.Bonus)
	assert.Equal(t, 100, res.Score)
}

func TestScore_NegativeInputs(t *testing.T) {
	_, err := Score(-1, 0, defaultRules(), DefaultConfig())
	assert.ErrorIs(t, err, shared.ErrNegativeDistance)

	_, err = Score(0, -1, defaultRules(), DefaultConfig())
	assert.ErrorIs(t, err, shared.ErrNegativeElapsed)
}

func TestScore_InvalidRules(t *testing.T) {
	rules := defaultRules()
	rules.MaxDistanceMeters = 0
	_, err := Score(0, 0, rules, DefaultConfig())
	assert.Error(t, err)

	rules = defaultRules()
	rules.Difficulty = "nightmare"
	_, err = Score(0, 0, rules, DefaultConfig())
	assert.ErrorIs(t, err, shared.ErrInvalidDifficulty)
}

func TestParseDifficulty(t *testing.T) {
	d, err := ParseDifficulty("medium")
	require.NoError(t, err)
	assert.Equal(t, DifficultyMedium, d)
	assert.Equal(t, 1.5, d.Multiplier())

	_, err = ParseDifficulty("MEDIUM")
	assert.ErrorIs(t, err, shared.ErrInvalidDifficulty)
}
