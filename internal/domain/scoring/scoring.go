// Package scoring содержит функцию подсчёта очков Guessnica.
// Это ядро бизнес-логики - здесь нет внешних зависимостей.
//
// Контракт фиксированный: затухание по дистанции считается ДО временного
// бонуса, оба округляются вниз (floor, не round). Порядок определяет
// воспроизводимость счёта между реализациями.
package scoring

import (
	"math"

	"github.com/guessnica/guessnica-server/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// DIFFICULTY
// ══════════════════════════════════════════════════════════════════════════════

// Difficulty определяет сложность загадки.
type Difficulty string

const (
	// DifficultyEasy - множитель 1.0.
	DifficultyEasy Difficulty = "easy"
	// DifficultyMedium - множитель 1.5.
	DifficultyMedium Difficulty = "medium"
	// DifficultyHard - множитель 2.0.
	DifficultyHard Difficulty = "hard"
)

// IsValid проверяет, что сложность известна.
func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Multiplier возвращает множитель базовых очков для сложности.
func (d Difficulty) Multiplier() float64 {
	switch d {
	case DifficultyMedium:
		return 1.5
	case DifficultyHard:
		return 2.0
	default:
		return 1.0
	}
}

// String возвращает строковое представление.
func (d Difficulty) String() string {
	return string(d)
}

// ParseDifficulty разбирает строку со сложностью (как приходит из админки).
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(s)
	if !d.IsValid() {
		return "", shared.ErrInvalidDifficulty
	}
	return d, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// CONFIG
// ══════════════════════════════════════════════════════════════════════════════

// Config - активная конфигурация скоринга (из админских настроек).
type Config struct {
	// PointsPerCorrectAnswer - базовые очки за правильный ответ (до множителя).
	PointsPerCorrectAnswer int

	// TimeBonusEnabled - включён ли временной бонус (до 20% от затухших очков).
	TimeBonusEnabled bool
}

// DefaultConfig возвращает конфигурацию по умолчанию (как в админке).
func DefaultConfig() Config {
	return Config{
		PointsPerCorrectAnswer: 100,
		TimeBonusEnabled:       true,
	}
}

// timeBonusShare - максимальная доля временного бонуса от базовых очков.
const timeBonusShare = 0.2

// ══════════════════════════════════════════════════════════════════════════════
// RULES (параметры загадки)
// ══════════════════════════════════════════════════════════════════════════════

// Rules - параметры конкретной загадки, влияющие на счёт.
type Rules struct {
	Difficulty       Difficulty
	MaxDistanceMeters float64
	TimeLimitSeconds  float64
}

// Validate проверяет параметры загадки.
func (r Rules) Validate() error {
	if !r.Difficulty.IsValid() {
		return shared.ErrInvalidDifficulty
	}
	if r.MaxDistanceMeters <= 0 {
		return shared.WrapError("scoring", "Validate", shared.ErrInvalidInput, "max distance must be positive", nil)
	}
	if r.TimeLimitSeconds <= 0 {
		return shared.WrapError("scoring", "Validate", shared.ErrInvalidInput, "time limit must be positive", nil)
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// RESULT
// ══════════════════════════════════════════════════════════════════════════════

// Result - результат подсчёта одной попытки.
type Result struct {
	// Score - итоговые очки (>= 0).
	Score int

	// Correct - принёс ли ответ очки. Попадание ровно на границу радиуса
	// затухает до нуля и правильным не считается: Correct <=> Score > 0.
	Correct bool

	// Base - базовые очки после множителя сложности (floor).
	Base int

	// Bonus - временной бонус (floor), 0 если бонус выключен или время вышло.
	Bonus int
}

// ══════════════════════════════════════════════════════════════════════════════
// SCORE FUNCTION
// ══════════════════════════════════════════════════════════════════════════════

// Score считает очки за одну попытку.
//
// Алгоритм (фиксированный контракт):
//  1. distance > maxDistance -> 0 очков, Correct=false.
//  2. base = floor(pointsPerCorrectAnswer * multiplier(difficulty)).
//  3. decayed = base * max(0, 1 - distance/maxDistance) - линейное затухание.
//  4. bonus = floor(decayed * 0.2 * max(0, 1 - elapsed/timeLimit)) при включённом
//     бонусе: бонус считается от затухших очков, поэтому промах на полдистанции
//     уменьшает и бонус тоже.
//  5. score = floor(decayed) + bonus, не меньше нуля; Correct = score > 0,
//     так что нулевое затухание на границе радиуса правильным не считается.
func Score(distanceMeters, elapsedSeconds float64, rules Rules, cfg Config) (Result, error) {
	if distanceMeters < 0 || math.IsNaN(distanceMeters) {
		return Result{}, shared.ErrNegativeDistance
	}
	if elapsedSeconds < 0 || math.IsNaN(elapsedSeconds) {
		return Result{}, shared.ErrNegativeElapsed
	}
	if err := rules.Validate(); err != nil {
		return Result{}, err
	}

	if distanceMeters > rules.MaxDistanceMeters {
		return Result{Score: 0, Correct: false}, nil
	}

	base := int(math.Floor(float64(cfg.PointsPerCorrectAnswer) * rules.Difficulty.Multiplier()))

	decayFactor := 1 - distanceMeters/rules.MaxDistanceMeters
	if decayFactor < 0 {
		decayFactor = 0
	}
	decayedExact := float64(base) * decayFactor
	decayed := int(math.Floor(decayedExact))

	bonus := 0
	if cfg.TimeBonusEnabled {
		timeFactor := 1 - elapsedSeconds/rules.TimeLimitSeconds
		if timeFactor < 0 {
			timeFactor = 0
		}
		// Бонус от затухших очков до их собственного floor,
		// floor применяется один раз к самому бонусу.
		bonus = int(math.Floor(decayedExact * timeBonusShare * timeFactor))
	}

	score := decayed + bonus
	if score < 0 {
		score = 0
	}

	return Result{
		Score:   score,
		Correct: score > 0,
		Base:    base,
		Bonus:   bonus,
	}, nil
}
