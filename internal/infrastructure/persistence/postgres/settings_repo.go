package postgres

import (
	"context"
	"time"

	"github.com/guessnica/guessnica-server/internal/domain/settings"
	"github.com/guessnica/guessnica-server/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// SETTINGS REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// SettingsRepository implements settings.Repository for PostgreSQL.
// Settings live in a singleton row seeded by the migration.
type SettingsRepository struct {
	conn *Connection
}

// NewSettingsRepository creates a new SettingsRepository.
func NewSettingsRepository(conn *Connection) *SettingsRepository {
	return &SettingsRepository{conn: conn}
}

// Get returns the current game settings.
func (r *SettingsRepository) Get(ctx context.Context) (settings.Settings, error) {
	query := `
		SELECT riddle_time, max_distance, podium_period, game_active,
		       allow_registration, max_riddles_per_day, points_per_correct_answer,
		       time_bonus_enabled
		FROM game_settings WHERE id = 1
	`

	var s settings.Settings
	err := r.conn.QueryRow(ctx, query).Scan(
		&s.RiddleTime,
		&s.MaxDistance,
		&s.PodiumPeriod,
		&s.GameActive,
		&s.AllowRegistration,
		&s.MaxRiddlesPerDay,
		&s.PointsPerCorrectAnswer,
		&s.TimeBonusEnabled,
	)
	if err != nil {
		if IsNoRows(err) {
			return settings.Default(), nil
		}
		return settings.Settings{}, settingsErr("Get", err)
	}
	return s, nil
}

// Save stores the settings wholesale.
func (r *SettingsRepository) Save(ctx context.Context, s settings.Settings) error {
	query := `
		INSERT INTO game_settings (
			id, riddle_time, max_distance, podium_period, game_active,
			allow_registration, max_riddles_per_day, points_per_correct_answer,
			time_bonus_enabled, updated_at
		) VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			riddle_time = EXCLUDED.riddle_time,
			max_distance = EXCLUDED.max_distance,
			podium_period = EXCLUDED.podium_period,
			game_active = EXCLUDED.game_active,
			allow_registration = EXCLUDED.allow_registration,
			max_riddles_per_day = EXCLUDED.max_riddles_per_day,
			points_per_correct_answer = EXCLUDED.points_per_correct_answer,
			time_bonus_enabled = EXCLUDED.time_bonus_enabled,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.conn.Exec(ctx, query,
		s.RiddleTime,
		s.MaxDistance,
		s.PodiumPeriod,
		s.GameActive,
		s.AllowRegistration,
		s.MaxRiddlesPerDay,
		s.PointsPerCorrectAnswer,
		s.TimeBonusEnabled,
		time.Now().UTC(),
	)
	if err != nil {
		return settingsErr("Save", err)
	}
	return nil
}

func settingsErr(op string, err error) error {
	return shared.WrapError("settings", op, shared.ErrStorageUnavailable, "postgres query failed", err)
}
