package postgres

import (
	"context"

	"github.com/guessnica/guessnica-server/internal/domain/player"
	"github.com/guessnica/guessnica-server/internal/domain/shared"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// PLAYER REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// PlayerRepository implements player.Repository for PostgreSQL.
type PlayerRepository struct {
	conn *Connection
}

// NewPlayerRepository creates a new PlayerRepository.
func NewPlayerRepository(conn *Connection) *PlayerRepository {
	return &PlayerRepository{conn: conn}
}

// Create registers a new player.
func (r *PlayerRepository) Create(ctx context.Context, p *player.Player) error {
	query := `
		INSERT INTO players (id, display_name, blocked, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.conn.Exec(ctx, query, string(p.ID), p.DisplayName, p.Blocked, p.CreatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrPlayerExists
		}
		return playerErr("Create", err)
	}
	return nil
}

// GetByID returns a player by ID.
func (r *PlayerRepository) GetByID(ctx context.Context, id shared.PlayerID) (*player.Player, error) {
	query := `SELECT id, display_name, blocked, created_at FROM players WHERE id = $1`

	p, err := scanPlayer(r.conn.QueryRow(ctx, query, string(id)))
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrPlayerNotFound
		}
		return nil, playerErr("GetByID", err)
	}
	return p, nil
}

// GetByIDs returns players keyed by ID. Unknown IDs are absent from the map.
func (r *PlayerRepository) GetByIDs(ctx context.Context, ids []shared.PlayerID) (map[shared.PlayerID]*player.Player, error) {
	out := make(map[shared.PlayerID]*player.Player, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = string(id)
	}

	query := `SELECT id, display_name, blocked, created_at FROM players WHERE id = ANY($1)`

	rows, err := r.conn.Query(ctx, query, raw)
	if err != nil {
		return nil, playerErr("GetByIDs", err)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, playerErr("GetByIDs", err)
		}
		out[p.ID] = p
	}
	return out, rows.Err()
}

// Update persists display-name and block-status changes.
func (r *PlayerRepository) Update(ctx context.Context, p *player.Player) error {
	query := `UPDATE players SET display_name = $2, blocked = $3 WHERE id = $1`

	tag, err := r.conn.Exec(ctx, query, string(p.ID), p.DisplayName, p.Blocked)
	if err != nil {
		return playerErr("Update", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrPlayerNotFound
	}
	return nil
}

// List returns all players in registration order.
func (r *PlayerRepository) List(ctx context.Context) ([]*player.Player, error) {
	query := `SELECT id, display_name, blocked, created_at FROM players ORDER BY created_at, id`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, playerErr("List", err)
	}
	defer rows.Close()

	var out []*player.Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, playerErr("List", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Count returns the total number of players.
func (r *PlayerRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM players`).Scan(&n); err != nil {
		return 0, playerErr("Count", err)
	}
	return n, nil
}

func scanPlayer(row pgx.Row) (*player.Player, error) {
	var p player.Player
	var id string

	if err := row.Scan(&id, &p.DisplayName, &p.Blocked, &p.CreatedAt); err != nil {
		return nil, err
	}

	p.ID = shared.PlayerID(id)
	return &p, nil
}

func playerErr(op string, err error) error {
	return shared.WrapError("player", op, shared.ErrStorageUnavailable, "postgres query failed", err)
}
