package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/guessnica/guessnica-server/internal/domain/shared"
	"github.com/guessnica/guessnica-server/internal/domain/submission"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// SUBMISSION LEDGER IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// SubmissionRepository implements submission.Ledger for PostgreSQL.
// Uniqueness of (player_id, riddle_id) is enforced by the database index,
// so concurrent duplicate appends race at the INSERT and exactly one wins.
type SubmissionRepository struct {
	conn *Connection
}

// NewSubmissionRepository creates a new SubmissionRepository.
func NewSubmissionRepository(conn *Connection) *SubmissionRepository {
	return &SubmissionRepository{conn: conn}
}

const submissionColumns = `
	id, player_id, riddle_id, guess_lat, guess_lng,
	elapsed_seconds, distance_meters, score, correct, created_at
`

// Append records a submission in the ledger.
func (r *SubmissionRepository) Append(ctx context.Context, s *submission.Submission) error {
	query := `
		INSERT INTO submissions (
			id, player_id, riddle_id, guess_lat, guess_lng,
			elapsed_seconds, distance_meters, score, correct, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.conn.Exec(ctx, query,
		s.ID,
		string(s.PlayerID),
		string(s.RiddleID),
		s.GuessLat,
		s.GuessLng,
		s.ElapsedSeconds,
		s.DistanceMeters,
		s.Score,
		s.Correct,
		s.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrDuplicateSubmission
		}
		return storageErr("Append", err)
	}

	return nil
}

// GetByID returns a submission by its identifier.
func (r *SubmissionRepository) GetByID(ctx context.Context, id string) (*submission.Submission, error) {
	query := fmt.Sprintf(`SELECT %s FROM submissions WHERE id = $1`, submissionColumns)

	s, err := scanSubmission(r.conn.QueryRow(ctx, query, id))
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrSubmissionNotFound
		}
		return nil, storageErr("GetByID", err)
	}
	return s, nil
}

// GetByPlayer returns the player's submissions in append order.
func (r *SubmissionRepository) GetByPlayer(ctx context.Context, playerID shared.PlayerID) ([]*submission.Submission, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM submissions
		WHERE player_id = $1
		ORDER BY created_at, id
	`, submissionColumns)

	return r.querySubmissions(ctx, "GetByPlayer", query, string(playerID))
}

// GetByRiddle returns all submissions for a riddle in append order.
func (r *SubmissionRepository) GetByRiddle(ctx context.Context, riddleID shared.RiddleID) ([]*submission.Submission, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM submissions
		WHERE riddle_id = $1
		ORDER BY created_at, id
	`, submissionColumns)

	return r.querySubmissions(ctx, "GetByRiddle", query, string(riddleID))
}

// GetSince returns submissions created at or after cutoff.
// A zero cutoff returns the whole ledger.
func (r *SubmissionRepository) GetSince(ctx context.Context, cutoff time.Time) ([]*submission.Submission, error) {
	if cutoff.IsZero() {
		query := fmt.Sprintf(`SELECT %s FROM submissions ORDER BY created_at, id`, submissionColumns)
		return r.querySubmissions(ctx, "GetSince", query)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM submissions
		WHERE created_at >= $1
		ORDER BY created_at, id
	`, submissionColumns)

	return r.querySubmissions(ctx, "GetSince", query, cutoff)
}

// CountByPlayerSince counts the player's submissions created at or after cutoff.
func (r *SubmissionRepository) CountByPlayerSince(ctx context.Context, playerID shared.PlayerID, cutoff time.Time) (int, error) {
	query := `
		SELECT COUNT(*) FROM submissions
		WHERE player_id = $1 AND created_at >= $2
	`

	var n int
	if err := r.conn.QueryRow(ctx, query, string(playerID), cutoff).Scan(&n); err != nil {
		return 0, storageErr("CountByPlayerSince", err)
	}
	return n, nil
}

// Count returns the total ledger size.
func (r *SubmissionRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM submissions`).Scan(&n); err != nil {
		return 0, storageErr("Count", err)
	}
	return n, nil
}

// Purge removes a submission, freeing its (player, riddle) pair.
func (r *SubmissionRepository) Purge(ctx context.Context, id string) (*submission.Submission, error) {
	query := fmt.Sprintf(`DELETE FROM submissions WHERE id = $1 RETURNING %s`, submissionColumns)

	s, err := scanSubmission(r.conn.QueryRow(ctx, query, id))
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrSubmissionNotFound
		}
		return nil, storageErr("Purge", err)
	}
	return s, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

func (r *SubmissionRepository) querySubmissions(ctx context.Context, op, query string, args ...interface{}) ([]*submission.Submission, error) {
	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, storageErr(op, err)
	}
	defer rows.Close()

	var out []*submission.Submission
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, storageErr(op, err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(op, err)
	}
	return out, nil
}

func scanSubmission(row pgx.Row) (*submission.Submission, error) {
	var s submission.Submission
	var playerID, riddleID string

	err := row.Scan(
		&s.ID,
		&playerID,
		&riddleID,
		&s.GuessLat,
		&s.GuessLng,
		&s.ElapsedSeconds,
		&s.DistanceMeters,
		&s.Score,
		&s.Correct,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.PlayerID = shared.PlayerID(playerID)
	s.RiddleID = shared.RiddleID(riddleID)
	return &s, nil
}

// storageErr wraps infrastructure failures in the storage-unavailable kind
// so callers can degrade instead of surfacing driver errors.
func storageErr(op string, err error) error {
	return shared.WrapError("submission", op, shared.ErrStorageUnavailable, "postgres query failed", err)
}
