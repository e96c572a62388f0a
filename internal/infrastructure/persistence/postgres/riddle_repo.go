package postgres

import (
	"context"
	"time"

	"github.com/guessnica/guessnica-server/internal/domain/geo"
	"github.com/guessnica/guessnica-server/internal/domain/riddle"
	"github.com/guessnica/guessnica-server/internal/domain/scoring"
	"github.com/guessnica/guessnica-server/internal/domain/shared"
	"github.com/guessnica/guessnica-server/pkg/timeutil"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// LOCATION REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// LocationRepository implements riddle.LocationRepository for PostgreSQL.
type LocationRepository struct {
	conn *Connection
}

// NewLocationRepository creates a new LocationRepository.
func NewLocationRepository(conn *Connection) *LocationRepository {
	return &LocationRepository{conn: conn}
}

// Create creates a new location.
func (r *LocationRepository) Create(ctx context.Context, loc *riddle.Location) error {
	query := `
		INSERT INTO locations (id, latitude, longitude, description, image_url, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.conn.Exec(ctx, query,
		string(loc.ID),
		loc.Point.Lat,
		loc.Point.Lng,
		loc.Description,
		loc.ImageURL,
		loc.CreatedBy,
		loc.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return locationErr("Create", err)
	}
	return nil
}

// GetByID returns a location by ID.
func (r *LocationRepository) GetByID(ctx context.Context, id shared.LocationID) (*riddle.Location, error) {
	query := `
		SELECT id, latitude, longitude, description, image_url, created_by, created_at
		FROM locations WHERE id = $1
	`

	loc, err := scanLocation(r.conn.QueryRow(ctx, query, string(id)))
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrLocationNotFound
		}
		return nil, locationErr("GetByID", err)
	}
	return loc, nil
}

// Update persists description and image changes.
func (r *LocationRepository) Update(ctx context.Context, loc *riddle.Location) error {
	query := `
		UPDATE locations
		SET latitude = $2, longitude = $3, description = $4, image_url = $5
		WHERE id = $1
	`

	tag, err := r.conn.Exec(ctx, query,
		string(loc.ID),
		loc.Point.Lat,
		loc.Point.Lng,
		loc.Description,
		loc.ImageURL,
	)
	if err != nil {
		return locationErr("Update", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrLocationNotFound
	}
	return nil
}

// Delete removes a location unless submissions reference it through a riddle.
func (r *LocationRepository) Delete(ctx context.Context, id shared.LocationID) error {
	var referenced bool
	refQuery := `
		SELECT EXISTS (
			SELECT 1 FROM submissions s
			JOIN riddles rd ON rd.id = s.riddle_id
			WHERE rd.location_id = $1
		)
	`
	if err := r.conn.QueryRow(ctx, refQuery, string(id)).Scan(&referenced); err != nil {
		return locationErr("Delete", err)
	}
	if referenced {
		return shared.ErrLocationInUse
	}

	tag, err := r.conn.Exec(ctx, `DELETE FROM locations WHERE id = $1`, string(id))
	if err != nil {
		if IsForeignKeyViolation(err) {
			return shared.ErrLocationInUse
		}
		return locationErr("Delete", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrLocationNotFound
	}
	return nil
}

// List returns all locations in creation order.
func (r *LocationRepository) List(ctx context.Context) ([]*riddle.Location, error) {
	query := `
		SELECT id, latitude, longitude, description, image_url, created_by, created_at
		FROM locations ORDER BY created_at, id
	`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, locationErr("List", err)
	}
	defer rows.Close()

	var out []*riddle.Location
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, locationErr("List", err)
		}
		out = append(out, loc)
	}
	return out, rows.Err()
}

func scanLocation(row pgx.Row) (*riddle.Location, error) {
	var loc riddle.Location
	var id string
	var lat, lng float64

	err := row.Scan(&id, &lat, &lng, &loc.Description, &loc.ImageURL, &loc.CreatedBy, &loc.CreatedAt)
	if err != nil {
		return nil, err
	}

	loc.ID = shared.LocationID(id)
	loc.Point = geo.Point{Lat: lat, Lng: lng}
	return &loc, nil
}

func locationErr(op string, err error) error {
	return shared.WrapError("location", op, shared.ErrStorageUnavailable, "postgres query failed", err)
}

// ══════════════════════════════════════════════════════════════════════════════
// RIDDLE REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// RiddleRepository implements riddle.Repository for PostgreSQL.
type RiddleRepository struct {
	conn *Connection
}

// NewRiddleRepository creates a new RiddleRepository.
func NewRiddleRepository(conn *Connection) *RiddleRepository {
	return &RiddleRepository{conn: conn}
}

const riddleColumns = `
	id, location_id, difficulty, time_limit_seconds, max_distance_meters, active_date, created_at
`

// Create schedules a new riddle. The unique index on active_date keeps
// at most one riddle of the day.
func (r *RiddleRepository) Create(ctx context.Context, rd *riddle.Riddle) error {
	query := `
		INSERT INTO riddles (id, location_id, difficulty, time_limit_seconds, max_distance_meters, active_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.conn.Exec(ctx, query,
		string(rd.ID),
		string(rd.LocationID),
		string(rd.Difficulty),
		rd.TimeLimitSeconds,
		rd.MaxDistanceMeters,
		rd.ActiveDate,
		rd.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return riddleErr("Create", err)
	}
	return nil
}

// GetByID returns a riddle by ID.
func (r *RiddleRepository) GetByID(ctx context.Context, id shared.RiddleID) (*riddle.Riddle, error) {
	query := `SELECT` + riddleColumns + `FROM riddles WHERE id = $1`

	rd, err := scanRiddle(r.conn.QueryRow(ctx, query, string(id)))
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrRiddleNotFound
		}
		return nil, riddleErr("GetByID", err)
	}
	return rd, nil
}

// GetActiveAt returns the riddle of the day for the given moment.
func (r *RiddleRepository) GetActiveAt(ctx context.Context, t time.Time) (*riddle.Riddle, error) {
	query := `SELECT` + riddleColumns + `FROM riddles WHERE active_date = $1`

	rd, err := scanRiddle(r.conn.QueryRow(ctx, query, timeutil.StartOfDayUTC(t)))
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrRiddleNotFound
		}
		return nil, riddleErr("GetActiveAt", err)
	}
	return rd, nil
}

// Update persists riddle parameter changes.
func (r *RiddleRepository) Update(ctx context.Context, rd *riddle.Riddle) error {
	query := `
		UPDATE riddles
		SET location_id = $2, difficulty = $3, time_limit_seconds = $4,
		    max_distance_meters = $5, active_date = $6
		WHERE id = $1
	`

	tag, err := r.conn.Exec(ctx, query,
		string(rd.ID),
		string(rd.LocationID),
		string(rd.Difficulty),
		rd.TimeLimitSeconds,
		rd.MaxDistanceMeters,
		rd.ActiveDate,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return riddleErr("Update", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrRiddleNotFound
	}
	return nil
}

// Delete removes a riddle.
func (r *RiddleRepository) Delete(ctx context.Context, id shared.RiddleID) error {
	tag, err := r.conn.Exec(ctx, `DELETE FROM riddles WHERE id = $1`, string(id))
	if err != nil {
		return riddleErr("Delete", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrRiddleNotFound
	}
	return nil
}

// List returns all riddles, newest first.
func (r *RiddleRepository) List(ctx context.Context) ([]*riddle.Riddle, error) {
	query := `SELECT` + riddleColumns + `FROM riddles ORDER BY created_at DESC, id`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, riddleErr("List", err)
	}
	defer rows.Close()

	var out []*riddle.Riddle
	for rows.Next() {
		rd, err := scanRiddle(rows)
		if err != nil {
			return nil, riddleErr("List", err)
		}
		out = append(out, rd)
	}
	return out, rows.Err()
}

func scanRiddle(row pgx.Row) (*riddle.Riddle, error) {
	var rd riddle.Riddle
	var id, locationID, difficulty string

	err := row.Scan(
		&id,
		&locationID,
		&difficulty,
		&rd.TimeLimitSeconds,
		&rd.MaxDistanceMeters,
		&rd.ActiveDate,
		&rd.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	rd.ID = shared.RiddleID(id)
	rd.LocationID = shared.LocationID(locationID)
	rd.Difficulty = scoring.Difficulty(difficulty)
	// DATE columns come back at midnight local to the session; pin to UTC.
	rd.ActiveDate = timeutil.StartOfDayUTC(rd.ActiveDate.UTC())
	return &rd, nil
}

func riddleErr(op string, err error) error {
	return shared.WrapError("riddle", op, shared.ErrStorageUnavailable, "postgres query failed", err)
}
