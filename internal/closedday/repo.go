package closedday

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/squadboard/squadboard/internal/shared"
)

// Repository defines persistence operations for closed days.
type Repository interface {
	List(ctx context.Context) ([]ClosedDay, error)
	Create(ctx context.Context, d ClosedDay) error
	Delete(ctx context.Context, id string) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// List returns all closed days in date order.
func (r *PGRepository) List(ctx context.Context) ([]ClosedDay, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, date, label, created_at FROM closed_days ORDER BY date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ClosedDay
	for rows.Next() {
		var d ClosedDay
		var date time.Time
		if err := rows.Scan(&d.ID, &date, &d.Label, &d.CreatedAt); err != nil {
			return nil, err
		}
		d.Date = date.Format("2006-01-02")
		out = append(out, d)
	}
	return out, rows.Err()
}

// Create persists a closed day. A second entry for the same date maps
// to shared.ErrConflict via the unique constraint.
func (r *PGRepository) Create(ctx context.Context, d ClosedDay) error {
	query := `INSERT INTO closed_days (id, date, label, created_at) VALUES ($1, $2, $3, $4)`
	_, err := r.pool.Exec(ctx, query, d.ID, d.Date, d.Label, time.Now().UTC())
	return mapDateConflict(err)
}

// mapDateConflict translates a duplicate-date unique violation into
// shared.ErrConflict.
func mapDateConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.ConstraintName == "uq_closed_days_date" {
		return shared.ErrConflict
	}
	return err
}

// Delete removes a closed day.
func (r *PGRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM closed_days WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ Repository = (*PGRepository)(nil)
