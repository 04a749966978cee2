package event

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/squadboard/squadboard/internal/shared"
)

// Repository defines persistence operations for the event module.
type Repository interface {
	ListBetween(ctx context.Context, from, to string) ([]Event, error)
	Get(ctx context.Context, id string) (*Event, error)
	Create(ctx context.Context, e Event) error
	Update(ctx context.Context, e Event) error
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

const eventColumns = `id, title, description, start_date, end_date, category, created_by, created_at, updated_at`

func scanEvent(row pgx.Row) (*Event, error) {
	var e Event
	var start, end time.Time
	err := row.Scan(&e.ID, &e.Title, &e.Description, &start, &end, &e.Category, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	e.StartDate = start.Format("2006-01-02")
	e.EndDate = end.Format("2006-01-02")
	return &e, nil
}

// ListBetween returns events overlapping the inclusive [from, to]
// window, ordered by start date.
func (r *PGRepository) ListBetween(ctx context.Context, from, to string) ([]Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE start_date <= $2 AND end_date >= $1
		ORDER BY start_date, id
	`
	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

// Get fetches an event by ID.
func (r *PGRepository) Get(ctx context.Context, id string) (*Event, error) {
	return scanEvent(r.pool.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
}

// Create persists a new event.
func (r *PGRepository) Create(ctx context.Context, e Event) error {
	query := `
		INSERT INTO events (id, title, description, start_date, end_date, category, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
	`
	_, err := r.pool.Exec(ctx, query, e.ID, e.Title, e.Description, e.StartDate, e.EndDate, e.Category, e.CreatedBy, time.Now().UTC())
	return err
}

// Update rewrites an existing event.
func (r *PGRepository) Update(ctx context.Context, e Event) error {
	query := `
		UPDATE events
		SET title = $2, description = $3, start_date = $4, end_date = $5, category = $6, updated_at = $7
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, e.ID, e.Title, e.Description, e.StartDate, e.EndDate, e.Category, time.Now().UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes an event.
func (r *PGRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ Repository = (*PGRepository)(nil)
