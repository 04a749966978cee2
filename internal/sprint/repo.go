package sprint

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/squadboard/squadboard/internal/shared"
)

// Repository defines persistence operations for the sprint module.
type Repository interface {
	List(ctx context.Context) ([]Sprint, error)
	Get(ctx context.Context, id string) (*Sprint, error)
	Create(ctx context.Context, s Sprint) error
	Update(ctx context.Context, s Sprint) error
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

const sprintColumns = `id, name, start_date, end_date, code_freeze_date, release_date_back, release_date_front, created_at, updated_at`

func scanSprint(row pgx.Row) (*Sprint, error) {
	var s Sprint
	var codeFreeze, backDate, frontDate *string
	err := row.Scan(&s.ID, &s.Name, &s.StartDate, &s.EndDate, &codeFreeze, &backDate, &frontDate, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if codeFreeze != nil {
		s.CodeFreezeDate = *codeFreeze
	}
	if backDate != nil {
		s.ReleaseDateBack = *backDate
	}
	if frontDate != nil {
		s.ReleaseDateFront = *frontDate
	}
	return &s, nil
}

// List returns all sprints ascending by start date, the order the
// timeline resolver expects.
func (r *PGRepository) List(ctx context.Context) ([]Sprint, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+sprintColumns+` FROM sprints ORDER BY start_date, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Sprint
	for rows.Next() {
		s, err := scanSprint(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

// Get fetches a sprint by ID.
func (r *PGRepository) Get(ctx context.Context, id string) (*Sprint, error) {
	return scanSprint(r.pool.QueryRow(ctx, `SELECT `+sprintColumns+` FROM sprints WHERE id = $1`, id))
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Create persists a new sprint.
func (r *PGRepository) Create(ctx context.Context, s Sprint) error {
	query := `
		INSERT INTO sprints (id, name, start_date, end_date, code_freeze_date, release_date_back, release_date_front, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
	`
	_, err := r.pool.Exec(ctx, query, s.ID, s.Name, s.StartDate, s.EndDate,
		nullable(s.CodeFreezeDate), nullable(s.ReleaseDateBack), nullable(s.ReleaseDateFront), time.Now().UTC())
	return err
}

// Update rewrites an existing sprint.
func (r *PGRepository) Update(ctx context.Context, s Sprint) error {
	query := `
		UPDATE sprints
		SET name = $2, start_date = $3, end_date = $4, code_freeze_date = $5, release_date_back = $6, release_date_front = $7, updated_at = $8
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, s.ID, s.Name, s.StartDate, s.EndDate,
		nullable(s.CodeFreezeDate), nullable(s.ReleaseDateBack), nullable(s.ReleaseDateFront), time.Now().UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a sprint.
func (r *PGRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sprints WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ Repository = (*PGRepository)(nil)
