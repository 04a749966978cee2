package absence

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/squadboard/squadboard/internal/shared"
)

// Repository defines persistence operations for the absence module.
type Repository interface {
	ListBetween(ctx context.Context, from, to string) ([]Absence, error)
	Get(ctx context.Context, id string) (*Absence, error)
	Create(ctx context.Context, a Absence) error
	Update(ctx context.Context, a Absence) error
	Delete(ctx context.Context, id string) error
	ListUsers(ctx context.Context) ([]User, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const absenceColumns = `id, user_id, start_date, end_date, type, start_period, end_period, created_at, updated_at`

func scanAbsence(row pgx.Row) (*Absence, error) {
	var a Absence
	var start, end time.Time
	err := row.Scan(&a.ID, &a.UserID, &start, &end, &a.Type, &a.StartPeriod, &a.EndPeriod, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	a.StartDate = start.Format("2006-01-02")
	a.EndDate = end.Format("2006-01-02")
	return &a, nil
}

// ListBetween returns absences overlapping the inclusive [from, to]
// window, ordered by start date.
func (r *PGRepository) ListBetween(ctx context.Context, from, to string) ([]Absence, error) {
	query := `
		SELECT ` + absenceColumns + `
		FROM absences
		WHERE start_date <= $2 AND end_date >= $1
		ORDER BY start_date, id
	`
	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Absence
	for rows.Next() {
		a, err := scanAbsence(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// Get fetches an absence by ID.
func (r *PGRepository) Get(ctx context.Context, id string) (*Absence, error) {
	query := `SELECT ` + absenceColumns + ` FROM absences WHERE id = $1`
	return scanAbsence(r.pool.QueryRow(ctx, query, id))
}

// Create persists a new absence.
func (r *PGRepository) Create(ctx context.Context, a Absence) error {
	query := `
		INSERT INTO absences (id, user_id, start_date, end_date, type, start_period, end_period, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
	`
	_, err := r.pool.Exec(ctx, query, a.ID, a.UserID, a.StartDate, a.EndDate, a.Type, a.StartPeriod, a.EndPeriod, time.Now().UTC())
	return err
}

// Update rewrites an existing absence.
func (r *PGRepository) Update(ctx context.Context, a Absence) error {
	query := `
		UPDATE absences
		SET user_id = $2, start_date = $3, end_date = $4, type = $5, start_period = $6, end_period = $7, updated_at = $8
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, a.ID, a.UserID, a.StartDate, a.EndDate, a.Type, a.StartPeriod, a.EndPeriod, time.Now().UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes an absence.
func (r *PGRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM absences WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ListUsers returns the roster ordered by last name.
func (r *PGRepository) ListUsers(ctx context.Context) ([]User, error) {
	query := `
		SELECT id, first_name, last_name, email, squads, metier, tribu, interne
		FROM absence_users
		ORDER BY last_name, first_name
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Squads, &u.Metier, &u.Tribu, &u.Interne); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

var _ Repository = (*PGRepository)(nil)
