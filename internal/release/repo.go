package release

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/squadboard/squadboard/internal/platform/db"
	"github.com/squadboard/squadboard/internal/shared"
)

// Repository defines persistence operations for releases, the
// microservice master list and per-release note entries.
type Repository interface {
	ListReleases(ctx context.Context, limit, offset int) ([]Release, error)
	CountReleases(ctx context.Context) (int, error)
	GetRelease(ctx context.Context, key string) (Release, error)
	CreateRelease(ctx context.Context, rel Release) error
	UpdateRelease(ctx context.Context, rel Release) error
	DeleteRelease(ctx context.Context, id string) error

	ListMicroservices(ctx context.Context) ([]Microservice, error)
	CreateMicroservice(ctx context.Context, ms Microservice) error
	UpdateMicroservice(ctx context.Context, ms Microservice) error

	ListEntries(ctx context.Context, releaseID string) ([]NoteEntry, error)
	CreateEntry(ctx context.Context, e NoteEntry) error
	UpdateEntry(ctx context.Context, e NoteEntry) error
	DeleteEntry(ctx context.Context, releaseID, entryID string) error

	ListTontons(ctx context.Context, releaseID string) ([]Tonton, error)
	SetTonton(ctx context.Context, releaseID string, t Tonton) error

	InsertHistory(ctx context.Context, h HistoryEntry) error
	ListHistory(ctx context.Context, releaseID string) ([]HistoryEntry, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const releaseColumns = `id, name, slug, release_date, status, type, description, created_at, updated_at`

func scanRelease(row pgx.Row) (Release, error) {
	var rel Release
	var date time.Time
	err := row.Scan(&rel.ID, &rel.Name, &rel.Slug, &date, &rel.Status, &rel.Type, &rel.Description, &rel.CreatedAt, &rel.UpdatedAt)
	if err != nil {
		return Release{}, err
	}
	rel.ReleaseDate = date.Format("2006-01-02")
	return rel, nil
}

// ListReleases returns one page of releases, most recent first.
func (r *PGRepository) ListReleases(ctx context.Context, limit, offset int) ([]Release, error) {
	query := `SELECT ` + releaseColumns + ` FROM releases ORDER BY release_date DESC, name DESC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Release
	for rows.Next() {
		rel, err := scanRelease(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rel)
	}
	return out, rows.Err()
}

// CountReleases returns the number of stored releases.
func (r *PGRepository) CountReleases(ctx context.Context) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM releases`).Scan(&total)
	return total, err
}

// GetRelease resolves a release by id or slug.
func (r *PGRepository) GetRelease(ctx context.Context, key string) (Release, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+releaseColumns+` FROM releases WHERE id = $1 OR slug = $1`, key)
	rel, err := scanRelease(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Release{}, shared.ErrNotFound
	}
	return rel, err
}

// CreateRelease persists a release. A duplicate slug maps to
// shared.ErrConflict via the unique constraint.
func (r *PGRepository) CreateRelease(ctx context.Context, rel Release) error {
	query := `INSERT INTO releases (id, name, slug, release_date, status, type, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`
	_, err := r.pool.Exec(ctx, query, rel.ID, rel.Name, rel.Slug, rel.ReleaseDate, rel.Status, rel.Type, rel.Description, time.Now().UTC())
	return mapSlugConflict(err)
}

// UpdateRelease rewrites a release row.
func (r *PGRepository) UpdateRelease(ctx context.Context, rel Release) error {
	query := `UPDATE releases SET name = $2, slug = $3, release_date = $4, status = $5, type = $6, description = $7, updated_at = $8 WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, rel.ID, rel.Name, rel.Slug, rel.ReleaseDate, rel.Status, rel.Type, rel.Description, time.Now().UTC())
	if err != nil {
		return mapSlugConflict(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteRelease removes a release together with its note entries and
// tonton assignments in a single transaction.
func (r *PGRepository) DeleteRelease(ctx context.Context, id string) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM release_note_entries WHERE release_id = $1`, id); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM release_tontons WHERE release_id = $1`, id); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `DELETE FROM releases WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// ListMicroservices returns the master list in squad then display order.
func (r *PGRepository) ListMicroservices(ctx context.Context) ([]Microservice, error) {
	query := `SELECT id, name, squad, solution, display_order, is_active, description, created_at, updated_at
		FROM microservices ORDER BY squad, display_order, name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Microservice
	for rows.Next() {
		var ms Microservice
		if err := rows.Scan(&ms.ID, &ms.Name, &ms.Squad, &ms.Solution, &ms.DisplayOrder, &ms.IsActive, &ms.Description, &ms.CreatedAt, &ms.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, ms)
	}
	return out, rows.Err()
}

// CreateMicroservice adds a master-list entry.
func (r *PGRepository) CreateMicroservice(ctx context.Context, ms Microservice) error {
	query := `INSERT INTO microservices (id, name, squad, solution, display_order, is_active, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`
	_, err := r.pool.Exec(ctx, query, ms.ID, ms.Name, ms.Squad, ms.Solution, ms.DisplayOrder, ms.IsActive, ms.Description, time.Now().UTC())
	return mapConflict(err, "uq_microservices_name")
}

// UpdateMicroservice rewrites a master-list entry. Retiring a service
// is an update with is_active false, never a delete.
func (r *PGRepository) UpdateMicroservice(ctx context.Context, ms Microservice) error {
	query := `UPDATE microservices SET name = $2, squad = $3, solution = $4, display_order = $5, is_active = $6, description = $7, updated_at = $8 WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, ms.ID, ms.Name, ms.Squad, ms.Solution, ms.DisplayOrder, ms.IsActive, ms.Description, time.Now().UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ListEntries returns a release's note entries in deploy order.
func (r *PGRepository) ListEntries(ctx context.Context, releaseID string) ([]NoteEntry, error) {
	query := `SELECT id, release_id, microservice_id, microservice, squad, part_en_mep, deploy_order, tag, previous_tag, parent_version, comment, status, changes, created_at, updated_at
		FROM release_note_entries WHERE release_id = $1 ORDER BY deploy_order, microservice`
	rows, err := r.pool.Query(ctx, query, releaseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []NoteEntry
	for rows.Next() {
		var e NoteEntry
		var msID *string
		if err := rows.Scan(&e.ID, &e.ReleaseID, &msID, &e.Microservice, &e.Squad, &e.PartEnMep, &e.DeployOrder, &e.Tag, &e.PreviousTag, &e.ParentVersion, &e.Comment, &e.Status, &e.Changes, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		if msID != nil {
			e.MicroserviceID = *msID
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// CreateEntry adds a note entry to a release. One entry per
// microservice per release, enforced by the unique constraint.
func (r *PGRepository) CreateEntry(ctx context.Context, e NoteEntry) error {
	query := `INSERT INTO release_note_entries (id, release_id, microservice_id, microservice, squad, part_en_mep, deploy_order, tag, previous_tag, parent_version, comment, status, changes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $14)`
	_, err := r.pool.Exec(ctx, query, e.ID, e.ReleaseID, nullable(e.MicroserviceID), e.Microservice, e.Squad, e.PartEnMep, e.DeployOrder, e.Tag, e.PreviousTag, e.ParentVersion, e.Comment, e.Status, e.Changes, time.Now().UTC())
	return mapConflict(err, "uq_release_note_entries_service")
}

// UpdateEntry rewrites a note entry.
func (r *PGRepository) UpdateEntry(ctx context.Context, e NoteEntry) error {
	query := `UPDATE release_note_entries SET microservice_id = $3, microservice = $4, squad = $5, part_en_mep = $6, deploy_order = $7, tag = $8, previous_tag = $9, parent_version = $10, comment = $11, status = $12, changes = $13, updated_at = $14
		WHERE id = $2 AND release_id = $1`
	tag, err := r.pool.Exec(ctx, query, e.ReleaseID, e.ID, nullable(e.MicroserviceID), e.Microservice, e.Squad, e.PartEnMep, e.DeployOrder, e.Tag, e.PreviousTag, e.ParentVersion, e.Comment, e.Status, e.Changes, time.Now().UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteEntry removes a note entry.
func (r *PGRepository) DeleteEntry(ctx context.Context, releaseID, entryID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM release_note_entries WHERE release_id = $1 AND id = $2`, releaseID, entryID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ListTontons returns the per-squad release owners.
func (r *PGRepository) ListTontons(ctx context.Context, releaseID string) ([]Tonton, error) {
	rows, err := r.pool.Query(ctx, `SELECT squad, user_id, name FROM release_tontons WHERE release_id = $1 ORDER BY squad`, releaseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Tonton
	for rows.Next() {
		var t Tonton
		if err := rows.Scan(&t.Squad, &t.UserID, &t.Name); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// SetTonton assigns the release owner for one squad, replacing any
// previous assignment.
func (r *PGRepository) SetTonton(ctx context.Context, releaseID string, t Tonton) error {
	query := `INSERT INTO release_tontons (release_id, squad, user_id, name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (release_id, squad) DO UPDATE SET user_id = EXCLUDED.user_id, name = EXCLUDED.name`
	_, err := r.pool.Exec(ctx, query, releaseID, t.Squad, t.UserID, t.Name)
	return err
}

// InsertHistory appends one audit line. No foreign key on release_id,
// history survives release deletion.
func (r *PGRepository) InsertHistory(ctx context.Context, h HistoryEntry) error {
	query := `INSERT INTO release_history (id, release_id, action, actor, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.pool.Exec(ctx, query, h.ID, h.ReleaseID, h.Action, h.Actor, h.Detail, h.CreatedAt)
	return err
}

// ListHistory returns a release's audit lines, most recent first.
func (r *PGRepository) ListHistory(ctx context.Context, releaseID string) ([]HistoryEntry, error) {
	query := `SELECT id, release_id, action, actor, detail, created_at
		FROM release_history WHERE release_id = $1 ORDER BY created_at DESC, id`
	rows, err := r.pool.Query(ctx, query, releaseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HistoryEntry
	for rows.Next() {
		var h HistoryEntry
		if err := rows.Scan(&h.ID, &h.ReleaseID, &h.Action, &h.Actor, &h.Detail, &h.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func mapSlugConflict(err error) error {
	return mapConflict(err, "uq_releases_slug")
}

// mapConflict translates a unique violation on the named constraint
// into shared.ErrConflict. Other errors pass through unchanged.
func mapConflict(err error, constraint string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.ConstraintName == constraint {
		return shared.ErrConflict
	}
	return err
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

var _ Repository = (*PGRepository)(nil)
