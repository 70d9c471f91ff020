package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ortholink/ortholink-api/internal/domain/entity"
	"github.com/ortholink/ortholink-api/internal/domain/repository"
)

type LiveSessionRepository struct {
	pool *pgxpool.Pool
}

func NewLiveSessionRepository(pool *pgxpool.Pool) *LiveSessionRepository {
	return &LiveSessionRepository{pool: pool}
}

const sessionColumns = `id, title, slug, description, meeting_url, status, owner_id,
	scheduled_at, started_at, ended_at, created_at, updated_at`

func scanSession(row pgx.Row) (*entity.LiveSession, error) {
	s := &entity.LiveSession{}
	err := row.Scan(&s.ID, &s.Title, &s.Slug, &s.Description, &s.MeetingURL,
		&s.Status, &s.OwnerID, &s.ScheduledAt, &s.StartedAt, &s.EndedAt,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return s, nil
}

func (r *LiveSessionRepository) Create(ctx context.Context, s *entity.LiveSession) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO live_sessions (title, slug, description, meeting_url, status, owner_id, scheduled_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, s.Title, s.Slug, s.Description, s.MeetingURL, s.Status, s.OwnerID, s.ScheduledAt)

	return mapError(row.Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt))
}

func (r *LiveSessionRepository) GetByID(ctx context.Context, id string) (*entity.LiveSession, error) {
	return scanSession(r.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM live_sessions WHERE id = $1`, id))
}

func (r *LiveSessionRepository) GetBySlug(ctx context.Context, slug string) (*entity.LiveSession, error) {
	return scanSession(r.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM live_sessions WHERE slug = $1`, slug))
}

func (r *LiveSessionRepository) List(ctx context.Context, f repository.SessionFilter) ([]*entity.LiveSession, int64, error) {
	w := &whereClause{}
	if q := strings.TrimSpace(f.Query); q != "" {
		like := "%" + q + "%"
		w.add("(title ILIKE ? OR description ILIKE ?)", like, like)
	}
	if f.Status != nil {
		w.add("status = ?", string(*f.Status))
	}
	if f.OwnerID != "" {
		w.add("owner_id = ?", f.OwnerID)
	}
	if f.PublicOnly {
		w.add("status IN (?, ?)", string(entity.SessionScheduled), string(entity.SessionLive))
	}

	var total int64
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM live_sessions`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, mapError(err)
	}

	query := fmt.Sprintf(`SELECT %s FROM live_sessions%s ORDER BY %s LIMIT $%d OFFSET $%d`,
		sessionColumns, w.sql(), f.Page.OrderBy(), len(w.args)+1, len(w.args)+2)
	rows, err := r.pool.Query(ctx, query, append(w.args, f.Page.Limit, f.Page.Offset())...)
	if err != nil {
		return nil, 0, mapError(err)
	}
	defer rows.Close()

	sessions := make([]*entity.LiveSession, 0, f.Page.Limit)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, 0, err
		}
		sessions = append(sessions, s)
	}
	return sessions, total, mapError(rows.Err())
}

func (r *LiveSessionRepository) Update(ctx context.Context, s *entity.LiveSession) error {
	s.UpdatedAt = time.Now()

	res, err := r.pool.Exec(ctx, `
		UPDATE live_sessions
		SET title = $1, slug = $2, description = $3, meeting_url = $4, status = $5,
			scheduled_at = $6, started_at = $7, ended_at = $8, updated_at = $9
		WHERE id = $10
	`, s.Title, s.Slug, s.Description, s.MeetingURL, s.Status, s.ScheduledAt,
		s.StartedAt, s.EndedAt, s.UpdatedAt, s.ID)
	if err != nil {
		return mapError(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *LiveSessionRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM live_sessions WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *LiveSessionRepository) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	return slugExists(ctx, r.pool, "live_sessions", slug, excludeID)
}

var _ repository.LiveSessionRepository = (*LiveSessionRepository)(nil)
