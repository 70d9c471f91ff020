package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ortholink/ortholink-api/internal/domain/entity"
	"github.com/ortholink/ortholink-api/internal/domain/repository"
)

type CourseRepository struct {
	pool *pgxpool.Pool
}

func NewCourseRepository(pool *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{pool: pool}
}

const courseColumns = `id, title, slug, summary, body, category, cover_url, price,
	max_enrollments, enrollment_count, status, owner_id, view_count,
	published_at, created_at, updated_at`

func scanCourse(row pgx.Row) (*entity.Course, error) {
	c := &entity.Course{}
	err := row.Scan(&c.ID, &c.Title, &c.Slug, &c.Summary, &c.Body, &c.Category,
		&c.CoverURL, &c.Price, &c.MaxEnrollments, &c.EnrollmentCount, &c.Status,
		&c.OwnerID, &c.ViewCount, &c.PublishedAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return c, nil
}

func (r *CourseRepository) Create(ctx context.Context, c *entity.Course) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO courses (title, slug, summary, body, category, cover_url, price,
			max_enrollments, status, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`, c.Title, c.Slug, c.Summary, c.Body, c.Category, c.CoverURL, c.Price,
		c.MaxEnrollments, c.Status, c.OwnerID)

	return mapError(row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt))
}

func (r *CourseRepository) GetByID(ctx context.Context, id string) (*entity.Course, error) {
	return scanCourse(r.pool.QueryRow(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE id = $1`, id))
}

func (r *CourseRepository) GetBySlug(ctx context.Context, slug string) (*entity.Course, error) {
	return scanCourse(r.pool.QueryRow(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE slug = $1`, slug))
}

func (r *CourseRepository) List(ctx context.Context, f repository.ContentFilter) ([]*entity.Course, int64, error) {
	w := contentWhere(f, "title", "summary", "body")

	var total int64
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM courses`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, mapError(err)
	}

	query := fmt.Sprintf(`SELECT %s FROM courses%s ORDER BY %s LIMIT $%d OFFSET $%d`,
		courseColumns, w.sql(), f.Page.OrderBy(), len(w.args)+1, len(w.args)+2)
	rows, err := r.pool.Query(ctx, query, append(w.args, f.Page.Limit, f.Page.Offset())...)
	if err != nil {
		return nil, 0, mapError(err)
	}
	defer rows.Close()

	courses := make([]*entity.Course, 0, f.Page.Limit)
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, 0, err
		}
		courses = append(courses, c)
	}
	return courses, total, mapError(rows.Err())
}

func (r *CourseRepository) Update(ctx context.Context, c *entity.Course) error {
	c.UpdatedAt = time.Now()

	res, err := r.pool.Exec(ctx, `
		UPDATE courses
		SET title = $1, slug = $2, summary = $3, body = $4, category = $5,
			cover_url = $6, price = $7, max_enrollments = $8, status = $9,
			published_at = $10, updated_at = $11
		WHERE id = $12
	`, c.Title, c.Slug, c.Summary, c.Body, c.Category, c.CoverURL, c.Price,
		c.MaxEnrollments, c.Status, c.PublishedAt, c.UpdatedAt, c.ID)
	if err != nil {
		return mapError(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// UpdateCoverURL is used by the async media pipeline; it must not touch any
// other column a concurrent edit may have changed.
func (r *CourseRepository) UpdateCoverURL(ctx context.Context, id, coverURL string) error {
	res, err := r.pool.Exec(ctx,
		`UPDATE courses SET cover_url = $1, updated_at = now() WHERE id = $2`, coverURL, id)
	if err != nil {
		return mapError(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *CourseRepository) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	return slugExists(ctx, r.pool, "courses", slug, excludeID)
}

func (r *CourseRepository) IncrementViews(ctx context.Context, id string, delta int64) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE courses SET view_count = view_count + $1 WHERE id = $2`, delta, id)
	return mapError(err)
}

var _ repository.CourseRepository = (*CourseRepository)(nil)
