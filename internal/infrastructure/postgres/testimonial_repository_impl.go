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

type TestimonialRepository struct {
	pool *pgxpool.Pool
}

func NewTestimonialRepository(pool *pgxpool.Pool) *TestimonialRepository {
	return &TestimonialRepository{pool: pool}
}

const testimonialColumns = `id, author_name, slug, quote, status, owner_id,
	published_at, created_at, updated_at`

func scanTestimonial(row pgx.Row) (*entity.Testimonial, error) {
	tm := &entity.Testimonial{}
	err := row.Scan(&tm.ID, &tm.AuthorName, &tm.Slug, &tm.Quote, &tm.Status,
		&tm.OwnerID, &tm.PublishedAt, &tm.CreatedAt, &tm.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return tm, nil
}

func (r *TestimonialRepository) Create(ctx context.Context, tm *entity.Testimonial) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO testimonials (author_name, slug, quote, status, owner_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, tm.AuthorName, tm.Slug, tm.Quote, tm.Status, tm.OwnerID)

	return mapError(row.Scan(&tm.ID, &tm.CreatedAt, &tm.UpdatedAt))
}

func (r *TestimonialRepository) GetByID(ctx context.Context, id string) (*entity.Testimonial, error) {
	return scanTestimonial(r.pool.QueryRow(ctx,
		`SELECT `+testimonialColumns+` FROM testimonials WHERE id = $1`, id))
}

func (r *TestimonialRepository) List(ctx context.Context, f repository.ContentFilter) ([]*entity.Testimonial, int64, error) {
	w := &whereClause{}
	if q := strings.TrimSpace(f.Query); q != "" {
		like := "%" + q + "%"
		w.add("(author_name ILIKE ? OR quote ILIKE ?)", like, like)
	}
	if f.Status != nil {
		w.add("status = ?", string(*f.Status))
	}
	if f.OwnerID != "" {
		w.add("owner_id = ?", f.OwnerID)
	}

	var total int64
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM testimonials`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, mapError(err)
	}

	query := fmt.Sprintf(`SELECT %s FROM testimonials%s ORDER BY %s LIMIT $%d OFFSET $%d`,
		testimonialColumns, w.sql(), f.Page.OrderBy(), len(w.args)+1, len(w.args)+2)
	rows, err := r.pool.Query(ctx, query, append(w.args, f.Page.Limit, f.Page.Offset())...)
	if err != nil {
		return nil, 0, mapError(err)
	}
	defer rows.Close()

	items := make([]*entity.Testimonial, 0, f.Page.Limit)
	for rows.Next() {
		tm, err := scanTestimonial(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, tm)
	}
	return items, total, mapError(rows.Err())
}

func (r *TestimonialRepository) Update(ctx context.Context, tm *entity.Testimonial) error {
	tm.UpdatedAt = time.Now()

	res, err := r.pool.Exec(ctx, `
		UPDATE testimonials
		SET author_name = $1, slug = $2, quote = $3, status = $4,
			published_at = $5, updated_at = $6
		WHERE id = $7
	`, tm.AuthorName, tm.Slug, tm.Quote, tm.Status, tm.PublishedAt, tm.UpdatedAt, tm.ID)
	if err != nil {
		return mapError(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *TestimonialRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM testimonials WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *TestimonialRepository) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	return slugExists(ctx, r.pool, "testimonials", slug, excludeID)
}

var _ repository.TestimonialRepository = (*TestimonialRepository)(nil)
