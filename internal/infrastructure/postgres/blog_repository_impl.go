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

type BlogRepository struct {
	pool *pgxpool.Pool
}

func NewBlogRepository(pool *pgxpool.Pool) *BlogRepository {
	return &BlogRepository{pool: pool}
}

const blogColumns = `id, title, slug, excerpt, body, category, cover_url, status,
	owner_id, view_count, published_at, created_at, updated_at`

func scanBlog(row pgx.Row) (*entity.Blog, error) {
	b := &entity.Blog{}
	err := row.Scan(&b.ID, &b.Title, &b.Slug, &b.Excerpt, &b.Body, &b.Category,
		&b.CoverURL, &b.Status, &b.OwnerID, &b.ViewCount, &b.PublishedAt,
		&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return b, nil
}

func (r *BlogRepository) Create(ctx context.Context, b *entity.Blog) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO blogs (title, slug, excerpt, body, category, cover_url, status, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, b.Title, b.Slug, b.Excerpt, b.Body, b.Category, b.CoverURL, b.Status, b.OwnerID)

	return mapError(row.Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt))
}

func (r *BlogRepository) GetByID(ctx context.Context, id string) (*entity.Blog, error) {
	return scanBlog(r.pool.QueryRow(ctx,
		`SELECT `+blogColumns+` FROM blogs WHERE id = $1`, id))
}

func (r *BlogRepository) GetBySlug(ctx context.Context, slug string) (*entity.Blog, error) {
	return scanBlog(r.pool.QueryRow(ctx,
		`SELECT `+blogColumns+` FROM blogs WHERE slug = $1`, slug))
}

func (r *BlogRepository) List(ctx context.Context, f repository.ContentFilter) ([]*entity.Blog, int64, error) {
	w := contentWhere(f, "title", "excerpt", "body")

	var total int64
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM blogs`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, mapError(err)
	}

	query := fmt.Sprintf(`SELECT %s FROM blogs%s ORDER BY %s LIMIT $%d OFFSET $%d`,
		blogColumns, w.sql(), f.Page.OrderBy(), len(w.args)+1, len(w.args)+2)
	rows, err := r.pool.Query(ctx, query, append(w.args, f.Page.Limit, f.Page.Offset())...)
	if err != nil {
		return nil, 0, mapError(err)
	}
	defer rows.Close()

	blogs := make([]*entity.Blog, 0, f.Page.Limit)
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, 0, err
		}
		blogs = append(blogs, b)
	}
	return blogs, total, mapError(rows.Err())
}

func (r *BlogRepository) Update(ctx context.Context, b *entity.Blog) error {
	b.UpdatedAt = time.Now()

	res, err := r.pool.Exec(ctx, `
		UPDATE blogs
		SET title = $1, slug = $2, excerpt = $3, body = $4, category = $5,
			cover_url = $6, status = $7, published_at = $8, updated_at = $9
		WHERE id = $10
	`, b.Title, b.Slug, b.Excerpt, b.Body, b.Category, b.CoverURL, b.Status,
		b.PublishedAt, b.UpdatedAt, b.ID)
	if err != nil {
		return mapError(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *BlogRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM blogs WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *BlogRepository) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	return slugExists(ctx, r.pool, "blogs", slug, excludeID)
}

func (r *BlogRepository) IncrementViews(ctx context.Context, id string, delta int64) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE blogs SET view_count = view_count + $1 WHERE id = $2`, delta, id)
	return mapError(err)
}

var _ repository.BlogRepository = (*BlogRepository)(nil)
