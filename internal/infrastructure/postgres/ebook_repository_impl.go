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

type EbookRepository struct {
	pool *pgxpool.Pool
}

func NewEbookRepository(pool *pgxpool.Pool) *EbookRepository {
	return &EbookRepository{pool: pool}
}

const ebookColumns = `id, title, slug, description, file_url, cover_url, category,
	status, owner_id, view_count, published_at, created_at, updated_at`

func scanEbook(row pgx.Row) (*entity.Ebook, error) {
	e := &entity.Ebook{}
	err := row.Scan(&e.ID, &e.Title, &e.Slug, &e.Description, &e.FileURL,
		&e.CoverURL, &e.Category, &e.Status, &e.OwnerID, &e.ViewCount,
		&e.PublishedAt, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return e, nil
}

func (r *EbookRepository) Create(ctx context.Context, e *entity.Ebook) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO ebooks (title, slug, description, file_url, cover_url, category, status, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, e.Title, e.Slug, e.Description, e.FileURL, e.CoverURL, e.Category, e.Status, e.OwnerID)

	return mapError(row.Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt))
}

func (r *EbookRepository) GetByID(ctx context.Context, id string) (*entity.Ebook, error) {
	return scanEbook(r.pool.QueryRow(ctx,
		`SELECT `+ebookColumns+` FROM ebooks WHERE id = $1`, id))
}

func (r *EbookRepository) GetBySlug(ctx context.Context, slug string) (*entity.Ebook, error) {
	return scanEbook(r.pool.QueryRow(ctx,
		`SELECT `+ebookColumns+` FROM ebooks WHERE slug = $1`, slug))
}

func (r *EbookRepository) List(ctx context.Context, f repository.ContentFilter) ([]*entity.Ebook, int64, error) {
	w := contentWhere(f, "title", "description")

	var total int64
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM ebooks`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, mapError(err)
	}

	query := fmt.Sprintf(`SELECT %s FROM ebooks%s ORDER BY %s LIMIT $%d OFFSET $%d`,
		ebookColumns, w.sql(), f.Page.OrderBy(), len(w.args)+1, len(w.args)+2)
	rows, err := r.pool.Query(ctx, query, append(w.args, f.Page.Limit, f.Page.Offset())...)
	if err != nil {
		return nil, 0, mapError(err)
	}
	defer rows.Close()

	ebooks := make([]*entity.Ebook, 0, f.Page.Limit)
	for rows.Next() {
		e, err := scanEbook(rows)
		if err != nil {
			return nil, 0, err
		}
		ebooks = append(ebooks, e)
	}
	return ebooks, total, mapError(rows.Err())
}

func (r *EbookRepository) Update(ctx context.Context, e *entity.Ebook) error {
	e.UpdatedAt = time.Now()

	res, err := r.pool.Exec(ctx, `
		UPDATE ebooks
		SET title = $1, slug = $2, description = $3, file_url = $4, cover_url = $5,
			category = $6, status = $7, published_at = $8, updated_at = $9
		WHERE id = $10
	`, e.Title, e.Slug, e.Description, e.FileURL, e.CoverURL, e.Category,
		e.Status, e.PublishedAt, e.UpdatedAt, e.ID)
	if err != nil {
		return mapError(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *EbookRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM ebooks WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *EbookRepository) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	return slugExists(ctx, r.pool, "ebooks", slug, excludeID)
}

func (r *EbookRepository) IncrementViews(ctx context.Context, id string, delta int64) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE ebooks SET view_count = view_count + $1 WHERE id = $2`, delta, id)
	return mapError(err)
}

var _ repository.EbookRepository = (*EbookRepository)(nil)
