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

type CaseStudyRepository struct {
	pool *pgxpool.Pool
}

func NewCaseStudyRepository(pool *pgxpool.Pool) *CaseStudyRepository {
	return &CaseStudyRepository{pool: pool}
}

const caseStudyColumns = `id, title, slug, summary, body, treatment_type, status,
	owner_id, view_count, published_at, created_at, updated_at`

func scanCaseStudy(row pgx.Row) (*entity.CaseStudy, error) {
	cs := &entity.CaseStudy{}
	err := row.Scan(&cs.ID, &cs.Title, &cs.Slug, &cs.Summary, &cs.Body,
		&cs.TreatmentType, &cs.Status, &cs.OwnerID, &cs.ViewCount,
		&cs.PublishedAt, &cs.CreatedAt, &cs.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return cs, nil
}

func (r *CaseStudyRepository) Create(ctx context.Context, cs *entity.CaseStudy) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO case_studies (title, slug, summary, body, treatment_type, status, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, cs.Title, cs.Slug, cs.Summary, cs.Body, cs.TreatmentType, cs.Status, cs.OwnerID)

	return mapError(row.Scan(&cs.ID, &cs.CreatedAt, &cs.UpdatedAt))
}

func (r *CaseStudyRepository) GetByID(ctx context.Context, id string) (*entity.CaseStudy, error) {
	return scanCaseStudy(r.pool.QueryRow(ctx,
		`SELECT `+caseStudyColumns+` FROM case_studies WHERE id = $1`, id))
}

func (r *CaseStudyRepository) GetBySlug(ctx context.Context, slug string) (*entity.CaseStudy, error) {
	return scanCaseStudy(r.pool.QueryRow(ctx,
		`SELECT `+caseStudyColumns+` FROM case_studies WHERE slug = $1`, slug))
}

func (r *CaseStudyRepository) List(ctx context.Context, f repository.ContentFilter) ([]*entity.CaseStudy, int64, error) {
	// Category maps onto treatment_type for case studies.
	w := &whereClause{}
	if q := f.Query; q != "" {
		like := "%" + q + "%"
		w.add("(title ILIKE ? OR summary ILIKE ? OR body ILIKE ?)", like, like, like)
	}
	if f.Status != nil {
		w.add("status = ?", string(*f.Status))
	}
	if f.Category != "" {
		w.add("treatment_type = ?", f.Category)
	}
	if f.OwnerID != "" {
		w.add("owner_id = ?", f.OwnerID)
	}

	var total int64
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM case_studies`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, mapError(err)
	}

	query := fmt.Sprintf(`SELECT %s FROM case_studies%s ORDER BY %s LIMIT $%d OFFSET $%d`,
		caseStudyColumns, w.sql(), f.Page.OrderBy(), len(w.args)+1, len(w.args)+2)
	rows, err := r.pool.Query(ctx, query, append(w.args, f.Page.Limit, f.Page.Offset())...)
	if err != nil {
		return nil, 0, mapError(err)
	}
	defer rows.Close()

	studies := make([]*entity.CaseStudy, 0, f.Page.Limit)
	for rows.Next() {
		cs, err := scanCaseStudy(rows)
		if err != nil {
			return nil, 0, err
		}
		studies = append(studies, cs)
	}
	return studies, total, mapError(rows.Err())
}

func (r *CaseStudyRepository) Update(ctx context.Context, cs *entity.CaseStudy) error {
	cs.UpdatedAt = time.Now()

	res, err := r.pool.Exec(ctx, `
		UPDATE case_studies
		SET title = $1, slug = $2, summary = $3, body = $4, treatment_type = $5,
			status = $6, published_at = $7, updated_at = $8
		WHERE id = $9
	`, cs.Title, cs.Slug, cs.Summary, cs.Body, cs.TreatmentType, cs.Status,
		cs.PublishedAt, cs.UpdatedAt, cs.ID)
	if err != nil {
		return mapError(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *CaseStudyRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM case_studies WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *CaseStudyRepository) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	return slugExists(ctx, r.pool, "case_studies", slug, excludeID)
}

func (r *CaseStudyRepository) IncrementViews(ctx context.Context, id string, delta int64) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE case_studies SET view_count = view_count + $1 WHERE id = $2`, delta, id)
	return mapError(err)
}

var _ repository.CaseStudyRepository = (*CaseStudyRepository)(nil)
