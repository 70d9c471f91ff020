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

type PracticeRepository struct {
	pool *pgxpool.Pool
}

func NewPracticeRepository(pool *pgxpool.Pool) *PracticeRepository {
	return &PracticeRepository{pool: pool}
}

const practiceColumns = `id, owner_id, name, specialty, address, city, country,
	phone, website, lat, lon, show_on_map, created_at, updated_at`

func scanPractice(row pgx.Row) (*entity.Practice, error) {
	p := &entity.Practice{}
	err := row.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Specialty, &p.Address,
		&p.City, &p.Country, &p.Phone, &p.Website, &p.Lat, &p.Lon,
		&p.ShowOnMap, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return p, nil
}

func (r *PracticeRepository) Create(ctx context.Context, p *entity.Practice) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO practices (owner_id, name, specialty, address, city, country,
			phone, website, lat, lon, show_on_map)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`, p.OwnerID, p.Name, p.Specialty, p.Address, p.City, p.Country,
		p.Phone, p.Website, p.Lat, p.Lon, p.ShowOnMap)

	return mapError(row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt))
}

func (r *PracticeRepository) GetByID(ctx context.Context, id string) (*entity.Practice, error) {
	return scanPractice(r.pool.QueryRow(ctx,
		`SELECT `+practiceColumns+` FROM practices WHERE id = $1`, id))
}

func (r *PracticeRepository) GetByOwner(ctx context.Context, ownerID string) (*entity.Practice, error) {
	return scanPractice(r.pool.QueryRow(ctx,
		`SELECT `+practiceColumns+` FROM practices WHERE owner_id = $1`, ownerID))
}

func (r *PracticeRepository) List(ctx context.Context, f repository.PracticeFilter) ([]*entity.Practice, int64, error) {
	w := &whereClause{}
	if q := strings.TrimSpace(f.Query); q != "" {
		like := "%" + q + "%"
		w.add("(name ILIKE ? OR specialty ILIKE ? OR city ILIKE ?)", like, like, like)
	}
	if f.City != "" {
		w.add("city ILIKE ?", f.City)
	}
	if f.Country != "" {
		w.add("country ILIKE ?", f.Country)
	}
	if f.Specialty != "" {
		w.add("specialty = ?", f.Specialty)
	}
	if f.OnMapOnly {
		w.add("show_on_map = TRUE AND lat IS NOT NULL AND lon IS NOT NULL")
	}

	var total int64
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM practices`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, mapError(err)
	}

	query := fmt.Sprintf(`SELECT %s FROM practices%s ORDER BY %s LIMIT $%d OFFSET $%d`,
		practiceColumns, w.sql(), f.Page.OrderBy(), len(w.args)+1, len(w.args)+2)
	rows, err := r.pool.Query(ctx, query, append(w.args, f.Page.Limit, f.Page.Offset())...)
	if err != nil {
		return nil, 0, mapError(err)
	}
	defer rows.Close()

	practices := make([]*entity.Practice, 0, f.Page.Limit)
	for rows.Next() {
		p, err := scanPractice(rows)
		if err != nil {
			return nil, 0, err
		}
		practices = append(practices, p)
	}
	return practices, total, mapError(rows.Err())
}

func (r *PracticeRepository) Update(ctx context.Context, p *entity.Practice) error {
	p.UpdatedAt = time.Now()

	res, err := r.pool.Exec(ctx, `
		UPDATE practices
		SET name = $1, specialty = $2, address = $3, city = $4, country = $5,
			phone = $6, website = $7, lat = $8, lon = $9, show_on_map = $10,
			updated_at = $11
		WHERE id = $12
	`, p.Name, p.Specialty, p.Address, p.City, p.Country, p.Phone, p.Website,
		p.Lat, p.Lon, p.ShowOnMap, p.UpdatedAt, p.ID)
	if err != nil {
		return mapError(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PracticeRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM practices WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.PracticeRepository = (*PracticeRepository)(nil)
