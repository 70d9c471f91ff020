package repository

import (
	"context"

	"github.com/ortholink/ortholink-api/internal/domain/entity"
	"github.com/ortholink/ortholink-api/pkg/pagination"
)

// PracticeFilter narrows the directory listing. OnMapOnly keeps practices
// that are both flagged visible and geocoded.
type PracticeFilter struct {
	Query     string
	City      string
	Country   string
	Specialty string
	OnMapOnly bool
	Page      pagination.Params
}

type PracticeRepository interface {
	Create(ctx context.Context, p *entity.Practice) error
	GetByID(ctx context.Context, id string) (*entity.Practice, error)
	GetByOwner(ctx context.Context, ownerID string) (*entity.Practice, error)
	List(ctx context.Context, f PracticeFilter) ([]*entity.Practice, int64, error)
	Update(ctx context.Context, p *entity.Practice) error
	Delete(ctx context.Context, id string) error
}
