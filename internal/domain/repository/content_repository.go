package repository

import (
	"context"

	"github.com/ortholink/ortholink-api/internal/domain/entity"
	"github.com/ortholink/ortholink-api/pkg/pagination"
)

// ContentFilter is shared by every content list endpoint. Query is a
// case-insensitive substring match across the type's text fields; the rest
// are equality filters. A nil Status means "no status filter" (callers apply
// visibility).
type ContentFilter struct {
	Query    string
	Status   *entity.PublicationStatus
	Category string
	OwnerID  string
	Page     pagination.Params
}

type BlogRepository interface {
	Create(ctx context.Context, b *entity.Blog) error
	GetByID(ctx context.Context, id string) (*entity.Blog, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Blog, error)
	List(ctx context.Context, f ContentFilter) ([]*entity.Blog, int64, error)
	Update(ctx context.Context, b *entity.Blog) error
	Delete(ctx context.Context, id string) error
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
	IncrementViews(ctx context.Context, id string, delta int64) error
}

type CourseRepository interface {
	Create(ctx context.Context, c *entity.Course) error
	GetByID(ctx context.Context, id string) (*entity.Course, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Course, error)
	List(ctx context.Context, f ContentFilter) ([]*entity.Course, int64, error)
	Update(ctx context.Context, c *entity.Course) error
	UpdateCoverURL(ctx context.Context, id, coverURL string) error
	Delete(ctx context.Context, id string) error
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
	IncrementViews(ctx context.Context, id string, delta int64) error
}

type EbookRepository interface {
	Create(ctx context.Context, e *entity.Ebook) error
	GetByID(ctx context.Context, id string) (*entity.Ebook, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Ebook, error)
	List(ctx context.Context, f ContentFilter) ([]*entity.Ebook, int64, error)
	Update(ctx context.Context, e *entity.Ebook) error
	Delete(ctx context.Context, id string) error
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
	IncrementViews(ctx context.Context, id string, delta int64) error
}

type CaseStudyRepository interface {
	Create(ctx context.Context, cs *entity.CaseStudy) error
	GetByID(ctx context.Context, id string) (*entity.CaseStudy, error)
	GetBySlug(ctx context.Context, slug string) (*entity.CaseStudy, error)
	List(ctx context.Context, f ContentFilter) ([]*entity.CaseStudy, int64, error)
	Update(ctx context.Context, cs *entity.CaseStudy) error
	Delete(ctx context.Context, id string) error
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
	IncrementViews(ctx context.Context, id string, delta int64) error
}

type TestimonialRepository interface {
	Create(ctx context.Context, tm *entity.Testimonial) error
	GetByID(ctx context.Context, id string) (*entity.Testimonial, error)
	List(ctx context.Context, f ContentFilter) ([]*entity.Testimonial, int64, error)
	Update(ctx context.Context, tm *entity.Testimonial) error
	Delete(ctx context.Context, id string) error
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
}

// SessionFilter mirrors ContentFilter for live sessions, whose lifecycle
// uses SessionStatus. Default sort is scheduled_at ascending.
type SessionFilter struct {
	Query      string
	Status     *entity.SessionStatus
	OwnerID    string
	PublicOnly bool // scheduled or live only
	Page       pagination.Params
}

type LiveSessionRepository interface {
	Create(ctx context.Context, s *entity.LiveSession) error
	GetByID(ctx context.Context, id string) (*entity.LiveSession, error)
	GetBySlug(ctx context.Context, slug string) (*entity.LiveSession, error)
	List(ctx context.Context, f SessionFilter) ([]*entity.LiveSession, int64, error)
	Update(ctx context.Context, s *entity.LiveSession) error
	Delete(ctx context.Context, id string) error
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
}
