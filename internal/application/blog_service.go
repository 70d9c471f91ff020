package application

import (
	"context"
	"errors"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/ortholink/ortholink-api/internal/domain/entity"
	repo "github.com/ortholink/ortholink-api/internal/domain/repository"
)

type BlogService struct {
	Blogs   repo.BlogRepository
	Redis   *redis.Client
	ES      *elasticsearch.Client
	ESIndex string
	Logger  *logrus.Logger
}

type BlogInput struct {
	Title    string
	Slug     string
	Excerpt  string
	Body     string
	Category string
	CoverURL string
}

type BlogUpdate struct {
	Title    *string
	Slug     *string
	Excerpt  *string
	Body     *string
	Category *string
	CoverURL *string
}

func (s *BlogService) Create(ctx context.Context, actor Actor, in BlogInput) (*entity.Blog, error) {
	slug, err := uniqueSlug(ctx, in.Title, in.Slug, "", s.Blogs.SlugExists)
	if err != nil {
		return nil, err
	}
	b := &entity.Blog{
		Title:    in.Title,
		Slug:     slug,
		Excerpt:  in.Excerpt,
		Body:     in.Body,
		Category: in.Category,
		CoverURL: in.CoverURL,
		Status:   entity.StatusDraft,
		OwnerID:  actor.ID,
	}
	if err := s.Blogs.Create(ctx, b); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	return b, nil
}

// Get resolves by id or slug and applies visibility. Published fetches count
// a view.
func (s *BlogService) Get(ctx context.Context, actor Actor, idOrSlug string) (*entity.Blog, error) {
	var b *entity.Blog
	var err error
	if looksLikeID(idOrSlug) {
		b, err = s.Blogs.GetByID(ctx, idOrSlug)
	} else {
		b, err = s.Blogs.GetBySlug(ctx, idOrSlug)
	}
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !actor.CanSee(b.Status, b.OwnerID) {
		return nil, ErrNotFound
	}
	if b.Status == entity.StatusPublished {
		id := b.ID
		viewCounter{rdb: s.Redis, log: s.Logger}.bump(ctx, viewKey("blogs", id),
			func(ctx context.Context, delta int64) error {
				return s.Blogs.IncrementViews(ctx, id, delta)
			})
	}
	return b, nil
}

func (s *BlogService) List(ctx context.Context, actor Actor, f repo.ContentFilter) ([]*entity.Blog, int64, error) {
	scopeFilter(actor, &f)
	return s.Blogs.List(ctx, f)
}

func (s *BlogService) Update(ctx context.Context, actor Actor, id string, in BlogUpdate) (*entity.Blog, error) {
	b, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, b.Status, b.OwnerID); err != nil {
		return nil, err
	}

	titleChanged := in.Title != nil && *in.Title != b.Title
	if in.Title != nil {
		b.Title = *in.Title
	}
	if in.Excerpt != nil {
		b.Excerpt = *in.Excerpt
	}
	if in.Body != nil {
		b.Body = *in.Body
	}
	if in.Category != nil {
		b.Category = *in.Category
	}
	if in.CoverURL != nil {
		b.CoverURL = *in.CoverURL
	}
	if in.Slug != nil || titleChanged {
		explicit := ""
		if in.Slug != nil {
			explicit = *in.Slug
		}
		slug, err := uniqueSlug(ctx, b.Title, explicit, b.ID, s.Blogs.SlugExists)
		if err != nil {
			return nil, err
		}
		b.Slug = slug
	}

	if err := s.save(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *BlogService) Publish(ctx context.Context, actor Actor, id string, at *time.Time) (*entity.Blog, error) {
	b, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, b.Status, b.OwnerID); err != nil {
		return nil, err
	}
	if err := publish(&b.Status, &b.PublishedAt, at); err != nil {
		return nil, err
	}
	if err := s.save(ctx, b); err != nil {
		return nil, err
	}
	indexDoc(ctx, s.ES, s.Logger, s.ESIndex, b.ID, s.doc(b))
	return b, nil
}

func (s *BlogService) Unpublish(ctx context.Context, actor Actor, id string) (*entity.Blog, error) {
	b, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, b.Status, b.OwnerID); err != nil {
		return nil, err
	}
	if err := unpublish(&b.Status, &b.PublishedAt); err != nil {
		return nil, err
	}
	if err := s.save(ctx, b); err != nil {
		return nil, err
	}
	deleteDoc(ctx, s.ES, s.Logger, s.ESIndex, b.ID)
	return b, nil
}

func (s *BlogService) SetStatus(ctx context.Context, actor Actor, id string, to entity.PublicationStatus) (*entity.Blog, error) {
	b, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, b.Status, b.OwnerID); err != nil {
		return nil, err
	}
	if err := changeStatus(&b.Status, &b.PublishedAt, to); err != nil {
		return nil, err
	}
	if err := s.save(ctx, b); err != nil {
		return nil, err
	}
	deleteDoc(ctx, s.ES, s.Logger, s.ESIndex, b.ID)
	return b, nil
}

func (s *BlogService) Delete(ctx context.Context, actor Actor, id string) error {
	b, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if err := authorize(actor, b.Status, b.OwnerID); err != nil {
		return err
	}
	if err := s.Blogs.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	deleteDoc(ctx, s.ES, s.Logger, s.ESIndex, b.ID)
	return nil
}

func (s *BlogService) get(ctx context.Context, id string) (*entity.Blog, error) {
	b, err := s.Blogs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (s *BlogService) save(ctx context.Context, b *entity.Blog) error {
	if err := s.Blogs.Update(ctx, b); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return ErrSlugTaken
		}
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *BlogService) doc(b *entity.Blog) map[string]any {
	return map[string]any{
		"type":     "blog",
		"title":    b.Title,
		"slug":     b.Slug,
		"excerpt":  b.Excerpt,
		"body":     b.Body,
		"category": b.Category,
	}
}
