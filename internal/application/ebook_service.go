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

type EbookService struct {
	Ebooks  repo.EbookRepository
	Redis   *redis.Client
	ES      *elasticsearch.Client
	ESIndex string
	Logger  *logrus.Logger
}

type EbookInput struct {
	Title       string
	Slug        string
	Description string
	FileURL     string
	CoverURL    string
	Category    string
}

type EbookUpdate struct {
	Title       *string
	Slug        *string
	Description *string
	FileURL     *string
	CoverURL    *string
	Category    *string
}

func (s *EbookService) Create(ctx context.Context, actor Actor, in EbookInput) (*entity.Ebook, error) {
	slug, err := uniqueSlug(ctx, in.Title, in.Slug, "", s.Ebooks.SlugExists)
	if err != nil {
		return nil, err
	}
	e := &entity.Ebook{
		Title:       in.Title,
		Slug:        slug,
		Description: in.Description,
		FileURL:     in.FileURL,
		CoverURL:    in.CoverURL,
		Category:    in.Category,
		Status:      entity.StatusDraft,
		OwnerID:     actor.ID,
	}
	if err := s.Ebooks.Create(ctx, e); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	return e, nil
}

func (s *EbookService) Get(ctx context.Context, actor Actor, idOrSlug string) (*entity.Ebook, error) {
	var e *entity.Ebook
	var err error
	if looksLikeID(idOrSlug) {
		e, err = s.Ebooks.GetByID(ctx, idOrSlug)
	} else {
		e, err = s.Ebooks.GetBySlug(ctx, idOrSlug)
	}
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !actor.CanSee(e.Status, e.OwnerID) {
		return nil, ErrNotFound
	}
	if e.Status == entity.StatusPublished {
		id := e.ID
		viewCounter{rdb: s.Redis, log: s.Logger}.bump(ctx, viewKey("ebooks", id),
			func(ctx context.Context, delta int64) error {
				return s.Ebooks.IncrementViews(ctx, id, delta)
			})
	}
	return e, nil
}

func (s *EbookService) List(ctx context.Context, actor Actor, f repo.ContentFilter) ([]*entity.Ebook, int64, error) {
	scopeFilter(actor, &f)
	return s.Ebooks.List(ctx, f)
}

func (s *EbookService) Update(ctx context.Context, actor Actor, id string, in EbookUpdate) (*entity.Ebook, error) {
	e, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, e.Status, e.OwnerID); err != nil {
		return nil, err
	}

	titleChanged := in.Title != nil && *in.Title != e.Title
	if in.Title != nil {
		e.Title = *in.Title
	}
	if in.Description != nil {
		e.Description = *in.Description
	}
	if in.FileURL != nil {
		e.FileURL = *in.FileURL
	}
	if in.CoverURL != nil {
		e.CoverURL = *in.CoverURL
	}
	if in.Category != nil {
		e.Category = *in.Category
	}
	if in.Slug != nil || titleChanged {
		explicit := ""
		if in.Slug != nil {
			explicit = *in.Slug
		}
		slug, err := uniqueSlug(ctx, e.Title, explicit, e.ID, s.Ebooks.SlugExists)
		if err != nil {
			return nil, err
		}
		e.Slug = slug
	}

	if err := s.save(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *EbookService) Publish(ctx context.Context, actor Actor, id string, at *time.Time) (*entity.Ebook, error) {
	e, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, e.Status, e.OwnerID); err != nil {
		return nil, err
	}
	if err := publish(&e.Status, &e.PublishedAt, at); err != nil {
		return nil, err
	}
	if err := s.save(ctx, e); err != nil {
		return nil, err
	}
	indexDoc(ctx, s.ES, s.Logger, s.ESIndex, e.ID, s.doc(e))
	return e, nil
}

func (s *EbookService) Unpublish(ctx context.Context, actor Actor, id string) (*entity.Ebook, error) {
	e, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, e.Status, e.OwnerID); err != nil {
		return nil, err
	}
	if err := unpublish(&e.Status, &e.PublishedAt); err != nil {
		return nil, err
	}
	if err := s.save(ctx, e); err != nil {
		return nil, err
	}
	deleteDoc(ctx, s.ES, s.Logger, s.ESIndex, e.ID)
	return e, nil
}

func (s *EbookService) SetStatus(ctx context.Context, actor Actor, id string, to entity.PublicationStatus) (*entity.Ebook, error) {
	e, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, e.Status, e.OwnerID); err != nil {
		return nil, err
	}
	if err := changeStatus(&e.Status, &e.PublishedAt, to); err != nil {
		return nil, err
	}
	if err := s.save(ctx, e); err != nil {
		return nil, err
	}
	deleteDoc(ctx, s.ES, s.Logger, s.ESIndex, e.ID)
	return e, nil
}

func (s *EbookService) Delete(ctx context.Context, actor Actor, id string) error {
	e, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if err := authorize(actor, e.Status, e.OwnerID); err != nil {
		return err
	}
	if err := s.Ebooks.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	deleteDoc(ctx, s.ES, s.Logger, s.ESIndex, e.ID)
	return nil
}

func (s *EbookService) get(ctx context.Context, id string) (*entity.Ebook, error) {
	e, err := s.Ebooks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (s *EbookService) save(ctx context.Context, e *entity.Ebook) error {
	if err := s.Ebooks.Update(ctx, e); err != nil {
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

func (s *EbookService) doc(e *entity.Ebook) map[string]any {
	return map[string]any{
		"type":        "ebook",
		"title":       e.Title,
		"slug":        e.Slug,
		"description": e.Description,
		"category":    e.Category,
	}
}
