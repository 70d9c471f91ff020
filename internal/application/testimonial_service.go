package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ortholink/ortholink-api/internal/domain/entity"
	repo "github.com/ortholink/ortholink-api/internal/domain/repository"
)

// TestimonialService treats publishing as approval: only admins publish or
// unpublish, while members manage their own drafts.
type TestimonialService struct {
	Testimonials repo.TestimonialRepository
	Logger       *logrus.Logger
}

type TestimonialInput struct {
	AuthorName string
	Quote      string
}

type TestimonialUpdate struct {
	AuthorName *string
	Quote      *string
}

func (s *TestimonialService) Create(ctx context.Context, actor Actor, in TestimonialInput) (*entity.Testimonial, error) {
	slug, err := uniqueSlug(ctx, in.AuthorName, "", "", s.Testimonials.SlugExists)
	if err != nil {
		return nil, err
	}
	tm := &entity.Testimonial{
		AuthorName: in.AuthorName,
		Slug:       slug,
		Quote:      in.Quote,
		Status:     entity.StatusDraft,
		OwnerID:    actor.ID,
	}
	if err := s.Testimonials.Create(ctx, tm); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	return tm, nil
}

func (s *TestimonialService) Get(ctx context.Context, actor Actor, id string) (*entity.Testimonial, error) {
	tm, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanSee(tm.Status, tm.OwnerID) {
		return nil, ErrNotFound
	}
	return tm, nil
}

func (s *TestimonialService) List(ctx context.Context, actor Actor, f repo.ContentFilter) ([]*entity.Testimonial, int64, error) {
	scopeFilter(actor, &f)
	return s.Testimonials.List(ctx, f)
}

func (s *TestimonialService) Update(ctx context.Context, actor Actor, id string, in TestimonialUpdate) (*entity.Testimonial, error) {
	tm, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, tm.Status, tm.OwnerID); err != nil {
		return nil, err
	}

	nameChanged := in.AuthorName != nil && *in.AuthorName != tm.AuthorName
	if in.AuthorName != nil {
		tm.AuthorName = *in.AuthorName
	}
	if in.Quote != nil {
		tm.Quote = *in.Quote
	}
	if nameChanged {
		slug, err := uniqueSlug(ctx, tm.AuthorName, "", tm.ID, s.Testimonials.SlugExists)
		if err != nil {
			return nil, err
		}
		tm.Slug = slug
	}

	if err := s.save(ctx, tm); err != nil {
		return nil, err
	}
	return tm, nil
}

// Approve publishes a testimonial. Approval is an admin decision, ownership
// does not grant it.
func (s *TestimonialService) Approve(ctx context.Context, actor Actor, id string, at *time.Time) (*entity.Testimonial, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	tm, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := publish(&tm.Status, &tm.PublishedAt, at); err != nil {
		return nil, err
	}
	if err := s.save(ctx, tm); err != nil {
		return nil, err
	}
	return tm, nil
}

func (s *TestimonialService) Unpublish(ctx context.Context, actor Actor, id string) (*entity.Testimonial, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	tm, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := unpublish(&tm.Status, &tm.PublishedAt); err != nil {
		return nil, err
	}
	if err := s.save(ctx, tm); err != nil {
		return nil, err
	}
	return tm, nil
}

func (s *TestimonialService) Delete(ctx context.Context, actor Actor, id string) error {
	tm, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if err := authorize(actor, tm.Status, tm.OwnerID); err != nil {
		return err
	}
	if err := s.Testimonials.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *TestimonialService) get(ctx context.Context, id string) (*entity.Testimonial, error) {
	tm, err := s.Testimonials.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return tm, nil
}

func (s *TestimonialService) save(ctx context.Context, tm *entity.Testimonial) error {
	if err := s.Testimonials.Update(ctx, tm); err != nil {
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
