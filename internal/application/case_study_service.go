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

type CaseStudyService struct {
	CaseStudies repo.CaseStudyRepository
	Redis       *redis.Client
	ES          *elasticsearch.Client
	ESIndex     string
	Logger      *logrus.Logger
}

type CaseStudyInput struct {
	Title         string
	Slug          string
	Summary       string
	Body          string
	TreatmentType string
}

type CaseStudyUpdate struct {
	Title         *string
	Slug          *string
	Summary       *string
	Body          *string
	TreatmentType *string
}

func (s *CaseStudyService) Create(ctx context.Context, actor Actor, in CaseStudyInput) (*entity.CaseStudy, error) {
	slug, err := uniqueSlug(ctx, in.Title, in.Slug, "", s.CaseStudies.SlugExists)
	if err != nil {
		return nil, err
	}
	cs := &entity.CaseStudy{
		Title:         in.Title,
		Slug:          slug,
		Summary:       in.Summary,
		Body:          in.Body,
		TreatmentType: in.TreatmentType,
		Status:        entity.StatusDraft,
		OwnerID:       actor.ID,
	}
	if err := s.CaseStudies.Create(ctx, cs); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	return cs, nil
}

func (s *CaseStudyService) Get(ctx context.Context, actor Actor, idOrSlug string) (*entity.CaseStudy, error) {
	var cs *entity.CaseStudy
	var err error
	if looksLikeID(idOrSlug) {
		cs, err = s.CaseStudies.GetByID(ctx, idOrSlug)
	} else {
		cs, err = s.CaseStudies.GetBySlug(ctx, idOrSlug)
	}
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !actor.CanSee(cs.Status, cs.OwnerID) {
		return nil, ErrNotFound
	}
	if cs.Status == entity.StatusPublished {
		id := cs.ID
		viewCounter{rdb: s.Redis, log: s.Logger}.bump(ctx, viewKey("case_studies", id),
			func(ctx context.Context, delta int64) error {
				return s.CaseStudies.IncrementViews(ctx, id, delta)
			})
	}
	return cs, nil
}

func (s *CaseStudyService) List(ctx context.Context, actor Actor, f repo.ContentFilter) ([]*entity.CaseStudy, int64, error) {
	scopeFilter(actor, &f)
	return s.CaseStudies.List(ctx, f)
}

func (s *CaseStudyService) Update(ctx context.Context, actor Actor, id string, in CaseStudyUpdate) (*entity.CaseStudy, error) {
	cs, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, cs.Status, cs.OwnerID); err != nil {
		return nil, err
	}

	titleChanged := in.Title != nil && *in.Title != cs.Title
	if in.Title != nil {
		cs.Title = *in.Title
	}
	if in.Summary != nil {
		cs.Summary = *in.Summary
	}
	if in.Body != nil {
		cs.Body = *in.Body
	}
	if in.TreatmentType != nil {
		cs.TreatmentType = *in.TreatmentType
	}
	if in.Slug != nil || titleChanged {
		explicit := ""
		if in.Slug != nil {
			explicit = *in.Slug
		}
		slug, err := uniqueSlug(ctx, cs.Title, explicit, cs.ID, s.CaseStudies.SlugExists)
		if err != nil {
			return nil, err
		}
		cs.Slug = slug
	}

	if err := s.save(ctx, cs); err != nil {
		return nil, err
	}
	return cs, nil
}

func (s *CaseStudyService) Publish(ctx context.Context, actor Actor, id string, at *time.Time) (*entity.CaseStudy, error) {
	cs, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, cs.Status, cs.OwnerID); err != nil {
		return nil, err
	}
	if err := publish(&cs.Status, &cs.PublishedAt, at); err != nil {
		return nil, err
	}
	if err := s.save(ctx, cs); err != nil {
		return nil, err
	}
	indexDoc(ctx, s.ES, s.Logger, s.ESIndex, cs.ID, s.doc(cs))
	return cs, nil
}

func (s *CaseStudyService) Unpublish(ctx context.Context, actor Actor, id string) (*entity.CaseStudy, error) {
	cs, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, cs.Status, cs.OwnerID); err != nil {
		return nil, err
	}
	if err := unpublish(&cs.Status, &cs.PublishedAt); err != nil {
		return nil, err
	}
	if err := s.save(ctx, cs); err != nil {
		return nil, err
	}
	deleteDoc(ctx, s.ES, s.Logger, s.ESIndex, cs.ID)
	return cs, nil
}

func (s *CaseStudyService) SetStatus(ctx context.Context, actor Actor, id string, to entity.PublicationStatus) (*entity.CaseStudy, error) {
	cs, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, cs.Status, cs.OwnerID); err != nil {
		return nil, err
	}
	if err := changeStatus(&cs.Status, &cs.PublishedAt, to); err != nil {
		return nil, err
	}
	if err := s.save(ctx, cs); err != nil {
		return nil, err
	}
	deleteDoc(ctx, s.ES, s.Logger, s.ESIndex, cs.ID)
	return cs, nil
}

func (s *CaseStudyService) Delete(ctx context.Context, actor Actor, id string) error {
	cs, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if err := authorize(actor, cs.Status, cs.OwnerID); err != nil {
		return err
	}
	if err := s.CaseStudies.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	deleteDoc(ctx, s.ES, s.Logger, s.ESIndex, cs.ID)
	return nil
}

func (s *CaseStudyService) get(ctx context.Context, id string) (*entity.CaseStudy, error) {
	cs, err := s.CaseStudies.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return cs, nil
}

func (s *CaseStudyService) save(ctx context.Context, cs *entity.CaseStudy) error {
	if err := s.CaseStudies.Update(ctx, cs); err != nil {
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

func (s *CaseStudyService) doc(cs *entity.CaseStudy) map[string]any {
	return map[string]any{
		"type":           "case_study",
		"title":          cs.Title,
		"slug":           cs.Slug,
		"summary":        cs.Summary,
		"body":           cs.Body,
		"treatment_type": cs.TreatmentType,
	}
}
