package application

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/ortholink/ortholink-api/internal/domain/entity"
	repo "github.com/ortholink/ortholink-api/internal/domain/repository"
	"github.com/ortholink/ortholink-api/pkg/helpers"
)

type CourseService struct {
	Courses   repo.CourseRepository
	Redis     *redis.Client
	GCS       *storage.Client
	GCSBucket string
	ES        *elasticsearch.Client
	ESIndex   string
	Logger    *logrus.Logger
}

type CourseInput struct {
	Title          string
	Slug           string
	Summary        string
	Body           string
	Category       string
	CoverURL       string
	Price          float64
	MaxEnrollments *int
}

type CourseUpdate struct {
	Title          *string
	Slug           *string
	Summary        *string
	Body           *string
	Category       *string
	CoverURL       *string
	Price          *float64
	MaxEnrollments *int
	ClearLimit     bool
}

func (s *CourseService) Create(ctx context.Context, actor Actor, in CourseInput) (*entity.Course, error) {
	slug, err := uniqueSlug(ctx, in.Title, in.Slug, "", s.Courses.SlugExists)
	if err != nil {
		return nil, err
	}
	c := &entity.Course{
		Title:          in.Title,
		Slug:           slug,
		Summary:        in.Summary,
		Body:           in.Body,
		Category:       in.Category,
		CoverURL:       in.CoverURL,
		Price:          in.Price,
		MaxEnrollments: in.MaxEnrollments,
		Status:         entity.StatusDraft,
		OwnerID:        actor.ID,
	}
	if err := s.Courses.Create(ctx, c); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	return c, nil
}

func (s *CourseService) Get(ctx context.Context, actor Actor, idOrSlug string) (*entity.Course, error) {
	var c *entity.Course
	var err error
	if looksLikeID(idOrSlug) {
		c, err = s.Courses.GetByID(ctx, idOrSlug)
	} else {
		c, err = s.Courses.GetBySlug(ctx, idOrSlug)
	}
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !actor.CanSee(c.Status, c.OwnerID) {
		return nil, ErrNotFound
	}
	if c.Status == entity.StatusPublished {
		id := c.ID
		viewCounter{rdb: s.Redis, log: s.Logger}.bump(ctx, viewKey("courses", id),
			func(ctx context.Context, delta int64) error {
				return s.Courses.IncrementViews(ctx, id, delta)
			})
	}
	return c, nil
}

func (s *CourseService) List(ctx context.Context, actor Actor, f repo.ContentFilter) ([]*entity.Course, int64, error) {
	scopeFilter(actor, &f)
	return s.Courses.List(ctx, f)
}

func (s *CourseService) Update(ctx context.Context, actor Actor, id string, in CourseUpdate) (*entity.Course, error) {
	c, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, c.Status, c.OwnerID); err != nil {
		return nil, err
	}

	titleChanged := in.Title != nil && *in.Title != c.Title
	if in.Title != nil {
		c.Title = *in.Title
	}
	if in.Summary != nil {
		c.Summary = *in.Summary
	}
	if in.Body != nil {
		c.Body = *in.Body
	}
	if in.Category != nil {
		c.Category = *in.Category
	}
	if in.CoverURL != nil {
		c.CoverURL = *in.CoverURL
	}
	if in.Price != nil {
		c.Price = *in.Price
	}
	if in.ClearLimit {
		c.MaxEnrollments = nil
	} else if in.MaxEnrollments != nil {
		c.MaxEnrollments = in.MaxEnrollments
	}
	if in.Slug != nil || titleChanged {
		explicit := ""
		if in.Slug != nil {
			explicit = *in.Slug
		}
		slug, err := uniqueSlug(ctx, c.Title, explicit, c.ID, s.Courses.SlugExists)
		if err != nil {
			return nil, err
		}
		c.Slug = slug
	}

	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CourseService) Publish(ctx context.Context, actor Actor, id string, at *time.Time) (*entity.Course, error) {
	c, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, c.Status, c.OwnerID); err != nil {
		return nil, err
	}
	if err := publish(&c.Status, &c.PublishedAt, at); err != nil {
		return nil, err
	}
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	indexDoc(ctx, s.ES, s.Logger, s.ESIndex, c.ID, s.doc(c))
	return c, nil
}

func (s *CourseService) Unpublish(ctx context.Context, actor Actor, id string) (*entity.Course, error) {
	c, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, c.Status, c.OwnerID); err != nil {
		return nil, err
	}
	if err := unpublish(&c.Status, &c.PublishedAt); err != nil {
		return nil, err
	}
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	deleteDoc(ctx, s.ES, s.Logger, s.ESIndex, c.ID)
	return c, nil
}

func (s *CourseService) SetStatus(ctx context.Context, actor Actor, id string, to entity.PublicationStatus) (*entity.Course, error) {
	c, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, c.Status, c.OwnerID); err != nil {
		return nil, err
	}
	if err := changeStatus(&c.Status, &c.PublishedAt, to); err != nil {
		return nil, err
	}
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	deleteDoc(ctx, s.ES, s.Logger, s.ESIndex, c.ID)
	return c, nil
}

func (s *CourseService) Delete(ctx context.Context, actor Actor, id string) error {
	c, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if err := authorize(actor, c.Status, c.OwnerID); err != nil {
		return err
	}
	if err := s.Courses.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	deleteDoc(ctx, s.ES, s.Logger, s.ESIndex, c.ID)
	return nil
}

// AttachCoverAsync uploads course media in the background and patches the
// cover URL when the upload lands. The request does not wait; failures are
// logged and the course keeps its previous cover.
func (s *CourseService) AttachCoverAsync(ctx context.Context, actor Actor, id string, data []byte, filename, contentType string) error {
	c, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if err := authorize(actor, c.Status, c.OwnerID); err != nil {
		return err
	}
	if s.GCS == nil || s.GCSBucket == "" {
		return errors.New("media storage not configured")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("courses", c.ID, uuid.NewString()+ext))
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, bytes.NewReader(data))
		if err != nil {
			s.Logger.WithError(err).WithField("course_id", c.ID).Warn("course media upload failed")
			return
		}
		if err := s.Courses.UpdateCoverURL(ctx, c.ID, url); err != nil {
			s.Logger.WithError(err).WithField("course_id", c.ID).Warn("course media patch failed")
		}
	}()
	return nil
}

func (s *CourseService) get(ctx context.Context, id string) (*entity.Course, error) {
	c, err := s.Courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (s *CourseService) save(ctx context.Context, c *entity.Course) error {
	if err := s.Courses.Update(ctx, c); err != nil {
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

func (s *CourseService) doc(c *entity.Course) map[string]any {
	return map[string]any{
		"type":     "course",
		"title":    c.Title,
		"slug":     c.Slug,
		"summary":  c.Summary,
		"body":     c.Body,
		"category": c.Category,
		"price":    c.Price,
	}
}
