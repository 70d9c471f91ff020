package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ortholink/ortholink-api/internal/domain/entity"
	repo "github.com/ortholink/ortholink-api/internal/domain/repository"
	"github.com/ortholink/ortholink-api/pkg/helpers"
	"github.com/ortholink/ortholink-api/pkg/mailer"
	"github.com/ortholink/ortholink-api/pkg/mailer/templates"
	"github.com/ortholink/ortholink-api/pkg/pagination"
)

// EnrollmentService drives the course enrollment lifecycle. The storage layer
// owns the admission transaction; this service adds visibility, ownership
// and the confirmation email.
type EnrollmentService struct {
	Enrollments repo.EnrollmentRepository
	Courses     repo.CourseRepository
	Users       repo.UserRepository
	Mail        *helpers.RabbitPublisher
	Logger      *logrus.Logger
}

// Enroll admits the actor into a course. A course the actor cannot see reads
// as missing; the rest of the preconditions run inside the repository
// transaction.
func (s *EnrollmentService) Enroll(ctx context.Context, actor Actor, courseID string) (*entity.Enrollment, error) {
	course, err := s.Courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !actor.CanSee(course.Status, course.OwnerID) {
		return nil, ErrNotFound
	}

	e, err := s.Enrollments.Enroll(ctx, actor.ID, courseID, course.Price)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			return nil, ErrNotFound
		case errors.Is(err, repo.ErrNotPublished):
			return nil, ErrNotPublished
		case errors.Is(err, repo.ErrDuplicate):
			return nil, ErrAlreadyEnrolled
		case errors.Is(err, repo.ErrLimitReached):
			return nil, ErrLimitReached
		}
		return nil, err
	}

	s.notifyEnrolled(ctx, actor.ID, course)
	return e, nil
}

func (s *EnrollmentService) notifyEnrolled(ctx context.Context, userID string, course *entity.Course) {
	if s.Mail == nil || s.Users == nil {
		return
	}
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Warn("enrollment email user lookup failed")
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: templates.EnrollmentConfirmed,
		Data: map[string]any{
			"Name":        u.Name,
			"CourseTitle": course.Title,
		},
	}
	if err := s.Mail.PublishJSON(ctx, job); err != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Warn("enrollment email publish failed")
	}
}

func (s *EnrollmentService) Get(ctx context.Context, actor Actor, id string) (*entity.Enrollment, error) {
	return s.getOwned(ctx, actor, id)
}

func (s *EnrollmentService) ListMine(ctx context.Context, actor Actor, p pagination.Params) ([]*entity.Enrollment, int64, error) {
	return s.Enrollments.ListByUser(ctx, actor.ID, p)
}

// ListForCourse is for course owners checking their roster.
func (s *EnrollmentService) ListForCourse(ctx context.Context, actor Actor, courseID string, p pagination.Params) ([]*entity.Enrollment, int64, error) {
	course, err := s.Courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, err
	}
	if !actor.CanMutate(course.OwnerID) {
		if !actor.CanSee(course.Status, course.OwnerID) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, ErrForbidden
	}
	return s.Enrollments.ListByCourse(ctx, courseID, p)
}

// UpdateProgress sets completion progress. Hitting 100 completes the
// enrollment and stamps completed_at exactly once; resubmitting 100 on a
// completed enrollment is an idempotent no-op. Cancelled and refunded
// enrollments no longer accept progress.
func (s *EnrollmentService) UpdateProgress(ctx context.Context, actor Actor, id string, progress int) (*entity.Enrollment, error) {
	if progress < 0 || progress > 100 {
		return nil, ErrConflict
	}
	e, err := s.getOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if e.Status == entity.EnrollmentCompleted && progress == 100 {
		return e, nil
	}
	if e.Status != entity.EnrollmentActive {
		return nil, ErrConflict
	}

	e.Progress = progress
	if progress == 100 {
		e.Status = entity.EnrollmentCompleted
		if e.CompletedAt == nil {
			now := time.Now()
			e.CompletedAt = &now
		}
	}
	if err := s.Enrollments.UpdateProgress(ctx, e); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

// Cancel releases the seat. The row survives, so re-enrollment into the same
// course stays blocked by the unique pair.
func (s *EnrollmentService) Cancel(ctx context.Context, actor Actor, id string) (*entity.Enrollment, error) {
	e, err := s.getOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if e.Status != entity.EnrollmentActive {
		return nil, ErrConflict
	}
	if err := s.Enrollments.Cancel(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// Refund is admin-only: an active enrollment is flipped to refunded and its
// seat released. The row survives, so the unique pair keeps blocking
// re-enrollment just like a cancellation.
func (s *EnrollmentService) Refund(ctx context.Context, actor Actor, id string) (*entity.Enrollment, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	e, err := s.getOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if e.Status != entity.EnrollmentActive {
		return nil, ErrConflict
	}
	if err := s.Enrollments.Refund(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// getOwned fetches an enrollment and hides it from anyone but its user and
// admins.
func (s *EnrollmentService) getOwned(ctx context.Context, actor Actor, id string) (*entity.Enrollment, error) {
	e, err := s.Enrollments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !actor.IsAdmin() && e.UserID != actor.ID {
		return nil, ErrNotFound
	}
	return e, nil
}
