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
)

// SessionService manages live sessions. Lifecycle changes go through the
// session transition table; there is no free-form status update.
type SessionService struct {
	Sessions repo.LiveSessionRepository
	Users    repo.UserRepository
	Mail     *helpers.RabbitPublisher
	Logger   *logrus.Logger
}

type SessionInput struct {
	Title       string
	Slug        string
	Description string
	MeetingURL  string
	ScheduledAt time.Time
}

type SessionUpdate struct {
	Title       *string
	Slug        *string
	Description *string
	MeetingURL  *string
	ScheduledAt *time.Time
}

func (s *SessionService) Create(ctx context.Context, actor Actor, in SessionInput) (*entity.LiveSession, error) {
	slug, err := uniqueSlug(ctx, in.Title, in.Slug, "", s.Sessions.SlugExists)
	if err != nil {
		return nil, err
	}
	ls := &entity.LiveSession{
		Title:       in.Title,
		Slug:        slug,
		Description: in.Description,
		MeetingURL:  in.MeetingURL,
		Status:      entity.SessionScheduled,
		OwnerID:     actor.ID,
		ScheduledAt: in.ScheduledAt,
	}
	if err := s.Sessions.Create(ctx, ls); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	return ls, nil
}

func (s *SessionService) Get(ctx context.Context, actor Actor, idOrSlug string) (*entity.LiveSession, error) {
	var ls *entity.LiveSession
	var err error
	if looksLikeID(idOrSlug) {
		ls, err = s.Sessions.GetByID(ctx, idOrSlug)
	} else {
		ls, err = s.Sessions.GetBySlug(ctx, idOrSlug)
	}
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !ls.PubliclyVisible() && !actor.CanMutate(ls.OwnerID) {
		return nil, ErrNotFound
	}
	return ls, nil
}

func (s *SessionService) List(ctx context.Context, actor Actor, f repo.SessionFilter) ([]*entity.LiveSession, int64, error) {
	if !actor.IsAdmin() && (actor.ID == "" || f.OwnerID != actor.ID) {
		// Outsiders see scheduled and live sessions only.
		publicStatus := f.Status != nil &&
			(*f.Status == entity.SessionScheduled || *f.Status == entity.SessionLive)
		if !publicStatus {
			f.Status = nil
			f.PublicOnly = true
		}
	}
	return s.Sessions.List(ctx, f)
}

func (s *SessionService) Update(ctx context.Context, actor Actor, id string, in SessionUpdate) (*entity.LiveSession, error) {
	ls, err := s.getAuthorized(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	titleChanged := in.Title != nil && *in.Title != ls.Title
	if in.Title != nil {
		ls.Title = *in.Title
	}
	if in.Description != nil {
		ls.Description = *in.Description
	}
	if in.MeetingURL != nil {
		ls.MeetingURL = *in.MeetingURL
	}
	if in.ScheduledAt != nil {
		ls.ScheduledAt = *in.ScheduledAt
	}
	if in.Slug != nil || titleChanged {
		explicit := ""
		if in.Slug != nil {
			explicit = *in.Slug
		}
		slug, err := uniqueSlug(ctx, ls.Title, explicit, ls.ID, s.Sessions.SlugExists)
		if err != nil {
			return nil, err
		}
		ls.Slug = slug
	}

	if err := s.save(ctx, ls); err != nil {
		return nil, err
	}
	return ls, nil
}

func (s *SessionService) Start(ctx context.Context, actor Actor, id string) (*entity.LiveSession, error) {
	return s.transition(ctx, actor, id, entity.ActionStart, nil)
}

func (s *SessionService) End(ctx context.Context, actor Actor, id string) (*entity.LiveSession, error) {
	return s.transition(ctx, actor, id, entity.ActionEnd, nil)
}

func (s *SessionService) Cancel(ctx context.Context, actor Actor, id string) (*entity.LiveSession, error) {
	return s.transition(ctx, actor, id, entity.ActionCancel, nil)
}

func (s *SessionService) Postpone(ctx context.Context, actor Actor, id string) (*entity.LiveSession, error) {
	return s.transition(ctx, actor, id, entity.ActionPostpone, nil)
}

// Reschedule moves a postponed session back onto the calendar at a new time.
func (s *SessionService) Reschedule(ctx context.Context, actor Actor, id string, at time.Time) (*entity.LiveSession, error) {
	return s.transition(ctx, actor, id, entity.ActionReschedule, &at)
}

func (s *SessionService) transition(ctx context.Context, actor Actor, id string, action entity.SessionAction, at *time.Time) (*entity.LiveSession, error) {
	ls, err := s.getAuthorized(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	wasCancelled := ls.Status == entity.SessionCancelled
	next, err := entity.NextSessionStatus(ls.Status, action)
	if err != nil {
		return nil, ErrInvalidTransition
	}
	ls.Status = next

	now := time.Now()
	switch action {
	case entity.ActionStart:
		ls.StartedAt = &now
	case entity.ActionEnd:
		ls.EndedAt = &now
	case entity.ActionReschedule:
		ls.ScheduledAt = *at
	}

	if err := s.save(ctx, ls); err != nil {
		return nil, err
	}

	if action == entity.ActionCancel && !wasCancelled {
		s.notifyCancelled(ctx, ls)
	}
	return ls, nil
}

// notifyCancelled queues a cancellation notice to the host, fire-and-forget.
func (s *SessionService) notifyCancelled(ctx context.Context, ls *entity.LiveSession) {
	if s.Mail == nil || s.Users == nil {
		return
	}
	owner, err := s.Users.GetByID(ctx, ls.OwnerID)
	if err != nil {
		s.Logger.WithError(err).WithField("session_id", ls.ID).Warn("cancellation notice owner lookup failed")
		return
	}
	job := mailer.EmailJob{
		To:       owner.Email,
		Template: templates.SessionCancelled,
		Data: map[string]any{
			"Name":         owner.Name,
			"SessionTitle": ls.Title,
			"ScheduledAt":  ls.ScheduledAt.Format(time.RFC1123),
		},
	}
	if err := s.Mail.PublishJSON(ctx, job); err != nil {
		s.Logger.WithError(err).WithField("session_id", ls.ID).Warn("cancellation notice publish failed")
	}
}

func (s *SessionService) Delete(ctx context.Context, actor Actor, id string) error {
	if _, err := s.getAuthorized(ctx, actor, id); err != nil {
		return err
	}
	if err := s.Sessions.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *SessionService) getAuthorized(ctx context.Context, actor Actor, id string) (*entity.LiveSession, error) {
	ls, err := s.Sessions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !actor.CanMutate(ls.OwnerID) {
		if !ls.PubliclyVisible() {
			return nil, ErrNotFound
		}
		return nil, ErrForbidden
	}
	return ls, nil
}

func (s *SessionService) save(ctx context.Context, ls *entity.LiveSession) error {
	if err := s.Sessions.Update(ctx, ls); err != nil {
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
