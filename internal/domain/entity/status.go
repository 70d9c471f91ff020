package entity

import "fmt"

// PublicationStatus is the lifecycle of editorial content
// (blogs, courses, ebooks, case studies, testimonials).
type PublicationStatus string

const (
	StatusDraft       PublicationStatus = "draft"
	StatusPublished   PublicationStatus = "published"
	StatusArchived    PublicationStatus = "archived"
	StatusUnderReview PublicationStatus = "under_review"
)

func (s PublicationStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived, StatusUnderReview:
		return true
	}
	return false
}

// contentTransitions is the allowed direct status moves outside the dedicated
// publish/unpublish actions (which carry their own guards and side effects).
var contentTransitions = map[PublicationStatus][]PublicationStatus{
	StatusDraft:       {StatusUnderReview, StatusArchived},
	StatusUnderReview: {StatusDraft, StatusArchived},
	StatusPublished:   {StatusArchived},
	StatusArchived:    {StatusDraft},
}

// CanTransitionContent reports whether a direct status update from → to is allowed.
func CanTransitionContent(from, to PublicationStatus) bool {
	if from == to {
		return true
	}
	for _, s := range contentTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// SessionStatus is the lifecycle of a live session.
type SessionStatus string

const (
	SessionScheduled SessionStatus = "scheduled"
	SessionLive      SessionStatus = "live"
	SessionCompleted SessionStatus = "completed"
	SessionCancelled SessionStatus = "cancelled"
	SessionPostponed SessionStatus = "postponed"
)

func (s SessionStatus) Valid() bool {
	switch s {
	case SessionScheduled, SessionLive, SessionCompleted, SessionCancelled, SessionPostponed:
		return true
	}
	return false
}

// SessionAction is a guarded operation on a live session.
type SessionAction string

const (
	ActionStart      SessionAction = "start"
	ActionEnd        SessionAction = "end"
	ActionCancel     SessionAction = "cancel"
	ActionPostpone   SessionAction = "postpone"
	ActionReschedule SessionAction = "reschedule"
)

// sessionTransitions is the full (state, action) -> state table. Every status
// in the enum is reachable. Cancelling an already-cancelled session succeeds
// idempotently; completed sessions accept no action.
var sessionTransitions = map[SessionStatus]map[SessionAction]SessionStatus{
	SessionScheduled: {
		ActionStart:    SessionLive,
		ActionCancel:   SessionCancelled,
		ActionPostpone: SessionPostponed,
	},
	SessionLive: {
		ActionEnd:    SessionCompleted,
		ActionCancel: SessionCancelled,
	},
	SessionPostponed: {
		ActionReschedule: SessionScheduled,
		ActionCancel:     SessionCancelled,
	},
	SessionCancelled: {
		ActionCancel: SessionCancelled,
	},
	SessionCompleted: {},
}

// NextSessionStatus resolves action against the transition table.
func NextSessionStatus(current SessionStatus, action SessionAction) (SessionStatus, error) {
	next, ok := sessionTransitions[current][action]
	if !ok {
		return "", fmt.Errorf("cannot %s a %s session", action, current)
	}
	return next, nil
}

// EnrollmentStatus is the lifecycle of a course enrollment.
type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentCompleted EnrollmentStatus = "completed"
	EnrollmentCancelled EnrollmentStatus = "cancelled"
	EnrollmentRefunded  EnrollmentStatus = "refunded"
)
