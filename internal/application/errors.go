package application

import "errors"

// Service-level sentinels. Handlers map these onto HTTP statuses; anything
// else is a 500 with a generic message.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrNotFound           = errors.New("resource not found")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict")
	ErrSlugTaken          = errors.New("slug already in use")
	ErrAlreadyPublished   = errors.New("content is already published")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrNotPublished       = errors.New("cannot enroll in unpublished course")
	ErrAlreadyEnrolled    = errors.New("already enrolled in this course")
	ErrLimitReached       = errors.New("enrollment limit reached")
	ErrNotPublishedState  = errors.New("content is not published")
	ErrGeocodeFailed      = errors.New("address could not be geocoded")
)
