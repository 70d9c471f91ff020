package repository

import "errors"

// Storage-level sentinels. The unique indexes are the source of truth for
// conflicts: implementations map constraint violations onto ErrDuplicate
// instead of trusting a prior existence check.
var (
	ErrNotFound     = errors.New("not found")
	ErrDuplicate    = errors.New("duplicate key")
	ErrNotPublished = errors.New("not published")
	ErrLimitReached = errors.New("limit reached")
)
