package repository

import (
	"context"

	"github.com/ortholink/ortholink-api/internal/domain/entity"
	"github.com/ortholink/ortholink-api/pkg/pagination"
)

// EnrollmentRepository owns the transactional enrollment path. Enroll and
// Cancel mutate the enrollment row and the course's enrollment_count inside
// one transaction with the course row locked, so the capacity cap is hard and
// the counter cannot drift from the rows.
type EnrollmentRepository interface {
	// Enroll checks, in order: course exists (ErrNotFound), course is
	// published (ErrNotPublished), no row exists for the pair regardless of
	// status (ErrDuplicate), active count is below the cap when one is set
	// (ErrLimitReached); then inserts the row and bumps the counter.
	Enroll(ctx context.Context, userID, courseID string, amountPaid float64) (*entity.Enrollment, error)

	GetByID(ctx context.Context, id string) (*entity.Enrollment, error)
	GetByUserAndCourse(ctx context.Context, userID, courseID string) (*entity.Enrollment, error)
	ListByUser(ctx context.Context, userID string, p pagination.Params) ([]*entity.Enrollment, int64, error)
	ListByCourse(ctx context.Context, courseID string, p pagination.Params) ([]*entity.Enrollment, int64, error)

	// UpdateProgress persists progress/status/completed_at on the row.
	UpdateProgress(ctx context.Context, e *entity.Enrollment) error

	// Cancel flips an active enrollment to cancelled and decrements the
	// course counter in the same transaction. The row is kept: the compound
	// unique key continues to block re-enrollment.
	Cancel(ctx context.Context, e *entity.Enrollment) error

	// Refund flips an active enrollment to refunded; same transactional
	// counter release and row retention as Cancel.
	Refund(ctx context.Context, e *entity.Enrollment) error

	CountActive(ctx context.Context, courseID string) (int, error)
}
