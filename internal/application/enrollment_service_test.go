package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ortholink/ortholink-api/internal/domain/entity"
)

func enrollmentFixture(t *testing.T, maxEnrollments *int) (*EnrollmentService, *entity.Course) {
	t.Helper()
	courses := newFakeCourseRepo()
	course := &entity.Course{
		Title:          "Invisible Aligners in Practice",
		Slug:           "invisible-aligners-in-practice",
		Price:          199,
		MaxEnrollments: maxEnrollments,
		Status:         entity.StatusPublished,
		OwnerID:        "owner-1",
	}
	require.NoError(t, courses.Create(context.Background(), course))

	svc := &EnrollmentService{
		Enrollments: newFakeEnrollmentRepo(courses),
		Courses:     courses,
	}
	return svc, course
}

func TestEnrollHappyPath(t *testing.T) {
	svc, course := enrollmentFixture(t, nil)
	ctx := context.Background()

	e, err := svc.Enroll(ctx, Actor{ID: "user-a", Role: entity.RoleUser}, course.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.EnrollmentActive, e.Status)
	assert.Equal(t, course.Price, e.AmountPaid)

	updated, err := svc.Courses.GetByID(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.EnrollmentCount)
}

func TestEnrollCapacityAndReenrollment(t *testing.T) {
	limit := 1
	svc, course := enrollmentFixture(t, &limit)
	ctx := context.Background()
	alice := Actor{ID: "user-a", Role: entity.RoleUser}
	bob := Actor{ID: "user-b", Role: entity.RoleUser}

	ea, err := svc.Enroll(ctx, alice, course.ID)
	require.NoError(t, err)

	// Second seat does not exist.
	_, err = svc.Enroll(ctx, bob, course.ID)
	assert.ErrorIs(t, err, ErrLimitReached)

	// Cancelling frees the seat for others...
	_, err = svc.Cancel(ctx, alice, ea.ID)
	require.NoError(t, err)
	_, err = svc.Enroll(ctx, bob, course.ID)
	require.NoError(t, err)

	// ...but the cancelled row still blocks the original user.
	_, err = svc.Enroll(ctx, alice, course.ID)
	assert.ErrorIs(t, err, ErrAlreadyEnrolled)
}

func TestEnrollUnpublishedCourse(t *testing.T) {
	svc, course := enrollmentFixture(t, nil)
	ctx := context.Background()

	stored, err := svc.Courses.GetByID(ctx, course.ID)
	require.NoError(t, err)
	stored.Status = entity.StatusDraft
	require.NoError(t, svc.Courses.Update(ctx, stored))

	// Outsiders cannot even see a draft course.
	_, err = svc.Enroll(ctx, Actor{ID: "user-a", Role: entity.RoleUser}, course.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// The owner sees it but cannot enroll while it is unpublished.
	_, err = svc.Enroll(ctx, Actor{ID: "owner-1", Role: entity.RoleUser}, course.ID)
	assert.ErrorIs(t, err, ErrNotPublished)
}

func TestEnrollMissingCourse(t *testing.T) {
	svc, _ := enrollmentFixture(t, nil)
	_, err := svc.Enroll(context.Background(), Actor{ID: "user-a", Role: entity.RoleUser},
		"11111111-0000-0000-0000-000000000999")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateProgressCompletes(t *testing.T) {
	svc, course := enrollmentFixture(t, nil)
	ctx := context.Background()
	alice := Actor{ID: "user-a", Role: entity.RoleUser}

	e, err := svc.Enroll(ctx, alice, course.ID)
	require.NoError(t, err)

	e, err = svc.UpdateProgress(ctx, alice, e.ID, 40)
	require.NoError(t, err)
	assert.Equal(t, 40, e.Progress)
	assert.Equal(t, entity.EnrollmentActive, e.Status)
	assert.Nil(t, e.CompletedAt)

	e, err = svc.UpdateProgress(ctx, alice, e.ID, 100)
	require.NoError(t, err)
	assert.Equal(t, entity.EnrollmentCompleted, e.Status)
	require.NotNil(t, e.CompletedAt)
	firstStamp := *e.CompletedAt

	// Resubmitting 100 succeeds and leaves the completion stamp alone.
	again, err := svc.UpdateProgress(ctx, alice, e.ID, 100)
	require.NoError(t, err)
	assert.Equal(t, entity.EnrollmentCompleted, again.Status)
	require.NotNil(t, again.CompletedAt)
	assert.Equal(t, firstStamp, *again.CompletedAt)

	// Winding progress back down on a completed enrollment is rejected.
	_, err = svc.UpdateProgress(ctx, alice, e.ID, 50)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestUpdateProgressOwnership(t *testing.T) {
	svc, course := enrollmentFixture(t, nil)
	ctx := context.Background()
	alice := Actor{ID: "user-a", Role: entity.RoleUser}

	e, err := svc.Enroll(ctx, alice, course.ID)
	require.NoError(t, err)

	// Someone else's enrollment reads as missing.
	_, err = svc.UpdateProgress(ctx, Actor{ID: "user-b", Role: entity.RoleUser}, e.ID, 10)
	assert.ErrorIs(t, err, ErrNotFound)

	// Admins may adjust any enrollment.
	_, err = svc.UpdateProgress(ctx, Actor{ID: "admin-1", Role: entity.RoleAdmin}, e.ID, 10)
	assert.NoError(t, err)
}

func TestCancelTwiceConflicts(t *testing.T) {
	svc, course := enrollmentFixture(t, nil)
	ctx := context.Background()
	alice := Actor{ID: "user-a", Role: entity.RoleUser}

	e, err := svc.Enroll(ctx, alice, course.ID)
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, alice, e.ID)
	require.NoError(t, err)

	updated, err := svc.Courses.GetByID(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.EnrollmentCount)

	_, err = svc.Cancel(ctx, alice, e.ID)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestRefundReleasesSeat(t *testing.T) {
	limit := 1
	svc, course := enrollmentFixture(t, &limit)
	ctx := context.Background()
	alice := Actor{ID: "user-a", Role: entity.RoleUser}
	admin := Actor{ID: "admin-1", Role: entity.RoleAdmin}

	e, err := svc.Enroll(ctx, alice, course.ID)
	require.NoError(t, err)

	// Only admins may refund.
	_, err = svc.Refund(ctx, alice, e.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	refunded, err := svc.Refund(ctx, admin, e.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.EnrollmentRefunded, refunded.Status)

	// The seat is free for someone else...
	updated, err := svc.Courses.GetByID(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.EnrollmentCount)
	_, err = svc.Enroll(ctx, Actor{ID: "user-b", Role: entity.RoleUser}, course.ID)
	require.NoError(t, err)

	// ...the refunded row still blocks the original user, and a second
	// refund has nothing left to release.
	_, err = svc.Enroll(ctx, alice, course.ID)
	assert.ErrorIs(t, err, ErrAlreadyEnrolled)
	_, err = svc.Refund(ctx, admin, e.ID)
	assert.ErrorIs(t, err, ErrConflict)
}
