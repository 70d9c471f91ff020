package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ortholink/ortholink-api/internal/domain/entity"
	"github.com/ortholink/ortholink-api/internal/domain/repository"
	"github.com/ortholink/ortholink-api/pkg/pagination"
)

type EnrollmentRepository struct {
	pool *pgxpool.Pool
}

func NewEnrollmentRepository(pool *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{pool: pool}
}

const enrollmentColumns = `id, user_id, course_id, status, progress, amount_paid,
	completed_at, created_at, updated_at`

func scanEnrollment(row pgx.Row) (*entity.Enrollment, error) {
	e := &entity.Enrollment{}
	err := row.Scan(&e.ID, &e.UserID, &e.CourseID, &e.Status, &e.Progress,
		&e.AmountPaid, &e.CompletedAt, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return e, nil
}

// Enroll runs the whole admission check inside one transaction with the
// course row locked. The lock serializes concurrent enrollments into the same
// course, so the cap check and the counter bump see a consistent count. The
// unique index on (user_id, course_id) backs the duplicate check for races
// the pre-read cannot see.
func (r *EnrollmentRepository) Enroll(ctx context.Context, userID, courseID string, amountPaid float64) (*entity.Enrollment, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var status entity.PublicationStatus
	var maxEnrollments *int
	err = tx.QueryRow(ctx, `
		SELECT status, max_enrollments FROM courses WHERE id = $1 FOR UPDATE
	`, courseID).Scan(&status, &maxEnrollments)
	if err != nil {
		return nil, mapError(err)
	}
	if status != entity.StatusPublished {
		return nil, repository.ErrNotPublished
	}

	var exists bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM enrollments WHERE user_id = $1 AND course_id = $2)
	`, userID, courseID).Scan(&exists)
	if err != nil {
		return nil, mapError(err)
	}
	if exists {
		return nil, repository.ErrDuplicate
	}

	if maxEnrollments != nil {
		var active int
		err = tx.QueryRow(ctx, `
			SELECT COUNT(*) FROM enrollments WHERE course_id = $1 AND status = $2
		`, courseID, entity.EnrollmentActive).Scan(&active)
		if err != nil {
			return nil, mapError(err)
		}
		if active >= *maxEnrollments {
			return nil, repository.ErrLimitReached
		}
	}

	e := &entity.Enrollment{
		UserID:     userID,
		CourseID:   courseID,
		Status:     entity.EnrollmentActive,
		AmountPaid: amountPaid,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO enrollments (user_id, course_id, status, amount_paid)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, e.UserID, e.CourseID, e.Status, e.AmountPaid).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE courses SET enrollment_count = enrollment_count + 1 WHERE id = $1
	`, courseID); err != nil {
		return nil, mapError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, mapError(err)
	}
	return e, nil
}

func (r *EnrollmentRepository) GetByID(ctx context.Context, id string) (*entity.Enrollment, error) {
	return scanEnrollment(r.pool.QueryRow(ctx,
		`SELECT `+enrollmentColumns+` FROM enrollments WHERE id = $1`, id))
}

func (r *EnrollmentRepository) GetByUserAndCourse(ctx context.Context, userID, courseID string) (*entity.Enrollment, error) {
	return scanEnrollment(r.pool.QueryRow(ctx,
		`SELECT `+enrollmentColumns+` FROM enrollments WHERE user_id = $1 AND course_id = $2`,
		userID, courseID))
}

func (r *EnrollmentRepository) ListByUser(ctx context.Context, userID string, p pagination.Params) ([]*entity.Enrollment, int64, error) {
	return r.listBy(ctx, "user_id", userID, p)
}

func (r *EnrollmentRepository) ListByCourse(ctx context.Context, courseID string, p pagination.Params) ([]*entity.Enrollment, int64, error) {
	return r.listBy(ctx, "course_id", courseID, p)
}

func (r *EnrollmentRepository) listBy(ctx context.Context, column, value string, p pagination.Params) ([]*entity.Enrollment, int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM enrollments WHERE `+column+` = $1`, value).Scan(&total)
	if err != nil {
		return nil, 0, mapError(err)
	}

	query := fmt.Sprintf(`SELECT %s FROM enrollments WHERE %s = $1 ORDER BY %s LIMIT $2 OFFSET $3`,
		enrollmentColumns, column, p.OrderBy())
	rows, err := r.pool.Query(ctx, query, value, p.Limit, p.Offset())
	if err != nil {
		return nil, 0, mapError(err)
	}
	defer rows.Close()

	items := make([]*entity.Enrollment, 0, p.Limit)
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, e)
	}
	return items, total, mapError(rows.Err())
}

func (r *EnrollmentRepository) UpdateProgress(ctx context.Context, e *entity.Enrollment) error {
	e.UpdatedAt = time.Now()

	res, err := r.pool.Exec(ctx, `
		UPDATE enrollments
		SET status = $1, progress = $2, completed_at = $3, updated_at = $4
		WHERE id = $5
	`, e.Status, e.Progress, e.CompletedAt, e.UpdatedAt, e.ID)
	if err != nil {
		return mapError(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Cancel keeps the row so the unique (user_id, course_id) pair continues to
// block re-enrollment; only the active counter is released.
func (r *EnrollmentRepository) Cancel(ctx context.Context, e *entity.Enrollment) error {
	return r.release(ctx, e, entity.EnrollmentCancelled)
}

// Refund is the admin-issued counterpart of Cancel; the seat release and row
// retention are identical, only the terminal status differs.
func (r *EnrollmentRepository) Refund(ctx context.Context, e *entity.Enrollment) error {
	return r.release(ctx, e, entity.EnrollmentRefunded)
}

func (r *EnrollmentRepository) release(ctx context.Context, e *entity.Enrollment, to entity.EnrollmentStatus) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	res, err := tx.Exec(ctx, `
		UPDATE enrollments SET status = $1, updated_at = now()
		WHERE id = $2 AND status = $3
	`, to, e.ID, entity.EnrollmentActive)
	if err != nil {
		return mapError(err)
	}
	if res.RowsAffected() == 0 {
		// No longer active; nothing to release.
		return nil
	}

	if _, err := tx.Exec(ctx, `
		UPDATE courses SET enrollment_count = GREATEST(enrollment_count - 1, 0) WHERE id = $1
	`, e.CourseID); err != nil {
		return mapError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return mapError(err)
	}
	e.Status = to
	return nil
}

func (r *EnrollmentRepository) CountActive(ctx context.Context, courseID string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM enrollments WHERE course_id = $1 AND status = $2
	`, courseID, entity.EnrollmentActive).Scan(&n)
	if err != nil {
		return 0, mapError(err)
	}
	return n, nil
}

var _ repository.EnrollmentRepository = (*EnrollmentRepository)(nil)
