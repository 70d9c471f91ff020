package entity

import "time"

// Enrollment links a user to a course. The (UserID, CourseID) pair is unique
// for the lifetime of the row: cancellation flips the status and keeps the
// row, so a cancelled user cannot re-enroll.
type Enrollment struct {
	ID          string
	UserID      string
	CourseID    string
	Status      EnrollmentStatus
	Progress    int // 0-100
	AmountPaid  float64
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
