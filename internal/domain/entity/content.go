package entity

import "time"

// Blog is an editorial article.
type Blog struct {
	ID          string
	Title       string
	Slug        string
	Excerpt     string
	Body        string
	Category    string
	CoverURL    string
	Status      PublicationStatus
	OwnerID     string
	ViewCount   int64
	PublishedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Course is enrollable learning content. MaxEnrollments nil means no cap.
// EnrollmentCount counts active enrollments and is maintained in the same
// transaction as the enrollment rows.
type Course struct {
	ID              string
	Title           string
	Slug            string
	Summary         string
	Body            string
	Category        string
	CoverURL        string
	Price           float64
	MaxEnrollments  *int
	EnrollmentCount int
	Status          PublicationStatus
	OwnerID         string
	ViewCount       int64
	PublishedAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Ebook is downloadable reading material.
type Ebook struct {
	ID          string
	Title       string
	Slug        string
	Description string
	FileURL     string
	CoverURL    string
	Category    string
	Status      PublicationStatus
	OwnerID     string
	ViewCount   int64
	PublishedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CaseStudy documents a treated clinical case.
type CaseStudy struct {
	ID            string
	Title         string
	Slug          string
	Summary       string
	Body          string
	TreatmentType string
	Status        PublicationStatus
	OwnerID       string
	ViewCount     int64
	PublishedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Testimonial is a short endorsement; publishing doubles as approval.
type Testimonial struct {
	ID          string
	AuthorName  string
	Slug        string
	Quote       string
	Status      PublicationStatus
	OwnerID     string
	PublishedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// LiveSession is a scheduled broadcast. Its lifecycle uses SessionStatus,
// not PublicationStatus; "active" visibility means scheduled or live.
type LiveSession struct {
	ID          string
	Title       string
	Slug        string
	Description string
	MeetingURL  string
	Status      SessionStatus
	OwnerID     string
	ScheduledAt time.Time
	StartedAt   *time.Time
	EndedAt     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PubliclyVisible reports whether a session shows up for anonymous viewers.
func (s *LiveSession) PubliclyVisible() bool {
	return s.Status == SessionScheduled || s.Status == SessionLive
}
