package application

import (
	"context"
	"fmt"
	"time"

	"github.com/ortholink/ortholink-api/internal/domain/entity"
	repo "github.com/ortholink/ortholink-api/internal/domain/repository"
	"github.com/ortholink/ortholink-api/pkg/geocode"
	"github.com/ortholink/ortholink-api/pkg/pagination"
)

// In-memory repositories mirroring the storage contracts, including the
// unique-pair and capacity behavior of the enrollment transaction.

type fakeBlogRepo struct {
	items map[string]*entity.Blog
	seq   int
}

func newFakeBlogRepo() *fakeBlogRepo {
	return &fakeBlogRepo{items: map[string]*entity.Blog{}}
}

func (f *fakeBlogRepo) nextID() string {
	f.seq++
	return fmt.Sprintf("00000000-0000-0000-0000-%012d", f.seq)
}

func (f *fakeBlogRepo) Create(_ context.Context, b *entity.Blog) error {
	for _, other := range f.items {
		if other.Slug == b.Slug {
			return repo.ErrDuplicate
		}
	}
	b.ID = f.nextID()
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	cp := *b
	f.items[b.ID] = &cp
	return nil
}

func (f *fakeBlogRepo) GetByID(_ context.Context, id string) (*entity.Blog, error) {
	b, ok := f.items[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBlogRepo) GetBySlug(_ context.Context, slug string) (*entity.Blog, error) {
	for _, b := range f.items {
		if b.Slug == slug {
			cp := *b
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeBlogRepo) List(_ context.Context, flt repo.ContentFilter) ([]*entity.Blog, int64, error) {
	var out []*entity.Blog
	for _, b := range f.items {
		if flt.Status != nil && b.Status != *flt.Status {
			continue
		}
		if flt.OwnerID != "" && b.OwnerID != flt.OwnerID {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

func (f *fakeBlogRepo) Update(_ context.Context, b *entity.Blog) error {
	if _, ok := f.items[b.ID]; !ok {
		return repo.ErrNotFound
	}
	for id, other := range f.items {
		if id != b.ID && other.Slug == b.Slug {
			return repo.ErrDuplicate
		}
	}
	cp := *b
	f.items[b.ID] = &cp
	return nil
}

func (f *fakeBlogRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return repo.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeBlogRepo) SlugExists(_ context.Context, slug, excludeID string) (bool, error) {
	for id, b := range f.items {
		if id != excludeID && b.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBlogRepo) IncrementViews(_ context.Context, id string, delta int64) error {
	b, ok := f.items[id]
	if !ok {
		return repo.ErrNotFound
	}
	b.ViewCount += delta
	return nil
}

type fakeCourseRepo struct {
	items map[string]*entity.Course
	seq   int
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{items: map[string]*entity.Course{}}
}

func (f *fakeCourseRepo) nextID() string {
	f.seq++
	return fmt.Sprintf("11111111-0000-0000-0000-%012d", f.seq)
}

func (f *fakeCourseRepo) Create(_ context.Context, c *entity.Course) error {
	for _, other := range f.items {
		if other.Slug == c.Slug {
			return repo.ErrDuplicate
		}
	}
	c.ID = f.nextID()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	cp := *c
	f.items[c.ID] = &cp
	return nil
}

func (f *fakeCourseRepo) GetByID(_ context.Context, id string) (*entity.Course, error) {
	c, ok := f.items[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCourseRepo) GetBySlug(_ context.Context, slug string) (*entity.Course, error) {
	for _, c := range f.items {
		if c.Slug == slug {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeCourseRepo) List(_ context.Context, flt repo.ContentFilter) ([]*entity.Course, int64, error) {
	var out []*entity.Course
	for _, c := range f.items {
		if flt.Status != nil && c.Status != *flt.Status {
			continue
		}
		if flt.OwnerID != "" && c.OwnerID != flt.OwnerID {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

func (f *fakeCourseRepo) Update(_ context.Context, c *entity.Course) error {
	if _, ok := f.items[c.ID]; !ok {
		return repo.ErrNotFound
	}
	for id, other := range f.items {
		if id != c.ID && other.Slug == c.Slug {
			return repo.ErrDuplicate
		}
	}
	cp := *c
	f.items[c.ID] = &cp
	return nil
}

func (f *fakeCourseRepo) UpdateCoverURL(_ context.Context, id, coverURL string) error {
	c, ok := f.items[id]
	if !ok {
		return repo.ErrNotFound
	}
	c.CoverURL = coverURL
	return nil
}

func (f *fakeCourseRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return repo.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeCourseRepo) SlugExists(_ context.Context, slug, excludeID string) (bool, error) {
	for id, c := range f.items {
		if id != excludeID && c.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCourseRepo) IncrementViews(_ context.Context, id string, delta int64) error {
	c, ok := f.items[id]
	if !ok {
		return repo.ErrNotFound
	}
	c.ViewCount += delta
	return nil
}

// fakeEnrollmentRepo reproduces the admission transaction's semantics on the
// shared fake course store.
type fakeEnrollmentRepo struct {
	courses *fakeCourseRepo
	items   map[string]*entity.Enrollment
	seq     int
}

func newFakeEnrollmentRepo(courses *fakeCourseRepo) *fakeEnrollmentRepo {
	return &fakeEnrollmentRepo{courses: courses, items: map[string]*entity.Enrollment{}}
}

func (f *fakeEnrollmentRepo) nextID() string {
	f.seq++
	return fmt.Sprintf("22222222-0000-0000-0000-%012d", f.seq)
}

func (f *fakeEnrollmentRepo) Enroll(_ context.Context, userID, courseID string, amountPaid float64) (*entity.Enrollment, error) {
	course, ok := f.courses.items[courseID]
	if !ok {
		return nil, repo.ErrNotFound
	}
	if course.Status != entity.StatusPublished {
		return nil, repo.ErrNotPublished
	}
	active := 0
	for _, e := range f.items {
		if e.UserID == userID && e.CourseID == courseID {
			return nil, repo.ErrDuplicate
		}
		if e.CourseID == courseID && e.Status == entity.EnrollmentActive {
			active++
		}
	}
	if course.MaxEnrollments != nil && active >= *course.MaxEnrollments {
		return nil, repo.ErrLimitReached
	}
	e := &entity.Enrollment{
		ID:         f.nextID(),
		UserID:     userID,
		CourseID:   courseID,
		Status:     entity.EnrollmentActive,
		AmountPaid: amountPaid,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	f.items[e.ID] = e
	course.EnrollmentCount++
	cp := *e
	return &cp, nil
}

func (f *fakeEnrollmentRepo) GetByID(_ context.Context, id string) (*entity.Enrollment, error) {
	e, ok := f.items[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEnrollmentRepo) GetByUserAndCourse(_ context.Context, userID, courseID string) (*entity.Enrollment, error) {
	for _, e := range f.items {
		if e.UserID == userID && e.CourseID == courseID {
			cp := *e
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeEnrollmentRepo) ListByUser(_ context.Context, userID string, _ pagination.Params) ([]*entity.Enrollment, int64, error) {
	var out []*entity.Enrollment
	for _, e := range f.items {
		if e.UserID == userID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeEnrollmentRepo) ListByCourse(_ context.Context, courseID string, _ pagination.Params) ([]*entity.Enrollment, int64, error) {
	var out []*entity.Enrollment
	for _, e := range f.items {
		if e.CourseID == courseID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeEnrollmentRepo) UpdateProgress(_ context.Context, e *entity.Enrollment) error {
	if _, ok := f.items[e.ID]; !ok {
		return repo.ErrNotFound
	}
	cp := *e
	f.items[e.ID] = &cp
	return nil
}

func (f *fakeEnrollmentRepo) Cancel(_ context.Context, e *entity.Enrollment) error {
	return f.release(e, entity.EnrollmentCancelled)
}

func (f *fakeEnrollmentRepo) Refund(_ context.Context, e *entity.Enrollment) error {
	return f.release(e, entity.EnrollmentRefunded)
}

func (f *fakeEnrollmentRepo) release(e *entity.Enrollment, to entity.EnrollmentStatus) error {
	stored, ok := f.items[e.ID]
	if !ok {
		return repo.ErrNotFound
	}
	if stored.Status != entity.EnrollmentActive {
		return nil
	}
	stored.Status = to
	if c, ok := f.courses.items[stored.CourseID]; ok && c.EnrollmentCount > 0 {
		c.EnrollmentCount--
	}
	e.Status = to
	return nil
}

func (f *fakeEnrollmentRepo) CountActive(_ context.Context, courseID string) (int, error) {
	n := 0
	for _, e := range f.items {
		if e.CourseID == courseID && e.Status == entity.EnrollmentActive {
			n++
		}
	}
	return n, nil
}

type fakeSessionRepo struct {
	items map[string]*entity.LiveSession
	seq   int
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{items: map[string]*entity.LiveSession{}}
}

func (f *fakeSessionRepo) nextID() string {
	f.seq++
	return fmt.Sprintf("33333333-0000-0000-0000-%012d", f.seq)
}

func (f *fakeSessionRepo) Create(_ context.Context, s *entity.LiveSession) error {
	for _, other := range f.items {
		if other.Slug == s.Slug {
			return repo.ErrDuplicate
		}
	}
	s.ID = f.nextID()
	s.CreatedAt = time.Now()
	s.UpdatedAt = s.CreatedAt
	cp := *s
	f.items[s.ID] = &cp
	return nil
}

func (f *fakeSessionRepo) GetByID(_ context.Context, id string) (*entity.LiveSession, error) {
	s, ok := f.items[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSessionRepo) GetBySlug(_ context.Context, slug string) (*entity.LiveSession, error) {
	for _, s := range f.items {
		if s.Slug == slug {
			cp := *s
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeSessionRepo) List(_ context.Context, flt repo.SessionFilter) ([]*entity.LiveSession, int64, error) {
	var out []*entity.LiveSession
	for _, s := range f.items {
		if flt.Status != nil && s.Status != *flt.Status {
			continue
		}
		if flt.OwnerID != "" && s.OwnerID != flt.OwnerID {
			continue
		}
		if flt.PublicOnly && !s.PubliclyVisible() {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

func (f *fakeSessionRepo) Update(_ context.Context, s *entity.LiveSession) error {
	if _, ok := f.items[s.ID]; !ok {
		return repo.ErrNotFound
	}
	cp := *s
	f.items[s.ID] = &cp
	return nil
}

func (f *fakeSessionRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return repo.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeSessionRepo) SlugExists(_ context.Context, slug, excludeID string) (bool, error) {
	for id, s := range f.items {
		if id != excludeID && s.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

type fakeUserRepo struct {
	items map[string]*entity.User
	seq   int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{items: map[string]*entity.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	for _, other := range f.items {
		if other.Email == u.Email {
			return repo.ErrDuplicate
		}
	}
	f.seq++
	u.ID = fmt.Sprintf("44444444-0000-0000-0000-%012d", f.seq)
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	f.items[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := f.items[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range f.items {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	if _, ok := f.items[u.ID]; !ok {
		return repo.ErrNotFound
	}
	cp := *u
	f.items[u.ID] = &cp
	return nil
}

type fakePracticeRepo struct {
	items map[string]*entity.Practice
	seq   int
}

func newFakePracticeRepo() *fakePracticeRepo {
	return &fakePracticeRepo{items: map[string]*entity.Practice{}}
}

func (f *fakePracticeRepo) Create(_ context.Context, p *entity.Practice) error {
	for _, other := range f.items {
		if other.OwnerID == p.OwnerID {
			return repo.ErrDuplicate
		}
	}
	f.seq++
	p.ID = fmt.Sprintf("55555555-0000-0000-0000-%012d", f.seq)
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	f.items[p.ID] = &cp
	return nil
}

func (f *fakePracticeRepo) GetByID(_ context.Context, id string) (*entity.Practice, error) {
	p, ok := f.items[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePracticeRepo) GetByOwner(_ context.Context, ownerID string) (*entity.Practice, error) {
	for _, p := range f.items {
		if p.OwnerID == ownerID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakePracticeRepo) List(_ context.Context, flt repo.PracticeFilter) ([]*entity.Practice, int64, error) {
	var out []*entity.Practice
	for _, p := range f.items {
		if flt.OnMapOnly && !p.OnMap() {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

func (f *fakePracticeRepo) Update(_ context.Context, p *entity.Practice) error {
	if _, ok := f.items[p.ID]; !ok {
		return repo.ErrNotFound
	}
	cp := *p
	f.items[p.ID] = &cp
	return nil
}

func (f *fakePracticeRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return repo.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

// fakeGeocoder resolves known addresses and fails everything else.
type fakeGeocoder struct {
	known map[string]geocode.Point
}

func (f *fakeGeocoder) Geocode(_ context.Context, address string) (geocode.Point, error) {
	if pt, ok := f.known[address]; ok {
		return pt, nil
	}
	return geocode.Point{}, geocode.ErrNoResult
}

var (
	_ repo.BlogRepository        = (*fakeBlogRepo)(nil)
	_ repo.CourseRepository      = (*fakeCourseRepo)(nil)
	_ repo.EnrollmentRepository  = (*fakeEnrollmentRepo)(nil)
	_ repo.LiveSessionRepository = (*fakeSessionRepo)(nil)
	_ repo.UserRepository        = (*fakeUserRepo)(nil)
	_ repo.PracticeRepository    = (*fakePracticeRepo)(nil)
)
