package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ortholink/ortholink-api/internal/domain/entity"
	repo "github.com/ortholink/ortholink-api/internal/domain/repository"
)

func blogFixture() *BlogService {
	return &BlogService{Blogs: newFakeBlogRepo()}
}

func TestBlogCreateSlugs(t *testing.T) {
	svc := blogFixture()
	ctx := context.Background()
	owner := Actor{ID: "owner-1", Role: entity.RoleUser}

	b1, err := svc.Create(ctx, owner, BlogInput{Title: "Bonding Basics"})
	require.NoError(t, err)
	assert.Equal(t, "bonding-basics", b1.Slug)
	assert.Equal(t, entity.StatusDraft, b1.Status)
	assert.Equal(t, "owner-1", b1.OwnerID)

	// Same title gets a suffixed slug.
	b2, err := svc.Create(ctx, owner, BlogInput{Title: "Bonding Basics"})
	require.NoError(t, err)
	assert.Equal(t, "bonding-basics-2", b2.Slug)

	// Explicit slug skips normalization but not uniqueness.
	b3, err := svc.Create(ctx, owner, BlogInput{Title: "Other", Slug: "bonding-basics"})
	require.NoError(t, err)
	assert.Equal(t, "bonding-basics-3", b3.Slug)
}

func TestBlogVisibility(t *testing.T) {
	svc := blogFixture()
	ctx := context.Background()
	owner := Actor{ID: "owner-1", Role: entity.RoleUser}
	stranger := Actor{ID: "user-2", Role: entity.RoleUser}
	admin := Actor{ID: "admin-1", Role: entity.RoleAdmin}

	b, err := svc.Create(ctx, owner, BlogInput{Title: "Draft Notes"})
	require.NoError(t, err)

	// A draft is missing for outsiders and anonymous viewers, never forbidden.
	_, err = svc.Get(ctx, stranger, b.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Get(ctx, Actor{}, b.Slug)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Get(ctx, owner, b.ID)
	assert.NoError(t, err)
	_, err = svc.Get(ctx, admin, b.ID)
	assert.NoError(t, err)

	_, err = svc.Publish(ctx, owner, b.ID, nil)
	require.NoError(t, err)

	got, err := svc.Get(ctx, Actor{}, b.Slug)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPublished, got.Status)
}

func TestBlogPublishGuards(t *testing.T) {
	svc := blogFixture()
	ctx := context.Background()
	owner := Actor{ID: "owner-1", Role: entity.RoleUser}

	b, err := svc.Create(ctx, owner, BlogInput{Title: "Retention Protocols"})
	require.NoError(t, err)

	// Unpublish before publish is a bad request.
	_, err = svc.Unpublish(ctx, owner, b.ID)
	assert.ErrorIs(t, err, ErrNotPublishedState)

	pub, err := svc.Publish(ctx, owner, b.ID, nil)
	require.NoError(t, err)
	require.NotNil(t, pub.PublishedAt)

	// Publishing twice conflicts.
	_, err = svc.Publish(ctx, owner, b.ID, nil)
	assert.ErrorIs(t, err, ErrAlreadyPublished)

	unpub, err := svc.Unpublish(ctx, owner, b.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusDraft, unpub.Status)
	assert.Nil(t, unpub.PublishedAt)
}

func TestBlogMutationAuthorization(t *testing.T) {
	svc := blogFixture()
	ctx := context.Background()
	owner := Actor{ID: "owner-1", Role: entity.RoleUser}
	stranger := Actor{ID: "user-2", Role: entity.RoleUser}

	b, err := svc.Create(ctx, owner, BlogInput{Title: "Ceramic Brackets"})
	require.NoError(t, err)
	_, err = svc.Publish(ctx, owner, b.ID, nil)
	require.NoError(t, err)

	// Published content is visible, so the refusal is explicit.
	title := "Hijacked"
	_, err = svc.Update(ctx, stranger, b.ID, BlogUpdate{Title: &title})
	assert.ErrorIs(t, err, ErrForbidden)
	err = svc.Delete(ctx, stranger, b.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	// Admins bypass ownership.
	_, err = svc.Update(ctx, Actor{ID: "admin-1", Role: entity.RoleAdmin}, b.ID, BlogUpdate{Title: &title})
	assert.NoError(t, err)
}

func TestBlogUpdateRegeneratesSlug(t *testing.T) {
	svc := blogFixture()
	ctx := context.Background()
	owner := Actor{ID: "owner-1", Role: entity.RoleUser}

	b, err := svc.Create(ctx, owner, BlogInput{Title: "Old Title"})
	require.NoError(t, err)

	title := "Brand New Title"
	updated, err := svc.Update(ctx, owner, b.ID, BlogUpdate{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "brand-new-title", updated.Slug)

	// An update that does not touch the title keeps the slug.
	body := "revised body"
	updated, err = svc.Update(ctx, owner, b.ID, BlogUpdate{Body: &body})
	require.NoError(t, err)
	assert.Equal(t, "brand-new-title", updated.Slug)
}

func TestBlogStatusTransitions(t *testing.T) {
	svc := blogFixture()
	ctx := context.Background()
	owner := Actor{ID: "owner-1", Role: entity.RoleUser}

	b, err := svc.Create(ctx, owner, BlogInput{Title: "Review Me"})
	require.NoError(t, err)

	// draft -> under_review -> draft is allowed.
	b, err = svc.SetStatus(ctx, owner, b.ID, entity.StatusUnderReview)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusUnderReview, b.Status)
	_, err = svc.SetStatus(ctx, owner, b.ID, entity.StatusDraft)
	require.NoError(t, err)

	// Publishing is not reachable through the direct status update.
	_, err = svc.SetStatus(ctx, owner, b.ID, entity.StatusPublished)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestBlogArchiveClearsPublishedAt(t *testing.T) {
	svc := blogFixture()
	ctx := context.Background()
	owner := Actor{ID: "owner-1", Role: entity.RoleUser}

	b, err := svc.Create(ctx, owner, BlogInput{Title: "Bonding Basics"})
	require.NoError(t, err)
	pub, err := svc.Publish(ctx, owner, b.ID, nil)
	require.NoError(t, err)
	require.NotNil(t, pub.PublishedAt)

	// Archiving published content clears the publication timestamp; the
	// timestamp only exists while the content is published.
	archived, err := svc.SetStatus(ctx, owner, b.ID, entity.StatusArchived)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusArchived, archived.Status)
	assert.Nil(t, archived.PublishedAt)
}

func TestBlogListScoping(t *testing.T) {
	svc := blogFixture()
	ctx := context.Background()
	owner := Actor{ID: "owner-1", Role: entity.RoleUser}

	draft, err := svc.Create(ctx, owner, BlogInput{Title: "Hidden Draft"})
	require.NoError(t, err)
	pub, err := svc.Create(ctx, owner, BlogInput{Title: "Public Post"})
	require.NoError(t, err)
	_, err = svc.Publish(ctx, owner, pub.ID, nil)
	require.NoError(t, err)

	// Anonymous listing sees published only, even when asking for drafts.
	draftStatus := entity.StatusDraft
	items, total, err := svc.List(ctx, Actor{}, repo.ContentFilter{Status: &draftStatus})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, pub.ID, items[0].ID)

	// The owner listing their own content sees everything.
	_, total, err = svc.List(ctx, owner, repo.ContentFilter{OwnerID: owner.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	// Admins may filter by any status.
	items, total, err = svc.List(ctx, Actor{ID: "admin-1", Role: entity.RoleAdmin},
		repo.ContentFilter{Status: &draftStatus})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, draft.ID, items[0].ID)
}
