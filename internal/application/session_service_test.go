package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ortholink/ortholink-api/internal/domain/entity"
	repo "github.com/ortholink/ortholink-api/internal/domain/repository"
)

func sessionFixture(t *testing.T) (*SessionService, *entity.LiveSession, Actor) {
	t.Helper()
	svc := &SessionService{Sessions: newFakeSessionRepo()}
	host := Actor{ID: "host-1", Role: entity.RoleUser}
	ls, err := svc.Create(context.Background(), host, SessionInput{
		Title:       "Live Debonding Demo",
		ScheduledAt: time.Now().Add(48 * time.Hour),
	})
	require.NoError(t, err)
	require.Equal(t, entity.SessionScheduled, ls.Status)
	return svc, ls, host
}

func TestSessionLifecycle(t *testing.T) {
	svc, ls, host := sessionFixture(t)
	ctx := context.Background()

	started, err := svc.Start(ctx, host, ls.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SessionLive, started.Status)
	assert.NotNil(t, started.StartedAt)

	ended, err := svc.End(ctx, host, ls.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SessionCompleted, ended.Status)
	assert.NotNil(t, ended.EndedAt)

	// Completed is terminal.
	_, err = svc.Cancel(ctx, host, ls.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = svc.Start(ctx, host, ls.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestSessionPostponeReschedule(t *testing.T) {
	svc, ls, host := sessionFixture(t)
	ctx := context.Background()

	postponed, err := svc.Postpone(ctx, host, ls.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SessionPostponed, postponed.Status)

	// A postponed session cannot start; it must be rescheduled first.
	_, err = svc.Start(ctx, host, ls.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	newTime := time.Now().Add(96 * time.Hour).Truncate(time.Second)
	back, err := svc.Reschedule(ctx, host, ls.ID, newTime)
	require.NoError(t, err)
	assert.Equal(t, entity.SessionScheduled, back.Status)
	assert.True(t, back.ScheduledAt.Equal(newTime))

	_, err = svc.Start(ctx, host, ls.ID)
	assert.NoError(t, err)
}

func TestSessionCancelIdempotent(t *testing.T) {
	svc, ls, host := sessionFixture(t)
	ctx := context.Background()

	cancelled, err := svc.Cancel(ctx, host, ls.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SessionCancelled, cancelled.Status)

	// Cancelling again stays cancelled without an error.
	again, err := svc.Cancel(ctx, host, ls.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SessionCancelled, again.Status)
}

func TestSessionVisibility(t *testing.T) {
	svc, ls, host := sessionFixture(t)
	ctx := context.Background()
	stranger := Actor{ID: "user-2", Role: entity.RoleUser}

	// Scheduled sessions are public.
	_, err := svc.Get(ctx, Actor{}, ls.ID)
	assert.NoError(t, err)

	_, err = svc.Cancel(ctx, host, ls.ID)
	require.NoError(t, err)

	// Cancelled sessions disappear for outsiders but not for the host.
	_, err = svc.Get(ctx, stranger, ls.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Get(ctx, host, ls.ID)
	assert.NoError(t, err)

	items, total, err := svc.List(ctx, Actor{}, repo.SessionFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
	assert.Empty(t, items)

	_, total, err = svc.List(ctx, host, repo.SessionFilter{OwnerID: host.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestSessionMutationByStranger(t *testing.T) {
	svc, ls, _ := sessionFixture(t)
	ctx := context.Background()
	stranger := Actor{ID: "user-2", Role: entity.RoleUser}

	// The session is visible, so the refusal is explicit.
	_, err := svc.Start(ctx, stranger, ls.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	// Admins may operate any session.
	_, err = svc.Start(ctx, Actor{ID: "admin-1", Role: entity.RoleAdmin}, ls.ID)
	assert.NoError(t, err)
}
