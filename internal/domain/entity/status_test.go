package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextSessionStatus(t *testing.T) {
	cases := []struct {
		from   SessionStatus
		action SessionAction
		want   SessionStatus
		ok     bool
	}{
		{SessionScheduled, ActionStart, SessionLive, true},
		{SessionScheduled, ActionCancel, SessionCancelled, true},
		{SessionScheduled, ActionPostpone, SessionPostponed, true},
		{SessionScheduled, ActionEnd, "", false},
		{SessionLive, ActionEnd, SessionCompleted, true},
		{SessionLive, ActionCancel, SessionCancelled, true},
		{SessionLive, ActionStart, "", false},
		{SessionLive, ActionPostpone, "", false},
		{SessionPostponed, ActionReschedule, SessionScheduled, true},
		{SessionPostponed, ActionCancel, SessionCancelled, true},
		{SessionPostponed, ActionStart, "", false},
		// cancelling a cancelled session is an idempotent success
		{SessionCancelled, ActionCancel, SessionCancelled, true},
		{SessionCancelled, ActionStart, "", false},
		// completed is terminal for every action
		{SessionCompleted, ActionCancel, "", false},
		{SessionCompleted, ActionStart, "", false},
		{SessionCompleted, ActionReschedule, "", false},
	}
	for _, tc := range cases {
		got, err := NextSessionStatus(tc.from, tc.action)
		if tc.ok {
			require.NoError(t, err, "%s from %s", tc.action, tc.from)
			assert.Equal(t, tc.want, got)
		} else {
			assert.Error(t, err, "%s from %s should be rejected", tc.action, tc.from)
		}
	}
}

func TestEverySessionStatusReachable(t *testing.T) {
	reachable := map[SessionStatus]bool{SessionScheduled: true} // initial state
	for _, actions := range sessionTransitions {
		for _, next := range actions {
			reachable[next] = true
		}
	}
	for _, s := range []SessionStatus{SessionScheduled, SessionLive, SessionCompleted, SessionCancelled, SessionPostponed} {
		assert.True(t, reachable[s], "status %s must be reachable", s)
	}
}

func TestCanTransitionContent(t *testing.T) {
	assert.True(t, CanTransitionContent(StatusDraft, StatusDraft))
	assert.True(t, CanTransitionContent(StatusDraft, StatusUnderReview))
	assert.True(t, CanTransitionContent(StatusUnderReview, StatusDraft))
	assert.True(t, CanTransitionContent(StatusPublished, StatusArchived))
	assert.True(t, CanTransitionContent(StatusArchived, StatusDraft))

	// publish/unpublish go through their dedicated guarded actions
	assert.False(t, CanTransitionContent(StatusDraft, StatusPublished))
	assert.False(t, CanTransitionContent(StatusPublished, StatusDraft))
	assert.False(t, CanTransitionContent(StatusArchived, StatusPublished))
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusDraft.Valid())
	assert.True(t, SessionPostponed.Valid())
	assert.False(t, PublicationStatus("deleted").Valid())
	assert.False(t, SessionStatus("paused").Valid())
}
