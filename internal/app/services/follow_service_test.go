package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/alumnet/internal/app/auth"
	"github.com/yigit/alumnet/internal/app/follow"
	"github.com/yigit/alumnet/internal/app/models"
	"github.com/yigit/alumnet/internal/app/services"
	"github.com/yigit/alumnet/internal/app/session"
	"github.com/yigit/alumnet/internal/events"
	"github.com/yigit/alumnet/internal/pkg/apperrors"
)

func member(id string) session.Session {
	return session.Session{Viewer: models.User{ID: id, Role: models.RoleAlumnus}, Token: "tok-" + id}
}

type followFixture struct {
	follows   *fakeFollowService
	messaging *fakeMessaging
	publisher *recordingPublisher
	svc       services.FollowService
}

func newFollowFixture() *followFixture {
	f := &followFixture{
		follows:   newFakeFollowService(),
		messaging: &fakeMessaging{},
		publisher: &recordingPublisher{},
	}
	f.svc = services.NewFollowService(f.follows, f.messaging, f.publisher, auth.NewAuthorizationService(), zerolog.Nop())
	return f
}

func TestMutualFollowThenUnfollowRevokesMessaging(t *testing.T) {
	fx := newFollowFixture()
	ctx := context.Background()
	a, b := member("A"), member("B")

	fx.follows.setEdge("A", "B", models.FollowAccepted)
	fx.follows.setEdge("B", "A", models.FollowAccepted)

	status, err := fx.svc.Status(ctx, a, "B")
	require.NoError(t, err)
	assert.True(t, status.CanMessage)

	conv, err := fx.svc.InitiateConversation(ctx, a, "B")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, conv.ParticipantIDs)
	assert.Equal(t, 1, fx.messaging.calls)

	status, err = fx.svc.Unfollow(ctx, b, "A")
	require.NoError(t, err)
	assert.Equal(t, follow.Status{IsFollowedBy: true, FollowingStatus: follow.EdgeNone}, status)

	_, err = fx.svc.InitiateConversation(ctx, a, "B")
	assert.ErrorIs(t, err, apperrors.ErrMessagingNotPermitted)
	assert.False(t, apperrors.Retryable(err))
	assert.Equal(t, 1, fx.messaging.calls, "messaging service must not be called without mutual follow")
}

func TestPendingRequestNeverEnablesMessaging(t *testing.T) {
	fx := newFollowFixture()
	ctx := context.Background()

	fx.follows.setEdge("A", "B", models.FollowAccepted)
	fx.follows.private["A"] = true

	status, err := fx.svc.RequestFollow(ctx, member("B"), "A")
	require.NoError(t, err)
	assert.Equal(t, follow.Status{IsFollowing: true, IsFollowedBy: true, FollowingStatus: follow.EdgePending}, status)
	assert.Equal(t, follow.AffordancePending, follow.AffordanceFor(status))

	aStatus, err := fx.svc.Status(ctx, member("A"), "B")
	require.NoError(t, err)
	assert.False(t, aStatus.CanMessage)
	assert.Equal(t, follow.AffordanceUnfollow, follow.AffordanceFor(aStatus))

	_, err = fx.svc.InitiateConversation(ctx, member("B"), "A")
	assert.ErrorIs(t, err, apperrors.ErrMessagingNotPermitted)
	assert.Zero(t, fx.messaging.calls)
}

func TestRequestFollowRefreshesFromServer(t *testing.T) {
	fx := newFollowFixture()

	before := fx.follows.statusHits
	status, err := fx.svc.RequestFollow(context.Background(), member("A"), "B")
	require.NoError(t, err)

	assert.Equal(t, before+1, fx.follows.statusHits, "status is re-read after the mutation")
	assert.Equal(t, follow.EdgeAccepted, status.FollowingStatus)
	assert.False(t, status.CanMessage, "one-way follow, despite the upstream flag")

	require.Len(t, fx.publisher.subjects, 1)
	assert.Equal(t, events.SubjectFollowRequested, fx.publisher.subjects[0])
	assert.Equal(t, "ACCEPTED", fx.publisher.events[0].FollowingState)
}

func TestRejectedMutationReturnsRefreshedState(t *testing.T) {
	fx := newFollowFixture()
	fx.follows.setEdge("A", "B", models.FollowPending)
	fx.follows.sendErr = apperrors.NewConflictError("request already pending")

	status, err := fx.svc.RequestFollow(context.Background(), member("A"), "B")
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Equal(t, follow.EdgePending, status.FollowingStatus, "server state after the rejection")
	assert.Empty(t, fx.publisher.subjects)

	state := fx.svc.ActionState(member("A"), "B")
	assert.Equal(t, "request already pending", state[follow.ActionFollow].Error)
	assert.False(t, state[follow.ActionFollow].Loading)
}

func TestActionErrorClearsOnSuccess(t *testing.T) {
	fx := newFollowFixture()
	fx.follows.sendErr = errUpstreamDown

	_, err := fx.svc.RequestFollow(context.Background(), member("A"), "B")
	require.ErrorIs(t, err, apperrors.ErrNetworkOrServer)
	assert.True(t, apperrors.Retryable(err))
	assert.NotEmpty(t, fx.svc.ActionState(member("A"), "B")[follow.ActionFollow].Error)

	fx.follows.sendErr = nil
	_, err = fx.svc.RequestFollow(context.Background(), member("A"), "B")
	require.NoError(t, err)
	assert.Empty(t, fx.svc.ActionState(member("A"), "B")[follow.ActionFollow].Error)
}

func TestSecondSubmissionWhileInFlightIsRejected(t *testing.T) {
	fx := newFollowFixture()
	fx.follows.block = make(chan struct{})
	fx.follows.entered = make(chan struct{}, 1)

	done := make(chan error, 1)
	go func() {
		_, err := fx.svc.RequestFollow(context.Background(), member("A"), "B")
		done <- err
	}()

	select {
	case <-fx.follows.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("first request never reached the follow service")
	}

	state := fx.svc.ActionState(member("A"), "B")
	assert.True(t, state[follow.ActionFollow].Loading)
	assert.False(t, state[follow.ActionUnfollow].Loading)

	_, err := fx.svc.RequestFollow(context.Background(), member("A"), "B")
	assert.ErrorIs(t, err, apperrors.ErrRequestInFlight)
	_, err = fx.svc.Unfollow(context.Background(), member("A"), "B")
	assert.ErrorIs(t, err, apperrors.ErrRequestInFlight)

	// other pairs are unaffected
	_, err = fx.svc.Unfollow(context.Background(), member("A"), "C")
	assert.NoError(t, err)

	close(fx.follows.block)
	require.NoError(t, <-done)
	assert.False(t, fx.svc.ActionState(member("A"), "B")[follow.ActionFollow].Loading)
}

func TestFollowValidation(t *testing.T) {
	fx := newFollowFixture()
	ctx := context.Background()

	_, err := fx.svc.RequestFollow(ctx, member("A"), "")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	_, err = fx.svc.Unfollow(ctx, member("A"), "A")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	_, err = fx.svc.InitiateConversation(ctx, member("A"), "A")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	_, err = fx.svc.Status(ctx, member("A"), " ")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	assert.Zero(t, fx.follows.statusHits)
	assert.Zero(t, fx.messaging.calls)
}

func TestUpstreamMessagingRejectionIsDistinctFromTransport(t *testing.T) {
	fx := newFollowFixture()
	fx.follows.setEdge("A", "B", models.FollowAccepted)
	fx.follows.setEdge("B", "A", models.FollowAccepted)

	fx.messaging.err = apperrors.NewMessagingNotPermittedError("mutual follow required")
	_, err := fx.svc.InitiateConversation(context.Background(), member("A"), "B")
	assert.ErrorIs(t, err, apperrors.ErrMessagingNotPermitted)
	assert.False(t, apperrors.Retryable(err))

	fx.messaging.err = apperrors.NewNetworkError("messaging down", nil)
	_, err = fx.svc.InitiateConversation(context.Background(), member("A"), "B")
	assert.ErrorIs(t, err, apperrors.ErrNetworkOrServer)
	assert.NotErrorIs(t, err, apperrors.ErrMessagingNotPermitted)
	assert.True(t, apperrors.Retryable(err))
}

func TestStatusReadFailureBlocksConversation(t *testing.T) {
	fx := newFollowFixture()
	fx.follows.statusErr = errUpstreamDown

	_, err := fx.svc.InitiateConversation(context.Background(), member("A"), "B")
	assert.ErrorIs(t, err, apperrors.ErrNetworkOrServer)
	assert.Zero(t, fx.messaging.calls)
}

func TestPublishFailureIsNotReturned(t *testing.T) {
	fx := newFollowFixture()
	fx.publisher.err = assert.AnError

	_, err := fx.svc.RequestFollow(context.Background(), member("A"), "B")
	assert.NoError(t, err)
}

func TestConversationPublishesEvent(t *testing.T) {
	fx := newFollowFixture()
	fx.follows.setEdge("A", "B", models.FollowAccepted)
	fx.follows.setEdge("B", "A", models.FollowAccepted)

	conv, err := fx.svc.InitiateConversation(context.Background(), member("A"), "B")
	require.NoError(t, err)

	require.Equal(t, []string{events.SubjectConversationOpened}, fx.publisher.subjects)
	assert.Equal(t, conv.ID, fx.publisher.events[0].ConversationID)
}
