package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/yigit/alumnet/internal/app/auth"
	"github.com/yigit/alumnet/internal/app/follow"
	"github.com/yigit/alumnet/internal/app/models"
	"github.com/yigit/alumnet/internal/app/session"
	"github.com/yigit/alumnet/internal/events"
	"github.com/yigit/alumnet/internal/pkg/apperrors"
	"github.com/yigit/alumnet/internal/pkg/metrics"
)

// FollowGateway is the follow service as seen by the authorizer
type FollowGateway interface {
	GetFollowStatus(ctx context.Context, sess session.Session, subjectID string) (follow.Projection, error)
	SendFollowRequest(ctx context.Context, sess session.Session, subjectID string) error
	Unfollow(ctx context.Context, sess session.Session, subjectID string) error
}

// MessagingGateway is the messaging service as seen by the authorizer
type MessagingGateway interface {
	GetOrCreateConversation(ctx context.Context, sess session.Session, participantID string) (models.Conversation, error)
}

// FollowService defines the interface for follow and messaging operations
type FollowService interface {
	Status(ctx context.Context, sess session.Session, subjectID string) (follow.Status, error)
	RequestFollow(ctx context.Context, sess session.Session, subjectID string) (follow.Status, error)
	Unfollow(ctx context.Context, sess session.Session, subjectID string) (follow.Status, error)
	InitiateConversation(ctx context.Context, sess session.Session, subjectID string) (models.Conversation, error)
	ActionState(sess session.Session, subjectID string) map[follow.Action]follow.ActionState
}

type pairKey struct {
	viewer  string
	subject string
}

// followServiceImpl implements the FollowService interface
type followServiceImpl struct {
	follows   FollowGateway
	messaging MessagingGateway
	publisher events.Publisher
	authz     *auth.AuthorizationService
	logger    zerolog.Logger

	mu       sync.Mutex
	inFlight map[pairKey]follow.Action
	lastErr  map[pairKey]map[follow.Action]string
}

// NewFollowService creates a new follow service instance
func NewFollowService(
	follows FollowGateway,
	messaging MessagingGateway,
	publisher events.Publisher,
	authz *auth.AuthorizationService,
	logger zerolog.Logger,
) FollowService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &followServiceImpl{
		follows:   follows,
		messaging: messaging,
		publisher: publisher,
		authz:     authz,
		logger:    logger,
		inFlight:  make(map[pairKey]follow.Action),
		lastErr:   make(map[pairKey]map[follow.Action]string),
	}
}

func newPairKey(sess session.Session, subjectID string) pairKey {
	return pairKey{viewer: sess.Viewer.ID, subject: strings.TrimSpace(subjectID)}
}

// begin claims the pair for action. Only one mutating action per pair may be
// in flight.
func (s *followServiceImpl) begin(key pairKey, action follow.Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if running, busy := s.inFlight[key]; busy {
		return apperrors.NewCustomError(apperrors.ErrRequestInFlight, "a "+string(running)+" request for this user is already in progress")
	}
	s.inFlight[key] = action
	return nil
}

// finish releases the pair and records the action's outcome
func (s *followServiceImpl) finish(key pairKey, action follow.Action, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.inFlight, key)
	if err == nil {
		if errs, ok := s.lastErr[key]; ok {
			delete(errs, action)
			if len(errs) == 0 {
				delete(s.lastErr, key)
			}
		}
		metrics.RecordFollowAction(string(action), "ok")
		return
	}

	if s.lastErr[key] == nil {
		s.lastErr[key] = make(map[follow.Action]string)
	}
	s.lastErr[key][action] = err.Error()
	metrics.RecordFollowAction(string(action), "error")
}

// ActionState reports, per action, whether it is in flight and its last error
func (s *followServiceImpl) ActionState(sess session.Session, subjectID string) map[follow.Action]follow.ActionState {
	key := newPairKey(sess, subjectID)

	s.mu.Lock()
	defer s.mu.Unlock()

	states := make(map[follow.Action]follow.ActionState, len(follow.Actions()))
	running, busy := s.inFlight[key]
	for _, action := range follow.Actions() {
		states[action] = follow.ActionState{
			Loading: busy && running == action,
			Error:   s.lastErr[key][action],
		}
	}
	return states
}

// Status reads the relationship fresh from the follow service. The messaging
// gate is recomputed from the edges, never taken from upstream.
func (s *followServiceImpl) Status(ctx context.Context, sess session.Session, subjectID string) (follow.Status, error) {
	if err := s.authz.ValidateSubject(sess, subjectID); err != nil {
		return follow.Status{}, err
	}
	return s.fetchStatus(ctx, sess, strings.TrimSpace(subjectID))
}

func (s *followServiceImpl) fetchStatus(ctx context.Context, sess session.Session, subjectID string) (follow.Status, error) {
	projection, err := s.follows.GetFollowStatus(ctx, sess, subjectID)
	if err != nil {
		s.logger.Error().Err(err).Str("viewer", sess.Viewer.ID).Str("subject", subjectID).Msg("Failed to read follow status")
		return follow.Status{}, err
	}
	return follow.Derive(follow.EdgesFromProjection(projection)), nil
}

// mutate runs a follow mutation and then refreshes the status strictly after
// it resolved, whether it succeeded or not. On a rejected mutation the
// refreshed state is returned together with the mutation error.
func (s *followServiceImpl) mutate(
	ctx context.Context,
	sess session.Session,
	subjectID string,
	action follow.Action,
	call func(ctx context.Context, sess session.Session, subjectID string) error,
) (follow.Status, error) {
	if err := s.authz.ValidateSubject(sess, subjectID); err != nil {
		return follow.Status{}, err
	}
	subjectID = strings.TrimSpace(subjectID)
	key := newPairKey(sess, subjectID)
	if err := s.begin(key, action); err != nil {
		return follow.Status{}, err
	}

	s.logger.Debug().Str("viewer", sess.Viewer.ID).Str("subject", subjectID).Str("action", string(action)).Msg("Submitting follow action")

	mutErr := call(ctx, sess, subjectID)
	if mutErr != nil {
		s.logger.Error().Err(mutErr).Str("viewer", sess.Viewer.ID).Str("subject", subjectID).Str("action", string(action)).Msg("Follow action rejected")
	}

	status, refreshErr := s.fetchStatus(ctx, sess, subjectID)

	switch {
	case mutErr != nil:
		s.finish(key, action, mutErr)
		if refreshErr != nil {
			return follow.Status{}, mutErr
		}
		return status, mutErr
	case refreshErr != nil:
		s.finish(key, action, refreshErr)
		return follow.Status{}, refreshErr
	}

	s.finish(key, action, nil)
	return status, nil
}

// RequestFollow sends a follow request and returns the refreshed status
func (s *followServiceImpl) RequestFollow(ctx context.Context, sess session.Session, subjectID string) (follow.Status, error) {
	status, err := s.mutate(ctx, sess, subjectID, follow.ActionFollow, s.follows.SendFollowRequest)
	if err != nil {
		return status, err
	}

	ev := events.NewFollowEvent(sess.Viewer.ID, strings.TrimSpace(subjectID))
	ev.FollowingState = string(status.FollowingStatus)
	s.publish(ctx, events.SubjectFollowRequested, ev)
	return status, nil
}

// Unfollow removes the viewer's edge and returns the refreshed status. Losing
// the last accepted edge disables messaging.
func (s *followServiceImpl) Unfollow(ctx context.Context, sess session.Session, subjectID string) (follow.Status, error) {
	status, err := s.mutate(ctx, sess, subjectID, follow.ActionUnfollow, s.follows.Unfollow)
	if err != nil {
		return status, err
	}

	s.publish(ctx, events.SubjectFollowRemoved, events.NewFollowEvent(sess.Viewer.ID, strings.TrimSpace(subjectID)))
	return status, nil
}

// InitiateConversation opens a direct conversation. A fresh status is read
// first and the messaging service is only called on mutual follow.
func (s *followServiceImpl) InitiateConversation(ctx context.Context, sess session.Session, subjectID string) (models.Conversation, error) {
	if err := s.authz.ValidateSubject(sess, subjectID); err != nil {
		return models.Conversation{}, err
	}
	subjectID = strings.TrimSpace(subjectID)
	key := newPairKey(sess, subjectID)
	if err := s.begin(key, follow.ActionConversation); err != nil {
		return models.Conversation{}, err
	}

	conv, err := s.openConversation(ctx, sess, subjectID)
	s.finish(key, follow.ActionConversation, err)
	if err != nil {
		return models.Conversation{}, err
	}

	ev := events.NewFollowEvent(sess.Viewer.ID, subjectID)
	ev.ConversationID = conv.ID
	s.publish(ctx, events.SubjectConversationOpened, ev)
	return conv, nil
}

func (s *followServiceImpl) openConversation(ctx context.Context, sess session.Session, subjectID string) (models.Conversation, error) {
	status, err := s.fetchStatus(ctx, sess, subjectID)
	if err != nil {
		return models.Conversation{}, err
	}
	if !status.CanMessage {
		s.logger.Debug().Str("viewer", sess.Viewer.ID).Str("subject", subjectID).Msg("Conversation refused without mutual follow")
		return models.Conversation{}, apperrors.NewMessagingNotPermittedError("you can only message members who follow you back")
	}

	conv, err := s.messaging.GetOrCreateConversation(ctx, sess, subjectID)
	if err != nil {
		if errors.Is(err, apperrors.ErrMessagingNotPermitted) {
			s.logger.Warn().Str("viewer", sess.Viewer.ID).Str("subject", subjectID).Msg("Messaging service refused conversation")
		} else {
			s.logger.Error().Err(err).Str("viewer", sess.Viewer.ID).Str("subject", subjectID).Msg("Failed to open conversation")
		}
		return models.Conversation{}, err
	}
	return conv, nil
}

// publish sends an event. Failures are logged and never returned.
func (s *followServiceImpl) publish(ctx context.Context, subject string, ev events.FollowEvent) {
	if err := s.publisher.Publish(ctx, subject, ev); err != nil {
		s.logger.Warn().Err(err).Str("subject", subject).Str("event_id", ev.ID).Msg("Failed to publish follow event")
	}
}
