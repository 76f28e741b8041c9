// Package events publishes follow and messaging notifications for other
// portal services.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/yigit/alumnet/internal/pkg/helpers"
)

// Subjects
const (
	SubjectFollowRequested    = "alumnet.follow.requested"
	SubjectFollowRemoved      = "alumnet.follow.removed"
	SubjectConversationOpened = "alumnet.follow.conversation_opened"
)

// FollowEvent describes a completed follow or messaging action
type FollowEvent struct {
	ID             string    `json:"id"`
	ActorID        string    `json:"actor_id"`
	SubjectID      string    `json:"subject_id"`
	FollowingState string    `json:"following_state,omitempty"`
	ConversationID string    `json:"conversation_id,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// NewFollowEvent stamps an event with a fresh ID and the current time
func NewFollowEvent(actorID, subjectID string) FollowEvent {
	return FollowEvent{
		ID:         uuid.NewString(),
		ActorID:    actorID,
		SubjectID:  subjectID,
		OccurredAt: time.Now().UTC(),
	}
}

// Publisher sends follow events
type Publisher interface {
	Publish(ctx context.Context, subject string, event FollowEvent) error
}

// msgPublisher is the part of *nats.Conn the publisher needs
type msgPublisher interface {
	PublishMsg(m *nats.Msg) error
}

// NatsPublisher publishes events on a NATS connection
type NatsPublisher struct {
	nc     msgPublisher
	logger zerolog.Logger
}

// NewNatsPublisher creates a new NatsPublisher
func NewNatsPublisher(nc msgPublisher, logger zerolog.Logger) *NatsPublisher {
	return &NatsPublisher{nc: nc, logger: logger}
}

// Publish encodes the event as JSON and sends it with the request ID header
func (p *NatsPublisher) Publish(ctx context.Context, subject string, event FollowEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshalling error: %w", err)
	}

	msg := &nats.Msg{
		Subject: subject,
		Data:    data,
		Header:  nats.Header{},
	}
	msg.Header.Set(helpers.RequestIDHeader, helpers.RequestIDFromContext(ctx))
	msg.Header.Set(nats.MsgIdHdr, event.ID)

	p.logger.Debug().Str("subject", subject).Str("event_id", event.ID).Msg("Publishing follow event")
	if err := p.nc.PublishMsg(msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", subject, err)
	}
	return nil
}

// NopPublisher drops every event. Used when NATS is disabled.
type NopPublisher struct{}

// Publish implements Publisher
func (NopPublisher) Publish(context.Context, string, FollowEvent) error {
	return nil
}

// Connect dials NATS with reconnects enabled
func Connect(url string, logger zerolog.Logger) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name("alumnet-gateway"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn().Err(err).Msg("NATS disconnected")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return nc, nil
}
