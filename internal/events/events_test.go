package events_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/alumnet/internal/events"
	"github.com/yigit/alumnet/internal/pkg/helpers"
)

type recordingConn struct {
	msgs []*nats.Msg
	err  error
}

func (c *recordingConn) PublishMsg(m *nats.Msg) error {
	if c.err != nil {
		return c.err
	}
	c.msgs = append(c.msgs, m)
	return nil
}

func TestNatsPublisherPublish(t *testing.T) {
	conn := &recordingConn{}
	pub := events.NewNatsPublisher(conn, zerolog.Nop())

	ev := events.NewFollowEvent("u-1", "u-2")
	ev.FollowingState = "PENDING"
	ctx := helpers.WithRequestID(context.Background(), "req-7")

	require.NoError(t, pub.Publish(ctx, events.SubjectFollowRequested, ev))
	require.Len(t, conn.msgs, 1)

	msg := conn.msgs[0]
	assert.Equal(t, "alumnet.follow.requested", msg.Subject)
	assert.Equal(t, "req-7", msg.Header.Get(helpers.RequestIDHeader))
	assert.Equal(t, ev.ID, msg.Header.Get(nats.MsgIdHdr))

	var got events.FollowEvent
	require.NoError(t, json.Unmarshal(msg.Data, &got))
	assert.Equal(t, "u-1", got.ActorID)
	assert.Equal(t, "u-2", got.SubjectID)
	assert.Equal(t, "PENDING", got.FollowingState)
}

func TestNatsPublisherWrapsFailure(t *testing.T) {
	sentinel := errors.New("connection closed")
	pub := events.NewNatsPublisher(&recordingConn{err: sentinel}, zerolog.Nop())

	err := pub.Publish(context.Background(), events.SubjectFollowRemoved, events.NewFollowEvent("a", "b"))
	assert.ErrorIs(t, err, sentinel)
}

func TestNopPublisher(t *testing.T) {
	var pub events.Publisher = events.NopPublisher{}
	assert.NoError(t, pub.Publish(context.Background(), events.SubjectConversationOpened, events.FollowEvent{}))
}
