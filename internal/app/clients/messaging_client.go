package clients

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/yigit/alumnet/internal/app/models"
	"github.com/yigit/alumnet/internal/app/session"
)

// MessagingClient opens direct conversations in the messaging service
type MessagingClient struct {
	*baseClient
}

// NewMessagingClient creates a new messaging service client
func NewMessagingClient(opts Options, logger zerolog.Logger) *MessagingClient {
	return &MessagingClient{baseClient: newBaseClient("messaging", opts, logger)}
}

type createConversationRequest struct {
	ParticipantID string `json:"participantId"`
}

// GetOrCreateConversation returns the direct conversation between the viewer
// and participantID, creating it when none exists.
func (c *MessagingClient) GetOrCreateConversation(ctx context.Context, sess session.Session, participantID string) (models.Conversation, error) {
	var conv models.Conversation
	err := c.do(ctx, sess, "get_or_create_conversation", http.MethodPost, "/conversations",
		createConversationRequest{ParticipantID: participantID}, &conv)
	if err != nil {
		return models.Conversation{}, err
	}
	return conv, nil
}
