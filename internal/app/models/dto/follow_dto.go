package dto

import (
	"time"

	"github.com/yigit/alumnet/internal/app/follow"
	"github.com/yigit/alumnet/internal/app/models"
)

// FollowStatusResponse is the viewer's relationship to a profile together
// with the action the profile view should offer
type FollowStatusResponse struct {
	UserID     string                               `json:"userId" example:"u-2002"`
	Status     follow.Status                        `json:"status"`
	Affordance follow.Affordance                    `json:"affordance" example:"follow" enums:"follow,pending,message,unfollow"`
	Actions    map[follow.Action]follow.ActionState `json:"actions"`
}

// NewFollowStatusResponse builds the status response for subjectID
func NewFollowStatusResponse(subjectID string, status follow.Status, actions map[follow.Action]follow.ActionState) FollowStatusResponse {
	return FollowStatusResponse{
		UserID:     subjectID,
		Status:     status,
		Affordance: follow.AffordanceFor(status),
		Actions:    actions,
	}
}

// ConversationResponse references the direct conversation with a member
type ConversationResponse struct {
	ConversationID string    `json:"conversationId" example:"c-9001"`
	ParticipantIDs []string  `json:"participantIds"`
	CreatedAt      time.Time `json:"createdAt"`
}

// FromConversation converts a conversation reference to its response shape
func FromConversation(c models.Conversation) ConversationResponse {
	return ConversationResponse{
		ConversationID: c.ID,
		ParticipantIDs: c.ParticipantIDs,
		CreatedAt:      c.CreatedAt,
	}
}
