package models

import "time"

// FollowEdgeStatus is the server-side state of a directed follow edge
type FollowEdgeStatus string

const (
	FollowPending  FollowEdgeStatus = "PENDING"
	FollowAccepted FollowEdgeStatus = "ACCEPTED"
)

// FollowEdge is a directed follow relation owned by the follow service
type FollowEdge struct {
	FollowerID string           `json:"followerId"`
	FolloweeID string           `json:"followeeId"`
	Status     FollowEdgeStatus `json:"status"`
}

// Conversation is the reference returned by the messaging service when a
// direct conversation is created or looked up.
type Conversation struct {
	ID             string    `json:"id"`
	ParticipantIDs []string  `json:"participantIds"`
	CreatedAt      time.Time `json:"createdAt"`
}
