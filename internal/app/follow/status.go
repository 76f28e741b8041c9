// Package follow derives the relationship between two portal members from
// their directed follow edges and decides whether they may message each other.
package follow

import (
	"encoding/json"
	"strings"

)

// EdgeState is the state of one directed follow edge
type EdgeState string

const (
	EdgeNone     EdgeState = "NONE"
	EdgePending  EdgeState = "PENDING"
	EdgeAccepted EdgeState = "ACCEPTED"
)

// ParseEdgeState reads an edge state from the follow service. Empty and
// unknown values are treated as no edge.
func ParseEdgeState(raw string) EdgeState {
	switch EdgeState(strings.ToUpper(strings.TrimSpace(raw))) {
	case EdgePending:
		return EdgePending
	case EdgeAccepted:
		return EdgeAccepted
	default:
		return EdgeNone
	}
}

// Status is the viewer's relationship to a subject. It is computed fresh on
// every query and never stored.
type Status struct {
	IsFollowing     bool
	IsFollowedBy    bool
	FollowingStatus EdgeState // EdgeNone is rendered as null
	CanMessage      bool
}

// Derive computes the status from the viewer→subject (outgoing) and
// subject→viewer (incoming) edges. CanMessage holds only on mutual ACCEPTED.
func Derive(outgoing, incoming EdgeState) Status {
	return Status{
		IsFollowing:     outgoing != EdgeNone,
		IsFollowedBy:    incoming == EdgeAccepted,
		FollowingStatus: outgoing,
		CanMessage:      outgoing == EdgeAccepted && incoming == EdgeAccepted,
	}
}

// IsZero reports whether s was never derived, as returned alongside an error
func (s Status) IsZero() bool {
	return s.FollowingStatus == ""
}

// Edges returns the edge pair a status was derived from. The incoming edge is
// only known when it is ACCEPTED; otherwise EdgeNone is reported.
func (s Status) Edges() (outgoing, incoming EdgeState) {
	outgoing = s.FollowingStatus
	if outgoing == "" {
		outgoing = EdgeNone
	}
	incoming = EdgeNone
	if s.IsFollowedBy {
		incoming = EdgeAccepted
	}
	return outgoing, incoming
}

// Projection is the follow service's view of a (viewer, subject) pair as it
// arrives on the wire.
type Projection struct {
	IsFollowing     bool    `json:"isFollowing"`
	IsFollowedBy    bool    `json:"isFollowedBy"`
	FollowingStatus *string `json:"followingStatus"`
	CanMessage      bool    `json:"canMessage"`
}

// EdgesFromProjection recovers the edge pair from the service projection.
// The projection's own canMessage flag is ignored.
func EdgesFromProjection(p Projection) (outgoing, incoming EdgeState) {
	outgoing = EdgeNone
	if p.FollowingStatus != nil {
		outgoing = ParseEdgeState(*p.FollowingStatus)
	}
	incoming = EdgeNone
	if p.IsFollowedBy {
		incoming = EdgeAccepted
	}
	return outgoing, incoming
}

// MarshalJSON renders the status in the shape the dashboard binds to
func (s Status) MarshalJSON() ([]byte, error) {
	var following *string
	if s.FollowingStatus != EdgeNone && s.FollowingStatus != "" {
		v := string(s.FollowingStatus)
		following = &v
	}
	return json.Marshal(Projection{
		IsFollowing:     s.IsFollowing,
		IsFollowedBy:    s.IsFollowedBy,
		FollowingStatus: following,
		CanMessage:      s.CanMessage,
	})
}
