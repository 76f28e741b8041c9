package follow

// Affordance is the primary action the profile view offers for a status
type Affordance string

const (
	AffordanceFollow   Affordance = "follow"
	AffordancePending  Affordance = "pending"
	AffordanceMessage  Affordance = "message"
	AffordanceUnfollow Affordance = "unfollow"
)

// AffordanceFor picks the action shown to the viewer. Message is offered only
// when messaging is permitted; an accepted one-way follow offers unfollow.
func AffordanceFor(s Status) Affordance {
	switch {
	case s.CanMessage:
		return AffordanceMessage
	case s.FollowingStatus == EdgePending:
		return AffordancePending
	case s.FollowingStatus == EdgeAccepted:
		return AffordanceUnfollow
	default:
		return AffordanceFollow
	}
}

// Action is a user-initiated operation on a (viewer, subject) pair
type Action string

const (
	ActionFollow       Action = "follow"
	ActionUnfollow     Action = "unfollow"
	ActionConversation Action = "conversation"
)

// Actions lists the actions tracked per pair
func Actions() []Action {
	return []Action{ActionFollow, ActionUnfollow, ActionConversation}
}

// ActionState is the presentation state of one action button: loading while
// the action is in flight, otherwise the last error message if it failed.
type ActionState struct {
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
}
