package clients

import (
	"context"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"
	"github.com/yigit/alumnet/internal/app/follow"
	"github.com/yigit/alumnet/internal/app/session"
)

// FollowClient reads and mutates follow edges in the follow service
type FollowClient struct {
	*baseClient
}

// NewFollowClient creates a new follow service client
func NewFollowClient(opts Options, logger zerolog.Logger) *FollowClient {
	return &FollowClient{baseClient: newBaseClient("follow", opts, logger)}
}

func followPath(subjectID, suffix string) string {
	return "/users/" + url.PathEscape(subjectID) + suffix
}

// GetFollowStatus fetches the service's projection of the viewer's relation to subjectID
func (c *FollowClient) GetFollowStatus(ctx context.Context, sess session.Session, subjectID string) (follow.Projection, error) {
	var p follow.Projection
	if err := c.do(ctx, sess, "follow_status", http.MethodGet, followPath(subjectID, "/follow-status"), nil, &p); err != nil {
		return follow.Projection{}, err
	}
	return p, nil
}

// SendFollowRequest creates a viewer→subject edge. The service decides whether
// it starts PENDING or ACCEPTED.
func (c *FollowClient) SendFollowRequest(ctx context.Context, sess session.Session, subjectID string) error {
	return c.do(ctx, sess, "send_follow_request", http.MethodPost, followPath(subjectID, "/follow"), nil, nil)
}

// Unfollow removes the viewer→subject edge in any state
func (c *FollowClient) Unfollow(ctx context.Context, sess session.Session, subjectID string) error {
	return c.do(ctx, sess, "unfollow", http.MethodDelete, followPath(subjectID, "/follow"), nil, nil)
}
