package repositories

import (
	"context"

	"github.com/yigit/alumnet/internal/app/models"
	"github.com/yigit/alumnet/internal/app/session"
)

// ContentSource provides the three raw content collections the feed is built from
type ContentSource interface {
	ListJobs(ctx context.Context, sess session.Session) ([]models.Job, error)
	ListEvents(ctx context.Context, sess session.Session) ([]models.Event, error)
	ListPosts(ctx context.Context, sess session.Session) ([]models.Post, error)
}
