package clients

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/yigit/alumnet/internal/app/models"
	"github.com/yigit/alumnet/internal/app/session"
)

// ContentClient reads the job, event and post collections from the content service
type ContentClient struct {
	*baseClient
}

// NewContentClient creates a new content service client
func NewContentClient(opts Options, logger zerolog.Logger) *ContentClient {
	return &ContentClient{baseClient: newBaseClient("content", opts, logger)}
}

// ListJobs fetches all job postings
func (c *ContentClient) ListJobs(ctx context.Context, sess session.Session) ([]models.Job, error) {
	var jobs []models.Job
	if err := c.do(ctx, sess, "list_jobs", http.MethodGet, "/jobs", nil, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// ListEvents fetches all event announcements
func (c *ContentClient) ListEvents(ctx context.Context, sess session.Session) ([]models.Event, error) {
	var events []models.Event
	if err := c.do(ctx, sess, "list_events", http.MethodGet, "/events", nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// ListPosts fetches all general posts
func (c *ContentClient) ListPosts(ctx context.Context, sess session.Session) ([]models.Post, error) {
	var posts []models.Post
	if err := c.do(ctx, sess, "list_posts", http.MethodGet, "/posts", nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}
