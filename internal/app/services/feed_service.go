package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/alumnet/internal/app/auth"
	"github.com/yigit/alumnet/internal/app/feed"
	"github.com/yigit/alumnet/internal/app/models"
	"github.com/yigit/alumnet/internal/app/models/dto"
	"github.com/yigit/alumnet/internal/app/repositories"
	"github.com/yigit/alumnet/internal/app/session"
	"github.com/yigit/alumnet/internal/pkg/helpers"
	"github.com/yigit/alumnet/internal/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

// FeedQuery selects one page of the dashboard feed
type FeedQuery struct {
	Category feed.Category
	AuthorID string
	Page     int
	Size     int
}

// FeedPage is one page of the filtered feed
type FeedPage struct {
	Category   feed.Category
	Entries    []feed.Entry
	Pagination dto.PaginationInfo
}

// FeedService defines the interface for dashboard feed operations
type FeedService interface {
	Aggregate(ctx context.Context, sess session.Session, category feed.Category, authorID string) ([]feed.Entry, error)
	GetFeed(ctx context.Context, sess session.Session, q FeedQuery) (*FeedPage, error)
	GetModerationFeed(ctx context.Context, sess session.Session, q FeedQuery) (*FeedPage, error)
}

// feedServiceImpl implements the FeedService interface
type feedServiceImpl struct {
	source repositories.ContentSource
	authz  *auth.AuthorizationService
	logger zerolog.Logger
}

// NewFeedService creates a new feed service instance
func NewFeedService(source repositories.ContentSource, authz *auth.AuthorizationService, logger zerolog.Logger) FeedService {
	return &feedServiceImpl{
		source: source,
		authz:  authz,
		logger: logger,
	}
}

// Aggregate fetches the three collections concurrently and returns the
// merged, filtered feed. Any failed collection fails the whole call.
func (s *feedServiceImpl) Aggregate(ctx context.Context, sess session.Session, category feed.Category, authorID string) ([]feed.Entry, error) {
	s.logger.Debug().Str("viewer", sess.Viewer.ID).Str("category", string(category)).Msg("Aggregating feed")

	var (
		jobs   []models.Job
		events []models.Event
		posts  []models.Post
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		jobs, err = s.source.ListJobs(gctx, sess)
		return err
	})
	g.Go(func() error {
		var err error
		events, err = s.source.ListEvents(gctx, sess)
		return err
	})
	g.Go(func() error {
		var err error
		posts, err = s.source.ListPosts(gctx, sess)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Str("viewer", sess.Viewer.ID).Msg("Failed to fetch feed content")
		return nil, err
	}

	entries := feed.Build(jobs, events, posts)
	metrics.FeedEntries.Observe(float64(len(entries)))

	entries = feed.Filter(entries, category)
	return feed.FilterByAuthor(entries, authorID), nil
}

// GetFeed returns one page of the viewer's dashboard feed
func (s *feedServiceImpl) GetFeed(ctx context.Context, sess session.Session, q FeedQuery) (*FeedPage, error) {
	if err := s.authz.ValidateViewer(sess); err != nil {
		return nil, err
	}
	return s.page(ctx, sess, q)
}

// GetModerationFeed returns one page of the unfiltered-by-author feed for admins
func (s *feedServiceImpl) GetModerationFeed(ctx context.Context, sess session.Session, q FeedQuery) (*FeedPage, error) {
	if err := s.authz.ValidateAdmin(sess); err != nil {
		return nil, err
	}
	q.AuthorID = ""
	return s.page(ctx, sess, q)
}

func (s *feedServiceImpl) page(ctx context.Context, sess session.Session, q FeedQuery) (*FeedPage, error) {
	if q.Category == "" {
		q.Category = feed.CategoryAll
	}

	entries, err := s.Aggregate(ctx, sess, q.Category, q.AuthorID)
	if err != nil {
		return nil, err
	}

	start, end := helpers.CalculateSliceIndices(q.Page, q.Size, len(entries))
	return &FeedPage{
		Category:   q.Category,
		Entries:    entries[start:end],
		Pagination: helpers.NewPaginationInfo(int64(len(entries)), q.Page, q.Size),
	}, nil
}
