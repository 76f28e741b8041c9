package dto

import (
	"time"

	"github.com/yigit/alumnet/internal/app/feed"
	"github.com/yigit/alumnet/internal/app/models"
)

// FeedQueryRequest is the query string of the feed endpoints. Paging is read
// separately by the pagination helpers.
type FeedQueryRequest struct {
	Category string `form:"category" binding:"omitempty,feedcategory" example:"Jobs"`
	AuthorID string `form:"authorId" binding:"omitempty,max=64" example:"u-1001"`
}

// FeedEntryResponse is one kind-tagged feed item. Exactly one of Job, Event
// and Post is set, matching Kind.
type FeedEntryResponse struct {
	Kind      feed.Kind     `json:"kind" example:"job" enums:"job,event,post"`
	ID        string        `json:"id" example:"j-42"`
	AuthorID  string        `json:"authorId" example:"u-1001"`
	Timestamp *time.Time    `json:"timestamp"` // null when the raw date could not be parsed
	Job       *models.Job   `json:"job,omitempty"`
	Event     *models.Event `json:"event,omitempty"`
	Post      *models.Post  `json:"post,omitempty"`
}

// FeedPageResponse is one page of the dashboard feed
type FeedPageResponse struct {
	Category   feed.Category       `json:"category" example:"All" enums:"All,Jobs,Events,Posts"`
	Entries    []FeedEntryResponse `json:"entries"`
	Pagination PaginationInfo      `json:"pagination"`
}

// FromFeedEntry converts a feed entry to its response shape. A zero Entry,
// one not produced by feed.Build, reports false.
func FromFeedEntry(e feed.Entry) (FeedEntryResponse, bool) {
	if e.Item == nil {
		return FeedEntryResponse{}, false
	}
	resp := FeedEntryResponse{
		Kind:     e.Kind(),
		ID:       e.Item.ID(),
		AuthorID: e.Item.AuthorID(),
	}
	if e.Resolved {
		ts := e.Timestamp
		resp.Timestamp = &ts
	}

	feed.Match(e.Item,
		func(j feed.JobItem) struct{} {
			job := j.Job
			resp.Job = &job
			return struct{}{}
		},
		func(ev feed.EventItem) struct{} {
			event := ev.Event
			resp.Event = &event
			return struct{}{}
		},
		func(p feed.PostItem) struct{} {
			post := p.Post
			resp.Post = &post
			return struct{}{}
		},
	)
	return resp, true
}

// NewFeedPageResponse builds the page response, preserving entry order
func NewFeedPageResponse(category feed.Category, entries []feed.Entry, pagination PaginationInfo) FeedPageResponse {
	out := make([]FeedEntryResponse, 0, len(entries))
	for _, e := range entries {
		if resp, ok := FromFeedEntry(e); ok {
			out = append(out, resp)
		}
	}
	return FeedPageResponse{
		Category:   category,
		Entries:    out,
		Pagination: pagination,
	}
}
