// Package feed merges the portal's content kinds into one dashboard stream.
package feed

import "github.com/yigit/alumnet/internal/app/models"

// Kind is the discriminant of a feed item
type Kind string

const (
	KindJob   Kind = "job"
	KindEvent Kind = "event"
	KindPost  Kind = "post"
)

// Item is a piece of content that can appear in the feed. The set of
// implementations is closed: JobItem, EventItem and PostItem.
type Item interface {
	Kind() Kind
	ID() string
	AuthorID() string
	rawTimestamp() string
}

// JobItem tags a job posting
type JobItem struct{ models.Job }

// EventItem tags an event announcement
type EventItem struct{ models.Event }

// PostItem tags a general post
type PostItem struct{ models.Post }

func (JobItem) Kind() Kind {
	return KindJob
}

func (j JobItem) ID() string {
	return j.Job.ID
}

func (j JobItem) AuthorID() string {
	return j.Job.AuthorID
}

func (j JobItem) rawTimestamp() string {
	return j.PostedAt
}

func (EventItem) Kind() Kind {
	return KindEvent
}

func (e EventItem) ID() string {
	return e.Event.ID
}

func (e EventItem) AuthorID() string {
	return e.Event.AuthorID
}

func (e EventItem) rawTimestamp() string {
	return e.Date
}

func (PostItem) Kind() Kind {
	return KindPost
}

func (p PostItem) ID() string {
	return p.Post.ID
}

func (p PostItem) AuthorID() string {
	return p.Post.AuthorID
}

func (p PostItem) rawTimestamp() string {
	return p.PostedAt
}

// Match dispatches on the concrete kind of it. Every kind must be handled.
// A nil item matches nothing and yields the zero T.
func Match[T any](it Item, onJob func(JobItem) T, onEvent func(EventItem) T, onPost func(PostItem) T) T {
	var zero T
	switch v := it.(type) {
	case JobItem:
		return onJob(v)
	case EventItem:
		return onEvent(v)
	case PostItem:
		return onPost(v)
	}
	return zero
}
