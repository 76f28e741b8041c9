package services_test

import (
	"context"
	"errors"
	"sync"

	"github.com/yigit/alumnet/internal/app/follow"
	"github.com/yigit/alumnet/internal/app/models"
	"github.com/yigit/alumnet/internal/app/session"
	"github.com/yigit/alumnet/internal/events"
	"github.com/yigit/alumnet/internal/pkg/apperrors"
)

// fakeFollowService keeps directed edges in memory the way the follow service does
type fakeFollowService struct {
	mu         sync.Mutex
	edges      []models.FollowEdge
	private    map[string]bool // followees whose requests stay PENDING
	sendErr    error
	statusErr  error
	block      chan struct{} // when set, SendFollowRequest waits on it
	entered    chan struct{}
	statusHits int
}

// edgesBetween picks the two directed edges between viewer and subject
func edgesBetween(viewerID, subjectID string, edges []models.FollowEdge) (outgoing, incoming follow.EdgeState) {
	outgoing, incoming = follow.EdgeNone, follow.EdgeNone
	for _, e := range edges {
		switch {
		case e.FollowerID == viewerID && e.FolloweeID == subjectID:
			outgoing = follow.ParseEdgeState(string(e.Status))
		case e.FollowerID == subjectID && e.FolloweeID == viewerID:
			incoming = follow.ParseEdgeState(string(e.Status))
		}
	}
	return outgoing, incoming
}

func newFakeFollowService() *fakeFollowService {
	return &fakeFollowService{private: map[string]bool{}}
}

func (f *fakeFollowService) setEdge(follower, followee string, status models.FollowEdgeStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removeLocked(follower, followee)
	f.edges = append(f.edges, models.FollowEdge{FollowerID: follower, FolloweeID: followee, Status: status})
}

func (f *fakeFollowService) removeLocked(follower, followee string) {
	kept := f.edges[:0]
	for _, e := range f.edges {
		if e.FollowerID == follower && e.FolloweeID == followee {
			continue
		}
		kept = append(kept, e)
	}
	f.edges = kept
}

func (f *fakeFollowService) GetFollowStatus(_ context.Context, sess session.Session, subjectID string) (follow.Projection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusHits++
	if f.statusErr != nil {
		return follow.Projection{}, f.statusErr
	}

	out, in := edgesBetween(sess.Viewer.ID, subjectID, f.edges)
	p := follow.Projection{
		IsFollowing:  out != follow.EdgeNone,
		IsFollowedBy: in == follow.EdgeAccepted,
		// upstream flag is deliberately wrong to prove it is not trusted
		CanMessage: out != follow.EdgeNone || in != follow.EdgeNone,
	}
	if out != follow.EdgeNone {
		s := string(out)
		p.FollowingStatus = &s
	}
	return p, nil
}

func (f *fakeFollowService) SendFollowRequest(_ context.Context, sess session.Session, subjectID string) error {
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
	if f.sendErr != nil {
		return f.sendErr
	}

	status := models.FollowAccepted
	if f.private[subjectID] {
		status = models.FollowPending
	}
	f.setEdge(sess.Viewer.ID, subjectID, status)
	return nil
}

func (f *fakeFollowService) Unfollow(_ context.Context, sess session.Session, subjectID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removeLocked(sess.Viewer.ID, subjectID)
	return nil
}

// fakeMessaging records conversation requests
type fakeMessaging struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (m *fakeMessaging) GetOrCreateConversation(_ context.Context, sess session.Session, participantID string) (models.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return models.Conversation{}, m.err
	}
	return models.Conversation{ID: "c-" + sess.Viewer.ID + "-" + participantID, ParticipantIDs: []string{sess.Viewer.ID, participantID}}, nil
}

// recordingPublisher captures published events
type recordingPublisher struct {
	mu       sync.Mutex
	subjects []string
	events   []events.FollowEvent
	err      error
}

func (p *recordingPublisher) Publish(_ context.Context, subject string, ev events.FollowEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.subjects = append(p.subjects, subject)
	p.events = append(p.events, ev)
	return nil
}

var errUpstreamDown = apperrors.NewNetworkError("follow service unreachable", errors.New("dial tcp: connection refused"))
