package dto_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/alumnet/internal/app/feed"
	"github.com/yigit/alumnet/internal/app/follow"
	"github.com/yigit/alumnet/internal/app/models"
	"github.com/yigit/alumnet/internal/app/models/dto"
)

func TestNewFeedPageResponseKeepsOrderAndTags(t *testing.T) {
	entries := feed.Build(
		[]models.Job{{ID: "j1", AuthorID: "u1", Company: "Acme", PostedAt: "2024-01-02T00:00:00Z"}},
		[]models.Event{{ID: "e1", AuthorID: "u2", Date: "not a date"}},
		[]models.Post{{ID: "p1", AuthorID: "u3", Content: "hi", PostedAt: "2024-01-03T00:00:00Z"}},
	)

	page := dto.NewFeedPageResponse(feed.CategoryAll, entries, dto.PaginationInfo{CurrentPage: 1, TotalPages: 1, PageSize: 20, TotalItems: 3})

	require.Len(t, page.Entries, 3)
	assert.Equal(t, "p1", page.Entries[0].ID)
	assert.Equal(t, feed.KindPost, page.Entries[0].Kind)
	require.NotNil(t, page.Entries[0].Post)
	assert.Nil(t, page.Entries[0].Job)

	assert.Equal(t, "j1", page.Entries[1].ID)
	require.NotNil(t, page.Entries[1].Job)
	assert.Equal(t, "Acme", page.Entries[1].Job.Company)

	assert.Equal(t, "e1", page.Entries[2].ID)
	require.NotNil(t, page.Entries[2].Event)
	assert.Nil(t, page.Entries[2].Timestamp)
}

func TestFeedEntryJSONShape(t *testing.T) {
	entries := feed.Build(nil, []models.Event{{ID: "e1", AuthorID: "u2", Title: "Gala", Date: "2024-05-01"}}, nil)

	resp, ok := dto.FromFeedEntry(entries[0])
	require.True(t, ok)
	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "event", got["kind"])
	assert.Equal(t, "2024-05-01T00:00:00Z", got["timestamp"])
	assert.Contains(t, got, "event")
	assert.NotContains(t, got, "job")
	assert.NotContains(t, got, "post")
}

func TestZeroFeedEntryIsSkipped(t *testing.T) {
	_, ok := dto.FromFeedEntry(feed.Entry{})
	assert.False(t, ok)

	entries := append(feed.Build([]models.Job{{ID: "j1", PostedAt: "2024-01-01"}}, nil, nil), feed.Entry{})
	page := dto.NewFeedPageResponse(feed.CategoryAll, entries, dto.PaginationInfo{})
	require.Len(t, page.Entries, 1)
	assert.Equal(t, "j1", page.Entries[0].ID)
}

func TestNewFollowStatusResponse(t *testing.T) {
	status := follow.Derive(follow.EdgeAccepted, follow.EdgeAccepted)
	actions := map[follow.Action]follow.ActionState{
		follow.ActionFollow: {Error: "rejected"},
	}

	resp := dto.NewFollowStatusResponse("u2", status, actions)

	assert.Equal(t, follow.AffordanceMessage, resp.Affordance)

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"userId": "u2",
		"status": {"isFollowing": true, "isFollowedBy": true, "followingStatus": "ACCEPTED", "canMessage": true},
		"affordance": "message",
		"actions": {"follow": {"loading": false, "error": "rejected"}}
	}`, string(raw))
}

func TestNewErrorResponse(t *testing.T) {
	detail := dto.NewErrorDetail(dto.ErrorCodeMessagingNotPermitted, "no mutual follow").WithField("userId")
	resp := dto.NewErrorResponse(detail)

	assert.False(t, resp.Success)
	assert.Equal(t, dto.ErrorSeverityError, resp.Error.Severity)
	assert.Equal(t, "userId", resp.Error.Field)
	assert.False(t, resp.Timestamp.IsZero())
}
