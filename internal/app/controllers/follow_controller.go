package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/alumnet/internal/app/follow"
	"github.com/yigit/alumnet/internal/app/models/dto"
	"github.com/yigit/alumnet/internal/app/services"
	"github.com/yigit/alumnet/internal/app/session"
	"github.com/yigit/alumnet/internal/middleware"
)

// FollowController handles follow relationships and conversation starts
type FollowController struct {
	followService services.FollowService
}

// NewFollowController creates a new FollowController
func NewFollowController(followService services.FollowService) *FollowController {
	return &FollowController{
		followService: followService,
	}
}

// GetFollowStatus returns the viewer's relationship to a member
// @Summary Get follow status
// @Description Returns the follow state between the viewer and the member, the action to offer and per-action progress
// @Tags follow
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Member ID"
// @Success 200 {object} dto.APIResponse{data=dto.FollowStatusResponse} "Follow status"
// @Failure 400 {object} dto.ErrorResponse "Invalid member ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Member not found"
// @Failure 502 {object} dto.ErrorResponse "Follow service unavailable"
// @Router /users/{id}/follow-status [get]
func (c *FollowController) GetFollowStatus(ctx *gin.Context) {
	sess, err := session.FromGin(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	subjectID := ctx.Param("id")
	status, err := c.followService.Status(ctx.Request.Context(), sess, subjectID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(c.statusResponse(sess, subjectID, status)))
}

// Follow sends a follow request to a member
// @Summary Follow a member
// @Description Sends a follow request and returns the refreshed status. The request stays PENDING until the member accepts it
// @Tags follow
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Member ID"
// @Success 200 {object} dto.APIResponse{data=dto.FollowStatusResponse} "Refreshed follow status"
// @Failure 400 {object} dto.ErrorResponse "Invalid member ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 409 {object} dto.ErrorResponse "Another action for this member is in progress"
// @Failure 502 {object} dto.ErrorResponse "Follow service unavailable"
// @Router /users/{id}/follow [post]
func (c *FollowController) Follow(ctx *gin.Context) {
	c.mutate(ctx, c.followService.RequestFollow)
}

// Unfollow removes the viewer's follow edge
// @Summary Unfollow a member
// @Description Removes the viewer's follow or pending request and returns the refreshed status
// @Tags follow
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Member ID"
// @Success 200 {object} dto.APIResponse{data=dto.FollowStatusResponse} "Refreshed follow status"
// @Failure 400 {object} dto.ErrorResponse "Invalid member ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 409 {object} dto.ErrorResponse "Another action for this member is in progress"
// @Failure 502 {object} dto.ErrorResponse "Follow service unavailable"
// @Router /users/{id}/follow [delete]
func (c *FollowController) Unfollow(ctx *gin.Context) {
	c.mutate(ctx, c.followService.Unfollow)
}

// StartConversation opens a direct conversation with a member
// @Summary Start a conversation
// @Description Opens or looks up the direct conversation with a member. Only allowed when both follow each other
// @Tags messaging
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Member ID"
// @Success 200 {object} dto.APIResponse{data=dto.ConversationResponse} "Conversation reference"
// @Failure 400 {object} dto.ErrorResponse "Invalid member ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Messaging requires a mutual follow"
// @Failure 409 {object} dto.ErrorResponse "Another action for this member is in progress"
// @Failure 502 {object} dto.ErrorResponse "Follow or messaging service unavailable"
// @Router /users/{id}/conversation [post]
func (c *FollowController) StartConversation(ctx *gin.Context) {
	sess, err := session.FromGin(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	conv, err := c.followService.InitiateConversation(ctx.Request.Context(), sess, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FromConversation(conv)))
}

type followMutation func(ctx context.Context, sess session.Session, subjectID string) (follow.Status, error)

// mutate runs a follow mutation. A rejected mutation still carries the
// refreshed status when one could be read.
func (c *FollowController) mutate(ctx *gin.Context, run followMutation) {
	sess, err := session.FromGin(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	subjectID := ctx.Param("id")
	status, err := run(ctx.Request.Context(), sess, subjectID)
	if err != nil {
		if status.IsZero() {
			middleware.HandleAPIError(ctx, err)
			return
		}
		middleware.HandleAPIErrorWithData(ctx, err, c.statusResponse(sess, subjectID, status))
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(c.statusResponse(sess, subjectID, status)))
}

func (c *FollowController) statusResponse(sess session.Session, subjectID string, status follow.Status) dto.FollowStatusResponse {
	return dto.NewFollowStatusResponse(subjectID, status, c.followService.ActionState(sess, subjectID))
}
