package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/alumnet/internal/app/feed"
	"github.com/yigit/alumnet/internal/app/models/dto"
	"github.com/yigit/alumnet/internal/app/services"
	"github.com/yigit/alumnet/internal/app/session"
	"github.com/yigit/alumnet/internal/middleware"
	"github.com/yigit/alumnet/internal/pkg/helpers"
)

// FeedController handles dashboard feed requests
type FeedController struct {
	feedService services.FeedService
}

// NewFeedController creates a new FeedController
func NewFeedController(feedService services.FeedService) *FeedController {
	return &FeedController{
		feedService: feedService,
	}
}

// GetFeed returns one page of the merged dashboard feed
// @Summary Get the dashboard feed
// @Description Returns jobs, events and posts merged newest first, optionally narrowed to one category or author
// @Tags feed
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param category query string false "Filter tab" Enums(All, Jobs, Events, Posts)
// @Param authorId query string false "Only content by this member"
// @Param page query int false "Page number (1-based)" default(1) minimum(1)
// @Param size query int false "Page size" default(20) minimum(1) maximum(100)
// @Success 200 {object} dto.APIResponse{data=dto.FeedPageResponse} "Feed page"
// @Failure 400 {object} dto.ErrorResponse "Invalid query"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 502 {object} dto.ErrorResponse "Content service unavailable"
// @Router /feed [get]
func (c *FeedController) GetFeed(ctx *gin.Context) {
	c.serveFeed(ctx, helpers.MaxPageSize, c.feedService.GetFeed)
}

// GetModerationFeed returns the unfiltered feed for moderators
// @Summary Get the moderation feed
// @Description Returns the merged feed across all authors with a larger page size limit
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param category query string false "Filter tab" Enums(All, Jobs, Events, Posts)
// @Param page query int false "Page number (1-based)" default(1) minimum(1)
// @Param size query int false "Page size" default(20) minimum(1) maximum(500)
// @Success 200 {object} dto.APIResponse{data=dto.FeedPageResponse} "Feed page"
// @Failure 400 {object} dto.ErrorResponse "Invalid query"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Admin role required"
// @Failure 502 {object} dto.ErrorResponse "Content service unavailable"
// @Router /admin/feed [get]
func (c *FeedController) GetModerationFeed(ctx *gin.Context) {
	c.serveFeed(ctx, helpers.AdminPageSize, c.feedService.GetModerationFeed)
}

type feedLoader func(ctx context.Context, sess session.Session, q services.FeedQuery) (*services.FeedPage, error)

func (c *FeedController) serveFeed(ctx *gin.Context, maxSize int, load feedLoader) {
	sess, err := session.FromGin(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.FeedQueryRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.HandleValidationError(err)))
		return
	}

	category, err := feed.ParseCategory(req.Category)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	page, size := helpers.ParsePaginationParams(ctx, maxSize)
	result, err := load(ctx.Request.Context(), sess, services.FeedQuery{
		Category: category,
		AuthorID: req.AuthorID,
		Page:     page,
		Size:     size,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewFeedPageResponse(result.Category, result.Entries, result.Pagination)))
}
