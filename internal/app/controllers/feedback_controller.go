package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/courselens/backend/internal/app/models/dto"
	"github.com/courselens/backend/internal/app/services"
	"github.com/courselens/backend/internal/middleware"
)

// FeedbackController handles feedback batch queries
type FeedbackController struct {
	feedbackService services.FeedbackService
}

// NewFeedbackController creates a new FeedbackController
func NewFeedbackController(feedbackService services.FeedbackService) *FeedbackController {
	return &FeedbackController{
		feedbackService: feedbackService,
	}
}

// QueryFeedback answers one batch of course/instructor queries
// @Summary Query aggregated course feedback
// @Description Resolves a batch of course/instructor queries and returns the five aggregate figures per item, in input order. Missing data is returned as null fields, never as an error.
// @Tags feedback
// @Accept json
// @Produce json
// @Param request body []dto.FeedbackQueryItem true "Query batch"
// @Success 200 {object} dto.APIResponse{data=[]dto.FeedbackResult} "Assembled feedback records"
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 503 {object} dto.ErrorResponse "Storage unavailable"
// @Router /feedback/query [post]
func (c *FeedbackController) QueryFeedback(ctx *gin.Context) {
	var items []dto.FeedbackQueryItem
	if err := ctx.ShouldBindJSON(&items); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid query batch")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	results, err := c.feedbackService.GetCourseFeedback(ctx, items)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      results,
		Timestamp: time.Now(),
	})
}
