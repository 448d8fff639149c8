package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/courselens/backend/internal/app/controllers"
	"github.com/courselens/backend/internal/app/models/dto"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	feedbackController *controllers.FeedbackController,
	offeringController *controllers.OfferingController,
	adminController *controllers.AdminController,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// Feedback routes (the extension-facing query surface)
	feedback := v1.Group("/feedback")
	{
		feedback.POST("/query", feedbackController.QueryFeedback)
	}

	// Offering routes (the scraper-facing ingest surface)
	offerings := v1.Group("/offerings")
	{
		offerings.POST("", offeringController.CreateOffering)
		offerings.GET("", offeringController.ListOfferings)
	}

	// Operational routes
	admin := v1.Group("/admin")
	{
		admin.POST("/recompute", adminController.Recompute)
	}

	v1.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.APIResponse{
			Data:      gin.H{"status": "ok"},
			Timestamp: time.Now(),
		})
	})
}
