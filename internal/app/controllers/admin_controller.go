package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/courselens/backend/internal/app/models/dto"
	"github.com/courselens/backend/internal/app/services"
	"github.com/courselens/backend/internal/middleware"
)

// AdminController handles operational endpoints
type AdminController struct {
	recomputeService services.RecomputeService
}

// NewAdminController creates a new AdminController
func NewAdminController(recomputeService services.RecomputeService) *AdminController {
	return &AdminController{
		recomputeService: recomputeService,
	}
}

// Recompute rebuilds every cached aggregate
// @Summary Rebuild cached aggregates
// @Description Runs the wholesale aggregate recompute job. Failing steps are skipped and reported; a partial run still refreshes the other aggregates.
// @Tags admin
// @Accept json
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.RecomputeResponse} "All steps completed"
// @Success 207 {object} dto.APIResponse{data=dto.RecomputeResponse} "Some steps failed"
// @Failure 500 {object} dto.ErrorResponse "Recompute could not start"
// @Router /admin/recompute [post]
func (c *AdminController) Recompute(ctx *gin.Context) {
	result, err := c.recomputeService.Recompute(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	status := http.StatusOK
	if result.Partial {
		status = http.StatusMultiStatus
	}

	ctx.JSON(status, dto.APIResponse{
		Data:      result,
		Timestamp: time.Now(),
	})
}
