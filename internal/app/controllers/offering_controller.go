package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/courselens/backend/internal/app/models"
	"github.com/courselens/backend/internal/app/models/dto"
	"github.com/courselens/backend/internal/app/services"
	"github.com/courselens/backend/internal/middleware"
	"github.com/courselens/backend/internal/pkg/helpers"
)

// OfferingController handles the scraper-facing offering endpoints
type OfferingController struct {
	offeringService services.OfferingService
}

// NewOfferingController creates a new OfferingController
func NewOfferingController(offeringService services.OfferingService) *OfferingController {
	return &OfferingController{
		offeringService: offeringService,
	}
}

// CreateOffering ingests one scraped offering
// @Summary Ingest a scraped offering
// @Description Stores one survey page worth of per-offering data together with its instructor links in a single transaction. Aggregates stay empty until the next recompute run.
// @Tags offerings
// @Accept json
// @Produce json
// @Param request body dto.CreateOfferingRequest true "Offering data"
// @Success 201 {object} dto.APIResponse{data=models.Offering} "Offering stored"
// @Failure 400 {object} dto.ErrorResponse "Invalid offering data"
// @Failure 409 {object} dto.ErrorResponse "Offering already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /offerings [post]
func (c *OfferingController) CreateOffering(ctx *gin.Context) {
	var req dto.CreateOfferingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid offering data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	offering, err := c.offeringService.CreateOffering(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      offering,
		Timestamp: time.Now(),
	})
}

// ListOfferings lists the offerings stored under one course key
// @Summary List offerings for a course
// @Description Retrieves one page of the offerings stored under a (dept, number) listing.
// @Tags offerings
// @Accept json
// @Produce json
// @Param dept query string true "Department code" example(CMSC)
// @Param number query int true "Course number" example(14100)
// @Param page query int false "1-based page number"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PagedResponse} "Offerings retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /offerings [get]
func (c *OfferingController) ListOfferings(ctx *gin.Context) {
	dept := strings.TrimSpace(ctx.Query("dept"))
	numberStr := ctx.Query("number")
	number, err := strconv.Atoi(numberStr)
	if dept == "" || err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid course key")
		errorDetail = errorDetail.WithDetails("dept must be non-empty and number must be a valid integer")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)

	offerings, pagination, err := c.offeringService.ListOfferings(ctx,
		models.CourseKey{Dept: dept, Number: number}, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.PagedResponse{
			Items:      offerings,
			Pagination: pagination,
		},
		Timestamp: time.Now(),
	})
}
