package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/courselens/backend/internal/app/models/dto"
	"github.com/courselens/backend/internal/pkg/apperrors"
)

// HandleAPIError maps service errors to API responses in one place so
// controllers stay free of status-code logic.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrOfferingNotFound):
		c.JSON(404, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Offering not found"),
		})
		return
	case errors.Is(err, apperrors.ErrProfessorNotFound):
		c.JSON(404, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Professor not found"),
		})
		return
	case errors.Is(err, apperrors.ErrResourceNotFound):
		c.JSON(404, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Resource not found"),
		})
		return
	case errors.Is(err, apperrors.ErrValidationFailed):
		c.JSON(400, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed"),
		})
		return
	case errors.Is(err, apperrors.ErrBadRequest):
		c.JSON(400, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Bad request"),
		})
		return
	case errors.Is(err, apperrors.ErrOfferingAlreadyExists):
		c.JSON(409, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, "Offering already exists for this course, term and URL"),
		})
		return
	case errors.Is(err, apperrors.ErrResourceAlreadyExists), errors.Is(err, apperrors.ErrConflict):
		c.JSON(409, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, "Resource already exists"),
		})
		return
	case errors.Is(err, apperrors.ErrStorageUnavailable):
		// A failed bulk lookup aborts the whole batch. The envelope is
		// distinguishable from empty results and marked retryable.
		c.JSON(503, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeDatabaseError, "Storage unavailable").WithRetryable(),
		})
		return
	default:
		c.JSON(500, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error"),
		})
		return
	}
}
