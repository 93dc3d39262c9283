package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cliqueup/cliqueup/internal/app/models/dto"
	"github.com/cliqueup/cliqueup/internal/pkg/apperrors"
	"github.com/cliqueup/cliqueup/internal/pkg/geocoding"
)

// HandleAPIError maps service errors to HTTP responses. Controllers call
// this instead of translating errors themselves.
func HandleAPIError(c *gin.Context, err error) {
	var geocodeErr *geocoding.Error
	if errors.As(err, &geocodeErr) {
		c.JSON(http.StatusBadGateway, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeGeocodeFailed, "Address could not be resolved").
				WithDetails(geocodeErr.Error()),
		})
		return
	}

	switch {
	case errors.Is(err, apperrors.ErrEventNotFound),
		errors.Is(err, apperrors.ErrResourceNotFound):
		c.JSON(http.StatusNotFound, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Resource not found"),
		})
	case errors.Is(err, apperrors.ErrValidationFailed),
		errors.Is(err, apperrors.ErrBadRequest):
		c.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error()),
		})
	case errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, apperrors.ErrResourceAlreadyExists):
		c.JSON(http.StatusConflict, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeConflict, err.Error()),
		})
	case errors.Is(err, apperrors.ErrNotImplemented):
		c.JSON(http.StatusNotImplemented, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeNotImplemented, "Operation not implemented"),
		})
	default:
		c.JSON(http.StatusInternalServerError, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error"),
		})
	}
}
