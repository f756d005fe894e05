package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/pos_core/internal/apperrors"
	"github.com/SscSPs/pos_core/internal/dto"
	"github.com/gin-gonic/gin"
)

// statusFor maps an application error onto an HTTP status.
func statusFor(err error) int {
	switch apperrors.CodeOf(err) {
	case apperrors.CodeProductNotFound, apperrors.CodeInventoryNotFound, apperrors.CodeSaleNotFound,
		apperrors.CodeDrawerNotFound, apperrors.CodeReservationNotFound:
		return http.StatusNotFound
	case apperrors.CodeDrawerAlreadyOpen, apperrors.CodeSaleAlreadyPaid, apperrors.CodeSaleAlreadyCancelled,
		apperrors.CodeInvalidSaleState, apperrors.CodeInvalidReservationState, apperrors.CodeReservationExpired,
		apperrors.CodeConcurrency:
		return http.StatusConflict
	case apperrors.CodeInsufficientStock, apperrors.CodeProductInactive, apperrors.CodeSaleNotPaid,
		apperrors.CodeSaleWithoutItems, apperrors.CodeDrawerNotOpen, apperrors.CodeReasonRequired:
		return http.StatusUnprocessableEntity
	case apperrors.CodeInvalidAmount, apperrors.CodeInvalidQuantity, apperrors.CodeInvalidArgument:
		return http.StatusBadRequest
	}
	switch {
	case errors.Is(err, apperrors.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case apperrors.IsRetryable(err):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// respondError writes err as a dto.ErrorResponse. Server faults are logged
// and their details hidden from the client.
func respondError(c *gin.Context, logger *slog.Logger, err error, failure string) {
	status := statusFor(err)
	code := string(apperrors.CodeOf(err))
	if errors.Is(err, apperrors.ErrDuplicate) {
		code = "DUPLICATE"
	}

	if status >= http.StatusInternalServerError {
		logger.Error(failure, slog.String("error", err.Error()))
		c.JSON(status, dto.ErrorResponse{Code: code, Message: failure})
		return
	}
	logger.Warn(failure, slog.String("code", code), slog.String("error", err.Error()))
	c.JSON(status, dto.ErrorResponse{Code: code, Message: err.Error()})
}

// badRequest reports a request that failed binding or validation.
func badRequest(c *gin.Context, logger *slog.Logger, err error) {
	logger.Warn("Failed to bind request", slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Code:    string(apperrors.CodeInvalidArgument),
		Message: "Invalid request format: " + err.Error(),
	})
}
