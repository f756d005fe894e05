package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/pos_core/internal/dto"
	"github.com/SscSPs/pos_core/internal/middleware"
	"github.com/gin-gonic/gin"
)

// currentUser returns the authenticated cashier, writing a 401 when absent.
func currentUser(c *gin.Context, logger *slog.Logger) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "Unauthorized"})
		return "", false
	}
	return userID, true
}
