package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/SscSPs/pos_core/internal/core/domain"
	portssvc "github.com/SscSPs/pos_core/internal/core/ports/services"
	"github.com/SscSPs/pos_core/internal/dto"
	"github.com/SscSPs/pos_core/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// cashDrawerHandler handles HTTP requests related to the cash drawer.
type cashDrawerHandler struct {
	drawerService portssvc.CashDrawerSvcFacade
}

// RegisterCashDrawerRoutes registers routes related to cash drawers.
func RegisterCashDrawerRoutes(rg *gin.RouterGroup, drawerService portssvc.CashDrawerSvcFacade) {
	h := &cashDrawerHandler{drawerService: drawerService}

	drawers := rg.Group("/drawers")
	{
		drawers.POST("/open", h.openDrawer)
		drawers.POST("/close", h.closeDrawer)
		drawers.POST("/withdrawals", h.withdrawCash)
		drawers.POST("/deposits", h.depositCash)
		drawers.GET("/current", h.getOpenDrawer)
		drawers.GET("/:id/movements", h.listMovements)
	}
}

func (h *cashDrawerHandler) openDrawer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := currentUser(c, logger)
	if !ok {
		return
	}
	var req dto.OpenDrawerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err)
		return
	}

	drawer, err := h.drawerService.OpenDrawer(c.Request.Context(), req.Number, req.OpeningFloat, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to open cash drawer")
		return
	}
	logger.Info("Cash drawer opened", slog.Int("number", drawer.Number), slog.String("session_id", drawer.SessionID()))
	c.JSON(http.StatusCreated, dto.ToCashDrawerResponse(drawer))
}

func (h *cashDrawerHandler) closeDrawer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := currentUser(c, logger)
	if !ok {
		return
	}
	var req dto.CloseDrawerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err)
		return
	}

	drawer, err := h.drawerService.CloseDrawer(c.Request.Context(), req.DeclaredBalance, userID, req.Notes)
	if err != nil {
		respondError(c, logger, err, "Failed to close cash drawer")
		return
	}
	c.JSON(http.StatusOK, dto.ToCashDrawerResponse(drawer))
}

func (h *cashDrawerHandler) withdrawCash(c *gin.Context) {
	h.moveCash(c, h.drawerService.WithdrawCash, "Failed to withdraw cash")
}

func (h *cashDrawerHandler) depositCash(c *gin.Context) {
	h.moveCash(c, h.drawerService.DepositCash, "Failed to deposit cash")
}

// moveCash binds a manual movement and applies it with op.
func (h *cashDrawerHandler) moveCash(c *gin.Context, op func(ctx context.Context, amount decimal.Decimal, reason, userID string) (*domain.CashDrawer, error), failure string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := currentUser(c, logger)
	if !ok {
		return
	}
	var req dto.CashMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err)
		return
	}

	drawer, err := op(c.Request.Context(), req.Amount, req.Reason, userID)
	if err != nil {
		respondError(c, logger, err, failure)
		return
	}
	c.JSON(http.StatusOK, dto.ToCashDrawerResponse(drawer))
}

func (h *cashDrawerHandler) getOpenDrawer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	drawer, err := h.drawerService.GetOpenDrawer(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve open cash drawer")
		return
	}
	c.JSON(http.StatusOK, dto.ToCashDrawerResponse(drawer))
}

func (h *cashDrawerHandler) listMovements(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, logger, err)
		return
	}

	page, err := h.drawerService.ListMovements(c.Request.Context(), c.Param("id"), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list cash movements")
		return
	}
	c.JSON(http.StatusOK, page)
}
