package handlers

import (
	"net/http"
	"strconv"

	portssvc "github.com/SscSPs/pos_core/internal/core/ports/services"
	"github.com/SscSPs/pos_core/internal/dto"
	"github.com/SscSPs/pos_core/internal/middleware"
	"github.com/gin-gonic/gin"
)

// inventoryHandler handles HTTP requests related to stock.
type inventoryHandler struct {
	inventoryService portssvc.InventorySvcFacade
}

// RegisterInventoryRoutes registers routes related to stock.
func RegisterInventoryRoutes(rg *gin.RouterGroup, inventoryService portssvc.InventorySvcFacade) {
	h := &inventoryHandler{inventoryService: inventoryService}

	inventory := rg.Group("/inventory")
	{
		inventory.GET("/low-stock", h.listLowStock)
		inventory.GET("/:productID", h.getStock)
		inventory.GET("/:productID/movements", h.listMovements)
		inventory.POST("/:productID/receive", h.receiveStock)
		inventory.POST("/:productID/adjust", h.adjustStock)
		inventory.POST("/:productID/shrinkage", h.registerShrinkage)
		inventory.PUT("/:productID/limits", h.updateLimits)
	}
}

func (h *inventoryHandler) getStock(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	inv, err := h.inventoryService.GetStock(c.Request.Context(), c.Param("productID"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve stock")
		return
	}
	c.JSON(http.StatusOK, dto.ToInventoryResponse(inv))
}

func (h *inventoryHandler) listLowStock(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	limit := dto.DefaultPageSize
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > dto.MaxPageSize {
			badRequest(c, logger, strconv.ErrRange)
			return
		}
		limit = n
	}

	inventories, err := h.inventoryService.ListLowStock(c.Request.Context(), limit)
	if err != nil {
		respondError(c, logger, err, "Failed to list low stock")
		return
	}
	c.JSON(http.StatusOK, dto.ToInventoryResponses(inventories))
}

func (h *inventoryHandler) listMovements(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, logger, err)
		return
	}

	page, err := h.inventoryService.ListMovements(c.Request.Context(), c.Param("productID"), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list stock movements")
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *inventoryHandler) receiveStock(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := currentUser(c, logger)
	if !ok {
		return
	}
	var req dto.ReceiveStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err)
		return
	}

	inv, err := h.inventoryService.ReceiveStock(c.Request.Context(), c.Param("productID"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to receive stock")
		return
	}
	c.JSON(http.StatusOK, dto.ToInventoryResponse(inv))
}

func (h *inventoryHandler) adjustStock(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := currentUser(c, logger)
	if !ok {
		return
	}
	var req dto.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err)
		return
	}

	inv, err := h.inventoryService.AdjustStock(c.Request.Context(), c.Param("productID"), *req.NewValue, req.Reason, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to adjust stock")
		return
	}
	c.JSON(http.StatusOK, dto.ToInventoryResponse(inv))
}

func (h *inventoryHandler) registerShrinkage(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := currentUser(c, logger)
	if !ok {
		return
	}
	var req dto.ShrinkageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err)
		return
	}

	inv, err := h.inventoryService.RegisterShrinkage(c.Request.Context(), c.Param("productID"), req.Quantity, req.Reason, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to register shrinkage")
		return
	}
	c.JSON(http.StatusOK, dto.ToInventoryResponse(inv))
}

func (h *inventoryHandler) updateLimits(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateLimitsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err)
		return
	}

	inv, err := h.inventoryService.UpdateLimits(c.Request.Context(), c.Param("productID"), req.Minimum, req.Maximum)
	if err != nil {
		respondError(c, logger, err, "Failed to update stock limits")
		return
	}
	c.JSON(http.StatusOK, dto.ToInventoryResponse(inv))
}
