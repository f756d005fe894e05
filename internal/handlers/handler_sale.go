package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/pos_core/internal/core/ports/services"
	"github.com/SscSPs/pos_core/internal/dto"
	"github.com/SscSPs/pos_core/internal/middleware"
	"github.com/gin-gonic/gin"
)

// saleHandler handles HTTP requests of the checkout flow.
type saleHandler struct {
	saleService portssvc.SaleSvcFacade
}

// RegisterSaleRoutes registers routes related to sales.
func RegisterSaleRoutes(rg *gin.RouterGroup, saleService portssvc.SaleSvcFacade) {
	h := &saleHandler{saleService: saleService}

	sales := rg.Group("/sales")
	{
		sales.POST("", h.createSale)
		sales.GET("", h.listSales)
		sales.GET("/:id", h.getSale)
		sales.GET("/folio/:folio", h.getSaleByFolio)
		sales.POST("/:id/items", h.scanProduct)
		sales.PUT("/:id/items/:productID", h.setItemQuantity)
		sales.DELETE("/:id/items/:productID", h.removeItem)
		sales.POST("/:id/payments", h.registerPayment)
		sales.POST("/:id/finalize", h.finalizeSale)
		sales.POST("/:id/cancel", h.cancelSale)
		sales.POST("/:id/reverse", h.reverseSale)
	}
}

func (h *saleHandler) createSale(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := currentUser(c, logger)
	if !ok {
		return
	}

	sale, err := h.saleService.CreateSale(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create sale")
		return
	}
	logger.Info("Sale created", slog.String("sale_id", sale.SaleID), slog.String("folio", sale.Folio.String()))
	c.JSON(http.StatusCreated, dto.ToSaleResponse(sale))
}

func (h *saleHandler) getSale(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sale, err := h.saleService.GetSale(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve sale")
		return
	}
	c.JSON(http.StatusOK, dto.ToSaleResponse(sale))
}

func (h *saleHandler) getSaleByFolio(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sale, err := h.saleService.GetSaleByFolio(c.Request.Context(), c.Param("folio"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve sale")
		return
	}
	c.JSON(http.StatusOK, dto.ToSaleResponse(sale))
}

// listSales handles GET /sales?date=YYYY-MM-DD&limit=&nextToken=
func (h *saleHandler) listSales(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListSalesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, logger, err)
		return
	}

	page, err := h.saleService.ListSalesByDate(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list sales")
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *saleHandler) scanProduct(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := currentUser(c, logger)
	if !ok {
		return
	}
	var req dto.ScanProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	saleID := c.Param("id")
	sale, err := h.saleService.ScanProduct(c.Request.Context(), saleID, req.Barcode, req.Quantity, userID)
	if err != nil {
		respondError(c, logger.With(slog.String("sale_id", saleID), slog.String("barcode", req.Barcode)), err, "Failed to scan product")
		return
	}
	c.JSON(http.StatusOK, dto.ToSaleResponse(sale))
}

func (h *saleHandler) setItemQuantity(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := currentUser(c, logger)
	if !ok {
		return
	}
	var req dto.SetItemQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err)
		return
	}

	sale, err := h.saleService.SetItemQuantity(c.Request.Context(), c.Param("id"), c.Param("productID"), req.Quantity, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to change item quantity")
		return
	}
	c.JSON(http.StatusOK, dto.ToSaleResponse(sale))
}

func (h *saleHandler) removeItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := currentUser(c, logger)
	if !ok {
		return
	}

	sale, err := h.saleService.RemoveItem(c.Request.Context(), c.Param("id"), c.Param("productID"), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to remove item")
		return
	}
	c.JSON(http.StatusOK, dto.ToSaleResponse(sale))
}

func (h *saleHandler) registerPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RegisterPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err)
		return
	}

	sale, err := h.saleService.RegisterPayment(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, logger, err, "Failed to register payment")
		return
	}
	c.JSON(http.StatusOK, dto.ToSaleResponse(sale))
}

func (h *saleHandler) finalizeSale(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := currentUser(c, logger)
	if !ok {
		return
	}

	sale, err := h.saleService.FinalizeSale(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to finalize sale")
		return
	}
	logger.Info("Sale finalized", slog.String("sale_id", sale.SaleID), slog.String("total", sale.Total().StringFixed(2)))
	c.JSON(http.StatusOK, dto.ToSaleResponse(sale))
}

func (h *saleHandler) cancelSale(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := currentUser(c, logger)
	if !ok {
		return
	}
	var req dto.ReasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err)
		return
	}

	sale, err := h.saleService.CancelSale(c.Request.Context(), c.Param("id"), req.Reason, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to cancel sale")
		return
	}
	c.JSON(http.StatusOK, dto.ToSaleResponse(sale))
}

func (h *saleHandler) reverseSale(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := currentUser(c, logger)
	if !ok {
		return
	}
	var req dto.ReasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err)
		return
	}

	sale, err := h.saleService.ReverseSale(c.Request.Context(), c.Param("id"), req.Reason, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to reverse sale")
		return
	}
	logger.Info("Sale reversed", slog.String("sale_id", sale.SaleID))
	c.JSON(http.StatusOK, dto.ToSaleResponse(sale))
}
