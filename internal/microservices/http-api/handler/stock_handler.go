package handler

import (
	"context"
	"net/http"
	"time"

	"lendinghub/internal/microservices/http-api/dto"
	"lendinghub/internal/microservices/http-api/middleware"
	"lendinghub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type StockHandler struct {
	stocks   service.StockService
	holds    service.HoldService
	lendings service.LendingService
}

func NewStockHandler(stocks service.StockService, holds service.HoldService, lendings service.LendingService) *StockHandler {
	return &StockHandler{stocks: stocks, holds: holds, lendings: lendings}
}

func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/books/:book_id/stocks", h.ListByBook)
	rg.GET("/stocks/:stock_id", h.Get)
	rg.POST("/stocks/:stock_id/holdings", middleware.RequireLibrarian(), h.PlaceHolding)
	rg.POST("/stocks/:stock_id/lendings", middleware.RequireLibrarian(), h.Lend)
}

// ListByBook returns every copy of a book with its state
func (h *StockHandler) ListByBook(c *gin.Context) {
	bookID, ok := paramID(c, "book_id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	stocks, err := h.stocks.ListByBook(ctx, bookID)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]dto.StockResponse, 0, len(stocks))
	for i := range stocks {
		items = append(items, dto.NewStockResponse(&stocks[i]))
	}
	c.JSON(http.StatusOK, dto.StockListResponse{Items: items, Total: len(items)})
}

func (h *StockHandler) Get(c *gin.Context) {
	stockID, ok := paramID(c, "stock_id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	stock, err := h.stocks.Get(ctx, stockID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewStockResponse(stock))
}

// PlaceHolding holds an available copy for a user at the desk
func (h *StockHandler) PlaceHolding(c *gin.Context) {
	stockID, ok := paramID(c, "stock_id")
	if !ok {
		return
	}

	var req dto.UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	holding, err := h.holds.Place(ctx, stockID, req.UserID)
	if holding == nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.HoldingCreatedResponse{
		Holding:           dto.NewHoldingResponse(holding),
		NotificationError: notificationFailure(err),
	})
}

// Lend checks out an available copy without a prior holding
func (h *StockHandler) Lend(c *gin.Context) {
	stockID, ok := paramID(c, "stock_id")
	if !ok {
		return
	}

	var req dto.UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	lending, err := h.lendings.Lend(ctx, stockID, req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewLendingResponse(lending))
}
