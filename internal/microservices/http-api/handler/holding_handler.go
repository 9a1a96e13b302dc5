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

type HoldingHandler struct {
	svc service.HoldService
}

func NewHoldingHandler(svc service.HoldService) *HoldingHandler {
	return &HoldingHandler{svc: svc}
}

func (h *HoldingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/holdings/:id", h.Get)
	rg.POST("/holdings/:id/fulfill", middleware.RequireLibrarian(), h.Fulfill)
	rg.DELETE("/holdings/:id", middleware.RequireLibrarian(), h.Cancel)
}

func (h *HoldingHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	holding, err := h.svc.Get(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !canAccess(c, holding.UserID) {
		return
	}
	c.JSON(http.StatusOK, dto.NewHoldingResponse(holding))
}

// Fulfill lends the held copy to the holder when they pick it up
func (h *HoldingHandler) Fulfill(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	holding, err := h.svc.Get(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}

	lending, err := h.svc.Fulfill(ctx, holding)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewLendingResponse(lending))
}

// Cancel drops the holding; the copy moves on to the next reservation if there is one
func (h *HoldingHandler) Cancel(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	holding, err := h.svc.Get(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}

	next, err := h.svc.Cancel(ctx, holding)
	if err != nil && next == nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CancelHoldingResponse{
		Cancelled:         holding.ID,
		NextHolding:       dto.NewHoldingResponse(next),
		NotificationError: notificationFailure(err),
	})
}
