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

type LendingHandler struct {
	svc service.LendingService
}

func NewLendingHandler(svc service.LendingService) *LendingHandler {
	return &LendingHandler{svc: svc}
}

func (h *LendingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/lendings/overdue", middleware.RequireLibrarian(), h.ListOverdue)
	rg.GET("/lendings/:id", h.Get)
	rg.POST("/lendings/:id/return", middleware.RequireLibrarian(), h.Return)
	rg.POST("/lendings/:id/renew", h.Renew)
}

func (h *LendingHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	lending, err := h.svc.Get(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !canAccess(c, lending.UserID) {
		return
	}
	c.JSON(http.StatusOK, dto.NewLendingResponse(lending))
}

// Return checks the copy back in. A notification failure for the cascaded holding is
// reported next to the successful return.
func (h *LendingHandler) Return(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	lending, err := h.svc.Get(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}

	next, err := h.svc.Return(ctx, lending)
	if err != nil && next == nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ReturnResponse{
		Returned:          lending.ID,
		NextHolding:       dto.NewHoldingResponse(next),
		NotificationError: notificationFailure(err),
	})
}

func (h *LendingHandler) Renew(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	lending, err := h.svc.Get(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !canAccess(c, lending.UserID) {
		return
	}

	renewing, err := h.svc.Renew(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.RenewingResponse{
		LendingID: renewing.LendingID,
		DueDate:   renewing.DueDate.Format("2006-01-02"),
	})
}

func (h *LendingHandler) ListOverdue(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	lendings, err := h.svc.ListOverdue(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]dto.LendingResponse, 0, len(lendings))
	for i := range lendings {
		items = append(items, dto.NewLendingResponse(&lendings[i]))
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
}
