package handler

import (
	"context"
	"net/http"
	"time"

	"lendinghub/internal/microservices/http-api/dto"
	"lendinghub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type ReservationHandler struct {
	svc service.ReservationService
}

func NewReservationHandler(svc service.ReservationService) *ReservationHandler {
	return &ReservationHandler{svc: svc}
}

func (h *ReservationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/stocks/:stock_id/reservations", h.Reserve)
	rg.GET("/reservations/:id", h.Get)
	rg.DELETE("/reservations/:id", h.Cancel)
}

// Reserve queues the caller for a lent or held copy
func (h *ReservationHandler) Reserve(c *gin.Context) {
	userID, _, ok := caller(c)
	if !ok {
		return
	}
	stockID, ok := paramID(c, "stock_id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	reservation, err := h.svc.Reserve(ctx, stockID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	order, err := h.svc.Order(ctx, reservation)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewReservationResponse(reservation, order))
}

// Get returns the reservation with its current place in the queue
func (h *ReservationHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	reservation, err := h.svc.Get(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !canAccess(c, reservation.UserID) {
		return
	}

	order, err := h.svc.Order(ctx, reservation)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewReservationResponse(reservation, order))
}

func (h *ReservationHandler) Cancel(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	reservation, err := h.svc.Get(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !canAccess(c, reservation.UserID) {
		return
	}

	if err := h.svc.Cancel(ctx, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
