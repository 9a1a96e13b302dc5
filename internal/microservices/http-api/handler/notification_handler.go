package handler

import (
	"context"
	"net/http"
	"time"

	"lendinghub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	svc service.NotificationService
}

func NewNotificationHandler(svc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

func (h *NotificationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/notifications/unread", h.GetUnread)
	rg.PUT("/notifications/:id/read", h.MarkAsRead)
	rg.PUT("/notifications/read-all", h.MarkAllAsRead)
}

// GetUnread returns all unread notifications for the authenticated user
func (h *NotificationHandler) GetUnread(c *gin.Context) {
	userID, _, ok := caller(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	notifications, err := h.svc.GetUnread(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// MarkAsRead marks a specific notification as read
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	userID, _, ok := caller(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.MarkAsRead(ctx, userID, id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// MarkAllAsRead marks all notifications as read for the user
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	userID, _, ok := caller(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.MarkAllAsRead(ctx, userID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
