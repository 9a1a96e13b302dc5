package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"lendinghub/internal/microservices/http-api/models"
	"lendinghub/internal/microservices/http-api/repository"
	"lendinghub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

// statusFor maps the service error taxonomy onto HTTP statuses
func statusFor(err error) int {
	var dup *repository.DuplicateError
	switch {
	case errors.As(err, &dup):
		return http.StatusConflict
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrStockNotHoldable),
		errors.Is(err, service.ErrStockNotLendable),
		errors.Is(err, service.ErrStockNotReservable),
		errors.Is(err, service.ErrAlreadyHasStock),
		errors.Is(err, service.ErrNotRenewable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

// notificationFailure returns the error text of a post-commit notification failure.
// The caller still reports success for the committed part.
func notificationFailure(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

// caller returns the authenticated user id and role set by middleware.AuthMiddleware
func caller(c *gin.Context) (string, string, bool) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return "", "", false
	}
	return userID.(string), c.GetString("role"), true
}

// canAccess lets librarians see everything and members only their own records
func canAccess(c *gin.Context, ownerID string) bool {
	userID, role, ok := caller(c)
	if !ok {
		return false
	}
	if role != models.RoleLibrarian && userID != ownerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your record"})
		return false
	}
	return true
}
