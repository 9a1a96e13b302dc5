package handler

import (
	"net/http"

	"lendinghub/internal/microservices/http-api/middleware"
	"lendinghub/internal/microservices/http-api/service"
	"lendinghub/internal/microservices/websocket"

	"github.com/gin-gonic/gin"
)

// Services are the dependencies of the HTTP API
type Services struct {
	Stocks        service.StockService
	Holds         service.HoldService
	Lendings      service.LendingService
	Reservations  service.ReservationService
	Notifications service.NotificationService
	// Feed serves /api/notifications/live when set
	Feed *websocket.Hub
}

// NewRouter mounts every handler under /api behind JWT authentication
func NewRouter(jwtSecret string, svc Services) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api", middleware.AuthMiddleware(jwtSecret))
	NewStockHandler(svc.Stocks, svc.Holds, svc.Lendings).RegisterRoutes(api)
	NewHoldingHandler(svc.Holds).RegisterRoutes(api)
	NewLendingHandler(svc.Lendings).RegisterRoutes(api)
	NewReservationHandler(svc.Reservations).RegisterRoutes(api)
	NewNotificationHandler(svc.Notifications).RegisterRoutes(api)
	if svc.Feed != nil {
		api.GET("/notifications/live", websocket.WSHandler(svc.Feed))
	}
	return r
}
