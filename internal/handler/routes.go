package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/weblease/weblease-backend/internal/middleware"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, adminAuth *middleware.AdminAuthMiddleware, rateLimiter *middleware.RateLimiter, rentalHandler *RentalHandler, paymentHandler *PaymentHandler, siteHandler *SiteHandler, clientHandler *ClientHandler, statsHandler *StatsHandler, sweepHandler *SweepHandler, wsHandler *WebSocketHandler) {
	// API version 1
	api := e.Group("/api/v1")
	api.Use(rateLimiter.Middleware())

	// Rental routes (admin)
	rentals := api.Group("/rentals")
	rentals.Use(adminAuth.Authenticate())
	rentals.POST("", rentalHandler.CreateRental)
	rentals.GET("", rentalHandler.GetRentals)
	rentals.GET("/:id", rentalHandler.GetRental)
	rentals.PATCH("/:id/status", rentalHandler.UpdateStatus)
	rentals.PATCH("/:id/dates", rentalHandler.UpdateDates)
	rentals.PATCH("/:id/notes", rentalHandler.UpdateNotes)
	rentals.DELETE("/:id", rentalHandler.DeleteRental)

	// Payment routes (admin, ledger writes nested under the rental)
	rentals.POST("/:id/payments", paymentHandler.RecordPayment)
	rentals.POST("/:id/payments/preview", paymentHandler.PreviewPayment)
	rentals.GET("/:id/payments", paymentHandler.GetPayments)

	// Site catalog routes (admin)
	sites := api.Group("/sites")
	sites.Use(adminAuth.Authenticate())
	sites.POST("", siteHandler.CreateSite)
	sites.GET("", siteHandler.GetSites)
	sites.GET("/:id", siteHandler.GetSite)
	sites.PUT("/:id", siteHandler.UpdateSite)
	sites.DELETE("/:id", siteHandler.DeleteSite)

	// Aggregates and maintenance (admin)
	stats := api.Group("/stats")
	stats.Use(adminAuth.Authenticate())
	stats.GET("", statsHandler.GetStats)

	sweep := api.Group("/sweep")
	sweep.Use(adminAuth.Authenticate())
	sweep.POST("", sweepHandler.Sweep)

	// Client account and dashboard routes
	clients := api.Group("/clients")
	clients.Use(adminAuth.Authenticate())
	clients.POST("", clientHandler.CreateClient)
	clients.GET("", clientHandler.GetClients)
	clients.GET("/:id", clientHandler.GetClient)
	clients.GET("/:id/rentals", rentalHandler.GetClientRentals)

	// WebSocket event stream (token authenticated in the handler)
	e.GET("/ws", wsHandler.HandleWS)
}
