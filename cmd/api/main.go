package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/weblease/weblease-backend/internal/config"
	"github.com/weblease/weblease-backend/internal/handler"
	"github.com/weblease/weblease-backend/internal/middleware"
	"github.com/weblease/weblease-backend/internal/repository/postgres"
	"github.com/weblease/weblease-backend/internal/scheduler"
	"github.com/weblease/weblease-backend/internal/service"
	"github.com/weblease/weblease-backend/internal/util"
	"github.com/weblease/weblease-backend/internal/websocket"
)

func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Connect to database
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	// Verify database connection
	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Connected to database")

	// Initialize repositories
	rentalRepo := postgres.NewRentalRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)
	siteRepo := postgres.NewSiteRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)

	// WebSocket hub for admin and client event streams
	hub := websocket.NewHub()

	// Initialize services
	rentalService := service.NewRentalService(rentalRepo, siteRepo, clientRepo)
	rentalService.SetEventPublisher(hub)
	paymentService := service.NewPaymentService(rentalRepo, paymentRepo)
	paymentService.SetEventPublisher(hub)
	siteService := service.NewSiteService(siteRepo)
	clientService := service.NewClientService(clientRepo)
	statsService := service.NewStatsService(rentalRepo)
	sweepService := service.NewSweepService(rentalRepo)
	sweepService.SetEventPublisher(hub)

	// Expiry reminders run only when SMTP is configured
	var reminderService *service.ReminderService
	if cfg.SMTP.Host != "" && cfg.ReminderDays > 0 {
		mailer := service.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
		formatter := util.NewCurrencyFormatter(cfg.CurrencyCode, cfg.CurrencyLocale)
		reminderService = service.NewReminderService(rentalRepo, mailer, formatter, cfg.ReminderDays)
	} else {
		log.Info().Msg("SMTP not configured, expiry reminders disabled")
	}

	// Initialize middleware
	adminAuth := middleware.NewAdminAuthMiddleware(cfg.AdminTokens)
	rateLimiter := middleware.NewRateLimiter()
	defer rateLimiter.Stop()

	// Initialize handlers
	rentalHandler := handler.NewRentalHandler(rentalService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	siteHandler := handler.NewSiteHandler(siteService)
	clientHandler := handler.NewClientHandler(clientService)
	statsHandler := handler.NewStatsHandler(statsService)
	sweepHandler := handler.NewSweepHandler(sweepService)
	wsHandler := handler.NewWebSocketHandler(hub, adminAuth, cfg.CORSOrigins)

	// Scheduled sweep and reminders
	sched, err := scheduler.NewScheduler(sweepService, reminderService, cfg.SweepCron, cfg.ReminderCron)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create scheduler")
	}
	sched.Start()
	defer sched.Stop()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Register API routes
	handler.RegisterRoutes(e, adminAuth, rateLimiter, rentalHandler, paymentHandler, siteHandler, clientHandler, statsHandler, sweepHandler, wsHandler)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
