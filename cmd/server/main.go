package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/locamarrakech/booking-backend/internal/config"
	"github.com/locamarrakech/booking-backend/internal/handlers"
	"github.com/locamarrakech/booking-backend/internal/services"
	"github.com/locamarrakech/booking-backend/internal/utils"
	"github.com/locamarrakech/booking-backend/pkg/mailer"
	"github.com/locamarrakech/booking-backend/pkg/validator"
	"github.com/locamarrakech/booking-backend/pkg/whatsapp"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting LocaMarrakech Booking Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize the transactional email channel
	logger.Info("Initializing services...")
	mail := mailer.New(mailer.Config{
		Host:              cfg.Email.SMTPHost,
		Port:              cfg.Email.SMTPPort,
		User:              cfg.Email.User,
		Password:          cfg.Email.Password,
		Recipient:         cfg.Email.Recipient,
		FallbackRecipient: cfg.Email.FallbackRecipient,
	}, logger)
	if cfg.Email.User == "" || cfg.Email.Password == "" {
		logger.Warn("EMAIL_USER/EMAIL_PASS not set - booking emails will fail until configured")
	}

	// Initialize the operator alert channel. It is strictly best-effort:
	// any failure here degrades to email-only operation.
	var (
		tracker  *whatsapp.Tracker
		operator services.Channel
	)
	if cfg.WhatsApp.Number == "" {
		logger.Info("WHATSAPP_NUMBER not set - operator alerts disabled")
	} else {
		waClient, err := whatsapp.NewClient(cfg.WhatsApp.StoreDriver, cfg.WhatsApp.StoreDSN, logger)
		if err != nil {
			logger.WithError(err).Warn("Failed to initialize WhatsApp session store - operator alerts disabled")
		} else {
			logger.Infof("WhatsApp session store: %s", cfg.WhatsApp.StoreDriver)
			tracker = whatsapp.NewTracker(waClient, whatsapp.TerminalQR, logger)
			operator = whatsapp.NewNotifier(tracker, waClient, whatsapp.NotifierConfig{
				Number:       cfg.WhatsApp.Number,
				CountryCode:  cfg.WhatsApp.CountryCode,
				ReadyTimeout: cfg.WhatsApp.ReadyTimeout,
			}, logger)
			if cfg.WhatsApp.Prewarm {
				logger.Info("Pre-warming WhatsApp session...")
				tracker.Start()
			}
		}
	}

	dispatcher := services.NewDispatchService(
		services.ChannelFunc(mail.SendBooking),
		operator,
		logger,
	)

	logger.Info("Services initialized")

	// Initialize handlers
	bookingHandler := handlers.NewBookingHandler(validator.NewBookingValidator(), dispatcher, cfg.IsDevelopment())
	contactHandler := handlers.NewContactHandler(validator.NewContactValidator(), mail, cfg.IsDevelopment())

	// Initialize Gin router
	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	// Wrong-method requests get a JSON 405 instead of gin's default 404
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, handlers.APIResponse{
			Success: false,
			Message: "Method not allowed",
		})
	})
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, handlers.APIResponse{
			Success: false,
			Message: "Not found",
		})
	})

	// Health check endpoint
	router.GET("/health", healthCheckHandler(tracker))

	// API routes (paths match the ones the website frontend calls)
	api := router.Group("/api")
	{
		api.POST("/send-email", bookingHandler.SendBooking)
		api.POST("/contact", contactHandler.SendContact)
	}

	// HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	if tracker != nil {
		tracker.Close()
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		device := utils.ParseUserAgent(utils.GetUserAgent(c))

		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"ip":         utils.GetRealIP(c),
			"latency_ms": latency.Milliseconds(),
			"device":     device.DeviceType,
			"os":         device.OS,
			"browser":    device.Browser,
		}
		if device.IsBot {
			fields["bot"] = true
		}

		entry := logger.WithFields(fields)

		status := c.Writer.Status()
		switch {
		case status >= 500:
			entry.Error("Request completed with server error")
		case status >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed successfully")
		}
	}
}

// healthCheckHandler returns a health check endpoint. The WhatsApp state is
// reported for operators; the service is healthy regardless.
func healthCheckHandler(tracker *whatsapp.Tracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		whatsappState := "disabled"
		if tracker != nil {
			whatsappState = string(tracker.CurrentState())
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"whatsapp":  whatsappState,
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
