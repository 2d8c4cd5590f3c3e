package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"a4-contact-backend/config"
	_ "a4-contact-backend/docs" // Important for Swagger
	v1 "a4-contact-backend/internal/delivery/http/v1"
	"a4-contact-backend/internal/usecase"
	"a4-contact-backend/pkg/email"
	"a4-contact-backend/pkg/logger"
	"a4-contact-backend/pkg/redis"
	"a4-contact-backend/pkg/security"
	"a4-contact-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

// @title           A4 Contact Backend API
// @version         1.0
// @description     Contact form submission and SMTP health service for the A4 Technologies website.
// @host            localhost:3001
// @BasePath        /
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	// 2. Setup Loggers
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	logger.Log.Info("Starting contact backend", "port", cfg.Port)

	environment := "development"
	if cfg.IsProduction() {
		environment = "production"
	}
	secLog := security.InitSecurityLogger("contact-backend", environment)
	defer func() { _ = secLog.Sync() }()

	// 3. Setup Redis (optional, rate limiting only)
	var redisClient *goredis.Client
	if cfg.UpstashRedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		redisClient, err = redis.New(ctx, redis.Config{URL: cfg.UpstashRedisURL, Password: cfg.UpstashRedisPassword})
		cancel()
		if err != nil {
			logger.Log.Warn("Redis unavailable - rate limiting will use in-memory fallback", "error", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
			logger.Log.Info("Redis connected")
		}
	}

	// 4. Setup Email Transport, shared by every request
	transport := email.NewSMTPTransport(email.SMTPConfig{
		Host:      cfg.SMTPHost,
		Port:      cfg.SMTPPort,
		Username:  cfg.SMTPUsername,
		Password:  cfg.SMTPPassword,
		FromEmail: cfg.SMTPFromEmail,
		Secure:    cfg.SMTPSecure,
		Timeout:   time.Duration(cfg.SMTPTimeoutSeconds) * time.Second,
	})
	if !transport.IsConfigured() {
		logger.Log.Warn("Email service not fully configured - contact form will be unavailable")
	}

	// 5. Setup UseCases
	contactUC := usecase.NewContactUsecase(transport, validation.New(), usecase.ContactOptions{
		BusinessAddress: cfg.ContactEmailTo,
		BusinessName:    cfg.BusinessName,
	})
	healthUC := usecase.NewHealthUsecase(transport, usecase.HealthOptions{
		BusinessAddress: cfg.ContactEmailTo,
		BusinessName:    cfg.BusinessName,
	})

	// Startup banner only verifies the connection; it sends nothing.
	ctx, cancel := context.WithTimeout(context.Background(), transport.Timeout())
	ready := healthUC.CheckConnection(ctx)
	cancel()
	logger.Log.Info("SMTP is ready", "ready", ready, "host", cfg.SMTPHost, "port", cfg.SMTPPort)

	// 6. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		ContactUC:      contactUC,
		HealthUC:       healthUC,
		Config:         cfg,
		Redis:          redisClient,
		SecurityLogger: secLog,
	})

	// 7. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("Listen failed", "error", err)
			os.Exit(1)
		}
	}()
	logger.Log.Info("Server listening", "addr", srv.Addr)

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	// In-flight submissions may still be talking to the relay.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), transport.Timeout())
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
