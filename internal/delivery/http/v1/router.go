package v1

import (
	"time"

	"a4-contact-backend/config"
	"a4-contact-backend/internal/delivery/http/middleware"
	"a4-contact-backend/internal/domain"
	"a4-contact-backend/pkg/logger"
	"a4-contact-backend/pkg/security"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	ContactUC      domain.ContactUsecase
	HealthUC       domain.HealthUsecase
	Config         *config.Config
	Redis          *goredis.Client          // optional; rate limiting falls back to memory
	SecurityLogger *security.SecurityLogger // optional; defaults to security.DefaultLogger()
}

func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config

	r := gin.New()

	// Client IPs key the rate limiter, so forwarded headers count only from known proxies.
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		logger.Log.Warn("Invalid TRUSTED_PROXIES, trusting no proxy", "error", err)
		_ = r.SetTrustedProxies(nil)
	}

	// Global Middlewares
	r.Use(middleware.RequestID())
	r.Use(middleware.CORSMiddleware(middleware.CORSConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         deps.SecurityLogger,
	}))
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.ErrorHandler())

	public := r.Group("")

	rateLimit := middleware.ContactRateLimitConfig(cfg.ContactRateLimit, time.Duration(cfg.RateLimitWindowSeconds)*time.Second, deps.Redis)
	rateLimit.Logger = deps.SecurityLogger

	NewContactHandler(public, deps.ContactUC, deps.SecurityLogger,
		middleware.RateLimitMiddleware(rateLimit),
		middleware.BodyLimit(cfg.MaxBodyBytes),
	)
	NewHealthHandler(public, deps.HealthUC)

	// Swagger
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
