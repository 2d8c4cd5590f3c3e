package middleware

import (
	"net/http"
	"strings"

	"a4-contact-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

// CORSConfig lists the origins the static marketing site is served from.
type CORSConfig struct {
	AllowedOrigins []string
	Logger         *security.SecurityLogger
}

// CORSMiddleware adds CORS headers for the allowed origins and answers preflight requests.
// Requests from other origins get no CORS headers, so browsers block them.
func CORSMiddleware(cfg CORSConfig) gin.HandlerFunc {
	allowed := make(map[string]bool, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		allowed[strings.TrimRight(o, "/")] = true
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		// Same-origin and non-browser requests carry no Origin header.
		isAllowed := origin == "" || allowed[origin]

		if isAllowed && origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			c.Header("Access-Control-Expose-Headers", "X-Request-ID, Retry-After")
			c.Header("Access-Control-Max-Age", "86400") // 24 hours
		}

		// Vary header to ensure caches differentiate by Origin
		c.Header("Vary", "Origin")

		if c.Request.Method == http.MethodOptions {
			if isAllowed {
				c.AbortWithStatus(http.StatusNoContent)
				return
			}
			if cfg.Logger != nil {
				cfg.Logger.LogCORSRejected(c.Request.Context(), origin, c.ClientIP(), GetRequestID(c))
			}
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		c.Next()
	}
}
