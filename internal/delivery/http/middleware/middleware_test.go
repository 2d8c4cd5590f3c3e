package middleware

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"a4-contact-backend/internal/domain"
	"a4-contact-backend/pkg/apperror"
	"a4-contact-backend/pkg/security"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func observedSecurityLogger() (*security.SecurityLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.InfoLevel)
	return security.NewSecurityLogger(zap.New(core), "contact-backend-test", "test"), logs
}

func TestRequestIDGeneratesAndPropagates(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	var fromCtx, fromGin string
	r.GET("/x", func(c *gin.Context) {
		fromCtx = domain.RequestIDFrom(c.Request.Context())
		fromGin = GetRequestID(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	id := w.Header().Get(RequestIDHeader)
	require.NotEmpty(t, id)
	assert.Equal(t, id, fromCtx)
	assert.Equal(t, id, fromGin)
}

func TestRequestIDHonoursValidHeader(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "bad id\twith spaces")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "bad id\twith spaces", w.Header().Get(RequestIDHeader))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func newCORSRouter(cfg CORSConfig) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), CORSMiddleware(cfg))
	r.POST("/contact", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestCORSAllowedOrigin(t *testing.T) {
	r := newCORSRouter(CORSConfig{AllowedOrigins: []string{"https://a4tech.example"}})

	req := httptest.NewRequest(http.MethodOptions, "/contact", nil)
	req.Header.Set("Origin", "https://a4tech.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://a4tech.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Content-Type")
}

func TestCORSRejectedPreflightIsLogged(t *testing.T) {
	sl, logs := observedSecurityLogger()
	r := newCORSRouter(CORSConfig{AllowedOrigins: []string{"https://a4tech.example"}, Logger: sl})

	req := httptest.NewRequest(http.MethodOptions, "/contact", nil)
	req.Header.Set("Origin", "https://evil.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, 1, logs.FilterField(zap.String("event", string(security.EventCORSRejected))).Len())
}

func TestCORSUnlistedOriginGetsNoHeaders(t *testing.T) {
	r := newCORSRouter(CORSConfig{AllowedOrigins: []string{"http://localhost:3000/"}})

	for origin, allowed := range map[string]bool{
		"http://localhost:3000": true,
		"http://localhost:4000": false,
	} {
		req := httptest.NewRequest(http.MethodPost, "/contact", nil)
		req.Header.Set("Origin", origin)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code, "simple requests reach the handler")
		if allowed {
			assert.Equal(t, origin, w.Header().Get("Access-Control-Allow-Origin"))
		} else {
			assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
		}
	}
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), ErrorHandler())
	r.GET("/app", func(c *gin.Context) {
		_ = c.Error(apperror.BadRequest("Invalid contact form submission").WithDetail("Email must be a valid email address"))
	})
	r.GET("/unknown", func(c *gin.Context) {
		_ = c.Error(errors.New("boom: internal detail"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/app", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
	assert.Contains(t, w.Body.String(), `"error":"Email must be a valid email address"`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/unknown", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"message":"Internal Server Error"`)
	assert.NotContains(t, w.Body.String(), "internal detail")
}

func newRateLimitedRouter(cfg RateLimitConfig) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), ErrorHandler())
	r.POST("/contact", RateLimitMiddleware(cfg), func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func postFrom(r *gin.Engine, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/contact", nil)
	req.RemoteAddr = ip + ":12345"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimitInMemory(t *testing.T) {
	sl, logs := observedSecurityLogger()
	cfg := ContactRateLimitConfig(2, time.Minute, nil)
	cfg.Logger = sl
	r := newRateLimitedRouter(cfg)

	assert.Equal(t, http.StatusOK, postFrom(r, "10.0.0.1").Code)
	w := postFrom(r, "10.0.0.1")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = postFrom(r, "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), `"success":false`)
	assert.Contains(t, w.Body.String(), `"message":"Too many requests. Please try again later."`)
	assert.Equal(t, 1, logs.FilterField(zap.String("event", string(security.EventRateLimitTriggered))).Len())

	assert.Equal(t, http.StatusOK, postFrom(r, "10.0.0.2").Code, "other clients have their own budget")
}

func TestRateLimitWindowResets(t *testing.T) {
	cfg := ContactRateLimitConfig(1, 50*time.Millisecond, nil)
	cfg.Logger, _ = observedSecurityLogger()
	r := newRateLimitedRouter(cfg)

	assert.Equal(t, http.StatusOK, postFrom(r, "10.0.0.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, postFrom(r, "10.0.0.1").Code)

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, http.StatusOK, postFrom(r, "10.0.0.1").Code)
}

func TestRateLimitDisabled(t *testing.T) {
	r := newRateLimitedRouter(ContactRateLimitConfig(0, time.Minute, nil))
	for i := 0; i < 20; i++ {
		require.Equal(t, http.StatusOK, postFrom(r, "10.0.0.1").Code)
	}
}

func TestRateLimitFallsBackWhenRedisUnavailable(t *testing.T) {
	client := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	cfg := ContactRateLimitConfig(1, time.Minute, client)
	cfg.Logger, _ = observedSecurityLogger()
	r := newRateLimitedRouter(cfg)

	assert.Equal(t, http.StatusOK, postFrom(r, "10.0.0.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, postFrom(r, "10.0.0.1").Code)
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeadersMiddleware())
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.NotEmpty(t, w.Header().Get("Content-Security-Policy"))
}

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.Use(BodyLimit(16))
	r.POST("/contact", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/contact", bytes.NewBufferString("short")))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(strings.Repeat("x", 64))))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
