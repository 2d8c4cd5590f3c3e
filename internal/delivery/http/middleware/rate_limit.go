package middleware

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"a4-contact-backend/pkg/apperror"
	"a4-contact-backend/pkg/logger"
	"a4-contact-backend/pkg/security"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	// Requests per window; 0 disables the limiter.
	Limit int
	// Time window duration
	Window time.Duration
	// Custom key extractor (default: IP-based)
	KeyFunc func(*gin.Context) string
	// Key prefix for Redis (default: "rl:contact:")
	KeyPrefix string
	// Client is optional; without it counters live in process memory.
	Client *goredis.Client
	// Logger receives rate_limit_triggered events (default: security.DefaultLogger()).
	Logger *security.SecurityLogger
}

// ContactRateLimitConfig limits form submissions per client IP.
func ContactRateLimitConfig(limit int, window time.Duration, client *goredis.Client) RateLimitConfig {
	return RateLimitConfig{
		Limit:     limit,
		Window:    window,
		KeyPrefix: "rl:contact:",
		Client:    client,
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
	}
}

// Lua script for atomic increment with TTL on first set
// KEYS[1] = counter key
// ARGV[1] = TTL in seconds
// Returns: [current_count, ttl_remaining]
const rateLimitLuaScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('TTL', KEYS[1])
return {count, ttl}
`

var rateLimitScript = goredis.NewScript(rateLimitLuaScript)

// rateLimitEntry tracks request count for a key (in-memory fallback)
type rateLimitEntry struct {
	count   int
	resetAt time.Time
}

// memoryStore is the fallback counter store. Expired entries are swept at
// most once per window.
type memoryStore struct {
	mu        sync.Mutex
	entries   map[string]*rateLimitEntry
	lastSweep time.Time
}

func newMemoryStore() *memoryStore {
	return &memoryStore{entries: make(map[string]*rateLimitEntry)}
}

func (s *memoryStore) incr(key string, window time.Duration, now time.Time) (int, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if now.Sub(s.lastSweep) >= window {
		for k, e := range s.entries {
			if !now.Before(e.resetAt) {
				delete(s.entries, k)
			}
		}
		s.lastSweep = now
	}

	entry, ok := s.entries[key]
	if !ok || !now.Before(entry.resetAt) {
		entry = &rateLimitEntry{resetAt: now.Add(window)}
		s.entries[key] = entry
	}
	entry.count++
	return entry.count, entry.resetAt
}

// RateLimitMiddleware creates a rate limiting middleware with the given config.
// Uses Redis when a client is configured, falls back to in-memory when not or
// when Redis fails, so a Redis outage never takes the contact form down.
func RateLimitMiddleware(config RateLimitConfig) gin.HandlerFunc {
	if config.Limit <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if config.Window <= 0 {
		config.Window = time.Minute
	}
	if config.KeyFunc == nil {
		config.KeyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}
	if config.KeyPrefix == "" {
		config.KeyPrefix = "rl:contact:"
	}
	store := newMemoryStore()

	return func(c *gin.Context) {
		fullKey := config.KeyPrefix + config.KeyFunc(c)
		now := time.Now()

		var count int
		var resetAt time.Time

		if config.Client != nil {
			var err error
			count, resetAt, err = checkRateLimitRedis(c.Request.Context(), config.Client, fullKey, config.Window)
			if err != nil {
				logger.Log.Warn("Rate limiter redis error", "request_id", GetRequestID(c), "error", err)
				count, resetAt = store.incr(fullKey, config.Window, now)
			}
		} else {
			count, resetAt = store.incr(fullKey, config.Window, now)
		}

		remaining := config.Limit - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", resetAt.UTC().Format(time.RFC3339))

		if count > config.Limit {
			retryAfter := int(resetAt.Sub(now).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))

			sl := config.Logger
			if sl == nil {
				sl = security.DefaultLogger()
			}
			sl.LogRateLimitTriggered(c.Request.Context(), c.ClientIP(), c.GetHeader("User-Agent"), GetRequestID(c), c.FullPath())

			_ = c.Error(apperror.TooManyRequests("Too many requests. Please try again later."))
			c.Abort()
			return
		}

		c.Next()
	}
}

// checkRateLimitRedis checks rate limit using Redis with atomic Lua script
func checkRateLimitRedis(ctx context.Context, client *goredis.Client, key string, window time.Duration) (int, time.Time, error) {
	ttlSeconds := int(window.Seconds())
	if ttlSeconds < 1 {
		ttlSeconds = 1
	}

	vals, err := rateLimitScript.Run(ctx, client, []string{key}, ttlSeconds).Int64Slice()
	if err != nil {
		return 0, time.Time{}, err
	}
	if len(vals) < 2 {
		return 0, time.Time{}, errors.New("unexpected redis result format")
	}

	ttl := vals[1]
	if ttl < 0 {
		ttl = int64(ttlSeconds)
	}
	return int(vals[0]), time.Now().Add(time.Duration(ttl) * time.Second), nil
}
