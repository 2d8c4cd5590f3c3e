package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultPort         = "3001"
	defaultSMTPPort     = 587
	defaultBusinessName = "A4 Technologies"
)

// defaultAllowedOrigins are the local static-site origins the marketing pages are served from during development.
var defaultAllowedOrigins = []string{
	"http://localhost:3000",
	"http://127.0.0.1:3000",
	"http://localhost:5500",
	"http://127.0.0.1:5500",
	"http://localhost:5503",
	"http://127.0.0.1:5503",
}

type Config struct {
	Port    string
	GinMode string
	// SMTP Configuration
	SMTPHost           string
	SMTPPort           int
	SMTPUsername       string
	SMTPPassword       string
	SMTPFromEmail      string // Always the SMTP login unless explicitly overridden
	SMTPSecure         bool   // Implicit TLS instead of STARTTLS
	SMTPTimeoutSeconds int
	ContactEmailTo     string // Business inbox receiving contact notifications
	BusinessName       string
	// CORS
	AllowedOrigins []string
	// Proxies whose X-Forwarded-For is honoured; empty trusts none
	TrustedProxies []string
	// Redis/Upstash Configuration
	UpstashRedisURL      string
	UpstashRedisPassword string
	// Rate Limiting Configuration
	ContactRateLimit       int // 0 disables rate limiting on POST /contact
	RateLimitWindowSeconds int
	// Logging
	LogLevel  string
	LogFormat string
	// Request body cap for POST /contact
	MaxBodyBytes int64
}

func LoadConfig() (*Config, error) {
	// .env is optional; real deployments inject the environment directly
	_ = godotenv.Load()

	username := getEnv("SMTP_USER", getEnv("SMTP_USERNAME", ""))

	cfg := &Config{
		Port:    getEnv("PORT", defaultPort),
		GinMode: getEnv("GIN_MODE", ""),
		// SMTP Configuration
		SMTPHost:           getEnv("SMTP_HOST", ""),
		SMTPPort:           getEnvInt("SMTP_PORT", defaultSMTPPort),
		SMTPUsername:       username,
		SMTPPassword:       getEnv("SMTP_PASS", getEnv("SMTP_PASSWORD", "")),
		SMTPFromEmail:      getEnv("SMTP_FROM_EMAIL", username),
		SMTPSecure:         getEnvBool("SMTP_SECURE", false),
		SMTPTimeoutSeconds: getEnvInt("SMTP_TIMEOUT_SECONDS", 30),
		ContactEmailTo:     getEnv("CONTACT_EMAIL_TO", username),
		BusinessName:       getEnv("BUSINESS_NAME", defaultBusinessName),
		// CORS
		AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", defaultAllowedOrigins),
		TrustedProxies: getEnvList("TRUSTED_PROXIES", nil),
		// Redis/Upstash Configuration
		UpstashRedisURL:      getEnv("UPSTASH_REDIS_URL", ""),
		UpstashRedisPassword: getEnv("UPSTASH_REDIS_PASSWORD", ""),
		// Rate Limiting Configuration
		ContactRateLimit:       getEnvInt("CONTACT_RATE_LIMIT", 10),
		RateLimitWindowSeconds: getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
		// Body cap
		MaxBodyBytes: int64(getEnvInt("MAX_BODY_BYTES", 64<<10)),
	}

	if cfg.SMTPPort <= 0 || cfg.SMTPPort > 65535 {
		cfg.SMTPPort = defaultSMTPPort
	}

	if cfg.SMTPHost == "" || cfg.SMTPUsername == "" || cfg.SMTPPassword == "" {
		log.Println("WARNING: SMTP_HOST, SMTP_USER or SMTP_PASS is missing. Contact form will be unavailable.")
	}

	if cfg.UpstashRedisURL == "" && cfg.ContactRateLimit > 0 {
		log.Println("WARNING: UPSTASH_REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}

	return cfg, nil
}

// IsProduction reports whether gin runs in release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// getEnvList splits a comma-separated variable, dropping blanks and trailing slashes
func getEnvList(key string, fallback []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimRight(strings.TrimSpace(part), "/")
		if part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
