package security

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventType represents the type of security event
type EventType string

const (
	EventRateLimitTriggered      EventType = "rate_limit_triggered"
	EventContactValidationFailed EventType = "contact_validation_failed"
	EventContactDeliveryFailed   EventType = "contact_delivery_failed"
	EventCORSRejected            EventType = "cors_rejected"
)

// SecurityEvent represents a security-related event to be logged
type SecurityEvent struct {
	Timestamp    time.Time              `json:"timestamp"`
	Service      string                 `json:"service"`
	Environment  string                 `json:"env"`
	Level        string                 `json:"level"`
	Event        EventType              `json:"event"`
	SubjectType  string                 `json:"subject_type,omitempty"`  // "email", "ip"
	SubjectValue string                 `json:"subject_value,omitempty"` // Masked or hashed for PII
	IP           string                 `json:"ip,omitempty"`
	UserAgent    string                 `json:"user_agent,omitempty"`
	RequestID    string                 `json:"request_id,omitempty"`
	Details      map[string]interface{} `json:"details,omitempty"`
}

// SecurityLogger provides structured logging for security events
type SecurityLogger struct {
	zapLogger   *zap.Logger
	serviceName string
	environment string
}

var (
	defaultLogger *SecurityLogger
	defaultMu     sync.Mutex
)

// InitSecurityLogger initializes the security logger with Zap and makes it the default
func InitSecurityLogger(serviceName, environment string) *SecurityLogger {
	// Create production-ready Zap config
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.LevelKey = "level"
	config.EncoderConfig.MessageKey = "message"

	// Set output to stdout for container environments
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build(
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
	if err != nil {
		// Fallback to a basic logger if config fails
		logger, _ = zap.NewProduction()
	}

	sl := NewSecurityLogger(logger, serviceName, environment)
	SetDefault(sl)
	return sl
}

// NewSecurityLogger wraps an existing zap logger.
func NewSecurityLogger(logger *zap.Logger, serviceName, environment string) *SecurityLogger {
	return &SecurityLogger{
		zapLogger:   logger,
		serviceName: serviceName,
		environment: environment,
	}
}

// SetDefault replaces the logger returned by DefaultLogger.
func SetDefault(sl *SecurityLogger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = sl
}

// DefaultLogger returns the default security logger instance
func DefaultLogger() *SecurityLogger {
	defaultMu.Lock()
	sl := defaultLogger
	defaultMu.Unlock()
	if sl == nil {
		// Create a basic logger if not initialized
		return InitSecurityLogger("contact-backend", getEnvironment())
	}
	return sl
}

// Log logs a security event
func (sl *SecurityLogger) Log(ctx context.Context, event SecurityEvent) {
	// Fill in defaults
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	event.Service = sl.serviceName
	event.Environment = sl.environment

	// Determine log level based on event type
	level := zapcore.WarnLevel
	switch event.Event {
	case EventContactDeliveryFailed:
		level = zapcore.ErrorLevel
	case EventRateLimitTriggered, EventContactValidationFailed, EventCORSRejected:
		level = zapcore.WarnLevel
	}
	event.Level = level.String()

	// Build Zap fields
	fields := []zap.Field{
		zap.String("service", event.Service),
		zap.String("env", event.Environment),
		zap.String("event", string(event.Event)),
	}
	if event.SubjectType != "" {
		fields = append(fields, zap.String("subject_type", event.SubjectType))
	}
	if event.SubjectValue != "" {
		fields = append(fields, zap.String("subject_value", event.SubjectValue))
	}
	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	if event.UserAgent != "" {
		fields = append(fields, zap.String("user_agent", event.UserAgent))
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	if len(event.Details) > 0 {
		detailsJSON, _ := json.Marshal(event.Details)
		fields = append(fields, zap.String("details", string(detailsJSON)))
	}

	sl.zapLogger.Log(level, string(event.Event), fields...)
}

// LogRateLimitTriggered logs when rate limiting is triggered
func (sl *SecurityLogger) LogRateLimitTriggered(ctx context.Context, ip, userAgent, requestID, endpoint string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventRateLimitTriggered,
		SubjectType:  "ip",
		SubjectValue: ip,
		IP:           ip,
		UserAgent:    userAgent,
		RequestID:    requestID,
		Details:      map[string]interface{}{"endpoint": endpoint},
	})
}

// LogContactValidationFailed logs a rejected contact submission
func (sl *SecurityLogger) LogContactValidationFailed(ctx context.Context, email, ip, requestID string, problems []string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventContactValidationFailed,
		SubjectType:  "email",
		SubjectValue: MaskEmail(email),
		IP:           ip,
		RequestID:    requestID,
		Details:      map[string]interface{}{"problems": problems},
	})
}

// LogContactDeliveryFailed logs a submission whose emails could not all be sent
func (sl *SecurityLogger) LogContactDeliveryFailed(ctx context.Context, email, ip, requestID, step string, err error) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventContactDeliveryFailed,
		SubjectType:  "email",
		SubjectValue: MaskEmail(email),
		IP:           ip,
		RequestID:    requestID,
		Details:      map[string]interface{}{"step": step, "error": err.Error()},
	})
}

// LogCORSRejected logs a preflight from an origin outside the allow list
func (sl *SecurityLogger) LogCORSRejected(ctx context.Context, origin, ip, requestID string) {
	sl.Log(ctx, SecurityEvent{
		Event:     EventCORSRejected,
		IP:        ip,
		RequestID: requestID,
		Details:   map[string]interface{}{"origin": origin},
	})
}

// Sync flushes any buffered log entries
func (sl *SecurityLogger) Sync() error {
	return sl.zapLogger.Sync()
}

// --- Helper Functions ---

// MaskEmail masks an email for logging (e.g., "j***@example.com")
func MaskEmail(email string) string {
	email = strings.TrimSpace(email)
	if len(email) < 3 {
		return "***"
	}
	atIndex := strings.IndexByte(email, '@')
	if atIndex < 0 {
		return HashValue(email)
	}
	if atIndex <= 1 {
		return "***" + email[atIndex:]
	}
	return email[:1] + "***" + email[atIndex:]
}

// HashValue creates a SHA256 hash of a value (for logging without PII)
func HashValue(value string) string {
	hash := sha256.Sum256([]byte(value))
	return hex.EncodeToString(hash[:8]) // First 16 chars of hex
}

// getEnvironment determines the current environment
func getEnvironment() string {
	env := os.Getenv("GIN_MODE")
	if env == "release" {
		return "production"
	}
	return "development"
}
