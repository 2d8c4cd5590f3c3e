package v1

import (
	"net/http"
	"time"

	"a4-contact-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

const (
	msgAllOperational = "All systems operational"
	msgSMTPIssues     = "SMTP connection issues detected"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string            `json:"status" example:"ok"`
	Timestamp string            `json:"timestamp" example:"2026-01-02T03:04:05.000Z"`
	SMTP      domain.SMTPStatus `json:"smtp"`
	Message   string            `json:"message" example:"All systems operational"`
}

// SMTPHealthResponse is the body of GET /health/smtp.
type SMTPHealthResponse struct {
	Timestamp string            `json:"timestamp" example:"2026-01-02T03:04:05.000Z"`
	SMTP      domain.SMTPStatus `json:"smtp"`
}

type HealthHandler struct {
	healthUC domain.HealthUsecase
	now      func() time.Time
}

// NewHealthHandler registers the health routes. Both send one real email per call.
func NewHealthHandler(public *gin.RouterGroup, healthUC domain.HealthUsecase) {
	handler := &HealthHandler{
		healthUC: healthUC,
		now:      time.Now,
	}

	public.GET("/health", handler.Health)
	public.GET("/health/smtp", handler.SMTPHealth)
}

// Health godoc
// @Summary      Service Health
// @Description  Always 200. SMTP problems are reported in the body; sends one diagnostic email.
// @Tags         health
// @Produce      json
// @Success      200  {object}  HealthResponse
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	status := h.healthUC.SMTPStatus(c.Request.Context())

	message := msgAllOperational
	if !status.Connection {
		message = msgSMTPIssues
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: h.now().UTC().Format(timestampLayout),
		SMTP:      status,
		Message:   message,
	})
}

// SMTPHealth godoc
// @Summary      SMTP Health
// @Description  Connection check plus one diagnostic email to the business inbox.
// @Tags         health
// @Produce      json
// @Success      200  {object}  SMTPHealthResponse
// @Router       /health/smtp [get]
func (h *HealthHandler) SMTPHealth(c *gin.Context) {
	status := h.healthUC.SMTPStatus(c.Request.Context())

	c.JSON(http.StatusOK, SMTPHealthResponse{
		Timestamp: h.now().UTC().Format(timestampLayout),
		SMTP:      status,
	})
}
