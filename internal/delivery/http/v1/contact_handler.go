package v1

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"a4-contact-backend/internal/delivery/http/middleware"
	"a4-contact-backend/internal/delivery/http/response"
	"a4-contact-backend/internal/domain"
	"a4-contact-backend/pkg/apperror"
	"a4-contact-backend/pkg/email"
	"a4-contact-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

const (
	msgContactSent       = "Thank you for your message! We will get back to you soon."
	msgContactInvalid    = "Invalid contact form submission"
	msgContactSendFailed = "Failed to send message. Please try again later."
	msgBackendWorking    = "Backend is working!"
	detailMalformedBody  = "request body must be a JSON object with name, email, subject and message"
	detailBodyTooLarge   = "request body is too large"
	detailNotConfigured  = "email service is not configured"
	timestampLayout      = "2006-01-02T15:04:05.000Z07:00"
)

type ContactHandler struct {
	contactUC domain.ContactUsecase
	secLog    *security.SecurityLogger
	now       func() time.Time
}

// NewContactHandler registers the contact routes (public, no auth required).
// submit wraps POST /contact, typically with rate limiting and a body cap.
func NewContactHandler(public *gin.RouterGroup, contactUC domain.ContactUsecase, secLog *security.SecurityLogger, submit ...gin.HandlerFunc) {
	handler := &ContactHandler{
		contactUC: contactUC,
		secLog:    secLog,
		now:       time.Now,
	}

	public.POST("/contact", append(submit, handler.SubmitContact)...)
	public.GET("/contact/test", handler.TestContact)
}

// SubmitContact godoc
// @Summary      Submit Contact Form
// @Description  Validates the form, emails the business and sends the submitter a thank-you email.
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        contact  body      domain.ContactRequest  true  "Contact Form Data"
// @Success      200      {object}  response.Response{data=domain.ContactResult}
// @Failure      400      {object}  response.Response
// @Failure      429      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Failure      503      {object}  response.Response
// @Router       /contact [post]
func (h *ContactHandler) SubmitContact(c *gin.Context) {
	var req domain.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		detail := detailMalformedBody
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			detail = detailBodyTooLarge
		}
		_ = c.Error(apperror.BadRequest(msgContactInvalid).WithDetail(detail))
		return
	}

	result, err := h.contactUC.SendContactMessage(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, &req, err)
		return
	}

	response.Success(c, http.StatusOK, msgContactSent, result)
}

func (h *ContactHandler) handleError(c *gin.Context, req *domain.ContactRequest, err error) {
	ctx := c.Request.Context()
	requestID := middleware.GetRequestID(c)

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		h.securityLogger().LogContactValidationFailed(ctx, req.Email, c.ClientIP(), requestID, verr.Problems)
		_ = c.Error(apperror.BadRequest(msgContactInvalid).WithDetail(strings.Join(verr.Problems, "; ")))
		return
	}

	var derr *domain.DeliveryError
	step := ""
	if errors.As(err, &derr) {
		step = string(derr.Step)
	}
	h.securityLogger().LogContactDeliveryFailed(ctx, req.Email, c.ClientIP(), requestID, step, err)

	if errors.Is(err, email.ErrNotConfigured) {
		_ = c.Error(apperror.ServiceUnavailable(msgContactSendFailed, err).WithDetail(detailNotConfigured))
		return
	}
	_ = c.Error(apperror.New(http.StatusInternalServerError, msgContactSendFailed, err).WithDetail(err.Error()))
}

func (h *ContactHandler) securityLogger() *security.SecurityLogger {
	if h.secLog != nil {
		return h.secLog
	}
	return security.DefaultLogger()
}

// TestContact godoc
// @Summary      Contact Liveness
// @Description  Confirms the backend is reachable. Touches no external dependency.
// @Tags         contact
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /contact/test [get]
func (h *ContactHandler) TestContact(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":   msgBackendWorking,
		"timestamp": h.now().UTC().Format(timestampLayout),
	})
}
