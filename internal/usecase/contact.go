package usecase

import (
	"context"
	"strings"

	"a4-contact-backend/internal/domain"
	"a4-contact-backend/pkg/email"
	"a4-contact-backend/pkg/logger"
	"a4-contact-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

// ContactOptions names the business side of the exchange.
type ContactOptions struct {
	BusinessAddress string // inbox receiving the notification
	BusinessName    string // used in the acknowledgment subject and body
}

type contactUsecase struct {
	transport email.Transport
	validate  *validator.Validate
	opts      ContactOptions
}

// NewContactUsecase creates a new contact usecase. The transport is shared by all requests.
func NewContactUsecase(transport email.Transport, validate *validator.Validate, opts ContactOptions) domain.ContactUsecase {
	if validate == nil {
		validate = validation.New()
	}
	return &contactUsecase{
		transport: transport,
		validate:  validate,
		opts:      opts,
	}
}

// SendContactMessage validates the contact request and sends both emails.
// Nothing is sent unless the whole submission is valid. The acknowledgment
// is attempted only after the business notification succeeded, and a failed
// acknowledgment does not undo the notification.
func (uc *contactUsecase) SendContactMessage(ctx context.Context, req *domain.ContactRequest) (*domain.ContactResult, error) {
	if req == nil {
		return nil, &domain.ValidationError{Problems: []string{"request body is required"}}
	}

	submission := domain.ContactRequest{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Subject: strings.TrimSpace(req.Subject),
		Message: strings.TrimSpace(req.Message),
	}
	if err := uc.validate.StructCtx(ctx, submission); err != nil {
		return nil, &domain.ValidationError{Problems: validation.FormatValidationErrors(err)}
	}

	// Check if email service is configured
	if !uc.transport.IsConfigured() {
		return nil, &domain.DeliveryError{Step: domain.StepCompanyNotification, Err: email.ErrNotConfigured}
	}

	notification, err := email.NewContactNotification(uc.opts.BusinessAddress, email.ContactNotification{
		Name:    submission.Name,
		Email:   submission.Email,
		Subject: submission.Subject,
		Message: submission.Message,
	})
	if err != nil {
		return nil, &domain.DeliveryError{Step: domain.StepCompanyNotification, Err: err}
	}
	thankYou, err := email.NewThankYou(submission.Email, email.ThankYou{
		Name:         submission.Name,
		BusinessName: uc.opts.BusinessName,
	})
	if err != nil {
		return nil, &domain.DeliveryError{Step: domain.StepCompanyNotification, Err: err}
	}

	// Once dispatch starts it runs to completion even if the client goes away.
	sendCtx := context.WithoutCancel(ctx)
	log := logger.Log.With("request_id", domain.RequestIDFrom(ctx))

	log.Info("Processing contact submission", "name", submission.Name)

	log.Info("Sending company notification")
	if err := uc.transport.Send(sendCtx, notification); err != nil {
		log.Error("Company notification failed", "error", err)
		return nil, &domain.DeliveryError{Step: domain.StepCompanyNotification, Err: err}
	}
	log.Info("Company notification sent")

	log.Info("Sending thank-you email")
	if err := uc.transport.Send(sendCtx, thankYou); err != nil {
		log.Error("Thank-you email failed after company was notified", "error", err)
		return nil, &domain.DeliveryError{Step: domain.StepThankYou, Err: err}
	}
	log.Info("Thank-you email sent")

	return &domain.ContactResult{Success: true, Message: "Emails sent successfully"}, nil
}
