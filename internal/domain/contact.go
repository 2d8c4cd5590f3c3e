package domain

import "context"

// ContactRequest represents a contact form submission
type ContactRequest struct {
	Name    string `json:"name" validate:"required,max=100" example:"Jane Doe"`
	Email   string `json:"email" validate:"required,email" example:"jane@example.com"`
	Subject string `json:"subject" validate:"required,max=200" example:"Quote request"`
	Message string `json:"message" validate:"required,max=1000" example:"Please send pricing."`
}

// ContactResult is returned when both emails were dispatched
type ContactResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ContactUsecase defines the interface for contact form operations
type ContactUsecase interface {
	// SendContactMessage validates the submission, notifies the business and
	// acknowledges the submitter, in that order.
	SendContactMessage(ctx context.Context, req *ContactRequest) (*ContactResult, error)
}
