package domain

import "context"

// SMTPStatus is recomputed on every health query and never cached.
type SMTPStatus struct {
	Connection bool `json:"connection"`
	TestEmail  bool `json:"testEmail"`
}

// HealthUsecase reports mail transport health. None of its methods fail:
// transport errors are reduced to false.
type HealthUsecase interface {
	// CheckConnection authenticates against the relay without sending.
	CheckConnection(ctx context.Context) bool
	// SendTestEmail sends one real diagnostic email to the business inbox.
	SendTestEmail(ctx context.Context) bool
	// SMTPStatus runs both checks. Each call sends one email.
	SMTPStatus(ctx context.Context) SMTPStatus
}
