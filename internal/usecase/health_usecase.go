package usecase

import (
	"context"
	"time"

	"a4-contact-backend/internal/domain"
	"a4-contact-backend/pkg/email"
	"a4-contact-backend/pkg/logger"
)

// HealthOptions configures where the diagnostic email goes.
type HealthOptions struct {
	BusinessAddress string
	BusinessName    string
	Now             func() time.Time
}

type healthUsecase struct {
	transport email.Transport
	opts      HealthOptions
}

func NewHealthUsecase(transport email.Transport, opts HealthOptions) domain.HealthUsecase {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &healthUsecase{transport: transport, opts: opts}
}

func (u *healthUsecase) CheckConnection(ctx context.Context) bool {
	if err := u.transport.Verify(ctx); err != nil {
		logger.Log.Warn("SMTP connection check failed", "error", err)
		return false
	}
	return true
}

func (u *healthUsecase) SendTestEmail(ctx context.Context) bool {
	msg, err := email.NewSMTPDiagnostic(u.opts.BusinessAddress, email.SMTPDiagnostic{
		BusinessName: u.opts.BusinessName,
		Timestamp:    u.opts.Now(),
	})
	if err == nil {
		err = u.transport.Send(ctx, msg)
	}
	if err != nil {
		logger.Log.Warn("Test Email: FALSE", "error", err)
		return false
	}
	logger.Log.Info("Test Email: TRUE")
	return true
}

// SMTPStatus runs the connection check and the test email independently;
// a failed handshake does not skip the send attempt.
func (u *healthUsecase) SMTPStatus(ctx context.Context) domain.SMTPStatus {
	return domain.SMTPStatus{
		Connection: u.CheckConnection(ctx),
		TestEmail:  u.SendTestEmail(ctx),
	}
}
