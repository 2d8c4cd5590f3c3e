package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"a4-contact-backend/internal/domain"
	"a4-contact-backend/internal/usecase"
	"a4-contact-backend/pkg/email"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const businessAddress = "hello@a4tech.example"

func newContactUC(transport email.Transport) domain.ContactUsecase {
	return usecase.NewContactUsecase(transport, nil, usecase.ContactOptions{
		BusinessAddress: businessAddress,
		BusinessName:    "A4 Technologies",
	})
}

func validRequest() *domain.ContactRequest {
	return &domain.ContactRequest{
		Name:    "Jane Doe",
		Email:   "jane@example.com",
		Subject: "Quote request",
		Message: "Please send pricing.",
	}
}

func TestSendContactMessageSuccess(t *testing.T) {
	transport := new(MockTransport)
	transport.On("IsConfigured").Return(true)
	transport.On("Send", mock.Anything, mock.Anything).Return(nil)

	result, err := newContactUC(transport).SendContactMessage(context.Background(), validRequest())
	require.NoError(t, err)
	assert.True(t, result.Success)

	sent := transport.sentMessages()
	require.Len(t, sent, 2)

	assert.Equal(t, businessAddress, sent[0].To, "business notification goes first")
	assert.Equal(t, "New Contact Form Submission: Quote request", sent[0].Subject)
	assert.Equal(t, "jane@example.com", sent[0].ReplyTo)
	for _, want := range []string{"Jane Doe", "jane@example.com", "Quote request", "Please send pricing."} {
		assert.Contains(t, sent[0].TextBody, want)
	}

	assert.Equal(t, "jane@example.com", sent[1].To, "acknowledgment goes second")
	assert.Equal(t, "Thank you for contacting A4 Technologies", sent[1].Subject)
	assert.Contains(t, sent[1].TextBody, "Jane Doe")
}

func TestSendContactMessageTrimsFields(t *testing.T) {
	transport := new(MockTransport)
	transport.On("IsConfigured").Return(true)
	transport.On("Send", mock.Anything, mock.Anything).Return(nil)

	req := validRequest()
	req.Email = "  jane@example.com \n"
	req.Subject = "\tQuote request  "

	_, err := newContactUC(transport).SendContactMessage(context.Background(), req)
	require.NoError(t, err)

	sent := transport.sentMessages()
	require.Len(t, sent, 2)
	assert.Equal(t, "New Contact Form Submission: Quote request", sent[0].Subject)
	assert.Equal(t, "jane@example.com", sent[1].To)
}

func TestSendContactMessageInvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *domain.ContactRequest)
		want   string
	}{
		{"empty name", func(r *domain.ContactRequest) { r.Name = "" }, "Name is required"},
		{"blank name", func(r *domain.ContactRequest) { r.Name = "   " }, "Name is required"},
		{"name too long", func(r *domain.ContactRequest) { r.Name = strings.Repeat("a", 101) }, "Name must be at most 100 characters"},
		{"empty email", func(r *domain.ContactRequest) { r.Email = "" }, "Email is required"},
		{"invalid email", func(r *domain.ContactRequest) { r.Email = "not-an-email" }, "Email must be a valid email address"},
		{"empty subject", func(r *domain.ContactRequest) { r.Subject = "\n\t" }, "Subject is required"},
		{"subject too long", func(r *domain.ContactRequest) { r.Subject = strings.Repeat("s", 201) }, "Subject must be at most 200 characters"},
		{"empty message", func(r *domain.ContactRequest) { r.Message = "" }, "Message is required"},
		{"message too long", func(r *domain.ContactRequest) { r.Message = strings.Repeat("m", 1001) }, "Message must be at most 1000 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := new(MockTransport)
			req := validRequest()
			tt.mutate(req)

			result, err := newContactUC(transport).SendContactMessage(context.Background(), req)
			assert.Nil(t, result)
			require.ErrorIs(t, err, domain.ErrInvalidInput)

			var ve *domain.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, []string{tt.want}, ve.Problems)

			transport.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
		})
	}
}

func TestSendContactMessageBoundaryLengths(t *testing.T) {
	transport := new(MockTransport)
	transport.On("IsConfigured").Return(true)
	transport.On("Send", mock.Anything, mock.Anything).Return(nil)

	req := &domain.ContactRequest{
		Name:    strings.Repeat("n", 100),
		Email:   "jane@example.com",
		Subject: strings.Repeat("s", 200),
		Message: strings.Repeat("m", 1000),
	}
	_, err := newContactUC(transport).SendContactMessage(context.Background(), req)
	require.NoError(t, err)
	transport.AssertNumberOfCalls(t, "Send", 2)
}

func TestSendContactMessageReportsAllProblemsInFieldOrder(t *testing.T) {
	transport := new(MockTransport)

	_, err := newContactUC(transport).SendContactMessage(context.Background(), &domain.ContactRequest{Email: "nope"})

	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, []string{
		"Name is required",
		"Email must be a valid email address",
		"Subject is required",
		"Message is required",
	}, ve.Problems)
	transport.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestSendContactMessageNilRequest(t *testing.T) {
	transport := new(MockTransport)

	_, err := newContactUC(transport).SendContactMessage(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSendContactMessageNotConfigured(t *testing.T) {
	transport := new(MockTransport)
	transport.On("IsConfigured").Return(false)

	_, err := newContactUC(transport).SendContactMessage(context.Background(), validRequest())
	assert.ErrorIs(t, err, domain.ErrDeliveryFailure)
	assert.ErrorIs(t, err, email.ErrNotConfigured)
	transport.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestSendContactMessageCompanyNotificationFails(t *testing.T) {
	transportErr := errors.New("smtp dial smtp.example.com:587: connection refused")
	transport := new(MockTransport)
	transport.On("IsConfigured").Return(true)
	transport.On("Send", mock.Anything, toRecipient(businessAddress)).Return(transportErr)

	result, err := newContactUC(transport).SendContactMessage(context.Background(), validRequest())
	assert.Nil(t, result)
	require.ErrorIs(t, err, domain.ErrDeliveryFailure)
	assert.ErrorIs(t, err, transportErr)

	var de *domain.DeliveryError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, domain.StepCompanyNotification, de.Step)

	// The acknowledgment is never attempted.
	transport.AssertNumberOfCalls(t, "Send", 1)
}

func TestSendContactMessageThankYouFails(t *testing.T) {
	transportErr := errors.New("smtp RCPT TO: 550 mailbox unavailable")
	transport := new(MockTransport)
	transport.On("IsConfigured").Return(true)
	transport.On("Send", mock.Anything, toRecipient(businessAddress)).Return(nil)
	transport.On("Send", mock.Anything, toRecipient("jane@example.com")).Return(transportErr)

	uc := newContactUC(transport)
	_, err := uc.SendContactMessage(context.Background(), validRequest())
	require.ErrorIs(t, err, domain.ErrDeliveryFailure)

	var de *domain.DeliveryError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, domain.StepThankYou, de.Step)
	transport.AssertNumberOfCalls(t, "Send", 2)

	// Resubmitting the same form is a fresh, full dispatch: the business is
	// notified again. Submissions are not deduplicated.
	_, err = uc.SendContactMessage(context.Background(), validRequest())
	require.Error(t, err)

	sent := transport.sentMessages()
	require.Len(t, sent, 4)
	assert.Equal(t, []string{businessAddress, "jane@example.com", businessAddress, "jane@example.com"},
		[]string{sent[0].To, sent[1].To, sent[2].To, sent[3].To})
}

func TestSendContactMessageIgnoresCancellationOnceDispatching(t *testing.T) {
	transport := new(MockTransport)
	transport.On("IsConfigured").Return(true)
	transport.On("Send", mock.Anything, mock.Anything).Return(nil)

	ctx, cancel := context.WithCancel(context.WithValue(context.Background(), domain.KeyRequestID, "req-1"))
	cancel()

	_, err := newContactUC(transport).SendContactMessage(ctx, validRequest())
	require.NoError(t, err)

	for _, call := range transport.Calls {
		if call.Method == "Send" {
			sendCtx := call.Arguments.Get(0).(context.Context)
			assert.NoError(t, sendCtx.Err())
			assert.Equal(t, "req-1", domain.RequestIDFrom(sendCtx))
		}
	}
}
