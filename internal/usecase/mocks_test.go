package usecase_test

import (
	"context"

	"a4-contact-backend/pkg/email"

	"github.com/stretchr/testify/mock"
)

// MockTransport records every Send so tests can assert on order and content.
type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Send(ctx context.Context, msg email.Message) error {
	return m.Called(ctx, msg).Error(0)
}

func (m *MockTransport) Verify(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockTransport) IsConfigured() bool {
	args := m.Called()
	return args.Bool(0)
}

// sentMessages returns the messages passed to Send, in call order.
func (m *MockTransport) sentMessages() []email.Message {
	var out []email.Message
	for _, call := range m.Calls {
		if call.Method == "Send" {
			out = append(out, call.Arguments.Get(1).(email.Message))
		}
	}
	return out
}

func toRecipient(addr string) any {
	return mock.MatchedBy(func(msg email.Message) bool { return msg.To == addr })
}
