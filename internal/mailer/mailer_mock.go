package mailer

import (
	"context"

	"github.com/huangsam/topsis/internal/contract"
	"github.com/stretchr/testify/mock"
)

// MockMailer is a mock implementation of Mailer for testing.
type MockMailer struct {
	mock.Mock
}

var _ contract.Mailer = &MockMailer{} // Compile-time check

// Send implements the Mailer interface.
func (m *MockMailer) Send(ctx context.Context, msg contract.MailMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}
