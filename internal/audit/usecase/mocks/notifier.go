package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	auditDomain "github.com/FatihBerkayBahceci/eye-book-sub002/internal/audit/domain"
)

// MockNotifier is a mock implementation of Notifier for testing.
type MockNotifier struct {
	mock.Mock
}

// Notify mocks the Notify method of Notifier.
func (m *MockNotifier) Notify(ctx context.Context, event *auditDomain.Event) {
	m.Called(ctx, event)
}
