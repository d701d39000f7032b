package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	auditDomain "github.com/FatihBerkayBahceci/eye-book-sub002/internal/audit/domain"
)

// MockEventLogger is a mock implementation of EventLogger for testing.
type MockEventLogger struct {
	mock.Mock
}

// LogEvent mocks the LogEvent method of EventLogger.
func (m *MockEventLogger) LogEvent(
	ctx context.Context,
	input *auditDomain.LogEventInput,
) (*auditDomain.Event, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auditDomain.Event), args.Error(1)
}
