package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	auditDomain "github.com/FatihBerkayBahceci/eye-book-sub002/internal/audit/domain"
)

// MockAuditUseCase is a mock implementation of AuditUseCase for testing.
type MockAuditUseCase struct {
	mock.Mock
}

// LogEvent mocks the LogEvent method of AuditUseCase.
func (m *MockAuditUseCase) LogEvent(
	ctx context.Context,
	input *auditDomain.LogEventInput,
) (*auditDomain.Event, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auditDomain.Event), args.Error(1)
}

// GetEvent mocks the GetEvent method of AuditUseCase.
func (m *MockAuditUseCase) GetEvent(
	ctx context.Context,
	id uuid.UUID,
) (*auditDomain.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auditDomain.Event), args.Error(1)
}

// ListEvents mocks the ListEvents method of AuditUseCase.
func (m *MockAuditUseCase) ListEvents(
	ctx context.Context,
	input *auditDomain.ListEventsInput,
) ([]*auditDomain.Event, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*auditDomain.Event), args.Error(1)
}

// VerifyIntegrity mocks the VerifyIntegrity method of AuditUseCase.
func (m *MockAuditUseCase) VerifyIntegrity(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// CleanupExpired mocks the CleanupExpired method of AuditUseCase.
func (m *MockAuditUseCase) CleanupExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// Wait mocks the Wait method of AuditUseCase.
func (m *MockAuditUseCase) Wait() {}
