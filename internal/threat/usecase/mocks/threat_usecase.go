package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	auditDomain "github.com/FatihBerkayBahceci/eye-book-sub002/internal/audit/domain"
	threatDomain "github.com/FatihBerkayBahceci/eye-book-sub002/internal/threat/domain"
)

// MockThreatUseCase is a mock implementation of ThreatUseCase for testing.
type MockThreatUseCase struct {
	mock.Mock
}

// CheckAndRegisterAuthAttempt mocks the CheckAndRegisterAuthAttempt method of ThreatUseCase.
func (m *MockThreatUseCase) CheckAndRegisterAuthAttempt(
	ctx context.Context,
	actorID string,
	success bool,
	request auditDomain.RequestContext,
) (*threatDomain.Decision, error) {
	args := m.Called(ctx, actorID, success, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*threatDomain.Decision), args.Error(1)
}

// Status mocks the Status method of ThreatUseCase.
func (m *MockThreatUseCase) Status(
	ctx context.Context,
	actorID string,
) (*threatDomain.Decision, error) {
	args := m.Called(ctx, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*threatDomain.Decision), args.Error(1)
}

// ClearBlacklist mocks the ClearBlacklist method of ThreatUseCase.
func (m *MockThreatUseCase) ClearBlacklist(
	ctx context.Context,
	actorID string,
	request auditDomain.RequestContext,
) error {
	args := m.Called(ctx, actorID, request)
	return args.Error(0)
}

// ListBlacklist mocks the ListBlacklist method of ThreatUseCase.
func (m *MockThreatUseCase) ListBlacklist(
	ctx context.Context,
) ([]*threatDomain.BlacklistEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*threatDomain.BlacklistEntry), args.Error(1)
}

// CleanupStale mocks the CleanupStale method of ThreatUseCase.
func (m *MockThreatUseCase) CleanupStale(
	ctx context.Context,
	olderThan time.Duration,
) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}
