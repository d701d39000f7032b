// Package mocks provides mock implementations for testing threat use cases.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	threatDomain "github.com/FatihBerkayBahceci/eye-book-sub002/internal/threat/domain"
)

// MockLockoutRepository is a mock implementation of LockoutRepository for testing.
type MockLockoutRepository struct {
	mock.Mock
}

// IncrementFailure mocks the IncrementFailure method of LockoutRepository.
func (m *MockLockoutRepository) IncrementFailure(
	ctx context.Context,
	actorID string,
	now time.Time,
) (*threatDomain.LockoutRecord, error) {
	args := m.Called(ctx, actorID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*threatDomain.LockoutRecord), args.Error(1)
}

// ApplyLockout mocks the ApplyLockout method of LockoutRepository.
func (m *MockLockoutRepository) ApplyLockout(
	ctx context.Context,
	actorID string,
	until, now time.Time,
) error {
	args := m.Called(ctx, actorID, until, now)
	return args.Error(0)
}

// Get mocks the Get method of LockoutRepository.
func (m *MockLockoutRepository) Get(
	ctx context.Context,
	actorID string,
) (*threatDomain.LockoutRecord, error) {
	args := m.Called(ctx, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*threatDomain.LockoutRecord), args.Error(1)
}

// Reset mocks the Reset method of LockoutRepository.
func (m *MockLockoutRepository) Reset(ctx context.Context, actorID string) error {
	args := m.Called(ctx, actorID)
	return args.Error(0)
}

// DeleteStale mocks the DeleteStale method of LockoutRepository.
func (m *MockLockoutRepository) DeleteStale(
	ctx context.Context,
	cutoff time.Time,
) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}
