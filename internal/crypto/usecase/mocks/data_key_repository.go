// Package mocks provides mock implementations for testing key lifecycle use cases.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	cryptoDomain "github.com/FatihBerkayBahceci/eye-book-sub002/internal/crypto/domain"
)

// MockDataKeyRepository is a mock implementation of DataKeyRepository for testing.
type MockDataKeyRepository struct {
	mock.Mock
}

// Create mocks the Create method of DataKeyRepository.
func (m *MockDataKeyRepository) Create(ctx context.Context, key *cryptoDomain.DataKey) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// GetActive mocks the GetActive method of DataKeyRepository.
func (m *MockDataKeyRepository) GetActive(ctx context.Context) (*cryptoDomain.DataKey, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cryptoDomain.DataKey), args.Error(1)
}

// GetPending mocks the GetPending method of DataKeyRepository.
func (m *MockDataKeyRepository) GetPending(ctx context.Context) (*cryptoDomain.DataKey, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cryptoDomain.DataKey), args.Error(1)
}

// UpdateStatus mocks the UpdateStatus method of DataKeyRepository.
func (m *MockDataKeyRepository) UpdateStatus(
	ctx context.Context,
	version int,
	status cryptoDomain.KeyStatus,
) error {
	args := m.Called(ctx, version, status)
	return args.Error(0)
}

// Delete mocks the Delete method of DataKeyRepository.
func (m *MockDataKeyRepository) Delete(ctx context.Context, version int) error {
	args := m.Called(ctx, version)
	return args.Error(0)
}

// DeleteByStatus mocks the DeleteByStatus method of DataKeyRepository.
func (m *MockDataKeyRepository) DeleteByStatus(
	ctx context.Context,
	status cryptoDomain.KeyStatus,
) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}
