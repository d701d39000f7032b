package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	threatDomain "github.com/FatihBerkayBahceci/eye-book-sub002/internal/threat/domain"
)

// MockBlacklistRepository is a mock implementation of BlacklistRepository for testing.
type MockBlacklistRepository struct {
	mock.Mock
}

// Add mocks the Add method of BlacklistRepository.
func (m *MockBlacklistRepository) Add(
	ctx context.Context,
	entry *threatDomain.BlacklistEntry,
) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// Exists mocks the Exists method of BlacklistRepository.
func (m *MockBlacklistRepository) Exists(ctx context.Context, actorID string) (bool, error) {
	args := m.Called(ctx, actorID)
	return args.Bool(0), args.Error(1)
}

// Remove mocks the Remove method of BlacklistRepository.
func (m *MockBlacklistRepository) Remove(ctx context.Context, actorID string) error {
	args := m.Called(ctx, actorID)
	return args.Error(0)
}

// List mocks the List method of BlacklistRepository.
func (m *MockBlacklistRepository) List(
	ctx context.Context,
) ([]*threatDomain.BlacklistEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*threatDomain.BlacklistEntry), args.Error(1)
}
