package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	cryptoDomain "github.com/FatihBerkayBahceci/eye-book-sub002/internal/crypto/domain"
)

// MockRotationAuditor is a mock implementation of RotationAuditor for testing.
type MockRotationAuditor struct {
	mock.Mock
}

// RecordKeyRotation mocks the RecordKeyRotation method of RotationAuditor.
func (m *MockRotationAuditor) RecordKeyRotation(
	ctx context.Context,
	result *cryptoDomain.RotationResult,
) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}
