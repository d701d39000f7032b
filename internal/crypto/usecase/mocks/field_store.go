package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/FatihBerkayBahceci/eye-book-sub002/internal/phi"
)

// MockFieldStore is a mock implementation of FieldStore for testing.
type MockFieldStore struct {
	mock.Mock
}

// ListFieldValues mocks the ListFieldValues method of FieldStore.
func (m *MockFieldStore) ListFieldValues(
	ctx context.Context,
	entityType, field string,
) ([]phi.FieldValue, error) {
	args := m.Called(ctx, entityType, field)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]phi.FieldValue), args.Error(1)
}

// UpdateFieldValue mocks the UpdateFieldValue method of FieldStore.
func (m *MockFieldStore) UpdateFieldValue(
	ctx context.Context,
	entityType, field string,
	id int64,
	value string,
) error {
	args := m.Called(ctx, entityType, field, id, value)
	return args.Error(0)
}
