// Package mocks provides mock implementations for testing cryptographic services.
package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockKeyWrapper is a mock implementation of KeyWrapper for testing.
type MockKeyWrapper struct {
	mock.Mock
}

// Wrap mocks the Wrap method of KeyWrapper.
func (m *MockKeyWrapper) Wrap(material []byte) ([]byte, error) {
	args := m.Called(material)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// Unwrap mocks the Unwrap method of KeyWrapper.
func (m *MockKeyWrapper) Unwrap(wrapped []byte) ([]byte, error) {
	args := m.Called(wrapped)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
