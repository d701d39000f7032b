// Package mocks provides mock implementations for testing audit use cases.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	auditDomain "github.com/FatihBerkayBahceci/eye-book-sub002/internal/audit/domain"
)

// MockAuditEventRepository is a mock implementation of AuditEventRepository for testing.
type MockAuditEventRepository struct {
	mock.Mock
}

// Create mocks the Create method of AuditEventRepository.
func (m *MockAuditEventRepository) Create(ctx context.Context, event *auditDomain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// GetByID mocks the GetByID method of AuditEventRepository.
func (m *MockAuditEventRepository) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*auditDomain.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auditDomain.Event), args.Error(1)
}

// List mocks the List method of AuditEventRepository.
func (m *MockAuditEventRepository) List(
	ctx context.Context,
	input *auditDomain.ListEventsInput,
) ([]*auditDomain.Event, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*auditDomain.Event), args.Error(1)
}

// CountByTypeAndActorSince mocks the CountByTypeAndActorSince method of AuditEventRepository.
func (m *MockAuditEventRepository) CountByTypeAndActorSince(
	ctx context.Context,
	eventType auditDomain.EventType,
	actorID string,
	since time.Time,
) (int64, error) {
	args := m.Called(ctx, eventType, actorID, since)
	return args.Get(0).(int64), args.Error(1)
}

// CountDistinctIPsByActorSince mocks the CountDistinctIPsByActorSince method of AuditEventRepository.
func (m *MockAuditEventRepository) CountDistinctIPsByActorSince(
	ctx context.Context,
	actorID string,
	since time.Time,
) (int64, error) {
	args := m.Called(ctx, actorID, since)
	return args.Get(0).(int64), args.Error(1)
}

// DeleteOlderThan mocks the DeleteOlderThan method of AuditEventRepository.
func (m *MockAuditEventRepository) DeleteOlderThan(
	ctx context.Context,
	cutoff time.Time,
) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}
