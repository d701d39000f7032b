package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	auditDomain "github.com/FatihBerkayBahceci/eye-book-sub002/internal/audit/domain"
	auditUsecaseMocks "github.com/FatihBerkayBahceci/eye-book-sub002/internal/audit/usecase/mocks"
	"github.com/FatihBerkayBahceci/eye-book-sub002/internal/metrics"
)

// mockBusinessMetrics is a mock implementation of metrics.BusinessMetrics for testing.
type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

var _ metrics.BusinessMetrics = (*mockBusinessMetrics)(nil)

func TestNewAuditUseCaseWithMetrics(t *testing.T) {
	decorator := NewAuditUseCaseWithMetrics(new(auditUsecaseMocks.MockAuditUseCase), &mockBusinessMetrics{})

	assert.NotNil(t, decorator)
	assert.Implements(t, (*AuditUseCase)(nil), decorator)
}

func TestMetricsDecorator_LogEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_RecordsSuccessMetrics", func(t *testing.T) {
		mockUseCase := new(auditUsecaseMocks.MockAuditUseCase)
		mockMetrics := &mockBusinessMetrics{}

		input := &auditDomain.LogEventInput{EventType: auditDomain.EventPHIAccess}
		expected := &auditDomain.Event{ID: uuid.Must(uuid.NewV7())}

		mockUseCase.On("LogEvent", ctx, input).Return(expected, nil).Once()
		mockMetrics.On("RecordOperation", ctx, "audit", "event_log", "success").Return().Once()
		mockMetrics.On("RecordDuration", ctx, "audit", "event_log", mock.AnythingOfType("time.Duration"), "success").
			Return().
			Once()

		decorator := NewAuditUseCaseWithMetrics(mockUseCase, mockMetrics)
		event, err := decorator.LogEvent(ctx, input)

		assert.NoError(t, err)
		assert.Equal(t, expected, event)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("Error_RecordsErrorMetrics", func(t *testing.T) {
		mockUseCase := new(auditUsecaseMocks.MockAuditUseCase)
		mockMetrics := &mockBusinessMetrics{}

		input := &auditDomain.LogEventInput{EventType: auditDomain.EventPHIAccess}

		mockUseCase.On("LogEvent", ctx, input).Return(nil, assert.AnError).Once()
		mockMetrics.On("RecordOperation", ctx, "audit", "event_log", "error").Return().Once()
		mockMetrics.On("RecordDuration", ctx, "audit", "event_log", mock.AnythingOfType("time.Duration"), "error").
			Return().
			Once()

		decorator := NewAuditUseCaseWithMetrics(mockUseCase, mockMetrics)
		event, err := decorator.LogEvent(ctx, input)

		assert.Error(t, err)
		assert.Nil(t, event)
		mockMetrics.AssertExpectations(t)
	})
}

func TestMetricsDecorator_VerifyIntegrity(t *testing.T) {
	ctx := context.Background()

	t.Run("Error_RecordsErrorMetrics", func(t *testing.T) {
		mockUseCase := new(auditUsecaseMocks.MockAuditUseCase)
		mockMetrics := &mockBusinessMetrics{}

		id := uuid.Must(uuid.NewV7())

		mockUseCase.On("VerifyIntegrity", ctx, id).Return(auditDomain.ErrSignatureInvalid).Once()
		mockMetrics.On("RecordOperation", ctx, "audit", "event_verify", "error").Return().Once()
		mockMetrics.On("RecordDuration", ctx, "audit", "event_verify", mock.AnythingOfType("time.Duration"), "error").
			Return().
			Once()

		decorator := NewAuditUseCaseWithMetrics(mockUseCase, mockMetrics)
		err := decorator.VerifyIntegrity(ctx, id)

		assert.ErrorIs(t, err, auditDomain.ErrSignatureInvalid)
		mockMetrics.AssertExpectations(t)
	})
}

func TestMetricsDecorator_CleanupExpired(t *testing.T) {
	ctx := context.Background()

	mockUseCase := new(auditUsecaseMocks.MockAuditUseCase)
	mockMetrics := &mockBusinessMetrics{}

	mockUseCase.On("CleanupExpired", ctx).Return(int64(7), nil).Once()
	mockMetrics.On("RecordOperation", ctx, "audit", "retention_cleanup", "success").Return().Once()
	mockMetrics.On("RecordDuration", ctx, "audit", "retention_cleanup", mock.AnythingOfType("time.Duration"), "success").
		Return().
		Once()

	decorator := NewAuditUseCaseWithMetrics(mockUseCase, mockMetrics)
	count, err := decorator.CleanupExpired(ctx)

	assert.NoError(t, err)
	assert.Equal(t, int64(7), count)
	mockMetrics.AssertExpectations(t)
}
