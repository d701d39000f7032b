package usecase

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/FatihBerkayBahceci/eye-book-sub002/internal/audit/domain"
	auditService "github.com/FatihBerkayBahceci/eye-book-sub002/internal/audit/service"
	usecaseMocks "github.com/FatihBerkayBahceci/eye-book-sub002/internal/audit/usecase/mocks"
	databaseMocks "github.com/FatihBerkayBahceci/eye-book-sub002/internal/database/mocks"
)

func testConfig() Config {
	return Config{
		RetentionDays:              2555,
		PatternRepeatThreshold:     20,
		PatternDistinctIPThreshold: 5,
	}
}

func testSigner(t *testing.T) auditService.IntegritySigner {
	t.Helper()

	secret := make([]byte, 32)
	_, err := rand.Read(secret)
	require.NoError(t, err)

	signer, err := auditService.NewIntegritySigner(base64.StdEncoding.EncodeToString(secret))
	require.NoError(t, err)
	return signer
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestUseCase(
	t *testing.T,
	txManager *databaseMocks.MockTxManager,
	repo *usecaseMocks.MockAuditEventRepository,
	notifier Notifier,
) (*auditUseCase, auditService.IntegritySigner) {
	t.Helper()

	signer := testSigner(t)
	uc := NewAuditUseCase(txManager, repo, signer, notifier, testConfig(), discardLogger())
	return uc.(*auditUseCase), signer
}

// expectQuietPatterns stubs the background count queries to report activity
// below every threshold.
func expectQuietPatterns(
	repo *usecaseMocks.MockAuditEventRepository,
	eventType auditDomain.EventType,
	actorID string,
) {
	repo.On("CountByTypeAndActorSince", mock.Anything, eventType, actorID, mock.Anything).
		Return(int64(1), nil).Once()
	repo.On("CountDistinctIPsByActorSince", mock.Anything, actorID, mock.Anything).
		Return(int64(1), nil).Once()
	repo.On("CountByTypeAndActorSince", mock.Anything, auditDomain.EventSuspiciousActivity, actorID, mock.Anything).
		Return(int64(0), nil).Once()
}

func TestAuditUseCase_LogEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_SignsAndPersists", func(t *testing.T) {
		mockTxManager := new(databaseMocks.MockTxManager)
		mockRepo := new(usecaseMocks.MockAuditEventRepository)

		var created *auditDomain.Event
		mockRepo.On("Create", ctx, mock.Anything).Run(func(args mock.Arguments) {
			created = args.Get(1).(*auditDomain.Event)
		}).Return(nil).Once()
		expectQuietPatterns(mockRepo, auditDomain.EventPHIAccess, "user-42")

		uc, signer := newTestUseCase(t, mockTxManager, mockRepo, nil)

		event, err := uc.LogEvent(ctx, &auditDomain.LogEventInput{
			EventType: auditDomain.EventPHIAccess,
			Request: auditDomain.RequestContext{
				ActorID:   "user-42",
				IPAddress: "203.0.113.9",
			},
			ResourceType: "patients",
			ResourceID:   "17",
			Details:      map[string]any{"fields": "email"},
		})
		uc.Wait()

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, event.ID)
		assert.Equal(t, auditDomain.RiskLow, event.RiskLevel)
		assert.NotEmpty(t, event.Signature)

		// The persisted event carries a valid signature.
		require.NotNil(t, created)
		assert.NoError(t, signer.Verify(created))
	})

	t.Run("Success_HighRiskTriggersNotification", func(t *testing.T) {
		mockTxManager := new(databaseMocks.MockTxManager)
		mockRepo := new(usecaseMocks.MockAuditEventRepository)
		mockNotifier := new(usecaseMocks.MockNotifier)

		mockRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		expectQuietPatterns(mockRepo, auditDomain.EventLockoutApplied, "user-42")
		mockNotifier.On("Notify", ctx, mock.MatchedBy(func(event *auditDomain.Event) bool {
			return event.EventType == auditDomain.EventLockoutApplied
		})).Once()

		uc, _ := newTestUseCase(t, mockTxManager, mockRepo, mockNotifier)

		_, err := uc.LogEvent(ctx, &auditDomain.LogEventInput{
			EventType: auditDomain.EventLockoutApplied,
			Request:   auditDomain.RequestContext{ActorID: "user-42"},
			RiskLevel: auditDomain.RiskHigh,
		})
		uc.Wait()

		require.NoError(t, err)
		mockNotifier.AssertExpectations(t)
	})

	t.Run("Success_RepeatedEventsRecordSuspiciousActivity", func(t *testing.T) {
		mockTxManager := new(databaseMocks.MockTxManager)
		mockRepo := new(usecaseMocks.MockAuditEventRepository)
		mockNotifier := new(usecaseMocks.MockNotifier)

		var types []auditDomain.EventType
		mockRepo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			types = append(types, args.Get(1).(*auditDomain.Event).EventType)
		}).Return(nil).Twice()
		mockRepo.On("CountByTypeAndActorSince", mock.Anything, auditDomain.EventLoginFailed, "user-42", mock.Anything).
			Return(int64(20), nil).Once()
		mockRepo.On("CountDistinctIPsByActorSince", mock.Anything, "user-42", mock.Anything).
			Return(int64(1), nil).Once()
		mockRepo.On("CountByTypeAndActorSince", mock.Anything, auditDomain.EventSuspiciousActivity, "user-42", mock.Anything).
			Return(int64(0), nil).Once()
		mockNotifier.On("Notify", mock.Anything, mock.MatchedBy(func(event *auditDomain.Event) bool {
			return event.EventType == auditDomain.EventSuspiciousActivity &&
				event.RiskLevel == auditDomain.RiskHigh
		})).Once()

		uc, _ := newTestUseCase(t, mockTxManager, mockRepo, mockNotifier)

		_, err := uc.LogEvent(ctx, &auditDomain.LogEventInput{
			EventType: auditDomain.EventLoginFailed,
			Request:   auditDomain.RequestContext{ActorID: "user-42", IPAddress: "203.0.113.9"},
			RiskLevel: auditDomain.RiskMedium,
		})
		uc.Wait()

		require.NoError(t, err)
		assert.Equal(t, []auditDomain.EventType{
			auditDomain.EventLoginFailed,
			auditDomain.EventSuspiciousActivity,
		}, types)
		mockNotifier.AssertExpectations(t)
	})

	t.Run("Success_DistinctIPThresholdRecordsSuspiciousActivity", func(t *testing.T) {
		mockTxManager := new(databaseMocks.MockTxManager)
		mockRepo := new(usecaseMocks.MockAuditEventRepository)
		mockNotifier := new(usecaseMocks.MockNotifier)

		mockRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Twice()
		mockRepo.On("CountByTypeAndActorSince", mock.Anything, auditDomain.EventPHIAccess, "user-42", mock.Anything).
			Return(int64(3), nil).Once()
		mockRepo.On("CountDistinctIPsByActorSince", mock.Anything, "user-42", mock.Anything).
			Return(int64(5), nil).Once()
		mockRepo.On("CountByTypeAndActorSince", mock.Anything, auditDomain.EventSuspiciousActivity, "user-42", mock.Anything).
			Return(int64(0), nil).Once()
		mockNotifier.On("Notify", mock.Anything, mock.Anything).Once()

		uc, _ := newTestUseCase(t, mockTxManager, mockRepo, mockNotifier)

		_, err := uc.LogEvent(ctx, &auditDomain.LogEventInput{
			EventType: auditDomain.EventPHIAccess,
			Request:   auditDomain.RequestContext{ActorID: "user-42", IPAddress: "198.51.100.7"},
		})
		uc.Wait()

		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Success_CountPastThresholdStillFlagged", func(t *testing.T) {
		mockTxManager := new(databaseMocks.MockTxManager)
		mockRepo := new(usecaseMocks.MockAuditEventRepository)
		mockNotifier := new(usecaseMocks.MockNotifier)

		// Concurrent writes can skip past the exact threshold value; any
		// count at or above it raises the finding.
		mockRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Twice()
		mockRepo.On("CountByTypeAndActorSince", mock.Anything, auditDomain.EventLoginFailed, "user-42", mock.Anything).
			Return(int64(23), nil).Once()
		mockRepo.On("CountDistinctIPsByActorSince", mock.Anything, "user-42", mock.Anything).
			Return(int64(1), nil).Once()
		mockRepo.On("CountByTypeAndActorSince", mock.Anything, auditDomain.EventSuspiciousActivity, "user-42", mock.Anything).
			Return(int64(0), nil).Once()
		mockNotifier.On("Notify", mock.Anything, mock.MatchedBy(func(event *auditDomain.Event) bool {
			return event.EventType == auditDomain.EventSuspiciousActivity
		})).Once()

		uc, _ := newTestUseCase(t, mockTxManager, mockRepo, mockNotifier)

		_, err := uc.LogEvent(ctx, &auditDomain.LogEventInput{
			EventType: auditDomain.EventLoginFailed,
			Request:   auditDomain.RequestContext{ActorID: "user-42"},
			RiskLevel: auditDomain.RiskHigh,
		})
		uc.Wait()

		require.NoError(t, err)
		mockNotifier.AssertExpectations(t)
	})

	t.Run("Success_RecentFindingNotRepeated", func(t *testing.T) {
		mockTxManager := new(databaseMocks.MockTxManager)
		mockRepo := new(usecaseMocks.MockAuditEventRepository)
		mockNotifier := new(usecaseMocks.MockNotifier)

		mockRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		mockRepo.On("CountByTypeAndActorSince", mock.Anything, auditDomain.EventLoginFailed, "user-42", mock.Anything).
			Return(int64(23), nil).Once()
		mockRepo.On("CountDistinctIPsByActorSince", mock.Anything, "user-42", mock.Anything).
			Return(int64(1), nil).Once()
		mockRepo.On("CountByTypeAndActorSince", mock.Anything, auditDomain.EventSuspiciousActivity, "user-42", mock.Anything).
			Return(int64(1), nil).Once()

		uc, _ := newTestUseCase(t, mockTxManager, mockRepo, mockNotifier)

		_, err := uc.LogEvent(ctx, &auditDomain.LogEventInput{
			EventType: auditDomain.EventLoginFailed,
			Request:   auditDomain.RequestContext{ActorID: "user-42"},
		})
		uc.Wait()

		require.NoError(t, err)
		mockRepo.AssertNumberOfCalls(t, "Create", 1)
		mockNotifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
	})

	t.Run("Success_SlowAnalysisDoesNotDelayWrite", func(t *testing.T) {
		mockTxManager := new(databaseMocks.MockTxManager)
		mockRepo := new(usecaseMocks.MockAuditEventRepository)

		release := make(chan struct{})
		mockRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		mockRepo.On("CountByTypeAndActorSince", mock.Anything, auditDomain.EventPHIAccess, "user-42", mock.Anything).
			Run(func(mock.Arguments) { <-release }).
			Return(int64(1), nil).Once()
		mockRepo.On("CountDistinctIPsByActorSince", mock.Anything, "user-42", mock.Anything).
			Return(int64(1), nil).Once()
		mockRepo.On("CountByTypeAndActorSince", mock.Anything, auditDomain.EventSuspiciousActivity, "user-42", mock.Anything).
			Return(int64(0), nil).Once()

		uc, _ := newTestUseCase(t, mockTxManager, mockRepo, nil)

		// The write returns while the repeat count query is still held open.
		event, err := uc.LogEvent(ctx, &auditDomain.LogEventInput{
			EventType: auditDomain.EventPHIAccess,
			Request:   auditDomain.RequestContext{ActorID: "user-42"},
		})

		require.NoError(t, err)
		assert.NotEmpty(t, event.Signature)

		close(release)
		uc.Wait()
	})

	t.Run("Success_NoAnalysisWithoutActor", func(t *testing.T) {
		mockTxManager := new(databaseMocks.MockTxManager)
		mockRepo := new(usecaseMocks.MockAuditEventRepository)

		mockRepo.On("Create", ctx, mock.Anything).Return(nil).Once()

		uc, _ := newTestUseCase(t, mockTxManager, mockRepo, nil)

		_, err := uc.LogEvent(ctx, &auditDomain.LogEventInput{
			EventType: auditDomain.EventKeyRotated,
		})
		uc.Wait()

		require.NoError(t, err)
		mockRepo.AssertNotCalled(t, "CountByTypeAndActorSince", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Error_RepositoryCreateFails", func(t *testing.T) {
		mockTxManager := new(databaseMocks.MockTxManager)
		mockRepo := new(usecaseMocks.MockAuditEventRepository)

		expectedErr := errors.New("database error")
		mockRepo.On("Create", ctx, mock.Anything).Return(expectedErr).Once()

		uc, _ := newTestUseCase(t, mockTxManager, mockRepo, nil)

		event, err := uc.LogEvent(ctx, &auditDomain.LogEventInput{
			EventType: auditDomain.EventPHIAccess,
		})

		assert.Nil(t, event)
		assert.ErrorIs(t, err, expectedErr)
	})
}

func TestAuditUseCase_VerifyIntegrity(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_ValidSignature", func(t *testing.T) {
		mockTxManager := new(databaseMocks.MockTxManager)
		mockRepo := new(usecaseMocks.MockAuditEventRepository)

		uc, signer := newTestUseCase(t, mockTxManager, mockRepo, nil)

		event := &auditDomain.Event{
			ID:        uuid.Must(uuid.NewV7()),
			EventType: auditDomain.EventPHIAccess,
			RiskLevel: auditDomain.RiskLow,
			CreatedAt: time.Now().UTC(),
		}
		signature, err := signer.Sign(event)
		require.NoError(t, err)
		event.Signature = signature

		mockRepo.On("GetByID", ctx, event.ID).Return(event, nil).Once()

		assert.NoError(t, uc.VerifyIntegrity(ctx, event.ID))
	})

	t.Run("Error_TamperedEventRecordsCriticalFinding", func(t *testing.T) {
		mockTxManager := new(databaseMocks.MockTxManager)
		mockRepo := new(usecaseMocks.MockAuditEventRepository)
		mockNotifier := new(usecaseMocks.MockNotifier)

		uc, signer := newTestUseCase(t, mockTxManager, mockRepo, mockNotifier)

		event := &auditDomain.Event{
			ID:        uuid.Must(uuid.NewV7()),
			EventType: auditDomain.EventPHIAccess,
			Request:   auditDomain.RequestContext{ActorID: "user-42"},
			RiskLevel: auditDomain.RiskLow,
			CreatedAt: time.Now().UTC(),
		}
		signature, err := signer.Sign(event)
		require.NoError(t, err)
		event.Signature = signature
		event.ResourceID = "tampered"

		mockRepo.On("GetByID", ctx, event.ID).Return(event, nil).Once()
		mockRepo.On("Create", ctx, mock.MatchedBy(func(e *auditDomain.Event) bool {
			return e.EventType == auditDomain.EventIntegrityFailed &&
				e.RiskLevel == auditDomain.RiskCritical &&
				e.ResourceID == event.ID.String()
		})).Return(nil).Once()
		mockNotifier.On("Notify", ctx, mock.Anything).Once()

		err = uc.VerifyIntegrity(ctx, event.ID)

		assert.ErrorIs(t, err, auditDomain.ErrSignatureInvalid)
		mockRepo.AssertExpectations(t)
		mockNotifier.AssertExpectations(t)
	})

	t.Run("Error_EventNotFound", func(t *testing.T) {
		mockTxManager := new(databaseMocks.MockTxManager)
		mockRepo := new(usecaseMocks.MockAuditEventRepository)

		uc, _ := newTestUseCase(t, mockTxManager, mockRepo, nil)

		id := uuid.Must(uuid.NewV7())
		mockRepo.On("GetByID", ctx, id).Return(nil, auditDomain.ErrEventNotFound).Once()

		assert.ErrorIs(t, uc.VerifyIntegrity(ctx, id), auditDomain.ErrEventNotFound)
	})
}

func TestAuditUseCase_ListEvents(t *testing.T) {
	ctx := context.Background()

	mockTxManager := new(databaseMocks.MockTxManager)
	mockRepo := new(usecaseMocks.MockAuditEventRepository)

	mockRepo.On("List", ctx, mock.MatchedBy(func(input *auditDomain.ListEventsInput) bool {
		return input.Limit == defaultListLimit
	})).Return([]*auditDomain.Event{}, nil).Once()

	uc, _ := newTestUseCase(t, mockTxManager, mockRepo, nil)

	events, err := uc.ListEvents(ctx, &auditDomain.ListEventsInput{})

	assert.NoError(t, err)
	assert.Empty(t, events)
	mockRepo.AssertExpectations(t)
}

func TestAuditUseCase_CleanupExpired(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_DeletesAndWritesSummaryAtomically", func(t *testing.T) {
		mockTxManager := new(databaseMocks.MockTxManager)
		mockRepo := new(usecaseMocks.MockAuditEventRepository)

		mockTxManager.On("WithTx", ctx, mock.AnythingOfType("func(context.Context) error")).
			Run(func(args mock.Arguments) {
				fn := args.Get(1).(func(context.Context) error)
				_ = fn(ctx)
			}).Return(nil).Once()
		mockRepo.On("DeleteOlderThan", ctx, mock.Anything).Return(int64(321), nil).Once()
		mockRepo.On("Create", ctx, mock.MatchedBy(func(event *auditDomain.Event) bool {
			return event.EventType == auditDomain.EventRetentionCleanup &&
				event.Details["deleted"] == int64(321)
		})).Return(nil).Once()

		uc, _ := newTestUseCase(t, mockTxManager, mockRepo, nil)

		deleted, err := uc.CleanupExpired(ctx)

		assert.NoError(t, err)
		assert.Equal(t, int64(321), deleted)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Error_DeleteFailsRollsBack", func(t *testing.T) {
		mockTxManager := new(databaseMocks.MockTxManager)
		mockRepo := new(usecaseMocks.MockAuditEventRepository)

		expectedErr := errors.New("database error")
		mockTxManager.On("WithTx", ctx, mock.AnythingOfType("func(context.Context) error")).
			Run(func(args mock.Arguments) {
				fn := args.Get(1).(func(context.Context) error)
				_ = fn(ctx)
			}).Return(expectedErr).Once()
		mockRepo.On("DeleteOlderThan", ctx, mock.Anything).Return(int64(0), expectedErr).Once()

		uc, _ := newTestUseCase(t, mockTxManager, mockRepo, nil)

		deleted, err := uc.CleanupExpired(ctx)

		assert.Zero(t, deleted)
		assert.ErrorIs(t, err, expectedErr)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}
