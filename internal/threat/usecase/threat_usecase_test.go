package usecase

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/FatihBerkayBahceci/eye-book-sub002/internal/audit/domain"
	apperrors "github.com/FatihBerkayBahceci/eye-book-sub002/internal/errors"
	threatDomain "github.com/FatihBerkayBahceci/eye-book-sub002/internal/threat/domain"
	usecaseMocks "github.com/FatihBerkayBahceci/eye-book-sub002/internal/threat/usecase/mocks"
)

var errLockoutNotFound = apperrors.Wrap(apperrors.ErrNotFound, "lockout record not found")

type fixture struct {
	lockoutRepo   *usecaseMocks.MockLockoutRepository
	blacklistRepo *usecaseMocks.MockBlacklistRepository
	events        *usecaseMocks.MockEventLogger
	uc            *threatUseCase
	now           time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		lockoutRepo:   new(usecaseMocks.MockLockoutRepository),
		blacklistRepo: new(usecaseMocks.MockBlacklistRepository),
		events:        new(usecaseMocks.MockEventLogger),
		now:           time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	uc := NewThreatUseCase(
		f.lockoutRepo,
		f.blacklistRepo,
		f.events,
		Config{MaxAttempts: 5, BlacklistThreshold: 10},
		logger,
	)
	f.uc = uc.(*threatUseCase)
	f.uc.now = func() time.Time { return f.now }

	return f
}

func (f *fixture) expectEvent(eventType auditDomain.EventType) {
	f.events.On("LogEvent", mock.Anything, mock.MatchedBy(func(input *auditDomain.LogEventInput) bool {
		return input.EventType == eventType
	})).Return(&auditDomain.Event{}, nil).Once()
}

func TestThreatUseCase_CheckAndRegisterAuthAttempt(t *testing.T) {
	ctx := context.Background()
	request := auditDomain.RequestContext{IPAddress: "203.0.113.9"}

	t.Run("Success_FailureBelowThresholdAllowed", func(t *testing.T) {
		f := newFixture(t)

		f.blacklistRepo.On("Exists", ctx, "user-42").Return(false, nil).Once()
		f.lockoutRepo.On("Get", ctx, "user-42").Return(nil, errLockoutNotFound).Once()
		f.lockoutRepo.On("IncrementFailure", ctx, "user-42", f.now).
			Return(&threatDomain.LockoutRecord{ActorID: "user-42", FailedCount: 3}, nil).Once()
		f.expectEvent(auditDomain.EventLoginFailed)

		decision, err := f.uc.CheckAndRegisterAuthAttempt(ctx, "user-42", false, request)

		require.NoError(t, err)
		assert.True(t, decision.Allowed)
		assert.False(t, decision.Locked)
		assert.False(t, decision.Blacklisted)
	})

	t.Run("Success_FailureAuditedAsHighRisk", func(t *testing.T) {
		f := newFixture(t)

		f.blacklistRepo.On("Exists", ctx, "user-42").Return(false, nil).Once()
		f.lockoutRepo.On("Get", ctx, "user-42").Return(nil, errLockoutNotFound).Once()
		f.lockoutRepo.On("IncrementFailure", ctx, "user-42", f.now).
			Return(&threatDomain.LockoutRecord{ActorID: "user-42", FailedCount: 1}, nil).Once()
		f.events.On("LogEvent", mock.Anything, mock.MatchedBy(func(input *auditDomain.LogEventInput) bool {
			return input.EventType == auditDomain.EventLoginFailed &&
				input.RiskLevel == auditDomain.RiskHigh
		})).Return(&auditDomain.Event{}, nil).Once()

		_, err := f.uc.CheckAndRegisterAuthAttempt(ctx, "user-42", false, request)

		require.NoError(t, err)
		f.events.AssertExpectations(t)
	})

	t.Run("Success_FifthFailureTriggersFirstLockout", func(t *testing.T) {
		f := newFixture(t)

		f.blacklistRepo.On("Exists", ctx, "user-42").Return(false, nil).Once()
		f.lockoutRepo.On("Get", ctx, "user-42").Return(nil, errLockoutNotFound).Once()
		f.lockoutRepo.On("IncrementFailure", ctx, "user-42", f.now).
			Return(&threatDomain.LockoutRecord{ActorID: "user-42", FailedCount: 5}, nil).Once()
		f.lockoutRepo.On("ApplyLockout", ctx, "user-42", f.now.Add(5*time.Minute), f.now).
			Return(nil).Once()
		f.expectEvent(auditDomain.EventLoginFailed)
		f.expectEvent(auditDomain.EventLockoutApplied)

		decision, err := f.uc.CheckAndRegisterAuthAttempt(ctx, "user-42", false, request)

		require.NoError(t, err)
		assert.True(t, decision.Allowed)
		assert.True(t, decision.Locked)
		assert.Equal(t, 5*time.Minute, decision.RetryAfter)
		f.lockoutRepo.AssertExpectations(t)
		f.events.AssertExpectations(t)
	})

	t.Run("Success_SecondLockoutEscalatesDuration", func(t *testing.T) {
		f := newFixture(t)
		f.uc.config.BlacklistThreshold = 100

		f.blacklistRepo.On("Exists", ctx, "user-42").Return(false, nil).Once()
		f.lockoutRepo.On("Get", ctx, "user-42").
			Return(&threatDomain.LockoutRecord{ActorID: "user-42", FailedCount: 9, LockoutCount: 1}, nil).Once()
		f.lockoutRepo.On("IncrementFailure", ctx, "user-42", f.now).
			Return(&threatDomain.LockoutRecord{ActorID: "user-42", FailedCount: 10, LockoutCount: 1}, nil).Once()
		f.lockoutRepo.On("ApplyLockout", ctx, "user-42", f.now.Add(15*time.Minute), f.now).
			Return(nil).Once()
		f.expectEvent(auditDomain.EventLoginFailed)
		f.expectEvent(auditDomain.EventLockoutApplied)

		decision, err := f.uc.CheckAndRegisterAuthAttempt(ctx, "user-42", false, request)

		require.NoError(t, err)
		assert.True(t, decision.Locked)
		assert.Equal(t, 15*time.Minute, decision.RetryAfter)
	})

	t.Run("Success_LockedActorDeniedWithoutCounting", func(t *testing.T) {
		f := newFixture(t)

		until := f.now.Add(3 * time.Minute)
		f.blacklistRepo.On("Exists", ctx, "user-42").Return(false, nil).Once()
		f.lockoutRepo.On("Get", ctx, "user-42").
			Return(&threatDomain.LockoutRecord{ActorID: "user-42", FailedCount: 5, LockedUntil: &until}, nil).Once()
		f.expectEvent(auditDomain.EventLoginFailed)

		decision, err := f.uc.CheckAndRegisterAuthAttempt(ctx, "user-42", false, request)

		require.NoError(t, err)
		assert.False(t, decision.Allowed)
		assert.True(t, decision.Locked)
		assert.Equal(t, 3*time.Minute, decision.RetryAfter)
		f.lockoutRepo.AssertNotCalled(t, "IncrementFailure", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Success_ExpiredLockoutCountsAgain", func(t *testing.T) {
		f := newFixture(t)

		expired := f.now.Add(-time.Minute)
		f.blacklistRepo.On("Exists", ctx, "user-42").Return(false, nil).Once()
		f.lockoutRepo.On("Get", ctx, "user-42").
			Return(&threatDomain.LockoutRecord{ActorID: "user-42", FailedCount: 5, LockoutCount: 1, LockedUntil: &expired}, nil).Once()
		f.lockoutRepo.On("IncrementFailure", ctx, "user-42", f.now).
			Return(&threatDomain.LockoutRecord{ActorID: "user-42", FailedCount: 6, LockoutCount: 1, LockedUntil: &expired}, nil).Once()
		f.expectEvent(auditDomain.EventLoginFailed)

		decision, err := f.uc.CheckAndRegisterAuthAttempt(ctx, "user-42", false, request)

		require.NoError(t, err)
		assert.True(t, decision.Allowed)
		assert.False(t, decision.Locked)
	})

	t.Run("Success_TenthFailureBlacklists", func(t *testing.T) {
		f := newFixture(t)

		f.blacklistRepo.On("Exists", ctx, "user-42").Return(false, nil).Once()
		f.lockoutRepo.On("Get", ctx, "user-42").
			Return(&threatDomain.LockoutRecord{ActorID: "user-42", FailedCount: 9, LockoutCount: 1}, nil).Once()
		f.lockoutRepo.On("IncrementFailure", ctx, "user-42", f.now).
			Return(&threatDomain.LockoutRecord{ActorID: "user-42", FailedCount: 10, LockoutCount: 1}, nil).Once()
		f.blacklistRepo.On("Add", ctx, mock.MatchedBy(func(entry *threatDomain.BlacklistEntry) bool {
			return entry.ActorID == "user-42" && entry.Reason == "exceeded failure threshold"
		})).Return(nil).Once()
		f.expectEvent(auditDomain.EventLoginFailed)
		f.expectEvent(auditDomain.EventBlacklistApplied)

		decision, err := f.uc.CheckAndRegisterAuthAttempt(ctx, "user-42", false, request)

		require.NoError(t, err)
		assert.True(t, decision.Allowed)
		assert.True(t, decision.Blacklisted)

		// The cumulative threshold wins over the same-attempt lockout.
		f.lockoutRepo.AssertNotCalled(t, "ApplyLockout", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.blacklistRepo.AssertExpectations(t)
	})

	t.Run("Success_BlacklistedActorDenied", func(t *testing.T) {
		f := newFixture(t)

		f.blacklistRepo.On("Exists", ctx, "user-42").Return(true, nil).Once()
		f.expectEvent(auditDomain.EventLoginFailed)

		decision, err := f.uc.CheckAndRegisterAuthAttempt(ctx, "user-42", false, request)

		require.NoError(t, err)
		assert.False(t, decision.Allowed)
		assert.True(t, decision.Blacklisted)
		f.lockoutRepo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})

	t.Run("Success_SuccessfulLoginResetsCounter", func(t *testing.T) {
		f := newFixture(t)

		f.blacklistRepo.On("Exists", ctx, "user-42").Return(false, nil).Once()
		f.lockoutRepo.On("Get", ctx, "user-42").
			Return(&threatDomain.LockoutRecord{ActorID: "user-42", FailedCount: 4}, nil).Once()
		f.lockoutRepo.On("Reset", ctx, "user-42").Return(nil).Once()
		f.expectEvent(auditDomain.EventLoginSuccess)

		decision, err := f.uc.CheckAndRegisterAuthAttempt(ctx, "user-42", true, request)

		require.NoError(t, err)
		assert.True(t, decision.Allowed)
		f.lockoutRepo.AssertExpectations(t)
	})

	t.Run("Success_AuditFailureDoesNotBlockDecision", func(t *testing.T) {
		f := newFixture(t)

		f.blacklistRepo.On("Exists", ctx, "user-42").Return(false, nil).Once()
		f.lockoutRepo.On("Get", ctx, "user-42").Return(nil, errLockoutNotFound).Once()
		f.lockoutRepo.On("IncrementFailure", ctx, "user-42", f.now).
			Return(&threatDomain.LockoutRecord{ActorID: "user-42", FailedCount: 1}, nil).Once()
		f.events.On("LogEvent", mock.Anything, mock.Anything).
			Return(nil, assert.AnError).Once()

		decision, err := f.uc.CheckAndRegisterAuthAttempt(ctx, "user-42", false, request)

		require.NoError(t, err)
		assert.True(t, decision.Allowed)
	})
}

func TestThreatUseCase_Status(t *testing.T) {
	ctx := context.Background()

	t.Run("Allowed_NoRecord", func(t *testing.T) {
		f := newFixture(t)

		f.blacklistRepo.On("Exists", ctx, "user-42").Return(false, nil).Once()
		f.lockoutRepo.On("Get", ctx, "user-42").Return(nil, errLockoutNotFound).Once()

		decision, err := f.uc.Status(ctx, "user-42")

		require.NoError(t, err)
		assert.True(t, decision.Allowed)
	})

	t.Run("Locked", func(t *testing.T) {
		f := newFixture(t)

		until := f.now.Add(time.Hour)
		f.blacklistRepo.On("Exists", ctx, "user-42").Return(false, nil).Once()
		f.lockoutRepo.On("Get", ctx, "user-42").
			Return(&threatDomain.LockoutRecord{ActorID: "user-42", LockedUntil: &until}, nil).Once()

		decision, err := f.uc.Status(ctx, "user-42")

		require.NoError(t, err)
		assert.False(t, decision.Allowed)
		assert.True(t, decision.Locked)
		assert.Equal(t, time.Hour, decision.RetryAfter)
	})

	t.Run("Blacklisted", func(t *testing.T) {
		f := newFixture(t)

		f.blacklistRepo.On("Exists", ctx, "user-42").Return(true, nil).Once()

		decision, err := f.uc.Status(ctx, "user-42")

		require.NoError(t, err)
		assert.False(t, decision.Allowed)
		assert.True(t, decision.Blacklisted)
	})
}

func TestThreatUseCase_ClearBlacklist(t *testing.T) {
	ctx := context.Background()
	request := auditDomain.RequestContext{ActorID: "operator-1"}

	t.Run("Success", func(t *testing.T) {
		f := newFixture(t)

		f.blacklistRepo.On("Remove", ctx, "user-42").Return(nil).Once()
		f.lockoutRepo.On("Reset", ctx, "user-42").Return(nil).Once()
		f.expectEvent(auditDomain.EventBlacklistCleared)

		assert.NoError(t, f.uc.ClearBlacklist(ctx, "user-42", request))
		f.lockoutRepo.AssertExpectations(t)
		f.events.AssertExpectations(t)
	})

	t.Run("Error_NotBlacklisted", func(t *testing.T) {
		f := newFixture(t)

		f.blacklistRepo.On("Remove", ctx, "ghost").
			Return(threatDomain.ErrNotBlacklisted).Once()

		err := f.uc.ClearBlacklist(ctx, "ghost", request)

		assert.ErrorIs(t, err, threatDomain.ErrNotBlacklisted)
		f.lockoutRepo.AssertNotCalled(t, "Reset", mock.Anything, mock.Anything)
	})
}

func TestThreatUseCase_CleanupStale(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	cutoff := f.now.Add(-30 * 24 * time.Hour)
	f.lockoutRepo.On("DeleteStale", ctx, cutoff).Return(int64(12), nil).Once()

	count, err := f.uc.CleanupStale(ctx, 30*24*time.Hour)

	assert.NoError(t, err)
	assert.Equal(t, int64(12), count)
}
