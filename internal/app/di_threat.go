package app

import (
	"fmt"

	threatHTTP "github.com/FatihBerkayBahceci/eye-book-sub002/internal/threat/http"
	threatRepository "github.com/FatihBerkayBahceci/eye-book-sub002/internal/threat/repository"
	threatUsecase "github.com/FatihBerkayBahceci/eye-book-sub002/internal/threat/usecase"
)

// LockoutRepository returns the lockout record repository instance.
func (c *Container) LockoutRepository() (threatUsecase.LockoutRepository, error) {
	var err error
	c.lockoutRepoInit.Do(func() {
		c.lockoutRepo, err = c.initLockoutRepository()
		if err != nil {
			c.initErrors["lockoutRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["lockoutRepo"]; exists {
		return nil, storedErr
	}
	return c.lockoutRepo, nil
}

// BlacklistRepository returns the blacklist repository instance.
func (c *Container) BlacklistRepository() (threatUsecase.BlacklistRepository, error) {
	var err error
	c.blacklistRepoInit.Do(func() {
		c.blacklistRepo, err = c.initBlacklistRepository()
		if err != nil {
			c.initErrors["blacklistRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["blacklistRepo"]; exists {
		return nil, storedErr
	}
	return c.blacklistRepo, nil
}

// ThreatUseCase returns the brute-force protection use case instance.
func (c *Container) ThreatUseCase() (threatUsecase.ThreatUseCase, error) {
	var err error
	c.threatUseCaseInit.Do(func() {
		c.threatUseCase, err = c.initThreatUseCase()
		if err != nil {
			c.initErrors["threatUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["threatUseCase"]; exists {
		return nil, storedErr
	}
	return c.threatUseCase, nil
}

// ThreatHandler returns the threat protection HTTP handler instance.
func (c *Container) ThreatHandler() (*threatHTTP.ThreatHandler, error) {
	var err error
	c.threatHandlerInit.Do(func() {
		c.threatHandler, err = c.initThreatHandler()
		if err != nil {
			c.initErrors["threatHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["threatHandler"]; exists {
		return nil, storedErr
	}
	return c.threatHandler, nil
}

// initLockoutRepository creates the lockout record repository instance.
func (c *Container) initLockoutRepository() (threatUsecase.LockoutRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for lockout repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return threatRepository.NewPostgreSQLLockoutRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initBlacklistRepository creates the blacklist repository instance.
func (c *Container) initBlacklistRepository() (threatUsecase.BlacklistRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for blacklist repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return threatRepository.NewPostgreSQLBlacklistRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initThreatUseCase creates the threat use case with all its dependencies.
func (c *Container) initThreatUseCase() (threatUsecase.ThreatUseCase, error) {
	lockoutRepo, err := c.LockoutRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get lockout repository for threat use case: %w", err)
	}

	blacklistRepo, err := c.BlacklistRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get blacklist repository for threat use case: %w", err)
	}

	auditUseCase, err := c.AuditUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit use case for threat use case: %w", err)
	}

	useCaseConfig := threatUsecase.Config{
		MaxAttempts:        c.config.LockoutMaxAttempts,
		BlacklistThreshold: c.config.BlacklistThreshold,
	}

	baseUseCase := threatUsecase.NewThreatUseCase(
		lockoutRepo,
		blacklistRepo,
		auditUseCase,
		useCaseConfig,
		c.Logger(),
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for threat use case: %w", err)
		}
		return threatUsecase.NewThreatUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initThreatHandler creates the threat HTTP handler with all its dependencies.
func (c *Container) initThreatHandler() (*threatHTTP.ThreatHandler, error) {
	threatUseCase, err := c.ThreatUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get threat use case for threat handler: %w", err)
	}

	return threatHTTP.NewThreatHandler(threatUseCase, c.Logger()), nil
}
