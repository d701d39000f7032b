package app

import (
	"fmt"

	auditHTTP "github.com/FatihBerkayBahceci/eye-book-sub002/internal/audit/http"
	auditRepository "github.com/FatihBerkayBahceci/eye-book-sub002/internal/audit/repository"
	auditService "github.com/FatihBerkayBahceci/eye-book-sub002/internal/audit/service"
	auditUsecase "github.com/FatihBerkayBahceci/eye-book-sub002/internal/audit/usecase"
	cryptoUsecase "github.com/FatihBerkayBahceci/eye-book-sub002/internal/crypto/usecase"
)

// IntegritySigner returns the audit event signer.
func (c *Container) IntegritySigner() (auditService.IntegritySigner, error) {
	var err error
	c.auditSignerInit.Do(func() {
		c.auditSigner, err = auditService.NewIntegritySigner(c.config.AuditHashSecret)
		if err != nil {
			c.initErrors["auditSigner"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["auditSigner"]; exists {
		return nil, storedErr
	}
	return c.auditSigner, nil
}

// AuditEventRepository returns the audit event repository instance.
func (c *Container) AuditEventRepository() (auditUsecase.AuditEventRepository, error) {
	var err error
	c.auditRepoInit.Do(func() {
		c.auditRepo, err = c.initAuditEventRepository()
		if err != nil {
			c.initErrors["auditRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["auditRepo"]; exists {
		return nil, storedErr
	}
	return c.auditRepo, nil
}

// AuditUseCase returns the audit trail use case instance.
func (c *Container) AuditUseCase() (auditUsecase.AuditUseCase, error) {
	var err error
	c.auditUseCaseInit.Do(func() {
		c.auditUseCase, err = c.initAuditUseCase()
		if err != nil {
			c.initErrors["auditUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["auditUseCase"]; exists {
		return nil, storedErr
	}
	return c.auditUseCase, nil
}

// RotationAuditor returns the adapter that records key rotations in the
// audit trail.
func (c *Container) RotationAuditor() (cryptoUsecase.RotationAuditor, error) {
	auditUseCase, err := c.AuditUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit use case for rotation auditor: %w", err)
	}
	return auditUsecase.NewRotationAuditor(auditUseCase), nil
}

// AuditEventHandler returns the audit event HTTP handler instance.
func (c *Container) AuditEventHandler() (*auditHTTP.AuditEventHandler, error) {
	var err error
	c.auditHandlerInit.Do(func() {
		c.auditHandler, err = c.initAuditEventHandler()
		if err != nil {
			c.initErrors["auditHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["auditHandler"]; exists {
		return nil, storedErr
	}
	return c.auditHandler, nil
}

// initAuditEventRepository creates the audit event repository instance.
func (c *Container) initAuditEventRepository() (auditUsecase.AuditEventRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for audit event repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return auditRepository.NewPostgreSQLAuditEventRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initAuditUseCase creates the audit use case with all its dependencies.
func (c *Container) initAuditUseCase() (auditUsecase.AuditUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for audit use case: %w", err)
	}

	eventRepo, err := c.AuditEventRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit event repository for audit use case: %w", err)
	}

	signer, err := c.IntegritySigner()
	if err != nil {
		return nil, fmt.Errorf("failed to get integrity signer for audit use case: %w", err)
	}

	useCaseConfig := auditUsecase.Config{
		RetentionDays:              c.config.AuditRetentionDays,
		PatternRepeatThreshold:     c.config.PatternRepeatThreshold,
		PatternDistinctIPThreshold: c.config.PatternDistinctIPThreshold,
	}

	baseUseCase := auditUsecase.NewAuditUseCase(
		txManager,
		eventRepo,
		signer,
		c.Notifier(),
		useCaseConfig,
		c.Logger(),
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for audit use case: %w", err)
		}
		return auditUsecase.NewAuditUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initAuditEventHandler creates the audit event HTTP handler with all its dependencies.
func (c *Container) initAuditEventHandler() (*auditHTTP.AuditEventHandler, error) {
	auditUseCase, err := c.AuditUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit use case for audit event handler: %w", err)
	}

	return auditHTTP.NewAuditEventHandler(auditUseCase, c.Logger()), nil
}
