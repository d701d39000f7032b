package app

import (
	"context"
	"fmt"

	cryptoDomain "github.com/FatihBerkayBahceci/eye-book-sub002/internal/crypto/domain"
	cryptoRepository "github.com/FatihBerkayBahceci/eye-book-sub002/internal/crypto/repository"
	cryptoService "github.com/FatihBerkayBahceci/eye-book-sub002/internal/crypto/service"
	cryptoUsecase "github.com/FatihBerkayBahceci/eye-book-sub002/internal/crypto/usecase"
	"github.com/FatihBerkayBahceci/eye-book-sub002/internal/phi"
	phiRepository "github.com/FatihBerkayBahceci/eye-book-sub002/internal/phi/repository"
)

// KeyWrapper returns the key wrapper backed by the configured KMS key URI.
func (c *Container) KeyWrapper() (cryptoService.KeyWrapper, error) {
	var err error
	c.keyWrapperInit.Do(func() {
		c.keyWrapper, err = cryptoService.OpenKeyWrapper(context.Background(), c.config.KMSKeyURI)
		if err != nil {
			c.initErrors["keyWrapper"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keyWrapper"]; exists {
		return nil, storedErr
	}
	return c.keyWrapper, nil
}

// AEADManager returns the AEAD cipher factory.
func (c *Container) AEADManager() cryptoService.AEADManager {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = cryptoService.NewAEADManager()
	})
	return c.aeadManager
}

// FieldCipher returns the PHI field cipher using the configured algorithm.
func (c *Container) FieldCipher() (cryptoService.FieldCipher, error) {
	var err error
	c.fieldCipherInit.Do(func() {
		c.fieldCipher, err = c.initFieldCipher()
		if err != nil {
			c.initErrors["fieldCipher"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["fieldCipher"]; exists {
		return nil, storedErr
	}
	return c.fieldCipher, nil
}

// PHIRegistry returns the registry of encrypted entity fields.
func (c *Container) PHIRegistry() *phi.Registry {
	c.phiRegistryInit.Do(func() {
		c.phiRegistry = phi.DefaultRegistry()
	})
	return c.phiRegistry
}

// PHIProcessor returns the record-level encrypt/decrypt processor.
func (c *Container) PHIProcessor() (*phi.Processor, error) {
	var err error
	c.phiProcessorInit.Do(func() {
		c.phiProcessor, err = c.initPHIProcessor()
		if err != nil {
			c.initErrors["phiProcessor"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["phiProcessor"]; exists {
		return nil, storedErr
	}
	return c.phiProcessor, nil
}

// FieldStore returns the store that enumerates and rewrites encrypted columns.
func (c *Container) FieldStore() (cryptoUsecase.FieldStore, error) {
	var err error
	c.fieldStoreInit.Do(func() {
		c.fieldStore, err = c.initFieldStore()
		if err != nil {
			c.initErrors["fieldStore"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["fieldStore"]; exists {
		return nil, storedErr
	}
	return c.fieldStore, nil
}

// DataKeyRepository returns the data key repository instance.
func (c *Container) DataKeyRepository() (cryptoUsecase.DataKeyRepository, error) {
	var err error
	c.dataKeyRepoInit.Do(func() {
		c.dataKeyRepo, err = c.initDataKeyRepository()
		if err != nil {
			c.initErrors["dataKeyRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["dataKeyRepo"]; exists {
		return nil, storedErr
	}
	return c.dataKeyRepo, nil
}

// KeyUseCase returns the data key lifecycle use case instance.
func (c *Container) KeyUseCase() (cryptoUsecase.KeyUseCase, error) {
	var err error
	c.keyUseCaseInit.Do(func() {
		c.keyUseCase, err = c.initKeyUseCase()
		if err != nil {
			c.initErrors["keyUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keyUseCase"]; exists {
		return nil, storedErr
	}
	return c.keyUseCase, nil
}

// RotationUseCase returns the key rotation orchestrator instance.
func (c *Container) RotationUseCase() (cryptoUsecase.RotationUseCase, error) {
	var err error
	c.rotationInit.Do(func() {
		c.rotationUseCase, err = c.initRotationUseCase()
		if err != nil {
			c.initErrors["rotationUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["rotationUseCase"]; exists {
		return nil, storedErr
	}
	return c.rotationUseCase, nil
}

// initFieldCipher creates the field cipher for the configured algorithm.
func (c *Container) initFieldCipher() (cryptoService.FieldCipher, error) {
	var alg cryptoDomain.Algorithm
	switch c.config.EncryptionAlgorithm {
	case string(cryptoDomain.AESGCM), "":
		alg = cryptoDomain.AESGCM
	case string(cryptoDomain.ChaCha20):
		alg = cryptoDomain.ChaCha20
	default:
		return nil, fmt.Errorf("unsupported encryption algorithm: %s", c.config.EncryptionAlgorithm)
	}

	return cryptoService.NewFieldCipher(c.AEADManager(), alg), nil
}

// initPHIProcessor creates the record processor with all its dependencies.
func (c *Container) initPHIProcessor() (*phi.Processor, error) {
	fieldCipher, err := c.FieldCipher()
	if err != nil {
		return nil, fmt.Errorf("failed to get field cipher for phi processor: %w", err)
	}

	keyUseCase, err := c.KeyUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get key use case for phi processor: %w", err)
	}

	return phi.NewProcessor(c.PHIRegistry(), fieldCipher, keyUseCase), nil
}

// initFieldStore creates the PHI field store instance.
func (c *Container) initFieldStore() (cryptoUsecase.FieldStore, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for field store: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return phiRepository.NewPostgreSQLFieldStore(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initDataKeyRepository creates the data key repository instance.
func (c *Container) initDataKeyRepository() (cryptoUsecase.DataKeyRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for data key repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return cryptoRepository.NewPostgreSQLDataKeyRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initKeyUseCase creates the key use case with all its dependencies.
func (c *Container) initKeyUseCase() (cryptoUsecase.KeyUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for key use case: %w", err)
	}

	keyRepo, err := c.DataKeyRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get data key repository for key use case: %w", err)
	}

	wrapper, err := c.KeyWrapper()
	if err != nil {
		return nil, fmt.Errorf("failed to get key wrapper for key use case: %w", err)
	}

	baseUseCase := cryptoUsecase.NewKeyUseCase(txManager, keyRepo, wrapper)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for key use case: %w", err)
		}
		return cryptoUsecase.NewKeyUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initRotationUseCase creates the rotation use case with all its dependencies.
func (c *Container) initRotationUseCase() (cryptoUsecase.RotationUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for rotation use case: %w", err)
	}

	keyUseCase, err := c.KeyUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get key use case for rotation use case: %w", err)
	}

	fieldCipher, err := c.FieldCipher()
	if err != nil {
		return nil, fmt.Errorf("failed to get field cipher for rotation use case: %w", err)
	}

	fieldStore, err := c.FieldStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get field store for rotation use case: %w", err)
	}

	auditor, err := c.RotationAuditor()
	if err != nil {
		return nil, fmt.Errorf("failed to get rotation auditor for rotation use case: %w", err)
	}

	baseUseCase := cryptoUsecase.NewRotationUseCase(
		txManager,
		keyUseCase,
		c.PHIRegistry(),
		fieldCipher,
		fieldStore,
		auditor,
		c.Logger(),
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for rotation use case: %w", err)
		}
		return cryptoUsecase.NewRotationUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}
