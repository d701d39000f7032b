// Package app provides the dependency injection container for assembling
// the data protection subsystem.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	auditHTTP "github.com/FatihBerkayBahceci/eye-book-sub002/internal/audit/http"
	auditService "github.com/FatihBerkayBahceci/eye-book-sub002/internal/audit/service"
	auditUsecase "github.com/FatihBerkayBahceci/eye-book-sub002/internal/audit/usecase"
	"github.com/FatihBerkayBahceci/eye-book-sub002/internal/config"
	cryptoService "github.com/FatihBerkayBahceci/eye-book-sub002/internal/crypto/service"
	cryptoUsecase "github.com/FatihBerkayBahceci/eye-book-sub002/internal/crypto/usecase"
	"github.com/FatihBerkayBahceci/eye-book-sub002/internal/database"
	internalHTTP "github.com/FatihBerkayBahceci/eye-book-sub002/internal/http"
	"github.com/FatihBerkayBahceci/eye-book-sub002/internal/metrics"
	"github.com/FatihBerkayBahceci/eye-book-sub002/internal/notification"
	"github.com/FatihBerkayBahceci/eye-book-sub002/internal/phi"
	threatHTTP "github.com/FatihBerkayBahceci/eye-book-sub002/internal/threat/http"
	threatUsecase "github.com/FatihBerkayBahceci/eye-book-sub002/internal/threat/usecase"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger *slog.Logger
	db     *sql.DB

	// Managers
	txManager database.TxManager

	// Observability
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Notifications
	notifier *notification.Dispatcher

	// Crypto
	keyWrapper      *cryptoService.KeeperWrapper
	aeadManager     cryptoService.AEADManager
	fieldCipher     cryptoService.FieldCipher
	phiRegistry     *phi.Registry
	phiProcessor    *phi.Processor
	fieldStore      cryptoUsecase.FieldStore
	dataKeyRepo     cryptoUsecase.DataKeyRepository
	keyUseCase      cryptoUsecase.KeyUseCase
	rotationUseCase cryptoUsecase.RotationUseCase

	// Audit
	auditSigner  auditService.IntegritySigner
	auditRepo    auditUsecase.AuditEventRepository
	auditUseCase auditUsecase.AuditUseCase
	auditHandler *auditHTTP.AuditEventHandler

	// Threat
	lockoutRepo   threatUsecase.LockoutRepository
	blacklistRepo threatUsecase.BlacklistRepository
	threatUseCase threatUsecase.ThreatUseCase
	threatHandler *threatHTTP.ThreatHandler

	// Servers
	httpServer    *internalHTTP.Server
	metricsServer *internalHTTP.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                  sync.Mutex
	loggerInit          sync.Once
	dbInit              sync.Once
	txManagerInit       sync.Once
	metricsProviderInit sync.Once
	businessMetricsInit sync.Once
	notifierInit        sync.Once
	keyWrapperInit      sync.Once
	aeadManagerInit     sync.Once
	fieldCipherInit     sync.Once
	phiRegistryInit     sync.Once
	phiProcessorInit    sync.Once
	fieldStoreInit      sync.Once
	dataKeyRepoInit     sync.Once
	keyUseCaseInit      sync.Once
	rotationInit        sync.Once
	auditSignerInit     sync.Once
	auditRepoInit       sync.Once
	auditUseCaseInit    sync.Once
	auditHandlerInit    sync.Once
	lockoutRepoInit     sync.Once
	blacklistRepoInit   sync.Once
	threatUseCaseInit   sync.Once
	threatHandlerInit   sync.Once
	httpServerInit      sync.Once
	metricsServerInit   sync.Once
	initErrors          map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
// It creates and configures the database connection on first access.
func (c *Container) DB() (*sql.DB, error) {
	var err error
	c.dbInit.Do(func() {
		c.db, err = c.initDB()
		if err != nil {
			c.initErrors["db"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// TxManager returns the transaction manager.
// It requires a database connection to be initialized first.
func (c *Container) TxManager() (database.TxManager, error) {
	var err error
	c.txManagerInit.Do(func() {
		c.txManager, err = c.initTxManager()
		if err != nil {
			c.initErrors["txManager"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["txManager"]; exists {
		return nil, storedErr
	}
	return c.txManager, nil
}

// MetricsProvider returns the OpenTelemetry metrics provider.
// Returns nil when metrics are disabled in configuration.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		c.metricsProvider, err = metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder.
// Returns a no-op implementation when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		c.businessMetrics, err = c.initBusinessMetrics()
		if err != nil {
			c.initErrors["businessMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// Notifier returns the security alert dispatcher.
func (c *Container) Notifier() *notification.Dispatcher {
	c.notifierInit.Do(func() {
		c.notifier = c.initNotifier()
	})
	return c.notifier
}

// HTTPServer returns the operations API server instance.
func (c *Container) HTTPServer() (*internalHTTP.Server, error) {
	var err error
	c.httpServerInit.Do(func() {
		c.httpServer, err = c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the Prometheus metrics server instance.
// Returns nil when metrics are disabled in configuration.
func (c *Container) MetricsServer() (*internalHTTP.MetricsServer, error) {
	var err error
	c.metricsServerInit.Do(func() {
		c.metricsServer, err = c.initMetricsServer()
		if err != nil {
			c.initErrors["metricsServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	// Shutdown HTTP servers if initialized
	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	// Drain background pattern analyses, then in-flight security
	// notifications the analyses may still raise
	if c.auditUseCase != nil {
		c.auditUseCase.Wait()
	}

	if c.notifier != nil {
		c.notifier.Wait()
	}

	// Flush metrics if initialized
	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	// Release the key-wrapping keeper if initialized
	if c.keyWrapper != nil {
		if err := c.keyWrapper.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("key wrapper close: %w", err))
		}
	}

	// Close database connection if initialized
	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	// Return combined errors if any occurred
	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initDB creates and configures the database connection.
func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initTxManager creates the transaction manager using the database connection.
func (c *Container) initTxManager() (database.TxManager, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for tx manager: %w", err)
	}
	return database.NewTxManager(db), nil
}

// initBusinessMetrics creates the business metrics recorder.
func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	if !c.config.MetricsEnabled {
		return metrics.NewNoOpBusinessMetrics(), nil
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for business metrics: %w", err)
	}

	businessMetrics, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}

	return businessMetrics, nil
}

// initNotifier creates the security alert dispatcher.
func (c *Container) initNotifier() *notification.Dispatcher {
	logger := c.Logger()
	sender := notification.NewLogSender(logger)

	return notification.NewDispatcher(
		sender,
		parseRecipients(c.config.NotificationRecipients),
		c.config.NotificationTimeout,
		c.config.NotificationRatePerSec,
		c.config.NotificationBurst,
		logger,
	)
}

// initHTTPServer creates the operations API server with all its dependencies.
func (c *Container) initHTTPServer() (*internalHTTP.Server, error) {
	logger := c.Logger()

	auditHandler, err := c.AuditEventHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit event handler for http server: %w", err)
	}

	threatHandler, err := c.ThreatHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get threat handler for http server: %w", err)
	}

	routerConfig := internalHTTP.RouterConfig{
		Logger:                  logger,
		OperatorToken:           c.config.OperatorToken,
		RateLimitEnabled:        c.config.RateLimitEnabled,
		RateLimitRequestsPerSec: c.config.RateLimitRequestsPerSec,
		RateLimitBurst:          c.config.RateLimitBurst,
		CORSEnabled:             c.config.CORSEnabled,
		CORSAllowOrigins:        c.config.CORSAllowOrigins,
	}

	if c.config.MetricsEnabled {
		provider, err := c.MetricsProvider()
		if err != nil {
			return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
		}
		routerConfig.MetricsMiddleware = metrics.HTTPMetricsMiddleware(
			provider.MeterProvider(),
			c.config.MetricsNamespace,
		)
	}

	router := internalHTTP.NewRouter(routerConfig, auditHandler, threatHandler)

	return internalHTTP.NewServer(c.config.ServerHost, c.config.ServerPort, router, logger), nil
}

// initMetricsServer creates the Prometheus metrics server.
func (c *Container) initMetricsServer() (*internalHTTP.MetricsServer, error) {
	if !c.config.MetricsEnabled {
		return nil, nil
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
	}

	return internalHTTP.NewMetricsServer(
		c.config.ServerHost,
		c.config.MetricsPort,
		c.Logger(),
		provider,
	), nil
}

// parseRecipients splits the comma-separated recipient list, dropping blanks.
func parseRecipients(raw string) []string {
	var recipients []string
	for _, recipient := range strings.Split(raw, ",") {
		recipient = strings.TrimSpace(recipient)
		if recipient != "" {
			recipients = append(recipients, recipient)
		}
	}
	return recipients
}
