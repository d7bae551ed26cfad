package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/quizdesk/quiz-service/internal/auth"
	"github.com/quizdesk/quiz-service/internal/cache"
	"github.com/quizdesk/quiz-service/internal/events"
	"github.com/quizdesk/quiz-service/internal/repositories"
	"github.com/quizdesk/quiz-service/internal/validator"
)

// ServiceManagerConfig holds configuration for the service manager
type ServiceManagerConfig struct {
	EnableDebugLogging bool
	LogLevel           slog.Level
	DefaultTimeout     time.Duration
}

// serviceManager implements ServiceManager
type serviceManager struct {
	db        *gorm.DB
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	config    ServiceManagerConfig

	authService      AuthService
	catalogService   CatalogService
	quizService      QuizService
	attemptService   AttemptService
	dashboardService DashboardService

	publisher events.Publisher

	shutdown bool
	mu       sync.RWMutex
}

// ServiceManagerDeps bundles the cross-cutting dependencies the services
// need beyond the repository.
type ServiceManagerDeps struct {
	Tokens       *auth.TokenManager
	CacheManager *cache.CacheManager
	Publisher    events.Publisher
}

// NewServiceManager creates a service manager with all services wired.
func NewServiceManager(db *gorm.DB, repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, deps ServiceManagerDeps, config ServiceManagerConfig) ServiceManager {
	m := &serviceManager{
		db:        db,
		repo:      repo,
		logger:    logger,
		validator: validator,
		config:    config,
		publisher: deps.Publisher,
	}

	m.authService = NewAuthService(repo, db, logger, validator, deps.Tokens, deps.CacheManager, deps.Publisher)
	m.catalogService = NewCatalogService(repo, db, logger, validator)
	m.quizService = NewQuizService(repo, db, logger, validator, deps.Publisher)
	m.attemptService = NewAttemptService(repo, db, logger, validator, deps.Publisher)
	m.dashboardService = NewDashboardService(repo, db, logger, validator)

	return m
}

// NewDefaultServiceManager creates a service manager with default configuration
func NewDefaultServiceManager(db *gorm.DB, repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, deps ServiceManagerDeps) ServiceManager {
	return NewServiceManager(db, repo, logger, validator, deps, ServiceManagerConfig{
		LogLevel:       slog.LevelInfo,
		DefaultTimeout: 30 * time.Second,
	})
}

func (m *serviceManager) Auth() AuthService           { return m.authService }
func (m *serviceManager) Catalog() CatalogService     { return m.catalogService }
func (m *serviceManager) Quiz() QuizService           { return m.quizService }
func (m *serviceManager) Attempt() AttemptService     { return m.attemptService }
func (m *serviceManager) Dashboard() DashboardService { return m.dashboardService }

func (m *serviceManager) HealthCheck(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.shutdown {
		return fmt.Errorf("service manager is shut down")
	}
	return m.repo.Ping(ctx)
}

func (m *serviceManager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.shutdown {
		return nil
	}
	m.shutdown = true

	if m.publisher != nil {
		if err := m.publisher.Close(); err != nil {
			m.logger.Error("Failed to close event publisher", "error", err)
		}
	}

	m.logger.Info("Service manager shut down")
	return nil
}
