package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/quizdesk/quiz-service/internal/cache"
	"github.com/quizdesk/quiz-service/internal/repositories"
)

// PostgreSQLRepository implements the main Repository interface.
type PostgreSQLRepository struct {
	db           *gorm.DB
	redisClient  *redis.Client
	cacheManager *cache.CacheManager

	user      repositories.UserRepository
	subject   repositories.SubjectRepository
	chapter   repositories.ChapterRepository
	question  repositories.QuestionRepository
	quiz      repositories.QuizRepository
	result    repositories.ResultRepository
	dashboard repositories.DashboardRepository
}

// RepositoryConfig holds configuration for repository initialization.
type RepositoryConfig struct {
	DB          *gorm.DB
	RedisClient *redis.Client
}

// NewPostgreSQLRepository creates a repository aggregate with all
// sub-repositories wired against the given connection.
func NewPostgreSQLRepository(config RepositoryConfig) repositories.Repository {
	cacheManager := cache.NewCacheManager(config.RedisClient)

	repo := &PostgreSQLRepository{
		db:           config.DB,
		redisClient:  config.RedisClient,
		cacheManager: cacheManager,
	}

	repo.user = NewUserPostgreSQL(config.DB)
	repo.subject = NewSubjectPostgreSQL(config.DB)
	repo.chapter = NewChapterPostgreSQL(config.DB)
	repo.question = NewQuestionPostgreSQL(config.DB)
	repo.quiz = NewQuizPostgreSQL(config.DB, config.RedisClient)
	repo.result = NewResultPostgreSQL(config.DB, config.RedisClient)
	repo.dashboard = NewDashboardPostgreSQL(config.DB, config.RedisClient)

	return repo
}

func (r *PostgreSQLRepository) User() repositories.UserRepository         { return r.user }
func (r *PostgreSQLRepository) Subject() repositories.SubjectRepository   { return r.subject }
func (r *PostgreSQLRepository) Chapter() repositories.ChapterRepository   { return r.chapter }
func (r *PostgreSQLRepository) Question() repositories.QuestionRepository { return r.question }
func (r *PostgreSQLRepository) Quiz() repositories.QuizRepository         { return r.quiz }
func (r *PostgreSQLRepository) Result() repositories.ResultRepository     { return r.result }
func (r *PostgreSQLRepository) Dashboard() repositories.DashboardRepository {
	return r.dashboard
}

// WithTransaction executes fn within a database transaction, handing it a
// repository bound to the transaction connection.
func (r *PostgreSQLRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := NewPostgreSQLRepository(RepositoryConfig{
			DB:          tx,
			RedisClient: r.redisClient,
		})
		return fn(txRepo)
	})
}

// Ping checks the health of database and cache connections.
func (r *PostgreSQLRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	if r.redisClient != nil {
		if err := r.cacheManager.HealthCheck(ctx); err != nil {
			return fmt.Errorf("cache ping failed: %w", err)
		}
	}
	return nil
}

// Close closes all connections.
func (r *PostgreSQLRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	if r.redisClient != nil {
		if err := r.redisClient.Close(); err != nil {
			return fmt.Errorf("failed to close Redis: %w", err)
		}
	}
	return nil
}

// Manager implements repositories.RepositoryManager.
type Manager struct {
	config RepositoryConfig
	repo   repositories.Repository
}

func NewRepositoryManager(config RepositoryConfig) repositories.RepositoryManager {
	return &Manager{config: config}
}

// Initialize validates connections and builds the repository aggregate.
func (m *Manager) Initialize() error {
	if m.config.DB == nil {
		return fmt.Errorf("database connection is required")
	}

	sqlDB, err := m.config.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}

	if m.config.RedisClient != nil {
		if _, err := m.config.RedisClient.Ping(ctx).Result(); err != nil {
			return fmt.Errorf("redis connection failed: %w", err)
		}
	}

	m.repo = NewPostgreSQLRepository(m.config)
	return nil
}

func (m *Manager) GetRepository() repositories.Repository {
	return m.repo
}

func (m *Manager) HealthCheck(ctx context.Context) error {
	if m.repo == nil {
		return fmt.Errorf("repository not initialized")
	}
	return m.repo.Ping(ctx)
}

func (m *Manager) Shutdown(ctx context.Context) error {
	if m.repo == nil {
		return nil
	}
	return m.repo.Close()
}
