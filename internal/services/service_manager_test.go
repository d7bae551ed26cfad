package services

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/quizdesk/quiz-service/internal/cache"
	"github.com/quizdesk/quiz-service/internal/events"
	"github.com/quizdesk/quiz-service/internal/repositories"
	"github.com/quizdesk/quiz-service/internal/validator"
)

// stubRepository satisfies repositories.Repository for wiring tests.
type stubRepository struct{}

func (s *stubRepository) User() repositories.UserRepository           { return nil }
func (s *stubRepository) Subject() repositories.SubjectRepository     { return nil }
func (s *stubRepository) Chapter() repositories.ChapterRepository     { return nil }
func (s *stubRepository) Question() repositories.QuestionRepository   { return nil }
func (s *stubRepository) Quiz() repositories.QuizRepository           { return nil }
func (s *stubRepository) Result() repositories.ResultRepository       { return nil }
func (s *stubRepository) Dashboard() repositories.DashboardRepository { return nil }
func (s *stubRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(s)
}
func (s *stubRepository) Ping(ctx context.Context) error { return nil }
func (s *stubRepository) Close() error                   { return nil }

func newTestServiceManager(t *testing.T) (ServiceManager, *events.MockEventPublisher) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	publisher := events.NewMockEventPublisher(logger)

	sm := NewDefaultServiceManager(nil, &stubRepository{}, logger, validator.New(), ServiceManagerDeps{
		CacheManager: cache.NewCacheManager(nil),
		Publisher:    publisher,
	})
	return sm, publisher
}

func TestNewDefaultServiceManagerWiresAllServices(t *testing.T) {
	sm, _ := newTestServiceManager(t)

	if sm.Auth() == nil {
		t.Error("Auth service should be wired")
	}
	if sm.Catalog() == nil {
		t.Error("Catalog service should be wired")
	}
	if sm.Quiz() == nil {
		t.Error("Quiz service should be wired")
	}
	if sm.Attempt() == nil {
		t.Error("Attempt service should be wired")
	}
	if sm.Dashboard() == nil {
		t.Error("Dashboard service should be wired")
	}
}

func TestServiceManagerShutdown(t *testing.T) {
	sm, _ := newTestServiceManager(t)
	ctx := context.Background()

	if err := sm.HealthCheck(ctx); err != nil {
		t.Fatalf("HealthCheck before shutdown failed: %v", err)
	}

	if err := sm.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}

	if err := sm.HealthCheck(ctx); err == nil {
		t.Error("HealthCheck should fail after shutdown")
	}

	// Shutdown is idempotent
	if err := sm.Shutdown(ctx); err != nil {
		t.Errorf("Second shutdown should be a no-op, got %v", err)
	}
}
