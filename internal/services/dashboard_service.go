package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"github.com/quizdesk/quiz-service/internal/export"
	"github.com/quizdesk/quiz-service/internal/models"
	"github.com/quizdesk/quiz-service/internal/repositories"
	"github.com/quizdesk/quiz-service/internal/validator"
)

type dashboardService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewDashboardService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator) DashboardService {
	return &dashboardService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
	}
}

func (s *dashboardService) AdminSummary(ctx context.Context) (*AdminSummary, error) {
	_, totalUsers, err := s.repo.User().List(ctx, nil, 1, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	subjects, err := s.repo.Subject().List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}

	_, totalQuizzes, err := s.repo.Quiz().List(ctx, nil, repositories.QuizFilters{Limit: 1})
	if err != nil {
		return nil, fmt.Errorf("failed to count quizzes: %w", err)
	}

	stats, err := s.repo.Dashboard().QuizStats(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz stats: %w", err)
	}

	return &AdminSummary{
		TotalUsers:    totalUsers,
		TotalSubjects: int64(len(subjects)),
		TotalQuizzes:  totalQuizzes,
		QuizStats:     stats,
	}, nil
}

func (s *dashboardService) UserSummary(ctx context.Context, userID uint) (*repositories.UserSummary, error) {
	summary, err := s.repo.Dashboard().UserSummary(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user summary: %w", err)
	}
	return summary, nil
}

func (s *dashboardService) Search(ctx context.Context, query string, limit int) (*repositories.SearchResults, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return &repositories.SearchResults{}, nil
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	results, err := s.repo.Dashboard().Search(ctx, nil, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	return results, nil
}

// ExportResults renders every completed attempt as an Excel workbook.
func (s *dashboardService) ExportResults(ctx context.Context) ([]byte, error) {
	status := models.AttemptCompleted
	results, _, err := s.repo.Result().List(ctx, nil, repositories.ResultFilters{
		Status:    &status,
		SortBy:    "attempt_date",
		SortOrder: "desc",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}

	users, _, err := s.repo.User().List(ctx, nil, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	usernames := make(map[uint]string, len(users))
	for _, user := range users {
		usernames[user.ID] = user.Username
	}

	rows := make([]export.ResultRow, 0, len(results))
	for _, result := range results {
		quizTitle := ""
		if result.Quiz != nil {
			quizTitle = result.Quiz.Title
		}
		rows = append(rows, export.ResultRow{
			Username:    usernames[result.UserID],
			QuizTitle:   quizTitle,
			Score:       result.Score,
			TotalMarks:  result.TotalMarks,
			Percentage:  result.Percentage(),
			TimeTaken:   result.TimeTaken,
			CompletedAt: result.CompletedAt,
		})
	}

	s.logger.Info("Exporting results", "rows", len(rows))
	return export.ResultsWorkbook(rows)
}
