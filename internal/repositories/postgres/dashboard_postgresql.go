package postgres

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/quizdesk/quiz-service/internal/cache"
	"github.com/quizdesk/quiz-service/internal/models"
	"github.com/quizdesk/quiz-service/internal/repositories"
)

type DashboardPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewDashboardPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.DashboardRepository {
	return &DashboardPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (d *DashboardPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return d.db
}

// QuizStats aggregates completed attempts per quiz. Soft-deleted quizzes are
// included so historical numbers do not silently shrink.
func (d *DashboardPostgreSQL) QuizStats(ctx context.Context, tx *gorm.DB) ([]*repositories.QuizStats, error) {
	db := d.getDB(tx)

	var stats []*repositories.QuizStats
	err := d.cacheManager.Stats.CacheOrExecute(ctx, "quiz_stats", &stats, cache.StatsCacheConfig.TTL, func() (interface{}, error) {
		var rows []*repositories.QuizStats

		if err := db.WithContext(ctx).
			Table("quizzes").
			Select("quizzes.id as quiz_id, quizzes.title, "+
				"COUNT(quiz_results.id) as total_attempts, "+
				"COALESCE(AVG(quiz_results.score), 0) as average_score, "+
				"COALESCE(MAX(quiz_results.score), 0) as highest_score").
			Joins("LEFT JOIN quiz_results ON quiz_results.quiz_id = quizzes.id AND quiz_results.status = ?", models.AttemptCompleted).
			Group("quizzes.id, quizzes.title").
			Order("quizzes.id ASC").
			Scan(&rows).Error; err != nil {
			return nil, fmt.Errorf("failed to get quiz stats: %w", err)
		}
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (d *DashboardPostgreSQL) UserSummary(ctx context.Context, tx *gorm.DB, userID uint) (*repositories.UserSummary, error) {
	db := d.getDB(tx)

	var summary repositories.UserSummary
	err := d.cacheManager.Stats.CacheOrExecute(ctx, cache.UserSummaryKey(userID), &summary, cache.StatsCacheConfig.TTL, func() (interface{}, error) {
		var agg struct {
			TotalAttempts int
			AveragePct    float64
			BestScore     int
		}

		if err := db.WithContext(ctx).
			Model(&models.QuizResult{}).
			Select("COUNT(*) as total_attempts, "+
				"COALESCE(AVG(CASE WHEN total_marks > 0 THEN score * 100.0 / total_marks ELSE 0 END), 0) as average_pct, "+
				"COALESCE(MAX(score), 0) as best_score").
			Where("user_id = ? AND status = ?", userID, models.AttemptCompleted).
			Scan(&agg).Error; err != nil {
			return nil, fmt.Errorf("failed to get user summary: %w", err)
		}

		s := repositories.UserSummary{
			TotalAttempts:     agg.TotalAttempts,
			AveragePercentage: agg.AveragePct,
			BestScore:         agg.BestScore,
		}

		if agg.TotalAttempts > 0 {
			var bestTitle string
			if err := db.WithContext(ctx).
				Table("quiz_results").
				Select("quizzes.title").
				Joins("JOIN quizzes ON quizzes.id = quiz_results.quiz_id").
				Where("quiz_results.user_id = ? AND quiz_results.status = ?", userID, models.AttemptCompleted).
				Order("quiz_results.score DESC").
				Limit(1).
				Scan(&bestTitle).Error; err != nil {
				return nil, fmt.Errorf("failed to get best quiz title: %w", err)
			}
			s.BestQuizTitle = bestTitle
		}

		return &s, nil
	})
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// Search runs a case-insensitive substring match across the catalog and the
// user directory. Results are not cached, queries vary too much to pay off.
func (d *DashboardPostgreSQL) Search(ctx context.Context, tx *gorm.DB, query string, limit int) (*repositories.SearchResults, error) {
	db := d.getDB(tx)
	pattern := "%" + query + "%"

	results := &repositories.SearchResults{}

	if err := db.WithContext(ctx).
		Where("username ILIKE ? OR name ILIKE ?", pattern, pattern).
		Limit(limit).
		Find(&results.Users).Error; err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}

	if err := db.WithContext(ctx).
		Where("name ILIKE ?", pattern).
		Limit(limit).
		Find(&results.Subjects).Error; err != nil {
		return nil, fmt.Errorf("failed to search subjects: %w", err)
	}

	if err := db.WithContext(ctx).
		Where("name ILIKE ?", pattern).
		Limit(limit).
		Find(&results.Chapters).Error; err != nil {
		return nil, fmt.Errorf("failed to search chapters: %w", err)
	}

	if err := db.WithContext(ctx).
		Where("title ILIKE ? AND is_deleted = ?", pattern, false).
		Limit(limit).
		Find(&results.Quizzes).Error; err != nil {
		return nil, fmt.Errorf("failed to search quizzes: %w", err)
	}

	if err := db.WithContext(ctx).
		Where("title ILIKE ?", pattern).
		Limit(limit).
		Find(&results.Questions).Error; err != nil {
		return nil, fmt.Errorf("failed to search questions: %w", err)
	}

	return results, nil
}
