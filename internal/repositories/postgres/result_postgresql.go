package postgres

import (
	"context"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/quizdesk/quiz-service/internal/cache"
	"github.com/quizdesk/quiz-service/internal/models"
	"github.com/quizdesk/quiz-service/internal/repositories"
)

type ResultPostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewResultPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.ResultRepository {
	return &ResultPostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (r *ResultPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

// Create inserts the attempt reservation. The unique index on
// (user_id, quiz_id) rejects a second insert; callers classify that with
// repositories.IsDuplicateError.
func (r *ResultPostgreSQL) Create(ctx context.Context, tx *gorm.DB, result *models.QuizResult) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Create(result).Error; err != nil {
		return err
	}
	r.invalidate(ctx, result.UserID)
	return nil
}

func (r *ResultPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.QuizResult, error) {
	db := r.getDB(tx)
	var result models.QuizResult
	if err := db.WithContext(ctx).First(&result, id).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *ResultPostgreSQL) GetByUserAndQuiz(ctx context.Context, tx *gorm.DB, userID, quizID uint) (*models.QuizResult, error) {
	db := r.getDB(tx)
	var result models.QuizResult
	if err := db.WithContext(ctx).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *ResultPostgreSQL) Update(ctx context.Context, tx *gorm.DB, result *models.QuizResult) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Save(result).Error; err != nil {
		return err
	}
	r.invalidate(ctx, result.UserID)
	return nil
}

func (r *ResultPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.ResultFilters) ([]*models.QuizResult, int64, error) {
	db := r.getDB(tx)
	var results []*models.QuizResult
	var total int64

	query := db.WithContext(ctx).Model(&models.QuizResult{})
	query = r.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = r.helpers.ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)

	if err := query.Preload("Quiz").Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (r *ResultPostgreSQL) ListByUser(ctx context.Context, tx *gorm.DB, userID uint) ([]*models.QuizResult, error) {
	db := r.getDB(tx)
	var results []*models.QuizResult
	if err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("attempt_date DESC").
		Preload("Quiz").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *ResultPostgreSQL) AttemptedQuizIDs(ctx context.Context, tx *gorm.DB, userID uint) ([]uint, error) {
	db := r.getDB(tx)
	var ids []uint
	if err := db.WithContext(ctx).
		Model(&models.QuizResult{}).
		Where("user_id = ?", userID).
		Pluck("quiz_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *ResultPostgreSQL) applyFilters(query *gorm.DB, filters repositories.ResultFilters) *gorm.DB {
	if filters.UserID != nil {
		query = query.Where("user_id = ?", *filters.UserID)
	}
	if filters.QuizID != nil {
		query = query.Where("quiz_id = ?", *filters.QuizID)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	return query
}

func (r *ResultPostgreSQL) invalidate(ctx context.Context, userID uint) {
	_ = r.cacheManager.Stats.Delete(ctx, "quiz_stats", cache.UserSummaryKey(userID))
}
