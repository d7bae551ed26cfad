package postgres

import (
	"context"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/quizdesk/quiz-service/internal/cache"
	"github.com/quizdesk/quiz-service/internal/models"
	"github.com/quizdesk/quiz-service/internal/repositories"
)

type QuizPostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewQuizPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.QuizRepository {
	return &QuizPostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (q *QuizPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return q.db
}

func (q *QuizPostgreSQL) Create(ctx context.Context, tx *gorm.DB, quiz *models.Quiz) error {
	db := q.getDB(tx)
	if err := db.WithContext(ctx).Create(quiz).Error; err != nil {
		return err
	}
	q.invalidateListings(ctx)
	return nil
}

func (q *QuizPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Quiz, error) {
	db := q.getDB(tx)
	var quiz models.Quiz
	if err := db.WithContext(ctx).First(&quiz, id).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (q *QuizPostgreSQL) GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.Quiz, error) {
	db := q.getDB(tx)
	var quiz models.Quiz
	if err := db.WithContext(ctx).
		Preload("Subject").
		Preload("Chapter").
		First(&quiz, id).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (q *QuizPostgreSQL) Update(ctx context.Context, tx *gorm.DB, quiz *models.Quiz) error {
	db := q.getDB(tx)
	if err := db.WithContext(ctx).Save(quiz).Error; err != nil {
		return err
	}
	q.invalidateListings(ctx)
	return nil
}

// SoftDelete flags the quiz deleted without removing the row, so historical
// results keep resolving.
func (q *QuizPostgreSQL) SoftDelete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := q.getDB(tx)
	res := db.WithContext(ctx).
		Model(&models.Quiz{}).
		Where("id = ?", id).
		Update("is_deleted", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	q.invalidateListings(ctx)
	return nil
}

func (q *QuizPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.QuizFilters) ([]*models.Quiz, int64, error) {
	db := q.getDB(tx)
	var quizzes []*models.Quiz
	var total int64

	query := db.WithContext(ctx).Model(&models.Quiz{})
	query = q.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = q.helpers.ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)

	if err := query.Preload("Subject").Preload("Chapter").Find(&quizzes).Error; err != nil {
		return nil, 0, err
	}
	return quizzes, total, nil
}

func (q *QuizPostgreSQL) applyFilters(query *gorm.DB, filters repositories.QuizFilters) *gorm.DB {
	if !filters.IncludeDeleted {
		query = query.Where("is_deleted = ?", false)
	}
	if filters.SubjectID != nil {
		query = query.Where("subject_id = ?", *filters.SubjectID)
	}
	if filters.ChapterID != nil {
		query = query.Where("chapter_id = ?", *filters.ChapterID)
	}
	return query
}

func (q *QuizPostgreSQL) invalidateListings(ctx context.Context) {
	// stale stats are tolerable, failures here never fail the write
	_ = q.cacheManager.Stats.Delete(ctx, "quiz_stats")
}
