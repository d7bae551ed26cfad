package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/quizdesk/quiz-service/internal/models"
	"github.com/quizdesk/quiz-service/internal/repositories"
)

type QuestionPostgreSQL struct {
	db *gorm.DB
}

func NewQuestionPostgreSQL(db *gorm.DB) repositories.QuestionRepository {
	return &QuestionPostgreSQL{db: db}
}

func (q *QuestionPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return q.db
}

func (q *QuestionPostgreSQL) Create(ctx context.Context, tx *gorm.DB, question *models.Question) error {
	db := q.getDB(tx)
	return db.WithContext(ctx).Create(question).Error
}

func (q *QuestionPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Question, error) {
	db := q.getDB(tx)
	var question models.Question
	if err := db.WithContext(ctx).First(&question, id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (q *QuestionPostgreSQL) Update(ctx context.Context, tx *gorm.DB, question *models.Question) error {
	db := q.getDB(tx)
	return db.WithContext(ctx).Save(question).Error
}

func (q *QuestionPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := q.getDB(tx)
	return db.WithContext(ctx).Delete(&models.Question{}, id).Error
}

func (q *QuestionPostgreSQL) ListByChapter(ctx context.Context, tx *gorm.DB, chapterID uint) ([]*models.Question, error) {
	db := q.getDB(tx)
	var questions []*models.Question
	if err := db.WithContext(ctx).
		Where("chapter_id = ?", chapterID).
		Order("id ASC").
		Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (q *QuestionPostgreSQL) CountByChapter(ctx context.Context, tx *gorm.DB, chapterID uint) (int64, error) {
	db := q.getDB(tx)
	var count int64
	if err := db.WithContext(ctx).
		Model(&models.Question{}).
		Where("chapter_id = ?", chapterID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (q *QuestionPostgreSQL) DeleteByChapter(ctx context.Context, tx *gorm.DB, chapterID uint) error {
	db := q.getDB(tx)
	return db.WithContext(ctx).
		Where("chapter_id = ?", chapterID).
		Delete(&models.Question{}).Error
}

func (q *QuestionPostgreSQL) DeleteByChapters(ctx context.Context, tx *gorm.DB, chapterIDs []uint) error {
	if len(chapterIDs) == 0 {
		return nil
	}
	db := q.getDB(tx)
	return db.WithContext(ctx).
		Where("chapter_id IN ?", chapterIDs).
		Delete(&models.Question{}).Error
}
