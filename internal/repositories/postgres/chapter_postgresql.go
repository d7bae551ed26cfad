package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/quizdesk/quiz-service/internal/models"
	"github.com/quizdesk/quiz-service/internal/repositories"
)

type ChapterPostgreSQL struct {
	db *gorm.DB
}

func NewChapterPostgreSQL(db *gorm.DB) repositories.ChapterRepository {
	return &ChapterPostgreSQL{db: db}
}

func (c *ChapterPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return c.db
}

func (c *ChapterPostgreSQL) Create(ctx context.Context, tx *gorm.DB, chapter *models.Chapter) error {
	db := c.getDB(tx)
	return db.WithContext(ctx).Create(chapter).Error
}

func (c *ChapterPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Chapter, error) {
	db := c.getDB(tx)
	var chapter models.Chapter
	if err := db.WithContext(ctx).First(&chapter, id).Error; err != nil {
		return nil, err
	}
	return &chapter, nil
}

func (c *ChapterPostgreSQL) GetByNameAndSubject(ctx context.Context, tx *gorm.DB, name string, subjectID uint) (*models.Chapter, error) {
	db := c.getDB(tx)
	var chapter models.Chapter
	if err := db.WithContext(ctx).
		Where("name = ? AND subject_id = ?", name, subjectID).
		First(&chapter).Error; err != nil {
		return nil, err
	}
	return &chapter, nil
}

func (c *ChapterPostgreSQL) Update(ctx context.Context, tx *gorm.DB, chapter *models.Chapter) error {
	db := c.getDB(tx)
	return db.WithContext(ctx).Save(chapter).Error
}

func (c *ChapterPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := c.getDB(tx)
	return db.WithContext(ctx).Delete(&models.Chapter{}, id).Error
}

func (c *ChapterPostgreSQL) ListBySubject(ctx context.Context, tx *gorm.DB, subjectID uint) ([]*models.Chapter, error) {
	db := c.getDB(tx)
	var chapters []*models.Chapter
	if err := db.WithContext(ctx).
		Where("subject_id = ?", subjectID).
		Order("name ASC").
		Find(&chapters).Error; err != nil {
		return nil, err
	}
	return chapters, nil
}

func (c *ChapterPostgreSQL) DeleteBySubject(ctx context.Context, tx *gorm.DB, subjectID uint) error {
	db := c.getDB(tx)
	return db.WithContext(ctx).
		Where("subject_id = ?", subjectID).
		Delete(&models.Chapter{}).Error
}
