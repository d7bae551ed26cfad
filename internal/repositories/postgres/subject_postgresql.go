package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/quizdesk/quiz-service/internal/models"
	"github.com/quizdesk/quiz-service/internal/repositories"
)

type SubjectPostgreSQL struct {
	db *gorm.DB
}

func NewSubjectPostgreSQL(db *gorm.DB) repositories.SubjectRepository {
	return &SubjectPostgreSQL{db: db}
}

func (s *SubjectPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return s.db
}

func (s *SubjectPostgreSQL) Create(ctx context.Context, tx *gorm.DB, subject *models.Subject) error {
	db := s.getDB(tx)
	return db.WithContext(ctx).Create(subject).Error
}

func (s *SubjectPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Subject, error) {
	db := s.getDB(tx)
	var subject models.Subject
	if err := db.WithContext(ctx).First(&subject, id).Error; err != nil {
		return nil, err
	}
	return &subject, nil
}

func (s *SubjectPostgreSQL) GetByName(ctx context.Context, tx *gorm.DB, name string) (*models.Subject, error) {
	db := s.getDB(tx)
	var subject models.Subject
	if err := db.WithContext(ctx).Where("name = ?", name).First(&subject).Error; err != nil {
		return nil, err
	}
	return &subject, nil
}

func (s *SubjectPostgreSQL) Update(ctx context.Context, tx *gorm.DB, subject *models.Subject) error {
	db := s.getDB(tx)
	return db.WithContext(ctx).Save(subject).Error
}

func (s *SubjectPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := s.getDB(tx)
	return db.WithContext(ctx).Delete(&models.Subject{}, id).Error
}

func (s *SubjectPostgreSQL) List(ctx context.Context, tx *gorm.DB) ([]*models.Subject, error) {
	db := s.getDB(tx)
	var subjects []*models.Subject
	if err := db.WithContext(ctx).Order("name ASC").Find(&subjects).Error; err != nil {
		return nil, err
	}
	return subjects, nil
}

func (s *SubjectPostgreSQL) ListWithChapters(ctx context.Context, tx *gorm.DB) ([]*models.Subject, error) {
	db := s.getDB(tx)
	var subjects []*models.Subject
	if err := db.WithContext(ctx).
		Preload("Chapters").
		Order("name ASC").
		Find(&subjects).Error; err != nil {
		return nil, err
	}
	return subjects, nil
}
