package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/quizdesk/quiz-service/internal/models"
	"github.com/quizdesk/quiz-service/internal/repositories"
)

type UserPostgreSQL struct {
	db *gorm.DB
}

func NewUserPostgreSQL(db *gorm.DB) repositories.UserRepository {
	return &UserPostgreSQL{db: db}
}

func (u *UserPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return u.db
}

func (u *UserPostgreSQL) Create(ctx context.Context, tx *gorm.DB, user *models.User) error {
	db := u.getDB(tx)
	return db.WithContext(ctx).Create(user).Error
}

func (u *UserPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.User, error) {
	db := u.getDB(tx)
	var user models.User
	if err := db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *UserPostgreSQL) GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*models.User, error) {
	db := u.getDB(tx)
	var user models.User
	if err := db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *UserPostgreSQL) Update(ctx context.Context, tx *gorm.DB, user *models.User) error {
	db := u.getDB(tx)
	return db.WithContext(ctx).Save(user).Error
}

func (u *UserPostgreSQL) ExistsByUsername(ctx context.Context, tx *gorm.DB, username string) (bool, error) {
	db := u.getDB(tx)
	var count int64
	if err := db.WithContext(ctx).
		Model(&models.User{}).
		Where("username = ?", username).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (u *UserPostgreSQL) List(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*models.User, int64, error) {
	db := u.getDB(tx)
	var users []*models.User
	var total int64

	query := db.WithContext(ctx).Model(&models.User{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Order("id ASC").Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}
