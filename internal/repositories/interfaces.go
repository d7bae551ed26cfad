package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/quizdesk/quiz-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type QuizFilters struct {
	SubjectID      *uint  `json:"subject_id"`
	ChapterID      *uint  `json:"chapter_id"`
	IncludeDeleted bool   `json:"include_deleted"`
	Limit          int    `json:"limit"`
	Offset         int    `json:"offset"`
	SortBy         string `json:"sort_by"`    // "created_at", "title", "id"
	SortOrder      string `json:"sort_order"` // "asc", "desc"
}

type ResultFilters struct {
	UserID    *uint                 `json:"user_id"`
	QuizID    *uint                 `json:"quiz_id"`
	Status    *models.AttemptStatus `json:"status"`
	Limit     int                   `json:"limit"`
	Offset    int                   `json:"offset"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

// ===== SHARED STATISTICS STRUCTS =====

type QuizStats struct {
	QuizID        uint    `json:"quiz_id"`
	Title         string  `json:"title"`
	TotalAttempts int     `json:"total_attempts"`
	AverageScore  float64 `json:"average_score"`
	HighestScore  int     `json:"highest_score"`
}

type UserSummary struct {
	TotalAttempts     int     `json:"total_attempts"`
	AveragePercentage float64 `json:"average_percentage"`
	BestScore         int     `json:"best_score"`
	BestQuizTitle     string  `json:"best_quiz_title"`
}

type SearchResults struct {
	Users     []*models.User     `json:"users"`
	Subjects  []*models.Subject  `json:"subjects"`
	Chapters  []*models.Chapter  `json:"chapters"`
	Quizzes   []*models.Quiz     `json:"quizzes"`
	Questions []*models.Question `json:"questions"`
}

// ===== ENTITY REPOSITORIES =====

type UserRepository interface {
	Create(ctx context.Context, tx *gorm.DB, user *models.User) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*models.User, error)
	Update(ctx context.Context, tx *gorm.DB, user *models.User) error
	ExistsByUsername(ctx context.Context, tx *gorm.DB, username string) (bool, error)
	List(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*models.User, int64, error)
}

type SubjectRepository interface {
	Create(ctx context.Context, tx *gorm.DB, subject *models.Subject) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Subject, error)
	GetByName(ctx context.Context, tx *gorm.DB, name string) (*models.Subject, error)
	Update(ctx context.Context, tx *gorm.DB, subject *models.Subject) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	List(ctx context.Context, tx *gorm.DB) ([]*models.Subject, error)
	ListWithChapters(ctx context.Context, tx *gorm.DB) ([]*models.Subject, error)
}

type ChapterRepository interface {
	Create(ctx context.Context, tx *gorm.DB, chapter *models.Chapter) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Chapter, error)
	GetByNameAndSubject(ctx context.Context, tx *gorm.DB, name string, subjectID uint) (*models.Chapter, error)
	Update(ctx context.Context, tx *gorm.DB, chapter *models.Chapter) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	ListBySubject(ctx context.Context, tx *gorm.DB, subjectID uint) ([]*models.Chapter, error)
	DeleteBySubject(ctx context.Context, tx *gorm.DB, subjectID uint) error
}

type QuestionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, question *models.Question) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Question, error)
	Update(ctx context.Context, tx *gorm.DB, question *models.Question) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	ListByChapter(ctx context.Context, tx *gorm.DB, chapterID uint) ([]*models.Question, error)
	CountByChapter(ctx context.Context, tx *gorm.DB, chapterID uint) (int64, error)
	DeleteByChapter(ctx context.Context, tx *gorm.DB, chapterID uint) error
	DeleteByChapters(ctx context.Context, tx *gorm.DB, chapterIDs []uint) error
}

type QuizRepository interface {
	Create(ctx context.Context, tx *gorm.DB, quiz *models.Quiz) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Quiz, error)
	GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.Quiz, error)
	Update(ctx context.Context, tx *gorm.DB, quiz *models.Quiz) error
	SoftDelete(ctx context.Context, tx *gorm.DB, id uint) error
	List(ctx context.Context, tx *gorm.DB, filters QuizFilters) ([]*models.Quiz, int64, error)
}

type ResultRepository interface {
	Create(ctx context.Context, tx *gorm.DB, result *models.QuizResult) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.QuizResult, error)
	GetByUserAndQuiz(ctx context.Context, tx *gorm.DB, userID, quizID uint) (*models.QuizResult, error)
	Update(ctx context.Context, tx *gorm.DB, result *models.QuizResult) error
	List(ctx context.Context, tx *gorm.DB, filters ResultFilters) ([]*models.QuizResult, int64, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uint) ([]*models.QuizResult, error)
	AttemptedQuizIDs(ctx context.Context, tx *gorm.DB, userID uint) ([]uint, error)
}

type DashboardRepository interface {
	QuizStats(ctx context.Context, tx *gorm.DB) ([]*QuizStats, error)
	UserSummary(ctx context.Context, tx *gorm.DB, userID uint) (*UserSummary, error)
	Search(ctx context.Context, tx *gorm.DB, query string, limit int) (*SearchResults, error)
}
