package services

import (
	"context"
	"time"

	"github.com/quizdesk/quiz-service/internal/models"
	"github.com/quizdesk/quiz-service/internal/repositories"
	"github.com/quizdesk/quiz-service/internal/validator"
)

// ===== AUTH =====

// AuthResponse carries the issued session token and the authenticated user.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

type AuthService interface {
	Register(ctx context.Context, req *validator.RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req *validator.LoginRequest) (*AuthResponse, error)
	// Logout denies the token id until its natural expiry.
	Logout(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)
	ForgotPassword(ctx context.Context, req *validator.ForgotPasswordRequest) error

	GetProfile(ctx context.Context, userID uint) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uint, req *validator.ProfileUpdateRequest) (*models.User, error)
}

// ===== CATALOG =====

// ChapterResponse is a chapter annotated with its question count.
type ChapterResponse struct {
	*models.Chapter
	QuestionCount int64 `json:"question_count"`
}

// SubjectResponse is a subject with its chapters expanded.
type SubjectResponse struct {
	*models.Subject
	Chapters []*ChapterResponse `json:"chapters"`
}

type CatalogService interface {
	// Subjects
	CreateSubject(ctx context.Context, req *validator.SubjectCreateRequest) (*models.Subject, error)
	GetSubject(ctx context.Context, id uint) (*SubjectResponse, error)
	UpdateSubject(ctx context.Context, id uint, req *validator.SubjectUpdateRequest) (*models.Subject, error)
	DeleteSubject(ctx context.Context, id uint) error
	ListSubjects(ctx context.Context) ([]*SubjectResponse, error)

	// Chapters
	CreateChapter(ctx context.Context, subjectID uint, req *validator.ChapterCreateRequest) (*models.Chapter, error)
	GetChapter(ctx context.Context, id uint) (*models.Chapter, error)
	UpdateChapter(ctx context.Context, id uint, req *validator.ChapterUpdateRequest) (*models.Chapter, error)
	DeleteChapter(ctx context.Context, id uint) error
	ListChapters(ctx context.Context, subjectID uint) ([]*ChapterResponse, error)

	// Questions
	CreateQuestion(ctx context.Context, chapterID uint, req *validator.QuestionCreateRequest) (*models.Question, error)
	GetQuestion(ctx context.Context, id uint) (*models.Question, error)
	UpdateQuestion(ctx context.Context, id uint, req *validator.QuestionUpdateRequest) (*models.Question, error)
	DeleteQuestion(ctx context.Context, id uint) error
	ListQuestions(ctx context.Context, chapterID uint) ([]*models.Question, error)
}

// ===== QUIZZES =====

// QuizResponse is a quiz annotated for the requesting user.
type QuizResponse struct {
	*models.Quiz
	Attempted bool `json:"attempted"`
}

// QuizListResponse is a paginated quiz listing.
type QuizListResponse struct {
	Quizzes []*QuizResponse `json:"quizzes"`
	Total   int64           `json:"total"`
	Limit   int             `json:"limit"`
	Offset  int             `json:"offset"`
}

type QuizService interface {
	Create(ctx context.Context, req *validator.QuizCreateRequest) (*models.Quiz, error)
	GetByID(ctx context.Context, id uint) (*models.Quiz, error)
	Update(ctx context.Context, id uint, req *validator.QuizUpdateRequest) (*models.Quiz, error)
	// Delete soft-deletes so completed attempts keep resolving.
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filters repositories.QuizFilters) (*QuizListResponse, error)
	// ListAvailable lists live quizzes for a user, flagging attempted ones.
	ListAvailable(ctx context.Context, userID uint, filters repositories.QuizFilters) (*QuizListResponse, error)
}

// ===== ATTEMPTS =====

// AttemptQuestion is a question as shown during an attempt, without the
// correct answer.
type AttemptQuestion struct {
	ID      uint      `json:"id"`
	Title   string    `json:"title"`
	Options [4]string `json:"options"`
	Marks   int       `json:"marks"`
}

// StartAttemptResponse is the live attempt view.
type StartAttemptResponse struct {
	ResultID  uint               `json:"result_id"`
	Quiz      *models.Quiz       `json:"quiz"`
	Questions []*AttemptQuestion `json:"questions"`
	StartedAt time.Time          `json:"started_at"`
	Resumed   bool               `json:"resumed"`
}

// QuestionReview is the per-question breakdown of a completed attempt.
type QuestionReview struct {
	QuestionID    uint   `json:"question_id"`
	Title         string `json:"title"`
	GivenAnswer   string `json:"given_answer"`
	CorrectAnswer string `json:"correct_answer"`
	Marks         int    `json:"marks"`
	Correct       bool   `json:"correct"`
}

// AttemptResultResponse is the scored attempt with its review.
type AttemptResultResponse struct {
	Result     *models.QuizResult `json:"result"`
	Percentage float64            `json:"percentage"`
	Review     []*QuestionReview  `json:"review,omitempty"`
}

type AttemptService interface {
	// Start reserves the user's single attempt and returns the question set.
	// Starting again while in progress resumes, after completion it fails
	// with ErrQuizAlreadyAttempted.
	Start(ctx context.Context, quizID, userID uint) (*StartAttemptResponse, error)
	// Submit grades the answers and finalizes the attempt.
	Submit(ctx context.Context, quizID, userID uint, req *validator.SubmitQuizRequest) (*AttemptResultResponse, error)
	// ViewResult returns the completed attempt with per-question review.
	ViewResult(ctx context.Context, quizID, userID uint) (*AttemptResultResponse, error)
	ListUserResults(ctx context.Context, userID uint) ([]*models.QuizResult, error)
}

// ===== DASHBOARD =====

// AdminSummary aggregates platform-wide numbers for the admin dashboard.
type AdminSummary struct {
	TotalUsers    int64                     `json:"total_users"`
	TotalSubjects int64                     `json:"total_subjects"`
	TotalQuizzes  int64                     `json:"total_quizzes"`
	QuizStats     []*repositories.QuizStats `json:"quiz_stats"`
}

type DashboardService interface {
	AdminSummary(ctx context.Context) (*AdminSummary, error)
	UserSummary(ctx context.Context, userID uint) (*repositories.UserSummary, error)
	Search(ctx context.Context, query string, limit int) (*repositories.SearchResults, error)
	// ExportResults renders all completed results as an Excel workbook.
	ExportResults(ctx context.Context) ([]byte, error)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	Auth() AuthService
	Catalog() CatalogService
	Quiz() QuizService
	Attempt() AttemptService
	Dashboard() DashboardService

	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
