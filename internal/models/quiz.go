package models

import (
	"time"

	"gorm.io/datatypes"
)

type Quiz struct {
	ID                uint   `json:"id" gorm:"primaryKey"`
	Title             string `json:"title" gorm:"not null;size:100" validate:"required"`
	Description       string `json:"description" gorm:"size:255"`
	SubjectID         uint   `json:"subject_id" gorm:"not null;index"`
	ChapterID         uint   `json:"chapter_id" gorm:"not null;index"`
	NumberOfQuestions int    `json:"number_of_questions" gorm:"not null" validate:"min=1"`
	Duration          int    `json:"duration" gorm:"not null" validate:"min=1"` // minutes

	// Soft delete so historical results stay valid.
	IsDeleted bool `json:"is_deleted" gorm:"default:false;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Subject *Subject `json:"subject,omitempty" gorm:"foreignKey:SubjectID"`
	Chapter *Chapter `json:"chapter,omitempty" gorm:"foreignKey:ChapterID"`
	Results []QuizResult `json:"-" gorm:"foreignKey:QuizID"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

type AttemptStatus string

const (
	AttemptInProgress AttemptStatus = "in_progress"
	AttemptCompleted  AttemptStatus = "completed"
)

// QuizResult is the single permitted attempt of a user on a quiz. The unique
// index on (user_id, quiz_id) is the authoritative anti-replay constraint:
// a second reservation insert fails at the store instead of racing a
// check-then-insert.
type QuizResult struct {
	ID             uint          `json:"id" gorm:"primaryKey"`
	UserID         uint          `json:"user_id" gorm:"not null;uniqueIndex:idx_user_quiz"`
	QuizID         uint          `json:"quiz_id" gorm:"not null;uniqueIndex:idx_user_quiz"`
	Status         AttemptStatus `json:"status" gorm:"default:in_progress;index"`
	Score          int           `json:"score"`
	TotalMarks     int           `json:"total_marks"`
	TotalQuestions int           `json:"total_questions"`
	TimeTaken      int           `json:"time_taken"` // seconds
	AttemptDate    time.Time     `json:"attempt_date"`
	CompletedAt    *time.Time    `json:"completed_at"`

	// Submitted answers keyed by question id, kept for the review view.
	Answers datatypes.JSON `json:"answers" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	User *User `json:"-" gorm:"foreignKey:UserID"`
	Quiz *Quiz `json:"quiz,omitempty" gorm:"foreignKey:QuizID"`
}

func (QuizResult) TableName() string {
	return "quiz_results"
}

// Percentage returns the score as a percentage of total marks, 0 when the
// quiz carried no marks.
func (r *QuizResult) Percentage() float64 {
	if r.TotalMarks <= 0 {
		return 0
	}
	return float64(r.Score) / float64(r.TotalMarks) * 100
}
