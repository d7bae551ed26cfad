package models

import (
	"time"
)

type Subject struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"uniqueIndex;not null;size:100" validate:"required"`
	Description string `json:"description" gorm:"size:255"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Chapters []Chapter `json:"chapters,omitempty" gorm:"foreignKey:SubjectID"`
	Quizzes  []Quiz    `json:"-" gorm:"foreignKey:SubjectID"`
}

func (Subject) TableName() string {
	return "subjects"
}

// Chapter name uniqueness is scoped to the parent subject and checked in the
// catalog service, not DB-enforced.
type Chapter struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"not null;size:100;index" validate:"required"`
	Description string `json:"description" gorm:"size:255"`
	SubjectID   uint   `json:"subject_id" gorm:"not null;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Subject   *Subject   `json:"-" gorm:"foreignKey:SubjectID"`
	Questions []Question `json:"questions,omitempty" gorm:"foreignKey:ChapterID"`

	// Statistics (computed)
	QuestionCount int `json:"question_count,omitempty" gorm:"-"`
}

func (Chapter) TableName() string {
	return "chapters"
}
