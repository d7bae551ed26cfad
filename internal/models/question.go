package models

import (
	"time"
)

type Question struct {
	ID            uint   `json:"id" gorm:"primaryKey"`
	Title         string `json:"title" gorm:"type:text;not null" validate:"required"`
	Option1       string `json:"option1" gorm:"not null;size:200" validate:"required"`
	Option2       string `json:"option2" gorm:"not null;size:200" validate:"required"`
	Option3       string `json:"option3" gorm:"not null;size:200" validate:"required"`
	Option4       string `json:"option4" gorm:"not null;size:200" validate:"required"`
	CorrectOption string `json:"correct_option" gorm:"not null;size:200" validate:"required"`
	Marks         int    `json:"marks" gorm:"not null" validate:"min=1"`
	ChapterID     uint   `json:"chapter_id" gorm:"not null;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Chapter *Chapter `json:"-" gorm:"foreignKey:ChapterID"`
}

func (Question) TableName() string {
	return "questions"
}

// Options returns the four answer options in display order.
func (q *Question) Options() [4]string {
	return [4]string{q.Option1, q.Option2, q.Option3, q.Option4}
}

// HasOption reports whether the given text matches one of the four options
// exactly (case-sensitive).
func (q *Question) HasOption(text string) bool {
	for _, opt := range q.Options() {
		if opt == text {
			return true
		}
	}
	return false
}
