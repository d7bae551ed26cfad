package models

import (
	"time"
)

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

type User struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Username string `json:"username" gorm:"uniqueIndex;not null;size:80"`
	// Password holds the bcrypt digest, never the clear text.
	Password      string `json:"-" gorm:"not null;size:100"`
	Name          string `json:"name" gorm:"not null;size:100"`
	Qualification string `json:"qualification" gorm:"not null;size:100"`
	DOB           string `json:"dob" gorm:"not null;size:10"` // YYYY-MM-DD
	IsAdmin       bool   `json:"is_admin" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Results []QuizResult `json:"-" gorm:"foreignKey:UserID"`
}

func (User) TableName() string {
	return "users"
}

// Role derives the capability role from the persisted admin flag.
func (u *User) Role() UserRole {
	if u.IsAdmin {
		return RoleAdmin
	}
	return RoleUser
}
