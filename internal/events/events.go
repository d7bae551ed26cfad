package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the quiz service.
const (
	EventUserRegistered   = "user.registered"
	EventQuizCreated      = "quiz.created"
	EventQuizDeleted      = "quiz.deleted"
	EventAttemptStarted   = "attempt.started"
	EventAttemptCompleted = "attempt.completed"
)

// Event is the envelope published to the broker.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// NewEvent builds an envelope with the service identity filled in.
func NewEvent(eventType string, data interface{}) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    "quiz-service",
		Version:   "1.0",
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// Publisher delivers events to the configured broker.
type Publisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}

// AttemptCompletedData is the payload for attempt.completed events.
type AttemptCompletedData struct {
	UserID         uint    `json:"user_id"`
	QuizID         uint    `json:"quiz_id"`
	ResultID       uint    `json:"result_id"`
	Score          int     `json:"score"`
	TotalMarks     int     `json:"total_marks"`
	Percentage     float64 `json:"percentage"`
	TimeTakenSecs  int     `json:"time_taken_secs"`
	TotalQuestions int     `json:"total_questions"`
}

// AttemptStartedData is the payload for attempt.started events.
type AttemptStartedData struct {
	UserID uint `json:"user_id"`
	QuizID uint `json:"quiz_id"`
}

// UserRegisteredData is the payload for user.registered events.
type UserRegisteredData struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
}

// QuizLifecycleData is the payload for quiz.created and quiz.deleted events.
type QuizLifecycleData struct {
	QuizID    uint   `json:"quiz_id"`
	Title     string `json:"title"`
	SubjectID uint   `json:"subject_id"`
	ChapterID uint   `json:"chapter_id"`
}
