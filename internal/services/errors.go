package services

import "errors"

// Sentinel errors returned by services. Handlers map these to HTTP statuses.
var (
	// Auth
	ErrUserExists         = errors.New("username is already taken")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrRecoveryMismatch   = errors.New("recovery details do not match")

	// Catalog
	ErrSubjectExists    = errors.New("subject with this name already exists")
	ErrSubjectNotFound  = errors.New("subject not found")
	ErrChapterExists    = errors.New("chapter with this name already exists in the subject")
	ErrChapterNotFound  = errors.New("chapter not found")
	ErrQuestionNotFound = errors.New("question not found")

	// Quizzes
	ErrQuizNotFound         = errors.New("quiz not found")
	ErrChapterNotInSubject  = errors.New("chapter does not belong to the given subject")
	ErrQuizHasNoQuestions   = errors.New("quiz has no questions to attempt")
	ErrQuizAlreadyAttempted = errors.New("quiz has already been attempted")
	ErrAttemptNotFound      = errors.New("attempt not found")
	ErrNoCompletedAttempt   = errors.New("no completed attempt for this quiz")
)
