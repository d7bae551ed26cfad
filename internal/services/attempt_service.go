package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/quizdesk/quiz-service/internal/events"
	"github.com/quizdesk/quiz-service/internal/models"
	"github.com/quizdesk/quiz-service/internal/repositories"
	"github.com/quizdesk/quiz-service/internal/validator"
)

type attemptService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.Publisher
}

func NewAttemptService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, publisher events.Publisher) AttemptService {
	return &attemptService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		publisher: publisher,
	}
}

// Start reserves the user's single attempt on the quiz. The reservation row
// is inserted before any questions are shown, so two concurrent starts race
// on the (user_id, quiz_id) unique index instead of a check-then-insert.
func (s *attemptService) Start(ctx context.Context, quizID, userID uint) (*StartAttemptResponse, error) {
	s.logger.Info("Starting quiz attempt", "quiz_id", quizID, "user_id", userID)

	quiz, err := s.getLiveQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}

	questions, err := s.attemptQuestions(ctx, quiz)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, ErrQuizHasNoQuestions
	}

	result := &models.QuizResult{
		UserID:      userID,
		QuizID:      quizID,
		Status:      models.AttemptInProgress,
		AttemptDate: time.Now(),
	}

	resumed := false
	if err := s.repo.Result().Create(ctx, nil, result); err != nil {
		if !repositories.IsDuplicateError(err) {
			return nil, fmt.Errorf("failed to reserve attempt: %w", err)
		}

		// The reservation exists: resume an unfinished attempt, refuse a
		// finished one.
		existing, getErr := s.repo.Result().GetByUserAndQuiz(ctx, nil, userID, quizID)
		if getErr != nil {
			return nil, fmt.Errorf("failed to load existing attempt: %w", getErr)
		}
		if existing.Status == models.AttemptCompleted {
			return nil, ErrQuizAlreadyAttempted
		}
		result = existing
		resumed = true
	}

	if !resumed {
		if err := s.publisher.Publish(ctx, events.NewEvent(events.EventAttemptStarted, &events.AttemptStartedData{
			UserID: userID,
			QuizID: quizID,
		})); err != nil {
			s.logger.Warn("Failed to publish attempt started event", "error", err, "quiz_id", quizID)
		}
	}

	view := make([]*AttemptQuestion, 0, len(questions))
	for _, q := range questions {
		view = append(view, &AttemptQuestion{
			ID:      q.ID,
			Title:   q.Title,
			Options: q.Options(),
			Marks:   q.Marks,
		})
	}

	return &StartAttemptResponse{
		ResultID:  result.ID,
		Quiz:      quiz,
		Questions: view,
		StartedAt: result.AttemptDate,
		Resumed:   resumed,
	}, nil
}

// Submit grades the submitted answers against the attempt's question set and
// finalizes the reservation.
func (s *attemptService) Submit(ctx context.Context, quizID, userID uint, req *validator.SubmitQuizRequest) (*AttemptResultResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	// No soft-delete gate here. A quiz deleted while an attempt is in
	// progress can still be submitted; the reservation already exists.
	quiz, err := s.repo.Quiz().GetByID(ctx, nil, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	result, err := s.repo.Result().GetByUserAndQuiz(ctx, nil, userID, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("failed to load attempt: %w", err)
	}
	if result.Status == models.AttemptCompleted {
		return nil, ErrQuizAlreadyAttempted
	}

	questions, err := s.attemptQuestions(ctx, quiz)
	if err != nil {
		return nil, err
	}

	score, totalMarks, review := gradeAnswers(questions, req.Answers)

	answersJSON, err := json.Marshal(req.Answers)
	if err != nil {
		return nil, fmt.Errorf("failed to encode answers: %w", err)
	}

	now := time.Now()
	result.Status = models.AttemptCompleted
	result.Score = score
	result.TotalMarks = totalMarks
	result.TotalQuestions = len(questions)
	result.TimeTaken = req.TimeTaken
	result.CompletedAt = &now
	result.Answers = answersJSON

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		return txRepo.Result().Update(ctx, nil, result)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to finalize attempt: %w", err)
	}

	if err := s.publisher.Publish(ctx, events.NewEvent(events.EventAttemptCompleted, &events.AttemptCompletedData{
		UserID:         userID,
		QuizID:         quizID,
		ResultID:       result.ID,
		Score:          score,
		TotalMarks:     totalMarks,
		Percentage:     result.Percentage(),
		TimeTakenSecs:  result.TimeTaken,
		TotalQuestions: result.TotalQuestions,
	})); err != nil {
		s.logger.Warn("Failed to publish attempt completed event", "error", err, "result_id", result.ID)
	}

	s.logger.Info("Quiz attempt completed",
		"result_id", result.ID,
		"quiz_id", quizID,
		"user_id", userID,
		"score", score,
		"total_marks", totalMarks)

	return &AttemptResultResponse{
		Result:     result,
		Percentage: result.Percentage(),
		Review:     review,
	}, nil
}

func (s *attemptService) ViewResult(ctx context.Context, quizID, userID uint) (*AttemptResultResponse, error) {
	result, err := s.repo.Result().GetByUserAndQuiz(ctx, nil, userID, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrNoCompletedAttempt
		}
		return nil, fmt.Errorf("failed to load result: %w", err)
	}
	if result.Status != models.AttemptCompleted {
		return nil, ErrNoCompletedAttempt
	}

	// Review is rebuilt from the current question set. Questions edited after
	// the attempt show their current text, the stored score stands.
	quiz, err := s.repo.Quiz().GetByID(ctx, nil, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to load quiz: %w", err)
	}

	questions, err := s.attemptQuestions(ctx, quiz)
	if err != nil {
		return nil, err
	}

	var answers map[string]string
	if len(result.Answers) > 0 {
		if err := json.Unmarshal(result.Answers, &answers); err != nil {
			return nil, fmt.Errorf("failed to decode stored answers: %w", err)
		}
	}

	_, _, review := gradeAnswers(questions, answers)

	return &AttemptResultResponse{
		Result:     result,
		Percentage: result.Percentage(),
		Review:     review,
	}, nil
}

func (s *attemptService) ListUserResults(ctx context.Context, userID uint) ([]*models.QuizResult, error) {
	results, err := s.repo.Result().ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	return results, nil
}

// getLiveQuiz loads the quiz and hides soft-deleted ones.
func (s *attemptService) getLiveQuiz(ctx context.Context, quizID uint) (*models.Quiz, error) {
	quiz, err := s.repo.Quiz().GetByID(ctx, nil, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}
	if quiz.IsDeleted {
		return nil, ErrQuizNotFound
	}
	return quiz, nil
}

// attemptQuestions returns the quiz's question set: the chapter's questions
// in id order, capped at NumberOfQuestions.
func (s *attemptService) attemptQuestions(ctx context.Context, quiz *models.Quiz) ([]*models.Question, error) {
	questions, err := s.repo.Question().ListByChapter(ctx, nil, quiz.ChapterID)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return selectQuestions(questions, quiz.NumberOfQuestions), nil
}

// selectQuestions caps the ordered question list at n. A non-positive n means
// no cap.
func selectQuestions(questions []*models.Question, n int) []*models.Question {
	if n <= 0 || n >= len(questions) {
		return questions
	}
	return questions[:n]
}

// gradeAnswers scores the answers against the question set. An answer is
// correct only when it matches the stored correct option exactly. Unanswered
// and unknown question ids score zero.
func gradeAnswers(questions []*models.Question, answers map[string]string) (score, totalMarks int, review []*QuestionReview) {
	review = make([]*QuestionReview, 0, len(questions))

	for _, q := range questions {
		totalMarks += q.Marks

		given := answers[strconv.FormatUint(uint64(q.ID), 10)]
		correct := given != "" && given == q.CorrectOption
		if correct {
			score += q.Marks
		}

		review = append(review, &QuestionReview{
			QuestionID:    q.ID,
			Title:         q.Title,
			GivenAnswer:   given,
			CorrectAnswer: q.CorrectOption,
			Marks:         q.Marks,
			Correct:       correct,
		})
	}
	return score, totalMarks, review
}
