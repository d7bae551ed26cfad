package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/quizdesk/quiz-service/internal/events"
	"github.com/quizdesk/quiz-service/internal/models"
	"github.com/quizdesk/quiz-service/internal/repositories"
	"github.com/quizdesk/quiz-service/internal/validator"
)

type quizService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.Publisher
}

func NewQuizService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, publisher events.Publisher) QuizService {
	return &quizService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		publisher: publisher,
	}
}

func (s *quizService) Create(ctx context.Context, req *validator.QuizCreateRequest) (*models.Quiz, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.repo.Subject().GetByID(ctx, nil, req.SubjectID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSubjectNotFound
		}
		return nil, fmt.Errorf("failed to get subject: %w", err)
	}

	chapter, err := s.repo.Chapter().GetByID(ctx, nil, req.ChapterID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrChapterNotFound
		}
		return nil, fmt.Errorf("failed to get chapter: %w", err)
	}
	if chapter.SubjectID != req.SubjectID {
		return nil, ErrChapterNotInSubject
	}

	quiz := &models.Quiz{
		Title:             req.Title,
		Description:       req.Description,
		SubjectID:         req.SubjectID,
		ChapterID:         req.ChapterID,
		NumberOfQuestions: req.NumberOfQuestions,
		Duration:          req.Duration,
	}

	if err := s.repo.Quiz().Create(ctx, nil, quiz); err != nil {
		return nil, fmt.Errorf("failed to create quiz: %w", err)
	}

	if err := s.publisher.Publish(ctx, events.NewEvent(events.EventQuizCreated, &events.QuizLifecycleData{
		QuizID:    quiz.ID,
		Title:     quiz.Title,
		SubjectID: quiz.SubjectID,
		ChapterID: quiz.ChapterID,
	})); err != nil {
		s.logger.Warn("Failed to publish quiz created event", "error", err, "quiz_id", quiz.ID)
	}

	s.logger.Info("Quiz created", "quiz_id", quiz.ID, "chapter_id", quiz.ChapterID)
	return quiz, nil
}

func (s *quizService) GetByID(ctx context.Context, id uint) (*models.Quiz, error) {
	quiz, err := s.repo.Quiz().GetByIDWithDetails(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}
	return quiz, nil
}

func (s *quizService) Update(ctx context.Context, id uint, req *validator.QuizUpdateRequest) (*models.Quiz, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	quiz, err := s.repo.Quiz().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}
	if quiz.IsDeleted {
		return nil, ErrQuizNotFound
	}

	subjectID := quiz.SubjectID
	if req.SubjectID != nil {
		subjectID = *req.SubjectID
	}
	chapterID := quiz.ChapterID
	if req.ChapterID != nil {
		chapterID = *req.ChapterID
	}
	if subjectID != quiz.SubjectID || chapterID != quiz.ChapterID {
		if _, err := s.repo.Subject().GetByID(ctx, nil, subjectID); err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, ErrSubjectNotFound
			}
			return nil, fmt.Errorf("failed to get subject: %w", err)
		}
		chapter, err := s.repo.Chapter().GetByID(ctx, nil, chapterID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, ErrChapterNotFound
			}
			return nil, fmt.Errorf("failed to get chapter: %w", err)
		}
		if chapter.SubjectID != subjectID {
			return nil, ErrChapterNotInSubject
		}
		quiz.SubjectID = subjectID
		quiz.ChapterID = chapterID
	}

	if req.Title != nil {
		quiz.Title = *req.Title
	}
	if req.Description != nil {
		quiz.Description = *req.Description
	}
	if req.NumberOfQuestions != nil {
		quiz.NumberOfQuestions = *req.NumberOfQuestions
	}
	if req.Duration != nil {
		quiz.Duration = *req.Duration
	}

	if err := s.repo.Quiz().Update(ctx, nil, quiz); err != nil {
		return nil, fmt.Errorf("failed to update quiz: %w", err)
	}

	return quiz, nil
}

func (s *quizService) Delete(ctx context.Context, id uint) error {
	quiz, err := s.repo.Quiz().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrQuizNotFound
		}
		return fmt.Errorf("failed to get quiz: %w", err)
	}
	if quiz.IsDeleted {
		return ErrQuizNotFound
	}

	if err := s.repo.Quiz().SoftDelete(ctx, nil, id); err != nil {
		return fmt.Errorf("failed to delete quiz: %w", err)
	}

	if err := s.publisher.Publish(ctx, events.NewEvent(events.EventQuizDeleted, &events.QuizLifecycleData{
		QuizID:    quiz.ID,
		Title:     quiz.Title,
		SubjectID: quiz.SubjectID,
		ChapterID: quiz.ChapterID,
	})); err != nil {
		s.logger.Warn("Failed to publish quiz deleted event", "error", err, "quiz_id", quiz.ID)
	}

	s.logger.Info("Quiz soft deleted", "quiz_id", id)
	return nil
}

func (s *quizService) List(ctx context.Context, filters repositories.QuizFilters) (*QuizListResponse, error) {
	quizzes, total, err := s.repo.Quiz().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}

	responses := make([]*QuizResponse, 0, len(quizzes))
	for _, quiz := range quizzes {
		responses = append(responses, &QuizResponse{Quiz: quiz})
	}

	return &QuizListResponse{
		Quizzes: responses,
		Total:   total,
		Limit:   filters.Limit,
		Offset:  filters.Offset,
	}, nil
}

func (s *quizService) ListAvailable(ctx context.Context, userID uint, filters repositories.QuizFilters) (*QuizListResponse, error) {
	filters.IncludeDeleted = false

	quizzes, total, err := s.repo.Quiz().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}

	attemptedIDs, err := s.repo.Result().AttemptedQuizIDs(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get attempted quizzes: %w", err)
	}

	attempted := make(map[uint]bool, len(attemptedIDs))
	for _, id := range attemptedIDs {
		attempted[id] = true
	}

	responses := make([]*QuizResponse, 0, len(quizzes))
	for _, quiz := range quizzes {
		responses = append(responses, &QuizResponse{
			Quiz:      quiz,
			Attempted: attempted[quiz.ID],
		})
	}

	return &QuizListResponse{
		Quizzes: responses,
		Total:   total,
		Limit:   filters.Limit,
		Offset:  filters.Offset,
	}, nil
}
