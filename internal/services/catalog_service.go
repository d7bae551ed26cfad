package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/quizdesk/quiz-service/internal/models"
	"github.com/quizdesk/quiz-service/internal/repositories"
	"github.com/quizdesk/quiz-service/internal/validator"
)

type catalogService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewCatalogService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator) CatalogService {
	return &catalogService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
	}
}

// ===== SUBJECTS =====

func (s *catalogService) CreateSubject(ctx context.Context, req *validator.SubjectCreateRequest) (*models.Subject, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.repo.Subject().GetByName(ctx, nil, req.Name); err == nil {
		return nil, ErrSubjectExists
	} else if !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to check subject name: %w", err)
	}

	subject := &models.Subject{
		Name:        req.Name,
		Description: req.Description,
	}

	if err := s.repo.Subject().Create(ctx, nil, subject); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrSubjectExists
		}
		return nil, fmt.Errorf("failed to create subject: %w", err)
	}

	s.logger.Info("Subject created", "subject_id", subject.ID, "name", subject.Name)
	return subject, nil
}

func (s *catalogService) GetSubject(ctx context.Context, id uint) (*SubjectResponse, error) {
	subject, err := s.repo.Subject().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSubjectNotFound
		}
		return nil, fmt.Errorf("failed to get subject: %w", err)
	}

	chapters, err := s.ListChapters(ctx, id)
	if err != nil {
		return nil, err
	}

	return &SubjectResponse{Subject: subject, Chapters: chapters}, nil
}

func (s *catalogService) UpdateSubject(ctx context.Context, id uint, req *validator.SubjectUpdateRequest) (*models.Subject, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	subject, err := s.repo.Subject().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSubjectNotFound
		}
		return nil, fmt.Errorf("failed to get subject: %w", err)
	}

	if req.Name != nil && *req.Name != subject.Name {
		if _, err := s.repo.Subject().GetByName(ctx, nil, *req.Name); err == nil {
			return nil, ErrSubjectExists
		} else if !repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("failed to check subject name: %w", err)
		}
		subject.Name = *req.Name
	}
	if req.Description != nil {
		subject.Description = *req.Description
	}

	if err := s.repo.Subject().Update(ctx, nil, subject); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrSubjectExists
		}
		return nil, fmt.Errorf("failed to update subject: %w", err)
	}

	return subject, nil
}

// DeleteSubject removes the subject with its chapters and questions, and
// soft-deletes the quizzes built on them.
func (s *catalogService) DeleteSubject(ctx context.Context, id uint) error {
	if _, err := s.repo.Subject().GetByID(ctx, nil, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrSubjectNotFound
		}
		return fmt.Errorf("failed to get subject: %w", err)
	}

	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		chapters, err := txRepo.Chapter().ListBySubject(ctx, nil, id)
		if err != nil {
			return fmt.Errorf("failed to list chapters: %w", err)
		}

		chapterIDs := make([]uint, 0, len(chapters))
		for _, chapter := range chapters {
			chapterIDs = append(chapterIDs, chapter.ID)
		}

		if err := txRepo.Question().DeleteByChapters(ctx, nil, chapterIDs); err != nil {
			return fmt.Errorf("failed to delete questions: %w", err)
		}

		if err := s.softDeleteQuizzes(ctx, txRepo, repositories.QuizFilters{SubjectID: &id}); err != nil {
			return err
		}

		if err := txRepo.Chapter().DeleteBySubject(ctx, nil, id); err != nil {
			return fmt.Errorf("failed to delete chapters: %w", err)
		}

		if err := txRepo.Subject().Delete(ctx, nil, id); err != nil {
			return fmt.Errorf("failed to delete subject: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Subject deleted", "subject_id", id)
	return nil
}

func (s *catalogService) ListSubjects(ctx context.Context) ([]*SubjectResponse, error) {
	subjects, err := s.repo.Subject().List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}

	responses := make([]*SubjectResponse, 0, len(subjects))
	for _, subject := range subjects {
		chapters, err := s.ListChapters(ctx, subject.ID)
		if err != nil {
			return nil, err
		}
		responses = append(responses, &SubjectResponse{Subject: subject, Chapters: chapters})
	}
	return responses, nil
}

// ===== CHAPTERS =====

func (s *catalogService) CreateChapter(ctx context.Context, subjectID uint, req *validator.ChapterCreateRequest) (*models.Chapter, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.repo.Subject().GetByID(ctx, nil, subjectID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSubjectNotFound
		}
		return nil, fmt.Errorf("failed to get subject: %w", err)
	}

	// Chapter names are unique within a subject only
	if _, err := s.repo.Chapter().GetByNameAndSubject(ctx, nil, req.Name, subjectID); err == nil {
		return nil, ErrChapterExists
	} else if !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to check chapter name: %w", err)
	}

	chapter := &models.Chapter{
		Name:        req.Name,
		Description: req.Description,
		SubjectID:   subjectID,
	}

	if err := s.repo.Chapter().Create(ctx, nil, chapter); err != nil {
		return nil, fmt.Errorf("failed to create chapter: %w", err)
	}

	s.logger.Info("Chapter created", "chapter_id", chapter.ID, "subject_id", subjectID)
	return chapter, nil
}

func (s *catalogService) GetChapter(ctx context.Context, id uint) (*models.Chapter, error) {
	chapter, err := s.repo.Chapter().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrChapterNotFound
		}
		return nil, fmt.Errorf("failed to get chapter: %w", err)
	}
	return chapter, nil
}

func (s *catalogService) UpdateChapter(ctx context.Context, id uint, req *validator.ChapterUpdateRequest) (*models.Chapter, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	chapter, err := s.GetChapter(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != chapter.Name {
		if existing, err := s.repo.Chapter().GetByNameAndSubject(ctx, nil, *req.Name, chapter.SubjectID); err == nil && existing.ID != id {
			return nil, ErrChapterExists
		} else if err != nil && !repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("failed to check chapter name: %w", err)
		}
		chapter.Name = *req.Name
	}
	if req.Description != nil {
		chapter.Description = *req.Description
	}

	if err := s.repo.Chapter().Update(ctx, nil, chapter); err != nil {
		return nil, fmt.Errorf("failed to update chapter: %w", err)
	}

	return chapter, nil
}

// DeleteChapter removes the chapter and its questions, soft-deleting quizzes
// that draw from it.
func (s *catalogService) DeleteChapter(ctx context.Context, id uint) error {
	if _, err := s.GetChapter(ctx, id); err != nil {
		return err
	}

	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Question().DeleteByChapter(ctx, nil, id); err != nil {
			return fmt.Errorf("failed to delete questions: %w", err)
		}

		if err := s.softDeleteQuizzes(ctx, txRepo, repositories.QuizFilters{ChapterID: &id}); err != nil {
			return err
		}

		if err := txRepo.Chapter().Delete(ctx, nil, id); err != nil {
			return fmt.Errorf("failed to delete chapter: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Chapter deleted", "chapter_id", id)
	return nil
}

func (s *catalogService) ListChapters(ctx context.Context, subjectID uint) ([]*ChapterResponse, error) {
	chapters, err := s.repo.Chapter().ListBySubject(ctx, nil, subjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chapters: %w", err)
	}

	responses := make([]*ChapterResponse, 0, len(chapters))
	for _, chapter := range chapters {
		count, err := s.repo.Question().CountByChapter(ctx, nil, chapter.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count questions: %w", err)
		}
		responses = append(responses, &ChapterResponse{Chapter: chapter, QuestionCount: count})
	}
	return responses, nil
}

// ===== QUESTIONS =====

func (s *catalogService) CreateQuestion(ctx context.Context, chapterID uint, req *validator.QuestionCreateRequest) (*models.Question, error) {
	if errs := s.validator.GetBusinessValidator().ValidateQuestionCreate(req); len(errs) > 0 {
		return nil, errs
	}

	if _, err := s.GetChapter(ctx, chapterID); err != nil {
		return nil, err
	}

	question := &models.Question{
		Title:         req.Title,
		Option1:       req.Option1,
		Option2:       req.Option2,
		Option3:       req.Option3,
		Option4:       req.Option4,
		CorrectOption: req.CorrectOption,
		Marks:         req.Marks,
		ChapterID:     chapterID,
	}

	if err := s.repo.Question().Create(ctx, nil, question); err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}

	s.logger.Info("Question created", "question_id", question.ID, "chapter_id", chapterID)
	return question, nil
}

func (s *catalogService) GetQuestion(ctx context.Context, id uint) (*models.Question, error) {
	question, err := s.repo.Question().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	return question, nil
}

// UpdateQuestion merges the partial update over the stored question, then
// re-checks that the correct answer still matches one of the options.
func (s *catalogService) UpdateQuestion(ctx context.Context, id uint, req *validator.QuestionUpdateRequest) (*models.Question, error) {
	question, err := s.GetQuestion(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		question.Title = *req.Title
	}
	if req.Option1 != nil {
		question.Option1 = *req.Option1
	}
	if req.Option2 != nil {
		question.Option2 = *req.Option2
	}
	if req.Option3 != nil {
		question.Option3 = *req.Option3
	}
	if req.Option4 != nil {
		question.Option4 = *req.Option4
	}
	if req.CorrectOption != nil {
		question.CorrectOption = *req.CorrectOption
	}
	if req.Marks != nil {
		question.Marks = *req.Marks
	}

	if errs := s.validator.GetBusinessValidator().ValidateQuestionUpdate(req, question); len(errs) > 0 {
		return nil, errs
	}

	if err := s.repo.Question().Update(ctx, nil, question); err != nil {
		return nil, fmt.Errorf("failed to update question: %w", err)
	}

	return question, nil
}

func (s *catalogService) DeleteQuestion(ctx context.Context, id uint) error {
	if _, err := s.GetQuestion(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Question().Delete(ctx, nil, id); err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}

	s.logger.Info("Question deleted", "question_id", id)
	return nil
}

func (s *catalogService) ListQuestions(ctx context.Context, chapterID uint) ([]*models.Question, error) {
	if _, err := s.GetChapter(ctx, chapterID); err != nil {
		return nil, err
	}

	questions, err := s.repo.Question().ListByChapter(ctx, nil, chapterID)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return questions, nil
}

// softDeleteQuizzes soft-deletes every quiz matching the filters, including
// ones already flagged (SoftDelete is idempotent on them).
func (s *catalogService) softDeleteQuizzes(ctx context.Context, txRepo repositories.Repository, filters repositories.QuizFilters) error {
	filters.IncludeDeleted = false
	quizzes, _, err := txRepo.Quiz().List(ctx, nil, filters)
	if err != nil {
		return fmt.Errorf("failed to list quizzes: %w", err)
	}

	for _, quiz := range quizzes {
		if err := txRepo.Quiz().SoftDelete(ctx, nil, quiz.ID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return fmt.Errorf("failed to soft delete quiz %d: %w", quiz.ID, err)
		}
	}
	return nil
}
