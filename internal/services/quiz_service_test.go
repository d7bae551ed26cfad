package services

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"gorm.io/gorm"

	"github.com/quizdesk/quiz-service/internal/events"
	"github.com/quizdesk/quiz-service/internal/models"
	"github.com/quizdesk/quiz-service/internal/repositories"
	"github.com/quizdesk/quiz-service/internal/validator"
)

type fakeSubjectRepo struct {
	repositories.SubjectRepository
	subjects map[uint]*models.Subject
}

func (f *fakeSubjectRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Subject, error) {
	if s, ok := f.subjects[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeChapterRepo struct {
	repositories.ChapterRepository
	chapters map[uint]*models.Chapter
}

func (f *fakeChapterRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Chapter, error) {
	if c, ok := f.chapters[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeQuizServiceRepo struct {
	stubRepository
	subjects *fakeSubjectRepo
	chapters *fakeChapterRepo
	quizzes  *fakeQuizRepo
}

func (f *fakeQuizServiceRepo) Subject() repositories.SubjectRepository { return f.subjects }
func (f *fakeQuizServiceRepo) Chapter() repositories.ChapterRepository { return f.chapters }
func (f *fakeQuizServiceRepo) Quiz() repositories.QuizRepository       { return f.quizzes }

func quizUpdateTestRepo() *fakeQuizServiceRepo {
	return &fakeQuizServiceRepo{
		subjects: &fakeSubjectRepo{subjects: map[uint]*models.Subject{
			1: {ID: 1, Name: "Maths"},
			2: {ID: 2, Name: "Physics"},
		}},
		chapters: &fakeChapterRepo{chapters: map[uint]*models.Chapter{
			2: {ID: 2, Name: "Algebra", SubjectID: 1},
			5: {ID: 5, Name: "Optics", SubjectID: 2},
		}},
		quizzes: &fakeQuizRepo{quiz: &models.Quiz{
			ID: 3, Title: "Weekly Quiz", SubjectID: 1, ChapterID: 2,
			NumberOfQuestions: 4, Duration: 30,
		}},
	}
}

func newQuizTestService(t *testing.T, repo repositories.Repository) *quizService {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	return &quizService{
		repo:      repo,
		logger:    logger,
		validator: validator.New(),
		publisher: events.NewMockEventPublisher(logger),
	}
}

func uintPtr(v uint) *uint { return &v }

func TestQuizUpdateRepointing(t *testing.T) {
	ctx := context.Background()

	t.Run("moves to a chapter of the new subject", func(t *testing.T) {
		repo := quizUpdateTestRepo()
		svc := newQuizTestService(t, repo)

		quiz, err := svc.Update(ctx, 3, &validator.QuizUpdateRequest{
			SubjectID: uintPtr(2),
			ChapterID: uintPtr(5),
		})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if quiz.SubjectID != 2 || quiz.ChapterID != 5 {
			t.Errorf("Quiz points at subject %d chapter %d, want 2/5", quiz.SubjectID, quiz.ChapterID)
		}
		if repo.quizzes.updated == nil {
			t.Error("Update should persist the re-pointed quiz")
		}
	})

	t.Run("chapter outside the quiz subject is refused", func(t *testing.T) {
		repo := quizUpdateTestRepo()
		svc := newQuizTestService(t, repo)

		_, err := svc.Update(ctx, 3, &validator.QuizUpdateRequest{ChapterID: uintPtr(5)})
		if !errors.Is(err, ErrChapterNotInSubject) {
			t.Errorf("Expected ErrChapterNotInSubject, got %v", err)
		}
		if repo.quizzes.updated != nil {
			t.Error("Refused update must not persist")
		}
	})

	t.Run("unknown chapter is refused", func(t *testing.T) {
		svc := newQuizTestService(t, quizUpdateTestRepo())

		_, err := svc.Update(ctx, 3, &validator.QuizUpdateRequest{
			SubjectID: uintPtr(2),
			ChapterID: uintPtr(99),
		})
		if !errors.Is(err, ErrChapterNotFound) {
			t.Errorf("Expected ErrChapterNotFound, got %v", err)
		}
	})

	t.Run("unknown subject is refused", func(t *testing.T) {
		svc := newQuizTestService(t, quizUpdateTestRepo())

		_, err := svc.Update(ctx, 3, &validator.QuizUpdateRequest{SubjectID: uintPtr(99)})
		if !errors.Is(err, ErrSubjectNotFound) {
			t.Errorf("Expected ErrSubjectNotFound, got %v", err)
		}
	})

	t.Run("untouched fields keep their values", func(t *testing.T) {
		repo := quizUpdateTestRepo()
		svc := newQuizTestService(t, repo)

		n := 6
		quiz, err := svc.Update(ctx, 3, &validator.QuizUpdateRequest{NumberOfQuestions: &n})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if quiz.SubjectID != 1 || quiz.ChapterID != 2 {
			t.Errorf("Subject/chapter changed to %d/%d without being supplied", quiz.SubjectID, quiz.ChapterID)
		}
		if quiz.NumberOfQuestions != 6 {
			t.Errorf("NumberOfQuestions = %d, want 6", quiz.NumberOfQuestions)
		}
	})
}
