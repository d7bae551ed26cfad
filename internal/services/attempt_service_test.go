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

func testQuestions() []*models.Question {
	return []*models.Question{
		{ID: 1, Title: "Q1", Option1: "a", Option2: "b", Option3: "c", Option4: "d", CorrectOption: "a", Marks: 2},
		{ID: 2, Title: "Q2", Option1: "a", Option2: "b", Option3: "c", Option4: "d", CorrectOption: "b", Marks: 3},
		{ID: 3, Title: "Q3", Option1: "a", Option2: "b", Option3: "c", Option4: "d", CorrectOption: "c", Marks: 1},
		{ID: 4, Title: "Q4", Option1: "a", Option2: "b", Option3: "c", Option4: "d", CorrectOption: "d", Marks: 4},
	}
}

func TestGradeAnswers(t *testing.T) {
	questions := testQuestions()

	t.Run("all correct", func(t *testing.T) {
		answers := map[string]string{"1": "a", "2": "b", "3": "c", "4": "d"}
		score, totalMarks, review := gradeAnswers(questions, answers)

		if score != 10 {
			t.Errorf("Expected score 10, got %d", score)
		}
		if totalMarks != 10 {
			t.Errorf("Expected total marks 10, got %d", totalMarks)
		}
		if len(review) != 4 {
			t.Fatalf("Expected 4 review entries, got %d", len(review))
		}
		for _, r := range review {
			if !r.Correct {
				t.Errorf("Question %d should be marked correct", r.QuestionID)
			}
		}
	})

	t.Run("partially correct", func(t *testing.T) {
		answers := map[string]string{"1": "a", "2": "c", "3": "c"}
		score, totalMarks, review := gradeAnswers(questions, answers)

		if score != 3 {
			t.Errorf("Expected score 3, got %d", score)
		}
		if totalMarks != 10 {
			t.Errorf("Expected total marks 10, got %d", totalMarks)
		}
		if !review[0].Correct || review[1].Correct || !review[2].Correct || review[3].Correct {
			t.Errorf("Review correctness flags do not match answers: %+v", review)
		}
		if review[3].GivenAnswer != "" {
			t.Errorf("Unanswered question should record an empty answer, got %q", review[3].GivenAnswer)
		}
	})

	t.Run("matching is case sensitive", func(t *testing.T) {
		answers := map[string]string{"1": "A"}
		score, _, review := gradeAnswers(questions, answers)

		if score != 0 {
			t.Errorf("Expected score 0 for wrong case, got %d", score)
		}
		if review[0].Correct {
			t.Error("Wrong-case answer should not be correct")
		}
	})

	t.Run("unknown question ids are ignored", func(t *testing.T) {
		answers := map[string]string{"999": "a"}
		score, totalMarks, review := gradeAnswers(questions, answers)

		if score != 0 {
			t.Errorf("Expected score 0, got %d", score)
		}
		if totalMarks != 10 {
			t.Errorf("Expected total marks 10, got %d", totalMarks)
		}
		if len(review) != 4 {
			t.Errorf("Expected 4 review entries, got %d", len(review))
		}
	})

	t.Run("empty answers grade to zero", func(t *testing.T) {
		score, totalMarks, review := gradeAnswers(questions, nil)

		if score != 0 {
			t.Errorf("Expected score 0, got %d", score)
		}
		if totalMarks != 10 {
			t.Errorf("Expected total marks 10, got %d", totalMarks)
		}
		for _, r := range review {
			if r.Correct {
				t.Errorf("Question %d should not be correct without an answer", r.QuestionID)
			}
		}
	})

	t.Run("no questions", func(t *testing.T) {
		score, totalMarks, review := gradeAnswers(nil, map[string]string{"1": "a"})

		if score != 0 || totalMarks != 0 {
			t.Errorf("Expected zero score and marks, got %d/%d", score, totalMarks)
		}
		if len(review) != 0 {
			t.Errorf("Expected empty review, got %d entries", len(review))
		}
	})
}

func TestSelectQuestions(t *testing.T) {
	questions := testQuestions()

	t.Run("caps at n", func(t *testing.T) {
		selected := selectQuestions(questions, 2)
		if len(selected) != 2 {
			t.Fatalf("Expected 2 questions, got %d", len(selected))
		}
		if selected[0].ID != 1 || selected[1].ID != 2 {
			t.Errorf("Expected the first questions in order, got %d and %d", selected[0].ID, selected[1].ID)
		}
	})

	t.Run("n larger than set returns all", func(t *testing.T) {
		selected := selectQuestions(questions, 10)
		if len(selected) != 4 {
			t.Errorf("Expected all 4 questions, got %d", len(selected))
		}
	})

	t.Run("non-positive n means no cap", func(t *testing.T) {
		if got := len(selectQuestions(questions, 0)); got != 4 {
			t.Errorf("Expected all 4 questions for n=0, got %d", got)
		}
		if got := len(selectQuestions(questions, -1)); got != 4 {
			t.Errorf("Expected all 4 questions for n=-1, got %d", got)
		}
	})
}

// ===== ATTEMPT STATE MACHINE =====

type fakeQuizRepo struct {
	repositories.QuizRepository
	quiz    *models.Quiz
	updated *models.Quiz
}

func (f *fakeQuizRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Quiz, error) {
	if f.quiz == nil || f.quiz.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return f.quiz, nil
}

func (f *fakeQuizRepo) Update(ctx context.Context, tx *gorm.DB, quiz *models.Quiz) error {
	f.updated = quiz
	return nil
}

type fakeQuestionRepo struct {
	repositories.QuestionRepository
	questions []*models.Question
}

func (f *fakeQuestionRepo) ListByChapter(ctx context.Context, tx *gorm.DB, chapterID uint) ([]*models.Question, error) {
	return f.questions, nil
}

type fakeResultRepo struct {
	repositories.ResultRepository
	existing  *models.QuizResult
	createErr error
	created   *models.QuizResult
	updated   *models.QuizResult
}

func (f *fakeResultRepo) Create(ctx context.Context, tx *gorm.DB, result *models.QuizResult) error {
	if f.createErr != nil {
		return f.createErr
	}
	result.ID = 7
	f.created = result
	return nil
}

func (f *fakeResultRepo) GetByUserAndQuiz(ctx context.Context, tx *gorm.DB, userID, quizID uint) (*models.QuizResult, error) {
	if f.existing == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.existing, nil
}

func (f *fakeResultRepo) Update(ctx context.Context, tx *gorm.DB, result *models.QuizResult) error {
	f.updated = result
	return nil
}

type fakeAttemptRepo struct {
	stubRepository
	quizzes   *fakeQuizRepo
	questions *fakeQuestionRepo
	results   *fakeResultRepo
}

func (f *fakeAttemptRepo) Quiz() repositories.QuizRepository         { return f.quizzes }
func (f *fakeAttemptRepo) Question() repositories.QuestionRepository { return f.questions }
func (f *fakeAttemptRepo) Result() repositories.ResultRepository     { return f.results }
func (f *fakeAttemptRepo) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(f)
}

func attemptTestRepo() *fakeAttemptRepo {
	return &fakeAttemptRepo{
		quizzes: &fakeQuizRepo{quiz: &models.Quiz{
			ID: 3, Title: "Algebra Weekly", SubjectID: 1, ChapterID: 2,
			NumberOfQuestions: 4, Duration: 30,
		}},
		questions: &fakeQuestionRepo{questions: testQuestions()},
		results:   &fakeResultRepo{},
	}
}

func newAttemptTestService(t *testing.T, repo repositories.Repository) (*attemptService, *events.MockEventPublisher) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	publisher := events.NewMockEventPublisher(logger)
	return &attemptService{
		repo:      repo,
		logger:    logger,
		validator: validator.New(),
		publisher: publisher,
	}, publisher
}

func TestStartAttempt(t *testing.T) {
	ctx := context.Background()

	t.Run("fresh start reserves the attempt", func(t *testing.T) {
		repo := attemptTestRepo()
		svc, publisher := newAttemptTestService(t, repo)

		resp, err := svc.Start(ctx, 3, 9)
		if err != nil {
			t.Fatalf("Start failed: %v", err)
		}
		if resp.Resumed {
			t.Error("Fresh start should not be a resume")
		}
		if repo.results.created == nil {
			t.Fatal("Start should insert a reservation")
		}
		if repo.results.created.Status != models.AttemptInProgress {
			t.Errorf("Reservation status = %s, want %s", repo.results.created.Status, models.AttemptInProgress)
		}
		if len(resp.Questions) != 4 {
			t.Errorf("Expected 4 questions, got %d", len(resp.Questions))
		}
		published := publisher.GetPublishedEvents()
		if len(published) != 1 || published[0].Type != events.EventAttemptStarted {
			t.Errorf("Expected a single %s event, got %+v", events.EventAttemptStarted, published)
		}
	})

	t.Run("in-progress attempt resumes", func(t *testing.T) {
		repo := attemptTestRepo()
		repo.results.createErr = gorm.ErrDuplicatedKey
		repo.results.existing = &models.QuizResult{ID: 11, UserID: 9, QuizID: 3, Status: models.AttemptInProgress}
		svc, publisher := newAttemptTestService(t, repo)

		resp, err := svc.Start(ctx, 3, 9)
		if err != nil {
			t.Fatalf("Start failed: %v", err)
		}
		if !resp.Resumed {
			t.Error("Duplicate reservation with an unfinished attempt should resume")
		}
		if resp.ResultID != 11 {
			t.Errorf("Expected the existing reservation id 11, got %d", resp.ResultID)
		}
		if len(publisher.GetPublishedEvents()) != 0 {
			t.Error("Resume should not publish a start event")
		}
	})

	t.Run("completed attempt is refused", func(t *testing.T) {
		repo := attemptTestRepo()
		repo.results.createErr = gorm.ErrDuplicatedKey
		repo.results.existing = &models.QuizResult{ID: 11, UserID: 9, QuizID: 3, Status: models.AttemptCompleted}
		svc, _ := newAttemptTestService(t, repo)

		if _, err := svc.Start(ctx, 3, 9); !errors.Is(err, ErrQuizAlreadyAttempted) {
			t.Errorf("Expected ErrQuizAlreadyAttempted, got %v", err)
		}
	})

	t.Run("soft-deleted quiz is refused", func(t *testing.T) {
		repo := attemptTestRepo()
		repo.quizzes.quiz.IsDeleted = true
		svc, _ := newAttemptTestService(t, repo)

		if _, err := svc.Start(ctx, 3, 9); !errors.Is(err, ErrQuizNotFound) {
			t.Errorf("Expected ErrQuizNotFound, got %v", err)
		}
	})

	t.Run("chapter without questions is refused", func(t *testing.T) {
		repo := attemptTestRepo()
		repo.questions.questions = nil
		svc, _ := newAttemptTestService(t, repo)

		if _, err := svc.Start(ctx, 3, 9); !errors.Is(err, ErrQuizHasNoQuestions) {
			t.Errorf("Expected ErrQuizHasNoQuestions, got %v", err)
		}
	})
}

func TestSubmitAttempt(t *testing.T) {
	ctx := context.Background()
	answers := &validator.SubmitQuizRequest{
		Answers:   map[string]string{"1": "a", "2": "b"},
		TimeTaken: 90,
	}

	t.Run("in-progress attempt finalizes", func(t *testing.T) {
		repo := attemptTestRepo()
		repo.results.existing = &models.QuizResult{ID: 11, UserID: 9, QuizID: 3, Status: models.AttemptInProgress}
		svc, publisher := newAttemptTestService(t, repo)

		resp, err := svc.Submit(ctx, 3, 9, answers)
		if err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
		if resp.Result.Status != models.AttemptCompleted {
			t.Errorf("Status = %s, want %s", resp.Result.Status, models.AttemptCompleted)
		}
		if resp.Result.Score != 5 || resp.Result.TotalMarks != 10 {
			t.Errorf("Score = %d/%d, want 5/10", resp.Result.Score, resp.Result.TotalMarks)
		}
		if resp.Percentage != 50 {
			t.Errorf("Percentage = %v, want 50", resp.Percentage)
		}
		if repo.results.updated == nil {
			t.Error("Submit should persist the finalized attempt")
		}
		published := publisher.GetPublishedEvents()
		if len(published) != 1 || published[0].Type != events.EventAttemptCompleted {
			t.Errorf("Expected a single %s event, got %+v", events.EventAttemptCompleted, published)
		}
	})

	t.Run("completed attempt is refused", func(t *testing.T) {
		repo := attemptTestRepo()
		repo.results.existing = &models.QuizResult{ID: 11, UserID: 9, QuizID: 3, Status: models.AttemptCompleted}
		svc, _ := newAttemptTestService(t, repo)

		if _, err := svc.Submit(ctx, 3, 9, answers); !errors.Is(err, ErrQuizAlreadyAttempted) {
			t.Errorf("Expected ErrQuizAlreadyAttempted, got %v", err)
		}
		if repo.results.updated != nil {
			t.Error("Refused submit must not touch the stored attempt")
		}
	})

	t.Run("missing reservation is refused", func(t *testing.T) {
		repo := attemptTestRepo()
		svc, _ := newAttemptTestService(t, repo)

		if _, err := svc.Submit(ctx, 3, 9, answers); !errors.Is(err, ErrAttemptNotFound) {
			t.Errorf("Expected ErrAttemptNotFound, got %v", err)
		}
	})

	t.Run("quiz deleted mid-attempt can still be submitted", func(t *testing.T) {
		repo := attemptTestRepo()
		repo.quizzes.quiz.IsDeleted = true
		repo.results.existing = &models.QuizResult{ID: 11, UserID: 9, QuizID: 3, Status: models.AttemptInProgress}
		svc, _ := newAttemptTestService(t, repo)

		resp, err := svc.Submit(ctx, 3, 9, answers)
		if err != nil {
			t.Fatalf("Submit after soft delete failed: %v", err)
		}
		if resp.Result.Status != models.AttemptCompleted {
			t.Errorf("Status = %s, want %s", resp.Result.Status, models.AttemptCompleted)
		}
	})
}

func TestQuizResultPercentage(t *testing.T) {
	tests := []struct {
		name   string
		result models.QuizResult
		want   float64
	}{
		{name: "half", result: models.QuizResult{Score: 5, TotalMarks: 10}, want: 50},
		{name: "full", result: models.QuizResult{Score: 10, TotalMarks: 10}, want: 100},
		{name: "zero marks", result: models.QuizResult{Score: 0, TotalMarks: 0}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.result.Percentage(); got != tt.want {
				t.Errorf("Percentage() = %v, want %v", got, tt.want)
			}
		})
	}
}
