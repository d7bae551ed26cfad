package validator

import (
	"testing"
	"time"
)

func TestValidateRegisterRequest(t *testing.T) {
	v := New()

	t.Run("valid request passes", func(t *testing.T) {
		req := &RegisterRequest{
			Username:        "priya.sharma",
			Password:        "s3cret-pass",
			ConfirmPassword: "s3cret-pass",
			Name:            "Priya Sharma",
			Qualification:   "BSc",
			DOB:             "1999-04-12",
		}
		if err := v.Validate(req); err != nil {
			t.Errorf("Expected valid request, got %v", err)
		}
	})

	t.Run("password confirmation must match", func(t *testing.T) {
		req := &RegisterRequest{
			Username:        "priya.sharma",
			Password:        "s3cret-pass",
			ConfirmPassword: "different",
			Name:            "Priya Sharma",
			Qualification:   "BSc",
			DOB:             "1999-04-12",
		}
		if err := v.Validate(req); err == nil {
			t.Error("Expected confirmation mismatch failure")
		}
	})

	t.Run("missing fields fail", func(t *testing.T) {
		err := v.Validate(&RegisterRequest{})
		if err == nil {
			t.Fatal("Expected validation errors for empty request")
		}
		ve, ok := err.(ValidationErrors)
		if !ok {
			t.Fatalf("Expected ValidationErrors, got %T", err)
		}
		if len(ve) < 5 {
			t.Errorf("Expected errors on all required fields, got %d", len(ve))
		}
	})

	t.Run("username with invalid characters fails", func(t *testing.T) {
		req := &RegisterRequest{
			Username:        "priya sharma!",
			Password:        "s3cret-pass",
			ConfirmPassword: "s3cret-pass",
			Name:            "Priya",
			Qualification:   "BSc",
			DOB:             "1999-04-12",
		}
		if err := v.Validate(req); err == nil {
			t.Error("Expected username_format failure")
		}
	})

	t.Run("short password fails", func(t *testing.T) {
		req := &RegisterRequest{
			Username:        "priya",
			Password:        "abc",
			ConfirmPassword: "abc",
			Name:            "Priya",
			Qualification:   "BSc",
			DOB:             "1999-04-12",
		}
		if err := v.Validate(req); err == nil {
			t.Error("Expected min length failure on password")
		}
	})
}

func TestDOBDateRule(t *testing.T) {
	v := New()

	base := func(dob string) *RegisterRequest {
		return &RegisterRequest{
			Username:        "user1",
			Password:        "s3cret-pass",
			ConfirmPassword: "s3cret-pass",
			Name:            "User",
			Qualification:   "BSc",
			DOB:             dob,
		}
	}

	tests := []struct {
		name    string
		dob     string
		wantErr bool
	}{
		{name: "valid date", dob: "1990-01-31", wantErr: false},
		{name: "wrong format", dob: "31-01-1990", wantErr: true},
		{name: "not a date", dob: "yesterday", wantErr: true},
		{name: "impossible day", dob: "1990-02-30", wantErr: true},
		{name: "future date", dob: time.Now().AddDate(1, 0, 0).Format("2006-01-02"), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(base(tt.dob))
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(dob=%q) error = %v, wantErr %v", tt.dob, err, tt.wantErr)
			}
		})
	}
}

func TestQuizDurationRule(t *testing.T) {
	v := New()

	base := func(duration int) *QuizCreateRequest {
		return &QuizCreateRequest{
			Title:             "Algebra Basics",
			SubjectID:         1,
			ChapterID:         1,
			NumberOfQuestions: 10,
			Duration:          duration,
		}
	}

	tests := []struct {
		name     string
		duration int
		wantErr  bool
	}{
		{name: "one minute", duration: 1, wantErr: false},
		{name: "upper bound", duration: 300, wantErr: false},
		{name: "too long", duration: 301, wantErr: true},
		{name: "negative", duration: -5, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(base(tt.duration))
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(duration=%d) error = %v, wantErr %v", tt.duration, err, tt.wantErr)
			}
		})
	}
}

func TestValidateQuestionCreate(t *testing.T) {
	bv := New().GetBusinessValidator()

	base := func() *QuestionCreateRequest {
		return &QuestionCreateRequest{
			Title:         "What is 2+2?",
			Option1:       "3",
			Option2:       "4",
			Option3:       "5",
			Option4:       "6",
			CorrectOption: "4",
			Marks:         2,
		}
	}

	t.Run("correct option matches an option", func(t *testing.T) {
		if errs := bv.ValidateQuestionCreate(base()); len(errs) != 0 {
			t.Errorf("Expected no errors, got %v", errs)
		}
	})

	t.Run("correct option not among options", func(t *testing.T) {
		req := base()
		req.CorrectOption = "7"
		errs := bv.ValidateQuestionCreate(req)
		if len(errs) != 1 {
			t.Fatalf("Expected 1 error, got %d", len(errs))
		}
		if errs[0].Field != "correct_option" {
			t.Errorf("Expected error on correct_option, got %s", errs[0].Field)
		}
	})

	t.Run("matching is case sensitive", func(t *testing.T) {
		req := base()
		req.Option2 = "Four"
		req.CorrectOption = "four"
		if errs := bv.ValidateQuestionCreate(req); len(errs) == 0 {
			t.Error("Expected case-sensitive mismatch to fail")
		}
	})

	t.Run("whitespace-only fields fail", func(t *testing.T) {
		req := &QuestionCreateRequest{
			Title:         "   ",
			Option1:       " ",
			Option2:       "\t",
			Option3:       " ",
			Option4:       " ",
			CorrectOption: " ",
			Marks:         5,
		}
		errs := bv.ValidateQuestionCreate(req)
		if len(errs) == 0 {
			t.Fatal("Expected blank fields to fail validation")
		}
		for _, e := range errs {
			if e.Rule != "notblank" {
				t.Errorf("Expected notblank rule on %s, got %s", e.Field, e.Rule)
			}
		}
	})

	t.Run("zero marks fail", func(t *testing.T) {
		req := base()
		req.Marks = 0
		if errs := bv.ValidateQuestionCreate(req); len(errs) == 0 {
			t.Error("Expected marks validation failure")
		}
	})
}

func TestNotBlankRule(t *testing.T) {
	v := New()

	tests := []struct {
		name    string
		req     interface{}
		wantErr bool
	}{
		{name: "subject name blank", req: &SubjectCreateRequest{Name: "   "}, wantErr: true},
		{name: "subject name set", req: &SubjectCreateRequest{Name: "Maths"}, wantErr: false},
		{name: "chapter name blank", req: &ChapterCreateRequest{Name: "\t "}, wantErr: true},
		{name: "chapter name set", req: &ChapterCreateRequest{Name: "Algebra"}, wantErr: false},
		{
			name:    "quiz title blank",
			req:     &QuizCreateRequest{Title: "  ", SubjectID: 1, ChapterID: 1, NumberOfQuestions: 5, Duration: 30},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(%+v) error = %v, wantErr %v", tt.req, err, tt.wantErr)
			}
		})
	}
}

func TestValidationErrorsMessage(t *testing.T) {
	single := ValidationErrors{{Field: "username", Message: "is required"}}
	if single.Error() != "validation failed: username is required" {
		t.Errorf("Unexpected single error message: %s", single.Error())
	}

	many := ValidationErrors{{Field: "a"}, {Field: "b"}}
	if many.Error() != "validation failed: 2 field errors" {
		t.Errorf("Unexpected multi error message: %s", many.Error())
	}
}
