package validator

import (
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/quizdesk/quiz-service/internal/models"
)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// BusinessValidator handles business rule validation
type BusinessValidator struct {
	validate *validator.Validate
}

// NewBusinessValidator creates a new business validator
func NewBusinessValidator() *BusinessValidator {
	validate := validator.New()

	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()

	return bv
}

// Validate validates business rules for any struct
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	if err := bv.validate.Struct(s); err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateQuestionCreate checks that the stated correct answer is one of the
// four options.
func (bv *BusinessValidator) ValidateQuestionCreate(req *QuestionCreateRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	if len(errors) == 0 && !optionMatches(req.CorrectOption, req.Option1, req.Option2, req.Option3, req.Option4) {
		errors = append(errors, ValidationError{
			Field:   "correct_option",
			Message: "must exactly match one of the four options",
			Value:   req.CorrectOption,
			Rule:    "correct_option",
		})
	}

	return errors
}

// ValidateQuestionUpdate checks the merged question still has a valid correct
// answer after a partial update.
func (bv *BusinessValidator) ValidateQuestionUpdate(req *QuestionUpdateRequest, merged *models.Question) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	if len(errors) == 0 && !merged.HasOption(merged.CorrectOption) {
		errors = append(errors, ValidationError{
			Field:   "correct_option",
			Message: "must exactly match one of the four options",
			Value:   merged.CorrectOption,
			Rule:    "correct_option",
		})
	}

	return errors
}

func optionMatches(correct string, options ...string) bool {
	for _, opt := range options {
		if opt == correct {
			return true
		}
	}
	return false
}

// registerBusinessRules registers custom business rule validators
func (bv *BusinessValidator) registerBusinessRules() {
	// Date of birth in YYYY-MM-DD, not in the future
	bv.validate.RegisterValidation("dob_date", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if value == "" {
			return false
		}
		parsed, err := time.Parse("2006-01-02", value)
		if err != nil {
			return false
		}
		return !parsed.After(time.Now())
	})

	// Quiz duration in minutes (1-300)
	bv.validate.RegisterValidation("quiz_duration", func(fl validator.FieldLevel) bool {
		duration := fl.Field().Int()
		return duration >= 1 && duration <= 300
	})

	// Username charset check
	bv.validate.RegisterValidation("username_format", func(fl validator.FieldLevel) bool {
		username := strings.TrimSpace(fl.Field().String())
		return username != "" && usernameRe.MatchString(username)
	})

	// Non-blank after trimming. `required` alone accepts whitespace-only
	// strings.
	bv.validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
}
