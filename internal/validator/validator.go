package validator

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents a single failed field rule
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	if len(ve) == 1 {
		return fmt.Sprintf("validation failed: %s %s", ve[0].Field, ve[0].Message)
	}
	return fmt.Sprintf("validation failed: %d field errors", len(ve))
}

// ToValidationErrors converts go-playground validator errors to our shape
func ToValidationErrors(err error) ValidationErrors {
	if err == nil {
		return nil
	}

	var errors ValidationErrors
	if fieldErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range fieldErrors {
			errors = append(errors, ValidationError{
				Field:   fe.Field(),
				Message: messageForTag(fe),
				Value:   fe.Value(),
				Rule:    fe.Tag(),
			})
		}
		return errors
	}

	return ValidationErrors{{Field: "request", Message: err.Error()}}
}

func messageForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "eqfield":
		return fmt.Sprintf("must match %s", fe.Param())
	case "notblank":
		return "must not be blank"
	case "dob_date":
		return "must be a valid date in YYYY-MM-DD format"
	case "quiz_duration":
		return "must be between 1 and 300 minutes"
	case "username_format":
		return "must contain only letters, digits, dots, underscores or hyphens"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// Validator wraps struct validation and exposes the business rule validator
type Validator struct {
	validate *validator.Validate
	business *BusinessValidator
}

// New creates a validator with all custom rules registered
func New() *Validator {
	business := NewBusinessValidator()
	return &Validator{
		validate: business.validate,
		business: business,
	}
}

// Validate validates struct tags and returns nil or ValidationErrors
func (v *Validator) Validate(s interface{}) error {
	if err := v.validate.Struct(s); err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// GetBusinessValidator returns the business rule validator
func (v *Validator) GetBusinessValidator() *BusinessValidator {
	return v.business
}
