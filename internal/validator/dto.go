package validator

// RegisterRequest represents the request structure for user registration
type RegisterRequest struct {
	Username        string `json:"username" validate:"required,min=3,max=80,username_format"`
	Password        string `json:"password" validate:"required,min=6,max=72"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
	Name            string `json:"name" validate:"required,min=1,max=100"`
	Qualification   string `json:"qualification" validate:"required,max=100"`
	DOB             string `json:"dob" validate:"required,dob_date"`
}

// LoginRequest represents the request structure for login
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ForgotPasswordRequest resets a password against the recorded date of birth
type ForgotPasswordRequest struct {
	Username    string `json:"username" validate:"required"`
	DOB         string `json:"dob" validate:"required,dob_date"`
	NewPassword string `json:"new_password" validate:"required,min=6,max=72"`
}

// ProfileUpdateRequest represents a partial profile update
type ProfileUpdateRequest struct {
	Name          *string `json:"name" validate:"omitempty,min=1,max=100"`
	Qualification *string `json:"qualification" validate:"omitempty,max=100"`
	DOB           *string `json:"dob" validate:"omitempty,dob_date"`
	Password      *string `json:"password" validate:"omitempty,min=6,max=72"`
}

// SubjectCreateRequest represents the request structure for creating subjects
type SubjectCreateRequest struct {
	Name        string `json:"name" validate:"required,notblank,max=100"`
	Description string `json:"description" validate:"omitempty,max=255"`
}

// SubjectUpdateRequest represents a partial subject update
type SubjectUpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=255"`
}

// ChapterCreateRequest represents the request structure for creating chapters
type ChapterCreateRequest struct {
	Name        string `json:"name" validate:"required,notblank,max=100"`
	Description string `json:"description" validate:"omitempty,max=255"`
}

// ChapterUpdateRequest represents a partial chapter update
type ChapterUpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=255"`
}

// QuestionCreateRequest represents the request structure for creating
// questions. Every text field must be non-blank after trimming.
type QuestionCreateRequest struct {
	Title         string `json:"title" validate:"required,notblank,max=2000"`
	Option1       string `json:"option1" validate:"required,notblank,max=200"`
	Option2       string `json:"option2" validate:"required,notblank,max=200"`
	Option3       string `json:"option3" validate:"required,notblank,max=200"`
	Option4       string `json:"option4" validate:"required,notblank,max=200"`
	CorrectOption string `json:"correct_option" validate:"required,notblank,max=200"`
	Marks         int    `json:"marks" validate:"required,min=1,max=100"`
}

// QuestionUpdateRequest represents a partial question update. Absent fields
// keep their stored values.
type QuestionUpdateRequest struct {
	Title         *string `json:"title" validate:"omitempty,min=1,max=2000"`
	Option1       *string `json:"option1" validate:"omitempty,max=200"`
	Option2       *string `json:"option2" validate:"omitempty,max=200"`
	Option3       *string `json:"option3" validate:"omitempty,max=200"`
	Option4       *string `json:"option4" validate:"omitempty,max=200"`
	CorrectOption *string `json:"correct_option" validate:"omitempty,max=200"`
	Marks         *int    `json:"marks" validate:"omitempty,min=1,max=100"`
}

// QuizCreateRequest represents the request structure for creating quizzes
type QuizCreateRequest struct {
	Title             string `json:"title" validate:"required,notblank,max=100"`
	Description       string `json:"description" validate:"omitempty,max=255"`
	SubjectID         uint   `json:"subject_id" validate:"required"`
	ChapterID         uint   `json:"chapter_id" validate:"required"`
	NumberOfQuestions int    `json:"number_of_questions" validate:"required,min=1"`
	Duration          int    `json:"duration" validate:"required,quiz_duration"`
}

// QuizUpdateRequest represents a partial quiz update. Re-pointing the quiz at
// another subject or chapter re-checks that the chapter belongs to the subject.
type QuizUpdateRequest struct {
	Title             *string `json:"title" validate:"omitempty,notblank,max=100"`
	Description       *string `json:"description" validate:"omitempty,max=255"`
	SubjectID         *uint   `json:"subject_id" validate:"omitempty,min=1"`
	ChapterID         *uint   `json:"chapter_id" validate:"omitempty,min=1"`
	NumberOfQuestions *int    `json:"number_of_questions" validate:"omitempty,min=1"`
	Duration          *int    `json:"duration" validate:"omitempty,quiz_duration"`
}

// SubmitQuizRequest carries the answers for a started attempt, keyed by
// question id rendered as a string.
type SubmitQuizRequest struct {
	Answers   map[string]string `json:"answers" validate:"required"`
	TimeTaken int               `json:"time_taken" validate:"omitempty,min=0"`
}
