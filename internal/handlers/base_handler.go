package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/quizdesk/quiz-service/internal/models"
	"github.com/quizdesk/quiz-service/internal/services"
	"github.com/quizdesk/quiz-service/internal/utils"
	"github.com/quizdesk/quiz-service/internal/validator"
)

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// SuccessResponse wraps operations that return no entity.
type SuccessResponse struct {
	Message string `json:"message"`
}

// BaseHandler carries the shared handler dependencies.
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// LogRequest logs the handler entry with the request id.
func (h *BaseHandler) LogRequest(c *gin.Context, msg string) {
	h.logger.Info(msg,
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"request_id", c.GetString("request_id"))
}

// parseIDParam reads a positive integer path parameter.
func (h *BaseHandler) parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + name + " parameter",
			Details: raw,
		})
		return 0, false
	}
	return uint(id), true
}

// currentUser returns the authenticated user set by the auth middleware.
func (h *BaseHandler) currentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
		return nil, false
	}
	user, ok := value.(*models.User)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
		return nil, false
	}
	return user, true
}

// handleServiceError maps service sentinel errors to HTTP statuses.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrs,
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrRecoveryMismatch):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: err.Error()})

	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrSubjectNotFound),
		errors.Is(err, services.ErrChapterNotFound),
		errors.Is(err, services.ErrQuestionNotFound),
		errors.Is(err, services.ErrQuizNotFound),
		errors.Is(err, services.ErrAttemptNotFound),
		errors.Is(err, services.ErrNoCompletedAttempt):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: err.Error()})

	case errors.Is(err, services.ErrUserExists),
		errors.Is(err, services.ErrSubjectExists),
		errors.Is(err, services.ErrChapterExists),
		errors.Is(err, services.ErrQuizAlreadyAttempted):
		c.JSON(http.StatusConflict, ErrorResponse{Message: err.Error()})

	case errors.Is(err, services.ErrChapterNotInSubject),
		errors.Is(err, services.ErrQuizHasNoQuestions):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Message: err.Error()})

	default:
		h.logger.Error("Unhandled service error",
			"error", err,
			"path", c.Request.URL.Path,
			"request_id", c.GetString("request_id"))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Internal server error"})
	}
}
