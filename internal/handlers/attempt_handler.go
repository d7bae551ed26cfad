package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quizdesk/quiz-service/internal/services"
	"github.com/quizdesk/quiz-service/internal/utils"
	"github.com/quizdesk/quiz-service/internal/validator"
)

// AttemptHandler serves the quiz-taking flow. Every route resolves the
// user from the session, an attempt can never be started or submitted on
// someone else's behalf.
type AttemptHandler struct {
	BaseHandler
	service services.AttemptService
}

func NewAttemptHandler(service services.AttemptService, logger utils.Logger) *AttemptHandler {
	return &AttemptHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// StartAttempt reserves the user's attempt and returns the question set
// @Summary Start a quiz attempt
// @Tags attempts
// @Produce json
// @Param id path int true "Quiz ID"
// @Success 200 {object} services.StartAttemptResponse
// @Failure 404 {object} ErrorResponse "Quiz not found"
// @Failure 409 {object} ErrorResponse "Quiz already attempted"
// @Failure 422 {object} ErrorResponse "Quiz has no questions"
// @Router /quizzes/{id}/start [post]
func (h *AttemptHandler) StartAttempt(c *gin.Context) {
	h.LogRequest(c, "Starting quiz attempt")

	quizID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	resp, err := h.service.Start(c.Request.Context(), quizID, user.ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// SubmitAttempt grades the submitted answers and finalizes the attempt
// @Summary Submit a quiz attempt
// @Tags attempts
// @Accept json
// @Produce json
// @Param id path int true "Quiz ID"
// @Param request body validator.SubmitQuizRequest true "Answers keyed by question id"
// @Success 200 {object} services.AttemptResultResponse
// @Failure 404 {object} ErrorResponse "No attempt in progress"
// @Router /quizzes/{id}/submit [post]
func (h *AttemptHandler) SubmitAttempt(c *gin.Context) {
	h.LogRequest(c, "Submitting quiz attempt")

	quizID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req validator.SubmitQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	resp, err := h.service.Submit(c.Request.Context(), quizID, user.ID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ViewResult returns the user's completed attempt with the review
// @Summary View attempt result
// @Tags attempts
// @Produce json
// @Param id path int true "Quiz ID"
// @Success 200 {object} services.AttemptResultResponse
// @Failure 404 {object} ErrorResponse "No completed attempt"
// @Router /quizzes/{id}/result [get]
func (h *AttemptHandler) ViewResult(c *gin.Context) {
	quizID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	resp, err := h.service.ViewResult(c.Request.Context(), quizID, user.ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListResults lists all of the user's attempts, newest first
// @Summary List own results
// @Tags attempts
// @Produce json
// @Success 200 {array} models.QuizResult
// @Router /results [get]
func (h *AttemptHandler) ListResults(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	results, err := h.service.ListUserResults(c.Request.Context(), user.ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}
