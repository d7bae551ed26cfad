package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/quizdesk/quiz-service/internal/repositories"
	"github.com/quizdesk/quiz-service/internal/services"
	"github.com/quizdesk/quiz-service/internal/utils"
	"github.com/quizdesk/quiz-service/internal/validator"
)

type QuizHandler struct {
	BaseHandler
	service services.QuizService
}

func NewQuizHandler(service services.QuizService, logger utils.Logger) *QuizHandler {
	return &QuizHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// CreateQuiz creates a quiz on a chapter
// @Summary Create quiz
// @Tags quizzes
// @Accept json
// @Produce json
// @Param request body validator.QuizCreateRequest true "Quiz"
// @Success 201 {object} models.Quiz
// @Failure 422 {object} ErrorResponse "Chapter does not belong to subject"
// @Router /admin/quizzes [post]
func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	h.LogRequest(c, "Creating quiz")

	var req validator.QuizCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	quiz, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, quiz)
}

// GetQuiz returns a quiz with its subject and chapter
// @Summary Get quiz
// @Tags quizzes
// @Produce json
// @Param id path int true "Quiz ID"
// @Success 200 {object} models.Quiz
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /admin/quizzes/{id} [get]
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	quiz, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, quiz)
}

// UpdateQuiz partially updates a quiz
// @Summary Update quiz
// @Tags quizzes
// @Accept json
// @Produce json
// @Param id path int true "Quiz ID"
// @Param request body validator.QuizUpdateRequest true "Fields to update"
// @Success 200 {object} models.Quiz
// @Router /admin/quizzes/{id} [put]
func (h *QuizHandler) UpdateQuiz(c *gin.Context) {
	h.LogRequest(c, "Updating quiz")

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req validator.QuizUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	quiz, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, quiz)
}

// DeleteQuiz soft-deletes a quiz, existing results stay readable
// @Summary Delete quiz
// @Tags quizzes
// @Produce json
// @Param id path int true "Quiz ID"
// @Success 200 {object} SuccessResponse
// @Router /admin/quizzes/{id} [delete]
func (h *QuizHandler) DeleteQuiz(c *gin.Context) {
	h.LogRequest(c, "Deleting quiz")

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Quiz deleted"})
}

// ListQuizzes lists quizzes for administration, optionally including
// soft-deleted ones
// @Summary List quizzes (admin)
// @Tags quizzes
// @Produce json
// @Param include_deleted query bool false "Include soft-deleted quizzes"
// @Param subject_id query int false "Filter by subject"
// @Param chapter_id query int false "Filter by chapter"
// @Success 200 {object} services.QuizListResponse
// @Router /admin/quizzes [get]
func (h *QuizHandler) ListQuizzes(c *gin.Context) {
	filters := parseQuizFilters(c)
	filters.IncludeDeleted = c.Query("include_deleted") == "true"

	resp, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListAvailableQuizzes lists live quizzes for the requesting user
// @Summary List available quizzes
// @Tags quizzes
// @Produce json
// @Param subject_id query int false "Filter by subject"
// @Param chapter_id query int false "Filter by chapter"
// @Success 200 {object} services.QuizListResponse
// @Router /quizzes [get]
func (h *QuizHandler) ListAvailableQuizzes(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	resp, err := h.service.ListAvailable(c.Request.Context(), user.ID, parseQuizFilters(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetAvailableQuiz returns a live quiz for a user
// @Summary Get available quiz
// @Tags quizzes
// @Produce json
// @Param id path int true "Quiz ID"
// @Success 200 {object} models.Quiz
// @Failure 404 {object} ErrorResponse "Not found or deleted"
// @Router /quizzes/{id} [get]
func (h *QuizHandler) GetAvailableQuiz(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	quiz, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	if quiz.IsDeleted {
		c.JSON(http.StatusNotFound, ErrorResponse{Message: services.ErrQuizNotFound.Error()})
		return
	}

	c.JSON(http.StatusOK, quiz)
}

func parseQuizFilters(c *gin.Context) repositories.QuizFilters {
	filters := repositories.QuizFilters{
		SortBy:    c.DefaultQuery("sort_by", "created_at"),
		SortOrder: c.DefaultQuery("sort_order", "desc"),
	}

	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil && limit > 0 && limit <= 100 {
		filters.Limit = limit
	} else {
		filters.Limit = 20
	}
	if offset, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil && offset > 0 {
		filters.Offset = offset
	}

	if raw := c.Query("subject_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			subjectID := uint(id)
			filters.SubjectID = &subjectID
		}
	}
	if raw := c.Query("chapter_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			chapterID := uint(id)
			filters.ChapterID = &chapterID
		}
	}

	return filters
}
