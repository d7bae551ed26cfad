package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quizdesk/quiz-service/internal/services"
	"github.com/quizdesk/quiz-service/internal/utils"
	"github.com/quizdesk/quiz-service/internal/validator"
)

// CatalogHandler serves the admin-curated subject, chapter and question
// hierarchy.
type CatalogHandler struct {
	BaseHandler
	service services.CatalogService
}

func NewCatalogHandler(service services.CatalogService, logger utils.Logger) *CatalogHandler {
	return &CatalogHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ===== SUBJECTS =====

// CreateSubject creates a subject
// @Summary Create subject
// @Tags catalog
// @Accept json
// @Produce json
// @Param request body validator.SubjectCreateRequest true "Subject"
// @Success 201 {object} models.Subject
// @Failure 409 {object} ErrorResponse "Name already taken"
// @Router /admin/subjects [post]
func (h *CatalogHandler) CreateSubject(c *gin.Context) {
	h.LogRequest(c, "Creating subject")

	var req validator.SubjectCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	subject, err := h.service.CreateSubject(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, subject)
}

// GetSubject returns a subject with its chapters
// @Summary Get subject
// @Tags catalog
// @Produce json
// @Param id path int true "Subject ID"
// @Success 200 {object} services.SubjectResponse
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /admin/subjects/{id} [get]
func (h *CatalogHandler) GetSubject(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	subject, err := h.service.GetSubject(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, subject)
}

// UpdateSubject partially updates a subject
// @Summary Update subject
// @Tags catalog
// @Accept json
// @Produce json
// @Param id path int true "Subject ID"
// @Param request body validator.SubjectUpdateRequest true "Fields to update"
// @Success 200 {object} models.Subject
// @Router /admin/subjects/{id} [put]
func (h *CatalogHandler) UpdateSubject(c *gin.Context) {
	h.LogRequest(c, "Updating subject")

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req validator.SubjectUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	subject, err := h.service.UpdateSubject(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, subject)
}

// DeleteSubject deletes a subject and everything under it
// @Summary Delete subject
// @Tags catalog
// @Produce json
// @Param id path int true "Subject ID"
// @Success 200 {object} SuccessResponse
// @Router /admin/subjects/{id} [delete]
func (h *CatalogHandler) DeleteSubject(c *gin.Context) {
	h.LogRequest(c, "Deleting subject")

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteSubject(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Subject deleted"})
}

// ListSubjects lists subjects with chapters and question counts
// @Summary List subjects
// @Tags catalog
// @Produce json
// @Success 200 {array} services.SubjectResponse
// @Router /admin/subjects [get]
func (h *CatalogHandler) ListSubjects(c *gin.Context) {
	subjects, err := h.service.ListSubjects(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, subjects)
}

// ===== CHAPTERS =====

// CreateChapter creates a chapter under a subject
// @Summary Create chapter
// @Tags catalog
// @Accept json
// @Produce json
// @Param id path int true "Subject ID"
// @Param request body validator.ChapterCreateRequest true "Chapter"
// @Success 201 {object} models.Chapter
// @Failure 409 {object} ErrorResponse "Name already taken in subject"
// @Router /admin/subjects/{id}/chapters [post]
func (h *CatalogHandler) CreateChapter(c *gin.Context) {
	h.LogRequest(c, "Creating chapter")

	subjectID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req validator.ChapterCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	chapter, err := h.service.CreateChapter(c.Request.Context(), subjectID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, chapter)
}

// ListChapters lists a subject's chapters with question counts
// @Summary List chapters
// @Tags catalog
// @Produce json
// @Param id path int true "Subject ID"
// @Success 200 {array} services.ChapterResponse
// @Router /admin/subjects/{id}/chapters [get]
func (h *CatalogHandler) ListChapters(c *gin.Context) {
	subjectID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	chapters, err := h.service.ListChapters(c.Request.Context(), subjectID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, chapters)
}

// GetChapter returns a single chapter
// @Summary Get chapter
// @Tags catalog
// @Produce json
// @Param id path int true "Chapter ID"
// @Success 200 {object} models.Chapter
// @Router /admin/chapters/{id} [get]
func (h *CatalogHandler) GetChapter(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	chapter, err := h.service.GetChapter(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, chapter)
}

// UpdateChapter partially updates a chapter
// @Summary Update chapter
// @Tags catalog
// @Accept json
// @Produce json
// @Param id path int true "Chapter ID"
// @Param request body validator.ChapterUpdateRequest true "Fields to update"
// @Success 200 {object} models.Chapter
// @Router /admin/chapters/{id} [put]
func (h *CatalogHandler) UpdateChapter(c *gin.Context) {
	h.LogRequest(c, "Updating chapter")

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req validator.ChapterUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	chapter, err := h.service.UpdateChapter(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, chapter)
}

// DeleteChapter deletes a chapter and its questions
// @Summary Delete chapter
// @Tags catalog
// @Produce json
// @Param id path int true "Chapter ID"
// @Success 200 {object} SuccessResponse
// @Router /admin/chapters/{id} [delete]
func (h *CatalogHandler) DeleteChapter(c *gin.Context) {
	h.LogRequest(c, "Deleting chapter")

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteChapter(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Chapter deleted"})
}

// ===== QUESTIONS =====

// CreateQuestion creates a question in a chapter
// @Summary Create question
// @Tags catalog
// @Accept json
// @Produce json
// @Param id path int true "Chapter ID"
// @Param request body validator.QuestionCreateRequest true "Question"
// @Success 201 {object} models.Question
// @Failure 400 {object} ErrorResponse "Correct option does not match any option"
// @Router /admin/chapters/{id}/questions [post]
func (h *CatalogHandler) CreateQuestion(c *gin.Context) {
	h.LogRequest(c, "Creating question")

	chapterID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req validator.QuestionCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	question, err := h.service.CreateQuestion(c.Request.Context(), chapterID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, question)
}

// ListQuestions lists a chapter's questions
// @Summary List questions
// @Tags catalog
// @Produce json
// @Param id path int true "Chapter ID"
// @Success 200 {array} models.Question
// @Router /admin/chapters/{id}/questions [get]
func (h *CatalogHandler) ListQuestions(c *gin.Context) {
	chapterID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	questions, err := h.service.ListQuestions(c.Request.Context(), chapterID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, questions)
}

// GetQuestion returns a single question
// @Summary Get question
// @Tags catalog
// @Produce json
// @Param id path int true "Question ID"
// @Success 200 {object} models.Question
// @Router /admin/questions/{id} [get]
func (h *CatalogHandler) GetQuestion(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	question, err := h.service.GetQuestion(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

// UpdateQuestion partially updates a question, absent fields keep their
// stored values
// @Summary Update question
// @Tags catalog
// @Accept json
// @Produce json
// @Param id path int true "Question ID"
// @Param request body validator.QuestionUpdateRequest true "Fields to update"
// @Success 200 {object} models.Question
// @Router /admin/questions/{id} [put]
func (h *CatalogHandler) UpdateQuestion(c *gin.Context) {
	h.LogRequest(c, "Updating question")

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req validator.QuestionUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	question, err := h.service.UpdateQuestion(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

// DeleteQuestion deletes a question
// @Summary Delete question
// @Tags catalog
// @Produce json
// @Param id path int true "Question ID"
// @Success 200 {object} SuccessResponse
// @Router /admin/questions/{id} [delete]
func (h *CatalogHandler) DeleteQuestion(c *gin.Context) {
	h.LogRequest(c, "Deleting question")

	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteQuestion(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Question deleted"})
}
