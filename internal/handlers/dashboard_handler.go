package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quizdesk/quiz-service/internal/services"
	"github.com/quizdesk/quiz-service/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type DashboardHandler struct {
	BaseHandler
	service services.DashboardService
}

func NewDashboardHandler(service services.DashboardService, logger utils.Logger) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// AdminSummary returns platform-wide statistics
// @Summary Admin dashboard summary
// @Tags dashboard
// @Produce json
// @Success 200 {object} services.AdminSummary
// @Router /admin/summary [get]
func (h *DashboardHandler) AdminSummary(c *gin.Context) {
	summary, err := h.service.AdminSummary(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// ExportResults streams all completed results as an Excel workbook
// @Summary Export results workbook
// @Tags dashboard
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Router /admin/summary/export [get]
func (h *DashboardHandler) ExportResults(c *gin.Context) {
	h.LogRequest(c, "Exporting results workbook")

	payload, err := h.service.ExportResults(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("quiz_results_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, payload)
}

// Search searches users, subjects, chapters, quizzes and questions
// @Summary Search across entities
// @Tags dashboard
// @Produce json
// @Param q query string true "Search term"
// @Param limit query int false "Per-entity result cap"
// @Success 200 {object} repositories.SearchResults
// @Router /admin/search [get]
func (h *DashboardHandler) Search(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	results, err := h.service.Search(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

// UserSummary returns the requesting user's aggregate performance
// @Summary User dashboard summary
// @Tags dashboard
// @Produce json
// @Success 200 {object} repositories.UserSummary
// @Router /summary [get]
func (h *DashboardHandler) UserSummary(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	summary, err := h.service.UserSummary(c.Request.Context(), user.ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
