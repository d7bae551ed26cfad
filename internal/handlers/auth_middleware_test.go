package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/quizdesk/quiz-service/internal/models"
)

func roleTestRouter(role interface{}, required ...models.UserRole) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	am := &JWTAuthMiddleware{}
	router.GET("/guarded",
		func(c *gin.Context) {
			if role != nil {
				c.Set("user_role", role)
			}
			c.Next()
		},
		am.RequireRoleMiddleware(required...),
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		})

	return router
}

func TestRequireRoleMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		role       interface{}
		required   []models.UserRole
		wantStatus int
	}{
		{name: "admin passes admin gate", role: models.RoleAdmin, required: []models.UserRole{models.RoleAdmin}, wantStatus: http.StatusOK},
		{name: "user passes user gate", role: models.RoleUser, required: []models.UserRole{models.RoleUser}, wantStatus: http.StatusOK},
		{name: "user blocked from admin gate", role: models.RoleUser, required: []models.UserRole{models.RoleAdmin}, wantStatus: http.StatusForbidden},
		{name: "admin blocked from user gate", role: models.RoleAdmin, required: []models.UserRole{models.RoleUser}, wantStatus: http.StatusForbidden},
		{name: "either role passes a two-role gate", role: models.RoleAdmin, required: []models.UserRole{models.RoleUser, models.RoleAdmin}, wantStatus: http.StatusOK},
		{name: "missing role is forbidden", role: nil, required: []models.UserRole{models.RoleUser}, wantStatus: http.StatusForbidden},
		{name: "malformed role is forbidden", role: "user", required: []models.UserRole{models.RoleUser}, wantStatus: http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := roleTestRouter(tt.role, tt.required...)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	am := &JWTAuthMiddleware{}
	router.GET("/guarded", am.AuthMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	t.Run("no header", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", w.Code)
		}
	})

	t.Run("malformed header", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
		req.Header.Set("Authorization", "token-without-scheme")
		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", w.Code)
		}
	})
}
