package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/quizdesk/quiz-service/internal/auth"
	"github.com/quizdesk/quiz-service/internal/models"
	"github.com/quizdesk/quiz-service/internal/repositories"
	"github.com/quizdesk/quiz-service/internal/services"
	"github.com/quizdesk/quiz-service/internal/utils"
)

type HandlerManager struct {
	authHandler      *AuthHandler
	catalogHandler   *CatalogHandler
	quizHandler      *QuizHandler
	attemptHandler   *AttemptHandler
	dashboardHandler *DashboardHandler
	authMiddleware   *JWTAuthMiddleware
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
	tokens *auth.TokenManager,
	userRepo repositories.UserRepository,
) *HandlerManager {
	authMiddleware := NewJWTAuthMiddleware(tokens, serviceManager.Auth(), userRepo)

	return &HandlerManager{
		authHandler:      NewAuthHandler(serviceManager.Auth(), logger),
		catalogHandler:   NewCatalogHandler(serviceManager.Catalog(), logger),
		quizHandler:      NewQuizHandler(serviceManager.Quiz(), logger),
		attemptHandler:   NewAttemptHandler(serviceManager.Attempt(), logger),
		dashboardHandler: NewDashboardHandler(serviceManager.Dashboard(), logger),
		authMiddleware:   authMiddleware,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "quiz-service",
		})
	})

	v1 := router.Group("/api/v1")

	// Public routes, no session required
	authRoutes := v1.Group("/auth")
	{
		authRoutes.POST("/register", hm.authHandler.Register)
		authRoutes.POST("/login", hm.authHandler.Login)
		authRoutes.POST("/forgot-password", hm.authHandler.ForgotPassword)
	}

	// Everything below requires a valid session
	authed := v1.Group("")
	authed.Use(hm.authMiddleware.AuthMiddleware())
	{
		authed.POST("/auth/logout", hm.authHandler.Logout)
		authed.GET("/profile", hm.authHandler.GetProfile)
		authed.PUT("/profile", hm.authHandler.UpdateProfile)

		// Admin routes - catalog curation, quiz management and oversight
		admin := authed.Group("/admin")
		admin.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin))
		{
			admin.POST("/subjects", hm.catalogHandler.CreateSubject)
			admin.GET("/subjects", hm.catalogHandler.ListSubjects)
			admin.GET("/subjects/:id", hm.catalogHandler.GetSubject)
			admin.PUT("/subjects/:id", hm.catalogHandler.UpdateSubject)
			admin.DELETE("/subjects/:id", hm.catalogHandler.DeleteSubject)

			admin.POST("/subjects/:id/chapters", hm.catalogHandler.CreateChapter)
			admin.GET("/subjects/:id/chapters", hm.catalogHandler.ListChapters)
			admin.GET("/chapters/:id", hm.catalogHandler.GetChapter)
			admin.PUT("/chapters/:id", hm.catalogHandler.UpdateChapter)
			admin.DELETE("/chapters/:id", hm.catalogHandler.DeleteChapter)

			admin.POST("/chapters/:id/questions", hm.catalogHandler.CreateQuestion)
			admin.GET("/chapters/:id/questions", hm.catalogHandler.ListQuestions)
			admin.GET("/questions/:id", hm.catalogHandler.GetQuestion)
			admin.PUT("/questions/:id", hm.catalogHandler.UpdateQuestion)
			admin.DELETE("/questions/:id", hm.catalogHandler.DeleteQuestion)

			admin.POST("/quizzes", hm.quizHandler.CreateQuiz)
			admin.GET("/quizzes", hm.quizHandler.ListQuizzes)
			admin.GET("/quizzes/:id", hm.quizHandler.GetQuiz)
			admin.PUT("/quizzes/:id", hm.quizHandler.UpdateQuiz)
			admin.DELETE("/quizzes/:id", hm.quizHandler.DeleteQuiz)

			admin.GET("/summary", hm.dashboardHandler.AdminSummary)
			admin.GET("/summary/export", hm.dashboardHandler.ExportResults)
			admin.GET("/search", hm.dashboardHandler.Search)
		}

		// User routes - quiz taking. Role gates are exclusive, admins
		// curate but do not sit quizzes.
		user := authed.Group("")
		user.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleUser))
		{
			user.GET("/quizzes", hm.quizHandler.ListAvailableQuizzes)
			user.GET("/quizzes/:id", hm.quizHandler.GetAvailableQuiz)
			user.POST("/quizzes/:id/start", hm.attemptHandler.StartAttempt)
			user.POST("/quizzes/:id/submit", hm.attemptHandler.SubmitAttempt)
			user.GET("/quizzes/:id/result", hm.attemptHandler.ViewResult)
			user.GET("/results", hm.attemptHandler.ListResults)
			user.GET("/summary", hm.dashboardHandler.UserSummary)
		}
	}
}
