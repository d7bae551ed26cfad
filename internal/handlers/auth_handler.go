package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quizdesk/quiz-service/internal/services"
	"github.com/quizdesk/quiz-service/internal/utils"
	"github.com/quizdesk/quiz-service/internal/validator"
)

type AuthHandler struct {
	BaseHandler
	service services.AuthService
}

func NewAuthHandler(service services.AuthService, logger utils.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// Register creates a new user account
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body validator.RegisterRequest true "Registration details"
// @Success 201 {object} services.AuthResponse
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Failure 409 {object} ErrorResponse "Username taken"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	h.LogRequest(c, "Registering user")

	var req validator.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	resp, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Login authenticates a user and issues a session token
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body validator.LoginRequest true "Credentials"
// @Success 200 {object} services.AuthResponse
// @Failure 401 {object} ErrorResponse "Invalid credentials"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	h.LogRequest(c, "User login")

	var req validator.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	resp, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Logout revokes the current session token
// @Summary Log out
// @Tags auth
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.LogRequest(c, "User logout")

	tokenID := c.GetString("token_id")
	expiresAt, _ := c.Get("token_expires_at")
	expiry, ok := expiresAt.(time.Time)
	if tokenID == "" || !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
		return
	}

	if err := h.service.Logout(c.Request.Context(), tokenID, expiry); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Logged out"})
}

// ForgotPassword resets a password using the recorded date of birth
// @Summary Reset password via date of birth
// @Tags auth
// @Accept json
// @Produce json
// @Param request body validator.ForgotPasswordRequest true "Recovery details"
// @Success 200 {object} SuccessResponse
// @Failure 401 {object} ErrorResponse "Recovery details do not match"
// @Router /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	h.LogRequest(c, "Password recovery")

	var req validator.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	if err := h.service.ForgotPassword(c.Request.Context(), &req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Password has been reset"})
}

// GetProfile returns the authenticated user's profile
// @Summary Get own profile
// @Tags auth
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), user.ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateProfile partially updates the authenticated user's profile
// @Summary Update own profile
// @Tags auth
// @Accept json
// @Produce json
// @Param request body validator.ProfileUpdateRequest true "Fields to update"
// @Success 200 {object} models.User
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Router /profile [put]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	h.LogRequest(c, "Updating profile")

	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req validator.ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	profile, err := h.service.UpdateProfile(c.Request.Context(), user.ID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}
