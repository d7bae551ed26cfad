package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/quizdesk/quiz-service/internal/auth"
	"github.com/quizdesk/quiz-service/internal/cache"
	"github.com/quizdesk/quiz-service/internal/events"
	"github.com/quizdesk/quiz-service/internal/models"
	"github.com/quizdesk/quiz-service/internal/repositories"
	"github.com/quizdesk/quiz-service/internal/validator"
)

type authService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator

	tokens       *auth.TokenManager
	cacheManager *cache.CacheManager
	publisher    events.Publisher
}

func NewAuthService(
	repo repositories.Repository,
	db *gorm.DB,
	logger *slog.Logger,
	validator *validator.Validator,
	tokens *auth.TokenManager,
	cacheManager *cache.CacheManager,
	publisher events.Publisher,
) AuthService {
	return &authService{
		repo:         repo,
		db:           db,
		logger:       logger,
		validator:    validator,
		tokens:       tokens,
		cacheManager: cacheManager,
		publisher:    publisher,
	}
}

func (s *authService) Register(ctx context.Context, req *validator.RegisterRequest) (*AuthResponse, error) {
	s.logger.Info("Registering user", "username", req.Username)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	exists, err := s.repo.User().ExistsByUsername(ctx, nil, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return nil, ErrUserExists
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:      req.Username,
		Password:      hash,
		Name:          req.Name,
		Qualification: req.Qualification,
		DOB:           req.DOB,
	}

	if err := s.repo.User().Create(ctx, nil, user); err != nil {
		// Concurrent registration with the same username loses here
		if repositories.IsDuplicateError(err) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.publisher.Publish(ctx, events.NewEvent(events.EventUserRegistered, &events.UserRegisteredData{
		UserID:   user.ID,
		Username: user.Username,
	})); err != nil {
		s.logger.Warn("Failed to publish user registered event", "error", err, "user_id", user.ID)
	}

	s.logger.Info("User registered", "user_id", user.ID, "username", user.Username)
	return s.issueSession(user)
}

func (s *authService) Login(ctx context.Context, req *validator.LoginRequest) (*AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.repo.User().GetByUsername(ctx, nil, req.Username)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			// Same error as a bad password so usernames cannot be probed
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, ErrInvalidCredentials
	}

	s.logger.Info("User logged in", "user_id", user.ID, "username", user.Username)
	return s.issueSession(user)
}

func (s *authService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil // already expired
	}

	if err := s.cacheManager.Session.SetString(ctx, revokedKey(tokenID), "revoked", ttl); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (s *authService) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	revoked, err := s.cacheManager.Session.Exists(ctx, revokedKey(tokenID))
	if err != nil {
		if err == cache.ErrCacheNotAvailable {
			// Without Redis there is no denylist, tokens stay valid until expiry
			return false, nil
		}
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return revoked, nil
}

func revokedKey(tokenID string) string {
	return "revoked:" + tokenID
}

// ForgotPassword resets the password when the supplied date of birth matches
// the one on record. DOB is weak proof of identity, every use is logged.
func (s *authService) ForgotPassword(ctx context.Context, req *validator.ForgotPasswordRequest) error {
	if err := s.validator.Validate(req); err != nil {
		return err
	}

	user, err := s.repo.User().GetByUsername(ctx, nil, req.Username)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrRecoveryMismatch
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if user.DOB != req.DOB {
		s.logger.Warn("Password recovery with wrong date of birth", "username", req.Username)
		return ErrRecoveryMismatch
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.Password = hash
	if err := s.repo.User().Update(ctx, nil, user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.logger.Warn("Password reset through date-of-birth recovery", "user_id", user.ID)
	return nil
}

func (s *authService) GetProfile(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, nil, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *authService) UpdateProfile(ctx context.Context, userID uint, req *validator.ProfileUpdateRequest) (*models.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Qualification != nil {
		user.Qualification = *req.Qualification
	}
	if req.DOB != nil {
		user.DOB = *req.DOB
	}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.Password = hash
	}

	if err := s.repo.User().Update(ctx, nil, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	cache.InvalidateUserCaches(ctx, s.cacheManager, userID)
	return user, nil
}

func (s *authService) issueSession(user *models.User) (*AuthResponse, error) {
	token, claims, err := s.tokens.Issue(user.ID, user.Username, user.Name, user.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &AuthResponse{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		User:      user,
	}, nil
}
