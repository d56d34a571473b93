package services

import (
	"context"
	"errors"
	"log"

	"healthplan-admin/internal/adapters/persistence/models"
	"healthplan-admin/internal/adapters/persistence/repositories"
	"healthplan-admin/internal/config"
	"healthplan-admin/internal/core/domain"
	"healthplan-admin/internal/pkg/jwt"
	"healthplan-admin/internal/pkg/password"

	"gorm.io/gorm"
)

// AuthService handles authentication business logic
type AuthService struct {
	userRepo repositories.UserRepository
	cfg      *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repositories.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		cfg:      cfg,
	}
}

// LoginInput represents login input
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ChangePasswordInput represents a self-service password change
type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// ForgotPasswordInput represents a reset request
type ForgotPasswordInput struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordInput represents a reset completion
type ResetPasswordInput struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// LoginResponse represents authentication response
type LoginResponse struct {
	AccessToken string               `json:"access_token"`
	TokenType   string               `json:"token_type"`
	ExpiresIn   int                  `json:"expires_in"`
	User        *models.UserResponse `json:"user"`
}

// Login authenticates a user by email and password
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginResponse, error) {
	// 1. Find user by email
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	// 2. Verify password before leaking account state
	if !password.Verify(input.Password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	// 3. Check if user is active
	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}

	// 4. Generate access token
	accessToken, err := jwt.GenerateAccessToken(user.ID, user.Email, s.cfg.JWT.Secret, s.cfg.JWT.AccessTokenMins)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ User logged in: %s", user.Email)

	return &LoginResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
		ExpiresIn:   s.cfg.JWT.AccessTokenMins * 60,
		User:        user.ToResponse(),
	}, nil
}

// CurrentUser resolves a bearer token to its active user. The user row is
// re-fetched on every call so deactivation takes effect before the token
// expires.
func (s *AuthService) CurrentUser(ctx context.Context, accessToken string) (*models.User, error) {
	// 1. Validate token
	claims, err := jwt.ValidateAccessToken(accessToken, s.cfg.JWT.Secret)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}

	// 2. Re-fetch user by token subject
	user, err := s.userRepo.GetByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, err
	}

	// 3. Check if user is active
	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}

	return user, nil
}

// VerifyToken validates a token and returns its user
func (s *AuthService) VerifyToken(ctx context.Context, accessToken string) (*models.UserResponse, error) {
	user, err := s.CurrentUser(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	return user.ToResponse(), nil
}

// ChangePassword changes the caller's own password
func (s *AuthService) ChangePassword(ctx context.Context, user *models.User, input *ChangePasswordInput) error {
	// 1. Verify current password
	if !password.Verify(input.CurrentPassword, user.PasswordHash) {
		return domain.ErrPasswordWrong
	}

	// 2. Hash and store new password
	hashed, err := password.Hash(input.NewPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, hashed); err != nil {
		return err
	}

	log.Printf("✅ Password changed for user: %s", user.Email)
	return nil
}

// ForgotPassword issues a reset token for an active account. Returns an
// empty token for unknown or inactive emails so the endpoint can respond
// identically either way.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	user, err := s.userRepo.GetActiveByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}

	token, err := jwt.GenerateResetToken(user.Email, s.cfg.JWT.Secret)
	if err != nil {
		return "", err
	}

	log.Printf("✅ Password reset token issued for: %s", user.Email)
	return token, nil
}

// ResetPassword completes a reset using a reset token
func (s *AuthService) ResetPassword(ctx context.Context, input *ResetPasswordInput) error {
	// 1. Validate reset token
	email, err := jwt.ValidateResetToken(input.Token, s.cfg.JWT.Secret)
	if err != nil {
		return domain.ErrTokenInvalid
	}

	// 2. Find the account
	user, err := s.userRepo.GetActiveByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrTokenInvalid
		}
		return err
	}

	// 3. Hash and store new password
	hashed, err := password.Hash(input.NewPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, hashed); err != nil {
		return err
	}

	log.Printf("✅ Password reset completed for: %s", user.Email)
	return nil
}
