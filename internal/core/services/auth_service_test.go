package services

import (
	"context"
	"errors"
	"testing"

	"healthplan-admin/internal/adapters/persistence/models"
	"healthplan-admin/internal/config"
	"healthplan-admin/internal/core/domain"
	"healthplan-admin/internal/pkg/password"
)

func testConfig() *config.Config {
	return &config.Config{
		AppMode: "dev",
		JWT: config.JWTConfig{
			Secret:          "test-secret",
			AccessTokenMins: 30,
		},
	}
}

func seedUser(t *testing.T, repo *stubUserRepo, email, plain, role string, active bool) *models.User {
	t.Helper()
	hash, err := password.Hash(plain)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return repo.add(&models.User{
		FullName:     "Test User",
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		ProvinceID:   1,
		DistrictID:   1,
		FacilityID:   1,
		IsActive:     active,
	})
}

func TestAuthServiceLoginSuccess(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "alice@example.com", "password123", domain.RoleManager, true)
	svc := NewAuthService(repo, testConfig())

	result, err := svc.Login(context.Background(), &LoginInput{Email: "alice@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if result.AccessToken == "" {
		t.Errorf("expected an access token")
	}
	if result.TokenType != "bearer" {
		t.Errorf("TokenType = %q, want bearer", result.TokenType)
	}
	if result.ExpiresIn != 30*60 {
		t.Errorf("ExpiresIn = %d, want %d", result.ExpiresIn, 30*60)
	}
	if result.User == nil || result.User.Email != "alice@example.com" {
		t.Errorf("response user missing or wrong")
	}
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "alice@example.com", "password123", domain.RoleManager, true)
	svc := NewAuthService(repo, testConfig())

	_, err := svc.Login(context.Background(), &LoginInput{Email: "alice@example.com", Password: "nope"})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthServiceLoginUnknownEmail(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), testConfig())

	_, err := svc.Login(context.Background(), &LoginInput{Email: "ghost@example.com", Password: "whatever"})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthServiceLoginInactive(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "alice@example.com", "password123", domain.RoleManager, false)
	svc := NewAuthService(repo, testConfig())

	_, err := svc.Login(context.Background(), &LoginInput{Email: "alice@example.com", Password: "password123"})
	if !errors.Is(err, domain.ErrUserInactive) {
		t.Fatalf("expected ErrUserInactive, got %v", err)
	}
}

func TestAuthServiceCurrentUser(t *testing.T) {
	repo := newStubUserRepo()
	seeded := seedUser(t, repo, "alice@example.com", "password123", domain.RoleManager, true)
	svc := NewAuthService(repo, testConfig())

	result, err := svc.Login(context.Background(), &LoginInput{Email: "alice@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	user, err := svc.CurrentUser(context.Background(), result.AccessToken)
	if err != nil {
		t.Fatalf("CurrentUser returned error: %v", err)
	}
	if user.ID != seeded.ID {
		t.Errorf("CurrentUser ID = %d, want %d", user.ID, seeded.ID)
	}
}

func TestAuthServiceDeactivationBeatsToken(t *testing.T) {
	repo := newStubUserRepo()
	seeded := seedUser(t, repo, "alice@example.com", "password123", domain.RoleManager, true)
	svc := NewAuthService(repo, testConfig())

	result, err := svc.Login(context.Background(), &LoginInput{Email: "alice@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	// Deactivate after the token was issued; the token must stop working.
	if err := repo.SetActive(context.Background(), seeded.ID, false); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	if _, err := svc.CurrentUser(context.Background(), result.AccessToken); !errors.Is(err, domain.ErrUserInactive) {
		t.Fatalf("expected ErrUserInactive, got %v", err)
	}
}

func TestAuthServiceCurrentUserGarbageToken(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), testConfig())

	if _, err := svc.CurrentUser(context.Background(), "not-a-token"); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestAuthServiceChangePassword(t *testing.T) {
	repo := newStubUserRepo()
	seeded := seedUser(t, repo, "alice@example.com", "oldpassword", domain.RoleManager, true)
	svc := NewAuthService(repo, testConfig())

	err := svc.ChangePassword(context.Background(), seeded, &ChangePasswordInput{
		CurrentPassword: "wrong",
		NewPassword:     "newpassword1",
	})
	if !errors.Is(err, domain.ErrPasswordWrong) {
		t.Fatalf("expected ErrPasswordWrong, got %v", err)
	}

	err = svc.ChangePassword(context.Background(), seeded, &ChangePasswordInput{
		CurrentPassword: "oldpassword",
		NewPassword:     "newpassword1",
	})
	if err != nil {
		t.Fatalf("ChangePassword returned error: %v", err)
	}

	if _, err := svc.Login(context.Background(), &LoginInput{Email: "alice@example.com", Password: "newpassword1"}); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
}

func TestAuthServiceResetFlow(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "alice@example.com", "oldpassword", domain.RoleManager, true)
	svc := NewAuthService(repo, testConfig())

	token, err := svc.ForgotPassword(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("ForgotPassword returned error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected a reset token")
	}

	err = svc.ResetPassword(context.Background(), &ResetPasswordInput{Token: token, NewPassword: "freshpassword"})
	if err != nil {
		t.Fatalf("ResetPassword returned error: %v", err)
	}

	if _, err := svc.Login(context.Background(), &LoginInput{Email: "alice@example.com", Password: "freshpassword"}); err != nil {
		t.Fatalf("login with reset password failed: %v", err)
	}
}

func TestAuthServiceForgotPasswordUnknownEmail(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), testConfig())

	token, err := svc.ForgotPassword(context.Background(), "ghost@example.com")
	if err != nil {
		t.Fatalf("unknown email must not error, got %v", err)
	}
	if token != "" {
		t.Fatalf("unknown email must not get a token")
	}
}

func TestAuthServiceResetRejectsAccessToken(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "alice@example.com", "password123", domain.RoleManager, true)
	svc := NewAuthService(repo, testConfig())

	result, err := svc.Login(context.Background(), &LoginInput{Email: "alice@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	err = svc.ResetPassword(context.Background(), &ResetPasswordInput{Token: result.AccessToken, NewPassword: "freshpassword"})
	if !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("access token must not reset a password, got %v", err)
	}
}
