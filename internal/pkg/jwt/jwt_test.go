package jwt

import (
	"testing"
)

const testSecret = "test-secret"

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken(42, "user@example.com", testSecret, 30)
	if err != nil {
		t.Fatalf("GenerateAccessToken returned error: %v", err)
	}

	claims, err := ValidateAccessToken(token, testSecret)
	if err != nil {
		t.Fatalf("ValidateAccessToken returned error: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Subject != "user@example.com" {
		t.Errorf("Subject = %q, want user@example.com", claims.Subject)
	}
	if claims.ID == "" {
		t.Errorf("expected a jti claim")
	}
}

func TestAccessTokenWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken(42, "user@example.com", testSecret, 30)
	if err != nil {
		t.Fatalf("GenerateAccessToken returned error: %v", err)
	}

	if _, err := ValidateAccessToken(token, "other-secret"); err != ErrTokenInvalid {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestAccessTokenExpired(t *testing.T) {
	token, err := GenerateAccessToken(42, "user@example.com", testSecret, -1)
	if err != nil {
		t.Fatalf("GenerateAccessToken returned error: %v", err)
	}

	if _, err := ValidateAccessToken(token, testSecret); err != ErrTokenInvalid {
		t.Fatalf("expected ErrTokenInvalid for expired token, got %v", err)
	}
}

func TestAccessTokenGarbage(t *testing.T) {
	for _, token := range []string{"", "garbage", "a.b.c"} {
		if _, err := ValidateAccessToken(token, testSecret); err != ErrTokenInvalid {
			t.Errorf("ValidateAccessToken(%q) = %v, want ErrTokenInvalid", token, err)
		}
	}
}

func TestResetTokenRoundTrip(t *testing.T) {
	token, err := GenerateResetToken("user@example.com", testSecret)
	if err != nil {
		t.Fatalf("GenerateResetToken returned error: %v", err)
	}

	email, err := ValidateResetToken(token, testSecret)
	if err != nil {
		t.Fatalf("ValidateResetToken returned error: %v", err)
	}
	if email != "user@example.com" {
		t.Errorf("email = %q, want user@example.com", email)
	}
}

func TestTokenTypeIsolation(t *testing.T) {
	access, err := GenerateAccessToken(42, "user@example.com", testSecret, 30)
	if err != nil {
		t.Fatalf("GenerateAccessToken returned error: %v", err)
	}
	reset, err := GenerateResetToken("user@example.com", testSecret)
	if err != nil {
		t.Fatalf("GenerateResetToken returned error: %v", err)
	}

	// A reset token must not authenticate, and an access token must not
	// reset a password.
	if _, err := ValidateAccessToken(reset, testSecret); err != ErrTokenInvalid {
		t.Errorf("reset token accepted as access token: %v", err)
	}
	if _, err := ValidateResetToken(access, testSecret); err != ErrTokenInvalid {
		t.Errorf("access token accepted as reset token: %v", err)
	}
}
