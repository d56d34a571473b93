package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrTokenInvalid is returned for every verification failure (bad signature,
// malformed payload, wrong token type, expiry) so the reason never leaks to
// the caller.
var ErrTokenInvalid = errors.New("token is invalid")

// Token type discriminators
const (
	TypeAccess        = "access"
	TypePasswordReset = "password_reset"
)

// ResetTokenTTL is the fixed lifetime of password reset tokens.
const ResetTokenTTL = time.Hour

// Claims represents the JWT claims. Subject carries the user's email.
type Claims struct {
	UserID    uint   `json:"user_id"`
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// GenerateAccessToken generates a signed access token for a user
func GenerateAccessToken(userID uint, email, secret string, expiryMinutes int) (string, error) {
	claims := Claims{
		UserID:    userID,
		TokenType: TypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(expiryMinutes) * time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "healthplan-admin",
			Subject:   email,
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// GenerateResetToken generates a signed password reset token (1 hour expiry).
// The type discriminator prevents it from being replayed as an access token.
func GenerateResetToken(email, secret string) (string, error) {
	claims := Claims{
		TokenType: TypePasswordReset,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ResetTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "healthplan-admin",
			Subject:   email,
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateAccessToken validates an access token and returns its claims
func ValidateAccessToken(tokenString, secret string) (*Claims, error) {
	claims, err := parse(tokenString, secret)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != TypeAccess {
		return nil, ErrTokenInvalid
	}
	if claims.Subject == "" || claims.UserID == 0 {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// ValidateResetToken validates a password reset token and returns the
// subject email
func ValidateResetToken(tokenString, secret string) (string, error) {
	claims, err := parse(tokenString, secret)
	if err != nil {
		return "", err
	}
	if claims.TokenType != TypePasswordReset || claims.Subject == "" {
		return "", ErrTokenInvalid
	}
	return claims.Subject, nil
}

func parse(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, ErrTokenInvalid
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrTokenInvalid
}
