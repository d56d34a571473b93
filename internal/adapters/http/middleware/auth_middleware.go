package middleware

import (
	"errors"
	"strings"

	"healthplan-admin/internal/adapters/persistence/models"
	"healthplan-admin/internal/core/domain"
	"healthplan-admin/internal/core/services"
	"healthplan-admin/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// UserKey is the locals key holding the authenticated *models.User
const UserKey = "currentUser"

// AuthMiddleware authenticates the request and loads the acting user. The
// user row is fetched fresh per request, so a deactivated account is locked
// out immediately regardless of token lifetime.
func AuthMiddleware(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// 1. Extract bearer token
		authHeader := c.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			return response.Unauthorized(c, "Access token required")
		}
		accessToken := strings.TrimPrefix(authHeader, "Bearer ")

		// 2. Resolve token to active user
		user, err := authService.CurrentUser(c.UserContext(), accessToken)
		if err != nil {
			if errors.Is(err, domain.ErrUserInactive) {
				return response.Unauthorized(c, "Account is deactivated")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		// 3. Store acting user in context
		c.Locals(UserKey, user)
		return c.Next()
	}
}

// CurrentUser returns the authenticated user stored by AuthMiddleware
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(UserKey).(*models.User)
	return user
}

// RoleMiddleware creates role-based authorization middleware. Fine-grained
// per-target decisions stay in the domain access rules; this only gates
// whole route groups.
func RoleMiddleware(allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return response.Unauthorized(c, "Unauthorized")
		}

		for _, allowedRole := range allowedRoles {
			if user.Role == allowedRole {
				return c.Next()
			}
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// AdminOnly middleware allows only the admin role
func AdminOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleAdmin)
}

// ManagerOrAdmin middleware allows manager or admin roles
func ManagerOrAdmin() fiber.Handler {
	return RoleMiddleware(domain.RoleManager, domain.RoleAdmin)
}
