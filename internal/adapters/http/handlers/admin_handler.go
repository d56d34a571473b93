package handlers

import (
	"strings"
	"time"

	"healthplan-admin/internal/adapters/http/middleware"
	"healthplan-admin/internal/config"
	"healthplan-admin/internal/core/domain"
	"healthplan-admin/internal/core/services"
	"healthplan-admin/internal/pkg/pagination"
	"healthplan-admin/internal/pkg/response"
	"healthplan-admin/internal/pkg/validate"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler handles admin-only reporting and user management endpoints
type AdminHandler struct {
	userService   *services.UserService
	reportService *services.ReportService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(userService *services.UserService, reportService *services.ReportService) *AdminHandler {
	return &AdminHandler{
		userService:   userService,
		reportService: reportService,
	}
}

// Dashboard returns the admin dashboard summary
// @Summary Admin dashboard
// @Description User totals, role distribution and recent registrations
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /admin/dashboard [get]
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	stats, err := h.reportService.Dashboard(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to build dashboard")
	}
	return response.Success(c, "Dashboard statistics", stats)
}

// Analytics returns the user distribution report
// @Summary User analytics
// @Description Distribution by province, district and facility plus registration activity
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /admin/users/analytics [get]
func (h *AdminHandler) Analytics(c *fiber.Ctx) error {
	analytics, err := h.reportService.Analytics(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to build analytics")
	}
	return response.Success(c, "User analytics", analytics)
}

// RecentUsers lists the newest registrations
// @Summary Recent users
// @Description Users registered in the trailing period
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param days query int false "Days back (1-365)"
// @Param limit query int false "Max results (1-200)"
// @Success 200 {object} response.Response
// @Router /admin/users/recent [get]
func (h *AdminHandler) RecentUsers(c *fiber.Ctx) error {
	users, err := h.reportService.RecentUsers(c.Context(), c.QueryInt("days", 7), c.QueryInt("limit", 50))
	if err != nil {
		return response.InternalServerError(c, "Failed to list recent users")
	}
	return response.Success(c, "Recent users", users)
}

// InactiveUsers lists deactivated accounts
// @Summary Inactive users
// @Description Paginated listing of deactivated accounts
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} response.Response
// @Router /admin/users/inactive [get]
func (h *AdminHandler) InactiveUsers(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	result, err := h.reportService.InactiveUsers(c.Context(), params.Page, params.Size)
	if err != nil {
		return response.InternalServerError(c, "Failed to list inactive users")
	}
	return response.Success(c, "Inactive users", result)
}

// ResetPassword resets a user's password without the current one
// @Summary Admin password reset
// @Description Replace a user's password (privileged, no current password needed)
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param body body services.SetPasswordInput true "New password"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/users/{id}/reset-password [post]
func (h *AdminHandler) ResetPassword(c *fiber.Ctx) error {
	id, err := userID(c)
	if err != nil {
		return err
	}

	var input services.SetPasswordInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	if err := h.userService.AdminResetPassword(c.Context(), id, input.NewPassword); err != nil {
		return directoryError(c, err)
	}

	return response.Success(c, "Password reset successfully", nil)
}

// BulkActivate activates users in bulk
// @Summary Bulk activate
// @Description Activate users by id, returning per-id outcomes
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.BulkInput true "User ids"
// @Success 200 {object} response.Response
// @Router /admin/users/bulk-activate [post]
func (h *AdminHandler) BulkActivate(c *fiber.Ctx) error {
	var input services.BulkInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	result, err := h.userService.BulkActivate(c.Context(), middleware.CurrentUser(c), input.UserIDs)
	if err != nil {
		return response.InternalServerError(c, "Bulk activate failed")
	}

	return response.Success(c, "Bulk activate completed", result)
}

// BulkDeactivate deactivates users in bulk
// @Summary Bulk deactivate
// @Description Deactivate users by id; the caller's own id is skipped
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.BulkInput true "User ids"
// @Success 200 {object} response.Response
// @Router /admin/users/bulk-deactivate [post]
func (h *AdminHandler) BulkDeactivate(c *fiber.Ctx) error {
	var input services.BulkInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	result, err := h.userService.BulkDeactivate(c.Context(), middleware.CurrentUser(c), input.UserIDs)
	if err != nil {
		return response.InternalServerError(c, "Bulk deactivate failed")
	}

	return response.Success(c, "Bulk deactivate completed", result)
}

// Promote promotes a user to admin
// @Summary Promote to admin
// @Description Promote a user to the admin role; requires the confirmation flag
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param body body services.PromoteInput true "Confirmation"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /admin/users/{id}/promote-to-admin [post]
func (h *AdminHandler) Promote(c *fiber.Ctx) error {
	id, err := userID(c)
	if err != nil {
		return err
	}

	var input services.PromoteInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.userService.PromoteToAdmin(c.Context(), middleware.CurrentUser(c), id, &input)
	if err != nil {
		return directoryError(c, err)
	}

	return response.Success(c, "User promoted to admin", user)
}

// Demote demotes an admin to a non-admin role
// @Summary Demote from admin
// @Description Demote an admin to the given role; requires the confirmation flag
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param body body services.DemoteInput true "Confirmation and new role"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /admin/users/{id}/demote-from-admin [post]
func (h *AdminHandler) Demote(c *fiber.Ctx) error {
	id, err := userID(c)
	if err != nil {
		return err
	}

	var input services.DemoteInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	user, err := h.userService.DemoteFromAdmin(c.Context(), middleware.CurrentUser(c), id, &input)
	if err != nil {
		return directoryError(c, err)
	}

	return response.Success(c, "Admin demoted", user)
}

// Admins lists all admin users
// @Summary List admins
// @Description List all users with the admin role
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /admin/users/admins [get]
func (h *AdminHandler) Admins(c *fiber.Ctx) error {
	users, err := h.userService.AdminUsers(c.Context())
	if err != nil {
		return directoryError(c, err)
	}
	return response.Success(c, "Admin users retrieved", users)
}

// SearchUsers runs the advanced directory search
// @Summary Advanced user search
// @Description Search the whole directory by patterns, placement, role, status and registration dates
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param email_pattern query string false "Email pattern"
// @Param name_pattern query string false "Name pattern"
// @Param role query string false "Filter by role"
// @Param is_active query bool false "Filter by active flag"
// @Param created_after query string false "Registered on or after (YYYY-MM-DD)"
// @Param created_before query string false "Registered before end of day (YYYY-MM-DD)"
// @Param province_id query int false "Filter by province"
// @Param district_id query int false "Filter by district"
// @Param facility_id query int false "Filter by facility"
// @Param page query int false "Page number"
// @Param size query int false "Page size (max 200)"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /admin/users/search-advanced [get]
func (h *AdminHandler) SearchUsers(c *fiber.Ctx) error {
	var filters domain.UserFilters
	filters.EmailPattern = strings.TrimSpace(c.Query("email_pattern"))
	filters.NamePattern = strings.TrimSpace(c.Query("name_pattern"))
	if v := c.Query("role"); v != "" {
		filters.Role = &v
	}
	if v := c.Query("is_active"); v != "" {
		active := v == "true" || v == "1"
		filters.IsActive = &active
	}
	if v := c.QueryInt("province_id"); v > 0 {
		id := uint(v)
		filters.ProvinceID = &id
	}
	if v := c.QueryInt("district_id"); v > 0 {
		id := uint(v)
		filters.DistrictID = &id
	}
	if v := c.QueryInt("facility_id"); v > 0 {
		id := uint(v)
		filters.FacilityID = &id
	}
	if v := c.Query("created_after"); v != "" {
		day, err := time.Parse("2006-01-02", v)
		if err != nil {
			return response.BadRequest(c, "Invalid created_after date, expected YYYY-MM-DD")
		}
		filters.CreatedSince = &day
	}
	if v := c.Query("created_before"); v != "" {
		day, err := time.Parse("2006-01-02", v)
		if err != nil {
			return response.BadRequest(c, "Invalid created_before date, expected YYYY-MM-DD")
		}
		// Inclusive of the named day
		end := day.AddDate(0, 0, 1)
		filters.CreatedBefore = &end
	}

	result, err := h.userService.Search(c.Context(), filters, c.QueryInt("page", 1), c.QueryInt("size", 50))
	if err != nil {
		return directoryError(c, err)
	}

	return response.Success(c, "Search results", result)
}

// CreateAdmin creates a new admin user
// @Summary Create admin user
// @Description Dedicated endpoint for creating users with the admin role
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateUserInput true "Admin user data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/users/create-admin [post]
func (h *AdminHandler) CreateAdmin(c *fiber.Ctx) error {
	var input services.CreateUserInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	input.Email = strings.TrimSpace(input.Email)
	input.FullName = strings.TrimSpace(input.FullName)
	if err := validate.Struct(&input); err != nil {
		return response.BadRequest(c, err.Error())
	}
	if input.Role != domain.RoleAdmin {
		return response.BadRequest(c, "This endpoint only creates admin users")
	}

	user, err := h.userService.CreateAdmin(c.Context(), middleware.CurrentUser(c), &input)
	if err != nil {
		return directoryError(c, err)
	}

	return response.Created(c, "Admin user created successfully", user)
}

// AdminActivity reports on the admin population
// @Summary Admin activity
// @Description Admin counts and recent admin registrations
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param days query int false "Trailing period in days"
// @Success 200 {object} response.Response
// @Router /admin/security/admin-activity [get]
func (h *AdminHandler) AdminActivity(c *fiber.Ctx) error {
	summary, err := h.reportService.AdminActivitySummary(c.Context(), c.QueryInt("days", 30))
	if err != nil {
		return response.InternalServerError(c, "Failed to build admin activity")
	}
	return response.Success(c, "Admin activity", summary)
}

// SystemHealth reports API and database health for admins
// @Summary System health
// @Description Detailed health check for administrators
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /admin/system/health [get]
func (h *AdminHandler) SystemHealth(c *fiber.Ctx) error {
	dbStatus := "healthy"
	if err := config.HealthCheck(); err != nil {
		dbStatus = "unhealthy"
	}

	return response.Success(c, "System health", fiber.Map{
		"api":      "healthy",
		"database": dbStatus,
	})
}
