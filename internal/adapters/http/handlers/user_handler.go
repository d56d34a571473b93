package handlers

import (
	"errors"
	"strings"

	"healthplan-admin/internal/adapters/http/middleware"
	"healthplan-admin/internal/core/domain"
	"healthplan-admin/internal/core/services"
	"healthplan-admin/internal/pkg/pagination"
	"healthplan-admin/internal/pkg/response"
	"healthplan-admin/internal/pkg/validate"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles user directory endpoints
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// directoryError maps domain errors shared across directory endpoints.
// Unexpected errors become an opaque 500 here and nowhere deeper.
func directoryError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return response.NotFound(c, "User not found")
	case errors.Is(err, domain.ErrForbidden):
		return response.Forbidden(c, "You don't have permission to perform this action")
	case errors.Is(err, domain.ErrEmailTaken):
		return response.Conflict(c, "Email already in use")
	case errors.Is(err, domain.ErrInvalidRole):
		return response.BadRequest(c, "Invalid role")
	case errors.Is(err, domain.ErrPasswordWrong):
		return response.BadRequest(c, "Current password is incorrect")
	case errors.Is(err, domain.ErrPasswordTooShort):
		return response.BadRequest(c, "Password must be at least 8 characters")
	case errors.Is(err, domain.ErrInvalidHierarchy):
		return response.BadRequest(c, "Facility does not belong to the given district and province")
	case errors.Is(err, domain.ErrCannotDeactivateSelf):
		return response.BadRequest(c, "You cannot deactivate your own account")
	case errors.Is(err, domain.ErrCannotDeleteSelf):
		return response.BadRequest(c, "You cannot delete your own account")
	case errors.Is(err, domain.ErrCannotDemoteSelf):
		return response.BadRequest(c, "You cannot demote your own account")
	case errors.Is(err, domain.ErrAlreadyAdmin):
		return response.BadRequest(c, "User is already an admin")
	case errors.Is(err, domain.ErrNotAdmin):
		return response.BadRequest(c, "User is not an admin")
	case errors.Is(err, domain.ErrConfirmationRequired):
		return response.BadRequest(c, "Confirmation flag is required for this operation")
	default:
		return response.InternalServerError(c, "Operation failed")
	}
}

// userID parses the :id route parameter
func userID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return 0, response.BadRequest(c, "Invalid user id")
	}
	return uint(id), nil
}

// Create creates a new user
// @Summary Create user
// @Description Create a new user (admin only)
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateUserInput true "User data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /users [post]
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var input services.CreateUserInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	input.Email = strings.TrimSpace(input.Email)
	input.FullName = strings.TrimSpace(input.FullName)
	if err := validate.Struct(&input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	user, err := h.userService.Create(c.Context(), &input)
	if err != nil {
		return directoryError(c, err)
	}

	return response.Created(c, "User created successfully", user)
}

// Get fetches a single user
// @Summary Get user
// @Description Get a user by id, subject to view scope
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [get]
func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, err := userID(c)
	if err != nil {
		return err
	}

	user, err := h.userService.Get(c.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		return directoryError(c, err)
	}

	return response.Success(c, "User retrieved", user)
}

// List lists users in the caller's scope
// @Summary List users
// @Description Paginated listing, silently narrowed to the caller's scope
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Param province_id query int false "Filter by province"
// @Param district_id query int false "Filter by district"
// @Param facility_id query int false "Filter by facility"
// @Param role query string false "Filter by role"
// @Param is_active query bool false "Filter by active flag"
// @Param search query string false "Search name or email"
// @Success 200 {object} response.Response
// @Router /users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	var filters domain.UserFilters
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
	if v := c.Query("role"); v != "" {
		filters.Role = &v
	}
	if v := c.Query("is_active"); v != "" {
		active := v == "true" || v == "1"
		filters.IsActive = &active
	}
	filters.Search = strings.TrimSpace(c.Query("search"))

	params := pagination.GetParams(c)
	result, err := h.userService.List(c.Context(), middleware.CurrentUser(c), filters,
		params.Page, params.Size)
	if err != nil {
		return directoryError(c, err)
	}

	return response.Success(c, "Users retrieved", result)
}

// Update applies a partial update to a user
// @Summary Update user
// @Description Update a user's fields, subject to modify scope
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param body body services.UpdateUserInput true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /users/{id} [put]
func (h *UserHandler) Update(c *fiber.Ctx) error {
	id, err := userID(c)
	if err != nil {
		return err
	}

	var input services.UpdateUserInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	user, err := h.userService.Update(c.Context(), middleware.CurrentUser(c), id, &input)
	if err != nil {
		return directoryError(c, err)
	}

	return response.Success(c, "User updated successfully", user)
}

// Delete deactivates a user (soft delete)
// @Summary Delete user
// @Description Deactivate a user; records are never removed
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [delete]
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, err := userID(c)
	if err != nil {
		return err
	}

	if err := h.userService.Delete(c.Context(), middleware.CurrentUser(c), id); err != nil {
		return directoryError(c, err)
	}

	return response.Success(c, "User deactivated successfully", nil)
}

// Deactivate deactivates a user
// @Summary Deactivate user
// @Description Deactivate a user account
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /users/{id}/deactivate [post]
func (h *UserHandler) Deactivate(c *fiber.Ctx) error {
	id, err := userID(c)
	if err != nil {
		return err
	}

	if err := h.userService.Deactivate(c.Context(), middleware.CurrentUser(c), id); err != nil {
		return directoryError(c, err)
	}

	return response.Success(c, "User deactivated successfully", nil)
}

// Activate reactivates a user
// @Summary Activate user
// @Description Reactivate a deactivated user account
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id}/activate [post]
func (h *UserHandler) Activate(c *fiber.Ctx) error {
	id, err := userID(c)
	if err != nil {
		return err
	}

	if err := h.userService.Activate(c.Context(), middleware.CurrentUser(c), id); err != nil {
		return directoryError(c, err)
	}

	return response.Success(c, "User activated successfully", nil)
}

// ChangePassword changes a user's password (self or admin)
// @Summary Change user password
// @Description Change a user's password; the current password is verified for every caller
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param body body services.ChangePasswordInput true "Current and new password"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /users/{id}/change-password [post]
func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	id, err := userID(c)
	if err != nil {
		return err
	}

	var input services.ChangePasswordInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	if err := h.userService.ChangePassword(c.Context(), middleware.CurrentUser(c), id, input.CurrentPassword, input.NewPassword); err != nil {
		return directoryError(c, err)
	}

	return response.Success(c, "Password changed successfully", nil)
}

// ByFacility lists active users of a facility
// @Summary Users by facility
// @Description List active users of a facility
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "Facility ID"
// @Success 200 {object} response.Response
// @Router /users/facility/{id} [get]
func (h *UserHandler) ByFacility(c *fiber.Ctx) error {
	id, err := userID(c)
	if err != nil {
		return err
	}

	users, err := h.userService.UsersByFacility(c.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		return directoryError(c, err)
	}

	return response.Success(c, "Users retrieved", users)
}

// ByDistrict lists active users of a district
// @Summary Users by district
// @Description List active users of a district; managers may only read their own
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "District ID"
// @Success 200 {object} response.Response
// @Router /users/district/{id} [get]
func (h *UserHandler) ByDistrict(c *fiber.Ctx) error {
	id, err := userID(c)
	if err != nil {
		return err
	}

	users, err := h.userService.UsersByDistrict(c.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		return directoryError(c, err)
	}

	return response.Success(c, "Users retrieved", users)
}

// Admins lists all admin users
// @Summary List admins
// @Description List all users with the admin role
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /users/admin/all [get]
func (h *UserHandler) Admins(c *fiber.Ctx) error {
	users, err := h.userService.AdminUsers(c.Context())
	if err != nil {
		return directoryError(c, err)
	}

	return response.Success(c, "Admin users retrieved", users)
}
