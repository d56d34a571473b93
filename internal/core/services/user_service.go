package services

import (
	"context"
	"errors"
	"log"

	"healthplan-admin/internal/adapters/persistence/models"
	"healthplan-admin/internal/adapters/persistence/repositories"
	"healthplan-admin/internal/core/domain"
	"healthplan-admin/internal/pkg/pagination"
	"healthplan-admin/internal/pkg/password"

	"gorm.io/gorm"
)

// UserService handles user directory business logic. Every mutation takes
// the acting user and consults the access rules in the domain package.
type UserService struct {
	userRepo repositories.UserRepository
	geoRepo  repositories.GeoRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepository, geoRepo repositories.GeoRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
		geoRepo:  geoRepo,
	}
}

// CreateUserInput represents user creation input
type CreateUserInput struct {
	FullName   string `json:"full_name" validate:"required,min=2,max=100"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	Role       string `json:"role" validate:"required,oneof=admin manager accountant"`
	ProvinceID uint   `json:"province_id" validate:"required,gt=0"`
	DistrictID uint   `json:"district_id" validate:"required,gt=0"`
	FacilityID uint   `json:"facility_id" validate:"required,gt=0"`
}

// UpdateUserInput represents a partial user update. Nil fields are left
// unchanged.
type UpdateUserInput struct {
	FullName   *string `json:"full_name" validate:"omitempty,min=2,max=100"`
	Email      *string `json:"email" validate:"omitempty,email"`
	Role       *string `json:"role"`
	ProvinceID *uint   `json:"province_id"`
	DistrictID *uint   `json:"district_id"`
	FacilityID *uint   `json:"facility_id"`
}

// ListUsersResponse represents a paginated user listing
type ListUsersResponse struct {
	Users []*models.UserResponse `json:"users"`
	Meta  *pagination.Meta       `json:"meta"`
}

// BulkInput represents a bulk activate/deactivate request
type BulkInput struct {
	UserIDs []uint `json:"user_ids" validate:"required,min=1,dive,gt=0"`
}

// BulkResult buckets the per-id outcome of a bulk operation
type BulkResult struct {
	Success          []uint `json:"success"`
	Failed           []uint `json:"failed"`
	NotFound         []uint `json:"not_found"`
	SelfDeactivation []uint `json:"self_deactivation,omitempty"`
}

// PromoteInput represents a promote-to-admin request
type PromoteInput struct {
	Confirm bool `json:"confirm"`
}

// DemoteInput represents a demote-from-admin request
type DemoteInput struct {
	Confirm bool   `json:"confirm"`
	NewRole string `json:"new_role" validate:"required"`
}

// SetPasswordInput carries a replacement password
type SetPasswordInput struct {
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// Create creates a new user. The route is admin-only; the service still
// validates role, email uniqueness and hierarchy placement.
func (s *UserService) Create(ctx context.Context, input *CreateUserInput) (*models.UserResponse, error) {
	// 1. Validate role
	if !domain.ValidRole(input.Role) {
		return nil, domain.ErrInvalidRole
	}

	// 2. Check email uniqueness
	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrEmailTaken
	}

	// 3. Validate placement chain
	ok, err := s.geoRepo.ValidatePlacement(ctx, input.ProvinceID, input.DistrictID, input.FacilityID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrInvalidHierarchy
	}

	// 4. Hash password
	hashed, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	// 5. Create user
	user := &models.User{
		FullName:     input.FullName,
		Email:        input.Email,
		PasswordHash: hashed,
		Role:         input.Role,
		ProvinceID:   input.ProvinceID,
		DistrictID:   input.DistrictID,
		FacilityID:   input.FacilityID,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	// 6. Re-fetch with placement names resolved
	created, err := s.userRepo.GetByID(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ User created: %s (%s)", created.Email, created.Role)
	return created.ToResponse(), nil
}

// CreateAdmin creates a user through the dedicated admin-creation endpoint.
// Only the admin role is accepted here; everything else goes through Create.
func (s *UserService) CreateAdmin(ctx context.Context, actor *models.User, input *CreateUserInput) (*models.UserResponse, error) {
	if input.Role != domain.RoleAdmin {
		return nil, domain.ErrInvalidRole
	}
	created, err := s.Create(ctx, input)
	if err != nil {
		return nil, err
	}

	log.Printf("⚠️ Admin user created: %s (by %s)", created.Email, actor.Email)
	return created, nil
}

// Get fetches a user the actor is allowed to view
func (s *UserService) Get(ctx context.Context, actor *models.User, id uint) (*models.UserResponse, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanView(actor, user) {
		return nil, domain.ErrForbidden
	}
	return user.ToResponse(), nil
}

// List returns a paginated listing narrowed to the actor's scope. The
// narrowing silently overrides caller filters; it is never an error.
func (s *UserService) List(ctx context.Context, actor *models.User, filters domain.UserFilters, page, size int) (*ListUsersResponse, error) {
	params := pagination.New(page, size)
	scoped := domain.NarrowScope(actor, filters)

	users, total, err := s.userRepo.List(ctx, scoped, params.Offset, params.Size)
	if err != nil {
		return nil, err
	}

	return &ListUsersResponse{
		Users: toResponses(users),
		Meta:  pagination.GetMeta(params, total),
	}, nil
}

// SearchMaxSize caps the advanced-search page size; larger than the regular
// listing cap to support export-style queries.
const SearchMaxSize = 200

// Search runs the unscoped advanced directory search over the full filter
// set, including registration date bounds. Admin-only at the routing layer,
// so no scope narrowing is applied.
func (s *UserService) Search(ctx context.Context, filters domain.UserFilters, page, size int) (*ListUsersResponse, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 50
	}
	if size > SearchMaxSize {
		size = SearchMaxSize
	}
	params := &pagination.Params{Page: page, Size: size, Offset: (page - 1) * size}

	users, total, err := s.userRepo.List(ctx, filters, params.Offset, params.Size)
	if err != nil {
		return nil, err
	}

	return &ListUsersResponse{
		Users: toResponses(users),
		Meta:  pagination.GetMeta(params, total),
	}, nil
}

// Update applies a partial update to a user the actor can modify
func (s *UserService) Update(ctx context.Context, actor *models.User, id uint, input *UpdateUserInput) (*models.UserResponse, error) {
	// 1. Fetch target
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}

	// 2. Authorize
	if !domain.CanModify(actor, user) {
		return nil, domain.ErrForbidden
	}

	// 3. Email change must stay unique
	if input.Email != nil && *input.Email != user.Email {
		exists, err := s.userRepo.ExistsByEmail(ctx, *input.Email, user.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrEmailTaken
		}
		user.Email = *input.Email
	}

	// 4. Role change via generic update is allowed under CanModify
	if input.Role != nil {
		if !domain.ValidRole(*input.Role) {
			return nil, domain.ErrInvalidRole
		}
		user.Role = *input.Role
	}

	// 5. Placement change must keep the chain consistent
	provinceID, districtID, facilityID := user.ProvinceID, user.DistrictID, user.FacilityID
	if input.ProvinceID != nil {
		provinceID = *input.ProvinceID
	}
	if input.DistrictID != nil {
		districtID = *input.DistrictID
	}
	if input.FacilityID != nil {
		facilityID = *input.FacilityID
	}
	if provinceID != user.ProvinceID || districtID != user.DistrictID || facilityID != user.FacilityID {
		ok, err := s.geoRepo.ValidatePlacement(ctx, provinceID, districtID, facilityID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.ErrInvalidHierarchy
		}
		user.ProvinceID, user.DistrictID, user.FacilityID = provinceID, districtID, facilityID
	}

	if input.FullName != nil {
		user.FullName = *input.FullName
	}

	// 6. Persist and re-fetch with placement names
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	updated, err := s.userRepo.GetByID(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ User updated: %s", updated.Email)
	return updated.ToResponse(), nil
}

// Deactivate soft-deletes a user. Idempotent: deactivating an already
// inactive user succeeds.
func (s *UserService) Deactivate(ctx context.Context, actor *models.User, id uint) error {
	if actor.ID == id {
		return domain.ErrCannotDeactivateSelf
	}
	return s.setActive(ctx, actor, id, false)
}

// Delete is the DELETE endpoint's alias for deactivation; rows are never
// removed.
func (s *UserService) Delete(ctx context.Context, actor *models.User, id uint) error {
	if actor.ID == id {
		return domain.ErrCannotDeleteSelf
	}
	return s.setActive(ctx, actor, id, false)
}

// Activate reactivates a deactivated user
func (s *UserService) Activate(ctx context.Context, actor *models.User, id uint) error {
	return s.setActive(ctx, actor, id, true)
}

func (s *UserService) setActive(ctx context.Context, actor *models.User, id uint, active bool) error {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return err
	}
	if !domain.CanModify(actor, user) {
		return domain.ErrForbidden
	}
	if user.IsActive == active {
		return nil
	}
	if err := s.userRepo.SetActive(ctx, id, active); err != nil {
		return err
	}

	if active {
		log.Printf("✅ User activated: %s", user.Email)
	} else {
		log.Printf("⚠️ User deactivated: %s", user.Email)
	}
	return nil
}

// ChangePassword replaces a user's password after verifying the current
// one. Allowed for the user themself or any admin; even admins must supply
// the target's current password here, the skip lives in AdminResetPassword.
func (s *UserService) ChangePassword(ctx context.Context, actor *models.User, id uint, currentPassword, newPassword string) error {
	if actor.ID != id && actor.Role != domain.RoleAdmin {
		return domain.ErrForbidden
	}
	user, err := s.getUser(ctx, id)
	if err != nil {
		return err
	}

	if !password.Verify(currentPassword, user.PasswordHash) {
		return domain.ErrPasswordWrong
	}
	if !password.Validate(newPassword) {
		return domain.ErrPasswordTooShort
	}

	hashed, err := password.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, hashed); err != nil {
		return err
	}

	log.Printf("✅ Password changed for user: %s", user.Email)
	return nil
}

// AdminResetPassword replaces a user's password without the current one.
// A privileged operation, reachable only through the admin routes.
func (s *UserService) AdminResetPassword(ctx context.Context, id uint, newPassword string) error {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return err
	}
	if !password.Validate(newPassword) {
		return domain.ErrPasswordTooShort
	}

	hashed, err := password.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, hashed); err != nil {
		return err
	}

	log.Printf("⚠️ Password reset by admin for user: %s", user.Email)
	return nil
}

// PromoteToAdmin promotes a user to the admin role. Requires the explicit
// confirmation flag.
func (s *UserService) PromoteToAdmin(ctx context.Context, actor *models.User, id uint, input *PromoteInput) (*models.UserResponse, error) {
	if !input.Confirm {
		return nil, domain.ErrConfirmationRequired
	}

	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Role == domain.RoleAdmin {
		return nil, domain.ErrAlreadyAdmin
	}

	user.Role = domain.RoleAdmin
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("⚠️ User promoted to admin: %s (by %s)", user.Email, actor.Email)
	return user.ToResponse(), nil
}

// DemoteFromAdmin demotes an admin to a non-admin role. Requires the
// explicit confirmation flag; admins cannot demote themselves.
func (s *UserService) DemoteFromAdmin(ctx context.Context, actor *models.User, id uint, input *DemoteInput) (*models.UserResponse, error) {
	if !input.Confirm {
		return nil, domain.ErrConfirmationRequired
	}
	if actor.ID == id {
		return nil, domain.ErrCannotDemoteSelf
	}
	if !domain.ValidRole(input.NewRole) || input.NewRole == domain.RoleAdmin {
		return nil, domain.ErrInvalidRole
	}

	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Role != domain.RoleAdmin {
		return nil, domain.ErrNotAdmin
	}

	user.Role = input.NewRole
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("⚠️ Admin demoted to %s: %s (by %s)", user.Role, user.Email, actor.Email)
	return user.ToResponse(), nil
}

// BulkActivate activates users by id, bucketing per-id outcomes
func (s *UserService) BulkActivate(ctx context.Context, actor *models.User, ids []uint) (*BulkResult, error) {
	result := &BulkResult{Success: []uint{}, Failed: []uint{}, NotFound: []uint{}}
	for _, id := range ids {
		user, err := s.userRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				result.NotFound = append(result.NotFound, id)
			} else {
				result.Failed = append(result.Failed, id)
			}
			continue
		}
		if user.IsActive {
			result.Success = append(result.Success, id)
			continue
		}
		if err := s.userRepo.SetActive(ctx, id, true); err != nil {
			result.Failed = append(result.Failed, id)
			continue
		}
		result.Success = append(result.Success, id)
	}

	log.Printf("✅ Bulk activate by %s: %d ok, %d failed, %d not found",
		actor.Email, len(result.Success), len(result.Failed), len(result.NotFound))
	return result, nil
}

// BulkDeactivate deactivates users by id. The actor's own id lands in the
// self_deactivation bucket instead of being applied.
func (s *UserService) BulkDeactivate(ctx context.Context, actor *models.User, ids []uint) (*BulkResult, error) {
	result := &BulkResult{Success: []uint{}, Failed: []uint{}, NotFound: []uint{}, SelfDeactivation: []uint{}}
	for _, id := range ids {
		if id == actor.ID {
			result.SelfDeactivation = append(result.SelfDeactivation, id)
			continue
		}
		user, err := s.userRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				result.NotFound = append(result.NotFound, id)
			} else {
				result.Failed = append(result.Failed, id)
			}
			continue
		}
		if !user.IsActive {
			result.Success = append(result.Success, id)
			continue
		}
		if err := s.userRepo.SetActive(ctx, id, false); err != nil {
			result.Failed = append(result.Failed, id)
			continue
		}
		result.Success = append(result.Success, id)
	}

	log.Printf("⚠️ Bulk deactivate by %s: %d ok, %d failed, %d not found, %d self",
		actor.Email, len(result.Success), len(result.Failed), len(result.NotFound), len(result.SelfDeactivation))
	return result, nil
}

// UsersByFacility lists active users of a facility. The route is gated to
// managers and admins; the service mirrors that for direct callers.
func (s *UserService) UsersByFacility(ctx context.Context, actor *models.User, facilityID uint) ([]*models.UserResponse, error) {
	if actor.Role == domain.RoleAccountant {
		return nil, domain.ErrForbidden
	}
	users, err := s.userRepo.ListByFacility(ctx, facilityID)
	if err != nil {
		return nil, err
	}
	return toResponses(users), nil
}

// UsersByDistrict lists active users of a district. Managers may only read
// their own district.
func (s *UserService) UsersByDistrict(ctx context.Context, actor *models.User, districtID uint) ([]*models.UserResponse, error) {
	if actor.Role == domain.RoleAccountant {
		return nil, domain.ErrForbidden
	}
	if actor.Role == domain.RoleManager && actor.DistrictID != districtID {
		return nil, domain.ErrForbidden
	}
	users, err := s.userRepo.ListByDistrict(ctx, districtID)
	if err != nil {
		return nil, err
	}
	return toResponses(users), nil
}

// AdminUsers lists active admin users
func (s *UserService) AdminUsers(ctx context.Context) ([]*models.UserResponse, error) {
	users, err := s.userRepo.ListAdmins(ctx)
	if err != nil {
		return nil, err
	}
	return toResponses(users), nil
}

func (s *UserService) getUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func toResponses(users []*models.User) []*models.UserResponse {
	out := make([]*models.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, u.ToResponse())
	}
	return out
}
