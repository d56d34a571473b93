package repositories

import (
	"context"

	"healthplan-admin/internal/adapters/persistence/models"
	"healthplan-admin/internal/core/domain"

	"gorm.io/gorm"
)

// userRepository implements UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// preloaded returns a query with placement relations loaded so that
// UserResponse can resolve province/district/facility names.
func (r *userRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Province").
		Preload("District").
		Preload("Facility")
}

// applyFilters narrows a users query by the given filters
func applyFilters(q *gorm.DB, filters domain.UserFilters) *gorm.DB {
	if filters.ProvinceID != nil {
		q = q.Where("province_id = ?", *filters.ProvinceID)
	}
	if filters.DistrictID != nil {
		q = q.Where("district_id = ?", *filters.DistrictID)
	}
	if filters.FacilityID != nil {
		q = q.Where("facility_id = ?", *filters.FacilityID)
	}
	if filters.Role != nil {
		q = q.Where("role = ?", *filters.Role)
	}
	if filters.IsActive != nil {
		q = q.Where("is_active = ?", *filters.IsActive)
	}
	if filters.Search != "" {
		like := "%" + filters.Search + "%"
		q = q.Where("full_name LIKE ? OR email LIKE ?", like, like)
	}
	if filters.EmailPattern != "" {
		q = q.Where("email LIKE ?", "%"+filters.EmailPattern+"%")
	}
	if filters.NamePattern != "" {
		q = q.Where("full_name LIKE ?", "%"+filters.NamePattern+"%")
	}
	if filters.CreatedSince != nil {
		q = q.Where("created_at >= ?", *filters.CreatedSince)
	}
	if filters.CreatedBefore != nil {
		q = q.Where("created_at < ?", *filters.CreatedBefore)
	}
	return q
}

// Create creates a new user
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetByID gets a user by ID
func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.preloaded(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail gets a user by email regardless of active status
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.preloaded(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetActiveByEmail gets an active user by email
func (r *userRepository) GetActiveByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.preloaded(ctx).Where("email = ? AND is_active = ?", email, true).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update updates a user
func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// UpdatePassword updates only the password hash
func (r *userRepository) UpdatePassword(ctx context.Context, id uint, passwordHash string) error {
	return r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash).Error
}

// SetActive flips the active flag. Rows are never deleted.
func (r *userRepository) SetActive(ctx context.Context, id uint, active bool) error {
	return r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("is_active", active).Error
}

// ExistsByEmail checks if email is taken by a user other than excludeID
func (r *userRepository) ExistsByEmail(ctx context.Context, email string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

// List lists users matching the filters with pagination, newest first
func (r *userRepository) List(ctx context.Context, filters domain.UserFilters, offset, limit int) ([]*models.User, int64, error) {
	var users []*models.User
	var total int64

	// Count total
	if err := applyFilters(r.db.WithContext(ctx).Model(&models.User{}), filters).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Get users with pagination
	err := applyFilters(r.preloaded(ctx), filters).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// Count counts users matching the filters
func (r *userRepository) Count(ctx context.Context, filters domain.UserFilters) (int64, error) {
	var total int64
	err := applyFilters(r.db.WithContext(ctx).Model(&models.User{}), filters).Count(&total).Error
	return total, err
}

// ListByFacility lists active users of a facility by name
func (r *userRepository) ListByFacility(ctx context.Context, facilityID uint) ([]*models.User, error) {
	var users []*models.User
	err := r.preloaded(ctx).
		Where("facility_id = ? AND is_active = ?", facilityID, true).
		Order("full_name").
		Find(&users).Error
	return users, err
}

// ListByDistrict lists active users of a district by name
func (r *userRepository) ListByDistrict(ctx context.Context, districtID uint) ([]*models.User, error) {
	var users []*models.User
	err := r.preloaded(ctx).
		Where("district_id = ? AND is_active = ?", districtID, true).
		Order("full_name").
		Find(&users).Error
	return users, err
}

// ListAdmins lists active admin users
func (r *userRepository) ListAdmins(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	err := r.preloaded(ctx).
		Where("role = ? AND is_active = ?", domain.RoleAdmin, true).
		Order("created_at DESC").
		Find(&users).Error
	return users, err
}

