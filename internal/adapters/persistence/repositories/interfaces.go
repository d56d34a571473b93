package repositories

import (
	"context"

	"healthplan-admin/internal/adapters/persistence/models"
	"healthplan-admin/internal/core/domain"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetActiveByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id uint, passwordHash string) error
	SetActive(ctx context.Context, id uint, active bool) error
	ExistsByEmail(ctx context.Context, email string, excludeID uint) (bool, error)
	List(ctx context.Context, filters domain.UserFilters, offset, limit int) ([]*models.User, int64, error)
	Count(ctx context.Context, filters domain.UserFilters) (int64, error)
	ListByFacility(ctx context.Context, facilityID uint) ([]*models.User, error)
	ListByDistrict(ctx context.Context, districtID uint) ([]*models.User, error)
	ListAdmins(ctx context.Context) ([]*models.User, error)
}

// GeoRepository defines read access to the province/district/facility tree
type GeoRepository interface {
	ListProvinces(ctx context.Context) ([]*models.Province, error)
	ListDistricts(ctx context.Context) ([]*models.District, error)
	ListFacilities(ctx context.Context) ([]*models.Facility, error)
	ValidatePlacement(ctx context.Context, provinceID, districtID, facilityID uint) (bool, error)
}
