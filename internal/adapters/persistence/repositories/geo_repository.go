package repositories

import (
	"context"

	"healthplan-admin/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// geoRepository implements GeoRepository interface
type geoRepository struct {
	db *gorm.DB
}

// NewGeoRepository creates a new geo repository
func NewGeoRepository(db *gorm.DB) GeoRepository {
	return &geoRepository{db: db}
}

// ListProvinces lists all provinces by name
func (r *geoRepository) ListProvinces(ctx context.Context) ([]*models.Province, error) {
	var provinces []*models.Province
	err := r.db.WithContext(ctx).Order("name").Find(&provinces).Error
	return provinces, err
}

// ListDistricts lists all districts by name
func (r *geoRepository) ListDistricts(ctx context.Context) ([]*models.District, error) {
	var districts []*models.District
	err := r.db.WithContext(ctx).Order("name").Find(&districts).Error
	return districts, err
}

// ListFacilities lists all facilities by name
func (r *geoRepository) ListFacilities(ctx context.Context) ([]*models.Facility, error) {
	var facilities []*models.Facility
	err := r.db.WithContext(ctx).Order("name").Find(&facilities).Error
	return facilities, err
}

// ValidatePlacement checks that the facility belongs to the district and
// the district to the province. Returns false when any link is broken or
// any of the three rows is missing.
func (r *geoRepository) ValidatePlacement(ctx context.Context, provinceID, districtID, facilityID uint) (bool, error) {
	var district models.District
	err := r.db.WithContext(ctx).
		Where("id = ? AND province_id = ?", districtID, provinceID).
		First(&district).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, nil
		}
		return false, err
	}

	var facility models.Facility
	err = r.db.WithContext(ctx).
		Where("id = ? AND district_id = ? AND province_id = ?", facilityID, districtID, provinceID).
		First(&facility).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, nil
		}
		return false, err
	}

	return true, nil
}
