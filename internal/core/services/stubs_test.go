package services

import (
	"context"
	"sort"
	"strings"

	"healthplan-admin/internal/adapters/persistence/models"
	"healthplan-admin/internal/core/domain"

	"gorm.io/gorm"
)

// stubUserRepo is an in-memory UserRepository for service tests
type stubUserRepo struct {
	users  map[uint]*models.User
	nextID uint
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uint]*models.User), nextID: 1}
}

func (r *stubUserRepo) add(u *models.User) *models.User {
	if u.ID == 0 {
		u.ID = r.nextID
	}
	if u.ID >= r.nextID {
		r.nextID = u.ID + 1
	}
	clone := *u
	r.users[u.ID] = &clone
	return u
}

func cloneUser(u *models.User) *models.User {
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *models.User) error {
	r.add(user)
	return nil
}

func (r *stubUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) GetActiveByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email && u.IsActive {
			return cloneUser(u), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) Update(_ context.Context, user *models.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, id uint, passwordHash string) error {
	u, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (r *stubUserRepo) SetActive(_ context.Context, id uint, active bool) error {
	u, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.IsActive = active
	return nil
}

func (r *stubUserRepo) ExistsByEmail(_ context.Context, email string, excludeID uint) (bool, error) {
	for _, u := range r.users {
		if u.Email == email && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func matches(u *models.User, f domain.UserFilters) bool {
	if f.ProvinceID != nil && u.ProvinceID != *f.ProvinceID {
		return false
	}
	if f.DistrictID != nil && u.DistrictID != *f.DistrictID {
		return false
	}
	if f.FacilityID != nil && u.FacilityID != *f.FacilityID {
		return false
	}
	if f.Role != nil && u.Role != *f.Role {
		return false
	}
	if f.IsActive != nil && u.IsActive != *f.IsActive {
		return false
	}
	if f.Search != "" {
		s := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(u.FullName), s) &&
			!strings.Contains(strings.ToLower(u.Email), s) {
			return false
		}
	}
	if f.EmailPattern != "" &&
		!strings.Contains(strings.ToLower(u.Email), strings.ToLower(f.EmailPattern)) {
		return false
	}
	if f.NamePattern != "" &&
		!strings.Contains(strings.ToLower(u.FullName), strings.ToLower(f.NamePattern)) {
		return false
	}
	if f.CreatedSince != nil && u.CreatedAt.Before(*f.CreatedSince) {
		return false
	}
	if f.CreatedBefore != nil && !u.CreatedAt.Before(*f.CreatedBefore) {
		return false
	}
	return true
}

func (r *stubUserRepo) filtered(f domain.UserFilters) []*models.User {
	var out []*models.User
	for _, u := range r.users {
		if matches(u, f) {
			out = append(out, cloneUser(u))
		}
	}
	// Newest first, id as tiebreaker for deterministic tests
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (r *stubUserRepo) List(_ context.Context, filters domain.UserFilters, offset, limit int) ([]*models.User, int64, error) {
	all := r.filtered(filters)
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *stubUserRepo) Count(_ context.Context, filters domain.UserFilters) (int64, error) {
	return int64(len(r.filtered(filters))), nil
}

func (r *stubUserRepo) ListByFacility(_ context.Context, facilityID uint) ([]*models.User, error) {
	active := true
	return r.filtered(domain.UserFilters{FacilityID: &facilityID, IsActive: &active}), nil
}

func (r *stubUserRepo) ListByDistrict(_ context.Context, districtID uint) ([]*models.User, error) {
	active := true
	return r.filtered(domain.UserFilters{DistrictID: &districtID, IsActive: &active}), nil
}

func (r *stubUserRepo) ListAdmins(_ context.Context) ([]*models.User, error) {
	role := domain.RoleAdmin
	active := true
	return r.filtered(domain.UserFilters{Role: &role, IsActive: &active}), nil
}

// stubGeoRepo is an in-memory GeoRepository. Placement keys are
// province/district/facility triples registered by the test.
type stubGeoRepo struct {
	provinces  []*models.Province
	districts  []*models.District
	facilities []*models.Facility
}

func newStubGeoRepo() *stubGeoRepo {
	return &stubGeoRepo{}
}

func (r *stubGeoRepo) addPlacement(provinceID, districtID, facilityID uint) {
	r.provinces = append(r.provinces, &models.Province{ID: provinceID, Name: "Province"})
	r.districts = append(r.districts, &models.District{ID: districtID, ProvinceID: provinceID, Name: "District"})
	r.facilities = append(r.facilities, &models.Facility{
		ID: facilityID, ProvinceID: provinceID, DistrictID: districtID,
		Name: "Facility", FacilityType: models.FacilityTypeHealthCenter,
	})
}

func (r *stubGeoRepo) ListProvinces(_ context.Context) ([]*models.Province, error) {
	return r.provinces, nil
}

func (r *stubGeoRepo) ListDistricts(_ context.Context) ([]*models.District, error) {
	return r.districts, nil
}

func (r *stubGeoRepo) ListFacilities(_ context.Context) ([]*models.Facility, error) {
	return r.facilities, nil
}

func (r *stubGeoRepo) ValidatePlacement(_ context.Context, provinceID, districtID, facilityID uint) (bool, error) {
	for _, f := range r.facilities {
		if f.ID == facilityID && f.DistrictID == districtID && f.ProvinceID == provinceID {
			return true, nil
		}
	}
	return false, nil
}
