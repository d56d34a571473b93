package services

import (
	"context"
	"time"

	"healthplan-admin/internal/adapters/persistence/models"
	"healthplan-admin/internal/adapters/persistence/repositories"
	"healthplan-admin/internal/core/domain"
	"healthplan-admin/internal/pkg/pagination"
)

// ReportService produces read-only aggregations for the admin dashboard.
// Everything is derived from the directory listing; no report has its own
// write path.
type ReportService struct {
	userRepo repositories.UserRepository
	geoRepo  repositories.GeoRepository
}

// NewReportService creates a new report service
func NewReportService(userRepo repositories.UserRepository, geoRepo repositories.GeoRepository) *ReportService {
	return &ReportService{
		userRepo: userRepo,
		geoRepo:  geoRepo,
	}
}

// DashboardStats is the admin landing-page summary
type DashboardStats struct {
	TotalUsers         int64            `json:"total_users"`
	ActiveUsers        int64            `json:"active_users"`
	InactiveUsers      int64            `json:"inactive_users"`
	UsersByRole        map[string]int64 `json:"users_by_role"`
	NewUsersLast30Days int64            `json:"new_users_last_30_days"`
}

// ScopeBreakdown is a per-area user count
type ScopeBreakdown struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Total  int64  `json:"total"`
	Active int64  `json:"active"`
}

// RegistrationActivity counts sign-ups over trailing windows
type RegistrationActivity struct {
	Last7Days  int64 `json:"last_7_days"`
	Last30Days int64 `json:"last_30_days"`
	Last90Days int64 `json:"last_90_days"`
}

// UserAnalytics is the full distribution report
type UserAnalytics struct {
	ByProvince    []ScopeBreakdown     `json:"by_province"`
	ByDistrict    []ScopeBreakdown     `json:"by_district"`
	ByFacility    []ScopeBreakdown     `json:"by_facility"`
	Registrations RegistrationActivity `json:"registrations"`
}

// AdminActivity summarizes the admin population
type AdminActivity struct {
	TotalAdmins  int64                  `json:"total_admins"`
	ActiveAdmins int64                  `json:"active_admins"`
	RecentAdmins []*models.UserResponse `json:"recent_admins"`
	PeriodDays   int                    `json:"period_days"`
}

// Dashboard builds the landing-page summary
func (s *ReportService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	total, err := s.userRepo.Count(ctx, domain.UserFilters{})
	if err != nil {
		return nil, err
	}

	active := true
	activeCount, err := s.userRepo.Count(ctx, domain.UserFilters{IsActive: &active})
	if err != nil {
		return nil, err
	}

	byRole := make(map[string]int64, 3)
	for _, role := range []string{domain.RoleAdmin, domain.RoleManager, domain.RoleAccountant} {
		role := role
		count, err := s.userRepo.Count(ctx, domain.UserFilters{Role: &role})
		if err != nil {
			return nil, err
		}
		byRole[role] = count
	}

	since := time.Now().AddDate(0, 0, -30)
	recent, err := s.userRepo.Count(ctx, domain.UserFilters{CreatedSince: &since})
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		TotalUsers:         total,
		ActiveUsers:        activeCount,
		InactiveUsers:      total - activeCount,
		UsersByRole:        byRole,
		NewUsersLast30Days: recent,
	}, nil
}

// Analytics builds the per-area distribution and registration report
func (s *ReportService) Analytics(ctx context.Context) (*UserAnalytics, error) {
	provinces, err := s.geoRepo.ListProvinces(ctx)
	if err != nil {
		return nil, err
	}
	districts, err := s.geoRepo.ListDistricts(ctx)
	if err != nil {
		return nil, err
	}
	facilities, err := s.geoRepo.ListFacilities(ctx)
	if err != nil {
		return nil, err
	}

	byProvince := make([]ScopeBreakdown, 0, len(provinces))
	for _, p := range provinces {
		row, err := s.breakdown(ctx, p.ID, p.Name, domain.UserFilters{ProvinceID: &p.ID})
		if err != nil {
			return nil, err
		}
		byProvince = append(byProvince, row)
	}

	byDistrict := make([]ScopeBreakdown, 0, len(districts))
	for _, d := range districts {
		row, err := s.breakdown(ctx, d.ID, d.Name, domain.UserFilters{DistrictID: &d.ID})
		if err != nil {
			return nil, err
		}
		byDistrict = append(byDistrict, row)
	}

	byFacility := make([]ScopeBreakdown, 0, len(facilities))
	for _, f := range facilities {
		row, err := s.breakdown(ctx, f.ID, f.Name, domain.UserFilters{FacilityID: &f.ID})
		if err != nil {
			return nil, err
		}
		byFacility = append(byFacility, row)
	}

	var registrations RegistrationActivity
	for _, w := range []struct {
		days int
		dst  *int64
	}{
		{7, &registrations.Last7Days},
		{30, &registrations.Last30Days},
		{90, &registrations.Last90Days},
	} {
		since := time.Now().AddDate(0, 0, -w.days)
		count, err := s.userRepo.Count(ctx, domain.UserFilters{CreatedSince: &since})
		if err != nil {
			return nil, err
		}
		*w.dst = count
	}

	return &UserAnalytics{
		ByProvince:    byProvince,
		ByDistrict:    byDistrict,
		ByFacility:    byFacility,
		Registrations: registrations,
	}, nil
}

func (s *ReportService) breakdown(ctx context.Context, id uint, name string, filters domain.UserFilters) (ScopeBreakdown, error) {
	total, err := s.userRepo.Count(ctx, filters)
	if err != nil {
		return ScopeBreakdown{}, err
	}
	active := true
	filters.IsActive = &active
	activeCount, err := s.userRepo.Count(ctx, filters)
	if err != nil {
		return ScopeBreakdown{}, err
	}
	return ScopeBreakdown{ID: id, Name: name, Total: total, Active: activeCount}, nil
}

// RecentUsers lists the newest registrations. days is clamped to 1..365 and
// limit to 1..200.
func (s *ReportService) RecentUsers(ctx context.Context, days, limit int) ([]*models.UserResponse, error) {
	if days < 1 {
		days = 1
	}
	if days > 365 {
		days = 365
	}
	if limit < 1 {
		limit = 1
	}
	if limit > 200 {
		limit = 200
	}

	since := time.Now().AddDate(0, 0, -days)
	users, _, err := s.userRepo.List(ctx, domain.UserFilters{CreatedSince: &since}, 0, limit)
	if err != nil {
		return nil, err
	}
	return toResponses(users), nil
}

// InactiveUsers lists deactivated accounts, paginated
func (s *ReportService) InactiveUsers(ctx context.Context, page, size int) (*ListUsersResponse, error) {
	params := pagination.New(page, size)
	inactive := false

	users, total, err := s.userRepo.List(ctx, domain.UserFilters{IsActive: &inactive}, params.Offset, params.Size)
	if err != nil {
		return nil, err
	}

	return &ListUsersResponse{
		Users: toResponses(users),
		Meta:  pagination.GetMeta(params, total),
	}, nil
}

// AdminActivitySummary reports the admin population and the admins created
// in the trailing period
func (s *ReportService) AdminActivitySummary(ctx context.Context, periodDays int) (*AdminActivity, error) {
	if periodDays < 1 {
		periodDays = 30
	}

	role := domain.RoleAdmin
	total, err := s.userRepo.Count(ctx, domain.UserFilters{Role: &role})
	if err != nil {
		return nil, err
	}

	active := true
	activeCount, err := s.userRepo.Count(ctx, domain.UserFilters{Role: &role, IsActive: &active})
	if err != nil {
		return nil, err
	}

	since := time.Now().AddDate(0, 0, -periodDays)
	recent, _, err := s.userRepo.List(ctx, domain.UserFilters{Role: &role, CreatedSince: &since}, 0, 50)
	if err != nil {
		return nil, err
	}

	return &AdminActivity{
		TotalAdmins:  total,
		ActiveAdmins: activeCount,
		RecentAdmins: toResponses(recent),
		PeriodDays:   periodDays,
	}, nil
}
