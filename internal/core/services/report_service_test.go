package services

import (
	"context"
	"testing"
	"time"

	"healthplan-admin/internal/adapters/persistence/models"
	"healthplan-admin/internal/core/domain"
)

func newReportFixture() (*ReportService, *stubUserRepo, *stubGeoRepo) {
	userRepo := newStubUserRepo()
	geoRepo := newStubGeoRepo()
	geoRepo.addPlacement(1, 1, 1)
	return NewReportService(userRepo, geoRepo), userRepo, geoRepo
}

func reportUser(repo *stubUserRepo, id uint, role string, active bool, createdDaysAgo int) *models.User {
	return repo.add(&models.User{
		ID:           id,
		FullName:     "Report User",
		Email:        "user" + string(rune('a'+id)) + "@example.com",
		PasswordHash: "x",
		Role:         role,
		ProvinceID:   1,
		DistrictID:   1,
		FacilityID:   1,
		IsActive:     active,
		CreatedAt:    time.Now().AddDate(0, 0, -createdDaysAgo),
	})
}

func TestReportServiceDashboard(t *testing.T) {
	svc, userRepo, _ := newReportFixture()
	reportUser(userRepo, 1, domain.RoleAdmin, true, 100)
	reportUser(userRepo, 2, domain.RoleManager, true, 10)
	reportUser(userRepo, 3, domain.RoleAccountant, false, 5)
	reportUser(userRepo, 4, domain.RoleAccountant, true, 1)

	stats, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("Dashboard returned error: %v", err)
	}
	if stats.TotalUsers != 4 {
		t.Errorf("TotalUsers = %d, want 4", stats.TotalUsers)
	}
	if stats.ActiveUsers != 3 {
		t.Errorf("ActiveUsers = %d, want 3", stats.ActiveUsers)
	}
	if stats.InactiveUsers != 1 {
		t.Errorf("InactiveUsers = %d, want 1", stats.InactiveUsers)
	}
	if stats.UsersByRole[domain.RoleAccountant] != 2 {
		t.Errorf("accountant count = %d, want 2", stats.UsersByRole[domain.RoleAccountant])
	}
	if stats.NewUsersLast30Days != 3 {
		t.Errorf("NewUsersLast30Days = %d, want 3", stats.NewUsersLast30Days)
	}
}

func TestReportServiceAnalytics(t *testing.T) {
	svc, userRepo, _ := newReportFixture()
	reportUser(userRepo, 1, domain.RoleManager, true, 3)
	reportUser(userRepo, 2, domain.RoleAccountant, false, 50)

	analytics, err := svc.Analytics(context.Background())
	if err != nil {
		t.Fatalf("Analytics returned error: %v", err)
	}
	if len(analytics.ByProvince) != 1 || len(analytics.ByDistrict) != 1 || len(analytics.ByFacility) != 1 {
		t.Fatalf("expected one breakdown row per area")
	}
	if analytics.ByProvince[0].Total != 2 || analytics.ByProvince[0].Active != 1 {
		t.Errorf("province breakdown = %+v, want total 2 active 1", analytics.ByProvince[0])
	}
	if analytics.Registrations.Last7Days != 1 {
		t.Errorf("Last7Days = %d, want 1", analytics.Registrations.Last7Days)
	}
	if analytics.Registrations.Last90Days != 2 {
		t.Errorf("Last90Days = %d, want 2", analytics.Registrations.Last90Days)
	}
}

func TestReportServiceRecentUsers(t *testing.T) {
	svc, userRepo, _ := newReportFixture()
	reportUser(userRepo, 1, domain.RoleAccountant, true, 2)
	reportUser(userRepo, 2, domain.RoleAccountant, true, 400)

	users, err := svc.RecentUsers(context.Background(), 7, 50)
	if err != nil {
		t.Fatalf("RecentUsers returned error: %v", err)
	}
	if len(users) != 1 || users[0].ID != 1 {
		t.Fatalf("expected only the 2-day-old user, got %d users", len(users))
	}

	// Out-of-range parameters are clamped, not rejected
	if _, err := svc.RecentUsers(context.Background(), 0, 10000); err != nil {
		t.Fatalf("clamped call returned error: %v", err)
	}
}

func TestReportServiceInactiveUsers(t *testing.T) {
	svc, userRepo, _ := newReportFixture()
	reportUser(userRepo, 1, domain.RoleAccountant, true, 1)
	reportUser(userRepo, 2, domain.RoleAccountant, false, 1)
	reportUser(userRepo, 3, domain.RoleManager, false, 1)

	result, err := svc.InactiveUsers(context.Background(), 1, 20)
	if err != nil {
		t.Fatalf("InactiveUsers returned error: %v", err)
	}
	if len(result.Users) != 2 {
		t.Errorf("expected 2 inactive users, got %d", len(result.Users))
	}
	for _, u := range result.Users {
		if u.IsActive {
			t.Errorf("active user %d in inactive listing", u.ID)
		}
	}
	if result.Meta.Total != 2 {
		t.Errorf("Meta.Total = %d, want 2", result.Meta.Total)
	}
}

func TestReportServiceAdminActivity(t *testing.T) {
	svc, userRepo, _ := newReportFixture()
	reportUser(userRepo, 1, domain.RoleAdmin, true, 5)
	reportUser(userRepo, 2, domain.RoleAdmin, false, 100)
	reportUser(userRepo, 3, domain.RoleManager, true, 1)

	summary, err := svc.AdminActivitySummary(context.Background(), 30)
	if err != nil {
		t.Fatalf("AdminActivitySummary returned error: %v", err)
	}
	if summary.TotalAdmins != 2 {
		t.Errorf("TotalAdmins = %d, want 2", summary.TotalAdmins)
	}
	if summary.ActiveAdmins != 1 {
		t.Errorf("ActiveAdmins = %d, want 1", summary.ActiveAdmins)
	}
	if len(summary.RecentAdmins) != 1 || summary.RecentAdmins[0].ID != 1 {
		t.Errorf("RecentAdmins = %v, want only the 5-day-old admin", summary.RecentAdmins)
	}
	if summary.PeriodDays != 30 {
		t.Errorf("PeriodDays = %d, want 30", summary.PeriodDays)
	}
}
