package domain

import (
	"time"

	"healthplan-admin/internal/adapters/persistence/models"
)

// User roles. Admin sits above the others; manager and accountant are not
// comparable to each other, their relationship is defined purely by the
// scope rules below.
const (
	RoleAdmin      = "admin"
	RoleManager    = "manager"
	RoleAccountant = "accountant"
)

// ValidRole reports whether role is one of the closed role set.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleAccountant:
		return true
	}
	return false
}

// UserFilters are the list-query filters the directory accepts. Nil pointer
// means "not filtered on". Search matches name or email; EmailPattern and
// NamePattern match their single column and exist for the advanced search.
// CreatedSince is inclusive, CreatedBefore exclusive.
type UserFilters struct {
	FacilityID    *uint
	DistrictID    *uint
	ProvinceID    *uint
	Role          *string
	IsActive      *bool
	Search        string
	EmailPattern  string
	NamePattern   string
	CreatedSince  *time.Time
	CreatedBefore *time.Time
}

// CanModify decides whether actor may mutate target's record.
//   - Admins may modify anyone.
//   - Managers may modify accountants in their own district only.
//   - Accountants may modify only themselves.
//
// Self-protection rules (no self-deactivation, no self-demotion) are layered
// on top by the user service; they are not scope decisions.
func CanModify(actor, target *models.User) bool {
	switch actor.Role {
	case RoleAdmin:
		return true
	case RoleManager:
		return actor.DistrictID == target.DistrictID && target.Role == RoleAccountant
	case RoleAccountant:
		return actor.ID == target.ID
	}
	return false
}

// CanView decides whether actor may read target's record directly.
// Bulk visibility is governed by NarrowScope, not by this predicate.
func CanView(actor, target *models.User) bool {
	if actor.ID == target.ID {
		return true
	}
	switch actor.Role {
	case RoleAdmin:
		return true
	case RoleManager:
		return actor.DistrictID == target.DistrictID
	}
	return false
}

// NarrowScope restricts a list query to the actor's authorized subtree.
// Admins see everything; managers are pinned to their district and
// accountants to their facility, regardless of what the request asked for.
// Overriding a foreign district/facility filter is deliberate fail-closed
// narrowing, never an error.
func NarrowScope(actor *models.User, filters UserFilters) UserFilters {
	switch actor.Role {
	case RoleAdmin:
		return filters
	case RoleManager:
		districtID := actor.DistrictID
		filters.DistrictID = &districtID
		return filters
	default:
		// Accountants, and anything unrecognized, get the narrowest scope.
		facilityID := actor.FacilityID
		filters.FacilityID = &facilityID
		return filters
	}
}
