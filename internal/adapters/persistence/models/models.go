package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Geographic Hierarchy (Province → District → Facility)
// ============================================================

// Province represents provinces table
type Province struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Code      string    `gorm:"size:10;uniqueIndex" json:"code"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Province) TableName() string {
	return "provinces"
}

// District represents districts table
type District struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ProvinceID uint      `gorm:"not null;index" json:"province_id"`
	Name       string    `gorm:"size:100;not null" json:"name"`
	Code       string    `gorm:"size:10" json:"code"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Province *Province `gorm:"foreignKey:ProvinceID" json:"province,omitempty"`
}

func (District) TableName() string {
	return "districts"
}

// Facility types
const (
	FacilityTypeHospital     = "hospital"
	FacilityTypeHealthCenter = "health_center"
)

// Facility represents facilities table
type Facility struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ProvinceID   uint      `gorm:"not null;index" json:"province_id"`
	DistrictID   uint      `gorm:"not null;index" json:"district_id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	FacilityType string    `gorm:"size:20;not null" json:"facility_type"`
	Address      string    `gorm:"type:text" json:"address"`
	Phone        string    `gorm:"size:20" json:"phone"`
	Email        string    `gorm:"size:255" json:"email"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Province *Province `gorm:"foreignKey:ProvinceID" json:"province,omitempty"`
	District *District `gorm:"foreignKey:DistrictID" json:"district,omitempty"`
}

func (Facility) TableName() string {
	return "facilities"
}

// ============================================================
// Users
// ============================================================

// User represents users table.
// Deactivation is a reversible soft-delete: rows are never removed, so
// downstream financial/activity records keep resolving the user id.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	FullName     string    `gorm:"size:255;not null" json:"full_name"`
	Email        string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	ProvinceID   uint      `gorm:"not null;index" json:"province_id"`
	DistrictID   uint      `gorm:"not null;index" json:"district_id"`
	FacilityID   uint      `gorm:"not null;index" json:"facility_id"`
	Role         string    `gorm:"size:20;not null;default:'accountant'" json:"role"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Province *Province `gorm:"foreignKey:ProvinceID" json:"-"`
	District *District `gorm:"foreignKey:DistrictID" json:"-"`
	Facility *Facility `gorm:"foreignKey:FacilityID" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO. A directory record always carries the resolved
// hierarchy names alongside the stored ids.
type UserResponse struct {
	ID           uint      `json:"id"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	ProvinceID   uint      `json:"province_id"`
	ProvinceName string    `json:"province_name,omitempty"`
	DistrictID   uint      `json:"district_id"`
	DistrictName string    `json:"district_name,omitempty"`
	FacilityID   uint      `json:"facility_id"`
	FacilityName string    `json:"facility_name,omitempty"`
	FacilityType string    `json:"facility_type,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) ToResponse() *UserResponse {
	resp := &UserResponse{
		ID:         u.ID,
		FullName:   u.FullName,
		Email:      u.Email,
		Role:       u.Role,
		IsActive:   u.IsActive,
		ProvinceID: u.ProvinceID,
		DistrictID: u.DistrictID,
		FacilityID: u.FacilityID,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}

	if u.Province != nil {
		resp.ProvinceName = u.Province.Name
	}
	if u.District != nil {
		resp.DistrictName = u.District.Name
	}
	if u.Facility != nil {
		resp.FacilityName = u.Facility.Name
		resp.FacilityType = u.Facility.FacilityType
	}

	return resp
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Province{},
		&District{},
		&Facility{},
		&User{},
	)
}
