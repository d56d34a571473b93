package config

import (
	"log"

	"healthplan-admin/internal/adapters/persistence/models"
	"healthplan-admin/internal/core/domain"
	"healthplan-admin/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders. Each step is idempotent.
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedGeography(); err != nil {
		return err
	}
	if err := s.seedAdminUser(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

type seedFacility struct {
	name         string
	facilityType string
}

type seedDistrict struct {
	name       string
	facilities []seedFacility
}

type seedProvince struct {
	name      string
	code      string
	districts []seedDistrict
}

// seedGeography seeds the province/district/facility tree
func (s *Seeder) seedGeography() error {
	provinces := []seedProvince{
		{"Kigali", "KIG", []seedDistrict{
			{"Gasabo", []seedFacility{
				{"Kacyiru Hospital", models.FacilityTypeHospital},
				{"Kimironko Health Center", models.FacilityTypeHealthCenter},
			}},
			{"Nyarugenge", []seedFacility{
				{"CHUK Hospital", models.FacilityTypeHospital},
			}},
		}},
		{"Eastern", "EAS", []seedDistrict{
			{"Rwamagana", []seedFacility{
				{"Rwamagana Provincial Hospital", models.FacilityTypeHospital},
				{"Muhazi Health Center", models.FacilityTypeHealthCenter},
			}},
		}},
		{"Western", "WES", []seedDistrict{
			{"Rubavu", []seedFacility{
				{"Gisenyi Hospital", models.FacilityTypeHospital},
			}},
		}},
		{"Northern", "NOR", []seedDistrict{
			{"Musanze", []seedFacility{
				{"Ruhengeri Hospital", models.FacilityTypeHospital},
			}},
		}},
		{"Southern", "SOU", []seedDistrict{
			{"Huye", []seedFacility{
				{"Kabutare Hospital", models.FacilityTypeHospital},
				{"Matyazo Health Center", models.FacilityTypeHealthCenter},
			}},
		}},
	}

	for _, p := range provinces {
		province := models.Province{Name: p.name, Code: p.code}
		if err := s.db.Where("name = ?", p.name).FirstOrCreate(&province).Error; err != nil {
			return err
		}

		for _, d := range p.districts {
			district := models.District{Name: d.name, ProvinceID: province.ID}
			if err := s.db.Where("name = ? AND province_id = ?", d.name, province.ID).
				FirstOrCreate(&district).Error; err != nil {
				return err
			}

			for _, f := range d.facilities {
				facility := models.Facility{
					Name:         f.name,
					FacilityType: f.facilityType,
					ProvinceID:   province.ID,
					DistrictID:   district.ID,
				}
				if err := s.db.Where("name = ? AND district_id = ?", f.name, district.ID).
					FirstOrCreate(&facility).Error; err != nil {
					return err
				}
			}
		}
	}

	return nil
}

// seedAdminUser seeds the default admin. Development convenience; in
// production create the first admin through a secure process and change
// this password immediately.
func (s *Seeder) seedAdminUser() error {
	var count int64
	if err := s.db.Model(&models.User{}).Where("role = ?", domain.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	// Place the admin at the first facility in the tree
	var facility models.Facility
	if err := s.db.Order("id").First(&facility).Error; err != nil {
		return err
	}

	hashed, err := password.Hash("admin123456")
	if err != nil {
		return err
	}

	admin := &models.User{
		FullName:     "System Administrator",
		Email:        "admin@healthplanning.rw",
		PasswordHash: hashed,
		Role:         domain.RoleAdmin,
		ProvinceID:   facility.ProvinceID,
		DistrictID:   facility.DistrictID,
		FacilityID:   facility.ID,
		IsActive:     true,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Admin user created: %s", admin.Email)
	log.Println("⚠️ Default admin password is in use, change it immediately")
	return nil
}
