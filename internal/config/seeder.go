package config

import (
	"log"
	"time"

	"btohub/internal/adapters/persistence/models"
	"btohub/internal/core/domain"
	"btohub/internal/pkg/password"

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

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedStaff(); err != nil {
		log.Printf("⚠️ Staff seeder skipped: %v", err)
	}
	if err := s.seedSampleProject(); err != nil {
		log.Printf("⚠️ Project seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedStaff seeds a default manager and officer account
// This is for development/testing only
func (s *Seeder) seedStaff() error {
	var count int64
	s.db.Model(&models.User{}).Where("role = ?", domain.RoleManager).Count(&count)
	if count > 0 {
		return nil // staff already present
	}

	hashed, err := password.Hash("password123")
	if err != nil {
		return err
	}

	staff := []*models.User{
		{
			NationalID:    "T8765432F",
			Name:          "Michael",
			Password:      hashed,
			Age:           36,
			MaritalStatus: domain.Single,
			Role:          domain.RoleManager,
			IsActive:      true,
		},
		{
			NationalID:    "T2109876H",
			Name:          "Daniel",
			Password:      hashed,
			Age:           36,
			MaritalStatus: domain.Single,
			Role:          domain.RoleOfficer,
			IsActive:      true,
		},
	}

	for _, u := range staff {
		if err := s.db.Create(u).Error; err != nil {
			return err
		}
		log.Printf("✅ Seeded %s account: %s", u.Role, u.Name)
	}

	return nil
}

// seedSampleProject seeds one open project with inventory for both flat types
func (s *Seeder) seedSampleProject() error {
	var count int64
	s.db.Model(&models.Project{}).Count(&count)
	if count > 0 {
		return nil
	}

	var manager models.User
	if err := s.db.Where("role = ?", domain.RoleManager).First(&manager).Error; err != nil {
		return err
	}

	today := time.Now().Truncate(24 * time.Hour)
	project := &models.Project{
		Name:         "Acacia Breeze",
		Neighborhood: "Yishun",
		OpenDate:     today,
		CloseDate:    today.AddDate(0, 1, 0),
		ManagerID:    manager.ID,
		OfficerSlots: 3,
		Visible:      true,
		FlatTypes: []models.FlatTypeDetails{
			{FlatType: domain.TwoRoom, TotalUnits: 2, AvailableUnits: 2, SellingPrice: 350000},
			{FlatType: domain.ThreeRoom, TotalUnits: 3, AvailableUnits: 3, SellingPrice: 450000},
		},
	}

	if err := s.db.Create(project).Error; err != nil {
		return err
	}

	log.Printf("✅ Seeded sample project: %s", project.Name)
	return nil
}
