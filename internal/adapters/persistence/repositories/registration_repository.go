package repositories

import (
	"context"

	"btohub/internal/adapters/persistence/models"
	"btohub/internal/core/domain"

	"gorm.io/gorm"
)

// registrationRepository implements RegistrationRepository with GORM
type registrationRepository struct {
	db *gorm.DB
}

// NewRegistrationRepository creates a new officer registration repository
func NewRegistrationRepository(db *gorm.DB) RegistrationRepository {
	return &registrationRepository{db: db}
}

// Create creates a new registration
func (r *registrationRepository) Create(ctx context.Context, reg *models.OfficerRegistration) error {
	return r.db.WithContext(ctx).Create(reg).Error
}

// GetByID gets a registration by ID with relations
func (r *registrationRepository) GetByID(ctx context.Context, id uint) (*models.OfficerRegistration, error) {
	var reg models.OfficerRegistration
	err := r.db.WithContext(ctx).
		Preload("Officer").
		Preload("Project").
		First(&reg, id).Error
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

// GetByOfficerAndProject gets the registration an officer holds for a project
func (r *registrationRepository) GetByOfficerAndProject(ctx context.Context, officerID, projectID uint) (*models.OfficerRegistration, error) {
	var reg models.OfficerRegistration
	err := r.db.WithContext(ctx).
		Where("officer_id = ? AND project_id = ?", officerID, projectID).
		First(&reg).Error
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

// GetApprovedByOfficer gets the officer's current APPROVED registration, if any
func (r *registrationRepository) GetApprovedByOfficer(ctx context.Context, officerID uint) (*models.OfficerRegistration, error) {
	var reg models.OfficerRegistration
	err := r.db.WithContext(ctx).
		Where("officer_id = ? AND status = ?", officerID, domain.RegistrationApproved).
		First(&reg).Error
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

// ListByProject lists registrations for a project
func (r *registrationRepository) ListByProject(ctx context.Context, projectID uint) ([]*models.OfficerRegistration, error) {
	var regs []*models.OfficerRegistration
	err := r.db.WithContext(ctx).
		Preload("Officer").
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&regs).Error
	return regs, err
}

// ListByOfficer lists an officer's registrations
func (r *registrationRepository) ListByOfficer(ctx context.Context, officerID uint) ([]*models.OfficerRegistration, error) {
	var regs []*models.OfficerRegistration
	err := r.db.WithContext(ctx).
		Preload("Project").
		Where("officer_id = ?", officerID).
		Order("created_at DESC").
		Find(&regs).Error
	return regs, err
}

// CountApprovedByProject counts APPROVED registrations for a project
func (r *registrationRepository) CountApprovedByProject(ctx context.Context, projectID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.OfficerRegistration{}).
		Where("project_id = ? AND status = ?", projectID, domain.RegistrationApproved).
		Count(&count).Error
	return count, err
}

// Update updates a registration
func (r *registrationRepository) Update(ctx context.Context, reg *models.OfficerRegistration) error {
	return r.db.WithContext(ctx).Save(reg).Error
}
