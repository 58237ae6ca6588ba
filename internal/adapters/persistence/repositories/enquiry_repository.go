package repositories

import (
	"context"

	"btohub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// enquiryRepository implements EnquiryRepository with GORM
type enquiryRepository struct {
	db *gorm.DB
}

// NewEnquiryRepository creates a new enquiry repository
func NewEnquiryRepository(db *gorm.DB) EnquiryRepository {
	return &enquiryRepository{db: db}
}

// Create creates a new enquiry
func (r *enquiryRepository) Create(ctx context.Context, enquiry *models.Enquiry) error {
	return r.db.WithContext(ctx).Create(enquiry).Error
}

// GetByID gets an enquiry by ID with relations
func (r *enquiryRepository) GetByID(ctx context.Context, id uint) (*models.Enquiry, error) {
	var enquiry models.Enquiry
	err := r.db.WithContext(ctx).
		Preload("Applicant").
		Preload("Project").
		Preload("Replier").
		First(&enquiry, id).Error
	if err != nil {
		return nil, err
	}
	return &enquiry, nil
}

// ListByApplicant lists an applicant's enquiries
func (r *enquiryRepository) ListByApplicant(ctx context.Context, applicantID uint) ([]*models.Enquiry, error) {
	var enquiries []*models.Enquiry
	err := r.db.WithContext(ctx).
		Preload("Project").
		Where("applicant_id = ?", applicantID).
		Order("created_at DESC").
		Find(&enquiries).Error
	return enquiries, err
}

// ListByProject lists enquiries for a project
func (r *enquiryRepository) ListByProject(ctx context.Context, projectID uint) ([]*models.Enquiry, error) {
	var enquiries []*models.Enquiry
	err := r.db.WithContext(ctx).
		Preload("Applicant").
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&enquiries).Error
	return enquiries, err
}

// List lists all enquiries with pagination
func (r *enquiryRepository) List(ctx context.Context, offset, limit int) ([]*models.Enquiry, int64, error) {
	var enquiries []*models.Enquiry
	var total int64

	r.db.WithContext(ctx).Model(&models.Enquiry{}).Count(&total)

	err := r.db.WithContext(ctx).
		Preload("Applicant").
		Preload("Project").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&enquiries).Error

	return enquiries, total, err
}

// Update updates an enquiry
func (r *enquiryRepository) Update(ctx context.Context, enquiry *models.Enquiry) error {
	return r.db.WithContext(ctx).Save(enquiry).Error
}

// Delete removes an enquiry
func (r *enquiryRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Enquiry{}, id).Error
}
