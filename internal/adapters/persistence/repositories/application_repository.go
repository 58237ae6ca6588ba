package repositories

import (
	"context"

	"btohub/internal/adapters/persistence/models"
	"btohub/internal/core/domain"

	"gorm.io/gorm"
)

// applicationRepository implements ApplicationRepository with GORM
type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

// Create creates a new application
func (r *applicationRepository) Create(ctx context.Context, app *models.Application) error {
	return r.db.WithContext(ctx).Create(app).Error
}

// GetByID gets an application by ID with relations
func (r *applicationRepository) GetByID(ctx context.Context, id uint) (*models.Application, error) {
	var app models.Application
	err := r.db.WithContext(ctx).
		Preload("Applicant").
		Preload("Project").
		First(&app, id).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// GetByApplicantAndProject gets the application an applicant holds for a project
func (r *applicationRepository) GetByApplicantAndProject(ctx context.Context, applicantID, projectID uint) (*models.Application, error) {
	var app models.Application
	err := r.db.WithContext(ctx).
		Where("applicant_id = ? AND project_id = ?", applicantID, projectID).
		Order("created_at DESC").
		First(&app).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// ListByApplicant lists an applicant's applications, newest first
func (r *applicationRepository) ListByApplicant(ctx context.Context, applicantID uint) ([]*models.Application, error) {
	var apps []*models.Application
	err := r.db.WithContext(ctx).
		Preload("Project").
		Where("applicant_id = ?", applicantID).
		Order("created_at DESC").
		Find(&apps).Error
	return apps, err
}

// ListByProject lists applications for a project with pagination
func (r *applicationRepository) ListByProject(ctx context.Context, projectID uint, offset, limit int) ([]*models.Application, int64, error) {
	var apps []*models.Application
	var total int64

	r.db.WithContext(ctx).Model(&models.Application{}).Where("project_id = ?", projectID).Count(&total)

	err := r.db.WithContext(ctx).
		Preload("Applicant").
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&apps).Error

	return apps, total, err
}

// ListByStatus lists applications in a given status with pagination
func (r *applicationRepository) ListByStatus(ctx context.Context, status domain.ApplicationStatus, offset, limit int) ([]*models.Application, int64, error) {
	var apps []*models.Application
	var total int64

	r.db.WithContext(ctx).Model(&models.Application{}).Where("status = ?", status).Count(&total)

	err := r.db.WithContext(ctx).
		Preload("Applicant").
		Preload("Project").
		Where("status = ?", status).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&apps).Error

	return apps, total, err
}

// CountActive counts SUCCESSFUL and BOOKED applications for (project, flat type).
// This is the capacity-check side of the inventory invariant.
func (r *applicationRepository) CountActive(ctx context.Context, projectID uint, ft domain.FlatType) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Application{}).
		Where("project_id = ? AND flat_type = ? AND status IN ?",
			projectID, ft, []domain.ApplicationStatus{domain.StatusSuccessful, domain.StatusBooked}).
		Count(&count).Error
	return count, err
}

// Update updates an application
func (r *applicationRepository) Update(ctx context.Context, app *models.Application) error {
	return r.db.WithContext(ctx).Save(app).Error
}

// ListBooked lists BOOKED applications for reporting, optionally filtered
// by project, flat type and applicant marital status
func (r *applicationRepository) ListBooked(ctx context.Context, filter *BookedFilter) ([]*models.Application, error) {
	q := r.db.WithContext(ctx).
		Preload("Applicant").
		Preload("Project").
		Where("applications.status = ?", domain.StatusBooked)

	if filter != nil {
		if filter.ProjectID != nil {
			q = q.Where("applications.project_id = ?", *filter.ProjectID)
		}
		if filter.FlatType != nil {
			q = q.Where("applications.flat_type = ?", *filter.FlatType)
		}
		if filter.MaritalStatus != nil {
			q = q.Joins("JOIN users ON users.id = applications.applicant_id").
				Where("users.marital_status = ?", *filter.MaritalStatus)
		}
	}

	var apps []*models.Application
	err := q.Order("applications.created_at DESC").Find(&apps).Error
	return apps, err
}
