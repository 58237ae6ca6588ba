package repositories

import (
	"context"
	"time"

	"btohub/internal/adapters/persistence/models"
	"btohub/internal/core/domain"

	"gorm.io/gorm"
)

// projectRepository implements ProjectRepository with GORM
type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

// Create creates a new project with its flat type rows
func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

// GetByID gets a project by ID with flat types and manager
func (r *projectRepository) GetByID(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).
		Preload("FlatTypes").
		Preload("Manager").
		First(&project, id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// GetByName gets a project by its unique name
func (r *projectRepository) GetByName(ctx context.Context, name string) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).
		Preload("FlatTypes").
		Where("name = ?", name).
		First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// List lists all projects with pagination
func (r *projectRepository) List(ctx context.Context, offset, limit int) ([]*models.Project, int64, error) {
	var projects []*models.Project
	var total int64

	r.db.WithContext(ctx).Model(&models.Project{}).Count(&total)

	query := r.db.WithContext(ctx).
		Preload("FlatTypes").
		Order("open_date DESC").
		Offset(offset)
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&projects).Error

	return projects, total, err
}

// ListOpen lists visible projects whose application window covers now
func (r *projectRepository) ListOpen(ctx context.Context, now time.Time) ([]*models.Project, error) {
	var projects []*models.Project
	day := now.Truncate(24 * time.Hour)
	err := r.db.WithContext(ctx).
		Preload("FlatTypes").
		Where("visible = ? AND open_date <= ? AND close_date >= ?", true, day, day).
		Order("close_date ASC").
		Find(&projects).Error
	return projects, err
}

// ListManagedBy lists projects owned by a manager
func (r *projectRepository) ListManagedBy(ctx context.Context, managerID uint) ([]*models.Project, error) {
	var projects []*models.Project
	err := r.db.WithContext(ctx).
		Preload("FlatTypes").
		Where("manager_id = ?", managerID).
		Order("open_date DESC").
		Find(&projects).Error
	return projects, err
}

// Update updates a project
func (r *projectRepository) Update(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

// Delete soft deletes a project and removes its flat type rows
func (r *projectRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.FlatTypeDetails{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Project{}, id).Error
	})
}

// GetFlatType returns the live inventory row for (project, flat type)
func (r *projectRepository) GetFlatType(ctx context.Context, projectID uint, ft domain.FlatType) (*models.FlatTypeDetails, error) {
	var details models.FlatTypeDetails
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND flat_type = ?", projectID, ft).
		First(&details).Error
	if err != nil {
		return nil, err
	}
	return &details, nil
}

// SaveFlatType persists a mutated inventory row
func (r *projectRepository) SaveFlatType(ctx context.Context, details *models.FlatTypeDetails) error {
	return r.db.WithContext(ctx).Save(details).Error
}

// ListFlatTypes lists the inventory rows of a project
func (r *projectRepository) ListFlatTypes(ctx context.Context, projectID uint) ([]*models.FlatTypeDetails, error) {
	var details []*models.FlatTypeDetails
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Find(&details).Error
	return details, err
}
