package repositories

import (
	"context"

	"btohub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// transitionLogRepository implements TransitionLogRepository with GORM
type transitionLogRepository struct {
	db *gorm.DB
}

// NewTransitionLogRepository creates a new transition log repository
func NewTransitionLogRepository(db *gorm.DB) TransitionLogRepository {
	return &transitionLogRepository{db: db}
}

// Create creates a new transition log entry
func (r *transitionLogRepository) Create(ctx context.Context, log *models.TransitionLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// ListByApplication lists the transition history of an application
func (r *transitionLogRepository) ListByApplication(ctx context.Context, applicationID uint) ([]*models.TransitionLog, error) {
	var logs []*models.TransitionLog
	err := r.db.WithContext(ctx).
		Preload("Performer").
		Where("application_id = ?", applicationID).
		Order("created_at DESC").
		Find(&logs).Error
	return logs, err
}
