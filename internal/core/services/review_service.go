package services

import (
	"context"
	"errors"
	"fmt"

	"btohub/internal/adapters/persistence/models"
	"btohub/internal/adapters/persistence/repositories"
	"btohub/internal/core/domain"

	"gorm.io/gorm"
)

// ReviewService handles manager approval and rejection of applications
type ReviewService struct {
	appRepo     repositories.ApplicationRepository
	projectRepo repositories.ProjectRepository
	logRepo     repositories.TransitionLogRepository
	locks       *projectLocks
}

// NewReviewService creates a new review service
func NewReviewService(
	appRepo repositories.ApplicationRepository,
	projectRepo repositories.ProjectRepository,
	logRepo repositories.TransitionLogRepository,
	locks *projectLocks,
) *ReviewService {
	return &ReviewService{
		appRepo:     appRepo,
		projectRepo: projectRepo,
		logRepo:     logRepo,
		locks:       locks,
	}
}

// Approve moves a PENDING application to SUCCESSFUL. Inventory is not
// decremented here; that happens at booking. Approval is refused when the
// flat type's SUCCESSFUL and BOOKED count has already reached total units.
func (s *ReviewService) Approve(ctx context.Context, managerID, applicationID uint, remark string) (*models.Application, error) {
	app, err := s.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, ErrApplicationNotFound
	}

	if app.Status != domain.StatusPending {
		return nil, fmt.Errorf("%w: cannot approve from %s", domain.ErrInvalidTransition, app.Status)
	}

	project, err := s.projectRepo.GetByID(ctx, app.ProjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, s.forceReject(ctx, app, managerID, "project no longer exists")
		}
		return nil, err
	}

	if project.ManagerID != managerID {
		return nil, domain.ErrForbidden
	}

	offer, err := s.projectRepo.GetFlatType(ctx, app.ProjectID, app.FlatType)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, s.forceReject(ctx, app, managerID, "flat type no longer exists")
		}
		return nil, err
	}

	unlock := s.locks.Lock(app.ProjectID)
	defer unlock()

	taken, err := s.appRepo.CountActive(ctx, app.ProjectID, app.FlatType)
	if err != nil {
		return nil, err
	}
	if taken >= int64(offer.TotalUnits) {
		return nil, fmt.Errorf("%w: %d of %d units already committed", domain.ErrCapacityExceeded, taken, offer.TotalUnits)
	}

	from := app.Status
	app.Status = domain.StatusSuccessful
	if err := s.appRepo.Update(ctx, app); err != nil {
		return nil, err
	}

	recordTransition(ctx, s.logRepo, app.ID, models.EventApprove, from, app.Status, managerID, remark)

	return app, nil
}

// Reject moves a PENDING application to UNSUCCESSFUL
func (s *ReviewService) Reject(ctx context.Context, managerID, applicationID uint, remark string) (*models.Application, error) {
	app, err := s.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, ErrApplicationNotFound
	}

	if app.Status != domain.StatusPending {
		return nil, fmt.Errorf("%w: cannot reject from %s", domain.ErrInvalidTransition, app.Status)
	}

	project, err := s.projectRepo.GetByID(ctx, app.ProjectID)
	if err == nil && project.ManagerID != managerID {
		return nil, domain.ErrForbidden
	}

	from := app.Status
	app.Status = domain.StatusUnsuccessful
	if err := s.appRepo.Update(ctx, app); err != nil {
		return nil, err
	}

	recordTransition(ctx, s.logRepo, app.ID, models.EventReject, from, app.Status, managerID, remark)

	return app, nil
}

// forceReject handles applications whose project or flat type is gone:
// historical data may reference deleted projects, so the application is
// rejected rather than crashing on it.
func (s *ReviewService) forceReject(ctx context.Context, app *models.Application, actorID uint, reason string) error {
	from := app.Status
	app.Status = domain.StatusUnsuccessful
	if err := s.appRepo.Update(ctx, app); err != nil {
		return err
	}

	recordTransition(ctx, s.logRepo, app.ID, models.EventForceReject, from, app.Status, actorID, reason)

	return fmt.Errorf("%w: %s", domain.ErrMissingReference, reason)
}
