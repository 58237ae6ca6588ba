package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"btohub/internal/adapters/persistence/models"
	"btohub/internal/adapters/persistence/repositories"
	"btohub/internal/core/domain"

	"gorm.io/gorm"
)

var (
	ErrNotWithdrawable     = errors.New("application cannot be withdrawn from its current state")
	ErrNoPendingWithdrawal = errors.New("application has no pending withdrawal request")
)

// WithdrawalService handles the request/approve/reject withdrawal flow
type WithdrawalService struct {
	appRepo     repositories.ApplicationRepository
	projectRepo repositories.ProjectRepository
	logRepo     repositories.TransitionLogRepository
	locks       *projectLocks
}

// NewWithdrawalService creates a new withdrawal service
func NewWithdrawalService(
	appRepo repositories.ApplicationRepository,
	projectRepo repositories.ProjectRepository,
	logRepo repositories.TransitionLogRepository,
	locks *projectLocks,
) *WithdrawalService {
	return &WithdrawalService{
		appRepo:     appRepo,
		projectRepo: projectRepo,
		logRepo:     logRepo,
		locks:       locks,
	}
}

// Request puts an application into PENDING_WITHDRAWAL, remembering the
// status it came from so approval and rejection can act on it.
func (s *WithdrawalService) Request(ctx context.Context, applicantID, applicationID uint) (*models.Application, error) {
	app, err := s.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, ErrApplicationNotFound
	}

	if app.ApplicantID != applicantID {
		return nil, domain.ErrForbidden
	}

	if !app.Status.CanRequestWithdrawal() {
		return nil, fmt.Errorf("%w: cannot withdraw from %s", ErrNotWithdrawable, app.Status)
	}

	from := app.Status
	snapshot := app.Status
	app.StatusBeforeWithdrawal = &snapshot
	app.Status = domain.StatusPendingWithdrawal
	if err := s.appRepo.Update(ctx, app); err != nil {
		return nil, err
	}

	recordTransition(ctx, s.logRepo, app.ID, models.EventWithdrawalRequest, from, app.Status, applicantID, "")

	return app, nil
}

// originalStatus returns the status the application held before its
// withdrawal request. The snapshot is authoritative; rows written before
// the snapshot column existed fall back to inference from booking and
// flat type fields. The fallback cannot distinguish a withdrawal from
// PENDING from one from SUCCESSFUL, since the flat type is always set.
func originalStatus(app *models.Application) domain.ApplicationStatus {
	if app.StatusBeforeWithdrawal != nil {
		return *app.StatusBeforeWithdrawal
	}
	if app.BookedAt != nil {
		return domain.StatusBooked
	}
	if app.FlatType != "" {
		return domain.StatusSuccessful
	}
	return domain.StatusPending
}

// Approve finalizes a withdrawal. A withdrawal from PENDING ends WITHDRAWN;
// from SUCCESSFUL or BOOKED it ends UNSUCCESSFUL. A booked unit goes back
// into inventory before the status change, and the approval is aborted if
// the return would push availability past total units.
func (s *WithdrawalService) Approve(ctx context.Context, managerID, applicationID uint) (*models.Application, error) {
	app, err := s.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, ErrApplicationNotFound
	}

	if app.Status != domain.StatusPendingWithdrawal {
		return nil, ErrNoPendingWithdrawal
	}

	project, err := s.projectRepo.GetByID(ctx, app.ProjectID)
	if err == nil && project.ManagerID != managerID {
		return nil, domain.ErrForbidden
	}

	from := app.Status
	orig := originalStatus(app)

	var target domain.ApplicationStatus
	switch orig {
	case domain.StatusPending:
		target = domain.StatusWithdrawn
	default:
		target = domain.StatusUnsuccessful
	}

	if orig == domain.StatusBooked {
		// Read and return the unit under the project lock, held through the
		// status write, so the increment cannot clobber an inventory write
		// racing in from a booking.
		unlock := s.locks.Lock(app.ProjectID)
		defer unlock()

		offer, err := s.projectRepo.GetFlatType(ctx, app.ProjectID, app.FlatType)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// inventory row is gone, nothing to return the unit to
				offer = nil
			} else {
				return nil, err
			}
		}
		if offer != nil {
			if !offer.TryIncrement() {
				return nil, fmt.Errorf("%w: %s in project %d already at full availability", domain.ErrLedgerOverflow, app.FlatType, app.ProjectID)
			}
			if err := s.projectRepo.SaveFlatType(ctx, offer); err != nil {
				return nil, err
			}
		}
		app.BookedAt = nil
	}

	app.Status = target
	app.StatusBeforeWithdrawal = nil
	if err := s.appRepo.Update(ctx, app); err != nil {
		if orig == domain.StatusBooked {
			log.Printf("⚠️ Withdrawal status write failed after returning unit for application %d: %v", app.ID, err)
		}
		return nil, err
	}

	recordTransition(ctx, s.logRepo, app.ID, models.EventWithdrawalApprove, from, app.Status, managerID, "")

	return app, nil
}

// Reject cancels a withdrawal request and restores the prior status.
// Inventory is untouched; a booked unit stays committed.
func (s *WithdrawalService) Reject(ctx context.Context, managerID, applicationID uint) (*models.Application, error) {
	app, err := s.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, ErrApplicationNotFound
	}

	if app.Status != domain.StatusPendingWithdrawal {
		return nil, ErrNoPendingWithdrawal
	}

	project, err := s.projectRepo.GetByID(ctx, app.ProjectID)
	if err == nil && project.ManagerID != managerID {
		return nil, domain.ErrForbidden
	}

	from := app.Status
	app.Status = originalStatus(app)
	app.StatusBeforeWithdrawal = nil
	if err := s.appRepo.Update(ctx, app); err != nil {
		return nil, err
	}

	recordTransition(ctx, s.logRepo, app.ID, models.EventWithdrawalReject, from, app.Status, managerID, "")

	return app, nil
}
