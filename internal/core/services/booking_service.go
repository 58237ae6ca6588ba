package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"btohub/internal/adapters/persistence/models"
	"btohub/internal/adapters/persistence/repositories"
	"btohub/internal/core/domain"

	"gorm.io/gorm"
)

var (
	ErrNotHandlingThis = errors.New("officer is not handling this project")
	ErrNotBooked       = errors.New("application has no booking")
)

// BookingService handles flat booking by officers
type BookingService struct {
	appRepo     repositories.ApplicationRepository
	projectRepo repositories.ProjectRepository
	regRepo     repositories.RegistrationRepository
	userRepo    repositories.UserRepository
	logRepo     repositories.TransitionLogRepository
	locks       *projectLocks
}

// NewBookingService creates a new booking service
func NewBookingService(
	appRepo repositories.ApplicationRepository,
	projectRepo repositories.ProjectRepository,
	regRepo repositories.RegistrationRepository,
	userRepo repositories.UserRepository,
	logRepo repositories.TransitionLogRepository,
	locks *projectLocks,
) *BookingService {
	return &BookingService{
		appRepo:     appRepo,
		projectRepo: projectRepo,
		regRepo:     regRepo,
		userRepo:    userRepo,
		logRepo:     logRepo,
		locks:       locks,
	}
}

// BookingReceipt is the printable summary handed to the applicant after booking
type BookingReceipt struct {
	RefNo         string               `json:"refNo"`
	ApplicantName string               `json:"applicantName"`
	NationalID    string               `json:"nationalId"`
	Age           int                  `json:"age"`
	MaritalStatus domain.MaritalStatus `json:"maritalStatus"`
	ProjectName   string               `json:"projectName"`
	Neighborhood  string               `json:"neighborhood"`
	FlatType      domain.FlatType      `json:"flatType"`
	SellingPrice  float64              `json:"sellingPrice"`
	BookedAt      time.Time            `json:"bookedAt"`
}

// Book moves a SUCCESSFUL application to BOOKED and takes one unit out of
// inventory. The unit is committed before the status change; if the status
// write fails the unit is returned.
func (s *BookingService) Book(ctx context.Context, officerID, applicationID uint) (*models.Application, error) {
	app, err := s.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, ErrApplicationNotFound
	}

	if app.Status != domain.StatusSuccessful {
		return nil, fmt.Errorf("%w: cannot book from %s", domain.ErrInvalidTransition, app.Status)
	}

	reg, err := s.regRepo.GetByOfficerAndProject(ctx, officerID, app.ProjectID)
	if err != nil || reg.Status != domain.RegistrationApproved {
		return nil, ErrNotHandlingThis
	}

	unlock := s.locks.Lock(app.ProjectID)
	defer unlock()

	// The inventory row must be read under the project lock; a read taken
	// outside it can go stale before TryDecrement commits.
	offer, err := s.projectRepo.GetFlatType(ctx, app.ProjectID, app.FlatType)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, s.forceReject(ctx, app, officerID, "flat type no longer exists")
		}
		return nil, err
	}

	if offer.AvailableUnits <= 0 {
		return nil, fmt.Errorf("%w: no %s units left", domain.ErrCapacityExceeded, app.FlatType)
	}
	if !offer.TryDecrement() {
		return nil, fmt.Errorf("%w: %s in project %d", domain.ErrLedgerUnderflow, app.FlatType, app.ProjectID)
	}
	if err := s.projectRepo.SaveFlatType(ctx, offer); err != nil {
		return nil, err
	}

	from := app.Status
	now := time.Now()
	app.Status = domain.StatusBooked
	app.BookedAt = &now
	if err := s.appRepo.Update(ctx, app); err != nil {
		// return the unit so inventory stays consistent with statuses
		if offer.TryIncrement() {
			if saveErr := s.projectRepo.SaveFlatType(ctx, offer); saveErr != nil {
				log.Printf("⚠️ Failed to roll back unit for project %d %s: %v", app.ProjectID, app.FlatType, saveErr)
			}
		}
		return nil, err
	}

	recordTransition(ctx, s.logRepo, app.ID, models.EventBook, from, app.Status, officerID, "")

	return app, nil
}

// Receipt builds the booking receipt for a BOOKED application
func (s *BookingService) Receipt(ctx context.Context, officerID, applicationID uint) (*BookingReceipt, error) {
	app, err := s.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, ErrApplicationNotFound
	}

	if app.Status != domain.StatusBooked || app.BookedAt == nil {
		return nil, ErrNotBooked
	}

	reg, err := s.regRepo.GetByOfficerAndProject(ctx, officerID, app.ProjectID)
	if err != nil || reg.Status != domain.RegistrationApproved {
		return nil, ErrNotHandlingThis
	}

	applicant, err := s.userRepo.GetByID(ctx, app.ApplicantID)
	if err != nil {
		return nil, ErrApplicantNotFound
	}

	project, err := s.projectRepo.GetByID(ctx, app.ProjectID)
	if err != nil {
		return nil, ErrProjectNotFound
	}

	receipt := &BookingReceipt{
		RefNo:         app.RefNo,
		ApplicantName: applicant.Name,
		NationalID:    applicant.NationalID,
		Age:           applicant.Age,
		MaritalStatus: applicant.MaritalStatus,
		ProjectName:   project.Name,
		Neighborhood:  project.Neighborhood,
		FlatType:      app.FlatType,
		BookedAt:      *app.BookedAt,
	}
	if offer := project.FlatTypeOffer(app.FlatType); offer != nil {
		receipt.SellingPrice = offer.SellingPrice
	}

	return receipt, nil
}

// forceReject on the booking path mirrors the review path so stale
// applications referencing deleted inventory are cleaned up on touch.
func (s *BookingService) forceReject(ctx context.Context, app *models.Application, actorID uint, reason string) error {
	from := app.Status
	app.Status = domain.StatusUnsuccessful
	if err := s.appRepo.Update(ctx, app); err != nil {
		return err
	}

	recordTransition(ctx, s.logRepo, app.ID, models.EventForceReject, from, app.Status, actorID, reason)

	return fmt.Errorf("%w: %s", domain.ErrMissingReference, reason)
}
