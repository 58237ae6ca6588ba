package services

import (
	"context"
	"errors"

	"btohub/internal/adapters/persistence/models"
	"btohub/internal/adapters/persistence/repositories"
	"btohub/internal/core/domain"

	"gorm.io/gorm"
)

var (
	ErrRegistrationNotFound   = errors.New("registration not found")
	ErrAppliedToProject       = errors.New("officer has applied for a flat in this project")
	ErrDuplicateRegistration  = errors.New("officer already registered for this project")
	ErrAlreadyHandlingProject = errors.New("officer is already handling a project")
	ErrOfficerSlotsFull       = errors.New("project has no officer slots left")
	ErrRegistrationDecided    = errors.New("registration has already been decided")
)

// RegistrationService handles officers registering to handle projects
type RegistrationService struct {
	regRepo     repositories.RegistrationRepository
	projectRepo repositories.ProjectRepository
	userRepo    repositories.UserRepository
	appRepo     repositories.ApplicationRepository
}

// NewRegistrationService creates a new registration service
func NewRegistrationService(
	regRepo repositories.RegistrationRepository,
	projectRepo repositories.ProjectRepository,
	userRepo repositories.UserRepository,
	appRepo repositories.ApplicationRepository,
) *RegistrationService {
	return &RegistrationService{
		regRepo:     regRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
		appRepo:     appRepo,
	}
}

// Register submits an officer's request to handle a project. An officer
// cannot handle a project they applied to as an applicant, and can hold
// at most one approved registration at a time.
func (s *RegistrationService) Register(ctx context.Context, officerID, projectID uint) (*models.OfficerRegistration, error) {
	officer, err := s.userRepo.GetByID(ctx, officerID)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	if !officer.Role.CanBook() {
		return nil, domain.ErrForbidden
	}

	if _, err := s.projectRepo.GetByID(ctx, projectID); err != nil {
		return nil, ErrProjectNotFound
	}

	if _, err := s.appRepo.GetByApplicantAndProject(ctx, officerID, projectID); err == nil {
		return nil, ErrAppliedToProject
	}

	if _, err := s.regRepo.GetByOfficerAndProject(ctx, officerID, projectID); err == nil {
		return nil, ErrDuplicateRegistration
	}

	if _, err := s.regRepo.GetApprovedByOfficer(ctx, officerID); err == nil {
		return nil, ErrAlreadyHandlingProject
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	reg := &models.OfficerRegistration{
		OfficerID: officerID,
		ProjectID: projectID,
		Status:    domain.RegistrationPending,
	}
	if err := s.regRepo.Create(ctx, reg); err != nil {
		return nil, err
	}

	return reg, nil
}

// Approve grants a pending registration if the project still has officer
// slots and the officer has not been approved elsewhere in the meantime
func (s *RegistrationService) Approve(ctx context.Context, managerID, registrationID uint) (*models.OfficerRegistration, error) {
	reg, err := s.regRepo.GetByID(ctx, registrationID)
	if err != nil {
		return nil, ErrRegistrationNotFound
	}
	if reg.Status != domain.RegistrationPending {
		return nil, ErrRegistrationDecided
	}

	project, err := s.projectRepo.GetByID(ctx, reg.ProjectID)
	if err != nil {
		return nil, ErrProjectNotFound
	}
	if project.ManagerID != managerID {
		return nil, ErrNotProjectManager
	}

	approved, err := s.regRepo.CountApprovedByProject(ctx, reg.ProjectID)
	if err != nil {
		return nil, err
	}
	if approved >= int64(project.OfficerSlots) {
		return nil, ErrOfficerSlotsFull
	}

	if other, err := s.regRepo.GetApprovedByOfficer(ctx, reg.OfficerID); err == nil && other.ID != reg.ID {
		return nil, ErrAlreadyHandlingProject
	}

	reg.Status = domain.RegistrationApproved
	if err := s.regRepo.Update(ctx, reg); err != nil {
		return nil, err
	}

	return reg, nil
}

// Reject declines a pending registration
func (s *RegistrationService) Reject(ctx context.Context, managerID, registrationID uint) (*models.OfficerRegistration, error) {
	reg, err := s.regRepo.GetByID(ctx, registrationID)
	if err != nil {
		return nil, ErrRegistrationNotFound
	}
	if reg.Status != domain.RegistrationPending {
		return nil, ErrRegistrationDecided
	}

	project, err := s.projectRepo.GetByID(ctx, reg.ProjectID)
	if err != nil {
		return nil, ErrProjectNotFound
	}
	if project.ManagerID != managerID {
		return nil, ErrNotProjectManager
	}

	reg.Status = domain.RegistrationRejected
	if err := s.regRepo.Update(ctx, reg); err != nil {
		return nil, err
	}

	return reg, nil
}

// ListByProject returns the registrations for one project, manager only
func (s *RegistrationService) ListByProject(ctx context.Context, managerID, projectID uint) ([]*models.OfficerRegistration, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, ErrProjectNotFound
	}
	if project.ManagerID != managerID {
		return nil, ErrNotProjectManager
	}

	return s.regRepo.ListByProject(ctx, projectID)
}

// ListMine returns the calling officer's registrations
func (s *RegistrationService) ListMine(ctx context.Context, officerID uint) ([]*models.OfficerRegistration, error) {
	return s.regRepo.ListByOfficer(ctx, officerID)
}
