package services

import (
	"context"
	"errors"
	"time"

	"btohub/internal/adapters/persistence/models"
	"btohub/internal/adapters/persistence/repositories"
	"btohub/internal/core/domain"

	"gorm.io/gorm"
)

// Application service errors
var (
	ErrApplicationNotFound  = errors.New("application not found")
	ErrApplicantNotFound    = errors.New("applicant not found")
	ErrProjectNotFound      = errors.New("project not found")
	ErrProjectClosed        = errors.New("project is not open for applications")
	ErrNotEligible          = errors.New("not eligible for this flat type")
	ErrFlatTypeNotOffered   = errors.New("flat type not offered by this project")
	ErrNoUnitsAvailable     = errors.New("no units available for this flat type")
	ErrDuplicateApplication = errors.New("an application for this project already exists")
	ErrActiveApplication    = errors.New("a non-terminal application already exists")
	ErrHandlingProject      = errors.New("officers cannot apply to a project they registered to handle")
)

// ApplicationService handles application submission and queries
type ApplicationService struct {
	appRepo     repositories.ApplicationRepository
	projectRepo repositories.ProjectRepository
	userRepo    repositories.UserRepository
	regRepo     repositories.RegistrationRepository
	logRepo     repositories.TransitionLogRepository
}

// NewApplicationService creates a new application service
func NewApplicationService(
	appRepo repositories.ApplicationRepository,
	projectRepo repositories.ProjectRepository,
	userRepo repositories.UserRepository,
	regRepo repositories.RegistrationRepository,
	logRepo repositories.TransitionLogRepository,
) *ApplicationService {
	return &ApplicationService{
		appRepo:     appRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
		regRepo:     regRepo,
		logRepo:     logRepo,
	}
}

// ApplyInput represents application submission input
type ApplyInput struct {
	ProjectID uint            `json:"project_id" validate:"required"`
	FlatType  domain.FlatType `json:"flat_type" validate:"required"`
}

// Apply submits a new PENDING application
func (s *ApplicationService) Apply(ctx context.Context, applicantID uint, input *ApplyInput) (*models.Application, error) {
	applicant, err := s.userRepo.GetByID(ctx, applicantID)
	if err != nil {
		return nil, ErrApplicantNotFound
	}

	if !applicant.Role.CanApply() {
		return nil, domain.ErrForbidden
	}

	project, err := s.projectRepo.GetByID(ctx, input.ProjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}

	if !project.IsOpen(time.Now()) {
		return nil, ErrProjectClosed
	}

	// An officer cannot wear both hats on one project
	if applicant.Role == domain.RoleOfficer {
		if _, err := s.regRepo.GetByOfficerAndProject(ctx, applicantID, project.ID); err == nil {
			return nil, ErrHandlingProject
		}
	}

	if !domain.IsEligible(applicant.Role, applicant.MaritalStatus, applicant.Age, input.FlatType) {
		return nil, ErrNotEligible
	}

	offer := project.FlatTypeOffer(input.FlatType)
	if offer == nil {
		return nil, ErrFlatTypeNotOffered
	}
	if offer.AvailableUnits <= 0 {
		return nil, ErrNoUnitsAvailable
	}

	// One application per (applicant, project), and at most one non-terminal
	// application overall
	if _, err := s.appRepo.GetByApplicantAndProject(ctx, applicantID, project.ID); err == nil {
		return nil, ErrDuplicateApplication
	}
	existing, err := s.appRepo.ListByApplicant(ctx, applicantID)
	if err != nil {
		return nil, err
	}
	for _, a := range existing {
		if !a.Status.IsTerminal() {
			return nil, ErrActiveApplication
		}
	}

	app := &models.Application{
		RefNo:       models.ApplicationRefNo(applicant.NationalID, project.Name),
		ApplicantID: applicantID,
		ProjectID:   project.ID,
		FlatType:    input.FlatType,
		Status:      domain.StatusPending,
		AppliedAt:   time.Now().Truncate(24 * time.Hour),
	}

	if err := s.appRepo.Create(ctx, app); err != nil {
		return nil, err
	}

	recordTransition(ctx, s.logRepo, app.ID, models.EventApply, "", domain.StatusPending, applicantID, "")

	return app, nil
}

// ListMine lists the applicant's applications, newest first
func (s *ApplicationService) ListMine(ctx context.Context, applicantID uint) ([]*models.Application, error) {
	return s.appRepo.ListByApplicant(ctx, applicantID)
}

// ApplicationView is the derived current-application projection. It replaces
// cached status fields on the user row: always recomputed from the
// authoritative application records, never stored.
type ApplicationView struct {
	RefNo          string                   `json:"ref_no"`
	ProjectID      uint                     `json:"project_id"`
	ProjectName    string                   `json:"project_name,omitempty"`
	FlatType       domain.FlatType          `json:"flat_type"`
	Status         domain.ApplicationStatus `json:"status"`
	BookedFlatType *domain.FlatType         `json:"booked_flat_type,omitempty"`
}

// DeriveCurrent computes the applicant's current application view: the
// newest non-terminal application, or failing that the newest overall.
// Returns nil when the applicant has never applied.
func (s *ApplicationService) DeriveCurrent(ctx context.Context, applicantID uint) (*ApplicationView, error) {
	apps, err := s.appRepo.ListByApplicant(ctx, applicantID)
	if err != nil {
		return nil, err
	}
	if len(apps) == 0 {
		return nil, nil
	}

	current := apps[0]
	for _, a := range apps {
		if !a.Status.IsTerminal() {
			current = a
			break
		}
	}

	view := &ApplicationView{
		RefNo:     current.RefNo,
		ProjectID: current.ProjectID,
		FlatType:  current.FlatType,
		Status:    current.Status,
	}
	if current.Project != nil {
		view.ProjectName = current.Project.Name
	}
	if current.Status == domain.StatusBooked {
		ft := current.FlatType
		view.BookedFlatType = &ft
	}

	return view, nil
}

// ListOutput represents a paginated application listing
type ListOutput struct {
	Applications []*models.ApplicationResponse `json:"applications"`
	Total        int64                         `json:"total"`
	Page         int                           `json:"page"`
	Limit        int                           `json:"limit"`
	TotalPages   int                           `json:"total_pages"`
}

// ListByProject lists a project's applications for its manager
func (s *ApplicationService) ListByProject(ctx context.Context, managerID, projectID uint, page, limit int) (*ListOutput, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, ErrProjectNotFound
	}
	if project.ManagerID != managerID {
		return nil, domain.ErrForbidden
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	offset := (page - 1) * limit
	apps, total, err := s.appRepo.ListByProject(ctx, projectID, offset, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.ApplicationResponse, 0, len(apps))
	for _, a := range apps {
		responses = append(responses, a.ToResponse())
	}

	totalPages := int(total) / limit
	if int(total)%limit > 0 {
		totalPages++
	}

	return &ListOutput{
		Applications: responses,
		Total:        total,
		Page:         page,
		Limit:        limit,
		TotalPages:   totalPages,
	}, nil
}

// GetHistory returns the transition history of an application
func (s *ApplicationService) GetHistory(ctx context.Context, applicationID uint) ([]*models.TransitionLog, error) {
	if _, err := s.appRepo.GetByID(ctx, applicationID); err != nil {
		return nil, ErrApplicationNotFound
	}
	return s.logRepo.ListByApplication(ctx, applicationID)
}
