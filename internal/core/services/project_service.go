package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"btohub/internal/adapters/persistence/models"
	"btohub/internal/adapters/persistence/repositories"
	"btohub/internal/core/domain"

	"gorm.io/gorm"
)

var (
	ErrProjectNameTaken    = errors.New("a project with this name already exists")
	ErrInvalidDateRange    = errors.New("close date must not be before open date")
	ErrUnsupportedFlatType = errors.New("unsupported flat type")
	ErrNotProjectManager   = errors.New("user does not manage this project")
)

const dateLayout = "2006-01-02"

// ProjectService handles housing project management
type ProjectService struct {
	projectRepo repositories.ProjectRepository
	userRepo    repositories.UserRepository
}

// NewProjectService creates a new project service
func NewProjectService(projectRepo repositories.ProjectRepository, userRepo repositories.UserRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
	}
}

// FlatTypeInput describes one flat type offered by a new project
type FlatTypeInput struct {
	FlatType     domain.FlatType `json:"flatType"`
	TotalUnits   int             `json:"totalUnits"`
	SellingPrice float64         `json:"sellingPrice"`
}

// CreateProjectInput represents project creation data
type CreateProjectInput struct {
	Name         string          `json:"name"`
	Neighborhood string          `json:"neighborhood"`
	OpenDate     string          `json:"openDate"`
	CloseDate    string          `json:"closeDate"`
	OfficerSlots int             `json:"officerSlots"`
	FlatTypes    []FlatTypeInput `json:"flatTypes"`
}

// UpdateProjectInput represents project update data. Unit counts are not
// updatable here; inventory only moves through booking and withdrawal.
type UpdateProjectInput struct {
	Name         *string `json:"name"`
	Neighborhood *string `json:"neighborhood"`
	OpenDate     *string `json:"openDate"`
	CloseDate    *string `json:"closeDate"`
	OfficerSlots *int    `json:"officerSlots"`
}

// Create registers a new project managed by the given manager
func (s *ProjectService) Create(ctx context.Context, managerID uint, input *CreateProjectInput) (*models.Project, error) {
	manager, err := s.userRepo.GetByID(ctx, managerID)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	if !manager.Role.CanApprove() {
		return nil, domain.ErrForbidden
	}

	if input.Name == "" || input.Neighborhood == "" {
		return nil, fmt.Errorf("%w: name and neighborhood are required", domain.ErrInvalidInput)
	}
	if len(input.FlatTypes) == 0 {
		return nil, fmt.Errorf("%w: at least one flat type is required", domain.ErrInvalidInput)
	}

	openDate, err := time.Parse(dateLayout, input.OpenDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid open date", domain.ErrInvalidInput)
	}
	closeDate, err := time.Parse(dateLayout, input.CloseDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid close date", domain.ErrInvalidInput)
	}
	if closeDate.Before(openDate) {
		return nil, ErrInvalidDateRange
	}

	if _, err := s.projectRepo.GetByName(ctx, input.Name); err == nil {
		return nil, ErrProjectNameTaken
	}

	seen := make(map[domain.FlatType]bool)
	flatTypes := make([]models.FlatTypeDetails, 0, len(input.FlatTypes))
	for _, ft := range input.FlatTypes {
		if !ft.FlatType.IsValid() {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedFlatType, ft.FlatType)
		}
		if seen[ft.FlatType] {
			return nil, fmt.Errorf("%w: duplicate flat type %s", domain.ErrInvalidInput, ft.FlatType)
		}
		seen[ft.FlatType] = true
		if ft.TotalUnits < 0 || ft.SellingPrice < 0 {
			return nil, fmt.Errorf("%w: units and price must not be negative", domain.ErrInvalidInput)
		}
		flatTypes = append(flatTypes, models.FlatTypeDetails{
			FlatType:       ft.FlatType,
			TotalUnits:     ft.TotalUnits,
			AvailableUnits: ft.TotalUnits,
			SellingPrice:   ft.SellingPrice,
		})
	}

	slots := input.OfficerSlots
	if slots <= 0 {
		slots = 10
	}

	project := &models.Project{
		Name:         input.Name,
		Neighborhood: input.Neighborhood,
		OpenDate:     openDate,
		CloseDate:    closeDate,
		ManagerID:    managerID,
		OfficerSlots: slots,
		Visible:      true,
		FlatTypes:    flatTypes,
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}

	return project, nil
}

// Update changes project details owned by the given manager
func (s *ProjectService) Update(ctx context.Context, managerID, projectID uint, input *UpdateProjectInput) (*models.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, ErrProjectNotFound
	}
	if project.ManagerID != managerID {
		return nil, ErrNotProjectManager
	}

	if input.Name != nil && *input.Name != project.Name {
		if _, err := s.projectRepo.GetByName(ctx, *input.Name); err == nil {
			return nil, ErrProjectNameTaken
		}
		project.Name = *input.Name
	}
	if input.Neighborhood != nil {
		project.Neighborhood = *input.Neighborhood
	}
	if input.OpenDate != nil {
		openDate, err := time.Parse(dateLayout, *input.OpenDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid open date", domain.ErrInvalidInput)
		}
		project.OpenDate = openDate
	}
	if input.CloseDate != nil {
		closeDate, err := time.Parse(dateLayout, *input.CloseDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid close date", domain.ErrInvalidInput)
		}
		project.CloseDate = closeDate
	}
	if project.CloseDate.Before(project.OpenDate) {
		return nil, ErrInvalidDateRange
	}
	if input.OfficerSlots != nil {
		if *input.OfficerSlots <= 0 {
			return nil, fmt.Errorf("%w: officer slots must be positive", domain.ErrInvalidInput)
		}
		project.OfficerSlots = *input.OfficerSlots
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, err
	}

	return project, nil
}

// SetVisibility toggles applicant visibility of a project
func (s *ProjectService) SetVisibility(ctx context.Context, managerID, projectID uint, visible bool) (*models.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, ErrProjectNotFound
	}
	if project.ManagerID != managerID {
		return nil, ErrNotProjectManager
	}

	project.Visible = visible
	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, err
	}

	return project, nil
}

// Delete removes a project and its flat type rows
func (s *ProjectService) Delete(ctx context.Context, managerID, projectID uint) error {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return ErrProjectNotFound
	}
	if project.ManagerID != managerID {
		return ErrNotProjectManager
	}

	return s.projectRepo.Delete(ctx, projectID)
}

// GetByID returns one project with its flat types
func (s *ProjectService) GetByID(ctx context.Context, projectID uint) (*models.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return project, nil
}

// List returns all projects, paginated
func (s *ProjectService) List(ctx context.Context, offset, limit int) ([]*models.Project, int64, error) {
	return s.projectRepo.List(ctx, offset, limit)
}

// ListManagedBy returns the projects owned by a manager
func (s *ProjectService) ListManagedBy(ctx context.Context, managerID uint) ([]*models.Project, error) {
	return s.projectRepo.ListManagedBy(ctx, managerID)
}

// OfferView is a flat type offer annotated for a specific viewer
type OfferView struct {
	FlatType       domain.FlatType `json:"flatType"`
	TotalUnits     int             `json:"totalUnits"`
	AvailableUnits int             `json:"availableUnits"`
	SellingPrice   float64         `json:"sellingPrice"`
	Eligible       bool            `json:"eligible"`
}

// OpenProjectView is a visible open project as seen by one applicant
type OpenProjectView struct {
	ID           uint        `json:"id"`
	Name         string      `json:"name"`
	Neighborhood string      `json:"neighborhood"`
	OpenDate     time.Time   `json:"openDate"`
	CloseDate    time.Time   `json:"closeDate"`
	Offers       []OfferView `json:"offers"`
}

// ListOpenForUser returns visible open projects with each offer marked
// eligible or not for the viewing user. Eligibility requires both the
// rule check and at least one available unit.
func (s *ProjectService) ListOpenForUser(ctx context.Context, userID uint) ([]*OpenProjectView, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	projects, err := s.projectRepo.ListOpen(ctx, time.Now())
	if err != nil {
		return nil, err
	}

	views := make([]*OpenProjectView, 0, len(projects))
	for _, p := range projects {
		view := &OpenProjectView{
			ID:           p.ID,
			Name:         p.Name,
			Neighborhood: p.Neighborhood,
			OpenDate:     p.OpenDate,
			CloseDate:    p.CloseDate,
			Offers:       make([]OfferView, 0, len(p.FlatTypes)),
		}
		for _, ft := range p.FlatTypes {
			eligible := domain.IsEligible(user.Role, user.MaritalStatus, user.Age, ft.FlatType) && ft.AvailableUnits > 0
			view.Offers = append(view.Offers, OfferView{
				FlatType:       ft.FlatType,
				TotalUnits:     ft.TotalUnits,
				AvailableUnits: ft.AvailableUnits,
				SellingPrice:   ft.SellingPrice,
				Eligible:       eligible,
			})
		}
		views = append(views, view)
	}

	return views, nil
}
