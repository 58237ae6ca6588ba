package repositories

import (
	"context"
	"time"

	"btohub/internal/adapters/persistence/models"
	"btohub/internal/core/domain"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByNationalID(ctx context.Context, nationalID string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	ExistsByNationalID(ctx context.Context, nationalID string) (bool, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) error
}

// ProjectRepository defines project repository interface.
// GetFlatType hands out the live inventory row, not a copy: the ledger
// methods on models.FlatTypeDetails mutate it and SaveFlatType persists it.
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, id uint) (*models.Project, error)
	GetByName(ctx context.Context, name string) (*models.Project, error)
	List(ctx context.Context, offset, limit int) ([]*models.Project, int64, error)
	ListOpen(ctx context.Context, now time.Time) ([]*models.Project, error)
	ListManagedBy(ctx context.Context, managerID uint) ([]*models.Project, error)
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id uint) error
	GetFlatType(ctx context.Context, projectID uint, ft domain.FlatType) (*models.FlatTypeDetails, error)
	SaveFlatType(ctx context.Context, details *models.FlatTypeDetails) error
	ListFlatTypes(ctx context.Context, projectID uint) ([]*models.FlatTypeDetails, error)
}

// ApplicationRepository defines application repository interface
type ApplicationRepository interface {
	Create(ctx context.Context, app *models.Application) error
	GetByID(ctx context.Context, id uint) (*models.Application, error)
	GetByApplicantAndProject(ctx context.Context, applicantID, projectID uint) (*models.Application, error)
	ListByApplicant(ctx context.Context, applicantID uint) ([]*models.Application, error)
	ListByProject(ctx context.Context, projectID uint, offset, limit int) ([]*models.Application, int64, error)
	ListByStatus(ctx context.Context, status domain.ApplicationStatus, offset, limit int) ([]*models.Application, int64, error)
	CountActive(ctx context.Context, projectID uint, ft domain.FlatType) (int64, error)
	Update(ctx context.Context, app *models.Application) error
	ListBooked(ctx context.Context, filter *BookedFilter) ([]*models.Application, error)
}

// BookedFilter narrows the booked-applications report
type BookedFilter struct {
	ProjectID     *uint
	FlatType      *domain.FlatType
	MaritalStatus *domain.MaritalStatus
}

// RegistrationRepository defines officer registration repository interface
type RegistrationRepository interface {
	Create(ctx context.Context, reg *models.OfficerRegistration) error
	GetByID(ctx context.Context, id uint) (*models.OfficerRegistration, error)
	GetByOfficerAndProject(ctx context.Context, officerID, projectID uint) (*models.OfficerRegistration, error)
	GetApprovedByOfficer(ctx context.Context, officerID uint) (*models.OfficerRegistration, error)
	ListByProject(ctx context.Context, projectID uint) ([]*models.OfficerRegistration, error)
	ListByOfficer(ctx context.Context, officerID uint) ([]*models.OfficerRegistration, error)
	CountApprovedByProject(ctx context.Context, projectID uint) (int64, error)
	Update(ctx context.Context, reg *models.OfficerRegistration) error
}

// EnquiryRepository defines enquiry repository interface
type EnquiryRepository interface {
	Create(ctx context.Context, enquiry *models.Enquiry) error
	GetByID(ctx context.Context, id uint) (*models.Enquiry, error)
	ListByApplicant(ctx context.Context, applicantID uint) ([]*models.Enquiry, error)
	ListByProject(ctx context.Context, projectID uint) ([]*models.Enquiry, error)
	List(ctx context.Context, offset, limit int) ([]*models.Enquiry, int64, error)
	Update(ctx context.Context, enquiry *models.Enquiry) error
	Delete(ctx context.Context, id uint) error
}

// TransitionLogRepository defines transition history repository interface
type TransitionLogRepository interface {
	Create(ctx context.Context, log *models.TransitionLog) error
	ListByApplication(ctx context.Context, applicationID uint) ([]*models.TransitionLog, error)
}
