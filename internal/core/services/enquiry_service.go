package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"btohub/internal/adapters/persistence/models"
	"btohub/internal/adapters/persistence/repositories"
	"btohub/internal/core/domain"
)

var (
	ErrEnquiryNotFound = errors.New("enquiry not found")
	ErrEnquiryReplied  = errors.New("enquiry has already been replied to")
	ErrNotEnquiryOwner = errors.New("enquiry belongs to another applicant")
	ErrCannotReply     = errors.New("user cannot reply to enquiries for this project")
)

// EnquiryService handles applicant enquiries about projects
type EnquiryService struct {
	enquiryRepo repositories.EnquiryRepository
	projectRepo repositories.ProjectRepository
	userRepo    repositories.UserRepository
	regRepo     repositories.RegistrationRepository
}

// NewEnquiryService creates a new enquiry service
func NewEnquiryService(
	enquiryRepo repositories.EnquiryRepository,
	projectRepo repositories.ProjectRepository,
	userRepo repositories.UserRepository,
	regRepo repositories.RegistrationRepository,
) *EnquiryService {
	return &EnquiryService{
		enquiryRepo: enquiryRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
		regRepo:     regRepo,
	}
}

// Submit creates an enquiry about a project
func (s *EnquiryService) Submit(ctx context.Context, applicantID, projectID uint, question string) (*models.Enquiry, error) {
	if question == "" {
		return nil, fmt.Errorf("%w: question is required", domain.ErrInvalidInput)
	}

	if _, err := s.projectRepo.GetByID(ctx, projectID); err != nil {
		return nil, ErrProjectNotFound
	}

	enquiry := &models.Enquiry{
		ApplicantID: applicantID,
		ProjectID:   projectID,
		Question:    question,
	}
	if err := s.enquiryRepo.Create(ctx, enquiry); err != nil {
		return nil, err
	}

	return enquiry, nil
}

// Update edits an enquiry's question. Only the owner may edit, and only
// before a reply exists.
func (s *EnquiryService) Update(ctx context.Context, applicantID, enquiryID uint, question string) (*models.Enquiry, error) {
	enquiry, err := s.enquiryRepo.GetByID(ctx, enquiryID)
	if err != nil {
		return nil, ErrEnquiryNotFound
	}
	if enquiry.ApplicantID != applicantID {
		return nil, ErrNotEnquiryOwner
	}
	if enquiry.IsReplied() {
		return nil, ErrEnquiryReplied
	}
	if question == "" {
		return nil, fmt.Errorf("%w: question is required", domain.ErrInvalidInput)
	}

	enquiry.Question = question
	if err := s.enquiryRepo.Update(ctx, enquiry); err != nil {
		return nil, err
	}

	return enquiry, nil
}

// Delete removes an unanswered enquiry owned by the caller
func (s *EnquiryService) Delete(ctx context.Context, applicantID, enquiryID uint) error {
	enquiry, err := s.enquiryRepo.GetByID(ctx, enquiryID)
	if err != nil {
		return ErrEnquiryNotFound
	}
	if enquiry.ApplicantID != applicantID {
		return ErrNotEnquiryOwner
	}
	if enquiry.IsReplied() {
		return ErrEnquiryReplied
	}

	return s.enquiryRepo.Delete(ctx, enquiryID)
}

// Reply answers an enquiry. The project's manager or an officer with an
// approved registration for the project may reply.
func (s *EnquiryService) Reply(ctx context.Context, userID, enquiryID uint, reply string) (*models.Enquiry, error) {
	if reply == "" {
		return nil, fmt.Errorf("%w: reply is required", domain.ErrInvalidInput)
	}

	enquiry, err := s.enquiryRepo.GetByID(ctx, enquiryID)
	if err != nil {
		return nil, ErrEnquiryNotFound
	}
	if enquiry.IsReplied() {
		return nil, ErrEnquiryReplied
	}

	if err := s.authorizeReplier(ctx, userID, enquiry.ProjectID); err != nil {
		return nil, err
	}

	now := time.Now()
	enquiry.Reply = &reply
	enquiry.RepliedBy = &userID
	enquiry.RepliedAt = &now
	if err := s.enquiryRepo.Update(ctx, enquiry); err != nil {
		return nil, err
	}

	return enquiry, nil
}

func (s *EnquiryService) authorizeReplier(ctx context.Context, userID, projectID uint) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return domain.ErrNotFound
	}

	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return ErrProjectNotFound
	}

	if user.Role.CanApprove() {
		if project.ManagerID != userID {
			return ErrCannotReply
		}
		return nil
	}

	if user.Role.CanBook() {
		reg, err := s.regRepo.GetByOfficerAndProject(ctx, userID, projectID)
		if err != nil || reg.Status != domain.RegistrationApproved {
			return ErrCannotReply
		}
		return nil
	}

	return ErrCannotReply
}

// ListMine returns the calling applicant's enquiries
func (s *EnquiryService) ListMine(ctx context.Context, applicantID uint) ([]*models.Enquiry, error) {
	return s.enquiryRepo.ListByApplicant(ctx, applicantID)
}

// ListByProject returns the enquiries for one project, for staff handling it
func (s *EnquiryService) ListByProject(ctx context.Context, userID, projectID uint) ([]*models.Enquiry, error) {
	if err := s.authorizeReplier(ctx, userID, projectID); err != nil {
		return nil, err
	}
	return s.enquiryRepo.ListByProject(ctx, projectID)
}

// ListAll returns every enquiry, paginated, for managers
func (s *EnquiryService) ListAll(ctx context.Context, offset, limit int) ([]*models.Enquiry, int64, error) {
	return s.enquiryRepo.List(ctx, offset, limit)
}
