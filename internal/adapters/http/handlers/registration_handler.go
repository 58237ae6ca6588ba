package handlers

import (
	"errors"

	"btohub/internal/core/domain"
	"btohub/internal/core/services"
	"btohub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// RegistrationHandler handles officer registration endpoints
type RegistrationHandler struct {
	regService *services.RegistrationService
}

// NewRegistrationHandler creates a new registration handler
func NewRegistrationHandler(regService *services.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{regService: regService}
}

// Register submits an officer's request to handle a project
func (h *RegistrationHandler) Register(c *fiber.Ctx) error {
	var body struct {
		ProjectID uint `json:"project_id"`
	}
	if err := c.BodyParser(&body); err != nil || body.ProjectID == 0 {
		return response.BadRequest(c, "Project ID is required")
	}

	reg, err := h.regService.Register(c.Context(), userID(c), body.ProjectID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "Only officers can register to handle projects")
		case errors.Is(err, services.ErrProjectNotFound):
			return response.NotFound(c, "Project not found")
		case errors.Is(err, services.ErrAppliedToProject):
			return response.Conflict(c, "You applied for a flat in this project")
		case errors.Is(err, services.ErrDuplicateRegistration):
			return response.Conflict(c, "You already registered for this project")
		case errors.Is(err, services.ErrAlreadyHandlingProject):
			return response.Conflict(c, "You are already handling a project")
		default:
			return response.InternalServerError(c, "Failed to register")
		}
	}

	return response.Created(c, "Registration submitted", reg)
}

// Approve grants a pending registration
func (h *RegistrationHandler) Approve(c *fiber.Ctx) error {
	registrationID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid registration ID")
	}

	reg, err := h.regService.Approve(c.Context(), userID(c), registrationID)
	if err != nil {
		return h.mapDecisionError(c, err, "Failed to approve registration")
	}

	return response.Success(c, "Registration approved", reg)
}

// Reject declines a pending registration
func (h *RegistrationHandler) Reject(c *fiber.Ctx) error {
	registrationID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid registration ID")
	}

	reg, err := h.regService.Reject(c.Context(), userID(c), registrationID)
	if err != nil {
		return h.mapDecisionError(c, err, "Failed to reject registration")
	}

	return response.Success(c, "Registration rejected", reg)
}

func (h *RegistrationHandler) mapDecisionError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrRegistrationNotFound):
		return response.NotFound(c, "Registration not found")
	case errors.Is(err, services.ErrRegistrationDecided):
		return response.UnprocessableEntity(c, "Registration has already been decided")
	case errors.Is(err, services.ErrProjectNotFound):
		return response.NotFound(c, "Project not found")
	case errors.Is(err, services.ErrNotProjectManager):
		return response.Forbidden(c, "You do not manage this project")
	case errors.Is(err, services.ErrOfficerSlotsFull):
		return response.Conflict(c, "Project has no officer slots left")
	case errors.Is(err, services.ErrAlreadyHandlingProject):
		return response.Conflict(c, "Officer is already handling another project")
	default:
		return response.InternalServerError(c, fallback)
	}
}

// ListByProject returns the registrations for one project
func (h *RegistrationHandler) ListByProject(c *fiber.Ctx) error {
	projectID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid project ID")
	}

	regs, err := h.regService.ListByProject(c.Context(), userID(c), projectID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProjectNotFound):
			return response.NotFound(c, "Project not found")
		case errors.Is(err, services.ErrNotProjectManager):
			return response.Forbidden(c, "You do not manage this project")
		default:
			return response.InternalServerError(c, "Failed to list registrations")
		}
	}

	return response.Success(c, "Registrations retrieved", regs)
}

// ListMine returns the calling officer's registrations
func (h *RegistrationHandler) ListMine(c *fiber.Ctx) error {
	regs, err := h.regService.ListMine(c.Context(), userID(c))
	if err != nil {
		return response.InternalServerError(c, "Failed to list registrations")
	}

	return response.Success(c, "Registrations retrieved", regs)
}
