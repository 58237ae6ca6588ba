package handlers

import (
	"errors"
	"strconv"

	"btohub/internal/core/domain"
	"btohub/internal/core/services"
	"btohub/internal/pkg/pagination"
	"btohub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ProjectHandler handles project management endpoints
type ProjectHandler struct {
	projectService *services.ProjectService
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

func userID(c *fiber.Ctx) uint {
	id, _ := c.Locals("userID").(uint)
	return id
}

// Create handles project creation by a manager
func (h *ProjectHandler) Create(c *fiber.Ctx) error {
	var input services.CreateProjectInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	project, err := h.projectService.Create(c.Context(), userID(c), &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "Only managers can create projects")
		case errors.Is(err, services.ErrProjectNameTaken):
			return response.Conflict(c, "Project name already in use")
		case errors.Is(err, services.ErrInvalidDateRange):
			return response.BadRequest(c, "Close date must not be before open date")
		case errors.Is(err, services.ErrUnsupportedFlatType):
			return response.BadRequest(c, err.Error())
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to create project")
		}
	}

	return response.Created(c, "Project created", project)
}

// Update handles project updates by its manager
func (h *ProjectHandler) Update(c *fiber.Ctx) error {
	projectID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid project ID")
	}

	var input services.UpdateProjectInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	project, err := h.projectService.Update(c.Context(), userID(c), projectID, &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProjectNotFound):
			return response.NotFound(c, "Project not found")
		case errors.Is(err, services.ErrNotProjectManager):
			return response.Forbidden(c, "You do not manage this project")
		case errors.Is(err, services.ErrProjectNameTaken):
			return response.Conflict(c, "Project name already in use")
		case errors.Is(err, services.ErrInvalidDateRange):
			return response.BadRequest(c, "Close date must not be before open date")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to update project")
		}
	}

	return response.Success(c, "Project updated", project)
}

// SetVisibility toggles a project's applicant visibility
func (h *ProjectHandler) SetVisibility(c *fiber.Ctx) error {
	projectID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid project ID")
	}

	var body struct {
		Visible *bool `json:"visible"`
	}
	if err := c.BodyParser(&body); err != nil || body.Visible == nil {
		return response.BadRequest(c, "Field 'visible' is required")
	}

	project, err := h.projectService.SetVisibility(c.Context(), userID(c), projectID, *body.Visible)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProjectNotFound):
			return response.NotFound(c, "Project not found")
		case errors.Is(err, services.ErrNotProjectManager):
			return response.Forbidden(c, "You do not manage this project")
		default:
			return response.InternalServerError(c, "Failed to update visibility")
		}
	}

	return response.Success(c, "Visibility updated", project)
}

// Delete removes a project
func (h *ProjectHandler) Delete(c *fiber.Ctx) error {
	projectID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid project ID")
	}

	if err := h.projectService.Delete(c.Context(), userID(c), projectID); err != nil {
		switch {
		case errors.Is(err, services.ErrProjectNotFound):
			return response.NotFound(c, "Project not found")
		case errors.Is(err, services.ErrNotProjectManager):
			return response.Forbidden(c, "You do not manage this project")
		default:
			return response.InternalServerError(c, "Failed to delete project")
		}
	}

	return response.Success(c, "Project deleted", nil)
}

// Get returns one project
func (h *ProjectHandler) Get(c *fiber.Ctx) error {
	projectID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid project ID")
	}

	project, err := h.projectService.GetByID(c.Context(), projectID)
	if err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			return response.NotFound(c, "Project not found")
		}
		return response.InternalServerError(c, "Failed to get project")
	}

	return response.Success(c, "Project retrieved", project)
}

// List returns all projects, paginated, for staff
func (h *ProjectHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	projects, total, err := h.projectService.List(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list projects")
	}

	return response.Success(c, "Projects retrieved", pagination.NewResponse(projects, params, total))
}

// ListMine returns the projects managed by the caller
func (h *ProjectHandler) ListMine(c *fiber.Ctx) error {
	projects, err := h.projectService.ListManagedBy(c.Context(), userID(c))
	if err != nil {
		return response.InternalServerError(c, "Failed to list projects")
	}

	return response.Success(c, "Projects retrieved", projects)
}

// ListOpen returns visible open projects annotated for the caller
func (h *ProjectHandler) ListOpen(c *fiber.Ctx) error {
	views, err := h.projectService.ListOpenForUser(c.Context(), userID(c))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to list open projects")
	}

	return response.Success(c, "Open projects retrieved", views)
}
