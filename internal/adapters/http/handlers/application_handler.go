package handlers

import (
	"errors"
	"strconv"

	"btohub/internal/core/domain"
	"btohub/internal/core/services"
	"btohub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ApplicationHandler handles application endpoints
type ApplicationHandler struct {
	appService    *services.ApplicationService
	reviewService *services.ReviewService
}

// NewApplicationHandler creates a new application handler
func NewApplicationHandler(appService *services.ApplicationService, reviewService *services.ReviewService) *ApplicationHandler {
	return &ApplicationHandler{
		appService:    appService,
		reviewService: reviewService,
	}
}

// Apply handles flat application submission
func (h *ApplicationHandler) Apply(c *fiber.Ctx) error {
	var input services.ApplyInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.ProjectID == 0 {
		return response.BadRequest(c, "Project ID is required")
	}
	if input.FlatType == "" {
		return response.BadRequest(c, "Flat type is required")
	}

	app, err := h.appService.Apply(c.Context(), userID(c), &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "This role cannot apply for flats")
		case errors.Is(err, services.ErrProjectNotFound):
			return response.NotFound(c, "Project not found")
		case errors.Is(err, services.ErrProjectClosed):
			return response.UnprocessableEntity(c, "Project is not open for applications")
		case errors.Is(err, services.ErrHandlingProject):
			return response.Conflict(c, "You registered to handle this project")
		case errors.Is(err, services.ErrNotEligible):
			return response.UnprocessableEntity(c, "You are not eligible for this flat type")
		case errors.Is(err, services.ErrFlatTypeNotOffered):
			return response.UnprocessableEntity(c, "Flat type not offered by this project")
		case errors.Is(err, services.ErrNoUnitsAvailable):
			return response.UnprocessableEntity(c, "No units available for this flat type")
		case errors.Is(err, services.ErrDuplicateApplication):
			return response.Conflict(c, "You already applied to this project")
		case errors.Is(err, services.ErrActiveApplication):
			return response.Conflict(c, "You already have an active application")
		default:
			return response.InternalServerError(c, "Failed to submit application")
		}
	}

	return response.Created(c, "Application submitted", app.ToResponse())
}

// ListMine returns the caller's applications
func (h *ApplicationHandler) ListMine(c *fiber.Ctx) error {
	apps, err := h.appService.ListMine(c.Context(), userID(c))
	if err != nil {
		return response.InternalServerError(c, "Failed to list applications")
	}

	views := make([]interface{}, 0, len(apps))
	for _, app := range apps {
		views = append(views, app.ToResponse())
	}

	return response.Success(c, "Applications retrieved", views)
}

// Current returns the caller's current application, derived from history
func (h *ApplicationHandler) Current(c *fiber.Ctx) error {
	view, err := h.appService.DeriveCurrent(c.Context(), userID(c))
	if err != nil {
		return response.InternalServerError(c, "Failed to derive current application")
	}
	if view == nil {
		return response.Success(c, "No application on record", nil)
	}

	return response.Success(c, "Current application retrieved", view)
}

// ListByProject returns a project's applications for its manager
func (h *ApplicationHandler) ListByProject(c *fiber.Ctx) error {
	projectID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid project ID")
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	out, err := h.appService.ListByProject(c.Context(), userID(c), projectID, page, limit)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProjectNotFound):
			return response.NotFound(c, "Project not found")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "You do not manage this project")
		default:
			return response.InternalServerError(c, "Failed to list applications")
		}
	}

	return response.Success(c, "Applications retrieved", out)
}

// History returns the transition history of an application
func (h *ApplicationHandler) History(c *fiber.Ctx) error {
	applicationID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}

	logs, err := h.appService.GetHistory(c.Context(), applicationID)
	if err != nil {
		if errors.Is(err, services.ErrApplicationNotFound) {
			return response.NotFound(c, "Application not found")
		}
		return response.InternalServerError(c, "Failed to get history")
	}

	return response.Success(c, "History retrieved", logs)
}

// Approve moves a pending application to SUCCESSFUL
func (h *ApplicationHandler) Approve(c *fiber.Ctx) error {
	applicationID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}

	var body struct {
		Remark string `json:"remark"`
	}
	_ = c.BodyParser(&body)

	app, err := h.reviewService.Approve(c.Context(), userID(c), applicationID, body.Remark)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrApplicationNotFound):
			return response.NotFound(c, "Application not found")
		case errors.Is(err, domain.ErrInvalidTransition):
			return response.UnprocessableEntity(c, err.Error())
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "You do not manage this project")
		case errors.Is(err, domain.ErrCapacityExceeded):
			return response.Conflict(c, "All units of this flat type are already committed")
		case errors.Is(err, domain.ErrMissingReference):
			return response.UnprocessableEntity(c, "Application references missing data and was rejected")
		default:
			return response.InternalServerError(c, "Failed to approve application")
		}
	}

	return response.Success(c, "Application approved", app.ToResponse())
}

// Reject moves a pending application to UNSUCCESSFUL
func (h *ApplicationHandler) Reject(c *fiber.Ctx) error {
	applicationID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}

	var body struct {
		Remark string `json:"remark"`
	}
	_ = c.BodyParser(&body)

	app, err := h.reviewService.Reject(c.Context(), userID(c), applicationID, body.Remark)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrApplicationNotFound):
			return response.NotFound(c, "Application not found")
		case errors.Is(err, domain.ErrInvalidTransition):
			return response.UnprocessableEntity(c, err.Error())
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "You do not manage this project")
		default:
			return response.InternalServerError(c, "Failed to reject application")
		}
	}

	return response.Success(c, "Application rejected", app.ToResponse())
}
