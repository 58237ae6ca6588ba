package handlers

import (
	"errors"

	"btohub/internal/core/domain"
	"btohub/internal/core/services"
	"btohub/internal/pkg/pagination"
	"btohub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// EnquiryHandler handles project enquiry endpoints
type EnquiryHandler struct {
	enquiryService *services.EnquiryService
}

// NewEnquiryHandler creates a new enquiry handler
func NewEnquiryHandler(enquiryService *services.EnquiryService) *EnquiryHandler {
	return &EnquiryHandler{enquiryService: enquiryService}
}

// Submit creates an enquiry about a project
func (h *EnquiryHandler) Submit(c *fiber.Ctx) error {
	var body struct {
		ProjectID uint   `json:"project_id"`
		Question  string `json:"question"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if body.ProjectID == 0 {
		return response.BadRequest(c, "Project ID is required")
	}

	enquiry, err := h.enquiryService.Submit(c.Context(), userID(c), body.ProjectID, body.Question)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProjectNotFound):
			return response.NotFound(c, "Project not found")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to submit enquiry")
		}
	}

	return response.Created(c, "Enquiry submitted", enquiry)
}

// Update edits an unanswered enquiry owned by the caller
func (h *EnquiryHandler) Update(c *fiber.Ctx) error {
	enquiryID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid enquiry ID")
	}

	var body struct {
		Question string `json:"question"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	enquiry, err := h.enquiryService.Update(c.Context(), userID(c), enquiryID, body.Question)
	if err != nil {
		return h.mapEnquiryError(c, err, "Failed to update enquiry")
	}

	return response.Success(c, "Enquiry updated", enquiry)
}

// Delete removes an unanswered enquiry owned by the caller
func (h *EnquiryHandler) Delete(c *fiber.Ctx) error {
	enquiryID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid enquiry ID")
	}

	if err := h.enquiryService.Delete(c.Context(), userID(c), enquiryID); err != nil {
		return h.mapEnquiryError(c, err, "Failed to delete enquiry")
	}

	return response.Success(c, "Enquiry deleted", nil)
}

// Reply answers an enquiry as project staff
func (h *EnquiryHandler) Reply(c *fiber.Ctx) error {
	enquiryID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid enquiry ID")
	}

	var body struct {
		Reply string `json:"reply"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	enquiry, err := h.enquiryService.Reply(c.Context(), userID(c), enquiryID, body.Reply)
	if err != nil {
		return h.mapEnquiryError(c, err, "Failed to reply to enquiry")
	}

	return response.Success(c, "Reply posted", enquiry)
}

func (h *EnquiryHandler) mapEnquiryError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrEnquiryNotFound):
		return response.NotFound(c, "Enquiry not found")
	case errors.Is(err, services.ErrNotEnquiryOwner):
		return response.Forbidden(c, "Enquiry belongs to another applicant")
	case errors.Is(err, services.ErrEnquiryReplied):
		return response.UnprocessableEntity(c, "Enquiry has already been replied to")
	case errors.Is(err, services.ErrCannotReply):
		return response.Forbidden(c, "You cannot reply to enquiries for this project")
	case errors.Is(err, services.ErrProjectNotFound):
		return response.NotFound(c, "Project not found")
	case errors.Is(err, domain.ErrInvalidInput):
		return response.BadRequest(c, err.Error())
	default:
		return response.InternalServerError(c, fallback)
	}
}

// ListMine returns the caller's enquiries
func (h *EnquiryHandler) ListMine(c *fiber.Ctx) error {
	enquiries, err := h.enquiryService.ListMine(c.Context(), userID(c))
	if err != nil {
		return response.InternalServerError(c, "Failed to list enquiries")
	}

	return response.Success(c, "Enquiries retrieved", enquiries)
}

// ListByProject returns the enquiries for one project, staff only
func (h *EnquiryHandler) ListByProject(c *fiber.Ctx) error {
	projectID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid project ID")
	}

	enquiries, err := h.enquiryService.ListByProject(c.Context(), userID(c), projectID)
	if err != nil {
		return h.mapEnquiryError(c, err, "Failed to list enquiries")
	}

	return response.Success(c, "Enquiries retrieved", enquiries)
}

// ListAll returns every enquiry, paginated, managers only
func (h *EnquiryHandler) ListAll(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	enquiries, total, err := h.enquiryService.ListAll(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list enquiries")
	}

	return response.Success(c, "Enquiries retrieved", pagination.NewResponse(enquiries, params, total))
}
