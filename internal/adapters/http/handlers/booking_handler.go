package handlers

import (
	"errors"

	"btohub/internal/core/domain"
	"btohub/internal/core/services"
	"btohub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// BookingHandler handles flat booking endpoints
type BookingHandler struct {
	bookingService *services.BookingService
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookingService *services.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// Book books a flat for a successful application
func (h *BookingHandler) Book(c *fiber.Ctx) error {
	applicationID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}

	app, err := h.bookingService.Book(c.Context(), userID(c), applicationID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrApplicationNotFound):
			return response.NotFound(c, "Application not found")
		case errors.Is(err, domain.ErrInvalidTransition):
			return response.UnprocessableEntity(c, err.Error())
		case errors.Is(err, services.ErrNotHandlingThis):
			return response.Forbidden(c, "You are not handling this project")
		case errors.Is(err, domain.ErrCapacityExceeded), errors.Is(err, domain.ErrLedgerUnderflow):
			return response.Conflict(c, "No units left for this flat type")
		case errors.Is(err, domain.ErrMissingReference):
			return response.UnprocessableEntity(c, "Application references missing data and was rejected")
		default:
			return response.InternalServerError(c, "Failed to book flat")
		}
	}

	return response.Success(c, "Flat booked", app.ToResponse())
}

// Receipt returns the booking receipt for a booked application
func (h *BookingHandler) Receipt(c *fiber.Ctx) error {
	applicationID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}

	receipt, err := h.bookingService.Receipt(c.Context(), userID(c), applicationID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrApplicationNotFound):
			return response.NotFound(c, "Application not found")
		case errors.Is(err, services.ErrNotBooked):
			return response.UnprocessableEntity(c, "Application has no booking")
		case errors.Is(err, services.ErrNotHandlingThis):
			return response.Forbidden(c, "You are not handling this project")
		default:
			return response.InternalServerError(c, "Failed to build receipt")
		}
	}

	return response.Success(c, "Receipt generated", receipt)
}
