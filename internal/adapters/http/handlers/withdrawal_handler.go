package handlers

import (
	"errors"

	"btohub/internal/core/domain"
	"btohub/internal/core/services"
	"btohub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// WithdrawalHandler handles the withdrawal request lifecycle
type WithdrawalHandler struct {
	withdrawalService *services.WithdrawalService
}

// NewWithdrawalHandler creates a new withdrawal handler
func NewWithdrawalHandler(withdrawalService *services.WithdrawalService) *WithdrawalHandler {
	return &WithdrawalHandler{withdrawalService: withdrawalService}
}

// Request submits a withdrawal request for the caller's application
func (h *WithdrawalHandler) Request(c *fiber.Ctx) error {
	applicationID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}

	app, err := h.withdrawalService.Request(c.Context(), userID(c), applicationID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrApplicationNotFound):
			return response.NotFound(c, "Application not found")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "This application belongs to another applicant")
		case errors.Is(err, services.ErrNotWithdrawable):
			return response.UnprocessableEntity(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to request withdrawal")
		}
	}

	return response.Success(c, "Withdrawal requested", app.ToResponse())
}

// Approve finalizes a withdrawal request
func (h *WithdrawalHandler) Approve(c *fiber.Ctx) error {
	applicationID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}

	app, err := h.withdrawalService.Approve(c.Context(), userID(c), applicationID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrApplicationNotFound):
			return response.NotFound(c, "Application not found")
		case errors.Is(err, services.ErrNoPendingWithdrawal):
			return response.UnprocessableEntity(c, "Application has no pending withdrawal request")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "You do not manage this project")
		case errors.Is(err, domain.ErrLedgerOverflow):
			return response.Conflict(c, "Unit cannot be returned, inventory already at full availability")
		default:
			return response.InternalServerError(c, "Failed to approve withdrawal")
		}
	}

	return response.Success(c, "Withdrawal approved", app.ToResponse())
}

// Reject declines a withdrawal request and restores the prior status
func (h *WithdrawalHandler) Reject(c *fiber.Ctx) error {
	applicationID, err := paramID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}

	app, err := h.withdrawalService.Reject(c.Context(), userID(c), applicationID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrApplicationNotFound):
			return response.NotFound(c, "Application not found")
		case errors.Is(err, services.ErrNoPendingWithdrawal):
			return response.UnprocessableEntity(c, "Application has no pending withdrawal request")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "You do not manage this project")
		default:
			return response.InternalServerError(c, "Failed to reject withdrawal")
		}
	}

	return response.Success(c, "Withdrawal rejected", app.ToResponse())
}
