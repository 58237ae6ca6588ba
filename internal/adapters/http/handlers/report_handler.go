package handlers

import (
	"strconv"
	"strings"

	"btohub/internal/adapters/persistence/repositories"
	"btohub/internal/core/domain"
	"btohub/internal/core/services"
	"btohub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ReportHandler handles management report endpoints
type ReportHandler struct {
	reportService *services.ReportService
	auditService  *services.InventoryAuditService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *services.ReportService, auditService *services.InventoryAuditService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		auditService:  auditService,
	}
}

// Booked returns the booked-applications report with optional filters
func (h *ReportHandler) Booked(c *fiber.Ctx) error {
	filter := &repositories.BookedFilter{}

	if v := c.Query("project_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return response.BadRequest(c, "Invalid project_id filter")
		}
		projectID := uint(id)
		filter.ProjectID = &projectID
	}
	if v := c.Query("flat_type"); v != "" {
		ft := domain.FlatType(strings.ToUpper(v))
		if !ft.IsValid() {
			return response.BadRequest(c, "Invalid flat_type filter")
		}
		filter.FlatType = &ft
	}
	if v := c.Query("marital_status"); v != "" {
		ms := domain.MaritalStatus(strings.ToUpper(v))
		if ms != domain.Single && ms != domain.Married {
			return response.BadRequest(c, "Invalid marital_status filter")
		}
		filter.MaritalStatus = &ms
	}

	rows, err := h.reportService.BookedReport(c.Context(), filter)
	if err != nil {
		return response.InternalServerError(c, "Failed to build report")
	}

	return response.Success(c, "Report generated", rows)
}

// InventoryAudit runs the ledger consistency check on demand
func (h *ReportHandler) InventoryAudit(c *fiber.Ctx) error {
	drifts, err := h.auditService.Audit(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to audit inventory")
	}

	return response.Success(c, "Inventory audit complete", fiber.Map{
		"clean":  len(drifts) == 0,
		"drifts": drifts,
	})
}
