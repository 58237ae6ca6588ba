package services

import (
	"context"
	"log"

	"btohub/internal/adapters/persistence/models"
	"btohub/internal/adapters/persistence/repositories"
	"btohub/internal/core/domain"
)

// recordTransition appends a transition history row. History is best-effort:
// a failed write is logged but never rolls back the transition itself.
func recordTransition(
	ctx context.Context,
	repo repositories.TransitionLogRepository,
	applicationID uint,
	eventType string,
	from, to domain.ApplicationStatus,
	performedBy uint,
	remark string,
) {
	entry := &models.TransitionLog{
		ApplicationID: applicationID,
		EventType:     eventType,
		FromStatus:    from,
		ToStatus:      to,
		PerformedBy:   performedBy,
		Remark:        remark,
	}
	if err := repo.Create(ctx, entry); err != nil {
		log.Printf("⚠️ Failed to record %s transition for application %d: %v", eventType, applicationID, err)
	}
}
