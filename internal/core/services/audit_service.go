package services

import (
	"context"
	"log"

	"btohub/internal/adapters/persistence/repositories"
	"btohub/internal/core/domain"

	"github.com/robfig/cron/v3"
)

// Drift is one inventory row whose available units disagree with the
// count implied by active applications
type Drift struct {
	ProjectID      uint            `json:"projectId"`
	FlatType       domain.FlatType `json:"flatType"`
	TotalUnits     int             `json:"totalUnits"`
	AvailableUnits int             `json:"availableUnits"`
	ExpectedUnits  int             `json:"expectedUnits"`
}

// InventoryAuditService cross-checks the unit ledger against booked
// application counts on a nightly schedule
type InventoryAuditService struct {
	projectRepo repositories.ProjectRepository
	appRepo     repositories.ApplicationRepository
	cron        *cron.Cron
}

// NewInventoryAuditService creates a new inventory audit service
func NewInventoryAuditService(projectRepo repositories.ProjectRepository, appRepo repositories.ApplicationRepository) *InventoryAuditService {
	return &InventoryAuditService{
		projectRepo: projectRepo,
		appRepo:     appRepo,
		cron:        cron.New(),
	}
}

// Start schedules the nightly audit at 2 AM
func (s *InventoryAuditService) Start() error {
	_, err := s.cron.AddFunc("0 2 * * *", func() {
		drifts, err := s.Audit(context.Background())
		if err != nil {
			log.Printf("❌ Inventory audit failed: %v", err)
			return
		}
		if len(drifts) == 0 {
			log.Println("✅ Inventory audit clean")
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	log.Println("✅ Inventory audit scheduled")
	return nil
}

// Stop halts the scheduler
func (s *InventoryAuditService) Stop() {
	if s.cron != nil {
		s.cron.Stop()
		log.Println("🛑 Inventory audit stopped")
	}
}

// Audit compares each flat type row's available units against total units
// minus booked applications. Approved-but-unbooked applications hold no
// unit, so only BOOKED rows count against availability.
func (s *InventoryAuditService) Audit(ctx context.Context) ([]*Drift, error) {
	projects, _, err := s.projectRepo.List(ctx, 0, 0)
	if err != nil {
		return nil, err
	}

	var drifts []*Drift
	for _, p := range projects {
		offers, err := s.projectRepo.ListFlatTypes(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		for _, offer := range offers {
			filter := &repositories.BookedFilter{ProjectID: &p.ID, FlatType: &offer.FlatType}
			booked, err := s.appRepo.ListBooked(ctx, filter)
			if err != nil {
				return nil, err
			}
			expected := offer.TotalUnits - len(booked)
			if offer.AvailableUnits != expected {
				drift := &Drift{
					ProjectID:      p.ID,
					FlatType:       offer.FlatType,
					TotalUnits:     offer.TotalUnits,
					AvailableUnits: offer.AvailableUnits,
					ExpectedUnits:  expected,
				}
				drifts = append(drifts, drift)
				log.Printf("⚠️ Inventory drift: project %d %s has %d available, expected %d",
					p.ID, offer.FlatType, offer.AvailableUnits, expected)
			}
		}
	}

	return drifts, nil
}
