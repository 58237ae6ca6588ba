package services

import (
	"context"

	"btohub/internal/adapters/persistence/repositories"
	"btohub/internal/core/domain"
)

// ReportService builds management reports over booked applications
type ReportService struct {
	appRepo repositories.ApplicationRepository
}

// NewReportService creates a new report service
func NewReportService(appRepo repositories.ApplicationRepository) *ReportService {
	return &ReportService{appRepo: appRepo}
}

// BookedRow is one line of the booked-applications report
type BookedRow struct {
	RefNo         string               `json:"refNo"`
	ApplicantName string               `json:"applicantName"`
	NationalID    string               `json:"nationalId"`
	Age           int                  `json:"age"`
	MaritalStatus domain.MaritalStatus `json:"maritalStatus"`
	ProjectName   string               `json:"projectName"`
	Neighborhood  string               `json:"neighborhood"`
	FlatType      domain.FlatType      `json:"flatType"`
}

// BookedReport lists booked applications, optionally filtered by project,
// flat type and applicant marital status
func (s *ReportService) BookedReport(ctx context.Context, filter *repositories.BookedFilter) ([]*BookedRow, error) {
	apps, err := s.appRepo.ListBooked(ctx, filter)
	if err != nil {
		return nil, err
	}

	rows := make([]*BookedRow, 0, len(apps))
	for _, app := range apps {
		row := &BookedRow{
			RefNo:    app.RefNo,
			FlatType: app.FlatType,
		}
		if app.Applicant != nil {
			row.ApplicantName = app.Applicant.Name
			row.NationalID = app.Applicant.NationalID
			row.Age = app.Applicant.Age
			row.MaritalStatus = app.Applicant.MaritalStatus
		}
		if app.Project != nil {
			row.ProjectName = app.Project.Name
			row.Neighborhood = app.Project.Neighborhood
		}
		rows = append(rows, row)
	}

	return rows, nil
}
