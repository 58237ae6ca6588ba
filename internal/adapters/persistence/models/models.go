package models

import (
	"fmt"
	"time"

	"btohub/internal/core/domain"

	"gorm.io/gorm"
)

// ============================================================
// Auth & User Tables
// ============================================================

// User represents users table
type User struct {
	ID            uint                 `gorm:"primaryKey" json:"id"`
	NationalID    string               `gorm:"uniqueIndex;size:9;not null" json:"national_id"`
	Name          string               `gorm:"size:100;not null" json:"name"`
	Password      string               `gorm:"size:255;not null" json:"-"`
	Age           int                  `gorm:"not null" json:"age"`
	MaritalStatus domain.MaritalStatus `gorm:"size:20;not null" json:"marital_status"`
	Role          domain.Role          `gorm:"size:20;default:'APPLICANT'" json:"role"`
	IsActive      bool                 `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time            `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time            `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt       `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID            uint                 `json:"id"`
	NationalID    string               `json:"national_id"`
	Name          string               `json:"name"`
	Age           int                  `json:"age"`
	MaritalStatus domain.MaritalStatus `json:"marital_status"`
	Role          domain.Role          `json:"role"`
	IsActive      bool                 `json:"is_active"`
	CreatedAt     time.Time            `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:            u.ID,
		NationalID:    u.NationalID,
		Name:          u.Name,
		Age:           u.Age,
		MaritalStatus: u.MaritalStatus,
		Role:          u.Role,
		IsActive:      u.IsActive,
		CreatedAt:     u.CreatedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Project Tables
// ============================================================

// Project represents projects table
type Project struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Neighborhood string         `gorm:"size:100;not null" json:"neighborhood"`
	OpenDate     time.Time      `gorm:"type:date;not null" json:"open_date"`
	CloseDate    time.Time      `gorm:"type:date;not null" json:"close_date"`
	ManagerID    uint           `gorm:"not null;index" json:"manager_id"`
	OfficerSlots int            `gorm:"not null;default:10" json:"officer_slots"`
	Visible      bool           `gorm:"default:true" json:"visible"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Manager   *User             `gorm:"foreignKey:ManagerID" json:"manager,omitempty"`
	FlatTypes []FlatTypeDetails `gorm:"foreignKey:ProjectID" json:"flat_types,omitempty"`
}

func (Project) TableName() string {
	return "projects"
}

// IsOpen reports whether the project accepts applications at the given time
func (p *Project) IsOpen(now time.Time) bool {
	day := now.Truncate(24 * time.Hour)
	return p.Visible && !day.Before(p.OpenDate) && !day.After(p.CloseDate)
}

// FlatTypeOffer returns the inventory row for the given flat type, or nil
func (p *Project) FlatTypeOffer(ft domain.FlatType) *FlatTypeDetails {
	for i := range p.FlatTypes {
		if p.FlatTypes[i].FlatType == ft {
			return &p.FlatTypes[i]
		}
	}
	return nil
}

// FlatTypeDetails represents flat_type_details table, one row per
// (project, flat type) with its price and unit inventory.
type FlatTypeDetails struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	ProjectID      uint            `gorm:"not null;uniqueIndex:idx_project_flat_type" json:"project_id"`
	FlatType       domain.FlatType `gorm:"size:20;not null;uniqueIndex:idx_project_flat_type" json:"flat_type"`
	TotalUnits     int             `gorm:"not null" json:"total_units"`
	AvailableUnits int             `gorm:"not null" json:"available_units"`
	SellingPrice   float64         `gorm:"type:decimal(12,2);not null" json:"selling_price"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (FlatTypeDetails) TableName() string {
	return "flat_type_details"
}

// TryDecrement takes one unit from the available pool. It is the single
// mutation point for unit allocation: callers must check the result and
// abort their enclosing transition when it fails. Fails without mutation
// when no units remain.
func (f *FlatTypeDetails) TryDecrement() bool {
	if f.AvailableUnits <= 0 {
		return false
	}
	f.AvailableUnits--
	return true
}

// TryIncrement returns one unit to the available pool. Fails without
// mutation when the pool is already full, guarding against releasing more
// units than were ever allocated.
func (f *FlatTypeDetails) TryIncrement() bool {
	if f.AvailableUnits >= f.TotalUnits {
		return false
	}
	f.AvailableUnits++
	return true
}

// ============================================================
// Application Tables
// ============================================================

// Application represents applications table
type Application struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	RefNo       string `gorm:"uniqueIndex;size:120;not null" json:"ref_no"`
	ApplicantID uint   `gorm:"not null;index" json:"applicant_id"`
	ProjectID   uint   `gorm:"not null;index" json:"project_id"`

	FlatType domain.FlatType          `gorm:"size:20;not null" json:"flat_type"`
	Status   domain.ApplicationStatus `gorm:"size:30;not null;default:'PENDING'" json:"status"`

	// StatusBeforeWithdrawal is set exactly when the application enters
	// PENDING_WITHDRAWAL and consumed when the withdrawal is resolved.
	StatusBeforeWithdrawal *domain.ApplicationStatus `gorm:"size:30" json:"status_before_withdrawal"`

	AppliedAt time.Time  `gorm:"type:date;not null" json:"applied_at"`
	BookedAt  *time.Time `json:"booked_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Applicant *User    `gorm:"foreignKey:ApplicantID" json:"applicant,omitempty"`
	Project   *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}

func (Application) TableName() string {
	return "applications"
}

// ApplicationRefNo derives the application's reference deterministically
// from the applicant's national id and the project name.
func ApplicationRefNo(nationalID, projectName string) string {
	return fmt.Sprintf("%s-%s", nationalID, projectName)
}

// ApplicationResponse DTO
type ApplicationResponse struct {
	ID                     uint                      `json:"id"`
	RefNo                  string                    `json:"ref_no"`
	ApplicantID            uint                      `json:"applicant_id"`
	ApplicantName          string                    `json:"applicant_name,omitempty"`
	ProjectID              uint                      `json:"project_id"`
	ProjectName            string                    `json:"project_name,omitempty"`
	FlatType               domain.FlatType           `json:"flat_type"`
	Status                 domain.ApplicationStatus  `json:"status"`
	StatusBeforeWithdrawal *domain.ApplicationStatus `json:"status_before_withdrawal,omitempty"`
	AppliedAt              time.Time                 `json:"applied_at"`
	BookedAt               *time.Time                `json:"booked_at,omitempty"`
}

func (a *Application) ToResponse() *ApplicationResponse {
	resp := &ApplicationResponse{
		ID:                     a.ID,
		RefNo:                  a.RefNo,
		ApplicantID:            a.ApplicantID,
		ProjectID:              a.ProjectID,
		FlatType:               a.FlatType,
		Status:                 a.Status,
		StatusBeforeWithdrawal: a.StatusBeforeWithdrawal,
		AppliedAt:              a.AppliedAt,
		BookedAt:               a.BookedAt,
	}

	if a.Applicant != nil {
		resp.ApplicantName = a.Applicant.Name
	}
	if a.Project != nil {
		resp.ProjectName = a.Project.Name
	}

	return resp
}

// ============================================================
// Officer Registration & Enquiry Tables
// ============================================================

// OfficerRegistration represents officer_registrations table
type OfficerRegistration struct {
	ID           uint                      `gorm:"primaryKey" json:"id"`
	OfficerID    uint                      `gorm:"not null;uniqueIndex:idx_officer_project" json:"officer_id"`
	ProjectID    uint                      `gorm:"not null;uniqueIndex:idx_officer_project" json:"project_id"`
	Status       domain.RegistrationStatus `gorm:"size:20;not null;default:'PENDING'" json:"status"`
	RegisteredAt time.Time                 `gorm:"type:date;not null" json:"registered_at"`
	CreatedAt    time.Time                 `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time                 `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Officer *User    `gorm:"foreignKey:OfficerID" json:"officer,omitempty"`
	Project *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}

func (OfficerRegistration) TableName() string {
	return "officer_registrations"
}

// Enquiry represents enquiries table
type Enquiry struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	ApplicantID uint       `gorm:"not null;index" json:"applicant_id"`
	ProjectID   uint       `gorm:"not null;index" json:"project_id"`
	Question    string     `gorm:"type:text;not null" json:"question"`
	Reply       *string    `gorm:"type:text" json:"reply"`
	RepliedBy   *uint      `json:"replied_by"`
	RepliedAt   *time.Time `json:"replied_at"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Applicant *User    `gorm:"foreignKey:ApplicantID" json:"applicant,omitempty"`
	Project   *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Replier   *User    `gorm:"foreignKey:RepliedBy" json:"replier,omitempty"`
}

func (Enquiry) TableName() string {
	return "enquiries"
}

// IsReplied reports whether the enquiry has been answered
func (e *Enquiry) IsReplied() bool {
	return e.Reply != nil
}

// ============================================================
// Transition History
// ============================================================

// TransitionLog records every status transition for audit
type TransitionLog struct {
	ID            uint                      `gorm:"primaryKey" json:"id"`
	ApplicationID uint                      `gorm:"not null;index" json:"application_id"`
	EventType     string                    `gorm:"size:50;not null" json:"event_type"`
	FromStatus    domain.ApplicationStatus  `gorm:"size:30" json:"from_status"`
	ToStatus      domain.ApplicationStatus  `gorm:"size:30" json:"to_status"`
	PerformedBy   uint                      `gorm:"not null" json:"performed_by"`
	Remark        string                    `gorm:"type:text" json:"remark"`
	CreatedAt     time.Time                 `gorm:"autoCreateTime" json:"created_at"`

	// Relations
	Application *Application `gorm:"foreignKey:ApplicationID" json:"application,omitempty"`
	Performer   *User        `gorm:"foreignKey:PerformedBy" json:"performer,omitempty"`
}

func (TransitionLog) TableName() string {
	return "transition_logs"
}

// Event Types
const (
	EventApply              = "APPLY"
	EventApprove            = "APPROVE"
	EventReject             = "REJECT"
	EventBook               = "BOOK"
	EventWithdrawalRequest  = "WITHDRAWAL_REQUEST"
	EventWithdrawalApprove  = "WITHDRAWAL_APPROVE"
	EventWithdrawalReject   = "WITHDRAWAL_REJECT"
	EventForceReject        = "FORCE_REJECT"
)

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&Project{},
		&FlatTypeDetails{},
		&Application{},
		&OfficerRegistration{},
		&Enquiry{},
		&TransitionLog{},
	)
}
