package domain

// Role represents user role in the system
type Role string

const (
	RoleApplicant Role = "APPLICANT"
	RoleOfficer   Role = "OFFICER"
	RoleManager   Role = "MANAGER"
)

// CanApply reports whether the role may submit flat applications.
// Officers double as applicants; managers never apply.
func (r Role) CanApply() bool {
	return r == RoleApplicant || r == RoleOfficer
}

// CanApprove reports whether the role may approve applications,
// withdrawals and officer registrations.
func (r Role) CanApprove() bool {
	return r == RoleManager
}

// CanBook reports whether the role may book flats for applicants.
func (r Role) CanBook() bool {
	return r == RoleOfficer
}

// MaritalStatus of an applicant
type MaritalStatus string

const (
	Single  MaritalStatus = "SINGLE"
	Married MaritalStatus = "MARRIED"
)

// FlatType is a category of unit with its own price and inventory
type FlatType string

const (
	TwoRoom   FlatType = "TWO_ROOM"
	ThreeRoom FlatType = "THREE_ROOM"
)

// SupportedFlatTypes lists the flat types a project may offer
var SupportedFlatTypes = []FlatType{TwoRoom, ThreeRoom}

// IsValid reports whether the flat type is one a project may offer
func (f FlatType) IsValid() bool {
	for _, ft := range SupportedFlatTypes {
		if f == ft {
			return true
		}
	}
	return false
}

// ApplicationStatus represents application lifecycle state
type ApplicationStatus string

const (
	StatusPending           ApplicationStatus = "PENDING"
	StatusSuccessful        ApplicationStatus = "SUCCESSFUL"
	StatusBooked            ApplicationStatus = "BOOKED"
	StatusUnsuccessful      ApplicationStatus = "UNSUCCESSFUL"
	StatusWithdrawn         ApplicationStatus = "WITHDRAWN"
	StatusPendingWithdrawal ApplicationStatus = "PENDING_WITHDRAWAL"
)

// IsTerminal reports whether no further transitions are allowed
func (s ApplicationStatus) IsTerminal() bool {
	return s == StatusUnsuccessful || s == StatusWithdrawn
}

// IsActive reports whether the application counts against project inventory
// (approved or already holding a unit).
func (s ApplicationStatus) IsActive() bool {
	return s == StatusSuccessful || s == StatusBooked
}

// CanRequestWithdrawal reports whether an applicant may request withdrawal
// from this state
func (s ApplicationStatus) CanRequestWithdrawal() bool {
	return s == StatusPending || s == StatusSuccessful || s == StatusBooked
}

// RegistrationStatus represents officer registration state
type RegistrationStatus string

const (
	RegistrationPending  RegistrationStatus = "PENDING"
	RegistrationApproved RegistrationStatus = "APPROVED"
	RegistrationRejected RegistrationStatus = "REJECTED"
)
