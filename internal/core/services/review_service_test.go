package services

import (
	"context"
	"testing"
	"time"

	"btohub/internal/adapters/persistence/models"
	"btohub/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testWorld bundles the in-memory repositories and seeded fixtures shared
// by the lifecycle tests.
type testWorld struct {
	users    *fakeUserRepo
	projects *fakeProjectRepo
	apps     *fakeApplicationRepo
	regs     *fakeRegistrationRepo
	logs     *fakeTransitionLogRepo
	locks    *projectLocks

	manager   *models.User
	officer   *models.User
	applicant *models.User
	project   *models.Project
}

func newTestWorld(t *testing.T) *testWorld {
	t.Helper()

	w := &testWorld{
		users:    newFakeUserRepo(),
		projects: newFakeProjectRepo(),
		apps:     newFakeApplicationRepo(),
		regs:     newFakeRegistrationRepo(),
		logs:     newFakeTransitionLogRepo(),
		locks:    NewProjectLocks(),
	}

	ctx := context.Background()

	w.manager = &models.User{
		NationalID: "T8765432F", Name: "Michael", Age: 36,
		MaritalStatus: domain.Single, Role: domain.RoleManager, IsActive: true,
	}
	require.NoError(t, w.users.Create(ctx, w.manager))

	w.officer = &models.User{
		NationalID: "T2109876H", Name: "Daniel", Age: 36,
		MaritalStatus: domain.Single, Role: domain.RoleOfficer, IsActive: true,
	}
	require.NoError(t, w.users.Create(ctx, w.officer))

	w.applicant = &models.User{
		NationalID: "S1234567A", Name: "John", Age: 35,
		MaritalStatus: domain.Single, Role: domain.RoleApplicant, IsActive: true,
	}
	require.NoError(t, w.users.Create(ctx, w.applicant))

	today := time.Now().Truncate(24 * time.Hour)
	w.project = &models.Project{
		Name:         "Acacia Breeze",
		Neighborhood: "Yishun",
		OpenDate:     today.AddDate(0, 0, -7),
		CloseDate:    today.AddDate(0, 0, 7),
		ManagerID:    w.manager.ID,
		OfficerSlots: 3,
		Visible:      true,
		FlatTypes: []models.FlatTypeDetails{
			{FlatType: domain.TwoRoom, TotalUnits: 2, AvailableUnits: 2, SellingPrice: 350000},
			{FlatType: domain.ThreeRoom, TotalUnits: 3, AvailableUnits: 3, SellingPrice: 450000},
		},
	}
	require.NoError(t, w.projects.Create(ctx, w.project))

	return w
}

// addApplicant registers an extra eligible applicant
func (w *testWorld) addApplicant(t *testing.T, nationalID string) *models.User {
	t.Helper()
	user := &models.User{
		NationalID: nationalID, Name: "Applicant " + nationalID, Age: 40,
		MaritalStatus: domain.Married, Role: domain.RoleApplicant, IsActive: true,
	}
	require.NoError(t, w.users.Create(context.Background(), user))
	return user
}

// addApplication seeds an application directly in the given status
func (w *testWorld) addApplication(t *testing.T, applicant *models.User, ft domain.FlatType, status domain.ApplicationStatus) *models.Application {
	t.Helper()
	app := &models.Application{
		RefNo:       models.ApplicationRefNo(applicant.NationalID, w.project.Name),
		ApplicantID: applicant.ID,
		ProjectID:   w.project.ID,
		FlatType:    ft,
		Status:      status,
		AppliedAt:   time.Now().Truncate(24 * time.Hour),
	}
	if status == domain.StatusBooked {
		now := time.Now()
		app.BookedAt = &now
	}
	require.NoError(t, w.apps.Create(context.Background(), app))
	return app
}

func (w *testWorld) reviewService() *ReviewService {
	return NewReviewService(w.apps, w.projects, w.logs, w.locks)
}

func (w *testWorld) availableUnits(t *testing.T, ft domain.FlatType) int {
	t.Helper()
	offer, err := w.projects.GetFlatType(context.Background(), w.project.ID, ft)
	require.NoError(t, err)
	return offer.AvailableUnits
}

func TestApproveMovesPendingToSuccessful(t *testing.T) {
	w := newTestWorld(t)
	svc := w.reviewService()
	app := w.addApplication(t, w.applicant, domain.TwoRoom, domain.StatusPending)

	approved, err := svc.Approve(context.Background(), w.manager.ID, app.ID, "")

	require.NoError(t, err)
	assert.Equal(t, domain.StatusSuccessful, approved.Status)
	// approval commits no unit, inventory moves only at booking
	assert.Equal(t, 2, w.availableUnits(t, domain.TwoRoom))
}

func TestApproveRefusedWhenAllUnitsCommitted(t *testing.T) {
	w := newTestWorld(t)
	svc := w.reviewService()
	ctx := context.Background()

	// two units, two approvals fill the flat type
	first := w.addApplication(t, w.applicant, domain.TwoRoom, domain.StatusPending)
	second := w.addApplication(t, w.addApplicant(t, "S2345678B"), domain.TwoRoom, domain.StatusPending)
	third := w.addApplication(t, w.addApplicant(t, "S3456789C"), domain.TwoRoom, domain.StatusPending)

	_, err := svc.Approve(ctx, w.manager.ID, first.ID, "")
	require.NoError(t, err)
	_, err = svc.Approve(ctx, w.manager.ID, second.ID, "")
	require.NoError(t, err)

	_, err = svc.Approve(ctx, w.manager.ID, third.ID, "")

	assert.ErrorIs(t, err, domain.ErrCapacityExceeded)
	assert.Equal(t, domain.StatusPending, third.Status)
	assert.Equal(t, 2, w.availableUnits(t, domain.TwoRoom))
}

func TestApproveRejectsNonPendingApplication(t *testing.T) {
	w := newTestWorld(t)
	svc := w.reviewService()
	app := w.addApplication(t, w.applicant, domain.TwoRoom, domain.StatusSuccessful)

	_, err := svc.Approve(context.Background(), w.manager.ID, app.ID, "")

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestApproveRequiresManagingTheProject(t *testing.T) {
	w := newTestWorld(t)
	svc := w.reviewService()
	app := w.addApplication(t, w.applicant, domain.TwoRoom, domain.StatusPending)

	otherManager := &models.User{
		NationalID: "T1111111A", Name: "Maria", Age: 45,
		MaritalStatus: domain.Married, Role: domain.RoleManager, IsActive: true,
	}
	require.NoError(t, w.users.Create(context.Background(), otherManager))

	_, err := svc.Approve(context.Background(), otherManager.ID, app.ID, "")

	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestApproveForcesRejectionWhenProjectGone(t *testing.T) {
	w := newTestWorld(t)
	svc := w.reviewService()
	ctx := context.Background()
	app := w.addApplication(t, w.applicant, domain.TwoRoom, domain.StatusPending)

	require.NoError(t, w.projects.Delete(ctx, w.project.ID))

	_, err := svc.Approve(ctx, w.manager.ID, app.ID, "")

	assert.ErrorIs(t, err, domain.ErrMissingReference)
	stored, getErr := w.apps.GetByID(ctx, app.ID)
	require.NoError(t, getErr)
	assert.Equal(t, domain.StatusUnsuccessful, stored.Status)
}

func TestRejectMovesPendingToUnsuccessful(t *testing.T) {
	w := newTestWorld(t)
	svc := w.reviewService()
	app := w.addApplication(t, w.applicant, domain.TwoRoom, domain.StatusPending)

	rejected, err := svc.Reject(context.Background(), w.manager.ID, app.ID, "income ceiling")

	require.NoError(t, err)
	assert.Equal(t, domain.StatusUnsuccessful, rejected.Status)
	assert.Equal(t, 2, w.availableUnits(t, domain.TwoRoom))
}

func TestApproveRecordsTransition(t *testing.T) {
	w := newTestWorld(t)
	svc := w.reviewService()
	app := w.addApplication(t, w.applicant, domain.TwoRoom, domain.StatusPending)

	_, err := svc.Approve(context.Background(), w.manager.ID, app.ID, "ok")
	require.NoError(t, err)

	logs, err := w.logs.ListByApplication(context.Background(), app.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, models.EventApprove, logs[0].EventType)
	assert.Equal(t, domain.StatusPending, logs[0].FromStatus)
	assert.Equal(t, domain.StatusSuccessful, logs[0].ToStatus)
}
