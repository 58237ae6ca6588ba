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

func (w *testWorld) applicationService() *ApplicationService {
	return NewApplicationService(w.apps, w.projects, w.users, w.regs, w.logs)
}

func TestApplyCreatesPendingApplication(t *testing.T) {
	w := newTestWorld(t)
	svc := w.applicationService()

	app, err := svc.Apply(context.Background(), w.applicant.ID, &ApplyInput{
		ProjectID: w.project.ID,
		FlatType:  domain.TwoRoom,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, app.Status)
	assert.Equal(t, "S1234567A-Acacia Breeze", app.RefNo)
	assert.Equal(t, domain.TwoRoom, app.FlatType)
	// submission holds no unit
	assert.Equal(t, 2, w.availableUnits(t, domain.TwoRoom))
}

func TestApplyRefusedForManagers(t *testing.T) {
	w := newTestWorld(t)
	svc := w.applicationService()

	_, err := svc.Apply(context.Background(), w.manager.ID, &ApplyInput{
		ProjectID: w.project.ID,
		FlatType:  domain.TwoRoom,
	})

	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestApplyEnforcesEligibilityRules(t *testing.T) {
	w := newTestWorld(t)
	svc := w.applicationService()
	ctx := context.Background()

	// single aged 35 may only take a two-room flat
	_, err := svc.Apply(ctx, w.applicant.ID, &ApplyInput{
		ProjectID: w.project.ID,
		FlatType:  domain.ThreeRoom,
	})
	assert.ErrorIs(t, err, ErrNotEligible)

	// single under 35 gets nothing
	young := &models.User{
		NationalID: "S7654321D", Name: "Sarah", Age: 34,
		MaritalStatus: domain.Single, Role: domain.RoleApplicant, IsActive: true,
	}
	require.NoError(t, w.users.Create(ctx, young))
	_, err = svc.Apply(ctx, young.ID, &ApplyInput{
		ProjectID: w.project.ID,
		FlatType:  domain.TwoRoom,
	})
	assert.ErrorIs(t, err, ErrNotEligible)

	// married aged 21 may take either type
	married := &models.User{
		NationalID: "S4567890E", Name: "Emily", Age: 21,
		MaritalStatus: domain.Married, Role: domain.RoleApplicant, IsActive: true,
	}
	require.NoError(t, w.users.Create(ctx, married))
	_, err = svc.Apply(ctx, married.ID, &ApplyInput{
		ProjectID: w.project.ID,
		FlatType:  domain.ThreeRoom,
	})
	assert.NoError(t, err)
}

func TestApplyRefusedWhenNoUnitsAvailable(t *testing.T) {
	w := newTestWorld(t)
	svc := w.applicationService()
	ctx := context.Background()

	offer, err := w.projects.GetFlatType(ctx, w.project.ID, domain.TwoRoom)
	require.NoError(t, err)
	offer.AvailableUnits = 0

	_, err = svc.Apply(ctx, w.applicant.ID, &ApplyInput{
		ProjectID: w.project.ID,
		FlatType:  domain.TwoRoom,
	})

	assert.ErrorIs(t, err, ErrNoUnitsAvailable)
}

func TestApplyRefusedOutsideApplicationWindow(t *testing.T) {
	w := newTestWorld(t)
	svc := w.applicationService()
	ctx := context.Background()

	w.project.CloseDate = time.Now().Truncate(24 * time.Hour).AddDate(0, 0, -1)
	require.NoError(t, w.projects.Update(ctx, w.project))

	_, err := svc.Apply(ctx, w.applicant.ID, &ApplyInput{
		ProjectID: w.project.ID,
		FlatType:  domain.TwoRoom,
	})

	assert.ErrorIs(t, err, ErrProjectClosed)
}

func TestApplyRefusedWithActiveApplication(t *testing.T) {
	w := newTestWorld(t)
	svc := w.applicationService()
	ctx := context.Background()

	_, err := svc.Apply(ctx, w.applicant.ID, &ApplyInput{
		ProjectID: w.project.ID,
		FlatType:  domain.TwoRoom,
	})
	require.NoError(t, err)

	// same project again
	_, err = svc.Apply(ctx, w.applicant.ID, &ApplyInput{
		ProjectID: w.project.ID,
		FlatType:  domain.TwoRoom,
	})
	assert.ErrorIs(t, err, ErrDuplicateApplication)
}

func TestApplyRefusedForHandlingOfficer(t *testing.T) {
	w := newTestWorld(t)
	w.approveOfficer(t)
	svc := w.applicationService()

	_, err := svc.Apply(context.Background(), w.officer.ID, &ApplyInput{
		ProjectID: w.project.ID,
		FlatType:  domain.ThreeRoom,
	})

	assert.ErrorIs(t, err, ErrHandlingProject)
}

func TestDeriveCurrentPrefersNonTerminal(t *testing.T) {
	w := newTestWorld(t)
	svc := w.applicationService()
	ctx := context.Background()

	w.addApplication(t, w.applicant, domain.TwoRoom, domain.StatusUnsuccessful)
	active := w.addApplication(t, w.applicant, domain.TwoRoom, domain.StatusSuccessful)

	view, err := svc.DeriveCurrent(ctx, w.applicant.ID)

	require.NoError(t, err)
	require.NotNil(t, view)
	assert.Equal(t, active.RefNo, view.RefNo)
	assert.Equal(t, domain.StatusSuccessful, view.Status)
	assert.Nil(t, view.BookedFlatType)
}

func TestDeriveCurrentExposesBookedFlatType(t *testing.T) {
	w := newTestWorld(t)
	svc := w.applicationService()

	w.addApplication(t, w.applicant, domain.TwoRoom, domain.StatusBooked)

	view, err := svc.DeriveCurrent(context.Background(), w.applicant.ID)

	require.NoError(t, err)
	require.NotNil(t, view)
	require.NotNil(t, view.BookedFlatType)
	assert.Equal(t, domain.TwoRoom, *view.BookedFlatType)
}

func TestDeriveCurrentNilWhenNeverApplied(t *testing.T) {
	w := newTestWorld(t)
	svc := w.applicationService()

	view, err := svc.DeriveCurrent(context.Background(), w.applicant.ID)

	require.NoError(t, err)
	assert.Nil(t, view)
}

func TestListByProjectRequiresOwnership(t *testing.T) {
	w := newTestWorld(t)
	svc := w.applicationService()
	w.addApplication(t, w.applicant, domain.TwoRoom, domain.StatusPending)

	otherManager := &models.User{
		NationalID: "T2222222B", Name: "Grace", Age: 50,
		MaritalStatus: domain.Married, Role: domain.RoleManager, IsActive: true,
	}
	require.NoError(t, w.users.Create(context.Background(), otherManager))

	_, err := svc.ListByProject(context.Background(), otherManager.ID, w.project.ID, 1, 20)

	assert.ErrorIs(t, err, domain.ErrForbidden)
}
