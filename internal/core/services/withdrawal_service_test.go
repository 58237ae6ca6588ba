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

func (w *testWorld) withdrawalService() *WithdrawalService {
	return NewWithdrawalService(w.apps, w.projects, w.logs, w.locks)
}

func TestWithdrawalRequestSnapshotsStatus(t *testing.T) {
	w := newTestWorld(t)
	svc := w.withdrawalService()
	app := w.addApplication(t, w.applicant, domain.TwoRoom, domain.StatusSuccessful)

	updated, err := svc.Request(context.Background(), w.applicant.ID, app.ID)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusPendingWithdrawal, updated.Status)
	require.NotNil(t, updated.StatusBeforeWithdrawal)
	assert.Equal(t, domain.StatusSuccessful, *updated.StatusBeforeWithdrawal)
}

func TestWithdrawalRequestOnlyByOwner(t *testing.T) {
	w := newTestWorld(t)
	svc := w.withdrawalService()
	app := w.addApplication(t, w.applicant, domain.TwoRoom, domain.StatusPending)
	other := w.addApplicant(t, "S9999999Z")

	_, err := svc.Request(context.Background(), other.ID, app.ID)

	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestWithdrawalRequestRefusedFromTerminalStatus(t *testing.T) {
	w := newTestWorld(t)
	svc := w.withdrawalService()
	app := w.addApplication(t, w.applicant, domain.TwoRoom, domain.StatusUnsuccessful)

	_, err := svc.Request(context.Background(), w.applicant.ID, app.ID)

	assert.ErrorIs(t, err, ErrNotWithdrawable)
}

func TestWithdrawalApproveFromPendingEndsWithdrawn(t *testing.T) {
	w := newTestWorld(t)
	svc := w.withdrawalService()
	ctx := context.Background()
	app := w.addApplication(t, w.applicant, domain.TwoRoom, domain.StatusPending)

	_, err := svc.Request(ctx, w.applicant.ID, app.ID)
	require.NoError(t, err)

	approved, err := svc.Approve(ctx, w.manager.ID, app.ID)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusWithdrawn, approved.Status)
	assert.Nil(t, approved.StatusBeforeWithdrawal)
	assert.Equal(t, 2, w.availableUnits(t, domain.TwoRoom))
}

func TestWithdrawalApproveFromBookedReturnsUnit(t *testing.T) {
	w := newTestWorld(t)
	w.approveOfficer(t)
	booking := w.bookingService()
	svc := w.withdrawalService()
	ctx := context.Background()

	app := w.addApplication(t, w.applicant, domain.TwoRoom, domain.StatusSuccessful)
	_, err := booking.Book(ctx, w.officer.ID, app.ID)
	require.NoError(t, err)
	require.Equal(t, 1, w.availableUnits(t, domain.TwoRoom))

	_, err = svc.Request(ctx, w.applicant.ID, app.ID)
	require.NoError(t, err)

	approved, err := svc.Approve(ctx, w.manager.ID, app.ID)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusUnsuccessful, approved.Status)
	assert.Nil(t, approved.BookedAt)
	assert.Equal(t, 2, w.availableUnits(t, domain.TwoRoom))
}

func TestWithdrawalApproveAbortsWhenUnitCannotBeReturned(t *testing.T) {
	w := newTestWorld(t)
	svc := w.withdrawalService()
	ctx := context.Background()

	// booked application but the ledger was never decremented, so the
	// return would overflow availability
	app := w.addApplication(t, w.applicant, domain.TwoRoom, domain.StatusBooked)
	_, err := svc.Request(ctx, w.applicant.ID, app.ID)
	require.NoError(t, err)

	_, err = svc.Approve(ctx, w.manager.ID, app.ID)

	assert.ErrorIs(t, err, domain.ErrLedgerOverflow)
	stored, getErr := w.apps.GetByID(ctx, app.ID)
	require.NoError(t, getErr)
	assert.Equal(t, domain.StatusPendingWithdrawal, stored.Status)
	assert.Equal(t, 2, w.availableUnits(t, domain.TwoRoom))
}

func TestWithdrawalRejectRestoresPriorStatus(t *testing.T) {
	w := newTestWorld(t)
	w.approveOfficer(t)
	booking := w.bookingService()
	svc := w.withdrawalService()
	ctx := context.Background()

	app := w.addApplication(t, w.applicant, domain.TwoRoom, domain.StatusSuccessful)
	_, err := booking.Book(ctx, w.officer.ID, app.ID)
	require.NoError(t, err)

	_, err = svc.Request(ctx, w.applicant.ID, app.ID)
	require.NoError(t, err)

	rejected, err := svc.Reject(ctx, w.manager.ID, app.ID)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusBooked, rejected.Status)
	assert.Nil(t, rejected.StatusBeforeWithdrawal)
	// the booked unit stays committed
	assert.Equal(t, 1, w.availableUnits(t, domain.TwoRoom))
}

func TestOriginalStatusPrefersSnapshot(t *testing.T) {
	snapshot := domain.StatusPending
	app := &models.Application{
		Status:                 domain.StatusPendingWithdrawal,
		FlatType:               domain.TwoRoom,
		StatusBeforeWithdrawal: &snapshot,
	}

	assert.Equal(t, domain.StatusPending, originalStatus(app))
}

func TestOriginalStatusInfersFromFields(t *testing.T) {
	// without a snapshot the inference cannot tell a withdrawal from
	// PENDING apart from one from SUCCESSFUL, the flat type is always set
	app := &models.Application{
		Status:   domain.StatusPendingWithdrawal,
		FlatType: domain.TwoRoom,
	}
	assert.Equal(t, domain.StatusSuccessful, originalStatus(app))

	booked := &models.Application{
		Status:   domain.StatusPendingWithdrawal,
		FlatType: domain.TwoRoom,
	}
	now := time.Now()
	booked.BookedAt = &now
	assert.Equal(t, domain.StatusBooked, originalStatus(booked))
}

func TestWithdrawalConservationAcrossFullCycle(t *testing.T) {
	w := newTestWorld(t)
	w.approveOfficer(t)
	review := w.reviewService()
	booking := w.bookingService()
	withdrawal := w.withdrawalService()
	ctx := context.Background()

	app := w.addApplication(t, w.applicant, domain.TwoRoom, domain.StatusPending)

	_, err := review.Approve(ctx, w.manager.ID, app.ID, "")
	require.NoError(t, err)
	assert.Equal(t, 2, w.availableUnits(t, domain.TwoRoom))

	_, err = booking.Book(ctx, w.officer.ID, app.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, w.availableUnits(t, domain.TwoRoom))

	_, err = withdrawal.Request(ctx, w.applicant.ID, app.ID)
	require.NoError(t, err)

	_, err = withdrawal.Approve(ctx, w.manager.ID, app.ID)
	require.NoError(t, err)

	// every unit taken out came back
	assert.Equal(t, 2, w.availableUnits(t, domain.TwoRoom))
}

// Returning a booked unit reads and writes the inventory row inside the
// project lock, so the increment cannot overwrite a decrement racing in
// from a concurrent booking.
func TestWithdrawalApproveReadsInventoryUnderProjectLock(t *testing.T) {
	w := newTestWorld(t)
	w.approveOfficer(t)
	booking := w.bookingService()
	svc := w.withdrawalService()
	ctx := context.Background()

	app := w.addApplication(t, w.applicant, domain.TwoRoom, domain.StatusSuccessful)
	_, err := booking.Book(ctx, w.officer.ID, app.ID)
	require.NoError(t, err)
	_, err = svc.Request(ctx, w.applicant.ID, app.ID)
	require.NoError(t, err)

	w.projects.copyOnRead = true
	w.projects.readSignal = make(chan struct{})

	unlock := w.locks.Lock(w.project.ID)
	done := make(chan error, 1)
	go func() {
		_, approveErr := svc.Approve(ctx, w.manager.ID, app.ID)
		done <- approveErr
	}()

	select {
	case <-w.projects.readSignal:
		unlock()
		<-done
		t.Fatal("inventory row was fetched before the project lock was held")
	case <-time.After(100 * time.Millisecond):
	}

	unlock()
	require.NoError(t, <-done)
	assert.Equal(t, 2, w.availableUnits(t, domain.TwoRoom))
}
