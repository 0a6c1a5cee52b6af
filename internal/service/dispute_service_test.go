package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/linguamarket/linguamarket-api/internal/models"
	"github.com/linguamarket/linguamarket-api/internal/store"
	appErrors "github.com/linguamarket/linguamarket-api/pkg/errors"
)

func newDisputeFixture(t *testing.T, status models.BookingStatus) (*store.Store, *DisputeService) {
	t.Helper()
	entities := store.New()
	entities.PutBooking(models.Booking{
		ID:          "bkg-1",
		TeacherID:   "tch-1",
		StudentID:   "stu-1",
		TeacherName: "Sarah Connor",
		Price:       150,
		Status:      status,
	})
	svc := NewDisputeService(entities, NewNotifier(0), NewMetricsService(), nil, zap.NewNop())
	return entities, svc
}

func TestFileDisputeFromConfirmed(t *testing.T) {
	entities, svc := newDisputeFixture(t, models.BookingStatusConfirmed)

	dispute, events, err := svc.File(context.Background(), "bkg-1", FileDisputeRequest{
		Reason:      models.DisputeReasonNoShow,
		Description: "teacher never joined",
	}, models.UserInfo{ID: "stu-1"})
	require.NoError(t, err)

	assert.Equal(t, models.DisputeStatusOpen, dispute.Status)
	assert.Equal(t, "Sarah Connor", dispute.RespondentName)
	assert.Equal(t, "stu-1", dispute.ReporterID)

	booking, _ := entities.BookingByID("bkg-1")
	assert.Equal(t, models.BookingStatusDisputed, booking.Status)

	require.Len(t, events, 1)
	assert.Equal(t, models.NotificationInfo, events[0].Kind)
}

func TestFileDisputeFromCompleted(t *testing.T) {
	entities, svc := newDisputeFixture(t, models.BookingStatusCompleted)

	_, _, err := svc.File(context.Background(), "bkg-1", FileDisputeRequest{
		Reason:      models.DisputeReasonQuality,
		Description: "lesson was half the booked time",
	}, models.UserInfo{ID: "stu-1"})
	require.NoError(t, err)

	booking, _ := entities.BookingByID("bkg-1")
	assert.Equal(t, models.BookingStatusDisputed, booking.Status)
}

func TestFileDisputeTwiceRejected(t *testing.T) {
	_, svc := newDisputeFixture(t, models.BookingStatusConfirmed)
	actor := models.UserInfo{ID: "stu-1"}

	_, _, err := svc.File(context.Background(), "bkg-1", FileDisputeRequest{
		Reason: models.DisputeReasonNoShow, Description: "no show",
	}, actor)
	require.NoError(t, err)

	_, _, err = svc.File(context.Background(), "bkg-1", FileDisputeRequest{
		Reason: models.DisputeReasonNoShow, Description: "still no show",
	}, actor)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrPreconditionFailed))
}

func TestFileDisputeUnknownReason(t *testing.T) {
	_, svc := newDisputeFixture(t, models.BookingStatusConfirmed)

	_, _, err := svc.File(context.Background(), "bkg-1", FileDisputeRequest{
		Reason: "BAD_VIBES", Description: "not a real reason",
	}, models.UserInfo{ID: "stu-1"})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestResolveDisputeKeepsBookingDisputed(t *testing.T) {
	entities, svc := newDisputeFixture(t, models.BookingStatusConfirmed)

	dispute, _, err := svc.File(context.Background(), "bkg-1", FileDisputeRequest{
		Reason: models.DisputeReasonBilling, Description: "charged twice",
	}, models.UserInfo{ID: "stu-1"})
	require.NoError(t, err)

	resolved, events, err := svc.Resolve(context.Background(), dispute.ID, ResolveDisputeRequest{
		Resolution: "refund issued",
	}, models.UserInfo{ID: "adm-1", Role: models.RoleAdmin})
	require.NoError(t, err)

	assert.Equal(t, models.DisputeStatusResolved, resolved.Status)
	require.NotNil(t, resolved.Resolution)
	assert.Equal(t, "refund issued", *resolved.Resolution)
	require.NotNil(t, resolved.ResolvedAt)
	require.Len(t, events, 1)

	// the booking stays DISPUTED as the audit marker
	booking, _ := entities.BookingByID("bkg-1")
	assert.Equal(t, models.BookingStatusDisputed, booking.Status)
}

func TestResolveDisputeRequiresAdmin(t *testing.T) {
	_, svc := newDisputeFixture(t, models.BookingStatusConfirmed)

	dispute, _, err := svc.File(context.Background(), "bkg-1", FileDisputeRequest{
		Reason: models.DisputeReasonOther, Description: "misc",
	}, models.UserInfo{ID: "stu-1"})
	require.NoError(t, err)

	_, _, err = svc.Resolve(context.Background(), dispute.ID, ResolveDisputeRequest{
		Resolution: "done",
	}, models.UserInfo{ID: "stu-1", Role: models.RoleStudent})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrForbidden))
}

func TestResolveDisputeTwiceRejected(t *testing.T) {
	_, svc := newDisputeFixture(t, models.BookingStatusConfirmed)
	admin := models.UserInfo{ID: "adm-1", Role: models.RoleAdmin}

	dispute, _, err := svc.File(context.Background(), "bkg-1", FileDisputeRequest{
		Reason: models.DisputeReasonTechnical, Description: "audio broken",
	}, models.UserInfo{ID: "stu-1"})
	require.NoError(t, err)

	_, _, err = svc.Resolve(context.Background(), dispute.ID, ResolveDisputeRequest{Resolution: "credit granted"}, admin)
	require.NoError(t, err)

	_, _, err = svc.Resolve(context.Background(), dispute.ID, ResolveDisputeRequest{Resolution: "again"}, admin)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrPreconditionFailed))
}
