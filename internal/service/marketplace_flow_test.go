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

// Full happy path: book a lesson, run the live session, review it, and
// verify the reputation and feed effects land exactly once.
func TestBookingReviewFlow(t *testing.T) {
	entities := store.New()
	notifier := NewNotifier(0)
	metrics := NewMetricsService()

	entities.PutTeacher(models.Teacher{
		ID:         "tch-sarah",
		FullName:   "Sarah Connor",
		HourlyRate: 150,
		Verified:   true,
	})

	bookings := NewBookingService(entities, notifier, metrics, nil, zap.NewNop())
	reputation := NewReputationService(entities, notifier, metrics, nil, zap.NewNop())
	student := models.UserInfo{ID: "stu-1", FullName: "Alice Doe", Role: models.RoleStudent}

	booking, _, err := bookings.Create(context.Background(), CreateBookingRequest{
		TeacherID: "tch-sarah",
		Date:      "2026-09-15",
		Slot:      "10:00",
	}, student)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, booking.Status)
	assert.Equal(t, 150.0, booking.Price)

	_, _, err = bookings.JoinLiveSession(context.Background(), booking.ID)
	require.NoError(t, err)

	ended, events, err := bookings.EndLiveSession(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCompleted, ended.Status)
	require.Len(t, events, 2)
	assert.Equal(t, models.NotificationInfo, events[1].Kind)

	teacher, _, err := reputation.SubmitReview(context.Background(), SubmitReviewRequest{
		BookingID: booking.ID,
		Rating:    5,
		Comment:   "fantastic lesson",
	}, student)
	require.NoError(t, err)
	assert.Equal(t, 5.0, teacher.Rating)
	assert.Equal(t, 1, teacher.ReviewCount)

	reviewed, _ := entities.BookingByID(booking.ID)
	assert.True(t, reviewed.Reviewed)

	_, _, err = reputation.SubmitReview(context.Background(), SubmitReviewRequest{
		BookingID: booking.ID,
		Rating:    1,
	}, student)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrPreconditionFailed))

	feed := notifier.Feed(0)
	assert.NotEmpty(t, feed)
	assert.Equal(t, models.NotificationSuccess, feed[0].Kind)
}

// Disputing a completed lesson leaves the audit trail intact after
// resolution: the dispute closes, the booking never leaves DISPUTED.
func TestDisputeFlow(t *testing.T) {
	entities := store.New()
	notifier := NewNotifier(0)
	metrics := NewMetricsService()

	entities.PutTeacher(models.Teacher{ID: "tch-1", FullName: "Diego Ramirez", HourlyRate: 85})

	bookings := NewBookingService(entities, notifier, metrics, nil, zap.NewNop())
	disputes := NewDisputeService(entities, notifier, metrics, nil, zap.NewNop())
	student := models.UserInfo{ID: "stu-1", FullName: "Alice Doe", Role: models.RoleStudent}
	admin := models.UserInfo{ID: "adm-1", Role: models.RoleAdmin}

	booking, _, err := bookings.Create(context.Background(), CreateBookingRequest{
		TeacherID: "tch-1", Date: "2026-09-16", Slot: "14:00",
	}, student)
	require.NoError(t, err)

	_, _, err = bookings.CompleteLesson(context.Background(), booking.ID)
	require.NoError(t, err)

	dispute, _, err := disputes.File(context.Background(), booking.ID, FileDisputeRequest{
		Reason:      models.DisputeReasonQuality,
		Description: "half the lesson was missing",
	}, student)
	require.NoError(t, err)
	assert.Equal(t, "Diego Ramirez", dispute.RespondentName)

	resolved, _, err := disputes.Resolve(context.Background(), dispute.ID, ResolveDisputeRequest{
		Resolution: "partial refund",
	}, admin)
	require.NoError(t, err)
	assert.Equal(t, models.DisputeStatusResolved, resolved.Status)

	final, _ := entities.BookingByID(booking.ID)
	assert.Equal(t, models.BookingStatusDisputed, final.Status)
}
