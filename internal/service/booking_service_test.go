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

func newBookingFixture(t *testing.T) (*store.Store, *BookingService) {
	t.Helper()
	entities := store.New()
	entities.PutTeacher(models.Teacher{
		ID:         "tch-sarah",
		FullName:   "Sarah Connor",
		HourlyRate: 150,
		Verified:   true,
	})
	svc := NewBookingService(entities, NewNotifier(0), NewMetricsService(), nil, zap.NewNop())
	return entities, svc
}

func studentActor() models.UserInfo {
	return models.UserInfo{ID: "stu-1", FullName: "Alice Doe", Role: models.RoleStudent}
}

func TestCreateBookingSnapshotsTeacher(t *testing.T) {
	_, svc := newBookingFixture(t)

	booking, events, err := svc.Create(context.Background(), CreateBookingRequest{
		TeacherID: "tch-sarah",
		Date:      "2026-09-10",
		Slot:      "10:00",
	}, studentActor())
	require.NoError(t, err)

	assert.Equal(t, models.BookingStatusConfirmed, booking.Status)
	assert.Equal(t, "Sarah Connor", booking.TeacherName)
	assert.Equal(t, 150.0, booking.Price)
	assert.Equal(t, "stu-1", booking.StudentID)
	require.Len(t, events, 1)
	assert.Equal(t, models.NotificationSuccess, events[0].Kind)
}

func TestCreateBookingSnapshotSurvivesRateChange(t *testing.T) {
	entities, svc := newBookingFixture(t)
	teacherSvc := NewTeacherService(entities, NewNotifier(0), nil, zap.NewNop())

	booking, _, err := svc.Create(context.Background(), CreateBookingRequest{
		TeacherID: "tch-sarah", Date: "2026-09-10", Slot: "10:00",
	}, studentActor())
	require.NoError(t, err)

	_, _, err = teacherSvc.UpdateRate(context.Background(), "tch-sarah", UpdateRateRequest{HourlyRate: 300})
	require.NoError(t, err)

	stored, ok := entities.BookingByID(booking.ID)
	require.True(t, ok)
	assert.Equal(t, 150.0, stored.Price)
	assert.Equal(t, "Sarah Connor", stored.TeacherName)

	teacher, ok := entities.TeacherByID("tch-sarah")
	require.True(t, ok)
	assert.Equal(t, 300.0, teacher.HourlyRate)
}

func TestCreateBookingUnknownTeacher(t *testing.T) {
	_, svc := newBookingFixture(t)

	_, _, err := svc.Create(context.Background(), CreateBookingRequest{
		TeacherID: "nope", Date: "2026-09-10", Slot: "10:00",
	}, studentActor())
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestCreateBookingRequiresActor(t *testing.T) {
	_, svc := newBookingFixture(t)

	_, _, err := svc.Create(context.Background(), CreateBookingRequest{
		TeacherID: "tch-sarah", Date: "2026-09-10", Slot: "10:00",
	}, models.UserInfo{})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized))
}

func TestCompleteLessonIdempotent(t *testing.T) {
	_, svc := newBookingFixture(t)
	booking, _, err := svc.Create(context.Background(), CreateBookingRequest{
		TeacherID: "tch-sarah", Date: "2026-09-10", Slot: "10:00",
	}, studentActor())
	require.NoError(t, err)

	first, _, err := svc.CompleteLesson(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCompleted, first.Status)

	second, events, err := svc.CompleteLesson(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCompleted, second.Status)
	require.Len(t, events, 1)
	assert.Equal(t, models.NotificationInfo, events[0].Kind)
}

func TestCompleteLessonDisputedStaysDisputed(t *testing.T) {
	entities, svc := newBookingFixture(t)
	booking, _, err := svc.Create(context.Background(), CreateBookingRequest{
		TeacherID: "tch-sarah", Date: "2026-09-10", Slot: "10:00",
	}, studentActor())
	require.NoError(t, err)

	booking.Status = models.BookingStatusDisputed
	entities.PutBooking(*booking)

	got, _, err := svc.CompleteLesson(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusDisputed, got.Status)
}

func TestJoinLiveSessionKeepsStatus(t *testing.T) {
	_, svc := newBookingFixture(t)
	booking, _, err := svc.Create(context.Background(), CreateBookingRequest{
		TeacherID: "tch-sarah", Date: "2026-09-10", Slot: "10:00",
	}, studentActor())
	require.NoError(t, err)

	got, _, err := svc.JoinLiveSession(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, got.Status)
}

func TestEndLiveSessionCompletesAndRequestsReview(t *testing.T) {
	_, svc := newBookingFixture(t)
	booking, _, err := svc.Create(context.Background(), CreateBookingRequest{
		TeacherID: "tch-sarah", Date: "2026-09-10", Slot: "10:00",
	}, studentActor())
	require.NoError(t, err)

	got, events, err := svc.EndLiveSession(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCompleted, got.Status)

	require.Len(t, events, 2)
	assert.Equal(t, models.NotificationSuccess, events[0].Kind)
	assert.Equal(t, models.NotificationInfo, events[1].Kind)
	assert.Contains(t, events[1].Message, booking.ID)
}

func TestEndLiveSessionSkipsReviewRequestWhenReviewed(t *testing.T) {
	entities, svc := newBookingFixture(t)
	booking, _, err := svc.Create(context.Background(), CreateBookingRequest{
		TeacherID: "tch-sarah", Date: "2026-09-10", Slot: "10:00",
	}, studentActor())
	require.NoError(t, err)

	booking.Status = models.BookingStatusCompleted
	booking.Reviewed = true
	entities.PutBooking(*booking)

	_, events, err := svc.EndLiveSession(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Empty(t, events)
}
