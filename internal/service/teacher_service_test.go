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

func newTeacherFixture(t *testing.T) (*store.Store, *TeacherService) {
	t.Helper()
	entities := store.New()
	svc := NewTeacherService(entities, NewNotifier(0), nil, zap.NewNop())
	return entities, svc
}

func TestRegisterTeacherStartsUnverified(t *testing.T) {
	_, svc := newTeacherFixture(t)

	teacher, events, err := svc.Register(context.Background(), RegisterTeacherRequest{
		FullName:   "Amelie Laurent",
		Email:      "Amelie@Example.Com",
		Niches:     []string{"french"},
		HourlyRate: 110,
	})
	require.NoError(t, err)

	assert.False(t, teacher.Verified)
	assert.Equal(t, "amelie@example.com", teacher.Email)
	assert.Equal(t, 0, teacher.ReviewCount)
	require.Len(t, events, 1)
}

func TestRegisterTeacherValidation(t *testing.T) {
	_, svc := newTeacherFixture(t)

	_, _, err := svc.Register(context.Background(), RegisterTeacherRequest{
		FullName: "No Rate", Email: "norate@example.com",
	})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestVerifyTeacherIdempotent(t *testing.T) {
	entities, svc := newTeacherFixture(t)
	entities.PutTeacher(models.Teacher{ID: "t1", FullName: "Diego Ramirez"})

	first, _, err := svc.Verify(context.Background(), "t1")
	require.NoError(t, err)
	assert.True(t, first.Verified)

	second, events, err := svc.Verify(context.Background(), "t1")
	require.NoError(t, err)
	assert.True(t, second.Verified)
	require.Len(t, events, 1)
	assert.Equal(t, models.NotificationInfo, events[0].Kind)
}

func TestListTeachersFiltered(t *testing.T) {
	entities, svc := newTeacherFixture(t)
	verified := true
	entities.PutTeacher(models.Teacher{ID: "t1", Niches: []string{"spanish"}, HourlyRate: 85, Verified: true})
	entities.PutTeacher(models.Teacher{ID: "t2", Niches: []string{"business-english"}, HourlyRate: 150, Verified: true})
	entities.PutTeacher(models.Teacher{ID: "t3", Niches: []string{"spanish"}, HourlyRate: 200, Verified: false})

	spanish := svc.List(context.Background(), models.TeacherFilter{Niche: "spanish"})
	assert.Len(t, spanish, 2)

	affordable := svc.List(context.Background(), models.TeacherFilter{Niche: "spanish", MaxPrice: 100})
	require.Len(t, affordable, 1)
	assert.Equal(t, "t1", affordable[0].ID)

	verifiedOnly := svc.List(context.Background(), models.TeacherFilter{Verified: &verified})
	assert.Len(t, verifiedOnly, 2)
}

func TestUpdateAvailability(t *testing.T) {
	entities, svc := newTeacherFixture(t)
	entities.PutTeacher(models.Teacher{ID: "t1"})

	availability := map[string][]string{"monday": {"09:00", "10:00"}}
	teacher, _, err := svc.UpdateAvailability(context.Background(), "t1", UpdateAvailabilityRequest{Availability: availability})
	require.NoError(t, err)
	assert.Equal(t, availability, teacher.Availability)
}

func TestRemoveTeacherNotFound(t *testing.T) {
	_, svc := newTeacherFixture(t)

	_, err := svc.Remove(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}
