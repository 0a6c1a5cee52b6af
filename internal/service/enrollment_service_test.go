package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/linguamarket/linguamarket-api/internal/models"
	"github.com/linguamarket/linguamarket-api/internal/store"
	appErrors "github.com/linguamarket/linguamarket-api/pkg/errors"
)

type fakeRenderer struct {
	rendered []models.CertificateData
	err      error
}

func (f *fakeRenderer) Render(data models.CertificateData) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.rendered = append(f.rendered, data)
	return []byte("%PDF-fake"), nil
}

type fakeStorage struct {
	saved map[string][]byte
}

func (f *fakeStorage) Save(filename string, data []byte) (string, error) {
	if f.saved == nil {
		f.saved = make(map[string][]byte)
	}
	f.saved[filename] = data
	return filename, nil
}

type fakeSigner struct{}

func (fakeSigner) Generate(certID, relPath string) (string, time.Time, error) {
	return "token-" + certID, time.Now().Add(time.Hour), nil
}

func newEnrollmentFixture(t *testing.T) (*store.Store, *EnrollmentService) {
	t.Helper()
	entities := store.New()
	entities.ReplaceCourses([]models.Course{{
		ID:    "crs-spanish",
		Title: "Spanish Basics",
		Topic: "spanish",
		Level: "beginner",
		Modules: []models.CourseModule{
			{ID: "m1", Title: "Greetings", LessonIDs: []string{"l1", "l2"}},
			{ID: "m2", Title: "Numbers", LessonIDs: []string{"l3", "l4"}},
		},
	}})
	svc := NewEnrollmentService(entities, NewNotifier(0), NewMetricsService(), nil, nil, nil, nil, zap.NewNop())
	return entities, svc
}

func enrolledActor() models.UserInfo {
	return models.UserInfo{ID: "stu-1", FullName: "Alice Doe", Role: models.RoleStudent}
}

func TestPurchaseCourse(t *testing.T) {
	_, svc := newEnrollmentFixture(t)

	result, events, err := svc.Purchase(context.Background(), "crs-spanish", enrolledActor())
	require.NoError(t, err)
	assert.False(t, result.AlreadyOwned)
	require.Len(t, events, 1)
	assert.Equal(t, models.NotificationSuccess, events[0].Kind)
}

func TestPurchaseCourseAlreadyOwned(t *testing.T) {
	_, svc := newEnrollmentFixture(t)
	actor := enrolledActor()

	_, _, err := svc.Purchase(context.Background(), "crs-spanish", actor)
	require.NoError(t, err)

	result, events, err := svc.Purchase(context.Background(), "crs-spanish", actor)
	require.NoError(t, err)
	assert.True(t, result.AlreadyOwned)
	require.Len(t, events, 1)
	assert.Equal(t, models.NotificationInfo, events[0].Kind)

	owned, err := svc.Owned(context.Background(), actor)
	require.NoError(t, err)
	assert.Equal(t, []string{"crs-spanish"}, owned)
}

func TestPurchaseUnknownCourse(t *testing.T) {
	_, svc := newEnrollmentFixture(t)

	_, _, err := svc.Purchase(context.Background(), "crs-nope", enrolledActor())
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestCompleteLessonIdempotentProgress(t *testing.T) {
	_, svc := newEnrollmentFixture(t)
	actor := enrolledActor()

	progress, _, err := svc.CompleteLesson(context.Background(), "crs-spanish", CompleteLessonRequest{LessonID: "l1"}, actor)
	require.NoError(t, err)
	assert.Equal(t, []string{"l1"}, progress.CompletedLessons)
	assert.Equal(t, 4, progress.TotalLessons)
	assert.InDelta(t, 25.0, progress.PercentComplete, 0.01)

	progress, events, err := svc.CompleteLesson(context.Background(), "crs-spanish", CompleteLessonRequest{LessonID: "l1"}, actor)
	require.NoError(t, err)
	assert.Equal(t, []string{"l1"}, progress.CompletedLessons)
	assert.InDelta(t, 25.0, progress.PercentComplete, 0.01)
	require.Len(t, events, 1)
	assert.Equal(t, models.NotificationInfo, events[0].Kind)
}

func TestProgressAcrossModules(t *testing.T) {
	_, svc := newEnrollmentFixture(t)
	actor := enrolledActor()

	for _, lesson := range []string{"l1", "l2", "l3"} {
		_, _, err := svc.CompleteLesson(context.Background(), "crs-spanish", CompleteLessonRequest{LessonID: lesson}, actor)
		require.NoError(t, err)
	}

	progress, err := svc.Progress(context.Background(), "crs-spanish", actor)
	require.NoError(t, err)
	assert.Equal(t, []string{"l1", "l2", "l3"}, progress.CompletedLessons)
	assert.InDelta(t, 75.0, progress.PercentComplete, 0.01)
}

func TestIssueCertificateRequiresOwnership(t *testing.T) {
	_, svc := newEnrollmentFixture(t)

	_, _, err := svc.IssueCertificate(context.Background(), "crs-spanish", enrolledActor())
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrPreconditionFailed))
}

func TestIssueCertificateCarriesCompletionRatio(t *testing.T) {
	_, svc := newEnrollmentFixture(t)
	actor := enrolledActor()

	_, _, err := svc.Purchase(context.Background(), "crs-spanish", actor)
	require.NoError(t, err)
	_, _, err = svc.CompleteLesson(context.Background(), "crs-spanish", CompleteLessonRequest{LessonID: "l1"}, actor)
	require.NoError(t, err)

	result, events, err := svc.IssueCertificate(context.Background(), "crs-spanish", actor)
	require.NoError(t, err)

	assert.Equal(t, "Alice Doe", result.Certificate.StudentName)
	assert.Equal(t, "Spanish Basics", result.Certificate.CourseTitle)
	assert.InDelta(t, 25.0, result.Certificate.PercentComplete, 0.01)
	assert.False(t, result.Certificate.IssueDate.IsZero())
	assert.Empty(t, result.DownloadToken)
	require.Len(t, events, 1)
	assert.Equal(t, models.NotificationSuccess, events[0].Kind)
}

func TestIssueCertificateRendersAndSigns(t *testing.T) {
	entities, _ := newEnrollmentFixture(t)
	renderer := &fakeRenderer{}
	fs := &fakeStorage{}
	svc := NewEnrollmentService(entities, NewNotifier(0), NewMetricsService(), renderer, fs, fakeSigner{}, nil, zap.NewNop())
	actor := enrolledActor()

	_, _, err := svc.Purchase(context.Background(), "crs-spanish", actor)
	require.NoError(t, err)

	result, _, err := svc.IssueCertificate(context.Background(), "crs-spanish", actor)
	require.NoError(t, err)

	assert.NotEmpty(t, result.DownloadToken)
	require.NotNil(t, result.ExpiresAt)
	require.Len(t, renderer.rendered, 1)
	require.Len(t, fs.saved, 1)
	for path, data := range fs.saved {
		assert.Contains(t, path, actor.ID+"/")
		assert.Equal(t, []byte("%PDF-fake"), data)
	}
}

func TestIssueCertificateRenderFailure(t *testing.T) {
	entities, _ := newEnrollmentFixture(t)
	renderer := &fakeRenderer{err: errors.New("pdf boom")}
	svc := NewEnrollmentService(entities, NewNotifier(0), NewMetricsService(), renderer, &fakeStorage{}, fakeSigner{}, nil, zap.NewNop())
	actor := enrolledActor()

	_, _, err := svc.Purchase(context.Background(), "crs-spanish", actor)
	require.NoError(t, err)

	_, _, err = svc.IssueCertificate(context.Background(), "crs-spanish", actor)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrInternal))
}

func TestListCoursesFilter(t *testing.T) {
	_, svc := newEnrollmentFixture(t)

	all := svc.ListCourses(context.Background(), models.CourseFilter{})
	require.Len(t, all, 1)

	none := svc.ListCourses(context.Background(), models.CourseFilter{Topic: "french"})
	assert.Empty(t, none)
}
