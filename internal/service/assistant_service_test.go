package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/linguamarket/linguamarket-api/internal/models"
	appErrors "github.com/linguamarket/linguamarket-api/pkg/errors"
)

func newAssistantFixture(t *testing.T, delay time.Duration) *AssistantService {
	t.Helper()
	svc := NewAssistantService(AssistantConfig{ReplyDelay: delay, ReplyWorkers: 2}, NewNotifier(0), NewMetricsService(), nil, zap.NewNop())
	svc.Start(context.Background())
	t.Cleanup(svc.Stop)
	return svc
}

func TestApplyIntentNavigate(t *testing.T) {
	svc := newAssistantFixture(t, time.Second)

	state, events, err := svc.ApplyIntent(context.Background(), models.Intent{
		Type: models.IntentNavigate, Target: "dashboard",
	})
	require.NoError(t, err)
	assert.Equal(t, "dashboard", state.CurrentPage)
	require.Len(t, events, 1)
	assert.Equal(t, models.NotificationInfo, events[0].Kind)
}

func TestApplyIntentNavigateRequiresTarget(t *testing.T) {
	svc := newAssistantFixture(t, time.Second)

	_, _, err := svc.ApplyIntent(context.Background(), models.Intent{Type: models.IntentNavigate})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestApplyIntentFilterTeachers(t *testing.T) {
	svc := newAssistantFixture(t, time.Second)

	state, _, err := svc.ApplyIntent(context.Background(), models.Intent{
		Type: models.IntentFilterTeachers, Niche: "spanish", MaxPrice: 100,
	})
	require.NoError(t, err)
	assert.Equal(t, "teachers", state.CurrentPage)
	assert.Equal(t, "spanish", state.TeacherFilter.Niche)
	assert.Equal(t, 100.0, state.TeacherFilter.MaxPrice)
}

func TestApplyIntentFilterCourses(t *testing.T) {
	svc := newAssistantFixture(t, time.Second)

	state, _, err := svc.ApplyIntent(context.Background(), models.Intent{
		Type: models.IntentFilterCourses, Topic: "spanish", Level: "beginner",
	})
	require.NoError(t, err)
	assert.Equal(t, "courses", state.CurrentPage)
	assert.Equal(t, "spanish", state.CourseFilter.Topic)
	assert.Equal(t, "beginner", state.CourseFilter.Level)

	got := svc.State(context.Background())
	assert.Equal(t, state.CurrentPage, got.CurrentPage)
}

func TestApplyIntentUnknownType(t *testing.T) {
	svc := newAssistantFixture(t, time.Second)

	_, _, err := svc.ApplyIntent(context.Background(), models.Intent{Type: "teleport"})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestPostMessageSchedulesSimulatedReply(t *testing.T) {
	svc := newAssistantFixture(t, 10*time.Millisecond)
	actor := models.UserInfo{ID: "stu-1", FullName: "Alice Doe"}

	msg, events, err := svc.PostMessage(context.Background(), "thr-1", "hola, profe", actor)
	require.NoError(t, err)
	assert.Equal(t, "stu-1", msg.AuthorID)
	assert.False(t, msg.Simulated)
	require.Len(t, events, 1)

	require.Eventually(t, func() bool {
		return len(svc.Messages(context.Background(), "thr-1")) == 2
	}, time.Second, 10*time.Millisecond)

	msgs := svc.Messages(context.Background(), "thr-1")
	assert.Equal(t, assistantAuthorID, msgs[1].AuthorID)
	assert.True(t, msgs[1].Simulated)
}

// Replies are timed independently per message, so quick successive posts can
// be answered in any order. Only the eventual count is guaranteed.
func TestPostMessageRepliesUnserialized(t *testing.T) {
	svc := newAssistantFixture(t, 5*time.Millisecond)
	actor := models.UserInfo{ID: "stu-1"}

	_, _, err := svc.PostMessage(context.Background(), "thr-1", "first", actor)
	require.NoError(t, err)
	_, _, err = svc.PostMessage(context.Background(), "thr-1", "second", actor)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return len(svc.Messages(context.Background(), "thr-1")) == 4
	}, time.Second, 5*time.Millisecond)

	simulated := 0
	for _, m := range svc.Messages(context.Background(), "thr-1") {
		if m.Simulated {
			simulated++
		}
	}
	assert.Equal(t, 2, simulated)
}

func TestPostMessageRequiresActorAndBody(t *testing.T) {
	svc := newAssistantFixture(t, time.Second)

	_, _, err := svc.PostMessage(context.Background(), "thr-1", "hello", models.UserInfo{})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized))

	_, _, err = svc.PostMessage(context.Background(), "thr-1", "", models.UserInfo{ID: "stu-1"})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}
