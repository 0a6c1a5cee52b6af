package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/linguamarket/linguamarket-api/internal/models"
	appErrors "github.com/linguamarket/linguamarket-api/pkg/errors"
	"github.com/linguamarket/linguamarket-api/pkg/jobs"
)

const assistantAuthorID = "assistant"

// AssistantConfig tunes reply simulation.
type AssistantConfig struct {
	ReplyDelay   time.Duration
	ReplyWorkers int
}

type replyPayload struct {
	ThreadID string
	Prompt   string
}

// AssistantService bridges structured assistant intents onto navigation and
// filter state, and runs the thread messaging simulation. It never sees
// natural-language intent parsing; intents arrive already structured.
type AssistantService struct {
	mu      sync.Mutex
	nav     models.NavigationState
	threads map[string][]models.ThreadMessage

	queue      *jobs.Queue
	replyDelay time.Duration

	events    *Notifier
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewAssistantService constructs an AssistantService with its own reply queue.
// Call Start before posting messages.
func NewAssistantService(cfg AssistantConfig, events *Notifier, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *AssistantService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ReplyDelay <= 0 {
		cfg.ReplyDelay = 2 * time.Second
	}

	s := &AssistantService{
		nav:        models.NavigationState{CurrentPage: "home"},
		threads:    make(map[string][]models.ThreadMessage),
		replyDelay: cfg.ReplyDelay,
		events:     events,
		metrics:    metrics,
		validator:  validate,
		logger:     logger,
		now:        time.Now,
	}
	s.queue = jobs.NewQueue("assistant-replies", s.handleReply, jobs.QueueConfig{
		Workers: cfg.ReplyWorkers,
		Logger:  logger,
	})
	return s
}

// Start launches the reply workers.
func (s *AssistantService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the reply workers.
func (s *AssistantService) Stop() {
	s.queue.Stop()
}

// ApplyIntent maps a structured intent onto navigation/filter state and
// returns the resulting state.
func (s *AssistantService) ApplyIntent(ctx context.Context, intent models.Intent) (*models.NavigationState, []models.Notification, error) {
	if err := s.validator.Struct(intent); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid intent payload")
	}

	s.mu.Lock()
	switch intent.Type {
	case models.IntentNavigate:
		if intent.Target == "" {
			s.mu.Unlock()
			return nil, nil, appErrors.Clone(appErrors.ErrValidation, "navigate intent requires a target")
		}
		s.nav.CurrentPage = intent.Target
	case models.IntentFilterTeachers:
		s.nav.CurrentPage = "teachers"
		s.nav.TeacherFilter = models.TeacherFilter{Niche: intent.Niche, MaxPrice: intent.MaxPrice}
	case models.IntentFilterCourses:
		s.nav.CurrentPage = "courses"
		s.nav.CourseFilter = models.CourseFilter{Topic: intent.Topic, Level: intent.Level}
	}
	state := s.nav
	s.mu.Unlock()

	s.metrics.RecordOperation("assistant_intent", true)
	events := []models.Notification{s.events.Publish(models.NotificationInfo,
		fmt.Sprintf("Showing %s", state.CurrentPage))}
	return &state, events, nil
}

// State returns the current navigation/filter state.
func (s *AssistantService) State(ctx context.Context) models.NavigationState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nav
}

// PostMessage appends the actor's message to a thread and schedules a
// simulated reply after a fixed delay. Replies are timed independently per
// message; two quick messages on the same thread can be answered out of
// order.
func (s *AssistantService) PostMessage(ctx context.Context, threadID, body string, actor models.UserInfo) (*models.ThreadMessage, []models.Notification, error) {
	if actor.ID == "" {
		return nil, nil, appErrors.Clone(appErrors.ErrUnauthorized, "sign in to send messages")
	}
	if threadID == "" || body == "" {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "thread id and body are required")
	}

	msg := models.ThreadMessage{
		ID:        uuid.NewString(),
		ThreadID:  threadID,
		AuthorID:  actor.ID,
		Body:      body,
		CreatedAt: s.now().UTC(),
	}
	s.mu.Lock()
	s.threads[threadID] = append(s.threads[threadID], msg)
	s.mu.Unlock()

	job := jobs.Job{
		ID:      uuid.NewString(),
		Type:    "assistant.reply",
		Payload: replyPayload{ThreadID: threadID, Prompt: body},
	}
	if err := s.queue.EnqueueAfter(job, s.replyDelay); err != nil {
		s.logger.Warn("failed to schedule reply", zap.String("thread_id", threadID), zap.Error(err))
	}

	s.metrics.RecordOperation("thread_message", true)
	events := []models.Notification{s.events.Publish(models.NotificationSuccess, "Message sent")}
	return &msg, events, nil
}

// Messages returns a thread's messages in arrival order.
func (s *AssistantService) Messages(ctx context.Context, threadID string) []models.ThreadMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := s.threads[threadID]
	out := make([]models.ThreadMessage, len(msgs))
	copy(out, msgs)
	return out
}

func (s *AssistantService) handleReply(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(replyPayload)
	if !ok {
		return fmt.Errorf("unexpected payload type %T", job.Payload)
	}

	reply := models.ThreadMessage{
		ID:        uuid.NewString(),
		ThreadID:  payload.ThreadID,
		AuthorID:  assistantAuthorID,
		Body:      fmt.Sprintf("Thanks for your message, a tutor will follow up on: %q", payload.Prompt),
		Simulated: true,
		CreatedAt: s.now().UTC(),
	}
	s.mu.Lock()
	s.threads[payload.ThreadID] = append(s.threads[payload.ThreadID], reply)
	s.mu.Unlock()
	return nil
}
