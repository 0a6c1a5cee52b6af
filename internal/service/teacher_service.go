package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/linguamarket/linguamarket-api/internal/models"
	appErrors "github.com/linguamarket/linguamarket-api/pkg/errors"
)

type teacherStore interface {
	TeacherByID(id string) (models.Teacher, bool)
	PutTeacher(t models.Teacher)
	RemoveTeacher(id string) bool
	Teachers() []models.Teacher
}

// RegisterTeacherRequest represents payload for registering a teacher.
type RegisterTeacherRequest struct {
	FullName   string   `json:"full_name" validate:"required"`
	Email      string   `json:"email" validate:"required,email"`
	Niches     []string `json:"niches" validate:"omitempty,dive,required"`
	HourlyRate float64  `json:"hourly_rate" validate:"required,gt=0"`
}

// UpdateRateRequest changes a teacher's hourly rate. Existing bookings keep
// their snapshotted price.
type UpdateRateRequest struct {
	HourlyRate float64 `json:"hourly_rate" validate:"required,gt=0"`
}

// UpdateAvailabilityRequest replaces the weekly availability map.
type UpdateAvailabilityRequest struct {
	Availability map[string][]string `json:"availability" validate:"required"`
}

// TeacherService manages the marketplace teacher roster.
type TeacherService struct {
	store     teacherStore
	events    *Notifier
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTeacherService constructs a TeacherService.
func NewTeacherService(store teacherStore, events *Notifier, validate *validator.Validate, logger *zap.Logger) *TeacherService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherService{store: store, events: events, validator: validate, logger: logger}
}

// List returns teachers matching the filter.
func (s *TeacherService) List(ctx context.Context, filter models.TeacherFilter) []models.Teacher {
	all := s.store.Teachers()
	out := make([]models.Teacher, 0, len(all))
	for _, t := range all {
		if filter.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// Get returns a teacher by id.
func (s *TeacherService) Get(ctx context.Context, id string) (*models.Teacher, error) {
	teacher, ok := s.store.TeacherByID(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
	}
	return &teacher, nil
}

// Register adds a new, unverified teacher to the roster.
func (s *TeacherService) Register(ctx context.Context, req RegisterTeacherRequest) (*models.Teacher, []models.Notification, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload")
	}

	now := time.Now().UTC()
	teacher := models.Teacher{
		ID:         uuid.NewString(),
		FullName:   strings.TrimSpace(req.FullName),
		Email:      strings.ToLower(strings.TrimSpace(req.Email)),
		Niches:     req.Niches,
		HourlyRate: req.HourlyRate,
		Verified:   false,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.store.PutTeacher(teacher)

	events := []models.Notification{s.events.Publish(models.NotificationSuccess, "Teacher profile created, pending verification")}
	return &teacher, events, nil
}

// Verify marks a teacher as verified. Admin only (gated upstream).
func (s *TeacherService) Verify(ctx context.Context, id string) (*models.Teacher, []models.Notification, error) {
	teacher, ok := s.store.TeacherByID(id)
	if !ok {
		events := []models.Notification{s.events.Publish(models.NotificationError, "Teacher not found")}
		return nil, events, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
	}
	if teacher.Verified {
		events := []models.Notification{s.events.Publish(models.NotificationInfo, "Teacher already verified")}
		return &teacher, events, nil
	}
	teacher.Verified = true
	teacher.UpdatedAt = time.Now().UTC()
	s.store.PutTeacher(teacher)

	events := []models.Notification{s.events.Publish(models.NotificationSuccess, teacher.FullName+" verified")}
	return &teacher, events, nil
}

// UpdateRate changes the hourly rate. Snapshots inside existing bookings are
// unaffected.
func (s *TeacherService) UpdateRate(ctx context.Context, id string, req UpdateRateRequest) (*models.Teacher, []models.Notification, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid rate payload")
	}
	teacher, ok := s.store.TeacherByID(id)
	if !ok {
		events := []models.Notification{s.events.Publish(models.NotificationError, "Teacher not found")}
		return nil, events, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
	}
	teacher.HourlyRate = req.HourlyRate
	teacher.UpdatedAt = time.Now().UTC()
	s.store.PutTeacher(teacher)

	events := []models.Notification{s.events.Publish(models.NotificationSuccess, "Hourly rate updated")}
	return &teacher, events, nil
}

// UpdateAvailability replaces the weekly availability map.
func (s *TeacherService) UpdateAvailability(ctx context.Context, id string, req UpdateAvailabilityRequest) (*models.Teacher, []models.Notification, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid availability payload")
	}
	teacher, ok := s.store.TeacherByID(id)
	if !ok {
		events := []models.Notification{s.events.Publish(models.NotificationError, "Teacher not found")}
		return nil, events, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
	}
	teacher.Availability = req.Availability
	teacher.UpdatedAt = time.Now().UTC()
	s.store.PutTeacher(teacher)

	events := []models.Notification{s.events.Publish(models.NotificationSuccess, "Availability updated")}
	return &teacher, events, nil
}

// Remove deletes a teacher from the roster. Admin only (gated upstream).
func (s *TeacherService) Remove(ctx context.Context, id string) ([]models.Notification, error) {
	if !s.store.RemoveTeacher(id) {
		events := []models.Notification{s.events.Publish(models.NotificationError, "Teacher not found")}
		return events, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
	}
	events := []models.Notification{s.events.Publish(models.NotificationSuccess, "Teacher removed")}
	return events, nil
}
