package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/linguamarket/linguamarket-api/internal/models"
	appErrors "github.com/linguamarket/linguamarket-api/pkg/errors"
)

type bookingStore interface {
	TeacherByID(id string) (models.Teacher, bool)
	BookingByID(id string) (models.Booking, bool)
	PutBooking(b models.Booking)
	Bookings() []models.Booking
	BookingsByStudent(studentID string) []models.Booking
}

// CreateBookingRequest reserves a slot with a teacher.
type CreateBookingRequest struct {
	TeacherID string `json:"teacher_id" validate:"required"`
	Date      string `json:"date" validate:"required"`
	Slot      string `json:"slot" validate:"required"`
}

// BookingService is the booking lifecycle engine. All transitions are pure,
// synchronous, local mutations; no network calls happen here.
type BookingService struct {
	store     bookingStore
	events    *Notifier
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBookingService constructs a BookingService.
func NewBookingService(store bookingStore, events *Notifier, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *BookingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingService{store: store, events: events, metrics: metrics, validator: validate, logger: logger}
}

// Create reserves a confirmed booking. The teacher's name and current hourly
// rate are copied into the booking; later teacher edits never reach it.
func (s *BookingService) Create(ctx context.Context, req CreateBookingRequest, actor models.UserInfo) (*models.Booking, []models.Notification, error) {
	if actor.ID == "" {
		return nil, nil, appErrors.Clone(appErrors.ErrUnauthorized, "sign in to book a lesson")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid booking payload")
	}

	teacher, ok := s.store.TeacherByID(req.TeacherID)
	if !ok {
		s.metrics.RecordOperation("booking_create", false)
		events := []models.Notification{s.events.Publish(models.NotificationError, "Teacher not found")}
		return nil, events, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
	}

	booking := models.Booking{
		ID:          uuid.NewString(),
		TeacherID:   teacher.ID,
		StudentID:   actor.ID,
		TeacherName: teacher.FullName,
		Price:       teacher.HourlyRate,
		Date:        req.Date,
		Slot:        req.Slot,
		Status:      models.BookingStatusConfirmed,
		CreatedAt:   time.Now().UTC(),
	}
	s.store.PutBooking(booking)
	s.metrics.RecordOperation("booking_create", true)

	events := []models.Notification{s.events.Publish(models.NotificationSuccess,
		fmt.Sprintf("Lesson booked with %s on %s at %s", booking.TeacherName, booking.Date, booking.Slot))}
	return &booking, events, nil
}

// Get returns a booking by id.
func (s *BookingService) Get(ctx context.Context, id string) (*models.Booking, error) {
	booking, ok := s.store.BookingByID(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "booking not found")
	}
	return &booking, nil
}

// List returns all bookings, newest first.
func (s *BookingService) List(ctx context.Context) []models.Booking {
	return s.store.Bookings()
}

// ListByStudent returns one student's bookings, newest first.
func (s *BookingService) ListByStudent(ctx context.Context, studentID string) []models.Booking {
	return s.store.BookingsByStudent(studentID)
}

// CompleteLesson transitions CONFIRMED→COMPLETED. Completing an already
// completed booking is a no-op; a disputed booking keeps its status.
func (s *BookingService) CompleteLesson(ctx context.Context, bookingID string) (*models.Booking, []models.Notification, error) {
	booking, ok := s.store.BookingByID(bookingID)
	if !ok {
		events := []models.Notification{s.events.Publish(models.NotificationError, "Booking not found")}
		return nil, events, appErrors.Clone(appErrors.ErrNotFound, "booking not found")
	}

	switch booking.Status {
	case models.BookingStatusCompleted:
		events := []models.Notification{s.events.Publish(models.NotificationInfo, "Lesson already completed")}
		return &booking, events, nil
	case models.BookingStatusDisputed:
		events := []models.Notification{s.events.Publish(models.NotificationInfo, "Booking is disputed, status unchanged")}
		return &booking, events, nil
	}

	booking.Status = models.BookingStatusCompleted
	s.store.PutBooking(booking)
	s.metrics.RecordOperation("lesson_complete", true)

	events := []models.Notification{s.events.Publish(models.NotificationSuccess, "Lesson completed")}
	return &booking, events, nil
}

// JoinLiveSession marks session attendance. Joining never changes the
// booking status.
func (s *BookingService) JoinLiveSession(ctx context.Context, bookingID string) (*models.Booking, []models.Notification, error) {
	booking, ok := s.store.BookingByID(bookingID)
	if !ok {
		events := []models.Notification{s.events.Publish(models.NotificationError, "Booking not found")}
		return nil, events, appErrors.Clone(appErrors.ErrNotFound, "booking not found")
	}
	events := []models.Notification{s.events.Publish(models.NotificationInfo,
		fmt.Sprintf("Joined live session with %s", booking.TeacherName))}
	return &booking, events, nil
}

// EndLiveSession completes a confirmed booking and asks the student for a
// review of that booking.
func (s *BookingService) EndLiveSession(ctx context.Context, bookingID string) (*models.Booking, []models.Notification, error) {
	booking, ok := s.store.BookingByID(bookingID)
	if !ok {
		events := []models.Notification{s.events.Publish(models.NotificationError, "Booking not found")}
		return nil, events, appErrors.Clone(appErrors.ErrNotFound, "booking not found")
	}

	var events []models.Notification
	if booking.Status == models.BookingStatusConfirmed {
		booking.Status = models.BookingStatusCompleted
		s.store.PutBooking(booking)
		s.metrics.RecordOperation("lesson_complete", true)
		events = append(events, s.events.Publish(models.NotificationSuccess, "Lesson completed"))
	}
	if booking.Status == models.BookingStatusCompleted && !booking.Reviewed {
		events = append(events, s.events.Publish(models.NotificationInfo,
			fmt.Sprintf("How was your lesson with %s? Leave a review for booking %s", booking.TeacherName, booking.ID)))
	}
	return &booking, events, nil
}
