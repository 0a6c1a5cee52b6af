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

type disputeStore interface {
	BookingByID(id string) (models.Booking, bool)
	PutBooking(b models.Booking)
	DisputeByID(id string) (models.Dispute, bool)
	PutDispute(d models.Dispute)
	Disputes() []models.Dispute
}

// FileDisputeRequest escalates a booking.
type FileDisputeRequest struct {
	Reason      models.DisputeReason `json:"reason" validate:"required"`
	Description string               `json:"description" validate:"required,max=4000"`
}

// ResolveDisputeRequest closes a dispute with a resolution payload.
type ResolveDisputeRequest struct {
	Resolution string `json:"resolution" validate:"required,max=4000"`
}

// DisputeService runs the dispute workflow: OPEN→RESOLVED, nothing else.
type DisputeService struct {
	store     disputeStore
	events    *Notifier
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewDisputeService constructs a DisputeService.
func NewDisputeService(store disputeStore, events *Notifier, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *DisputeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DisputeService{store: store, events: events, metrics: metrics, validator: validate, logger: logger}
}

// List returns all disputes, newest first.
func (s *DisputeService) List(ctx context.Context) []models.Dispute {
	return s.store.Disputes()
}

// Get returns a dispute by id.
func (s *DisputeService) Get(ctx context.Context, id string) (*models.Dispute, error) {
	dispute, ok := s.store.DisputeByID(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "dispute not found")
	}
	return &dispute, nil
}

// File escalates a booking: the booking moves to DISPUTED and an OPEN
// dispute is created carrying a snapshot of the teacher's name.
func (s *DisputeService) File(ctx context.Context, bookingID string, req FileDisputeRequest, actor models.UserInfo) (*models.Dispute, []models.Notification, error) {
	if actor.ID == "" {
		return nil, nil, appErrors.Clone(appErrors.ErrUnauthorized, "sign in to file a dispute")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid dispute payload")
	}
	if !models.ValidDisputeReason(req.Reason) {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "unknown dispute reason")
	}

	booking, ok := s.store.BookingByID(bookingID)
	if !ok {
		events := []models.Notification{s.events.Publish(models.NotificationError, "Booking not found")}
		return nil, events, appErrors.Clone(appErrors.ErrNotFound, "booking not found")
	}
	if !booking.Status.CanTransitionTo(models.BookingStatusDisputed) {
		s.metrics.RecordOperation("dispute_file", false)
		events := []models.Notification{s.events.Publish(models.NotificationError, "Booking is already disputed")}
		return nil, events, appErrors.Clone(appErrors.ErrPreconditionFailed, "booking already disputed")
	}

	dispute := models.Dispute{
		ID:             uuid.NewString(),
		BookingID:      booking.ID,
		ReporterID:     actor.ID,
		RespondentName: booking.TeacherName,
		Reason:         req.Reason,
		Description:    req.Description,
		Status:         models.DisputeStatusOpen,
		CreatedAt:      time.Now().UTC(),
	}
	s.store.PutDispute(dispute)

	booking.Status = models.BookingStatusDisputed
	s.store.PutBooking(booking)

	s.metrics.RecordOperation("dispute_file", true)
	events := []models.Notification{s.events.Publish(models.NotificationInfo,
		fmt.Sprintf("Dispute filed against %s, our team will review it", dispute.RespondentName))}
	return &dispute, events, nil
}

// Resolve closes an open dispute. The linked booking stays DISPUTED as a
// permanent audit marker.
func (s *DisputeService) Resolve(ctx context.Context, disputeID string, req ResolveDisputeRequest, actor models.UserInfo) (*models.Dispute, []models.Notification, error) {
	if actor.Role != models.RoleAdmin {
		return nil, nil, appErrors.Clone(appErrors.ErrForbidden, "administrative privilege required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid resolution payload")
	}

	dispute, ok := s.store.DisputeByID(disputeID)
	if !ok {
		events := []models.Notification{s.events.Publish(models.NotificationError, "Dispute not found")}
		return nil, events, appErrors.Clone(appErrors.ErrNotFound, "dispute not found")
	}
	if dispute.Status == models.DisputeStatusResolved {
		s.metrics.RecordOperation("dispute_resolve", false)
		events := []models.Notification{s.events.Publish(models.NotificationInfo, "Dispute already resolved")}
		return &dispute, events, appErrors.Clone(appErrors.ErrPreconditionFailed, "dispute already resolved")
	}

	now := time.Now().UTC()
	resolution := req.Resolution
	dispute.Status = models.DisputeStatusResolved
	dispute.Resolution = &resolution
	dispute.ResolvedAt = &now
	s.store.PutDispute(dispute)

	s.metrics.RecordOperation("dispute_resolve", true)
	events := []models.Notification{s.events.Publish(models.NotificationSuccess, "Dispute resolved")}
	return &dispute, events, nil
}
