package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/linguamarket/linguamarket-api/internal/models"
	appErrors "github.com/linguamarket/linguamarket-api/pkg/errors"
)

type reputationStore interface {
	TeacherByID(id string) (models.Teacher, bool)
	PutTeacher(t models.Teacher)
	BookingByID(id string) (models.Booking, bool)
	PutBooking(b models.Booking)
}

// SubmitReviewRequest rates a completed booking.
type SubmitReviewRequest struct {
	BookingID string `json:"booking_id" validate:"required"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment" validate:"max=2000"`
}

// ReputationService folds reviews into teacher ratings and derives
// commission tiers.
type ReputationService struct {
	store     reputationStore
	events    *Notifier
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewReputationService constructs a ReputationService.
func NewReputationService(store reputationStore, events *Notifier, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *ReputationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReputationService{store: store, events: events, metrics: metrics, validator: validate, logger: logger}
}

// SubmitReview appends a review to the booking's teacher and recomputes the
// teacher's rating from the full review list. Recomputing from scratch keeps
// the result independent of submission order and safe under replay.
func (s *ReputationService) SubmitReview(ctx context.Context, req SubmitReviewRequest, actor models.UserInfo) (*models.Teacher, []models.Notification, error) {
	if actor.ID == "" {
		return nil, nil, appErrors.Clone(appErrors.ErrUnauthorized, "sign in to leave a review")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid review payload")
	}

	booking, ok := s.store.BookingByID(req.BookingID)
	if !ok {
		events := []models.Notification{s.events.Publish(models.NotificationError, "Booking not found")}
		return nil, events, appErrors.Clone(appErrors.ErrNotFound, "booking not found")
	}
	if booking.StudentID != actor.ID {
		s.metrics.RecordOperation("review_submit", false)
		return nil, nil, appErrors.Clone(appErrors.ErrForbidden, "only the booking's student may review it")
	}
	if booking.Status != models.BookingStatusCompleted {
		s.metrics.RecordOperation("review_submit", false)
		events := []models.Notification{s.events.Publish(models.NotificationError, "Only completed lessons can be reviewed")}
		return nil, events, appErrors.Clone(appErrors.ErrPreconditionFailed, "booking is not completed")
	}
	if booking.Reviewed {
		s.metrics.RecordOperation("review_submit", false)
		events := []models.Notification{s.events.Publish(models.NotificationError, "This lesson was already reviewed")}
		return nil, events, appErrors.Clone(appErrors.ErrPreconditionFailed, "booking already reviewed")
	}

	teacher, ok := s.store.TeacherByID(booking.TeacherID)
	if !ok {
		events := []models.Notification{s.events.Publish(models.NotificationError, "Teacher no longer on the roster")}
		return nil, events, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
	}

	review := models.Review{
		ID:          uuid.NewString(),
		BookingID:   booking.ID,
		StudentID:   actor.ID,
		StudentName: actor.FullName,
		Rating:      req.Rating,
		Comment:     req.Comment,
		CreatedAt:   time.Now().UTC(),
	}

	// newest first
	teacher.Reviews = append([]models.Review{review}, teacher.Reviews...)
	teacher.Rating = averageRating(teacher.Reviews)
	teacher.ReviewCount = len(teacher.Reviews)
	teacher.UpdatedAt = review.CreatedAt
	s.store.PutTeacher(teacher)

	booking.Reviewed = true
	s.store.PutBooking(booking)

	s.metrics.RecordOperation("review_submit", true)
	events := []models.Notification{s.events.Publish(models.NotificationSuccess,
		fmt.Sprintf("Thanks for reviewing %s", teacher.FullName))}
	return &teacher, events, nil
}

// TierFor derives the commission tier for a teacher.
func (s *ReputationService) TierFor(teacher models.Teacher) models.Tier {
	return ComputeTier(teacher.ReviewCount, teacher.Rating)
}

// averageRating returns the arithmetic mean over all reviews rounded to one
// decimal place.
func averageRating(reviews []models.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	mean := float64(sum) / float64(len(reviews))
	return math.Round(mean*10) / 10
}

// ComputeTier maps a review count and rating onto a commission tier. Pure
// function, evaluated highest tier first; nothing is ever persisted. The
// rank gate always enforces the full conditions; only the progress bar for
// Pro deliberately ignores the next tier's rating requirement.
func ComputeTier(reviewCount int, rating float64) models.Tier {
	switch {
	case reviewCount >= 100 && rating >= 4.9:
		return models.Tier{
			Rank:              models.TierLegend,
			CommissionPercent: 15,
			ProgressPercent:   100,
			Requirement:       "none",
		}
	case reviewCount >= 50 && rating >= 4.8:
		return models.Tier{
			Rank:              models.TierElite,
			CommissionPercent: 20,
			NextRank:          models.TierLegend,
			ProgressPercent:   clamp01(float64(reviewCount-50)/50) * 100,
			Requirement:       "100 reviews + 4.9 rating",
		}
	case reviewCount >= 10:
		return models.Tier{
			Rank:              models.TierPro,
			CommissionPercent: 25,
			NextRank:          models.TierElite,
			ProgressPercent:   clamp01(float64(reviewCount-10)/40) * 100,
			Requirement:       "50 reviews + 4.8 rating",
		}
	default:
		return models.Tier{
			Rank:              models.TierRookie,
			CommissionPercent: 30,
			NextRank:          models.TierPro,
			ProgressPercent:   clamp01(float64(reviewCount)/10) * 100,
			Requirement:       "10 reviews",
		}
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
