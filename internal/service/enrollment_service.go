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

type enrollmentStore interface {
	CourseByID(id string) (models.Course, bool)
	Courses() []models.Course
	OwnsCourse(studentID, courseID string) bool
	AddOwnedCourse(studentID, courseID string) bool
	OwnedCourses(studentID string) []string
	AddCompletedLesson(studentID, courseID, lessonID string) bool
	CompletedLessons(studentID, courseID string) []string
}

type certificateRenderer interface {
	Render(data models.CertificateData) ([]byte, error)
}

type certificateStorage interface {
	Save(filename string, data []byte) (string, error)
}

type certificateSigner interface {
	Generate(certID, relPath string) (string, time.Time, error)
}

// PurchaseResult signals course ownership after a purchase call. A repeated
// purchase is not an error; AlreadyOwned tells the caller to redirect to the
// classroom instead.
type PurchaseResult struct {
	CourseID     string `json:"course_id"`
	AlreadyOwned bool   `json:"already_owned"`
}

// CompleteLessonRequest marks one lesson as done.
type CompleteLessonRequest struct {
	LessonID string `json:"lesson_id" validate:"required"`
}

// CertificateResult wraps the issued certificate and an optional signed
// download token for the rendered PDF.
type CertificateResult struct {
	Certificate   models.CertificateData `json:"certificate"`
	DownloadToken string                 `json:"download_token,omitempty"`
	ExpiresAt     *time.Time             `json:"expires_at,omitempty"`
}

// EnrollmentService tracks course ownership, lesson progress and certificate
// issuance.
type EnrollmentService struct {
	store     enrollmentStore
	events    *Notifier
	metrics   *MetricsService
	renderer  certificateRenderer
	storage   certificateStorage
	signer    certificateSigner
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEnrollmentService constructs an EnrollmentService. Renderer, storage and
// signer may be nil; certificates are then issued as data only.
func NewEnrollmentService(store enrollmentStore, events *Notifier, metrics *MetricsService, renderer certificateRenderer, storage certificateStorage, signer certificateSigner, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{
		store:     store,
		events:    events,
		metrics:   metrics,
		renderer:  renderer,
		storage:   storage,
		signer:    signer,
		validator: validate,
		logger:    logger,
	}
}

// ListCourses returns catalog courses matching the filter.
func (s *EnrollmentService) ListCourses(ctx context.Context, filter models.CourseFilter) []models.Course {
	all := s.store.Courses()
	out := make([]models.Course, 0, len(all))
	for _, c := range all {
		if filter.Matches(c) {
			out = append(out, c)
		}
	}
	return out
}

// Course returns one catalog course.
func (s *EnrollmentService) Course(ctx context.Context, id string) (*models.Course, error) {
	course, ok := s.store.CourseByID(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}
	return &course, nil
}

// Purchase adds the course to the actor's owned set. Owning it already is a
// no-op that signals AlreadyOwned, both times.
func (s *EnrollmentService) Purchase(ctx context.Context, courseID string, actor models.UserInfo) (*PurchaseResult, []models.Notification, error) {
	if actor.ID == "" {
		return nil, nil, appErrors.Clone(appErrors.ErrUnauthorized, "sign in to purchase a course")
	}
	course, ok := s.store.CourseByID(courseID)
	if !ok {
		events := []models.Notification{s.events.Publish(models.NotificationError, "Course not found")}
		return nil, events, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}

	if !s.store.AddOwnedCourse(actor.ID, courseID) {
		events := []models.Notification{s.events.Publish(models.NotificationInfo,
			fmt.Sprintf("You already own %s", course.Title))}
		return &PurchaseResult{CourseID: courseID, AlreadyOwned: true}, events, nil
	}

	s.metrics.RecordOperation("course_purchase", true)
	events := []models.Notification{s.events.Publish(models.NotificationSuccess,
		fmt.Sprintf("%s added to your courses", course.Title))}
	return &PurchaseResult{CourseID: courseID}, events, nil
}

// Owned lists the actor's owned course ids.
func (s *EnrollmentService) Owned(ctx context.Context, actor models.UserInfo) ([]string, error) {
	if actor.ID == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "sign in to view your courses")
	}
	return s.store.OwnedCourses(actor.ID), nil
}

// CompleteLesson unions the lesson into the course's progress set. Repeating
// the call with the same lesson leaves the set unchanged.
func (s *EnrollmentService) CompleteLesson(ctx context.Context, courseID string, req CompleteLessonRequest, actor models.UserInfo) (*models.CourseProgress, []models.Notification, error) {
	if actor.ID == "" {
		return nil, nil, appErrors.Clone(appErrors.ErrUnauthorized, "sign in to track progress")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lesson payload")
	}
	course, ok := s.store.CourseByID(courseID)
	if !ok {
		events := []models.Notification{s.events.Publish(models.NotificationError, "Course not found")}
		return nil, events, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}

	var events []models.Notification
	if s.store.AddCompletedLesson(actor.ID, courseID, req.LessonID) {
		s.metrics.RecordOperation("lesson_progress", true)
		events = append(events, s.events.Publish(models.NotificationSuccess, "Lesson marked as completed"))
	} else {
		events = append(events, s.events.Publish(models.NotificationInfo, "Lesson was already completed"))
	}

	progress := s.progressFor(actor.ID, course)
	return &progress, events, nil
}

// Progress returns the actor's position in a course.
func (s *EnrollmentService) Progress(ctx context.Context, courseID string, actor models.UserInfo) (*models.CourseProgress, error) {
	if actor.ID == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "sign in to view progress")
	}
	course, ok := s.store.CourseByID(courseID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}
	progress := s.progressFor(actor.ID, course)
	return &progress, nil
}

// IssueCertificate produces the certificate value for an owned course and,
// when a renderer is wired, a signed download token for the PDF. Issuance
// does not require full lesson coverage; the completion ratio travels with
// the certificate so callers can gate on it.
func (s *EnrollmentService) IssueCertificate(ctx context.Context, courseID string, actor models.UserInfo) (*CertificateResult, []models.Notification, error) {
	if actor.ID == "" {
		return nil, nil, appErrors.Clone(appErrors.ErrUnauthorized, "sign in to request a certificate")
	}
	course, ok := s.store.CourseByID(courseID)
	if !ok {
		events := []models.Notification{s.events.Publish(models.NotificationError, "Course not found")}
		return nil, events, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}
	if !s.store.OwnsCourse(actor.ID, courseID) {
		events := []models.Notification{s.events.Publish(models.NotificationError, "Purchase the course to earn its certificate")}
		return nil, events, appErrors.Clone(appErrors.ErrPreconditionFailed, "course not owned")
	}

	progress := s.progressFor(actor.ID, course)
	result := &CertificateResult{
		Certificate: models.CertificateData{
			StudentName:     actor.FullName,
			CourseTitle:     course.Title,
			IssueDate:       time.Now().UTC(),
			PercentComplete: progress.PercentComplete,
		},
	}

	if s.renderer != nil && s.storage != nil && s.signer != nil {
		certID := uuid.NewString()
		pdf, err := s.renderer.Render(result.Certificate)
		if err != nil {
			return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render certificate")
		}
		relPath := fmt.Sprintf("%s/%s.pdf", actor.ID, certID)
		if _, err := s.storage.Save(relPath, pdf); err != nil {
			return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store certificate")
		}
		token, expiresAt, err := s.signer.Generate(certID, relPath)
		if err != nil {
			return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign certificate link")
		}
		result.DownloadToken = token
		result.ExpiresAt = &expiresAt
	}

	s.metrics.RecordOperation("certificate_issue", true)
	events := []models.Notification{s.events.Publish(models.NotificationSuccess,
		fmt.Sprintf("Certificate issued for %s", course.Title))}
	return result, events, nil
}

func (s *EnrollmentService) progressFor(studentID string, course models.Course) models.CourseProgress {
	completed := s.store.CompletedLessons(studentID, course.ID)
	total := course.TotalLessons()
	percent := 0.0
	if total > 0 {
		percent = float64(len(completed)) / float64(total) * 100
	}
	return models.CourseProgress{
		CourseID:         course.ID,
		CompletedLessons: completed,
		TotalLessons:     total,
		PercentComplete:  percent,
	}
}
