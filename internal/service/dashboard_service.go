package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/linguamarket/linguamarket-api/internal/models"
	appErrors "github.com/linguamarket/linguamarket-api/pkg/errors"
)

const dashboardRecentLimit = 5

type dashboardStore interface {
	TeacherByID(id string) (models.Teacher, bool)
	Bookings() []models.Booking
}

// TeacherDashboard is the aggregate a teacher sees on their home screen.
type TeacherDashboard struct {
	Teacher        models.Teacher   `json:"teacher"`
	Tier           models.Tier      `json:"tier"`
	RecentBookings []models.Booking `json:"recent_bookings"`
	EarnedTotal    float64          `json:"earned_total"`
}

// DashboardService assembles read-only teacher snapshots. Everything here is
// derived on each call; nothing is cached or persisted.
type DashboardService struct {
	store  dashboardStore
	logger *zap.Logger
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(store dashboardStore, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{store: store, logger: logger}
}

// TeacherSnapshot returns the dashboard aggregate for one teacher. Earnings
// sum the snapshotted prices of completed bookings, so later rate changes do
// not rewrite history.
func (s *DashboardService) TeacherSnapshot(ctx context.Context, teacherID string) (*TeacherDashboard, error) {
	teacher, ok := s.store.TeacherByID(teacherID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
	}

	recent := make([]models.Booking, 0, dashboardRecentLimit)
	earned := 0.0
	for _, b := range s.store.Bookings() {
		if b.TeacherID != teacherID {
			continue
		}
		if len(recent) < dashboardRecentLimit {
			recent = append(recent, b)
		}
		if b.Status == models.BookingStatusCompleted {
			earned += b.Price
		}
	}

	return &TeacherDashboard{
		Teacher:        teacher,
		Tier:           ComputeTier(teacher.ReviewCount, teacher.Rating),
		RecentBookings: recent,
		EarnedTotal:    earned,
	}, nil
}
