package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/linguamarket/linguamarket-api/internal/models"
	"github.com/linguamarket/linguamarket-api/internal/store"
	appErrors "github.com/linguamarket/linguamarket-api/pkg/errors"
)

func TestTeacherSnapshot(t *testing.T) {
	entities := store.New()
	entities.PutTeacher(models.Teacher{
		ID: "tch-1", FullName: "Sarah Connor", Rating: 4.8, ReviewCount: 50, HourlyRate: 300,
	})

	base := time.Now().UTC()
	for i := 0; i < 7; i++ {
		status := models.BookingStatusCompleted
		if i%2 == 0 {
			status = models.BookingStatusConfirmed
		}
		entities.PutBooking(models.Booking{
			ID:        fmt.Sprintf("bkg-%d", i),
			TeacherID: "tch-1",
			Price:     150,
			Status:    status,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
	entities.PutBooking(models.Booking{ID: "other", TeacherID: "tch-2", Price: 999, Status: models.BookingStatusCompleted, CreatedAt: base})

	svc := NewDashboardService(entities, zap.NewNop())
	snapshot, err := svc.TeacherSnapshot(context.Background(), "tch-1")
	require.NoError(t, err)

	assert.Equal(t, models.TierElite, snapshot.Tier.Rank)
	assert.Len(t, snapshot.RecentBookings, 5)
	assert.Equal(t, "bkg-6", snapshot.RecentBookings[0].ID)
	// earnings sum snapshot prices of the three completed bookings only
	assert.Equal(t, 450.0, snapshot.EarnedTotal)
}

func TestTeacherSnapshotNotFound(t *testing.T) {
	svc := NewDashboardService(store.New(), zap.NewNop())

	_, err := svc.TeacherSnapshot(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}
