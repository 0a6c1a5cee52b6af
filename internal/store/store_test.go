package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linguamarket/linguamarket-api/internal/models"
)

func TestTeacherCopyOnRead(t *testing.T) {
	s := New()
	s.PutTeacher(models.Teacher{
		ID:     "t1",
		Niches: []string{"spanish"},
		Availability: map[string][]string{
			"monday": {"10:00"},
		},
	})

	got, ok := s.TeacherByID("t1")
	require.True(t, ok)

	got.Niches[0] = "mutated"
	got.Availability["monday"][0] = "mutated"

	fresh, _ := s.TeacherByID("t1")
	assert.Equal(t, "spanish", fresh.Niches[0])
	assert.Equal(t, "10:00", fresh.Availability["monday"][0])
}

func TestReplaceTeachersSwapsWholeCollection(t *testing.T) {
	s := New()
	s.PutTeacher(models.Teacher{ID: "old"})

	s.ReplaceTeachers([]models.Teacher{{ID: "a"}, {ID: "b"}})

	_, ok := s.TeacherByID("old")
	assert.False(t, ok)

	teachers := s.Teachers()
	require.Len(t, teachers, 2)
	assert.Equal(t, "a", teachers[0].ID)
	assert.Equal(t, "b", teachers[1].ID)
}

func TestBookingsNewestFirst(t *testing.T) {
	s := New()
	base := time.Now().UTC()
	s.PutBooking(models.Booking{ID: "b1", StudentID: "stu", CreatedAt: base})
	s.PutBooking(models.Booking{ID: "b2", StudentID: "stu", CreatedAt: base.Add(time.Minute)})
	s.PutBooking(models.Booking{ID: "b3", StudentID: "other", CreatedAt: base.Add(2 * time.Minute)})

	all := s.Bookings()
	require.Len(t, all, 3)
	assert.Equal(t, "b3", all[0].ID)

	mine := s.BookingsByStudent("stu")
	require.Len(t, mine, 2)
	assert.Equal(t, "b2", mine[0].ID)
	assert.Equal(t, "b1", mine[1].ID)
}

func TestOwnedCourseIdempotent(t *testing.T) {
	s := New()
	assert.True(t, s.AddOwnedCourse("stu", "crs"))
	assert.False(t, s.AddOwnedCourse("stu", "crs"))
	assert.True(t, s.OwnsCourse("stu", "crs"))
	assert.Equal(t, []string{"crs"}, s.OwnedCourses("stu"))
}

func TestCompletedLessonsUnion(t *testing.T) {
	s := New()
	assert.True(t, s.AddCompletedLesson("stu", "crs", "l2"))
	assert.True(t, s.AddCompletedLesson("stu", "crs", "l1"))
	assert.False(t, s.AddCompletedLesson("stu", "crs", "l1"))

	assert.Equal(t, []string{"l1", "l2"}, s.CompletedLessons("stu", "crs"))
}

func TestRemoveTeacher(t *testing.T) {
	s := New()
	s.PutTeacher(models.Teacher{ID: "t1"})

	assert.True(t, s.RemoveTeacher("t1"))
	assert.False(t, s.RemoveTeacher("t1"))
	assert.Empty(t, s.Teachers())
}
