package store

import (
	"sort"
	"sync"

	"github.com/linguamarket/linguamarket-api/internal/models"
)

// Store is the in-memory authoritative aggregate for marketplace entities.
// All mutations are serialized behind a single mutex; reads hand out copies
// so callers can never mutate shared state behind the engine's back.
type Store struct {
	mu sync.RWMutex

	users    map[string]models.User
	teachers map[string]models.Teacher
	bookings map[string]models.Booking
	disputes map[string]models.Dispute
	courses  map[string]models.Course

	// per student: owned course ids and completed lesson ids per course
	owned    map[string]map[string]struct{}
	progress map[string]map[string]map[string]struct{}

	// stable listing order for collections loaded or created over time
	teacherOrder []string
	courseOrder  []string
}

// New constructs an empty store.
func New() *Store {
	return &Store{
		users:    make(map[string]models.User),
		teachers: make(map[string]models.Teacher),
		bookings: make(map[string]models.Booking),
		disputes: make(map[string]models.Dispute),
		courses:  make(map[string]models.Course),
		owned:    make(map[string]map[string]struct{}),
		progress: make(map[string]map[string]map[string]struct{}),
	}
}

// --- users ---

// UserByID returns a copy of a user.
func (s *Store) UserByID(id string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	return u, ok
}

// UserByEmail returns a copy of a user looked up by email.
func (s *Store) UserByEmail(email string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, true
		}
	}
	return models.User{}, false
}

// PutUser inserts or replaces a user.
func (s *Store) PutUser(u models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

// --- teachers ---

// TeacherByID returns a deep copy of a teacher.
func (s *Store) TeacherByID(id string) (models.Teacher, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.teachers[id]
	if !ok {
		return models.Teacher{}, false
	}
	return copyTeacher(t), true
}

// PutTeacher inserts or replaces a teacher, preserving listing order for
// existing entries.
func (s *Store) PutTeacher(t models.Teacher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.teachers[t.ID]; !exists {
		s.teacherOrder = append(s.teacherOrder, t.ID)
	}
	s.teachers[t.ID] = copyTeacher(t)
}

// RemoveTeacher deletes a teacher from the roster.
func (s *Store) RemoveTeacher(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.teachers[id]; !ok {
		return false
	}
	delete(s.teachers, id)
	for i, tid := range s.teacherOrder {
		if tid == id {
			s.teacherOrder = append(s.teacherOrder[:i], s.teacherOrder[i+1:]...)
			break
		}
	}
	return true
}

// Teachers returns copies of all teachers in stable listing order.
func (s *Store) Teachers() []models.Teacher {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Teacher, 0, len(s.teacherOrder))
	for _, id := range s.teacherOrder {
		if t, ok := s.teachers[id]; ok {
			out = append(out, copyTeacher(t))
		}
	}
	return out
}

// ReplaceTeachers swaps the entire teacher collection atomically. Used when
// a catalog fetch lands; partial merges are deliberately not supported.
func (s *Store) ReplaceTeachers(teachers []models.Teacher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teachers = make(map[string]models.Teacher, len(teachers))
	s.teacherOrder = make([]string, 0, len(teachers))
	for _, t := range teachers {
		s.teachers[t.ID] = copyTeacher(t)
		s.teacherOrder = append(s.teacherOrder, t.ID)
	}
}

// --- bookings ---

// BookingByID returns a copy of a booking.
func (s *Store) BookingByID(id string) (models.Booking, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bookings[id]
	return b, ok
}

// PutBooking inserts or replaces a booking.
func (s *Store) PutBooking(b models.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings[b.ID] = b
}

// Bookings returns copies of all bookings, newest first.
func (s *Store) Bookings() []models.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// BookingsByStudent returns copies of one student's bookings, newest first.
func (s *Store) BookingsByStudent(studentID string) []models.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Booking
	for _, b := range s.bookings {
		if b.StudentID == studentID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// --- disputes ---

// DisputeByID returns a copy of a dispute.
func (s *Store) DisputeByID(id string) (models.Dispute, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.disputes[id]
	return d, ok
}

// PutDispute inserts or replaces a dispute.
func (s *Store) PutDispute(d models.Dispute) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disputes[d.ID] = d
}

// Disputes returns copies of all disputes, newest first.
func (s *Store) Disputes() []models.Dispute {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Dispute, 0, len(s.disputes))
	for _, d := range s.disputes {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// --- courses ---

// CourseByID returns a deep copy of a course.
func (s *Store) CourseByID(id string) (models.Course, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.courses[id]
	if !ok {
		return models.Course{}, false
	}
	return copyCourse(c), true
}

// Courses returns copies of all courses in stable listing order.
func (s *Store) Courses() []models.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Course, 0, len(s.courseOrder))
	for _, id := range s.courseOrder {
		if c, ok := s.courses[id]; ok {
			out = append(out, copyCourse(c))
		}
	}
	return out
}

// ReplaceCourses swaps the entire course catalog atomically.
func (s *Store) ReplaceCourses(courses []models.Course) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.courses = make(map[string]models.Course, len(courses))
	s.courseOrder = make([]string, 0, len(courses))
	for _, c := range courses {
		s.courses[c.ID] = copyCourse(c)
		s.courseOrder = append(s.courseOrder, c.ID)
	}
}

// --- enrollment & progress ---

// OwnsCourse reports whether the student already owns the course.
func (s *Store) OwnsCourse(studentID, courseID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.owned[studentID][courseID]
	return ok
}

// AddOwnedCourse records ownership. Returns false when the course was
// already owned; the owned set never holds duplicates.
func (s *Store) AddOwnedCourse(studentID, courseID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.owned[studentID]
	if !ok {
		set = make(map[string]struct{})
		s.owned[studentID] = set
	}
	if _, exists := set[courseID]; exists {
		return false
	}
	set[courseID] = struct{}{}
	return true
}

// OwnedCourses returns the student's owned course ids, sorted for stable output.
func (s *Store) OwnedCourses(studentID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.owned[studentID]))
	for id := range s.owned[studentID] {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// AddCompletedLesson unions a lesson into the student's progress for the
// course. Returns false when the lesson was already present. Progress only
// ever grows.
func (s *Store) AddCompletedLesson(studentID, courseID, lessonID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	byCourse, ok := s.progress[studentID]
	if !ok {
		byCourse = make(map[string]map[string]struct{})
		s.progress[studentID] = byCourse
	}
	set, ok := byCourse[courseID]
	if !ok {
		set = make(map[string]struct{})
		byCourse[courseID] = set
	}
	if _, exists := set[lessonID]; exists {
		return false
	}
	set[lessonID] = struct{}{}
	return true
}

// CompletedLessons returns the student's completed lesson ids for a course,
// sorted for stable output.
func (s *Store) CompletedLessons(studentID, courseID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set := s.progress[studentID][courseID]
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func copyTeacher(t models.Teacher) models.Teacher {
	out := t
	out.Niches = append([]string(nil), t.Niches...)
	out.Reviews = append([]models.Review(nil), t.Reviews...)
	if t.Availability != nil {
		out.Availability = make(map[string][]string, len(t.Availability))
		for day, slots := range t.Availability {
			out.Availability[day] = append([]string(nil), slots...)
		}
	}
	return out
}

func copyCourse(c models.Course) models.Course {
	out := c
	out.Modules = make([]models.CourseModule, len(c.Modules))
	for i, m := range c.Modules {
		cm := m
		cm.LessonIDs = append([]string(nil), m.LessonIDs...)
		out.Modules[i] = cm
	}
	return out
}
