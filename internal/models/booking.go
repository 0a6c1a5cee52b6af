package models

import "time"

// BookingStatus represents the lifecycle of a booking.
type BookingStatus string

// Possible booking statuses.
const (
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
	BookingStatusDisputed  BookingStatus = "DISPUTED"
)

// CanTransitionTo reports whether a status change is legal. The only legal
// moves are CONFIRMED→COMPLETED, CONFIRMED→DISPUTED and COMPLETED→DISPUTED;
// nothing ever returns to CONFIRMED.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case BookingStatusConfirmed:
		return next == BookingStatusCompleted || next == BookingStatusDisputed
	case BookingStatusCompleted:
		return next == BookingStatusDisputed
	default:
		return false
	}
}

// Booking captures a confirmed lesson reservation. TeacherName and Price are
// snapshots taken from the teacher at creation time; later teacher edits must
// never leak into an existing booking.
type Booking struct {
	ID          string        `json:"id"`
	TeacherID   string        `json:"teacher_id"`
	StudentID   string        `json:"student_id"`
	TeacherName string        `json:"teacher_name"`
	Price       float64       `json:"price"`
	Date        string        `json:"date"`
	Slot        string        `json:"slot"`
	Status      BookingStatus `json:"status"`
	Reviewed    bool          `json:"reviewed"`
	CreatedAt   time.Time     `json:"created_at"`
}
