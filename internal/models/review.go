package models

import "time"

// Review is an immutable student rating attached to a teacher.
// A booking produces at most one review.
type Review struct {
	ID          string    `json:"id"`
	BookingID   string    `json:"booking_id"`
	StudentID   string    `json:"student_id"`
	StudentName string    `json:"student_name"`
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment"`
	CreatedAt   time.Time `json:"created_at"`
}
