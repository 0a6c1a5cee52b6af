package models

import "time"

// CourseProgress summarises a student's position in one owned course.
type CourseProgress struct {
	CourseID         string   `json:"course_id"`
	CompletedLessons []string `json:"completed_lessons"`
	TotalLessons     int      `json:"total_lessons"`
	PercentComplete  float64  `json:"percent_complete"`
}

// CertificateData is the value produced by certificate issuance.
type CertificateData struct {
	StudentName     string    `json:"student_name"`
	CourseTitle     string    `json:"course_title"`
	IssueDate       time.Time `json:"issue_date"`
	PercentComplete float64   `json:"percent_complete"`
}
