package models

import "time"

// IntentType identifies a structured assistant intent.
type IntentType string

const (
	IntentNavigate       IntentType = "navigate"
	IntentFilterTeachers IntentType = "filter_teachers"
	IntentFilterCourses  IntentType = "filter_courses"
)

// Intent is the structured shape delivered by the assistant bridge. The
// engine never sees natural-language content, only this.
type Intent struct {
	Type     IntentType `json:"type" validate:"required,oneof=navigate filter_teachers filter_courses"`
	Target   string     `json:"target,omitempty"`
	Niche    string     `json:"niche,omitempty"`
	MaxPrice float64    `json:"max_price,omitempty"`
	Topic    string     `json:"topic,omitempty"`
	Level    string     `json:"level,omitempty"`
}

// NavigationState is the UI-facing state the orchestration layer maintains
// from applied intents.
type NavigationState struct {
	CurrentPage   string        `json:"current_page"`
	TeacherFilter TeacherFilter `json:"-"`
	CourseFilter  CourseFilter  `json:"-"`
}

// ThreadMessage is one entry in a conversation thread.
type ThreadMessage struct {
	ID        string    `json:"id"`
	ThreadID  string    `json:"thread_id"`
	AuthorID  string    `json:"author_id"`
	Body      string    `json:"body"`
	Simulated bool      `json:"simulated"`
	CreatedAt time.Time `json:"created_at"`
}
