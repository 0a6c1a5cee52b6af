package models

import "time"

// Teacher represents a marketplace instructor profile.
//
// Rating and ReviewCount are derived from Reviews and recomputed from
// scratch on every review mutation; they are never maintained as
// incremental counters.
type Teacher struct {
	ID           string              `json:"id"`
	FullName     string              `json:"full_name"`
	Email        string              `json:"email"`
	Niches       []string            `json:"niches"`
	HourlyRate   float64             `json:"hourly_rate"`
	Verified     bool                `json:"verified"`
	Rating       float64             `json:"rating"`
	ReviewCount  int                 `json:"review_count"`
	Reviews      []Review            `json:"reviews"`
	Availability map[string][]string `json:"availability"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// TeacherFilter captures filtering options for listing teachers.
type TeacherFilter struct {
	Niche    string
	MaxPrice float64
	Search   string
	Verified *bool
}

// Matches reports whether the teacher satisfies the filter.
func (f TeacherFilter) Matches(t Teacher) bool {
	if f.Niche != "" {
		found := false
		for _, n := range t.Niches {
			if n == f.Niche {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.MaxPrice > 0 && t.HourlyRate > f.MaxPrice {
		return false
	}
	if f.Verified != nil && t.Verified != *f.Verified {
		return false
	}
	return true
}
