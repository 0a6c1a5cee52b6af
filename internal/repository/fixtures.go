package repository

import (
	"time"

	"github.com/linguamarket/linguamarket-api/internal/models"
)

var fixtureEpoch = time.Date(2025, time.January, 6, 9, 0, 0, 0, time.UTC)

// FixtureTeachers returns the built-in teacher catalog used when the remote
// store is unreachable. Engines treat fixture and remote data identically.
func FixtureTeachers() []models.Teacher {
	return []models.Teacher{
		{
			ID:         "tch-sarah-connor",
			FullName:   "Sarah Connor",
			Email:      "sarah.connor@linguamarket.dev",
			Niches:     []string{"business-english", "interview-prep"},
			HourlyRate: 150,
			Verified:   true,
			Availability: map[string][]string{
				"monday":    {"09:00", "10:00", "11:00"},
				"wednesday": {"14:00", "15:00"},
				"friday":    {"10:00", "11:00"},
			},
			CreatedAt: fixtureEpoch,
			UpdatedAt: fixtureEpoch,
		},
		{
			ID:         "tch-diego-ramirez",
			FullName:   "Diego Ramirez",
			Email:      "diego.ramirez@linguamarket.dev",
			Niches:     []string{"conversational-spanish", "travel"},
			HourlyRate: 85,
			Verified:   true,
			Availability: map[string][]string{
				"tuesday":  {"08:00", "09:00"},
				"thursday": {"18:00", "19:00", "20:00"},
			},
			CreatedAt: fixtureEpoch.Add(time.Hour),
			UpdatedAt: fixtureEpoch.Add(time.Hour),
		},
		{
			ID:         "tch-amelie-laurent",
			FullName:   "Amelie Laurent",
			Email:      "amelie.laurent@linguamarket.dev",
			Niches:     []string{"french", "exam-prep"},
			HourlyRate: 110,
			Verified:   false,
			Availability: map[string][]string{
				"monday":   {"16:00", "17:00"},
				"saturday": {"10:00", "11:00", "12:00"},
			},
			CreatedAt: fixtureEpoch.Add(2 * time.Hour),
			UpdatedAt: fixtureEpoch.Add(2 * time.Hour),
		},
	}
}

// FixtureCourses returns the built-in course catalog.
func FixtureCourses() []models.Course {
	return []models.Course{
		{
			ID:    "crs-business-english",
			Title: "Business English Essentials",
			Topic: "business-english",
			Level: "intermediate",
			Price: 199,
			Modules: []models.CourseModule{
				{ID: "mod-meetings", Title: "Meetings & Presentations", LessonIDs: []string{"les-m1", "les-m2", "les-m3"}},
				{ID: "mod-email", Title: "Professional Writing", LessonIDs: []string{"les-e1", "les-e2"}},
			},
		},
		{
			ID:    "crs-spanish-basics",
			Title: "Spanish for Travelers",
			Topic: "conversational-spanish",
			Level: "beginner",
			Price: 89,
			Modules: []models.CourseModule{
				{ID: "mod-greetings", Title: "Greetings & Small Talk", LessonIDs: []string{"les-g1", "les-g2"}},
				{ID: "mod-directions", Title: "Getting Around", LessonIDs: []string{"les-d1", "les-d2", "les-d3"}},
			},
		},
	}
}
